package preview

import (
	"image"

	log "github.com/sirupsen/logrus"
)

// Headless is a Window for machines without a display. It never asks to
// stop; the recorder is then stopped with an interrupt or the hotkey.
type Headless struct {
	shown int
}

func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Show(img *image.RGBA) error {
	h.shown++
	log.WithField("size", img.Bounds().Size()).Tracef("Preview refresh %d", h.shown)
	return nil
}

func (h *Headless) StopRequested() bool { return false }

func (h *Headless) Close() error { return nil }

// Shown is the number of previews rendered so far.
func (h *Headless) Shown() int { return h.shown }
