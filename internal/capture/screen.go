package capture

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/vedantwpatil/time-elapse-recorder/internal/config"
	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// Screen grabs one display. Every Read is a fresh screenshot.
type Screen struct {
	bounds image.Rectangle
}

func NewScreen(displayIndex int) (*Screen, error) {
	n := screenshot.NumActiveDisplays()
	if displayIndex < 0 || displayIndex >= n {
		return nil, fmt.Errorf("display %d out of range, %d active displays", displayIndex, n)
	}
	return &Screen{bounds: screenshot.GetDisplayBounds(displayIndex)}, nil
}

func openScreen(_ context.Context, cfg *config.Config) (Source, error) {
	return NewScreen(cfg.Capture.DisplayIndex)
}

func (s *Screen) Read() (frame.Frame, error) {
	img, err := screenshot.CaptureRect(s.bounds)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("%w: %v", ErrEndOfStream, err)
	}
	return frame.FromImage(img, time.Now()), nil
}

func (s *Screen) Shape() frame.Shape {
	return frame.Shape{Width: s.bounds.Dx(), Height: s.bounds.Dy(), Channels: 3}
}

func (s *Screen) Close() error { return nil }
