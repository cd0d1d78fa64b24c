// Package preview renders the live thumbnail with the recording status and
// hands it to a window.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// DefaultSize is the longest edge of the thumbnail.
const DefaultSize = 256

// Window shows rendered previews and reports the user's wish to stop.
type Window interface {
	Show(img *image.RGBA) error
	// StopRequested polls pending input; true means q, ESC or the window
	// was closed.
	StopRequested() bool
	Close() error
}

type textLine struct {
	text string
	y    int
}

// Preview is the display sink of a session.
type Preview struct {
	window    Window
	size      int
	outputFPS int
	startTime time.Time
	now       func() time.Time
	face      font.Face
}

type Option func(*Preview)

// WithClock replaces time.Now for the elapsed time readout.
func WithClock(now func() time.Time) Option {
	return func(p *Preview) { p.now = now }
}

// WithSize sets the longest thumbnail edge.
func WithSize(size int) Option {
	return func(p *Preview) {
		if size > 0 {
			p.size = size
		}
	}
}

func New(window Window, outputFPS int, opts ...Option) *Preview {
	p := &Preview{
		window:    window,
		size:      DefaultSize,
		outputFPS: outputFPS,
		now:       time.Now,
		face:      basicfont.Face7x13,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.startTime = p.now()
	return p
}

// ThumbnailSize scales the longest edge to the preview size; the other edge
// is truncated.
func (p *Preview) ThumbnailSize(width, height int) (int, int) {
	var w, h int
	if width > height {
		w = p.size
		h = int(float64(p.size) / float64(width) * float64(height))
	} else {
		h = p.size
		w = int(float64(p.size) / float64(height) * float64(width))
	}
	return max(w, 1), max(h, 1)
}

// StatusLines is the overlay text for frameCount recorded frames after
// elapsed wall time.
func (p *Preview) StatusLines(frameCount int, elapsed time.Duration) []string {
	return []string{
		fmt.Sprintf("Frames recorded: %d", frameCount),
		fmt.Sprintf("Elapsed: %.1fs", elapsed.Seconds()),
		fmt.Sprintf("Video length: %.2fs", float64(frameCount)/float64(p.outputFPS)),
		"Recording...",
		"Press Q/ESC to exit.",
	}
}

// Render downscales f and draws the status overlay on it.
func (p *Preview) Render(f frame.Frame, frameCount int) *image.RGBA {
	w, h := p.ThumbnailSize(f.Width, f.Height)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := f.ToRGBA()
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	status := p.StatusLines(frameCount, p.now().Sub(p.startTime))
	lines := []textLine{
		{status[0], 25},
		{status[1], 40},
		{status[2], 55},
		{status[3], 115},
		{status[4], 130},
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: p.face,
	}
	for _, l := range lines {
		d.Dot = fixed.P(8, l.y)
		d.DrawString(l.text)
	}
	return dst
}

// Display renders f and shows it.
func (p *Preview) Display(f frame.Frame, frameCount int) error {
	return p.window.Show(p.Render(f, frameCount))
}

func (p *Preview) StopRequested() bool {
	return p.window.StopRequested()
}

// Close destroys the window.
func (p *Preview) Close() error {
	return p.window.Close()
}
