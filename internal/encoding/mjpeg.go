package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// MJPEG writes a Motion-JPEG AVI in process. It needs no external tools.
type MJPEG struct {
	aw      mjpeg.AviWriter
	shape   frame.Shape
	quality int
	buf     bytes.Buffer

	closed   bool
	closeErr error
}

func NewMJPEG(opts Options) (*MJPEG, error) {
	if err := opts.Shape.Validate(); err != nil {
		return nil, err
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("output fps must be positive, got %d", opts.FPS)
	}

	quality := opts.JPEGQuality
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	aw, err := mjpeg.New(opts.Path, int32(opts.Shape.Width), int32(opts.Shape.Height), int32(opts.FPS))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", opts.Path, err)
	}
	return &MJPEG{aw: aw, shape: opts.Shape, quality: quality}, nil
}

func (m *MJPEG) WriteFrame(f frame.Frame) error {
	if m.closed {
		return errors.New("encoder already closed")
	}
	if err := f.Conform(m.shape); err != nil {
		return err
	}
	m.buf.Reset()
	if err := jpeg.Encode(&m.buf, f.ToRGBA(), &jpeg.Options{Quality: m.quality}); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := m.aw.AddFrame(m.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to add frame: %w", err)
	}
	return nil
}

// Close finalizes the AVI index. Calling it again returns the first result.
func (m *MJPEG) Close() error {
	if m.closed {
		return m.closeErr
	}
	m.closed = true
	if err := m.aw.Close(); err != nil {
		m.closeErr = fmt.Errorf("failed to finalize avi: %w", err)
	}
	return m.closeErr
}
