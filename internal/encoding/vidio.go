package encoding

import (
	"errors"
	"fmt"
	"os/exec"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// Vidio encodes through Vidio's VideoWriter, which manages its own ffmpeg
// process and takes RGBA frames.
type Vidio struct {
	writer *vidio.VideoWriter
	shape  frame.Shape
	closed bool
}

func NewVidio(opts Options) (*Vidio, error) {
	if err := opts.Shape.Validate(); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("%w: the vidio backend needs ffmpeg on PATH", ErrEncoderNotFound)
	}

	options := vidio.Options{
		FPS:   float64(opts.FPS),
		Codec: "libx264",
	}
	writer, err := vidio.NewVideoWriter(opts.Path, opts.Shape.Width, opts.Shape.Height, &options)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize video writer: %w", err)
	}
	return &Vidio{writer: writer, shape: opts.Shape}, nil
}

func (v *Vidio) WriteFrame(f frame.Frame) error {
	if v.closed {
		return errors.New("encoder already closed")
	}
	if err := f.Conform(v.shape); err != nil {
		return err
	}
	if err := v.writer.Write(f.ToRGBA().Pix); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Close waits for Vidio's ffmpeg process. Vidio does not surface the exit
// status, so this never reports an ExitError.
func (v *Vidio) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.writer.Close()
	return nil
}
