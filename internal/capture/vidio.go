package capture

import (
	"context"
	"fmt"
	"time"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/vedantwpatil/time-elapse-recorder/internal/config"
	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// VidioCamera reads a webcam through Vidio, which streams RGBA frames from
// an ffmpeg child process.
type VidioCamera struct {
	camera *vidio.Camera
	shape  frame.Shape
}

func NewVidioCamera(device int) (*VidioCamera, error) {
	camera, err := vidio.NewCamera(device)
	if err != nil {
		return nil, fmt.Errorf("unable to open camera %d: %w", device, err)
	}
	return &VidioCamera{
		camera: camera,
		shape:  frame.Shape{Width: camera.Width(), Height: camera.Height(), Channels: 3},
	}, nil
}

func openVidio(_ context.Context, cfg *config.Config) (Source, error) {
	return NewVidioCamera(cfg.Capture.Device)
}

func (c *VidioCamera) Read() (frame.Frame, error) {
	if !c.camera.Read() {
		return frame.Frame{}, ErrEndOfStream
	}
	return frame.FromRGBABytes(c.camera.FrameBuffer(), c.shape.Width, c.shape.Height, time.Now()), nil
}

func (c *VidioCamera) Shape() frame.Shape { return c.shape }

func (c *VidioCamera) Close() error {
	c.camera.Close()
	return nil
}
