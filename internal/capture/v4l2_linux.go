//go:build linux

package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"

	"github.com/vedantwpatil/time-elapse-recorder/internal/config"
	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// V4L2 streams MJPEG frames straight from a Video4Linux device.
type V4L2 struct {
	dev    *device.Device
	cancel context.CancelFunc
	shape  frame.Shape
	frames <-chan []byte
}

// NewV4L2 opens path asking for width x height MJPEG; zero sizes keep the
// device's current format.
func NewV4L2(ctx context.Context, path string, width, height int) (*V4L2, error) {
	opts := []device.Option{device.WithBufferSize(2)}
	if width > 0 && height > 0 {
		opts = append(opts, device.WithPixFormat(v4l2.PixFormat{
			PixelFormat: v4l2.PixelFmtMJPEG,
			Width:       uint32(width),
			Height:      uint32(height),
		}))
	}
	dev, err := device.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("open device: %w", err)
	}

	pix, err := dev.GetPixFormat()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("read pixel format: %w", err)
	}
	if pix.PixelFormat != v4l2.PixelFmtMJPEG && pix.PixelFormat != v4l2.PixelFmtJPEG {
		dev.Close()
		return nil, fmt.Errorf("device %s does not deliver MJPEG", path)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	if err := dev.Start(streamCtx); err != nil {
		cancel()
		dev.Close()
		return nil, fmt.Errorf("start: %w", err)
	}
	log.WithField("device", path).Debugf("Streaming %dx%d MJPEG", pix.Width, pix.Height)

	return &V4L2{
		dev:    dev,
		cancel: cancel,
		shape:  frame.Shape{Width: int(pix.Width), Height: int(pix.Height), Channels: 3},
		frames: dev.GetOutput(),
	}, nil
}

func openV4L2(ctx context.Context, cfg *config.Config) (Source, error) {
	return NewV4L2(ctx, cfg.Capture.DevicePath, cfg.Capture.Width, cfg.Capture.Height)
}

// Read skips frames the camera delivered truncated.
func (v *V4L2) Read() (frame.Frame, error) {
	for buf := range v.frames {
		f, err := decodeJPEG(buf, time.Now())
		if err != nil {
			log.Warn(err)
			continue
		}
		return f, nil
	}
	return frame.Frame{}, ErrEndOfStream
}

func (v *V4L2) Shape() frame.Shape { return v.shape }

func (v *V4L2) Close() error {
	v.cancel()
	return v.dev.Close()
}

func decodeJPEG(buf []byte, t time.Time) (frame.Frame, error) {
	img, err := jpeg.Decode(bytes.NewReader(buf))
	if err != nil {
		return frame.Frame{}, fmt.Errorf("%w: undecodable MJPEG frame: %v", frame.ErrInvalidFrame, err)
	}
	return frame.FromImage(img, t), nil
}
