// Package opencv holds the capture source and preview window backed by
// OpenCV through gocv. Importing it registers the "camera" source.
package opencv

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/vedantwpatil/time-elapse-recorder/internal/capture"
	"github.com/vedantwpatil/time-elapse-recorder/internal/config"
	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

func init() {
	capture.Register(config.SourceCamera, func(_ context.Context, cfg *config.Config) (capture.Source, error) {
		return NewCamera(cfg.Capture.Device, cfg.Preview.DisplayFPS, cfg.Capture.Width, cfg.Capture.Height)
	})
}

// Camera reads BGR frames from a VideoCapture device.
type Camera struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
	bgr     gocv.Mat
	shape   frame.Shape
}

// NewCamera opens device. The driver buffer is kept at two frames so reads
// stay close to real time, and fpsHint is passed on as the requested rate.
func NewCamera(device, fpsHint, width, height int) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("unable to open camera %d: %w", device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera %d is not available", device)
	}

	vc.Set(gocv.VideoCaptureBufferSize, 2)
	vc.Set(gocv.VideoCaptureFPS, float64(fpsHint))
	if width > 0 && height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}

	c := &Camera{
		capture: vc,
		mat:     gocv.NewMat(),
		bgr:     gocv.NewMat(),
		shape: frame.Shape{
			Width:    int(vc.Get(gocv.VideoCaptureFrameWidth) + 0.5),
			Height:   int(vc.Get(gocv.VideoCaptureFrameHeight) + 0.5),
			Channels: 3,
		},
	}
	log.WithFields(log.Fields{
		"device": device,
		"shape":  c.shape,
		"fps":    vc.Get(gocv.VideoCaptureFPS),
	}).Debug("Camera opened")
	return c, nil
}

func (c *Camera) Read() (frame.Frame, error) {
	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		return frame.Frame{}, capture.ErrEndOfStream
	}
	now := time.Now()

	src := c.mat
	if c.mat.Channels() == 1 {
		gocv.CvtColor(c.mat, &c.bgr, gocv.ColorGrayToBGR)
		src = c.bgr
	}
	return frame.Frame{
		Width:    src.Cols(),
		Height:   src.Rows(),
		Channels: src.Channels(),
		Pix:      src.ToBytes(),
		Captured: now,
	}, nil
}

func (c *Camera) Shape() frame.Shape { return c.shape }

func (c *Camera) Close() error {
	c.mat.Close()
	c.bgr.Close()
	return c.capture.Close()
}
