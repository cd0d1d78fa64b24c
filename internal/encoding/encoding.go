// Package encoding turns a stream of fixed-shape frames into a video file.
package encoding

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// ErrEncoderNotFound is returned when no encoder executable is on PATH.
var ErrEncoderNotFound = errors.New("encoder executable not found")

// Sink accepts frames of one shape at one rate and produces a video file.
// It is opened once, fed frames, and closed once.
type Sink interface {
	WriteFrame(f frame.Frame) error
	Close() error
}

// Options configures every Sink implementation.
type Options struct {
	Path        string
	Shape       frame.Shape
	FPS         int
	CRF         int // x264 constant rate factor, ffmpeg only
	JPEGQuality int // mjpeg only
}

// ExitError reports that the encoder process finished with a non-zero
// status. The output file may still be partially playable.
type ExitError struct {
	Backend string
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s encoder exited with status %d", e.Backend, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Extension is the container suffix a backend writes.
func Extension(backend string) string {
	if backend == "mjpeg" {
		return ".avi"
	}
	return ".mp4"
}

// Preflight checks that a backend can run on this machine without opening
// anything, so a missing dependency is reported before the camera is
// acquired.
func Preflight(backend string) error {
	switch backend {
	case "ffmpeg":
		_, err := LookupBinary()
		return err
	case "vidio":
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			return fmt.Errorf("%w: the vidio backend needs ffmpeg on PATH", ErrEncoderNotFound)
		}
		return nil
	case "mjpeg":
		return nil
	default:
		return fmt.Errorf("unknown encoder backend %q", backend)
	}
}

// Open starts the named backend.
func Open(backend string, opts Options) (Sink, error) {
	switch backend {
	case "ffmpeg":
		return NewFFmpeg(opts)
	case "vidio":
		return NewVidio(opts)
	case "mjpeg":
		return NewMJPEG(opts)
	default:
		return nil, fmt.Errorf("unknown encoder backend %q", backend)
	}
}
