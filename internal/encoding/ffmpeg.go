package encoding

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// FFmpeg pipes raw frames into an ffmpeg (or avconv) child process that
// encodes them to H.264.
type FFmpeg struct {
	opts   Options
	binary string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	buf    []byte

	frames   int
	closed   bool
	closeErr error
}

// LookupBinary finds the encoder executable on PATH.
func LookupBinary() (string, error) {
	for _, name := range []string{"ffmpeg", "avconv"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: found neither the ffmpeg nor avconv executables. "+
		"On macOS install ffmpeg with `brew install ffmpeg`, on most Linux distributions `sudo apt-get install ffmpeg`",
		ErrEncoderNotFound)
}

// Args builds the encoder command line for opts.
func Args(opts Options) []string {
	pixFmt := "rgb24"
	if opts.Shape.Channels == 4 {
		pixFmt = "rgba"
	}
	return []string{
		"-nostats",
		"-loglevel", "error", // only report failures
		"-y",
		"-r", fmt.Sprintf("%d", opts.FPS),

		// input
		"-f", "rawvideo",
		"-s:v", fmt.Sprintf("%dx%d", opts.Shape.Width, opts.Shape.Height),
		"-pix_fmt", pixFmt,
		"-i", "-",

		// output
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2", // yuv420p needs even dimensions
		"-vcodec", "libx264",
		"-pix_fmt", "yuv420p",
		"-crf", fmt.Sprintf("%d", opts.CRF),
		opts.Path,
	}
}

// NewFFmpeg starts the encoder process. The process runs in its own session
// so a terminal interrupt reaches only the recorder, which then closes the
// pipe and lets the encoder finalize the file.
func NewFFmpeg(opts Options) (*FFmpeg, error) {
	if err := opts.Shape.Validate(); err != nil {
		return nil, err
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("output fps must be positive, got %d", opts.FPS)
	}

	binary, err := LookupBinary()
	if err != nil {
		return nil, err
	}

	args := Args(opts)
	cmd := exec.Command(binary, args...)
	cmd.Stderr = os.Stderr
	detach(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	log.Debugf("Starting encoder with %q", binary+" "+strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", binary, err)
	}

	return &FFmpeg{
		opts:   opts,
		binary: binary,
		cmd:    cmd,
		stdin:  stdin,
	}, nil
}

// WriteFrame validates f and sends it to the encoder with its colour
// channels in RGB order. It blocks while the encoder is behind.
func (e *FFmpeg) WriteFrame(f frame.Frame) error {
	if e.closed {
		return errors.New("encoder already closed")
	}
	if err := f.Conform(e.opts.Shape); err != nil {
		return err
	}
	e.buf = f.ReverseChannels(e.buf)
	if _, err := e.stdin.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write frame %d to %s: %w", e.frames, e.binary, err)
	}
	e.frames++
	return nil
}

// Frames is the number of frames handed to the encoder so far.
func (e *FFmpeg) Frames() int { return e.frames }

// Close signals end of stream and waits for the encoder to finish the file.
// A non-zero exit status is returned as *ExitError. Calling Close again
// returns the first result.
func (e *FFmpeg) Close() error {
	if e.closed {
		return e.closeErr
	}
	e.closed = true

	if err := e.stdin.Close(); err != nil {
		log.Debugf("Closing encoder stdin: %v", err)
	}

	err := e.cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		e.closeErr = &ExitError{Backend: "ffmpeg", Code: exitErr.ExitCode(), Err: err}
	default:
		e.closeErr = fmt.Errorf("failed to wait for %s: %w", e.binary, err)
	}
	return e.closeErr
}
