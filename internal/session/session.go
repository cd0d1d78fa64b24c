// Package session runs the capture loop: it reads frames as fast as the
// device delivers them and lets the scheduler decide which ones are recorded
// and which ones are previewed.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vedantwpatil/time-elapse-recorder/internal/capture"
	"github.com/vedantwpatil/time-elapse-recorder/internal/encoding"
	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
	"github.com/vedantwpatil/time-elapse-recorder/internal/report"
)

type State int

const (
	StateRunning State = iota
	StateStopping
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Pacer decides per loop iteration whether to record and whether to display.
type Pacer interface {
	Poll() (shouldRecord, shouldDisplay bool)
}

type Recorder interface {
	Record(f frame.Frame) error
	FrameCount() int
	GetStartTime() time.Time
	Close() error
}

type Display interface {
	Display(f frame.Frame, frameCount int) error
	StopRequested() bool
	Close() error
}

type Options struct {
	Interval   time.Duration
	OutputFPS  int
	OutputPath string
}

type Session struct {
	source   capture.Source
	pacer    Pacer
	recorder Recorder
	display  Display
	opts     Options

	mu    sync.Mutex
	state State
	reads int

	shutdownOnce sync.Once
	summary      report.Summary
	shutdownErr  error
}

func New(source capture.Source, pacer Pacer, recorder Recorder, display Display, opts Options) *Session {
	return &Session{
		source:   source,
		pacer:    pacer,
		recorder: recorder,
		display:  display,
		opts:     opts,
		state:    StateRunning,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reads is the number of frames read from the source.
func (s *Session) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *Session) stop(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		log.Info(reason)
		s.state = StateStopping
	}
}

// Run loops until the source runs dry, the user asks to stop or ctx is
// done. Stopping is not an error; only a frame the recorder refuses aborts
// the loop with an error. Call Shutdown afterwards in every case.
func (s *Session) Run(ctx context.Context) error {
	for s.State() == StateRunning {
		shouldRecord, shouldDisplay := s.pacer.Poll()

		f, err := s.source.Read()
		if err != nil {
			if errors.Is(err, capture.ErrEndOfStream) {
				s.stop("Capture device stopped delivering frames")
			} else {
				s.stop(fmt.Sprintf("Capture failed: %v", err))
			}
			break
		}
		s.mu.Lock()
		s.reads++
		s.mu.Unlock()

		if shouldRecord {
			if err := s.recorder.Record(f); err != nil {
				s.stop("Recording failed")
				return err
			}
		}
		if shouldDisplay {
			if err := s.display.Display(f, s.recorder.FrameCount()); err != nil {
				log.Warnf("Failed to update preview: %v", err)
			}
		}

		if s.display.StopRequested() {
			s.stop("Stop requested from the preview window")
		}
		if ctx.Err() != nil {
			s.stop(fmt.Sprintf("Stopping: %v", context.Cause(ctx)))
		}
	}
	return nil
}

// Shutdown closes the display, the recorder and the source, in that order,
// attempting every step. Only the first call does any work. A non-zero
// encoder exit is reported in the summary, not as an error.
func (s *Session) Shutdown() (report.Summary, error) {
	s.shutdownOnce.Do(func() {
		s.stop("Shutting down")
		log.Info("Finishing video, please wait")

		summary := report.Summary{
			Interval:  s.opts.Interval,
			OutputFPS: s.opts.OutputFPS,
			Path:      s.opts.OutputPath,
			Started:   s.recorder.GetStartTime(),
		}
		var errs []error

		if err := s.display.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close preview: %w", err))
		}

		if err := s.recorder.Close(); err != nil {
			var exitErr *encoding.ExitError
			if errors.As(err, &exitErr) {
				log.Warnf("The output video may be incomplete: %v", exitErr)
				summary.EncoderWarning = exitErr.Error()
			} else {
				errs = append(errs, fmt.Errorf("failed to finish recording: %w", err))
			}
		}

		if err := s.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release capture device: %w", err))
		}

		summary.Frames = s.recorder.FrameCount()
		summary.Elapsed = time.Since(summary.Started)
		s.summary = summary
		s.shutdownErr = errors.Join(errs...)

		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
	})
	return s.summary, s.shutdownErr
}
