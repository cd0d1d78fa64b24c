package recording

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vedantwpatil/time-elapse-recorder/internal/encoding"
	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// timeLayout renders as YYYY-MM-DD_HH.MM.SS.
const timeLayout = "2006-01-02_15.04.05"

// OutputName is the file name of a session started at start.
func OutputName(start time.Time, ext string) string {
	return fmt.Sprintf("video_%s%s", start.Format(timeLayout), ext)
}

// OutputPath joins OutputName with dir.
func OutputPath(dir string, start time.Time, ext string) string {
	return filepath.Join(dir, OutputName(start, ext))
}

// Recorder counts frames handed to it and forwards them to an encoder.
// The very first frame is counted but dropped: many capture devices deliver
// a stale or badly exposed frame right after opening.
type Recorder struct {
	sink       encoding.Sink
	outputPath string
	startTime  time.Time

	mu         sync.Mutex
	frameCount int
	isDone     bool
	closeErr   error
}

func NewRecorder(sink encoding.Sink, outputPath string) *Recorder {
	return &Recorder{
		sink:       sink,
		outputPath: outputPath,
		startTime:  time.Now(),
	}
}

// Record counts f and, unless it is the first frame, sends it to the encoder.
// The count includes frames the encoder rejected.
func (r *Recorder) Record(f frame.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isDone {
		return fmt.Errorf("recorder for %s already closed", r.outputPath)
	}
	r.frameCount++
	if r.frameCount == 1 {
		log.Debug("Discarding first recorded frame")
		return nil
	}
	if err := r.sink.WriteFrame(f); err != nil {
		return fmt.Errorf("failed to record frame %d: %w", r.frameCount, err)
	}
	return nil
}

// FrameCount is the number of Record calls so far.
func (r *Recorder) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Close flushes and stops the encoder. Only the first call reaches the
// encoder; later calls return its result.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isDone {
		return r.closeErr
	}
	r.isDone = true
	r.closeErr = r.sink.Close()
	return r.closeErr
}

func (r *Recorder) IsDone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isDone
}

func (r *Recorder) GetOutputPath() string {
	return r.outputPath
}

func (r *Recorder) GetStartTime() time.Time {
	return r.startTime
}
