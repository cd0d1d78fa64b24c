package recording

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/time-elapse-recorder/internal/encoding"
	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

type fakeSink struct {
	written  []frame.Frame
	closes   int
	writeErr error
	closeErr error
}

func (s *fakeSink) WriteFrame(f frame.Frame) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.written = append(s.written, f)
	return nil
}

func (s *fakeSink) Close() error {
	s.closes++
	return s.closeErr
}

func numbered(i int) frame.Frame {
	return frame.Frame{Width: 1, Height: 1, Channels: 3, Pix: []byte{byte(i), 0, 0}}
}

func TestFirstFrameIsCountedButNotEncoded(t *testing.T) {
	sink := &fakeSink{}
	r := NewRecorder(sink, "out.mp4")

	require.NoError(t, r.Record(numbered(1)))
	assert.Equal(t, 1, r.FrameCount())
	assert.Empty(t, sink.written)

	require.NoError(t, r.Record(numbered(2)))
	require.NoError(t, r.Record(numbered(3)))
	assert.Equal(t, 3, r.FrameCount())
	require.Len(t, sink.written, 2)
	assert.Equal(t, byte(2), sink.written[0].Pix[0])
	assert.Equal(t, byte(3), sink.written[1].Pix[0])
}

func TestCountIncludesRejectedFrames(t *testing.T) {
	sink := &fakeSink{}
	r := NewRecorder(sink, "out.mp4")
	require.NoError(t, r.Record(numbered(1)))

	sink.writeErr = frame.ErrInvalidFrame
	err := r.Record(numbered(2))
	require.ErrorIs(t, err, frame.ErrInvalidFrame)
	assert.Equal(t, 2, r.FrameCount())
}

func TestCloseIsIdempotent(t *testing.T) {
	exit := &encoding.ExitError{Backend: "ffmpeg", Code: 1}
	sink := &fakeSink{closeErr: exit}
	r := NewRecorder(sink, "out.mp4")
	require.NoError(t, r.Record(numbered(1)))
	require.NoError(t, r.Record(numbered(2)))

	err := r.Close()
	var exitErr *encoding.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.True(t, r.IsDone())

	assert.Equal(t, err, r.Close())
	assert.Equal(t, 1, sink.closes)
	assert.Equal(t, 2, r.FrameCount())

	require.Error(t, r.Record(numbered(3)))
	assert.Equal(t, 2, r.FrameCount())
}

func TestOutputName(t *testing.T) {
	start := time.Date(2024, time.March, 7, 9, 5, 3, 0, time.Local)
	assert.Equal(t, "video_2024-03-07_09.05.03.mp4", OutputName(start, ".mp4"))
	assert.Equal(t, "video_2024-03-07_09.05.03.avi", OutputName(start, ".avi"))

	pattern := regexp.MustCompile(`^video_\d{4}-\d{2}-\d{2}_\d{2}\.\d{2}\.\d{2}\.mp4$`)
	assert.Regexp(t, pattern, OutputName(time.Now(), ".mp4"))

	// Unique per start second.
	assert.NotEqual(t, OutputName(start, ".mp4"), OutputName(start.Add(time.Second), ".mp4"))
	assert.Equal(t, OutputName(start, ".mp4"), OutputName(start.Add(500*time.Millisecond), ".mp4"))
}

func TestOutputPath(t *testing.T) {
	start := time.Date(2024, time.March, 7, 9, 5, 3, 0, time.Local)
	r := NewRecorder(&fakeSink{}, OutputPath("clips", start, ".mp4"))
	assert.Equal(t, "clips/video_2024-03-07_09.05.03.mp4", filepath.ToSlash(r.GetOutputPath()))
}
