package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vedantwpatil/time-elapse-recorder/internal/inspect"
)

func TestDurations(t *testing.T) {
	s := Summary{Frames: 90, Interval: 2 * time.Second, OutputFPS: 30}
	assert.Equal(t, 180*time.Second, s.RecordedDuration())
	assert.Equal(t, 3*time.Second, s.VideoLength())
	assert.InDelta(t, 60.0, s.Speedup(), 1e-9)

	assert.Zero(t, Summary{Frames: 5}.VideoLength())
}

func TestRender(t *testing.T) {
	s := Summary{
		Frames:    45,
		Interval:  time.Second,
		OutputFPS: 30,
		Path:      "video_2024-03-07_09.05.03.mp4",
	}
	out := s.Render()
	assert.Contains(t, out, "Recording finished")
	assert.Contains(t, out, "video_2024-03-07_09.05.03.mp4")
	assert.Contains(t, out, "45")
	assert.Contains(t, out, "45.0s")
	assert.Contains(t, out, "1.50s")
	assert.NotContains(t, out, "Warning")
	assert.NotContains(t, out, "File")
	assert.NotContains(t, out, "Session")

	s.Started = time.Date(2024, time.March, 7, 9, 5, 3, 0, time.Local)
	s.Elapsed = 90*time.Second + 300*time.Millisecond
	assert.Contains(t, s.Render(), "2024-03-07 09:05:03 (1m30s)")

	s.EncoderWarning = "ffmpeg encoder exited with status 1"
	s.Info = &inspect.Info{Width: 640, Height: 480, FPS: 30, Frames: 44, Codec: "h264"}
	out = s.Render()
	assert.Contains(t, out, "Warning: ffmpeg encoder exited with status 1")
	assert.Contains(t, out, "640x480 h264")
}
