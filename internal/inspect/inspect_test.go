package inspect

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video_missing.mp4")
	_, err := Inspect(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestInfoString(t *testing.T) {
	info := Info{Width: 640, Height: 480, FPS: 30, Frames: 45, Duration: 1500 * time.Millisecond, Codec: "h264"}
	assert.Equal(t, "640x480 h264, 45 frames at 30.00 fps (1.50s)", info.String())
}
