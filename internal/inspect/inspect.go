// Package inspect reads back the properties of a finished recording.
package inspect

import (
	"fmt"
	"time"

	vidio "github.com/AlexEidt/Vidio"
)

type Info struct {
	Width    int
	Height   int
	FPS      float64
	Frames   int
	Duration time.Duration
	Codec    string
}

func (i Info) String() string {
	return fmt.Sprintf("%dx%d %s, %d frames at %.2f fps (%.2fs)",
		i.Width, i.Height, i.Codec, i.Frames, i.FPS, i.Duration.Seconds())
}

// Inspect probes the video at path with ffprobe.
func Inspect(path string) (Info, error) {
	video, err := vidio.NewVideo(path)
	if err != nil {
		return Info{}, fmt.Errorf("unable to open the recorded video at path %s: %w", path, err)
	}
	defer video.Close()

	return Info{
		Width:    video.Width(),
		Height:   video.Height(),
		FPS:      video.FPS(),
		Frames:   video.Frames(),
		Duration: time.Duration(video.Duration() * float64(time.Second)),
		Codec:    video.Codec(),
	}, nil
}
