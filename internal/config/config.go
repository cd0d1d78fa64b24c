package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vedantwpatil/time-elapse-recorder/internal/pacing"
)

var (
	// ErrInvalidInterval is returned when the sampling interval does not
	// leave room for at least one preview refresh between recordings.
	ErrInvalidInterval = errors.New("invalid sampling interval")
	// ErrInvalidRate is returned for non-positive frame rates.
	ErrInvalidRate = errors.New("invalid frame rate")
	// ErrInvalidOption is returned for unknown backends and out of range
	// encoder settings.
	ErrInvalidOption = errors.New("invalid option")
)

// Encoder backends.
const (
	EncoderFFmpeg = "ffmpeg"
	EncoderVidio  = "vidio"
	EncoderMJPEG  = "mjpeg"
)

// Frame sources.
const (
	SourceCamera = "camera"
	SourceVidio  = "vidio"
	SourceV4L2   = "v4l2"
	SourceScreen = "screen"
)

// Preview backends.
const (
	PreviewOpenCV = "opencv"
	PreviewNone   = "none"
)

type Config struct {
	Recording struct {
		Interval    float64 `json:"interval"`
		OutputFPS   int     `json:"output_fps"`
		Encoder     string  `json:"encoder"`
		CRF         int     `json:"crf"`
		JPEGQuality int     `json:"jpeg_quality"`
		OutputDir   string  `json:"output_dir"`
	} `json:"recording"`
	Capture struct {
		Source       string `json:"source"`
		Device       int    `json:"device"`
		DevicePath   string `json:"device_path"`
		DisplayIndex int    `json:"display_index"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
	} `json:"capture"`
	Preview struct {
		Backend     string `json:"backend"`
		DisplayFPS  int    `json:"display_fps"`
		DisplaySize int    `json:"display_size"`
		WindowName  string `json:"window_name"`
	} `json:"preview"`
	Hotkey   string `json:"hotkey"`
	LogLevel string `json:"log_level"`
}

func NewConfig() *Config {
	cfg := &Config{}

	cfg.Recording.Interval = 1.0
	cfg.Recording.OutputFPS = 30
	cfg.Recording.Encoder = EncoderFFmpeg
	cfg.Recording.CRF = 20
	cfg.Recording.JPEGQuality = 90
	cfg.Recording.OutputDir = "."

	cfg.Capture.Source = SourceCamera
	cfg.Capture.Device = 0
	cfg.Capture.DevicePath = "/dev/video0"

	cfg.Preview.Backend = PreviewOpenCV
	cfg.Preview.DisplayFPS = 5
	cfg.Preview.DisplaySize = 256
	cfg.Preview.WindowName = "Time-elapse Recorder"

	cfg.LogLevel = "info"
	return cfg
}

// SamplingInterval is the recording interval as a Duration.
func (c *Config) SamplingInterval() time.Duration {
	return pacing.Seconds(c.Recording.Interval)
}

// Validate rejects configurations the recorder cannot run with. It is called
// before any device or process is opened.
func (c *Config) Validate() error {
	if c.Recording.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %v", ErrInvalidInterval, c.Recording.Interval)
	}
	if c.Recording.OutputFPS <= 0 {
		return fmt.Errorf("%w: output fps must be positive, got %d", ErrInvalidRate, c.Recording.OutputFPS)
	}
	if c.Preview.DisplayFPS <= 0 {
		return fmt.Errorf("%w: display fps must be positive, got %d", ErrInvalidRate, c.Preview.DisplayFPS)
	}
	if floor := 1 / float64(c.Preview.DisplayFPS); c.Recording.Interval <= floor {
		return fmt.Errorf("%w: please make sure the interval is greater than %v (1/display-fps), got %v",
			ErrInvalidInterval, floor, c.Recording.Interval)
	}

	switch c.Recording.Encoder {
	case EncoderFFmpeg, EncoderVidio, EncoderMJPEG:
	default:
		return fmt.Errorf("%w: unknown encoder %q", ErrInvalidOption, c.Recording.Encoder)
	}
	if c.Recording.CRF < 0 || c.Recording.CRF > 51 {
		return fmt.Errorf("%w: crf must be between 0 and 51, got %d", ErrInvalidOption, c.Recording.CRF)
	}
	if c.Recording.JPEGQuality < 1 || c.Recording.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality must be between 1 and 100, got %d", ErrInvalidOption, c.Recording.JPEGQuality)
	}

	switch c.Capture.Source {
	case SourceCamera, SourceVidio, SourceV4L2, SourceScreen:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidOption, c.Capture.Source)
	}
	if c.Capture.Width < 0 || c.Capture.Height < 0 {
		return fmt.Errorf("%w: capture size must not be negative", ErrInvalidOption)
	}

	switch c.Preview.Backend {
	case PreviewOpenCV, PreviewNone:
	default:
		return fmt.Errorf("%w: unknown preview backend %q", ErrInvalidOption, c.Preview.Backend)
	}
	if c.Preview.DisplaySize <= 0 {
		return fmt.Errorf("%w: display size must be positive, got %d", ErrInvalidOption, c.Preview.DisplaySize)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return nil
}

// Load reads a JSON configuration file on top of the defaults. The file
// must exist.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseFlags builds the configuration from defaults, an optional -config
// file and the command line, in increasing order of precedence.
func ParseFlags(name string, args []string, output io.Writer) (*Config, error) {
	cfg := NewConfig()
	var path string
	fs := newFlagSet(name, cfg, &path)
	if output != nil {
		fs.SetOutput(output)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if path == "" {
		return cfg, nil
	}

	fileCfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	// Flags given explicitly win over the file.
	override := newFlagSet(name, fileCfg, new(string))
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if setErr == nil {
			setErr = override.Set(f.Name, f.Value.String())
		}
	})
	if setErr != nil {
		return nil, setErr
	}
	return fileCfg, nil
}

func newFlagSet(name string, cfg *Config, path *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(path, "config", "", "Optional JSON configuration file")

	fs.Float64Var(&cfg.Recording.Interval, "interval", cfg.Recording.Interval, "Interval between two recorded frames, in seconds")
	fs.IntVar(&cfg.Recording.OutputFPS, "output-fps", cfg.Recording.OutputFPS, "Frames per second in the output video file")
	fs.StringVar(&cfg.Recording.Encoder, "encoder", cfg.Recording.Encoder, "Encoder backend: ffmpeg, vidio or mjpeg")
	fs.IntVar(&cfg.Recording.CRF, "crf", cfg.Recording.CRF, "x264 constant rate factor (lower is higher quality)")
	fs.IntVar(&cfg.Recording.JPEGQuality, "jpeg-quality", cfg.Recording.JPEGQuality, "JPEG quality for the mjpeg encoder (1-100)")
	fs.StringVar(&cfg.Recording.OutputDir, "output-dir", cfg.Recording.OutputDir, "Directory the video is written to")

	fs.StringVar(&cfg.Capture.Source, "source", cfg.Capture.Source, "Frame source: camera, vidio, v4l2 or screen")
	fs.IntVar(&cfg.Capture.Device, "device", cfg.Capture.Device, "Camera index for the camera and vidio sources")
	fs.StringVar(&cfg.Capture.DevicePath, "device-path", cfg.Capture.DevicePath, "Device node for the v4l2 source")
	fs.IntVar(&cfg.Capture.DisplayIndex, "display-index", cfg.Capture.DisplayIndex, "Display to record for the screen source")
	fs.IntVar(&cfg.Capture.Width, "width", cfg.Capture.Width, "Requested capture width (0 = device default)")
	fs.IntVar(&cfg.Capture.Height, "height", cfg.Capture.Height, "Requested capture height (0 = device default)")

	fs.StringVar(&cfg.Preview.Backend, "preview", cfg.Preview.Backend, "Preview backend: opencv or none")
	fs.IntVar(&cfg.Preview.DisplayFPS, "display-fps", cfg.Preview.DisplayFPS, "Frames per second in the display window")
	fs.IntVar(&cfg.Preview.DisplaySize, "display-size", cfg.Preview.DisplaySize, "Longest edge of the preview, in pixels")

	fs.StringVar(&cfg.Hotkey, "hotkey", cfg.Hotkey, "Global stop shortcut, e.g. ctrl+shift+q (empty disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	return fs
}
