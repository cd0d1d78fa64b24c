package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, cfg.Recording.Interval)
	assert.Equal(t, 30, cfg.Recording.OutputFPS)
	assert.Equal(t, 5, cfg.Preview.DisplayFPS)
	assert.Equal(t, time.Second, cfg.SamplingInterval())
}

func TestIntervalMustExceedDisplayInterval(t *testing.T) {
	cases := []struct {
		interval   float64
		displayFPS int
		ok         bool
	}{
		{interval: 1.0, displayFPS: 5, ok: true},
		{interval: 0.1, displayFPS: 20, ok: true},
		{interval: 0.1, displayFPS: 5, ok: false},
		{interval: 0.2, displayFPS: 5, ok: false},
		{interval: 0, displayFPS: 5, ok: false},
		{interval: -1, displayFPS: 5, ok: false},
	}
	for _, tc := range cases {
		cfg := NewConfig()
		cfg.Recording.Interval = tc.interval
		cfg.Preview.DisplayFPS = tc.displayFPS
		err := cfg.Validate()
		if tc.ok {
			assert.NoError(t, err, "interval=%v display=%d", tc.interval, tc.displayFPS)
		} else {
			assert.ErrorIs(t, err, ErrInvalidInterval, "interval=%v display=%d", tc.interval, tc.displayFPS)
		}
	}
}

func TestValidateRates(t *testing.T) {
	cfg := NewConfig()
	cfg.Preview.DisplayFPS = 0
	require.ErrorIs(t, cfg.Validate(), ErrInvalidRate)

	cfg = NewConfig()
	cfg.Recording.OutputFPS = -3
	require.ErrorIs(t, cfg.Validate(), ErrInvalidRate)
}

func TestValidateOptions(t *testing.T) {
	mutations := map[string]func(*Config){
		"encoder":      func(c *Config) { c.Recording.Encoder = "gif" },
		"crf":          func(c *Config) { c.Recording.CRF = 99 },
		"jpeg quality": func(c *Config) { c.Recording.JPEGQuality = 0 },
		"source":       func(c *Config) { c.Capture.Source = "kinect" },
		"size":         func(c *Config) { c.Capture.Width = -1 },
		"preview":      func(c *Config) { c.Preview.Backend = "sdl" },
		"display size": func(c *Config) { c.Preview.DisplaySize = 0 },
		"log level":    func(c *Config) { c.LogLevel = "chatty" },
	}
	for name, mutate := range mutations {
		cfg := NewConfig()
		mutate(cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidOption, name)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags("recorder", []string{"-interval", "2.5", "--output-fps", "24", "-display-fps", "10", "-encoder", "mjpeg"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Recording.Interval)
	assert.Equal(t, 24, cfg.Recording.OutputFPS)
	assert.Equal(t, 10, cfg.Preview.DisplayFPS)
	assert.Equal(t, EncoderMJPEG, cfg.Recording.Encoder)
	assert.Equal(t, SourceCamera, cfg.Capture.Source)
}

func TestParseFlagsRejectsPositionalArgs(t *testing.T) {
	_, err := ParseFlags("recorder", []string{"record"}, io.Discard)
	require.Error(t, err)

	_, err = ParseFlags("recorder", []string{"-interval", "soon"}, io.Discard)
	require.Error(t, err)
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recorder.json")
	body := `{"recording": {"interval": 5, "output_fps": 25}, "preview": {"backend": "none"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := ParseFlags("recorder", []string{"-config", path, "-output-fps", "60"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Recording.Interval)
	assert.Equal(t, 60, cfg.Recording.OutputFPS)
	assert.Equal(t, PreviewNone, cfg.Preview.Backend)
	// Untouched fields keep their defaults.
	assert.Equal(t, 5, cfg.Preview.DisplayFPS)
	assert.Equal(t, EncoderFFmpeg, cfg.Recording.Encoder)
}

func TestLoad(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"recording": {"speed": 3}}`), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestParseFlagsMissingConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.json")
	cfg, err := ParseFlags("recorder", []string{"-config", path, "-interval", "3"}, io.Discard)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, cfg)
}

func TestSamplingInterval(t *testing.T) {
	cfg := NewConfig()
	cfg.Recording.Interval = 2.5
	assert.Equal(t, 2500*time.Millisecond, cfg.SamplingInterval())
}
