// Package capture opens the devices frames are read from.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vedantwpatil/time-elapse-recorder/internal/config"
	"github.com/vedantwpatil/time-elapse-recorder/internal/frame"
)

// ErrEndOfStream is returned by Read once the device stops delivering frames.
var ErrEndOfStream = errors.New("end of stream")

// ErrUnknownSource is returned by Open for a source name nobody registered.
var ErrUnknownSource = errors.New("unknown capture source")

// Source yields frames of a fixed shape. Read blocks until the next frame is
// available.
type Source interface {
	Read() (frame.Frame, error)
	Shape() frame.Shape
	Close() error
}

// Opener builds a Source from the capture configuration.
type Opener func(ctx context.Context, cfg *config.Config) (Source, error)

var (
	mu      sync.RWMutex
	openers = map[string]Opener{}
)

// Register makes a source available to Open under name. Packages with cgo
// backends register themselves from init.
func Register(name string, open Opener) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := openers[name]; dup {
		panic("capture: Register called twice for source " + name)
	}
	openers[name] = open
}

// Sources lists the registered source names.
func Sources() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the source named by cfg.Capture.Source.
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	mu.RLock()
	open, ok := openers[cfg.Capture.Source]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSource, cfg.Capture.Source, Sources())
	}

	src, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s source: %w", cfg.Capture.Source, err)
	}
	if err := src.Shape().Validate(); err != nil {
		src.Close()
		return nil, fmt.Errorf("%s source: %w", cfg.Capture.Source, err)
	}
	return src, nil
}

func init() {
	Register(config.SourceVidio, openVidio)
	Register(config.SourceScreen, openScreen)
	Register(config.SourceV4L2, openV4L2)
}
