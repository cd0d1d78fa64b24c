// Package hotkey stops a recording from a global key combination, which works
// even when the preview window does not have focus.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidCombo = errors.New("invalid hotkey")

var modifiers = map[string]bool{
	"ctrl":    true,
	"shift":   true,
	"alt":     true,
	"cmd":     true,
	"command": true,
	"super":   true,
	"meta":    true,
}

// ParseCombo turns "ctrl+shift+q" into the key list gohook registers:
// the key first, then the modifiers in the order given.
func ParseCombo(s string) ([]string, error) {
	var key string
	var mods []string
	for _, part := range strings.Split(s, "+") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch {
		case part == "":
			return nil, fmt.Errorf("%w: empty key in %q", ErrInvalidCombo, s)
		case modifiers[part]:
			mods = append(mods, part)
		case key != "":
			return nil, fmt.Errorf("%w: %q has more than one non-modifier key", ErrInvalidCombo, s)
		default:
			key = part
		}
	}
	if key == "" {
		return nil, fmt.Errorf("%w: %q has no key besides modifiers", ErrInvalidCombo, s)
	}
	return append([]string{key}, mods...), nil
}

// Listen calls onStop the first time combo is pressed. It blocks until then
// or until ctx is done.
func Listen(ctx context.Context, combo []string, onStop func()) {
	var end sync.Once
	stop := func() { end.Do(hook.End) }

	hook.Register(hook.KeyDown, combo, func(e hook.Event) {
		log.Infof("%s pressed. Stopping recording.", strings.Join(combo, "+"))
		onStop()
		stop()
	})

	evChan := hook.Start()
	done := hook.Process(evChan)
	log.WithField("combo", combo).Debug("Hotkey listener started")

	select {
	case <-done:
	case <-ctx.Done():
		stop()
		<-done
	}
	log.Debug("Hotkey listener stopped")
}
