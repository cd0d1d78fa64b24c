package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCombo(t *testing.T) {
	cases := map[string][]string{
		"ctrl+shift+q":     {"q", "ctrl", "shift"},
		"q+ctrl":           {"q", "ctrl"},
		" Ctrl + Alt + S ": {"s", "ctrl", "alt"},
		"f12":              {"f12"},
	}
	for in, want := range cases {
		got, err := ParseCombo(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseComboInvalid(t *testing.T) {
	for _, in := range []string{"", "ctrl+", "ctrl+shift", "a+b", "ctrl++q"} {
		_, err := ParseCombo(in)
		assert.ErrorIs(t, err, ErrInvalidCombo, in)
	}
}
