package keybind

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		event *tcell.EventKey
		want  bool
	}{
		{name: "rune", keys: []string{"j"}, event: tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), want: true},
		{name: "upper case rune", keys: []string{"G"}, event: tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModShift), want: true},
		{name: "case matters", keys: []string{"g"}, event: tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModShift), want: false},
		{name: "named key", keys: []string{"down"}, event: tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), want: true},
		{name: "page alias", keys: []string{"PageUp"}, event: tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone), want: true},
		{name: "ctrl", keys: []string{"ctrl+d"}, event: tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl), want: true},
		{name: "alt", keys: []string{"Alt+X"}, event: tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), want: true},
		{name: "backtab", keys: []string{"backtab"}, event: tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), want: true},
		{name: "shift tab", keys: []string{"shift+tab"}, event: tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift), want: true},
		{name: "enter", keys: []string{"return"}, event: tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), want: true},
		{name: "space", keys: []string{"space"}, event: tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), want: true},
		{name: "function key", keys: []string{"F1"}, event: tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), want: true},
		{name: "other key", keys: []string{"up", "k"}, event: tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKeybind(WithKeys(tt.keys...))
			assert.Equal(t, tt.want, Matches(tt.event, k))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	up := NewKeybind(WithKeys("up"))
	down := NewKeybind(WithKeys("down"))
	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), up, down))
	assert.False(t, Matches(nil, up, down))
	assert.False(t, Matches(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)))
}

func TestKeybind(t *testing.T) {
	k := NewKeybind(WithKeys(" ctrl+C ", "", "q"), WithHelp("q", "quit"))
	assert.Equal(t, []string{"ctrl+c", "q"}, k.Keys())
	assert.True(t, k.Enabled())
	assert.Equal(t, Help{Key: "q", Desc: "quit"}, k.Help())

	k.SetKeys()
	assert.False(t, k.Enabled())

	k.SetKeys("Alt+Ctrl+X", "shift+g", "F5", "space", "PageDown", "bogus", "pgdn")
	assert.Equal(t, []string{"ctrl+alt+x", "G", "f5", "space", "pgdn"}, k.Keys())
	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModShift), k))
	assert.True(t, Matches(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), k))
}

func TestUnmarshalTOML(t *testing.T) {
	var cfg struct {
		Quit Keybind `toml:"quit"`
		Help Keybind `toml:"help"`
	}
	cfg.Quit = NewKeybind(WithKeys("q"), WithHelp("q", "quit"))

	_, err := toml.Decode(`
quit = ["x", "ctrl+q"]
help = "?"
`, &cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "ctrl+q"}, cfg.Quit.Keys())
	assert.Equal(t, "quit", cfg.Quit.Help().Desc)
	assert.Equal(t, []string{"?"}, cfg.Help.Keys())

	_, err = toml.Decode("quit = 5", &cfg)
	assert.Error(t, err)
	_, err = toml.Decode("quit = [1]", &cfg)
	assert.Error(t, err)
	_, err = toml.Decode(`quit = "hyper+x"`, &cfg)
	assert.Error(t, err)
	_, err = toml.Decode(`quit = "pgdown"`, &cfg)
	assert.Error(t, err)
}
