// Package keybind matches tcell key events against configurable key names
// such as "j", "down", "ctrl+d" or "shift+tab".
package keybind

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

type Keybind struct {
	keys   []string
	chords []chord
	help   Help
}

type Help struct {
	Key  string
	Desc string
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	var k Keybind
	for _, option := range options {
		option(&k)
	}
	return k
}

// WithKeys binds keys. Names that are not keys are left out.
func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.SetKeys(keys...)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.help = Help{Key: key, Desc: desc}
	}
}

// Keys returns the bound keys in canonical form, for example "ctrl+c".
func (k Keybind) Keys() []string {
	return k.keys
}

// SetKeys replaces the bound keys. Names that are not keys are left out.
func (k *Keybind) SetKeys(keys ...string) {
	k.keys, k.chords = nil, nil
	for _, name := range keys {
		if c, err := parseChord(name); err == nil {
			k.add(c)
		}
	}
}

func (k *Keybind) add(c chord) {
	if slices.Contains(k.chords, c) {
		return
	}
	k.chords = append(k.chords, c)
	k.keys = append(k.keys, c.String())
}

func (k Keybind) Help() Help {
	return k.help
}

// Enabled reports whether any key is bound.
func (k Keybind) Enabled() bool {
	return len(k.chords) > 0
}

// UnmarshalTOML accepts a key name or a list of key names and keeps the help
// text. Unknown key names are an error.
func (k *Keybind) UnmarshalTOML(value any) error {
	var names []string
	switch v := value.(type) {
	case string:
		names = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("keybind: key must be a string, got %T", item)
			}
			names = append(names, s)
		}
	default:
		return fmt.Errorf("keybind: unsupported value %T", value)
	}

	k.keys, k.chords = nil, nil
	for _, name := range names {
		c, err := parseChord(name)
		if err != nil {
			return err
		}
		k.add(c)
	}
	return nil
}

// Matches reports whether event is bound in any of keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}
	c := eventChord(event)
	for _, k := range keybinds {
		if slices.Contains(k.chords, c) {
			return true
		}
	}
	return false
}

// chord is a key with modifiers in the form events are compared in. Printable
// keys are KeyRune with r set; ctrl+letter is the letter with ModCtrl. Shift
// only appears on named keys.
type chord struct {
	key  tcell.Key
	r    rune
	mods tcell.ModMask
}

var keyNames = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"return":    tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"tab":       tcell.KeyTab,
	"backtab":   tcell.KeyBacktab,
	"backspace": tcell.KeyBackspace,
	"insert":    tcell.KeyInsert,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"pgup":      tcell.KeyPgUp,
	"pageup":    tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"pagedown":  tcell.KeyPgDn,
}

// canonicalNames holds the name String prints for each named key.
var canonicalNames = map[tcell.Key]string{
	tcell.KeyEnter:     "enter",
	tcell.KeyEscape:    "esc",
	tcell.KeyTab:       "tab",
	tcell.KeyBacktab:   "backtab",
	tcell.KeyBackspace: "backspace",
	tcell.KeyInsert:    "insert",
	tcell.KeyDelete:    "delete",
	tcell.KeyHome:      "home",
	tcell.KeyEnd:       "end",
	tcell.KeyUp:        "up",
	tcell.KeyDown:      "down",
	tcell.KeyLeft:      "left",
	tcell.KeyRight:     "right",
	tcell.KeyPgUp:      "pgup",
	tcell.KeyPgDn:      "pgdn",
}

var modNames = []struct {
	name string
	mod  tcell.ModMask
}{
	{"ctrl", tcell.ModCtrl},
	{"alt", tcell.ModAlt},
	{"meta", tcell.ModMeta},
	{"shift", tcell.ModShift},
}

// parseChord parses names like "G", "pgdn", "ctrl+d", "Alt+X" or "f5".
func parseChord(name string) (chord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return chord{}, fmt.Errorf("keybind: empty key")
	}
	if name == "+" {
		return chord{key: tcell.KeyRune, r: '+'}, nil
	}

	parts := strings.Split(name, "+")
	var c chord
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "ctrl", "control":
			c.mods |= tcell.ModCtrl
		case "alt":
			c.mods |= tcell.ModAlt
		case "meta":
			c.mods |= tcell.ModMeta
		case "shift":
			c.mods |= tcell.ModShift
		default:
			return chord{}, fmt.Errorf("keybind: unknown modifier %q in %q", part, name)
		}
	}

	primary := strings.TrimSpace(parts[len(parts)-1])
	if runes := []rune(primary); len(runes) == 1 {
		c.key, c.r = tcell.KeyRune, runes[0]
	} else {
		lower := strings.ToLower(primary)
		key, ok := keyNames[lower]
		switch {
		case ok:
			c.key = key
		case lower == "space":
			c.key, c.r = tcell.KeyRune, ' '
		case strings.HasPrefix(lower, "f"):
			n, err := strconv.Atoi(lower[1:])
			if err != nil || n < 1 || n > 64 {
				return chord{}, fmt.Errorf("keybind: unknown key %q", name)
			}
			c.key = tcell.KeyF1 + tcell.Key(n-1)
		default:
			return chord{}, fmt.Errorf("keybind: unknown key %q", name)
		}
	}
	return c.normalize(), nil
}

func (c chord) normalize() chord {
	switch c.key {
	case tcell.KeyRune:
		if c.mods&^tcell.ModShift == 0 {
			// Shift is already in the rune.
			if c.mods&tcell.ModShift != 0 {
				c.r = unicode.ToUpper(c.r)
			}
		} else {
			c.r = unicode.ToLower(c.r)
		}
		c.mods &^= tcell.ModShift
	case tcell.KeyTab:
		if c.mods&tcell.ModShift != 0 {
			c.key = tcell.KeyBacktab
		}
	}
	if c.key == tcell.KeyBacktab {
		c.mods &^= tcell.ModShift
	}
	return c
}

func eventChord(event *tcell.EventKey) chord {
	key, mods := event.Key(), event.Modifiers()
	switch {
	case key == tcell.KeyRune:
		return chord{key: key, r: event.Rune(), mods: mods}.normalize()
	case key == tcell.KeyBackspace2:
		key = tcell.KeyBackspace
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ &&
		key != tcell.KeyTab && key != tcell.KeyEnter && key != tcell.KeyBackspace:
		return chord{key: tcell.KeyRune, r: 'a' + rune(key-tcell.KeyCtrlA), mods: mods | tcell.ModCtrl}
	}
	return chord{key: key, mods: mods}.normalize()
}

// String returns the canonical name, for example "ctrl+alt+x" or "pgdn".
func (c chord) String() string {
	var sb strings.Builder
	for _, m := range modNames {
		if c.mods&m.mod != 0 {
			sb.WriteString(m.name)
			sb.WriteByte('+')
		}
	}
	switch {
	case c.key == tcell.KeyRune && c.r == ' ':
		sb.WriteString("space")
	case c.key == tcell.KeyRune:
		sb.WriteRune(c.r)
	case c.key >= tcell.KeyF1 && c.key <= tcell.KeyF64:
		sb.WriteString("f" + strconv.Itoa(int(c.key-tcell.KeyF1)+1))
	default:
		sb.WriteString(canonicalNames[c.key])
	}
	return sb.String()
}
