package treeview

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

// Orientation selects the direction in which items follow each other inside
// a range.
type Orientation uint8

const (
	// Vertical stacks items top to bottom; ranges are laid out left to right.
	Vertical Orientation = iota
	// Horizontal places items left to right; ranges are stacked top to bottom.
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

func (o *Orientation) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "vertical", "":
		*o = Vertical
	case "horizontal":
		*o = Horizontal
	default:
		return fmt.Errorf("%w: orientation %q", ErrInvalidOption, text)
	}
	return nil
}

// WrapMode selects when a new range is started.
type WrapMode uint8

const (
	// WrapNone puts every item into a single range.
	WrapNone WrapMode = iota
	// WrapCount starts a new range every WrapArg items.
	WrapCount
	// WrapPixels starts a new range once the range would grow past WrapArg
	// cells along the item axis.
	WrapPixels
	// WrapViewport works like WrapPixels with the viewport extent as the limit.
	WrapViewport
)

var wrapModeNames = []string{"none", "count", "pixels", "viewport"}

func (m WrapMode) String() string {
	if int(m) < len(wrapModeNames) {
		return wrapModeNames[m]
	}
	return fmt.Sprintf("WrapMode(%d)", m)
}

func (m *WrapMode) UnmarshalText(text []byte) error {
	for i, name := range wrapModeNames {
		if strings.EqualFold(name, string(text)) {
			*m = WrapMode(i)
			return nil
		}
	}
	return fmt.Errorf("%w: wrap mode %q", ErrInvalidWrap, text)
}

// SizeMode selects how the cross-axis size of an item is derived.
type SizeMode uint8

const (
	// SizeNatural uses the size the item needs.
	SizeNatural SizeMode = iota
	// SizeFixed gives every item the same size.
	SizeFixed
	// SizeStep rounds the natural size up to a multiple of a step.
	SizeStep
)

var sizeModeNames = []string{"natural", "fixed", "step"}

func (m SizeMode) String() string {
	if int(m) < len(sizeModeNames) {
		return sizeModeNames[m]
	}
	return fmt.Sprintf("SizeMode(%d)", m)
}

func (m *SizeMode) UnmarshalText(text []byte) error {
	for i, name := range sizeModeNames {
		if strings.EqualFold(name, string(text)) {
			*m = SizeMode(i)
			return nil
		}
	}
	return fmt.Errorf("%w: size mode %q", ErrInvalidItemSize, text)
}

// Anchor selects what a background pattern is aligned to.
type Anchor uint8

const (
	// AnchorContent keeps the pattern fixed to the content, so it scrolls.
	AnchorContent Anchor = iota
	// AnchorViewport keeps the pattern fixed to the window.
	AnchorViewport
)

func (a *Anchor) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "content", "":
		*a = AnchorContent
	case "viewport", "window":
		*a = AnchorViewport
	default:
		return fmt.Errorf("%w: background anchor %q", ErrInvalidOption, text)
	}
	return nil
}

// Increment is a fixed scroll step in cells. The zero value selects automatic
// increments derived from item and range boundaries.
type Increment int

// IncrementAuto selects automatic scroll increments.
const IncrementAuto Increment = 0

// UnmarshalTOML accepts "auto" or a positive number of cells. An explicit zero
// is rejected.
func (i *Increment) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case string:
		if strings.EqualFold(v, "auto") {
			*i = IncrementAuto
			return nil
		}
		return fmt.Errorf("%w: %q", ErrInvalidIncrement, v)
	case int64:
		if v <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidIncrement, v)
		}
		*i = Increment(v)
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidIncrement, value)
}

// Options configures the layout and rendering of a view.
type Options struct {
	Orientation Orientation `toml:"orientation"`

	Wrap    WrapMode `toml:"wrap"`
	WrapArg int      `toml:"wrap_arg"`

	// Cross-axis item size: item width for vertical views, height otherwise.
	ItemSize    SizeMode `toml:"item_size"`
	ItemSizeArg int      `toml:"item_size_arg"`

	// Item height for vertical views. Zero uses the natural height.
	ItemHeight    int `toml:"item_height"`
	MinItemHeight int `toml:"min_item_height"`

	XScrollIncrement Increment `toml:"x_scroll_increment"`
	YScrollIncrement Increment `toml:"y_scroll_increment"`

	// ScrollCopy reuses drawn cells when scrolling instead of redrawing them.
	ScrollCopy bool `toml:"scroll_copy"`

	ShowHeader    bool `toml:"show_header"`
	ShowScrollBar bool `toml:"show_scroll_bar"`

	// RowColors are the alternating item background colors. Fewer than two
	// colors disables alternation.
	RowColors []string `toml:"row_colors"`

	BackgroundPattern string `toml:"background_pattern"`
	BackgroundAnchor  Anchor `toml:"background_anchor"`

	// MaxRestarts bounds how often one pass restarts after a visibility
	// handler invalidated the layout.
	MaxRestarts int `toml:"max_restarts"`
}

// DefaultOptions returns the options of a new view.
func DefaultOptions() Options {
	return Options{
		ScrollCopy:  true,
		ShowHeader:  true,
		MaxRestarts: 4,
	}
}

// Validate checks the options for configuration errors.
func (o Options) Validate() error {
	switch o.Wrap {
	case WrapNone, WrapViewport:
		if o.WrapArg < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidWrap, o.WrapArg)
		}
	case WrapCount, WrapPixels:
		if o.WrapArg < 1 {
			return fmt.Errorf("%w: wrap %s needs a positive argument, got %d", ErrInvalidWrap, o.Wrap, o.WrapArg)
		}
	default:
		return fmt.Errorf("%w: mode %d", ErrInvalidWrap, o.Wrap)
	}

	switch o.ItemSize {
	case SizeNatural:
	case SizeFixed, SizeStep:
		if o.ItemSizeArg < 1 {
			return fmt.Errorf("%w: item size %s needs a positive argument, got %d", ErrInvalidItemSize, o.ItemSize, o.ItemSizeArg)
		}
	default:
		return fmt.Errorf("%w: mode %d", ErrInvalidItemSize, o.ItemSize)
	}
	if o.ItemHeight < 0 || o.MinItemHeight < 0 {
		return fmt.Errorf("%w: negative item height", ErrInvalidItemSize)
	}

	if o.XScrollIncrement < 0 || o.YScrollIncrement < 0 {
		return fmt.Errorf("%w: negative increment", ErrInvalidIncrement)
	}
	if o.Orientation > Horizontal {
		return fmt.Errorf("%w: orientation %d", ErrInvalidOption, o.Orientation)
	}
	if o.BackgroundAnchor > AnchorViewport {
		return fmt.Errorf("%w: background anchor %d", ErrInvalidOption, o.BackgroundAnchor)
	}
	if o.MaxRestarts < 0 {
		return fmt.Errorf("%w: max restarts %d", ErrInvalidOption, o.MaxRestarts)
	}
	if _, err := parseColors(o.RowColors); err != nil {
		return err
	}
	return nil
}

// increment returns the fixed increment configured for axis.
func (o Options) increment(axis Axis) int {
	if axis == AxisX {
		return int(o.XScrollIncrement)
	}
	return int(o.YScrollIncrement)
}

func parseColors(names []string) ([]tcell.Color, error) {
	if len(names) == 0 {
		return nil, nil
	}
	colors := make([]tcell.Color, 0, len(names))
	for _, name := range names {
		c := tcell.GetColor(name)
		if c == tcell.ColorDefault && !strings.EqualFold(name, "default") {
			return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidOption, name)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// DecodeOptions parses TOML text on top of [DefaultOptions] and validates the
// result.
func DecodeOptions(text string) (Options, error) {
	opts := DefaultOptions()
	meta, err := toml.Decode(text, &opts)
	if err != nil {
		return DefaultOptions(), fmt.Errorf("decode options: %w", err)
	}
	return finishDecode(opts, meta)
}

// LoadOptions reads TOML options from a file.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return DefaultOptions(), fmt.Errorf("load options %s: %w", path, err)
	}
	return finishDecode(opts, meta)
}

func finishDecode(opts Options, meta toml.MetaData) (Options, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return DefaultOptions(), fmt.Errorf("%w: unknown key %q", ErrInvalidOption, undecoded[0].String())
	}
	if err := opts.Validate(); err != nil {
		return DefaultOptions(), err
	}
	return opts, nil
}
