package treeview

import (
	"image"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
)

// Borders selects the edges of a box that get a border.
type Borders uint8

const (
	BordersTop Borders = 1 << iota
	BordersBottom
	BordersLeft
	BordersRight

	BordersNone Borders = 0
	BordersAll  Borders = BordersTop | BordersBottom | BordersLeft | BordersRight
)

func (b Borders) Has(flag Borders) bool {
	return b&flag == flag
}

// BorderSet holds the runes of a border: the horizontal and vertical lines
// followed by the corners in reading order.
type BorderSet struct {
	Horizontal, Vertical    rune
	TopLeft, TopRight       rune
	BottomLeft, BottomRight rune
}

func BorderSetPlain() BorderSet {
	return BorderSet{
		BoxDrawingsLightHorizontal, BoxDrawingsLightVertical,
		BoxDrawingsLightDownAndRight, BoxDrawingsLightDownAndLeft,
		BoxDrawingsLightUpAndRight, BoxDrawingsLightUpAndLeft,
	}
}

func BorderSetRound() BorderSet {
	return BorderSet{
		BoxDrawingsLightHorizontal, BoxDrawingsLightVertical,
		BoxDrawingsLightArcDownAndRight, BoxDrawingsLightArcDownAndLeft,
		BoxDrawingsLightArcUpAndRight, BoxDrawingsLightArcUpAndLeft,
	}
}

func BorderSetThick() BorderSet {
	return BorderSet{
		BoxDrawingsHeavyHorizontal, BoxDrawingsHeavyVertical,
		BoxDrawingsHeavyDownAndRight, BoxDrawingsHeavyDownAndLeft,
		BoxDrawingsHeavyUpAndRight, BoxDrawingsHeavyUpAndLeft,
	}
}

func BorderSetDouble() BorderSet {
	return BorderSet{
		BoxDrawingsDoubleHorizontal, BoxDrawingsDoubleVertical,
		BoxDrawingsDoubleDownAndRight, BoxDrawingsDoubleDownAndLeft,
		BoxDrawingsDoubleUpAndRight, BoxDrawingsDoubleUpAndLeft,
	}
}

// BorderSetByName returns the plain, round, thick or double set. Any other
// name gives the plain set.
func BorderSetByName(name string) BorderSet {
	switch name {
	case "round":
		return BorderSetRound()
	case "thick":
		return BorderSetThick()
	case "double":
		return BorderSetDouble()
	default:
		return BorderSetPlain()
	}
}

// Box is the base of every primitive: a rectangle with a background, an
// optional border and an optional title on the top edge. It tracks focus and
// whether it needs to be drawn again.
type Box struct {
	rect  image.Rectangle
	inner image.Rectangle
	// innerOK is false when inner must be recomputed.
	innerOK bool

	background tcell.Color
	// Views that paint every cell themselves skip the background fill.
	dontClear bool

	borders     Borders
	borderSet   BorderSet
	borderStyle tcell.Style
	focusStyle  tcell.Style

	title      string
	titleStyle tcell.Style

	hasFocus bool
	dirty    atomic.Bool
}

// NewBox returns a box without a border and an empty rectangle.
func NewBox() *Box {
	base := tcell.StyleDefault.Background(Styles.PrimitiveBackgroundColor)
	b := &Box{
		background:  Styles.PrimitiveBackgroundColor,
		borderSet:   BorderSetPlain(),
		borderStyle: base.Foreground(Styles.BorderColor),
		focusStyle:  base.Foreground(Styles.FocusBorderColor),
		titleStyle:  base.Foreground(Styles.TitleColor),
	}
	b.dirty.Store(true)
	return b
}

// GetRect returns the position and size of the box.
func (b *Box) GetRect() (int, int, int, int) {
	return b.rect.Min.X, b.rect.Min.Y, b.rect.Dx(), b.rect.Dy()
}

// Rect returns the position of the box as a rectangle.
func (b *Box) Rect() image.Rectangle {
	return b.rect
}

// SetRect moves the box.
func (b *Box) SetRect(x, y, width, height int) {
	r := image.Rect(x, y, x+max(width, 0), y+max(height, 0))
	if r != b.rect {
		b.rect = r
		b.innerOK = false
		b.MarkDirty()
	}
}

// InnerRect returns the part of the box inside the border and below the
// title. It is empty when nothing fits.
func (b *Box) InnerRect() image.Rectangle {
	if b.innerOK {
		return b.inner
	}
	r := b.rect
	if b.title != "" || b.borders.Has(BordersTop) {
		r.Min.Y++
	}
	if b.borders.Has(BordersBottom) {
		r.Max.Y--
	}
	if b.borders.Has(BordersLeft) {
		r.Min.X++
	}
	if b.borders.Has(BordersRight) {
		r.Max.X--
	}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		r = image.Rectangle{Min: r.Min, Max: r.Min}
	}
	b.inner, b.innerOK = r, true
	return r
}

// GetInnerRect is InnerRect as x, y, width and height.
func (b *Box) GetInnerRect() (int, int, int, int) {
	r := b.InnerRect()
	return r.Min.X, r.Min.Y, r.Dx(), r.Dy()
}

// InRect reports whether the cell (x, y) is inside the box.
func (b *Box) InRect(x, y int) bool {
	return image.Pt(x, y).In(b.rect)
}

func (b *Box) IsDirty() bool { return b.dirty.Load() }
func (b *Box) MarkDirty()    { b.dirty.Store(true) }
func (b *Box) MarkClean()    { b.dirty.Store(false) }

// InputHandler ignores every key.
func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

// MouseHandler ignores every mouse event.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	return nil, nil
}

// SetBackgroundColor sets the fill color. Border and title keep their
// foreground.
func (b *Box) SetBackgroundColor(color tcell.Color) *Box {
	if b.background == color {
		return b
	}
	b.background = color
	b.borderStyle = b.borderStyle.Background(color)
	b.focusStyle = b.focusStyle.Background(color)
	b.titleStyle = b.titleStyle.Background(color)
	b.MarkDirty()
	return b
}

// SetBorders selects the edges that get a border.
func (b *Box) SetBorders(borders Borders) *Box {
	if b.borders != borders {
		b.borders = borders
		b.innerOK = false
		b.MarkDirty()
	}
	return b
}

// SetBorderSet sets the runes the border is drawn with.
func (b *Box) SetBorderSet(set BorderSet) *Box {
	if b.borderSet != set {
		b.borderSet = set
		b.MarkDirty()
	}
	return b
}

// SetBorderStyle sets the border style, and the border style used while the
// box has focus.
func (b *Box) SetBorderStyle(style, focused tcell.Style) *Box {
	b.borderStyle, b.focusStyle = style, focused
	b.MarkDirty()
	return b
}

// SetTitle sets the text centered on the top edge.
func (b *Box) SetTitle(title string) *Box {
	if b.title != title {
		b.title = title
		b.innerOK = false
		b.MarkDirty()
	}
	return b
}

// Draw draws the background, border and title.
func (b *Box) Draw(screen tcell.Screen) {
	b.drawFrame(screen)
}

func (b *Box) drawFrame(w contentSetter) {
	r := b.rect
	if r.Empty() {
		return
	}
	if !b.dontClear {
		fill := tcell.StyleDefault.Background(b.background)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				w.SetContent(x, y, ' ', nil, fill)
			}
		}
	}

	if b.borders != BordersNone && r.Dx() >= 2 && r.Dy() >= 2 {
		style := b.borderStyle
		if b.hasFocus {
			style = b.focusStyle
		}
		b.drawBorder(w, style)
	}

	if b.title != "" && r.Dx() >= 4 {
		_, printed := Print(w, b.title, r.Min.X+1, r.Min.Y, r.Dx()-2, AlignmentCenter, b.titleStyle)
		if printed < StringWidth(b.title) && printed > 0 {
			w.SetContent(r.Max.X-2, r.Min.Y, SemigraphicsHorizontalEllipsis, nil, b.titleStyle)
		}
	}
}

func (b *Box) drawBorder(w contentSetter, style tcell.Style) {
	r, set := b.rect, b.borderSet
	top, bottom := r.Min.Y, r.Max.Y-1
	left, right := r.Min.X, r.Max.X-1

	for x := left + 1; x < right; x++ {
		if b.borders.Has(BordersTop) {
			w.SetContent(x, top, set.Horizontal, nil, style)
		}
		if b.borders.Has(BordersBottom) {
			w.SetContent(x, bottom, set.Horizontal, nil, style)
		}
	}
	for y := top + 1; y < bottom; y++ {
		if b.borders.Has(BordersLeft) {
			w.SetContent(left, y, set.Vertical, nil, style)
		}
		if b.borders.Has(BordersRight) {
			w.SetContent(right, y, set.Vertical, nil, style)
		}
	}

	corners := []struct {
		edges Borders
		x, y  int
		r     rune
	}{
		{BordersTop | BordersLeft, left, top, set.TopLeft},
		{BordersTop | BordersRight, right, top, set.TopRight},
		{BordersBottom | BordersLeft, left, bottom, set.BottomLeft},
		{BordersBottom | BordersRight, right, bottom, set.BottomRight},
	}
	for _, c := range corners {
		if b.borders.Has(c.edges) {
			w.SetContent(c.x, c.y, c.r, nil, style)
		}
	}
}

// Focus marks the box focused. A box has no children to delegate to.
func (b *Box) Focus(delegate func(p Primitive)) {
	if !b.hasFocus {
		b.hasFocus = true
		b.MarkDirty()
	}
}

// Blur marks the box unfocused.
func (b *Box) Blur() {
	if b.hasFocus {
		b.hasFocus = false
		b.MarkDirty()
	}
}

func (b *Box) HasFocus() bool {
	return b.hasFocus
}
