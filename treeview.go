package treeview

import (
	"image"

	"github.com/ayn2op/treeview/keybind"
	"github.com/gdamore/tcell/v2"
)

// Keymap holds the key bindings of a TreeView. It can be decoded from TOML;
// every binding accepts a key name or a list of key names.
type Keymap struct {
	Up       keybind.Keybind `toml:"up"`
	Down     keybind.Keybind `toml:"down"`
	PageUp   keybind.Keybind `toml:"page_up"`
	PageDown keybind.Keybind `toml:"page_down"`
	Home     keybind.Keybind `toml:"home"`
	End      keybind.Keybind `toml:"end"`
	Left     keybind.Keybind `toml:"left"`
	Right    keybind.Keybind `toml:"right"`
}

// DefaultKeymap returns arrow key and vi style bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Up:       keybind.NewKeybind(keybind.WithKeys("up", "k"), keybind.WithHelp("↑/k", "up")),
		Down:     keybind.NewKeybind(keybind.WithKeys("down", "j"), keybind.WithHelp("↓/j", "down")),
		PageUp:   keybind.NewKeybind(keybind.WithKeys("pgup", "ctrl+b"), keybind.WithHelp("pgup", "page up")),
		PageDown: keybind.NewKeybind(keybind.WithKeys("pgdn", "ctrl+f"), keybind.WithHelp("pgdn", "page down")),
		Home:     keybind.NewKeybind(keybind.WithKeys("home", "g"), keybind.WithHelp("g", "top")),
		End:      keybind.NewKeybind(keybind.WithKeys("end", "G"), keybind.WithHelp("G", "bottom")),
		Left:     keybind.NewKeybind(keybind.WithKeys("left", "h"), keybind.WithHelp("←/h", "left")),
		Right:    keybind.NewKeybind(keybind.WithKeys("right", "l"), keybind.WithHelp("→/l", "right")),
	}
}

// ShortHelp returns the bindings shown in a one line help bar.
func (k Keymap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Up, k.Down, k.PageDown, k.Home, k.End}
}

// FullHelp returns every binding grouped by axis.
func (k Keymap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Home, k.End, k.Left, k.Right},
	}
}

// The number of scroll units one wheel step moves.
const wheelUnits = 3

// TreeView shows the items of an ItemSource in a box with an optional column
// header and scroll bar. Rendering goes to an offscreen CellBuffer; only the
// cells that changed are sent to the screen.
type TreeView struct {
	*Box

	engine    *Engine
	buffer    *CellBuffer
	scrollBar *ScrollBar
	keys      Keymap

	headerStyle tcell.Style

	// flushAll makes the next flush send every cell, after a resize or a
	// screen clear.
	flushAll bool

	last    RenderResult
	lastErr error

	selected func(item ItemID)
}

// NewTreeView returns a view over source.
func NewTreeView(source ItemSource) *TreeView {
	t := &TreeView{
		Box:         NewBox(),
		engine:      NewEngine(source),
		scrollBar:   NewScrollBar(),
		keys:        DefaultKeymap(),
		headerStyle: tcell.StyleDefault.Foreground(Styles.SecondaryTextColor).Background(Styles.PrimitiveBackgroundColor).Bold(true),
	}
	t.dontClear = true
	t.engine.SetBackground(tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Background(Styles.PrimitiveBackgroundColor))
	t.engine.SetDecorator(t.decorate)
	return t
}

// Engine returns the engine rendering this view.
func (t *TreeView) Engine() *Engine {
	return t.engine
}

// LastResult returns the statistics and error of the last render pass.
func (t *TreeView) LastResult() (RenderResult, error) {
	return t.last, t.lastErr
}

// SetKeymap replaces the key bindings.
func (t *TreeView) SetKeymap(keys Keymap) *TreeView {
	t.keys = keys
	return t
}

// ScrollBar returns the vertical scroll bar. Call InvalidateChrome on the
// engine after changing it.
func (t *TreeView) ScrollBar() *ScrollBar {
	return t.scrollBar
}

// Keymap returns the key bindings.
func (t *TreeView) Keymap() Keymap {
	return t.keys
}

// SetSelectedFunc sets a handler called with the item under a left click.
func (t *TreeView) SetSelectedFunc(handler func(item ItemID)) *TreeView {
	t.selected = handler
	return t
}

// SetHeaderStyle sets the style of the column header.
func (t *TreeView) SetHeaderStyle(style tcell.Style) *TreeView {
	if t.headerStyle != style {
		t.headerStyle = style
		t.engine.InvalidateChrome()
	}
	return t
}

// SetBackgroundColor sets the background of the box, the whitespace and the
// items.
func (t *TreeView) SetBackgroundColor(color tcell.Color) *TreeView {
	t.Box.SetBackgroundColor(color)
	t.scrollBar.SetBackgroundColor(color)
	t.engine.SetBackground(t.engine.bg.Background(color))
	return t
}

// SetOptions applies opts. Invalid options are rejected and the view keeps
// its current options.
func (t *TreeView) SetOptions(opts Options) error {
	return t.engine.SetOptions(opts)
}

// Options returns the current options.
func (t *TreeView) Options() Options {
	return t.engine.Options()
}

// SetRedrawFunc sets the function the view calls when it needs a new frame.
func (t *TreeView) SetRedrawFunc(f func()) {
	t.engine.SetRedrawFunc(f)
}

// ScreenCleared makes the next draw send every cell to the screen.
func (t *TreeView) ScreenCleared() {
	t.flushAll = true
}

// InvalidateLayout marks the item layout stale.
func (t *TreeView) InvalidateLayout() {
	t.engine.InvalidateLayout()
}

// InvalidateColumnWidths marks the column widths stale.
func (t *TreeView) InvalidateColumnWidths() {
	t.engine.InvalidateColumnWidths()
}

// InvalidateDisplay marks screen rectangles for repaint.
func (t *TreeView) InvalidateDisplay(rects ...image.Rectangle) {
	t.engine.InvalidateDisplay(rects...)
}

// InvalidateItem marks item, or some of its columns, for redraw.
func (t *TreeView) InvalidateItem(item ItemID, columns ...int) {
	t.engine.InvalidateItem(item, columns...)
}

// ItemDeleted tells the view that item is gone.
func (t *TreeView) ItemDeleted(item ItemID) {
	t.engine.ItemDeleted(item)
}

// SetScrollOrigin scrolls axis to offset cells.
func (t *TreeView) SetScrollOrigin(axis Axis, offset int) {
	t.engine.SetScrollOrigin(axis, offset)
}

// ScrollBy scrolls axis by amount units or pages.
func (t *TreeView) ScrollBy(axis Axis, amount int, unit ScrollUnit) {
	t.engine.ScrollBy(axis, amount, unit)
}

// ScrollToFraction scrolls axis to fraction f of the content.
func (t *TreeView) ScrollToFraction(axis Axis, f float64) {
	t.engine.ScrollToFraction(axis, f)
}

// ScrollFractions returns the visible part of axis as content fractions.
func (t *TreeView) ScrollFractions(axis Axis) (float64, float64) {
	return t.engine.ScrollFractions(axis)
}

// ItemAt returns the item at screen position (x, y).
func (t *TreeView) ItemAt(x, y int) (ItemID, bool) {
	return t.engine.ItemAt(image.Pt(x, y))
}

// Destroy stops rendering. Later draws leave the screen untouched.
func (t *TreeView) Destroy() {
	t.engine.Destroy()
}

// viewRect returns the part of the inner rect items are shown in.
func (t *TreeView) viewRect() image.Rectangle {
	x, y, width, height := t.GetInnerRect()
	r := image.Rect(x, y, x+width, y+height)
	opts := t.engine.opts
	if opts.ShowHeader && r.Dy() > 0 {
		r.Min.Y++
	}
	if opts.ShowScrollBar && r.Dx() > 0 {
		r.Max.X--
	}
	return r
}

// Draw renders a pass into the cell buffer and flushes the changed cells.
func (t *TreeView) Draw(screen tcell.Screen) {
	rect := t.Rect()
	if rect.Empty() || t.engine.state.destroyed {
		return
	}
	if t.buffer == nil {
		t.buffer = NewCellBuffer(rect)
		t.flushAll = true
	} else if t.buffer.Bounds() != rect {
		t.buffer.Resize(rect)
		t.engine.state.InvalidateAll()
		t.flushAll = true
	}
	if t.IsDirty() {
		t.engine.state.InvalidateChrome()
	}

	res, err := t.engine.Render(t.buffer, t.viewRect())
	// After ErrConsistency the engine has dropped its caches. The pass that
	// follows the next invalidation rebuilds them.
	t.last, t.lastErr = res, err

	t.buffer.Flush(screen, t.flushAll)
	t.flushAll = false
	t.MarkClean()
}

// decorate draws the parts of the view outside the item viewport.
func (t *TreeView) decorate(s Surface, flags ChromeFlags) {
	if flags.Border {
		t.drawFrame(s)
	}
	opts := t.engine.opts
	if flags.Header && opts.ShowHeader {
		t.drawHeader(s)
	}
	if flags.ScrollBar && opts.ShowScrollBar {
		t.drawScrollBar(s)
	}
}

func (t *TreeView) drawHeader(s Surface) {
	x, y, width, _ := t.GetInnerRect()
	row := image.Rect(x, y, x+width, y+1)
	s.Fill(row, ' ', t.headerStyle)
	for _, area := range t.engine.HeaderAreas() {
		clip := image.Rect(area.Clip.Min.X, y, area.Clip.Max.X, y+1)
		cs := newClippedSurface(s, clip)
		for _, span := range area.Columns {
			title := t.engine.column(span.Column).Title
			// Leave one cell between titles.
			left, maxWidth := span.X, span.Width-1
			if maxWidth <= 0 {
				maxWidth = span.Width
			}
			skip := 0
			if left < clip.Min.X {
				skip = clip.Min.X - left
				left = clip.Min.X
				maxWidth -= skip
			}
			if maxWidth <= 0 {
				continue
			}
			printWithStyle(cs, title, left, y, skip, maxWidth, AlignmentLeft, t.headerStyle)
		}
	}
}

func (t *TreeView) drawScrollBar(s Surface) {
	view := t.viewRect()
	if view.Empty() {
		return
	}
	t.scrollBar.SetRect(image.Rect(view.Max.X, view.Min.Y, view.Max.X+1, view.Max.Y))
	t.scrollBar.SetFractions(t.engine.ScrollFractions(AxisY))
	t.scrollBar.draw(s)
}

// InputHandler scrolls the view.
func (t *TreeView) InputHandler(event *tcell.EventKey) Command {
	switch {
	case keybind.Matches(event, t.keys.Up):
		t.engine.ScrollBy(AxisY, -1, ScrollUnits)
	case keybind.Matches(event, t.keys.Down):
		t.engine.ScrollBy(AxisY, 1, ScrollUnits)
	case keybind.Matches(event, t.keys.PageUp):
		t.engine.ScrollBy(AxisY, -1, ScrollPages)
	case keybind.Matches(event, t.keys.PageDown):
		t.engine.ScrollBy(AxisY, 1, ScrollPages)
	case keybind.Matches(event, t.keys.Home):
		t.engine.SetScrollOrigin(AxisY, 0)
	case keybind.Matches(event, t.keys.End):
		t.engine.ScrollToFraction(AxisY, 1)
	case keybind.Matches(event, t.keys.Left):
		t.engine.ScrollBy(AxisX, -1, ScrollUnits)
	case keybind.Matches(event, t.keys.Right):
		t.engine.ScrollBy(AxisX, 1, ScrollUnits)
	default:
		return nil
	}
	return RedrawCommand{}
}

// MouseHandler scrolls on wheel events, handles clicks on the scroll bar and
// reports clicked items.
func (t *TreeView) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	if !t.InRect(x, y) {
		return nil, nil
	}
	switch action {
	case MouseScrollUp:
		t.engine.ScrollBy(AxisY, -wheelUnits, ScrollUnits)
	case MouseScrollDown:
		t.engine.ScrollBy(AxisY, wheelUnits, ScrollUnits)
	case MouseScrollLeft:
		t.engine.ScrollBy(AxisX, -wheelUnits, ScrollUnits)
	case MouseScrollRight:
		t.engine.ScrollBy(AxisX, wheelUnits, ScrollUnits)
	case MouseLeftClick:
		view := t.viewRect()
		if t.engine.opts.ShowScrollBar && x == view.Max.X && y >= view.Min.Y && y < view.Max.Y {
			t.clickScrollBar(y)
			break
		}
		if item, ok := t.engine.ItemAt(image.Pt(x, y)); ok && t.selected != nil {
			t.selected(item)
		}
	default:
		return nil, nil
	}
	return nil, RedrawCommand{}
}

func (t *TreeView) clickScrollBar(y int) {
	hit, fraction := t.scrollBar.Hit(y)
	switch hit {
	case ScrollBarHitArrowUp:
		t.engine.ScrollBy(AxisY, -1, ScrollUnits)
	case ScrollBarHitArrowDown:
		t.engine.ScrollBy(AxisY, 1, ScrollUnits)
	case ScrollBarHitPageUp:
		t.engine.ScrollBy(AxisY, -1, ScrollPages)
	case ScrollBarHitPageDown:
		t.engine.ScrollBy(AxisY, 1, ScrollPages)
	case ScrollBarHitJump:
		t.engine.ScrollToFraction(AxisY, fraction)
	}
}

var _ Primitive = &TreeView{}
