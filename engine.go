package treeview

import (
	"image"
	"iter"
	"slices"

	"github.com/gdamore/tcell/v2"
)

// Axis selects a scroll direction.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// ScrollUnit is the unit of a relative scroll request.
type ScrollUnit uint8

const (
	// ScrollUnits moves by scroll increments.
	ScrollUnits ScrollUnit = iota
	// ScrollPages moves by viewports.
	ScrollPages
)

// ItemSource supplies the items a view shows. Calls happen on the UI
// goroutine during a render pass and must not block.
type ItemSource interface {
	// ColumnCount returns the number of columns. Zero is treated as one
	// unconstrained column.
	ColumnCount() int
	Column(i int) Column
	// VisibleItems yields the items in traversal order. It is called at most
	// once per pass.
	VisibleItems() iter.Seq[ItemID]
	// NaturalSize returns the size item needs in column. width is the
	// resolved column width, or -1 while widths are being resolved.
	NaturalSize(item ItemID, column, width int) (w, h int)
	// DrawItem draws item. An error leaves the item dirty for the next pass.
	DrawItem(item ItemID, ctx DrawContext) error
}

// WrapHinter is implemented by sources that force some items to start a new
// range.
type WrapHinter interface {
	WrapBefore(item ItemID) bool
}

// VisibilityListener is implemented by sources that attach resources to items
// while they are on screen. Notifications for a frame arrive before any item
// of that frame is drawn.
type VisibilityListener interface {
	VisibilityChanged(item ItemID, visible bool)
}

// ColumnVisibilityListener is implemented by sources that track which columns
// of an item are on screen.
type ColumnVisibilityListener interface {
	ColumnsChanged(item ItemID, added, removed []int)
}

// ColumnSpan is the screen extent of one column of an item.
type ColumnSpan struct {
	Column int
	X      int
	Width  int
}

// DrawContext describes where an item draws.
type DrawContext struct {
	// Surface only accepts writes inside Clip.
	Surface Surface
	// Rect is the full extent of the item in this area, possibly larger than
	// the viewport.
	Rect image.Rectangle
	Clip image.Rectangle
	// Columns lists the columns shown in this area.
	Columns []ColumnSpan
	// Index is the position of the item in traversal order.
	Index int
	// Background is the style the item area was cleared with.
	Background tcell.Style
}

// area indices of a display item.
const (
	areaMain = iota
	areaLeft
	areaRight
	areaCount
)

// Engine lays out and renders the items of an ItemSource into a Surface,
// redrawing only what changed since the previous pass.
type Engine struct {
	source ItemSource
	opts   Options
	colors []tcell.Color
	bg     tcell.Style

	state  RenderState
	sizer  ColumnSizer
	ranges RangeList
	xIndex ScrollIndex
	yIndex ScrollIndex
	cache  DisplayCache

	// Scroll origin of the main area in content cells, and the origin the
	// surface currently shows.
	origin     image.Point
	lastOrigin image.Point

	view        image.Rectangle
	clips       [areaCount]image.Rectangle
	locked      bool
	prevWidths  []int
	specs       []Column
	items       []ItemID
	needed      []int
	// needs holds the natural column widths of every traversed item.
	needs       map[ItemID][]int
	pattern     []rune
	whitespace  Region
	lastTail    bandTail
	pending     pendingSurface
	placements  []placement
	pendingHide []ItemID
	visEvents   []visibilityEvent
	colEvents   []columnsEvent

	requestRedraw func()
	visibility    func(item ItemID, visible bool)
	columns       func(item ItemID, added, removed []int)
	decorate      func(s Surface, flags ChromeFlags)
}

// ChromeFlags tell the decoration callback what to redraw.
type ChromeFlags struct {
	Header    bool
	ScrollBar bool
	Border    bool
}

// NewEngine returns an engine over source with default options.
func NewEngine(source ItemSource) *Engine {
	e := &Engine{
		source: source,
		opts:   DefaultOptions(),
		state:  newRenderState(),
		bg:     tcell.StyleDefault,
	}
	e.cache.init()
	return e
}

// SetRedrawFunc sets the function called whenever an invalidation needs a
// new pass. Repeated calls before the pass runs are expected to coalesce.
func (e *Engine) SetRedrawFunc(f func()) {
	e.requestRedraw = f
}

// SetVisibilityChangedFunc sets a handler called when an item enters or leaves
// the viewport.
func (e *Engine) SetVisibilityChangedFunc(f func(item ItemID, visible bool)) {
	e.visibility = f
}

// SetColumnsChangedFunc sets a handler called when the set of on-screen
// columns of a displayed item changes.
func (e *Engine) SetColumnsChangedFunc(f func(item ItemID, added, removed []int)) {
	e.columns = f
}

// SetDecorator sets the function drawing header, scroll bar and border.
func (e *Engine) SetDecorator(f func(s Surface, flags ChromeFlags)) {
	e.decorate = f
}

// SetBackground sets the style used for whitespace and item backgrounds.
func (e *Engine) SetBackground(style tcell.Style) {
	if e.bg != style {
		e.bg = style
		e.state.InvalidateAll()
		e.redraw()
	}
}

// Options returns the current options.
func (e *Engine) Options() Options {
	return e.opts
}

// SetOptions validates and applies opts. Invalid options are rejected and the
// engine keeps its current options.
func (e *Engine) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		Logger().Warn("treeview: options rejected", "err", err)
		return err
	}
	colors, _ := parseColors(opts.RowColors)
	old := e.opts
	e.opts = opts
	e.colors = colors
	e.pattern = []rune(opts.BackgroundPattern)
	switch {
	case old.Orientation != opts.Orientation, old.Wrap != opts.Wrap, old.WrapArg != opts.WrapArg,
		old.ItemSize != opts.ItemSize, old.ItemSizeArg != opts.ItemSizeArg,
		old.ItemHeight != opts.ItemHeight, old.MinItemHeight != opts.MinItemHeight:
		e.state.InvalidateAll()
	case old.XScrollIncrement != opts.XScrollIncrement, old.YScrollIncrement != opts.YScrollIncrement:
		e.state.InvalidateIncrements()
	}
	if !slices.Equal(old.RowColors, opts.RowColors) || old.BackgroundPattern != opts.BackgroundPattern ||
		old.BackgroundAnchor != opts.BackgroundAnchor || old.ShowHeader != opts.ShowHeader ||
		old.ShowScrollBar != opts.ShowScrollBar {
		e.state.InvalidateAll()
	}
	e.redraw()
	return nil
}

func (e *Engine) redraw() {
	if e.requestRedraw != nil && !e.state.destroyed {
		e.requestRedraw()
	}
}

// InvalidateLayout marks the item layout stale, for example after items were
// added, removed or resized.
func (e *Engine) InvalidateLayout() {
	e.state.InvalidateLayout()
	e.redraw()
}

// InvalidateColumnWidths marks the column widths stale.
func (e *Engine) InvalidateColumnWidths() {
	e.state.InvalidateWidths()
	e.redraw()
}

// InvalidateAll discards every cached pixel. The next pass repaints the whole
// viewport.
func (e *Engine) InvalidateAll() {
	e.state.InvalidateAll()
	e.redraw()
}

// InvalidateChrome marks the header, scroll bar and border for redraw.
func (e *Engine) InvalidateChrome() {
	e.state.InvalidateChrome()
	e.redraw()
}

// InvalidateDisplay marks the cells of rects dirty. rects are in surface
// coordinates. Invalidating the same cells twice has the same effect as
// invalidating them once.
func (e *Engine) InvalidateDisplay(rects ...image.Rectangle) {
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		e.cache.invalidateRect(r)
		e.whitespace.Subtract(r)
		if e.opts.ShowHeader && r.Min.Y < e.view.Min.Y {
			e.state.headerDirty = true
		}
		if r.Max.X > e.view.Max.X || r.Max.Y > e.view.Max.Y || r.Min.X < e.view.Min.X {
			e.state.scrollBarDirty = true
			e.state.borderDirty = true
		}
	}
	e.state.bump()
	e.redraw()
}

// InvalidateItem marks item for redraw. With no columns the whole item is
// redrawn; otherwise only the given columns. Only this item is measured
// again; column widths change if its needs moved the widest need of a
// column.
func (e *Engine) InvalidateItem(item ItemID, columns ...int) {
	e.state.remeasure = append(e.state.remeasure, item)
	e.state.layoutDirty = true
	e.state.incrementsDirty = true
	d := e.cache.lookup(item)
	if d != nil {
		if len(columns) == 0 {
			d.fullDirty = true
		} else {
			for _, c := range columns {
				e.invalidateColumn(d, c)
			}
		}
	}
	e.state.bump()
	e.redraw()
}

func (e *Engine) invalidateColumn(d *DItem, column int) {
	for a := range d.areas {
		ar := &d.areas[a]
		if ar.rect.Empty() {
			continue
		}
		for _, span := range e.spans(a, ar.rect) {
			if span.Column == column {
				r := image.Rect(span.X, ar.rect.Min.Y, span.X+span.Width, ar.rect.Max.Y)
				ar.dirty = ar.dirty.Union(r.Sub(ar.rect.Min))
			}
		}
	}
}

// ItemDeleted tells the engine that item no longer exists. Its display entry
// is released at once and a hidden notification is delivered on the next
// pass.
func (e *Engine) ItemDeleted(item ItemID) {
	if d := e.cache.lookup(item); d != nil {
		e.cache.release(d)
		e.pendingHide = append(e.pendingHide, item)
	}
	e.state.InvalidateLayout()
	e.redraw()
}

// SetScrollOrigin scrolls axis to offset cells. The offset snaps to the
// scroll unit at or before it and is clamped to the scrollable range on the
// next pass.
func (e *Engine) SetScrollOrigin(axis Axis, offset int) {
	e.state.queueScroll(scrollRequest{axis: axis, kind: scrollOrigin, amount: offset})
	e.redraw()
}

// ScrollBy scrolls axis by amount units or pages.
func (e *Engine) ScrollBy(axis Axis, amount int, unit ScrollUnit) {
	kind := scrollUnits
	if unit == ScrollPages {
		kind = scrollPages
	}
	e.state.queueScroll(scrollRequest{axis: axis, kind: kind, amount: amount})
	e.redraw()
}

// ScrollToFraction scrolls axis so that fraction f of the content is at the
// start of the viewport.
func (e *Engine) ScrollToFraction(axis Axis, f float64) {
	e.state.queueScroll(scrollRequest{axis: axis, kind: scrollFraction, fraction: f})
	e.redraw()
}

// ScrollOrigin returns the scroll offset of axis as of the last pass.
func (e *Engine) ScrollOrigin(axis Axis) int {
	if axis == AxisX {
		return e.origin.X
	}
	return e.origin.Y
}

// ScrollFractions returns the visible part of the content along axis as
// fractions of the content size.
func (e *Engine) ScrollFractions(axis Axis) (float64, float64) {
	if axis == AxisX {
		return e.xIndex.Fractions(e.origin.X)
	}
	return e.yIndex.Fractions(e.origin.Y)
}

// ScrollExtent returns the scroll offset, content size and viewport size of
// axis as of the last pass.
func (e *Engine) ScrollExtent(axis Axis) (offset, total, visible int) {
	if axis == AxisX {
		return e.origin.X, e.xIndex.Total(), e.xIndex.Visible()
	}
	return e.origin.Y, e.yIndex.Total(), e.yIndex.Visible()
}

// Canvas returns the content size of the main area.
func (e *Engine) Canvas() image.Point {
	return e.canvas()
}

// ColumnWidths returns the resolved column widths.
func (e *Engine) ColumnWidths() []int {
	return e.sizer.Widths()
}

// AreaClips returns the screen rectangles of the left, main and right areas.
func (e *Engine) AreaClips() (left, main, right image.Rectangle) {
	return e.clips[areaLeft], e.clips[areaMain], e.clips[areaRight]
}

// ItemAt returns the item shown at surface position p.
func (e *Engine) ItemAt(p image.Point) (ItemID, bool) {
	for a := range areaCount {
		if !p.In(e.clips[a]) {
			continue
		}
		content := p.Sub(e.clips[a].Min)
		if a == areaMain {
			content = content.Add(e.origin)
		} else {
			content.X = 0
			content.Y += e.origin.Y
		}
		i, ok := e.ranges.HitTest(content)
		if !ok {
			return 0, false
		}
		return e.ranges.RItem(i).Item, true
	}
	return 0, false
}

// DisplayedItems returns the number of items with a display entry.
func (e *Engine) DisplayedItems() int {
	return e.cache.Len()
}

// Ranges returns the current range partition.
func (e *Engine) Ranges() *RangeList {
	return &e.ranges
}

// Destroy stops the engine. A pass running at the time is aborted and every
// later pass returns ErrDestroyed.
func (e *Engine) Destroy() {
	if e.state.destroyed {
		return
	}
	e.state.destroyed = true
	e.state.bump()
	e.reset()
}

// reset drops every cache. The next pass starts from scratch.
func (e *Engine) reset() {
	e.cache.releaseAll()
	e.ranges.Reset()
	e.whitespace.Clear()
	e.placements = e.placements[:0]
	e.prevWidths = e.prevWidths[:0]
	e.needs = nil
	e.lastTail = bandTail{}
	destroyed := e.state.destroyed
	gen := e.state.generation
	e.state = newRenderState()
	e.state.destroyed = destroyed
	e.state.generation = gen + 1
}
