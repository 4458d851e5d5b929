package treeview

import (
	"image"
	"slices"
)

// collectItems reads the traversal once for this pass.
func (e *Engine) collectItems() {
	seen := make(map[ItemID]struct{}, len(e.items))
	e.items = e.items[:0]
	for item := range e.source.VisibleItems() {
		if _, dup := seen[item]; dup {
			consistencyPanic("traverse", item, "item yielded twice")
		}
		seen[item] = struct{}{}
		e.items = append(e.items, item)
	}
}

func (e *Engine) columnCount() int {
	return max(e.source.ColumnCount(), 1)
}

func (e *Engine) column(i int) Column {
	if e.source.ColumnCount() == 0 {
		return Column{}
	}
	return e.source.Column(i)
}

// singleBand reports whether every item ends up in one range.
func (e *Engine) singleBand() bool {
	if e.opts.Wrap != WrapNone {
		return false
	}
	_, hinted := e.source.(WrapHinter)
	return !hinted
}

// loadSpecs reads the column constraints from the source.
func (e *Engine) loadSpecs() {
	n := e.columnCount()
	lockable := e.opts.Orientation == Vertical && e.singleBand()

	e.specs = e.specs[:0]
	e.locked = false
	for i := range n {
		spec := e.column(i)
		if !lockable {
			spec.Lock = LockNone
		}
		if spec.Lock != LockNone && !spec.Hidden {
			e.locked = true
		}
		e.specs = append(e.specs, spec)
	}
}

// updateNeeds measures the natural column widths of items that are new or
// were invalidated since the last pass, or of every item when all is set. It
// reports whether the widest need of any column changed.
func (e *Engine) updateNeeds(all bool) bool {
	if all {
		e.needs = nil
	}
	for _, item := range e.state.remeasure {
		delete(e.needs, item)
	}

	n := len(e.specs)
	next := make(map[ItemID][]int, len(e.items))
	for _, item := range e.items {
		widths, ok := e.needs[item]
		if !ok || len(widths) != n {
			widths = make([]int, n)
			for c := range n {
				if e.specs[c].Hidden || e.specs[c].Width > 0 {
					continue
				}
				widths[c], _ = e.source.NaturalSize(item, c, -1)
			}
		}
		next[item] = widths
	}
	e.needs = next

	needed := make([]int, n)
	for _, widths := range next {
		for c, w := range widths {
			needed[c] = max(needed[c], w)
		}
	}
	changed := !slices.Equal(needed, e.needed)
	e.needed = needed
	return changed
}

// resolveColumns is step 1.
func (e *Engine) resolveColumns() {
	e.sizer.Resolve(e.specs, e.needed, e.view.Dx())
	e.computeAreas()

	widths := e.sizer.Widths()
	if !slices.Equal(widths, e.prevWidths) {
		if len(e.prevWidths) > 0 {
			// Column content moves inside every item.
			e.state.invalidateAll = true
		}
		e.prevWidths = append(e.prevWidths[:0], widths...)
		e.state.headerDirty = true
	}
}

func (e *Engine) computeAreas() {
	left, right := 0, 0
	if e.locked {
		left = min(e.sizer.GroupWidth(LockLeft), e.view.Dx())
		right = min(e.sizer.GroupWidth(LockRight), e.view.Dx()-left)
	}
	v := e.view
	e.clips = [areaCount]image.Rectangle{}
	e.clips[areaMain] = image.Rect(v.Min.X+left, v.Min.Y, v.Max.X-right, v.Max.Y)
	if left > 0 {
		e.clips[areaLeft] = image.Rect(v.Min.X, v.Min.Y, v.Min.X+left, v.Max.Y)
	}
	if right > 0 {
		e.clips[areaRight] = image.Rect(v.Max.X-right, v.Min.Y, v.Max.X, v.Max.Y)
	}
}

// mainWidth is the cross extent of an item in a single vertical band.
func (e *Engine) mainWidth() int {
	w := e.sizer.GroupWidth(LockNone)
	if e.singleBand() {
		w += e.sizer.TailWidth()
	}
	return w
}

func (e *Engine) measure(item ItemID) (size, cross int) {
	h := 0
	total := 0
	for c, width := range e.sizer.Widths() {
		if width <= 0 || e.specs[c].Hidden {
			continue
		}
		total += width
		_, ch := e.source.NaturalSize(item, c, width)
		h = max(h, ch)
	}
	if e.opts.ItemHeight > 0 {
		h = e.opts.ItemHeight
	}
	h = max(h, e.opts.MinItemHeight, 1)

	if e.opts.Orientation == Horizontal {
		return total, h
	}
	if e.opts.Orientation == Vertical && e.singleBand() {
		return h, e.mainWidth()
	}
	return h, total
}

// partition is step 2.
func (e *Engine) partition() {
	viewport := e.clips[areaMain].Dy()
	if e.opts.Orientation == Horizontal {
		viewport = e.clips[areaMain].Dx()
	}
	var wrapBefore func(ItemID) bool
	if h, ok := e.source.(WrapHinter); ok {
		wrapBefore = h.WrapBefore
	}
	e.ranges.Recompute(
		e.opts.Orientation,
		WrapPolicy{Mode: e.opts.Wrap, Arg: e.opts.WrapArg},
		CrossSizing{Mode: e.opts.ItemSize, Arg: e.opts.ItemSizeArg},
		viewport,
		slices.Values(e.items),
		e.measure,
		wrapBefore,
	)
}

func (e *Engine) canvas() image.Point {
	return e.ranges.Canvas()
}

// buildIndexes is step 3.
func (e *Engine) buildIndexes() {
	canvas := e.canvas()
	main := e.clips[areaMain]
	build := func(idx *ScrollIndex, axis Axis, total, visible int) {
		if inc := e.opts.increment(axis); inc > 0 {
			idx.BuildFixed(inc, total, visible)
			return
		}
		idx.BuildAuto(e.boundaries(axis), total, visible)
	}
	build(&e.xIndex, AxisX, canvas.X, main.Dx())
	build(&e.yIndex, AxisY, canvas.Y, main.Dy())
}

// boundaries returns the automatic scroll stops of axis: item offsets along
// the item axis, range offsets across it, or column offsets for a single
// vertical band.
func (e *Engine) boundaries(axis Axis) []int {
	along := AxisY
	if e.opts.Orientation == Horizontal {
		along = AxisX
	}
	var out []int
	switch {
	case axis == along:
		for i := range e.ranges.ItemCount() {
			out = append(out, e.ranges.RItem(i).Offset)
		}
	case e.opts.Orientation == Vertical && e.singleBand():
		for i := range e.sizer.Count() {
			if e.sizer.Lock(i) == LockNone && e.sizer.Width(i) > 0 {
				out = append(out, e.sizer.Offset(i))
			}
		}
	default:
		for i := range e.ranges.Len() {
			out = append(out, e.ranges.Offset(i))
		}
	}
	return out
}

// resolveOrigin is step 4: queued scroll requests are applied in order, then
// the origin is clamped to the scrollable range.
func (e *Engine) resolveOrigin() {
	for _, r := range e.state.scrolls {
		idx, cur := &e.xIndex, &e.origin.X
		if r.axis == AxisY {
			idx, cur = &e.yIndex, &e.origin.Y
		}
		switch r.kind {
		case scrollOrigin:
			*cur = idx.Snap(r.amount)
		case scrollUnits:
			*cur = idx.Units(*cur, r.amount)
		case scrollPages:
			*cur = idx.Pages(*cur, r.amount)
		case scrollFraction:
			*cur = idx.Fraction(r.fraction)
		}
	}
	e.origin.X = min(max(e.origin.X, 0), e.xIndex.Max())
	e.origin.Y = min(max(e.origin.Y, 0), e.yIndex.Max())
}

// layout runs steps 1 to 4.
func (e *Engine) layout() {
	s := &e.state
	if s.widthsDirty || s.layoutDirty {
		e.collectItems()
		if s.widthsDirty {
			e.loadSpecs()
		}
		if e.updateNeeds(s.widthsDirty) {
			s.widthsDirty = true
		}
	}
	if s.widthsDirty {
		e.resolveColumns()
		s.layoutDirty = true
	}
	if s.layoutDirty {
		e.partition()
		s.incrementsDirty = true
	}
	if s.incrementsDirty {
		e.buildIndexes()
	}
	before := e.origin
	e.resolveOrigin()
	if e.origin != before {
		s.scrollBarDirty = true
	}
	if e.origin.X != e.lastOrigin.X {
		s.headerDirty = true
	}
	s.layoutDone()
}

// placement is where one visible item goes this frame.
type placement struct {
	item       ItemID
	ritem      int
	rng        int
	rangeCross int
	rects      [areaCount]image.Rectangle
}

// place computes the placements of every item intersecting the viewport.
func (e *Engine) place() {
	e.placements = e.placements[:0]
	main := e.clips[areaMain]
	vertical := e.opts.Orientation == Vertical

	alongStart, alongLen := e.origin.Y, main.Dy()
	crossStart, crossLen := e.origin.X, main.Dx()
	if !vertical {
		alongStart, alongLen = e.origin.X, main.Dx()
		crossStart, crossLen = e.origin.Y, main.Dy()
	}
	if e.locked {
		// Rows show in the pinned areas even when the main area is empty.
		crossStart, crossLen = 0, 1
	}
	if alongLen <= 0 || crossLen <= 0 {
		return
	}

	r, ok := e.ranges.RangeAt(crossStart)
	if e.locked {
		r, ok = 0, e.ranges.Len() > 0
	}
	if !ok {
		return
	}
	for ; r < e.ranges.Len() && e.ranges.Offset(r) < crossStart+crossLen; r++ {
		k, ok := e.ranges.ItemAt(r, alongStart)
		if !ok {
			continue
		}
		_, cross := e.ranges.Totals(r)
		last := e.ranges.Range(r).Last
		for ; k <= last; k++ {
			ri := e.ranges.RItem(k)
			if ri.Offset >= alongStart+alongLen {
				break
			}
			p := placement{item: ri.Item, ritem: k, rng: r, rangeCross: cross}
			content := e.ranges.ItemRect(k)
			p.rects[areaMain] = content.Sub(e.origin).Add(main.Min)
			if e.locked {
				y0, y1 := p.rects[areaMain].Min.Y, p.rects[areaMain].Max.Y
				if c := e.clips[areaLeft]; !c.Empty() {
					p.rects[areaLeft] = image.Rect(c.Min.X, y0, c.Min.X+e.sizer.GroupWidth(LockLeft), y1)
				}
				if c := e.clips[areaRight]; !c.Empty() {
					p.rects[areaRight] = image.Rect(c.Min.X, y0, c.Min.X+e.sizer.GroupWidth(LockRight), y1)
				}
			}
			if !p.visible(&e.clips) {
				continue
			}
			e.placements = append(e.placements, p)
		}
	}
}

func (p *placement) visible(clips *[areaCount]image.Rectangle) bool {
	for a := range areaCount {
		if p.rects[a].Overlaps(clips[a]) {
			return true
		}
	}
	return false
}

// lockOf maps an area to the columns it shows.
func lockOf(area int) ColumnLock {
	switch area {
	case areaLeft:
		return LockLeft
	case areaRight:
		return LockRight
	}
	return LockNone
}

// spans returns the columns of area for an item placed at rect.
func (e *Engine) spans(area int, rect image.Rectangle) []ColumnSpan {
	lock := lockOf(area)
	var out []ColumnSpan
	for c := range e.sizer.Count() {
		w := e.sizer.Width(c)
		if w <= 0 || e.sizer.Lock(c) != lock {
			continue
		}
		out = append(out, ColumnSpan{Column: c, X: rect.Min.X + e.sizer.Offset(c), Width: w})
	}
	return out
}

// HeaderArea is one section of the header: the pinned columns on either side
// or the horizontally scrolled main columns.
type HeaderArea struct {
	Clip    image.Rectangle
	Columns []ColumnSpan
}

// HeaderAreas returns the header sections as of the last pass. Column spans
// are in surface coordinates; Clip covers the section horizontally.
func (e *Engine) HeaderAreas() []HeaderArea {
	var out []HeaderArea
	for _, a := range []int{areaLeft, areaMain, areaRight} {
		clip := e.clips[a]
		if clip.Empty() {
			continue
		}
		x := clip.Min.X
		if a == areaMain {
			x -= e.origin.X
		}
		out = append(out, HeaderArea{Clip: clip, Columns: e.spans(a, image.Rect(x, 0, x, 0))})
	}
	return out
}
