package treeview

import (
	"image"
	"slices"
)

// DItemState is the lifecycle state of an item's display entry.
type DItemState uint8

const (
	// StateAbsent means the item has no display entry.
	StateAbsent DItemState = iota
	// StateAllocated means the entry exists but was never drawn.
	StateAllocated
	StateClean
	StateDirtyPartial
	StateDirtyFull
)

func (s DItemState) String() string {
	switch s {
	case StateAllocated:
		return "allocated"
	case StateClean:
		return "clean"
	case StateDirtyPartial:
		return "dirty-partial"
	case StateDirtyFull:
		return "dirty-full"
	}
	return "absent"
}

// dArea is the geometry of an item in one area (main, pinned left, pinned
// right). Rectangles are in surface coordinates except dirty, which is
// relative to rect.Min so that it follows the item when it moves.
type dArea struct {
	rect    image.Rectangle
	old     image.Rectangle
	clip    image.Rectangle
	oldClip image.Rectangle
	dirty   image.Rectangle

	// valid tracks the cells that still show this item while copying.
	valid Region
}

// DItem is the display entry of one on-screen item.
type DItem struct {
	item  ItemID
	live  bool
	ritem int
	rng   int
	areas [areaCount]dArea

	fullDirty bool
	drawn     bool
	seen      uint64

	rangeCross int
	altIndex   int
	phase      int
	columns    []int
}

func (d *DItem) area(a int) *dArea {
	return &d.areas[a]
}

// bounds returns the cells the item occupied when it was last drawn.
func (d *DItem) bounds() image.Rectangle {
	var r image.Rectangle
	for a := range d.areas {
		r = r.Union(d.areas[a].old.Intersect(d.areas[a].oldClip))
	}
	return r
}

func (d *DItem) state() DItemState {
	switch {
	case !d.live:
		return StateAbsent
	case !d.drawn:
		return StateAllocated
	case d.fullDirty:
		return StateDirtyFull
	}
	for a := range d.areas {
		if !d.areas[a].dirty.Empty() {
			return StateDirtyPartial
		}
	}
	return StateClean
}

// DisplayCache owns the display entries. Entries live in a slot arena and
// released slots are reused through a free-index stack.
type DisplayCache struct {
	slots  []DItem
	free   []int
	byItem map[ItemID]int
	// order lists the live slots of the current frame in traversal order.
	order []int
	pass  uint64
}

func (c *DisplayCache) init() {
	c.byItem = make(map[ItemID]int)
}

// Len returns the number of live entries.
func (c *DisplayCache) Len() int {
	return len(c.byItem)
}

func (c *DisplayCache) lookup(item ItemID) *DItem {
	slot, ok := c.byItem[item]
	if !ok {
		return nil
	}
	return &c.slots[slot]
}

// acquire returns the slot of item, allocating one if needed. Pointers into
// the arena are invalid after an allocation.
func (c *DisplayCache) acquire(item ItemID) (int, bool) {
	if slot, ok := c.byItem[item]; ok {
		return slot, false
	}
	var slot int
	if n := len(c.free); n > 0 {
		slot = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		c.slots = append(c.slots, DItem{})
		slot = len(c.slots) - 1
	}
	d := &c.slots[slot]
	columns := d.columns[:0]
	*d = DItem{item: item, live: true, fullDirty: true, columns: columns}
	c.byItem[item] = slot
	return slot, true
}

func (c *DisplayCache) release(d *DItem) {
	slot, ok := c.byItem[d.item]
	if !ok || &c.slots[slot] != d {
		consistencyPanic("release", d.item, "entry not in cache")
	}
	delete(c.byItem, d.item)
	columns := d.columns[:0]
	*d = DItem{columns: columns}
	c.free = append(c.free, slot)
}

func (c *DisplayCache) releaseAll() {
	for slot := range c.slots {
		if c.slots[slot].live {
			c.release(&c.slots[slot])
		}
	}
	c.order = c.order[:0]
}

// State returns the display state of item.
func (c *DisplayCache) State(item ItemID) DItemState {
	if d := c.lookup(item); d != nil {
		return d.state()
	}
	return StateAbsent
}

// DirtyRects returns the pending dirty rectangle of each area of item, in
// coordinates relative to the item.
func (c *DisplayCache) DirtyRects(item ItemID) []image.Rectangle {
	d := c.lookup(item)
	if d == nil {
		return nil
	}
	var out []image.Rectangle
	for a := range d.areas {
		if !d.areas[a].dirty.Empty() {
			out = append(out, d.areas[a].dirty)
		}
	}
	return out
}

// invalidateRect adds the part of r covering each drawn item to its dirty
// rectangle.
func (c *DisplayCache) invalidateRect(r image.Rectangle) {
	for slot := range c.slots {
		d := &c.slots[slot]
		if !d.live || !d.drawn {
			continue
		}
		for a := range d.areas {
			ar := &d.areas[a]
			hit := r.Intersect(ar.old).Intersect(ar.oldClip)
			if hit.Empty() {
				continue
			}
			ar.dirty = ar.dirty.Union(hit.Sub(ar.old.Min))
		}
	}
}

type visibilityEvent struct {
	item    ItemID
	visible bool
}

type columnsEvent struct {
	item           ItemID
	added, removed []int
}

// syncDisplay is step 5: it matches the placements of this frame against the
// display entries, allocating, classifying and releasing them, and queues the
// resulting notifications.
func (e *Engine) syncDisplay() {
	c := &e.cache
	c.pass++
	c.order = c.order[:0]
	e.visEvents = e.visEvents[:0]
	e.colEvents = e.colEvents[:0]
	for _, item := range e.pendingHide {
		e.visEvents = append(e.visEvents, visibilityEvent{item: item})
	}
	e.pendingHide = e.pendingHide[:0]

	mainDelta := e.lastOrigin.Sub(e.origin)
	lockDelta := image.Pt(0, mainDelta.Y)

	for i := range e.placements {
		p := &e.placements[i]
		slot, created := c.acquire(p.item)
		d := &c.slots[slot]
		if d.seen == c.pass {
			consistencyPanic("sync", p.item, "item placed twice")
		}
		d.seen = c.pass
		c.order = append(c.order, slot)
		if created {
			e.visEvents = append(e.visEvents, visibilityEvent{item: p.item, visible: true})
		}

		alt := e.altIndex(p.ritem)
		phase := e.phase(p.rects[areaMain])
		if d.drawn && !d.fullDirty {
			switch {
			case e.state.invalidateAll,
				d.rangeCross != p.rangeCross,
				d.altIndex != alt,
				d.phase != phase:
				d.fullDirty = true
			default:
				for a := range areaCount {
					cur, old := p.rects[a], d.areas[a].old
					if cur.Empty() && old.Empty() {
						continue
					}
					expected := mainDelta
					if a != areaMain {
						expected = lockDelta
					}
					if cur.Size() != old.Size() || cur.Min.Sub(old.Min) != expected {
						d.fullDirty = true
						break
					}
				}
			}
		}

		d.ritem = p.ritem
		d.rng = p.rng
		d.rangeCross = p.rangeCross
		d.altIndex = alt
		d.phase = phase
		for a := range areaCount {
			d.areas[a].rect = p.rects[a]
			d.areas[a].clip = e.clips[a]
		}
		e.trackColumns(d, created)
	}

	for slot := range c.slots {
		d := &c.slots[slot]
		if d.live && d.seen != c.pass {
			e.visEvents = append(e.visEvents, visibilityEvent{item: d.item})
			c.release(d)
		}
	}
}

// trackColumns updates the on-screen columns of d and queues a notification
// when they changed.
func (e *Engine) trackColumns(d *DItem, created bool) {
	var now []int
	for a := range areaCount {
		ar := &d.areas[a]
		visible := ar.rect.Intersect(ar.clip)
		if visible.Empty() {
			continue
		}
		for _, s := range e.spans(a, ar.rect) {
			if s.X < visible.Max.X && s.X+s.Width > visible.Min.X {
				now = append(now, s.Column)
			}
		}
	}
	slices.Sort(now)
	if !created && slices.Equal(now, d.columns) {
		return
	}
	var added, removed []int
	for _, col := range now {
		if _, found := slices.BinarySearch(d.columns, col); !found || created {
			added = append(added, col)
		}
	}
	if !created {
		for _, col := range d.columns {
			if _, found := slices.BinarySearch(now, col); !found {
				removed = append(removed, col)
			}
		}
	}
	d.columns = append(d.columns[:0], now...)
	if len(added) > 0 || len(removed) > 0 {
		e.colEvents = append(e.colEvents, columnsEvent{item: d.item, added: added, removed: removed})
	}
}

// altIndex returns the alternating color slot of the item at traversal
// position index.
func (e *Engine) altIndex(index int) int {
	if len(e.colors) < 2 {
		return 0
	}
	return index % len(e.colors)
}

// patternAnchor returns the x coordinate where the background pattern starts.
func (e *Engine) patternAnchor() int {
	x := e.clips[areaMain].Min.X
	if e.opts.BackgroundAnchor == AnchorContent {
		x -= e.origin.X
	}
	return x
}

// phase returns the pattern phase of an item whose main area starts at rect.
func (e *Engine) phase(rect image.Rectangle) int {
	if len(e.pattern) == 0 {
		return 0
	}
	return mod(rect.Min.X-e.patternAnchor(), len(e.pattern))
}

// deliver sends the queued notifications.
func (e *Engine) deliver(res *RenderResult) {
	vl, _ := e.source.(VisibilityListener)
	cl, _ := e.source.(ColumnVisibilityListener)
	for _, ev := range e.visEvents {
		if ev.visible {
			res.Shown++
		} else {
			res.Hidden++
		}
		if vl != nil {
			vl.VisibilityChanged(ev.item, ev.visible)
		}
		if e.visibility != nil {
			e.visibility(ev.item, ev.visible)
		}
	}
	for _, ev := range e.colEvents {
		if cl != nil {
			cl.ColumnsChanged(ev.item, ev.added, ev.removed)
		}
		if e.columns != nil {
			e.columns(ev.item, ev.added, ev.removed)
		}
	}
}
