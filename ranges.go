package treeview

import (
	"image"
	"iter"
	"sort"
)

// ItemID identifies an item of the collection shown by a view. The engine
// never owns items; it only caches geometry for them.
type ItemID uint64

// RItem is the layout entry of one item inside a range.
type RItem struct {
	Item ItemID
	// Range is the index of the owning range.
	Range int
	// Offset is the position of the item along the item axis, relative to
	// the start of its range.
	Offset int
	// Size is the extent along the item axis.
	Size int
	// Cross is the extent across the item axis.
	Cross int
	// Index is the position of the item inside its range.
	Index int
}

// Range is a contiguous band of items sharing one cross-axis extent.
type Range struct {
	// First and Last are inclusive indices into the range item table.
	First, Last int
	Index       int

	totalSize  int
	totalCross int
	offset     int
}

// WrapPolicy decides when the partitioner starts a new range.
type WrapPolicy struct {
	Mode WrapMode
	// Arg is the item count for WrapCount and the cell limit for WrapPixels.
	Arg int
}

// CrossSizing decides the cross-axis size of items.
type CrossSizing struct {
	Mode SizeMode
	Arg  int
}

func (s CrossSizing) apply(natural int) int {
	switch s.Mode {
	case SizeFixed:
		return s.Arg
	case SizeStep:
		if s.Arg > 0 {
			return ceilDiv(max(natural, 0), s.Arg) * s.Arg
		}
	}
	return max(natural, 0)
}

// Measure returns the natural size of an item along the item axis and across
// it.
type Measure func(item ItemID) (size, cross int)

// RangeList partitions the visible items into ranges. Range and item storage
// is reused between recomputations.
type RangeList struct {
	orientation Orientation

	ritems []RItem
	ranges []Range
	index  map[ItemID]int

	totalSize  int
	totalCross int
}

// Recompute rebuilds the ranges from items in traversal order. viewport is the
// viewport extent along the item axis, used by [WrapViewport]. wrapBefore may
// be nil; when it returns true for an item that item starts a new range.
//
// Every range holds at least one item, even if that item alone exceeds the
// wrap limit. Memoized totals are reset.
func (l *RangeList) Recompute(orientation Orientation, policy WrapPolicy, cross CrossSizing, viewport int, items iter.Seq[ItemID], measure Measure, wrapBefore func(ItemID) bool) {
	l.orientation = orientation
	l.ritems = l.ritems[:0]
	l.ranges = l.ranges[:0]
	if l.index == nil {
		l.index = make(map[ItemID]int)
	} else {
		clear(l.index)
	}
	l.totalSize, l.totalCross = -1, -1

	limit := 0
	switch policy.Mode {
	case WrapPixels:
		limit = policy.Arg
	case WrapViewport:
		limit = max(viewport, 1)
	}

	offset, count := 0, 0
	for item := range items {
		size, natural := measure(item)
		size = max(size, 0)

		start := len(l.ranges) == 0
		if !start {
			switch policy.Mode {
			case WrapCount:
				start = count >= policy.Arg
			case WrapPixels, WrapViewport:
				start = count > 0 && offset+size > limit
			}
			if !start && wrapBefore != nil && count > 0 {
				start = wrapBefore(item)
			}
		}
		if start {
			l.closeRange()
			l.ranges = append(l.ranges, Range{
				First:      len(l.ritems),
				Index:      len(l.ranges),
				totalSize:  -1,
				totalCross: -1,
				offset:     -1,
			})
			offset, count = 0, 0
		}

		l.index[item] = len(l.ritems)
		l.ritems = append(l.ritems, RItem{
			Item:   item,
			Range:  len(l.ranges) - 1,
			Offset: offset,
			Size:   size,
			Cross:  cross.apply(natural),
			Index:  count,
		})
		offset += size
		count++
	}
	l.closeRange()

	// Give back storage left over from a much larger collection.
	if cap(l.ritems) > 64 && cap(l.ritems) > 4*len(l.ritems) {
		l.ritems = append(make([]RItem, 0, 2*len(l.ritems)), l.ritems...)
	}
	if cap(l.ranges) > 64 && cap(l.ranges) > 4*len(l.ranges) {
		l.ranges = append(make([]Range, 0, 2*len(l.ranges)), l.ranges...)
	}
}

func (l *RangeList) closeRange() {
	if n := len(l.ranges); n > 0 {
		l.ranges[n-1].Last = len(l.ritems) - 1
	}
}

// Reset drops every range.
func (l *RangeList) Reset() {
	l.ritems = l.ritems[:0]
	l.ranges = l.ranges[:0]
	clear(l.index)
	l.totalSize, l.totalCross = 0, 0
}

// Orientation returns the orientation of the last recomputation.
func (l *RangeList) Orientation() Orientation {
	return l.orientation
}

// Len returns the number of ranges.
func (l *RangeList) Len() int {
	return len(l.ranges)
}

// ItemCount returns the number of range items.
func (l *RangeList) ItemCount() int {
	return len(l.ritems)
}

// Range returns range i.
func (l *RangeList) Range(i int) Range {
	return l.ranges[i]
}

// RItem returns range item i. Range items are numbered in traversal order.
func (l *RangeList) RItem(i int) RItem {
	return l.ritems[i]
}

// Lookup returns the range item index of item.
func (l *RangeList) Lookup(item ItemID) (int, bool) {
	i, ok := l.index[item]
	return i, ok
}

// RangeItems returns the range items of range i.
func (l *RangeList) RangeItems(i int) []RItem {
	r := l.ranges[i]
	return l.ritems[r.First : r.Last+1]
}

// Totals returns the extent of range i along and across the item axis.
// Totals are computed on first use and memoized until the next Recompute.
func (l *RangeList) Totals(i int) (size, cross int) {
	r := &l.ranges[i]
	if r.totalSize < 0 {
		last := l.ritems[r.Last]
		r.totalSize = last.Offset + last.Size
		r.totalCross = 0
		for _, ri := range l.ritems[r.First : r.Last+1] {
			r.totalCross = max(r.totalCross, ri.Cross)
		}
	}
	return r.totalSize, r.totalCross
}

// Offset returns the cross-axis position of range i.
func (l *RangeList) Offset(i int) int {
	if l.ranges[i].offset < 0 {
		// Fill every unknown offset up to i in one walk.
		start := i
		for start > 0 && l.ranges[start-1].offset < 0 {
			start--
		}
		pos := 0
		if start > 0 {
			_, cross := l.Totals(start - 1)
			pos = l.ranges[start-1].offset + cross
		}
		for j := start; j <= i; j++ {
			l.ranges[j].offset = pos
			_, cross := l.Totals(j)
			pos += cross
		}
	}
	return l.ranges[i].offset
}

// TotalSize returns the content extent along the item axis (the longest
// range) and across it (all ranges).
func (l *RangeList) TotalSize() (size, cross int) {
	if l.totalSize < 0 {
		l.totalSize, l.totalCross = 0, 0
		for i := range l.ranges {
			s, c := l.Totals(i)
			l.totalSize = max(l.totalSize, s)
			l.totalCross += c
		}
	}
	return l.totalSize, l.totalCross
}

// Canvas returns the content size in cells.
func (l *RangeList) Canvas() image.Point {
	size, cross := l.TotalSize()
	if l.orientation == Horizontal {
		return image.Pt(size, cross)
	}
	return image.Pt(cross, size)
}

// RangeAt returns the range covering cross-axis position off.
func (l *RangeList) RangeAt(off int) (int, bool) {
	if len(l.ranges) == 0 || off < 0 {
		return 0, false
	}
	i := sort.Search(len(l.ranges), func(i int) bool {
		_, cross := l.Totals(i)
		return l.Offset(i)+cross > off
	})
	return i, i < len(l.ranges)
}

// ItemAt returns the index of the range item of range ri covering position
// off along the item axis.
func (l *RangeList) ItemAt(ri int, off int) (int, bool) {
	items := l.RangeItems(ri)
	k := sort.Search(len(items), func(k int) bool {
		return items[k].Offset+items[k].Size > off
	})
	if k == len(items) || off < 0 {
		return 0, false
	}
	return l.ranges[ri].First + k, true
}

// ItemRect returns the content rectangle of range item i. Items span the full
// cross extent of their range.
func (l *RangeList) ItemRect(i int) image.Rectangle {
	ri := l.ritems[i]
	_, cross := l.Totals(ri.Range)
	off := l.Offset(ri.Range)
	if l.orientation == Horizontal {
		return image.Rect(ri.Offset, off, ri.Offset+ri.Size, off+cross)
	}
	return image.Rect(off, ri.Offset, off+cross, ri.Offset+ri.Size)
}

// HitTest returns the range item at content position p.
func (l *RangeList) HitTest(p image.Point) (int, bool) {
	along, across := p.Y, p.X
	if l.orientation == Horizontal {
		along, across = p.X, p.Y
	}
	ri, ok := l.RangeAt(across)
	if !ok {
		return 0, false
	}
	return l.ItemAt(ri, along)
}
