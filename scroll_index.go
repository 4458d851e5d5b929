package treeview

import (
	"slices"
	"sort"
)

// ScrollIndex maps scroll units to content offsets along one axis.
//
// With a fixed increment, unit i is at i*increment. Otherwise the index holds
// a table of stops built from item or range boundaries: the first stop is 0,
// stops strictly increase, consecutive stops are never more than one viewport
// apart, and the last stop is the largest scroll offset (total - viewport), so
// the last page ends flush with the content.
type ScrollIndex struct {
	increment int
	table     []int

	total   int
	visible int
	max     int
}

// BuildFixed sets up the index for a fixed increment.
func (s *ScrollIndex) BuildFixed(increment, total, visible int) {
	s.increment = max(increment, 1)
	s.table = s.table[:0]
	s.setExtent(total, visible)
}

// BuildAuto builds the stop table from boundaries. Boundaries may be unsorted
// and contain duplicates.
func (s *ScrollIndex) BuildAuto(boundaries []int, total, visible int) {
	s.increment = 0
	s.setExtent(total, visible)

	slices.Sort(boundaries)
	s.table = append(s.table[:0], 0)
	for _, b := range boundaries {
		if b >= s.max {
			break
		}
		s.addStop(b)
	}
	if s.max > 0 {
		s.addStop(s.max)
	}
}

func (s *ScrollIndex) setExtent(total, visible int) {
	s.total = max(total, 0)
	s.visible = max(visible, 0)
	s.max = max(s.total-s.visible, 0)
}

// addStop appends stop, first inserting intermediate stops so that no gap is
// wider than the viewport.
func (s *ScrollIndex) addStop(stop int) {
	last := s.table[len(s.table)-1]
	if stop <= last {
		return
	}
	if s.visible > 1 {
		for stop-last > s.visible {
			last += s.visible
			s.table = append(s.table, last)
		}
	}
	if stop > last {
		s.table = append(s.table, stop)
	}
}

// Fixed reports whether the index uses a fixed increment.
func (s *ScrollIndex) Fixed() bool {
	return s.increment > 0
}

// Count returns the number of scroll units.
func (s *ScrollIndex) Count() int {
	if s.increment > 0 {
		if s.max == 0 {
			return 1
		}
		return ceilDiv(s.max, s.increment) + 1
	}
	if len(s.table) == 0 {
		return 1
	}
	return len(s.table)
}

// Find returns the last unit whose offset is at or before offset.
func (s *ScrollIndex) Find(offset int) int {
	if offset <= 0 {
		return 0
	}
	if s.increment > 0 {
		// The last unit is clamped to max, which need not be a multiple of
		// the increment.
		if offset >= s.max {
			return s.Count() - 1
		}
		return offset / s.increment
	}
	if len(s.table) == 0 {
		return 0
	}
	return sort.Search(len(s.table), func(i int) bool { return s.table[i] > offset }) - 1
}

// ToOffset returns the offset of unit index. Indices past the last unit map to
// the total content size.
func (s *ScrollIndex) ToOffset(index int) int {
	if index <= 0 {
		return 0
	}
	if index >= s.Count() {
		return s.total
	}
	if s.increment > 0 {
		return min(index*s.increment, s.max)
	}
	return s.table[index]
}

// Snap returns the offset of the unit at or before offset, clamped to the
// scrollable range.
func (s *ScrollIndex) Snap(offset int) int {
	return s.ToOffset(min(s.Find(offset), s.Count()-1))
}

// Max returns the largest scroll offset.
func (s *ScrollIndex) Max() int {
	return s.max
}

// Total returns the content extent.
func (s *ScrollIndex) Total() int {
	return s.total
}

// Visible returns the viewport extent.
func (s *ScrollIndex) Visible() int {
	return s.visible
}

// Stops returns the stop table of an automatic index. The slice must not be
// modified.
func (s *ScrollIndex) Stops() []int {
	return s.table
}

// Fractions returns the visible part of the content as fractions of the total
// for a viewport at offset.
func (s *ScrollIndex) Fractions(offset int) (float64, float64) {
	if s.total == 0 {
		return 0, 1
	}
	f0 := float64(offset) / float64(s.total)
	f1 := float64(offset+s.visible) / float64(s.total)
	return min(max(f0, 0), 1), min(max(f1, 0), 1)
}

// Units returns the offset reached by moving n units from offset.
func (s *ScrollIndex) Units(offset, n int) int {
	index := s.Find(offset) + n
	return s.ToOffset(min(max(index, 0), s.Count()-1))
}

// Pages returns the offset reached by moving n viewports from offset. A page
// never moves further than the viewport and always moves by at least one unit
// when there is room.
func (s *ScrollIndex) Pages(offset, n int) int {
	if n == 0 {
		return s.Snap(offset)
	}
	current := s.Find(offset)
	index := s.Find(offset + n*s.visible)
	if n > 0 && index <= current {
		index = current + 1
	}
	if n < 0 && index >= current && s.ToOffset(current) >= offset {
		index = current - 1
	}
	return s.ToOffset(min(max(index, 0), s.Count()-1))
}

// Fraction returns the offset of the unit at fraction f of the content.
func (s *ScrollIndex) Fraction(f float64) int {
	f = min(max(f, 0), 1)
	return s.Snap(int(f * float64(s.total)))
}
