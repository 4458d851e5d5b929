package treeview

import "image"

// Region is a set of cells stored as disjoint, non-empty rectangles. The zero
// value is an empty region.
type Region struct {
	rects []image.Rectangle
}

// NewRegion returns a region covering the given rectangles.
func NewRegion(rects ...image.Rectangle) Region {
	var r Region
	for _, rect := range rects {
		r.Add(rect)
	}
	return r
}

// Rects returns the disjoint rectangles of the region. The slice must not be
// modified.
func (r Region) Rects() []image.Rectangle {
	return r.rects
}

// Empty reports whether the region covers no cell.
func (r Region) Empty() bool {
	return len(r.rects) == 0
}

// Area returns the number of cells covered by the region.
func (r Region) Area() int {
	area := 0
	for _, rect := range r.rects {
		area += rect.Dx() * rect.Dy()
	}
	return area
}

// Bounds returns the smallest rectangle containing the region.
func (r Region) Bounds() image.Rectangle {
	var bounds image.Rectangle
	for _, rect := range r.rects {
		bounds = bounds.Union(rect)
	}
	return bounds
}

// Contains reports whether the cell at p is part of the region.
func (r Region) Contains(p image.Point) bool {
	for _, rect := range r.rects {
		if p.In(rect) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the region.
func (r Region) Clone() Region {
	if len(r.rects) == 0 {
		return Region{}
	}
	rects := make([]image.Rectangle, len(r.rects))
	copy(rects, r.rects)
	return Region{rects: rects}
}

// Clear empties the region but keeps its storage.
func (r *Region) Clear() {
	r.rects = r.rects[:0]
}

// Add adds rect to the region.
func (r *Region) Add(rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	pieces := []image.Rectangle{rect}
	for _, existing := range r.rects {
		if !existing.Overlaps(rect) {
			continue
		}
		next := pieces[:0:0]
		for _, piece := range pieces {
			next = append(next, subtractRect(piece, existing)...)
		}
		pieces = next
		if len(pieces) == 0 {
			return
		}
	}
	r.rects = append(r.rects, pieces...)
}

// Union adds every rectangle of o to the region.
func (r *Region) Union(o Region) {
	for _, rect := range o.rects {
		r.Add(rect)
	}
}

// Subtract removes rect from the region.
func (r *Region) Subtract(rect image.Rectangle) {
	if rect.Empty() || len(r.rects) == 0 {
		return
	}
	out := r.rects[:0:0]
	for _, existing := range r.rects {
		if !existing.Overlaps(rect) {
			out = append(out, existing)
			continue
		}
		out = append(out, subtractRect(existing, rect)...)
	}
	r.rects = out
}

// Minus returns the part of r not covered by o.
func (r Region) Minus(o Region) Region {
	out := r.Clone()
	for _, rect := range o.rects {
		out.Subtract(rect)
	}
	return out
}

// Intersect returns the part of r inside rect.
func (r Region) Intersect(rect image.Rectangle) Region {
	var out Region
	for _, existing := range r.rects {
		if piece := existing.Intersect(rect); !piece.Empty() {
			out.rects = append(out.rects, piece)
		}
	}
	return out
}

// Translate moves every rectangle of the region by d.
func (r *Region) Translate(d image.Point) {
	for i := range r.rects {
		r.rects[i] = r.rects[i].Add(d)
	}
}

// Equal reports whether r and o cover the same cells.
func (r Region) Equal(o Region) bool {
	if r.Area() != o.Area() {
		return false
	}
	return r.Minus(o).Empty()
}

// subtractRect returns up to four rectangles covering a minus b.
func subtractRect(a, b image.Rectangle) []image.Rectangle {
	overlap := a.Intersect(b)
	if overlap.Empty() {
		return []image.Rectangle{a}
	}
	pieces := make([]image.Rectangle, 0, 4)
	if overlap.Min.Y > a.Min.Y {
		pieces = append(pieces, image.Rect(a.Min.X, a.Min.Y, a.Max.X, overlap.Min.Y))
	}
	if overlap.Max.Y < a.Max.Y {
		pieces = append(pieces, image.Rect(a.Min.X, overlap.Max.Y, a.Max.X, a.Max.Y))
	}
	if overlap.Min.X > a.Min.X {
		pieces = append(pieces, image.Rect(a.Min.X, overlap.Min.Y, overlap.Min.X, overlap.Max.Y))
	}
	if overlap.Max.X < a.Max.X {
		pieces = append(pieces, image.Rect(overlap.Max.X, overlap.Min.Y, a.Max.X, overlap.Max.Y))
	}
	return pieces
}
