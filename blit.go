package treeview

import (
	"image"
	"slices"
	"sort"
)

// copyRun is a block of consecutive items of one range that move together
// and can be copied with a single Surface.Copy.
type copyRun struct {
	area  int
	rng   int
	rect  image.Rectangle
	slots []int
}

// blit is step 6. It moves the cells of items that only scrolled to their new
// position and marks the parts that could not be reused dirty. It reports
// whether the move was too large to copy, in which case every item was
// marked fully dirty instead.
func (e *Engine) blit(s Surface, res *RenderResult) bool {
	c := &e.cache
	main := e.clips[areaMain]
	delta := e.lastOrigin.Sub(e.origin)

	if delta != (image.Point{}) && (abs(delta.X) >= main.Dx() || abs(delta.Y) >= main.Dy()) {
		for _, slot := range c.order {
			c.slots[slot].fullDirty = true
		}
		return true
	}

	for _, slot := range c.order {
		d := &c.slots[slot]
		for a := range d.areas {
			ar := &d.areas[a]
			ar.valid.Clear()
			if d.drawn && !d.fullDirty {
				ar.valid.Add(ar.old.Intersect(ar.oldClip))
			}
		}
	}

	if delta != (image.Point{}) {
		if !e.opts.ScrollCopy {
			// Nothing on screen moved; every entry must be drawn again.
			for _, slot := range c.order {
				c.slots[slot].fullDirty = true
			}
			return false
		}
		e.copyPass(s, image.Pt(delta.X, 0), res)
		e.copyPass(s, image.Pt(0, delta.Y), res)
	}

	for _, slot := range c.order {
		d := &c.slots[slot]
		if !d.drawn || d.fullDirty {
			continue
		}
		for a := range d.areas {
			ar := &d.areas[a]
			shown := ar.rect.Intersect(ar.clip)
			if shown.Empty() {
				continue
			}
			exposed := NewRegion(shown).Minus(ar.valid)
			if !exposed.Empty() {
				ar.dirty = ar.dirty.Union(exposed.Bounds().Sub(ar.rect.Min))
			}
		}
	}
	return false
}

// copyPass shifts every moving item by delta in the main area, and by its
// vertical part in the pinned areas.
func (e *Engine) copyPass(s Surface, delta image.Point, res *RenderResult) {
	if delta == (image.Point{}) {
		return
	}
	var deltas [areaCount]image.Point
	deltas[areaMain] = delta
	deltas[areaLeft] = image.Pt(0, delta.Y)
	deltas[areaRight] = image.Pt(0, delta.Y)

	runs := e.buildRuns(deltas)
	// Copy against the direction of the move so no source is overwritten
	// before it was read.
	sort.SliceStable(runs, func(i, j int) bool {
		a, b := runs[i].rect, runs[j].rect
		switch {
		case delta.X > 0:
			return a.Min.X > b.Min.X
		case delta.X < 0:
			return a.Min.X < b.Min.X
		case delta.Y > 0:
			return a.Min.Y > b.Min.Y
		}
		return a.Min.Y < b.Min.Y
	})

	var dsts []image.Rectangle
	for i := range runs {
		run := &runs[i]
		d := deltas[run.area]
		clip := e.clips[run.area]
		src := run.rect.Intersect(clip).Intersect(clip.Sub(d))
		if src.Empty() {
			dsts = append(dsts, image.Rectangle{})
			continue
		}
		s.Copy(src, src.Min.Add(d))
		res.Copied++
		dsts = append(dsts, src.Add(d))
	}

	c := &e.cache
	for _, slot := range c.order {
		dItem := &c.slots[slot]
		for a := range dItem.areas {
			ar := &dItem.areas[a]
			if ar.valid.Empty() || deltas[a] == (image.Point{}) {
				continue
			}
			ar.valid.Translate(deltas[a])
			ar.valid = ar.valid.Intersect(ar.clip)
		}
	}

	// Cells overwritten by another run no longer show the item.
	for i, dst := range dsts {
		if dst.Empty() {
			continue
		}
		for _, slot := range c.order {
			dItem := &c.slots[slot]
			ar := &dItem.areas[runs[i].area]
			if ar.valid.Empty() || slices.Contains(runs[i].slots, slot) {
				continue
			}
			ar.valid.Subtract(dst)
		}
	}
}

// buildRuns groups moving items into runs. An item joins the current run when
// it belongs to the same area and range and its valid cells continue the run
// along the item axis with the same cross extent.
func (e *Engine) buildRuns(deltas [areaCount]image.Point) []copyRun {
	c := &e.cache
	vertical := e.opts.Orientation == Vertical
	var runs []copyRun
	for a := range areaCount {
		if deltas[a] == (image.Point{}) {
			continue
		}
		current := -1
		for _, slot := range c.order {
			d := &c.slots[slot]
			ar := &d.areas[a]
			if ar.valid.Empty() {
				current = -1
				continue
			}
			pieces := ar.valid.Rects()
			if len(pieces) == 1 && current >= 0 {
				run := &runs[current]
				r := pieces[0]
				joins := run.rng == d.rng
				if vertical {
					joins = joins && run.rect.Max.Y == r.Min.Y && run.rect.Min.X == r.Min.X && run.rect.Max.X == r.Max.X
				} else {
					joins = joins && run.rect.Max.X == r.Min.X && run.rect.Min.Y == r.Min.Y && run.rect.Max.Y == r.Max.Y
				}
				if joins {
					run.rect = run.rect.Union(r)
					run.slots = append(run.slots, slot)
					continue
				}
			}
			for _, r := range pieces {
				runs = append(runs, copyRun{area: a, rng: d.rng, rect: r, slots: []int{slot}})
			}
			current = len(runs) - 1
			if len(pieces) > 1 {
				// A split item cannot be extended.
				current = -1
			}
		}
	}
	return runs
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
