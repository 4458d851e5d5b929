package treeview

import (
	"errors"
	"image"
)

// RenderResult summarizes one pass.
type RenderResult struct {
	// Painted is the number of items drawn.
	Painted int
	// Copied is the number of Surface.Copy calls issued by scroll-copy.
	Copied int
	// Whitespace is the number of whitespace cells painted.
	Whitespace int
	// Shown and Hidden count the visibility notifications delivered.
	Shown  int
	Hidden int
	// Restarts is the number of times the pass started over because a
	// notification handler invalidated the view.
	Restarts int
	// Retry is set when an item failed to draw and stays dirty.
	Retry bool
	// Bypassed is set when the scroll distance exceeded the viewport and
	// everything was repainted instead of copied.
	Bypassed bool
}

// Render runs one pass over s. view is the rectangle of s the items are
// shown in; decorations drawn by the decorator may lie outside it.
//
// A pass whose invariants turn out to be broken is aborted: the caches are
// dropped and an error matching ErrConsistency is returned. The next pass
// rebuilds everything.
func (e *Engine) Render(s Surface, view image.Rectangle) (res RenderResult, err error) {
	if e.state.destroyed {
		return res, ErrDestroyed
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var ce *ConsistencyError
		if rerr, ok := r.(error); ok && errors.As(rerr, &ce) {
			e.reset()
			Logger().Error("treeview: render aborted", "op", ce.Op, "item", ce.Item, "err", ce)
			res, err = RenderResult{}, ce
			return
		}
		panic(r)
	}()

	view = view.Canon()
	if view != e.view {
		e.view = view
		e.state.InvalidateAll()
	}

	staleAll := false
	for {
		gen := e.state.generation
		e.layout()
		e.place()
		e.syncDisplay()
		allBefore := e.state.invalidateAll
		e.deliver(&res)

		if e.state.destroyed {
			e.reset()
			return res, ErrDestroyed
		}
		if e.state.generation == gen {
			break
		}
		if res.Restarts < e.opts.MaxRestarts {
			res.Restarts++
			Logger().Warn("treeview: view changed during notifications, restarting pass", "restarts", res.Restarts)
			continue
		}
		// Draw what was placed and leave the new invalidations for the next
		// pass.
		Logger().Warn("treeview: restart limit reached", "restarts", res.Restarts)
		staleAll = e.state.invalidateAll && !allBefore
		e.redraw()
		break
	}

	res.Bypassed = e.blit(s, &res)

	delta := e.lastOrigin.Sub(e.origin)
	full := e.state.firstFrame || e.state.invalidateAll || res.Bypassed
	if delta != (image.Point{}) && (e.whitespaceFollowsScroll() || (delta.X != 0 && delta.Y != 0)) {
		full = true
	}
	e.paintWhitespace(s, full, &res)

	e.drawItems(s, &res)

	flags := ChromeFlags{
		Header:    e.state.headerDirty,
		ScrollBar: e.state.scrollBarDirty,
		Border:    e.state.borderDirty,
	}
	if e.decorate != nil && (flags.Header || flags.ScrollBar || flags.Border) {
		e.decorate(s, flags)
	}

	e.commit()
	if staleAll {
		e.state.invalidateAll = true
	}
	Logger().Debug("treeview: pass done",
		"items", e.cache.Len(),
		"painted", res.Painted,
		"copied", res.Copied,
		"whitespace", res.Whitespace,
		"bypassed", res.Bypassed,
		"origin", e.origin)
	return res, nil
}

// drawItems is step 8.
func (e *Engine) drawItems(s Surface, res *RenderResult) {
	anchor := e.patternAnchor()
	for _, slot := range e.cache.order {
		d := &e.cache.slots[slot]
		if !d.live {
			// Deleted by a notification handler after placement.
			continue
		}
		if d.ritem >= e.ranges.ItemCount() || e.ranges.RItem(d.ritem).Item != d.item {
			consistencyPanic("draw", d.item, "no range item at index %d", d.ritem)
		}
		style := e.itemBackground(d.altIndex)
		failed, painted := false, false
		for a := range d.areas {
			ar := &d.areas[a]
			shown := ar.rect.Intersect(ar.clip)
			r := shown
			if !d.fullDirty {
				r = ar.dirty.Add(ar.rect.Min).Intersect(shown)
			}
			if r.Empty() {
				continue
			}
			e.pending.reset(s.Bounds())
			fillPattern(&e.pending, r, e.pattern, mod(r.Min.X-anchor, len(e.pattern)), style)
			ctx := DrawContext{
				Surface:    newClippedSurface(&e.pending, r),
				Rect:       ar.rect,
				Clip:       r,
				Columns:    e.spans(a, ar.rect),
				Index:      d.ritem,
				Background: style,
			}
			if err := e.source.DrawItem(d.item, ctx); err != nil {
				Logger().Warn("treeview: item draw failed", "err", &DrawError{Item: d.item, Err: err})
				failed = true
				res.Retry = true
				continue
			}
			e.pending.apply(s)
			painted = true
		}
		if painted {
			res.Painted++
		}
		if failed {
			continue
		}
		d.fullDirty = false
		for a := range d.areas {
			d.areas[a].dirty = image.Rectangle{}
		}
	}
}

// commit records the geometry of this frame as what the surface now shows.
func (e *Engine) commit() {
	for _, slot := range e.cache.order {
		d := &e.cache.slots[slot]
		if !d.live {
			continue
		}
		for a := range d.areas {
			ar := &d.areas[a]
			ar.old = ar.rect
			ar.oldClip = ar.clip
			ar.valid.Clear()
		}
		d.drawn = true
	}
	e.lastOrigin = e.origin
	e.state.frameDone()
}
