package treeview

import (
	"image"

	"github.com/gdamore/tcell/v2"
)

// bandsActive reports whether whitespace is painted with alternating row
// bands instead of the flat background.
func (e *Engine) bandsActive() bool {
	return len(e.colors) >= 2 && e.opts.Orientation == Vertical && e.singleBand()
}

// whitespaceFollowsScroll reports whether the look of whitespace depends on
// the scroll origin.
func (e *Engine) whitespaceFollowsScroll() bool {
	return e.bandsActive() || (len(e.pattern) > 0 && e.opts.BackgroundAnchor == AnchorContent)
}

// currentWhitespace returns the view minus every on-screen item area.
func (e *Engine) currentWhitespace() Region {
	ws := NewRegion(e.view)
	for i := range e.placements {
		p := &e.placements[i]
		for a := range areaCount {
			if shown := p.rects[a].Intersect(e.clips[a]); !shown.Empty() {
				ws.Subtract(shown)
			}
		}
	}
	return ws
}

// paintWhitespace is step 7. Only cells that were not whitespace in the
// previous frame are painted unless full is set.
func (e *Engine) paintWhitespace(s Surface, full bool, res *RenderResult) {
	cur := e.currentWhitespace()
	if e.bandsActive() {
		// Bands past the last item move with the item count and sizes.
		tail := e.currentBandTail()
		if tail != e.lastTail {
			full = true
		}
		e.lastTail = tail
	}
	paint := cur
	if !full {
		paint = cur.Minus(e.whitespace)
	}
	e.whitespace = cur
	for _, r := range paint.Rects() {
		e.fillWhitespace(s, r)
		res.Whitespace += r.Dx() * r.Dy()
	}
}

func (e *Engine) fillWhitespace(s Surface, r image.Rectangle) {
	phase := 0
	if len(e.pattern) > 0 {
		phase = mod(r.Min.X-e.patternAnchor(), len(e.pattern))
	}
	if !e.bandsActive() {
		fillPattern(s, r, e.pattern, phase, e.bg)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		style := e.bg.Background(e.colors[e.rowColorIndex(y)])
		fillPattern(s, image.Rect(r.Min.X, y, r.Max.X, y+1), e.pattern, phase, style)
	}
}

// bandTail describes how bands continue past the last item.
type bandTail struct {
	count, end, rowH int
}

// currentBandTail returns the item count, the content end and the row height
// bands are extrapolated with. Rows past the last item are ItemHeight high
// when it is set, or as high as the last item otherwise.
func (e *Engine) currentBandTail() bandTail {
	count := e.ranges.ItemCount()
	tail := bandTail{count: count, rowH: max(e.opts.ItemHeight, 0)}
	if count > 0 {
		last := e.ranges.RItem(count - 1)
		tail.end = last.Offset + last.Size
		if tail.rowH == 0 {
			tail.rowH = last.Size
		}
	}
	tail.rowH = max(tail.rowH, 1)
	return tail
}

// rowColorIndex returns the band color of surface row y.
func (e *Engine) rowColorIndex(y int) int {
	n := len(e.colors)
	cy := y - e.clips[areaMain].Min.Y + e.origin.Y
	if cy < 0 {
		return 0
	}
	if e.ranges.Len() > 0 {
		if k, ok := e.ranges.ItemAt(0, cy); ok {
			return k % n
		}
	}
	tail := e.currentBandTail()
	return (tail.count + (cy-tail.end)/tail.rowH) % n
}

// itemBackground returns the style an item is cleared with.
func (e *Engine) itemBackground(alt int) tcell.Style {
	if len(e.colors) < 2 {
		return e.bg
	}
	return e.bg.Background(e.colors[alt])
}
