package treeview

import (
	"image"
	"slices"

	"github.com/gdamore/tcell/v2"
)

// Surface is a grid of cells the engine renders into. Coordinates are
// absolute; Bounds tells which of them exist.
type Surface interface {
	Bounds() image.Rectangle
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	// Fill sets every cell of r to ch drawn with style.
	Fill(r image.Rectangle, ch rune, style tcell.Style)
	// Copy moves the cells of src so that src.Min ends up at dst. Source and
	// destination may overlap. Cells outside Bounds are ignored.
	Copy(src image.Rectangle, dst image.Point)
}

// clippedSurface restricts writes to a rectangle. Items draw through one so
// they cannot touch cells outside their dirty area.
type clippedSurface struct {
	Surface
	clip image.Rectangle
}

func newClippedSurface(s Surface, clip image.Rectangle) *clippedSurface {
	return &clippedSurface{Surface: s, clip: clip.Intersect(s.Bounds())}
}

func (s *clippedSurface) Bounds() image.Rectangle {
	return s.clip
}

func (s *clippedSurface) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	if !image.Pt(x, y).In(s.clip) {
		return
	}
	s.Surface.SetContent(x, y, primary, combining, style)
}

func (s *clippedSurface) Fill(r image.Rectangle, ch rune, style tcell.Style) {
	r = r.Intersect(s.clip)
	if r.Empty() {
		return
	}
	s.Surface.Fill(r, ch, style)
}

func (s *clippedSurface) Copy(src image.Rectangle, dst image.Point) {
	// Clip the destination, then shift the source by the same amount.
	d := src.Add(dst.Sub(src.Min))
	clipped := d.Intersect(s.clip)
	if clipped.Empty() {
		return
	}
	src = clipped.Sub(dst.Sub(src.Min))
	s.Surface.Copy(src, clipped.Min)
}

// pendingSurface records writes and applies them later. An item draws into
// one so that a failed draw leaves the cells it would have changed alone.
type pendingSurface struct {
	bounds image.Rectangle
	ops    []surfaceOp
}

type surfaceOpKind uint8

const (
	opSetContent surfaceOpKind = iota
	opFill
	opCopy
)

type surfaceOp struct {
	kind      surfaceOpKind
	rect      image.Rectangle
	at        image.Point
	primary   rune
	combining []rune
	style     tcell.Style
}

func (s *pendingSurface) reset(bounds image.Rectangle) {
	s.bounds = bounds
	clear(s.ops)
	s.ops = s.ops[:0]
}

func (s *pendingSurface) Bounds() image.Rectangle {
	return s.bounds
}

func (s *pendingSurface) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	s.ops = append(s.ops, surfaceOp{
		kind:      opSetContent,
		at:        image.Pt(x, y),
		primary:   primary,
		combining: slices.Clone(combining),
		style:     style,
	})
}

func (s *pendingSurface) Fill(r image.Rectangle, ch rune, style tcell.Style) {
	s.ops = append(s.ops, surfaceOp{kind: opFill, rect: r, primary: ch, style: style})
}

func (s *pendingSurface) Copy(src image.Rectangle, dst image.Point) {
	s.ops = append(s.ops, surfaceOp{kind: opCopy, rect: src, at: dst})
}

// apply replays the recorded writes on dst in order.
func (s *pendingSurface) apply(dst Surface) {
	for _, op := range s.ops {
		switch op.kind {
		case opSetContent:
			dst.SetContent(op.at.X, op.at.Y, op.primary, op.combining, op.style)
		case opFill:
			dst.Fill(op.rect, op.primary, op.style)
		case opCopy:
			dst.Copy(op.rect, op.at)
		}
	}
}

// fillPattern fills r with the runes of pattern repeated horizontally. phase
// selects the pattern rune for column r.Min.X.
func fillPattern(s Surface, r image.Rectangle, pattern []rune, phase int, style tcell.Style) {
	if len(pattern) == 0 {
		s.Fill(r, ' ', style)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.SetContent(x, y, pattern[mod(phase+x-r.Min.X, len(pattern))], nil, style)
		}
	}
}

func mod(a, n int) int {
	if n <= 0 {
		return 0
	}
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
