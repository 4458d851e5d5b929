package treeview

import (
	"image"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

type cell struct {
	primary   rune
	combining []rune
	style     tcell.Style
}

// CellBuffer is a persistent offscreen cell grid. It remembers which cells
// changed since the last flush as one dirty span per row, so flushing to a
// tcell screen only touches changed cells.
//
// Rows are generation-tagged: a row's span is valid only when its generation
// matches the buffer generation, so starting a new frame does not clear the
// span arrays.
type CellBuffer struct {
	bounds image.Rectangle
	cells  []cell

	gen      uint32
	rowGen   []uint32
	rowStart []int
	rowEnd   []int

	blank cell
}

// NewCellBuffer returns a buffer covering r, filled with blanks.
func NewCellBuffer(r image.Rectangle) *CellBuffer {
	b := &CellBuffer{blank: cell{primary: ' ', style: tcell.StyleDefault}}
	b.Resize(r)
	return b
}

// Resize changes the covered rectangle. Content is discarded when the size
// changes and the whole buffer is marked dirty.
func (b *CellBuffer) Resize(r image.Rectangle) {
	r = r.Canon()
	if r.Size() == b.bounds.Size() && b.cells != nil {
		b.bounds = r
		b.markAll()
		return
	}
	b.bounds = r
	w, h := r.Dx(), r.Dy()
	b.cells = make([]cell, w*h)
	for i := range b.cells {
		b.cells[i] = b.blank
	}
	b.rowGen = make([]uint32, h)
	b.rowStart = make([]int, h)
	b.rowEnd = make([]int, h)
	b.gen = 1
	b.markAll()
}

// Bounds returns the covered rectangle.
func (b *CellBuffer) Bounds() image.Rectangle {
	return b.bounds
}

func (b *CellBuffer) index(x, y int) int {
	return (y-b.bounds.Min.Y)*b.bounds.Dx() + x - b.bounds.Min.X
}

func (b *CellBuffer) markAll() {
	for y := b.bounds.Min.Y; y < b.bounds.Max.Y; y++ {
		b.markSpan(y, b.bounds.Min.X, b.bounds.Max.X)
	}
}

func (b *CellBuffer) markSpan(y, start, end int) {
	row := y - b.bounds.Min.Y
	if row < 0 || row >= len(b.rowGen) {
		return
	}
	start = max(start, b.bounds.Min.X)
	end = min(end, b.bounds.Max.X)
	if start >= end {
		return
	}
	if b.rowGen[row] != b.gen {
		b.rowGen[row] = b.gen
		b.rowStart[row] = start
		b.rowEnd[row] = end
		return
	}
	b.rowStart[row] = min(b.rowStart[row], start)
	b.rowEnd[row] = max(b.rowEnd[row], end)
}

// SetContent sets one cell.
func (b *CellBuffer) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	if !image.Pt(x, y).In(b.bounds) {
		return
	}
	c := &b.cells[b.index(x, y)]
	c.primary = primary
	c.combining = append(c.combining[:0], combining...)
	c.style = style
	b.markSpan(y, x, x+1)
}

// GetContent returns one cell in the shape tcell screens use.
func (b *CellBuffer) GetContent(x, y int) (rune, []rune, tcell.Style, int) {
	if !image.Pt(x, y).In(b.bounds) {
		return ' ', nil, tcell.StyleDefault, 1
	}
	c := b.cells[b.index(x, y)]
	return c.primary, c.combining, c.style, max(uniseg.StringWidth(string(c.primary)), 1)
}

// Fill sets every cell of r.
func (b *CellBuffer) Fill(r image.Rectangle, ch rune, style tcell.Style) {
	r = r.Intersect(b.bounds)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.cells[b.index(r.Min.X, y):b.index(r.Max.X, y)]
		for i := range row {
			row[i] = cell{primary: ch, style: style}
		}
		b.markSpan(y, r.Min.X, r.Max.X)
	}
}

// Copy moves the cells of src to dst. Rows are walked against the direction
// of the move so overlapping copies read each row before it is overwritten.
func (b *CellBuffer) Copy(src image.Rectangle, dst image.Point) {
	delta := dst.Sub(src.Min)
	src = src.Intersect(b.bounds)
	src = src.Add(delta).Intersect(b.bounds).Sub(delta)
	if src.Empty() {
		return
	}
	dst = src.Min.Add(delta)
	w := src.Dx()

	copyRow := func(y int) {
		from := b.index(src.Min.X, y)
		to := b.index(dst.X, y+delta.Y)
		// copy handles horizontal overlap within a row. Combining slices are
		// shared afterwards; SetContent reuses them, so detach the targets.
		copy(b.cells[to:to+w], b.cells[from:from+w])
		for i := to; i < to+w; i++ {
			if b.cells[i].combining != nil {
				b.cells[i].combining = append([]rune(nil), b.cells[i].combining...)
			}
		}
		b.markSpan(y+delta.Y, dst.X, dst.X+w)
	}
	if delta.Y > 0 {
		for y := src.Max.Y - 1; y >= src.Min.Y; y-- {
			copyRow(y)
		}
	} else {
		for y := src.Min.Y; y < src.Max.Y; y++ {
			copyRow(y)
		}
	}
}

// Dirty reports whether any cell changed since the last flush.
func (b *CellBuffer) Dirty() bool {
	for _, g := range b.rowGen {
		if g == b.gen {
			return true
		}
	}
	return false
}

// Flush writes the changed cells to screen, or every cell when full is set,
// and starts a new generation.
func (b *CellBuffer) Flush(screen tcell.Screen, full bool) {
	for row := range b.rowGen {
		y := b.bounds.Min.Y + row
		start, end := b.bounds.Min.X, b.bounds.Max.X
		if !full {
			if b.rowGen[row] != b.gen {
				continue
			}
			start, end = b.rowStart[row], b.rowEnd[row]
		}
		for x := start; x < end; x++ {
			c := b.cells[b.index(x, y)]
			screen.SetContent(x, y, c.primary, c.combining, c.style)
		}
	}
	b.beginFrame()
}

func (b *CellBuffer) beginFrame() {
	b.gen++
	if b.gen != 0 {
		return
	}
	clear(b.rowGen)
	b.gen = 1
}

// Row returns the text of row y, for tests and snapshots.
func (b *CellBuffer) Row(y int) string {
	if y < b.bounds.Min.Y || y >= b.bounds.Max.Y {
		return ""
	}
	var sb strings.Builder
	for x := b.bounds.Min.X; x < b.bounds.Max.X; x++ {
		c := b.cells[b.index(x, y)]
		sb.WriteRune(c.primary)
		for _, r := range c.combining {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// StyleAt returns the style of one cell.
func (b *CellBuffer) StyleAt(x, y int) tcell.Style {
	if !image.Pt(x, y).In(b.bounds) {
		return tcell.StyleDefault
	}
	return b.cells[b.index(x, y)].style
}
