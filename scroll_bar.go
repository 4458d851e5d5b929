package treeview

import (
	"image"
	"math"

	"github.com/gdamore/tcell/v2"
)

// eighths is the resolution of the thumb within one cell.
const eighths = 8

// ScrollBarGlyphs are the runes a scroll bar is drawn with. Lower[i] fills
// the bottom i+1 eighths of a cell, Upper[i] the top i+1 eighths.
type ScrollBarGlyphs struct {
	Track        rune
	Up, Down     rune
	Lower, Upper [eighths]rune
}

// FineScrollBarGlyphs moves the thumb in eighths of a cell at both ends. The
// upper edges come from the Symbols for Legacy Computing block.
func FineScrollBarGlyphs() ScrollBarGlyphs {
	return ScrollBarGlyphs{
		Track: ' ',
		Up:    '▲',
		Down:  '▼',
		Lower: [eighths]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'},
		Upper: [eighths]rune{'▔', '🮂', '🮃', '▀', '🮄', '🮅', '🮆', '█'},
	}
}

// PlainScrollBarGlyphs only uses runes most fonts have.
func PlainScrollBarGlyphs() ScrollBarGlyphs {
	return ScrollBarGlyphs{
		Track: BoxDrawingsLightVertical,
		Up:    '▲',
		Down:  '▼',
		Lower: [eighths]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'},
		Upper: [eighths]rune{'▔', '▔', '▀', '▀', '▀', '▀', '█', '█'},
	}
}

// ScrollBar is the vertical bar on the right of a TreeView. It shows the
// visible fraction of the content.
//
// Changes to the exported fields show after the next chrome repaint.
type ScrollBar struct {
	Glyphs ScrollBarGlyphs
	// Arrows reserves the first and last row for arrows.
	Arrows bool
	// JumpOnClick scrolls to a clicked track position instead of by a page.
	JumpOnClick bool
	TrackStyle  tcell.Style
	ThumbStyle  tcell.Style

	rect        image.Rectangle
	top, bottom float64
}

func NewScrollBar() *ScrollBar {
	base := tcell.StyleDefault.Foreground(Styles.GraphicsColor).Background(Styles.PrimitiveBackgroundColor)
	return &ScrollBar{
		Glyphs:     FineScrollBarGlyphs(),
		TrackStyle: base.Dim(true),
		ThumbStyle: base,
		bottom:     1,
	}
}

// SetRect places the bar. Only the first column of r is drawn.
func (s *ScrollBar) SetRect(r image.Rectangle) {
	s.rect = image.Rect(r.Min.X, r.Min.Y, r.Min.X+min(r.Dx(), 1), r.Max.Y)
}

// SetFractions sets the visible part of the content as fractions of its
// length.
func (s *ScrollBar) SetFractions(top, bottom float64) {
	s.top = min(max(top, 0), 1)
	s.bottom = min(max(bottom, s.top), 1)
}

func (s *ScrollBar) SetBackgroundColor(color tcell.Color) {
	s.TrackStyle = s.TrackStyle.Background(color)
	s.ThumbStyle = s.ThumbStyle.Background(color)
}

// Scrollable reports whether part of the content is hidden.
func (s *ScrollBar) Scrollable() bool {
	return s.top > 0 || s.bottom < 1
}

func (s *ScrollBar) hasArrows() bool {
	return s.Arrows && s.rect.Dy() >= 3
}

// track returns the first row of the track and its length in cells.
func (s *ScrollBar) track() (int, int) {
	if s.hasArrows() {
		return s.rect.Min.Y + 1, s.rect.Dy() - 2
	}
	return s.rect.Min.Y, s.rect.Dy()
}

// thumb returns the extent of the thumb in eighths from the top of a track
// of cells. The thumb is never shorter than one cell.
func (s *ScrollBar) thumb(cells int) (start, end int) {
	n := float64(cells * eighths)
	start = int(math.Round(s.top * n))
	end = int(math.Round(s.bottom * n))
	if end-start < eighths {
		end = min(start+eighths, cells*eighths)
		start = max(end-eighths, 0)
	}
	return start, end
}

// glyph returns the rune of the track cell whose top edge is at eighth from.
func (s *ScrollBar) glyph(from, start, end int) (rune, tcell.Style) {
	lo, hi := max(from, start), min(from+eighths, end)
	switch fill := hi - lo; {
	case fill <= 0:
		return s.Glyphs.Track, s.TrackStyle
	case fill == eighths:
		return s.Glyphs.Lower[eighths-1], s.ThumbStyle
	case lo == from:
		// The thumb ends inside this cell.
		return s.Glyphs.Upper[fill-1], s.ThumbStyle
	default:
		return s.Glyphs.Lower[fill-1], s.ThumbStyle
	}
}

// draw writes every cell of the bar. A bar with nothing to scroll is blank.
func (s *ScrollBar) draw(w contentSetter) {
	if s.rect.Empty() {
		return
	}
	x := s.rect.Min.X
	if !s.Scrollable() {
		for y := s.rect.Min.Y; y < s.rect.Max.Y; y++ {
			w.SetContent(x, y, ' ', nil, s.TrackStyle)
		}
		return
	}
	if s.hasArrows() {
		w.SetContent(x, s.rect.Min.Y, s.Glyphs.Up, nil, s.TrackStyle)
		w.SetContent(x, s.rect.Max.Y-1, s.Glyphs.Down, nil, s.TrackStyle)
	}
	top, cells := s.track()
	start, end := s.thumb(cells)
	for i := range cells {
		r, style := s.glyph(i*eighths, start, end)
		w.SetContent(x, top+i, r, nil, style)
	}
}

// ScrollBarHit is the part of the bar a click landed on.
type ScrollBarHit uint8

const (
	ScrollBarHitNone ScrollBarHit = iota
	ScrollBarHitArrowUp
	ScrollBarHitArrowDown
	ScrollBarHitPageUp
	ScrollBarHitPageDown
	ScrollBarHitJump
	ScrollBarHitThumb
)

// Hit classifies a click on row y. For ScrollBarHitJump it also returns the
// fraction of the content under the click.
func (s *ScrollBar) Hit(y int) (ScrollBarHit, float64) {
	if y < s.rect.Min.Y || y >= s.rect.Max.Y || !s.Scrollable() {
		return ScrollBarHitNone, 0
	}
	if s.hasArrows() {
		switch y {
		case s.rect.Min.Y:
			return ScrollBarHitArrowUp, 0
		case s.rect.Max.Y - 1:
			return ScrollBarHitArrowDown, 0
		}
	}
	top, cells := s.track()
	start, end := s.thumb(cells)
	from := (y - top) * eighths

	var page ScrollBarHit
	switch {
	case from+eighths <= start:
		page = ScrollBarHitPageUp
	case from >= end:
		page = ScrollBarHitPageDown
	default:
		return ScrollBarHitThumb, 0
	}
	if s.JumpOnClick {
		return ScrollBarHitJump, float64(from) / float64(cells*eighths)
	}
	return page, 0
}
