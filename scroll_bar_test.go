package treeview

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func barColumn(s *ScrollBar, height int) string {
	buf := NewCellBuffer(image.Rect(0, 0, 1, height))
	s.draw(buf)
	runes := make([]rune, height)
	for y := range height {
		runes[y], _, _, _ = buf.GetContent(0, y)
	}
	return string(runes)
}

func TestScrollBarDraw(t *testing.T) {
	s := NewScrollBar()
	s.SetRect(image.Rect(0, 0, 3, 4))

	// Nothing hidden: the column is blank.
	assert.Equal(t, "    ", barColumn(s, 4))

	s.SetFractions(0, 0.5)
	assert.Equal(t, "██  ", barColumn(s, 4))

	// From 8/32 to 19/32: one full cell and the top 3 eighths of the next.
	s.SetFractions(0.25, 0.6)
	assert.Equal(t, " █🮃 ", barColumn(s, 4))

	// A tiny thumb still covers one cell.
	s.SetFractions(0.99, 1)
	assert.Equal(t, "   █", barColumn(s, 4))

	s.Glyphs = PlainScrollBarGlyphs()
	s.Arrows = true
	s.SetRect(image.Rect(0, 0, 1, 5))
	s.SetFractions(0, 0.5)
	assert.Equal(t, "▲█▀│▼", barColumn(s, 5))
}

func TestScrollBarHit(t *testing.T) {
	s := NewScrollBar()
	s.SetRect(image.Rect(0, 1, 1, 5))
	hit, _ := s.Hit(2)
	assert.Equal(t, ScrollBarHitNone, hit)

	s.SetFractions(0.25, 0.6)
	for y, want := range map[int]ScrollBarHit{
		0: ScrollBarHitNone,
		1: ScrollBarHitPageUp,
		2: ScrollBarHitThumb,
		3: ScrollBarHitThumb,
		4: ScrollBarHitPageDown,
		5: ScrollBarHitNone,
	} {
		hit, _ := s.Hit(y)
		assert.Equal(t, want, hit, "row %d", y)
	}

	s.JumpOnClick = true
	hit, fraction := s.Hit(4)
	assert.Equal(t, ScrollBarHitJump, hit)
	assert.InDelta(t, 0.75, fraction, 1e-9)

	s.Arrows = true
	hit, _ = s.Hit(1)
	assert.Equal(t, ScrollBarHitArrowUp, hit)
	hit, _ = s.Hit(4)
	assert.Equal(t, ScrollBarHitArrowDown, hit)
}
