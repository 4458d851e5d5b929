package treeview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageSurface renders cells into an RGBA image using a fixed 7x13 bitmap
// font. It is used for snapshots and for checking copies pixel by pixel.
type ImageSurface struct {
	img    *image.RGBA
	bounds image.Rectangle
	face   font.Face
	cellW  int
	cellH  int

	// Colors used for tcell.ColorDefault.
	Foreground color.RGBA
	Background color.RGBA
}

// NewImageSurface returns a surface of r cells.
func NewImageSurface(r image.Rectangle) *ImageSurface {
	face := basicfont.Face7x13
	s := &ImageSurface{
		bounds:     r.Canon(),
		face:       face,
		cellW:      face.Advance,
		cellH:      face.Height,
		Foreground: color.RGBA{0xd0, 0xd0, 0xd0, 0xff},
		Background: color.RGBA{0x00, 0x00, 0x00, 0xff},
	}
	s.img = image.NewRGBA(image.Rect(0, 0, s.bounds.Dx()*s.cellW, s.bounds.Dy()*s.cellH))
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
	return s
}

// Bounds returns the covered cells.
func (s *ImageSurface) Bounds() image.Rectangle {
	return s.bounds
}

// Image returns the backing image.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// CellSize returns the size of one cell in pixels.
func (s *ImageSurface) CellSize() image.Point {
	return image.Pt(s.cellW, s.cellH)
}

func (s *ImageSurface) pixels(r image.Rectangle) image.Rectangle {
	r = r.Sub(s.bounds.Min)
	return image.Rect(r.Min.X*s.cellW, r.Min.Y*s.cellH, r.Max.X*s.cellW, r.Max.Y*s.cellH)
}

func (s *ImageSurface) colors(style tcell.Style) (fg, bg color.RGBA) {
	f, b, attrs := style.Decompose()
	fg = s.resolve(f, s.Foreground)
	bg = s.resolve(b, s.Background)
	if attrs&tcell.AttrReverse != 0 {
		fg, bg = bg, fg
	}
	return fg, bg
}

func (s *ImageSurface) resolve(c tcell.Color, fallback color.RGBA) color.RGBA {
	if c == tcell.ColorDefault || !c.Valid() {
		return fallback
	}
	r, g, b := c.RGB()
	if r < 0 {
		return fallback
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 0xff}
}

// SetContent paints one cell.
func (s *ImageSurface) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	p := image.Pt(x, y)
	if !p.In(s.bounds) {
		return
	}
	fg, bg := s.colors(style)
	px := s.pixels(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	draw.Draw(s.img, px, image.NewUniform(bg), image.Point{}, draw.Src)
	if primary == ' ' || primary == 0 {
		return
	}
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(fg),
		Face: s.face,
		Dot:  fixed.P(px.Min.X, px.Min.Y+basicfont.Face7x13.Ascent),
	}
	d.DrawString(string(primary) + string(combining))
}

// Fill paints every cell of r.
func (s *ImageSurface) Fill(r image.Rectangle, ch rune, style tcell.Style) {
	r = r.Intersect(s.bounds)
	if r.Empty() {
		return
	}
	if ch == ' ' {
		_, bg := s.colors(style)
		draw.Draw(s.img, s.pixels(r), image.NewUniform(bg), image.Point{}, draw.Src)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.SetContent(x, y, ch, nil, style)
		}
	}
}

// Copy moves a block of cells. The source goes through a scratch image so
// overlapping moves are safe.
func (s *ImageSurface) Copy(src image.Rectangle, dst image.Point) {
	delta := dst.Sub(src.Min)
	src = src.Intersect(s.bounds)
	src = src.Add(delta).Intersect(s.bounds).Sub(delta)
	if src.Empty() {
		return
	}
	from := s.pixels(src)
	to := s.pixels(src.Add(delta))
	tmp := image.NewRGBA(image.Rect(0, 0, from.Dx(), from.Dy()))
	draw.Draw(tmp, tmp.Bounds(), s.img, from.Min, draw.Src)
	draw.Draw(s.img, to, tmp, image.Point{}, draw.Src)
}

// CellColor returns the color of the top-left pixel of a cell.
func (s *ImageSurface) CellColor(x, y int) color.RGBA {
	px := s.pixels(image.Rect(x, y, x+1, y+1))
	return s.img.RGBAAt(px.Min.X, px.Min.Y)
}

// WritePNG encodes the image as PNG.
func (s *ImageSurface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
