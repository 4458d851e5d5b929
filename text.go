package treeview

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// contentSetter is the part of tcell.Screen and Surface that printing needs.
type contentSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

type breakKind uint8

const (
	breakNone breakKind = iota
	breakOptional
	breakMandatory
)

// grapheme is one user-perceived character.
type grapheme struct {
	text  string
	width int
	// brk tells whether a line may or must end after this grapheme.
	brk breakKind
}

func graphemes(text string) []grapheme {
	var out []grapheme
	state := -1
	for text != "" {
		var (
			g          grapheme
			boundaries int
		)
		g.text, text, boundaries, state = uniseg.StepString(text, state)
		g.width = boundaries >> uniseg.ShiftWidth
		switch boundaries & uniseg.MaskLine {
		case uniseg.LineCanBreak:
			g.brk = breakOptional
		case uniseg.LineMustBreak:
			// The end of the text is reported as a mandatory break.
			if text != "" || uniseg.HasTrailingLineBreakInString(g.text) {
				g.brk = breakMandatory
			}
		}
		out = append(out, g)
	}
	return out
}

// StringWidth returns the number of cells text needs on one line.
func StringWidth(text string) int {
	return uniseg.StringWidth(text)
}

// Print prints text at (x, y) into at most maxWidth cells. It returns the
// number of bytes of text and the number of cells printed.
func Print(w contentSetter, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) (int, int) {
	start, end, width := printWithStyle(w, text, x, y, 0, maxWidth, alignment, style)
	return end - start, width
}

// printWithStyle is Print for text whose first skip cells are scrolled out
// of view on the left. A wide grapheme cut by the left edge is dropped
// whole. It returns the byte range of text that was printed and its width.
func printWithStyle(w contentSetter, text string, x, y, skip, maxWidth int, alignment Alignment, style tcell.Style) (start, end, printed int) {
	if maxWidth <= 0 || text == "" {
		return 0, 0, 0
	}
	gs := graphemes(text)
	for len(gs) > 0 && skip > 0 {
		skip -= gs[0].width
		start += len(gs[0].text)
		gs = gs[1:]
	}
	total := 0
	for _, g := range gs {
		total += g.width
	}

	right := x + maxWidth
	dropFront := func() {
		total -= gs[0].width
		start += len(gs[0].text)
		gs = gs[1:]
	}
	switch alignment {
	case AlignmentRight:
		for len(gs) > 0 && total > maxWidth {
			dropFront()
		}
		x = right - total
	case AlignmentCenter:
		for cut := (total - maxWidth) / 2; len(gs) > 0 && cut > 0; {
			cut -= gs[0].width
			dropFront()
		}
		if total < maxWidth {
			x += maxWidth/2 - total/2
		}
	}

	end = start
	for _, g := range gs {
		if x+g.width > right {
			break
		}
		if g.width > 0 {
			runes := []rune(g.text)
			// Cover every cell of a wide grapheme.
			for off := g.width - 1; off > 0; off-- {
				w.SetContent(x+off, y, ' ', nil, style)
			}
			w.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += g.width
		end += len(g.text)
		printed += g.width
	}
	return start, end, printed
}

// WordWrap splits text into lines no wider than width, breaking between
// words where possible. Explicit line breaks always start a new line.
func WordWrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var (
		lines     []string
		lineStart int
		pos       int
		lineWidth int
		// The last place the line may end, in bytes and cells.
		breakAt, breakWidth = -1, 0
	)
	for _, g := range graphemes(text) {
		if lineWidth+g.width > width {
			if breakAt < 0 {
				lines = append(lines, text[lineStart:pos])
				lineStart, lineWidth = pos, 0
			} else {
				lines = append(lines, strings.TrimRight(text[lineStart:breakAt], " "))
				lineStart = breakAt
				lineWidth -= breakWidth
			}
			breakAt = -1
		}
		lineWidth += g.width
		pos += len(g.text)

		switch g.brk {
		case breakOptional:
			breakAt, breakWidth = pos, lineWidth
		case breakMandatory:
			lines = append(lines, strings.TrimRight(text[lineStart:pos], "\r\n"))
			lineStart, lineWidth, breakAt = pos, 0, -1
		}
	}
	return append(lines, text[lineStart:])
}

// splitLines splits text at explicit line breaks only.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
