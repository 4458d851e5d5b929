// Package help draws a one line footer listing key bindings next to a status
// text, such as the scroll position of a view.
package help

import (
	"strings"

	"github.com/ayn2op/treeview"
	"github.com/ayn2op/treeview/keybind"
	"github.com/gdamore/tcell/v2"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

// Bar shows the short help of a key map on the left and a status text on the
// right. With ShowAll set it lays out the full help in columns instead.
type Bar struct {
	*treeview.Box
	Styles Styles

	keyMap    KeyMap
	status    func() string
	showAll   bool
	separator string
	ellipsis  string
}

func New() *Bar {
	return &Bar{
		Box:       treeview.NewBox(),
		Styles:    DefaultStyles(),
		separator: " • ",
		ellipsis:  "…",
	}
}

// SetKeyMap sets the key map used by this bar.
func (b *Bar) SetKeyMap(keyMap KeyMap) *Bar {
	b.keyMap = keyMap
	b.MarkDirty()
	return b
}

// SetStatusFunc sets a function returning the text shown on the right. It is
// called on every draw.
func (b *Bar) SetStatusFunc(status func() string) *Bar {
	b.status = status
	return b
}

// SetShowAll enables or disables full help mode.
func (b *Bar) SetShowAll(showAll bool) *Bar {
	b.showAll = showAll
	b.MarkDirty()
	return b
}

// ShowAll returns whether full help mode is enabled.
func (b *Bar) ShowAll() bool {
	return b.showAll
}

// Height returns the number of rows the bar needs.
func (b *Bar) Height() int {
	if !b.showAll || b.keyMap == nil {
		return 1
	}
	rows := 1
	for _, group := range b.keyMap.FullHelp() {
		rows = max(rows, len(enabled(group)))
	}
	return rows
}

// Draw draws this primitive onto the screen.
func (b *Bar) Draw(screen tcell.Screen) {
	b.Box.Draw(screen)
	x, y, width, height := b.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	status := ""
	if b.status != nil {
		status = b.status()
	}
	statusWidth := treeview.StringWidth(status)
	if statusWidth > 0 && statusWidth < width {
		treeview.Print(screen, status, x+width-statusWidth, y, statusWidth, treeview.AlignmentLeft, b.Styles.StatusStyle)
		// Keep one cell free before the status.
		width -= statusWidth + 1
	}

	if b.keyMap == nil {
		return
	}
	if b.showAll {
		for row, line := range b.FullLines(width) {
			if row >= height {
				break
			}
			treeview.Print(screen, line, x, y+row, width, treeview.AlignmentLeft, b.Styles.DescStyle)
		}
		return
	}
	b.drawShort(screen, x, y, width)
}

func (b *Bar) drawShort(screen tcell.Screen, x, y, width int) {
	used := 0
	for i, kb := range enabled(b.keyMap.ShortHelp()) {
		h := kb.Help()
		itemWidth := treeview.StringWidth(h.Key) + 1 + treeview.StringWidth(h.Desc)
		sep := ""
		if i > 0 {
			sep = b.separator
		}
		need := treeview.StringWidth(sep) + itemWidth
		if used+need > width {
			// Only add the ellipsis when it fits completely.
			if used+2 <= width && i > 0 {
				treeview.Print(screen, " "+b.ellipsis, x+used, y, 2, treeview.AlignmentLeft, b.Styles.SeparatorStyle)
			}
			return
		}
		cx := x + used
		_, w := treeview.Print(screen, sep, cx, y, width-used, treeview.AlignmentLeft, b.Styles.SeparatorStyle)
		cx += w
		_, w = treeview.Print(screen, h.Key, cx, y, width-used, treeview.AlignmentLeft, b.Styles.KeyStyle)
		cx += w + 1
		treeview.Print(screen, h.Desc, cx, y, width-(cx-x), treeview.AlignmentLeft, b.Styles.DescStyle)
		used += need
	}
}

// FullLines lays out the full help in columns as plain text. Columns that do
// not fit into maxWidth are left out.
func (b *Bar) FullLines(maxWidth int) []string {
	type column struct {
		keys, descs []string
		keyW, colW  int
	}
	var columns []column
	for _, group := range b.keyMap.FullHelp() {
		var c column
		for _, kb := range enabled(group) {
			h := kb.Help()
			c.keys = append(c.keys, h.Key)
			c.descs = append(c.descs, h.Desc)
			c.keyW = max(c.keyW, treeview.StringWidth(h.Key))
		}
		if len(c.keys) == 0 {
			continue
		}
		for _, d := range c.descs {
			c.colW = max(c.colW, c.keyW+1+treeview.StringWidth(d))
		}
		columns = append(columns, c)
	}

	const gap = "    "
	total, included, rows := 0, 0, 0
	for i, c := range columns {
		w := c.colW
		if i > 0 {
			w += len(gap)
		}
		if maxWidth > 0 && total+w > maxWidth {
			break
		}
		total += w
		included++
		rows = max(rows, len(c.keys))
	}

	lines := make([]string, rows)
	for row := range rows {
		var sb strings.Builder
		for i, c := range columns[:included] {
			if i > 0 {
				sb.WriteString(gap)
			}
			cell := ""
			if row < len(c.keys) {
				cell = c.keys[row] + strings.Repeat(" ", c.keyW-treeview.StringWidth(c.keys[row])) + " " + c.descs[row]
			}
			if i < included-1 {
				cell += strings.Repeat(" ", max(c.colW-treeview.StringWidth(cell), 0))
			}
			sb.WriteString(cell)
		}
		lines[row] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

func enabled(bindings []keybind.Keybind) []keybind.Keybind {
	out := make([]keybind.Keybind, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		if kb.Enabled() && (h.Key != "" || h.Desc != "") {
			out = append(out, kb)
		}
	}
	return out
}
