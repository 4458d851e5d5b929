package treeview

import (
	"fmt"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenRow(screen tcell.Screen, y int) string {
	width, _ := screen.Size()
	runes := make([]rune, 0, width)
	for x := range width {
		r, _, _, _ := screen.GetContent(x, y)
		runes = append(runes, r)
	}
	return string(runes)
}

// newTestView returns a view of ten top-level rows on a 20x6 screen: one
// header row and five item rows.
func newTestView(t *testing.T) (*TreeView, *Tree, tcell.SimulationScreen) {
	t.Helper()
	tree := NewTree(Column{Title: "Name", Width: 12}, Column{Title: "Size", Width: 6})
	for i := range 10 {
		tree.Add(nil, NewTreeNode(fmt.Sprintf("n%d", i), "1 KB"))
	}
	view := NewTreeView(tree)
	tree.SetTarget(view)
	view.SetRect(0, 0, 20, 6)
	return view, tree, newTestScreen(t, 20, 6)
}

func TestTreeViewDraw(t *testing.T) {
	view, tree, screen := newTestView(t)
	view.Draw(screen)

	res, err := view.LastResult()
	require.NoError(t, err)
	assert.Equal(t, 5, res.Painted)
	assert.Equal(t, 5, tree.OnScreen())

	assert.Equal(t, "Name        Size    ", screenRow(screen, 0))
	assert.Equal(t, "  n0        1 KB    ", screenRow(screen, 1))
	assert.Equal(t, "  n4        1 KB    ", screenRow(screen, 5))

	_, _, style, _ := screen.GetContent(0, 0)
	assert.Equal(t, view.headerStyle, style)
}

func TestTreeViewKeys(t *testing.T) {
	view, _, screen := newTestView(t)
	view.Draw(screen)

	cmd := view.InputHandler(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	assert.Equal(t, RedrawCommand{}, cmd)
	view.Draw(screen)
	assert.Equal(t, 1, view.Engine().ScrollOrigin(AxisY))
	assert.Equal(t, "  n1        1 KB    ", screenRow(screen, 1))
	assert.Equal(t, "  n5        1 KB    ", screenRow(screen, 5))

	view.InputHandler(tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModNone))
	view.Draw(screen)
	assert.Equal(t, 5, view.Engine().ScrollOrigin(AxisY))
	assert.Equal(t, "  n9        1 KB    ", screenRow(screen, 5))

	view.InputHandler(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone))
	view.Draw(screen)
	assert.Equal(t, 4, view.Engine().ScrollOrigin(AxisY))

	view.InputHandler(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	view.Draw(screen)
	assert.Equal(t, 0, view.Engine().ScrollOrigin(AxisY))

	assert.Nil(t, view.InputHandler(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)))
}

func TestTreeViewMouse(t *testing.T) {
	view, _, screen := newTestView(t)
	var selected []ItemID
	view.SetSelectedFunc(func(item ItemID) { selected = append(selected, item) })
	view.Draw(screen)

	_, cmd := view.MouseHandler(MouseScrollDown, tcell.NewEventMouse(3, 3, tcell.WheelDown, tcell.ModNone))
	assert.Equal(t, RedrawCommand{}, cmd)
	view.Draw(screen)
	assert.Equal(t, 3, view.Engine().ScrollOrigin(AxisY))

	// Row 2 of the screen is the second item row.
	_, cmd = view.MouseHandler(MouseLeftClick, tcell.NewEventMouse(3, 2, tcell.Button1, tcell.ModNone))
	assert.Equal(t, RedrawCommand{}, cmd)
	assert.Equal(t, []ItemID{5}, selected)

	// Clicks outside the view are ignored.
	_, cmd = view.MouseHandler(MouseLeftClick, tcell.NewEventMouse(3, 8, tcell.Button1, tcell.ModNone))
	assert.Nil(t, cmd)
}

func TestTreeViewScrollBarClick(t *testing.T) {
	view, _, screen := newTestView(t)
	opts := DefaultOptions()
	opts.ShowScrollBar = true
	require.NoError(t, view.SetOptions(opts))
	view.Draw(screen)

	view.MouseHandler(MouseLeftClick, tcell.NewEventMouse(19, 5, tcell.Button1, tcell.ModNone))
	view.Draw(screen)
	assert.Positive(t, view.Engine().ScrollOrigin(AxisY))
}

func TestTreeViewFlushesChangedCells(t *testing.T) {
	view, _, screen := newTestView(t)
	view.Draw(screen)

	screen.SetContent(19, 5, 'Z', nil, tcell.StyleDefault)
	view.Draw(screen)
	r, _, _, _ := screen.GetContent(19, 5)
	assert.Equal(t, 'Z', r, "an idle frame sends nothing")

	view.ScreenCleared()
	view.Draw(screen)
	r, _, _, _ = screen.GetContent(19, 5)
	assert.Equal(t, ' ', r)
}

func TestTreeViewRedrawRequests(t *testing.T) {
	view, tree, screen := newTestView(t)
	requests := 0
	view.SetRedrawFunc(func() { requests++ })
	view.Draw(screen)

	node, ok := tree.Node(1)
	require.True(t, ok)
	tree.SetCell(node, 1, "2 KB")
	assert.Equal(t, 1, requests)

	view.Draw(screen)
	assert.Equal(t, "  n0        2 KB    ", screenRow(screen, 1))
	res, _ := view.LastResult()
	assert.Equal(t, 1, res.Painted)
}

func TestTreeViewDestroy(t *testing.T) {
	view, _, screen := newTestView(t)
	view.Destroy()
	view.Draw(screen)

	r, _, _, _ := screen.GetContent(0, 1)
	assert.Equal(t, ' ', r)
	_, err := view.LastResult()
	assert.NoError(t, err)
}

func TestTreeViewConsistencyErrorWaitsForInvalidation(t *testing.T) {
	src := newTestSource(5, 1)
	src.dup = true
	view := NewTreeView(src)
	view.SetRect(0, 0, 20, 6)
	requests := 0
	view.SetRedrawFunc(func() { requests++ })
	screen := newTestScreen(t, 20, 6)

	view.Draw(screen)
	_, err := view.LastResult()
	require.ErrorIs(t, err, ErrConsistency)
	assert.Zero(t, requests)

	src.dup = false
	view.InvalidateLayout()
	assert.Equal(t, 1, requests)
	view.Draw(screen)
	res, err := view.LastResult()
	require.NoError(t, err)
	assert.Equal(t, 5, res.Painted)
}
