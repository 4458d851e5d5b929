package treeview

import (
	"image"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	layouts int
	items   map[ItemID][]int
	deleted []ItemID
}

func newRecordingTarget() *recordingTarget {
	return &recordingTarget{items: make(map[ItemID][]int)}
}

func (r *recordingTarget) InvalidateLayout() { r.layouts++ }

func (r *recordingTarget) InvalidateItem(item ItemID, columns ...int) {
	r.items[item] = append(r.items[item], columns...)
}

func (r *recordingTarget) ItemDeleted(item ItemID) { r.deleted = append(r.deleted, item) }

// sampleTree builds
//
//	a
//	├ a1
//	└ a2
//	b
func sampleTree() (*Tree, map[string]*TreeNode) {
	tree := NewTree(Column{Title: "Name", Width: 12}, Column{Title: "Size", Width: 6})
	nodes := map[string]*TreeNode{
		"a":  NewTreeNode("a", "1 KB"),
		"a1": NewTreeNode("a1"),
		"a2": NewTreeNode("a2", "123456789"),
		"b":  NewTreeNode("b"),
	}
	tree.Add(nil, nodes["a"])
	tree.Add(nodes["a"], nodes["a1"])
	tree.Add(nodes["a"], nodes["a2"])
	tree.Add(nil, nodes["b"])
	return tree, nodes
}

func cellRange(b *CellBuffer, y, from, to int) string {
	return string([]rune(b.Row(y))[from:to])
}

func TestTreeStructure(t *testing.T) {
	tree, nodes := sampleTree()

	assert.Equal(t, ItemID(1), nodes["a"].ID())
	assert.Equal(t, ItemID(2), nodes["a1"].ID())
	assert.Equal(t, ItemID(4), nodes["b"].ID())
	assert.Equal(t, []ItemID{1, 4}, slices.Collect(tree.VisibleItems()))

	target := newRecordingTarget()
	tree.SetTarget(target)
	tree.Toggle(nodes["a"].ID())
	assert.True(t, nodes["a"].IsExpanded())
	assert.Equal(t, []ItemID{1, 2, 3, 4}, slices.Collect(tree.VisibleItems()))
	assert.Equal(t, 1, target.layouts)
	assert.Equal(t, []int{0}, target.items[1])

	// Leaves have nothing to show; only the row itself changes.
	tree.SetExpanded(nodes["b"], true)
	assert.Equal(t, 1, target.layouts)

	tree.SetCell(nodes["a1"], 1, "4 KB")
	assert.Equal(t, []int{1}, target.items[2])
	assert.Equal(t, "4 KB", nodes["a1"].Cell(1))
	tree.SetCell(nodes["a1"], 1, "4 KB")
	assert.Equal(t, []int{1}, target.items[2])

	tree.Remove(nodes["a"])
	assert.Equal(t, []ItemID{2, 3, 1}, target.deleted)
	assert.Equal(t, []ItemID{4}, slices.Collect(tree.VisibleItems()))
	_, ok := tree.Node(1)
	assert.False(t, ok)
	assert.Equal(t, ItemID(0), nodes["a"].ID())
}

func TestTreeNaturalSize(t *testing.T) {
	tree, nodes := sampleTree()
	id := nodes["a1"].ID()

	w, h := tree.NaturalSize(id, 0, -1)
	assert.Equal(t, []int{7, 1}, []int{w, h})
	w, h = tree.NaturalSize(id, 1, -1)
	assert.Equal(t, []int{1, 1}, []int{w, h})

	long := tree.Add(nil, NewTreeNode("hello world foo"))
	_, h = tree.NaturalSize(long.ID(), 0, 10)
	assert.Equal(t, 1, h)
	tree.SetWrap(true)
	_, h = tree.NaturalSize(long.ID(), 0, 10)
	assert.Equal(t, 3, h)

	_, h = tree.NaturalSize(99, 0, 10)
	assert.Equal(t, 1, h)
}

func TestTreeDraw(t *testing.T) {
	tree, nodes := sampleTree()
	e := NewEngine(tree)
	tree.SetTarget(e)
	tree.SetExpanded(nodes["a"], true)

	buf := NewCellBuffer(image.Rect(0, 0, 20, 5))
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 4, tree.OnScreen())

	g := TreeGuidesLight()
	assert.Equal(t, string([]rune{SemigraphicsTriangleDown, ' ', 'a'}), cellRange(buf, 0, 0, 3))
	assert.Equal(t, "1 KB", cellRange(buf, 0, 12, 16))
	assert.Equal(t, string([]rune{g.Branch, g.Dash, ' ', ' ', 'a', '1'}), cellRange(buf, 1, 0, 6))
	assert.Equal(t, string([]rune{g.Last, g.Dash, ' ', ' ', 'a', '2'}), cellRange(buf, 2, 0, 6))
	assert.Equal(t, "  b", cellRange(buf, 3, 0, 3))
	// Text wider than the column is cut with an ellipsis.
	assert.Equal(t, "1234"+string(SemigraphicsHorizontalEllipsis), cellRange(buf, 2, 12, 17))

	tree.Toggle(nodes["a"].ID())
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 2, tree.OnScreen())
	assert.Equal(t, string([]rune{SemigraphicsTriangleRight, ' ', 'a'}), cellRange(buf, 0, 0, 3))
	assert.Equal(t, "  b", cellRange(buf, 1, 0, 3))

	tree.Remove(nodes["b"])
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 1, tree.OnScreen())
	assert.Equal(t, 1, e.DisplayedItems())
}

func TestTreeDrawUnknownItem(t *testing.T) {
	tree, _ := sampleTree()
	buf := NewCellBuffer(image.Rect(0, 0, 10, 1))
	err := tree.DrawItem(42, DrawContext{Surface: buf, Rect: buf.Bounds(), Clip: buf.Bounds()})
	assert.Error(t, err)
}
