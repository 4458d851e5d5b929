package treeview

import (
	"fmt"
	"iter"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// TreeNode is one row of a Tree. Cells hold the text of each column.
type TreeNode struct {
	id       ItemID
	cells    []string
	parent   *TreeNode
	children []*TreeNode
	depth    int
	expanded bool
	attached bool
}

// NewTreeNode returns a collapsed node with the given cell texts.
func NewTreeNode(cells ...string) *TreeNode {
	return &TreeNode{cells: cells}
}

// ID returns the item id of the node. It is zero until the node is added to a
// tree.
func (n *TreeNode) ID() ItemID {
	return n.id
}

// Cell returns the text of column i.
func (n *TreeNode) Cell(i int) string {
	if i < 0 || i >= len(n.cells) {
		return ""
	}
	return n.cells[i]
}

// Children returns the child nodes.
func (n *TreeNode) Children() []*TreeNode {
	return n.children
}

// IsExpanded reports whether the children of n are shown.
func (n *TreeNode) IsExpanded() bool {
	return n.expanded
}

func (n *TreeNode) isLast() bool {
	if n.parent == nil {
		return true
	}
	siblings := n.parent.children
	return siblings[len(siblings)-1] == n
}

// invalidator receives the changes of a Tree. Both TreeView and Engine
// implement it.
type invalidator interface {
	InvalidateLayout()
	InvalidateItem(item ItemID, columns ...int)
	ItemDeleted(item ItemID)
}

// Tree is an ItemSource showing a tree of nodes with one or more columns.
// The first column is indented by depth and carries tree guides.
type Tree struct {
	root    *TreeNode
	columns []Column
	nodes   map[ItemID]*TreeNode
	nextID  ItemID
	target  invalidator

	guides     TreeGuides
	textStyle  tcell.Style
	guideStyle tcell.Style
	wrap       bool

	onScreen map[ItemID]struct{}
}

// NewTree returns an empty tree with the given columns.
func NewTree(columns ...Column) *Tree {
	return &Tree{
		root:       &TreeNode{expanded: true, depth: -1, attached: true},
		columns:    columns,
		nodes:      make(map[ItemID]*TreeNode),
		guides:     TreeGuidesLight(),
		textStyle:  tcell.StyleDefault.Foreground(Styles.PrimaryTextColor),
		guideStyle: tcell.StyleDefault.Foreground(Styles.GraphicsColor),
		onScreen:   make(map[ItemID]struct{}),
	}
}

// SetTarget sets the view that is told about changes.
func (t *Tree) SetTarget(target invalidator) *Tree {
	t.target = target
	return t
}

// SetGuides sets the runes drawn in front of nested nodes.
func (t *Tree) SetGuides(guides TreeGuides) *Tree {
	t.guides = guides
	t.invalidateLayout()
	return t
}

// SetWrap makes cell text wrap at the column width. Wrapped rows grow taller.
func (t *Tree) SetWrap(wrap bool) *Tree {
	if t.wrap != wrap {
		t.wrap = wrap
		t.invalidateLayout()
	}
	return t
}

// Add attaches node and its subtree below parent, or at the top level when
// parent is nil.
func (t *Tree) Add(parent, node *TreeNode) *TreeNode {
	if parent == nil {
		parent = t.root
	}
	node.parent = parent
	parent.children = append(parent.children, node)
	if parent.attached {
		t.attach(node)
		t.invalidateLayout()
	}
	return node
}

func (t *Tree) attach(n *TreeNode) {
	t.nextID++
	n.id = t.nextID
	n.depth = n.parent.depth + 1
	n.attached = true
	t.nodes[n.id] = n
	for _, c := range n.children {
		t.attach(c)
	}
}

// Remove detaches node and its subtree.
func (t *Tree) Remove(node *TreeNode) {
	parent := node.parent
	if parent == nil || !node.attached {
		return
	}
	for i, c := range parent.children {
		if c == node {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	node.parent = nil
	t.detach(node)
	t.invalidateLayout()
}

func (t *Tree) detach(n *TreeNode) {
	for _, c := range n.children {
		t.detach(c)
	}
	delete(t.nodes, n.id)
	delete(t.onScreen, n.id)
	if t.target != nil {
		t.target.ItemDeleted(n.id)
	}
	n.attached = false
	n.id = 0
}

// Node returns the node with id.
func (t *Tree) Node(id ItemID) (*TreeNode, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// SetExpanded shows or hides the children of node.
func (t *Tree) SetExpanded(node *TreeNode, expanded bool) {
	if node.expanded == expanded {
		return
	}
	node.expanded = expanded
	if len(node.children) > 0 {
		t.invalidateLayout()
	}
	if node.attached && t.target != nil {
		t.target.InvalidateItem(node.id, 0)
	}
}

// Toggle flips the expanded state of the node with id.
func (t *Tree) Toggle(id ItemID) {
	if n, ok := t.nodes[id]; ok {
		t.SetExpanded(n, !n.expanded)
	}
}

// SetCell changes the text of one column of node.
func (t *Tree) SetCell(node *TreeNode, column int, text string) {
	if column < 0 {
		return
	}
	for len(node.cells) <= column {
		node.cells = append(node.cells, "")
	}
	if node.cells[column] == text {
		return
	}
	node.cells[column] = text
	if node.attached && t.target != nil {
		t.target.InvalidateItem(node.id, column)
	}
}

// OnScreen returns the number of nodes currently shown.
func (t *Tree) OnScreen() int {
	return len(t.onScreen)
}

func (t *Tree) invalidateLayout() {
	if t.target != nil {
		t.target.InvalidateLayout()
	}
}

// ColumnCount implements ItemSource.
func (t *Tree) ColumnCount() int {
	return len(t.columns)
}

// Column implements ItemSource.
func (t *Tree) Column(i int) Column {
	return t.columns[i]
}

// VisibleItems yields the nodes whose ancestors are all expanded, depth
// first.
func (t *Tree) VisibleItems() iter.Seq[ItemID] {
	return func(yield func(ItemID) bool) {
		var walk func(n *TreeNode) bool
		walk = func(n *TreeNode) bool {
			for _, c := range n.children {
				if !yield(c.id) {
					return false
				}
				if c.expanded && !walk(c) {
					return false
				}
			}
			return true
		}
		walk(t.root)
	}
}

// indent returns the cells in front of the text of column.
func (t *Tree) indent(n *TreeNode, column int) int {
	if column != 0 {
		return 0
	}
	return n.depth*2 + 2
}

func (t *Tree) lines(text string, width int) []string {
	if t.wrap && width > 0 {
		if lines := WordWrap(text, width); len(lines) > 0 {
			return lines
		}
	}
	return splitLines(text)
}

// NaturalSize implements ItemSource.
func (t *Tree) NaturalSize(item ItemID, column, width int) (int, int) {
	n, ok := t.nodes[item]
	if !ok {
		return 0, 1
	}
	text := n.Cell(column)
	indent := t.indent(n, column)
	if width < 0 {
		w := 0
		lines := splitLines(text)
		for _, line := range lines {
			w = max(w, StringWidth(line))
		}
		// One cell separates columns.
		return indent + w + 1, len(lines)
	}
	return width, len(t.lines(text, width-indent-1))
}

// DrawItem implements ItemSource.
func (t *Tree) DrawItem(item ItemID, ctx DrawContext) error {
	n, ok := t.nodes[item]
	if !ok {
		return fmt.Errorf("tree: unknown item %d", item)
	}
	_, bg, _ := ctx.Background.Decompose()
	textStyle := t.textStyle.Background(bg)
	guideStyle := t.guideStyle.Background(bg)
	y := ctx.Rect.Min.Y

	for _, span := range ctx.Columns {
		x := span.X
		indent := t.indent(n, span.Column)
		if span.Column == 0 {
			t.drawGuides(ctx.Surface, n, x, y, guideStyle)
		}
		avail := span.Width - indent - 1
		if avail <= 0 {
			continue
		}
		for i, line := range t.lines(n.Cell(span.Column), avail) {
			if i >= ctx.Rect.Dy() {
				break
			}
			if runewidth.StringWidth(line) > avail {
				line = runewidth.Truncate(line, avail, string(SemigraphicsHorizontalEllipsis))
			}
			printWithStyle(ctx.Surface, line, x+indent, y+i, 0, avail, AlignmentLeft, textStyle)
		}
	}
	return nil
}

func (t *Tree) drawGuides(s Surface, n *TreeNode, x, y int, style tcell.Style) {
	// Ancestors from the top level down to n itself.
	chain := make([]*TreeNode, n.depth+1)
	for a := n; a != nil && a.depth >= 0; a = a.parent {
		chain[a.depth] = a
	}
	for level := 1; level <= n.depth; level++ {
		a := chain[level]
		cx := x + (level-1)*2
		switch {
		case a == n && a.isLast():
			s.SetContent(cx, y, t.guides.Last, nil, style)
			s.SetContent(cx+1, y, t.guides.Dash, nil, style)
		case a == n:
			s.SetContent(cx, y, t.guides.Branch, nil, style)
			s.SetContent(cx+1, y, t.guides.Dash, nil, style)
		case !a.isLast():
			s.SetContent(cx, y, t.guides.Pipe, nil, style)
		}
	}
	if len(n.children) > 0 {
		expander := SemigraphicsTriangleRight
		if n.expanded {
			expander = SemigraphicsTriangleDown
		}
		s.SetContent(x+n.depth*2, y, expander, nil, style)
	}
}

// VisibilityChanged implements VisibilityListener.
func (t *Tree) VisibilityChanged(item ItemID, visible bool) {
	if visible {
		t.onScreen[item] = struct{}{}
	} else {
		delete(t.onScreen, item)
	}
}
