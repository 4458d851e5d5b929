package treeview

import (
	"errors"
	"fmt"
	"image"
	"iter"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSource shows count items labelled "item N", each height rows high
// unless heights says otherwise.
type testSource struct {
	count   int
	height  int
	heights map[ItemID]int
	widths  map[ItemID]int
	columns []Column
	fail    map[ItemID]bool
	dup     bool
	drawn   []ItemID
	// measured counts the calls asking for a natural width.
	measured int
}

func newTestSource(count, height int) *testSource {
	return &testSource{
		count:   count,
		height:  height,
		heights: make(map[ItemID]int),
		widths:  make(map[ItemID]int),
		fail:    make(map[ItemID]bool),
	}
}

func (s *testSource) ColumnCount() int    { return len(s.columns) }
func (s *testSource) Column(i int) Column { return s.columns[i] }

func (s *testSource) VisibleItems() iter.Seq[ItemID] {
	return func(yield func(ItemID) bool) {
		for i := range s.count {
			if !yield(ItemID(i)) {
				return
			}
		}
		if s.dup && s.count > 0 {
			yield(0)
		}
	}
}

func (s *testSource) NaturalSize(item ItemID, column, width int) (int, int) {
	if width < 0 {
		s.measured++
	}
	w, h := 10, s.height
	if v, ok := s.widths[item]; ok {
		w = v
	}
	if v, ok := s.heights[item]; ok {
		h = v
	}
	return w, h
}

func (s *testSource) DrawItem(item ItemID, ctx DrawContext) error {
	if s.fail[item] {
		return errors.New("not ready")
	}
	s.drawn = append(s.drawn, item)
	for i, r := range fmt.Sprintf("item %d", item) {
		ctx.Surface.SetContent(ctx.Rect.Min.X+i, ctx.Rect.Min.Y, r, nil, ctx.Background)
	}
	return nil
}

func newTestEngine(count, height int) (*Engine, *testSource, *CellBuffer) {
	src := newTestSource(count, height)
	return NewEngine(src), src, NewCellBuffer(image.Rect(0, 0, 40, 250))
}

func TestEngineFirstPass(t *testing.T) {
	e, _, buf := newTestEngine(100, 20)

	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 13, res.Painted)
	assert.Equal(t, 13, res.Shown)
	assert.Equal(t, 0, res.Whitespace)
	assert.Equal(t, 13, e.DisplayedItems())

	assert.Equal(t, []int{10}, e.ColumnWidths())
	assert.Equal(t, image.Pt(40, 2000), e.Canvas())
	stops := e.yIndex.Stops()
	assert.Len(t, stops, 89)
	assert.Equal(t, 1750, stops[len(stops)-1])

	assert.Equal(t, "item 0", buf.Row(0)[:6])
	assert.Equal(t, "item 12", buf.Row(240)[:7])
	assert.Equal(t, StateClean, e.cache.State(12))
	assert.Equal(t, StateAbsent, e.cache.State(13))

	// Nothing changed: nothing is drawn.
	res, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, RenderResult{}, res)
}

func TestEngineScrollCopies(t *testing.T) {
	e, src, buf := newTestEngine(100, 20)
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	src.drawn = nil
	e.ScrollBy(AxisY, 1, ScrollPages)
	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	assert.Equal(t, 240, e.ScrollOrigin(AxisY))
	assert.Equal(t, 1, res.Copied)
	assert.False(t, res.Bypassed)
	assert.Equal(t, 13, res.Painted)
	assert.Equal(t, 12, res.Shown)
	assert.Equal(t, 12, res.Hidden)

	// The top half of item 12 was copied, not drawn again: its label is
	// only written on its first row.
	assert.Equal(t, "item 12", buf.Row(0)[:7])
	assert.Equal(t, "item 13", buf.Row(20)[:7])
	assert.Equal(t, "item 24", buf.Row(240)[:7])

	item, ok := e.ItemAt(image.Pt(3, 5))
	require.True(t, ok)
	assert.Equal(t, ItemID(12), item)
	assert.Equal(t, StateAbsent, e.cache.State(11))
	assert.Equal(t, StateClean, e.cache.State(12))

	top, bottom := e.ScrollFractions(AxisY)
	assert.InDelta(t, 0.12, top, 1e-9)
	assert.InDelta(t, 0.245, bottom, 1e-9)
}

func TestEngineLargeScrollBypassesCopy(t *testing.T) {
	e, src, buf := newTestEngine(100, 20)
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	e.ScrollToFraction(AxisY, 1)
	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.True(t, res.Bypassed)
	assert.Equal(t, 0, res.Copied)
	assert.Equal(t, 1750, e.ScrollOrigin(AxisY))
	assert.Equal(t, "item 99", buf.Row(230)[:7])

	offset, total, visible := e.ScrollExtent(AxisY)
	assert.Equal(t, []int{1750, 2000, 250}, []int{offset, total, visible})

	// Shrinking the content clamps the origin.
	src.count = 20
	e.InvalidateLayout()
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 150, e.ScrollOrigin(AxisY))
}

func TestEngineScrollWithoutCopy(t *testing.T) {
	e, src, buf := newTestEngine(100, 20)
	opts := DefaultOptions()
	opts.ScrollCopy = false
	require.NoError(t, e.SetOptions(opts))
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	src.drawn = nil
	e.ScrollBy(AxisY, 2, ScrollUnits)
	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 40, e.ScrollOrigin(AxisY))
	assert.Equal(t, 0, res.Copied)
	assert.Equal(t, 13, res.Painted)
	assert.Len(t, src.drawn, 13)
}

func TestEngineInvalidateDisplay(t *testing.T) {
	e, src, buf := newTestEngine(100, 20)
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	for range 2 {
		e.InvalidateDisplay(image.Rect(0, 5, 10, 25))
		assert.Equal(t, []image.Rectangle{image.Rect(0, 5, 10, 20)}, e.cache.DirtyRects(0))
		assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 10, 5)}, e.cache.DirtyRects(1))
		assert.Equal(t, StateDirtyPartial, e.cache.State(0))
	}
	assert.Nil(t, e.cache.DirtyRects(2))

	src.drawn = nil
	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Painted)
	assert.Equal(t, []ItemID{0, 1}, src.drawn)
	assert.Equal(t, StateClean, e.cache.State(0))
}

func TestEngineInvalidateItemColumn(t *testing.T) {
	e, _, buf := newTestEngine(100, 20)
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	e.InvalidateItem(3, 0)
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 10, 20)}, e.cache.DirtyRects(3))

	e.InvalidateItem(4)
	assert.Equal(t, StateDirtyFull, e.cache.State(4))

	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Painted)
}

func TestEngineFailedDrawIsRetried(t *testing.T) {
	e, src, buf := newTestEngine(100, 20)
	src.fail[3] = true

	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.True(t, res.Retry)
	assert.Equal(t, 12, res.Painted)
	assert.Equal(t, StateDirtyFull, e.cache.State(3))

	delete(src.fail, 3)
	src.drawn = nil
	res, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.False(t, res.Retry)
	assert.Equal(t, 1, res.Painted)
	assert.Equal(t, []ItemID{3}, src.drawn)
}

func TestEngineVisibilityRestart(t *testing.T) {
	t.Run("once", func(t *testing.T) {
		e, _, buf := newTestEngine(100, 20)
		invalidated := false
		e.SetVisibilityChangedFunc(func(item ItemID, visible bool) {
			if !invalidated {
				invalidated = true
				e.InvalidateLayout()
			}
		})
		res, err := e.Render(buf, buf.Bounds())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Restarts)
		assert.Equal(t, 13, res.Shown)
		assert.Equal(t, 13, res.Painted)
	})

	t.Run("limit", func(t *testing.T) {
		e, _, buf := newTestEngine(100, 20)
		redraws := 0
		e.SetRedrawFunc(func() { redraws++ })
		// Deleting an item as soon as it shows keeps the pass from settling.
		e.SetVisibilityChangedFunc(func(item ItemID, visible bool) {
			if visible {
				e.ItemDeleted(item)
			}
		})
		res, err := e.Render(buf, buf.Bounds())
		require.NoError(t, err)
		assert.Equal(t, 4, res.Restarts)
		assert.Positive(t, redraws)
	})
}

func TestEngineConsistencyError(t *testing.T) {
	e, src, buf := newTestEngine(5, 20)
	src.dup = true

	_, err := e.Render(buf, buf.Bounds())
	require.ErrorIs(t, err, ErrConsistency)
	var ce *ConsistencyError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "traverse", ce.Op)
	assert.Equal(t, ItemID(0), ce.Item)
	assert.Equal(t, 0, e.DisplayedItems())

	// The next pass starts from scratch.
	src.dup = false
	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Painted)
}

func TestEngineDestroy(t *testing.T) {
	e, _, buf := newTestEngine(10, 20)
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	e.Destroy()
	_, err = e.Render(buf, buf.Bounds())
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.Equal(t, 0, e.DisplayedItems())
}

func TestEngineWhitespace(t *testing.T) {
	e, _, buf := newTestEngine(3, 20)

	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 40*190, res.Whitespace)

	res, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Whitespace)
}

func TestEngineRowColors(t *testing.T) {
	e, _, buf := newTestEngine(3, 20)
	opts := DefaultOptions()
	opts.RowColors = []string{"red", "blue"}
	require.NoError(t, e.SetOptions(opts))

	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	red := tcell.StyleDefault.Background(tcell.ColorRed)
	blue := tcell.StyleDefault.Background(tcell.ColorBlue)
	assert.Equal(t, red, buf.StyleAt(39, 0))
	assert.Equal(t, blue, buf.StyleAt(39, 20))
	assert.Equal(t, red, buf.StyleAt(39, 40))
	// Whitespace continues the bands with rows as high as the last item.
	assert.Equal(t, blue, buf.StyleAt(0, 60))
	assert.Equal(t, red, buf.StyleAt(0, 80))
	assert.Equal(t, red, buf.StyleAt(0, 249))
}

func TestEngineRejectsInvalidOptions(t *testing.T) {
	e, _, _ := newTestEngine(3, 20)
	opts := DefaultOptions()
	opts.Wrap = WrapCount

	assert.ErrorIs(t, e.SetOptions(opts), ErrInvalidWrap)
	assert.Equal(t, DefaultOptions(), e.Options())
}

func TestEngineLockedColumns(t *testing.T) {
	src := newTestSource(10, 20)
	src.columns = []Column{
		{Title: "left", Width: 5, Lock: LockLeft},
		{Title: "main", Width: 50},
		{Title: "right", Width: 5, Lock: LockRight},
	}
	e := NewEngine(src)
	buf := NewCellBuffer(image.Rect(0, 0, 40, 100))
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	left, main, right := e.AreaClips()
	assert.Equal(t, image.Rect(0, 0, 5, 100), left)
	assert.Equal(t, image.Rect(5, 0, 35, 100), main)
	assert.Equal(t, image.Rect(35, 0, 40, 100), right)
	assert.Equal(t, image.Pt(50, 200), e.Canvas())

	e.SetScrollOrigin(AxisX, 20)
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 20, e.ScrollOrigin(AxisX))

	item, ok := e.ItemAt(image.Pt(2, 25))
	require.True(t, ok)
	assert.Equal(t, ItemID(1), item)
	item, ok = e.ItemAt(image.Pt(36, 5))
	require.True(t, ok)
	assert.Equal(t, ItemID(0), item)
	item, ok = e.ItemAt(image.Pt(10, 45))
	require.True(t, ok)
	assert.Equal(t, ItemID(2), item)

	areas := e.HeaderAreas()
	require.Len(t, areas, 3)
	assert.Equal(t, []ColumnSpan{{Column: 0, X: 0, Width: 5}}, areas[0].Columns)
	assert.Equal(t, []ColumnSpan{{Column: 1, X: -15, Width: 50}}, areas[1].Columns)
	assert.Equal(t, []ColumnSpan{{Column: 2, X: 35, Width: 5}}, areas[2].Columns)
}

func TestEngineWrapCount(t *testing.T) {
	src := newTestSource(12, 2)
	e := NewEngine(src)
	opts := DefaultOptions()
	opts.Wrap = WrapCount
	opts.WrapArg = 5
	require.NoError(t, e.SetOptions(opts))

	buf := NewCellBuffer(image.Rect(0, 0, 15, 10))
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 3, e.Ranges().Len())
	assert.Equal(t, image.Pt(30, 10), e.Canvas())

	e.ScrollBy(AxisX, 1, ScrollUnits)
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 10, e.ScrollOrigin(AxisX))

	item, ok := e.ItemAt(image.Pt(0, 0))
	require.True(t, ok)
	assert.Equal(t, ItemID(5), item)
	item, ok = e.ItemAt(image.Pt(12, 2))
	require.True(t, ok)
	assert.Equal(t, ItemID(11), item)
	_, ok = e.ItemAt(image.Pt(12, 5))
	assert.False(t, ok)
}

func TestEngineBandsFollowLayout(t *testing.T) {
	e, src, _ := newTestEngine(3, 1)
	src.heights[1] = 2
	opts := DefaultOptions()
	opts.RowColors = []string{"red", "blue"}
	require.NoError(t, e.SetOptions(opts))
	buf := NewCellBuffer(image.Rect(0, 0, 10, 12))

	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	red := tcell.StyleDefault.Background(tcell.ColorRed)
	blue := tcell.StyleDefault.Background(tcell.ColorBlue)
	assert.Equal(t, blue, buf.StyleAt(0, 4))
	assert.Equal(t, red, buf.StyleAt(0, 5))

	// Item 2 is gone and item 1 is one row high, so the bands past the
	// last item start two rows earlier.
	src.count = 2
	src.heights[1] = 1
	e.InvalidateLayout()
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	for y := 2; y < 12; y++ {
		want := red
		if y%2 == 1 {
			want = blue
		}
		assert.Equal(t, want, buf.StyleAt(0, y), "row %d", y)
	}
}

func TestEngineViewResizeReclampsOrigin(t *testing.T) {
	e, _, _ := newTestEngine(100, 20)
	buf := NewCellBuffer(image.Rect(0, 0, 40, 2100))

	_, err := e.Render(buf, image.Rect(0, 0, 40, 250))
	require.NoError(t, err)
	e.ScrollToFraction(AxisY, 1)
	_, err = e.Render(buf, image.Rect(0, 0, 40, 250))
	require.NoError(t, err)
	assert.Equal(t, 1750, e.ScrollOrigin(AxisY))

	// A taller view lowers the largest origin.
	_, err = e.Render(buf, image.Rect(0, 0, 40, 500))
	require.NoError(t, err)
	assert.Equal(t, 1500, e.ScrollOrigin(AxisY))
	assert.Equal(t, "item 99", buf.Row(480)[:7])

	// A shorter one keeps an origin that is still in range.
	_, err = e.Render(buf, image.Rect(0, 0, 40, 100))
	require.NoError(t, err)
	assert.Equal(t, 1500, e.ScrollOrigin(AxisY))

	// Content that fits is not scrolled.
	_, err = e.Render(buf, image.Rect(0, 0, 40, 2100))
	require.NoError(t, err)
	assert.Equal(t, 0, e.ScrollOrigin(AxisY))
	top, bottom := e.ScrollFractions(AxisY)
	assert.InDelta(t, 0, top, 1e-9)
	assert.InDelta(t, 1, bottom, 1e-9)
}

func TestEngineInvalidateItemMeasuresOneItem(t *testing.T) {
	e, src, buf := newTestEngine(100, 20)
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 100, src.measured)

	src.measured = 0
	src.widths[5] = 25
	e.InvalidateItem(5)
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 1, src.measured)
	assert.Equal(t, []int{25}, e.ColumnWidths())

	// The column gives the width back once its widest item shrinks.
	src.measured = 0
	src.widths[5] = 10
	e.InvalidateItem(5)
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 1, src.measured)
	assert.Equal(t, []int{10}, e.ColumnWidths())

	// Only new items are measured after a layout change.
	src.measured = 0
	src.count = 101
	src.widths[100] = 30
	e.InvalidateLayout()
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 1, src.measured)
	assert.Equal(t, []int{30}, e.ColumnWidths())

	src.measured = 0
	e.InvalidateColumnWidths()
	_, err = e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.Equal(t, 101, src.measured)
}

func TestEngineFailedDrawKeepsCells(t *testing.T) {
	e, src, buf := newTestEngine(100, 20)
	_, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)

	src.fail[3] = true
	e.InvalidateItem(3)
	res, err := e.Render(buf, buf.Bounds())
	require.NoError(t, err)
	assert.True(t, res.Retry)
	assert.Equal(t, 0, res.Painted)
	assert.Equal(t, StateDirtyFull, e.cache.State(3))
	assert.Equal(t, "item 3", buf.Row(60)[:6])
}
