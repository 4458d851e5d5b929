package treeview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnSizerResolve(t *testing.T) {
	tests := []struct {
		name     string
		specs    []Column
		needed   []int
		avail    int
		widths   []int
		tail     int
		overflow int
	}{
		{
			name:   "fixed natural and min",
			specs:  []Column{{Width: 5}, {}, {MinWidth: 8}},
			needed: []int{0, 12, 3},
			avail:  40,
			widths: []int{5, 12, 8},
			tail:   15,
		},
		{
			name:   "expand by weight",
			specs:  []Column{{Expand: true, Weight: 1}, {Expand: true, Weight: 3}},
			needed: []int{2, 2},
			avail:  12,
			widths: []int{4, 8},
		},
		{
			name:   "expand respects max width",
			specs:  []Column{{Expand: true, MaxWidth: 6}, {Expand: true}},
			needed: []int{2, 2},
			avail:  20,
			widths: []int{6, 14},
		},
		{
			name:   "squeeze evenly",
			specs:  []Column{{Squeeze: true, MinWidth: 4}, {Squeeze: true}},
			needed: []int{10, 10},
			avail:  12,
			widths: []int{6, 6},
		},
		{
			name:     "squeeze stops at min width",
			specs:    []Column{{Squeeze: true, MinWidth: 8}, {}},
			needed:   []int{10, 10},
			avail:    12,
			widths:   []int{8, 10},
			overflow: 6,
		},
		{
			name:   "uniform group",
			specs:  []Column{{Uniform: "a"}, {Uniform: "a", Weight: 2}},
			needed: []int{3, 10},
			avail:  100,
			widths: []int{5, 10},
			tail:   85,
		},
		{
			name:   "hidden",
			specs:  []Column{{Hidden: true, Width: 5}, {Width: 3}},
			needed: []int{0, 0},
			avail:  10,
			widths: []int{0, 3},
			tail:   7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ColumnSizer
			c.Resolve(tt.specs, tt.needed, tt.avail)
			assert.Equal(t, tt.widths, c.Widths())
			assert.Equal(t, tt.tail, c.TailWidth())
			assert.Equal(t, tt.overflow, c.Overflow())
		})
	}
}

func TestColumnSizerLockGroups(t *testing.T) {
	var c ColumnSizer
	c.Resolve([]Column{
		{Width: 3, Lock: LockLeft},
		{Width: 4},
		{Width: 5, Lock: LockRight},
		{Width: 2},
	}, nil, 14)

	assert.Equal(t, 3, c.GroupWidth(LockLeft))
	assert.Equal(t, 6, c.GroupWidth(LockNone))
	assert.Equal(t, 5, c.GroupWidth(LockRight))

	// Offsets are relative to the lock group.
	assert.Equal(t, 0, c.Offset(0))
	assert.Equal(t, 0, c.Offset(1))
	assert.Equal(t, 0, c.Offset(2))
	assert.Equal(t, 4, c.Offset(3))
	assert.Equal(t, LockRight, c.Lock(2))
	assert.Equal(t, 0, c.Width(7))
}

func TestColumnSizerReuse(t *testing.T) {
	var c ColumnSizer
	c.Resolve([]Column{{}, {}, {}}, []int{1, 2, 3}, 10)
	c.Resolve([]Column{{}}, []int{4}, 10)
	assert.Equal(t, []int{4}, c.Widths())
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 6, c.TailWidth())
}

func TestColumnSizerSingleExpand(t *testing.T) {
	specs := []Column{{Width: 5}, {Expand: true}, {MinWidth: 4}}
	needed := []int{0, 3, 2}
	for avail := 13; avail <= 60; avail++ {
		var c ColumnSizer
		c.Resolve(specs, needed, avail)
		assert.Equal(t, avail-5-4, c.Width(1), "avail %d", avail)
		assert.Equal(t, 0, c.TailWidth(), "avail %d", avail)
	}
}

func TestColumnSizerFitsUnlessAtMinimum(t *testing.T) {
	specs := []Column{{Squeeze: true, MinWidth: 3}, {Squeeze: true, MinWidth: 2, Weight: 2}}
	needed := []int{10, 10}
	for avail := range 25 {
		var c ColumnSizer
		c.Resolve(specs, needed, avail)
		sum := c.Width(0) + c.Width(1)
		if sum > avail {
			assert.Equal(t, []int{3, 2}, c.Widths(), "avail %d", avail)
			assert.Equal(t, sum-avail, c.Overflow(), "avail %d", avail)
		} else {
			assert.Equal(t, avail-sum, c.TailWidth(), "avail %d", avail)
		}
	}
}
