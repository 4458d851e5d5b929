package treeview

// ColumnLock pins a column to one side of the view. Locked columns do not
// scroll horizontally. Locks only apply to unwrapped vertical views.
type ColumnLock uint8

const (
	LockNone ColumnLock = iota
	LockLeft
	LockRight
)

// Column holds the sizing constraints of one column.
type Column struct {
	Title string

	// Width is a fixed width. Zero means the width is derived from content.
	Width    int
	MinWidth int
	// MaxWidth clips the width. Zero means unbounded.
	MaxWidth int

	// Expand columns share the space left over when all columns fit.
	Expand bool
	// Squeeze columns give up space when the columns do not fit.
	Squeeze bool

	// Columns with the same non-empty Uniform id share one width, scaled by
	// their Weight.
	Uniform string
	// Weight scales the share of a column in expand, squeeze and uniform
	// distribution. Values below one count as one.
	Weight int

	Hidden bool
	Lock   ColumnLock
}

func (c Column) weight() int {
	if c.Weight < 1 {
		return 1
	}
	return c.Weight
}

func (c Column) clamp(width int) int {
	if width < c.MinWidth {
		width = c.MinWidth
	}
	if c.MaxWidth > 0 && width > c.MaxWidth {
		width = c.MaxWidth
	}
	return max(width, 0)
}

func (c Column) canGrow(width int) bool {
	return c.Expand && !c.Hidden && c.Width <= 0 && (c.MaxWidth <= 0 || width < c.MaxWidth)
}

func (c Column) canShrink(width int) bool {
	return c.Squeeze && !c.Hidden && c.Width <= 0 && width > max(c.MinWidth, 0)
}

// ColumnSizer resolves column display widths from their constraints, the
// width their content needs and the available width.
type ColumnSizer struct {
	specs   []Column
	widths  []int
	offsets []int

	tail     int
	overflow int
}

// Resolve computes the width of every column. needed holds the width the
// content of each column needs; avail is the width of the viewport.
//
// Space left once every column is resolved goes to the tail column. Space
// missing after squeezing is left as horizontal overflow.
func (c *ColumnSizer) Resolve(specs []Column, needed []int, avail int) {
	c.specs = append(c.specs[:0], specs...)
	c.widths = resize(c.widths, len(specs))
	c.offsets = resize(c.offsets, len(specs))

	for i, spec := range specs {
		switch {
		case spec.Hidden:
			c.widths[i] = 0
		case spec.Width > 0:
			c.widths[i] = spec.Width
		default:
			need := 0
			if i < len(needed) {
				need = needed[i]
			}
			c.widths[i] = spec.clamp(need)
		}
	}

	c.resolveUniform(needed)

	total := c.sum()
	avail = max(avail, 0)
	switch {
	case total < avail:
		total += c.expand(avail - total)
	case total > avail:
		total -= c.squeeze(total - avail)
	}
	c.tail = max(avail-total, 0)
	c.overflow = max(total-avail, 0)

	// Offsets are relative to the start of the column's lock group.
	var left, main, right int
	for i, spec := range c.specs {
		switch spec.Lock {
		case LockLeft:
			c.offsets[i] = left
			left += c.widths[i]
		case LockRight:
			c.offsets[i] = right
			right += c.widths[i]
		default:
			c.offsets[i] = main
			main += c.widths[i]
		}
	}
}

func (c *ColumnSizer) resolveUniform(needed []int) {
	var groups []string
	seen := make(map[string]bool)
	for _, spec := range c.specs {
		if spec.Uniform != "" && !seen[spec.Uniform] {
			seen[spec.Uniform] = true
			groups = append(groups, spec.Uniform)
		}
	}
	for _, group := range groups {
		unit := 0
		for i, spec := range c.specs {
			if spec.Uniform != group || spec.Hidden || spec.Width > 0 {
				continue
			}
			need := spec.MinWidth
			if i < len(needed) {
				need = max(need, needed[i])
			}
			unit = max(unit, ceilDiv(need, spec.weight()))
		}
		for i, spec := range c.specs {
			if spec.Uniform != group || spec.Hidden || spec.Width > 0 {
				continue
			}
			width := unit * spec.weight()
			if spec.MaxWidth > 0 && width > spec.MaxWidth {
				width = spec.MaxWidth
			}
			c.widths[i] = width
		}
	}
}

// expand distributes surplus over expandable columns and returns how much
// was handed out.
func (c *ColumnSizer) expand(surplus int) int {
	given := 0
	for surplus > 0 {
		spent := c.distribute(surplus, Column.canGrow, func(i, share int) int {
			spec := c.specs[i]
			if spec.MaxWidth > 0 && c.widths[i]+share > spec.MaxWidth {
				share = spec.MaxWidth - c.widths[i]
			}
			c.widths[i] += share
			return share
		})
		if spent == 0 {
			break
		}
		surplus -= spent
		given += spent
	}
	return given
}

// squeeze removes deficit from squeezable columns and returns how much was
// removed.
func (c *ColumnSizer) squeeze(deficit int) int {
	taken := 0
	for deficit > 0 {
		spent := c.distribute(deficit, Column.canShrink, func(i, share int) int {
			floor := max(c.specs[i].MinWidth, 0)
			if c.widths[i]-share < floor {
				share = c.widths[i] - floor
			}
			c.widths[i] -= share
			return share
		})
		if spent == 0 {
			break
		}
		deficit -= spent
		taken += spent
	}
	return taken
}

// distribute splits amount over the eligible columns proportionally to their
// weight. apply adjusts one column and returns the part of its share it could
// absorb; the rest is reclaimed by the caller for the next round.
func (c *ColumnSizer) distribute(amount int, eligible func(Column, int) bool, apply func(i, share int) int) int {
	var candidates []int
	totalWeight := 0
	for i, spec := range c.specs {
		if eligible(spec, c.widths[i]) {
			candidates = append(candidates, i)
			totalWeight += spec.weight()
		}
	}
	if len(candidates) == 0 {
		return 0
	}

	shares := make([]int, len(candidates))
	assigned := 0
	for k, i := range candidates {
		shares[k] = amount * c.specs[i].weight() / totalWeight
		assigned += shares[k]
	}
	// Integer division leaves less than one cell per candidate.
	for k := 0; assigned < amount && k < len(shares); k++ {
		shares[k]++
		assigned++
	}

	spent := 0
	for k, i := range candidates {
		if shares[k] > 0 {
			spent += apply(i, shares[k])
		}
	}
	return spent
}

func (c *ColumnSizer) sum() int {
	total := 0
	for _, w := range c.widths {
		total += w
	}
	return total
}

// Count returns the number of resolved columns.
func (c *ColumnSizer) Count() int {
	return len(c.widths)
}

// Width returns the resolved width of column i.
func (c *ColumnSizer) Width(i int) int {
	if i < 0 || i >= len(c.widths) {
		return 0
	}
	return c.widths[i]
}

// Widths returns the resolved widths. The slice must not be modified.
func (c *ColumnSizer) Widths() []int {
	return c.widths
}

// Offset returns the offset of column i within its lock group.
func (c *ColumnSizer) Offset(i int) int {
	if i < 0 || i >= len(c.offsets) {
		return 0
	}
	return c.offsets[i]
}

// Lock returns the effective lock of column i.
func (c *ColumnSizer) Lock(i int) ColumnLock {
	if i < 0 || i >= len(c.specs) {
		return LockNone
	}
	return c.specs[i].Lock
}

// Spec returns the constraints column i was resolved with.
func (c *ColumnSizer) Spec(i int) Column {
	if i < 0 || i >= len(c.specs) {
		return Column{}
	}
	return c.specs[i]
}

// GroupWidth returns the summed width of the columns with the given lock.
func (c *ColumnSizer) GroupWidth(lock ColumnLock) int {
	total := 0
	for i, spec := range c.specs {
		if spec.Lock == lock {
			total += c.widths[i]
		}
	}
	return total
}

// TailWidth returns the width absorbed by the infinite tail column.
func (c *ColumnSizer) TailWidth() int {
	return c.tail
}

// Overflow returns how far the columns exceed the available width.
func (c *ColumnSizer) Overflow() int {
	return c.overflow
}

func resize(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	s = s[:n]
	clear(s)
	return s
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
