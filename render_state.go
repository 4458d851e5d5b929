package treeview

// RenderState holds every invalidation flag of one view. Invalidation calls
// only set flags here; the frame driver does the work on its next pass.
type RenderState struct {
	// generation is incremented by every invalidation request. A pass that
	// sees it change while delivering notifications restarts.
	generation uint64

	widthsDirty     bool
	layoutDirty     bool
	incrementsDirty bool

	// invalidateAll marks every displayed item and the whole whitespace
	// region dirty.
	invalidateAll bool

	headerDirty    bool
	scrollBarDirty bool
	borderDirty    bool

	firstFrame bool
	destroyed  bool

	scrolls   []scrollRequest
	// remeasure lists items whose natural column widths may have changed.
	remeasure []ItemID
}

type scrollKind uint8

const (
	scrollOrigin scrollKind = iota
	scrollUnits
	scrollPages
	scrollFraction
)

type scrollRequest struct {
	axis     Axis
	kind     scrollKind
	amount   int
	fraction float64
}

func newRenderState() RenderState {
	return RenderState{
		widthsDirty:     true,
		layoutDirty:     true,
		incrementsDirty: true,
		invalidateAll:   true,
		headerDirty:     true,
		scrollBarDirty:  true,
		borderDirty:     true,
		firstFrame:      true,
	}
}

func (s *RenderState) bump() {
	s.generation++
}

// Generation returns the invalidation counter.
func (s *RenderState) Generation() uint64 {
	return s.generation
}

// Pending reports whether any invalidation is waiting for a pass.
func (s *RenderState) Pending() bool {
	return s.widthsDirty || s.layoutDirty || s.incrementsDirty || s.invalidateAll ||
		s.headerDirty || s.scrollBarDirty || s.borderDirty || s.firstFrame || len(s.scrolls) > 0
}

// InvalidateWidths marks the column widths stale. Layout follows.
func (s *RenderState) InvalidateWidths() {
	s.widthsDirty = true
	s.layoutDirty = true
	s.incrementsDirty = true
	s.headerDirty = true
	s.bump()
}

// InvalidateLayout marks the ranges and scroll tables stale.
func (s *RenderState) InvalidateLayout() {
	s.layoutDirty = true
	s.incrementsDirty = true
	s.scrollBarDirty = true
	s.bump()
}

// InvalidateIncrements marks the scroll tables stale.
func (s *RenderState) InvalidateIncrements() {
	s.incrementsDirty = true
	s.scrollBarDirty = true
	s.bump()
}

// InvalidateAll marks everything stale.
func (s *RenderState) InvalidateAll() {
	s.widthsDirty = true
	s.layoutDirty = true
	s.incrementsDirty = true
	s.invalidateAll = true
	s.headerDirty = true
	s.scrollBarDirty = true
	s.borderDirty = true
	s.bump()
}

// InvalidateChrome marks the header, scroll bar and border stale.
func (s *RenderState) InvalidateChrome() {
	s.headerDirty = true
	s.scrollBarDirty = true
	s.borderDirty = true
	s.bump()
}

func (s *RenderState) queueScroll(r scrollRequest) {
	s.scrolls = append(s.scrolls, r)
	s.scrollBarDirty = true
	s.bump()
}

// layoutDone clears the flags consumed by steps 1 to 4.
func (s *RenderState) layoutDone() {
	s.widthsDirty = false
	s.layoutDirty = false
	s.incrementsDirty = false
	s.scrolls = s.scrolls[:0]
	s.remeasure = s.remeasure[:0]
}

// frameDone clears the flags consumed by steps 5 to 9.
func (s *RenderState) frameDone() {
	s.invalidateAll = false
	s.headerDirty = false
	s.scrollBarDirty = false
	s.borderDirty = false
	s.firstFrame = false
}
