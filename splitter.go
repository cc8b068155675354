package canvas

import "sync"

// ============================================================================
// Splitter
// ============================================================================

const (
	// splitterHandleHit is the hit-test zone around a pane boundary.
	splitterHandleHit = 6
	// splitterMinPane is the default minimum pane share of the extent.
	splitterMinPane = 0.1
)

// SplitterCanvasItem arranges panes along one axis with draggable handles
// between them. Horizontal places panes left to right; Vertical stacks them.
// Dragging a handle trades extent between the two adjacent panes and leaves
// the others alone; near thirds and center the handle snaps unless Alt is
// held. On release, pane sizes are renormalized to fractions so the split
// survives resizing.
type SplitterCanvasItem struct {
	Composition

	orientation Orientation

	tracking      bool
	trackingIndex int
	trackingPos   IntPoint
	trackingSizes []int

	// OnSplitsChanged is called after a drag completes with the new splits.
	OnSplitsChanged func(splits []float64)
}

// NewSplitterCanvasItem returns an empty splitter along orientation.
func NewSplitterCanvasItem(orientation Orientation) *SplitterCanvasItem {
	s := &SplitterCanvasItem{orientation: orientation}
	s.initItem(s)
	s.layout = &splitterLayout{orientation: orientation}
	return s
}

// Orientation returns the splitter's axis.
func (s *SplitterCanvasItem) Orientation() Orientation { return s.orientation }

func (s *SplitterCanvasItem) paneLayout() *splitterLayout {
	return s.Layout().(*splitterLayout)
}

// axis projects a point onto the splitter's primary axis.
func (s *SplitterCanvasItem) axis(p IntPoint) int {
	if s.orientation == Horizontal {
		return p.X
	}
	return p.Y
}

// extent returns the splitter's length along the primary axis.
func (s *SplitterCanvasItem) extent() int {
	size, ok := s.self.CanvasSize()
	if !ok {
		return 0
	}
	if s.orientation == Horizontal {
		return size.Width
	}
	return size.Height
}

// paneExtents returns each visible pane's current length along the axis.
func (s *SplitterCanvasItem) paneExtents() []int {
	children := s.Children()
	extents := make([]int, 0, len(children))
	for _, child := range children {
		size, ok := child.CanvasSize()
		if !ok {
			extents = append(extents, 0)
			continue
		}
		if s.orientation == Horizontal {
			extents = append(extents, size.Width)
		} else {
			extents = append(extents, size.Height)
		}
	}
	return extents
}

// Splits returns each pane's share of the extent.
func (s *SplitterCanvasItem) Splits() []float64 {
	extents := s.paneExtents()
	total := 0
	for _, e := range extents {
		total += e
	}
	splits := make([]float64, len(extents))
	if total == 0 {
		return splits
	}
	for i, e := range extents {
		splits[i] = float64(e) / float64(total)
	}
	return splits
}

// SetSplits assigns pane shares. Values are normalized; the slice length
// must match the pane count.
func (s *SplitterCanvasItem) SetSplits(splits []float64) {
	if len(splits) != len(s.Children()) {
		panic("canvas: splits length must match pane count")
	}
	total := 0.0
	for _, split := range splits {
		total += split
	}
	if total <= 0 {
		return
	}
	layout := s.paneLayout()
	layout.mu.Lock()
	layout.preferred = layout.preferred[:0]
	for _, split := range splits {
		layout.preferred = append(layout.preferred, Fraction(split/total))
	}
	layout.mu.Unlock()
	s.self.RefreshLayout()
	s.self.Update()
}

// handleAt returns the handle index under p (the handle between pane i and
// pane i+1), or -1.
func (s *SplitterCanvasItem) handleAt(p IntPoint) int {
	extents := s.paneExtents()
	boundary := 0
	for i := 0; i < len(extents)-1; i++ {
		boundary += extents[i]
		if abs(s.axis(p)-boundary) <= splitterHandleHit/2 {
			return i
		}
	}
	return -1
}

func (s *SplitterCanvasItem) splitCursor() CursorShape {
	if s.orientation == Horizontal {
		return CursorSplitHorizontal
	}
	return CursorSplitVertical
}

func (s *SplitterCanvasItem) WantsMouseEvents() bool { return true }

// ItemsAtPoint claims the handle zone for the splitter itself so pane
// children cannot shadow a drag on the boundary.
func (s *SplitterCanvasItem) ItemsAtPoint(p IntPoint) []CanvasItem {
	bounds, ok := s.self.CanvasBounds()
	if !ok || !s.self.Visible() || !bounds.Contains(p) {
		return nil
	}
	if s.handleAt(p) >= 0 {
		return []CanvasItem{s.self}
	}
	return s.Composition.ItemsAtPoint(p)
}

func (s *SplitterCanvasItem) MousePressed(p IntPoint, mods Modifiers) bool {
	index := s.handleAt(p)
	if index < 0 {
		return false
	}
	s.tracking = true
	s.trackingIndex = index
	s.trackingPos = p
	s.trackingSizes = s.paneExtents()
	return true
}

func (s *SplitterCanvasItem) MousePositionChanged(p IntPoint, mods Modifiers) bool {
	if !s.tracking {
		over := s.handleAt(p) >= 0
		if root, ok := s.Root().(*RootCanvasItem); ok {
			if over {
				root.setCursor(s.splitCursor())
			} else {
				root.setCursor(CursorDefault)
			}
		}
		return over
	}
	delta := s.axis(p) - s.axis(s.trackingPos)
	s.applyDrag(delta, mods)
	return true
}

// applyDrag moves the tracked handle by delta from the press position,
// snapping near thirds and center unless Alt suppresses it.
func (s *SplitterCanvasItem) applyDrag(delta int, mods Modifiers) {
	i := s.trackingIndex
	sizes := append([]int(nil), s.trackingSizes...)
	if i+1 >= len(sizes) {
		return
	}
	extent := s.extent()
	pair := sizes[i] + sizes[i+1]

	// Boundary position in splitter coordinates.
	boundary := 0
	for j := 0; j <= i; j++ {
		boundary += sizes[j]
	}
	proposed := boundary + delta

	if !mods.Alt() && extent > 0 {
		tolerance := s.snapTolerance()
		for _, target := range []int{extent / 3, extent / 2, extent * 2 / 3} {
			if abs(proposed-target) <= tolerance {
				proposed = target
				break
			}
		}
	}

	minPane := int(splitterMinPane * float64(extent))
	first := proposed - (boundary - sizes[i])
	first = max(minPane, min(first, pair-minPane))
	sizes[i] = first
	sizes[i+1] = pair - first

	layout := s.paneLayout()
	layout.mu.Lock()
	layout.preferred = layout.preferred[:0]
	for _, size := range sizes {
		layout.preferred = append(layout.preferred, Fixed(size))
	}
	layout.mu.Unlock()
	s.relayout()
}

func (s *SplitterCanvasItem) snapTolerance() int {
	if root, ok := s.Root().(*RootCanvasItem); ok {
		return root.cfg.SplitterSnapTolerance
	}
	return DefaultConfig().SplitterSnapTolerance
}

// relayout re-runs the splitter's own layout at its current rect.
func (s *SplitterCanvasItem) relayout() {
	if rect, ok := s.self.CanvasRect(); ok {
		s.UpdateLayout(rect.Origin, rect.Size)
	}
	s.self.Update()
}

func (s *SplitterCanvasItem) MouseReleased(p IntPoint, mods Modifiers) bool {
	if !s.tracking {
		return false
	}
	s.tracking = false
	s.trackingSizes = nil

	// Renormalize to fractions so the split survives resizing.
	splits := s.Splits()
	layout := s.paneLayout()
	layout.mu.Lock()
	layout.preferred = layout.preferred[:0]
	for _, split := range splits {
		if split > 0 && split <= 1 {
			layout.preferred = append(layout.preferred, Fraction(split))
		} else {
			layout.preferred = append(layout.preferred, Length{})
		}
	}
	layout.mu.Unlock()
	if s.OnSplitsChanged != nil {
		s.OnSplitsChanged(splits)
	}
	return true
}

func (s *SplitterCanvasItem) makeComposer(cache *ComposerCache) Composer {
	inner := s.Composition.makeComposer(cache)
	if inner == nil {
		return nil
	}
	// Capture handle positions for the divider lines.
	extents := s.paneExtents()
	boundaries := make([]int, 0, len(extents))
	boundary := 0
	for i := 0; i < len(extents)-1; i++ {
		boundary += extents[i]
		boundaries = append(boundaries, boundary)
	}
	return &splitterComposer{inner: inner, orientation: s.orientation, boundaries: boundaries}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ============================================================================
// Splitter Layout
// ============================================================================

// splitterLayout divides the primary axis among panes using per-pane
// preferred lengths, each pane bounded below by the minimum pane share.
type splitterLayout struct {
	orientation Orientation

	mu sync.Mutex
	// preferred is parallel to the pane list; unset entries share leftover
	// space evenly.
	preferred []Length
}

func (l *splitterLayout) cloneLayout() Layout {
	l.mu.Lock()
	defer l.mu.Unlock()
	clone := &splitterLayout{orientation: l.orientation}
	clone.preferred = append([]Length(nil), l.preferred...)
	return clone
}

// constraintsFor builds one constraint per pane against the extent.
func (l *splitterLayout) constraintsFor(n, extent int) []Constraint {
	l.mu.Lock()
	preferred := append([]Length(nil), l.preferred...)
	l.mu.Unlock()
	minPane := int(splitterMinPane * float64(extent))
	constraints := make([]Constraint, n)
	for i := range constraints {
		constraints[i] = Constraint{Minimum: minPane, Maximum: Unbounded}
		if i < len(preferred) && preferred[i].IsSet() {
			constraints[i].Preferred = preferred[i].Resolve(extent)
			constraints[i].HasPreferred = true
		}
	}
	return constraints
}

func (l *splitterLayout) Layout(origin IntPoint, size IntSize, items []LayoutItem) {
	present := make([]LayoutItem, 0, len(items))
	for _, item := range items {
		if item != nil {
			present = append(present, item)
		}
	}
	if len(present) == 0 {
		return
	}
	horizontal := l.orientation == Horizontal
	extent := size.Height
	if horizontal {
		extent = size.Width
	}
	origins, sizes := Solve(l.axisOrigin(origin), extent, l.constraintsFor(len(present), extent), 0)
	for i, item := range present {
		if horizontal {
			item.UpdateLayout(IntPoint{X: origins[i], Y: origin.Y}, IntSize{Width: sizes[i], Height: size.Height})
		} else {
			item.UpdateLayout(IntPoint{X: origin.X, Y: origins[i]}, IntSize{Width: size.Width, Height: sizes[i]})
		}
	}
}

func (l *splitterLayout) axisOrigin(origin IntPoint) int {
	if l.orientation == Horizontal {
		return origin.X
	}
	return origin.Y
}

func (l *splitterLayout) ContentSizing(items []LayoutItem) Sizing {
	return linearSizing(items, l.orientation == Horizontal)
}

func (l *splitterLayout) SpacingItem(spacing int) CanvasItem {
	panic("canvas: splitter layout has no spacing items")
}

func (l *splitterLayout) StretchItem() CanvasItem {
	panic("canvas: splitter layout has no stretch items")
}

// ============================================================================
// Splitter Composer
// ============================================================================

// splitterComposer paints the pane snapshot, then divider lines at the
// captured boundaries.
type splitterComposer struct {
	inner       Composer
	orientation Orientation
	boundaries  []int
}

func (sc *splitterComposer) UpdateLayout(origin IntPoint, size IntSize) {
	sc.inner.UpdateLayout(origin, size)
}

func (sc *splitterComposer) LayoutSizing() Sizing { return sc.inner.LayoutSizing() }

func (sc *splitterComposer) Rect() (IntRect, bool) { return sc.inner.Rect() }

func (sc *splitterComposer) Repaint(dc *DrawingContext, visibleRect IntRect) {
	if dc.Cancelled() {
		return
	}
	sc.inner.Repaint(dc, visibleRect)
	rect, ok := sc.inner.Rect()
	if !ok {
		return
	}
	dc.SetStrokeStyle("#808080")
	dc.SetLineWidth(0.5)
	for _, boundary := range sc.boundaries {
		dc.BeginPath()
		if sc.orientation == Horizontal {
			dc.MoveTo(float64(boundary), 0)
			dc.LineTo(float64(boundary), float64(rect.Size.Height))
		} else {
			dc.MoveTo(0, float64(boundary))
			dc.LineTo(float64(rect.Size.Width), float64(boundary))
		}
		dc.Stroke()
	}
}
