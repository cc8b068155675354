package canvas

import (
	"sync"
	"sync/atomic"
)

// Orientation selects the axis of a scroll bar or splitter.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// ============================================================================
// Scroll Area
// ============================================================================

// ScrollAreaCanvasItem shows a movable viewport onto a single content item.
// The content keeps its intrinsic size and is positioned at a (usually
// negative) origin within the viewport; painting clips to the viewport.
type ScrollAreaCanvasItem struct {
	ItemBase

	smu                sync.Mutex
	content            CanvasItem
	autoResizeContents bool
	scrollListeners    []func()
	animator           *ScrollAnimator

	// OnValidateContentOrigin overrides the default clamping of a proposed
	// content origin. It receives the proposed origin, the viewport size,
	// and the content size.
	OnValidateContentOrigin func(origin IntPoint, viewport IntSize, content IntSize) IntPoint
}

// NewScrollAreaCanvasItem returns a scroll area owning content.
func NewScrollAreaCanvasItem(content CanvasItem) *ScrollAreaCanvasItem {
	if content.Container() != nil {
		panic("canvas: item already has a container")
	}
	s := &ScrollAreaCanvasItem{content: content}
	s.initItem(s)
	content.setContainer(s)
	return s
}

// Content returns the scrolled item.
func (s *ScrollAreaCanvasItem) Content() CanvasItem {
	s.smu.Lock()
	defer s.smu.Unlock()
	return s.content
}

// SetAutoResizeContents forces the content to track the viewport size
// instead of keeping its intrinsic size. Scrolling is disabled while set.
func (s *ScrollAreaCanvasItem) SetAutoResizeContents(auto bool) {
	s.smu.Lock()
	s.autoResizeContents = auto
	s.smu.Unlock()
	s.self.RefreshLayout()
}

// addScrollListener registers a callback invoked after the content origin
// changes. Scroll bars use it to stay in sync.
func (s *ScrollAreaCanvasItem) addScrollListener(f func()) {
	s.smu.Lock()
	s.scrollListeners = append(s.scrollListeners, f)
	s.smu.Unlock()
}

func (s *ScrollAreaCanvasItem) notifyScroll() {
	s.smu.Lock()
	listeners := append([]func(){}, s.scrollListeners...)
	s.smu.Unlock()
	for _, f := range listeners {
		f()
	}
}

// ContentOrigin returns the content's origin in viewport coordinates.
func (s *ScrollAreaCanvasItem) ContentOrigin() IntPoint {
	if content := s.Content(); content != nil {
		if origin, ok := content.CanvasOrigin(); ok {
			return origin
		}
	}
	return IntPoint{}
}

// ContentSize returns the content's laid-out size.
func (s *ScrollAreaCanvasItem) ContentSize() IntSize {
	if content := s.Content(); content != nil {
		if size, ok := content.CanvasSize(); ok {
			return size
		}
	}
	return IntSize{}
}

// ScrollTo moves the content origin, clamped to the scrollable range.
func (s *ScrollAreaCanvasItem) ScrollTo(origin IntPoint) {
	content := s.Content()
	if content == nil {
		return
	}
	viewport, ok := s.self.CanvasSize()
	if !ok {
		return
	}
	contentSize, ok := content.CanvasSize()
	if !ok {
		return
	}
	origin = s.validateOrigin(origin, viewport, contentSize)
	if current, ok := content.CanvasOrigin(); ok && current == origin {
		return
	}
	content.UpdateLayout(origin, contentSize)
	s.self.Update()
	s.notifyScroll()
}

// ScrollBy moves the content origin by d.
func (s *ScrollAreaCanvasItem) ScrollBy(d IntPoint) {
	s.ScrollTo(s.ContentOrigin().Add(d))
}

// validateOrigin clamps the proposed origin, or defers to the override.
func (s *ScrollAreaCanvasItem) validateOrigin(origin IntPoint, viewport, content IntSize) IntPoint {
	if s.OnValidateContentOrigin != nil {
		return s.OnValidateContentOrigin(origin, viewport, content)
	}
	return clampScrollOrigin(origin, viewport, content)
}

// clampScrollOrigin keeps the viewport within the content: the origin stays
// in [viewport - content, 0] per axis, or 0 when the content fits.
func clampScrollOrigin(origin IntPoint, viewport, content IntSize) IntPoint {
	clampAxis := func(v, viewportExtent, contentExtent int) int {
		low := viewportExtent - contentExtent
		if low > 0 {
			low = 0
		}
		return min(0, max(low, v))
	}
	return IntPoint{
		X: clampAxis(origin.X, viewport.Width, content.Width),
		Y: clampAxis(origin.Y, viewport.Height, content.Height),
	}
}

// UpdateLayout sizes the content to its intrinsic size (or the viewport
// when auto-resizing) and revalidates the scroll position.
func (s *ScrollAreaCanvasItem) UpdateLayout(origin IntPoint, size IntSize) {
	s.ItemBase.UpdateLayout(origin, size)
	content := s.Content()
	if content == nil {
		return
	}
	s.smu.Lock()
	auto := s.autoResizeContents
	s.smu.Unlock()

	contentOrigin, _ := content.CanvasOrigin()
	var contentSize IntSize
	if auto {
		contentOrigin = IntPoint{}
		contentSize = size
	} else {
		sizing := content.LayoutSizing()
		contentSize = IntSize{
			Width:  scrollContentExtent(sizing.PreferredWidth, sizing.MinimumWidth, size.Width),
			Height: scrollContentExtent(sizing.PreferredHeight, sizing.MinimumHeight, size.Height),
		}
		contentOrigin = s.validateOrigin(contentOrigin, size, contentSize)
	}
	content.UpdateLayout(contentOrigin, contentSize)
}

// scrollContentExtent picks the content's extent along one axis: preferred,
// else minimum, else the viewport.
func scrollContentExtent(preferred, minimum Length, viewport int) int {
	if preferred.IsSet() {
		return preferred.Resolve(viewport)
	}
	if minimum.IsSet() {
		return max(minimum.Resolve(viewport), viewport)
	}
	return viewport
}

// ItemsAtPoint hit-tests through the viewport into the content.
func (s *ScrollAreaCanvasItem) ItemsAtPoint(p IntPoint) []CanvasItem {
	bounds, ok := s.self.CanvasBounds()
	if !ok || !s.self.Visible() || !bounds.Contains(p) {
		return nil
	}
	var result []CanvasItem
	if content := s.Content(); content != nil && content.Visible() {
		if origin, ok := content.CanvasOrigin(); ok {
			result = content.ItemsAtPoint(p.Sub(origin))
		}
	}
	return append(result, s.self)
}

// WheelChanged scrolls the viewport. Line deltas are scaled by the
// configured wheel speed; precise (trackpad) deltas pass through. When
// smooth scrolling is configured and an animator is bound, line scrolling
// eases through the animator instead of jumping.
func (s *ScrollAreaCanvasItem) WheelChanged(p IntPoint, dx, dy int, precise bool) bool {
	s.smu.Lock()
	auto := s.autoResizeContents
	animator := s.animator
	s.smu.Unlock()
	if auto {
		return false
	}
	speed := 1
	if !precise {
		speed = s.config().ScrollWheelSpeed
	}
	delta := IntPoint{X: dx * speed, Y: dy * speed}
	if !precise && animator != nil && s.config().SmoothScroll {
		animator.ScrollBy(delta, wheelScrollDuration)
		return true
	}
	before := s.ContentOrigin()
	s.ScrollBy(delta)
	return s.ContentOrigin() != before
}

func (s *ScrollAreaCanvasItem) config() Config {
	if root, ok := s.Root().(*RootCanvasItem); ok {
		return root.cfg
	}
	return DefaultConfig()
}

// PanGesture scrolls with a trackpad pan.
func (s *ScrollAreaCanvasItem) PanGesture(dx, dy int) bool {
	before := s.ContentOrigin()
	s.ScrollBy(IntPoint{X: -dx, Y: -dy})
	return s.ContentOrigin() != before
}

// Close closes the content with the scroll area.
func (s *ScrollAreaCanvasItem) Close() {
	s.smu.Lock()
	content := s.content
	s.content = nil
	s.scrollListeners = nil
	s.smu.Unlock()
	if content != nil {
		content.setContainer(nil)
		content.Close()
	}
	s.ItemBase.Close()
}

func (s *ScrollAreaCanvasItem) makeComposer(cache *ComposerCache) Composer {
	content := s.Content()
	if content == nil || !content.Visible() {
		return nil
	}
	contentComposer := content.GetComposer(cache)
	if contentComposer == nil {
		return nil
	}
	contentRect, _ := content.CanvasRect()
	rect, hasRect := s.self.CanvasRect()
	return &scrollComposer{
		repaints:    s.repaintCounter(),
		rect:        rect,
		hasRect:     hasRect,
		sizing:      s.self.LayoutSizing(),
		content:     contentComposer,
		contentRect: contentRect,
	}
}

// scrollComposer clips to the viewport and paints the content at its
// scrolled origin.
type scrollComposer struct {
	repaints    *atomic.Int64
	rect        IntRect
	hasRect     bool
	sizing      Sizing
	content     Composer
	contentRect IntRect
}

func (sc *scrollComposer) UpdateLayout(origin IntPoint, size IntSize) {
	sc.rect = IntRect{Origin: origin, Size: size}
	sc.hasRect = true
	sc.content.UpdateLayout(sc.contentRect.Origin, sc.contentRect.Size)
}

func (sc *scrollComposer) LayoutSizing() Sizing { return sc.sizing }

func (sc *scrollComposer) Rect() (IntRect, bool) { return sc.rect, sc.hasRect }

func (sc *scrollComposer) Repaint(dc *DrawingContext, visibleRect IntRect) {
	if dc.Cancelled() || !sc.hasRect {
		return
	}
	sc.repaints.Add(1)
	bounds := IntRect{Size: sc.rect.Size}
	visible := visibleRect.Intersect(bounds).Intersect(sc.contentRect)
	if visible.IsEmpty() {
		return
	}
	dc.Save()
	dc.ClipRect(0, 0, float64(bounds.Size.Width), float64(bounds.Size.Height))
	dc.Translate(float64(sc.contentRect.Left()), float64(sc.contentRect.Top()))
	sc.content.Repaint(dc, visible.Translate(IntPoint{X: -sc.contentRect.Left(), Y: -sc.contentRect.Top()}))
	dc.Restore()
}

// ============================================================================
// Scroll Bar
// ============================================================================

const (
	scrollBarThickness = 16
	scrollBarMinThumb  = 32
)

// ScrollBarCanvasItem is a classic scroll bar bound to a scroll area. A
// press on the thumb starts a drag; a press on the track pages toward the
// click.
type ScrollBarCanvasItem struct {
	ItemBase

	scrollArea  *ScrollAreaCanvasItem
	orientation Orientation

	tracking      bool
	trackingStart IntPoint
	trackingFrom  IntPoint
}

// NewScrollBarCanvasItem returns a scroll bar controlling scrollArea along
// the given orientation.
func NewScrollBarCanvasItem(scrollArea *ScrollAreaCanvasItem, orientation Orientation) *ScrollBarCanvasItem {
	sb := &ScrollBarCanvasItem{scrollArea: scrollArea, orientation: orientation}
	sb.initItem(sb)
	sizing := sb.Sizing()
	if orientation == Vertical {
		sizing.SetFixedWidth(scrollBarThickness)
	} else {
		sizing.SetFixedHeight(scrollBarThickness)
	}
	sb.sizing = sizing
	scrollArea.addScrollListener(func() { sb.Update() })
	return sb
}

// axis projects a point onto the bar's primary axis.
func (sb *ScrollBarCanvasItem) axis(p IntPoint) int {
	if sb.orientation == Vertical {
		return p.Y
	}
	return p.X
}

// barMetrics returns the track length, thumb length, and thumb position.
func (sb *ScrollBarCanvasItem) barMetrics() (track, thumb, pos int) {
	size, ok := sb.self.CanvasSize()
	if !ok {
		return 0, 0, 0
	}
	viewport, _ := sb.scrollArea.CanvasSize()
	content := sb.scrollArea.ContentSize()
	var trackLen, viewportLen, contentLen, offset int
	if sb.orientation == Vertical {
		trackLen, viewportLen, contentLen = size.Height, viewport.Height, content.Height
		offset = -sb.scrollArea.ContentOrigin().Y
	} else {
		trackLen, viewportLen, contentLen = size.Width, viewport.Width, content.Width
		offset = -sb.scrollArea.ContentOrigin().X
	}
	if contentLen <= viewportLen || contentLen == 0 {
		return trackLen, trackLen, 0
	}
	thumbLen := max(scrollBarMinThumb, trackLen*viewportLen/contentLen)
	if thumbLen > trackLen {
		thumbLen = trackLen
	}
	scrollRange := contentLen - viewportLen
	posRange := trackLen - thumbLen
	thumbPos := 0
	if scrollRange > 0 {
		thumbPos = offset * posRange / scrollRange
	}
	return trackLen, thumbLen, thumbPos
}

// scrollPerTrackUnit converts thumb travel into content travel.
func (sb *ScrollBarCanvasItem) scrollPerTrackUnit() float64 {
	track, thumb, _ := sb.barMetrics()
	posRange := track - thumb
	if posRange <= 0 {
		return 0
	}
	viewport, _ := sb.scrollArea.CanvasSize()
	content := sb.scrollArea.ContentSize()
	var scrollRange int
	if sb.orientation == Vertical {
		scrollRange = content.Height - viewport.Height
	} else {
		scrollRange = content.Width - viewport.Width
	}
	return float64(scrollRange) / float64(posRange)
}

func (sb *ScrollBarCanvasItem) WantsMouseEvents() bool { return true }

func (sb *ScrollBarCanvasItem) MousePressed(p IntPoint, mods Modifiers) bool {
	_, thumb, pos := sb.barMetrics()
	click := sb.axis(p)
	if click >= pos && click < pos+thumb {
		sb.tracking = true
		sb.trackingStart = p
		sb.trackingFrom = sb.scrollArea.ContentOrigin()
		return true
	}
	// Page toward the click.
	viewport, _ := sb.scrollArea.CanvasSize()
	var page int
	if sb.orientation == Vertical {
		page = viewport.Height * 9 / 10
	} else {
		page = viewport.Width * 9 / 10
	}
	if click < pos {
		page = -page
	}
	if sb.orientation == Vertical {
		sb.scrollArea.ScrollBy(IntPoint{Y: -page})
	} else {
		sb.scrollArea.ScrollBy(IntPoint{X: -page})
	}
	return true
}

func (sb *ScrollBarCanvasItem) MousePositionChanged(p IntPoint, mods Modifiers) bool {
	if !sb.tracking {
		return false
	}
	delta := sb.axis(p) - sb.axis(sb.trackingStart)
	travel := int(float64(delta) * sb.scrollPerTrackUnit())
	target := sb.trackingFrom
	if sb.orientation == Vertical {
		target.Y -= travel
	} else {
		target.X -= travel
	}
	sb.scrollArea.ScrollTo(target)
	return true
}

func (sb *ScrollBarCanvasItem) MouseReleased(p IntPoint, mods Modifiers) bool {
	sb.tracking = false
	return true
}

func (sb *ScrollBarCanvasItem) makeComposer(cache *ComposerCache) Composer {
	track, thumb, pos := sb.barMetrics()
	vertical := sb.orientation == Vertical
	rect, hasRect := sb.self.CanvasRect()
	paint := func(dc *DrawingContext, size IntSize) {
		dc.SetFillStyle("#f0f0f0")
		dc.BeginPath()
		dc.Rect(0, 0, float64(size.Width), float64(size.Height))
		dc.Fill()
		if thumb >= track {
			return
		}
		dc.SetFillStyle("#b0b0b0")
		dc.BeginPath()
		if vertical {
			dc.RoundRect(3, float64(pos)+2, float64(size.Width)-6, float64(thumb)-4, 4)
		} else {
			dc.RoundRect(float64(pos)+2, 3, float64(thumb)-4, float64(size.Height)-6, 4)
		}
		dc.Fill()
	}
	return newLeafComposer(sb.repaintCounter(), rect, hasRect, sb.self.LayoutSizing(), paint)
}
