package canvas

import (
	"sync"
	"time"
)

// ============================================================================
// Root Canvas Item
// ============================================================================

// bufferPublisher overrides a layer's publish destination. The root sends
// finished buffers to the draw sink instead of a parent snapshot.
type bufferPublisher interface {
	publishBuffer(commands []Command)
}

// RootCanvasItem is the top of a canvas tree: a layer that publishes to the
// draw sink and translates platform input into tree dispatch. All Handle
// methods must be called from the UI goroutine.
//
// Dispatch state machine:
//   - Mouse capture: a press captures the frontmost item wanting mouse
//     events, whether or not it handles the press; the captured item
//     receives every MousePositionChanged and the MouseReleased, even
//     outside its bounds. A release with no capture goes nowhere.
//   - Mouse tracking: outside capture, the frontmost item under the cursor
//     receives enter/exit pairs, cursor shape, and tooltip display.
//   - Deferred focus: focus changes decided at press are applied at release
//     with the press-time modifiers, so drag interactions never refocus
//     mid-gesture.
//   - Drag tracking: the frontmost item accepting the payload receives
//     DragEnter/DragLeave transitions and the DragMove/Drop calls.
type RootCanvasItem struct {
	LayerCanvasItem

	cfg         Config
	sink        DrawSink
	cursorSink  CursorSink
	tooltipSink TooltipSink

	pool  *RenderPool
	cache *ComposerCache

	layoutOnce  sync.Once
	layoutReady chan struct{}

	pmu         sync.Mutex
	lastPublish time.Time

	focusedItem     CanvasItem
	lastFocusedItem CanvasItem

	mouseCaptureItem  CanvasItem
	mouseTrackingItem CanvasItem

	pendingFocusItem CanvasItem
	pendingFocusMods Modifiers
	hasPendingFocus  bool

	lastClickTime time.Time
	lastClickPos  IntPoint

	dragTrackingItem CanvasItem
}

// NewRootCanvasItem returns a root publishing to sink.
func NewRootCanvasItem(sink DrawSink, cfg Config) *RootCanvasItem {
	r := &RootCanvasItem{
		cfg:         cfg,
		sink:        sink,
		pool:        NewRenderPool(cfg.RenderWorkers),
		cache:       NewComposerCache(),
		layoutReady: make(chan struct{}),
		LayerCanvasItem: LayerCanvasItem{
			closing: make(chan struct{}),
		},
	}
	r.initItem(r)
	r.layout = NewOverlapLayout()
	return r
}

// SetCursorSink installs the cursor display adapter.
func (r *RootCanvasItem) SetCursorSink(sink CursorSink) { r.cursorSink = sink }

// SetTooltipSink installs the tooltip display adapter.
func (r *RootCanvasItem) SetTooltipSink(sink TooltipSink) { r.tooltipSink = sink }

// Config returns the engine configuration.
func (r *RootCanvasItem) Config() Config { return r.cfg }

// ComposerCache returns the shared paint cache for this tree.
func (r *RootCanvasItem) ComposerCache() *ComposerCache { return r.cache }

// HandleSizeChanged assigns the root rect and runs a layout pass. The first
// call releases section layers waiting to publish.
func (r *RootCanvasItem) HandleSizeChanged(size IntSize) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	r.UpdateLayout(IntPoint{}, size)
}

func (r *RootCanvasItem) UpdateLayout(origin IntPoint, size IntSize) {
	r.LayerCanvasItem.UpdateLayout(origin, size)
	r.layoutOnce.Do(func() { close(r.layoutReady) })
}

// layoutReadyChan is closed after the first layout pass.
func (r *RootCanvasItem) layoutReadyChan() <-chan struct{} { return r.layoutReady }

// RefreshLayout re-runs layout at the current size.
func (r *RootCanvasItem) RefreshLayout() {
	if size, ok := r.self.CanvasSize(); ok {
		r.UpdateLayout(IntPoint{}, size)
	}
}

// publishBuffer sends the buffer to the draw sink, pacing to the configured
// frame rate.
func (r *RootCanvasItem) publishBuffer(commands []Command) {
	interval := time.Duration(float64(time.Second) / r.cfg.MaxFrameRate)
	r.pmu.Lock()
	if wait := interval - time.Since(r.lastPublish); wait > 0 {
		time.Sleep(wait)
	}
	r.lastPublish = time.Now()
	r.pmu.Unlock()
	r.sink.Draw(commands)
}

// Close tears down dispatch state and the layer subtree.
func (r *RootCanvasItem) Close() {
	r.focusedItem = nil
	r.lastFocusedItem = nil
	r.mouseCaptureItem = nil
	r.mouseTrackingItem = nil
	r.dragTrackingItem = nil
	r.LayerCanvasItem.Close()
}

// ============================================================================
// Focus
// ============================================================================

// FocusedItem returns the item holding keyboard focus.
func (r *RootCanvasItem) FocusedItem() CanvasItem { return r.focusedItem }

// SetFocusedItem moves keyboard focus to item (nil clears focus).
func (r *RootCanvasItem) SetFocusedItem(item CanvasItem) {
	if item == r.focusedItem {
		return
	}
	if old := r.focusedItem; old != nil {
		old.setFocused(false)
	}
	r.focusedItem = item
	if item != nil {
		r.lastFocusedItem = item
		item.setFocused(true)
	}
}

// HandleFocusChanged suspends keyboard focus while the window is
// deactivated and restores it on activation.
func (r *RootCanvasItem) HandleFocusChanged(focused bool) {
	if focused {
		if r.focusedItem == nil && r.lastFocusedItem != nil {
			if attached(r.lastFocusedItem) {
				r.SetFocusedItem(r.lastFocusedItem)
			} else {
				r.lastFocusedItem = nil
			}
		}
		return
	}
	last := r.focusedItem
	r.SetFocusedItem(nil)
	if last != nil {
		r.lastFocusedItem = last
	}
}

// attached reports whether the item still belongs to a rooted tree.
func attached(item CanvasItem) bool {
	if item == nil {
		return false
	}
	_, ok := item.Root().(*RootCanvasItem)
	return ok
}

// ============================================================================
// Mouse Dispatch
// ============================================================================

// itemsAt hit-tests p in root coordinates, frontmost first.
func (r *RootCanvasItem) itemsAt(p IntPoint) []CanvasItem {
	return r.self.ItemsAtPoint(p)
}

// mapToItem converts a root point into item coordinates.
func (r *RootCanvasItem) mapToItem(item CanvasItem, p IntPoint) IntPoint {
	return p.Sub(MapToGlobal(item, IntPoint{}))
}

// HandleMousePressed dispatches a press to the frontmost interested item
// and records the deferred focus decision.
func (r *RootCanvasItem) HandleMousePressed(p IntPoint, mods Modifiers) bool {
	items := r.itemsAt(p)

	// Decide focus now, apply it at release. Pressing empty space clears
	// focus at release.
	r.pendingFocusItem = nil
	r.pendingFocusMods = mods
	r.hasPendingFocus = true
	for _, item := range items {
		if item.Focusable() && item.Enabled() {
			r.pendingFocusItem = item
			break
		}
	}

	var target CanvasItem
	for _, item := range items {
		if item.WantsMouseEvents() && item.Enabled() {
			target = item
			break
		}
	}
	if target == nil {
		return false
	}
	// Capture and track before forwarding, whether or not the item handles
	// the press.
	if target != r.mouseTrackingItem {
		if old := r.mouseTrackingItem; old != nil && attached(old) {
			old.MouseExited()
		}
		r.mouseTrackingItem = target
		target.MouseEntered()
	}
	r.mouseCaptureItem = target
	return target.MousePressed(r.mapToItem(target, p), mods)
}

// HandleMouseReleased delivers the release to the capturing item and
// applies the deferred focus change with press-time modifiers.
func (r *RootCanvasItem) HandleMouseReleased(p IntPoint, mods Modifiers) bool {
	handled := false
	if capture := r.mouseCaptureItem; capture != nil {
		r.mouseCaptureItem = nil
		if attached(capture) {
			handled = capture.MouseReleased(r.mapToItem(capture, p), mods)
		}
	}
	if r.hasPendingFocus {
		r.hasPendingFocus = false
		target := r.pendingFocusItem
		r.pendingFocusItem = nil
		if target != nil && !attached(target) {
			target = nil
		}
		if target != nil && target != r.focusedItem {
			if fr, ok := target.(interface{ focusRequested(Modifiers) }); ok {
				fr.focusRequested(r.pendingFocusMods)
			}
		}
		r.SetFocusedItem(target)
	}
	return handled
}

// HandleMousePositionChanged routes a move to the capturing item, or
// maintains enter/exit tracking with cursor and tooltip updates.
func (r *RootCanvasItem) HandleMousePositionChanged(p IntPoint, mods Modifiers) bool {
	if capture := r.mouseCaptureItem; capture != nil {
		if !attached(capture) {
			r.mouseCaptureItem = nil
			return false
		}
		return capture.MousePositionChanged(r.mapToItem(capture, p), mods)
	}

	var target CanvasItem
	for _, item := range r.itemsAt(p) {
		if item.WantsMouseEvents() && item.Enabled() {
			target = item
			break
		}
	}
	if target != r.mouseTrackingItem {
		if old := r.mouseTrackingItem; old != nil && attached(old) {
			old.MouseExited()
		}
		r.mouseTrackingItem = target
		if target != nil {
			target.MouseEntered()
		}
		r.updateCursor(target)
		r.updateTooltip(target, p)
	}
	if target != nil {
		return target.MousePositionChanged(r.mapToItem(target, p), mods)
	}
	return false
}

// HandleMouseClicked routes a click through the items under p until one
// handles it. A second click within the configured double-click time and
// distance is dispatched as a double click instead.
func (r *RootCanvasItem) HandleMouseClicked(p IntPoint, mods Modifiers) bool {
	now := time.Now()
	window := time.Duration(r.cfg.DoubleClickTimeMS) * time.Millisecond
	if !r.lastClickTime.IsZero() && now.Sub(r.lastClickTime) <= window &&
		abs(p.X-r.lastClickPos.X) <= r.cfg.DoubleClickDistance &&
		abs(p.Y-r.lastClickPos.Y) <= r.cfg.DoubleClickDistance {
		r.lastClickTime = time.Time{}
		return r.HandleMouseDoubleClicked(p, mods)
	}
	r.lastClickTime = now
	r.lastClickPos = p
	for _, item := range r.itemsAt(p) {
		if !item.WantsMouseEvents() || !item.Enabled() {
			continue
		}
		if item.MouseClicked(r.mapToItem(item, p), mods) {
			return true
		}
	}
	return false
}

// HandleMouseDoubleClicked routes a double click like HandleMouseClicked.
func (r *RootCanvasItem) HandleMouseDoubleClicked(p IntPoint, mods Modifiers) bool {
	for _, item := range r.itemsAt(p) {
		if !item.WantsMouseEvents() || !item.Enabled() {
			continue
		}
		if item.MouseDoubleClicked(r.mapToItem(item, p), mods) {
			return true
		}
	}
	return false
}

// HandleMouseExited clears tracking when the cursor leaves the window.
func (r *RootCanvasItem) HandleMouseExited() {
	if old := r.mouseTrackingItem; old != nil && attached(old) {
		old.MouseExited()
	}
	r.mouseTrackingItem = nil
	r.updateCursor(nil)
	r.updateTooltip(nil, IntPoint{})
}

func (r *RootCanvasItem) updateCursor(item CanvasItem) {
	shape := CursorDefault
	if item != nil {
		shape = item.CursorShape()
	}
	r.setCursor(shape)
}

// setCursor pushes a cursor shape; items with position-dependent cursors
// (splitter handles) call this from their move handlers.
func (r *RootCanvasItem) setCursor(shape CursorShape) {
	if r.cursorSink != nil {
		r.cursorSink.SetCursor(shape)
	}
}

func (r *RootCanvasItem) updateTooltip(item CanvasItem, p IntPoint) {
	if r.tooltipSink == nil {
		return
	}
	if item != nil {
		if text := item.Tooltip(); text != "" {
			r.tooltipSink.ShowTooltip(text, p.X, p.Y)
			return
		}
	}
	r.tooltipSink.HideTooltip()
}

// ============================================================================
// Keyboard Dispatch
// ============================================================================

// HandleKeyPressed delivers the key to the focused item.
func (r *RootCanvasItem) HandleKeyPressed(key Key) bool {
	if item := r.focusedItem; item != nil && attached(item) {
		return item.KeyPressed(key)
	}
	return false
}

// HandleKeyReleased delivers the key release to the focused item.
func (r *RootCanvasItem) HandleKeyReleased(key Key) bool {
	if item := r.focusedItem; item != nil && attached(item) {
		return item.KeyReleased(key)
	}
	return false
}

// ============================================================================
// Drag and Drop Dispatch
// ============================================================================

// HandleDragEnter begins a drag interaction over the window.
func (r *RootCanvasItem) HandleDragEnter(m MimeData) DragAction {
	r.dragTrackingItem = nil
	return DragAccept
}

// HandleDragMove maintains drag enter/leave transitions and routes the move
// to the frontmost item accepting the payload.
func (r *RootCanvasItem) HandleDragMove(m MimeData, p IntPoint) DragAction {
	var target CanvasItem
	for _, item := range r.itemsAt(p) {
		if item.Enabled() && item.WantsDragEvents(m) {
			target = item
			break
		}
	}
	if target != r.dragTrackingItem {
		if old := r.dragTrackingItem; old != nil && attached(old) {
			old.DragLeave()
		}
		r.dragTrackingItem = target
		if target != nil {
			target.DragEnter(m)
		}
	}
	if target != nil {
		return target.DragMove(m, r.mapToItem(target, p))
	}
	return DragIgnore
}

// HandleDragLeave ends a drag that left the window.
func (r *RootCanvasItem) HandleDragLeave() DragAction {
	action := DragIgnore
	if old := r.dragTrackingItem; old != nil && attached(old) {
		action = old.DragLeave()
	}
	r.dragTrackingItem = nil
	return action
}

// HandleDrop delivers the payload to the tracked item.
func (r *RootCanvasItem) HandleDrop(m MimeData, p IntPoint) DragAction {
	target := r.dragTrackingItem
	r.dragTrackingItem = nil
	if target == nil || !attached(target) {
		return DragIgnore
	}
	return target.Drop(m, r.mapToItem(target, p))
}

// ============================================================================
// Wheel and Pan Dispatch
// ============================================================================

// HandleWheel routes wheel input through the items under p until one
// handles it.
func (r *RootCanvasItem) HandleWheel(p IntPoint, dx, dy int, precise bool) bool {
	for _, item := range r.itemsAt(p) {
		if !item.Enabled() {
			continue
		}
		if item.WheelChanged(r.mapToItem(item, p), dx, dy, precise) {
			return true
		}
	}
	return false
}

// HandlePan routes a trackpad pan through the items under p.
func (r *RootCanvasItem) HandlePan(p IntPoint, dx, dy int) bool {
	for _, item := range r.itemsAt(p) {
		if !item.Enabled() {
			continue
		}
		if item.PanGesture(dx, dy) {
			return true
		}
	}
	return false
}

// ============================================================================
// Input Simulation
// ============================================================================

// SimulateClick synthesizes a press, release, and click at p. Test and tool
// support.
func (r *RootCanvasItem) SimulateClick(p IntPoint, mods Modifiers) {
	r.HandleMousePressed(p, mods)
	r.HandleMouseReleased(p, mods)
	r.HandleMouseClicked(p, mods)
}

// SimulateDrag synthesizes a press at from, moves toward to, and releases.
func (r *RootCanvasItem) SimulateDrag(from, to IntPoint, mods Modifiers) {
	r.HandleMousePressed(from, mods)
	mid := Midpoint(from, to)
	r.HandleMousePositionChanged(mid, mods)
	r.HandleMousePositionChanged(to, mods)
	r.HandleMouseReleased(to, mods)
}
