// Package canvas is a retained-mode layout, compositing, and event-dispatch
// engine. Applications build a tree of canvas items, attach it to a root,
// and feed the root platform input; the engine solves layout constraints,
// paints items into drawing-command buffers on background repaint tasks,
// and routes mouse, keyboard, wheel, and drag events through the tree.
//
// The engine owns no window, GPU, or font rasterizer. Finished command
// buffers go to a DrawSink; text measurement comes from a
// FontMetricsProvider; cursor and tooltip display go to their sinks. The
// render subpackage provides a software DrawSink for tests and tools.
package canvas

import (
	"sync"
	"sync/atomic"
)

// ============================================================================
// CanvasItem Interface
// ============================================================================

// CanvasItem is a node in the canvas tree. Concrete items embed ItemBase,
// which supplies default behavior for everything but painting.
//
// Unless noted otherwise, methods must be called from the UI goroutine.
// GetComposer and RepaintCount are safe to call from repaint tasks.
type CanvasItem interface {
	// Close releases the item and its children. An item is closed exactly
	// once, by its owner, after removal from its container.
	Close()

	// Container returns the parent item, or nil for a detached item or the
	// root.
	Container() CanvasItem
	setContainer(container CanvasItem)
	// Root returns the topmost container of the item's tree.
	Root() CanvasItem

	// CanvasOrigin returns the item's origin within its container. The bool
	// is false until the first layout pass assigns one.
	CanvasOrigin() (IntPoint, bool)
	// CanvasSize returns the item's laid-out size.
	CanvasSize() (IntSize, bool)
	// CanvasRect returns origin and size together.
	CanvasRect() (IntRect, bool)
	// CanvasBounds returns the item's rect in its own coordinates (origin
	// zero).
	CanvasBounds() (IntRect, bool)

	Visible() bool
	SetVisible(visible bool)
	Enabled() bool
	SetEnabled(enabled bool)

	// Sizing returns the item's intrinsic sizing preferences.
	Sizing() Sizing
	SetSizing(sizing Sizing)
	// LayoutSizing returns the sizing the item presents to its container's
	// layout. Composites aggregate child sizing here; leaves return Sizing.
	LayoutSizing() Sizing

	// UpdateLayout assigns the item's rect. Composites recursively lay out
	// children.
	UpdateLayout(origin IntPoint, size IntSize)
	// RefreshLayout requests a new layout pass from the root after the
	// item's sizing inputs changed.
	RefreshLayout()
	// Update marks the item's painted output stale and propagates the
	// invalidation toward the nearest layer.
	Update()

	// GetComposer returns the item's paint snapshot, building it if the
	// current one was invalidated. Safe to call from repaint tasks.
	GetComposer(cache *ComposerCache) Composer

	// ItemsAtPoint returns the items under p (in the item's coordinates),
	// frontmost first. Invisible items are skipped.
	ItemsAtPoint(p IntPoint) []CanvasItem

	// WantsMouseEvents reports whether the item participates in mouse
	// dispatch.
	WantsMouseEvents() bool
	// WantsDragEvents reports whether the item accepts the drag payload.
	WantsDragEvents(m MimeData) bool

	Focusable() bool
	SetFocusable(focusable bool)
	Focused() bool
	setFocused(focused bool)

	// CursorShape returns the cursor to display while the mouse is over the
	// item, or CursorDefault to leave the cursor alone.
	CursorShape() CursorShape
	Tooltip() string
	SetTooltip(text string)

	MouseEntered() bool
	MouseExited() bool
	MousePressed(p IntPoint, mods Modifiers) bool
	MouseReleased(p IntPoint, mods Modifiers) bool
	MouseClicked(p IntPoint, mods Modifiers) bool
	MouseDoubleClicked(p IntPoint, mods Modifiers) bool
	MousePositionChanged(p IntPoint, mods Modifiers) bool

	KeyPressed(key Key) bool
	KeyReleased(key Key) bool

	DragEnter(m MimeData) DragAction
	DragLeave() DragAction
	DragMove(m MimeData, p IntPoint) DragAction
	Drop(m MimeData, p IntPoint) DragAction

	// WheelChanged handles scroll wheel input. precise distinguishes pixel
	// deltas (trackpads) from line deltas.
	WheelChanged(p IntPoint, dx, dy int, precise bool) bool
	// PanGesture handles a trackpad pan.
	PanGesture(dx, dy int) bool

	// childUpdated propagates a descendant's invalidation upward. Layers
	// absorb it and schedule a repaint.
	childUpdated(child CanvasItem)

	// RepaintCount returns how many times the item's content has been
	// painted. Test observability.
	RepaintCount() int64
}

// composerSource builds an item's paint snapshot. Every concrete item
// provides one; ItemBase.GetComposer memoizes it.
type composerSource interface {
	makeComposer(cache *ComposerCache) Composer
}

// ============================================================================
// ItemBase
// ============================================================================

// ItemBase carries the state and default behavior shared by all canvas
// items. Concrete items embed it and call initItem with themselves so
// overridden methods dispatch to the outermost type.
type ItemBase struct {
	mu        sync.Mutex
	self      CanvasItem
	container CanvasItem

	origin    IntPoint
	size      IntSize
	hasOrigin bool
	hasSize   bool

	sizing    Sizing
	visible   bool
	enabled   bool
	focusable bool
	focused   bool
	tooltip   string
	cursor    CursorShape

	composer Composer
	repaints atomic.Int64

	// OnLayoutUpdated is called after each layout assignment with the new
	// rect.
	OnLayoutUpdated func(origin IntPoint, size IntSize)
	// OnFocusChanged is called when keyboard focus is gained or lost.
	OnFocusChanged func(focused bool)
	// OnFocusRequested is called when focus is granted through a pointer
	// press, with the press-time modifiers.
	OnFocusRequested func(mods Modifiers)
}

// initItem wires the embedding item for virtual dispatch. Every item
// constructor must call it before the item is used.
func (b *ItemBase) initItem(self CanvasItem) {
	b.self = self
	b.visible = true
	b.enabled = true
}

func (b *ItemBase) Close() {
	b.mu.Lock()
	b.composer = nil
	b.container = nil
	b.mu.Unlock()
}

func (b *ItemBase) Container() CanvasItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.container
}

func (b *ItemBase) setContainer(container CanvasItem) {
	b.mu.Lock()
	b.container = container
	b.mu.Unlock()
}

func (b *ItemBase) Root() CanvasItem {
	item := b.self
	for {
		container := item.Container()
		if container == nil {
			return item
		}
		item = container
	}
}

func (b *ItemBase) CanvasOrigin() (IntPoint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.origin, b.hasOrigin
}

func (b *ItemBase) CanvasSize() (IntSize, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size, b.hasSize
}

func (b *ItemBase) CanvasRect() (IntRect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return IntRect{Origin: b.origin, Size: b.size}, b.hasOrigin && b.hasSize
}

func (b *ItemBase) CanvasBounds() (IntRect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return IntRect{Size: b.size}, b.hasSize
}

func (b *ItemBase) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// SetVisible shows or hides the item. Hiding removes the item from layout,
// hit testing, and painting; the container is refreshed.
func (b *ItemBase) SetVisible(visible bool) {
	b.mu.Lock()
	changed := b.visible != visible
	b.visible = visible
	b.mu.Unlock()
	if changed {
		if container := b.Container(); container != nil {
			container.RefreshLayout()
		}
		b.self.Update()
	}
}

func (b *ItemBase) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

func (b *ItemBase) SetEnabled(enabled bool) {
	b.mu.Lock()
	changed := b.enabled != enabled
	b.enabled = enabled
	b.mu.Unlock()
	if changed {
		b.self.Update()
	}
}

func (b *ItemBase) Sizing() Sizing {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sizing
}

// SetSizing replaces the item's sizing preferences and refreshes layout.
func (b *ItemBase) SetSizing(sizing Sizing) {
	b.mu.Lock()
	b.sizing = sizing
	b.mu.Unlock()
	b.self.RefreshLayout()
}

func (b *ItemBase) LayoutSizing() Sizing {
	return b.self.Sizing()
}

func (b *ItemBase) UpdateLayout(origin IntPoint, size IntSize) {
	b.mu.Lock()
	changed := !b.hasOrigin || !b.hasSize || b.origin != origin || b.size != size
	b.origin = origin
	b.size = size
	b.hasOrigin = true
	b.hasSize = true
	callback := b.OnLayoutUpdated
	b.mu.Unlock()
	if changed {
		b.self.Update()
	}
	if callback != nil {
		callback(origin, size)
	}
}

func (b *ItemBase) RefreshLayout() {
	if container := b.Container(); container != nil {
		container.RefreshLayout()
	}
}

// Update invalidates the memoized composer and forwards the invalidation to
// the container. The nearest enclosing layer absorbs it and schedules a
// repaint.
func (b *ItemBase) Update() {
	b.mu.Lock()
	b.composer = nil
	b.mu.Unlock()
	if container := b.Container(); container != nil {
		container.childUpdated(b.self)
	}
}

func (b *ItemBase) childUpdated(child CanvasItem) {
	b.mu.Lock()
	b.composer = nil
	b.mu.Unlock()
	if container := b.Container(); container != nil {
		container.childUpdated(b.self)
	}
}

func (b *ItemBase) GetComposer(cache *ComposerCache) Composer {
	b.mu.Lock()
	composer := b.composer
	b.mu.Unlock()
	if composer != nil {
		return composer
	}
	source, ok := b.self.(composerSource)
	if !ok {
		return nil
	}
	// Build outside the lock; makeComposer reads item state through the
	// public accessors.
	composer = source.makeComposer(cache)
	b.mu.Lock()
	if b.composer == nil {
		b.composer = composer
	} else {
		composer = b.composer
	}
	b.mu.Unlock()
	return composer
}

func (b *ItemBase) ItemsAtPoint(p IntPoint) []CanvasItem {
	bounds, ok := b.self.CanvasBounds()
	if !ok || !b.self.Visible() || !bounds.Contains(p) {
		return nil
	}
	return []CanvasItem{b.self}
}

func (b *ItemBase) WantsMouseEvents() bool          { return false }
func (b *ItemBase) WantsDragEvents(m MimeData) bool { return false }

func (b *ItemBase) Focusable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focusable
}

func (b *ItemBase) SetFocusable(focusable bool) {
	b.mu.Lock()
	b.focusable = focusable
	b.mu.Unlock()
}

func (b *ItemBase) Focused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focused
}

func (b *ItemBase) setFocused(focused bool) {
	b.mu.Lock()
	changed := b.focused != focused
	b.focused = focused
	callback := b.OnFocusChanged
	b.mu.Unlock()
	if changed {
		b.self.Update()
		if callback != nil {
			callback(focused)
		}
	}
}

// focusRequested delivers the press-time modifiers of a focus grant.
func (b *ItemBase) focusRequested(mods Modifiers) {
	b.mu.Lock()
	callback := b.OnFocusRequested
	b.mu.Unlock()
	if callback != nil {
		callback(mods)
	}
}

func (b *ItemBase) CursorShape() CursorShape {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetCursorShape sets the cursor displayed while the mouse is over the item.
func (b *ItemBase) SetCursorShape(shape CursorShape) {
	b.mu.Lock()
	b.cursor = shape
	b.mu.Unlock()
}

func (b *ItemBase) Tooltip() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tooltip
}

func (b *ItemBase) SetTooltip(text string) {
	b.mu.Lock()
	b.tooltip = text
	b.mu.Unlock()
}

func (b *ItemBase) MouseEntered() bool                                 { return false }
func (b *ItemBase) MouseExited() bool                                  { return false }
func (b *ItemBase) MousePressed(p IntPoint, mods Modifiers) bool       { return false }
func (b *ItemBase) MouseReleased(p IntPoint, mods Modifiers) bool      { return false }
func (b *ItemBase) MouseClicked(p IntPoint, mods Modifiers) bool       { return false }
func (b *ItemBase) MouseDoubleClicked(p IntPoint, mods Modifiers) bool { return false }
func (b *ItemBase) MousePositionChanged(p IntPoint, mods Modifiers) bool {
	return false
}

func (b *ItemBase) KeyPressed(key Key) bool  { return false }
func (b *ItemBase) KeyReleased(key Key) bool { return false }

func (b *ItemBase) DragEnter(m MimeData) DragAction              { return DragIgnore }
func (b *ItemBase) DragLeave() DragAction                        { return DragIgnore }
func (b *ItemBase) DragMove(m MimeData, p IntPoint) DragAction   { return DragIgnore }
func (b *ItemBase) Drop(m MimeData, p IntPoint) DragAction       { return DragIgnore }
func (b *ItemBase) WheelChanged(p IntPoint, dx, dy int, precise bool) bool {
	return false
}
func (b *ItemBase) PanGesture(dx, dy int) bool { return false }

func (b *ItemBase) RepaintCount() int64 { return b.repaints.Load() }

// bumpRepaint is called by the item's composer each time it paints fresh
// content.
func (b *ItemBase) bumpRepaint() { b.repaints.Add(1) }

// repaintCounter exposes the counter to composers built from this item.
func (b *ItemBase) repaintCounter() *atomic.Int64 { return &b.repaints }

// ============================================================================
// Coordinate Mapping
// ============================================================================

// MapToGlobal converts p from the item's coordinates to root coordinates.
func MapToGlobal(item CanvasItem, p IntPoint) IntPoint {
	for item != nil {
		if origin, ok := item.CanvasOrigin(); ok {
			p = p.Add(origin)
		}
		item = item.Container()
	}
	return p
}

// MapToItem converts p from source coordinates to target coordinates. Both
// items must belong to the same tree.
func MapToItem(source, target CanvasItem, p IntPoint) IntPoint {
	return MapToGlobal(source, p).Sub(MapToGlobal(target, IntPoint{}))
}

// MapToContainer converts p from the item's coordinates to its container's.
func MapToContainer(item CanvasItem, p IntPoint) IntPoint {
	if origin, ok := item.CanvasOrigin(); ok {
		return p.Add(origin)
	}
	return p
}
