package canvas

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// ============================================================================
// Composers
// ============================================================================
//
// A composer is an immutable paint snapshot of a canvas item, captured on
// the UI goroutine by GetComposer and consumed on a layer's repaint task.
// Snapshots carry everything painting needs (sizing, layout, paint
// closures), so repaint tasks never touch live item state. A composer stays
// valid until its item invalidates it with Update; the next GetComposer
// then builds a fresh one.

// Composer paints one snapshot node. Composers satisfy LayoutItem so the
// same layout strategies that place live items place snapshots on repaint
// tasks.
type Composer interface {
	// UpdateLayout assigns the snapshot's rect within its parent.
	UpdateLayout(origin IntPoint, size IntSize)
	// LayoutSizing returns the sizing captured at snapshot time.
	LayoutSizing() Sizing
	// Rect returns the snapshot's assigned rect.
	Rect() (IntRect, bool)
	// Repaint records the snapshot's content into dc in local coordinates.
	// visibleRect, also local, bounds the region worth painting. Repaint
	// returns early when dc reports cancellation.
	Repaint(dc *DrawingContext, visibleRect IntRect)
}

// PaintFunc paints leaf content in local coordinates into dc. The closure
// must capture all state it reads at snapshot time; it runs on a repaint
// task.
type PaintFunc func(dc *DrawingContext, size IntSize)

// ============================================================================
// Leaf Composer
// ============================================================================

type leafComposer struct {
	repaints *atomic.Int64
	rect     IntRect
	hasRect  bool
	sizing   Sizing
	paint    PaintFunc

	cached     *DrawingContext
	cachedSize IntSize
}

// newLeafComposer snapshots a leaf item's paint state.
func newLeafComposer(repaints *atomic.Int64, rect IntRect, hasRect bool, sizing Sizing, paint PaintFunc) Composer {
	return &leafComposer{repaints: repaints, rect: rect, hasRect: hasRect, sizing: sizing, paint: paint}
}

func (lc *leafComposer) UpdateLayout(origin IntPoint, size IntSize) {
	lc.rect = IntRect{Origin: origin, Size: size}
	lc.hasRect = true
}

func (lc *leafComposer) LayoutSizing() Sizing { return lc.sizing }

func (lc *leafComposer) Rect() (IntRect, bool) { return lc.rect, lc.hasRect }

func (lc *leafComposer) Repaint(dc *DrawingContext, visibleRect IntRect) {
	if dc.Cancelled() || !lc.hasRect {
		return
	}
	size := lc.rect.Size
	if lc.cached == nil || lc.cachedSize != size {
		buffer := NewDrawingContext()
		if !paintSafely(buffer, size, lc.paint) {
			return
		}
		lc.cached = buffer
		lc.cachedSize = size
		lc.repaints.Add(1)
	}
	dc.Append(lc.cached)
}

// paintSafely runs paint, unwinding any partial output if it panics. A
// panicking painter loses its own content but cannot corrupt the frame.
func paintSafely(dc *DrawingContext, size IntSize, paint PaintFunc) (ok bool) {
	mark := dc.Len()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("canvas: paint panic", "error", r)
			dc.truncate(mark)
			ok = false
		}
	}()
	paint(dc, size)
	return true
}

// ============================================================================
// Composition Composer
// ============================================================================

type compositionComposer struct {
	repaints *atomic.Int64
	rect     IntRect
	hasRect  bool
	sizing   Sizing
	layout   Layout
	// children is parallel to the item's child list; hidden children leave
	// nil slots so grid positions stay aligned.
	children []Composer
}

func newCompositionComposer(repaints *atomic.Int64, rect IntRect, hasRect bool, sizing Sizing, layout Layout, children []Composer) Composer {
	return &compositionComposer{
		repaints: repaints,
		rect:     rect,
		hasRect:  hasRect,
		sizing:   sizing,
		layout:   layout,
		children: children,
	}
}

func (cc *compositionComposer) UpdateLayout(origin IntPoint, size IntSize) {
	rect := IntRect{Origin: origin, Size: size}
	// Children keep their captured rects while the composition's own rect is
	// unchanged.
	if cc.hasRect && cc.rect == rect {
		return
	}
	cc.rect = rect
	cc.hasRect = true
	items := make([]LayoutItem, len(cc.children))
	for i, child := range cc.children {
		if child != nil {
			items[i] = child
		}
	}
	cc.layout.Layout(IntPoint{}, size, items)
}

func (cc *compositionComposer) LayoutSizing() Sizing { return cc.sizing }

func (cc *compositionComposer) Rect() (IntRect, bool) { return cc.rect, cc.hasRect }

func (cc *compositionComposer) Repaint(dc *DrawingContext, visibleRect IntRect) {
	if dc.Cancelled() || !cc.hasRect {
		return
	}
	cc.repaints.Add(1)
	for _, child := range cc.children {
		if child == nil {
			continue
		}
		if dc.Cancelled() {
			return
		}
		childRect, ok := child.Rect()
		if !ok || !childRect.Intersects(visibleRect) {
			continue
		}
		dc.Save()
		dc.Translate(float64(childRect.Left()), float64(childRect.Top()))
		child.Repaint(dc, visibleRect.Intersect(childRect).Translate(IntPoint{X: -childRect.Left(), Y: -childRect.Top()}))
		dc.Restore()
	}
}

// ============================================================================
// Layer Composer
// ============================================================================

// layerComposer represents a nested layer inside a parent layer's snapshot.
// The layer paints its own content on its own repaint tasks; the parent only
// replays the layer's last published buffer. No repaint counter bump: the
// parent did not repaint the layer's content.
type layerComposer struct {
	rect    IntRect
	hasRect bool
	sizing  Sizing

	mu       sync.Mutex
	commands []Command
}

func newLayerComposer(rect IntRect, hasRect bool, sizing Sizing, commands []Command) *layerComposer {
	return &layerComposer{rect: rect, hasRect: hasRect, sizing: sizing, commands: commands}
}

func (lc *layerComposer) UpdateLayout(origin IntPoint, size IntSize) {
	lc.rect = IntRect{Origin: origin, Size: size}
	lc.hasRect = true
}

func (lc *layerComposer) LayoutSizing() Sizing { return lc.sizing }

func (lc *layerComposer) Rect() (IntRect, bool) { return lc.rect, lc.hasRect }

func (lc *layerComposer) Repaint(dc *DrawingContext, visibleRect IntRect) {
	if dc.Cancelled() || !lc.hasRect {
		return
	}
	lc.mu.Lock()
	commands := lc.commands
	lc.mu.Unlock()
	dc.AppendCommands(commands)
}

// setCommands swaps in the layer's latest published buffer.
func (lc *layerComposer) setCommands(commands []Command) {
	lc.mu.Lock()
	lc.commands = commands
	lc.mu.Unlock()
}
