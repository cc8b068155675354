package canvas

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ============================================================================
// Render Pool
// ============================================================================

// RenderPool bounds how many layer repaint tasks run concurrently. Tasks
// beyond the limit queue on goroutines blocked in Acquire, which is fine:
// each layer has at most one task in flight.
type RenderPool struct {
	sem *semaphore.Weighted
}

// NewRenderPool returns a pool admitting up to workers concurrent tasks.
func NewRenderPool(workers int) *RenderPool {
	if workers < 1 {
		workers = 1
	}
	return &RenderPool{sem: semaphore.NewWeighted(int64(workers))}
}

// do runs f on its own goroutine once a pool slot is free.
func (p *RenderPool) do(f func()) {
	go func() {
		// Background context: acquisition only fails on cancellation.
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer p.sem.Release(1)
		f()
	}()
}

// ============================================================================
// Layer Canvas Item
// ============================================================================

type layerState int

const (
	layerIdle layerState = iota
	layerScheduled
	layerRunning
)

// LayerCanvasItem is a composition that paints its subtree on background
// repaint tasks instead of forwarding invalidations upward. Descendant
// updates coalesce: at most one task runs at a time, updates arriving while
// one runs are absorbed into exactly one follow-up task, and Close cancels
// cooperatively and joins the in-flight task.
//
// A plain layer publishes into its parent's snapshot and nudges the parent
// to republish. A section layer (SetSection) bypasses composition and sends
// its buffer straight to the draw sink under its own section id.
type LayerCanvasItem struct {
	Composition

	lmu          sync.Mutex
	state        layerState
	needsRepaint bool
	replay       *layerComposer

	cancelled atomic.Bool
	closing   chan struct{}
	closeOnce sync.Once
	tasks     sync.WaitGroup

	// Section publishing; zero sectionID means not a section layer.
	sectionID int

	// Local fallbacks when the layer is not attached under a root.
	localPool  *RenderPool
	localCache *ComposerCache
}

// NewLayerCanvasItem returns an empty layer with an overlap layout.
func NewLayerCanvasItem() *LayerCanvasItem {
	l := &LayerCanvasItem{closing: make(chan struct{})}
	l.initItem(l)
	l.layout = NewOverlapLayout()
	return l
}

// SetSection marks the layer as a direct-to-sink section with the given id.
// Section ids must be positive and unique per draw sink.
func (l *LayerCanvasItem) SetSection(sectionID int) {
	if sectionID <= 0 {
		panic("canvas: section id must be positive")
	}
	l.lmu.Lock()
	l.sectionID = sectionID
	l.lmu.Unlock()
}

// childUpdated absorbs descendant invalidations and schedules a repaint
// task instead of forwarding upward.
func (l *LayerCanvasItem) childUpdated(child CanvasItem) {
	l.scheduleRepaint()
}

// UpdateLayout assigns the layer's rect, lays out children, and schedules a
// repaint of the new arrangement.
func (l *LayerCanvasItem) UpdateLayout(origin IntPoint, size IntSize) {
	l.Composition.UpdateLayout(origin, size)
	l.scheduleRepaint()
}

// scheduleRepaint moves the layer to the scheduled state and launches a
// task, or records that the running task must be followed by one more.
func (l *LayerCanvasItem) scheduleRepaint() {
	if l.cancelled.Load() {
		return
	}
	l.lmu.Lock()
	defer l.lmu.Unlock()
	switch l.state {
	case layerIdle:
		l.state = layerScheduled
		l.launchLocked()
	case layerScheduled:
		// A scheduled task has not captured snapshots yet; it will see this
		// update.
	case layerRunning:
		l.needsRepaint = true
	}
}

// launchLocked starts a repaint task. Caller holds lmu.
func (l *LayerCanvasItem) launchLocked() {
	pool, cache := l.renderResources()
	l.tasks.Add(1)
	pool.do(func() {
		defer l.tasks.Done()
		l.repaintTask(cache)
	})
}

// renderResources resolves the pool and cache from the root, falling back
// to layer-local ones for detached trees (tests, offscreen tools).
func (l *LayerCanvasItem) renderResources() (*RenderPool, *ComposerCache) {
	if root, ok := l.Root().(*RootCanvasItem); ok {
		return root.pool, root.cache
	}
	if l.localPool == nil {
		l.localPool = NewRenderPool(DefaultConfig().RenderWorkers)
		l.localCache = NewComposerCache()
	}
	return l.localPool, l.localCache
}

func (l *LayerCanvasItem) repaintTask(cache *ComposerCache) {
	l.lmu.Lock()
	l.state = layerRunning
	l.lmu.Unlock()

	l.repaintOnce(cache)

	// Consume a coalesced update with exactly one follow-up task.
	l.lmu.Lock()
	if l.needsRepaint && !l.cancelled.Load() {
		l.needsRepaint = false
		l.state = layerScheduled
		l.launchLocked()
	} else {
		l.needsRepaint = false
		l.state = layerIdle
	}
	l.lmu.Unlock()
}

// repaintOnce builds the content snapshot, paints it, and publishes unless
// cancelled.
func (l *LayerCanvasItem) repaintOnce(cache *ComposerCache) {
	if l.cancelled.Load() {
		return
	}
	size, ok := l.self.CanvasSize()
	if !ok || size.Width <= 0 || size.Height <= 0 {
		return
	}
	composer := l.Composition.makeComposer(cache)
	if composer == nil {
		return
	}
	composer.UpdateLayout(IntPoint{}, size)

	dc := newCancellableDrawingContext(&l.cancelled)
	composer.Repaint(dc, IntRect{Size: size})
	if l.cancelled.Load() {
		return
	}
	commands := make([]Command, dc.Len())
	copy(commands, dc.Commands())
	l.publish(commands)
}

// publish delivers a finished buffer. Section layers go straight to the
// sink; plain layers refresh the parent's replay snapshot and nudge the
// parent to republish.
func (l *LayerCanvasItem) publish(commands []Command) {
	if p, ok := l.self.(bufferPublisher); ok {
		p.publishBuffer(commands)
		return
	}
	l.lmu.Lock()
	sectionID := l.sectionID
	replay := l.replay
	l.lmu.Unlock()

	if sectionID > 0 {
		if root, ok := l.Root().(*RootCanvasItem); ok {
			// Hold section output until the root's first layout pass; the
			// sink cannot place a section before the tree has geometry.
			select {
			case <-root.layoutReadyChan():
			case <-l.closing:
				return
			}
			if l.cancelled.Load() {
				return
			}
			rect, ok := l.self.CanvasRect()
			if ok {
				global := MapToGlobal(l.Container(), rect.Origin)
				root.sink.DrawSection(sectionID, commands, IntRect{Origin: global, Size: rect.Size})
			}
		}
		return
	}
	if replay != nil {
		replay.setCommands(commands)
	}
	if container := l.Container(); container != nil {
		container.childUpdated(l.self)
	}
}

// makeComposer returns the layer's replay snapshot for the parent. The
// parent replays the last published buffer; it never repaints the layer's
// subtree itself. Section layers contribute nothing to the parent.
func (l *LayerCanvasItem) makeComposer(cache *ComposerCache) Composer {
	l.lmu.Lock()
	defer l.lmu.Unlock()
	if l.sectionID > 0 {
		rect, hasRect := l.self.CanvasRect()
		return newLayerComposer(rect, hasRect, l.self.LayoutSizing(), nil)
	}
	if l.replay == nil {
		rect, hasRect := l.self.CanvasRect()
		l.replay = newLayerComposer(rect, hasRect, l.self.LayoutSizing(), nil)
	}
	return l.replay
}

// Close cancels any in-flight repaint, joins it, releases the section, and
// closes the subtree.
func (l *LayerCanvasItem) Close() {
	l.cancelled.Store(true)
	l.closeOnce.Do(func() { close(l.closing) })
	l.tasks.Wait()
	l.lmu.Lock()
	sectionID := l.sectionID
	l.sectionID = 0
	l.lmu.Unlock()
	if sectionID > 0 {
		if root, ok := l.Root().(*RootCanvasItem); ok {
			root.sink.RemoveSection(sectionID)
		}
	}
	l.Composition.Close()
}
