package canvas

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recordingSink captures published buffers and sections.
type recordingSink struct {
	mu       sync.Mutex
	draws    int
	last     []Command
	sections map[int]recordedSection
	removed  []int
}

type recordedSection struct {
	commands []Command
	rect     IntRect
}

func newRecordingSink() *recordingSink {
	return &recordingSink{sections: make(map[int]recordedSection)}
}

func (s *recordingSink) Draw(commands []Command) {
	s.mu.Lock()
	s.draws++
	s.last = commands
	s.mu.Unlock()
}

func (s *recordingSink) DrawSection(sectionID int, commands []Command, rect IntRect) {
	s.mu.Lock()
	s.sections[sectionID] = recordedSection{commands: commands, rect: rect}
	s.mu.Unlock()
}

func (s *recordingSink) RemoveSection(sectionID int) {
	s.mu.Lock()
	s.removed = append(s.removed, sectionID)
	s.mu.Unlock()
}

func (s *recordingSink) drawCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draws
}

func (s *recordingSink) lastCommands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *recordingSink) section(id int) (recordedSection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	section, ok := s.sections[id]
	return section, ok
}

func (s *recordingSink) removedSections() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.removed...)
}

func newTestRoot(t *testing.T) (*RootCanvasItem, *recordingSink) {
	t.Helper()
	sink := newRecordingSink()
	cfg := DefaultConfig()
	cfg.MaxFrameRate = 100000 // no pacing in tests
	root := NewRootCanvasItem(sink, cfg)
	t.Cleanup(root.Close)
	return root, sink
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// gatedItem blocks inside its paint function until released.
type gatedItem struct {
	ItemBase
	started chan struct{}
	gate    chan struct{}
	paints  atomic.Int64
}

func newGatedItem() *gatedItem {
	g := &gatedItem{started: make(chan struct{}, 16), gate: make(chan struct{})}
	g.initItem(g)
	return g
}

func (g *gatedItem) makeComposer(cache *ComposerCache) Composer {
	rect, hasRect := g.self.CanvasRect()
	return newLeafComposer(g.repaintCounter(), rect, hasRect, g.self.LayoutSizing(),
		func(dc *DrawingContext, size IntSize) {
			g.paints.Add(1)
			select {
			case g.started <- struct{}{}:
			default:
			}
			<-g.gate
			dc.SetFillStyle("#000000")
			dc.BeginPath()
			dc.Rect(0, 0, float64(size.Width), float64(size.Height))
			dc.Fill()
		})
}

func TestRootPublishesAfterSizeChange(t *testing.T) {
	root, sink := newTestRoot(t)
	root.AddItem(NewBackgroundCanvasItem("#ff0000"))
	root.HandleSizeChanged(IntSize{Width: 200, Height: 100})

	waitFor(t, "first draw", func() bool { return sink.drawCount() > 0 })
	commands := sink.lastCommands()
	if len(commands) == 0 {
		t.Fatal("published buffer is empty")
	}
	found := false
	for _, cmd := range commands {
		if cmd.Op == OpFillStyle && cmd.Style == "#ff0000" {
			found = true
		}
	}
	if !found {
		t.Error("published buffer missing the background fill")
	}
}

func TestUpdatesDuringRepaintCoalesceToOneTask(t *testing.T) {
	root, _ := newTestRoot(t)
	item := newGatedItem()
	root.AddItem(item)
	root.HandleSizeChanged(IntSize{Width: 100, Height: 100})

	// First repaint task is now blocked inside the paint function.
	waitFor(t, "first paint to start", func() bool {
		select {
		case <-item.started:
			return true
		default:
			return false
		}
	})

	for i := 0; i < 5; i++ {
		item.Update()
	}
	close(item.gate)

	// The five coalesced updates produce exactly one follow-up paint.
	waitFor(t, "follow-up paint", func() bool { return item.paints.Load() == 2 })
	time.Sleep(20 * time.Millisecond)
	if got := item.paints.Load(); got != 2 {
		t.Errorf("paints = %d, want 2 (initial + one coalesced follow-up)", got)
	}
}

func TestCloseStopsScheduling(t *testing.T) {
	root, sink := newTestRoot(t)
	item := NewBackgroundCanvasItem("#00ff00")
	root.AddItem(item)
	root.HandleSizeChanged(IntSize{Width: 100, Height: 100})
	waitFor(t, "first draw", func() bool { return sink.drawCount() > 0 })

	root.Close()
	before := sink.drawCount()
	item.Update()
	time.Sleep(20 * time.Millisecond)
	if got := sink.drawCount(); got != before {
		t.Errorf("draws after close = %d, want %d", got, before)
	}
}

func TestCloseWaitsForBlockedRepaint(t *testing.T) {
	root, sink := newTestRoot(t)
	item := newGatedItem()
	root.AddItem(item)
	root.HandleSizeChanged(IntSize{Width: 100, Height: 100})

	waitFor(t, "paint to start", func() bool {
		select {
		case <-item.started:
			return true
		default:
			return false
		}
	})

	closed := make(chan struct{})
	go func() {
		root.Close()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("Close returned while a repaint task was still painting")
	case <-time.After(50 * time.Millisecond):
	}

	close(item.gate)
	waitFor(t, "Close to return", func() bool {
		select {
		case <-closed:
			return true
		default:
			return false
		}
	})
	// The task saw the cancellation, so nothing was published.
	if got := sink.drawCount(); got != 0 {
		t.Errorf("draws after cancelled repaint = %d, want 0", got)
	}
}

func TestNestedLayerReplaysIntoParentBuffer(t *testing.T) {
	root, sink := newTestRoot(t)
	layer := NewLayerCanvasItem()
	layer.AddItem(NewBackgroundCanvasItem("#123456"))
	root.AddItem(layer)
	root.HandleSizeChanged(IntSize{Width: 100, Height: 100})

	waitFor(t, "layer content in root buffer", func() bool {
		for _, cmd := range sink.lastCommands() {
			if cmd.Op == OpFillStyle && cmd.Style == "#123456" {
				return true
			}
		}
		return false
	})
}

func TestSectionLayerPublishesAfterFirstLayout(t *testing.T) {
	root, sink := newTestRoot(t)
	section := NewLayerCanvasItem()
	section.SetSection(7)
	section.AddItem(NewBackgroundCanvasItem("#445566"))
	root.AddItem(section)
	root.HandleSizeChanged(IntSize{Width: 200, Height: 100})

	waitFor(t, "section publish", func() bool {
		s, ok := sink.section(7)
		return ok && len(s.commands) > 0
	})
	s, _ := sink.section(7)
	if s.rect != MakeRect(0, 0, 200, 100) {
		t.Errorf("section rect = %v, want full root", s.rect)
	}

	root.Close()
	removed := sink.removedSections()
	if len(removed) != 1 || removed[0] != 7 {
		t.Errorf("removed sections = %v, want [7]", removed)
	}
}

func TestRenderPoolBoundsConcurrency(t *testing.T) {
	pool := NewRenderPool(2)
	var running, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		pool.do(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
	}
	wg.Wait()
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrent tasks = %d, want <= 2", got)
	}
}
