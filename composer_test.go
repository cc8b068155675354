package canvas

import (
	"sync/atomic"
	"testing"
)

// paintCounter is a leaf item whose paint function counts invocations.
type paintCounter struct {
	ItemBase
	paints atomic.Int64
	panics bool
}

func newPaintCounter() *paintCounter {
	p := &paintCounter{}
	p.initItem(p)
	return p
}

func (p *paintCounter) makeComposer(cache *ComposerCache) Composer {
	rect, hasRect := p.self.CanvasRect()
	return newLeafComposer(p.repaintCounter(), rect, hasRect, p.self.LayoutSizing(),
		func(dc *DrawingContext, size IntSize) {
			p.paints.Add(1)
			if p.panics {
				panic("paint failure")
			}
			dc.SetFillStyle("#123456")
			dc.BeginPath()
			dc.Rect(0, 0, float64(size.Width), float64(size.Height))
			dc.Fill()
		})
}

func TestGetComposerMemoizesUntilUpdate(t *testing.T) {
	item := NewBackgroundCanvasItem("#ff0000")
	item.UpdateLayout(IntPoint{}, IntSize{Width: 10, Height: 10})
	cache := NewComposerCache()

	first := item.GetComposer(cache)
	second := item.GetComposer(cache)
	if first != second {
		t.Error("GetComposer returned a new composer without an update")
	}

	item.Update()
	third := item.GetComposer(cache)
	if third == first {
		t.Error("GetComposer returned a stale composer after Update")
	}
}

func TestLeafComposerPaintsOncePerSize(t *testing.T) {
	item := newPaintCounter()
	item.UpdateLayout(IntPoint{}, IntSize{Width: 20, Height: 20})
	composer := item.GetComposer(nil)

	dc := NewDrawingContext()
	composer.UpdateLayout(IntPoint{}, IntSize{Width: 20, Height: 20})
	composer.Repaint(dc, MakeRect(0, 0, 20, 20))
	composer.Repaint(dc, MakeRect(0, 0, 20, 20))
	if got := item.paints.Load(); got != 1 {
		t.Errorf("paints = %d, want 1 (cached second repaint)", got)
	}
	if got := item.RepaintCount(); got != 1 {
		t.Errorf("RepaintCount = %d, want 1", got)
	}

	composer.UpdateLayout(IntPoint{}, IntSize{Width: 40, Height: 20})
	composer.Repaint(dc, MakeRect(0, 0, 40, 20))
	if got := item.paints.Load(); got != 2 {
		t.Errorf("paints after resize = %d, want 2", got)
	}
}

func TestCompositionComposerSkipsInvisibleRegion(t *testing.T) {
	comp := NewRowComposition()
	left := newPaintCounter()
	leftSizing := left.Sizing()
	leftSizing.SetFixedSize(IntSize{Width: 50, Height: 50})
	left.SetSizing(leftSizing)
	right := newPaintCounter()
	rightSizing := right.Sizing()
	rightSizing.SetFixedSize(IntSize{Width: 50, Height: 50})
	right.SetSizing(rightSizing)
	comp.AddItem(left)
	comp.AddItem(right)
	comp.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 50})

	composer := comp.GetComposer(NewComposerCache())
	if composer == nil {
		t.Fatal("composition composer is nil")
	}
	composer.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 50})

	dc := NewDrawingContext()
	composer.Repaint(dc, MakeRect(0, 0, 40, 50))
	if got := left.paints.Load(); got != 1 {
		t.Errorf("visible child paints = %d, want 1", got)
	}
	if got := right.paints.Load(); got != 0 {
		t.Errorf("offscreen child paints = %d, want 0", got)
	}
}

// layoutCounter wraps a composer and counts layout assignments.
type layoutCounter struct {
	Composer
	layouts int
}

func (l *layoutCounter) UpdateLayout(origin IntPoint, size IntSize) {
	l.layouts++
	l.Composer.UpdateLayout(origin, size)
}

func TestCompositionComposerSkipsRedundantRelayout(t *testing.T) {
	child := newPaintCounter()
	child.UpdateLayout(IntPoint{}, IntSize{Width: 10, Height: 10})
	counter := &layoutCounter{Composer: child.GetComposer(nil)}

	var repaints atomic.Int64
	comp := newCompositionComposer(&repaints, IntRect{}, false, Sizing{}, NewRowLayout(), []Composer{counter})

	comp.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 50})
	comp.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 50})
	if counter.layouts != 1 {
		t.Errorf("child layouts after an identical re-layout = %d, want 1", counter.layouts)
	}

	comp.UpdateLayout(IntPoint{}, IntSize{Width: 120, Height: 50})
	if counter.layouts != 2 {
		t.Errorf("child layouts after a resize = %d, want 2", counter.layouts)
	}
}

func TestPaintPanicUnwindsPartialOutput(t *testing.T) {
	item := newPaintCounter()
	item.panics = true
	item.UpdateLayout(IntPoint{}, IntSize{Width: 20, Height: 20})
	composer := item.GetComposer(nil)
	composer.UpdateLayout(IntPoint{}, IntSize{Width: 20, Height: 20})

	dc := NewDrawingContext()
	dc.SetFillStyle("#ffffff")
	before := dc.Len()
	composer.Repaint(dc, MakeRect(0, 0, 20, 20))
	if dc.Len() != before {
		t.Errorf("commands after panicking paint = %d, want %d", dc.Len(), before)
	}
	if got := item.RepaintCount(); got != 0 {
		t.Errorf("RepaintCount = %d, want 0 for failed paint", got)
	}
}

func TestCancelledRepaintStops(t *testing.T) {
	item := newPaintCounter()
	item.UpdateLayout(IntPoint{}, IntSize{Width: 20, Height: 20})
	composer := item.GetComposer(nil)
	composer.UpdateLayout(IntPoint{}, IntSize{Width: 20, Height: 20})

	var cancel atomic.Bool
	cancel.Store(true)
	dc := newCancellableDrawingContext(&cancel)
	composer.Repaint(dc, MakeRect(0, 0, 20, 20))
	if got := item.paints.Load(); got != 0 {
		t.Errorf("paints on cancelled context = %d, want 0", got)
	}
	if dc.Len() != 0 {
		t.Errorf("commands on cancelled context = %d, want 0", dc.Len())
	}
}

func TestCompositionComposerTranslatesChildren(t *testing.T) {
	comp := NewRowComposition()
	left := NewBackgroundCanvasItem("#ff0000")
	leftSizing := left.Sizing()
	leftSizing.SetFixedSize(IntSize{Width: 50, Height: 50})
	left.SetSizing(leftSizing)
	right := NewBackgroundCanvasItem("#00ff00")
	rightSizing := right.Sizing()
	rightSizing.SetFixedSize(IntSize{Width: 50, Height: 50})
	right.SetSizing(rightSizing)
	comp.AddItem(left)
	comp.AddItem(right)
	comp.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 50})

	composer := comp.GetComposer(NewComposerCache())
	composer.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 50})
	dc := NewDrawingContext()
	composer.Repaint(dc, MakeRect(0, 0, 100, 50))

	var translates []float64
	for _, cmd := range dc.Commands() {
		if cmd.Op == OpTranslate {
			translates = append(translates, cmd.X)
		}
	}
	if len(translates) != 2 || translates[0] != 0 || translates[1] != 50 {
		t.Errorf("translate offsets = %v, want [0, 50]", translates)
	}
}
