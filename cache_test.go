package canvas

import "testing"

func TestComposerCacheCalculatesOncePerKey(t *testing.T) {
	cache := NewComposerCache()
	calls := 0
	calculate := func() *DrawingContext {
		calls++
		dc := NewDrawingContext()
		dc.SetFillStyle("#abcdef")
		return dc
	}

	first := cache.DrawingContext("key", calculate)
	second := cache.DrawingContext("key", calculate)
	if calls != 1 {
		t.Errorf("calculate calls = %d, want 1", calls)
	}
	if first != second {
		t.Error("cache returned different values for the same key")
	}
}

func TestComposerCacheDistinctKeys(t *testing.T) {
	cache := NewComposerCache()
	a := cache.DrawingContext("a", NewDrawingContext)
	b := cache.DrawingContext("b", NewDrawingContext)
	if a == b {
		t.Error("distinct keys returned the same value")
	}
	if got := cache.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
}

func TestComposerCacheNilCalculate(t *testing.T) {
	cache := NewComposerCache()
	if got := cache.DrawingContext("missing", func() *DrawingContext { return nil }); got != nil {
		t.Errorf("nil calculation = %v, want nil", got)
	}
	if got := cache.Len(); got != 0 {
		t.Errorf("Len after nil calculation = %d, want 0", got)
	}
}

func TestComposerCacheStructKeys(t *testing.T) {
	cache := NewComposerCache()
	type key struct {
		id    int
		size  IntSize
		style CellStyle
	}
	a := cache.DrawingContext(key{1, IntSize{10, 10}, CellHover}, NewDrawingContext)
	b := cache.DrawingContext(key{1, IntSize{10, 10}, CellHover}, NewDrawingContext)
	c := cache.DrawingContext(key{1, IntSize{10, 10}, 0}, NewDrawingContext)
	if a != b {
		t.Error("equal struct keys returned different values")
	}
	if a == c {
		t.Error("different styles share a cache entry")
	}
}
