package canvas

import "sync"

// Pooled slice allocation for canvas item lists. Hit testing and layout
// snapshot children repeatedly; pooling keeps those per-event and per-frame
// copies off the garbage collector.

// itemSlicePool pools []CanvasItem slices, bucketed loosely by capacity.
var itemSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]CanvasItem, 0, 16)
	},
}

// acquireItemSlice gets an item slice with len == n from the pool. Caller
// must call releaseItemSlice when done.
func acquireItemSlice(n int) []CanvasItem {
	slice := itemSlicePool.Get().([]CanvasItem)
	if cap(slice) < n {
		itemSlicePool.Put(slice[:0])
		return make([]CanvasItem, n, n*2)
	}
	return slice[:n]
}

// releaseItemSlice returns a slice to the pool. The slice must not be used
// after release.
func releaseItemSlice(slice []CanvasItem) {
	if slice == nil {
		return
	}
	for i := range slice {
		slice[i] = nil
	}
	// Cap pooled capacity to avoid retaining one-off giants.
	if cap(slice) <= 256 {
		itemSlicePool.Put(slice[:0])
	}
}
