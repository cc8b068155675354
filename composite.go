package canvas

import "sync"

// ============================================================================
// Composition
// ============================================================================

// Composition is a canvas item that owns child items and arranges them with
// a layout strategy. Children are painted in list order, so later children
// appear frontmost. Child origins are relative to the composition.
//
// A composition owns its children: RemoveItem and Close close them. Items
// can belong to at most one container at a time.
type Composition struct {
	ItemBase

	cmu      sync.Mutex
	children []CanvasItem
	layout   Layout
}

// NewComposition returns an empty composition with an overlap layout.
func NewComposition() *Composition {
	c := &Composition{layout: NewOverlapLayout()}
	c.initItem(c)
	return c
}

// NewRowComposition returns an empty composition with a row layout.
func NewRowComposition() *Composition {
	c := NewComposition()
	c.layout = NewRowLayout()
	return c
}

// NewColumnComposition returns an empty composition with a column layout.
func NewColumnComposition() *Composition {
	c := NewComposition()
	c.layout = NewColumnLayout()
	return c
}

// NewGridComposition returns an empty composition with a cols x rows grid
// layout. Children must be added with AddItemAt.
func NewGridComposition(cols, rows int) *Composition {
	c := NewComposition()
	c.layout = NewGridLayout(cols, rows)
	return c
}

// Layout returns the composition's layout strategy.
func (c *Composition) Layout() Layout {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	return c.layout
}

// SetLayout replaces the layout strategy. A grid layout may only be
// installed on an empty composition.
func (c *Composition) SetLayout(layout Layout) {
	c.cmu.Lock()
	if _, isGrid := layout.(*GridLayout); isGrid && len(c.children) > 0 {
		c.cmu.Unlock()
		panic("canvas: grid layout requires an empty composition")
	}
	c.layout = layout
	c.cmu.Unlock()
	c.self.RefreshLayout()
	c.self.Update()
}

// Children returns a copy of the child list in back-to-front order.
func (c *Composition) Children() []CanvasItem {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	children := make([]CanvasItem, len(c.children))
	copy(children, c.children)
	return children
}

// InsertItem inserts item at index. The item must not already have a
// container. Panics under a grid layout; grids require AddItemAt.
func (c *Composition) InsertItem(index int, item CanvasItem) {
	if item.Container() != nil {
		panic("canvas: item already has a container")
	}
	c.cmu.Lock()
	if _, isGrid := c.layout.(*GridLayout); isGrid {
		c.cmu.Unlock()
		panic("canvas: grid composition requires AddItemAt")
	}
	c.insertLocked(index, item)
	c.cmu.Unlock()
	item.setContainer(c.self)
	c.self.RefreshLayout()
	c.self.Update()
}

// AddItem appends item to the child list.
func (c *Composition) AddItem(item CanvasItem) {
	c.InsertItem(len(c.Children()), item)
}

// AddItemAt places item at the given grid position. The composition must
// use a grid layout.
func (c *Composition) AddItemAt(item CanvasItem, pos GridPos) {
	if item.Container() != nil {
		panic("canvas: item already has a container")
	}
	c.cmu.Lock()
	grid, ok := c.layout.(*GridLayout)
	if !ok {
		c.cmu.Unlock()
		panic("canvas: AddItemAt requires a grid layout")
	}
	index := len(c.children)
	grid.insertPosition(index, pos)
	c.insertLocked(index, item)
	c.cmu.Unlock()
	item.setContainer(c.self)
	c.self.RefreshLayout()
	c.self.Update()
}

func (c *Composition) insertLocked(index int, item CanvasItem) {
	if index < 0 || index > len(c.children) {
		panic("canvas: insert index out of range")
	}
	c.children = append(c.children, nil)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = item
}

// InsertSpacing inserts a fixed spacer sized along the layout's primary
// axis and returns it.
func (c *Composition) InsertSpacing(index, spacing int) CanvasItem {
	item := c.Layout().SpacingItem(spacing)
	c.InsertItem(index, item)
	return item
}

// AddSpacing appends a fixed spacer and returns it.
func (c *Composition) AddSpacing(spacing int) CanvasItem {
	item := c.Layout().SpacingItem(spacing)
	c.AddItem(item)
	return item
}

// InsertStretch inserts a stretch item that absorbs extra space and returns
// it.
func (c *Composition) InsertStretch(index int) CanvasItem {
	item := c.Layout().StretchItem()
	c.InsertItem(index, item)
	return item
}

// AddStretch appends a stretch item and returns it.
func (c *Composition) AddStretch() CanvasItem {
	item := c.Layout().StretchItem()
	c.AddItem(item)
	return item
}

// RemoveItem removes and closes the given child.
func (c *Composition) RemoveItem(item CanvasItem) {
	c.removeItem(item, true)
}

// removeItem detaches item; closes it when close is set.
func (c *Composition) removeItem(item CanvasItem, close bool) {
	c.cmu.Lock()
	index := -1
	for i, child := range c.children {
		if child == item {
			index = i
			break
		}
	}
	if index < 0 {
		c.cmu.Unlock()
		return
	}
	c.children = append(c.children[:index], c.children[index+1:]...)
	if grid, ok := c.layout.(*GridLayout); ok {
		grid.removePosition(index)
	}
	c.cmu.Unlock()
	item.setContainer(nil)
	if close {
		item.Close()
	}
	c.self.RefreshLayout()
	c.self.Update()
}

// RemoveAllItems removes and closes every child.
func (c *Composition) RemoveAllItems() {
	for _, child := range c.Children() {
		c.removeItem(child, true)
	}
}

// ReplaceItem swaps newItem into oldItem's position. oldItem is detached
// and returned without being closed; the caller assumes ownership.
func (c *Composition) ReplaceItem(oldItem, newItem CanvasItem) CanvasItem {
	if newItem.Container() != nil {
		panic("canvas: item already has a container")
	}
	c.cmu.Lock()
	index := -1
	for i, child := range c.children {
		if child == oldItem {
			index = i
			break
		}
	}
	if index < 0 {
		c.cmu.Unlock()
		panic("canvas: replace target is not a child")
	}
	c.children[index] = newItem
	c.cmu.Unlock()
	oldItem.setContainer(nil)
	newItem.setContainer(c.self)
	c.self.RefreshLayout()
	c.self.Update()
	return oldItem
}

// WrapItem replaces the direct child item with wrapper and moves item into
// wrapper. Used to introduce an intermediate container (a layer, a scroll
// area) without disturbing siblings.
func (c *Composition) WrapItem(item CanvasItem, wrapper *Composition) {
	c.ReplaceItem(item, wrapper)
	wrapper.AddItem(item)
}

// UnwrapItem reverses WrapItem: wrapper must be a direct child composition
// with exactly one child; that child takes wrapper's place and wrapper is
// closed.
func (c *Composition) UnwrapItem(wrapper *Composition) {
	children := wrapper.Children()
	if len(children) != 1 {
		panic("canvas: unwrap requires a wrapper with exactly one child")
	}
	inner := children[0]
	wrapper.removeItem(inner, false)
	c.ReplaceItem(wrapper, inner)
	wrapper.Close()
}

// Close closes all children in order, then the composition itself.
func (c *Composition) Close() {
	c.cmu.Lock()
	children := c.children
	c.children = nil
	c.cmu.Unlock()
	for _, child := range children {
		// Close before detaching: section layers need the root reachable to
		// release their section.
		child.Close()
		child.setContainer(nil)
	}
	c.ItemBase.Close()
}

// LayoutSizing aggregates the layout's content sizing, overridden by the
// composition's own sizing. A collapsible composition with no visible
// children collapses to zero.
func (c *Composition) LayoutSizing() Sizing {
	items, anyVisible := c.layoutItems()
	sizing := c.Layout().ContentSizing(items)
	own := c.Sizing()
	sizing.overrideWith(own)
	sizing.Collapsible = own.Collapsible
	if own.Collapsible && !anyVisible {
		sizing.collapse()
	}
	return sizing
}

// layoutItems returns the children as layout slots, nil for invisible
// children so grid positions stay aligned with the child list.
func (c *Composition) layoutItems() ([]LayoutItem, bool) {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	items := make([]LayoutItem, len(c.children))
	anyVisible := false
	for i, child := range c.children {
		if child.Visible() {
			items[i] = child
			anyVisible = true
		}
	}
	return items, anyVisible
}

// UpdateLayout assigns the composition's rect and lays out visible children
// in local coordinates.
func (c *Composition) UpdateLayout(origin IntPoint, size IntSize) {
	c.ItemBase.UpdateLayout(origin, size)
	items, _ := c.layoutItems()
	c.Layout().Layout(IntPoint{}, size, items)
}

// ItemsAtPoint returns the items under p, frontmost first, ending with the
// composition itself.
func (c *Composition) ItemsAtPoint(p IntPoint) []CanvasItem {
	bounds, ok := c.self.CanvasBounds()
	if !ok || !c.self.Visible() || !bounds.Contains(p) {
		return nil
	}
	c.cmu.Lock()
	children := acquireItemSlice(len(c.children))
	copy(children, c.children)
	c.cmu.Unlock()

	var result []CanvasItem
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		if !child.Visible() {
			continue
		}
		childOrigin, ok := child.CanvasOrigin()
		if !ok {
			continue
		}
		result = append(result, child.ItemsAtPoint(p.Sub(childOrigin))...)
	}
	releaseItemSlice(children)
	return append(result, c.self)
}

func (c *Composition) makeComposer(cache *ComposerCache) Composer {
	c.cmu.Lock()
	layout := c.layout
	if cloner, ok := layout.(layoutCloner); ok {
		// Snapshot layouts with mutable state; the live layout changes as
		// children come and go while an older composer may still be painting.
		layout = cloner.cloneLayout()
	}
	children := make([]CanvasItem, len(c.children))
	copy(children, c.children)
	c.cmu.Unlock()

	composers := make([]Composer, len(children))
	for i, child := range children {
		if !child.Visible() {
			continue
		}
		composer := child.GetComposer(cache)
		if composer == nil {
			return nil
		}
		composers[i] = composer
	}
	rect, hasRect := c.self.CanvasRect()
	return newCompositionComposer(c.repaintCounter(), rect, hasRect, c.self.LayoutSizing(), layout, composers)
}
