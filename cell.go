package canvas

import "image"

// ============================================================================
// Cells
// ============================================================================

// CellStyle is the display state a cell is painted with.
type CellStyle uint8

const (
	CellDisabled CellStyle = 1 << iota
	CellChecked
	CellHover
	CellActive
)

func (s CellStyle) Disabled() bool { return s&CellDisabled != 0 }
func (s CellStyle) Checked() bool  { return s&CellChecked != 0 }
func (s CellStyle) Hover() bool    { return s&CellHover != 0 }
func (s CellStyle) Active() bool   { return s&CellActive != 0 }

// Cell paints content into a bounds rect without owning layout or events.
// The same cell value can back several items (a thumbnail shown in a grid
// and in a header); painted output is shared through the composer cache.
// Implementations must be comparable; their identity keys the cache.
type Cell interface {
	PaintCell(dc *DrawingContext, bounds IntRect, style CellStyle)
}

// cellPaintKey keys shared cell output by cell identity, size, and style.
type cellPaintKey struct {
	cell  Cell
	size  IntSize
	style CellStyle
}

// CellCanvasItem hosts a cell in the canvas tree and tracks hover and
// active state for it.
type CellCanvasItem struct {
	ItemBase
	cell  Cell
	style CellStyle
}

// NewCellCanvasItem returns an item painting cell.
func NewCellCanvasItem(cell Cell) *CellCanvasItem {
	c := &CellCanvasItem{cell: cell}
	c.initItem(c)
	return c
}

// Cell returns the hosted cell.
func (c *CellCanvasItem) Cell() Cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cell
}

// SetCell swaps the hosted cell.
func (c *CellCanvasItem) SetCell(cell Cell) {
	c.mu.Lock()
	c.cell = cell
	c.mu.Unlock()
	c.self.Update()
}

// SetChecked toggles the checked style bit.
func (c *CellCanvasItem) SetChecked(checked bool) {
	c.setStyleBit(CellChecked, checked)
}

func (c *CellCanvasItem) setStyleBit(bit CellStyle, on bool) {
	c.mu.Lock()
	style := c.style
	if on {
		style |= bit
	} else {
		style &^= bit
	}
	changed := style != c.style
	c.style = style
	c.mu.Unlock()
	if changed {
		c.self.Update()
	}
}

func (c *CellCanvasItem) WantsMouseEvents() bool { return true }

func (c *CellCanvasItem) MouseEntered() bool {
	c.setStyleBit(CellHover, true)
	return true
}

func (c *CellCanvasItem) MouseExited() bool {
	c.setStyleBit(CellHover, false)
	c.setStyleBit(CellActive, false)
	return true
}

func (c *CellCanvasItem) MousePressed(p IntPoint, mods Modifiers) bool {
	c.setStyleBit(CellActive, true)
	return true
}

func (c *CellCanvasItem) MouseReleased(p IntPoint, mods Modifiers) bool {
	c.setStyleBit(CellActive, false)
	return true
}

func (c *CellCanvasItem) makeComposer(cache *ComposerCache) Composer {
	c.mu.Lock()
	cell := c.cell
	style := c.style
	c.mu.Unlock()
	if !c.self.Enabled() {
		style |= CellDisabled
	}
	rect, hasRect := c.self.CanvasRect()
	return newLeafComposer(c.repaintCounter(), rect, hasRect, c.self.LayoutSizing(),
		func(dc *DrawingContext, size IntSize) {
			if cell == nil {
				return
			}
			if cache == nil {
				cell.PaintCell(dc, IntRect{Size: size}, style)
				return
			}
			key := cellPaintKey{cell: cell, size: size, style: style}
			shared := cache.DrawingContext(key, func() *DrawingContext {
				buffer := NewDrawingContext()
				cell.PaintCell(buffer, IntRect{Size: size}, style)
				return buffer
			})
			dc.Append(shared)
		})
}

// ============================================================================
// Bitmap Cell
// ============================================================================

// BitmapCell letterboxes an image into its bounds.
type BitmapCell struct {
	bitmap image.Image
}

// NewBitmapCell returns a cell painting bitmap.
func NewBitmapCell(bitmap image.Image) *BitmapCell {
	return &BitmapCell{bitmap: bitmap}
}

// Bitmap returns the cell's image.
func (b *BitmapCell) Bitmap() image.Image { return b.bitmap }

func (b *BitmapCell) PaintCell(dc *DrawingContext, bounds IntRect, style CellStyle) {
	if b.bitmap == nil || bounds.IsEmpty() {
		return
	}
	imageBounds := b.bitmap.Bounds()
	fitted := FitToSize(bounds, IntSize{Width: imageBounds.Dx(), Height: imageBounds.Dy()})
	if fitted.IsEmpty() {
		return
	}
	dc.DrawImage(b.bitmap,
		float64(fitted.Left()), float64(fitted.Top()),
		float64(fitted.Size.Width), float64(fitted.Size.Height))
	if style.Disabled() {
		dc.SetFillStyle("rgba(255, 255, 255, 0.5)")
		dc.BeginPath()
		dc.Rect(float64(fitted.Left()), float64(fitted.Top()),
			float64(fitted.Size.Width), float64(fitted.Size.Height))
		dc.Fill()
	}
	if style.Hover() || style.Active() {
		dc.SetStrokeStyle("#2060c0")
		dc.SetLineWidth(2)
		dc.BeginPath()
		dc.Rect(float64(bounds.Left())+1, float64(bounds.Top())+1,
			float64(bounds.Size.Width)-2, float64(bounds.Size.Height)-2)
		dc.Stroke()
	}
}
