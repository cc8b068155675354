package canvas

import (
	"image"
	"testing"
)

// countingCell counts paints so cache sharing is observable.
type countingCell struct {
	paints *int
}

func (c countingCell) PaintCell(dc *DrawingContext, bounds IntRect, style CellStyle) {
	*c.paints++
	fill := "#dddddd"
	if style.Checked() {
		fill = "#2060c0"
	}
	dc.SetFillStyle(fill)
	dc.BeginPath()
	dc.Rect(float64(bounds.Left()), float64(bounds.Top()),
		float64(bounds.Size.Width), float64(bounds.Size.Height))
	dc.Fill()
}

func paintCellItem(item *CellCanvasItem, cache *ComposerCache, size IntSize) []Command {
	item.UpdateLayout(IntPoint{}, size)
	composer := item.GetComposer(cache)
	composer.UpdateLayout(IntPoint{}, size)
	dc := NewDrawingContext()
	composer.Repaint(dc, IntRect{Size: size})
	return dc.Commands()
}

func TestCellItemsShareCachedPaint(t *testing.T) {
	paints := 0
	cell := countingCell{paints: &paints}
	cache := NewComposerCache()
	size := IntSize{Width: 40, Height: 40}

	// Two items hosting the same cell share one painted buffer.
	first := paintCellItem(NewCellCanvasItem(cell), cache, size)
	second := paintCellItem(NewCellCanvasItem(cell), cache, size)
	if paints != 1 {
		t.Errorf("cell paints = %d, want 1 shared paint", paints)
	}
	if len(first) == 0 || len(first) != len(second) {
		t.Errorf("shared output lengths = %d and %d, want equal and non-empty", len(first), len(second))
	}
}

func TestCellStyleAndSizeKeySeparately(t *testing.T) {
	paints := 0
	cell := countingCell{paints: &paints}
	cache := NewComposerCache()

	item := NewCellCanvasItem(cell)
	paintCellItem(item, cache, IntSize{Width: 40, Height: 40})
	item.SetChecked(true)
	paintCellItem(item, cache, IntSize{Width: 40, Height: 40})
	paintCellItem(item, cache, IntSize{Width: 80, Height: 40})
	if paints != 3 {
		t.Errorf("cell paints = %d, want 3 (per style and size)", paints)
	}
}

func TestCellPaintsDirectlyWithoutCache(t *testing.T) {
	paints := 0
	item := NewCellCanvasItem(countingCell{paints: &paints})
	commands := paintCellItem(item, nil, IntSize{Width: 40, Height: 40})
	if paints != 1 || len(commands) == 0 {
		t.Errorf("paints = %d, commands = %d; want a direct paint", paints, len(commands))
	}
}

func TestCellHoverAndActiveStyleBits(t *testing.T) {
	item := NewCellCanvasItem(countingCell{paints: new(int)})

	item.MouseEntered()
	item.MousePressed(IntPoint{}, 0)
	if !item.style.Hover() || !item.style.Active() {
		t.Errorf("style = %b, want hover and active set", item.style)
	}

	item.MouseReleased(IntPoint{}, 0)
	item.MouseExited()
	if item.style.Hover() || item.style.Active() {
		t.Errorf("style = %b, want hover and active cleared", item.style)
	}
}

func TestDisabledItemPaintsDisabledStyle(t *testing.T) {
	bitmap := image.NewRGBA(image.Rect(0, 0, 10, 10))
	item := NewCellCanvasItem(NewBitmapCell(bitmap))
	item.SetEnabled(false)

	commands := paintCellItem(item, nil, IntSize{Width: 40, Height: 40})
	found := false
	for _, cmd := range commands {
		if cmd.Op == OpFillStyle && cmd.Style == "rgba(255, 255, 255, 0.5)" {
			found = true
		}
	}
	if !found {
		t.Error("disabled overlay missing")
	}
}

func TestBitmapCellLetterboxes(t *testing.T) {
	// A 2:1 image in a square cell leaves vertical bars.
	bitmap := image.NewRGBA(image.Rect(0, 0, 100, 50))
	cell := NewBitmapCell(bitmap)
	dc := NewDrawingContext()
	cell.PaintCell(dc, MakeRect(0, 0, 80, 80), 0)

	var draw *Command
	for i, cmd := range dc.Commands() {
		if cmd.Op == OpDrawImage {
			draw = &dc.Commands()[i]
		}
	}
	if draw == nil {
		t.Fatal("no DrawImage command")
	}
	if draw.X != 0 || draw.Y != 20 || draw.W != 80 || draw.H != 40 {
		t.Errorf("image rect = (%v,%v %vx%v), want (0,20 80x40)", draw.X, draw.Y, draw.W, draw.H)
	}
}
