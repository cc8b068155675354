package canvas

import "testing"

// fakeMetrics measures every rune as a fixed-size box.
type fakeMetrics struct {
	runeWidth int
	height    int
}

func (f fakeMetrics) Measure(font, text string) FontMetrics {
	return FontMetrics{
		Width:   f.runeWidth * len([]rune(text)),
		Height:  f.height,
		Ascent:  f.height * 3 / 4,
		Descent: f.height / 4,
	}
}

func paintItem(t *testing.T, item CanvasItem, size IntSize) []Command {
	t.Helper()
	item.UpdateLayout(IntPoint{}, size)
	composer := item.GetComposer(nil)
	if composer == nil {
		t.Fatal("item has no composer")
	}
	composer.UpdateLayout(IntPoint{}, size)
	dc := NewDrawingContext()
	composer.Repaint(dc, IntRect{Size: size})
	return dc.Commands()
}

func findStyle(commands []Command, op CommandOp, style string) bool {
	for _, cmd := range commands {
		if cmd.Op == op && cmd.Style == style {
			return true
		}
	}
	return false
}

func TestBackgroundPaintsColor(t *testing.T) {
	item := NewBackgroundCanvasItem("#336699")
	commands := paintItem(t, item, IntSize{Width: 10, Height: 10})
	if !findStyle(commands, OpFillStyle, "#336699") {
		t.Error("background fill color missing")
	}

	item.SetColor("#993366")
	commands = paintItem(t, item, IntSize{Width: 10, Height: 10})
	if !findStyle(commands, OpFillStyle, "#993366") {
		t.Error("updated fill color missing")
	}
}

func TestStaticTextSizeToContent(t *testing.T) {
	item := NewStaticTextCanvasItem("hello")
	item.SizeToContent(fakeMetrics{runeWidth: 7, height: 14})

	sizing := item.Sizing()
	// 5 runes at 7 pixels plus padding on both sides.
	if got := sizing.PreferredWidth.Resolve(0); got != 43 {
		t.Errorf("preferred width = %d, want 43", got)
	}
	if got := sizing.PreferredHeight.Resolve(0); got != 22 {
		t.Errorf("preferred height = %d, want 22", got)
	}
}

func TestStaticTextPaintsCentered(t *testing.T) {
	item := NewStaticTextCanvasItem("hi")
	item.SetColor("#222222")
	commands := paintItem(t, item, IntSize{Width: 100, Height: 40})

	var text *Command
	for i, cmd := range commands {
		if cmd.Op == OpFillText {
			text = &commands[i]
		}
	}
	if text == nil {
		t.Fatal("no FillText command")
	}
	if text.Text != "hi" || text.X != 50 || text.Y != 20 {
		t.Errorf("FillText = %q at (%v,%v), want hi at center", text.Text, text.X, text.Y)
	}
	if !findStyle(commands, OpFillStyle, "#222222") {
		t.Error("text color missing")
	}
}

func TestEmptyTextPaintsNothing(t *testing.T) {
	item := NewStaticTextCanvasItem("")
	if commands := paintItem(t, item, IntSize{Width: 10, Height: 10}); len(commands) != 0 {
		t.Errorf("empty text painted %d commands, want 0", len(commands))
	}
}

func TestButtonStateColors(t *testing.T) {
	button := NewTextButtonCanvasItem("OK")
	size := IntSize{Width: 80, Height: 30}

	if !findStyle(paintItem(t, button, size), OpFillStyle, "#f8f8f8") {
		t.Error("idle background missing")
	}

	button.MouseEntered()
	if !findStyle(paintItem(t, button, size), OpFillStyle, "#e8e8e8") {
		t.Error("hover background missing")
	}

	button.MousePressed(IntPoint{X: 10, Y: 10}, 0)
	if !findStyle(paintItem(t, button, size), OpFillStyle, "#c8c8c8") {
		t.Error("pressed background missing")
	}

	button.MouseReleased(IntPoint{X: 10, Y: 10}, 0)
	button.MouseExited()
	if !findStyle(paintItem(t, button, size), OpFillStyle, "#f8f8f8") {
		t.Error("background not restored after release and exit")
	}
}

func TestButtonClickRequiresEnabled(t *testing.T) {
	button := NewTextButtonCanvasItem("OK")
	clicks := 0
	button.OnClicked = func() { clicks++ }

	if !button.MouseClicked(IntPoint{}, 0) {
		t.Error("click on enabled button not handled")
	}
	button.SetEnabled(false)
	if button.MouseClicked(IntPoint{}, 0) {
		t.Error("click on disabled button handled")
	}
	if clicks != 1 {
		t.Errorf("OnClicked fired %d times, want 1", clicks)
	}
}

func TestDisabledButtonDimsLabel(t *testing.T) {
	button := NewTextButtonCanvasItem("OK")
	button.SetEnabled(false)
	if !findStyle(paintItem(t, button, IntSize{Width: 80, Height: 30}), OpFillStyle, "#909090") {
		t.Error("disabled label color missing")
	}
}

func TestButtonSizeToContent(t *testing.T) {
	button := NewTextButtonCanvasItem("Save")
	button.SizeToContent(fakeMetrics{runeWidth: 8, height: 14})
	sizing := button.Sizing()
	// Buttons pad the label twice as wide as plain text.
	if got := sizing.PreferredWidth.Resolve(0); got != 48 {
		t.Errorf("preferred width = %d, want 48", got)
	}
	if got := sizing.PreferredHeight.Resolve(0); got != 22 {
		t.Errorf("preferred height = %d, want 22", got)
	}
}

func TestCheckBoxToggle(t *testing.T) {
	box := NewCheckBoxCanvasItem()
	var states []bool
	box.OnCheckStateChanged = func(checked bool) { states = append(states, checked) }

	box.MouseClicked(IntPoint{}, 0)
	box.MouseClicked(IntPoint{}, 0)
	if len(states) != 2 || !states[0] || states[1] {
		t.Errorf("state changes = %v, want [true false]", states)
	}

	// Setting the current state again is silent.
	box.SetChecked(false)
	if len(states) != 2 {
		t.Errorf("state changes = %d, want 2 after redundant set", len(states))
	}
}

func TestCheckBoxFixedSize(t *testing.T) {
	box := NewCheckBoxCanvasItem()
	sizing := box.Sizing()
	if got := sizing.PreferredWidth.Resolve(100); got != checkBoxSize {
		t.Errorf("preferred width = %d, want %d", got, checkBoxSize)
	}
	if got := sizing.MaximumHeight.Resolve(100); got != checkBoxSize {
		t.Errorf("maximum height = %d, want %d", got, checkBoxSize)
	}
}

func TestCheckBoxPaintsCheckMark(t *testing.T) {
	box := NewCheckBoxCanvasItem()
	size := IntSize{Width: checkBoxSize, Height: checkBoxSize}
	if findStyle(paintItem(t, box, size), OpStrokeStyle, "#2060c0") {
		t.Error("unchecked box painted a check mark")
	}
	box.SetChecked(true)
	if !findStyle(paintItem(t, box, size), OpStrokeStyle, "#2060c0") {
		t.Error("checked box missing the check mark")
	}
}
