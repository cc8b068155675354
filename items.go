package canvas

// ============================================================================
// Leaf Canvas Items
// ============================================================================

// EmptyCanvasItem draws nothing. Used for spacing, stretch, and placeholder
// slots.
type EmptyCanvasItem struct {
	ItemBase
}

// NewEmptyCanvasItem returns an invisible placeholder item.
func NewEmptyCanvasItem() *EmptyCanvasItem {
	e := &EmptyCanvasItem{}
	e.initItem(e)
	return e
}

func (e *EmptyCanvasItem) makeComposer(cache *ComposerCache) Composer {
	rect, hasRect := e.self.CanvasRect()
	return newLeafComposer(e.repaintCounter(), rect, hasRect, e.self.LayoutSizing(),
		func(dc *DrawingContext, size IntSize) {})
}

// BackgroundCanvasItem fills its rect with a solid color.
type BackgroundCanvasItem struct {
	ItemBase
	color string
}

// NewBackgroundCanvasItem returns a solid fill ("#RRGGBB" or "rgba(...)").
func NewBackgroundCanvasItem(color string) *BackgroundCanvasItem {
	b := &BackgroundCanvasItem{color: color}
	b.initItem(b)
	return b
}

// Color returns the fill color.
func (b *BackgroundCanvasItem) Color() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.color
}

// SetColor changes the fill color.
func (b *BackgroundCanvasItem) SetColor(color string) {
	b.mu.Lock()
	changed := b.color != color
	b.color = color
	b.mu.Unlock()
	if changed {
		b.self.Update()
	}
}

func (b *BackgroundCanvasItem) makeComposer(cache *ComposerCache) Composer {
	color := b.Color()
	rect, hasRect := b.self.CanvasRect()
	return newLeafComposer(b.repaintCounter(), rect, hasRect, b.self.LayoutSizing(),
		func(dc *DrawingContext, size IntSize) {
			if color == "" {
				return
			}
			dc.SetFillStyle(color)
			dc.BeginPath()
			dc.Rect(0, 0, float64(size.Width), float64(size.Height))
			dc.Fill()
		})
}

// ============================================================================
// Static Text
// ============================================================================

const (
	textPadHorizontal = 4
	textPadVertical   = 4
)

// StaticTextCanvasItem draws a single line of text centered in its rect.
type StaticTextCanvasItem struct {
	ItemBase
	text  string
	font  string
	color string
}

// NewStaticTextCanvasItem returns a text item with a default font and color.
func NewStaticTextCanvasItem(text string) *StaticTextCanvasItem {
	t := &StaticTextCanvasItem{text: text, font: "12px sans-serif", color: "#000000"}
	t.initItem(t)
	return t
}

func (t *StaticTextCanvasItem) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

func (t *StaticTextCanvasItem) SetText(text string) {
	t.mu.Lock()
	changed := t.text != text
	t.text = text
	t.mu.Unlock()
	if changed {
		t.self.Update()
	}
}

func (t *StaticTextCanvasItem) Font() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.font
}

func (t *StaticTextCanvasItem) SetFont(font string) {
	t.mu.Lock()
	changed := t.font != font
	t.font = font
	t.mu.Unlock()
	if changed {
		t.self.Update()
	}
}

func (t *StaticTextCanvasItem) SetColor(color string) {
	t.mu.Lock()
	changed := t.color != color
	t.color = color
	t.mu.Unlock()
	if changed {
		t.self.Update()
	}
}

// SizeToContent pins the item's size to the measured text plus padding.
func (t *StaticTextCanvasItem) SizeToContent(metrics FontMetricsProvider) {
	m := metrics.Measure(t.Font(), t.Text())
	sizing := t.Sizing()
	sizing.SetFixedWidth(m.Width + 2*textPadHorizontal)
	sizing.SetFixedHeight(m.Height + 2*textPadVertical)
	t.SetSizing(sizing)
}

func (t *StaticTextCanvasItem) makeComposer(cache *ComposerCache) Composer {
	t.mu.Lock()
	text, font, color := t.text, t.font, t.color
	t.mu.Unlock()
	rect, hasRect := t.self.CanvasRect()
	return newLeafComposer(t.repaintCounter(), rect, hasRect, t.self.LayoutSizing(),
		func(dc *DrawingContext, size IntSize) {
			paintCenteredText(dc, size, text, font, color)
		})
}

func paintCenteredText(dc *DrawingContext, size IntSize, text, font, color string) {
	if text == "" {
		return
	}
	dc.SetFont(font)
	dc.SetTextAlign("center")
	dc.SetTextBaseline("middle")
	dc.SetFillStyle(color)
	dc.FillText(text, float64(size.Width)/2, float64(size.Height)/2)
}

// ============================================================================
// Text Button
// ============================================================================

// TextButtonCanvasItem is a clickable text button with hover and pressed
// feedback.
type TextButtonCanvasItem struct {
	ItemBase
	text    string
	font    string
	hover   bool
	pressed bool

	// OnClicked is called when the button is clicked.
	OnClicked func()
}

// NewTextButtonCanvasItem returns a button with the given label.
func NewTextButtonCanvasItem(text string) *TextButtonCanvasItem {
	b := &TextButtonCanvasItem{text: text, font: "12px sans-serif"}
	b.initItem(b)
	b.cursor = CursorHand
	return b
}

func (b *TextButtonCanvasItem) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *TextButtonCanvasItem) SetText(text string) {
	b.mu.Lock()
	changed := b.text != text
	b.text = text
	b.mu.Unlock()
	if changed {
		b.self.Update()
	}
}

// SizeToContent pins the button's size to the measured label plus padding.
func (b *TextButtonCanvasItem) SizeToContent(metrics FontMetricsProvider) {
	m := metrics.Measure(b.font, b.Text())
	sizing := b.Sizing()
	sizing.SetFixedWidth(m.Width + 4*textPadHorizontal)
	sizing.SetFixedHeight(m.Height + 2*textPadVertical)
	b.SetSizing(sizing)
}

func (b *TextButtonCanvasItem) WantsMouseEvents() bool { return true }

func (b *TextButtonCanvasItem) MouseEntered() bool {
	b.setState(true, b.pressedState())
	return true
}

func (b *TextButtonCanvasItem) MouseExited() bool {
	b.setState(false, false)
	return true
}

func (b *TextButtonCanvasItem) MousePressed(p IntPoint, mods Modifiers) bool {
	b.setState(b.hoverState(), true)
	return true
}

func (b *TextButtonCanvasItem) MouseReleased(p IntPoint, mods Modifiers) bool {
	b.setState(b.hoverState(), false)
	return true
}

func (b *TextButtonCanvasItem) MouseClicked(p IntPoint, mods Modifiers) bool {
	if !b.self.Enabled() {
		return false
	}
	if b.OnClicked != nil {
		b.OnClicked()
	}
	return true
}

func (b *TextButtonCanvasItem) hoverState() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hover
}

func (b *TextButtonCanvasItem) pressedState() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

func (b *TextButtonCanvasItem) setState(hover, pressed bool) {
	b.mu.Lock()
	changed := b.hover != hover || b.pressed != pressed
	b.hover = hover
	b.pressed = pressed
	b.mu.Unlock()
	if changed {
		b.self.Update()
	}
}

func (b *TextButtonCanvasItem) makeComposer(cache *ComposerCache) Composer {
	b.mu.Lock()
	text, font, hover, pressed := b.text, b.font, b.hover, b.pressed
	b.mu.Unlock()
	enabled := b.self.Enabled()
	rect, hasRect := b.self.CanvasRect()
	return newLeafComposer(b.repaintCounter(), rect, hasRect, b.self.LayoutSizing(),
		func(dc *DrawingContext, size IntSize) {
			background := "#f8f8f8"
			switch {
			case pressed:
				background = "#c8c8c8"
			case hover:
				background = "#e8e8e8"
			}
			dc.SetFillStyle(background)
			dc.BeginPath()
			dc.RoundRect(0.5, 0.5, float64(size.Width)-1, float64(size.Height)-1, 4)
			dc.Fill()
			dc.SetStrokeStyle("#a0a0a0")
			dc.SetLineWidth(1)
			dc.Stroke()
			color := "#000000"
			if !enabled {
				color = "#909090"
			}
			paintCenteredText(dc, size, text, font, color)
		})
}

// ============================================================================
// Check Box
// ============================================================================

const checkBoxSize = 20

// CheckBoxCanvasItem is a fixed-size toggle box.
type CheckBoxCanvasItem struct {
	ItemBase
	checked bool

	// OnCheckStateChanged is called with the new state after a toggle.
	OnCheckStateChanged func(checked bool)
}

// NewCheckBoxCanvasItem returns an unchecked box.
func NewCheckBoxCanvasItem() *CheckBoxCanvasItem {
	c := &CheckBoxCanvasItem{}
	c.initItem(c)
	c.sizing.SetFixedWidth(checkBoxSize)
	c.sizing.SetFixedHeight(checkBoxSize)
	return c
}

func (c *CheckBoxCanvasItem) Checked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checked
}

func (c *CheckBoxCanvasItem) SetChecked(checked bool) {
	c.mu.Lock()
	changed := c.checked != checked
	c.checked = checked
	callback := c.OnCheckStateChanged
	c.mu.Unlock()
	if changed {
		c.self.Update()
		if callback != nil {
			callback(checked)
		}
	}
}

func (c *CheckBoxCanvasItem) WantsMouseEvents() bool { return true }

func (c *CheckBoxCanvasItem) MousePressed(p IntPoint, mods Modifiers) bool { return true }

func (c *CheckBoxCanvasItem) MouseClicked(p IntPoint, mods Modifiers) bool {
	if !c.self.Enabled() {
		return false
	}
	c.SetChecked(!c.Checked())
	return true
}

func (c *CheckBoxCanvasItem) makeComposer(cache *ComposerCache) Composer {
	checked := c.Checked()
	rect, hasRect := c.self.CanvasRect()
	return newLeafComposer(c.repaintCounter(), rect, hasRect, c.self.LayoutSizing(),
		func(dc *DrawingContext, size IntSize) {
			dc.SetFillStyle("#ffffff")
			dc.BeginPath()
			dc.RoundRect(2.5, 2.5, float64(size.Width)-5, float64(size.Height)-5, 3)
			dc.Fill()
			dc.SetStrokeStyle("#808080")
			dc.SetLineWidth(1)
			dc.Stroke()
			if checked {
				dc.SetStrokeStyle("#2060c0")
				dc.SetLineWidth(2)
				dc.SetLineCap("round")
				dc.BeginPath()
				dc.MoveTo(float64(size.Width)*0.28, float64(size.Height)*0.52)
				dc.LineTo(float64(size.Width)*0.44, float64(size.Height)*0.70)
				dc.LineTo(float64(size.Width)*0.74, float64(size.Height)*0.32)
				dc.Stroke()
			}
		})
}
