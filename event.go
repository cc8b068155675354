package canvas

// ============================================================================
// Input Event Types
// ============================================================================

// Modifiers is a bitmask of keyboard modifier keys active during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper // Cmd on Mac, Win on Windows
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// Key describes a keyboard event delivered to the focused item.
type Key struct {
	// Text is the character input, if any.
	Text string
	// Name identifies non-character keys ("tab", "escape", "left", ...).
	Name string
	// Modifiers active when the key was pressed.
	Modifiers Modifiers
}

func (k Key) IsTab() bool    { return k.Name == "tab" }
func (k Key) IsEscape() bool { return k.Name == "escape" }

// CursorShape names a mouse cursor to be displayed by the cursor sink.
type CursorShape string

const (
	CursorDefault         CursorShape = ""
	CursorArrow           CursorShape = "arrow"
	CursorHand            CursorShape = "hand"
	CursorIBeam           CursorShape = "ibeam"
	CursorCross           CursorShape = "cross"
	CursorSplitHorizontal CursorShape = "split_horizontal"
	CursorSplitVertical   CursorShape = "split_vertical"
)

// DragAction is the response an item gives to drag-and-drop events.
type DragAction string

const (
	DragIgnore DragAction = "ignore"
	DragAccept DragAction = "accept"
	DragCopy   DragAction = "copy"
	DragMove   DragAction = "move"
)

// MimeData carries the payload of a drag-and-drop interaction.
type MimeData interface {
	// HasFormat reports whether the payload carries the given format.
	HasFormat(format string) bool
	// Data returns the payload bytes for the given format.
	Data(format string) []byte
}

// SimpleMimeData is a map-backed MimeData, convenient for tests and for
// drags originating inside the canvas tree.
type SimpleMimeData map[string][]byte

func (m SimpleMimeData) HasFormat(format string) bool {
	_, ok := m[format]
	return ok
}

func (m SimpleMimeData) Data(format string) []byte { return m[format] }

// ============================================================================
// External Collaborator Interfaces
// ============================================================================

// DrawSink receives finished drawing-command buffers. The surface adapter
// owns turning commands into pixels.
type DrawSink interface {
	// Draw replaces the root buffer.
	Draw(commands []Command)
	// DrawSection replaces the buffer of a directly-addressed section used
	// by opaque top-level layers. rect is in root coordinates.
	DrawSection(sectionID int, commands []Command, rect IntRect)
	// RemoveSection releases a section on layer teardown.
	RemoveSection(sectionID int)
}

// CursorSink displays the mouse cursor shape requested by tracked items.
type CursorSink interface {
	SetCursor(shape CursorShape)
}

// TooltipSink displays tooltip text near the given root coordinates.
type TooltipSink interface {
	ShowTooltip(text string, x, y int)
	HideTooltip()
}

// FontMetrics describes measured text extents.
type FontMetrics struct {
	Width   int
	Height  int
	Ascent  int
	Descent int
}

// FontMetricsProvider measures text for size-to-content sizing. The font is
// a CSS-style string such as "12px sans-serif".
type FontMetricsProvider interface {
	Measure(font, text string) FontMetrics
}
