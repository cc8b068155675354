package canvas

import (
	"image"
	"sync/atomic"
)

// ============================================================================
// Drawing Command Stream
// ============================================================================
//
// Composers paint into a DrawingContext, which records an append-only list
// of drawing commands. The command stream is the only rendering contract the
// engine owns; interpreting it into pixels belongs to the draw sink adapter
// (see the render package for a software reference implementation).

// CommandOp identifies a drawing command.
type CommandOp uint8

const (
	OpSave CommandOp = iota + 1
	OpRestore
	OpTranslate
	OpClipRect
	OpBeginPath
	OpMoveTo
	OpLineTo
	OpClosePath
	OpRect
	OpRoundRect
	OpFillStyle
	OpStrokeStyle
	OpLineWidth
	OpLineCap
	OpFill
	OpStroke
	OpFont
	OpTextAlign
	OpTextBaseline
	OpFillText
	OpDrawImage
)

// Command is a single drawing instruction. Field use depends on Op: X, Y
// carry positions or deltas, W, H extents, R corner radii or line widths,
// Style colors or enum strings, and Text font or text payloads.
type Command struct {
	Op    CommandOp
	X, Y  float64
	W, H  float64
	R     float64
	Style string
	Text  string
	Image image.Image
}

// DrawingContext records drawing commands. It mirrors the 2D canvas model:
// a state stack (Save/Restore), a current path, and fill/stroke styles.
// A DrawingContext is not safe for concurrent use; each repaint task paints
// into its own buffer.
type DrawingContext struct {
	commands []Command
	cancel   *atomic.Bool
}

// NewDrawingContext returns an empty drawing context.
func NewDrawingContext() *DrawingContext {
	return &DrawingContext{}
}

// newCancellableDrawingContext returns a drawing context whose Cancelled
// method observes the given flag. Layer repaint tasks use this so composers
// can stop painting cooperatively.
func newCancellableDrawingContext(cancel *atomic.Bool) *DrawingContext {
	return &DrawingContext{cancel: cancel}
}

// Cancelled reports whether the owning repaint task has been cancelled.
// Composers check this before each paint step.
func (dc *DrawingContext) Cancelled() bool {
	return dc.cancel != nil && dc.cancel.Load()
}

// Commands returns the recorded command list. The returned slice is owned by
// the context; callers must copy it before mutating.
func (dc *DrawingContext) Commands() []Command { return dc.commands }

// Len returns the number of recorded commands.
func (dc *DrawingContext) Len() int { return len(dc.commands) }

// Append copies all commands of other into dc.
func (dc *DrawingContext) Append(other *DrawingContext) {
	dc.commands = append(dc.commands, other.commands...)
}

// AppendCommands copies a raw command list into dc.
func (dc *DrawingContext) AppendCommands(commands []Command) {
	dc.commands = append(dc.commands, commands...)
}

// truncate discards all commands recorded at or after mark. Used to unwind
// partial output from a failed paint.
func (dc *DrawingContext) truncate(mark int) {
	dc.commands = dc.commands[:mark]
}

func (dc *DrawingContext) Save()    { dc.commands = append(dc.commands, Command{Op: OpSave}) }
func (dc *DrawingContext) Restore() { dc.commands = append(dc.commands, Command{Op: OpRestore}) }

// Translate moves the coordinate origin by (x, y).
func (dc *DrawingContext) Translate(x, y float64) {
	dc.commands = append(dc.commands, Command{Op: OpTranslate, X: x, Y: y})
}

// ClipRect restricts subsequent drawing to the given rect.
func (dc *DrawingContext) ClipRect(x, y, w, h float64) {
	dc.commands = append(dc.commands, Command{Op: OpClipRect, X: x, Y: y, W: w, H: h})
}

func (dc *DrawingContext) BeginPath() {
	dc.commands = append(dc.commands, Command{Op: OpBeginPath})
}

func (dc *DrawingContext) MoveTo(x, y float64) {
	dc.commands = append(dc.commands, Command{Op: OpMoveTo, X: x, Y: y})
}

func (dc *DrawingContext) LineTo(x, y float64) {
	dc.commands = append(dc.commands, Command{Op: OpLineTo, X: x, Y: y})
}

func (dc *DrawingContext) ClosePath() {
	dc.commands = append(dc.commands, Command{Op: OpClosePath})
}

// Rect adds a rectangle to the current path.
func (dc *DrawingContext) Rect(x, y, w, h float64) {
	dc.commands = append(dc.commands, Command{Op: OpRect, X: x, Y: y, W: w, H: h})
}

// RoundRect adds a rounded rectangle with corner radius r to the current path.
func (dc *DrawingContext) RoundRect(x, y, w, h, r float64) {
	dc.commands = append(dc.commands, Command{Op: OpRoundRect, X: x, Y: y, W: w, H: h, R: r})
}

// SetFillStyle sets the fill color ("#RGB", "#RRGGBB", or "rgba(...)").
func (dc *DrawingContext) SetFillStyle(style string) {
	dc.commands = append(dc.commands, Command{Op: OpFillStyle, Style: style})
}

// SetStrokeStyle sets the stroke color.
func (dc *DrawingContext) SetStrokeStyle(style string) {
	dc.commands = append(dc.commands, Command{Op: OpStrokeStyle, Style: style})
}

// SetLineWidth sets the stroke width.
func (dc *DrawingContext) SetLineWidth(w float64) {
	dc.commands = append(dc.commands, Command{Op: OpLineWidth, R: w})
}

// SetLineCap sets the stroke cap style ("butt", "round", "square").
func (dc *DrawingContext) SetLineCap(cap string) {
	dc.commands = append(dc.commands, Command{Op: OpLineCap, Style: cap})
}

// Fill fills the current path with the fill style. The path is preserved.
func (dc *DrawingContext) Fill() { dc.commands = append(dc.commands, Command{Op: OpFill}) }

// Stroke strokes the current path with the stroke style. The path is
// preserved.
func (dc *DrawingContext) Stroke() { dc.commands = append(dc.commands, Command{Op: OpStroke}) }

// SetFont sets the text font ("12px sans-serif").
func (dc *DrawingContext) SetFont(font string) {
	dc.commands = append(dc.commands, Command{Op: OpFont, Text: font})
}

// SetTextAlign sets the horizontal text anchor ("left", "center", "right").
func (dc *DrawingContext) SetTextAlign(align string) {
	dc.commands = append(dc.commands, Command{Op: OpTextAlign, Style: align})
}

// SetTextBaseline sets the vertical text anchor ("top", "middle", "alphabetic").
func (dc *DrawingContext) SetTextBaseline(baseline string) {
	dc.commands = append(dc.commands, Command{Op: OpTextBaseline, Style: baseline})
}

// FillText draws text at (x, y) with the current font and fill style.
func (dc *DrawingContext) FillText(text string, x, y float64) {
	dc.commands = append(dc.commands, Command{Op: OpFillText, Text: text, X: x, Y: y})
}

// DrawImage draws img scaled into the rect (x, y, w, h).
func (dc *DrawingContext) DrawImage(img image.Image, x, y, w, h float64) {
	dc.commands = append(dc.commands, Command{Op: OpDrawImage, Image: img, X: x, Y: y, W: w, H: h})
}
