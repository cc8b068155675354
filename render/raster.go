// Package render provides a software rasterizer for canvas drawing-command
// buffers. It backs tests, screenshots, and offscreen tools; interactive
// applications plug their own sink into the engine instead.
package render

import (
	"fmt"
	"image"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/agiangrant/canvas"
)

// Rasterizer is a canvas.DrawSink that replays command buffers into an
// image. Safe for concurrent publishing; Image composites the root buffer
// and all live sections.
type Rasterizer struct {
	mu       sync.Mutex
	width    int
	height   int
	commands []canvas.Command
	sections map[int]rasterSection
}

type rasterSection struct {
	commands []canvas.Command
	rect     canvas.IntRect
}

// NewRasterizer returns a rasterizer with a fixed output size.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{width: width, height: height, sections: make(map[int]rasterSection)}
}

func (r *Rasterizer) Draw(commands []canvas.Command) {
	r.mu.Lock()
	r.commands = commands
	r.mu.Unlock()
}

func (r *Rasterizer) DrawSection(sectionID int, commands []canvas.Command, rect canvas.IntRect) {
	r.mu.Lock()
	r.sections[sectionID] = rasterSection{commands: commands, rect: rect}
	r.mu.Unlock()
}

func (r *Rasterizer) RemoveSection(sectionID int) {
	r.mu.Lock()
	delete(r.sections, sectionID)
	r.mu.Unlock()
}

// CommandCount returns how many commands the root buffer currently holds.
// Test observability.
func (r *Rasterizer) CommandCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commands)
}

// Image rasterizes the current buffers into a fresh image.
func (r *Rasterizer) Image() image.Image {
	r.mu.Lock()
	commands := r.commands
	sections := make(map[int]rasterSection, len(r.sections))
	for id, s := range r.sections {
		sections[id] = s
	}
	r.mu.Unlock()

	dc := gg.NewContext(r.width, r.height)
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	replay(dc, commands)
	for _, s := range sections {
		dc.Push()
		dc.Translate(float64(s.rect.Left()), float64(s.rect.Top()))
		replay(dc, s.commands)
		dc.Pop()
	}
	return dc.Image()
}

// replayState tracks the command-stream styles gg does not keep itself.
type replayState struct {
	fill     string
	stroke   string
	align    string
	baseline string
}

func replay(dc *gg.Context, commands []canvas.Command) {
	var states []replayState
	state := replayState{fill: "#000000", stroke: "#000000", align: "left", baseline: "alphabetic"}
	for _, cmd := range commands {
		switch cmd.Op {
		case canvas.OpSave:
			dc.Push()
			states = append(states, state)
		case canvas.OpRestore:
			dc.Pop()
			if n := len(states); n > 0 {
				state = states[n-1]
				states = states[:n-1]
			}
		case canvas.OpTranslate:
			dc.Translate(cmd.X, cmd.Y)
		case canvas.OpClipRect:
			dc.DrawRectangle(cmd.X, cmd.Y, cmd.W, cmd.H)
			dc.Clip()
			dc.ClearPath()
		case canvas.OpBeginPath:
			dc.ClearPath()
		case canvas.OpMoveTo:
			dc.MoveTo(cmd.X, cmd.Y)
		case canvas.OpLineTo:
			dc.LineTo(cmd.X, cmd.Y)
		case canvas.OpClosePath:
			dc.ClosePath()
		case canvas.OpRect:
			dc.DrawRectangle(cmd.X, cmd.Y, cmd.W, cmd.H)
		case canvas.OpRoundRect:
			dc.DrawRoundedRectangle(cmd.X, cmd.Y, cmd.W, cmd.H, cmd.R)
		case canvas.OpFillStyle:
			state.fill = cmd.Style
		case canvas.OpStrokeStyle:
			state.stroke = cmd.Style
		case canvas.OpLineWidth:
			dc.SetLineWidth(cmd.R)
		case canvas.OpLineCap:
			switch cmd.Style {
			case "round":
				dc.SetLineCapRound()
			case "square":
				dc.SetLineCapSquare()
			default:
				dc.SetLineCapButt()
			}
		case canvas.OpFill:
			setColor(dc, state.fill)
			dc.FillPreserve()
		case canvas.OpStroke:
			setColor(dc, state.stroke)
			dc.StrokePreserve()
		case canvas.OpFont:
			// Single built-in face; the font string only affects metrics in
			// richer sinks.
		case canvas.OpTextAlign:
			state.align = cmd.Style
		case canvas.OpTextBaseline:
			state.baseline = cmd.Style
		case canvas.OpFillText:
			setColor(dc, state.fill)
			ax, ay := textAnchors(state.align, state.baseline)
			dc.DrawStringAnchored(cmd.Text, cmd.X, cmd.Y, ax, ay)
		case canvas.OpDrawImage:
			drawScaledImage(dc, cmd)
		}
	}
}

func textAnchors(align, baseline string) (ax, ay float64) {
	switch align {
	case "center":
		ax = 0.5
	case "right":
		ax = 1
	}
	switch baseline {
	case "top":
		ay = 1
	case "middle":
		ay = 0.5
	case "alphabetic", "bottom":
		ay = 0
	}
	return ax, ay
}

func drawScaledImage(dc *gg.Context, cmd canvas.Command) {
	if cmd.Image == nil || cmd.W <= 0 || cmd.H <= 0 {
		return
	}
	bounds := cmd.Image.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	dc.Push()
	dc.Translate(cmd.X, cmd.Y)
	dc.Scale(cmd.W/float64(bounds.Dx()), cmd.H/float64(bounds.Dy()))
	dc.DrawImage(cmd.Image, 0, 0)
	dc.Pop()
}

// setColor applies "#RGB", "#RRGGBB", or "rgba(r, g, b, a)" colors.
func setColor(dc *gg.Context, style string) {
	if strings.HasPrefix(style, "rgba(") {
		var r, g, b int
		var a float64
		if _, err := fmt.Sscanf(strings.ReplaceAll(style, " ", ""), "rgba(%d,%d,%d,%f)", &r, &g, &b, &a); err == nil {
			dc.SetRGBA(float64(r)/255, float64(g)/255, float64(b)/255, a)
			return
		}
	}
	dc.SetHexColor(style)
}

// Metrics measures text against the built-in bitmap face. It satisfies
// canvas.FontMetricsProvider for tests and offscreen rendering.
type Metrics struct{}

func (Metrics) Measure(font, text string) canvas.FontMetrics {
	face := basicfont.Face7x13
	return canvas.FontMetrics{
		Width:   face.Advance * utf8.RuneCountInString(text),
		Height:  face.Height,
		Ascent:  face.Ascent,
		Descent: face.Descent,
	}
}
