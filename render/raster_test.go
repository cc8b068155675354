package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/canvas"
)

func fillRectCommands(style string, x, y, w, h float64) []canvas.Command {
	dc := canvas.NewDrawingContext()
	dc.SetFillStyle(style)
	dc.BeginPath()
	dc.Rect(x, y, w, h)
	dc.Fill()
	return dc.Commands()
}

func TestRasterizerFillsRect(t *testing.T) {
	r := NewRasterizer(40, 40)
	r.Draw(fillRectCommands("#ff0000", 10, 10, 20, 20))

	img := r.Image()
	red, green, _, _ := img.At(20, 20).RGBA()
	assert.Equal(t, uint32(0xffff), red, "pixel inside the rect is red")
	assert.Equal(t, uint32(0), green)

	outside, _, _, _ := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), outside, "pixel outside the rect stays white")
}

func TestRasterizerRGBAColors(t *testing.T) {
	r := NewRasterizer(10, 10)
	r.Draw(fillRectCommands("rgba(0, 0, 255, 1.0)", 0, 0, 10, 10))

	_, _, blue, _ := r.Image().At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), blue)
}

func TestRasterizerSections(t *testing.T) {
	r := NewRasterizer(40, 20)
	r.DrawSection(1, fillRectCommands("#00ff00", 0, 0, 20, 20), canvas.MakeRect(20, 0, 20, 20))

	// Section commands are painted at the section's root-space rect.
	_, green, _, _ := r.Image().At(30, 10).RGBA()
	assert.Equal(t, uint32(0xffff), green)

	r.RemoveSection(1)
	red, _, _, _ := r.Image().At(30, 10).RGBA()
	assert.Equal(t, uint32(0xffff), red, "white after removal")
}

func TestRasterizerClipAndTranslate(t *testing.T) {
	dc := canvas.NewDrawingContext()
	dc.Save()
	dc.ClipRect(0, 0, 10, 10)
	dc.Translate(5, 5)
	dc.SetFillStyle("#0000ff")
	dc.BeginPath()
	dc.Rect(0, 0, 20, 20)
	dc.Fill()
	dc.Restore()

	r := NewRasterizer(30, 30)
	r.Draw(dc.Commands())
	img := r.Image()

	_, _, inside, _ := img.At(7, 7).RGBA()
	assert.Equal(t, uint32(0xffff), inside, "clip keeps the overlapping region")
	_, _, outside, _ := img.At(15, 15).RGBA()
	assert.NotEqual(t, uint32(0xffff), outside, "clip discards drawing past the rect")
}

func TestRasterizerDrawImage(t *testing.T) {
	bitmap := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			bitmap.Set(x, y, image.White)
		}
	}
	dc := canvas.NewDrawingContext()
	dc.SetFillStyle("#000000")
	dc.BeginPath()
	dc.Rect(0, 0, 20, 20)
	dc.Fill()
	dc.DrawImage(bitmap, 5, 5, 10, 10)

	r := NewRasterizer(20, 20)
	r.Draw(dc.Commands())
	img := r.Image()

	red, _, _, _ := img.At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), red, "scaled image covers its target rect")
	red, _, _, _ = img.At(2, 2).RGBA()
	assert.Equal(t, uint32(0), red, "background stays black outside the image")
}

func TestRasterizerCommandCount(t *testing.T) {
	r := NewRasterizer(10, 10)
	require.Equal(t, 0, r.CommandCount())
	r.Draw(fillRectCommands("#ffffff", 0, 0, 10, 10))
	assert.Equal(t, 4, r.CommandCount())
}

func TestMetricsMeasure(t *testing.T) {
	m := Metrics{}
	got := m.Measure("12px sans-serif", "hello")
	assert.Equal(t, 7*5, got.Width)
	assert.Equal(t, 13, got.Height)
	assert.Positive(t, got.Ascent)
	assert.Positive(t, got.Descent)

	assert.Zero(t, m.Measure("12px sans-serif", "").Width)
}
