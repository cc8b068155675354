package canvas

// Geometry value types used throughout the layout engine. The coordinate
// system has origin=0 at the top left; y increases downward.

// IntPoint is an integer point in canvas coordinates.
type IntPoint struct {
	X int
	Y int
}

// Add returns the point translated by q.
func (p IntPoint) Add(q IntPoint) IntPoint {
	return IntPoint{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the point translated by -q.
func (p IntPoint) Sub(q IntPoint) IntPoint {
	return IntPoint{X: p.X - q.X, Y: p.Y - q.Y}
}

// IntSize is an integer size.
type IntSize struct {
	Width  int
	Height int
}

// AspectRatio returns width/height, or 0 when height is 0.
func (s IntSize) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// IntRect is an integer rectangle described by origin and size.
type IntRect struct {
	Origin IntPoint
	Size   IntSize
}

// MakeRect builds a rect from x, y, width, height.
func MakeRect(x, y, width, height int) IntRect {
	return IntRect{Origin: IntPoint{X: x, Y: y}, Size: IntSize{Width: width, Height: height}}
}

func (r IntRect) Left() int   { return r.Origin.X }
func (r IntRect) Top() int    { return r.Origin.Y }
func (r IntRect) Right() int  { return r.Origin.X + r.Size.Width }
func (r IntRect) Bottom() int { return r.Origin.Y + r.Size.Height }

// Center returns the center point of the rect.
func (r IntRect) Center() IntPoint {
	return IntPoint{X: r.Origin.X + r.Size.Width/2, Y: r.Origin.Y + r.Size.Height/2}
}

// Contains reports whether p lies within the rect. The right and bottom
// edges are exclusive.
func (r IntRect) Contains(p IntPoint) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}

// Intersects reports whether the two rects overlap.
func (r IntRect) Intersects(o IntRect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right() && r.Top() < o.Bottom() && o.Top() < r.Bottom()
}

// Intersect returns the overlapping region of the two rects. The result is
// the zero rect when they do not overlap.
func (r IntRect) Intersect(o IntRect) IntRect {
	left := max(r.Left(), o.Left())
	top := max(r.Top(), o.Top())
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return IntRect{}
	}
	return MakeRect(left, top, right-left, bottom-top)
}

// Translate returns the rect moved by p.
func (r IntRect) Translate(p IntPoint) IntRect {
	return IntRect{Origin: r.Origin.Add(p), Size: r.Size}
}

// IsEmpty reports whether the rect has no area.
func (r IntRect) IsEmpty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// FitToAspectRatio returns the largest rect with the given aspect ratio
// (width/height) that fits within r, centered.
func FitToAspectRatio(r IntRect, aspectRatio float64) IntRect {
	if aspectRatio <= 0 || r.IsEmpty() {
		return r
	}
	if r.Size.AspectRatio() > aspectRatio {
		width := int(float64(r.Size.Height) * aspectRatio)
		return MakeRect(r.Left()+(r.Size.Width-width)/2, r.Top(), width, r.Size.Height)
	}
	height := int(float64(r.Size.Width) / aspectRatio)
	return MakeRect(r.Left(), r.Top()+(r.Size.Height-height)/2, r.Size.Width, height)
}

// FitToSize returns the largest rect with the aspect ratio of size that fits
// within r, centered. Used to letterbox bitmap content.
func FitToSize(r IntRect, size IntSize) IntRect {
	if size.Width <= 0 || size.Height <= 0 {
		return IntRect{Origin: r.Origin}
	}
	return FitToAspectRatio(r, size.AspectRatio())
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q IntPoint) IntPoint {
	return IntPoint{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Margins describes insets applied to a layout region.
type Margins struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// Horizontal returns the sum of the left and right margins.
func (m Margins) Horizontal() int { return m.Left + m.Right }

// Vertical returns the sum of the top and bottom margins.
func (m Margins) Vertical() int { return m.Top + m.Bottom }
