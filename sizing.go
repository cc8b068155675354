package canvas

import "math"

// Unbounded is the sentinel maximum used when a sizing places no upper limit
// on a dimension. It is kept well below MaxInt so sums of per-item maxima
// cannot overflow; addSizes saturates at this value.
const Unbounded = math.MaxInt32

// addSizes adds two sizes, saturating at Unbounded.
func addSizes(a, b int) int {
	if a >= Unbounded || b >= Unbounded || a+b >= Unbounded {
		return Unbounded
	}
	return a + b
}

// Length is an optional layout dimension. The zero value is "unset", which
// lets the layout engine decide. A length is either a fixed number of units
// or a fraction (0, 1] of the available extent, resolved at constraint time.
type Length struct {
	value    float64
	fraction bool
	set      bool
}

// Fixed returns a length of v absolute units.
func Fixed(v int) Length {
	return Length{value: float64(v), set: true}
}

// Fraction returns a length that resolves to f times the available extent.
// f must lie in (0, 1].
func Fraction(f float64) Length {
	if f <= 0 || f > 1.0 {
		panic("canvas: fraction length must be in (0, 1]")
	}
	return Length{value: f, fraction: true, set: true}
}

// IsSet reports whether the length has a value.
func (l Length) IsSet() bool { return l.set }

// Resolve converts the length to absolute units against the available extent.
func (l Length) Resolve(available int) int {
	if !l.set {
		return 0
	}
	if l.fraction {
		return int(float64(available) * l.value)
	}
	return int(l.value)
}

// combineLength merges two optional lengths with the numeric combiner f.
// When the kinds differ (fraction vs fixed), the fixed one wins; fractions
// only combine with fractions.
func combineLength(a, b Length, f func(x, y float64) float64) Length {
	switch {
	case !a.set:
		return b
	case !b.set:
		return a
	case a.fraction != b.fraction:
		if a.fraction {
			return b
		}
		return a
	default:
		return Length{value: f(a.value, b.value), fraction: a.fraction, set: true}
	}
}

func maxLength(a, b Length) Length { return combineLength(a, b, math.Max) }
func minLength(a, b Length) Length { return combineLength(a, b, math.Min) }
func addLength(a, b Length) Length {
	return combineLength(a, b, func(x, y float64) float64 { return x + y })
}

// addFixed adds v absolute units to a set length. Unset lengths stay unset.
func (l Length) addFixed(v int) Length {
	if !l.set || l.fraction {
		return l
	}
	return Length{value: l.value + float64(v), set: true}
}

// Sizing describes the sizing preferences for a canvas item. Width and
// height each carry optional minimum, maximum, and preferred lengths;
// aspect-ratio bounds (width/height, 0 = unset) constrain placement within
// an assigned cell. Preferred values are only used when free sizing.
type Sizing struct {
	MinimumWidth    Length
	MaximumWidth    Length
	PreferredWidth  Length
	MinimumHeight   Length
	MaximumHeight   Length
	PreferredHeight Length

	MinimumAspectRatio   float64
	MaximumAspectRatio   float64
	PreferredAspectRatio float64

	// Collapsible forces all sizes to zero when a composite item has no
	// visible children.
	Collapsible bool
}

// SetFixedWidth pins minimum, maximum, and preferred width to w.
func (s *Sizing) SetFixedWidth(w int) {
	s.MinimumWidth = Fixed(w)
	s.MaximumWidth = Fixed(w)
	s.PreferredWidth = Fixed(w)
}

// SetFixedHeight pins minimum, maximum, and preferred height to h.
func (s *Sizing) SetFixedHeight(h int) {
	s.MinimumHeight = Fixed(h)
	s.MaximumHeight = Fixed(h)
	s.PreferredHeight = Fixed(h)
}

// SetFixedSize pins both axes to size.
func (s *Sizing) SetFixedSize(size IntSize) {
	s.SetFixedWidth(size.Width)
	s.SetFixedHeight(size.Height)
}

// Constraint is the resolved {minimum, maximum, preferred} for one axis of
// one item, in absolute units. Produced by applying a Sizing against a known
// available extent.
type Constraint struct {
	Minimum      int
	Maximum      int
	Preferred    int
	HasPreferred bool
}

func makeConstraint(minimum, maximum, preferred Length, available int) Constraint {
	c := Constraint{Minimum: 0, Maximum: Unbounded}
	if minimum.IsSet() {
		c.Minimum = minimum.Resolve(available)
	}
	if maximum.IsSet() {
		c.Maximum = maximum.Resolve(available)
	}
	if preferred.IsSet() {
		c.Preferred = preferred.Resolve(available)
		c.HasPreferred = true
	}
	return c
}

// WidthConstraint resolves the horizontal sizing against the available width.
func (s Sizing) WidthConstraint(available int) Constraint {
	return makeConstraint(s.MinimumWidth, s.MaximumWidth, s.PreferredWidth, available)
}

// HeightConstraint resolves the vertical sizing against the available height.
func (s Sizing) HeightConstraint(available int) Constraint {
	return makeConstraint(s.MinimumHeight, s.MaximumHeight, s.PreferredHeight, available)
}

// collapse zeroes every dimension; used for collapsible composites with no
// visible children.
func (s *Sizing) collapse() {
	s.MinimumWidth = Fixed(0)
	s.PreferredWidth = Fixed(0)
	s.MaximumWidth = Fixed(0)
	s.MinimumHeight = Fixed(0)
	s.PreferredHeight = Fixed(0)
	s.MaximumHeight = Fixed(0)
}

// overrideWith replaces any dimension of s that o sets. Used by composites
// to clamp their layout-derived sizing by their own intrinsic sizing.
func (s *Sizing) overrideWith(o Sizing) {
	if o.MinimumWidth.IsSet() {
		s.MinimumWidth = o.MinimumWidth
	}
	if o.MaximumWidth.IsSet() {
		s.MaximumWidth = o.MaximumWidth
	}
	if o.PreferredWidth.IsSet() {
		s.PreferredWidth = o.PreferredWidth
	}
	if o.MinimumHeight.IsSet() {
		s.MinimumHeight = o.MinimumHeight
	}
	if o.MaximumHeight.IsSet() {
		s.MaximumHeight = o.MaximumHeight
	}
	if o.PreferredHeight.IsSet() {
		s.PreferredHeight = o.PreferredHeight
	}
	if o.MinimumAspectRatio != 0 {
		s.MinimumAspectRatio = o.MinimumAspectRatio
	}
	if o.MaximumAspectRatio != 0 {
		s.MaximumAspectRatio = o.MaximumAspectRatio
	}
	if o.PreferredAspectRatio != 0 {
		s.PreferredAspectRatio = o.PreferredAspectRatio
	}
}
