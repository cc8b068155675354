package canvas

import (
	"fmt"
	"log/slog"
)

var layoutDebug = false // Set to true for layout trace logging.

func debugLayout(format string, args ...interface{}) {
	if layoutDebug {
		slog.Debug(fmt.Sprintf(format, args...))
	}
}

// LayoutItem is the view of an item a layout strategy needs: its sizing
// preferences and a way to assign its rect. Both live canvas items and
// composer snapshots satisfy it, so the same strategies lay out the mutable
// tree on the UI goroutine and the immutable snapshot on a repaint task.
type LayoutItem interface {
	LayoutSizing() Sizing
	UpdateLayout(origin IntPoint, size IntSize)
}

// Layout places child items within a composite's rect and aggregates the
// composite's own sizing from the children. Entries in the items slice may
// be nil (hidden children, empty grid positions); strategies skip them
// without reserving space.
type Layout interface {
	Layout(origin IntPoint, size IntSize, items []LayoutItem)
	ContentSizing(items []LayoutItem) Sizing
	// SpacingItem returns a fixed spacer sized along the layout's primary
	// axis. StretchItem returns an item that absorbs extra space.
	SpacingItem(spacing int) CanvasItem
	StretchItem() CanvasItem
}

// layoutCloner is implemented by layouts carrying mutable state. Composers
// snapshot such layouts instead of sharing them with the live tree.
type layoutCloner interface {
	cloneLayout() Layout
}

// Alignment positions a child along a row/column's cross axis.
type Alignment int

const (
	AlignCenter Alignment = iota
	AlignStart
	AlignEnd
)

// updateItemLayout assigns one item's rect, fitting aspect-ratio constraints
// within the assigned cell.
func updateItemLayout(origin IntPoint, size IntSize, item LayoutItem) {
	rect := IntRect{Origin: origin, Size: size}
	sizing := item.LayoutSizing()
	ratio := size.AspectRatio()
	switch {
	case sizing.MinimumAspectRatio != 0 && ratio < sizing.MinimumAspectRatio:
		rect = FitToAspectRatio(rect, sizing.MinimumAspectRatio)
	case sizing.MaximumAspectRatio != 0 && ratio > sizing.MaximumAspectRatio:
		rect = FitToAspectRatio(rect, sizing.MaximumAspectRatio)
	case sizing.PreferredAspectRatio != 0:
		rect = FitToAspectRatio(rect, sizing.PreferredAspectRatio)
	}
	item.UpdateLayout(rect.Origin, rect.Size)
}

// overlapSizing aggregates sizing as if the items were stacked: maxima of
// minimums and preferreds, minima of maximums (unbounded when any item is
// unbounded). Margins and spacing are not included.
func overlapSizing(items []LayoutItem) Sizing {
	var s Sizing
	widthBounded, heightBounded := true, true
	for _, item := range items {
		if item == nil {
			continue
		}
		is := item.LayoutSizing()
		s.PreferredWidth = maxLength(s.PreferredWidth, is.PreferredWidth)
		s.PreferredHeight = maxLength(s.PreferredHeight, is.PreferredHeight)
		s.MinimumWidth = maxLength(s.MinimumWidth, is.MinimumWidth)
		s.MinimumHeight = maxLength(s.MinimumHeight, is.MinimumHeight)
		if is.MaximumWidth.IsSet() {
			s.MaximumWidth = minLength(s.MaximumWidth, is.MaximumWidth)
		} else {
			widthBounded = false
		}
		if is.MaximumHeight.IsSet() {
			s.MaximumHeight = minLength(s.MaximumHeight, is.MaximumHeight)
		} else {
			heightBounded = false
		}
	}
	if !widthBounded {
		s.MaximumWidth = Length{}
	}
	if !heightBounded {
		s.MaximumHeight = Length{}
	}
	return s
}

// primary/cross sizing aggregation for rows and columns: the primary axis
// sums minimums, maximums, and preferreds; the cross axis overlaps.
func linearSizing(items []LayoutItem, horizontal bool) Sizing {
	var s Sizing
	maxPrimaryBounded := true
	maxCrossBounded := true
	for _, item := range items {
		if item == nil {
			continue
		}
		is := item.LayoutSizing()
		var minP, maxP, prefP, minC, maxC, prefC Length
		if horizontal {
			minP, maxP, prefP = is.MinimumWidth, is.MaximumWidth, is.PreferredWidth
			minC, maxC, prefC = is.MinimumHeight, is.MaximumHeight, is.PreferredHeight
		} else {
			minP, maxP, prefP = is.MinimumHeight, is.MaximumHeight, is.PreferredHeight
			minC, maxC, prefC = is.MinimumWidth, is.MaximumWidth, is.PreferredWidth
		}
		var sMinP, sMaxP, sPrefP, sMinC, sMaxC, sPrefC Length
		if horizontal {
			sMinP, sMaxP, sPrefP = s.MinimumWidth, s.MaximumWidth, s.PreferredWidth
			sMinC, sMaxC, sPrefC = s.MinimumHeight, s.MaximumHeight, s.PreferredHeight
		} else {
			sMinP, sMaxP, sPrefP = s.MinimumHeight, s.MaximumHeight, s.PreferredHeight
			sMinC, sMaxC, sPrefC = s.MinimumWidth, s.MaximumWidth, s.PreferredWidth
		}
		sMinP = addLength(sMinP, minP)
		sPrefP = addLength(sPrefP, prefP)
		if !maxP.IsSet() {
			maxPrimaryBounded = false
		} else if maxPrimaryBounded {
			sMaxP = addLength(sMaxP, maxP)
		}
		sMinC = maxLength(sMinC, minC)
		sPrefC = maxLength(sPrefC, prefC)
		if maxC.IsSet() {
			sMaxC = minLength(sMaxC, maxC)
		} else {
			maxCrossBounded = false
		}
		if horizontal {
			s.MinimumWidth, s.MaximumWidth, s.PreferredWidth = sMinP, sMaxP, sPrefP
			s.MinimumHeight, s.MaximumHeight, s.PreferredHeight = sMinC, sMaxC, sPrefC
		} else {
			s.MinimumHeight, s.MaximumHeight, s.PreferredHeight = sMinP, sMaxP, sPrefP
			s.MinimumWidth, s.MaximumWidth, s.PreferredWidth = sMinC, sMaxC, sPrefC
		}
	}
	if !maxPrimaryBounded {
		if horizontal {
			s.MaximumWidth = Length{}
		} else {
			s.MaximumHeight = Length{}
		}
	}
	if !maxCrossBounded {
		if horizontal {
			s.MaximumHeight = Length{}
		} else {
			s.MaximumWidth = Length{}
		}
	}
	return s
}

// adjustSizing adds margins plus total spacing to the set dimensions.
func adjustSizing(s *Sizing, m Margins, xSpacing, ySpacing int) {
	s.MinimumWidth = s.MinimumWidth.addFixed(m.Horizontal() + xSpacing)
	s.MaximumWidth = s.MaximumWidth.addFixed(m.Horizontal() + xSpacing)
	s.PreferredWidth = s.PreferredWidth.addFixed(m.Horizontal() + xSpacing)
	s.MinimumHeight = s.MinimumHeight.addFixed(m.Vertical() + ySpacing)
	s.MaximumHeight = s.MaximumHeight.addFixed(m.Vertical() + ySpacing)
	s.PreferredHeight = s.PreferredHeight.addFixed(m.Vertical() + ySpacing)
}

func countItems(items []LayoutItem) int {
	n := 0
	for _, item := range items {
		if item != nil {
			n++
		}
	}
	return n
}

// ============================================================================
// Overlap Layout
// ============================================================================

// OverlapLayout places all children at the same rect (later children paint
// frontmost). It is the default layout for compositions.
type OverlapLayout struct {
	Margins Margins
}

// NewOverlapLayout returns an overlap layout with no margins.
func NewOverlapLayout() *OverlapLayout { return &OverlapLayout{} }

func (l *OverlapLayout) Layout(origin IntPoint, size IntSize, items []LayoutItem) {
	contentOrigin := IntPoint{X: origin.X + l.Margins.Left, Y: origin.Y + l.Margins.Top}
	contentSize := IntSize{Width: size.Width - l.Margins.Horizontal(), Height: size.Height - l.Margins.Vertical()}
	for _, item := range items {
		if item == nil {
			continue
		}
		updateItemLayout(contentOrigin, contentSize, item)
	}
}

func (l *OverlapLayout) ContentSizing(items []LayoutItem) Sizing {
	s := overlapSizing(items)
	adjustSizing(&s, l.Margins, 0, 0)
	return s
}

func (l *OverlapLayout) SpacingItem(spacing int) CanvasItem {
	panic("canvas: overlap layout has no spacing items")
}

func (l *OverlapLayout) StretchItem() CanvasItem {
	panic("canvas: overlap layout has no stretch items")
}

// ============================================================================
// Row / Column Layouts
// ============================================================================

// RowLayout places children left to right, solving widths along the row and
// aligning each child vertically per Alignment. A child with a maximum
// height smaller than the row gets that height; otherwise it fills the row.
type RowLayout struct {
	Margins   Margins
	Spacing   int
	Alignment Alignment
}

// NewRowLayout returns a row layout with no margins or spacing.
func NewRowLayout() *RowLayout { return &RowLayout{} }

func (l *RowLayout) Layout(origin IntPoint, size IntSize, items []LayoutItem) {
	layoutLinear(origin, size, items, l.Margins, l.Spacing, l.Alignment, true)
}

func (l *RowLayout) ContentSizing(items []LayoutItem) Sizing {
	s := linearSizing(items, true)
	adjustSizing(&s, l.Margins, l.Spacing*(countItems(items)-1), 0)
	return s
}

func (l *RowLayout) SpacingItem(spacing int) CanvasItem {
	item := NewEmptyCanvasItem()
	sizing := item.Sizing()
	sizing.MinimumWidth = Fixed(spacing)
	sizing.MaximumWidth = Fixed(spacing)
	item.SetSizing(sizing)
	return item
}

func (l *RowLayout) StretchItem() CanvasItem {
	item := NewEmptyCanvasItem()
	sizing := item.Sizing()
	sizing.MinimumHeight = Fixed(0)
	sizing.MaximumHeight = Fixed(0)
	item.SetSizing(sizing)
	return item
}

// ColumnLayout places children top to bottom; the mirror of RowLayout.
type ColumnLayout struct {
	Margins   Margins
	Spacing   int
	Alignment Alignment
}

// NewColumnLayout returns a column layout with no margins or spacing.
func NewColumnLayout() *ColumnLayout { return &ColumnLayout{} }

func (l *ColumnLayout) Layout(origin IntPoint, size IntSize, items []LayoutItem) {
	layoutLinear(origin, size, items, l.Margins, l.Spacing, l.Alignment, false)
}

func (l *ColumnLayout) ContentSizing(items []LayoutItem) Sizing {
	s := linearSizing(items, false)
	adjustSizing(&s, l.Margins, 0, l.Spacing*(countItems(items)-1))
	return s
}

func (l *ColumnLayout) SpacingItem(spacing int) CanvasItem {
	item := NewEmptyCanvasItem()
	sizing := item.Sizing()
	sizing.MinimumHeight = Fixed(spacing)
	sizing.MaximumHeight = Fixed(spacing)
	item.SetSizing(sizing)
	return item
}

func (l *ColumnLayout) StretchItem() CanvasItem {
	item := NewEmptyCanvasItem()
	sizing := item.Sizing()
	sizing.MinimumWidth = Fixed(0)
	sizing.MaximumWidth = Fixed(0)
	item.SetSizing(sizing)
	return item
}

// layoutLinear solves the primary axis with the constraint solver, then
// sizes and aligns each child on the cross axis.
func layoutLinear(origin IntPoint, size IntSize, items []LayoutItem, margins Margins, spacing int, align Alignment, horizontal bool) {
	present := make([]LayoutItem, 0, len(items))
	for _, item := range items {
		if item != nil {
			present = append(present, item)
		}
	}
	if len(present) == 0 {
		return
	}
	spacingTotal := spacing * (len(present) - 1)

	var primaryOrigin, primaryExtent, crossOrigin, crossExtent int
	if horizontal {
		primaryOrigin = origin.X + margins.Left
		primaryExtent = size.Width - margins.Horizontal() - spacingTotal
		crossOrigin = origin.Y + margins.Top
		crossExtent = size.Height - margins.Vertical()
	} else {
		primaryOrigin = origin.Y + margins.Top
		primaryExtent = size.Height - margins.Vertical() - spacingTotal
		crossOrigin = origin.X + margins.Left
		crossExtent = size.Width - margins.Horizontal()
	}

	constraints := make([]Constraint, len(present))
	for i, item := range present {
		sizing := item.LayoutSizing()
		if horizontal {
			constraints[i] = sizing.WidthConstraint(primaryExtent)
		} else {
			constraints[i] = sizing.HeightConstraint(primaryExtent)
		}
	}
	origins, sizes := Solve(primaryOrigin, primaryExtent, constraints, spacing)
	debugLayout("linear layout: origins=%v sizes=%v", origins, sizes)

	for i, item := range present {
		sizing := item.LayoutSizing()
		cross := crossExtent
		var crossMax Length
		if horizontal {
			crossMax = sizing.MaximumHeight
		} else {
			crossMax = sizing.MaximumWidth
		}
		if crossMax.IsSet() {
			if resolved := crossMax.Resolve(crossExtent); resolved < cross {
				cross = resolved
			}
		}
		offset := crossOrigin
		switch align {
		case AlignCenter:
			offset += (crossExtent - cross) / 2
		case AlignEnd:
			offset += crossExtent - cross
		}
		if horizontal {
			updateItemLayout(IntPoint{X: origins[i], Y: offset}, IntSize{Width: sizes[i], Height: cross}, item)
		} else {
			updateItemLayout(IntPoint{X: offset, Y: origins[i]}, IntSize{Width: cross, Height: sizes[i]}, item)
		}
	}
}

// ============================================================================
// Grid Layout
// ============================================================================

// GridPos addresses a cell within a grid layout.
type GridPos struct {
	Col int
	Row int
}

// GridLayout places children into a fixed (cols × rows) grid. Items must be
// added with an explicit position (Composition.AddItemAt); a position may be
// empty. Column widths and row heights are computed independently by
// overlap-aggregating across the orthogonal axis, then solved once per axis.
type GridLayout struct {
	Margins Margins
	Spacing int

	cols, rows int
	// positions is parallel to the composite's child list.
	positions []GridPos
}

// NewGridLayout returns a grid layout with the given dimensions.
func NewGridLayout(cols, rows int) *GridLayout {
	if cols <= 0 || rows <= 0 {
		panic("canvas: grid layout requires positive dimensions")
	}
	return &GridLayout{cols: cols, rows: rows}
}

func (l *GridLayout) cloneLayout() Layout {
	clone := *l
	clone.positions = append([]GridPos(nil), l.positions...)
	return &clone
}

func (l *GridLayout) checkPos(pos GridPos) {
	if pos.Col < 0 || pos.Col >= l.cols || pos.Row < 0 || pos.Row >= l.rows {
		panic(fmt.Sprintf("canvas: grid position %+v out of range (%d x %d)", pos, l.cols, l.rows))
	}
}

func (l *GridLayout) insertPosition(index int, pos GridPos) {
	l.checkPos(pos)
	l.positions = append(l.positions, GridPos{})
	copy(l.positions[index+1:], l.positions[index:])
	l.positions[index] = pos
}

func (l *GridLayout) removePosition(index int) {
	l.positions = append(l.positions[:index], l.positions[index+1:]...)
}

// cellItems returns the item in each cell of the addressed column (col >= 0)
// or row (row >= 0), nil for empty cells.
func (l *GridLayout) cellItems(items []LayoutItem, col, row int) []LayoutItem {
	var result []LayoutItem
	if col >= 0 {
		result = make([]LayoutItem, l.rows)
	} else {
		result = make([]LayoutItem, l.cols)
	}
	for i, item := range items {
		if item == nil || i >= len(l.positions) {
			continue
		}
		pos := l.positions[i]
		if col >= 0 && pos.Col == col {
			result[pos.Row] = item
		} else if row >= 0 && pos.Row == row {
			result[pos.Col] = item
		}
	}
	return result
}

func (l *GridLayout) Layout(origin IntPoint, size IntSize, items []LayoutItem) {
	colSpacing := l.Spacing * (l.cols - 1)
	rowSpacing := l.Spacing * (l.rows - 1)
	contentLeft := origin.X + l.Margins.Left
	contentWidth := size.Width - l.Margins.Horizontal() - colSpacing
	contentTop := origin.Y + l.Margins.Top
	contentHeight := size.Height - l.Margins.Vertical() - rowSpacing

	colConstraints := make([]Constraint, l.cols)
	for col := 0; col < l.cols; col++ {
		sizing := overlapSizing(l.cellItems(items, col, -1))
		colConstraints[col] = sizing.WidthConstraint(contentWidth)
	}
	xPositions, widths := Solve(contentLeft, contentWidth, colConstraints, l.Spacing)

	rowConstraints := make([]Constraint, l.rows)
	for row := 0; row < l.rows; row++ {
		sizing := overlapSizing(l.cellItems(items, -1, row))
		rowConstraints[row] = sizing.HeightConstraint(contentHeight)
	}
	yPositions, heights := Solve(contentTop, contentHeight, rowConstraints, l.Spacing)

	for i, item := range items {
		if item == nil || i >= len(l.positions) {
			continue
		}
		pos := l.positions[i]
		updateItemLayout(
			IntPoint{X: xPositions[pos.Col], Y: yPositions[pos.Row]},
			IntSize{Width: widths[pos.Col], Height: heights[pos.Row]},
			item)
	}
}

func (l *GridLayout) ContentSizing(items []LayoutItem) Sizing {
	var s Sizing
	for col := 0; col < l.cols; col++ {
		cs := overlapSizing(l.cellItems(items, col, -1))
		s.MinimumWidth = addLength(s.MinimumWidth, cs.MinimumWidth)
		s.MaximumWidth = addLength(s.MaximumWidth, cs.MaximumWidth)
		s.PreferredWidth = addLength(s.PreferredWidth, cs.PreferredWidth)
	}
	for row := 0; row < l.rows; row++ {
		rs := overlapSizing(l.cellItems(items, -1, row))
		s.MinimumHeight = addLength(s.MinimumHeight, rs.MinimumHeight)
		s.MaximumHeight = addLength(s.MaximumHeight, rs.MaximumHeight)
		s.PreferredHeight = addLength(s.PreferredHeight, rs.PreferredHeight)
	}
	adjustSizing(&s, l.Margins, l.Spacing*(l.cols-1), l.Spacing*(l.rows-1))
	return s
}

func (l *GridLayout) SpacingItem(spacing int) CanvasItem {
	panic("canvas: grid layout has no spacing items")
}

func (l *GridLayout) StretchItem() CanvasItem {
	panic("canvas: grid layout has no stretch items")
}
