package elements

import (
	"docrender/internal/core/engine/layout"
	"docrender/internal/core/engine/layout/flex"
)

// Column lays children top-to-bottom, holding the current location and
// shrinking the available height after each child. A child that breaks
// forwards the request to Column's own parent, and the column resumes
// laying out subsequent children below the child's tail on the new page,
// with full_height available again. The reported height is the height
// occupied at the column's final location.
type Column struct {
	Children      []layout.Element
	Gap           float64
	CollapseEmpty bool
	// BreakPage wraps every child in a break-whole barrier, so no child
	// ever straddles a page boundary it could avoid.
	BreakPage bool
}

func (c Column) child(i int) layout.Element {
	if c.BreakPage {
		return BreakWhole{Element: c.Children[i]}
	}
	return c.Children[i]
}

// collapsed reports whether a child leaves no trace in the flow: an absent
// height always collapses (None-style children act as if they weren't
// there), a present zero height collapses only under CollapseEmpty.
func (c Column) collapsed(size layout.ElementSize) bool {
	if size.Height == nil {
		return true
	}
	return c.CollapseEmpty && *size.Height <= 0
}

func (c Column) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(c, ctx)
}

func (c Column) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	available := ctx.FirstHeight
	full := ctx.FirstHeight
	if ctx.Breakable != nil {
		full = ctx.Breakable.FullHeight
	}

	width := 0.0
	height := 0.0 // accumulated since the last break
	breaks := 0
	extraMax := 0.0
	first := true

	for i := range c.Children {
		gap := 0.0
		if !first {
			gap = c.Gap
		}

		childBreaks := 0
		childExtra := 0.0
		var cb *layout.BreakableMeasure
		if ctx.Breakable != nil {
			cb = &layout.BreakableMeasure{FullHeight: full, BreakCount: &childBreaks, ExtraLocationMinHeight: &childExtra}
		}
		size := c.child(i).Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: layout.Max0(available - gap), Breakable: cb})
		if w := size.WidthOr(0); w > width {
			width = w
		}
		if childExtra > extraMax {
			extraMax = childExtra
		}

		h := size.HeightOr(0)
		if childBreaks > 0 {
			breaks += childBreaks
			height = 0
			available = full
			// the gap offered before the child was consumed on the page
			// before the break
			gap = 0
		}
		if c.collapsed(size) {
			continue
		}
		if !first {
			height += gap
		}
		first = false
		height += h
		available -= gap + h
	}

	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = breaks
		if ctx.Breakable.ExtraLocationMinHeight != nil {
			*ctx.Breakable.ExtraLocationMinHeight = extraMax
		}
	}

	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(height)}
}

func (c Column) Draw(ctx layout.DrawCtx) layout.ElementSize {
	loc := ctx.Location
	available := ctx.FirstHeight
	full := ctx.FirstHeight
	if ctx.Breakable != nil {
		full = ctx.Breakable.FullHeight
	}

	width := 0.0
	height := 0.0
	first := true
	realized := 0 // break indices already forwarded to the parent

	for i := range c.Children {
		gap := 0.0
		if !first {
			gap = c.Gap
		}

		childBroke := false
		var cb *layout.BreakableDraw
		if ctx.Breakable != nil {
			startIdx := realized
			cb = &layout.BreakableDraw{
				FullHeight: full,
				DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
					newLoc := ctx.Breakable.BreakTo(pdf, startIdx+idx, h)
					if startIdx+idx+1 > realized {
						realized = startIdx + idx + 1
						loc = newLoc
						available = full
						childBroke = true
					}
					return newLoc
				},
			}
		}

		childLoc := loc
		childLoc.Y -= gap
		size := c.child(i).Draw(layout.DrawCtx{
			Pdf:         ctx.Pdf,
			Location:    childLoc,
			Width:       ctx.Width,
			FirstHeight: layout.Max0(available - gap),
			Breakable:   cb,
		})
		if w := size.WidthOr(0); w > width {
			width = w
		}

		h := size.HeightOr(0)
		if childBroke {
			// loc is already at the top of the child's final page; the gap
			// that preceded the child stayed behind on the earlier page.
			height = 0
			gap = 0
		}
		if c.collapsed(size) {
			continue
		}
		if !first {
			height += gap
		}
		first = false
		height += h
		loc.Y -= gap + h
		available -= gap + h
	}

	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(height)}
}

// FlexSpec tags a Row child as either fixed-width (measured
// intrinsically) or flex with an integer weight.
type FlexSpec struct {
	Flex   uint32 // 0 means fixed
	Expand bool
}

// RowChild pairs an element with its flex behavior within a Row.
type RowChild struct {
	Element layout.Element
	Flex    FlexSpec
}

// Row runs the flex width allocator first, then lays children left-to-right,
// sharing a single do_break callback across all cells so they all end on
// the same final page.
type Row struct {
	Children []RowChild
	Gap      float64
}

func (r Row) widths(maxWidth float64) ([]float64, float64) {
	m := flex.NewMeasureLayout(maxWidth, r.Gap)
	fixed := make([]float64, len(r.Children))
	for i, c := range r.Children {
		if c.Flex.Flex == 0 {
			w := c.Element.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: maxWidth, Expand: false}, FirstHeight: 0})
			fixed[i] = w.WidthOr(0)
			m.AddFixed(fixed[i])
		} else {
			m.AddFlex(c.Flex.Flex)
		}
	}
	d := m.Build()
	widths := make([]float64, len(r.Children))
	maxHeightWidth := 0.0
	for i, c := range r.Children {
		if c.Flex.Flex == 0 {
			widths[i] = fixed[i]
		} else {
			widths[i] = d.ExpandWidth(c.Flex.Flex)
		}
		maxHeightWidth += widths[i]
	}
	return widths, maxHeightWidth
}

func (r Row) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(r, ctx)
}

func (r Row) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	widths, _ := r.widths(ctx.Width.Max)
	full := ctx.FirstHeight
	if ctx.Breakable != nil {
		full = ctx.Breakable.FullHeight
	}

	maxHeight := 0.0
	maxBreaks := 0
	for i, c := range r.Children {
		var cb *layout.BreakableMeasure
		breakCount := 0
		if ctx.Breakable != nil {
			cb = &layout.BreakableMeasure{FullHeight: full, BreakCount: &breakCount}
		}
		size := c.Element.Measure(layout.MeasureCtx{
			Width:       layout.WidthConstraint{Max: widths[i], Expand: c.Flex.Expand || c.Flex.Flex > 0},
			FirstHeight: ctx.FirstHeight,
			Breakable:   cb,
		})
		if h := size.HeightOr(0); h > maxHeight {
			maxHeight = h
		}
		if breakCount > maxBreaks {
			maxBreaks = breakCount
		}
	}
	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = maxBreaks
	}
	return layout.ElementSize{Width: layout.Some(ctx.Width.Constrain(sum(widths) + r.Gap*float64(len(widths)-1))), Height: layout.Some(maxHeight)}
}

func sum(xs []float64) float64 {
	t := 0.0
	for _, x := range xs {
		t += x
	}
	return t
}

func (r Row) Draw(ctx layout.DrawCtx) layout.ElementSize {
	widths, _ := r.widths(ctx.Width.Max)
	full := ctx.FirstHeight
	if ctx.Breakable != nil {
		full = ctx.Breakable.FullHeight
	}

	// All cells share the same break sequence: the first cell to request a
	// break realizes the page, later cells (or the same cell, on a later
	// call) requesting the same index get the already-realized location,
	// shifted to their own column of the row.
	sharedLocations := map[int]layout.Location{}

	x := ctx.Location.X
	maxHeight := 0.0
	for i, c := range r.Children {
		cellX := x
		var cb *layout.BreakableDraw
		if ctx.Breakable != nil {
			cb = &layout.BreakableDraw{
				FullHeight: full,
				DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
					loc, ok := sharedLocations[idx]
					if !ok {
						loc = ctx.Breakable.BreakTo(pdf, idx, h)
						sharedLocations[idx] = loc
					}
					loc.X = cellX
					return loc
				},
			}
		}
		size := c.Element.Draw(layout.DrawCtx{
			Pdf:         ctx.Pdf,
			Location:    layout.Location{PageIndex: ctx.Location.PageIndex, LayerIndex: ctx.Location.LayerIndex, X: cellX, Y: ctx.Location.Y, ScaleFactor: ctx.Location.ScaleFactor},
			Width:       layout.WidthConstraint{Max: widths[i], Expand: c.Flex.Expand || c.Flex.Flex > 0},
			FirstHeight: ctx.FirstHeight,
			Breakable:   cb,
		})
		if h := size.HeightOr(0); h > maxHeight {
			maxHeight = h
		}
		x += widths[i] + r.Gap
	}

	return layout.ElementSize{Width: layout.Some(ctx.Width.Constrain(sum(widths) + r.Gap*float64(len(widths)-1))), Height: layout.Some(maxHeight)}
}

// BreakList flows children left-to-right wrapping to a new visual line
// whenever the next child would exceed width.max. The entire list is one
// break-whole unit: no page break happens within it.
type BreakList struct {
	Children []layout.Element
	Gap      float64
	LineGap  float64
}

type breakListLine struct {
	elems  []layout.Element
	widths []float64
	height float64
}

func (b BreakList) layoutLines(width layout.WidthConstraint) []breakListLine {
	var lines []breakListLine
	var cur breakListLine
	x := 0.0
	for _, child := range b.Children {
		size := child.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: width.Max, Expand: false}, FirstHeight: 0})
		w := size.WidthOr(0)
		h := size.HeightOr(0)
		if len(cur.elems) > 0 && x+b.Gap+w > width.Max+layout.Epsilon {
			lines = append(lines, cur)
			cur = breakListLine{}
			x = 0
		}
		if x > 0 {
			x += b.Gap
		}
		cur.elems = append(cur.elems, child)
		cur.widths = append(cur.widths, w)
		if h > cur.height {
			cur.height = h
		}
		x += w
	}
	if len(cur.elems) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func (b BreakList) size(width layout.WidthConstraint) layout.ElementSize {
	lines := b.layoutLines(width)
	total := 0.0
	for i, l := range lines {
		if i > 0 {
			total += b.LineGap
		}
		total += l.height
	}
	return layout.ElementSize{Width: layout.Some(width.Constrain(width.Max)), Height: layout.Some(total)}
}

func (b BreakList) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(b, ctx)
}

func (b BreakList) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	ctx.BreakIfAppropriateForMinHeight(b.size(ctx.Width).HeightOr(0))
	return b.size(ctx.Width)
}

func (b BreakList) Draw(ctx layout.DrawCtx) layout.ElementSize {
	size := b.size(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(size.HeightOr(0))

	lines := b.layoutLines(ctx.Width)
	y := ctx.Location.Y
	for i, l := range lines {
		if i > 0 {
			y -= b.LineGap
		}
		x := ctx.Location.X
		for j, el := range l.elems {
			el.Draw(layout.DrawCtx{
				Pdf:         ctx.Pdf,
				Location:    layout.Location{PageIndex: ctx.Location.PageIndex, LayerIndex: ctx.Location.LayerIndex, X: x, Y: y, ScaleFactor: ctx.Location.ScaleFactor},
				Width:       layout.WidthConstraint{Max: l.widths[j], Expand: false},
				FirstHeight: ctx.FirstHeight,
			})
			x += l.widths[j] + b.Gap
		}
		y -= l.height
	}

	return size
}

// VAlign positions an element within a Stack's bounding box.
type VAlign int

const (
	Top VAlign = iota
	Center
	Bottom
)

// StackChild pairs an overlay element with its vertical alignment.
type StackChild struct {
	Element layout.Element
	VAlign  VAlign
}

// Stack overlays children at the same origin; its size is the max of the
// children's sizes on both axes. If the stack's measured height exceeds
// the current first_height it pre-breaks before drawing anything.
type Stack struct {
	Children []StackChild
}

func (s Stack) size(ctx layout.WidthConstraint, firstHeight float64) (layout.ElementSize, []layout.ElementSize) {
	width, height := 0.0, 0.0
	sizes := make([]layout.ElementSize, len(s.Children))
	for i, c := range s.Children {
		sz := c.Element.Measure(layout.MeasureCtx{Width: ctx, FirstHeight: firstHeight})
		sizes[i] = sz
		if w := sz.WidthOr(0); w > width {
			width = w
		}
		if h := sz.HeightOr(0); h > height {
			height = h
		}
	}
	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(height)}, sizes
}

func (s Stack) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(s, ctx)
}

func (s Stack) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	size, _ := s.size(ctx.Width, ctx.FirstHeight)
	if ctx.Breakable != nil && size.HeightOr(0) > ctx.FirstHeight+layout.Epsilon {
		*ctx.Breakable.BreakCount = 1
	}
	return size
}

func (s Stack) Draw(ctx layout.DrawCtx) layout.ElementSize {
	size, _ := s.size(ctx.Width, ctx.FirstHeight)
	h := size.HeightOr(0)

	if ctx.Breakable != nil && h > ctx.FirstHeight+layout.Epsilon {
		ctx.Location = ctx.Breakable.LocationAt(ctx.Pdf, 0)
		ctx.FirstHeight = ctx.Breakable.FullHeight
	}

	for _, c := range s.Children {
		childSize := c.Element.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: ctx.FirstHeight})
		childHeight := childSize.HeightOr(0)
		y := ctx.Location.Y
		switch c.VAlign {
		case Center:
			y = ctx.Location.Y - (h-childHeight)/2
		case Bottom:
			y = ctx.Location.Y - (h - childHeight)
		}
		c.Element.Draw(layout.DrawCtx{
			Pdf:         ctx.Pdf,
			Location:    layout.Location{PageIndex: ctx.Location.PageIndex, LayerIndex: ctx.Location.LayerIndex, X: ctx.Location.X, Y: y, ScaleFactor: ctx.Location.ScaleFactor},
			Width:       ctx.Width,
			FirstHeight: ctx.FirstHeight,
		})
	}

	return layout.ElementSize{Width: size.Width, Height: layout.Some(h)}
}
