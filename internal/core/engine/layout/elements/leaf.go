// Package elements holds every concrete Element: fixed-shape leaves, the
// axis containers that sequence them, the decorators that adjust their
// constraints, and the break-sensitive combinators that coordinate page
// breaks across subtrees.
package elements

import (
	"docrender/internal/core/engine/layout"
)

// Rectangle is a constant-size rectangle, optionally filled and/or
// outlined. Its reported height is the shape height plus outline
// thickness, and it breaks preemptively when the outline can't fit on the
// current page but would fit on a fresh one.
type Rectangle struct {
	Width, Height float64
	Fill          *uint32
	OutlineWidth  float64
	OutlineColor  uint32
	HasOutline    bool

	// DrawFunc, when set, is invoked with the final rect in the page's
	// coordinate space; left nil in tests that only check sizing.
	DrawFunc func(ctx layout.DrawCtx, x, y, w, h float64)
}

func (r Rectangle) outlineThickness() float64 {
	if !r.HasOutline {
		return 0
	}
	return r.OutlineWidth
}

// size ignores the width constraint: a rectangle is a fixed shape and does
// not stretch, so it reports its intrinsic footprint either way.
func (r Rectangle) size() layout.ElementSize {
	t := r.outlineThickness()
	return layout.ElementSize{
		Width:  layout.Some(r.Width + t),
		Height: layout.Some(r.Height + t),
	}
}

func (r Rectangle) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if ctx.BreakAppropriateForMinHeight(r.Height + r.outlineThickness()) {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (r Rectangle) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	ctx.BreakIfAppropriateForMinHeight(r.Height + r.outlineThickness())
	return r.size()
}

func (r Rectangle) Draw(ctx layout.DrawCtx) layout.ElementSize {
	ctx.BreakIfAppropriateForMinHeight(r.Height + r.outlineThickness())
	size := r.size()
	if r.DrawFunc != nil {
		r.DrawFunc(ctx, ctx.Location.X, ctx.Location.Y, size.WidthOr(0), size.HeightOr(0))
	}
	return size
}

// Circle is a constant-radius circle, optionally filled and/or outlined.
type Circle struct {
	Radius       float64
	Fill         *uint32
	OutlineWidth float64
	OutlineColor uint32
	HasOutline   bool

	DrawFunc func(ctx layout.DrawCtx, cx, cy, r float64)
}

func (c Circle) outlineThickness() float64 {
	if !c.HasOutline {
		return 0
	}
	return c.OutlineWidth
}

func (c Circle) size() layout.ElementSize {
	d := c.Radius*2 + c.outlineThickness()
	return layout.ElementSize{Width: layout.Some(d), Height: layout.Some(d)}
}

func (c Circle) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if ctx.BreakAppropriateForMinHeight(c.Radius*2 + c.outlineThickness()) {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (c Circle) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	ctx.BreakIfAppropriateForMinHeight(c.Radius*2 + c.outlineThickness())
	return c.size()
}

func (c Circle) Draw(ctx layout.DrawCtx) layout.ElementSize {
	ctx.BreakIfAppropriateForMinHeight(c.Radius*2 + c.outlineThickness())
	if c.DrawFunc != nil {
		extra := c.outlineThickness() / 2
		c.DrawFunc(ctx, ctx.Location.X+c.Radius+extra, ctx.Location.Y-c.Radius-extra, c.Radius)
	}
	return c.size()
}

// LineCapStyle mirrors the small enumeration of line cap styles a PDF writer
// supports.
type LineCapStyle int

const (
	CapButt LineCapStyle = iota
	CapRound
	CapSquare
)

// LineStyle configures a horizontal rule drawn by Line.
type LineStyle struct {
	Thickness   float64
	Color       uint32
	DashPattern []float64
	CapStyle    LineCapStyle
}

// Line draws a horizontal rule spanning the available width; it only
// actually draws when the width constraint expands (a non-expanding line
// has nothing to span), but always reports its size.
type Line struct {
	Style    LineStyle
	DrawFunc func(ctx layout.DrawCtx, x0, y, x1 float64)
}

func (l Line) size(width layout.WidthConstraint) layout.ElementSize {
	return layout.ElementSize{
		Width:  layout.Some(width.Constrain(0)),
		Height: layout.Some(l.Style.Thickness),
	}
}

func (l Line) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(l, ctx)
}

func (l Line) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	ctx.BreakIfAppropriateForMinHeight(l.Style.Thickness)
	return l.size(ctx.Width)
}

func (l Line) Draw(ctx layout.DrawCtx) layout.ElementSize {
	ctx.BreakIfAppropriateForMinHeight(l.Style.Thickness)
	if ctx.Width.Expand && l.DrawFunc != nil {
		lineY := ctx.Location.Y - l.Style.Thickness/2
		l.DrawFunc(ctx, ctx.Location.X, lineY, ctx.Location.X+ctx.Width.Max)
	}
	return l.size(ctx.Width)
}

// VGap produces a vertical gap, clamped to the available first_height
// rather than overflowing it.
type VGap struct {
	Height float64
}

func (g VGap) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return WillUseForHeight(g.height(ctx.FirstHeight))
}

func (g VGap) height(firstHeight float64) float64 {
	if g.Height < firstHeight {
		return g.Height
	}
	return firstHeight
}

func (g VGap) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	return layout.ElementSize{Width: layout.Some(ctx.Width.Constrain(0)), Height: layout.Some(g.height(ctx.FirstHeight))}
}

func (g VGap) Draw(ctx layout.DrawCtx) layout.ElementSize {
	return layout.ElementSize{Width: layout.Some(ctx.Width.Constrain(0)), Height: layout.Some(g.height(ctx.FirstHeight))}
}

// WillUseForHeight classifies a known height against WillUse/NoneHeight;
// there's no WillSkip case since VGap never overflows by construction.
func WillUseForHeight(h float64) layout.FirstLocationUsage {
	if h <= 0 {
		return layout.NoneHeight
	}
	return layout.WillUse
}

// ForceBreak unconditionally requests one break in a breakable context and
// contributes no size; in an unbreakable context it is a pure no-op.
type ForceBreak struct{}

func (ForceBreak) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.NoneHeight
}

func (ForceBreak) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = 1
	}
	return layout.ElementSize{}
}

func (ForceBreak) Draw(ctx layout.DrawCtx) layout.ElementSize {
	if ctx.Breakable != nil {
		ctx.Breakable.LocationAt(ctx.Pdf, 0)
	}
	return layout.ElementSize{}
}

// Empty reports a present (0, 0) size and is always WillUse — unlike None,
// it does not trigger sibling collapse behavior.
type Empty struct{}

func (Empty) FirstLocationUsage(layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.WillUse
}

func (Empty) Measure(layout.MeasureCtx) layout.ElementSize {
	return layout.ElementSize{Width: layout.Some(0), Height: layout.Some(0)}
}

func (Empty) Draw(layout.DrawCtx) layout.ElementSize {
	return layout.ElementSize{Width: layout.Some(0), Height: layout.Some(0)}
}

// None reports an absent size on both axes and participates in sibling
// collapse logic as if it weren't there at all.
type None struct{}

func (None) FirstLocationUsage(layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.NoneHeight
}

func (None) Measure(layout.MeasureCtx) layout.ElementSize {
	return layout.ElementSize{}
}

func (None) Draw(layout.DrawCtx) layout.ElementSize {
	return layout.ElementSize{}
}
