package elements

import "docrender/internal/core/engine/layout"

const inchToMM = 25.4

// PixelSource is a decoded raster image, exposing only what layout needs to
// size and place it: pixel dimensions and a draw callback. The concrete
// implementation (render.GGRasterizer) owns the actual pixel buffer.
type PixelSource interface {
	PixelDimensions() (width, height int)
	Draw(ctx layout.DrawCtx, x, y, w, h float64)
}

// VectorSource is a decoded SVG document; unlike PixelSource it reports its
// own intrinsic size in millimeters directly, since SVG carries its own
// viewBox rather than a pixel grid.
type VectorSource interface {
	IntrinsicSize() (width, height float64)
	Draw(ctx layout.DrawCtx, x, y, w, h float64)
}

// Image draws a decoded raster image, scaled to the available width with
// its aspect ratio preserved. 96 pixels are treated as one inch, matching
// the original's dimension math.
type Image struct {
	Source PixelSource
}

func (img Image) calculateSize(width layout.WidthConstraint) (height float64, elementSize layout.ElementSize) {
	pw, ph := img.Source.PixelDimensions()
	dimW := float64(pw) * inchToMM / 96
	dimH := float64(ph) * inchToMM / 96
	if dimW <= 0 {
		return 0, layout.ElementSize{Width: layout.Some(0), Height: layout.Some(0)}
	}

	w := width.Constrain(dimW)
	h := dimH * w / dimW
	return h, layout.ElementSize{Width: layout.Some(w), Height: layout.Some(h)}
}

func (img Image) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	h, _ := img.calculateSize(ctx.Width)
	if h > ctx.FirstHeight+layout.Epsilon && h <= ctx.FullHeight+layout.Epsilon {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (img Image) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	h, size := img.calculateSize(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(h)
	return size
}

func (img Image) Draw(ctx layout.DrawCtx) layout.ElementSize {
	h, size := img.calculateSize(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(h)
	if img.Source != nil {
		img.Source.Draw(ctx, ctx.Location.X, ctx.Location.Y-h, size.WidthOr(0), h)
	}
	return size
}

// Svg draws a decoded SVG document scaled to the available width with its
// own aspect ratio preserved.
type Svg struct {
	Source VectorSource
}

func (s Svg) calculateSize(width layout.WidthConstraint) (height float64, elementSize layout.ElementSize) {
	dimW, dimH := s.Source.IntrinsicSize()
	if dimW <= 0 {
		return 0, layout.ElementSize{Width: layout.Some(0), Height: layout.Some(0)}
	}
	w := width.Constrain(dimW)
	h := dimH * w / dimW
	return h, layout.ElementSize{Width: layout.Some(w), Height: layout.Some(h)}
}

func (s Svg) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	h, _ := s.calculateSize(ctx.Width)
	if h > ctx.FirstHeight+layout.Epsilon && h <= ctx.FullHeight+layout.Epsilon {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (s Svg) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	h, size := s.calculateSize(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(h)
	return size
}

func (s Svg) Draw(ctx layout.DrawCtx) layout.ElementSize {
	h, size := s.calculateSize(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(h)
	if s.Source != nil {
		s.Source.Draw(ctx, ctx.Location.X, ctx.Location.Y-h, size.WidthOr(0), h)
	}
	return size
}
