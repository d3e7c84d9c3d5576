package elements

import "docrender/internal/core/engine/layout"

// Padding shrinks the child's width by left+right, shrinks every height
// context it sees by top+bottom, and offsets the drawing location by
// (+left, -top) — including at every location the child breaks to.
type Padding struct {
	Left, Right, Top, Bottom float64
	Element                  layout.Element
}

func (p Padding) width(w layout.WidthConstraint) layout.WidthConstraint {
	return layout.WidthConstraint{Max: layout.Max0(w.Max - p.Left - p.Right), Expand: w.Expand}
}

func (p Padding) height(h float64) float64 {
	return layout.Max0(h - p.Top - p.Bottom)
}

func (p Padding) outer(size layout.ElementSize) layout.ElementSize {
	var w, h *float64
	if size.Width != nil {
		w = layout.Some(*size.Width + p.Left + p.Right)
	}
	if size.Height != nil {
		h = layout.Some(*size.Height + p.Top + p.Bottom)
	}
	return layout.ElementSize{Width: w, Height: h}
}

func (p Padding) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return p.Element.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       p.width(ctx.Width),
		FirstHeight: p.height(ctx.FirstHeight),
		FullHeight:  p.height(ctx.FullHeight),
	})
}

func (p Padding) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	var cb *layout.BreakableMeasure
	if ctx.Breakable != nil {
		cb = &layout.BreakableMeasure{
			FullHeight:             p.height(ctx.Breakable.FullHeight),
			BreakCount:             ctx.Breakable.BreakCount,
			ExtraLocationMinHeight: ctx.Breakable.ExtraLocationMinHeight,
		}
	}
	size := p.Element.Measure(layout.MeasureCtx{
		Width:       p.width(ctx.Width),
		FirstHeight: p.height(ctx.FirstHeight),
		Breakable:   cb,
	})
	return p.outer(size)
}

func (p Padding) Draw(ctx layout.DrawCtx) layout.ElementSize {
	var cb *layout.BreakableDraw
	if ctx.Breakable != nil {
		outer := ctx.Breakable
		cb = &layout.BreakableDraw{
			FullHeight:                p.height(outer.FullHeight),
			PreferredHeightBreakCount: outer.PreferredHeightBreakCount,
		}
		if outer.DoBreak != nil {
			cb.DoBreak = func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				loc := outer.BreakTo(pdf, idx, h)
				loc.X += p.Left
				loc.Y -= p.Top
				return loc
			}
		}
		if outer.GetLocation != nil {
			cb.GetLocation = func(pdf layout.PageStream, idx int) layout.Location {
				loc := outer.GetLocation(pdf, idx)
				loc.X += p.Left
				loc.Y -= p.Top
				return loc
			}
		}
	}

	var preferred *float64
	if ctx.PreferredHeight != nil {
		preferred = layout.Some(p.height(*ctx.PreferredHeight))
	}

	size := p.Element.Draw(layout.DrawCtx{
		Pdf:             ctx.Pdf,
		Location:        layout.Location{PageIndex: ctx.Location.PageIndex, LayerIndex: ctx.Location.LayerIndex, X: ctx.Location.X + p.Left, Y: ctx.Location.Y - p.Top, ScaleFactor: ctx.Location.ScaleFactor},
		Width:           p.width(ctx.Width),
		FirstHeight:     p.height(ctx.FirstHeight),
		PreferredHeight: preferred,
		Breakable:       cb,
	})
	return p.outer(size)
}

// MaxWidth tightens width.max to min(width.max, max_width) and otherwise
// passes every context through unchanged.
type MaxWidth struct {
	Max     float64
	Element layout.Element
}

func (m MaxWidth) width(w layout.WidthConstraint) layout.WidthConstraint {
	max := w.Max
	if m.Max < max {
		max = m.Max
	}
	return layout.WidthConstraint{Max: max, Expand: w.Expand}
}

func (m MaxWidth) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	ctx.Width = m.width(ctx.Width)
	return m.Element.FirstLocationUsage(ctx)
}

func (m MaxWidth) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	ctx.Width = m.width(ctx.Width)
	return m.Element.Measure(ctx)
}

func (m MaxWidth) Draw(ctx layout.DrawCtx) layout.ElementSize {
	ctx.Width = m.width(ctx.Width)
	return m.Element.Draw(ctx)
}

// HAlign measures the child at its intrinsic (non-expanding) width, then
// offsets its draw x-position within the available slot, reporting the
// full available width to its own siblings.
type HAlign int

const (
	HStart HAlign = iota
	HCenter
	HEnd
)

type HAlignElement struct {
	Align   HAlign
	Element layout.Element
}

func (h HAlignElement) intrinsicWidth(ctx layout.WidthConstraint, firstHeight float64) float64 {
	size := h.Element.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: ctx.Max, Expand: false}, FirstHeight: firstHeight})
	return size.WidthOr(0)
}

func (h HAlignElement) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return h.Element.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       layout.WidthConstraint{Max: ctx.Width.Max, Expand: false},
		FirstHeight: ctx.FirstHeight,
		FullHeight:  ctx.FullHeight,
	})
}

func (h HAlignElement) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	size := h.Element.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: ctx.Width.Max, Expand: false},
		FirstHeight: ctx.FirstHeight,
		Breakable:   ctx.Breakable,
	})
	return layout.ElementSize{Width: layout.Some(ctx.Width.Constrain(ctx.Width.Max)), Height: size.Height}
}

func (h HAlignElement) Draw(ctx layout.DrawCtx) layout.ElementSize {
	w := h.intrinsicWidth(ctx.Width, ctx.FirstHeight)
	x := ctx.Location.X
	switch h.Align {
	case HCenter:
		x += layout.Max0(ctx.Width.Max-w) / 2
	case HEnd:
		x += layout.Max0(ctx.Width.Max - w)
	}

	size := h.Element.Draw(layout.DrawCtx{
		Pdf:             ctx.Pdf,
		Location:        layout.Location{PageIndex: ctx.Location.PageIndex, LayerIndex: ctx.Location.LayerIndex, X: x, Y: ctx.Location.Y, ScaleFactor: ctx.Location.ScaleFactor},
		Width:           layout.WidthConstraint{Max: w, Expand: false},
		FirstHeight:     ctx.FirstHeight,
		PreferredHeight: ctx.PreferredHeight,
		Breakable:       ctx.Breakable,
	})
	return layout.ElementSize{Width: layout.Some(ctx.Width.Constrain(ctx.Width.Max)), Height: size.Height}
}

// StyledBox draws a background fill and/or outline behind the child,
// spanning every page it draws across; it records do_break heights so the
// box boundary on each page matches exactly what the child occupied there.
type StyledBox struct {
	Element      layout.Element
	Fill         *uint32
	OutlineColor *uint32
	OutlineWidth float64

	DrawBox func(ctx layout.DrawCtx, x, y, w, h float64)
}

func (s StyledBox) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return s.Element.FirstLocationUsage(ctx)
}

func (s StyledBox) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	return s.Element.Measure(ctx)
}

func (s StyledBox) Draw(ctx layout.DrawCtx) layout.ElementSize {
	heights := map[int]float64{}
	loc := ctx.Location

	var cb *layout.BreakableDraw
	if ctx.Breakable != nil {
		outer := ctx.Breakable
		cb = &layout.BreakableDraw{
			FullHeight:                outer.FullHeight,
			PreferredHeightBreakCount: outer.PreferredHeightBreakCount,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				if h != nil {
					heights[idx] = *h
				}
				newLoc := outer.BreakTo(pdf, idx, h)
				if s.DrawBox != nil {
					if prevH, ok := heights[idx]; ok {
						s.DrawBox(ctx, loc.X, loc.Y, ctx.Width.Max, prevH)
					}
				}
				loc = newLoc
				return newLoc
			},
		}
	}

	size := s.Element.Draw(layout.DrawCtx{
		Pdf: ctx.Pdf, Location: ctx.Location, Width: ctx.Width, FirstHeight: ctx.FirstHeight,
		PreferredHeight: ctx.PreferredHeight, Breakable: cb,
	})

	if s.DrawBox != nil {
		if h := size.Height; h != nil {
			s.DrawBox(ctx, loc.X, loc.Y, ctx.Width.Max, *h)
		}
	}

	return size
}

// Debug overlays an outline, drawn through DrawBox, around every location
// the child uses (a location left with no reported height gets none), and
// asserts (per the pagination idempotence invariant) that a
// revisited location index reports the same height as the first visit.
type Debug struct {
	Element  layout.Element
	Hue      float64
	DrawBox  func(ctx layout.DrawCtx, x, y, w, h float64, hue float64)
	OnAssertionFailure func(locationIdx int, want, got float64)
}

func (d Debug) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return d.Element.FirstLocationUsage(ctx)
}

func (d Debug) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	return d.Element.Measure(ctx)
}

func (d Debug) Draw(ctx layout.DrawCtx) layout.ElementSize {
	breakHeights := map[int]float64{}
	loc := ctx.Location

	var cb *layout.BreakableDraw
	if ctx.Breakable != nil {
		outer := ctx.Breakable
		cb = &layout.BreakableDraw{
			FullHeight:                outer.FullHeight,
			PreferredHeightBreakCount: outer.PreferredHeightBreakCount,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				if h != nil {
					if prev, ok := breakHeights[idx]; ok {
						if (prev-*h) > layout.Epsilon || (*h-prev) > layout.Epsilon {
							if d.OnAssertionFailure != nil {
								d.OnAssertionFailure(idx, prev, *h)
							}
						}
					} else {
						breakHeights[idx] = *h
						if d.DrawBox != nil {
							d.DrawBox(ctx, loc.X, loc.Y, ctx.Width.Max, *h, d.Hue)
						}
					}
				}
				loc = outer.BreakTo(pdf, idx, h)
				return loc
			},
		}
	}

	size := d.Element.Draw(layout.DrawCtx{
		Pdf: ctx.Pdf, Location: ctx.Location, Width: ctx.Width, FirstHeight: ctx.FirstHeight,
		PreferredHeight: ctx.PreferredHeight, Breakable: cb,
	})

	if d.DrawBox != nil {
		h := size.HeightOr(ctx.FirstHeight)
		d.DrawBox(ctx, loc.X, loc.Y, ctx.Width.Max, h, d.Hue)
	}

	return size
}
