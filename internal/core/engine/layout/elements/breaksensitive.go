package elements

import (
	"errors"

	"docrender/internal/core/engine/layout"
)

// ErrShrinkToFitOverflow is surfaced through ShrinkToFit.OnViolation when a
// child still needs to paginate despite being told to render tight.
var ErrShrinkToFitOverflow = errors.New("elements: shrink_to_fit child would break")

// BreakWhole is an atomic rendering barrier: if measuring the child against
// the current first_height would force a break, the container requests
// break index 0 from its own parent first, then draws the child on the new
// page with full_height as its first_height. It forwards the child's own
// break count honestly otherwise.
type BreakWhole struct {
	Element layout.Element
}

func (b BreakWhole) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return b.Element.FirstLocationUsage(ctx)
}

func (b BreakWhole) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	if ctx.Breakable == nil {
		return b.Element.Measure(ctx)
	}
	probe := 0
	size := b.Element.Measure(layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: ctx.FirstHeight,
		Breakable:   &layout.BreakableMeasure{FullHeight: ctx.Breakable.FullHeight, BreakCount: &probe},
	})
	if probe > 0 {
		// The child would break at the current location: re-measure it
		// against full_height as if already on a new page, and report one
		// extra break for the barrier itself.
		inner := 0
		size = b.Element.Measure(layout.MeasureCtx{
			Width:       ctx.Width,
			FirstHeight: ctx.Breakable.FullHeight,
			Breakable:   &layout.BreakableMeasure{FullHeight: ctx.Breakable.FullHeight, BreakCount: &inner},
		})
		*ctx.Breakable.BreakCount = inner + 1
	} else {
		*ctx.Breakable.BreakCount = 0
	}
	return size
}

func (b BreakWhole) Draw(ctx layout.DrawCtx) layout.ElementSize {
	if ctx.Breakable == nil {
		return b.Element.Draw(ctx)
	}
	probe := 0
	b.Element.Measure(layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: ctx.FirstHeight,
		Breakable:   &layout.BreakableMeasure{FullHeight: ctx.Breakable.FullHeight, BreakCount: &probe},
	})
	if probe > 0 {
		ctx.Location = ctx.Breakable.LocationAt(ctx.Pdf, 0)
		ctx.FirstHeight = ctx.Breakable.FullHeight
		ctx.Breakable = afterPreBreak(ctx.Breakable)
	}
	return b.Element.Draw(ctx)
}

// Titled draws title above content separated by gap. With
// RepeatAfterBreak set, the title is repeated at the top of every
// additional page the content spans; without it, the title is drawn once,
// at the starting location. If VanishIfEmpty and the content measures to
// zero height, the title is suppressed entirely.
type Titled struct {
	Title, Content   layout.Element
	Gap              float64
	VanishIfEmpty    bool
	RepeatAfterBreak bool
}

func (t Titled) titleSize(ctx layout.WidthConstraint) layout.ElementSize {
	return t.Title.Measure(layout.MeasureCtx{Width: ctx, FirstHeight: 1e9})
}

func (t Titled) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(t, ctx)
}

func (t Titled) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	titleHeight := t.titleSize(ctx.Width).HeightOr(0)
	gap := t.Gap

	// The title's space is reserved while sizing the content; a vanishing
	// title is dropped from the reported size only once the content's size
	// is known, below (Draw makes the same decision).
	firstHeight := ctx.FirstHeight
	preBreak := !t.VanishIfEmpty && ctx.Breakable != nil && ctx.FirstHeight+layout.Epsilon < titleHeight
	if preBreak {
		firstHeight = ctx.Breakable.FullHeight
	}
	contentFirstHeight := layout.Max0(firstHeight - titleHeight - gap)
	var contentBreakable *layout.BreakableMeasure
	breaks := 0
	if ctx.Breakable != nil {
		fullForContent := ctx.Breakable.FullHeight
		if t.RepeatAfterBreak {
			fullForContent = layout.Max0(fullForContent - titleHeight - gap)
		}
		contentBreakable = &layout.BreakableMeasure{
			FullHeight: fullForContent,
			BreakCount: &breaks,
		}
	}
	contentSize := t.Content.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: contentFirstHeight, Breakable: contentBreakable})

	if ctx.Breakable != nil {
		if preBreak {
			breaks++
		}
		*ctx.Breakable.BreakCount = breaks
	}

	if t.VanishIfEmpty && contentSize.HeightOr(0) <= 0 {
		return contentSize
	}

	total := titleHeight + gap + contentSize.HeightOr(0)
	width := contentSize.WidthOr(0)
	if tw := t.titleSize(ctx.Width).WidthOr(0); tw > width {
		width = tw
	}
	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(total)}
}

func (t Titled) Draw(ctx layout.DrawCtx) layout.ElementSize {
	titleSize := t.titleSize(ctx.Width)
	titleHeight := titleSize.HeightOr(0)
	gap := t.Gap

	preBreak := !t.VanishIfEmpty && ctx.Breakable != nil && ctx.FirstHeight+layout.Epsilon < titleHeight
	if preBreak {
		ctx.Location = ctx.Breakable.LocationAt(ctx.Pdf, 0)
		ctx.FirstHeight = ctx.Breakable.FullHeight
		ctx.Breakable = afterPreBreak(ctx.Breakable)
	}

	contentFirstHeight := layout.Max0(ctx.FirstHeight - titleHeight - gap)
	contentLoc := layout.Location{PageIndex: ctx.Location.PageIndex, LayerIndex: ctx.Location.LayerIndex, X: ctx.Location.X, Y: ctx.Location.Y - titleHeight - gap, ScaleFactor: ctx.Location.ScaleFactor}

	var cb *layout.BreakableDraw
	titleLoc := ctx.Location
	if ctx.Breakable != nil {
		outer := ctx.Breakable
		if t.RepeatAfterBreak {
			fullForContent := layout.Max0(outer.FullHeight - titleHeight - gap)
			cb = &layout.BreakableDraw{
				FullHeight: fullForContent,
				DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
					newPage := outer.BreakTo(pdf, idx, h)
					t.Title.Draw(layout.DrawCtx{Pdf: pdf, Location: newPage, Width: ctx.Width, FirstHeight: titleHeight})
					return layout.Location{PageIndex: newPage.PageIndex, LayerIndex: newPage.LayerIndex, X: newPage.X, Y: newPage.Y - titleHeight - gap, ScaleFactor: newPage.ScaleFactor}
				},
			}
		} else {
			cb = &layout.BreakableDraw{
				FullHeight:  outer.FullHeight,
				DoBreak:     outer.DoBreak,
				GetLocation: outer.GetLocation,
			}
		}
	}

	contentSize := t.Content.Draw(layout.DrawCtx{
		Pdf: ctx.Pdf, Location: contentLoc, Width: ctx.Width, FirstHeight: contentFirstHeight, Breakable: cb,
	})

	if t.VanishIfEmpty && contentSize.HeightOr(0) <= 0 {
		return contentSize
	}

	t.Title.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: titleLoc, Width: ctx.Width, FirstHeight: titleHeight})

	width := contentSize.WidthOr(0)
	if titleSize.WidthOr(0) > width {
		width = titleSize.WidthOr(0)
	}
	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(titleHeight + gap + contentSize.HeightOr(0))}
}

// RepeatAfterBreak is Titled with RepeatAfterBreak=true: a convenience
// constructor matching the JSON tagged-enum name, sharing Titled's engine.
func NewRepeatAfterBreak(title, content layout.Element, gap float64, vanishIfEmpty bool) Titled {
	return Titled{Title: title, Content: content, Gap: gap, VanishIfEmpty: vanishIfEmpty, RepeatAfterBreak: true}
}

// RepeatBottom draws a bottom strip at the bottom of every page the content
// spans: on each break, bottom is drawn at content's reported height below
// the current location, then the next page is requested. Content's
// full_height is reduced by bottom_height + gap.
//
// The final reported height sums content_size.Height and bottom_size.Height
// literally, without an added gap, matching the original's literal
// arithmetic rather than the more "natural reading" content+bottom+gap —
// see DESIGN.md for the resolved open question. Do not "fix" this.
type RepeatBottom struct {
	Content, Bottom layout.Element
	Gap             float64
}

func (r RepeatBottom) bottomSize(ctx layout.WidthConstraint) layout.ElementSize {
	return r.Bottom.Measure(layout.MeasureCtx{Width: ctx, FirstHeight: 1e9})
}

func (r RepeatBottom) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(r, ctx)
}

func (r RepeatBottom) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	bottomHeight := r.bottomSize(ctx.Width).HeightOr(0)
	contentFirstHeight := layout.Max0(ctx.FirstHeight - bottomHeight - r.Gap)

	var cb *layout.BreakableMeasure
	breaks := 0
	if ctx.Breakable != nil {
		cb = &layout.BreakableMeasure{FullHeight: layout.Max0(ctx.Breakable.FullHeight - bottomHeight - r.Gap), BreakCount: &breaks}
	}
	contentSize := r.Content.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: contentFirstHeight, Breakable: cb})
	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = breaks
	}

	width := contentSize.WidthOr(0)
	if bw := r.bottomSize(ctx.Width).WidthOr(0); bw > width {
		width = bw
	}
	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(contentSize.HeightOr(0) + bottomHeight)}
}

func (r RepeatBottom) Draw(ctx layout.DrawCtx) layout.ElementSize {
	bottomSize := r.bottomSize(ctx.Width)
	bottomHeight := bottomSize.HeightOr(0)
	contentFirstHeight := layout.Max0(ctx.FirstHeight - bottomHeight - r.Gap)

	var cb *layout.BreakableDraw
	cur := ctx.Location
	if ctx.Breakable != nil {
		outer := ctx.Breakable
		cb = &layout.BreakableDraw{
			FullHeight: layout.Max0(outer.FullHeight - bottomHeight - r.Gap),
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				reportedContentHeight := 0.0
				if h != nil {
					reportedContentHeight = *h
				}
				bottomLoc := layout.Location{PageIndex: cur.PageIndex, LayerIndex: cur.LayerIndex, X: cur.X, Y: cur.Y - reportedContentHeight - r.Gap, ScaleFactor: cur.ScaleFactor}
				r.Bottom.Draw(layout.DrawCtx{Pdf: pdf, Location: bottomLoc, Width: ctx.Width, FirstHeight: bottomHeight})
				newPage := outer.BreakTo(pdf, idx, h)
				cur = newPage
				return newPage
			},
		}
	}

	contentSize := r.Content.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: ctx.Location, Width: ctx.Width, FirstHeight: contentFirstHeight, Breakable: cb})

	bottomLoc := layout.Location{PageIndex: cur.PageIndex, LayerIndex: cur.LayerIndex, X: cur.X, Y: cur.Y - contentSize.HeightOr(0) - r.Gap, ScaleFactor: cur.ScaleFactor}
	r.Bottom.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: bottomLoc, Width: ctx.Width, FirstHeight: bottomHeight})

	width := contentSize.WidthOr(0)
	if bottomSize.WidthOr(0) > width {
		width = bottomSize.WidthOr(0)
	}
	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(contentSize.HeightOr(0) + bottomSize.HeightOr(0))}
}

// PinBelow is like RepeatBottom but the pinned element is drawn only on the
// final page, anchored just below the content's final extent — achieved by
// deferring the pinned draw until content.Draw returns, and reducing the
// available height throughout by pinned_height+gap.
type PinBelow struct {
	Content, Pinned layout.Element
	Gap             float64
}

func (p PinBelow) pinnedSize(ctx layout.WidthConstraint) layout.ElementSize {
	return p.Pinned.Measure(layout.MeasureCtx{Width: ctx, FirstHeight: 1e9})
}

func (p PinBelow) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(p, ctx)
}

func (p PinBelow) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	pinnedHeight := p.pinnedSize(ctx.Width).HeightOr(0)
	contentFirstHeight := layout.Max0(ctx.FirstHeight - pinnedHeight - p.Gap)

	var cb *layout.BreakableMeasure
	breaks := 0
	if ctx.Breakable != nil {
		cb = &layout.BreakableMeasure{FullHeight: layout.Max0(ctx.Breakable.FullHeight - pinnedHeight - p.Gap), BreakCount: &breaks}
	}
	contentSize := p.Content.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: contentFirstHeight, Breakable: cb})
	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = breaks
	}

	width := contentSize.WidthOr(0)
	if pw := p.pinnedSize(ctx.Width).WidthOr(0); pw > width {
		width = pw
	}
	// The pinned strip always hangs below the content's final extent, so
	// its height and gap are part of the reported size even when the
	// content paginated.
	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(contentSize.HeightOr(0) + p.Gap + pinnedHeight)}
}

func (p PinBelow) Draw(ctx layout.DrawCtx) layout.ElementSize {
	pinnedSize := p.pinnedSize(ctx.Width)
	pinnedHeight := pinnedSize.HeightOr(0)
	contentFirstHeight := layout.Max0(ctx.FirstHeight - pinnedHeight - p.Gap)

	var cb *layout.BreakableDraw
	final := ctx.Location
	if ctx.Breakable != nil {
		outer := ctx.Breakable
		cb = &layout.BreakableDraw{
			FullHeight: layout.Max0(outer.FullHeight - pinnedHeight - p.Gap),
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				final = outer.BreakTo(pdf, idx, h)
				return final
			},
		}
	}

	contentSize := p.Content.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: ctx.Location, Width: ctx.Width, FirstHeight: contentFirstHeight, Breakable: cb})

	pinnedLoc := layout.Location{PageIndex: final.PageIndex, LayerIndex: final.LayerIndex, X: final.X, Y: final.Y - contentSize.HeightOr(0) - p.Gap, ScaleFactor: final.ScaleFactor}
	p.Pinned.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: pinnedLoc, Width: ctx.Width, FirstHeight: pinnedHeight})

	width := contentSize.WidthOr(0)
	if pinnedSize.WidthOr(0) > width {
		width = pinnedSize.WidthOr(0)
	}
	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(contentSize.HeightOr(0) + p.Gap + pinnedHeight)}
}

// AlignLocationBottom bottom-aligns the child within the page it ends up
// on: if it fits on the first page it's bottom-aligned within first_height;
// otherwise it forces a break (or as many as preferred_height_break_count
// asks for) and is bottom-aligned within full_height on the target page.
// Its reported height is the full location height it was aligned within,
// and it reserves full_height on the final page via
// extra_location_min_height so the surrounding flow preserves the space.
type AlignLocationBottom struct {
	Element layout.Element
}

type bottomAlignLayout struct {
	breaks  int
	yOffset float64
	size    layout.ElementSize
}

func (a AlignLocationBottom) layout(width layout.WidthConstraint, firstHeight float64, fullHeight *float64, preferredBreaks int) bottomAlignLayout {
	heightAvailable := firstHeight
	if fullHeight != nil {
		heightAvailable = *fullHeight
	}
	size := a.Element.Measure(layout.MeasureCtx{Width: width, FirstHeight: heightAvailable})

	breaks := 0
	locationHeight := firstHeight
	if size.Height != nil && fullHeight != nil {
		if preferredBreaks == 0 && *size.Height > firstHeight+layout.Epsilon {
			breaks = 1
		} else {
			breaks = preferredBreaks
		}
		if breaks > 0 {
			locationHeight = *fullHeight
		}
	}

	yOffset := 0.0
	if size.Height != nil {
		yOffset = layout.Max0(locationHeight - *size.Height)
	}
	return bottomAlignLayout{breaks: breaks, yOffset: yOffset, size: size}
}

func (a AlignLocationBottom) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	l := a.layout(ctx.Width, ctx.FirstHeight, layout.Some(ctx.FullHeight), 0)
	switch {
	case l.breaks > 0:
		return layout.WillSkip
	case l.size.Height != nil:
		return layout.WillUse
	default:
		return layout.NoneHeight
	}
}

func (a AlignLocationBottom) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	if ctx.Breakable == nil {
		l := a.layout(ctx.Width, ctx.FirstHeight, nil, 0)
		var height *float64
		if l.size.Height != nil {
			height = layout.Some(ctx.FirstHeight)
		}
		return layout.ElementSize{Width: l.size.Width, Height: height}
	}

	l := a.layout(ctx.Width, ctx.FirstHeight, layout.Some(ctx.Breakable.FullHeight), 0)
	var height *float64
	if l.breaks > 0 {
		*ctx.Breakable.BreakCount = l.breaks
		height = layout.Some(ctx.Breakable.FullHeight)
	} else if l.size.Height != nil {
		height = layout.Some(ctx.FirstHeight)
	}
	if ctx.Breakable.ExtraLocationMinHeight != nil {
		*ctx.Breakable.ExtraLocationMinHeight = ctx.Breakable.FullHeight
	}

	return layout.ElementSize{Width: l.size.Width, Height: height}
}

func (a AlignLocationBottom) Draw(ctx layout.DrawCtx) layout.ElementSize {
	var fullHeight *float64
	preferredBreaks := 0
	if ctx.Breakable != nil {
		fullHeight = layout.Some(ctx.Breakable.FullHeight)
		preferredBreaks = ctx.Breakable.PreferredHeightBreakCount
	}
	l := a.layout(ctx.Width, ctx.FirstHeight, fullHeight, preferredBreaks)

	loc := ctx.Location
	heightAvailable := ctx.FirstHeight
	var height *float64
	if l.breaks > 0 {
		loc = ctx.Breakable.BreakTo(ctx.Pdf, l.breaks-1, nil)
		heightAvailable = ctx.Breakable.FullHeight
		height = layout.Some(ctx.Breakable.FullHeight)
	} else if l.size.Height != nil {
		height = layout.Some(ctx.FirstHeight)
	}

	loc.Y -= l.yOffset
	a.Element.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: loc, Width: ctx.Width, FirstHeight: heightAvailable})

	return layout.ElementSize{Width: l.size.Width, Height: height}
}

// AlignPreferredHeightBottom bottom-aligns the child within the advisory
// preferred_height its parent suggested, rather than the hard page boundary
// AlignLocationBottom uses. The child is drawn as one unbroken unit; with
// no preferred height the element passes through unchanged.
type AlignPreferredHeightBottom struct {
	Element layout.Element
}

func (a AlignPreferredHeightBottom) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(a, ctx)
}

func (a AlignPreferredHeightBottom) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	return a.Element.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: ctx.FirstHeight})
}

func (a AlignPreferredHeightBottom) Draw(ctx layout.DrawCtx) layout.ElementSize {
	measured := a.Element.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: ctx.FirstHeight})
	h := measured.HeightOr(0)

	target := h
	if ctx.PreferredHeight != nil && *ctx.PreferredHeight > target {
		target = *ctx.PreferredHeight
	}

	loc := ctx.Location
	loc.Y -= layout.Max0(target - h)
	a.Element.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: loc, Width: ctx.Width, FirstHeight: h})

	var height *float64
	if measured.Height != nil {
		height = layout.Some(target)
	}
	return layout.ElementSize{Width: measured.Width, Height: height}
}

// CenterInPreferredHeight vertically centers the child within the first
// location it ends up on, claiming the whole location height as its own.
// At most one pre-break occurs if the child doesn't fit at the starting
// location; there is no multi-page logic beyond that.
type CenterInPreferredHeight struct {
	Element layout.Element
}

type centerLayout struct {
	preBreak bool
	yOffset  float64
	size     layout.ElementSize
}

func (c CenterInPreferredHeight) layout(width layout.WidthConstraint, firstHeight float64, fullHeight *float64) centerLayout {
	heightAvailable := firstHeight
	if fullHeight != nil {
		heightAvailable = *fullHeight
	}
	size := c.Element.Measure(layout.MeasureCtx{Width: width, FirstHeight: heightAvailable})

	preBreak := false
	locationHeight := firstHeight
	if size.Height != nil && fullHeight != nil {
		preBreak = *size.Height > firstHeight+layout.Epsilon
		if preBreak {
			locationHeight = *fullHeight
		}
	}

	yOffset := 0.0
	if size.Height != nil {
		yOffset = layout.Max0(locationHeight-*size.Height) / 2
	}
	return centerLayout{preBreak: preBreak, yOffset: yOffset, size: size}
}

func (c CenterInPreferredHeight) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	l := c.layout(ctx.Width, ctx.FirstHeight, layout.Some(ctx.FullHeight))
	switch {
	case l.preBreak:
		return layout.WillSkip
	case l.size.Height != nil:
		return layout.WillUse
	default:
		return layout.NoneHeight
	}
}

func (c CenterInPreferredHeight) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	if ctx.Breakable == nil {
		l := c.layout(ctx.Width, ctx.FirstHeight, nil)
		var height *float64
		if l.size.Height != nil {
			height = layout.Some(ctx.FirstHeight)
		}
		return layout.ElementSize{Width: l.size.Width, Height: height}
	}

	l := c.layout(ctx.Width, ctx.FirstHeight, layout.Some(ctx.Breakable.FullHeight))
	var height *float64
	if l.preBreak {
		*ctx.Breakable.BreakCount = 1
		height = layout.Some(ctx.Breakable.FullHeight)
	} else if l.size.Height != nil {
		height = layout.Some(ctx.FirstHeight)
	}
	return layout.ElementSize{Width: l.size.Width, Height: height}
}

func (c CenterInPreferredHeight) Draw(ctx layout.DrawCtx) layout.ElementSize {
	var fullHeight *float64
	if ctx.Breakable != nil {
		fullHeight = layout.Some(ctx.Breakable.FullHeight)
	}
	l := c.layout(ctx.Width, ctx.FirstHeight, fullHeight)

	loc := ctx.Location
	heightAvailable := ctx.FirstHeight
	var height *float64
	if l.preBreak {
		loc = ctx.Breakable.LocationAt(ctx.Pdf, 0)
		heightAvailable = ctx.Breakable.FullHeight
		height = layout.Some(ctx.Breakable.FullHeight)
	} else if l.size.Height != nil {
		height = layout.Some(ctx.FirstHeight)
	}

	loc.Y -= l.yOffset
	c.Element.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: loc, Width: ctx.Width, FirstHeight: heightAvailable})

	return layout.ElementSize{Width: l.size.Width, Height: height}
}

// ExpandToPreferredHeight issues additional do_break calls to walk forward
// to the preferred page when the child's natural break count is less than
// preferred_height_break_count, reporting the preferred height; it returns
// max(natural, preferred) when the counts are equal, and leaves the child
// untouched (it wins) when the child's natural count is greater.
//
// The forwarding loop uses the per-iteration index, not a constant — see
// DESIGN.md for why the literal-constant reading in the original is
// treated as a latent bug rather than replicated.
type ExpandToPreferredHeight struct {
	Element layout.Element
}

func (e ExpandToPreferredHeight) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return e.Element.FirstLocationUsage(ctx)
}

func (e ExpandToPreferredHeight) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	return e.Element.Measure(ctx)
}

// maxOptionalHeight is the max of two optional heights, absent only when
// both are.
func maxOptionalHeight(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b > *a:
		return b
	default:
		return a
	}
}

func (e ExpandToPreferredHeight) Draw(ctx layout.DrawCtx) layout.ElementSize {
	if ctx.Breakable == nil {
		size := e.Element.Draw(ctx)
		return layout.ElementSize{Width: size.Width, Height: maxOptionalHeight(size.Height, ctx.PreferredHeight)}
	}

	preferredBreaks := ctx.Breakable.PreferredHeightBreakCount
	breakCount := 0

	outer := ctx.Breakable
	cb := &layout.BreakableDraw{
		FullHeight:                outer.FullHeight,
		PreferredHeightBreakCount: preferredBreaks,
		DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
			if idx+1 > breakCount {
				breakCount = idx + 1
			}
			return outer.BreakTo(pdf, idx, h)
		},
	}

	size := e.Element.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: ctx.Location, Width: ctx.Width, FirstHeight: ctx.FirstHeight, PreferredHeight: ctx.PreferredHeight, Breakable: cb})

	switch {
	case breakCount < preferredBreaks:
		for i := breakCount; i < preferredBreaks; i++ {
			outer.BreakTo(ctx.Pdf, i, layout.Some(outer.FullHeight))
		}
		return layout.ElementSize{Width: size.Width, Height: ctx.PreferredHeight}
	case breakCount == preferredBreaks:
		return layout.ElementSize{Width: size.Width, Height: maxOptionalHeight(size.Height, ctx.PreferredHeight)}
	default:
		return size
	}
}

// TitleOrBreak breaks before drawing anything if the title fits in
// first_height but the content that follows would not; otherwise both are
// drawn in place.
type TitleOrBreak struct {
	Title, Content layout.Element
	Gap            float64
}

func (t TitleOrBreak) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(t, ctx)
}

func (t TitleOrBreak) combined(ctx layout.WidthConstraint) (titleH, contentH, width float64) {
	title := t.Title.Measure(layout.MeasureCtx{Width: ctx, FirstHeight: 1e9})
	content := t.Content.Measure(layout.MeasureCtx{Width: ctx, FirstHeight: 1e9})
	width = title.WidthOr(0)
	if cw := content.WidthOr(0); cw > width {
		width = cw
	}
	return title.HeightOr(0), content.HeightOr(0), width
}

func (t TitleOrBreak) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	titleH, contentH, width := t.combined(ctx.Width)
	breakFirst := ctx.FirstHeight+layout.Epsilon >= titleH && ctx.FirstHeight+layout.Epsilon < titleH+t.Gap+contentH
	breaks := 0
	if breakFirst && ctx.Breakable != nil {
		breaks = 1
	}
	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = breaks
	}
	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(titleH + t.Gap + contentH)}
}

func (t TitleOrBreak) Draw(ctx layout.DrawCtx) layout.ElementSize {
	titleH, contentH, width := t.combined(ctx.Width)
	breakFirst := ctx.FirstHeight+layout.Epsilon >= titleH && ctx.FirstHeight+layout.Epsilon < titleH+t.Gap+contentH

	if breakFirst && ctx.Breakable != nil {
		ctx.Location = ctx.Breakable.LocationAt(ctx.Pdf, 0)
		ctx.FirstHeight = ctx.Breakable.FullHeight
	}

	t.Title.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: ctx.Location, Width: ctx.Width, FirstHeight: titleH})
	contentLoc := layout.Location{PageIndex: ctx.Location.PageIndex, LayerIndex: ctx.Location.LayerIndex, X: ctx.Location.X, Y: ctx.Location.Y - titleH - t.Gap, ScaleFactor: ctx.Location.ScaleFactor}
	t.Content.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: contentLoc, Width: ctx.Width, FirstHeight: contentH, Breakable: ctx.Breakable})

	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(titleH + t.Gap + contentH)}
}

// Rotation selects a quarter turn for Rotate.
type Rotation int

const (
	QuarterLeft Rotation = iota
	QuarterRight
)

// Rotate swaps the width/height axes for its child and rotates the PDF
// coordinate system on draw: the child is measured against a width equal
// to the page's full height and a first_height equal to the outer width
// budget. The child is confined to a single page — rotation is
// incompatible with the break protocol, which operates in upright
// coordinates — so the child always draws with Breakable == nil. A single
// pre-break occurs when the rotated footprint (the child's width) exceeds
// a shortened first location.
type Rotate struct {
	Element  layout.Element
	Rotation Rotation

	// ApplyCTM rotates the drawing coordinate system around the current
	// location so the child can draw upright at origin (0, 0). The returned
	// restore function pops the transform once the child's draw is done.
	// Left nil in tests that only check sizing and break behavior.
	ApplyCTM func(ctx layout.DrawCtx, rotation Rotation, childWidth, childHeight float64) (layout.DrawCtx, func())
}

func (r Rotate) childWidth(fullHeight float64) layout.WidthConstraint {
	return layout.WidthConstraint{Max: fullHeight, Expand: false}
}

func (r Rotate) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	size := r.Element.Measure(layout.MeasureCtx{Width: r.childWidth(ctx.FullHeight), FirstHeight: ctx.Width.Max})
	switch {
	case size.Width == nil:
		return layout.NoneHeight
	case ctx.FirstHeight+layout.Epsilon < ctx.FullHeight && *size.Width > ctx.FirstHeight+layout.Epsilon:
		return layout.WillSkip
	default:
		return layout.WillUse
	}
}

func (r Rotate) preBreaks(ctx layout.MeasureCtx, size layout.ElementSize) bool {
	return ctx.Breakable != nil &&
		ctx.FirstHeight+layout.Epsilon < ctx.Breakable.FullHeight &&
		size.Width != nil && *size.Width > ctx.FirstHeight+layout.Epsilon
}

func (r Rotate) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	full := ctx.FirstHeight
	if ctx.Breakable != nil {
		full = ctx.Breakable.FullHeight
	}
	size := r.Element.Measure(layout.MeasureCtx{Width: r.childWidth(full), FirstHeight: ctx.Width.Max})
	if r.preBreaks(ctx, size) {
		*ctx.Breakable.BreakCount = 1
	}
	// width/height axes are swapped back for the outer caller.
	return layout.ElementSize{Width: size.Height, Height: size.Width}
}

func (r Rotate) Draw(ctx layout.DrawCtx) layout.ElementSize {
	full := ctx.FirstHeight
	if ctx.Breakable != nil {
		full = ctx.Breakable.FullHeight
	}
	childWidth := r.childWidth(full)
	size := r.Element.Measure(layout.MeasureCtx{Width: childWidth, FirstHeight: ctx.Width.Max})

	if r.preBreaks(layout.MeasureCtx{Width: ctx.Width, FirstHeight: ctx.FirstHeight, Breakable: breakableMeasureShim(ctx.Breakable)}, size) {
		ctx.Location = ctx.Breakable.BreakTo(ctx.Pdf, 0, nil)
		ctx.FirstHeight = ctx.Breakable.FullHeight
	}

	if size.Width != nil && size.Height != nil {
		childCtx := layout.DrawCtx{Pdf: ctx.Pdf, Location: ctx.Location, Width: childWidth, FirstHeight: ctx.Width.Max}
		restore := func() {}
		if r.ApplyCTM != nil {
			childCtx, restore = r.ApplyCTM(childCtx, r.Rotation, *size.Width, *size.Height)
		}
		r.Element.Draw(childCtx)
		restore()
	}

	return layout.ElementSize{Width: size.Height, Height: size.Width}
}

// breakableMeasureShim adapts a draw-pass breakable into the measure shape
// preBreaks expects, carrying only the full height it reads.
func breakableMeasureShim(b *layout.BreakableDraw) *layout.BreakableMeasure {
	if b == nil {
		return nil
	}
	return &layout.BreakableMeasure{FullHeight: b.FullHeight}
}

// afterPreBreak returns the callback a child sees once its container has
// already taken location 0 for a pre-break: the child's break indices are
// shifted up by one, so its first break lands on the location after the
// one it starts on.
func afterPreBreak(b *layout.BreakableDraw) *layout.BreakableDraw {
	preferred := b.PreferredHeightBreakCount - 1
	if preferred < 0 {
		preferred = 0
	}
	return &layout.BreakableDraw{
		FullHeight:                b.FullHeight,
		PreferredHeightBreakCount: preferred,
		DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
			return b.BreakTo(pdf, idx+1, h)
		},
	}
}

// MinFirstHeight pre-breaks once, if breakable, when first_height is below
// a caller-supplied threshold, so the child never has to reason about an
// unusually short starting page.
type MinFirstHeight struct {
	Min     float64
	Element layout.Element
}

func (m MinFirstHeight) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if ctx.FirstHeight+layout.Epsilon < m.Min {
		ctx.FirstHeight = ctx.FullHeight
	}
	return m.Element.FirstLocationUsage(ctx)
}

func (m MinFirstHeight) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	if ctx.Breakable != nil && ctx.FirstHeight+layout.Epsilon < m.Min {
		inner := 0
		size := m.Element.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: ctx.Breakable.FullHeight, Breakable: &layout.BreakableMeasure{FullHeight: ctx.Breakable.FullHeight, BreakCount: &inner}})
		*ctx.Breakable.BreakCount = inner + 1
		return size
	}
	return m.Element.Measure(ctx)
}

func (m MinFirstHeight) Draw(ctx layout.DrawCtx) layout.ElementSize {
	if ctx.Breakable != nil && ctx.FirstHeight+layout.Epsilon < m.Min {
		ctx.Location = ctx.Breakable.LocationAt(ctx.Pdf, 0)
		ctx.FirstHeight = ctx.Breakable.FullHeight
		ctx.Breakable = afterPreBreak(ctx.Breakable)
	}
	return m.Element.Draw(ctx)
}

// ShrinkToFit measures the child unbreakably at the full available height;
// if it fits, it passes through unchanged. If the child would otherwise
// need to break, ShrinkToFit instead forces single-page placement by
// drawing it with no break callback at all — the caller is asserting the
// content is meant to be rendered tight, not paginated. If the wrapped
// child still reports a nonzero break count in that situation, that is a
// contract violation surfaced through OnViolation rather than ignored.
type ShrinkToFit struct {
	Element     layout.Element
	OnViolation func(err error)
}

func (s ShrinkToFit) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.WillUse
}

func (s ShrinkToFit) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	height := ctx.FirstHeight
	if ctx.Breakable != nil {
		height = ctx.Breakable.FullHeight
	}
	size := s.Element.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: height})
	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = 0
	}
	return size
}

func (s ShrinkToFit) Draw(ctx layout.DrawCtx) layout.ElementSize {
	height := ctx.FirstHeight
	if ctx.Breakable != nil {
		height = ctx.Breakable.FullHeight
	}
	breakCount := 0
	s.Element.Measure(layout.MeasureCtx{Width: ctx.Width, FirstHeight: height, Breakable: &layout.BreakableMeasure{FullHeight: height, BreakCount: &breakCount}})

	size := s.Element.Draw(layout.DrawCtx{Pdf: ctx.Pdf, Location: ctx.Location, Width: ctx.Width, FirstHeight: height})
	if breakCount > 0 && s.OnViolation != nil {
		s.OnViolation(ErrShrinkToFitOverflow)
	}
	return size
}

// WidthSpec is one column's width rule within a TableRow.
type WidthSpec struct {
	Fixed float64
	Flex  uint32 // 0 means Fixed is used instead
}

// TableRow is a restricted Row whose cell widths come from an explicit
// WidthSpec list rather than per-child flex annotations, matching the
// JSON shape of the "TableRow" tagged element.
type TableRow struct {
	Cells  []layout.Element
	Widths []WidthSpec
	Gap    float64
}

// fixedWidthCell forces a child to report exactly Width regardless of its
// own intrinsic size. Row's flex allocator only overrides the width it
// hands a child for Flex columns; a Flex==0 WidthSpec.Fixed column needs
// this wrapper so its declared width, not the cell's intrinsic content
// width, is what Row actually allocates.
type fixedWidthCell struct {
	Width   float64
	Element layout.Element
}

func (f fixedWidthCell) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	ctx.Width = layout.WidthConstraint{Max: f.Width, Expand: true}
	return f.Element.FirstLocationUsage(ctx)
}

func (f fixedWidthCell) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	ctx.Width = layout.WidthConstraint{Max: f.Width, Expand: true}
	size := f.Element.Measure(ctx)
	return layout.ElementSize{Width: layout.Some(f.Width), Height: size.Height}
}

func (f fixedWidthCell) Draw(ctx layout.DrawCtx) layout.ElementSize {
	ctx.Width = layout.WidthConstraint{Max: f.Width, Expand: true}
	size := f.Element.Draw(ctx)
	return layout.ElementSize{Width: layout.Some(f.Width), Height: size.Height}
}

func (t TableRow) asRow() Row {
	children := make([]RowChild, len(t.Cells))
	for i, c := range t.Cells {
		spec := t.Widths[i]
		if spec.Flex == 0 {
			children[i] = RowChild{Element: fixedWidthCell{Width: spec.Fixed, Element: c}, Flex: FlexSpec{}}
		} else {
			children[i] = RowChild{Element: c, Flex: FlexSpec{Flex: spec.Flex, Expand: true}}
		}
	}
	return Row{Children: children, Gap: t.Gap}
}

func (t TableRow) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return t.asRow().FirstLocationUsage(ctx)
}

func (t TableRow) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	return t.asRow().Measure(ctx)
}

func (t TableRow) Draw(ctx layout.DrawCtx) layout.ElementSize {
	return t.asRow().Draw(ctx)
}
