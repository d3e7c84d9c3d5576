package layouttest

import "docrender/internal/core/engine/layout"

// BuildElement constructs an Element from three closures, letting a single
// test define ad hoc first_location_usage/measure/draw behavior without a
// named type.
type BuildElement struct {
	OnFirstLocationUsage func(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage
	OnMeasure            func(ctx layout.MeasureCtx) layout.ElementSize
	OnDraw               func(ctx layout.DrawCtx) layout.ElementSize
}

func (b BuildElement) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if b.OnFirstLocationUsage != nil {
		return b.OnFirstLocationUsage(ctx)
	}
	return layout.DefaultFirstLocationUsage(b, ctx)
}

func (b BuildElement) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	return b.OnMeasure(ctx)
}

func (b BuildElement) Draw(ctx layout.DrawCtx) layout.ElementSize {
	return b.OnDraw(ctx)
}

// RefElement forwards every call to a wrapped element by pointer, letting
// tests hold a single shared instance across multiple composed positions
// in a tree without copying it.
type RefElement struct {
	Element layout.Element
}

func (r RefElement) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return r.Element.FirstLocationUsage(ctx)
}

func (r RefElement) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	return r.Element.Measure(ctx)
}

func (r RefElement) Draw(ctx layout.DrawCtx) layout.ElementSize {
	return r.Element.Draw(ctx)
}

// FranticJumper requests its break locations in an arbitrary caller-chosen
// order, revisiting indices freely, and checks that a revisited index hands
// back the exact same location — the pagination idempotence containers must
// guarantee.
type FranticJumper struct {
	Jumps []int
	Size  layout.ElementSize

	// OnMismatch is called instead of panicking when a revisited index
	// comes back different; tests wire it to t.Errorf.
	OnMismatch func(locationIdx int, first, second layout.Location)
}

func (f FranticJumper) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.DefaultFirstLocationUsage(f, ctx)
}

func (f FranticJumper) maxBreaks() int {
	max := 0
	for _, j := range f.Jumps {
		if j+1 > max {
			max = j + 1
		}
	}
	return max
}

func (f FranticJumper) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = f.maxBreaks()
	}
	return f.Size
}

func (f FranticJumper) Draw(ctx layout.DrawCtx) layout.ElementSize {
	if ctx.Breakable != nil {
		seen := map[int]layout.Location{}
		for _, jump := range f.Jumps {
			loc := ctx.Breakable.LocationAt(ctx.Pdf, jump)
			if prev, ok := seen[jump]; ok {
				if prev != loc && f.OnMismatch != nil {
					f.OnMismatch(jump, prev, loc)
				}
			} else {
				seen[jump] = loc
			}
		}
	}
	return f.Size
}

// RecordedPass is one invocation captured by RecordElement.
type RecordedPass struct {
	Kind   string // "first_location_usage", "measure", or "draw"
	Width  layout.WidthConstraint
	Height float64
}

// RecordElement wraps a child element and records every context it's
// invoked with across all three passes, so tests can assert measure/draw
// equivalence and check that containers probe children the expected number
// of times.
type RecordElement struct {
	Element layout.Element
	Passes  *[]RecordedPass

	BeforeDraw func(ctx *layout.DrawCtx)
	AfterBreak func(loc layout.Location)
}

func NewRecordElement(e layout.Element) *RecordElement {
	passes := []RecordedPass{}
	return &RecordElement{Element: e, Passes: &passes}
}

func (r *RecordElement) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	*r.Passes = append(*r.Passes, RecordedPass{Kind: "first_location_usage", Width: ctx.Width, Height: ctx.FirstHeight})
	return r.Element.FirstLocationUsage(ctx)
}

func (r *RecordElement) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	*r.Passes = append(*r.Passes, RecordedPass{Kind: "measure", Width: ctx.Width, Height: ctx.FirstHeight})
	return r.Element.Measure(ctx)
}

func (r *RecordElement) Draw(ctx layout.DrawCtx) layout.ElementSize {
	*r.Passes = append(*r.Passes, RecordedPass{Kind: "draw", Width: ctx.Width, Height: ctx.FirstHeight})
	if r.BeforeDraw != nil {
		r.BeforeDraw(&ctx)
	}
	if r.AfterBreak != nil && ctx.Breakable != nil && ctx.Breakable.DoBreak != nil {
		inner := ctx.Breakable.DoBreak
		wrapped := *ctx.Breakable
		wrapped.DoBreak = func(pdf layout.PageStream, idx int, h *float64) layout.Location {
			loc := inner(pdf, idx, h)
			r.AfterBreak(loc)
			return loc
		}
		ctx.Breakable = &wrapped
	}
	return r.Element.Draw(ctx)
}
