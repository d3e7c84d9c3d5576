package elements

import "docrender/internal/core/engine/layout"

// LinesAndBreaks packs a fixed number of uniform-height lines across pages,
// given the space available at the first location and at every subsequent
// one. It returns how many lines land on the element's final location (the
// reported height of a breaking element is the height it occupies at its
// last location) and how many additional locations (breaks) are needed to
// place the rest. This is the shared line-packing arithmetic behind both
// the production Text element and the layouttest.FakeText fixture, so both
// exhibit identical, predictable pagination math.
func LinesAndBreaks(totalLines int, lineHeight, firstHeight, fullHeight float64) (lastPageLines, breakCount int) {
	if totalLines <= 0 {
		return 0, 0
	}
	if lineHeight <= 0 {
		return totalLines, 0
	}

	firstLines := linesFitting(firstHeight, lineHeight)
	if firstLines >= totalLines {
		return totalLines, 0
	}

	remaining := totalLines - firstLines
	perPage := linesFitting(fullHeight, lineHeight)
	if perPage < 1 {
		perPage = 1
	}
	fullPages := remaining / perPage
	tail := remaining % perPage

	if tail == 0 {
		return perPage, fullPages
	}
	return tail, fullPages + 1
}

func linesFitting(height, lineHeight float64) int {
	n := int((height + layout.Epsilon) / lineHeight)
	if n < 0 {
		return 0
	}
	return n
}

// TextMeasurer abstracts the font-shaping/text-breaking collaborator the
// core depends on but does not implement: given a string it reports the
// width it would occupy on one line, and a fixed per-line height.
type TextMeasurer interface {
	MeasureLine(s string) float64
	LineHeight() float64
}

// Text is the core's text-shim leaf: given a pre-shaped measurer and a
// slice of already word-wrapped lines (wrapping itself is a font-shaping
// concern and out of scope for the core), it behaves exactly like
// layouttest.FakeText but draws real glyphs through the measurer's owner.
type Text struct {
	Lines    []string
	Measurer TextMeasurer
	DrawLine func(ctx layout.DrawCtx, line string, x, y, width float64)
}

func (t Text) lineHeight() float64 {
	return t.Measurer.LineHeight()
}

func (t Text) width(ctx layout.WidthConstraint) float64 {
	max := 0.0
	for _, l := range t.Lines {
		if w := t.Measurer.MeasureLine(l); w > max {
			max = w
		}
	}
	return ctx.Constrain(max)
}

func (t Text) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if len(t.Lines) == 0 {
		return layout.NoneHeight
	}
	if ctx.FirstHeight+layout.Epsilon < t.lineHeight() {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (t Text) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	lines := len(t.Lines)
	if ctx.Breakable != nil {
		var breaks int
		lines, breaks = LinesAndBreaks(len(t.Lines), t.lineHeight(), ctx.FirstHeight, ctx.Breakable.FullHeight)
		*ctx.Breakable.BreakCount = breaks
	}
	return layout.ElementSize{
		Width:  layout.Some(t.width(ctx.Width)),
		Height: layout.Some(float64(lines) * t.lineHeight()),
	}
}

func (t Text) Draw(ctx layout.DrawCtx) layout.ElementSize {
	lh := t.lineHeight()
	width := t.width(ctx.Width)

	lines := len(t.Lines)
	if ctx.Breakable == nil {
		y := ctx.Location.Y
		for _, line := range t.Lines {
			if t.DrawLine != nil {
				t.DrawLine(ctx, line, ctx.Location.X, y, width)
			}
			y -= lh
		}
		return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(float64(lines) * lh)}
	}

	var breaks int
	lines, breaks = LinesAndBreaks(len(t.Lines), lh, ctx.FirstHeight, ctx.Breakable.FullHeight)

	firstLines := linesFitting(ctx.FirstHeight, lh)
	if firstLines > len(t.Lines) {
		firstLines = len(t.Lines)
	}
	perPage := linesFitting(ctx.Breakable.FullHeight, lh)
	if perPage < 1 {
		perPage = 1
	}

	y := ctx.Location.Y
	x := ctx.Location.X
	idx := 0
	for i := 0; i < firstLines; i++ {
		if t.DrawLine != nil {
			t.DrawLine(ctx, t.Lines[idx], x, y, width)
		}
		y -= lh
		idx++
	}

	for b := 0; b < breaks; b++ {
		occupied := float64(firstLines) * lh
		if b > 0 {
			occupied = float64(perPage) * lh
		}
		loc := ctx.Breakable.BreakTo(ctx.Pdf, b, layout.Some(occupied))
		x, y = loc.X, loc.Y
		for i := 0; i < perPage && idx < len(t.Lines); i++ {
			if t.DrawLine != nil {
				t.DrawLine(ctx, t.Lines[idx], x, y, width)
			}
			y -= lh
			idx++
		}
	}

	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(float64(lines) * lh)}
}

// RichTextRun is one styled span within a RichText paragraph.
type RichTextRun struct {
	Text      string
	FontAlias string
	Size      float64
	Bold      bool
	Italic    bool
}

// RichText flows a list of styled runs as a single paragraph through the
// same TextMeasurer abstraction plain Text depends on, one run's worth of
// already-wrapped lines at a time.
type RichText struct {
	Runs     []RichTextRun
	Measurer TextMeasurer
	DrawRun  func(ctx layout.DrawCtx, run RichTextRun, x, y, width float64)
}

func (r RichText) width(ctx layout.WidthConstraint) float64 {
	max := 0.0
	for _, run := range r.Runs {
		if w := r.Measurer.MeasureLine(run.Text); w > max {
			max = w
		}
	}
	return ctx.Constrain(max)
}

func (r RichText) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if len(r.Runs) == 0 {
		return layout.NoneHeight
	}
	if ctx.FirstHeight+layout.Epsilon < r.Measurer.LineHeight() {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (r RichText) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	lines := len(r.Runs)
	if ctx.Breakable != nil {
		var breaks int
		lines, breaks = LinesAndBreaks(len(r.Runs), r.Measurer.LineHeight(), ctx.FirstHeight, ctx.Breakable.FullHeight)
		*ctx.Breakable.BreakCount = breaks
	}
	return layout.ElementSize{
		Width:  layout.Some(r.width(ctx.Width)),
		Height: layout.Some(float64(lines) * r.Measurer.LineHeight()),
	}
}

func (r RichText) Draw(ctx layout.DrawCtx) layout.ElementSize {
	lh := r.Measurer.LineHeight()
	width := r.width(ctx.Width)

	lines := len(r.Runs)
	if ctx.Breakable == nil {
		y := ctx.Location.Y
		for _, run := range r.Runs {
			if r.DrawRun != nil {
				r.DrawRun(ctx, run, ctx.Location.X, y, width)
			}
			y -= lh
		}
		return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(float64(lines) * lh)}
	}

	var breaks int
	lines, breaks = LinesAndBreaks(len(r.Runs), lh, ctx.FirstHeight, ctx.Breakable.FullHeight)

	firstLines := linesFitting(ctx.FirstHeight, lh)
	if firstLines > len(r.Runs) {
		firstLines = len(r.Runs)
	}
	perPage := linesFitting(ctx.Breakable.FullHeight, lh)
	if perPage < 1 {
		perPage = 1
	}

	y := ctx.Location.Y
	x := ctx.Location.X
	idx := 0
	for i := 0; i < firstLines; i++ {
		if r.DrawRun != nil {
			r.DrawRun(ctx, r.Runs[idx], x, y, width)
		}
		y -= lh
		idx++
	}

	for b := 0; b < breaks; b++ {
		occupied := float64(firstLines) * lh
		if b > 0 {
			occupied = float64(perPage) * lh
		}
		loc := ctx.Breakable.BreakTo(ctx.Pdf, b, layout.Some(occupied))
		x, y = loc.X, loc.Y
		for i := 0; i < perPage && idx < len(r.Runs); i++ {
			if r.DrawRun != nil {
				r.DrawRun(ctx, r.Runs[idx], x, y, width)
			}
			y -= lh
			idx++
		}
	}

	return layout.ElementSize{Width: layout.Some(width), Height: layout.Some(float64(lines) * lh)}
}
