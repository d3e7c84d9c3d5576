// Package layouttest provides the test fixtures and harnesses used across
// the engine's package tests: a predictable line-packing element, a
// recorder that captures every context an element is invoked with, a
// closure-backed element for ad hoc single-test fixtures, and the
// configuration-matrix runner that checks measure/draw equivalence.
package layouttest

import "docrender/internal/core/engine/layout"

// FakeText is a predictable stand-in for real shaped text: a fixed number
// of uniform-height lines of a fixed width, used throughout the test suite
// in place of a real font so that expected sizes and break counts can be
// computed by hand. It is a bit simpler than actual text in that its height
// doesn't vary with the input width.
type FakeText struct {
	Lines      int
	LineHeight float64
	Width      float64
}

// LinesAndBreaks exposes the fixture's line-packing arithmetic for tests
// that want to assert against it directly. The line count returned is the
// number of lines on the element's final location, which is what its
// reported height is based on. The arithmetic deliberately matches the
// production text element's so container expectations computed against one
// hold for the other.
func (f FakeText) LinesAndBreaks(firstHeight, fullHeight float64) (lastPageLines, breakCount int) {
	if f.Lines <= 0 {
		return 0, 0
	}
	if f.LineHeight <= 0 {
		return f.Lines, 0
	}

	firstLines := int((firstHeight + layout.Epsilon) / f.LineHeight)
	if firstLines < 0 {
		firstLines = 0
	}
	if firstLines >= f.Lines {
		return f.Lines, 0
	}

	remaining := f.Lines - firstLines
	perPage := int((fullHeight + layout.Epsilon) / f.LineHeight)
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

func (f FakeText) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if ctx.FirstHeight+layout.Epsilon < f.LineHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (f FakeText) Measure(ctx layout.MeasureCtx) layout.ElementSize {
	lines := f.Lines
	if ctx.Breakable != nil {
		var breaks int
		lines, breaks = f.LinesAndBreaks(ctx.FirstHeight, ctx.Breakable.FullHeight)
		*ctx.Breakable.BreakCount = breaks
	}
	return layout.ElementSize{
		Width:  layout.Some(ctx.Width.Constrain(f.Width)),
		Height: layout.Some(float64(lines) * f.LineHeight),
	}
}

func (f FakeText) Draw(ctx layout.DrawCtx) layout.ElementSize {
	lines := f.Lines
	if ctx.Breakable != nil {
		var breaks int
		lines, breaks = f.LinesAndBreaks(ctx.FirstHeight, ctx.Breakable.FullHeight)
		for b := 0; b < breaks; b++ {
			ctx.Breakable.LocationAt(ctx.Pdf, b)
		}
	}
	return layout.ElementSize{
		Width:  layout.Some(ctx.Width.Constrain(f.Width)),
		Height: layout.Some(float64(lines) * f.LineHeight),
	}
}
