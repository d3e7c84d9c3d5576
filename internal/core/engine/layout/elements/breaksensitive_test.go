package elements

import (
	"testing"

	"docrender/internal/core/engine/layout"
	"docrender/internal/core/engine/layout/layouttest"
)

func measureCtx(width, firstHeight, fullHeight float64) (layout.MeasureCtx, *int) {
	breaks := 0
	return layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: width},
		FirstHeight: firstHeight,
		Breakable:   &layout.BreakableMeasure{FullHeight: fullHeight, BreakCount: &breaks},
	}, &breaks
}

func TestTitledVanishIfEmptySuppressesTitle(t *testing.T) {
	title := layouttest.FakeText{Lines: 1, LineHeight: 5, Width: 10}
	empty := Empty{}
	ti := Titled{Title: title, Content: empty, Gap: 2, VanishIfEmpty: true}

	ctx, _ := measureCtx(50, 100, 100)
	size := ti.Measure(ctx)
	if size.HeightOr(-1) != 0 {
		t.Errorf("expected zero height when content vanishes, got %v", size.HeightOr(-1))
	}
}

func TestTitledReportsTitlePlusGapPlusContent(t *testing.T) {
	title := layouttest.FakeText{Lines: 1, LineHeight: 5, Width: 10}
	content := layouttest.FakeText{Lines: 2, LineHeight: 4, Width: 10}
	ti := Titled{Title: title, Content: content, Gap: 3}

	ctx, _ := measureCtx(50, 100, 100)
	size := ti.Measure(ctx)
	want := 5.0 + 3 + 8.0
	if size.HeightOr(0) != want {
		t.Errorf("Measure height = %v, want %v", size.HeightOr(0), want)
	}
}

func TestTitledRepeatAfterBreakPaginatesTallContent(t *testing.T) {
	title := layouttest.FakeText{Lines: 1, LineHeight: 5, Width: 10}
	content := layouttest.FakeText{Lines: 10, LineHeight: 5, Width: 10}
	ti := NewRepeatAfterBreak(title, content, 1, false)

	stream := layouttest.NewFakePageStream(25, 50)
	loc := stream.EnsureLocation(0)

	drawn := 0
	ti.Draw(layout.DrawCtx{
		Pdf:         stream,
		Location:    loc,
		Width:       layout.WidthConstraint{Max: 50},
		FirstHeight: 25,
		Breakable: &layout.BreakableDraw{
			FullHeight: 25,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				drawn++
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	if drawn == 0 {
		t.Fatal("expected content tall enough to force at least one break")
	}
	if stream.PagesRealized() < 2 {
		t.Errorf("PagesRealized() = %d, want at least 2", stream.PagesRealized())
	}
}

func TestRepeatBottomHeightIsLiteralSumWithoutGap(t *testing.T) {
	content := layouttest.FakeText{Lines: 2, LineHeight: 5, Width: 10}
	bottom := layouttest.FakeText{Lines: 1, LineHeight: 3, Width: 10}
	r := RepeatBottom{Content: content, Bottom: bottom, Gap: 7}

	ctx, _ := measureCtx(50, 100, 100)
	size := r.Measure(ctx)

	// Documented behavior: the reported height is content+bottom with no
	// added gap, even though the gap is reserved internally while
	// computing the content's available first_height.
	want := 10.0 + 3.0
	if size.HeightOr(0) != want {
		t.Errorf("Measure height = %v, want %v (literal content+bottom, no gap)", size.HeightOr(0), want)
	}
}

func TestAlignLocationBottomBottomAlignsOnSinglePage(t *testing.T) {
	el := layouttest.FakeText{Lines: 1, LineHeight: 10, Width: 10}
	a := AlignLocationBottom{Element: el}

	stream := layouttest.NewFakePageStream(100, 50)
	loc := stream.EnsureLocation(0)

	a.Draw(layout.DrawCtx{Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 40})

	if stream.PagesRealized() != 1 {
		t.Errorf("expected no break for content that fits, got %d pages", stream.PagesRealized())
	}
}

func TestAlignLocationBottomForcesBreakWhenTallerThanFirstHeight(t *testing.T) {
	el := layouttest.FakeText{Lines: 1, LineHeight: 50, Width: 10}
	a := AlignLocationBottom{Element: el}

	stream := layouttest.NewFakePageStream(100, 50)
	loc := stream.EnsureLocation(0)

	a.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 10,
		Breakable: &layout.BreakableDraw{
			FullHeight: 100,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	if stream.PagesRealized() < 2 {
		t.Errorf("expected at least one forced break, got %d pages", stream.PagesRealized())
	}
}

func TestExpandToPreferredHeightForwardsBreaksToReachPreferredCount(t *testing.T) {
	el := layouttest.FakeText{Lines: 1, LineHeight: 5, Width: 10}
	e := ExpandToPreferredHeight{Element: el}

	stream := layouttest.NewFakePageStream(50, 50)
	loc := stream.EnsureLocation(0)

	size := e.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 50,
		PreferredHeight: layout.Some(42),
		Breakable: &layout.BreakableDraw{
			FullHeight:                50,
			PreferredHeightBreakCount: 2,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	if stream.PagesRealized() < 3 {
		t.Errorf("PagesRealized() = %d, want at least 3 (original + 2 forwarded breaks)", stream.PagesRealized())
	}
	if size.HeightOr(0) != 42 {
		t.Errorf("reported height = %v, want the preferred height 42 once forwarded to the preferred page", size.HeightOr(0))
	}
}

func TestExpandToPreferredHeightChildWinsWhenItBreaksMore(t *testing.T) {
	el := layouttest.FakeText{Lines: 10, LineHeight: 5, Width: 10}
	e := ExpandToPreferredHeight{Element: el}

	stream := layouttest.NewFakePageStream(25, 50)
	loc := stream.EnsureLocation(0)

	// 10 lines over pages of 5: one break, final page holds 5 lines. The
	// child's own break count (1) exceeds the preferred 0, so its natural
	// size stands.
	size := e.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 25,
		PreferredHeight: layout.Some(3),
		Breakable: &layout.BreakableDraw{
			FullHeight: 25,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	if size.HeightOr(0) != 25 {
		t.Errorf("reported height = %v, want the child's natural 25", size.HeightOr(0))
	}
}

func TestRotateSwapsWidthAndHeightAxes(t *testing.T) {
	el := layouttest.FakeText{Lines: 3, LineHeight: 4, Width: 20}
	r := Rotate{Element: el, Rotation: QuarterLeft}

	size := r.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: 100}, FirstHeight: 1000})

	// FakeText reports width=20 (constrained) and height=lines*lineHeight=12
	// unrotated; Rotate swaps those axes for the outer caller.
	if size.WidthOr(0) != 12 {
		t.Errorf("rotated width = %v, want 12 (child's unrotated height)", size.WidthOr(0))
	}
	if size.HeightOr(0) != 20 {
		t.Errorf("rotated height = %v, want 20 (child's unrotated width)", size.HeightOr(0))
	}
}

func TestMinFirstHeightPreBreaksWhenBelowThreshold(t *testing.T) {
	el := layouttest.FakeText{Lines: 1, LineHeight: 5, Width: 10}
	m := MinFirstHeight{Min: 20, Element: el}

	stream := layouttest.NewFakePageStream(50, 50)
	loc := stream.EnsureLocation(0)

	m.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 5,
		Breakable: &layout.BreakableDraw{
			FullHeight: 50,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	if stream.PagesRealized() < 2 {
		t.Error("expected a pre-break when first_height is below Min")
	}
}

func TestMinFirstHeightPassesThroughWhenAboveThreshold(t *testing.T) {
	el := layouttest.FakeText{Lines: 1, LineHeight: 5, Width: 10}
	m := MinFirstHeight{Min: 20, Element: el}

	stream := layouttest.NewFakePageStream(50, 50)
	loc := stream.EnsureLocation(0)

	m.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 30,
		Breakable: &layout.BreakableDraw{
			FullHeight: 50,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				t.Fatal("should not break when first_height already meets Min")
				return layout.Location{}
			},
		},
	})

	if stream.PagesRealized() != 1 {
		t.Errorf("expected no extra page, got %d", stream.PagesRealized())
	}
}

func TestShrinkToFitReportsZeroBreaksAndSurfacesViolation(t *testing.T) {
	el := layouttest.FakeText{Lines: 10, LineHeight: 5, Width: 10}
	var gotErr error
	s := ShrinkToFit{Element: el, OnViolation: func(err error) { gotErr = err }}

	ctx, breaks := measureCtx(50, 10, 10)
	s.Measure(ctx)
	if *breaks != 0 {
		t.Errorf("ShrinkToFit must report zero breaks, got %d", *breaks)
	}

	stream := layouttest.NewFakePageStream(10, 50)
	loc := stream.EnsureLocation(0)
	s.Draw(layout.DrawCtx{Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 10})

	if gotErr != ErrShrinkToFitOverflow {
		t.Errorf("expected ErrShrinkToFitOverflow to be surfaced, got %v", gotErr)
	}
}

func TestTableRowHonorsFixedWidthForNonFlexCells(t *testing.T) {
	var reportedWidth float64
	fixedCol := layouttest.BuildElement{
		OnMeasure: func(ctx layout.MeasureCtx) layout.ElementSize {
			reportedWidth = ctx.Width.Max
			return layout.ElementSize{Width: layout.Some(ctx.Width.Max), Height: layout.Some(5)}
		},
		OnDraw: func(ctx layout.DrawCtx) layout.ElementSize {
			return layout.ElementSize{Width: layout.Some(ctx.Width.Max), Height: layout.Some(5)}
		},
	}
	flexCol := layouttest.FakeText{Lines: 1, LineHeight: 5, Width: 10}

	row := TableRow{
		Cells:  []layout.Element{fixedCol, flexCol},
		Widths: []WidthSpec{{Fixed: 30}, {Flex: 1}},
		Gap:    2,
	}

	size := row.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: 100}, FirstHeight: 50})
	if reportedWidth != 30 {
		t.Errorf("fixed column was measured with width %v, want 30", reportedWidth)
	}
	if size.HeightOr(0) != 5 {
		t.Errorf("row height = %v, want 5", size.HeightOr(0))
	}
}

func TestAlignLocationBottomReportsFirstHeightWhenContentFits(t *testing.T) {
	// 3 lines of 5 measure to 15, which fits first_height 21: no break,
	// the child's top lands at 21-15 = 6 below the location, and the
	// element claims the whole 21.
	content := layouttest.FakeText{Lines: 3, LineHeight: 5, Width: 3}
	a := AlignLocationBottom{Element: content}

	ctx, breaks := measureCtx(12, 21, 25)
	extra := 0.0
	ctx.Breakable.ExtraLocationMinHeight = &extra

	size := a.Measure(ctx)
	if *breaks != 0 {
		t.Errorf("break count = %d, want 0", *breaks)
	}
	if size.HeightOr(0) != 21 {
		t.Errorf("reported height = %v, want first_height 21", size.HeightOr(0))
	}
	if extra != 25 {
		t.Errorf("extra_location_min_height = %v, want full_height 25", extra)
	}

	var drawnY float64
	probe := layouttest.BuildElement{
		OnMeasure: func(c layout.MeasureCtx) layout.ElementSize { return content.Measure(c) },
		OnDraw: func(c layout.DrawCtx) layout.ElementSize {
			drawnY = c.Location.Y
			return content.Draw(c)
		},
	}
	stream := layouttest.NewFakePageStream(25, 12)
	loc := stream.EnsureLocation(0)
	loc.Y = 29

	AlignLocationBottom{Element: probe}.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 12}, FirstHeight: 21,
		Breakable: &layout.BreakableDraw{
			FullHeight: 25,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				t.Fatal("content that fits must not break")
				return layout.Location{}
			},
		},
	})
	if drawnY != 29-6 {
		t.Errorf("child drawn at y=%v, want 23 (29 - (21-15))", drawnY)
	}
}

func TestAlignLocationBottomHonorsPreferredBreakCount(t *testing.T) {
	content := layouttest.FakeText{Lines: 3, LineHeight: 5, Width: 3}
	a := AlignLocationBottom{Element: content}

	var gotIdx = -1
	stream := layouttest.NewFakePageStream(26, 12)
	loc := stream.EnsureLocation(0)

	size := a.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 12}, FirstHeight: 21,
		Breakable: &layout.BreakableDraw{
			FullHeight:                26,
			PreferredHeightBreakCount: 4,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				gotIdx = idx
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	if gotIdx != 3 {
		t.Errorf("do_break index = %d, want 3 (a single jump to the preferred page)", gotIdx)
	}
	if size.HeightOr(0) != 26 {
		t.Errorf("reported height = %v, want full_height 26", size.HeightOr(0))
	}
}

func TestCenterInPreferredHeightCentersAndClaimsLocation(t *testing.T) {
	content := layouttest.FakeText{Lines: 3, LineHeight: 5, Width: 3}

	var drawnY float64
	probe := layouttest.BuildElement{
		OnMeasure: func(c layout.MeasureCtx) layout.ElementSize { return content.Measure(c) },
		OnDraw: func(c layout.DrawCtx) layout.ElementSize {
			drawnY = c.Location.Y
			return content.Draw(c)
		},
	}
	c := CenterInPreferredHeight{Element: probe}

	stream := layouttest.NewFakePageStream(25, 12)
	loc := stream.EnsureLocation(0)
	loc.Y = 29

	size := c.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 12}, FirstHeight: 21,
		Breakable: &layout.BreakableDraw{
			FullHeight: 25,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				t.Fatal("content that fits must not break")
				return layout.Location{}
			},
		},
	})

	if drawnY != 26 {
		t.Errorf("child drawn at y=%v, want 26 (29 - (21-15)/2)", drawnY)
	}
	if size.HeightOr(0) != 21 {
		t.Errorf("reported height = %v, want first_height 21", size.HeightOr(0))
	}
}

func TestCenterInPreferredHeightPreBreaksWhenTooTall(t *testing.T) {
	content := layouttest.FakeText{Lines: 5, LineHeight: 5, Width: 3}
	c := CenterInPreferredHeight{Element: content}

	ctx, breaks := measureCtx(12, 21, 26)
	size := c.Measure(ctx)
	if *breaks != 1 {
		t.Errorf("break count = %d, want 1 (25 does not fit 21)", *breaks)
	}
	if size.HeightOr(0) != 26 {
		t.Errorf("reported height = %v, want full_height 26 after the pre-break", size.HeightOr(0))
	}
}

func TestPinBelowReportsContentPlusGapPlusPinned(t *testing.T) {
	content := layouttest.FakeText{Lines: 2, LineHeight: 5, Width: 10}
	pinned := layouttest.FakeText{Lines: 1, LineHeight: 3, Width: 10}
	p := PinBelow{Content: content, Pinned: pinned, Gap: 2}

	ctx, _ := measureCtx(50, 100, 100)
	size := p.Measure(ctx)
	if size.HeightOr(0) != 15 {
		t.Errorf("Measure height = %v, want 15 (10 + gap 2 + 3)", size.HeightOr(0))
	}
}

func TestPinBelowDrawsPinnedOnlyOnce(t *testing.T) {
	content := layouttest.FakeText{Lines: 10, LineHeight: 5, Width: 10}
	pinnedDraws := 0
	pinned := layouttest.BuildElement{
		OnMeasure: func(c layout.MeasureCtx) layout.ElementSize {
			return layout.ElementSize{Width: layout.Some(10), Height: layout.Some(3)}
		},
		OnDraw: func(c layout.DrawCtx) layout.ElementSize {
			pinnedDraws++
			return layout.ElementSize{Width: layout.Some(10), Height: layout.Some(3)}
		},
	}
	p := PinBelow{Content: content, Pinned: pinned, Gap: 2}

	stream := layouttest.NewFakePageStream(25, 50)
	loc := stream.EnsureLocation(0)

	p.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 25,
		Breakable: &layout.BreakableDraw{
			FullHeight: 25,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	if stream.PagesRealized() < 2 {
		t.Fatal("expected the content to paginate")
	}
	if pinnedDraws != 1 {
		t.Errorf("pinned element drawn %d times, want exactly 1 (final page only)", pinnedDraws)
	}
}

func TestTitledPreBreaksWhenTitleCannotFit(t *testing.T) {
	title := layouttest.FakeText{Lines: 1, LineHeight: 5, Width: 10}
	content := layouttest.FakeText{Lines: 4, LineHeight: 5, Width: 10}
	ti := Titled{Title: title, Content: content, Gap: 2}

	stream := layouttest.NewFakePageStream(30, 50)
	loc := stream.EnsureLocation(0)
	loc.Y = 3

	size := ti.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 3,
		Breakable: &layout.BreakableDraw{
			FullHeight: 30,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	if stream.PagesRealized() != 2 {
		t.Errorf("PagesRealized() = %d, want 2 (title and content move together to a fresh page)", stream.PagesRealized())
	}
	if size.HeightOr(0) != 27 {
		t.Errorf("reported height = %v, want 27 (title 5 + gap 2 + content 20)", size.HeightOr(0))
	}
}

func TestTitledDrawCountsMatchPagesSpanned(t *testing.T) {
	titleDraws := 0
	title := layouttest.BuildElement{
		OnMeasure: func(c layout.MeasureCtx) layout.ElementSize {
			return layout.ElementSize{Width: layout.Some(10), Height: layout.Some(5)}
		},
		OnDraw: func(c layout.DrawCtx) layout.ElementSize {
			titleDraws++
			return layout.ElementSize{Width: layout.Some(10), Height: layout.Some(5)}
		},
	}
	content := layouttest.FakeText{Lines: 10, LineHeight: 5, Width: 10}
	ti := NewRepeatAfterBreak(title, content, 1, false)

	stream := layouttest.NewFakePageStream(25, 50)
	loc := stream.EnsureLocation(0)

	ti.Draw(layout.DrawCtx{
		Pdf: stream, Location: loc, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 25,
		Breakable: &layout.BreakableDraw{
			FullHeight: 25,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				return stream.EnsureLocation(idx + 1)
			},
		},
	})

	// Content spans the first page plus the continuation pages; the title
	// is drawn once per page the content touches.
	if titleDraws != stream.PagesRealized() {
		t.Errorf("title drawn %d times over %d pages, want one per page", titleDraws, stream.PagesRealized())
	}
}

func TestRotateMeasurePreBreaksOnShortFirstLocation(t *testing.T) {
	// Rotated, the child's 100mm width becomes the vertical footprint; it
	// doesn't fit first_height 21 but does fit a fresh full page.
	el := layouttest.FakeText{Lines: 3, LineHeight: 5, Width: 100}
	r := Rotate{Element: el, Rotation: QuarterLeft}

	ctx, breaks := measureCtx(16, 21, 500)
	size := r.Measure(ctx)
	if *breaks != 1 {
		t.Errorf("break count = %d, want 1", *breaks)
	}
	if size.HeightOr(0) != 100 {
		t.Errorf("rotated height = %v, want 100 (the child's width)", size.HeightOr(0))
	}
	if size.WidthOr(0) != 15 {
		t.Errorf("rotated width = %v, want 15 (the child's height)", size.WidthOr(0))
	}
}

func TestAlignPreferredHeightBottomOffsetsWithinPreferredHeight(t *testing.T) {
	content := layouttest.FakeText{Lines: 2, LineHeight: 5, Width: 10}
	var drawnY float64
	probe := layouttest.BuildElement{
		OnMeasure: func(c layout.MeasureCtx) layout.ElementSize { return content.Measure(c) },
		OnDraw: func(c layout.DrawCtx) layout.ElementSize {
			drawnY = c.Location.Y
			return content.Draw(c)
		},
	}
	a := AlignPreferredHeightBottom{Element: probe}

	size := a.Draw(layout.DrawCtx{
		Location:        layout.Location{X: 0, Y: 50},
		Width:           layout.WidthConstraint{Max: 50},
		FirstHeight:     40,
		PreferredHeight: layout.Some(30),
	})

	if drawnY != 30 {
		t.Errorf("child drawn at y=%v, want 30 (50 - (30-10))", drawnY)
	}
	if size.HeightOr(0) != 30 {
		t.Errorf("reported height = %v, want the preferred 30", size.HeightOr(0))
	}
}
