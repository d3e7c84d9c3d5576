package elements

import (
	"testing"

	"docrender/internal/core/engine/layout"
	"docrender/internal/core/engine/layout/layouttest"
)

func TestRectangle(t *testing.T) {
	params := layouttest.DefaultParams()
	params.FirstHeight = 12

	outline := uint32(0)
	r := Rectangle{Width: 11, Height: 12, OutlineWidth: 1, OutlineColor: outline, HasOutline: true}

	for _, output := range params.Run(t, r) {
		output.AssertSize(t, layout.ElementSize{Width: layout.Some(12.), Height: layout.Some(13.)})

		if b := output.Breakable; b != nil {
			if output.FirstHeight == 12 {
				b.AssertBreakCount(t, 1)
				b.AssertFirstLocationUsage(t, layout.WillSkip)
			} else {
				b.AssertBreakCount(t, 0)
				b.AssertFirstLocationUsage(t, layout.WillUse)
			}
			b.AssertExtraLocationMinHeight(t, 0)
		}
	}
}

func TestLine(t *testing.T) {
	params := layouttest.DefaultParams()
	params.FirstHeight = 0.2

	l := Line{Style: LineStyle{Thickness: 1, Color: 0}}

	for _, output := range params.Run(t, l) {
		output.AssertSize(t, layout.ElementSize{
			Width:  layout.Some(output.Width.Constrain(0)),
			Height: layout.Some(1.),
		})

		if b := output.Breakable; b != nil {
			if output.FirstHeight == 0.2 {
				b.AssertBreakCount(t, 1)
			} else {
				b.AssertBreakCount(t, 0)
			}
			b.AssertExtraLocationMinHeight(t, 0)
		}
	}
}

func TestVGapClampsToFirstHeight(t *testing.T) {
	params := layouttest.DefaultParams()
	params.FirstHeight = 11

	for _, output := range params.Run(t, VGap{Height: 28.3}) {
		want := 28.3
		if output.FirstHeight == 11 {
			want = 11
		}
		output.AssertSize(t, layout.ElementSize{
			Width:  layout.Some(output.Width.Constrain(0)),
			Height: layout.Some(want),
		})
		output.AssertNoBreaks(t)
	}
}

func TestForceBreak(t *testing.T) {
	for _, output := range layouttest.DefaultParams().Run(t, ForceBreak{}) {
		output.AssertSize(t, layout.ElementSize{})

		if b := output.Breakable; b != nil {
			b.AssertBreakCount(t, 1)
			b.AssertExtraLocationMinHeight(t, 0)
		}
	}
}

func TestEmptyReportsPresentZeroSize(t *testing.T) {
	for _, output := range layouttest.DefaultParams().Run(t, Empty{}) {
		output.AssertSize(t, layout.ElementSize{Width: layout.Some(0.), Height: layout.Some(0.)})
		output.AssertNoBreaks(t)
		if b := output.Breakable; b != nil {
			b.AssertFirstLocationUsage(t, layout.WillUse)
		}
	}
}

func TestNoneReportsAbsentSize(t *testing.T) {
	for _, output := range layouttest.DefaultParams().Run(t, None{}) {
		output.AssertSize(t, layout.ElementSize{})
		output.AssertNoBreaks(t)
		if b := output.Breakable; b != nil {
			b.AssertFirstLocationUsage(t, layout.NoneHeight)
		}
	}
}

func TestCircleReportsDiameterPlusOutline(t *testing.T) {
	c := Circle{Radius: 5, OutlineWidth: 2, OutlineColor: 0, HasOutline: true}

	size := c.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: 100}, FirstHeight: 100})
	if size.WidthOr(0) != 12 || size.HeightOr(0) != 12 {
		t.Errorf("size = (%v, %v), want (12, 12)", size.WidthOr(0), size.HeightOr(0))
	}
}

func TestLineOnlyDrawsWhenExpanding(t *testing.T) {
	drawn := 0
	l := Line{
		Style:    LineStyle{Thickness: 1},
		DrawFunc: func(ctx layout.DrawCtx, x0, y, x1 float64) { drawn++ },
	}

	l.Draw(layout.DrawCtx{Location: layout.Location{Y: 50}, Width: layout.WidthConstraint{Max: 100, Expand: false}, FirstHeight: 50})
	if drawn != 0 {
		t.Error("a non-expanding line has nothing to span and must not draw")
	}

	l.Draw(layout.DrawCtx{Location: layout.Location{Y: 50}, Width: layout.WidthConstraint{Max: 100, Expand: true}, FirstHeight: 50})
	if drawn != 1 {
		t.Errorf("expected exactly one draw in an expanding context, got %d", drawn)
	}
}
