package layouttest

import (
	"strconv"
	"testing"

	"docrender/internal/core/engine/layout"
)

// ElementTestParams drives an element through the full configuration
// matrix of {breakable, expand_width, use_first_height} and checks the
// protocol's central property in every cell: Measure and Draw report the
// same size and the same break count, including a "restricted" draw pass
// that feeds the measured height back in as preferred_height and the
// measured break count as preferred_height_break_count.
type ElementTestParams struct {
	// Width is the width constraint's max, tested with expand both ways.
	Width float64

	FirstHeight float64
	FullHeight  float64

	Pos layout.Location
}

// DefaultParams mirrors an A4 page with a margin: a full page of 273mm
// with a half-used first location.
func DefaultParams() ElementTestParams {
	return ElementTestParams{
		Width:       186,
		FirstHeight: 136.5,
		FullHeight:  273,
		Pos:         layout.Location{PageIndex: 0, X: 12, Y: 285, ScaleFactor: 1},
	}
}

// TestOutputBreakable carries the breakable-only observations of one
// configuration run.
type TestOutputBreakable struct {
	FullHeight             float64
	BreakCount             int
	ExtraLocationMinHeight float64
	FirstLocationUsage     layout.FirstLocationUsage
}

// AssertBreakCount fails the test unless the configuration produced
// exactly the given break count.
func (b *TestOutputBreakable) AssertBreakCount(t *testing.T, want int) *TestOutputBreakable {
	t.Helper()
	if b.BreakCount != want {
		t.Errorf("break count = %d, want %d (full_height %v)", b.BreakCount, want, b.FullHeight)
	}
	return b
}

// AssertExtraLocationMinHeight fails the test unless the element reported
// the given extra-location minimum height during measure.
func (b *TestOutputBreakable) AssertExtraLocationMinHeight(t *testing.T, want float64) *TestOutputBreakable {
	t.Helper()
	if b.ExtraLocationMinHeight != want {
		t.Errorf("extra_location_min_height = %v, want %v", b.ExtraLocationMinHeight, want)
	}
	return b
}

// AssertFirstLocationUsage fails the test unless the cheap look-ahead
// classified the first location as expected.
func (b *TestOutputBreakable) AssertFirstLocationUsage(t *testing.T, want layout.FirstLocationUsage) *TestOutputBreakable {
	t.Helper()
	if b.FirstLocationUsage != want {
		t.Errorf("first_location_usage = %v, want %v", b.FirstLocationUsage, want)
	}
	return b
}

// TestOutput is the agreed-upon result of one configuration: the size both
// passes reported, plus the breakable observations when the configuration
// was breakable.
type TestOutput struct {
	Width       layout.WidthConstraint
	FirstHeight float64
	Size        layout.ElementSize
	Breakable   *TestOutputBreakable
}

// AssertSize fails the test unless both optional axes match exactly.
func (o *TestOutput) AssertSize(t *testing.T, want layout.ElementSize) *TestOutput {
	t.Helper()
	if !optEq(o.Size.Width, want.Width) || !optEq(o.Size.Height, want.Height) {
		t.Errorf("size = %s, want %s (width %+v, first_height %v)",
			fmtSize(o.Size), fmtSize(want), o.Width, o.FirstHeight)
	}
	return o
}

// AssertNoBreaks fails the test if a breakable configuration broke.
func (o *TestOutput) AssertNoBreaks(t *testing.T) *TestOutput {
	t.Helper()
	if o.Breakable != nil {
		o.Breakable.AssertBreakCount(t, 0)
	}
	return o
}

func optEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func fmtSize(s layout.ElementSize) string {
	f := func(v *float64) string {
		if v == nil {
			return "none"
		}
		return strconv.FormatFloat(*v, 'g', -1, 64)
	}
	return "(" + f(s.Width) + ", " + f(s.Height) + ")"
}

type runResult struct {
	size       layout.ElementSize
	breakCount int
	extra      float64
}

func measureElement(e layout.Element, width layout.WidthConstraint, firstHeight float64, fullHeight *float64) runResult {
	var r runResult
	ctx := layout.MeasureCtx{Width: width, FirstHeight: firstHeight}
	if fullHeight != nil {
		ctx.Breakable = &layout.BreakableMeasure{
			FullHeight:             *fullHeight,
			BreakCount:             &r.breakCount,
			ExtraLocationMinHeight: &r.extra,
		}
	}
	r.size = e.Measure(ctx)
	return r
}

func drawElement(e layout.Element, width layout.WidthConstraint, firstHeight float64, fullHeight *float64, pos layout.Location, preferredHeight *float64, preferredBreaks int) runResult {
	var r runResult
	ctx := layout.DrawCtx{
		Width:           width,
		FirstHeight:     firstHeight,
		Location:        pos,
		PreferredHeight: preferredHeight,
	}
	if fullHeight != nil {
		stream := NewFakePageStream(*fullHeight, width.Max)
		ctx.Pdf = stream
		ctx.Breakable = &layout.BreakableDraw{
			FullHeight:                *fullHeight,
			PreferredHeightBreakCount: preferredBreaks,
			DoBreak: func(pdf layout.PageStream, idx int, h *float64) layout.Location {
				if idx+1 > r.breakCount {
					r.breakCount = idx + 1
				}
				return stream.EnsureLocation(idx)
			},
		}
	}
	r.size = e.Draw(ctx)
	return r
}

// Run executes all eight configurations against the element, asserting
// measure/draw equivalence in each, and returns the per-configuration
// outputs for the caller's own assertions.
func (p ElementTestParams) Run(t *testing.T, e layout.Element) []*TestOutput {
	t.Helper()

	var outputs []*TestOutput
	for _, useFirstHeight := range []bool{false, true} {
		for _, breakable := range []bool{false, true} {
			for _, expand := range []bool{false, true} {
				width := layout.WidthConstraint{Max: p.Width, Expand: expand}
				firstHeight := p.FullHeight
				if useFirstHeight {
					firstHeight = p.FirstHeight
				}
				var fullHeight *float64
				if breakable {
					fullHeight = layout.Some(p.FullHeight)
				}

				measured := measureElement(e, width, firstHeight, fullHeight)
				drawn := drawElement(e, width, firstHeight, fullHeight, p.Pos, nil, 0)
				restricted := drawElement(e, width, firstHeight, fullHeight, p.Pos, measured.size.Height, measured.breakCount)

				if !optEq(measured.size.Width, drawn.size.Width) || !optEq(measured.size.Height, drawn.size.Height) {
					t.Errorf("measure size %s != draw size %s (expand %v, breakable %v, first_height %v)",
						fmtSize(measured.size), fmtSize(drawn.size), expand, breakable, firstHeight)
				}
				if !optEq(measured.size.Width, restricted.size.Width) || !optEq(measured.size.Height, restricted.size.Height) {
					t.Errorf("measure size %s != restricted draw size %s (expand %v, breakable %v, first_height %v)",
						fmtSize(measured.size), fmtSize(restricted.size), expand, breakable, firstHeight)
				}
				if measured.breakCount != drawn.breakCount {
					t.Errorf("measure break count %d != draw break count %d (expand %v, first_height %v)",
						measured.breakCount, drawn.breakCount, expand, firstHeight)
				}
				if measured.breakCount != restricted.breakCount {
					t.Errorf("measure break count %d != restricted draw break count %d (expand %v, first_height %v)",
						measured.breakCount, restricted.breakCount, expand, firstHeight)
				}

				out := &TestOutput{Width: width, FirstHeight: firstHeight, Size: measured.size}
				if breakable {
					out.Breakable = &TestOutputBreakable{
						FullHeight:             p.FullHeight,
						BreakCount:             measured.breakCount,
						ExtraLocationMinHeight: measured.extra,
						FirstLocationUsage: e.FirstLocationUsage(layout.FirstLocationUsageCtx{
							Width:       width,
							FirstHeight: firstHeight,
							FullHeight:  p.FullHeight,
						}),
					}
				}
				outputs = append(outputs, out)
			}
		}
	}
	return outputs
}
