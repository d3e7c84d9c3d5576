package elements

import (
	"testing"

	"docrender/internal/core/engine/layout"
)

type fakePixelSource struct {
	w, h    int
	drawnY  float64
	drawnH  float64
	wasDraw bool
}

func (f *fakePixelSource) PixelDimensions() (int, int) { return f.w, f.h }
func (f *fakePixelSource) Draw(ctx layout.DrawCtx, x, y, w, h float64) {
	f.wasDraw = true
	f.drawnY = y
	f.drawnH = h
}

func TestImagePreservesAspectRatioWhenScaledToWidth(t *testing.T) {
	src := &fakePixelSource{w: 192, h: 96} // 2in x 1in at 96dpi -> 50.8mm x 25.4mm, 2:1
	img := Image{Source: src}

	size := img.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: 25.4}, FirstHeight: 1000})
	// Constrained to half its intrinsic width -> height halves too.
	if size.WidthOr(0) != 25.4 {
		t.Errorf("width = %v, want 25.4 (clamped to the constraint)", size.WidthOr(0))
	}
	wantH := 12.7
	if diff := size.HeightOr(0) - wantH; diff > 0.01 || diff < -0.01 {
		t.Errorf("height = %v, want ~%v (aspect ratio preserved)", size.HeightOr(0), wantH)
	}
}

func TestImageDrawPassesBottomEdgeYToSource(t *testing.T) {
	src := &fakePixelSource{w: 96, h: 96}
	img := Image{Source: src}

	img.Draw(layout.DrawCtx{Location: layout.Location{X: 0, Y: 100}, Width: layout.WidthConstraint{Max: 50}, FirstHeight: 200})
	if !src.wasDraw {
		t.Fatal("expected Source.Draw to be called")
	}
	wantY := 100 - src.drawnH
	if src.drawnY != wantY {
		t.Errorf("drawn y = %v, want %v (Location.Y - height, the bottom edge)", src.drawnY, wantY)
	}
}

func TestImageZeroWidthSourceMeasuresToZero(t *testing.T) {
	src := &fakePixelSource{w: 0, h: 0}
	img := Image{Source: src}

	size := img.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: 50}, FirstHeight: 100})
	if size.WidthOr(-1) != 0 || size.HeightOr(-1) != 0 {
		t.Errorf("expected zero size for a zero-width source, got (%v, %v)", size.WidthOr(-1), size.HeightOr(-1))
	}
}

type fakeVectorSource struct {
	w, h float64
}

func (f fakeVectorSource) IntrinsicSize() (float64, float64)              { return f.w, f.h }
func (f fakeVectorSource) Draw(ctx layout.DrawCtx, x, y, w, h float64) {}

func TestSvgPreservesAspectRatioWhenScaledToWidth(t *testing.T) {
	s := Svg{Source: fakeVectorSource{w: 40, h: 20}}

	size := s.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: 20}, FirstHeight: 1000})
	if size.WidthOr(0) != 20 {
		t.Errorf("width = %v, want 20", size.WidthOr(0))
	}
	if size.HeightOr(0) != 10 {
		t.Errorf("height = %v, want 10 (half of 20, aspect ratio preserved)", size.HeightOr(0))
	}
}
