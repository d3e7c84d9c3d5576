package domain

import (
	"strings"
	"testing"

	"docrender/internal/core/engine/layout"
	"docrender/internal/core/engine/layout/elements"
)

// fakeEnv is a minimal BuildEnv for exercising Node.Build without pulling
// in the render package, in the spirit of layouttest's fakes.
type fakeEnv struct{}

type fakeFace struct{}

func (fakeFace) MeasureLine(s string) float64           { return float64(len(s)) }
func (fakeFace) LineHeight() float64                    { return 5 }
func (fakeFace) DrawLine(layout.DrawCtx, string, float64, float64, float64) {}

func (fakeEnv) Font(alias string, size float64, bold, italic bool) (FontFace, error) {
	if alias == "missing" {
		return nil, errTestMissing
	}
	return fakeFace{}, nil
}
func (fakeEnv) Image(path string) (elements.PixelSource, error) { return nil, errTestMissing }
func (fakeEnv) Svg(path string) (elements.VectorSource, error)  { return nil, errTestMissing }
func (fakeEnv) DrawRect(layout.DrawCtx, float64, float64, float64, float64, *uint32, *uint32, float64) {
}
func (fakeEnv) DrawCircle(layout.DrawCtx, float64, float64, float64, *uint32, *uint32, float64) {}
func (fakeEnv) DrawHLine(layout.DrawCtx, float64, float64, float64, elements.LineStyle)         {}
func (fakeEnv) DrawBox(layout.DrawCtx, float64, float64, float64, float64, *uint32, *uint32, float64) {
}
func (fakeEnv) DrawDebugBox(layout.DrawCtx, float64, float64, float64, float64, float64) {}
func (fakeEnv) RotateQuarter(ctx layout.DrawCtx, _ elements.Rotation, _, _ float64) (layout.DrawCtx, func()) {
	return ctx, func() {}
}

var errTestMissing = &testErr{"resource not found"}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }

func TestDecodeRenderJobRejectsEmptyEntries(t *testing.T) {
	_, err := DecodeRenderJob([]byte(`{"title":"x","entries":[]}`))
	if err == nil {
		t.Fatal("expected an error for an empty entries list")
	}
}

func TestDecodeRenderJobRejectsNonPositiveSize(t *testing.T) {
	_, err := DecodeRenderJob([]byte(`{"title":"x","entries":[{"size":[0,100],"element":{"type":"Empty"}}]}`))
	if err == nil {
		t.Fatal("expected an error for a non-positive page size")
	}
}

func TestDecodeRenderJobAssignsAnID(t *testing.T) {
	job, err := DecodeRenderJob([]byte(`{"title":"x","entries":[{"size":[100,100],"element":{"type":"Empty"}}]}`))
	if err != nil {
		t.Fatalf("DecodeRenderJob() error: %v", err)
	}
	if job.ID.String() == "" {
		t.Error("expected a non-empty generated ID")
	}
}

func TestNodeUnmarshalUnknownType(t *testing.T) {
	var n Node
	err := n.UnmarshalJSON([]byte(`{"type":"NotARealElement"}`))
	if err == nil {
		t.Fatal("expected an error for an unknown element type")
	}
}

func TestBuildSimpleTree(t *testing.T) {
	raw := `{
		"type": "Column",
		"gap": 2,
		"children": [
			{"type": "Rectangle", "width": 10, "height": 10},
			{"type": "VGap", "height": 5},
			{"type": "Text", "lines": ["hello"], "font_alias": "body", "size": 10}
		]
	}`
	var n Node
	if err := n.UnmarshalJSON([]byte(raw)); err != nil {
		t.Fatalf("UnmarshalJSON() error: %v", err)
	}
	el, err := n.Build(fakeEnv{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	size := el.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: 100}, FirstHeight: 1000})
	if size.Height == nil || *size.Height <= 0 {
		t.Errorf("expected a positive measured height, got %v", size.Height)
	}
}

func TestBuildMissingFontAlias(t *testing.T) {
	raw := `{"type": "Text", "lines": ["hi"], "font_alias": "missing", "size": 10}`
	var n Node
	if err := n.UnmarshalJSON([]byte(raw)); err != nil {
		t.Fatalf("UnmarshalJSON() error: %v", err)
	}
	_, err := n.Build(fakeEnv{})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected a missing-resource error, got %v", err)
	}
}
