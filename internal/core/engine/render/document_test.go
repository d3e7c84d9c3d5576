package render

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"docrender/internal/core/engine/layout"
	"docrender/internal/core/engine/layout/elements"
)

func TestColorRGB(t *testing.T) {
	r, g, b := colorRGB(0xFF8000)
	if r != 0xFF || g != 0x80 || b != 0x00 {
		t.Errorf("colorRGB(0xFF8000) = (%d, %d, %d), want (255, 128, 0)", r, g, b)
	}
}

func TestHsvToRGBIsDeterministic(t *testing.T) {
	r1, g1, b1 := hsvToRGB(120)
	r2, g2, b2 := hsvToRGB(120)
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Error("hsvToRGB is not deterministic for the same hue")
	}
}

func TestGofpdfCapStyle(t *testing.T) {
	cases := map[int]string{0: "butt", 1: "round", 2: "square", 99: "butt"}
	for style, want := range cases {
		if got := gofpdfCapStyle(style); got != want {
			t.Errorf("gofpdfCapStyle(%d) = %q, want %q", style, got, want)
		}
	}
}

// TestRenderEntryProducesPDF drives a single filled rectangle through a
// real entryStream and Document, confirming the page geometry and
// coordinate flip round-trip into a well-formed PDF byte stream.
func TestRenderEntryProducesPDF(t *testing.T) {
	doc := NewDocument(uuid.New(), "test document")

	fill := uint32(0x336699)
	rect := elements.Rectangle{
		Width: 50, Height: 20, Fill: &fill,
		DrawFunc: func(ctx layout.DrawCtx, x, y, w, h float64) {
			doc.drawRect(x, y, w, h, &fill, nil, 0)
		},
	}

	doc.RenderEntry(rect, 210, 297)

	out, err := doc.Output()
	if err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
}

// TestRenderEntryBreaksAcrossPages exercises entryStream's DoBreak path by
// rendering a element tall enough to need a second page, and confirms more
// than one page was realized.
func TestRenderEntryBreaksAcrossPages(t *testing.T) {
	doc := NewDocument(uuid.New(), "multi-page")

	// Two 100mm rectangles on a 150mm page: the second can't fit below the
	// first but fits a fresh page, so it breaks preemptively.
	col := elements.Column{
		Gap: 0,
		Children: []layout.Element{
			elements.Rectangle{Width: 100, Height: 100},
			elements.Rectangle{Width: 100, Height: 100},
		},
	}

	doc.RenderEntry(col, 100, 150)

	if _, err := doc.Output(); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if doc.pdf.PageNo() < 2 {
		t.Errorf("PageNo() = %d, want at least 2 after content taller than one page", doc.pdf.PageNo())
	}
}
