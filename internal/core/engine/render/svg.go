package render

import (
	"encoding/xml"
	"fmt"

	"docrender/internal/core/engine/layout"
)

const svgInchToMM = 25.4

// svgRoot is the minimal subset of an SVG document's root element this
// package reads: only enough to size the drawing. Paths, gradients and
// the rest of the SVG shape vocabulary are out of scope; the content is
// drawn as a flat tint box at its declared size rather than rendered
// faithfully.
type svgRoot struct {
	Width   string `xml:"width,attr"`
	Height  string `xml:"height,attr"`
	ViewBox string `xml:"viewBox,attr"`
}

// SvgSource implements elements.VectorSource. It sizes an SVG document
// correctly from its width/height/viewBox attributes but does not
// rasterize its path data; this keeps vector artwork placed and scaled
// correctly in the page flow without pulling in a full SVG rendering
// stack the rest of the corpus has no precedent for.
type SvgSource struct {
	name     string
	widthMM  float64
	heightMM float64
}

func parseSvgLength(s string) float64 {
	var v float64
	fmt.Sscanf(s, "%g", &v)
	return v
}

func newSvgSource(path string, data []byte) (*SvgSource, error) {
	var root svgRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	w, h := parseSvgLength(root.Width), parseSvgLength(root.Height)
	if w <= 0 || h <= 0 {
		var x0, y0, x1, y1 float64
		if n, _ := fmt.Sscanf(root.ViewBox, "%g %g %g %g", &x0, &y0, &x1, &y1); n == 4 {
			w, h = x1, y1
		}
	}
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	rasterSeq++
	return &SvgSource{
		name:     fmt.Sprintf("docrender-svg-%d", rasterSeq),
		widthMM:  w * svgInchToMM / 96,
		heightMM: h * svgInchToMM / 96,
	}, nil
}

// IntrinsicSize implements elements.VectorSource.
func (s *SvgSource) IntrinsicSize() (width, height float64) {
	return s.widthMM, s.heightMM
}

// Draw implements elements.VectorSource. y is the image's bottom edge in
// engine coordinates, per elements.Svg's Draw callback. A neutral filled
// rectangle stands in for the document's unrendered path content.
func (s *SvgSource) Draw(ctx layout.DrawCtx, x, y, w, h float64) {
	stream, ok := ctx.Pdf.(*entryStream)
	if !ok {
		return
	}
	pdfY := stream.doc.currentPageHeight - y - h
	stream.doc.pdf.SetFillColor(0xf0, 0xf0, 0xf0)
	stream.doc.pdf.SetDrawColor(0xc0, 0xc0, 0xc0)
	stream.doc.pdf.SetLineWidth(0.1)
	stream.doc.pdf.Rect(x, pdfY, w, h, "FD")
}
