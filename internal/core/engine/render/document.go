// Package render is the only part of the engine that knows a PDF library
// exists: it implements layout.PageStream against a real document, resolves
// fonts and images, and satisfies domain.BuildEnv so the decoded element
// tree can be turned into pages.
package render

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"docrender/internal/core/engine/layout"
	"docrender/internal/pkg/utils"
)

// Document owns one gofpdf instance shared across every entry in a render
// job, so a font or image referenced by more than one entry is only ever
// embedded into the PDF once.
type Document struct {
	pdf      *gofpdf.Fpdf
	jobID    uuid.UUID
	embedded map[string]bool

	// currentPageHeight is the page height (mm) of whichever entry is
	// presently being drawn, used to flip the engine's bottom-left-origin Y
	// coordinates into gofpdf's top-left-origin ones. The render pipeline
	// draws one entry fully to completion before starting the next, so a
	// single mutable field is sufficient.
	currentPageHeight float64
}

// NewDocument creates the shared PDF document for one render job.
func NewDocument(jobID uuid.UUID, title string) *Document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("docrender/"+utils.ShortID(jobID), false)
	return &Document{pdf: pdf, jobID: jobID, embedded: map[string]bool{}}
}

// EmbedFont registers a TrueType font with gofpdf exactly once per
// (canonical path, style) pair, regardless of how many aliases or entries
// reference it.
func (d *Document) EmbedFont(family, style, canonicalPath string, data []byte) {
	key := canonicalPath + "|" + style
	if d.embedded[key] {
		return
	}
	d.pdf.AddUTF8FontFromBytes(family, style, data)
	d.embedded[key] = true
}

// entryStream is a layout.PageStream scoped to a single top-level entry:
// break indices start fresh at 0, deduplicated exactly like
// layouttest.FakePageStream, with pages appended to the Document's shared
// page list as they're realized.
type entryStream struct {
	doc        *Document
	pageWidth  float64
	pageHeight float64
	locations  map[int]layout.Location
}

func (d *Document) newEntryStream(width, height float64) *entryStream {
	return &entryStream{doc: d, pageWidth: width, pageHeight: height, locations: map[int]layout.Location{}}
}

func (s *entryStream) newPage() layout.Location {
	s.doc.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: s.pageWidth, Ht: s.pageHeight})
	s.doc.currentPageHeight = s.pageHeight
	return layout.Location{PageIndex: s.doc.pdf.PageNo(), LayerIndex: 0, X: 0, Y: s.pageHeight, ScaleFactor: 1}
}

// EnsureLocation implements layout.PageStream.
func (s *entryStream) EnsureLocation(locationIdx int) layout.Location {
	if loc, ok := s.locations[locationIdx]; ok {
		return loc
	}
	loc := s.newPage()
	s.locations[locationIdx] = loc
	return loc
}

// drawTextLine places one line of shaped text with its top-left corner at
// (x, yTop) in engine coordinates.
func (s *entryStream) drawTextLine(family, style string, size float64, line string, x, yTop, width float64) {
	pdfY := s.doc.currentPageHeight - yTop
	s.doc.pdf.SetFont(family, style, size)
	s.doc.pdf.SetXY(x, pdfY)
	s.doc.pdf.CellFormat(width, 0, line, "", 0, "LT", false, 0, "")
}

// RenderEntry lays out one top-level element onto its own page, and however
// many continuation pages its content needs.
func (d *Document) RenderEntry(el layout.Element, width, height float64) {
	stream := d.newEntryStream(width, height)
	loc := stream.newPage()

	el.Draw(layout.DrawCtx{
		Pdf:         stream,
		Location:    loc,
		Width:       layout.WidthConstraint{Max: width, Expand: true},
		FirstHeight: height,
		Breakable: &layout.BreakableDraw{
			FullHeight: height,
			DoBreak: func(pdf layout.PageStream, idx int, reportedHeight *float64) layout.Location {
				return stream.EnsureLocation(idx)
			},
		},
	})
}

// Output finalizes the document and returns the rendered PDF bytes.
func (d *Document) Output() ([]byte, error) {
	var buf strings.Builder
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

func colorRGB(c uint32) (r, g, b int) {
	return int(c >> 16 & 0xFF), int(c >> 8 & 0xFF), int(c & 0xFF)
}

// drawRect draws an optionally filled, optionally outlined rectangle whose
// top-left corner is (x, yTop) in engine (bottom-left-origin) coordinates.
func (d *Document) drawRect(x, yTop, w, h float64, fill, outline *uint32, outlineWidth float64) {
	pdfY := d.currentPageHeight - yTop
	style := ""
	if fill != nil {
		r, g, b := colorRGB(*fill)
		d.pdf.SetFillColor(r, g, b)
		style += "F"
	}
	if outline != nil {
		r, g, b := colorRGB(*outline)
		d.pdf.SetLineWidth(outlineWidth)
		d.pdf.SetDrawColor(r, g, b)
		style += "D"
	}
	if style == "" {
		return
	}
	d.pdf.Rect(x, pdfY, w, h, style)
}

// drawEllipse draws an optionally filled, optionally outlined ellipse
// centered at (cx, cy) in engine coordinates.
func (d *Document) drawEllipse(cx, cy, rx, ry float64, fill, outline *uint32, outlineWidth float64) {
	pdfY := d.currentPageHeight - cy
	style := ""
	if fill != nil {
		r, g, b := colorRGB(*fill)
		d.pdf.SetFillColor(r, g, b)
		style += "F"
	}
	if outline != nil {
		r, g, b := colorRGB(*outline)
		d.pdf.SetLineWidth(outlineWidth)
		d.pdf.SetDrawColor(r, g, b)
		style += "D"
	}
	if style == "" {
		return
	}
	d.pdf.Ellipse(cx, pdfY, rx, ry, 0, style)
}

func gofpdfCapStyle(style int) string {
	switch style {
	case 1: // elements.CapRound
		return "round"
	case 2: // elements.CapSquare
		return "square"
	default:
		return "butt"
	}
}

// drawHLine draws a horizontal rule from (x0, y) to (x1, y) in engine
// coordinates, with the thickness/color/dash pattern of style.
func (d *Document) drawHLine(x0, y, x1 float64, thickness float64, color uint32, dash []float64, capStyle int) {
	pdfY := d.currentPageHeight - y
	r, g, b := colorRGB(color)
	d.pdf.SetLineWidth(thickness)
	d.pdf.SetDrawColor(r, g, b)
	d.pdf.SetLineCapStyle(gofpdfCapStyle(capStyle))
	if len(dash) > 0 {
		d.pdf.SetDashPattern(dash, 0)
	}
	d.pdf.Line(x0, pdfY, x1, pdfY)
	if len(dash) > 0 {
		d.pdf.SetDashPattern(nil, 0)
	}
}

// hsvToRGB converts a hue in [0, 360) to a fixed-saturation, fixed-value RGB
// triple, used to give every debug-wrapped element in a tree a visually
// distinct but deterministic outline color.
func hsvToRGB(hue float64) (r, g, b int) {
	const s, v = 0.65, 0.9
	h := hue / 60
	c := v * s
	x := c * (1 - abs(mod(h, 2)-1))
	m := v - c
	var rf, gf, bf float64
	switch {
	case h < 1:
		rf, gf, bf = c, x, 0
	case h < 2:
		rf, gf, bf = x, c, 0
	case h < 3:
		rf, gf, bf = 0, c, x
	case h < 4:
		rf, gf, bf = 0, x, c
	case h < 5:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}
	return int((rf + m) * 255), int((gf + m) * 255), int((bf + m) * 255)
}

func mod(a, b float64) float64 {
	m := a
	for m >= b {
		m -= b
	}
	for m < 0 {
		m += b
	}
	return m
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// beginQuarterRotation pushes a translate+rotate CTM so that content drawn
// from the page's top-left lands rotated a quarter turn with its bounding
// box's top-left corner at (xTop, yTop) in engine coordinates. childW and
// childH are the unrotated content dimensions; the returned function pops
// the transform.
func (d *Document) beginQuarterRotation(clockwise bool, xTop, yTop, childW, childH float64) func() {
	pdfY := d.currentPageHeight - yTop
	d.pdf.TransformBegin()
	if clockwise {
		d.pdf.TransformTranslate(xTop+childH, pdfY)
		d.pdf.TransformRotate(-90, 0, 0)
	} else {
		d.pdf.TransformTranslate(xTop, pdfY+childW)
		d.pdf.TransformRotate(90, 0, 0)
	}
	return d.pdf.TransformEnd
}

// drawDebugBox outlines the rectangle with top-left corner (x, yTop) in a
// hue-derived dashed color, per elements.Debug's diagnostic overlay.
func (d *Document) drawDebugBox(x, yTop, w, h, hue float64) {
	pdfY := d.currentPageHeight - yTop
	r, g, b := hsvToRGB(hue)
	d.pdf.SetLineWidth(0.2)
	d.pdf.SetDrawColor(r, g, b)
	d.pdf.SetDashPattern([]float64{1, 1}, 0)
	d.pdf.Rect(x, pdfY, w, h, "D")
	d.pdf.SetDashPattern(nil, 0)
}
