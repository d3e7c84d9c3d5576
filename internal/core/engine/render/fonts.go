package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"docrender/internal/core/engine/layout"
	rendererrors "docrender/internal/pkg/errors"
)

const mmPerPt = 25.4 / 72

type loadedFont struct {
	path   string
	data   []byte
	parsed *truetype.Font
}

// FontRegistry is a process-wide cache of parsed TrueType fonts, shared
// across every entry in a render job so the same font file is read and
// parsed only once no matter how many entries or aliases reference it.
type FontRegistry struct {
	byPath map[string]*loadedFont
}

// NewFontRegistry creates an empty registry.
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{byPath: map[string]*loadedFont{}}
}

// Preload parses already-read font bytes into the cache, so a registry
// seeded from the prefetch pool never touches the filesystem during layout.
func (r *FontRegistry) Preload(path string, data []byte) error {
	if _, ok := r.byPath[path]; ok {
		return nil
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return rendererrors.MalformedInput(fmt.Sprintf("font %q is not a valid TrueType file", path)).WithCause(err)
	}
	r.byPath[path] = &loadedFont{path: path, data: data, parsed: parsed}
	return nil
}

func (r *FontRegistry) load(path string) (*loadedFont, error) {
	if lf, ok := r.byPath[path]; ok {
		return lf, nil
	}
	// Fallback for paths that never went through the prefetch pool.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rendererrors.MissingResource(fmt.Sprintf("could not read font %q", path)).WithCause(err)
	}
	if err := r.Preload(path, data); err != nil {
		return nil, err
	}
	return r.byPath[path], nil
}

func fontStyleCode(bold, italic bool) string {
	switch {
	case bold && italic:
		return "BI"
	case bold:
		return "B"
	case italic:
		return "I"
	default:
		return ""
	}
}

func fontFamilyName(alias string) string {
	return "docrender-" + alias
}

// Face resolves a font alias at a given size/weight into a domain.FontFace,
// embedding it into doc on first use.
func (r *FontRegistry) Face(doc *Document, path, alias string, size float64, bold, italic bool) (*ShapedTextMeasurer, error) {
	lf, err := r.load(path)
	if err != nil {
		return nil, err
	}
	family := fontFamilyName(alias)
	style := fontStyleCode(bold, italic)
	doc.EmbedFont(family, style, path, lf.data)

	face := truetype.NewFace(lf.parsed, &truetype.Options{Size: size, DPI: 72})
	return &ShapedTextMeasurer{
		face:   face,
		family: family,
		style:  style,
		size:   size,
	}, nil
}

// ShapedTextMeasurer implements elements.TextMeasurer and domain.FontFace
// against a shaped freetype face, converting the font library's
// fixed-point, 72dpi point measurements into the millimeters the layout
// engine works in.
type ShapedTextMeasurer struct {
	face   font.Face
	family string
	style  string
	size   float64
}

// MeasureLine implements elements.TextMeasurer.
func (f *ShapedTextMeasurer) MeasureLine(s string) float64 {
	pts := float64(font.MeasureString(f.face, s)) / 64
	return pts * mmPerPt
}

// LineHeight implements elements.TextMeasurer.
func (f *ShapedTextMeasurer) LineHeight() float64 {
	m := f.face.Metrics()
	pts := float64(m.Height) / 64
	return pts * mmPerPt
}

// DrawLine implements domain.FontFace, placing one line of text with its
// top-left corner at (x, y) in engine coordinates.
func (f *ShapedTextMeasurer) DrawLine(ctx layout.DrawCtx, line string, x, y, width float64) {
	doc, ok := ctx.Pdf.(*entryStream)
	if !ok {
		return
	}
	doc.drawTextLine(f.family, f.style, f.size, line, x, y, width)
}
