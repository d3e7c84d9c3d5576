package render

import (
	"fmt"
	"os"
	"path/filepath"

	"docrender/internal/core/domain"
	"docrender/internal/core/engine/layout"
	"docrender/internal/core/engine/layout/elements"
	rendererrors "docrender/internal/pkg/errors"
)

// Env implements domain.BuildEnv for a single entry: it resolves the
// entry's font alias table against a shared, process-wide FontRegistry and
// deduplicates image/SVG decoding per entry, then forwards every shape
// primitive to the owning Document.
type Env struct {
	doc     *Document
	fonts   *FontRegistry
	aliases map[string]string // font alias -> filesystem path, this entry only

	images map[string]elements.PixelSource
	svgs   map[string]elements.VectorSource
}

var _ domain.BuildEnv = (*Env)(nil)

// NewEnv builds the BuildEnv for one entry, given its font alias table and
// the job-wide FontRegistry (seeded from the font prefetch in
// internal/pkg/pool). Its image and SVG caches start empty for each entry.
func NewEnv(doc *Document, fonts *FontRegistry, aliases map[string]string) *Env {
	return &Env{
		doc:     doc,
		fonts:   fonts,
		aliases: aliases,
		images:  map[string]elements.PixelSource{},
		svgs:    map[string]elements.VectorSource{},
	}
}

// Font implements domain.BuildEnv.
func (e *Env) Font(alias string, size float64, bold, italic bool) (domain.FontFace, error) {
	path, ok := e.aliases[alias]
	if !ok {
		return nil, rendererrors.MissingResource(fmt.Sprintf("font alias %q is not declared for this entry", alias))
	}
	face, err := e.fonts.Face(e.doc, path, alias, size, bold, italic)
	if err != nil {
		return nil, err
	}
	return face, nil
}

// Image implements domain.BuildEnv.
func (e *Env) Image(path string) (elements.PixelSource, error) {
	if src, ok := e.images[path]; ok {
		return src, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, rendererrors.MissingResource(fmt.Sprintf("image path %q is invalid", path)).WithCause(err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, rendererrors.MissingResource(fmt.Sprintf("could not read image %q", path)).WithCause(err)
	}
	src, err := newGGRasterizer(abs, data)
	if err != nil {
		return nil, rendererrors.MalformedInput(fmt.Sprintf("could not decode image %q", path)).WithCause(err)
	}
	e.images[path] = src
	return src, nil
}

// Svg implements domain.BuildEnv.
func (e *Env) Svg(path string) (elements.VectorSource, error) {
	if src, ok := e.svgs[path]; ok {
		return src, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, rendererrors.MissingResource(fmt.Sprintf("svg path %q is invalid", path)).WithCause(err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, rendererrors.MissingResource(fmt.Sprintf("could not read svg %q", path)).WithCause(err)
	}
	src, err := newSvgSource(abs, data)
	if err != nil {
		return nil, rendererrors.MalformedInput(fmt.Sprintf("could not parse svg %q", path)).WithCause(err)
	}
	e.svgs[path] = src
	return src, nil
}

// DrawRect implements domain.BuildEnv. x, y is the rectangle's top-left
// corner in engine coordinates, per elements.Rectangle's Draw callback.
func (e *Env) DrawRect(ctx layout.DrawCtx, x, y, w, h float64, fill, outline *uint32, outlineWidth float64) {
	e.doc.drawRect(x, y, w, h, fill, outline, outlineWidth)
}

// DrawCircle implements domain.BuildEnv. cx, cy is the circle's center
// point in engine coordinates, per elements.Circle's DrawFunc callback.
func (e *Env) DrawCircle(ctx layout.DrawCtx, cx, cy, r float64, fill, outline *uint32, outlineWidth float64) {
	e.doc.drawEllipse(cx, cy, r, r, fill, outline, outlineWidth)
}

// DrawHLine implements domain.BuildEnv. y is the line's center, per
// elements.Line's DrawFunc callback.
func (e *Env) DrawHLine(ctx layout.DrawCtx, x0, y, x1 float64, style elements.LineStyle) {
	e.doc.drawHLine(x0, y, x1, float64(style.Thickness), style.Color, style.DashPattern, int(style.CapStyle))
}

// DrawBox implements domain.BuildEnv. x, y is the box's top-left corner,
// exactly like DrawRect: elements.StyledBox passes its Location.Y through
// unmodified, the same convention elements.Rectangle uses.
func (e *Env) DrawBox(ctx layout.DrawCtx, x, y, w, h float64, fill, outline *uint32, outlineWidth float64) {
	e.doc.drawRect(x, y, w, h, fill, outline, outlineWidth)
}

// DrawDebugBox implements domain.BuildEnv, with the same top-left
// convention as DrawBox.
func (e *Env) DrawDebugBox(ctx layout.DrawCtx, x, y, w, h, hue float64) {
	e.doc.drawDebugBox(x, y, w, h, hue)
}

// RotateQuarter implements domain.BuildEnv: it pushes the quarter-turn CTM
// for elements.Rotate and rebases the child's location to the page's
// top-left, which the transform maps onto the rotated box anchored at the
// element's own location.
func (e *Env) RotateQuarter(ctx layout.DrawCtx, rotation elements.Rotation, childWidth, childHeight float64) (layout.DrawCtx, func()) {
	restore := e.doc.beginQuarterRotation(rotation == elements.QuarterRight, ctx.Location.X, ctx.Location.Y, childWidth, childHeight)
	ctx.Location.X = 0
	ctx.Location.Y = e.doc.currentPageHeight
	return ctx, restore
}
