// Package layout implements the three-pass element protocol: every visual
// element in a document is asked in turn how it would like to use its first
// location, how large it measures, and finally how to draw itself, with a
// pagination callback threaded through the breakable paths.
package layout

import "math"

// Epsilon is the floating point tolerance used for "does it fit" comparisons
// throughout the engine, so exact-fit edge cases don't trigger spurious
// breaks or infinite break loops.
const Epsilon = 1e-4

// WidthConstraint is the horizontal budget handed down to every element.
type WidthConstraint struct {
	// Max is the available width in millimeters.
	Max float64
	// Expand, when true, requires elements that can stretch horizontally to
	// report a width equal to Max rather than their intrinsic width.
	Expand bool
}

// Constrain clamps an intrinsic width against the constraint: when Expand is
// set the result is always Max, otherwise it's the intrinsic width clamped
// to [0, Max].
func (w WidthConstraint) Constrain(intrinsic float64) float64 {
	if w.Expand {
		return w.Max
	}
	if intrinsic < 0 {
		return 0
	}
	if intrinsic > w.Max {
		return w.Max
	}
	return intrinsic
}

// ElementSize is the size an element reports from Measure/Draw. Width and
// Height are individually optional: an absent Width contributes no
// horizontal footprint but triggers sibling collapse behavior, an absent
// Height means the element is vertically transparent (no cursor advance, no
// minimum slot), which is distinct from a present zero.
type ElementSize struct {
	Width  *float64
	Height *float64
}

// Some is a small helper for building ElementSize literals inline.
func Some(v float64) *float64 { return &v }

// WidthOr returns the width or a fallback when absent.
func (s ElementSize) WidthOr(fallback float64) float64 {
	if s.Width == nil {
		return fallback
	}
	return *s.Width
}

// HeightOr returns the height or a fallback when absent.
func (s ElementSize) HeightOr(fallback float64) float64 {
	if s.Height == nil {
		return fallback
	}
	return *s.Height
}

// Location identifies where an element should draw: a page, a z-layer within
// that page, an (x, y) origin in millimeters with the origin at the page's
// bottom-left, and the cumulative scale factor along the current render
// path (used by rotated sub-layouts).
type Location struct {
	PageIndex   int
	LayerIndex  int
	X, Y        float64
	ScaleFactor float64
}

// FirstLocationUsage classifies how an element intends to use the space it's
// offered at the current location, without committing to drawing anything.
type FirstLocationUsage int

const (
	// WillUse means the element will produce output at this location.
	WillUse FirstLocationUsage = iota
	// WillSkip means the element will not fit here and forces a break
	// before drawing anything.
	WillSkip
	// NoneHeight means the element produces no vertical footprint at all.
	NoneHeight
)

// FirstLocationUsageCtx is the context for the first, cheapest pass.
type FirstLocationUsageCtx struct {
	Width       WidthConstraint
	FirstHeight float64
	FullHeight  float64
}

// BreakAppropriateForMinHeight reports whether an element needing minHeight
// would break preemptively at this location: the first location can't hold
// it but a subsequent full-height one can.
func (ctx FirstLocationUsageCtx) BreakAppropriateForMinHeight(minHeight float64) bool {
	return ctx.FirstHeight+Epsilon < minHeight && ctx.FullHeight+Epsilon >= minHeight
}

// BreakableMeasure carries the breaking budget available during Measure.
// BreakCount and ExtraLocationMinHeight are out-parameters: the caller
// initializes them to zero before the call and the callee only ever writes
// to them, never reads, per the protocol invariant.
type BreakableMeasure struct {
	FullHeight             float64
	BreakCount             *int
	ExtraLocationMinHeight *float64
}

// MeasureCtx is the context for the size-reporting pass.
type MeasureCtx struct {
	Width       WidthConstraint
	FirstHeight float64
	Breakable   *BreakableMeasure
}

// BreakIfAppropriateForMinHeight implements the shared "preemptive break"
// mechanism leaf elements use: if the element needs at least minHeight and
// the current first_height can't provide it but a subsequent full_height
// can, it records one break in BreakCount so the element is measured as if
// it started on a fresh page.
func (ctx *MeasureCtx) BreakIfAppropriateForMinHeight(minHeight float64) {
	if ctx.Breakable == nil {
		return
	}
	if ctx.FirstHeight+Epsilon < minHeight && ctx.Breakable.FullHeight+Epsilon >= minHeight {
		*ctx.Breakable.BreakCount = 1
	}
}

// PageStream is the abstraction every pagination callback allocates pages
// against. The concrete implementation (internal/core/engine/render) owns
// the real PDF page list; the layout engine only depends on this interface
// so that the protocol can be tested without a PDF writer.
type PageStream interface {
	// EnsureLocation realizes (allocating blank pages if necessary) and
	// returns the location for the Nth additional location beyond the
	// current one, deduplicating repeated requests for the same index.
	EnsureLocation(locationIdx int) Location
}

// GetLocationFunc is a pure lookup: "give me a location at page slot N".
type GetLocationFunc func(pdf PageStream, locationIdx int) Location

// DoBreakFunc is informative: "I am done with page N; here is the height I
// occupied on it; give me page N+1". reportedHeight is nil when the height
// on the prior page is not yet known.
type DoBreakFunc func(pdf PageStream, locationIdx int, reportedHeight *float64) Location

// BreakableDraw carries the pagination callback available during Draw. A
// container exposes exactly one of DoBreak or GetLocation depending on
// whether it is emitting output progressively (DoBreak) or already knows
// how many pages it needs (GetLocation); combinators that wrap a child's
// callback convert between the two shapes as needed.
type BreakableDraw struct {
	FullHeight                float64
	PreferredHeightBreakCount int
	DoBreak                   DoBreakFunc
	GetLocation               GetLocationFunc
}

// LocationAt is the pure-lookup shape: it uses GetLocation when the parent
// supplied one and otherwise falls back to DoBreak with no reported height,
// so elements can always ask for "the location at slot N" regardless of
// which callback shape their parent chose.
func (b *BreakableDraw) LocationAt(pdf PageStream, locationIdx int) Location {
	if b.GetLocation != nil {
		return b.GetLocation(pdf, locationIdx)
	}
	return b.DoBreak(pdf, locationIdx, nil)
}

// BreakTo is the informative shape, converting in the other direction when
// the parent only supplied GetLocation (the reported height is dropped).
func (b *BreakableDraw) BreakTo(pdf PageStream, locationIdx int, reportedHeight *float64) Location {
	if b.DoBreak != nil {
		return b.DoBreak(pdf, locationIdx, reportedHeight)
	}
	return b.GetLocation(pdf, locationIdx)
}

// DrawCtx is the context for the rendering pass.
type DrawCtx struct {
	Pdf            PageStream
	Location       Location
	Width          WidthConstraint
	FirstHeight    float64
	PreferredHeight *float64
	Breakable      *BreakableDraw
}

// BreakIfAppropriateForMinHeight mirrors MeasureCtx's helper for the draw
// pass: if the element needs minHeight and it doesn't fit at the current
// location, it requests location 0 via LocationAt and updates ctx.Location and
// ctx.FirstHeight in place so the rest of Draw proceeds as if it started
// fresh.
func (ctx *DrawCtx) BreakIfAppropriateForMinHeight(minHeight float64) {
	if ctx.Breakable == nil {
		return
	}
	if ctx.FirstHeight+Epsilon < minHeight && ctx.Breakable.FullHeight+Epsilon >= minHeight {
		ctx.Location = ctx.Breakable.LocationAt(ctx.Pdf, 0)
		ctx.FirstHeight = ctx.Breakable.FullHeight
	}
}

// Element is the uniform three-pass interface every visual node satisfies.
type Element interface {
	FirstLocationUsage(ctx FirstLocationUsageCtx) FirstLocationUsage
	Measure(ctx MeasureCtx) ElementSize
	Draw(ctx DrawCtx) ElementSize
}

// DefaultFirstLocationUsage is a fallback for elements without a cheaper
// specialized check: it measures the element in an unbreakable context at
// the first location and classifies the result.
func DefaultFirstLocationUsage(e Element, ctx FirstLocationUsageCtx) FirstLocationUsage {
	size := e.Measure(MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: ctx.FirstHeight,
		Breakable:   nil,
	})
	if size.Height == nil {
		return NoneHeight
	}
	if *size.Height > ctx.FirstHeight+Epsilon {
		return WillSkip
	}
	return WillUse
}

// Fits reports whether a measured height fits within an available height,
// using the engine-wide epsilon tolerance.
func Fits(measured, available float64) bool {
	return measured <= available+Epsilon
}

// Max0 clamps a value to be non-negative; internal combinators clamp
// negative dimensions to zero rather than aborting.
func Max0(v float64) float64 {
	return math.Max(0, v)
}
