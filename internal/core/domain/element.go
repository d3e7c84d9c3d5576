// Package domain decodes the JSON element tree a render job carries into
// the engine's internal layout.Element tree, and defines the RenderJob
// envelope the CLI reads from stdin.
package domain

import (
	"encoding/json"
	"fmt"

	"docrender/internal/core/engine/layout"
	"docrender/internal/core/engine/layout/elements"
	rendererrors "docrender/internal/pkg/errors"
)

// FontFace is what the domain layer needs from a resolved font to build
// Text/RichText elements: line measurement plus the ability to actually
// draw a line of text, bundled so Build never has to reach into the
// renderer directly.
type FontFace interface {
	elements.TextMeasurer
	DrawLine(ctx layout.DrawCtx, line string, x, y, width float64)
}

// BuildEnv supplies every external resource an element tree may reference:
// fonts by alias/size/weight, and raster/vector images by path. It is
// implemented by the render package, letting domain stay free of any PDF
// library import.
type BuildEnv interface {
	Font(alias string, size float64, bold, italic bool) (FontFace, error)
	Image(path string) (elements.PixelSource, error)
	Svg(path string) (elements.VectorSource, error)
	// DrawRect/DrawCircle/DrawHLine are the shape primitives leaf elements
	// bind their Draw callbacks to.
	DrawRect(ctx layout.DrawCtx, x, y, w, h float64, fill *uint32, outline *uint32, outlineWidth float64)
	DrawCircle(ctx layout.DrawCtx, cx, cy, r float64, fill *uint32, outline *uint32, outlineWidth float64)
	DrawHLine(ctx layout.DrawCtx, x0, y, x1 float64, style elements.LineStyle)
	DrawBox(ctx layout.DrawCtx, x, y, w, h float64, fill *uint32, outline *uint32, outlineWidth float64)
	DrawDebugBox(ctx layout.DrawCtx, x, y, w, h float64, hue float64)
	// RotateQuarter pushes the coordinate transform for a rotated
	// sub-layout and returns the rebased child context plus a restore
	// function, per elements.Rotate's ApplyCTM contract.
	RotateQuarter(ctx layout.DrawCtx, rotation elements.Rotation, childWidth, childHeight float64) (layout.DrawCtx, func())
}

// Node is one entry in the JSON element tree: a tagged union over every
// element kind the engine supports, matching the wire shape
// {"type": "...", ...fields}.
type Node struct {
	kind string
	spec nodeSpec
}

type nodeSpec interface {
	build(env BuildEnv) (layout.Element, error)
}

// UnmarshalJSON dispatches on the "type" discriminator field to decode the
// rest of the object into the concrete spec for that element kind.
func (n *Node) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return rendererrors.MalformedInput("element is not a JSON object with a \"type\" field").WithCause(err)
	}
	n.kind = head.Type

	spec, err := newNodeSpec(head.Type)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, spec); err != nil {
		return rendererrors.MalformedInput(fmt.Sprintf("invalid fields for element type %q", head.Type)).WithCause(err)
	}
	n.spec = spec
	return nil
}

// Build converts this node (and its children, recursively) into a
// layout.Element tree.
func (n Node) Build(env BuildEnv) (layout.Element, error) {
	if n.spec == nil {
		return nil, rendererrors.MalformedInput("empty element node")
	}
	el, err := n.spec.build(env)
	if err != nil {
		return nil, err
	}
	return el, nil
}

func newNodeSpec(kind string) (nodeSpec, error) {
	switch kind {
	case "None":
		return &noneSpec{}, nil
	case "Empty":
		return &emptySpec{}, nil
	case "Text":
		return &textSpec{}, nil
	case "RichText":
		return &richTextSpec{}, nil
	case "VGap":
		return &vGapSpec{}, nil
	case "HAlign":
		return &hAlignSpec{}, nil
	case "Padding":
		return &paddingSpec{}, nil
	case "StyledBox":
		return &styledBoxSpec{}, nil
	case "Line":
		return &lineSpec{}, nil
	case "Image":
		return &imageSpec{}, nil
	case "Rectangle":
		return &rectangleSpec{}, nil
	case "Circle":
		return &circleSpec{}, nil
	case "Column":
		return &columnSpec{}, nil
	case "Row":
		return &rowSpec{}, nil
	case "BreakList":
		return &breakListSpec{}, nil
	case "Stack":
		return &stackSpec{}, nil
	case "TableRow":
		return &tableRowSpec{}, nil
	case "Titled":
		return &titledSpec{}, nil
	case "TitleOrBreak":
		return &titleOrBreakSpec{}, nil
	case "RepeatAfterBreak":
		return &repeatAfterBreakSpec{}, nil
	case "RepeatBottom":
		return &repeatBottomSpec{}, nil
	case "PinBelow":
		return &pinBelowSpec{}, nil
	case "ForceBreak":
		return &forceBreakSpec{}, nil
	case "BreakWhole":
		return &breakWholeSpec{}, nil
	case "MinFirstHeight":
		return &minFirstHeightSpec{}, nil
	case "AlignLocationBottom":
		return &alignLocationBottomSpec{}, nil
	case "AlignPreferredHeightBottom":
		return &alignPreferredHeightBottomSpec{}, nil
	case "ExpandToPreferredHeight":
		return &expandToPreferredHeightSpec{}, nil
	case "ShrinkToFit":
		return &shrinkToFitSpec{}, nil
	case "Rotate":
		return &rotateSpec{}, nil
	case "Debug":
		return &debugSpec{}, nil
	case "MaxWidth":
		return &maxWidthSpec{}, nil
	default:
		return nil, rendererrors.MalformedInput(fmt.Sprintf("unknown element type %q", kind))
	}
}

func buildChildren(env BuildEnv, ns []Node) ([]layout.Element, error) {
	out := make([]layout.Element, len(ns))
	for i := range ns {
		el, err := ns[i].Build(env)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		out[i] = el
	}
	return out, nil
}
