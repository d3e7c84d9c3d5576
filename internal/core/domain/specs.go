package domain

import (
	"fmt"

	"docrender/internal/core/engine/layout"
	"docrender/internal/core/engine/layout/elements"
)

// --- leaves -----------------------------------------------------------

type noneSpec struct{}

func (s *noneSpec) build(env BuildEnv) (layout.Element, error) { return elements.None{}, nil }

type emptySpec struct{}

func (s *emptySpec) build(env BuildEnv) (layout.Element, error) { return elements.Empty{}, nil }

type forceBreakSpec struct{}

func (s *forceBreakSpec) build(env BuildEnv) (layout.Element, error) { return elements.ForceBreak{}, nil }

type vGapSpec struct {
	Height float64 `json:"height"`
}

func (s *vGapSpec) build(env BuildEnv) (layout.Element, error) {
	return elements.VGap{Height: s.Height}, nil
}

type lineSpec struct {
	Thickness   float64   `json:"thickness"`
	Color       Color     `json:"color"`
	DashPattern []float64 `json:"dash_pattern"`
}

func (s *lineSpec) build(env BuildEnv) (layout.Element, error) {
	style := elements.LineStyle{Thickness: s.Thickness, Color: uint32(s.Color), DashPattern: s.DashPattern}
	return elements.Line{
		Style: style,
		DrawFunc: func(ctx layout.DrawCtx, x0, y, x1 float64) {
			env.DrawHLine(ctx, x0, y, x1, style)
		},
	}, nil
}

type rectangleSpec struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Fill         *Color  `json:"fill"`
	OutlineWidth float64 `json:"outline_width"`
	OutlineColor *Color  `json:"outline_color"`
}

func (s *rectangleSpec) build(env BuildEnv) (layout.Element, error) {
	fill := s.Fill.toPtr()
	var outlineColor uint32
	hasOutline := s.OutlineColor != nil
	if hasOutline {
		outlineColor = uint32(*s.OutlineColor)
	}
	return elements.Rectangle{
		Width: s.Width, Height: s.Height, Fill: fill,
		OutlineWidth: s.OutlineWidth, OutlineColor: outlineColor, HasOutline: hasOutline,
		DrawFunc: func(ctx layout.DrawCtx, x, y, w, h float64) {
			env.DrawRect(ctx, x, y, w, h, fill, s.OutlineColor.toPtr(), s.OutlineWidth)
		},
	}, nil
}

type circleSpec struct {
	Radius       float64 `json:"radius"`
	Fill         *Color  `json:"fill"`
	OutlineWidth float64 `json:"outline_width"`
	OutlineColor *Color  `json:"outline_color"`
}

func (s *circleSpec) build(env BuildEnv) (layout.Element, error) {
	fill := s.Fill.toPtr()
	var outlineColor uint32
	hasOutline := s.OutlineColor != nil
	if hasOutline {
		outlineColor = uint32(*s.OutlineColor)
	}
	return elements.Circle{
		Radius: s.Radius, Fill: fill,
		OutlineWidth: s.OutlineWidth, OutlineColor: outlineColor, HasOutline: hasOutline,
		DrawFunc: func(ctx layout.DrawCtx, cx, cy, r float64) {
			env.DrawCircle(ctx, cx, cy, r, fill, s.OutlineColor.toPtr(), s.OutlineWidth)
		},
	}, nil
}

type imageSpec struct {
	Path string `json:"path"`
	Svg  bool   `json:"svg"`
}

func (s *imageSpec) build(env BuildEnv) (layout.Element, error) {
	if s.Svg {
		src, err := env.Svg(s.Path)
		if err != nil {
			return nil, err
		}
		return elements.Svg{Source: src}, nil
	}
	src, err := env.Image(s.Path)
	if err != nil {
		return nil, err
	}
	return elements.Image{Source: src}, nil
}

type textSpec struct {
	Lines     []string `json:"lines"`
	FontAlias string   `json:"font_alias"`
	Size      float64  `json:"size"`
	Bold      bool     `json:"bold"`
	Italic    bool     `json:"italic"`
}

func (s *textSpec) build(env BuildEnv) (layout.Element, error) {
	face, err := env.Font(s.FontAlias, s.Size, s.Bold, s.Italic)
	if err != nil {
		return nil, err
	}
	return elements.Text{
		Lines:    s.Lines,
		Measurer: face,
		DrawLine: face.DrawLine,
	}, nil
}

type richTextRunSpec struct {
	Text      string  `json:"text"`
	FontAlias string  `json:"font_alias"`
	Size      float64 `json:"size"`
	Bold      bool    `json:"bold"`
	Italic    bool    `json:"italic"`
}

type richTextSpec struct {
	Runs []richTextRunSpec `json:"runs"`
}

func (s *richTextSpec) build(env BuildEnv) (layout.Element, error) {
	if len(s.Runs) == 0 {
		return elements.None{}, nil
	}
	// Every run in a RichText paragraph shares one line height, taken from
	// the first run's font, matching the uniform-line-pack assumption the
	// core's LinesAndBreaks arithmetic makes.
	lead, err := env.Font(s.Runs[0].FontAlias, s.Runs[0].Size, s.Runs[0].Bold, s.Runs[0].Italic)
	if err != nil {
		return nil, err
	}
	runs := make([]elements.RichTextRun, len(s.Runs))
	faceByRun := make(map[elements.RichTextRun]FontFace, len(s.Runs))
	faceByRun[elements.RichTextRun{Text: s.Runs[0].Text, FontAlias: s.Runs[0].FontAlias, Size: s.Runs[0].Size, Bold: s.Runs[0].Bold, Italic: s.Runs[0].Italic}] = lead
	for i, r := range s.Runs {
		run := elements.RichTextRun{Text: r.Text, FontAlias: r.FontAlias, Size: r.Size, Bold: r.Bold, Italic: r.Italic}
		runs[i] = run
		if _, ok := faceByRun[run]; ok {
			continue
		}
		f, err := env.Font(r.FontAlias, r.Size, r.Bold, r.Italic)
		if err != nil {
			return nil, err
		}
		faceByRun[run] = f
	}
	return elements.RichText{
		Runs:     runs,
		Measurer: lead,
		DrawRun: func(ctx layout.DrawCtx, run elements.RichTextRun, x, y, width float64) {
			if face, ok := faceByRun[run]; ok {
				face.DrawLine(ctx, run.Text, x, y, width)
			}
		},
	}, nil
}

// --- decorators ---------------------------------------------------------

type hAlignSpec struct {
	Align string `json:"align"`
	Child Node   `json:"child"`
}

func (s *hAlignSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	var align elements.HAlign
	switch s.Align {
	case "start", "":
		align = elements.HStart
	case "center":
		align = elements.HCenter
	case "end":
		align = elements.HEnd
	default:
		return nil, fmt.Errorf("unknown HAlign value %q", s.Align)
	}
	return elements.HAlignElement{Align: align, Element: child}, nil
}

type paddingSpec struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Child  Node    `json:"child"`
}

func (s *paddingSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.Padding{Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom, Element: child}, nil
}

type maxWidthSpec struct {
	Max   float64 `json:"max"`
	Child Node    `json:"child"`
}

func (s *maxWidthSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.MaxWidth{Max: s.Max, Element: child}, nil
}

type styledBoxSpec struct {
	Fill         *Color  `json:"fill"`
	OutlineColor *Color  `json:"outline_color"`
	OutlineWidth float64 `json:"outline_width"`
	Child        Node    `json:"child"`
}

func (s *styledBoxSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	fill, outline := s.Fill.toPtr(), s.OutlineColor.toPtr()
	return elements.StyledBox{
		Element: child, Fill: fill, OutlineColor: outline, OutlineWidth: s.OutlineWidth,
		DrawBox: func(ctx layout.DrawCtx, x, y, w, h float64) {
			env.DrawBox(ctx, x, y, w, h, fill, outline, s.OutlineWidth)
		},
	}, nil
}

type debugSpec struct {
	Hue   float64 `json:"hue"`
	Child Node    `json:"child"`
}

func (s *debugSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.Debug{
		Element: child, Hue: s.Hue,
		DrawBox: func(ctx layout.DrawCtx, x, y, w, h, hue float64) {
			env.DrawDebugBox(ctx, x, y, w, h, hue)
		},
	}, nil
}

// --- axis containers ----------------------------------------------------

type columnSpec struct {
	Children      []Node  `json:"children"`
	Gap           float64 `json:"gap"`
	CollapseEmpty bool    `json:"collapse_empty"`
	BreakPage     bool    `json:"break_page"`
}

func (s *columnSpec) build(env BuildEnv) (layout.Element, error) {
	children, err := buildChildren(env, s.Children)
	if err != nil {
		return nil, err
	}
	return elements.Column{Children: children, Gap: s.Gap, CollapseEmpty: s.CollapseEmpty, BreakPage: s.BreakPage}, nil
}

type rowChildSpec struct {
	Element Node   `json:"element"`
	Flex    uint32 `json:"flex"`
	Expand  bool   `json:"expand"`
}

type rowSpec struct {
	Children []rowChildSpec `json:"children"`
	Gap      float64        `json:"gap"`
}

func (s *rowSpec) build(env BuildEnv) (layout.Element, error) {
	children := make([]elements.RowChild, len(s.Children))
	for i, c := range s.Children {
		el, err := c.Element.Build(env)
		if err != nil {
			return nil, fmt.Errorf("row child %d: %w", i, err)
		}
		children[i] = elements.RowChild{Element: el, Flex: elements.FlexSpec{Flex: c.Flex, Expand: c.Expand}}
	}
	return elements.Row{Children: children, Gap: s.Gap}, nil
}

type breakListSpec struct {
	Children []Node  `json:"children"`
	Gap      float64 `json:"gap"`
	LineGap  float64 `json:"line_gap"`
}

func (s *breakListSpec) build(env BuildEnv) (layout.Element, error) {
	children, err := buildChildren(env, s.Children)
	if err != nil {
		return nil, err
	}
	return elements.BreakList{Children: children, Gap: s.Gap, LineGap: s.LineGap}, nil
}

type stackChildSpec struct {
	Element Node   `json:"element"`
	VAlign  string `json:"v_align"`
}

type stackSpec struct {
	Children []stackChildSpec `json:"children"`
}

func parseVAlign(s string) (elements.VAlign, error) {
	switch s {
	case "top", "":
		return elements.Top, nil
	case "center":
		return elements.Center, nil
	case "bottom":
		return elements.Bottom, nil
	default:
		return 0, fmt.Errorf("unknown v_align value %q", s)
	}
}

func (s *stackSpec) build(env BuildEnv) (layout.Element, error) {
	children := make([]elements.StackChild, len(s.Children))
	for i, c := range s.Children {
		el, err := c.Element.Build(env)
		if err != nil {
			return nil, fmt.Errorf("stack child %d: %w", i, err)
		}
		valign, err := parseVAlign(c.VAlign)
		if err != nil {
			return nil, err
		}
		children[i] = elements.StackChild{Element: el, VAlign: valign}
	}
	return elements.Stack{Children: children}, nil
}

type tableRowSpec struct {
	Cells  []Node    `json:"cells"`
	Widths []float64 `json:"widths"`
	Flex   []uint32  `json:"flex"`
	Gap    float64   `json:"gap"`
}

func (s *tableRowSpec) build(env BuildEnv) (layout.Element, error) {
	cells, err := buildChildren(env, s.Cells)
	if err != nil {
		return nil, err
	}
	widths := make([]elements.WidthSpec, len(cells))
	for i := range cells {
		flex := uint32(0)
		if i < len(s.Flex) {
			flex = s.Flex[i]
		}
		fixed := 0.0
		if i < len(s.Widths) {
			fixed = s.Widths[i]
		}
		widths[i] = elements.WidthSpec{Fixed: fixed, Flex: flex}
	}
	return elements.TableRow{Cells: cells, Widths: widths, Gap: s.Gap}, nil
}

// --- break-sensitive containers ------------------------------------------

type titledSpec struct {
	Title         Node    `json:"title"`
	Content       Node    `json:"content"`
	Gap           float64 `json:"gap"`
	VanishIfEmpty bool    `json:"vanish_if_empty"`
}

func (s *titledSpec) build(env BuildEnv) (layout.Element, error) {
	title, err := s.Title.Build(env)
	if err != nil {
		return nil, err
	}
	content, err := s.Content.Build(env)
	if err != nil {
		return nil, err
	}
	// "Titled" deliberately draws its title once, at the original location
	// only; the "RepeatAfterBreak" tag is the variant that repeats the
	// title at the top of every page the content spans.
	return elements.Titled{Title: title, Content: content, Gap: s.Gap, VanishIfEmpty: s.VanishIfEmpty}, nil
}

type repeatAfterBreakSpec struct {
	Title         Node    `json:"title"`
	Content       Node    `json:"content"`
	Gap           float64 `json:"gap"`
	VanishIfEmpty bool    `json:"vanish_if_empty"`
}

func (s *repeatAfterBreakSpec) build(env BuildEnv) (layout.Element, error) {
	title, err := s.Title.Build(env)
	if err != nil {
		return nil, err
	}
	content, err := s.Content.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.NewRepeatAfterBreak(title, content, s.Gap, s.VanishIfEmpty), nil
}

type titleOrBreakSpec struct {
	Title   Node    `json:"title"`
	Content Node    `json:"content"`
	Gap     float64 `json:"gap"`
}

func (s *titleOrBreakSpec) build(env BuildEnv) (layout.Element, error) {
	title, err := s.Title.Build(env)
	if err != nil {
		return nil, err
	}
	content, err := s.Content.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.TitleOrBreak{Title: title, Content: content, Gap: s.Gap}, nil
}

type repeatBottomSpec struct {
	Content Node    `json:"content"`
	Bottom  Node    `json:"bottom"`
	Gap     float64 `json:"gap"`
}

func (s *repeatBottomSpec) build(env BuildEnv) (layout.Element, error) {
	content, err := s.Content.Build(env)
	if err != nil {
		return nil, err
	}
	bottom, err := s.Bottom.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.RepeatBottom{Content: content, Bottom: bottom, Gap: s.Gap}, nil
}

type pinBelowSpec struct {
	Content Node    `json:"content"`
	Pinned  Node    `json:"pinned"`
	Gap     float64 `json:"gap"`
}

func (s *pinBelowSpec) build(env BuildEnv) (layout.Element, error) {
	content, err := s.Content.Build(env)
	if err != nil {
		return nil, err
	}
	pinned, err := s.Pinned.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.PinBelow{Content: content, Pinned: pinned, Gap: s.Gap}, nil
}

type breakWholeSpec struct {
	Child Node `json:"child"`
}

func (s *breakWholeSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.BreakWhole{Element: child}, nil
}

type minFirstHeightSpec struct {
	Min   float64 `json:"min"`
	Child Node    `json:"child"`
}

func (s *minFirstHeightSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.MinFirstHeight{Min: s.Min, Element: child}, nil
}

type alignLocationBottomSpec struct {
	Child Node `json:"child"`
}

func (s *alignLocationBottomSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.AlignLocationBottom{Element: child}, nil
}

type alignPreferredHeightBottomSpec struct {
	Child Node `json:"child"`
}

func (s *alignPreferredHeightBottomSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.AlignPreferredHeightBottom{Element: child}, nil
}

type expandToPreferredHeightSpec struct {
	Child Node `json:"child"`
}

func (s *expandToPreferredHeightSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.ExpandToPreferredHeight{Element: child}, nil
}

type shrinkToFitSpec struct {
	Child Node `json:"child"`
}

func (s *shrinkToFitSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	return elements.ShrinkToFit{Element: child}, nil
}

type rotateSpec struct {
	Rotation string `json:"rotation"`
	Child    Node   `json:"child"`
}

func (s *rotateSpec) build(env BuildEnv) (layout.Element, error) {
	child, err := s.Child.Build(env)
	if err != nil {
		return nil, err
	}
	var r elements.Rotation
	switch s.Rotation {
	case "left", "":
		r = elements.QuarterLeft
	case "right":
		r = elements.QuarterRight
	default:
		return nil, fmt.Errorf("unknown rotation value %q", s.Rotation)
	}
	return elements.Rotate{Element: child, Rotation: r, ApplyCTM: env.RotateQuarter}, nil
}
