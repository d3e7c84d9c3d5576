// Package flex implements the two-phase fractional width allocator used by
// Row (and TableRow, which builds on Row); BreakList does not use it and
// places its children at their own widths. Children register as fixed or
// flex during measurement,
// then a single pool of remaining width is divided among the flex children
// so that column alignment is preserved across differently-shaped rows.
package flex

// MeasureLayout accumulates children during the measure phase: each is
// either fixed with an already-known width, or flex with an integer weight.
type MeasureLayout struct {
	Width         float64
	Gap           float64
	TotalFlex     uint32
	NoExpandCount uint32
	NoExpandWidth float64
}

// NewMeasureLayout starts an empty layout for the given total width and gap
// between cells.
func NewMeasureLayout(width, gap float64) MeasureLayout {
	return MeasureLayout{Width: width, Gap: gap}
}

// AddFixed registers a cell whose width is already known and will not
// expand to fill leftover space.
func (m *MeasureLayout) AddFixed(width float64) {
	m.NoExpandCount++
	m.NoExpandWidth += width
}

// AddFlex registers a cell that wants a share of the remaining width
// proportional to weight (an integer fraction, minimum 1).
func (m *MeasureLayout) AddFlex(weight uint32) {
	if weight < 1 {
		weight = 1
	}
	m.TotalFlex += weight
}

// DrawLayout is the built allocator used during the draw phase to compute
// each flex cell's expanded width.
type DrawLayout struct {
	TotalFlex     uint32
	Gap           float64
	RemainingWidth float64
}

// Build finalizes the measured layout into a draw-phase allocator. The pool
// available to flex children is (width + gap) - (fixed width + gap per fixed
// cell), clamped to zero — the "+gap" and "-gap per cell" terms cancel out
// to exactly n_flex-1 gaps between flex cells plus the gaps already spent on
// fixed cells, which is what makes expand_width(2) == expand_width(1) + gap
// + expand_width(1) hold across differently shaped rows.
func (m MeasureLayout) Build() DrawLayout {
	pool := m.Width + m.Gap - m.NoExpandWidth - m.Gap*float64(m.NoExpandCount)
	if pool < 0 {
		pool = 0
	}
	return DrawLayout{
		TotalFlex:      m.TotalFlex,
		Gap:            m.Gap,
		RemainingWidth: pool,
	}
}

// ExpandWidth returns the width a flex cell of the given weight should
// occupy, clamped to zero.
func (d DrawLayout) ExpandWidth(weight uint32) float64 {
	if d.TotalFlex == 0 {
		return 0
	}
	w := d.RemainingWidth*float64(weight)/float64(d.TotalFlex) - d.Gap
	if w < 0 {
		return 0
	}
	return w
}
