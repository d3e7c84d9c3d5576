package flex

import "testing"

func TestTotalWidth(t *testing.T) {
	cases := []struct {
		name   string
		width  float64
		gap    float64
		fixed  []float64
		flex   []uint32
	}{
		{"three_equal_flex", 100, 4, nil, []uint32{1, 1, 1}},
		{"two_flex_one_fixed", 100, 4, []float64{20}, []uint32{1, 1}},
		{"single_flex", 50, 2, nil, []uint32{1}},
		{"zero_gap", 90, 0, nil, []uint32{1, 1, 1}},
		{"all_fixed", 60, 5, []float64{20, 20}, nil},
		{"wide_flex_weights", 120, 3, []float64{10}, []uint32{2, 3}},
		{"single_fixed_no_flex_no_gap_waste", 40, 10, []float64{40}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewMeasureLayout(c.width, c.gap)
			for _, f := range c.fixed {
				m.AddFixed(f)
			}
			for _, w := range c.flex {
				m.AddFlex(w)
			}
			d := m.Build()

			total := 0.0
			for _, f := range c.fixed {
				total += f
			}
			n := 0
			for _, w := range c.flex {
				total += d.ExpandWidth(w)
				n++
			}
			gaps := len(c.fixed) + n
			if gaps > 0 {
				total += c.gap * float64(gaps-1)
			}

			if n > 0 && total != c.width {
				t.Errorf("reconstructed width = %v, want %v", total, c.width)
			}
		})
	}
}

func TestAlignment(t *testing.T) {
	const width, gap = 15.0, 2.0

	// Two rows sharing the same fixed middle cell: one with a single flex
	// cell on each side, one where the left side is split in two and the
	// right side doubled. The fixed cell must stay put, which is exactly
	// the expand_width(1)+gap+expand_width(1) == expand_width(2) identity.
	m1 := NewMeasureLayout(width, gap)
	m1.AddFlex(1)
	m1.AddFixed(3)
	m1.AddFlex(1)
	d1 := m1.Build()

	m2 := NewMeasureLayout(width, gap)
	m2.AddFlex(1)
	m2.AddFlex(1)
	m2.AddFixed(3)
	m2.AddFlex(2)
	d2 := m2.Build()

	if lhs, rhs := d1.ExpandWidth(1), d2.ExpandWidth(1)+gap+d2.ExpandWidth(1); lhs != rhs {
		t.Errorf("alignment identity broken: %v != %v", lhs, rhs)
	}
	if d1.ExpandWidth(1) != 4 {
		t.Errorf("expand_width(1) = %v, want 4", d1.ExpandWidth(1))
	}

	if total := d1.ExpandWidth(1) + gap + 3 + gap + d1.ExpandWidth(1); total != width {
		t.Errorf("reconstructed width = %v, want %v", total, width)
	}
	if total := d2.ExpandWidth(1) + gap + d2.ExpandWidth(1) + gap + 3 + gap + d2.ExpandWidth(2); total != width {
		t.Errorf("reconstructed width = %v, want %v", total, width)
	}
}

func TestExpandWidthNeverNegative(t *testing.T) {
	m := NewMeasureLayout(5, 10)
	m.AddFixed(20)
	m.AddFlex(3)
	d := m.Build()

	if d.ExpandWidth(3) != 0 {
		t.Errorf("expected clamped zero width, got %v", d.ExpandWidth(3))
	}
}
