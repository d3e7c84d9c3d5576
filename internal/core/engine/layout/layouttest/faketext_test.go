package layouttest

import (
	"testing"

	"docrender/internal/core/engine/layout"
)

func TestFakeTextLinesAndBreaks(t *testing.T) {
	f := FakeText{Lines: 10, LineHeight: 1, Width: 10}

	// 1 line fits first, then 2 per page: pages of 1, 2, 2, 2, 2, 1.
	last, breaks := f.LinesAndBreaks(1.1, 2.5)
	if last != 1 {
		t.Errorf("last page lines = %d, want 1", last)
	}
	if breaks != 5 {
		t.Errorf("break count = %d, want 5", breaks)
	}
}

func TestFakeTextFitsEntirelyOnFirstPage(t *testing.T) {
	f := FakeText{Lines: 3, LineHeight: 5, Width: 3}

	last, breaks := f.LinesAndBreaks(21, 25)
	if last != 3 || breaks != 0 {
		t.Errorf("got (%d, %d), want (3, 0)", last, breaks)
	}
}

func TestFakeTextProtocol(t *testing.T) {
	params := DefaultParams()
	params.FirstHeight = 1.999
	params.FullHeight = 3.3

	element := FakeText{Lines: 11, LineHeight: 1, Width: 5}

	for _, output := range params.Run(t, element) {
		wantWidth := 5.0
		if output.Width.Expand {
			wantWidth = output.Width.Max
		}

		wantHeight := 11.0
		if output.Breakable != nil {
			// Breakable: the height is the final location's share. With a
			// short first location one line lands there and pages of three
			// follow (1 + 3 + 3 + 3 + 1); starting fresh it's 3 + 3 + 3 + 2.
			if output.FirstHeight == 1.999 {
				output.Breakable.AssertBreakCount(t, 4)
				wantHeight = 1
			} else {
				output.Breakable.AssertBreakCount(t, 3)
				wantHeight = 2
			}
		}

		output.AssertSize(t, layout.ElementSize{
			Width:  layout.Some(wantWidth),
			Height: layout.Some(wantHeight),
		})
	}
}
