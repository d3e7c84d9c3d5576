package layouttest

import "docrender/internal/core/engine/layout"

// FakePageStream is a minimal layout.PageStream for tests: every page is
// full_height tall, located at x=0, and requests are deduplicated by index
// exactly like the real renderer is required to.
type FakePageStream struct {
	FullHeight float64
	PageWidth  float64
	locations  map[int]layout.Location
	nextPage   int
}

func NewFakePageStream(fullHeight, pageWidth float64) *FakePageStream {
	return &FakePageStream{
		FullHeight: fullHeight,
		PageWidth:  pageWidth,
		locations:  map[int]layout.Location{},
		nextPage:   1,
	}
}

func (f *FakePageStream) EnsureLocation(locationIdx int) layout.Location {
	if loc, ok := f.locations[locationIdx]; ok {
		return loc
	}
	loc := layout.Location{
		PageIndex:   f.nextPage,
		LayerIndex:  0,
		X:           0,
		Y:           f.FullHeight,
		ScaleFactor: 1,
	}
	f.nextPage++
	f.locations[locationIdx] = loc
	return loc
}

// PagesRealized reports how many distinct location indices have been
// realized so far.
func (f *FakePageStream) PagesRealized() int {
	return len(f.locations)
}
