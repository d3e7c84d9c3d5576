package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/jung-kurt/gofpdf"

	"docrender/internal/core/engine/layout"
)

var rasterSeq int

// GGRasterizer implements elements.PixelSource over a decoded raster image,
// using fogleman/gg purely to re-encode it to PNG once so gofpdf can
// register it regardless of the source format.
type GGRasterizer struct {
	name       string
	width      int
	height     int
	registered bool
	png        []byte
}

func newGGRasterizer(path string, data []byte) (*GGRasterizer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	canvas := gg.NewContextForImage(img)
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas.Image()); err != nil {
		return nil, fmt.Errorf("re-encode %s: %w", path, err)
	}

	rasterSeq++
	b := img.Bounds()
	return &GGRasterizer{
		name:   fmt.Sprintf("docrender-img-%d", rasterSeq),
		width:  b.Dx(),
		height: b.Dy(),
		png:    buf.Bytes(),
	}, nil
}

// PixelDimensions implements elements.PixelSource.
func (g *GGRasterizer) PixelDimensions() (width, height int) {
	return g.width, g.height
}

// Draw implements elements.PixelSource. y is the image's bottom edge in
// engine coordinates, per elements.Image's Draw callback.
func (g *GGRasterizer) Draw(ctx layout.DrawCtx, x, y, w, h float64) {
	stream, ok := ctx.Pdf.(*entryStream)
	if !ok {
		return
	}
	if !g.registered {
		stream.doc.pdf.RegisterImageOptionsReader(g.name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(g.png))
		g.registered = true
	}
	pdfY := stream.doc.currentPageHeight - y - h
	stream.doc.pdf.Image(g.name, x, pdfY, w, h, false, "", 0, "")
}
