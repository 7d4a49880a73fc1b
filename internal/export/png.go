package export

import (
	"image"
	"image/color"
	"io"
	"math"

	"techdraw/internal/render"
	"techdraw/pkg/geom"
)

var (
	paperBackground = color.RGBA{0xE2, 0xE7, 0xEF, 0xFF}
	paper           = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// Image rasterizes the drawing at one device pixel per document pixel.
func Image(d Drawing, fonts *render.Fonts) *image.RGBA {
	fb, _ := raster(d, fonts)
	return fb.Image()
}

func PNG(w io.Writer, d Drawing, fonts *render.Fonts) error {
	_, c := raster(d, fonts)
	return c.EncodePNG(w)
}

func raster(d Drawing, fonts *render.Fonts) (*render.FrameBuffer, *render.Canvas) {
	w, h := d.Size()
	fb := render.NewFrameBuffer(int(math.Ceil(w)), int(math.Ceil(h)))
	c := render.NewCanvas(fb.Image(), fonts)
	c.SetTransform(geom.Point{}, 1)
	c.Clear(paperBackground)
	for n := 1; n <= d.Pages; n++ {
		c.Fill(render.RectPath(d.PageBounds(n)), paper)
	}
	for _, el := range d.Visible() {
		render.PaintElement(c, el)
	}
	return fb, c
}
