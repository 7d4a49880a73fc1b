package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"techdraw/pkg/geom"
)

// Canvas is the raster Painter. Points are mapped as (doc + pan) × scale
// by hand rather than through the gg matrix so stroke widths and glyph
// sizes scale with the zoom.
type Canvas struct {
	dc    *gg.Context
	fonts *Fonts
	pan   geom.Point
	scale float64
}

func NewCanvas(img *image.RGBA, fonts *Fonts) *Canvas {
	dc := gg.NewContextForRGBA(img)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	return &Canvas{dc: dc, fonts: fonts, scale: 1}
}

// SetTransform sets the document→device mapping.
func (c *Canvas) SetTransform(pan geom.Point, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	c.pan = pan
	c.scale = scale
}

func (c *Canvas) Scale() float64 { return c.scale }

// EncodePNG writes the canvas image as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

func (c *Canvas) Clear(col color.RGBA) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *Canvas) device(p geom.Point) (float64, float64) {
	d := p.Add(c.pan).Scale(c.scale)
	return d.X, d.Y
}

func (c *Canvas) trace(path Path) {
	c.dc.NewSubPath()
	for _, seg := range path {
		switch seg.Op {
		case OpMove:
			c.dc.MoveTo(c.device(seg.Pts[0]))
		case OpLine:
			c.dc.LineTo(c.device(seg.Pts[0]))
		case OpQuad:
			x1, y1 := c.device(seg.Pts[0])
			x2, y2 := c.device(seg.Pts[1])
			c.dc.QuadraticTo(x1, y1, x2, y2)
		case OpClose:
			c.dc.ClosePath()
		}
	}
}

func (c *Canvas) Stroke(path Path, col color.RGBA, width float64) {
	if len(path) == 0 {
		return
	}
	c.trace(path)
	c.dc.SetColor(col)
	c.dc.SetLineWidth(max(width*c.scale, 0.5))
	c.dc.Stroke()
}

// StrokeDashed strokes path with a dash pattern given in device pixels.
func (c *Canvas) StrokeDashed(path Path, col color.RGBA, width float64, dashes ...float64) {
	c.dc.SetDash(dashes...)
	c.Stroke(path, col, width)
	c.dc.SetDash()
}

func (c *Canvas) Fill(path Path, col color.RGBA) {
	if len(path) == 0 {
		return
	}
	c.trace(path)
	c.dc.SetColor(col)
	c.dc.Fill()
}

func (c *Canvas) Text(s string, at geom.Point, size float64, col color.RGBA) {
	if s == "" {
		return
	}
	c.dc.SetFontFace(c.fonts.Face(size * c.scale))
	c.dc.SetColor(col)
	x, y := c.device(at)
	c.dc.DrawStringAnchored(s, x, y, 0, 1)
}

// TextWidth measures s at size in document units.
func (c *Canvas) TextWidth(s string, size float64) float64 {
	c.dc.SetFontFace(c.fonts.Face(size * c.scale))
	w, _ := c.dc.MeasureString(s)
	return w / c.scale
}
