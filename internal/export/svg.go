package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"techdraw/internal/render"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

const svgFontFamily = "Go, Helvetica, Arial, sans-serif"

// svgPainter writes paths as <path> elements with document coordinates.
type svgPainter struct {
	canvas *svg.SVG
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// pathData converts a path to SVG path data.
func pathData(p render.Path) string {
	var b strings.Builder
	for _, seg := range p {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		a, c := seg.Pts[0], seg.Pts[1]
		switch seg.Op {
		case render.OpMove:
			b.WriteString("M" + num(a.X) + " " + num(a.Y))
		case render.OpLine:
			b.WriteString("L" + num(a.X) + " " + num(a.Y))
		case render.OpQuad:
			b.WriteString("Q" + num(a.X) + " " + num(a.Y) + " " + num(c.X) + " " + num(c.Y))
		case render.OpClose:
			b.WriteString("Z")
		}
	}
	return b.String()
}

func paint(c color.RGBA) string {
	s := drawdoc.FormatColor(c)
	if c.A < 0xFF {
		s += fmt.Sprintf(";opacity:%s", num(float64(c.A)/255))
	}
	return s
}

func (p svgPainter) Stroke(path render.Path, c color.RGBA, width float64) {
	if len(path) == 0 {
		return
	}
	p.canvas.Path(pathData(path), fmt.Sprintf(
		"fill:none;stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round",
		paint(c), num(width)))
}

func (p svgPainter) Fill(path render.Path, c color.RGBA) {
	if len(path) == 0 {
		return
	}
	p.canvas.Path(pathData(path), "stroke:none;fill:"+paint(c))
}

func (p svgPainter) Text(s string, at geom.Point, size float64, c color.RGBA) {
	if s == "" {
		return
	}
	p.canvas.Text(int(math.Round(at.X)), int(math.Round(at.Y+size)), s, fmt.Sprintf(
		"font-family:%s;font-size:%spx;fill:%s", svgFontFamily, num(size), paint(c)))
}

// SVG writes the page stack and every visible element as one SVG document.
func SVG(w io.Writer, d Drawing) error {
	width, height := d.Size()
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(int(math.Ceil(width)), int(math.Ceil(height)))
	canvas.Rect(0, 0, int(math.Ceil(width)), int(math.Ceil(height)), "fill:"+paint(paperBackground))
	p := svgPainter{canvas: canvas}
	for n := 1; n <= d.Pages; n++ {
		p.Fill(render.RectPath(d.PageBounds(n)), paper)
	}
	for _, el := range d.Visible() {
		render.PaintElement(p, el)
	}
	canvas.End()
	return ew.err
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}
