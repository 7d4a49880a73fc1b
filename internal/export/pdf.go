package export

import (
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"techdraw/internal/render"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

// pdfPainter draws one drawing page onto the current PDF page. Document
// pixels are shifted by the page origin and converted to millimetres.
type pdfPainter struct {
	pdf       *gofpdf.Fpdf
	origin    geom.Point
	translate func(string) string
}

func (p pdfPainter) mm(pt geom.Point) (float64, float64) {
	d := pt.Sub(p.origin)
	return d.X / geom.PxPerMM, d.Y / geom.PxPerMM
}

func (p pdfPainter) trace(path render.Path) {
	for _, seg := range path {
		switch seg.Op {
		case render.OpMove:
			p.pdf.MoveTo(p.mm(seg.Pts[0]))
		case render.OpLine:
			p.pdf.LineTo(p.mm(seg.Pts[0]))
		case render.OpQuad:
			cx, cy := p.mm(seg.Pts[0])
			x, y := p.mm(seg.Pts[1])
			p.pdf.CurveTo(cx, cy, x, y)
		case render.OpClose:
			p.pdf.ClosePath()
		}
	}
}

func (p pdfPainter) alpha(c color.RGBA) {
	p.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (p pdfPainter) Stroke(path render.Path, c color.RGBA, width float64) {
	if len(path) == 0 {
		return
	}
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.alpha(c)
	p.pdf.SetLineWidth(width / geom.PxPerMM)
	p.trace(path)
	p.pdf.DrawPath("D")
}

func (p pdfPainter) Fill(path render.Path, c color.RGBA) {
	if len(path) == 0 {
		return
	}
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.alpha(c)
	p.trace(path)
	p.pdf.DrawPath("F")
}

func (p pdfPainter) Text(s string, at geom.Point, size float64, c color.RGBA) {
	if s == "" {
		return
	}
	// px at 96 DPI to points.
	p.pdf.SetFont("Helvetica", "", size*0.75)
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	p.alpha(c)
	x, y := p.mm(at.Add(geom.Pt(0, size*0.8)))
	p.pdf.Text(x, y, p.translate(s))
}

// PDF writes one A4 page per drawing page. Each element lands on the page
// holding its first point.
func PDF(w io.Writer, d Drawing) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	byPage := make([][]drawdoc.Element, d.Pages+1)
	for _, el := range d.Visible() {
		n := d.PageOf(el)
		byPage[n] = append(byPage[n], el)
	}
	for n := 1; n <= d.Pages; n++ {
		pdf.AddPage()
		p := pdfPainter{pdf: pdf, origin: d.PageBounds(n).TopLeft(), translate: translate}
		for _, el := range byPage[n] {
			render.PaintElement(p, el)
		}
	}
	return pdf.Output(w)
}
