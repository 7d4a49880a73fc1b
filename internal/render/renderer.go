package render

import (
	"fmt"
	"image/color"
	"math"
	"unicode/utf8"

	"techdraw/internal/editor"
	"techdraw/internal/tools"
	"techdraw/internal/viewport"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

// Style holds the colors the renderer uses around the drawing itself.
type Style struct {
	Background color.RGBA
	Page       color.RGBA
	PageBorder color.RGBA
	Shadow     color.RGBA
	GridMinor  color.RGBA
	GridMajor  color.RGBA
	Accent     color.RGBA
	Selection  color.RGBA
	Label      color.RGBA
	LabelMuted color.RGBA
	Indicator  color.RGBA
}

func DefaultStyle() Style {
	return Style{
		Background: color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Page:       color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		PageBorder: color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Shadow:     color.RGBA{0xC8, 0xCF, 0xDB, 0xFF},
		GridMinor:  color.RGBA{0xEE, 0xF1, 0xF5, 0xFF},
		GridMajor:  color.RGBA{0xD9, 0xDF, 0xE8, 0xFF},
		Accent:     color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Selection:  color.RGBA{0x2B, 0x57, 0x9A, 0x55},
		Label:      color.RGBA{0x1F, 0x29, 0x37, 0xFF},
		LabelMuted: color.RGBA{0x6B, 0x72, 0x80, 0xFF},
		Indicator:  color.RGBA{0x6B, 0x72, 0x80, 0xC0},
	}
}

// Screen-space sizes, in logical pixels.
const (
	labelSize     = 12.0
	pageLabelSize = 11.0
	handleSize    = 6.0
	highlightPad  = 6.0
	shadowOffset  = 3.0
	minGridPixels = 4.0
	majorEvery    = 5
)

// Frame is everything one render pass reads. Draft and Indicator come from
// the tool controller and are never part of State.
type Frame struct {
	State     editor.State
	View      viewport.Viewport
	Draft     *drawdoc.Element
	Indicator *tools.Indicator
}

type Renderer struct {
	Style Style
	Fonts *Fonts
}

func NewRenderer(style Style, fonts *Fonts) *Renderer {
	return &Renderer{Style: style, Fonts: fonts}
}

// Render draws f into fb, which must be sized in device pixels.
func (r *Renderer) Render(fb *FrameBuffer, f Frame) {
	c := NewCanvas(fb.Image(), r.Fonts)
	c.Clear(r.Style.Background)
	c.SetTransform(f.View.Pan, f.View.DeviceScale())
	px := 1.0 // one logical pixel in document units
	if f.View.Zoom > 0 {
		px = 1 / f.View.Zoom
	}

	visible := f.View.VisibleRect()
	for n := 1; n <= f.View.TotalPages; n++ {
		b := f.View.PageBounds(n)
		if !b.Inset(-viewport.PageGap / 2 * px).Intersects(visible) {
			continue
		}
		r.drawPage(c, f, n, b, px)
	}

	s := f.State
	for _, el := range s.Elements {
		if !s.LayerVisible(el.LayerID) {
			continue
		}
		if s.IsSelected(el.ID) {
			r.drawHighlight(c, el, px)
		}
		PaintElement(c, el)
		r.drawMeasurements(c, el, s.Units, px)
	}
	for _, el := range s.SelectedElements() {
		if s.LayerVisible(el.LayerID) {
			r.drawHandles(c, el, px)
		}
	}

	if f.Draft != nil {
		PaintElement(c, *f.Draft)
		r.drawMeasurements(c, *f.Draft, s.Units, px)
	}
	if s.TextEdit != nil {
		r.drawTextEdit(c, s, px)
	}
	if f.Indicator != nil {
		c.Stroke(CirclePath(f.Indicator.Center, f.Indicator.Radius), r.Style.Indicator, px)
	}
}

func (r *Renderer) drawPage(c *Canvas, f Frame, n int, b geom.Rect, px float64) {
	shadow := b
	shadow.X += shadowOffset * px
	shadow.Y += shadowOffset * px
	c.Fill(RectPath(shadow), r.Style.Shadow)
	c.Fill(RectPath(b), r.Style.Page)
	if f.State.GridVisible {
		r.drawGrid(c, b, f.State.GridSize, px)
	}
	c.Stroke(RectPath(b), r.Style.PageBorder, px)

	label := fmt.Sprintf("%d / %d", n, f.View.TotalPages)
	size := pageLabelSize * px
	w := c.TextWidth(label, size)
	c.Text(label, geom.Pt(b.X+b.Width-w, b.Y+b.Height+size*0.6), size, r.Style.LabelMuted)
}

func (r *Renderer) drawGrid(c *Canvas, b geom.Rect, gridMM float64, px float64) {
	step := gridMM * geom.PxPerMM
	if step <= 0 {
		return
	}
	minor := step/px >= minGridPixels
	var minorPath, majorPath Path
	for i := 1; float64(i)*step < b.Width; i++ {
		x := b.X + float64(i)*step
		if i%majorEvery == 0 {
			majorPath.Polyline(geom.Pt(x, b.Y), geom.Pt(x, b.Y+b.Height))
		} else if minor {
			minorPath.Polyline(geom.Pt(x, b.Y), geom.Pt(x, b.Y+b.Height))
		}
	}
	for i := 1; float64(i)*step < b.Height; i++ {
		y := b.Y + float64(i)*step
		if i%majorEvery == 0 {
			majorPath.Polyline(geom.Pt(b.X, y), geom.Pt(b.X+b.Width, y))
		} else if minor {
			minorPath.Polyline(geom.Pt(b.X, y), geom.Pt(b.X+b.Width, y))
		}
	}
	c.Stroke(minorPath, r.Style.GridMinor, px)
	c.Stroke(majorPath, r.Style.GridMajor, px)
}

func (r *Renderer) drawHighlight(c *Canvas, el drawdoc.Element, px float64) {
	if el.Type == drawdoc.TypeText {
		c.Fill(RectPath(tools.TextBounds(el).Inset(-2*px)), r.Style.Selection)
		return
	}
	c.Stroke(ElementPath(el), r.Style.Selection, el.Style.StrokeWidth+highlightPad*px)
}

func (r *Renderer) drawHandles(c *Canvas, el drawdoc.Element, px float64) {
	pts := el.Points
	if len(pts) == 0 {
		return
	}
	switch el.Type {
	case drawdoc.TypeFreehand:
		pts = []geom.Point{pts[0], pts[len(pts)-1]}
	case drawdoc.TypeText:
		bb := tools.TextBounds(el)
		pts = []geom.Point{bb.TopLeft(), bb.BottomRight()}
	}
	half := handleSize * px / 2
	for _, p := range pts {
		box := geom.NewRect(p.X-half, p.Y-half, 2*half, 2*half)
		c.Fill(RectPath(box), r.Style.Page)
		c.Stroke(RectPath(box), r.Style.Accent, px)
	}
}

// drawMeasurements labels lines with their length and angles with the
// stored sweep plus its complement.
func (r *Renderer) drawMeasurements(c *Canvas, el drawdoc.Element, units editor.Units, px float64) {
	size := labelSize * px
	switch el.Type {
	case drawdoc.TypeLine:
		if len(el.Points) != 2 {
			return
		}
		length := el.Points[0].Distance(el.Points[1])
		if el.Measurements != nil && el.Measurements.Length != nil {
			length = *el.Measurements.Length
		}
		if length < 1 {
			return
		}
		label := units.FormatLength(length)
		mid := el.Points[0].Midpoint(el.Points[1])
		w := c.TextWidth(label, size)
		c.Text(label, geom.Pt(mid.X-w/2, mid.Y-size-4*px), size, r.Style.Label)

	case drawdoc.TypeAngle:
		if len(el.Points) != 3 || el.Points[0] == el.Points[1] {
			return
		}
		primary, complement := AngleLabels(el)
		start, sweep, radius := AngleArc(el)
		vertex := el.Points[1]
		at := func(heading float64, label string, col color.RGBA) {
			d := radius + size
			p := vertex.Add(geom.Pt(math.Cos(heading)*d, math.Sin(heading)*d))
			w := c.TextWidth(label, size)
			c.Text(label, geom.Pt(p.X-w/2, p.Y-size/2), size, col)
		}
		at(start+sweep/2, primary, r.Style.Label)
		at(start+sweep/2+math.Pi, complement, r.Style.LabelMuted)
	}
}

// AngleLabels formats the primary sweep and its 360° complement in degrees.
func AngleLabels(el drawdoc.Element) (primary, complement string) {
	_, sweep, _ := AngleArc(el)
	deg := geom.Degrees(sweep)
	return fmt.Sprintf("%.1f°", deg), fmt.Sprintf("%.1f°", 360-deg)
}

func (r *Renderer) drawTextEdit(c *Canvas, s editor.State, px float64) {
	edit := s.TextEdit
	size := s.ToolSettings.Text.FontSize
	if size <= 0 {
		size = 16
	}
	col := drawdoc.ParseColor(s.ToolSettings.Text.Color)
	n := utf8.RuneCountInString(edit.Buffer)
	w := c.TextWidth(edit.Buffer, size)
	box := geom.NewRect(edit.Anchor.X, edit.Anchor.Y, math.Max(w, tools.GlyphWidthFactor*size*float64(max(n, 1))), size)
	c.StrokeDashed(RectPath(box.Inset(-3*px)), r.Style.Accent, px, 4, 3)
	c.Text(edit.Buffer, edit.Anchor, size, col)
	var caret Path
	caret.Polyline(geom.Pt(edit.Anchor.X+w+px, box.Y), geom.Pt(edit.Anchor.X+w+px, box.Y+box.Height))
	c.Stroke(caret, r.Style.Accent, px)
}
