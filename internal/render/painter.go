package render

import (
	"image/color"
	"math"

	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

type SegmentOp int

const (
	OpMove SegmentOp = iota
	OpLine
	OpQuad
	OpClose
)

// Segment is one path command. OpQuad uses Pts[0] as the control point and
// Pts[1] as the end point; the other ops use Pts[0] only.
type Segment struct {
	Op  SegmentOp
	Pts [2]geom.Point
}

// Path is a sequence of commands in document space.
type Path []Segment

func (p *Path) MoveTo(pt geom.Point) { *p = append(*p, Segment{Op: OpMove, Pts: [2]geom.Point{pt}}) }

func (p *Path) LineTo(pt geom.Point) { *p = append(*p, Segment{Op: OpLine, Pts: [2]geom.Point{pt}}) }

func (p *Path) QuadTo(ctrl, end geom.Point) {
	*p = append(*p, Segment{Op: OpQuad, Pts: [2]geom.Point{ctrl, end}})
}

func (p *Path) Close() { *p = append(*p, Segment{Op: OpClose}) }

// Polyline appends an open polyline through pts as a new subpath.
func (p *Path) Polyline(pts ...geom.Point) {
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt)
			continue
		}
		p.LineTo(pt)
	}
}

func RectPath(r geom.Rect) Path {
	var p Path
	p.Polyline(r.TopLeft(), geom.Pt(r.X+r.Width, r.Y), r.BottomRight(), geom.Pt(r.X, r.Y+r.Height))
	p.Close()
	return p
}

func CirclePath(center geom.Point, radius float64) Path {
	var p Path
	p.Polyline(geom.ArcPoints(center, radius, 0, 2*math.Pi)...)
	p.Close()
	return p
}

// SmoothPath renders samples as quadratic curves through the midpoints of
// consecutive samples, using each sample as the control point.
func SmoothPath(pts []geom.Point) Path {
	var p Path
	switch len(pts) {
	case 0:
		return p
	case 1, 2:
		p.Polyline(pts...)
		return p
	}
	p.MoveTo(pts[0])
	for i := 1; i < len(pts)-1; i++ {
		p.QuadTo(pts[i], pts[i].Midpoint(pts[i+1]))
	}
	p.LineTo(pts[len(pts)-1])
	return p
}

// AngleArc returns the heading, sweep and radius of the arc drawn at an
// angle element's vertex.
func AngleArc(el drawdoc.Element) (start, sweep, radius float64) {
	base, vertex, end := el.Points[0], el.Points[1], el.Points[2]
	start = geom.Direction(vertex, base)
	sweep = geom.AngleBetween(vertex, base, end)
	radius = drawdoc.ArcRadius(vertex, base, end)
	if m := el.Measurements; m != nil {
		if m.Angle != nil {
			sweep = *m.Angle
		}
		if m.Radius != nil && *m.Radius > 0 {
			radius = *m.Radius
		}
	}
	return start, sweep, radius
}

// ElementPath is the stroke geometry of a non-text element.
func ElementPath(el drawdoc.Element) Path {
	var p Path
	switch el.Type {
	case drawdoc.TypeLine:
		p.Polyline(el.Points...)
	case drawdoc.TypeAngle:
		if len(el.Points) != 3 {
			return p
		}
		p.Polyline(el.Points...)
		start, sweep, radius := AngleArc(el)
		p.Polyline(geom.ArcPoints(el.Points[1], radius, start, sweep)...)
	case drawdoc.TypeFreehand:
		return SmoothPath(el.Points)
	}
	return p
}

// Painter is a drawing backend addressed in document coordinates. The
// raster canvas and the vector exporters implement it.
type Painter interface {
	Stroke(path Path, c color.RGBA, width float64)
	Fill(path Path, c color.RGBA)
	// Text draws s with its top-left corner at at.
	Text(s string, at geom.Point, size float64, c color.RGBA)
}

// PaintElement draws el the same way on every backend.
func PaintElement(p Painter, el drawdoc.Element) {
	if len(el.Points) == 0 {
		return
	}
	c := drawdoc.ParseColor(el.Style.StrokeColor)
	width := el.Style.StrokeWidth
	if width <= 0 {
		width = 1
	}
	switch el.Type {
	case drawdoc.TypeText:
		size := el.FontSize
		if size <= 0 {
			size = 16
		}
		p.Text(el.Text, el.Points[0], size, c)
	case drawdoc.TypeFreehand:
		if len(el.Points) == 1 {
			p.Fill(CirclePath(el.Points[0], width/2), c)
			return
		}
		p.Stroke(ElementPath(el), c, width)
	default:
		p.Stroke(ElementPath(el), c, width)
	}
}
