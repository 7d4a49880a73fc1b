package tools

import (
	"unicode/utf8"

	"techdraw/internal/editor"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

// TextBounds approximates the box a text element occupies: 0.6×fontSize per
// character wide and one fontSize tall, anchored at its top-left point.
func TextBounds(el drawdoc.Element) geom.Rect {
	if len(el.Points) == 0 {
		return geom.Rect{}
	}
	size := el.FontSize
	if size <= 0 {
		size = 16
	}
	n := utf8.RuneCountInString(el.Text)
	return geom.NewRect(el.Points[0].X, el.Points[0].Y, GlyphWidthFactor*size*float64(n), size)
}

// Bounds returns the axis-aligned extent of el.
func Bounds(el drawdoc.Element) geom.Rect {
	if el.Type == drawdoc.TypeText {
		return TextBounds(el)
	}
	return geom.BoundingBox(el.Points)
}

// Hit reports whether p lies within tol of el's geometry.
func Hit(el drawdoc.Element, p geom.Point, tol float64) bool {
	switch el.Type {
	case drawdoc.TypeText:
		return TextBounds(el).Inset(-tol).Contains(p)
	case drawdoc.TypeLine, drawdoc.TypeAngle, drawdoc.TypeFreehand:
		pts := el.Points
		if len(pts) == 1 {
			return p.Distance(pts[0]) <= tol
		}
		for i := 1; i < len(pts); i++ {
			if geom.DistancePointToSegment(p, pts[i-1], pts[i]) <= tol {
				return true
			}
		}
	}
	return false
}

// HitTop returns the topmost editable element under p.
func HitTop(s editor.State, p geom.Point, tol float64) (string, bool) {
	for i := len(s.Elements) - 1; i >= 0; i-- {
		el := s.Elements[i]
		if s.Editable(el) && Hit(el, p, tol) {
			return el.ID, true
		}
	}
	return "", false
}

// HitAll returns every editable element under p in z-order.
func HitAll(s editor.State, p geom.Point, tol float64) []string {
	var ids []string
	for _, el := range s.Elements {
		if s.Editable(el) && Hit(el, p, tol) {
			ids = append(ids, el.ID)
		}
	}
	return ids
}
