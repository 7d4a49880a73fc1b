package drawdoc

import (
	"math"

	"techdraw/pkg/geom"
)

const (
	minArcRadius = 12.0
	maxArcRadius = 40.0
)

// ArcRadius picks the radius of the arc drawn at an angle's vertex: a
// fraction of the shorter arm, kept readable at both extremes.
func ArcRadius(vertex, from, to geom.Point) float64 {
	arm := math.Min(vertex.Distance(from), vertex.Distance(to))
	return math.Max(minArcRadius, math.Min(maxArcRadius, arm*0.35))
}

// Measure derives the measurements for el from its points. Types without
// measurements return nil.
func Measure(el Element) *Measurements {
	switch el.Type {
	case TypeLine:
		if len(el.Points) != 2 {
			return nil
		}
		return &Measurements{Length: Float(el.Points[0].Distance(el.Points[1]))}
	case TypeAngle:
		if len(el.Points) != 3 {
			return nil
		}
		base, vertex, end := el.Points[0], el.Points[1], el.Points[2]
		return &Measurements{
			Angle:  Float(geom.AngleBetween(vertex, base, end)),
			Radius: Float(ArcRadius(vertex, base, end)),
		}
	}
	return nil
}
