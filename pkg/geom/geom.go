// Package geom provides the point and segment math used by the drawing engine.
package geom

import "math"

// PxPerMM is the number of document pixels per millimetre (96 DPI).
const PxPerMM = 3.779527559

// Point is a document-space coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Dot returns the dot product of p and other treated as vectors.
func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Midpoint returns the point halfway between p and other.
func (p Point) Midpoint(other Point) Point {
	return Point{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// DistancePointToSegment returns the distance from p to the segment a-b.
// A degenerate segment (a == b) is treated as a single point.
func DistancePointToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Scale(t)))
}

// AngleBetween returns the sweep from the ray center->from to the ray
// center->to, normalized into [0, 2π). The sweep follows increasing atan2,
// which in Y-down screen space is visually clockwise.
func AngleBetween(center, from, to Point) float64 {
	a := math.Atan2(to.Y-center.Y, to.X-center.X) - math.Atan2(from.Y-center.Y, from.X-center.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// Direction returns the atan2 heading of the ray from center to p.
func Direction(center, p Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Snap rounds p to the nearest multiple of cell on both axes.
func Snap(p Point, cell float64) Point {
	if cell <= 0 {
		return p
	}
	return Point{X: math.Round(p.X/cell) * cell, Y: math.Round(p.Y/cell) * cell}
}

// ArcPoints samples an arc of the given radius around center, starting at
// heading start and sweeping by sweep radians. The result always contains
// at least two points.
func ArcPoints(center Point, radius, start, sweep float64) []Point {
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 24)))
	if n < 1 {
		n = 1
	}
	out := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := start + sweep*float64(i)/float64(n)
		out = append(out, Point{X: center.X + radius*math.Cos(t), Y: center.Y + radius*math.Sin(t)})
	}
	return out
}
