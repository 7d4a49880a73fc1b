// Package drawdoc defines the drawing element schema and its portable
// document format: a JSON array of elements, optionally wrapped in a
// compressed and/or encrypted envelope when written to disk.
package drawdoc

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"techdraw/pkg/geom"
)

type ElementType string

const (
	TypeLine     ElementType = "line"
	TypeAngle    ElementType = "angle"
	TypeFreehand ElementType = "freehand"
	TypeText     ElementType = "text"
)

// Valid reports whether t is one of the known element types.
func (t ElementType) Valid() bool {
	switch t {
	case TypeLine, TypeAngle, TypeFreehand, TypeText:
		return true
	}
	return false
}

type Style struct {
	StrokeColor string  `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   string  `json:"fillColor,omitempty"`
}

// Measurements holds values derived from an element's geometry at commit
// time. Length is in document pixels and Angle in radians (the primary
// sweep from baseline to end point).
type Measurements struct {
	Length *float64 `json:"length,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Angle  *float64 `json:"angle,omitempty"`
}

// Element is one committed annotation. The meaning of Points depends on
// Type: line {start, end}, angle {baseline, vertex, end}, freehand one or
// more samples, text {top-left anchor}.
type Element struct {
	ID           string        `json:"id"`
	Type         ElementType   `json:"type"`
	Points       []geom.Point  `json:"points"`
	Style        Style         `json:"style"`
	LayerID      string        `json:"layerId"`
	Text         string        `json:"text,omitempty"`
	FontSize     float64       `json:"fontSize,omitempty"`
	Measurements *Measurements `json:"measurements,omitempty"`
	Selected     bool          `json:"selected,omitempty"`
}

var (
	ErrNotArray          = errors.New("drawdoc: document root must be an array")
	ErrInvalidElement    = errors.New("drawdoc: invalid element")
	ErrInvalidShape      = errors.New("drawdoc: point count does not match element type")
	ErrUnsupportedVer    = errors.New("drawdoc: unsupported version")
	ErrPasswordRequired  = errors.New("drawdoc: password required")
	ErrInvalidPassword   = errors.New("drawdoc: invalid password")
	ErrInvalidSecureFile = errors.New("drawdoc: invalid secure file")
)

// NewID returns a fresh element or layer identifier.
func NewID() string {
	return uuid.NewString()
}

// Float returns a pointer to v, for filling Measurements.
func Float(v float64) *float64 {
	return &v
}

// CheckShape verifies the per-type point count invariant.
func CheckShape(el Element) error {
	n := len(el.Points)
	switch el.Type {
	case TypeLine:
		if n != 2 {
			return fmt.Errorf("%w: line has %d points", ErrInvalidShape, n)
		}
	case TypeAngle:
		if n != 3 {
			return fmt.Errorf("%w: angle has %d points", ErrInvalidShape, n)
		}
	case TypeFreehand:
		if n < 1 {
			return fmt.Errorf("%w: freehand has no points", ErrInvalidShape)
		}
	case TypeText:
		if n != 1 {
			return fmt.Errorf("%w: text has %d points", ErrInvalidShape, n)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidElement, el.Type)
	}
	return nil
}

// Clone returns a deep copy of el.
func (el Element) Clone() Element {
	out := el
	if el.Points != nil {
		out.Points = append([]geom.Point(nil), el.Points...)
	}
	if el.Measurements != nil {
		m := Measurements{}
		if el.Measurements.Length != nil {
			m.Length = Float(*el.Measurements.Length)
		}
		if el.Measurements.Radius != nil {
			m.Radius = Float(*el.Measurements.Radius)
		}
		if el.Measurements.Angle != nil {
			m.Angle = Float(*el.Measurements.Angle)
		}
		out.Measurements = &m
	}
	return out
}

// CloneElements deep-copies an element list. A nil list stays nil.
func CloneElements(in []Element) []Element {
	if in == nil {
		return nil
	}
	out := make([]Element, len(in))
	for i, el := range in {
		out[i] = el.Clone()
	}
	return out
}

// Translate returns a copy of el with every point moved by delta.
func (el Element) Translate(delta geom.Point) Element {
	out := el.Clone()
	for i := range out.Points {
		out.Points[i] = out.Points[i].Add(delta)
	}
	return out
}
