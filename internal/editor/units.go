package editor

import (
	"fmt"

	"techdraw/pkg/geom"
)

type Units string

const (
	UnitsMM Units = "mm"
	UnitsCM Units = "cm"
	UnitsIn Units = "in"
	UnitsPx Units = "px"
)

func (u Units) Valid() bool {
	switch u {
	case UnitsMM, UnitsCM, UnitsIn, UnitsPx:
		return true
	}
	return false
}

// FromPixels converts a document-pixel length into u.
func (u Units) FromPixels(px float64) float64 {
	switch u {
	case UnitsCM:
		return px / geom.PxPerMM / 10
	case UnitsIn:
		return px / geom.PxPerMM / 25.4
	case UnitsPx:
		return px
	default:
		return px / geom.PxPerMM
	}
}

// FormatLength renders a document-pixel length for a measurement label.
func (u Units) FormatLength(px float64) string {
	if !u.Valid() {
		u = UnitsMM
	}
	v := u.FromPixels(px)
	switch u {
	case UnitsPx:
		return fmt.Sprintf("%.0f %s", v, u)
	case UnitsIn:
		return fmt.Sprintf("%.2f %s", v, u)
	default:
		return fmt.Sprintf("%.1f %s", v, u)
	}
}
