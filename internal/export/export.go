// Package export writes a drawing at full document scale as PNG, SVG or
// PDF. Only elements on visible layers are written and zoom and pan never
// affect the output.
package export

import (
	"math"

	"techdraw/internal/editor"
	"techdraw/internal/viewport"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

// Drawing is the read-only slice of editor state the exporters iterate.
type Drawing struct {
	Elements   []drawdoc.Element
	Layers     []editor.Layer
	Pages      int
	PageWidth  float64
	PageHeight float64
}

func FromState(s editor.State) Drawing {
	return Drawing{
		Elements:   s.Elements,
		Layers:     s.Layers,
		Pages:      max(s.TotalPages, 1),
		PageWidth:  s.PageWidth,
		PageHeight: s.PageHeight,
	}
}

func (d Drawing) layout() viewport.Viewport {
	return viewport.Viewport{Zoom: 1, DPR: 1, TotalPages: d.Pages, PageWidth: d.PageWidth, PageHeight: d.PageHeight}
}

// Size is the full page stack including the outer padding.
func (d Drawing) Size() (w, h float64) {
	return d.layout().ContentSize()
}

func (d Drawing) PageBounds(n int) geom.Rect {
	return d.layout().PageBounds(n)
}

// Visible returns the elements whose layer is visible, in z-order.
func (d Drawing) Visible() []drawdoc.Element {
	hidden := map[string]bool{}
	for _, l := range d.Layers {
		if !l.Visible {
			hidden[l.ID] = true
		}
	}
	out := make([]drawdoc.Element, 0, len(d.Elements))
	for _, el := range d.Elements {
		if !hidden[el.LayerID] {
			out = append(out, el)
		}
	}
	return out
}

// PageOf returns the page an element belongs to, taken from its first
// point. Points in a gap go to the nearest page above.
func (d Drawing) PageOf(el drawdoc.Element) int {
	if len(el.Points) == 0 {
		return 1
	}
	y := el.Points[0].Y - viewport.Padding
	n := int(math.Floor(y/(d.PageHeight+viewport.PageGap))) + 1
	return max(1, min(n, d.Pages))
}
