// Package viewport maps between document space (pages stacked vertically)
// and surface pixels, and keeps pan and zoom inside the content.
package viewport

import (
	"math"

	"techdraw/internal/editor"
	"techdraw/pkg/geom"
)

const (
	// PageGap is the vertical margin between consecutive pages.
	PageGap = 40.0
	// Padding surrounds the whole page stack.
	Padding = 40.0
	// MinZoomLimit is the smallest dynamic floor; a page never renders below 60%.
	MinZoomLimit = 0.6
)

// SnapCell is the fixed snapping granularity (1 mm).
var SnapCell = geom.PxPerMM

// Viewport is a snapshot of everything the transform depends on. Width and
// Height are the surface size in logical pixels; DPR scales logical to
// device pixels.
type Viewport struct {
	Width, Height float64
	DPR           float64

	Zoom       float64
	Pan        geom.Point
	TotalPages int
	PageWidth  float64
	PageHeight float64
}

// FromState builds the viewport for s on a surface of w×h logical pixels.
func FromState(s editor.State, w, h, dpr float64) Viewport {
	if dpr <= 0 {
		dpr = 1
	}
	return Viewport{
		Width:      w,
		Height:     h,
		DPR:        dpr,
		Zoom:       s.Zoom,
		Pan:        s.Pan,
		TotalPages: s.TotalPages,
		PageWidth:  s.PageWidth,
		PageHeight: s.PageHeight,
	}
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// PageBounds returns the document rectangle of page n (1-based).
func (v Viewport) PageBounds(n int) geom.Rect {
	y := Padding + float64(n-1)*(v.PageHeight+PageGap)
	return geom.NewRect(Padding, y, v.PageWidth, v.PageHeight)
}

// ContentSize is the size of the page stack including padding.
func (v Viewport) ContentSize() (w, h float64) {
	pages := v.TotalPages
	if pages < 1 {
		pages = 1
	}
	w = Padding*2 + v.PageWidth
	h = Padding*2 + float64(pages)*v.PageHeight + float64(pages-1)*PageGap
	return w, h
}

func (v Viewport) SurfaceToDocument(p geom.Point) geom.Point {
	return p.Scale(1 / v.zoom()).Sub(v.Pan)
}

func (v Viewport) DocumentToSurface(p geom.Point) geom.Point {
	return p.Add(v.Pan).Scale(v.zoom())
}

// DeviceScale is the factor from document units to device pixels.
func (v Viewport) DeviceScale() float64 {
	dpr := v.DPR
	if dpr <= 0 {
		dpr = 1
	}
	return v.zoom() * dpr
}

// DocumentToDevice maps a document point to device pixels:
// (doc + pan) × zoom × dpr.
func (v Viewport) DocumentToDevice(p geom.Point) geom.Point {
	return p.Add(v.Pan).Scale(v.DeviceScale())
}

// ClampPan keeps the content filling the surface on every axis where it is
// larger than the surface, and centers it on every axis where it fits.
func (v Viewport) ClampPan(pan geom.Point) geom.Point {
	cw, ch := v.ContentSize()
	z := v.zoom()
	return geom.Pt(
		clampAxis(pan.X, cw, v.Width/z),
		clampAxis(pan.Y, ch, v.Height/z),
	)
}

func clampAxis(pan, content, view float64) float64 {
	if content <= view {
		return (view - content) / 2
	}
	lo := -(content - view)
	if pan < lo {
		return lo
	}
	if pan > 0 {
		return 0
	}
	return pan
}

// MinZoom is the dynamic zoom floor for the current surface width.
func (v Viewport) MinZoom() float64 {
	cw, _ := v.ContentSize()
	if cw <= 0 {
		return 1
	}
	return math.Min(1, math.Max(MinZoomLimit, v.Width/cw))
}

// PageAt returns the page containing document point p, or 0.
func (v Viewport) PageAt(p geom.Point) int {
	for n := 1; n <= v.TotalPages; n++ {
		if v.PageBounds(n).Contains(p) {
			return n
		}
	}
	return 0
}

// ClipToPage clamps p into page n.
func (v Viewport) ClipToPage(p geom.Point, n int) geom.Point {
	if n < 1 || n > v.TotalPages {
		return p
	}
	return v.PageBounds(n).Clamp(p)
}

// VisibleRect is the document-space area currently on screen.
func (v Viewport) VisibleRect() geom.Rect {
	z := v.zoom()
	return geom.NewRect(-v.Pan.X, -v.Pan.Y, v.Width/z, v.Height/z)
}

// PageInView returns the page under the center of the surface, falling back
// to the nearest page by vertical position.
func (v Viewport) PageInView() int {
	if v.TotalPages < 1 {
		return 1
	}
	center := v.SurfaceToDocument(geom.Pt(v.Width/2, v.Height/2))
	n := int(math.Floor((center.Y-Padding+PageGap/2)/(v.PageHeight+PageGap))) + 1
	if n < 1 {
		return 1
	}
	if n > v.TotalPages {
		return v.TotalPages
	}
	return n
}

// ZoomAt changes zoom to z (clamped to [floor, MaxZoom]) while keeping the
// document point under screen fixed. It returns the new zoom and the
// clamped pan.
func (v Viewport) ZoomAt(screen geom.Point, z, floor float64) (float64, geom.Point) {
	if floor <= 0 {
		floor = v.MinZoom()
	}
	z = math.Max(floor, math.Min(editor.MaxZoom, z))
	anchor := v.SurfaceToDocument(screen)
	next := v
	next.Zoom = z
	pan := screen.Scale(1 / z).Sub(anchor)
	return z, next.ClampPan(pan)
}

// PageTopPan returns the clamped pan that brings the top of page n to the
// top edge of the surface.
func (v Viewport) PageTopPan(n int) geom.Point {
	if n < 1 {
		n = 1
	}
	if n > v.TotalPages {
		n = v.TotalPages
	}
	top := v.PageBounds(n).Y - PageGap/2
	return v.ClampPan(geom.Pt(v.Pan.X, -top))
}

// Snap rounds p to the 1 mm grid when enabled.
func Snap(p geom.Point, enabled bool) geom.Point {
	if !enabled {
		return p
	}
	return geom.Snap(p, SnapCell)
}

// Refit returns the actions that bring s in line with a w×h surface:
// a recomputed zoom floor, the zoom snapped up to it, and a clamped pan.
func Refit(s editor.State, w, h, dpr float64) []editor.Action {
	v := FromState(s, w, h, dpr)
	floor := math.Max(editor.MinZoomFloor, v.MinZoom())
	zoom := math.Min(editor.MaxZoom, math.Max(s.Zoom, floor))
	v.Zoom = zoom
	return []editor.Action{
		editor.SetMinZoom{MinZoom: floor},
		editor.SetZoom{Zoom: zoom},
		editor.SetPan{Pan: v.ClampPan(s.Pan)},
	}
}
