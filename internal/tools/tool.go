// Package tools turns pointer and keyboard input into editor actions. Each
// drawing tool is a small state machine; the Controller routes events to the
// variant selected by the current tool.
package tools

import (
	"techdraw/internal/editor"
	"techdraw/internal/platform"
	"techdraw/internal/viewport"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

const (
	// SelectThreshold is the hit distance for the select tool.
	SelectThreshold = 7.0
	// FreehandSpacing is the minimum distance between recorded samples.
	FreehandSpacing = 2.0
	// GlyphWidthFactor approximates the advance of one character.
	GlyphWidthFactor = 0.6
)

// Host is what a tool reads from and dispatches to. Tools never hold on to
// a State between calls; they read the current one from the host.
type Host interface {
	State() editor.State
	Viewport() viewport.Viewport
	Dispatch(actions ...editor.Action)
}

// Pointer is one pointer sample already mapped into document space.
type Pointer struct {
	// Doc is the document point, snapped when snapping applies.
	Doc geom.Point
	// Raw is the unsnapped document point.
	Raw geom.Point
	// Page is the page under Doc, or 0.
	Page int
	Mods platform.Modifiers
}

type Tool interface {
	PointerDown(h Host, p Pointer)
	PointerMove(h Host, p Pointer)
	PointerUp(h Host, p Pointer)
	// Cancel abandons any in-progress gesture.
	Cancel(h Host)
	// Draft is the element under construction, or nil.
	Draft() *drawdoc.Element
}

// Indicator is a transient cursor decoration, e.g. the eraser footprint.
type Indicator struct {
	Center geom.Point
	Radius float64
}

// canCreate reports whether new elements may be placed on the current layer.
func canCreate(s editor.State) bool {
	l, ok := s.Layer(s.CurrentLayerID)
	return ok && !l.Locked
}

// newElement builds an element of type t on the current layer using the
// tool's configured style.
func newElement(s editor.State, tool editor.Tool, t drawdoc.ElementType, points ...geom.Point) *drawdoc.Element {
	st := s.ToolSettings.Stroke(tool)
	return &drawdoc.Element{
		ID:      drawdoc.NewID(),
		Type:    t,
		Points:  points,
		Style:   drawdoc.Style{StrokeColor: st.Color, StrokeWidth: st.Width},
		LayerID: s.CurrentLayerID,
	}
}
