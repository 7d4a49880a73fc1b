// Package editor holds the canonical drawing state and the single
// transition function that mutates it.
package editor

import (
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

type Tool string

const (
	ToolSelect   Tool = "select"
	ToolLine     Tool = "line"
	ToolAngle    Tool = "angle"
	ToolFreehand Tool = "freehand"
	ToolEraser   Tool = "eraser"
	ToolText     Tool = "text"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolLine, ToolAngle, ToolFreehand, ToolEraser, ToolText}

func (t Tool) Valid() bool {
	for _, v := range Tools {
		if v == t {
			return true
		}
	}
	return false
}

const (
	MaxZoom           = 3.0
	MinZoomFloor      = 0.1
	DefaultMinZoom    = 0.6
	DefaultMaxHistory = 200
	DefaultGridSize   = 5
	MinGridSize       = 1
	MaxGridSize       = 50
)

// A4 portrait in document pixels.
var (
	PageWidth  = 210 * geom.PxPerMM
	PageHeight = 297 * geom.PxPerMM
)

type Layer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
	Color   string `json:"color"`
}

type StrokeSettings struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type TextSettings struct {
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color"`
}

type EraserSettings struct {
	Width float64 `json:"width"`
}

type ToolSettings struct {
	Line     StrokeSettings `json:"line"`
	Angle    StrokeSettings `json:"angle"`
	Freehand StrokeSettings `json:"freehand"`
	Text     TextSettings   `json:"text"`
	Eraser   EraserSettings `json:"eraser"`
}

func DefaultToolSettings() ToolSettings {
	return ToolSettings{
		Line:     StrokeSettings{Color: "#000000", Width: 2},
		Angle:    StrokeSettings{Color: "#1d4ed8", Width: 2},
		Freehand: StrokeSettings{Color: "#000000", Width: 2},
		Text:     TextSettings{FontSize: 16, Color: "#000000"},
		Eraser:   EraserSettings{Width: 20},
	}
}

// Stroke returns the stroke style a drawing tool commits with.
func (ts ToolSettings) Stroke(t Tool) StrokeSettings {
	switch t {
	case ToolAngle:
		return ts.Angle
	case ToolFreehand:
		return ts.Freehand
	case ToolEraser:
		return StrokeSettings{Width: ts.Eraser.Width}
	case ToolText:
		return StrokeSettings{Color: ts.Text.Color, Width: 1}
	default:
		return ts.Line
	}
}

func DefaultLayers() []Layer {
	return []Layer{
		{ID: "layer-1", Name: "Layer 1", Visible: true, Color: "#1f2937"},
		{ID: "layer-2", Name: "Layer 2", Visible: true, Color: "#2563eb"},
		{ID: "layer-3", Name: "Layer 3", Visible: true, Color: "#dc2626"},
	}
}

// TextEdit is an open inline text entry that has not been committed yet.
type TextEdit struct {
	Anchor geom.Point
	Page   int
	Buffer string
}

// State is the aggregate root. Values returned by Reduce share slices with
// their predecessor, so callers treat every slice as read-only.
type State struct {
	Tool           Tool
	Elements       []drawdoc.Element
	Selection      []string
	Layers         []Layer
	CurrentLayerID string

	GridSize    float64
	GridVisible bool
	SnapToGrid  bool
	Units       Units

	Zoom    float64
	MinZoom float64
	Pan     geom.Point

	CurrentPage int
	TotalPages  int
	PageWidth   float64
	PageHeight  float64

	History      [][]drawdoc.Element
	HistoryIndex int
	MaxHistory   int

	ToolSettings ToolSettings
	TextEdit     *TextEdit
}

// NewState returns the start-of-session state: one page, the default
// layers and a single empty history entry.
func NewState() State {
	layers := DefaultLayers()
	return State{
		Tool:           ToolSelect,
		Elements:       []drawdoc.Element{},
		Layers:         layers,
		CurrentLayerID: layers[0].ID,
		GridSize:       DefaultGridSize,
		GridVisible:    true,
		SnapToGrid:     true,
		Units:          UnitsMM,
		Zoom:           1,
		MinZoom:        DefaultMinZoom,
		CurrentPage:    1,
		TotalPages:     1,
		PageWidth:      PageWidth,
		PageHeight:     PageHeight,
		History:        [][]drawdoc.Element{{}},
		MaxHistory:     DefaultMaxHistory,
		ToolSettings:   DefaultToolSettings(),
	}
}

func (s State) Layer(id string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

func (s State) CurrentLayer() Layer {
	if l, ok := s.Layer(s.CurrentLayerID); ok {
		return l
	}
	return s.Layers[0]
}

// LayerVisible reports whether elements on layer id are drawn. Unknown
// layers count as visible so nothing silently disappears.
func (s State) LayerVisible(id string) bool {
	l, ok := s.Layer(id)
	return !ok || l.Visible
}

// Editable reports whether the element's layer is visible and unlocked.
func (s State) Editable(el drawdoc.Element) bool {
	l, ok := s.Layer(el.LayerID)
	if !ok {
		return true
	}
	return l.Visible && !l.Locked
}

func (s State) Element(id string) (drawdoc.Element, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Elements[i], true
	}
	return drawdoc.Element{}, false
}

func (s State) IsSelected(id string) bool {
	for _, v := range s.Selection {
		if v == id {
			return true
		}
	}
	return false
}

// SelectedElements returns the selected elements in z-order.
func (s State) SelectedElements() []drawdoc.Element {
	if len(s.Selection) == 0 {
		return nil
	}
	var out []drawdoc.Element
	for _, el := range s.Elements {
		if s.IsSelected(el.ID) {
			out = append(out, el)
		}
	}
	return out
}

func (s State) CanUndo() bool { return s.HistoryIndex > 0 }

func (s State) CanRedo() bool { return s.HistoryIndex < len(s.History)-1 }

func (s State) indexOf(id string) int {
	for i, el := range s.Elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}
