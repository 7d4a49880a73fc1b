package editor

import (
	"math"

	"techdraw/pkg/drawdoc"
)

// Reduce applies a to s and returns the next state. It never mutates s;
// an action that cannot apply returns s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetTool:
		if !a.Tool.Valid() {
			return s
		}
		s.Tool = a.Tool
		s.Selection = nil
		s.TextEdit = nil
		return s

	case AddElement:
		if drawdoc.CheckShape(a.Element) != nil || a.Element.ID == "" {
			return s
		}
		el := s.adoptLayer(a.Element.Clone())
		el.Selected = false
		elements := make([]drawdoc.Element, 0, len(s.Elements)+1)
		elements = append(elements, s.Elements...)
		s.Elements = append(elements, el)
		return s.checkpoint()

	case UpdateElement:
		i := s.indexOf(a.ID)
		if i < 0 {
			return s
		}
		el := applyElementPatch(s.Elements[i], a.Patch)
		if drawdoc.CheckShape(el) != nil {
			return s
		}
		elements := append([]drawdoc.Element(nil), s.Elements...)
		elements[i] = el
		s.Elements = elements
		return s

	case DeleteElements:
		s.Elements = withoutIDs(s.Elements, a.IDs)
		s.Selection = nil
		return s.checkpoint()

	case RemoveElements:
		if len(a.IDs) == 0 {
			return s
		}
		s.Elements = withoutIDs(s.Elements, a.IDs)
		s.Selection = dropIDs(s.Selection, a.IDs)
		return s

	case ReplaceElements:
		elements := make([]drawdoc.Element, 0, len(a.Elements))
		for _, el := range a.Elements {
			if drawdoc.CheckShape(el) != nil {
				continue
			}
			el = s.adoptLayer(el.Clone())
			el.Selected = false
			elements = append(elements, el)
		}
		s.Elements = elements
		s.Selection = nil
		return s.checkpoint()

	case SelectElements:
		var sel []string
		for _, id := range a.IDs {
			if s.indexOf(id) >= 0 && !contains(sel, id) {
				sel = append(sel, id)
			}
		}
		s.Selection = sel
		return s

	case SaveState:
		return s.checkpoint()

	case Undo:
		if !s.CanUndo() {
			return s
		}
		s.HistoryIndex--
		s.Elements = drawdoc.CloneElements(s.History[s.HistoryIndex])
		s.Selection = nil
		return s

	case Redo:
		if !s.CanRedo() {
			return s
		}
		s.HistoryIndex++
		s.Elements = drawdoc.CloneElements(s.History[s.HistoryIndex])
		s.Selection = nil
		return s

	case AddLayer:
		if a.Layer.ID == "" {
			return s
		}
		if _, exists := s.Layer(a.Layer.ID); exists {
			return s
		}
		layers := make([]Layer, 0, len(s.Layers)+1)
		layers = append(layers, s.Layers...)
		s.Layers = append(layers, a.Layer)
		return s

	case UpdateLayer:
		layers := append([]Layer(nil), s.Layers...)
		for i := range layers {
			if layers[i].ID != a.ID {
				continue
			}
			p := a.Patch
			if p.Name != nil {
				layers[i].Name = *p.Name
			}
			if p.Visible != nil {
				layers[i].Visible = *p.Visible
			}
			if p.Locked != nil {
				layers[i].Locked = *p.Locked
			}
			if p.Color != nil {
				layers[i].Color = *p.Color
			}
			s.Layers = layers
			return s
		}
		return s

	case DeleteLayer:
		if len(s.Layers) <= 1 {
			return s
		}
		if _, ok := s.Layer(a.ID); !ok {
			return s
		}
		layers := make([]Layer, 0, len(s.Layers)-1)
		for _, l := range s.Layers {
			if l.ID != a.ID {
				layers = append(layers, l)
			}
		}
		var removed []string
		elements := make([]drawdoc.Element, 0, len(s.Elements))
		for _, el := range s.Elements {
			if el.LayerID == a.ID {
				removed = append(removed, el.ID)
				continue
			}
			elements = append(elements, el)
		}
		s.Layers = layers
		s.Elements = elements
		s.Selection = dropIDs(s.Selection, removed)
		if s.CurrentLayerID == a.ID {
			s.CurrentLayerID = layers[0].ID
		}
		return s

	case SetCurrentLayer:
		if _, ok := s.Layer(a.ID); ok {
			s.CurrentLayerID = a.ID
		}
		return s

	case SetZoom:
		if math.IsNaN(a.Zoom) {
			return s
		}
		s.Zoom = clamp(a.Zoom, s.MinZoom, MaxZoom)
		return s

	case SetMinZoom:
		if math.IsNaN(a.MinZoom) {
			return s
		}
		s.MinZoom = clamp(a.MinZoom, MinZoomFloor, 1)
		return s

	case SetPan:
		s.Pan = a.Pan
		return s

	case AddPage:
		s.TotalPages++
		s.CurrentPage = s.TotalPages
		return s

	case DeletePage:
		if s.TotalPages <= 1 || a.Page < 1 || a.Page > s.TotalPages {
			return s
		}
		s.TotalPages--
		if a.Page <= s.CurrentPage && s.CurrentPage > 1 {
			s.CurrentPage--
		} else if s.CurrentPage > s.TotalPages {
			s.CurrentPage = s.TotalPages
		}
		return s

	case SetCurrentPage:
		s.CurrentPage = clampInt(a.Page, 1, s.TotalPages)
		return s

	case UpdateToolSettings:
		s.ToolSettings = s.ToolSettings.apply(a.Tool, a.Patch)
		return s

	case SetUnits:
		if a.Units.Valid() {
			s.Units = a.Units
		}
		return s

	case SetGridVisible:
		s.GridVisible = a.Visible
		return s

	case SetSnapToGrid:
		s.SnapToGrid = a.Enabled
		return s

	case SetGridSize:
		if math.IsNaN(a.Size) {
			return s
		}
		s.GridSize = clamp(a.Size, MinGridSize, MaxGridSize)
		return s

	case SetTextEdit:
		if a.Edit == nil {
			s.TextEdit = nil
			return s
		}
		edit := *a.Edit
		s.TextEdit = &edit
		return s
	}
	return s
}

// checkpoint truncates any redo branch, appends the current elements and
// trims the oldest snapshots beyond MaxHistory.
func (s State) checkpoint() State {
	history := make([][]drawdoc.Element, 0, s.HistoryIndex+2)
	history = append(history, s.History[:s.HistoryIndex+1]...)
	history = append(history, drawdoc.CloneElements(s.Elements))
	if s.MaxHistory > 0 && len(history) > s.MaxHistory {
		history = history[len(history)-s.MaxHistory:]
	}
	s.History = history
	s.HistoryIndex = len(history) - 1
	return s
}

// adoptLayer moves an element that references an unknown layer onto the
// current layer.
func (s State) adoptLayer(el drawdoc.Element) drawdoc.Element {
	if _, ok := s.Layer(el.LayerID); !ok {
		el.LayerID = s.CurrentLayerID
	}
	return el
}

func (ts ToolSettings) apply(t Tool, p ToolSettingsPatch) ToolSettings {
	stroke := func(st StrokeSettings) StrokeSettings {
		if p.Color != nil {
			st.Color = *p.Color
		}
		if p.Width != nil && *p.Width > 0 {
			st.Width = *p.Width
		}
		return st
	}
	switch t {
	case ToolSelect, ToolLine:
		ts.Line = stroke(ts.Line)
	case ToolAngle:
		ts.Angle = stroke(ts.Angle)
	case ToolFreehand:
		ts.Freehand = stroke(ts.Freehand)
	case ToolText:
		if p.Color != nil {
			ts.Text.Color = *p.Color
		}
		if p.FontSize != nil && *p.FontSize > 0 {
			ts.Text.FontSize = *p.FontSize
		}
	case ToolEraser:
		if p.Width != nil && *p.Width > 0 {
			ts.Eraser.Width = *p.Width
		}
	}
	return ts
}

func applyElementPatch(el drawdoc.Element, p ElementPatch) drawdoc.Element {
	out := el.Clone()
	if p.Points != nil {
		out.Points = append(out.Points[:0:0], p.Points...)
	}
	if p.Style != nil {
		out.Style = *p.Style
	}
	if p.LayerID != nil {
		out.LayerID = *p.LayerID
	}
	if p.Text != nil {
		out.Text = *p.Text
	}
	if p.FontSize != nil {
		out.FontSize = *p.FontSize
	}
	if p.Measurements != nil {
		m := drawdoc.Element{Measurements: p.Measurements}.Clone().Measurements
		out.Measurements = m
	}
	return out
}

func withoutIDs(elements []drawdoc.Element, ids []string) []drawdoc.Element {
	out := make([]drawdoc.Element, 0, len(elements))
	for _, el := range elements {
		if !contains(ids, el.ID) {
			out = append(out, el)
		}
	}
	return out
}

func dropIDs(sel, ids []string) []string {
	if len(sel) == 0 || len(ids) == 0 {
		return sel
	}
	var out []string
	for _, id := range sel {
		if !contains(ids, id) {
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
