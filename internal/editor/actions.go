package editor

import (
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

// Action is the closed set of state transitions. Only types in this file
// implement it.
type Action interface {
	isAction()
}

type SetTool struct{ Tool Tool }

type AddElement struct{ Element drawdoc.Element }

// ElementPatch carries the fields UpdateElement overwrites. Nil fields are
// left as they are.
type ElementPatch struct {
	Points       []geom.Point
	Style        *drawdoc.Style
	LayerID      *string
	Text         *string
	FontSize     *float64
	Measurements *drawdoc.Measurements
}

type UpdateElement struct {
	ID    string
	Patch ElementPatch
}

type DeleteElements struct{ IDs []string }

// RemoveElements drops elements without recording a checkpoint. The eraser
// uses it during a gesture and follows up with one SaveState.
type RemoveElements struct{ IDs []string }

type ReplaceElements struct{ Elements []drawdoc.Element }

type SelectElements struct{ IDs []string }

type SaveState struct{}

type Undo struct{}

type Redo struct{}

type AddLayer struct{ Layer Layer }

type LayerPatch struct {
	Name    *string
	Visible *bool
	Locked  *bool
	Color   *string
}

type UpdateLayer struct {
	ID    string
	Patch LayerPatch
}

type DeleteLayer struct{ ID string }

type SetCurrentLayer struct{ ID string }

type SetZoom struct{ Zoom float64 }

type SetMinZoom struct{ MinZoom float64 }

type SetPan struct{ Pan geom.Point }

type AddPage struct{}

// DeletePage removes page Page (1-based).
type DeletePage struct{ Page int }

type SetCurrentPage struct{ Page int }

type ToolSettingsPatch struct {
	Color    *string
	Width    *float64
	FontSize *float64
}

type UpdateToolSettings struct {
	Tool  Tool
	Patch ToolSettingsPatch
}

type SetUnits struct{ Units Units }

type SetGridVisible struct{ Visible bool }

type SetSnapToGrid struct{ Enabled bool }

type SetGridSize struct{ Size float64 }

// SetTextEdit opens, updates or (with nil) closes the inline text entry.
type SetTextEdit struct{ Edit *TextEdit }

func (SetTool) isAction()            {}
func (AddElement) isAction()         {}
func (UpdateElement) isAction()      {}
func (DeleteElements) isAction()     {}
func (RemoveElements) isAction()     {}
func (ReplaceElements) isAction()    {}
func (SelectElements) isAction()     {}
func (SaveState) isAction()          {}
func (Undo) isAction()               {}
func (Redo) isAction()               {}
func (AddLayer) isAction()           {}
func (UpdateLayer) isAction()        {}
func (DeleteLayer) isAction()        {}
func (SetCurrentLayer) isAction()    {}
func (SetZoom) isAction()            {}
func (SetMinZoom) isAction()         {}
func (SetPan) isAction()             {}
func (AddPage) isAction()            {}
func (DeletePage) isAction()         {}
func (SetCurrentPage) isAction()     {}
func (UpdateToolSettings) isAction() {}
func (SetUnits) isAction()           {}
func (SetGridVisible) isAction()     {}
func (SetSnapToGrid) isAction()      {}
func (SetGridSize) isAction()        {}
func (SetTextEdit) isAction()        {}

// HistorySignificant reports whether a creates an undo checkpoint.
func HistorySignificant(a Action) bool {
	switch a.(type) {
	case AddElement, DeleteElements, ReplaceElements, SaveState:
		return true
	}
	return false
}
