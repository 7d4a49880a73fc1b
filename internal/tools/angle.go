package tools

import (
	"techdraw/internal/editor"
	"techdraw/pkg/drawdoc"
)

type angleStage int

const (
	angleIdle angleStage = iota
	angleGotBaseline
	angleGotVertex
)

// Angle is placed with three clicks: a baseline point, the vertex and the
// end point. Moves between clicks only update the preview.
type Angle struct {
	stage angleStage
	page  int
	draft *drawdoc.Element
}

func (t *Angle) PointerDown(h Host, p Pointer) {
	switch t.stage {
	case angleIdle:
		s := h.State()
		if p.Page == 0 || !canCreate(s) {
			return
		}
		t.page = p.Page
		t.draft = newElement(s, editor.ToolAngle, drawdoc.TypeAngle, p.Doc, p.Doc, p.Doc)
		t.stage = angleGotBaseline
	case angleGotBaseline:
		q := h.Viewport().ClipToPage(p.Doc, t.page)
		t.draft.Points[1] = q
		t.draft.Points[2] = q
		t.stage = angleGotVertex
	case angleGotVertex:
		t.draft.Points[2] = h.Viewport().ClipToPage(p.Doc, t.page)
		t.draft.Measurements = drawdoc.Measure(*t.draft)
		el := *t.draft
		t.reset()
		h.Dispatch(editor.AddElement{Element: el})
	}
}

func (t *Angle) PointerMove(h Host, p Pointer) {
	if t.draft == nil {
		return
	}
	q := h.Viewport().ClipToPage(p.Doc, t.page)
	switch t.stage {
	case angleGotBaseline:
		t.draft.Points[1] = q
		t.draft.Points[2] = q
	case angleGotVertex:
		t.draft.Points[2] = q
		t.draft.Measurements = drawdoc.Measure(*t.draft)
	}
}

func (t *Angle) PointerUp(Host, Pointer) {}

func (t *Angle) Cancel(Host) { t.reset() }

func (t *Angle) Draft() *drawdoc.Element { return t.draft }

// Clicks returns how many points have been fixed so far.
func (t *Angle) Clicks() int { return int(t.stage) }

func (t *Angle) reset() {
	t.stage = angleIdle
	t.page = 0
	t.draft = nil
}
