package tools

import (
	"techdraw/internal/editor"
	"techdraw/pkg/drawdoc"
)

// Line drags out a two-point segment and commits it on release.
type Line struct {
	draft *drawdoc.Element
	page  int
}

func (t *Line) PointerDown(h Host, p Pointer) {
	s := h.State()
	if p.Page == 0 || !canCreate(s) {
		return
	}
	t.page = p.Page
	t.draft = newElement(s, editor.ToolLine, drawdoc.TypeLine, p.Doc, p.Doc)
	t.draft.Measurements = drawdoc.Measure(*t.draft)
}

func (t *Line) PointerMove(h Host, p Pointer) {
	if t.draft == nil {
		return
	}
	t.draft.Points[1] = h.Viewport().ClipToPage(p.Doc, t.page)
	t.draft.Measurements = drawdoc.Measure(*t.draft)
}

func (t *Line) PointerUp(h Host, p Pointer) {
	if t.draft == nil {
		return
	}
	t.PointerMove(h, p)
	el := *t.draft
	t.draft = nil
	h.Dispatch(editor.AddElement{Element: el})
}

func (t *Line) Cancel(Host) { t.draft = nil }

func (t *Line) Draft() *drawdoc.Element { return t.draft }
