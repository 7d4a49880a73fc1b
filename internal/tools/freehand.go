package tools

import (
	"techdraw/internal/editor"
	"techdraw/pkg/drawdoc"
)

// Freehand records a decimated stroke. Strokes with fewer than two samples
// are dropped on release.
type Freehand struct {
	draft *drawdoc.Element
	page  int
}

func (t *Freehand) PointerDown(h Host, p Pointer) {
	s := h.State()
	if p.Page == 0 || !canCreate(s) {
		return
	}
	t.page = p.Page
	t.draft = newElement(s, editor.ToolFreehand, drawdoc.TypeFreehand, p.Doc)
}

func (t *Freehand) PointerMove(h Host, p Pointer) {
	if t.draft == nil {
		return
	}
	q := h.Viewport().ClipToPage(p.Doc, t.page)
	last := t.draft.Points[len(t.draft.Points)-1]
	if q.Distance(last) > FreehandSpacing {
		t.draft.Points = append(t.draft.Points, q)
	}
}

func (t *Freehand) PointerUp(h Host, p Pointer) {
	if t.draft == nil {
		return
	}
	t.PointerMove(h, p)
	el := *t.draft
	t.draft = nil
	if len(el.Points) < 2 {
		return
	}
	h.Dispatch(editor.AddElement{Element: el})
}

func (t *Freehand) Cancel(Host) { t.draft = nil }

func (t *Freehand) Draft() *drawdoc.Element { return t.draft }
