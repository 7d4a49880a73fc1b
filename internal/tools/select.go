package tools

import (
	"math"

	"techdraw/internal/editor"
	"techdraw/internal/platform"
	"techdraw/internal/viewport"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

// Select picks the topmost element under the pointer and drags the
// selection. A completed drag is checkpointed once. Dragged geometry stays
// inside the page the picked element started on.
type Select struct {
	dragging bool
	moved    bool
	last     geom.Point
	page     int
}

func (t *Select) PointerDown(h Host, p Pointer) {
	s := h.State()
	id, ok := HitTop(s, p.Raw, SelectThreshold)
	if !ok {
		if len(s.Selection) > 0 {
			h.Dispatch(editor.SelectElements{})
		}
		return
	}
	switch {
	case s.IsSelected(id):
		// keep the selection so the whole group drags
	case p.Mods.Has(platform.ModShift):
		h.Dispatch(editor.SelectElements{IDs: append(append([]string(nil), s.Selection...), id)})
	default:
		h.Dispatch(editor.SelectElements{IDs: []string{id}})
	}
	t.dragging = true
	t.moved = false
	t.last = p.Doc
	t.page = p.Page
	if el, ok := s.Element(id); ok && len(el.Points) > 0 {
		if n := h.Viewport().PageAt(el.Points[0]); n > 0 {
			t.page = n
		}
	}
}

func (t *Select) PointerMove(h Host, p Pointer) {
	if !t.dragging {
		return
	}
	s := h.State()
	var dragged []drawdoc.Element
	for _, el := range s.SelectedElements() {
		if s.Editable(el) {
			dragged = append(dragged, el)
		}
	}
	if len(dragged) == 0 {
		t.last = p.Doc
		return
	}
	delta := t.clampDelta(h.Viewport(), dragged, p.Doc.Sub(t.last))
	if delta == (geom.Point{}) {
		return
	}
	t.last = t.last.Add(delta)
	actions := make([]editor.Action, 0, len(dragged))
	for _, el := range dragged {
		moved := el.Translate(delta)
		actions = append(actions, editor.UpdateElement{ID: el.ID, Patch: editor.ElementPatch{Points: moved.Points}})
	}
	t.moved = true
	h.Dispatch(actions...)
}

func (t *Select) PointerUp(h Host, p Pointer) {
	if t.dragging {
		t.PointerMove(h, p)
	}
	t.finish(h)
}

func (t *Select) Cancel(h Host) { t.finish(h) }

func (t *Select) Draft() *drawdoc.Element { return nil }

// DeleteSelection removes the selected elements as one undo step.
func (t *Select) DeleteSelection(h Host) {
	s := h.State()
	var ids []string
	for _, el := range s.SelectedElements() {
		if s.Editable(el) {
			ids = append(ids, el.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	h.Dispatch(editor.DeleteElements{IDs: ids})
}

// SelectAll selects every editable element.
func (t *Select) SelectAll(h Host) {
	s := h.State()
	var ids []string
	for _, el := range s.Elements {
		if s.Editable(el) {
			ids = append(ids, el.ID)
		}
	}
	h.Dispatch(editor.SelectElements{IDs: ids})
}

// clampDelta limits delta so the bounding box of els stays on the drag
// page. An axis already outside the page may not move further out.
func (t *Select) clampDelta(v viewport.Viewport, els []drawdoc.Element, delta geom.Point) geom.Point {
	if t.page < 1 || t.page > v.TotalPages {
		return delta
	}
	page := v.PageBounds(t.page)
	box := Bounds(els[0])
	for _, el := range els[1:] {
		b := Bounds(el)
		box = geom.BoundingBox([]geom.Point{box.TopLeft(), box.BottomRight(), b.TopLeft(), b.BottomRight()})
	}
	clamp := func(d, lo, hi float64) float64 {
		lo, hi = math.Min(lo, 0), math.Max(hi, 0)
		return math.Min(math.Max(d, lo), hi)
	}
	return geom.Pt(
		clamp(delta.X, page.X-box.X, page.X+page.Width-(box.X+box.Width)),
		clamp(delta.Y, page.Y-box.Y, page.Y+page.Height-(box.Y+box.Height)),
	)
}

func (t *Select) finish(h Host) {
	if t.dragging && t.moved {
		h.Dispatch(editor.SaveState{})
	}
	t.dragging = false
	t.moved = false
	t.page = 0
}
