package tools

import (
	"techdraw/internal/editor"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

// Eraser removes every editable element its footprint touches while the
// button is held. The whole gesture becomes one undo step.
type Eraser struct {
	erasing bool
	erased  bool
	cursor  geom.Point
	hover   bool
}

func (t *Eraser) PointerDown(h Host, p Pointer) {
	t.erasing = true
	t.erased = false
	t.cursor, t.hover = p.Raw, true
	t.eraseAt(h, p.Raw)
}

func (t *Eraser) PointerMove(h Host, p Pointer) {
	t.cursor, t.hover = p.Raw, true
	if t.erasing {
		t.eraseAt(h, p.Raw)
	}
}

func (t *Eraser) PointerUp(h Host, _ Pointer) {
	t.finish(h)
}

func (t *Eraser) Cancel(h Host) {
	t.finish(h)
	t.hover = false
}

func (t *Eraser) Draft() *drawdoc.Element { return nil }

// Indicator is the eraser footprint at the last pointer position.
func (t *Eraser) Indicator(h Host) (Indicator, bool) {
	if !t.hover {
		return Indicator{}, false
	}
	return Indicator{Center: t.cursor, Radius: h.State().ToolSettings.Eraser.Width / 2}, true
}

func (t *Eraser) eraseAt(h Host, p geom.Point) {
	s := h.State()
	ids := HitAll(s, p, s.ToolSettings.Eraser.Width/2)
	if len(ids) == 0 {
		return
	}
	t.erased = true
	h.Dispatch(editor.RemoveElements{IDs: ids})
}

func (t *Eraser) finish(h Host) {
	if t.erasing && t.erased {
		h.Dispatch(editor.SaveState{})
	}
	t.erasing = false
	t.erased = false
}
