package session

import (
	"log"

	"techdraw/internal/editor"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

// PasteOffset shifts pasted elements so they do not cover the originals.
var PasteOffset = geom.Pt(5*geom.PxPerMM, 5*geom.PxPerMM)

// CopySelection serializes the selected elements in document format.
func (s *Session) CopySelection() ([]byte, error) {
	sel := s.store.State().SelectedElements()
	if len(sel) == 0 {
		return nil, ErrNothingSelected
	}
	return drawdoc.Serialize(sel)
}

// Paste adds the elements in data as copies on the current layer, offset
// by PasteOffset, in one undo step. The copies become the selection.
func (s *Session) Paste(data []byte) (int, error) {
	pasted, err := drawdoc.Deserialize(data)
	if err != nil {
		return 0, err
	}
	if len(pasted) == 0 {
		return 0, nil
	}
	st := s.store.State()
	if l := st.CurrentLayer(); l.Locked || !l.Visible {
		return 0, ErrLayerLocked
	}

	ids := make([]string, len(pasted))
	for i, el := range pasted {
		el = el.Translate(PasteOffset)
		el.ID = drawdoc.NewID()
		el.LayerID = st.CurrentLayerID
		el.Selected = false
		pasted[i] = el
		ids[i] = el.ID
	}

	if st.Tool != editor.ToolSelect {
		s.ctrl.SetTool(editor.ToolSelect)
	} else {
		s.ctrl.Cancel()
	}
	next := append(drawdoc.CloneElements(s.store.State().Elements), pasted...)
	s.Dispatch(
		editor.ReplaceElements{Elements: next},
		editor.SelectElements{IDs: ids},
	)
	log.Printf("[SESSION] pasted %d elements", len(pasted))
	return len(pasted), nil
}
