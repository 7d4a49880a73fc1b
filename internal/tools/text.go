package tools

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"techdraw/internal/editor"
	"techdraw/pkg/drawdoc"
)

// Text opens an inline entry at the clicked point. The entry lives in
// State.TextEdit until Commit or Cancel; only Commit with non-blank text
// produces an element.
type Text struct{}

func (t *Text) PointerDown(h Host, p Pointer) {
	if h.State().TextEdit != nil {
		t.Commit(h)
	}
	s := h.State()
	if p.Page == 0 || !canCreate(s) {
		return
	}
	h.Dispatch(editor.SetTextEdit{Edit: &editor.TextEdit{Anchor: p.Doc, Page: p.Page}})
}

func (t *Text) PointerMove(Host, Pointer) {}

func (t *Text) PointerUp(Host, Pointer) {}

// Cancel discards the open entry.
func (t *Text) Cancel(h Host) {
	if h.State().TextEdit != nil {
		h.Dispatch(editor.SetTextEdit{})
	}
}

func (t *Text) Draft() *drawdoc.Element { return nil }

// Editing reports whether an entry is open.
func (t *Text) Editing(h Host) bool { return h.State().TextEdit != nil }

// Insert appends printable runes to the open entry.
func (t *Text) Insert(h Host, r rune) {
	edit := h.State().TextEdit
	if edit == nil || !unicode.IsPrint(r) {
		return
	}
	next := *edit
	next.Buffer += string(r)
	h.Dispatch(editor.SetTextEdit{Edit: &next})
}

// Backspace removes the last rune of the open entry.
func (t *Text) Backspace(h Host) {
	edit := h.State().TextEdit
	if edit == nil || edit.Buffer == "" {
		return
	}
	next := *edit
	_, size := utf8.DecodeLastRuneInString(next.Buffer)
	next.Buffer = next.Buffer[:len(next.Buffer)-size]
	h.Dispatch(editor.SetTextEdit{Edit: &next})
}

// Commit closes the entry and, when the trimmed text is not empty, adds a
// text element at the anchor.
func (t *Text) Commit(h Host) {
	s := h.State()
	edit := s.TextEdit
	if edit == nil {
		return
	}
	text := strings.TrimSpace(edit.Buffer)
	actions := []editor.Action{editor.SetTextEdit{}}
	if text != "" {
		el := newElement(s, editor.ToolText, drawdoc.TypeText, edit.Anchor)
		el.Text = text
		el.FontSize = s.ToolSettings.Text.FontSize
		actions = append(actions, editor.AddElement{Element: *el})
	}
	h.Dispatch(actions...)
}
