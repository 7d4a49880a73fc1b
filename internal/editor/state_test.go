package editor

import (
	"reflect"
	"testing"

	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

func line(id string, x1, y1, x2, y2 float64) drawdoc.Element {
	return drawdoc.Element{
		ID:      id,
		Type:    drawdoc.TypeLine,
		Points:  []geom.Point{geom.Pt(x1, y1), geom.Pt(x2, y2)},
		Style:   drawdoc.Style{StrokeColor: "#000000", StrokeWidth: 2},
		LayerID: "layer-1",
	}
}

func apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState()
	if len(s.History) != 1 || s.HistoryIndex != 0 || len(s.History[0]) != 0 {
		t.Fatalf("expected single empty history entry, got %d/%d", len(s.History), s.HistoryIndex)
	}
	if len(s.Layers) != 3 || s.CurrentLayerID != "layer-1" {
		t.Fatalf("unexpected layers: %+v current=%q", s.Layers, s.CurrentLayerID)
	}
	if s.TotalPages != 1 || s.CurrentPage != 1 {
		t.Fatalf("unexpected pagination %d/%d", s.CurrentPage, s.TotalPages)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := apply(NewState(),
		AddElement{Element: line("a", 0, 0, 10, 0)},
		AddElement{Element: line("b", 0, 5, 10, 5)},
		UpdateElement{ID: "a", Patch: ElementPatch{Points: []geom.Point{geom.Pt(1, 1), geom.Pt(2, 2)}}},
		SaveState{},
		DeleteElements{IDs: []string{"b"}},
	)
	want := drawdoc.CloneElements(s.Elements)
	const significant = 4
	for k := 1; k <= significant; k++ {
		cur := s
		for i := 0; i < k; i++ {
			cur = Reduce(cur, Undo{})
		}
		for i := 0; i < k; i++ {
			cur = Reduce(cur, Redo{})
		}
		if !reflect.DeepEqual(cur.Elements, want) {
			t.Fatalf("k=%d: elements differ after round trip:\n got %#v\nwant %#v", k, cur.Elements, want)
		}
	}
}

func TestHistoryTruncation(t *testing.T) {
	s := NewState()
	const n = 4
	for i := 0; i < n; i++ {
		s = Reduce(s, AddElement{Element: line(string(rune('a'+i)), 0, 0, float64(i+1), 0)})
	}
	s = Reduce(s, Undo{})
	s = Reduce(s, AddElement{Element: line("z", 0, 0, 1, 1)})

	// history holds the initial empty snapshot plus n checkpoints; one was
	// discarded by the undo and replaced by the new edit.
	if len(s.History) != n+1 {
		t.Fatalf("history length: got %d want %d", len(s.History), n+1)
	}
	if s.HistoryIndex != n {
		t.Fatalf("history index: got %d want %d", s.HistoryIndex, n)
	}
	if s.CanRedo() {
		t.Fatalf("redo branch should be gone")
	}
	if !reflect.DeepEqual(s.Elements, s.History[s.HistoryIndex]) {
		t.Fatalf("elements out of sync with history cursor")
	}
}

func TestHistoryTrimmedToMax(t *testing.T) {
	s := NewState()
	s.MaxHistory = 3
	for i := 0; i < 5; i++ {
		s = Reduce(s, AddElement{Element: line(string(rune('a'+i)), 0, 0, 1, 1)})
	}
	if len(s.History) != 3 || s.HistoryIndex != 2 {
		t.Fatalf("got len=%d index=%d", len(s.History), s.HistoryIndex)
	}
	if len(s.History[0]) != 3 {
		t.Fatalf("oldest kept snapshot should hold 3 elements, got %d", len(s.History[0]))
	}
}

func TestUndoRedoOutOfRangeIsNoop(t *testing.T) {
	s := NewState()
	if got := Reduce(s, Undo{}); got.HistoryIndex != 0 {
		t.Fatalf("undo at start moved cursor to %d", got.HistoryIndex)
	}
	if got := Reduce(s, Redo{}); got.HistoryIndex != 0 {
		t.Fatalf("redo at end moved cursor to %d", got.HistoryIndex)
	}
}

func TestLineUndoRedoScenario(t *testing.T) {
	el := line("l", 0, 0, 100, 0)
	el.Measurements = &drawdoc.Measurements{Length: drawdoc.Float(100)}
	s := Reduce(NewState(), AddElement{Element: el})

	s = Reduce(s, Undo{})
	if len(s.Elements) != 0 || s.HistoryIndex != 0 {
		t.Fatalf("after undo: %d elements, index %d", len(s.Elements), s.HistoryIndex)
	}
	s = Reduce(s, Redo{})
	if len(s.Elements) != 1 {
		t.Fatalf("after redo: %d elements", len(s.Elements))
	}
	got := s.Elements[0]
	if got.Points[0] != geom.Pt(0, 0) || got.Points[1] != geom.Pt(100, 0) {
		t.Fatalf("points changed: %+v", got.Points)
	}
	if got.Measurements == nil || *got.Measurements.Length != 100 {
		t.Fatalf("length measurement lost: %+v", got.Measurements)
	}
}

func TestUpdateElementIsNotSignificant(t *testing.T) {
	s := Reduce(NewState(), AddElement{Element: line("a", 0, 0, 1, 1)})
	before := len(s.History)
	s = Reduce(s, UpdateElement{ID: "a", Patch: ElementPatch{Points: []geom.Point{geom.Pt(5, 5), geom.Pt(6, 6)}}})
	if len(s.History) != before {
		t.Fatalf("update added history entry")
	}
	if s.History[s.HistoryIndex][0].Points[0] != geom.Pt(0, 0) {
		t.Fatalf("update leaked into history snapshot")
	}
	bad := Reduce(s, UpdateElement{ID: "a", Patch: ElementPatch{Points: []geom.Point{geom.Pt(1, 1)}}})
	if len(bad.Elements[0].Points) != 2 {
		t.Fatalf("patch breaking the line shape must be ignored")
	}
}

func TestAddElementRemapsOrphanLayer(t *testing.T) {
	el := line("a", 0, 0, 1, 1)
	el.LayerID = "gone"
	s := Reduce(NewState(), AddElement{Element: el})
	if s.Elements[0].LayerID != "layer-1" {
		t.Fatalf("orphan layer not remapped: %q", s.Elements[0].LayerID)
	}
}

func TestReplaceElementsRemapsAndClearsSelection(t *testing.T) {
	s := apply(NewState(),
		AddElement{Element: line("a", 0, 0, 1, 1)},
		SelectElements{IDs: []string{"a"}},
		SetCurrentLayer{ID: "layer-2"},
	)
	orphan := line("x", 0, 0, 2, 2)
	orphan.LayerID = "missing"
	keep := line("y", 0, 0, 3, 3)
	keep.LayerID = "layer-3"
	s = Reduce(s, ReplaceElements{Elements: []drawdoc.Element{orphan, keep}})

	if len(s.Selection) != 0 {
		t.Fatalf("selection should be cleared, got %v", s.Selection)
	}
	if s.Elements[0].LayerID != "layer-2" || s.Elements[1].LayerID != "layer-3" {
		t.Fatalf("unexpected layers: %q %q", s.Elements[0].LayerID, s.Elements[1].LayerID)
	}
	if len(s.History) != 3 {
		t.Fatalf("replace should checkpoint, history len %d", len(s.History))
	}
}

func TestReplaceElementsDropsMalformedShapes(t *testing.T) {
	empty := drawdoc.Element{ID: "f", Type: drawdoc.TypeFreehand, LayerID: "layer-1"}
	short := line("s", 0, 0, 1, 1)
	short.Points = short.Points[:1]
	s := Reduce(NewState(), ReplaceElements{Elements: []drawdoc.Element{empty, line("ok", 0, 0, 5, 5), short}})
	if len(s.Elements) != 1 || s.Elements[0].ID != "ok" {
		t.Fatalf("elements = %+v", s.Elements)
	}
}

func TestSelectIgnoresUnknownIDs(t *testing.T) {
	s := apply(NewState(),
		AddElement{Element: line("a", 0, 0, 1, 1)},
		SelectElements{IDs: []string{"a", "nope", "a"}},
	)
	if !reflect.DeepEqual(s.Selection, []string{"a"}) {
		t.Fatalf("selection: %v", s.Selection)
	}
	s = Reduce(s, SetTool{Tool: ToolLine})
	if len(s.Selection) != 0 || s.Tool != ToolLine {
		t.Fatalf("set tool should clear selection")
	}
}

func TestSetToolClearsTextEdit(t *testing.T) {
	s := apply(NewState(),
		SetTool{Tool: ToolText},
		SetTextEdit{Edit: &TextEdit{Anchor: geom.Pt(1, 2), Page: 1, Buffer: "hi"}},
	)
	if s.TextEdit == nil || s.TextEdit.Buffer != "hi" {
		t.Fatalf("text edit not stored")
	}
	s = Reduce(s, SetTool{Tool: ToolSelect})
	if s.TextEdit != nil {
		t.Fatalf("text edit survived tool switch")
	}
}

func TestRemoveElementsIsNotSignificant(t *testing.T) {
	s := apply(NewState(),
		AddElement{Element: line("a", 0, 0, 1, 1)},
		AddElement{Element: line("b", 0, 0, 2, 2)},
		SelectElements{IDs: []string{"a", "b"}},
	)
	n := len(s.History)
	s = Reduce(s, RemoveElements{IDs: []string{"a"}})
	if len(s.History) != n || len(s.Elements) != 1 {
		t.Fatalf("remove: history %d->%d, elements %d", n, len(s.History), len(s.Elements))
	}
	if !reflect.DeepEqual(s.Selection, []string{"b"}) {
		t.Fatalf("selection should drop removed id, got %v", s.Selection)
	}
	s = Reduce(s, SaveState{})
	s = Reduce(s, Undo{})
	if len(s.Elements) != 2 {
		t.Fatalf("undo should restore erased element, got %d", len(s.Elements))
	}
}

func TestDeleteLayerInvariant(t *testing.T) {
	onLayer := func(id, layer string) drawdoc.Element {
		el := line(id, 0, 0, 1, 1)
		el.LayerID = layer
		return el
	}
	s := apply(NewState(),
		AddElement{Element: onLayer("a", "layer-1")},
		AddElement{Element: onLayer("b", "layer-2")},
		AddElement{Element: onLayer("c", "layer-1")},
		SetCurrentLayer{ID: "layer-1"},
	)
	s = Reduce(s, DeleteLayer{ID: "layer-1"})
	if len(s.Elements) != 1 || s.Elements[0].ID != "b" {
		t.Fatalf("expected only b to remain, got %+v", s.Elements)
	}
	if s.CurrentLayerID != "layer-2" {
		t.Fatalf("current layer: got %q want layer-2", s.CurrentLayerID)
	}

	s = Reduce(s, DeleteLayer{ID: "layer-3"})
	before := s
	s = Reduce(s, DeleteLayer{ID: "layer-2"})
	if len(s.Layers) != 1 || !reflect.DeepEqual(s.Elements, before.Elements) {
		t.Fatalf("deleting the only layer must be a no-op")
	}
}

func TestLayerCRUD(t *testing.T) {
	locked := true
	name := "Dims"
	s := apply(NewState(),
		AddLayer{Layer: Layer{ID: "dims", Name: "D", Visible: true, Color: "#00ff00"}},
		AddLayer{Layer: Layer{ID: "dims", Name: "dup"}},
		AddLayer{Layer: Layer{Name: "no id"}},
		UpdateLayer{ID: "dims", Patch: LayerPatch{Name: &name, Locked: &locked}},
		SetCurrentLayer{ID: "dims"},
		SetCurrentLayer{ID: "unknown"},
	)
	if len(s.Layers) != 4 {
		t.Fatalf("expected 4 layers, got %d", len(s.Layers))
	}
	l, _ := s.Layer("dims")
	if l.Name != "Dims" || !l.Locked || !l.Visible {
		t.Fatalf("unexpected layer %+v", l)
	}
	if s.CurrentLayerID != "dims" {
		t.Fatalf("current layer %q", s.CurrentLayerID)
	}
}

func TestZoomClamping(t *testing.T) {
	s := NewState()
	cases := []struct {
		name   string
		action Action
		zoom   float64
		min    float64
	}{
		{"above max", SetZoom{Zoom: 9}, 3, DefaultMinZoom},
		{"below floor", SetZoom{Zoom: 0.1}, DefaultMinZoom, DefaultMinZoom},
		{"min zoom clamped high", SetMinZoom{MinZoom: 4}, DefaultMinZoom, 1},
		{"min zoom clamped low", SetMinZoom{MinZoom: 0.01}, DefaultMinZoom, MinZoomFloor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s = Reduce(s, tc.action)
			if s.Zoom != tc.zoom || s.MinZoom != tc.min {
				t.Fatalf("zoom=%v min=%v, want %v %v", s.Zoom, s.MinZoom, tc.zoom, tc.min)
			}
		})
	}
	s = Reduce(s, SetZoom{Zoom: 0.05})
	if s.Zoom != MinZoomFloor {
		t.Fatalf("zoom should floor at %v, got %v", MinZoomFloor, s.Zoom)
	}
}

func TestPageScenario(t *testing.T) {
	s := apply(NewState(), AddPage{}, AddPage{}, AddPage{})
	if s.TotalPages != 4 || s.CurrentPage != 4 {
		t.Fatalf("after 3 adds: %d/%d", s.CurrentPage, s.TotalPages)
	}
	s = Reduce(s, DeletePage{Page: 2})
	if s.TotalPages != 3 || s.CurrentPage != 3 {
		t.Fatalf("after delete: %d/%d", s.CurrentPage, s.TotalPages)
	}
}

func TestDeletePageEdges(t *testing.T) {
	if s := Reduce(NewState(), DeletePage{Page: 1}); s.TotalPages != 1 {
		t.Fatalf("last page must not be deleted")
	}
	s := apply(NewState(), AddPage{}, AddPage{}, SetCurrentPage{Page: 1})
	s = Reduce(s, DeletePage{Page: 3})
	if s.TotalPages != 2 || s.CurrentPage != 1 {
		t.Fatalf("deleting after current: %d/%d", s.CurrentPage, s.TotalPages)
	}
	s = Reduce(s, DeletePage{Page: 7})
	if s.TotalPages != 2 {
		t.Fatalf("out of range delete changed total to %d", s.TotalPages)
	}
	s = apply(s, SetCurrentPage{Page: 99})
	if s.CurrentPage != 2 {
		t.Fatalf("set page clamp: got %d", s.CurrentPage)
	}
	s = Reduce(s, SetCurrentPage{Page: -3})
	if s.CurrentPage != 1 {
		t.Fatalf("set page clamp low: got %d", s.CurrentPage)
	}
}

func TestToolSettingsRedirectFromSelect(t *testing.T) {
	red := "#ff0000"
	w := 5.0
	s := Reduce(NewState(), UpdateToolSettings{Tool: ToolSelect, Patch: ToolSettingsPatch{Color: &red, Width: &w}})
	if s.ToolSettings.Line.Color != red || s.ToolSettings.Line.Width != 5 {
		t.Fatalf("select settings should land on line: %+v", s.ToolSettings.Line)
	}
	size := 24.0
	s = Reduce(s, UpdateToolSettings{Tool: ToolText, Patch: ToolSettingsPatch{FontSize: &size}})
	if s.ToolSettings.Text.FontSize != 24 || s.ToolSettings.Text.Color != "#000000" {
		t.Fatalf("text settings: %+v", s.ToolSettings.Text)
	}
}

func TestGridAndUnits(t *testing.T) {
	s := apply(NewState(),
		SetUnits{Units: UnitsCM},
		SetUnits{Units: "furlong"},
		SetGridVisible{Visible: false},
		SetSnapToGrid{Enabled: false},
		SetGridSize{Size: 500},
	)
	if s.Units != UnitsCM || s.GridVisible || s.SnapToGrid || s.GridSize != MaxGridSize {
		t.Fatalf("unexpected grid/units state: %+v %v %v %v", s.Units, s.GridVisible, s.SnapToGrid, s.GridSize)
	}
}

func TestStoreNotifiesListeners(t *testing.T) {
	st := NewStore(NewState())
	var seen []Action
	unsubscribe := st.Subscribe(func(prev, next State, a Action) {
		seen = append(seen, a)
	})
	st.Dispatch(AddPage{}, SetCurrentPage{Page: 1})
	if len(seen) != 2 || st.State().TotalPages != 2 || st.State().CurrentPage != 1 {
		t.Fatalf("seen=%d state=%d/%d", len(seen), st.State().CurrentPage, st.State().TotalPages)
	}
	unsubscribe()
	st.Dispatch(AddPage{})
	if len(seen) != 2 {
		t.Fatalf("listener called after unsubscribe")
	}
}

func TestFormatLength(t *testing.T) {
	px := 100 * geom.PxPerMM
	cases := map[Units]string{
		UnitsMM: "100.0 mm",
		UnitsCM: "10.0 cm",
		UnitsIn: "3.94 in",
		UnitsPx: "378 px",
	}
	for u, want := range cases {
		if got := u.FormatLength(px); got != want {
			t.Fatalf("%s: got %q want %q", u, got, want)
		}
	}
}
