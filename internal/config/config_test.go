package config

import (
	"os"
	"path/filepath"
	"testing"

	"techdraw/internal/editor"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"TECHDRAW_WIDTH", "TECHDRAW_HEIGHT", "TECHDRAW_UNITS", "TECHDRAW_GRID", "TECHDRAW_SNAP", "TECHDRAW_MAX_HISTORY"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Width != 1280 || c.Height != 800 {
		t.Fatalf("size = %dx%d", c.Width, c.Height)
	}
	if c.Units != editor.UnitsMM || !c.GridVisible || !c.SnapToGrid || c.MaxHistory != editor.DefaultMaxHistory {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TECHDRAW_WIDTH", "900")
	t.Setenv("TECHDRAW_HEIGHT", "not-a-number")
	t.Setenv("TECHDRAW_UNITS", "in")
	t.Setenv("TECHDRAW_SNAP", "false")
	t.Setenv("TECHDRAW_MAX_HISTORY", "10")
	c := Load()
	if c.Width != 900 || c.Height != 800 {
		t.Fatalf("size = %dx%d, want 900x800", c.Width, c.Height)
	}
	s := c.InitialState()
	if s.Units != editor.UnitsIn || s.SnapToGrid || s.MaxHistory != 10 {
		t.Fatalf("initial state: units %s snap %v history %d", s.Units, s.SnapToGrid, s.MaxHistory)
	}

	c.Units = "furlong"
	if got := c.InitialState().Units; got != editor.UnitsMM {
		t.Fatalf("invalid units should keep the default, got %s", got)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)
	s := editor.NewState()
	s = editor.Reduce(s, editor.UpdateToolSettings{Tool: editor.ToolLine, Patch: editor.ToolSettingsPatch{Color: ptr("#ff0000")}})
	s = editor.Reduce(s, editor.UpdateToolSettings{Tool: editor.ToolText, Patch: editor.ToolSettingsPatch{FontSize: ptr(24.0)}})
	s = editor.Reduce(s, editor.SetUnits{Units: editor.UnitsCM})
	s = editor.Reduce(s, editor.SetGridVisible{Visible: false})

	p := LoadPrefs(path)
	p.Capture(s)
	p.SetLastDir("/tmp/drawings")
	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := LoadPrefs(path)
	if loaded.LastDir() != "/tmp/drawings" {
		t.Fatalf("last dir = %q", loaded.LastDir())
	}
	next := editor.NewState()
	for _, a := range loaded.Actions() {
		next = editor.Reduce(next, a)
	}
	if next.ToolSettings != s.ToolSettings {
		t.Fatalf("tool settings = %+v, want %+v", next.ToolSettings, s.ToolSettings)
	}
	if next.Units != editor.UnitsCM || next.GridVisible || !next.SnapToGrid {
		t.Fatalf("units %s grid %v snap %v", next.Units, next.GridVisible, next.SnapToGrid)
	}
	if next.HistoryIndex != 0 || len(next.History) != 1 {
		t.Fatalf("applying prefs must not touch history")
	}
}

func TestPrefsMissingOrCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if got := LoadPrefs(filepath.Join(dir, "absent.json")).Actions(); len(got) != 0 {
		t.Fatalf("missing file produced %d actions", len(got))
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := LoadPrefs(bad).Actions(); len(got) != 0 {
		t.Fatalf("corrupt file produced %d actions", len(got))
	}

	mistyped := filepath.Join(dir, "mistyped.json")
	if err := os.WriteFile(mistyped, []byte(`{"units":"in","lastDir":"/drawings","gridSize":"wide"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p := LoadPrefs(mistyped)
	if got := p.Actions(); len(got) != 0 || p.LastDir() != "" {
		t.Fatalf("mistyped file partly applied: %d actions, lastDir %q", len(got), p.LastDir())
	}
}

func ptr[T any](v T) *T { return &v }
