package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"techdraw/internal/editor"
)

const prefsFile = "preferences.json"

type prefsData struct {
	ToolSettings *editor.ToolSettings `json:"toolSettings,omitempty"`
	Units        editor.Units         `json:"units,omitempty"`
	GridVisible  *bool                `json:"gridVisible,omitempty"`
	SnapToGrid   *bool                `json:"snapToGrid,omitempty"`
	GridSize     float64              `json:"gridSize,omitempty"`
	LastDir      string               `json:"lastDir,omitempty"`
}

// Prefs is the persisted part of the editor setup. Unset fields leave the
// state's defaults alone.
type Prefs struct {
	mu   sync.RWMutex
	data prefsData
	path string
}

// LoadPrefs reads preferences from path. A missing, unreadable or corrupt
// file yields empty preferences.
func LoadPrefs(path string) *Prefs {
	p := &Prefs{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	var parsed prefsData
	if err := json.Unmarshal(data, &parsed); err != nil {
		log.Printf("[CONFIG] ignoring preferences %s: %v", path, err)
		return p
	}
	p.data = parsed
	return p
}

func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.data, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Actions returns the actions that apply the stored preferences.
func (p *Prefs) Actions() []editor.Action {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []editor.Action
	if ts := p.data.ToolSettings; ts != nil {
		for _, t := range []editor.Tool{editor.ToolLine, editor.ToolAngle, editor.ToolFreehand} {
			st := ts.Stroke(t)
			out = append(out, editor.UpdateToolSettings{Tool: t, Patch: editor.ToolSettingsPatch{
				Color: nonEmpty(st.Color), Width: positive(st.Width),
			}})
		}
		out = append(out,
			editor.UpdateToolSettings{Tool: editor.ToolText, Patch: editor.ToolSettingsPatch{
				Color: nonEmpty(ts.Text.Color), FontSize: positive(ts.Text.FontSize),
			}},
			editor.UpdateToolSettings{Tool: editor.ToolEraser, Patch: editor.ToolSettingsPatch{
				Width: positive(ts.Eraser.Width),
			}},
		)
	}
	if p.data.Units.Valid() {
		out = append(out, editor.SetUnits{Units: p.data.Units})
	}
	if p.data.GridVisible != nil {
		out = append(out, editor.SetGridVisible{Visible: *p.data.GridVisible})
	}
	if p.data.SnapToGrid != nil {
		out = append(out, editor.SetSnapToGrid{Enabled: *p.data.SnapToGrid})
	}
	if p.data.GridSize > 0 {
		out = append(out, editor.SetGridSize{Size: p.data.GridSize})
	}
	return out
}

// Capture records the persisted fields of s.
func (p *Prefs) Capture(s editor.State) {
	ts := s.ToolSettings
	grid, snap := s.GridVisible, s.SnapToGrid
	p.mu.Lock()
	p.data.ToolSettings = &ts
	p.data.Units = s.Units
	p.data.GridVisible = &grid
	p.data.SnapToGrid = &snap
	p.data.GridSize = s.GridSize
	p.mu.Unlock()
}

// LastDir is the directory of the last file opened or saved.
func (p *Prefs) LastDir() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data.LastDir
}

func (p *Prefs) SetLastDir(dir string) {
	p.mu.Lock()
	p.data.LastDir = dir
	p.mu.Unlock()
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
