// Package config reads start-up settings from the environment and keeps
// user preferences in a JSON file.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"techdraw/internal/editor"
)

type Config struct {
	Width       int
	Height      int
	PrefsPath   string
	Units       editor.Units
	GridVisible bool
	SnapToGrid  bool
	MaxHistory  int
}

// Load reads the TECHDRAW_* environment variables over the defaults.
func Load() *Config {
	return &Config{
		Width:       getEnvAsInt("TECHDRAW_WIDTH", 1280),
		Height:      getEnvAsInt("TECHDRAW_HEIGHT", 800),
		PrefsPath:   getEnv("TECHDRAW_PREFS", DefaultPrefsPath()),
		Units:       editor.Units(getEnv("TECHDRAW_UNITS", string(editor.UnitsMM))),
		GridVisible: getEnvAsBool("TECHDRAW_GRID", true),
		SnapToGrid:  getEnvAsBool("TECHDRAW_SNAP", true),
		MaxHistory:  getEnvAsInt("TECHDRAW_MAX_HISTORY", editor.DefaultMaxHistory),
	}
}

// InitialState is a fresh drawing state with the configured defaults.
func (c *Config) InitialState() editor.State {
	s := editor.NewState()
	if c.Units.Valid() {
		s.Units = c.Units
	}
	s.GridVisible = c.GridVisible
	s.SnapToGrid = c.SnapToGrid
	if c.MaxHistory > 0 {
		s.MaxHistory = c.MaxHistory
	}
	return s
}

// DefaultPrefsPath is preferences.json under the user config directory.
func DefaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "techdraw", prefsFile)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
