package ui

import (
	"image/color"

	"techdraw/internal/render"
)

type Theme struct {
	AppBackground   color.RGBA
	TopBar          color.RGBA
	Toolbar         color.RGBA
	Canvas          color.RGBA
	Page            color.RGBA
	Border          color.RGBA
	StatusBar       color.RGBA
	Accent          color.RGBA
	Shadow          color.RGBA
	Text            color.RGBA
	TextOnBar       color.RGBA
	MenuHeightDp    int
	ToolbarHeightDp int
	StatusHeightDp  int
}

func DefaultTheme() Theme {
	return Theme{
		AppBackground:   color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		TopBar:          color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Toolbar:         color.RGBA{0xF7, 0xF9, 0xFC, 0xFF},
		Canvas:          color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Page:            color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Border:          color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		StatusBar:       color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		Accent:          color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Shadow:          color.RGBA{0xC8, 0xCF, 0xDB, 0xFF},
		Text:            color.RGBA{0x2A, 0x38, 0x50, 0xFF},
		TextOnBar:       color.RGBA{0xF4, 0xF8, 0xFF, 0xFF},
		MenuHeightDp:    34,
		ToolbarHeightDp: 42,
		StatusHeightDp:  28,
	}
}

// RenderStyle derives the drawing surface colors from the theme.
func (t Theme) RenderStyle() render.Style {
	s := render.DefaultStyle()
	s.Background = t.Canvas
	s.Page = t.Page
	s.PageBorder = t.Border
	s.Shadow = t.Shadow
	s.Accent = t.Accent
	s.Selection = color.RGBA{t.Accent.R, t.Accent.G, t.Accent.B, 0x55}
	s.Label = t.Text
	return s
}
