package ui

import (
	"image/color"

	"techdraw/internal/render"
)

// Rect is an integer screen rectangle.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

type Layout struct {
	MenuH    int
	ToolbarH int
	StatusH  int
	// Canvas is where the drawing surface is placed.
	Canvas    Rect
	StatusBar int
}

func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}

	dp := func(v int) int { return int(float32(v) * scale) }

	menuH := dp(theme.MenuHeightDp)
	toolbarH := dp(theme.ToolbarHeightDp)
	statusH := dp(theme.StatusHeightDp)

	canvasY := menuH + toolbarH
	canvasH := h - canvasY - statusH
	if canvasH < 0 {
		canvasH = 0
	}

	return Layout{
		MenuH:     menuH,
		ToolbarH:  toolbarH,
		StatusH:   statusH,
		Canvas:    Rect{X: 0, Y: canvasY, W: w, H: canvasH},
		StatusBar: h - statusH,
	}
}

// DrawShell paints the menu bar, toolbar and status strip around the
// canvas area into fb.
func DrawShell(fb *render.FrameBuffer, theme Theme, scale float32) Layout {
	layout := ComputeLayout(fb.W, fb.H, theme, scale)

	fb.Clear(theme.AppBackground)

	// Menu + toolbar
	fb.FillRect(0, 0, fb.W, layout.MenuH, theme.TopBar)
	fb.FillRect(0, layout.MenuH, fb.W, layout.ToolbarH, theme.Toolbar)
	fb.StrokeRect(0, 0, fb.W, layout.MenuH+layout.ToolbarH, 1, theme.Border)

	c := layout.Canvas
	fb.FillRect(c.X, c.Y, c.W, c.H, theme.Canvas)

	// Status bar
	fb.FillRect(0, layout.StatusBar, fb.W, layout.StatusH, theme.StatusBar)
	fb.StrokeRect(0, layout.StatusBar, fb.W, layout.StatusH, 1, theme.Border)
	return layout
}

// ButtonColors is the fill for each button state plus the border.
type ButtonColors struct {
	Normal, Active, Hover, Border color.RGBA
}

var (
	MenuButtonColors = ButtonColors{
		Normal: color.RGBA{R: 46, G: 84, B: 145, A: 255},
		Active: color.RGBA{R: 71, G: 116, B: 186, A: 255},
		Hover:  color.RGBA{R: 58, G: 102, B: 172, A: 255},
		Border: color.RGBA{R: 27, G: 54, B: 97, A: 255},
	}
	ToolButtonColors = ButtonColors{
		Normal: color.RGBA{R: 241, G: 245, B: 251, A: 255},
		Active: color.RGBA{R: 215, G: 229, B: 248, A: 255},
		Hover:  color.RGBA{R: 223, G: 236, B: 252, A: 255},
		Border: color.RGBA{R: 181, G: 194, B: 214, A: 255},
	}
)

// DrawButton fills r for the given state and outlines it. Hover wins over
// active.
func DrawButton(fb *render.FrameBuffer, r Rect, colors ButtonColors, active, hover bool) {
	bg := colors.Normal
	if active {
		bg = colors.Active
	}
	if hover {
		bg = colors.Hover
	}
	fb.FillRect(r.X, r.Y, r.W, r.H, bg)
	fb.StrokeRect(r.X, r.Y, r.W, r.H, 1, colors.Border)
}
