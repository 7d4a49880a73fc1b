package app

import (
	"unicode"

	"techdraw/internal/editor"
	"techdraw/internal/platform"
	"techdraw/pkg/geom"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// inputState remembers which buttons were pressed inside the canvas so the
// matching release is delivered even when it happens outside.
type inputState struct {
	lastX, lastY int
	captured     [3]bool
}

func (in *inputState) anyCaptured() bool {
	return in.captured[0] || in.captured[1] || in.captured[2]
}

var mouseButtons = [3]struct {
	native ebiten.MouseButton
	button platform.Button
}{
	{ebiten.MouseButtonLeft, platform.ButtonLeft},
	{ebiten.MouseButtonRight, platform.ButtonRight},
	{ebiten.MouseButtonMiddle, platform.ButtonMiddle},
}

var keyNames = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyDelete, platform.KeyDelete},
	{ebiten.KeyBackspace, platform.KeyBackspace},
	{ebiten.KeyEscape, platform.KeyEscape},
	{ebiten.KeyEnter, platform.KeyEnter},
	{ebiten.KeyKPEnter, platform.KeyEnter},
	{ebiten.KeyZ, platform.KeyZ},
	{ebiten.KeyY, platform.KeyY},
	{ebiten.KeyA, platform.KeyA},
}

func currentMods() platform.Modifiers {
	var m platform.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= platform.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= platform.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= platform.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= platform.ModMeta
	}
	return m
}

func pointAt(x, y int) geom.Point { return geom.Pt(float64(x), float64(y)) }

// canvasEvents translates this frame's ebiten input into session events in
// canvas coordinates.
func (a *App) canvasEvents(mods platform.Modifiers) []platform.Event {
	c := a.layout.Canvas
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx-c.X), float64(my-c.Y)
	inside := c.Contains(mx, my)

	var evs []platform.Event
	if mx != a.input.lastX || my != a.input.lastY {
		a.input.lastX, a.input.lastY = mx, my
		if inside || a.input.anyCaptured() {
			evs = append(evs, platform.Event{Type: platform.EventMouseMove, X: x, Y: y, Mods: mods})
		}
	}

	for i, b := range mouseButtons {
		if inside && inpututil.IsMouseButtonJustPressed(b.native) {
			a.input.captured[i] = true
			evs = append(evs, platform.Event{Type: platform.EventMouseDown, Button: b.button, X: x, Y: y, Mods: mods})
		}
		if a.input.captured[i] && inpututil.IsMouseButtonJustReleased(b.native) {
			a.input.captured[i] = false
			evs = append(evs, platform.Event{Type: platform.EventMouseUp, Button: b.button, X: x, Y: y, Mods: mods})
		}
	}

	if inside {
		if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
			evs = append(evs, platform.Event{Type: platform.EventMouseWheel, DeltaX: wx, DeltaY: wy, X: x, Y: y, Mods: mods})
		}
	}

	for _, k := range keyNames {
		if inpututil.IsKeyJustPressed(k.key) {
			evs = append(evs, platform.Event{Type: platform.EventKeyDown, Key: k.name, Mods: mods})
		}
	}

	if !mods.Shortcut() {
		for _, r := range ebiten.AppendInputChars(nil) {
			if !unicode.IsPrint(r) {
				continue
			}
			evs = append(evs, platform.Event{Type: platform.EventTextInput, Rune: r, Mods: mods})
		}
	}
	return evs
}

var toolKeys = []struct {
	key  ebiten.Key
	tool editor.Tool
}{
	{ebiten.KeyDigit1, editor.ToolSelect},
	{ebiten.KeyDigit2, editor.ToolLine},
	{ebiten.KeyDigit3, editor.ToolAngle},
	{ebiten.KeyDigit4, editor.ToolFreehand},
	{ebiten.KeyDigit5, editor.ToolEraser},
	{ebiten.KeyDigit6, editor.ToolText},
}

// handleShortcuts runs the application-level key bindings. It reports
// whether the frame's input was consumed.
func (a *App) handleShortcuts(mods platform.Modifiers) bool {
	editing := a.sess.State().TextEdit != nil
	if !mods.Shortcut() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
			a.invokeAction("page_prev")
			return true
		case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
			a.invokeAction("page_next")
			return true
		}
		if editing {
			return false
		}
		for _, tk := range toolKeys {
			if inpututil.IsKeyJustPressed(tk.key) {
				a.sess.SetTool(tk.tool)
				return true
			}
		}
		return false
	}

	shift := mods.Has(platform.ModShift)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		a.invokeAction("new")
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		a.invokeAction("open")
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		a.invokeAction("import")
	case inpututil.IsKeyJustPressed(ebiten.KeyS) && shift:
		a.invokeAction("save_as")
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.invokeAction("save")
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		a.invokeAction("security")
	case inpututil.IsKeyJustPressed(ebiten.KeyC) && shift:
		a.invokeAction("copy_image")
	case inpututil.IsKeyJustPressed(ebiten.KeyC) && !editing:
		a.invokeAction("copy")
	case inpututil.IsKeyJustPressed(ebiten.KeyV) && !editing:
		a.invokeAction("paste")
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		a.invokeAction("zoom_in")
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		a.invokeAction("zoom_out")
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit0):
		a.invokeAction("zoom_fit")
	default:
		return false
	}
	return true
}
