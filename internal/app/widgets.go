package app

import (
	"image/color"
	"math"

	"techdraw/internal/editor"
	"techdraw/internal/ui"
	"techdraw/pkg/drawdoc"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type actionButton struct {
	id     string
	label  string
	r      ui.Rect
	active bool
}

type colorSwatch struct {
	value string
	r     ui.Rect
}

type fontKey struct {
	size  int
	bold  bool
	scale int
}

type fontBank struct {
	regular *opentype.Font
	bold    *opentype.Font
	cache   map[fontKey]font.Face
}

func newFontBank() fontBank {
	bank := fontBank{cache: map[fontKey]font.Face{}}
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return bank
	}
	bol, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return bank
	}
	bank.regular = reg
	bank.bold = bol
	return bank
}

// uiFace returns a cached face for the UI, scaled by the current UI scale.
func (a *App) uiFace(size int, bold bool) font.Face {
	scaleKey := int(math.Round(float64(a.scale() * 1000)))
	key := fontKey{size: size, bold: bold, scale: scaleKey}
	if f, ok := a.fonts.cache[key]; ok {
		return f
	}
	base := a.fonts.regular
	if bold {
		base = a.fonts.bold
	}
	if base == nil {
		return basicfont.Face7x13
	}
	opts := &opentype.FaceOptions{Size: float64(size) * float64(a.scale()), DPI: 72, Hinting: font.HintingFull}
	face, err := opentype.NewFace(base, opts)
	if err != nil {
		return basicfont.Face7x13
	}
	a.fonts.cache[key] = face
	return face
}

func measureString(face font.Face, s string) int {
	if face == nil || s == "" {
		return 0
	}
	adv := font.MeasureString(face, s)
	return max(0, (int(adv)+32)>>6)
}

// layoutMenu places the file and history buttons on the menu bar and paints
// them into the chrome buffer.
func (a *App) layoutMenu(face font.Face, layout ui.Layout) {
	a.menuActions = a.menuActions[:0]
	pad := int(8 * a.scale())
	h := layout.MenuH - 2*int(5*a.scale())
	y := (layout.MenuH - h) / 2
	x := pad
	s := a.sess.State()
	for _, b := range []actionButton{
		{id: "new", label: "New"},
		{id: "open", label: "Open"},
		{id: "import", label: "Import"},
		{id: "save", label: "Save"},
		{id: "save_as", label: "Save As"},
		{id: "export_png", label: "PNG"},
		{id: "export_svg", label: "SVG"},
		{id: "export_pdf", label: "PDF"},
		{id: "undo", label: "Undo", active: s.CanUndo()},
		{id: "redo", label: "Redo", active: s.CanRedo()},
		{id: "security", label: "Security", active: a.security.encryption},
		{id: "ui_smaller", label: "A-"},
		{id: "ui_larger", label: "A+"},
		{id: "help", label: "Help"},
	} {
		w := measureString(face, b.label) + 2*pad
		b.r = ui.Rect{X: x, Y: y, W: w, H: h}
		a.menuActions = append(a.menuActions, b)
		x += w + pad/2
	}
	a.paintButtons(a.menuActions, ui.MenuButtonColors)
}

// layoutToolbar places tool, style, view, page and layer controls.
func (a *App) layoutToolbar(face font.Face, layout ui.Layout) {
	a.toolbarActions = a.toolbarActions[:0]
	a.swatches = a.swatches[:0]
	s := a.sess.State()
	pad := int(8 * a.scale())
	gap := pad * 2
	h := layout.ToolbarH - 2*int(6*a.scale())
	y := layout.MenuH + (layout.ToolbarH-h)/2
	x := pad

	add := func(id, label string, active bool) {
		w := measureString(face, label) + 2*pad
		a.toolbarActions = append(a.toolbarActions, actionButton{id: id, label: label, r: ui.Rect{X: x, Y: y, W: w, H: h}, active: active})
		x += w + pad/2
	}

	for _, t := range editor.Tools {
		add("tool:"+string(t), toolLabel(t), s.Tool == t)
	}
	x += gap
	add("width_down", "W-", false)
	add("width_up", "W+", false)

	current := a.currentColor()
	for _, c := range a.palette {
		r := ui.Rect{X: x, Y: y + h/6, W: h * 2 / 3, H: h * 2 / 3}
		a.swatches = append(a.swatches, colorSwatch{value: c, r: r})
		fill := drawdoc.ParseColor(c)
		a.chrome.FillRect(r.X, r.Y, r.W, r.H, fill)
		border := ui.ToolButtonColors.Border
		if c == current {
			border = a.theme.Accent
		}
		a.chrome.StrokeRect(r.X, r.Y, r.W, r.H, 2, border)
		x += r.W + pad/2
	}
	x += gap

	add("grid", "Grid", s.GridVisible)
	add("snap", "Snap", s.SnapToGrid)
	add("units", string(s.Units), false)
	x += gap
	add("zoom_out", "-", false)
	add("zoom_in", "+", false)
	add("zoom_fit", "Fit", false)
	x += gap
	add("page_prev", "<", false)
	add("page_next", ">", false)
	add("page_add", "+Pg", false)
	add("page_del", "-Pg", s.TotalPages > 1)
	x += gap
	layer := s.CurrentLayer()
	add("layer_next", layer.Name, false)
	add("layer_add", "+L", false)
	add("layer_visible", "Hide", !layer.Visible)
	add("layer_lock", "Lock", layer.Locked)

	a.paintButtons(a.toolbarActions, ui.ToolButtonColors)
}

func (a *App) paintButtons(buttons []actionButton, colors ui.ButtonColors) {
	mx, my := ebiten.CursorPosition()
	for _, b := range buttons {
		ui.DrawButton(a.chrome, b.r, colors, b.active, b.r.Contains(mx, my))
	}
}

func (a *App) drawButtonLabels(screen *ebiten.Image, face font.Face, buttons []actionButton, clr color.Color) {
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textH := ascent + metrics.Descent.Ceil()
	for _, b := range buttons {
		w := measureString(face, b.label)
		x := b.r.X + (b.r.W-w)/2
		y := b.r.Y + (b.r.H-textH)/2 + ascent
		text.Draw(screen, b.label, face, x, y, clr)
	}
}

// actionAt resolves a click on the menu bar or toolbar.
func (a *App) actionAt(x, y int) (string, bool) {
	for _, b := range a.menuActions {
		if b.r.Contains(x, y) {
			return b.id, true
		}
	}
	for _, b := range a.toolbarActions {
		if b.r.Contains(x, y) {
			return b.id, true
		}
	}
	for _, sw := range a.swatches {
		if sw.r.Contains(x, y) {
			return "color:" + sw.value, true
		}
	}
	return "", false
}

func toolLabel(t editor.Tool) string {
	switch t {
	case editor.ToolSelect:
		return "Select"
	case editor.ToolLine:
		return "Line"
	case editor.ToolAngle:
		return "Angle"
	case editor.ToolFreehand:
		return "Freehand"
	case editor.ToolEraser:
		return "Eraser"
	case editor.ToolText:
		return "Text"
	}
	return string(t)
}

func fillRect(screen *ebiten.Image, r ui.Rect, clr color.Color) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func strokeRect(screen *ebiten.Image, r ui.Rect, clr color.Color) {
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, clr, false)
}
