package app

import (
	"image/color"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"techdraw/internal/ui"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

const maxPasswordLen = 128

var (
	overlayDim   = color.RGBA{R: 0, G: 0, B: 0, A: 90}
	panelFill    = color.RGBA{R: 249, G: 251, B: 254, A: 255}
	panelBorder  = color.RGBA{R: 160, G: 176, B: 198, A: 255}
	buttonFill   = color.RGBA{R: 236, G: 241, B: 248, A: 255}
	primaryFill  = color.RGBA{R: 217, G: 233, B: 250, A: 255}
	inputBorder  = color.RGBA{R: 170, G: 184, B: 202, A: 255}
	focusBorder  = color.RGBA{R: 77, G: 134, B: 205, A: 255}
	focusFill    = color.RGBA{R: 244, G: 249, B: 255, A: 255}
	caretColor   = color.RGBA{R: 21, G: 84, B: 164, A: 255}
	titleColor   = color.RGBA{R: 24, G: 38, B: 56, A: 255}
	labelColor   = color.RGBA{R: 52, G: 66, B: 92, A: 255}
	errorColor   = color.RGBA{R: 165, G: 35, B: 35, A: 255}
	checkColor   = color.RGBA{R: 46, G: 102, B: 182, A: 255}
	checkBorder  = color.RGBA{R: 130, G: 148, B: 176, A: 255}
	inputFill    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	helpTextFill = color.RGBA{R: 48, G: 60, B: 78, A: 255}
)

// editPassword applies this frame's typing, backspace and ctrl+V paste to
// s. It reports whether anything was consumed.
func editPassword(s *string, ctrl bool) bool {
	consumed := false
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if len(*s) > 0 {
			_, size := utf8.DecodeLastRuneInString(*s)
			*s = (*s)[:len(*s)-max(size, 1)]
		}
		consumed = true
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		if clip, err := clipboard.ReadAll(); err == nil && clip != "" {
			*s = truncatePassword(*s + clip)
		}
		consumed = true
	}
	if ctrl {
		return consumed
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x20 || r == 0x7F || !utf8.ValidRune(r) {
			continue
		}
		*s = truncatePassword(*s + string(r))
		consumed = true
	}
	return consumed
}

func truncatePassword(s string) string {
	for len(s) > maxPasswordLen {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-max(size, 1)]
	}
	return s
}

func enterPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter)
}

func centered(w, h, pw, ph int) ui.Rect {
	pw = min(pw, w-40)
	ph = min(ph, h-40)
	return ui.Rect{X: (w - pw) / 2, Y: (h - ph) / 2, W: pw, H: ph}
}

func drawPanel(screen *ebiten.Image, r ui.Rect) {
	fillRect(screen, r, panelFill)
	strokeRect(screen, r, panelBorder)
}

func (a *App) drawInput(screen *ebiten.Image, r ui.Rect, face font.Face, value string, focused bool) {
	bg, border := inputFill, inputBorder
	if focused {
		bg, border = focusFill, focusBorder
	}
	fillRect(screen, r, bg)
	strokeRect(screen, r, border)
	masked := strings.Repeat("*", utf8.RuneCountInString(value))
	baseline := r.Y + (r.H+face.Metrics().Ascent.Ceil())/2
	text.Draw(screen, masked, face, r.X+8, baseline, labelColor)
	if focused && (a.frameTick/30)%2 == 0 {
		caretX := float64(r.X + 8 + measureString(face, masked))
		ebitenutil.DrawLine(screen, caretX, float64(r.Y+7), caretX, float64(r.Y+r.H-7), caretColor)
	}
}

func drawCheckbox(screen *ebiten.Image, r ui.Rect, checked bool) {
	fillRect(screen, r, inputFill)
	strokeRect(screen, r, checkBorder)
	if checked {
		fillRect(screen, ui.Rect{X: r.X + 4, Y: r.Y + 4, W: r.W - 8, H: r.H - 8}, checkColor)
	}
}

// securityPanel holds the envelope settings used by Save and the password
// tried first by Open and Import.
type securityPanel struct {
	show        bool
	compression bool
	encryption  bool
	password    string
	inputActive bool

	panel, close, comp, enc, pass ui.Rect
}

func (p *securityPanel) layout(w, h int, scale float32) {
	p.panel = centered(w, h, int(520*scale), int(240*scale))
	x, y, pw := p.panel.X, p.panel.Y, p.panel.W
	p.close = ui.Rect{X: x + pw - 88, Y: y + 10, W: 72, H: 26}
	p.comp = ui.Rect{X: x + 20, Y: y + 58, W: 18, H: 18}
	p.enc = ui.Rect{X: x + 20, Y: y + 92, W: 18, H: 18}
	p.pass = ui.Rect{X: x + 20, Y: y + 136, W: pw - 40, H: 30}
}

func (a *App) updateSecurityPanel(ctrl bool) {
	p := &a.security
	if p.inputActive {
		if enterPressed() {
			p.inputActive = false
		} else {
			editPassword(&p.password, ctrl)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.show, p.inputActive = false, false
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	switch {
	case !p.panel.Contains(x, y), p.close.Contains(x, y):
		p.show, p.inputActive = false, false
	case p.comp.Contains(x, y):
		p.compression = !p.compression
		a.status = onOff("Compression", p.compression)
	case p.enc.Contains(x, y):
		p.encryption = !p.encryption
		p.inputActive = p.encryption
		a.status = onOff("AES-256 encryption", p.encryption)
	case p.pass.Contains(x, y):
		if p.encryption {
			p.inputActive = true
		} else {
			a.status = "Enable AES-256 first"
		}
	default:
		p.inputActive = false
	}
}

func onOff(what string, on bool) string {
	if on {
		return what + " enabled"
	}
	return what + " disabled"
}

func (a *App) drawSecurityPanel(screen *ebiten.Image, w, h int) {
	p := &a.security
	if !p.show {
		return
	}
	p.layout(w, h, a.scale())
	titleFace := a.uiFace(12, true)
	labelFace := a.uiFace(10, false)

	drawPanel(screen, p.panel)
	fillRect(screen, p.close, buttonFill)
	strokeRect(screen, p.close, inputBorder)
	drawCheckbox(screen, p.comp, p.compression)
	drawCheckbox(screen, p.enc, p.encryption)
	a.drawInput(screen, p.pass, labelFace, p.password, p.inputActive)

	text.Draw(screen, "File Security", titleFace, p.panel.X+16, p.panel.Y+24, titleColor)
	text.Draw(screen, "Close", labelFace, p.close.X+18, p.close.Y+p.close.H-8, labelColor)
	text.Draw(screen, "Compression (zlib)", labelFace, p.comp.X+28, p.comp.Y+14, labelColor)
	text.Draw(screen, "AES-256 password protection", labelFace, p.enc.X+28, p.enc.Y+14, labelColor)
	text.Draw(screen, "Password", labelFace, p.pass.X, p.pass.Y-6, labelColor)
	text.Draw(screen, "Save uses these settings. Open and Import try this password first.",
		labelFace, p.panel.X+16, p.panel.Y+p.panel.H-12, labelColor)
}

// passwordPrompt asks for the password of an encrypted drawing before it is
// opened or imported.
type passwordPrompt struct {
	show      bool
	importing bool
	path      string
	input     string
	err       string

	panel, field, submit, cancel ui.Rect
}

func (p *passwordPrompt) open(path string, importing bool, msg string) {
	*p = passwordPrompt{show: true, importing: importing, path: path, err: msg}
}

func (p *passwordPrompt) close() { *p = passwordPrompt{} }

func (p *passwordPrompt) layout(w, h int, scale float32) {
	p.panel = centered(w, h, int(460*scale), int(210*scale))
	x, y, pw, ph := p.panel.X, p.panel.Y, p.panel.W, p.panel.H
	p.field = ui.Rect{X: x + 20, Y: y + 84, W: pw - 40, H: 34}
	p.submit = ui.Rect{X: x + pw - 186, Y: y + ph - 46, W: 80, H: 30}
	p.cancel = ui.Rect{X: x + pw - 96, Y: y + ph - 46, W: 80, H: 30}
}

func (a *App) updatePasswordPrompt(ctrl bool) {
	p := &a.prompt
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.close()
		return
	}
	if enterPressed() {
		a.submitPassword()
		return
	}
	editPassword(&p.input, ctrl)
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	switch {
	case !p.panel.Contains(x, y), p.cancel.Contains(x, y):
		p.close()
	case p.submit.Contains(x, y):
		a.submitPassword()
	}
}

func (a *App) submitPassword() {
	p := a.prompt
	a.prompt.close()
	if p.importing {
		if err := a.startImport(p.path, p.input); err != nil {
			a.fail("Import", err)
			return
		}
	} else if !a.loadFile(p.path, p.input) {
		return
	}
	a.security.password = p.input
	a.security.encryption = true
}

func (a *App) drawPasswordPrompt(screen *ebiten.Image, w, h int) {
	p := &a.prompt
	if !p.show {
		return
	}
	p.layout(w, h, a.scale())
	titleFace := a.uiFace(12, true)
	labelFace := a.uiFace(10, false)

	fillRect(screen, ui.Rect{W: w, H: h}, overlayDim)
	drawPanel(screen, p.panel)
	a.drawInput(screen, p.field, labelFace, p.input, true)
	fillRect(screen, p.submit, primaryFill)
	fillRect(screen, p.cancel, buttonFill)

	r := p.panel
	verb := "open"
	if p.importing {
		verb = "import"
	}
	text.Draw(screen, "Password Required", titleFace, r.X+20, r.Y+30, titleColor)
	text.Draw(screen, "File: "+filepath.Base(p.path), labelFace, r.X+20, r.Y+54, labelColor)
	text.Draw(screen, "Enter password to "+verb+" this encrypted drawing:", labelFace, r.X+20, r.Y+74, labelColor)
	if p.err != "" {
		text.Draw(screen, p.err, labelFace, r.X+20, p.field.Y+p.field.H+22, errorColor)
	}
	text.Draw(screen, "OK", labelFace, p.submit.X+30, p.submit.Y+20, caretColor)
	text.Draw(screen, "Cancel", labelFace, p.cancel.X+20, p.cancel.Y+20, labelColor)
}

var helpLines = []string{
	"1-6: Select / Line / Angle / Freehand / Eraser / Text",
	"Angle: click vertex, then baseline end, then the arm",
	"Shift+click: add to or remove from the selection",
	"Ctrl+S: Save | Ctrl+Shift+S: Save As | Ctrl+O: Open | Ctrl+N: New",
	"Ctrl+I: Import | Ctrl+E: File security",
	"Ctrl+Z: Undo | Ctrl+Y or Ctrl+Shift+Z: Redo | Ctrl+A: Select all",
	"Ctrl+C / Ctrl+V: Copy / paste elements | Ctrl+Shift+C: Copy as image",
	"Delete: remove selection | Esc: cancel or clear selection",
	"Wheel: scroll | Shift+wheel: horizontal | Ctrl+wheel: zoom",
	"Right or middle drag: pan | PageUp/PageDown: previous/next page",
	"Ctrl+= / Ctrl+-: Zoom | Ctrl+0: Fit width",
	"F1 or Esc closes this dialog",
}

func (a *App) drawHelpOverlay(screen *ebiten.Image, face font.Face) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	a.helpRect = centered(w, h, int(float64(w)*0.68), int(float64(h)*0.68))
	r := a.helpRect
	a.helpClose = ui.Rect{X: r.X + r.W - 94, Y: r.Y + 12, W: 78, H: 30}

	fillRect(screen, ui.Rect{W: w, H: h}, overlayDim)
	drawPanel(screen, r)
	fillRect(screen, a.helpClose, buttonFill)
	text.Draw(screen, "Close", face, a.helpClose.X+22, a.helpClose.Y+20, labelColor)
	text.Draw(screen, "Help", a.uiFace(12, true), r.X+22, r.Y+30, titleColor)

	y := r.Y + 62
	labelFace := a.uiFace(10, false)
	for _, l := range helpLines {
		text.Draw(screen, l, labelFace, r.X+20, y, helpTextFill)
		y += int(24 * a.scale())
	}
}
