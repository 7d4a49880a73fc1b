package app

import (
	"fmt"
	"log"
	"path/filepath"

	"techdraw/internal/config"
	"techdraw/internal/editor"
	"techdraw/internal/render"
	"techdraw/internal/session"
	"techdraw/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

type App struct {
	cfg   *config.Config
	prefs *config.Prefs
	theme ui.Theme

	sess     *session.Session
	renderer *render.Renderer

	chrome    *render.FrameBuffer
	chromeImg *ebiten.Image
	canvasImg *ebiten.Image
	layout    ui.Layout
	canvasW   int
	canvasH   int

	fonts      fontBank
	uiScales   []float32
	uiScaleIdx int
	status     string
	frameTick  uint64

	menuActions    []actionButton
	toolbarActions []actionButton
	swatches       []colorSwatch
	palette        []string

	input inputState

	showHelp  bool
	helpRect  ui.Rect
	helpClose ui.Rect

	security securityPanel
	prompt   passwordPrompt

	imageClipboard bool

	screenW int
	screenH int
}

func New(cfg *config.Config) (*App, error) {
	fonts, err := render.NewFonts()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	theme := ui.DefaultTheme()
	a := &App{
		cfg:            cfg,
		prefs:          config.LoadPrefs(cfg.PrefsPath),
		theme:          theme,
		renderer:       render.NewRenderer(theme.RenderStyle(), fonts),
		fonts:          newFontBank(),
		uiScales:       []float32{1.0, 1.25, 1.5, 2.0},
		status:         "Untitled drawing",
		menuActions:    make([]actionButton, 0, 16),
		toolbarActions: make([]actionButton, 0, 32),
		swatches:       make([]colorSwatch, 0, 8),
		palette:        []string{"#000000", "#1f2937", "#1d4ed8", "#dc2626", "#15803d", "#ea580c", "#7c3aed", "#6b7280"},
		security:       securityPanel{compression: true},
	}
	a.newSession()
	return a, nil
}

// newSession starts an empty drawing with the configured defaults and the
// stored preferences applied.
func (a *App) newSession() {
	a.sess = session.New(a.cfg.InitialState(), a.renderer)
	a.sess.Dispatch(a.prefs.Actions()...)
	a.canvasW, a.canvasH = 0, 0
}

// OpenPath loads path before the window opens, e.g. from the command line.
func (a *App) OpenPath(path string) {
	a.openFile(filepath.Clean(path))
}

func (a *App) Run() error {
	ebiten.SetWindowTitle("techdraw")
	ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(900, 560, -1, -1)
	err := ebiten.RunGame(a)

	a.prefs.Capture(a.sess.State())
	if perr := a.prefs.Save(); perr != nil {
		log.Printf("[APP] saving preferences failed: %v", perr)
	}
	if err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) scale() float32 { return a.uiScales[a.uiScaleIdx] }

func (a *App) Update() error {
	a.frameTick++
	w, h := a.currentViewportSize()
	a.layout = ui.ComputeLayout(w, h, a.theme, a.scale())
	if c := a.layout.Canvas; c.W != a.canvasW || c.H != a.canvasH {
		a.canvasW, a.canvasH = c.W, c.H
		a.sess.Resize(c.W, c.H, 1)
	}

	if done, err := a.sess.PollImport(); done {
		if err != nil {
			a.status = "Import failed: " + err.Error()
		} else {
			a.status = "Import complete"
		}
	}

	mods := currentMods()
	ctrl := mods.Shortcut()

	if a.prompt.show {
		a.updatePasswordPrompt(ctrl)
		return nil
	}
	if a.security.show {
		a.updateSecurityPanel(ctrl)
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showHelp = !a.showHelp
	}
	if a.showHelp {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			a.showHelp = false
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			if !a.helpRect.Contains(x, y) || a.helpClose.Contains(x, y) {
				a.showHelp = false
			}
		}
		return nil
	}

	if a.handleShortcuts(mods) {
		return nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if id, ok := a.actionAt(x, y); ok {
			a.invokeAction(id)
			return nil
		}
	}

	for _, ev := range a.canvasEvents(mods) {
		a.sess.HandleEvent(ev)
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.chrome == nil || a.chrome.W != w || a.chrome.H != h {
		a.chrome = render.NewFrameBuffer(w, h)
		a.chromeImg = ebiten.NewImage(w, h)
	}

	layout := ui.DrawShell(a.chrome, a.theme, a.scale())
	menuFace := a.uiFace(11, false)
	toolbarFace := a.uiFace(11, false)
	statusFace := a.uiFace(10, false)

	a.layoutMenu(menuFace, layout)
	a.layoutToolbar(toolbarFace, layout)
	a.chromeImg.WritePixels(a.chrome.Pixels)
	screen.DrawImage(a.chromeImg, nil)

	a.drawCanvas(screen, layout)

	a.drawButtonLabels(screen, menuFace, a.menuActions, a.theme.TextOnBar)
	a.drawButtonLabels(screen, toolbarFace, a.toolbarActions, a.theme.Text)

	left, right := a.statusText()
	text.Draw(screen, left, statusFace, 12, h-10, a.theme.Text)
	text.Draw(screen, right, statusFace, w/2, h-10, a.theme.Text)

	a.drawSecurityPanel(screen, w, h)
	a.drawPasswordPrompt(screen, w, h)
	if a.showHelp {
		a.drawHelpOverlay(screen, toolbarFace)
	}
}

// drawCanvas copies the session's frame buffer into the canvas area.
func (a *App) drawCanvas(screen *ebiten.Image, layout ui.Layout) {
	fb, drew := a.sess.Render()
	if fb == nil || fb.W == 0 || fb.H == 0 {
		return
	}
	if a.canvasImg == nil || a.canvasImg.Bounds().Dx() != fb.W || a.canvasImg.Bounds().Dy() != fb.H {
		a.canvasImg = ebiten.NewImage(fb.W, fb.H)
		drew = true
	}
	if drew {
		a.canvasImg.WritePixels(fb.Pixels)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(layout.Canvas.X), float64(layout.Canvas.Y))
	screen.DrawImage(a.canvasImg, op)
}

func (a *App) statusText() (string, string) {
	s := a.sess.State()
	layer := s.CurrentLayer()
	left := fmt.Sprintf("[ %s ] [ %s ] [ Page %d/%d ] [ Zoom %.0f%% ]",
		toolLabel(s.Tool), layer.Name, s.CurrentPage, s.TotalPages, s.Zoom*100)
	if s.Tool == editor.ToolAngle {
		if n := a.sess.Controller().AngleClicks(); n > 0 {
			left += fmt.Sprintf(" [ Click %d/3 ]", n+1)
		}
	}
	if x, y, ok := a.cursorOnPage(); ok {
		left += fmt.Sprintf(" [ %s, %s ]", s.Units.FormatLength(x), s.Units.FormatLength(y))
	}

	name := a.sess.Path()
	if name == "" {
		name = "Untitled"
	} else {
		name = filepath.Base(name)
	}
	right := fmt.Sprintf("[ %s ] [ %s ]", name, a.status)
	if a.sess.ImportPending() {
		right = "[ Importing... ] " + right
	}
	return left, right
}

// cursorOnPage returns the cursor position relative to the top-left of the
// page under it.
func (a *App) cursorOnPage() (float64, float64, bool) {
	mx, my := ebiten.CursorPosition()
	c := a.layout.Canvas
	if !c.Contains(mx, my) {
		return 0, 0, false
	}
	v := a.sess.Viewport()
	p := v.SurfaceToDocument(pointAt(mx-c.X, my-c.Y))
	n := v.PageAt(p)
	if n == 0 {
		return 0, 0, false
	}
	d := p.Sub(v.PageBounds(n).TopLeft())
	return d.X, d.Y, true
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth < 900 {
		outsideWidth = 900
	}
	if outsideHeight < 560 {
		outsideHeight = 560
	}
	a.screenW = outsideWidth
	a.screenH = outsideHeight
	return outsideWidth, outsideHeight
}

func (a *App) currentViewportSize() (int, int) {
	if a.screenW > 0 && a.screenH > 0 {
		return a.screenW, a.screenH
	}
	w, h := ebiten.WindowSize()
	if w <= 0 {
		w = a.cfg.Width
	}
	if h <= 0 {
		h = a.cfg.Height
	}
	return w, h
}

func (a *App) bumpUIScale(delta int) {
	prev := a.uiScaleIdx
	a.uiScaleIdx = max(0, min(a.uiScaleIdx+delta, len(a.uiScales)-1))
	if prev != a.uiScaleIdx {
		a.fonts.cache = map[fontKey]font.Face{}
	}
	a.status = fmt.Sprintf("UI scale %.0f%%", a.scale()*100)
}
