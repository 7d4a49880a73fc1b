package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"techdraw/internal/editor"
	"techdraw/pkg/drawdoc"

	"github.com/atotto/clipboard"
	"github.com/sqweek/dialog"
	imgclip "golang.design/x/clipboard"
)

const (
	drawingFilter = "Drawing files"
	minWidth      = 1.0
	maxWidth      = 40.0
	minFontSize   = 6.0
	maxFontSize   = 96.0
)

var errNoFile = errors.New("no file selected")

func (a *App) invokeAction(id string) {
	if strings.HasPrefix(id, "tool:") {
		a.sess.SetTool(editor.Tool(strings.TrimPrefix(id, "tool:")))
		return
	}
	if strings.HasPrefix(id, "color:") {
		a.setColor(strings.TrimPrefix(id, "color:"))
		return
	}

	switch id {
	case "new":
		a.newSession()
		a.status = "New drawing"
	case "open":
		if err := a.openDialog(); err != nil {
			a.fail("Open", err)
		}
	case "import":
		if err := a.importDialog(); err != nil {
			a.fail("Import", err)
		}
	case "save":
		if err := a.saveDrawing(false); err != nil {
			a.fail("Save", err)
		}
	case "save_as":
		if err := a.saveDrawing(true); err != nil {
			a.fail("Save As", err)
		}
	case "export_png":
		a.exportDialog("PNG image", "png", func(w io.Writer) error { return a.sess.ExportPNG(w) })
	case "export_svg":
		a.exportDialog("SVG image", "svg", func(w io.Writer) error { return a.sess.ExportSVG(w) })
	case "export_pdf":
		a.exportDialog("PDF document", "pdf", func(w io.Writer) error { return a.sess.ExportPDF(w) })
	case "copy":
		a.copySelection()
	case "paste":
		a.paste()
	case "copy_image":
		a.copyImage()
	case "undo":
		a.sess.Undo()
	case "redo":
		a.sess.Redo()
	case "ui_larger":
		a.bumpUIScale(1)
	case "ui_smaller":
		a.bumpUIScale(-1)
	case "help":
		a.showHelp = !a.showHelp
	case "security":
		a.security.show = !a.security.show
		a.security.inputActive = a.security.show && a.security.encryption
	case "width_down":
		a.stepWidth(-1)
	case "width_up":
		a.stepWidth(1)
	case "grid":
		a.sess.Dispatch(editor.SetGridVisible{Visible: !a.sess.State().GridVisible})
	case "snap":
		a.sess.Dispatch(editor.SetSnapToGrid{Enabled: !a.sess.State().SnapToGrid})
	case "units":
		a.cycleUnits()
	case "zoom_in":
		a.sess.ZoomIn()
	case "zoom_out":
		a.sess.ZoomOut()
	case "zoom_fit":
		a.sess.FitWidth()
	case "page_prev":
		a.sess.GoToPage(a.sess.State().CurrentPage - 1)
	case "page_next":
		a.sess.GoToPage(a.sess.State().CurrentPage + 1)
	case "page_add":
		a.sess.AddPage()
		a.status = fmt.Sprintf("Added page %d", a.sess.State().TotalPages)
	case "page_del":
		s := a.sess.State()
		if s.TotalPages > 1 {
			a.sess.DeletePage(s.CurrentPage)
			a.status = fmt.Sprintf("Deleted page %d", s.CurrentPage)
		}
	case "layer_next":
		a.cycleLayer()
	case "layer_add":
		a.addLayer()
	case "layer_visible":
		l := a.sess.State().CurrentLayer()
		visible := !l.Visible
		a.sess.Dispatch(editor.UpdateLayer{ID: l.ID, Patch: editor.LayerPatch{Visible: &visible}})
	case "layer_lock":
		l := a.sess.State().CurrentLayer()
		locked := !l.Locked
		a.sess.Dispatch(editor.UpdateLayer{ID: l.ID, Patch: editor.LayerPatch{Locked: &locked}})
	}
}

func (a *App) fail(what string, err error) {
	if errors.Is(err, dialog.ErrCancelled) {
		return
	}
	a.status = what + " failed: " + err.Error()
	log.Printf("[APP] %s failed: %v", strings.ToLower(what), err)
}

func (a *App) fileDialog(title, desc string, exts ...string) *dialog.FileBuilder {
	b := dialog.File().Title(title).Filter(desc, exts...)
	if dir := a.prefs.LastDir(); dir != "" {
		b = b.SetStartDir(dir)
	}
	return b
}

func (a *App) remember(path string) {
	a.prefs.SetLastDir(filepath.Dir(path))
}

func (a *App) openDialog() error {
	path, err := a.fileDialog("Open drawing", drawingFilter, "json", "tdraw").Load()
	if err != nil {
		return err
	}
	if path == "" {
		return errNoFile
	}
	a.openFile(filepath.Clean(path))
	return nil
}

// openFile loads path, asking for a password first when the file is
// encrypted and none is set.
func (a *App) openFile(path string) {
	env, err := drawdoc.InspectEnvelope(path)
	if err != nil {
		a.fail("Open", err)
		return
	}
	a.applyEnvelopeSettings(env)
	if env.Encrypted && strings.TrimSpace(a.security.password) == "" {
		a.prompt.open(path, false, "")
		a.status = "Password required to open encrypted drawing"
		return
	}
	a.loadFile(path, a.security.password)
}

// loadFile opens path with password and reports whether it succeeded.
func (a *App) loadFile(path, password string) bool {
	err := a.sess.Open(path, drawdoc.LoadOptions{Password: password})
	switch {
	case errors.Is(err, drawdoc.ErrPasswordRequired):
		a.prompt.open(path, false, "")
	case errors.Is(err, drawdoc.ErrInvalidPassword):
		a.prompt.open(path, false, "Incorrect password. Try again.")
	case err != nil:
		a.fail("Open", err)
	default:
		a.remember(path)
		a.status = "Opened " + filepath.Base(path)
		return true
	}
	return false
}

func (a *App) importDialog() error {
	path, err := a.fileDialog("Import drawing", drawingFilter, "json", "tdraw").Load()
	if err != nil {
		return err
	}
	if path == "" {
		return errNoFile
	}
	path = filepath.Clean(path)
	env, err := drawdoc.InspectEnvelope(path)
	if err != nil {
		return err
	}
	if env.Encrypted && strings.TrimSpace(a.security.password) == "" {
		a.prompt.open(path, true, "")
		a.status = "Password required to import encrypted drawing"
		return nil
	}
	return a.startImport(path, a.security.password)
}

func (a *App) startImport(path, password string) error {
	if err := a.sess.BeginImport(context.Background(), path, drawdoc.LoadOptions{Password: password}); err != nil {
		return err
	}
	a.remember(path)
	a.status = "Importing " + filepath.Base(path)
	return nil
}

func (a *App) saveDrawing(saveAs bool) error {
	path := a.sess.Path()
	if saveAs || path == "" {
		p, err := a.fileDialog("Save drawing", drawingFilter, "json", "tdraw").Save()
		if err != nil {
			return err
		}
		path = p
	}
	if path == "" {
		return errNoFile
	}
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	if a.security.encryption && strings.TrimSpace(a.security.password) == "" {
		a.security.show = true
		a.security.inputActive = true
		return errors.New("set a password or turn encryption off")
	}
	opts := drawdoc.SaveOptions{
		Compression: a.security.compression,
		Encryption:  drawdoc.EncryptionOptions{Enabled: a.security.encryption, Password: a.security.password},
	}
	if err := a.sess.Save(path, opts); err != nil {
		return err
	}
	a.remember(path)
	a.status = "Saved " + filepath.Base(path)
	return nil
}

func (a *App) exportDialog(desc, ext string, write func(io.Writer) error) {
	path, err := a.fileDialog("Export "+strings.ToUpper(ext), desc, ext).Save()
	if err != nil {
		a.fail("Export", err)
		return
	}
	if path == "" {
		return
	}
	if !strings.EqualFold(filepath.Ext(path), "."+ext) {
		path += "." + ext
	}
	if err := writeFile(path, write); err != nil {
		a.fail("Export", err)
		return
	}
	a.remember(path)
	a.status = "Exported " + filepath.Base(path)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *App) copySelection() {
	data, err := a.sess.CopySelection()
	if err != nil {
		a.status = "Nothing to copy"
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		a.fail("Copy", err)
		return
	}
	a.status = fmt.Sprintf("Copied %d element(s)", len(a.sess.State().Selection))
}

func (a *App) paste() {
	text, err := clipboard.ReadAll()
	if err != nil {
		a.fail("Paste", err)
		return
	}
	n, err := a.sess.Paste([]byte(text))
	if err != nil {
		a.fail("Paste", err)
		return
	}
	a.status = fmt.Sprintf("Pasted %d element(s)", n)
}

// copyImage puts the whole drawing on the clipboard as a PNG.
func (a *App) copyImage() {
	if !a.imageClipboard {
		if err := imgclip.Init(); err != nil {
			a.fail("Copy image", err)
			return
		}
		a.imageClipboard = true
	}
	var buf bytes.Buffer
	if err := a.sess.ExportPNG(&buf); err != nil {
		a.fail("Copy image", err)
		return
	}
	imgclip.Write(imgclip.FmtImage, buf.Bytes())
	a.status = "Copied drawing as image"
}

func (a *App) currentColor() string {
	s := a.sess.State()
	return s.ToolSettings.Stroke(s.Tool).Color
}

func (a *App) setColor(c string) {
	s := a.sess.State()
	a.sess.Dispatch(editor.UpdateToolSettings{Tool: s.Tool, Patch: editor.ToolSettingsPatch{Color: &c}})
	sel := s.SelectedElements()
	if len(sel) == 0 {
		return
	}
	for _, el := range sel {
		if !s.Editable(el) {
			continue
		}
		style := el.Style
		style.StrokeColor = c
		a.sess.Dispatch(editor.UpdateElement{ID: el.ID, Patch: editor.ElementPatch{Style: &style}})
	}
	a.sess.Dispatch(editor.SaveState{})
}

func (a *App) stepWidth(dir float64) {
	s := a.sess.State()
	ts := s.ToolSettings
	switch s.Tool {
	case editor.ToolText:
		size := clampStep(ts.Text.FontSize, 2*dir, minFontSize, maxFontSize)
		a.sess.Dispatch(editor.UpdateToolSettings{Tool: s.Tool, Patch: editor.ToolSettingsPatch{FontSize: &size}})
		a.status = fmt.Sprintf("Font size %.0f", size)
	default:
		w := clampStep(ts.Stroke(s.Tool).Width, dir, minWidth, maxWidth)
		a.sess.Dispatch(editor.UpdateToolSettings{Tool: s.Tool, Patch: editor.ToolSettingsPatch{Width: &w}})
		a.status = fmt.Sprintf("Width %.0f", w)
	}
}

func clampStep(v, d, lo, hi float64) float64 {
	return max(lo, min(v+d, hi))
}

var unitCycle = []editor.Units{editor.UnitsMM, editor.UnitsCM, editor.UnitsIn, editor.UnitsPx}

func (a *App) cycleUnits() {
	cur := a.sess.State().Units
	next := unitCycle[0]
	for i, u := range unitCycle {
		if u == cur {
			next = unitCycle[(i+1)%len(unitCycle)]
		}
	}
	a.sess.Dispatch(editor.SetUnits{Units: next})
}

func (a *App) cycleLayer() {
	s := a.sess.State()
	if len(s.Layers) == 0 {
		return
	}
	next := s.Layers[0]
	for i, l := range s.Layers {
		if l.ID == s.CurrentLayerID {
			next = s.Layers[(i+1)%len(s.Layers)]
		}
	}
	a.sess.Dispatch(editor.SetCurrentLayer{ID: next.ID})
	a.status = "Layer " + next.Name
}

func (a *App) addLayer() {
	s := a.sess.State()
	l := editor.Layer{
		ID:      drawdoc.NewID(),
		Name:    fmt.Sprintf("Layer %d", len(s.Layers)+1),
		Visible: true,
		Color:   a.palette[len(s.Layers)%len(a.palette)],
	}
	a.sess.Dispatch(editor.AddLayer{Layer: l}, editor.SetCurrentLayer{ID: l.ID})
	a.status = "Added " + l.Name
}

func (a *App) applyEnvelopeSettings(env drawdoc.EnvelopeInfo) {
	if !env.Wrapped {
		return
	}
	a.security.compression = env.Compressed
	a.security.encryption = env.Encrypted
}
