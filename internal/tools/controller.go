package tools

import (
	"math"

	"techdraw/internal/editor"
	"techdraw/internal/platform"
	"techdraw/internal/viewport"
	"techdraw/pkg/drawdoc"
	"techdraw/pkg/geom"
)

const (
	// wheelStep is the pan distance, in surface pixels, of one wheel notch.
	wheelStep = 40.0
	// wheelZoomFactor is the zoom multiplier of one ctrl+wheel notch.
	wheelZoomFactor = 1.1
)

// Controller owns one instance of every tool and feeds host events to the
// one matching State.Tool.
type Controller struct {
	host Host

	sel      Select
	line     Line
	angle    Angle
	freehand Freehand
	eraser   Eraser
	text     Text

	active    editor.Tool
	panning   bool
	panOrigin geom.Point
}

func NewController(h Host) *Controller {
	return &Controller{host: h, active: h.State().Tool}
}

// Tool returns the variant for t.
func (c *Controller) Tool(t editor.Tool) Tool {
	switch t {
	case editor.ToolLine:
		return &c.line
	case editor.ToolAngle:
		return &c.angle
	case editor.ToolFreehand:
		return &c.freehand
	case editor.ToolEraser:
		return &c.eraser
	case editor.ToolText:
		return &c.text
	default:
		return &c.sel
	}
}

func (c *Controller) current() Tool {
	c.sync()
	return c.Tool(c.active)
}

// sync notices tool switches made outside the controller and cancels the
// previous tool's gesture.
func (c *Controller) sync() {
	t := c.host.State().Tool
	if t == c.active {
		return
	}
	c.Tool(c.active).Cancel(c.host)
	c.active = t
}

// SetTool switches tools. An open text entry is committed, any other
// in-progress gesture is discarded.
func (c *Controller) SetTool(t editor.Tool) {
	if !t.Valid() {
		return
	}
	c.sync()
	if c.active == editor.ToolText {
		c.text.Commit(c.host)
	} else {
		c.Tool(c.active).Cancel(c.host)
	}
	c.active = t
	c.host.Dispatch(editor.SetTool{Tool: t})
}

// Draft is the active tool's element under construction.
func (c *Controller) Draft() *drawdoc.Element {
	return c.current().Draft()
}

// Indicator returns the active tool's cursor decoration, if any.
func (c *Controller) Indicator() (Indicator, bool) {
	if c.current() != &c.eraser {
		return Indicator{}, false
	}
	return c.eraser.Indicator(c.host)
}

// AngleClicks reports progress of an angle in construction.
func (c *Controller) AngleClicks() int { return c.angle.Clicks() }

// Cancel abandons the active gesture, e.g. before undo.
func (c *Controller) Cancel() {
	c.current().Cancel(c.host)
}

// Pointer maps a surface position into a tool pointer for the current state.
func (c *Controller) Pointer(x, y float64, mods platform.Modifiers) Pointer {
	s := c.host.State()
	v := c.host.Viewport()
	raw := v.SurfaceToDocument(geom.Pt(x, y))
	doc := viewport.Snap(raw, s.SnapToGrid && s.Tool != editor.ToolFreehand)
	page := v.PageAt(raw)
	if page != 0 {
		doc = v.ClipToPage(doc, page)
	}
	return Pointer{Doc: doc, Raw: raw, Page: page, Mods: mods}
}

// HandleEvent routes one host event. It reports whether anything visible
// may have changed.
func (c *Controller) HandleEvent(ev platform.Event) bool {
	switch ev.Type {
	case platform.EventMouseDown:
		if ev.Button != platform.ButtonLeft {
			c.panning = true
			c.panOrigin = geom.Pt(ev.X, ev.Y)
			return false
		}
		c.current().PointerDown(c.host, c.Pointer(ev.X, ev.Y, ev.Mods))
		return true

	case platform.EventMouseMove:
		if c.panning {
			at := geom.Pt(ev.X, ev.Y)
			c.panBy(at.Sub(c.panOrigin))
			c.panOrigin = at
			return true
		}
		c.current().PointerMove(c.host, c.Pointer(ev.X, ev.Y, ev.Mods))
		return true

	case platform.EventMouseUp:
		if ev.Button != platform.ButtonLeft {
			c.panning = false
			return false
		}
		c.current().PointerUp(c.host, c.Pointer(ev.X, ev.Y, ev.Mods))
		return true

	case platform.EventMouseWheel:
		return c.wheel(ev)

	case platform.EventKeyDown:
		return c.key(ev)

	case platform.EventTextInput:
		if c.current() == &c.text && c.text.Editing(c.host) {
			c.text.Insert(c.host, ev.Rune)
			return true
		}
	}
	return false
}

func (c *Controller) wheel(ev platform.Event) bool {
	if ev.DeltaX == 0 && ev.DeltaY == 0 {
		return false
	}
	if ev.Mods.Shortcut() {
		s := c.host.State()
		z := s.Zoom * math.Pow(wheelZoomFactor, ev.DeltaY)
		zoom, pan := c.host.Viewport().ZoomAt(geom.Pt(ev.X, ev.Y), z, s.MinZoom)
		c.host.Dispatch(editor.SetZoom{Zoom: zoom}, editor.SetPan{Pan: pan})
		return true
	}
	dx, dy := ev.DeltaX, ev.DeltaY
	if ev.Mods.Has(platform.ModShift) && dx == 0 {
		dx, dy = dy, 0
	}
	c.panBy(geom.Pt(dx*wheelStep, dy*wheelStep))
	return true
}

// panBy scrolls by a surface-pixel delta.
func (c *Controller) panBy(d geom.Point) {
	s := c.host.State()
	v := c.host.Viewport()
	pan := v.ClampPan(s.Pan.Add(d.Scale(1 / s.Zoom)))
	if pan != s.Pan {
		c.host.Dispatch(editor.SetPan{Pan: pan})
	}
}

func (c *Controller) key(ev platform.Event) bool {
	tool := c.current()
	editing := tool == &c.text && c.text.Editing(c.host)

	if editing {
		switch ev.Key {
		case platform.KeyEnter:
			c.text.Commit(c.host)
			return true
		case platform.KeyEscape:
			c.text.Cancel(c.host)
			return true
		case platform.KeyBackspace:
			c.text.Backspace(c.host)
			return true
		}
		return false
	}

	if ev.Mods.Shortcut() {
		switch ev.Key {
		case platform.KeyZ:
			tool.Cancel(c.host)
			if ev.Mods.Has(platform.ModShift) {
				c.host.Dispatch(editor.Redo{})
			} else {
				c.host.Dispatch(editor.Undo{})
			}
			return true
		case platform.KeyY:
			tool.Cancel(c.host)
			c.host.Dispatch(editor.Redo{})
			return true
		case platform.KeyA:
			if tool == &c.sel {
				c.sel.SelectAll(c.host)
				return true
			}
		}
		return false
	}

	switch ev.Key {
	case platform.KeyEscape:
		tool.Cancel(c.host)
		if len(c.host.State().Selection) > 0 {
			c.host.Dispatch(editor.SelectElements{})
		}
		return true
	case platform.KeyDelete, platform.KeyBackspace:
		if tool == &c.sel {
			c.sel.DeleteSelection(c.host)
			return true
		}
	}
	return false
}
