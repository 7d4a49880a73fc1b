// Package session owns one open drawing: the store, the tool controller,
// the surface size and the frame buffer the renderer draws into. Hosts feed
// it platform events and read frames back.
package session

import (
	"errors"
	"log"
	"math"
	"sync"

	"techdraw/internal/editor"
	"techdraw/internal/platform"
	"techdraw/internal/render"
	"techdraw/internal/tools"
	"techdraw/internal/viewport"
	"techdraw/pkg/geom"
)

var (
	ErrNoSurface        = errors.New("session: no rendering surface")
	ErrImportInProgress = errors.New("session: import already in progress")
	ErrNothingSelected  = errors.New("session: nothing selected")
	ErrLayerLocked      = errors.New("session: current layer is locked or hidden")
)

// zoomStep is the factor applied by ZoomIn and ZoomOut.
const zoomStep = 1.25

type Session struct {
	store    *editor.Store
	ctrl     *tools.Controller
	renderer *render.Renderer
	fonts    *render.Fonts

	fb            *render.FrameBuffer
	width, height float64
	dpr           float64
	dirty         bool

	path string

	importMu sync.Mutex
	pending  chan importResult
}

// New starts a session on initial. No surface is attached until the first
// Resize.
func New(initial editor.State, renderer *render.Renderer) *Session {
	s := &Session{
		store:    editor.NewStore(initial),
		renderer: renderer,
		dpr:      1,
		dirty:    true,
	}
	if renderer != nil {
		s.fonts = renderer.Fonts
	}
	s.ctrl = tools.NewController(s)
	s.store.Subscribe(func(prev, next editor.State, a editor.Action) {
		s.dirty = true
	})
	return s
}

func (s *Session) State() editor.State { return s.store.State() }

func (s *Session) Subscribe(fn editor.Listener) func() { return s.store.Subscribe(fn) }

func (s *Session) Controller() *tools.Controller { return s.ctrl }

// Path is the file the drawing was last opened from or saved to.
func (s *Session) Path() string { return s.path }

func (s *Session) Viewport() viewport.Viewport {
	return viewport.FromState(s.store.State(), s.width, s.height, s.dpr)
}

// Dispatch applies actions and keeps the pan inside the content whenever
// zoom or pagination changes.
func (s *Session) Dispatch(actions ...editor.Action) {
	for _, a := range actions {
		s.store.Dispatch(a)
		switch a.(type) {
		case editor.AddPage, editor.DeletePage, editor.SetZoom, editor.SetMinZoom:
			s.reclamp()
		}
	}
}

func (s *Session) reclamp() {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	st := s.store.State()
	if pan := s.Viewport().ClampPan(st.Pan); pan != st.Pan {
		s.store.Dispatch(editor.SetPan{Pan: pan})
	}
}

// Resize applies the surface resize contract: the zoom floor is recomputed,
// the zoom snapped up to it and the pan re-clamped. Width and height are in
// logical pixels.
func (s *Session) Resize(w, h int, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	s.width, s.height, s.dpr = float64(w), float64(h), dpr
	if w <= 0 || h <= 0 {
		s.fb = nil
		return
	}
	dw, dh := int(math.Ceil(float64(w)*dpr)), int(math.Ceil(float64(h)*dpr))
	if s.fb == nil {
		s.fb = render.NewFrameBuffer(dw, dh)
	} else {
		s.fb.Resize(dw, dh)
	}
	s.store.Dispatch(viewport.Refit(s.store.State(), s.width, s.height, dpr)...)
	s.dirty = true
}

// Surface is the attached frame buffer, or nil.
func (s *Session) Surface() *render.FrameBuffer { return s.fb }

// HandleEvent routes one host event and reports whether a redraw is due.
func (s *Session) HandleEvent(ev platform.Event) bool {
	switch ev.Type {
	case platform.EventResize:
		s.Resize(ev.Width, ev.Height, s.dpr)
		return true
	case platform.EventDPIChanged:
		s.Resize(int(s.width), int(s.height), float64(ev.Scale))
		return true
	}
	changed := s.ctrl.HandleEvent(ev)
	if ev.Type == platform.EventMouseWheel || ev.Type == platform.EventMouseMove {
		s.followPage()
	}
	if changed {
		s.dirty = true
	}
	return changed
}

// followPage keeps CurrentPage on the page under the surface center.
func (s *Session) followPage() {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	if n := s.Viewport().PageInView(); n != s.store.State().CurrentPage {
		s.store.Dispatch(editor.SetCurrentPage{Page: n})
	}
}

// Render draws the current frame if anything changed since the last one.
// It reports false when no surface is attached or the frame is unchanged.
func (s *Session) Render() (*render.FrameBuffer, bool) {
	if s.fb == nil || s.renderer == nil {
		return s.fb, false
	}
	if !s.dirty {
		return s.fb, false
	}
	f := render.Frame{
		State: s.store.State(),
		View:  s.Viewport(),
		Draft: s.ctrl.Draft(),
	}
	if ind, ok := s.ctrl.Indicator(); ok {
		f.Indicator = &ind
	}
	s.renderer.Render(s.fb, f)
	s.dirty = false
	return s.fb, true
}

// Invalidate forces the next Render to redraw.
func (s *Session) Invalidate() { s.dirty = true }

func (s *Session) SetTool(t editor.Tool) { s.ctrl.SetTool(t) }

func (s *Session) Undo() {
	s.ctrl.Cancel()
	s.Dispatch(editor.Undo{})
}

func (s *Session) Redo() {
	s.ctrl.Cancel()
	s.Dispatch(editor.Redo{})
}

// GoToPage makes n current and scrolls its top edge into view.
func (s *Session) GoToPage(n int) {
	s.Dispatch(editor.SetCurrentPage{Page: n})
	page := s.store.State().CurrentPage
	if s.width > 0 && s.height > 0 {
		s.Dispatch(editor.SetPan{Pan: s.Viewport().PageTopPan(page)})
	}
}

// AddPage appends a page and scrolls to it.
func (s *Session) AddPage() {
	s.Dispatch(editor.AddPage{})
	s.GoToPage(s.store.State().TotalPages)
	log.Printf("[SESSION] page added, total=%d", s.store.State().TotalPages)
}

func (s *Session) DeletePage(n int) {
	before := s.store.State().TotalPages
	s.Dispatch(editor.DeletePage{Page: n})
	if after := s.store.State().TotalPages; after != before {
		log.Printf("[SESSION] page %d deleted, total=%d", n, after)
	}
}

// ZoomTo sets the zoom keeping the surface center fixed.
func (s *Session) ZoomTo(z float64) {
	if s.width <= 0 || s.height <= 0 {
		s.Dispatch(editor.SetZoom{Zoom: z})
		return
	}
	zoom, pan := s.Viewport().ZoomAt(geom.Pt(s.width/2, s.height/2), z, s.store.State().MinZoom)
	s.Dispatch(editor.SetZoom{Zoom: zoom}, editor.SetPan{Pan: pan})
}

func (s *Session) ZoomIn()  { s.ZoomTo(s.store.State().Zoom * zoomStep) }
func (s *Session) ZoomOut() { s.ZoomTo(s.store.State().Zoom / zoomStep) }

// FitWidth zooms so the page stack spans the surface width.
func (s *Session) FitWidth() {
	w, _ := s.Viewport().ContentSize()
	if s.width <= 0 || w <= 0 {
		return
	}
	s.ZoomTo(s.width / w)
}
