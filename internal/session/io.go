package session

import (
	"context"
	"io"
	"log"
	"os"

	"techdraw/internal/editor"
	"techdraw/internal/export"
	"techdraw/pkg/drawdoc"
)

type importResult struct {
	path     string
	elements []drawdoc.Element
	err      error
}

// Save writes the element list to path.
func (s *Session) Save(path string, opts drawdoc.SaveOptions) error {
	st := s.store.State()
	if err := drawdoc.SaveWithOptions(path, st.Elements, opts); err != nil {
		log.Printf("[SESSION] save %s failed: %v", path, err)
		return err
	}
	s.path = path
	log.Printf("[SESSION] saved %d elements to %s", len(st.Elements), path)
	return nil
}

// Open loads path synchronously and replaces the drawing. A document that
// fails validation leaves the current drawing untouched.
func (s *Session) Open(path string, opts drawdoc.LoadOptions) error {
	elements, err := drawdoc.LoadWithOptions(path, opts)
	if err != nil {
		log.Printf("[SESSION] open %s failed: %v", path, err)
		return err
	}
	s.replace(elements)
	s.path = path
	log.Printf("[SESSION] opened %s (%d elements)", path, len(elements))
	return nil
}

func (s *Session) replace(elements []drawdoc.Element) {
	s.ctrl.Cancel()
	s.Dispatch(editor.ReplaceElements{Elements: elements})
}

// BeginImport reads and validates path on a background goroutine. The
// result is applied by a later PollImport on the UI loop. Only one import
// may be pending.
func (s *Session) BeginImport(ctx context.Context, path string, opts drawdoc.LoadOptions) error {
	s.importMu.Lock()
	defer s.importMu.Unlock()
	if s.pending != nil {
		return ErrImportInProgress
	}
	done := make(chan importResult, 1)
	s.pending = done
	log.Printf("[IMPORT] reading %s", path)
	go func() {
		res := importResult{path: path}
		if err := ctx.Err(); err != nil {
			res.err = err
			done <- res
			return
		}
		b, err := os.ReadFile(path)
		if err == nil {
			res.elements, err = drawdoc.Decode(b, opts)
		}
		if err == nil {
			err = ctx.Err()
		}
		res.err = err
		done <- res
	}()
	return nil
}

// ImportPending reports whether an import is in flight.
func (s *Session) ImportPending() bool {
	s.importMu.Lock()
	defer s.importMu.Unlock()
	return s.pending != nil
}

// PollImport applies a finished import with a single REPLACE_ELEMENTS. It
// returns done=false while the import is still running or when none was
// started.
func (s *Session) PollImport() (done bool, err error) {
	s.importMu.Lock()
	ch := s.pending
	s.importMu.Unlock()
	if ch == nil {
		return false, nil
	}
	var res importResult
	select {
	case res = <-ch:
	default:
		return false, nil
	}
	s.importMu.Lock()
	s.pending = nil
	s.importMu.Unlock()

	if res.err != nil {
		log.Printf("[IMPORT] %s failed: %v", res.path, res.err)
		return true, res.err
	}
	s.replace(res.elements)
	log.Printf("[IMPORT] %s applied (%d elements)", res.path, len(res.elements))
	return true, nil
}

// WaitImport blocks until the pending import finishes or ctx is done, then
// applies it like PollImport.
func (s *Session) WaitImport(ctx context.Context) error {
	s.importMu.Lock()
	ch := s.pending
	s.importMu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case res := <-ch:
		ch <- res
	case <-ctx.Done():
		return ctx.Err()
	}
	_, err := s.PollImport()
	return err
}

func (s *Session) drawing() export.Drawing {
	return export.FromState(s.store.State())
}

// ExportPNG rasterizes the drawing at full scale. It needs an attached
// surface.
func (s *Session) ExportPNG(w io.Writer) error {
	if s.fb == nil {
		return ErrNoSurface
	}
	if err := export.PNG(w, s.drawing(), s.fonts); err != nil {
		log.Printf("[EXPORT] png failed: %v", err)
		return err
	}
	log.Printf("[EXPORT] png written")
	return nil
}

func (s *Session) ExportSVG(w io.Writer) error {
	if err := export.SVG(w, s.drawing()); err != nil {
		log.Printf("[EXPORT] svg failed: %v", err)
		return err
	}
	log.Printf("[EXPORT] svg written")
	return nil
}

func (s *Session) ExportPDF(w io.Writer) error {
	if err := export.PDF(w, s.drawing()); err != nil {
		log.Printf("[EXPORT] pdf failed: %v", err)
		return err
	}
	log.Printf("[EXPORT] pdf written")
	return nil
}
