package viewport

import (
	"math"
	"testing"

	"techdraw/internal/editor"
	"techdraw/pkg/geom"
)

const eps = 1e-6

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func onePage(w, h, zoom float64) Viewport {
	s := editor.NewState()
	s.Zoom = zoom
	return FromState(s, w, h, 1)
}

func TestPageBoundsStackVertically(t *testing.T) {
	v := onePage(800, 600, 1)
	v.TotalPages = 3
	p1, p2, p3 := v.PageBounds(1), v.PageBounds(2), v.PageBounds(3)
	if p1.X != Padding || p1.Y != Padding {
		t.Fatalf("page 1 origin: %+v", p1)
	}
	if p2.X != p1.X || !near(p2.Y, p1.Y+p1.Height+PageGap) {
		t.Fatalf("page 2 not below page 1: %+v", p2)
	}
	if !near(p3.Y-p2.Y, editor.PageHeight+PageGap) {
		t.Fatalf("page spacing: %v", p3.Y-p2.Y)
	}
	w, h := v.ContentSize()
	if !near(w, 2*Padding+editor.PageWidth) || !near(h, 2*Padding+3*editor.PageHeight+2*PageGap) {
		t.Fatalf("content size %v×%v", w, h)
	}
}

func TestSurfaceDocumentRoundTrip(t *testing.T) {
	v := onePage(1000, 700, 1.5)
	v.Pan = geom.Pt(-20, -300)
	p := geom.Pt(123, 456)
	doc := v.SurfaceToDocument(p)
	if !near(doc.X, 123/1.5+20) || !near(doc.Y, 456/1.5+300) {
		t.Fatalf("surface→document: %+v", doc)
	}
	back := v.DocumentToSurface(doc)
	if !near(back.X, p.X) || !near(back.Y, p.Y) {
		t.Fatalf("round trip: %+v", back)
	}
	v.DPR = 2
	dev := v.DocumentToDevice(doc)
	if !near(dev.X, 2*p.X) || !near(dev.Y, 2*p.Y) {
		t.Fatalf("device mapping: %+v", dev)
	}
}

func TestClampPanCentersWhenContentFits(t *testing.T) {
	v := onePage(1280, 800, 1)
	cw, _ := v.ContentSize()
	for _, x := range []float64{-5000, -10, 0, 77, 5000} {
		got := v.ClampPan(geom.Pt(x, 0))
		if !near(got.X, (1280-cw)/2) {
			t.Fatalf("pan.x=%v: got %v want centered %v", x, got.X, (1280-cw)/2)
		}
	}
}

func TestClampPanBoundsWhenContentLarger(t *testing.T) {
	v := onePage(1280, 800, 1)
	_, ch := v.ContentSize()
	if got := v.ClampPan(geom.Pt(0, 50)); got.Y != 0 {
		t.Fatalf("positive pan should clamp to 0, got %v", got.Y)
	}
	if got := v.ClampPan(geom.Pt(0, -1e6)); !near(got.Y, -(ch - 800)) {
		t.Fatalf("large negative pan: got %v want %v", got.Y, -(ch - 800))
	}
	if got := v.ClampPan(geom.Pt(0, -100)); got.Y != -100 {
		t.Fatalf("in-range pan must pass through, got %v", got.Y)
	}
}

func TestClampPanIdempotent(t *testing.T) {
	for _, zoom := range []float64{0.6, 1, 2.5} {
		for _, size := range [][2]float64{{300, 200}, {1280, 800}, {2400, 3000}} {
			v := onePage(size[0], size[1], zoom)
			v.TotalPages = 2
			for _, p := range []geom.Point{geom.Pt(-1e5, 1e5), geom.Pt(0, 0), geom.Pt(-250, -900), geom.Pt(42, -42)} {
				once := v.ClampPan(p)
				twice := v.ClampPan(once)
				if !near(once.X, twice.X) || !near(once.Y, twice.Y) {
					t.Fatalf("zoom %v size %v p %+v: %+v then %+v", zoom, size, p, once, twice)
				}
			}
		}
	}
}

func TestMinZoom(t *testing.T) {
	cw := 2*Padding + editor.PageWidth
	cases := []struct {
		width float64
		want  float64
	}{
		{1280, 1},
		{600, 600 / cw},
		{300, MinZoomLimit},
	}
	for _, tc := range cases {
		v := onePage(tc.width, 800, 1)
		if got := v.MinZoom(); !near(got, tc.want) {
			t.Fatalf("width %v: got %v want %v", tc.width, got, tc.want)
		}
	}
}

func TestPageAtAndClip(t *testing.T) {
	v := onePage(800, 600, 1)
	v.TotalPages = 2
	p2 := v.PageBounds(2)
	if n := v.PageAt(geom.Pt(p2.X+10, p2.Y+10)); n != 2 {
		t.Fatalf("expected page 2, got %d", n)
	}
	if n := v.PageAt(geom.Pt(p2.X+10, p2.Y-PageGap/2)); n != 0 {
		t.Fatalf("gap should map to no page, got %d", n)
	}
	got := v.ClipToPage(geom.Pt(-100, p2.Y+p2.Height+500), 2)
	if got != p2.BottomRight().Sub(geom.Pt(p2.Width, 0)) {
		t.Fatalf("clip: got %+v", got)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	v := onePage(400, 400, 1)
	v.Pan = geom.Pt(-100, -100)
	screen := geom.Pt(200, 200)
	before := v.SurfaceToDocument(screen)
	z, pan := v.ZoomAt(screen, 2, 0)
	if z != 2 {
		t.Fatalf("zoom: got %v", z)
	}
	v.Zoom, v.Pan = z, pan
	after := v.SurfaceToDocument(screen)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Fatalf("anchor moved from %+v to %+v", before, after)
	}
	if z, _ := v.ZoomAt(screen, 10, 0.6); z != editor.MaxZoom {
		t.Fatalf("zoom above max: got %v", z)
	}
}

func TestPageTopPan(t *testing.T) {
	v := onePage(1280, 800, 1)
	v.TotalPages = 3
	pan := v.PageTopPan(2)
	v.Pan = pan
	if got := v.PageInView(); got != 2 {
		t.Fatalf("page in view after jump: got %d want 2", got)
	}
	if !near(pan.Y, -(v.PageBounds(2).Y - PageGap/2)) {
		t.Fatalf("pan.y: got %v", pan.Y)
	}
}

func TestSnap(t *testing.T) {
	p := Snap(geom.Pt(10.2, 3.9), true)
	if !near(p.X, 3*geom.PxPerMM) || !near(p.Y, geom.PxPerMM) {
		t.Fatalf("snap: %+v", p)
	}
	if q := Snap(geom.Pt(10.2, 3.9), false); q != geom.Pt(10.2, 3.9) {
		t.Fatalf("disabled snap changed point: %+v", q)
	}
}

func TestRefitSnapsZoomUp(t *testing.T) {
	s := editor.NewState()
	s = editor.Reduce(s, editor.SetZoom{Zoom: 0.6})
	for _, a := range Refit(s, 1280, 800, 2) {
		s = editor.Reduce(s, a)
	}
	if s.MinZoom != 1 || s.Zoom != 1 {
		t.Fatalf("min=%v zoom=%v, want 1/1", s.MinZoom, s.Zoom)
	}
	cw, _ := FromState(s, 1280, 800, 2).ContentSize()
	if !near(s.Pan.X, (1280-cw)/2) {
		t.Fatalf("pan not recentered: %v", s.Pan.X)
	}
}
