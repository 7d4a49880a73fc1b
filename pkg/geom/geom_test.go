package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestDistancePointToSegment(t *testing.T) {
	cases := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"perpendicular", Pt(5, 3), Pt(0, 0), Pt(10, 0), 3},
		{"before start", Pt(-4, 3), Pt(0, 0), Pt(10, 0), 5},
		{"past end", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"on segment", Pt(7, 0), Pt(0, 0), Pt(10, 0), 0},
		{"degenerate", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DistancePointToSegment(tc.p, tc.a, tc.b)
			if math.Abs(got-tc.want) > eps {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestAngleBetweenStraightAngle(t *testing.T) {
	got := AngleBetween(Pt(0, 0), Pt(-10, 0), Pt(10, 0))
	if math.Abs(got-math.Pi) > eps {
		t.Fatalf("straight angle: got %v want π", got)
	}
	got = AngleBetween(Pt(5, 5), Pt(5, 0), Pt(5, 10))
	if math.Abs(got-math.Pi) > eps {
		t.Fatalf("vertical straight angle: got %v want π", got)
	}
}

func TestAngleBetweenIsHalfOpen(t *testing.T) {
	// Same ray twice is a full revolution or nothing; it must land in [0, 2π).
	got := AngleBetween(Pt(0, 0), Pt(1, 1), Pt(2, 2))
	if got < 0 || got >= 2*math.Pi {
		t.Fatalf("angle %v outside [0, 2π)", got)
	}
	for deg := -720.0; deg <= 720; deg += 15 {
		rad := deg * math.Pi / 180
		to := Pt(math.Cos(rad), math.Sin(rad))
		a := AngleBetween(Pt(0, 0), Pt(1, 0), to)
		if a < 0 || a >= 2*math.Pi {
			t.Fatalf("deg %v: angle %v outside [0, 2π)", deg, a)
		}
	}
}

func TestAngleBetweenSweepsWithAtan2(t *testing.T) {
	// In Y-down space (0,1) is a quarter turn from (1,0) along increasing atan2.
	got := AngleBetween(Pt(0, 0), Pt(1, 0), Pt(0, 1))
	if math.Abs(got-math.Pi/2) > eps {
		t.Fatalf("got %v want π/2", got)
	}
	got = AngleBetween(Pt(0, 0), Pt(1, 0), Pt(0, -1))
	if math.Abs(got-3*math.Pi/2) > eps {
		t.Fatalf("got %v want 3π/2", got)
	}
}

func TestSnap(t *testing.T) {
	got := Snap(Pt(5.6, -1.9), PxPerMM)
	want := Pt(2*PxPerMM, -PxPerMM)
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps {
		t.Fatalf("snap: got %+v want %+v", got, want)
	}
	if p := Snap(Pt(1.3, 2.7), 0); p != Pt(1.3, 2.7) {
		t.Fatalf("zero cell must not snap, got %+v", p)
	}
}

func TestArcPointsEndpoints(t *testing.T) {
	pts := ArcPoints(Pt(0, 0), 10, 0, math.Pi/2)
	if len(pts) < 2 {
		t.Fatalf("expected at least 2 points, got %d", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(first.X-10) > eps || math.Abs(first.Y) > eps {
		t.Fatalf("unexpected first point %+v", first)
	}
	if math.Abs(last.X) > 1e-6 || math.Abs(last.Y-10) > 1e-6 {
		t.Fatalf("unexpected last point %+v", last)
	}
}

func TestRectClampAndContains(t *testing.T) {
	r := NewRect(10, 10, 100, 50)
	if !r.Contains(Pt(10, 60)) {
		t.Fatal("edge point should be contained")
	}
	if r.Contains(Pt(9.9, 20)) {
		t.Fatal("outside point reported as contained")
	}
	if got := r.Clamp(Pt(200, -5)); got != Pt(110, 10) {
		t.Fatalf("clamp: got %+v", got)
	}
	bb := BoundingBox([]Point{Pt(3, 4), Pt(-1, 8), Pt(2, -2)})
	if bb != NewRect(-1, -2, 4, 10) {
		t.Fatalf("bounding box: got %+v", bb)
	}
}
