package drawdoc

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"techdraw/pkg/geom"
)

func sampleElements() []Element {
	return []Element{
		{
			ID:      "l1",
			Type:    TypeLine,
			Points:  []geom.Point{geom.Pt(0, 0), geom.Pt(30, 40)},
			Style:   Style{StrokeColor: "#000000", StrokeWidth: 2},
			LayerID: "layer-1",
			Measurements: &Measurements{
				Length: Float(50),
			},
		},
		{
			ID:      "a1",
			Type:    TypeAngle,
			Points:  []geom.Point{geom.Pt(10, 0), geom.Pt(0, 0), geom.Pt(0, 10)},
			Style:   Style{StrokeColor: "#1d4ed8", StrokeWidth: 2},
			LayerID: "layer-1",
			Measurements: &Measurements{
				Angle:  Float(1.5707963267948966),
				Radius: Float(20),
			},
		},
		{
			ID:       "t1",
			Type:     TypeText,
			Points:   []geom.Point{geom.Pt(5, 5)},
			Style:    Style{StrokeColor: "#000000", StrokeWidth: 1},
			LayerID:  "layer-2",
			Text:     "Hi",
			FontSize: 16,
		},
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	in := sampleElements()
	blob, err := Serialize(in)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	out, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("deserialize failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d elements, got %d", len(in), len(out))
	}
	if out[0].Points[1] != geom.Pt(30, 40) || *out[0].Measurements.Length != 50 {
		t.Fatalf("line mismatch: %#v", out[0])
	}
	if out[1].Measurements.Radius == nil || *out[1].Measurements.Radius != 20 {
		t.Fatalf("angle radius lost: %#v", out[1].Measurements)
	}
	if out[2].Text != "Hi" || out[2].FontSize != 16 || out[2].LayerID != "layer-2" {
		t.Fatalf("text mismatch: %#v", out[2])
	}
}

func TestSerializeEmptyIsArray(t *testing.T) {
	blob, err := Serialize(nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(blob)) != "[]" {
		t.Fatalf("expected [], got %q", blob)
	}
	out, err := Deserialize(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %d", len(out))
	}
}

func TestDeserializeRejectsNonArray(t *testing.T) {
	_, err := Deserialize([]byte(`{"id":"x"}`))
	if !errors.Is(err, ErrNotArray) {
		t.Fatalf("expected ErrNotArray, got %v", err)
	}
}

func TestDeserializeNamesIndexAndField(t *testing.T) {
	doc := `[
		{"id":"a","type":"line","points":[{"x":0,"y":0},{"x":1,"y":1}],"style":{"strokeColor":"#000","strokeWidth":1},"layerId":"l"},
		{"id":"b","type":"line","points":[{"x":0,"y":0},{"x":"1","y":1}],"style":{"strokeColor":"#000","strokeWidth":1},"layerId":"l"}
	]`
	_, err := Deserialize([]byte(doc))
	if !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("expected ErrInvalidElement, got %v", err)
	}
	if !strings.Contains(err.Error(), "element[1].points[1].x") {
		t.Fatalf("error should name index and field, got %q", err.Error())
	}
}

func TestDeserializeRejectsUnknownType(t *testing.T) {
	doc := `[{"id":"a","type":"circle","points":[],"style":{"strokeColor":"#000","strokeWidth":1},"layerId":"l"}]`
	_, err := Deserialize([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "element[0].type") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestDeserializeRejectsMissingLayer(t *testing.T) {
	doc := `[{"id":"a","type":"text","points":[{"x":1,"y":2}],"style":{"strokeColor":"#000","strokeWidth":1}}]`
	_, err := Deserialize([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), ".layerId") {
		t.Fatalf("expected layerId error, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	in := sampleElements()
	out := CloneElements(in)
	out[0].Points[0] = geom.Pt(99, 99)
	*out[0].Measurements.Length = 1
	if in[0].Points[0] != geom.Pt(0, 0) {
		t.Fatalf("clone shares points with original")
	}
	if *in[0].Measurements.Length != 50 {
		t.Fatalf("clone shares measurements with original")
	}
	if CloneElements(nil) != nil {
		t.Fatalf("nil list should clone to nil")
	}
}

func TestCheckShape(t *testing.T) {
	cases := []struct {
		name string
		el   Element
		ok   bool
	}{
		{"line", Element{Type: TypeLine, Points: make([]geom.Point, 2)}, true},
		{"short line", Element{Type: TypeLine, Points: make([]geom.Point, 1)}, false},
		{"angle", Element{Type: TypeAngle, Points: make([]geom.Point, 3)}, true},
		{"empty freehand", Element{Type: TypeFreehand}, false},
		{"text", Element{Type: TypeText, Points: make([]geom.Point, 1)}, true},
		{"unknown", Element{Type: "box", Points: make([]geom.Point, 1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckShape(tc.el)
			if (err == nil) != tc.ok {
				t.Fatalf("ok=%v, err=%v", tc.ok, err)
			}
		})
	}
}

func TestSaveLoadPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.json")
	if err := Save(path, sampleElements()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	info, err := InspectEnvelope(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Wrapped {
		t.Fatalf("plain save must not be wrapped")
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(out))
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}

func TestEncryptedSaveRequiresPasswordOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.techdraw")
	opts := SaveOptions{Compression: true, Encryption: EncryptionOptions{Enabled: true, Password: "s3cret"}}
	if err := SaveWithOptions(path, sampleElements(), opts); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if _, err := LoadWithOptions(path, LoadOptions{Password: "wrong"}); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	out, err := LoadWithOptions(path, LoadOptions{Password: "s3cret"})
	if err != nil {
		t.Fatalf("load with password failed: %v", err)
	}
	if len(out) != 3 || out[2].Text != "Hi" {
		t.Fatalf("unexpected payload: %#v", out)
	}
}

func TestEncryptionWithoutPasswordFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nopass.techdraw")
	opts := SaveOptions{Encryption: EncryptionOptions{Enabled: true, Password: "  "}}
	if err := SaveWithOptions(path, sampleElements(), opts); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestInspectEnvelopeFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed.techdraw")
	if err := SaveWithOptions(path, sampleElements(), SaveOptions{Compression: true}); err != nil {
		t.Fatal(err)
	}
	info, err := InspectEnvelope(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Wrapped || !info.Compressed || info.Encrypted {
		t.Fatalf("unexpected envelope info: %+v", info)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("load compressed failed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(out))
	}
}

func TestTruncatedEnvelopeIsRejected(t *testing.T) {
	blob, err := Encode(sampleElements(), SaveOptions{Compression: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(blob[:len(blob)-4], LoadOptions{}); !errors.Is(err, ErrInvalidSecureFile) {
		t.Fatalf("expected ErrInvalidSecureFile, got %v", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#1f2937":   {R: 0x1f, G: 0x29, B: 0x37, A: 0xff},
		"#fff":      {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		"2563eb80":  {R: 0x25, G: 0x63, B: 0xeb, A: 0x80},
		"not-a-hex": {A: 0xff},
	}
	for in, want := range cases {
		if got := ParseColor(in); got != want {
			t.Fatalf("ParseColor(%q) = %+v want %+v", in, got, want)
		}
	}
	if got := FormatColor(color.RGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff}); got != "#dc2626" {
		t.Fatalf("FormatColor: got %q", got)
	}
}

func TestDeserializeRejectsWrongPointCount(t *testing.T) {
	doc := `[
		{"id":"t","type":"text","points":[{"x":1,"y":2}],"style":{"strokeColor":"#000","strokeWidth":1},"layerId":"l"},
		{"id":"f","type":"freehand","points":[],"style":{"strokeColor":"#000","strokeWidth":1},"layerId":"l"}
	]`
	_, err := Deserialize([]byte(doc))
	if !errors.Is(err, ErrInvalidElement) || !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("expected shape error, got %v", err)
	}
	if !strings.Contains(err.Error(), "element[1].points") {
		t.Fatalf("error should name index and field, got %q", err.Error())
	}

	oneEnded := `[{"id":"l","type":"line","points":[{"x":1,"y":2}],"style":{"strokeColor":"#000","strokeWidth":1},"layerId":"l"}]`
	if _, err := Deserialize([]byte(oneEnded)); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("single-point line accepted: %v", err)
	}
}
