package render

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts caches Go Regular faces by pixel size.
type Fonts struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

func NewFonts() (*Fonts, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &Fonts{font: f, faces: map[float64]font.Face{}}, nil
}

// Face returns a face for size device pixels, rounded to half-pixel steps.
// A nil receiver or a face that fails to build falls back to the 7×13
// bitmap face.
func (f *Fonts) Face(size float64) font.Face {
	if f == nil || f.font == nil {
		return basicfont.Face7x13
	}
	size = math.Max(4, math.Round(size*2)/2)
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	f.faces[size] = face
	return face
}
