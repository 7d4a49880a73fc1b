package render

import (
	"image"
	"image/color"
)

// FrameBuffer is an RGBA pixel surface in device pixels. Hosts upload
// Pixels as-is.
type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

// Resize reallocates the buffer when the size changed and reports whether
// it did.
func (fb *FrameBuffer) Resize(w, h int) bool {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if w == fb.W && h == fb.H {
		return false
	}
	fb.W, fb.H = w, h
	fb.Pixels = make([]uint8, w*h*4)
	return true
}

// Image views the buffer as an image.RGBA sharing the same pixels.
func (fb *FrameBuffer) Image() *image.RGBA {
	return &image.RGBA{Pix: fb.Pixels, Stride: fb.W * 4, Rect: image.Rect(0, 0, fb.W, fb.H)}
}

func (fb *FrameBuffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}
	}
	i := (y*fb.W + x) * 4
	return color.RGBA{R: fb.Pixels[i], G: fb.Pixels[i+1], B: fb.Pixels[i+2], A: fb.Pixels[i+3]}
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.Pixels[i+0] = c.R
		fb.Pixels[i+1] = c.G
		fb.Pixels[i+2] = c.B
		fb.Pixels[i+3] = c.A
	}
}

// FillRect paints an opaque rectangle clipped to the buffer.
func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	w = min(w, fb.W-x)
	h = min(h, fb.H-y)
	if w <= 0 || h <= 0 {
		return
	}
	for row := 0; row < h; row++ {
		off := ((y+row)*fb.W + x) * 4
		for col := 0; col < w; col++ {
			idx := off + col*4
			fb.Pixels[idx+0] = c.R
			fb.Pixels[idx+1] = c.G
			fb.Pixels[idx+2] = c.B
			fb.Pixels[idx+3] = c.A
		}
	}
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}
