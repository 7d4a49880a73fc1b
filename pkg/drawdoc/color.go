package drawdoc

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseColor converts "#rgb", "#rrggbb" or "#rrggbbaa" into RGBA. Anything
// it cannot parse becomes opaque black so a bad color never hides geometry.
func ParseColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{A: 0xFF}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{A: 0xFF}
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// FormatColor renders c as "#rrggbb", dropping alpha.
func FormatColor(c color.RGBA) string {
	const hex = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = hex[v>>4]
		b[2+i*2] = hex[v&0x0F]
	}
	return string(b)
}
