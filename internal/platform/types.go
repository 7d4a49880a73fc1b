// Package platform defines the host-neutral input vocabulary the session
// consumes. Hosts translate their native events into these.
package platform

type WindowConfig struct {
	Title       string
	WidthPx     int
	HeightPx    int
	MinWidthPx  int
	MinHeightPx int
}

type EventType int

const (
	EventUnknown EventType = iota
	EventClose
	EventResize
	EventDPIChanged
	EventKeyDown
	EventKeyUp
	EventTextInput
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every bit of m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// Shortcut reports whether the platform command modifier (Ctrl or Cmd) is held.
func (m Modifiers) Shortcut() bool { return m&(ModCtrl|ModMeta) != 0 }

// Key names carried in Event.Key.
const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
	KeyZ         = "Z"
	KeyY         = "Y"
	KeyA         = "A"
	KeyC         = "C"
	KeyV         = "V"
)

// Event is one input notification. X and Y are surface coordinates in
// logical pixels; Width and Height are set on resize; Scale is the device
// pixel ratio.
type Event struct {
	Type   EventType
	Width  int
	Height int
	Scale  float32
	Rune   rune
	DeltaX float64
	DeltaY float64
	X      float64
	Y      float64
	Key    string
	Button Button
	Mods   Modifiers
}
