package platform

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Point is a position in logical pixels relative to the window's
// top-left corner.
type Point struct {
	X, Y float32
}

// Modifiers is the set of held modifier keys. Platform is the Meta key
// (Command on macOS, Windows key elsewhere).
type Modifiers struct {
	Control  bool
	Alt      bool
	Shift    bool
	Platform bool
	Function bool
}

// Any reports whether any modifier is held.
func (m Modifiers) Any() bool {
	return m.Control || m.Alt || m.Shift || m.Platform || m.Function
}

// MouseButton identifies a pointer button.
type MouseButton int

const (
	// ButtonNone means no button is pressed.
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	// ButtonBack and ButtonForward are the history navigation buttons.
	ButtonBack
	ButtonForward
)

func (b MouseButton) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonBack:
		return "back"
	case ButtonForward:
		return "forward"
	default:
		return fmt.Sprintf("MouseButton(%d)", int(b))
	}
}

// MouseButtonFromWeb maps a DOM MouseEvent.button index. Unknown
// indices are treated as the primary button.
func MouseButtonFromWeb(button int) MouseButton {
	switch button {
	case 1:
		return ButtonMiddle
	case 2:
		return ButtonRight
	case 3:
		return ButtonBack
	case 4:
		return ButtonForward
	default:
		return ButtonLeft
	}
}

// DOM WheelEvent.deltaMode values.
const (
	DeltaPixel = 0
	DeltaLine  = 1
	DeltaPage  = 2
)

// ScrollDelta is a scroll amount. Positive Y scrolls content down toward
// the start of the document, the opposite sign of DOM wheel deltas.
type ScrollDelta struct {
	X, Y float32
	// Lines reports whether X and Y count lines rather than pixels.
	Lines bool
}

// ScrollDeltaFromWeb converts DOM wheel deltas. Pixel deltas stay in
// pixels; line and page deltas are reported in lines.
func ScrollDeltaFromWeb(mode int, dx, dy float64) ScrollDelta {
	return ScrollDelta{X: float32(-dx), Y: float32(-dy), Lines: mode != DeltaPixel}
}

// Keystroke is one key press with its modifiers. Key is the normalized
// key name; KeyChar is the text the key produces, if any.
type Keystroke struct {
	Modifiers Modifiers
	Key       string
	KeyChar   string
}

var webKeys = map[string]string{
	"ArrowUp":    "up",
	"ArrowDown":  "down",
	"ArrowLeft":  "left",
	"ArrowRight": "right",
	"Backspace":  "backspace",
	"Delete":     "delete",
	"Enter":      "enter",
	"Tab":        "tab",
	"Escape":     "escape",
	"Home":       "home",
	"End":        "end",
	"PageUp":     "pageup",
	"PageDown":   "pagedown",
	" ":          "space",
	"Spacebar":   "space",
}

// KeyFromWeb normalizes a DOM KeyboardEvent.key value: named keys become
// lower-case names ("ArrowUp" is "up", "F5" is "f5"), single characters
// are lower-cased and anything else passes through.
func KeyFromWeb(key string) string {
	if name, ok := webKeys[key]; ok {
		return name
	}
	if isFunctionKey(key) {
		return strings.ToLower(key)
	}
	if utf8.RuneCountInString(key) == 1 {
		return strings.ToLower(key)
	}
	return key
}

func isFunctionKey(key string) bool {
	if len(key) < 2 || len(key) > 3 || key[0] != 'F' {
		return false
	}
	n := 0
	for _, c := range key[1:] {
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
	}
	return n >= 1 && n <= 24
}

// IsModifierKey reports whether a DOM key value names a modifier key.
func IsModifierKey(key string) bool {
	switch key {
	case "Shift", "Control", "Alt", "Meta", "CapsLock", "Fn":
		return true
	}
	return false
}

// keyChar returns the text typed by a single-character key value.
func keyChar(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if size == 0 || size != len(key) || unicode.IsControl(r) {
		return ""
	}
	return key
}

// InputEvent is a translated pointer, wheel, keyboard or text event.
type InputEvent interface {
	inputEvent()
}

// MouseMoveEvent reports pointer motion. Pressed is the held button, if any.
type MouseMoveEvent struct {
	Position  Point
	Pressed   MouseButton
	Modifiers Modifiers
}

// MouseDownEvent reports a button press. ClickCount is 2 for a double click.
type MouseDownEvent struct {
	Button     MouseButton
	Position   Point
	Modifiers  Modifiers
	ClickCount int
}

// MouseUpEvent reports a button release.
type MouseUpEvent struct {
	Button     MouseButton
	Position   Point
	Modifiers  Modifiers
	ClickCount int
}

// MouseExitEvent reports the pointer leaving the window.
type MouseExitEvent struct {
	Position  Point
	Pressed   MouseButton
	Modifiers Modifiers
}

// ScrollWheelEvent reports a wheel or trackpad scroll.
type ScrollWheelEvent struct {
	Position  Point
	Delta     ScrollDelta
	Modifiers Modifiers
}

// KeyDownEvent reports a non-modifier key press. IsHeld is set for
// auto-repeat.
type KeyDownEvent struct {
	Keystroke Keystroke
	IsHeld    bool
}

// KeyUpEvent reports a non-modifier key release.
type KeyUpEvent struct {
	Keystroke Keystroke
}

// ModifiersChangedEvent reports a change of held modifiers or caps lock.
type ModifiersChangedEvent struct {
	Modifiers Modifiers
	CapsLock  bool
}

// TextInputEvent carries text from the input method. Marked text is an
// uncommitted composition that replaces the previous marked text.
type TextInputEvent struct {
	Text   string
	Marked bool
}

func (MouseMoveEvent) inputEvent()        {}
func (MouseDownEvent) inputEvent()        {}
func (MouseUpEvent) inputEvent()          {}
func (MouseExitEvent) inputEvent()        {}
func (ScrollWheelEvent) inputEvent()      {}
func (KeyDownEvent) inputEvent()          {}
func (KeyUpEvent) inputEvent()            {}
func (ModifiersChangedEvent) inputEvent() {}
func (TextInputEvent) inputEvent()        {}
