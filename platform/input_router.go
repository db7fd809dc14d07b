package platform

import (
	"slices"
	"sync"
	"time"
)

// Multi-click detection.
const (
	// MultiClickInterval is the longest gap between the presses of a
	// double click.
	MultiClickInterval = 500 * time.Millisecond

	mouseClickSlop = 5
	touchClickSlop = 20
)

// MouseSample is a pointer event as read from the host.
type MouseSample struct {
	Position Point
	// Button is the DOM MouseEvent.button index.
	Button    int
	Modifiers Modifiers
	Time      time.Time
}

// WheelSample is a wheel event as read from the host.
type WheelSample struct {
	Position  Point
	Modifiers Modifiers
	DeltaMode int
	DeltaX    float64
	DeltaY    float64
}

// KeySample is a keyboard event as read from the host.
type KeySample struct {
	// Key is the DOM KeyboardEvent.key value.
	Key       string
	Modifiers Modifiers
	CapsLock  bool
	Repeat    bool
	// Composing is KeyboardEvent.isComposing.
	Composing bool
}

// InputRouter turns host pointer, keyboard and IME events into
// InputEvents for the toolkit. It tracks the pointer position, held
// modifiers, the pressed button, hover and focus state and click counts.
//
// Hooks run on the goroutine that feeds the event, without the router's
// lock held.
type InputRouter struct {
	mu        sync.Mutex
	position  Point
	modifiers Modifiers
	capsLock  bool
	pressed   MouseButton
	hovered   bool
	active    bool
	composing bool

	clicks       int
	lastClick    time.Time
	lastClickPos Point

	onInput  []func(InputEvent)
	onHover  []func(bool)
	onActive []func(bool)
}

// NewInputRouter creates a router with no button pressed.
func NewInputRouter() *InputRouter {
	return &InputRouter{active: true}
}

// OnInput registers fn to receive every translated event.
func (r *InputRouter) OnInput(fn func(InputEvent)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onInput = append(r.onInput, fn)
}

// OnHover registers fn to run when the pointer enters (true) or leaves
// (false) the window.
func (r *InputRouter) OnHover(fn func(bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onHover = append(r.onHover, fn)
}

// OnActive registers fn to run when the window gains or loses focus or
// visibility.
func (r *InputRouter) OnActive(fn func(bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onActive = append(r.onActive, fn)
}

// Position returns the last pointer position.
func (r *InputRouter) Position() Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

// Modifiers returns the held modifiers.
func (r *InputRouter) Modifiers() Modifiers {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modifiers
}

// CapsLock reports whether caps lock is on.
func (r *InputRouter) CapsLock() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capsLock
}

// Pressed returns the held button.
func (r *InputRouter) Pressed() MouseButton {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pressed
}

// Hovered reports whether the pointer is over the window.
func (r *InputRouter) Hovered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hovered
}

// Active reports whether the window has focus and is visible.
func (r *InputRouter) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Composing reports whether an IME composition is in progress.
func (r *InputRouter) Composing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.composing
}

// emit runs the input hooks for events. Caller must not hold r.mu.
func (r *InputRouter) emit(events ...InputEvent) {
	if len(events) == 0 {
		return
	}
	r.mu.Lock()
	hooks := slices.Clone(r.onInput)
	r.mu.Unlock()
	for _, ev := range events {
		for _, fn := range hooks {
			fn(ev)
		}
	}
}

func runBoolHooks(hooks []func(bool), v bool) {
	for _, fn := range hooks {
		fn(v)
	}
}

// countClick returns the click count of a press at pos. Caller holds r.mu.
func (r *InputRouter) countClick(pos Point, now time.Time, slop float32) int {
	near := abs32(r.lastClickPos.X-pos.X) < slop && abs32(r.lastClickPos.Y-pos.Y) < slop
	if r.clicks > 0 && near && now.Sub(r.lastClick) < MultiClickInterval {
		r.clicks++
	} else {
		r.clicks = 1
	}
	r.lastClick = now
	r.lastClickPos = pos
	return r.clicks
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// MouseMove handles pointer motion.
func (r *InputRouter) MouseMove(s MouseSample) {
	r.mu.Lock()
	r.position = s.Position
	r.modifiers = s.Modifiers
	ev := MouseMoveEvent{Position: s.Position, Pressed: r.pressed, Modifiers: s.Modifiers}
	r.mu.Unlock()
	r.emit(ev)
}

// MouseDown handles a button press.
func (r *InputRouter) MouseDown(s MouseSample) {
	button := MouseButtonFromWeb(s.Button)
	r.mu.Lock()
	r.position = s.Position
	r.modifiers = s.Modifiers
	r.pressed = button
	clicks := r.countClick(s.Position, s.Time, mouseClickSlop)
	r.mu.Unlock()
	r.emit(MouseDownEvent{Button: button, Position: s.Position, Modifiers: s.Modifiers, ClickCount: clicks})
}

// MouseUp handles a button release.
func (r *InputRouter) MouseUp(s MouseSample) {
	button := MouseButtonFromWeb(s.Button)
	r.mu.Lock()
	r.position = s.Position
	r.modifiers = s.Modifiers
	r.pressed = ButtonNone
	clicks := r.clicks
	r.mu.Unlock()
	r.emit(MouseUpEvent{Button: button, Position: s.Position, Modifiers: s.Modifiers, ClickCount: clicks})
}

// MouseEnter handles the pointer entering the window.
func (r *InputRouter) MouseEnter() {
	r.mu.Lock()
	if r.hovered {
		r.mu.Unlock()
		return
	}
	r.hovered = true
	hooks := slices.Clone(r.onHover)
	r.mu.Unlock()
	runBoolHooks(hooks, true)
}

// MouseLeave handles the pointer leaving the window. A held button is
// reported in the exit event and then released.
func (r *InputRouter) MouseLeave(s MouseSample) {
	r.mu.Lock()
	wasHovered := r.hovered
	r.hovered = false
	r.modifiers = s.Modifiers
	ev := MouseExitEvent{Position: s.Position, Pressed: r.pressed, Modifiers: s.Modifiers}
	r.pressed = ButtonNone
	var hooks []func(bool)
	if wasHovered {
		hooks = slices.Clone(r.onHover)
	}
	r.mu.Unlock()

	runBoolHooks(hooks, false)
	r.emit(ev)
}

// Wheel handles a scroll.
func (r *InputRouter) Wheel(s WheelSample) {
	r.mu.Lock()
	r.modifiers = s.Modifiers
	r.mu.Unlock()
	r.emit(ScrollWheelEvent{
		Position:  s.Position,
		Delta:     ScrollDeltaFromWeb(s.DeltaMode, s.DeltaX, s.DeltaY),
		Modifiers: s.Modifiers,
	})
}

// TouchStart handles the first changed touch of a touchstart as a
// primary button press. Touches carry no modifiers and use a wider
// double-tap radius than the mouse.
func (r *InputRouter) TouchStart(pos Point, now time.Time) {
	r.mu.Lock()
	r.position = pos
	r.pressed = ButtonLeft
	clicks := r.countClick(pos, now, touchClickSlop)
	r.mu.Unlock()
	r.emit(MouseDownEvent{Button: ButtonLeft, Position: pos, ClickCount: clicks})
}

// TouchMove handles touch motion as a drag with the primary button.
func (r *InputRouter) TouchMove(pos Point) {
	r.mu.Lock()
	r.position = pos
	r.mu.Unlock()
	r.emit(MouseMoveEvent{Position: pos, Pressed: ButtonLeft})
}

// TouchEnd handles touchend and touchcancel as a primary button release.
func (r *InputRouter) TouchEnd(pos Point) {
	r.mu.Lock()
	r.position = pos
	r.pressed = ButtonNone
	clicks := r.clicks
	r.mu.Unlock()
	r.emit(MouseUpEvent{Button: ButtonLeft, Position: pos, ClickCount: clicks})
}

// KeyDown handles a key press. A modifier change is reported before the
// key; modifier keys themselves and keys pressed during an IME
// composition produce no key event.
func (r *InputRouter) KeyDown(s KeySample) {
	r.mu.Lock()
	changed := r.modifiers != s.Modifiers || r.capsLock != s.CapsLock
	composing := r.composing || s.Composing
	r.modifiers = s.Modifiers
	r.capsLock = s.CapsLock
	r.mu.Unlock()

	var events []InputEvent
	if changed {
		events = append(events, ModifiersChangedEvent{Modifiers: s.Modifiers, CapsLock: s.CapsLock})
	}
	if !composing && !IsModifierKey(s.Key) {
		events = append(events, KeyDownEvent{
			Keystroke: Keystroke{Modifiers: s.Modifiers, Key: KeyFromWeb(s.Key), KeyChar: keyChar(s.Key)},
			IsHeld:    s.Repeat,
		})
	}
	r.emit(events...)
}

// KeyUp handles a key release. The key is reported before a modifier
// change.
func (r *InputRouter) KeyUp(s KeySample) {
	r.mu.Lock()
	changed := r.modifiers != s.Modifiers || r.capsLock != s.CapsLock
	composing := r.composing || s.Composing
	r.modifiers = s.Modifiers
	r.capsLock = s.CapsLock
	r.mu.Unlock()

	var events []InputEvent
	if !composing && !IsModifierKey(s.Key) {
		events = append(events, KeyUpEvent{
			Keystroke: Keystroke{Modifiers: s.Modifiers, Key: KeyFromWeb(s.Key)},
		})
	}
	if changed {
		events = append(events, ModifiersChangedEvent{Modifiers: s.Modifiers, CapsLock: s.CapsLock})
	}
	r.emit(events...)
}

// SetActive handles focus, blur and visibility changes.
func (r *InputRouter) SetActive(active bool) {
	r.mu.Lock()
	r.active = active
	hooks := slices.Clone(r.onActive)
	r.mu.Unlock()
	runBoolHooks(hooks, active)
}

// CompositionStart marks the start of an IME composition.
func (r *InputRouter) CompositionStart() {
	r.mu.Lock()
	r.composing = true
	r.mu.Unlock()
}

// CompositionUpdate reports the text being composed.
func (r *InputRouter) CompositionUpdate(text string) {
	if text == "" {
		return
	}
	r.emit(TextInputEvent{Text: text, Marked: true})
}

// CompositionEnd commits the composed text.
func (r *InputRouter) CompositionEnd(text string) {
	r.mu.Lock()
	r.composing = false
	r.mu.Unlock()
	if text != "" {
		r.emit(TextInputEvent{Text: text})
	}
}

// TextInput commits text typed outside a composition. It is ignored while
// composing; CompositionEnd delivers that text.
func (r *InputRouter) TextInput(text string) {
	r.mu.Lock()
	composing := r.composing
	r.mu.Unlock()
	if composing || text == "" {
		return
	}
	r.emit(TextInputEvent{Text: text})
}
