//go:build js

package platform

import (
	"errors"
	"syscall/js"
	"time"

	"github.com/gogpu/ggweb"
)

const darkSchemeQuery = "(prefers-color-scheme: dark)"

// errPopupBlocked is returned when window.open yields no window.
var errPopupBlocked = errors.New("platform: browser blocked the new window")

func hostAppearance() Appearance {
	g := js.Global()
	if !g.Get("matchMedia").Truthy() {
		return Light
	}
	return AppearanceFromDark(g.Call("matchMedia", darkSchemeQuery).Get("matches").Truthy())
}

func setHostCursor(style CursorStyle) {
	body := js.Global().Get("document").Get("body")
	if body.Truthy() {
		body.Get("style").Set("cursor", style.CSS())
	}
}

func openHostURL(url string) error {
	if !js.Global().Call("open", url, "_blank").Truthy() {
		return errPopupBlocked
	}
	return nil
}

// listeners tracks registered DOM callbacks so they can be released.
type listeners struct {
	entries []listener
	cleanup []func()
}

type listener struct {
	target js.Value
	name   string
	fn     js.Func
}

func (l *listeners) on(target js.Value, name string, fn func(e js.Value)) {
	if !target.Truthy() {
		return
	}
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		} else {
			fn(js.Undefined())
		}
		return nil
	})
	// Wheel and touch handlers call preventDefault, which passive
	// listeners ignore.
	opts := map[string]any{"passive": false}
	target.Call("addEventListener", name, f, opts)
	l.entries = append(l.entries, listener{target: target, name: name, fn: f})
}

func (l *listeners) release() {
	for _, e := range l.entries {
		e.target.Call("removeEventListener", e.name, e.fn)
		e.fn.Release()
	}
	l.entries = nil
	for _, fn := range l.cleanup {
		fn()
	}
	l.cleanup = nil
}

func modifiersOf(e js.Value, keyboard bool) Modifiers {
	m := Modifiers{
		Control:  e.Get("ctrlKey").Bool(),
		Alt:      e.Get("altKey").Bool(),
		Shift:    e.Get("shiftKey").Bool(),
		Platform: e.Get("metaKey").Bool(),
	}
	if keyboard {
		m.Function = modifierState(e, "Fn")
	}
	return m
}

func modifierState(e js.Value, name string) bool {
	if e.Get("getModifierState").Type() != js.TypeFunction {
		return false
	}
	return e.Call("getModifierState", name).Bool()
}

func offsetOf(e js.Value) Point {
	return Point{X: float32(e.Get("offsetX").Float()), Y: float32(e.Get("offsetY").Float())}
}

func mouseSample(e js.Value) MouseSample {
	return MouseSample{
		Position:  offsetOf(e),
		Button:    e.Get("button").Int(),
		Modifiers: modifiersOf(e, false),
		Time:      time.Now(),
	}
}

func keySample(e js.Value) KeySample {
	return KeySample{
		Key:       e.Get("key").String(),
		Modifiers: modifiersOf(e, true),
		CapsLock:  modifierState(e, "CapsLock"),
		Repeat:    e.Get("repeat").Bool(),
		Composing: e.Get("isComposing").Bool(),
	}
}

// touchPoint returns the first changed touch relative to el.
func touchPoint(e, el js.Value) (Point, bool) {
	touches := e.Get("changedTouches")
	if !touches.Truthy() || touches.Length() == 0 {
		return Point{}, false
	}
	t := touches.Index(0)
	x, y := t.Get("clientX").Float(), t.Get("clientY").Float()
	if el.Truthy() {
		rect := el.Call("getBoundingClientRect")
		x -= rect.Get("left").Float()
		y -= rect.Get("top").Float()
	}
	return Point{X: float32(x), Y: float32(y)}, true
}

// attachHost binds the canvas with id canvasID to w: DOM pointer,
// wheel, touch, keyboard, focus and IME events feed w.Input(), the
// color scheme query feeds the window appearance, and canvas size or
// device pixel ratio changes resize the window. The returned function
// removes every listener.
func attachHost(w *Window, canvasID string) func() {
	g := js.Global()
	doc := g.Get("document")
	canvas := doc.Call("getElementById", canvasID)
	if !canvas.Truthy() {
		ggweb.Logger().Warn("platform: canvas not found, listening on body", "id", canvasID)
		canvas = doc.Get("body")
	}

	l := &listeners{}
	in := w.Input()
	ime := newIMEInput(doc)

	l.on(canvas, "mousemove", func(e js.Value) { in.MouseMove(mouseSample(e)) })
	l.on(canvas, "mousedown", func(e js.Value) {
		e.Call("preventDefault")
		ime.focus()
		in.MouseDown(mouseSample(e))
	})
	l.on(canvas, "mouseup", func(e js.Value) { in.MouseUp(mouseSample(e)) })
	l.on(canvas, "mouseenter", func(js.Value) { in.MouseEnter() })
	l.on(canvas, "mouseleave", func(e js.Value) { in.MouseLeave(mouseSample(e)) })
	l.on(canvas, "wheel", func(e js.Value) {
		e.Call("preventDefault")
		in.Wheel(WheelSample{
			Position:  offsetOf(e),
			Modifiers: modifiersOf(e, false),
			DeltaMode: e.Get("deltaMode").Int(),
			DeltaX:    e.Get("deltaX").Float(),
			DeltaY:    e.Get("deltaY").Float(),
		})
	})
	l.on(canvas, "contextmenu", func(e js.Value) { e.Call("preventDefault") })

	l.on(canvas, "touchstart", func(e js.Value) {
		e.Call("preventDefault")
		if p, ok := touchPoint(e, canvas); ok {
			ime.focus()
			in.TouchStart(p, time.Now())
		}
	})
	l.on(canvas, "touchmove", func(e js.Value) {
		e.Call("preventDefault")
		if p, ok := touchPoint(e, canvas); ok {
			in.TouchMove(p)
		}
	})
	touchEnd := func(e js.Value) {
		if p, ok := touchPoint(e, canvas); ok {
			in.TouchEnd(p)
		}
	}
	l.on(canvas, "touchend", func(e js.Value) {
		e.Call("preventDefault")
		touchEnd(e)
	})
	l.on(canvas, "touchcancel", touchEnd)

	l.on(g, "keydown", func(e js.Value) { in.KeyDown(keySample(e)) })
	l.on(g, "keyup", func(e js.Value) { in.KeyUp(keySample(e)) })
	l.on(g, "focus", func(js.Value) { in.SetActive(true) })
	l.on(g, "blur", func(js.Value) { in.SetActive(false) })
	l.on(doc, "visibilitychange", func(js.Value) { in.SetActive(!doc.Get("hidden").Bool()) })

	if g.Get("matchMedia").Truthy() {
		l.on(g.Call("matchMedia", darkSchemeQuery), "change", func(e js.Value) {
			w.setAppearance(AppearanceFromDark(e.Get("matches").Bool()))
		})
	}

	resize := func(width, height float64) {
		scale := float32(g.Get("devicePixelRatio").Float())
		size := Size{Width: int(width), Height: int(height)}
		if size == w.Size() && scale == w.ScaleFactor() {
			return
		}
		canvas.Set("width", int(width*float64(scale)))
		canvas.Set("height", int(height*float64(scale)))
		w.Resize(size, scale)
	}
	// Zooming changes devicePixelRatio without resizing the canvas box.
	l.on(g, "resize", func(js.Value) {
		resize(canvas.Get("clientWidth").Float(), canvas.Get("clientHeight").Float())
	})
	if ctor := g.Get("ResizeObserver"); ctor.Truthy() {
		cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
			entries := args[0]
			if entries.Length() > 0 {
				rect := entries.Index(0).Get("contentRect")
				resize(rect.Get("width").Float(), rect.Get("height").Float())
			}
			return nil
		})
		observer := ctor.New(cb)
		observer.Call("observe", canvas)
		l.cleanup = append(l.cleanup, func() {
			observer.Call("disconnect")
			cb.Release()
		})
	}

	if ime.el.Truthy() {
		l.on(ime.el, "compositionstart", func(js.Value) { in.CompositionStart() })
		l.on(ime.el, "compositionupdate", func(e js.Value) { in.CompositionUpdate(eventData(e)) })
		l.on(ime.el, "compositionend", func(e js.Value) {
			in.CompositionEnd(eventData(e))
			ime.clear()
		})
		l.on(ime.el, "input", func(e js.Value) {
			if in.Composing() {
				return
			}
			in.TextInput(eventData(e))
			ime.clear()
		})
		l.cleanup = append(l.cleanup, ime.remove)
	}

	return l.release
}

func eventData(e js.Value) string {
	d := e.Get("data")
	if d.Type() != js.TypeString {
		return ""
	}
	return d.String()
}

// imeInput is an invisible text field that receives IME and text input.
type imeInput struct {
	el js.Value
}

func newIMEInput(doc js.Value) imeInput {
	body := doc.Get("body")
	if !body.Truthy() {
		return imeInput{el: js.Null()}
	}
	el := doc.Call("createElement", "input")
	el.Set("type", "text")
	el.Call("setAttribute", "autocomplete", "off")
	el.Call("setAttribute", "aria-hidden", "true")
	style := el.Get("style")
	style.Set("position", "absolute")
	style.Set("opacity", "0")
	style.Set("pointerEvents", "none")
	style.Set("width", "1px")
	style.Set("height", "1px")
	body.Call("appendChild", el)
	return imeInput{el: el}
}

func (i imeInput) focus() {
	if i.el.Truthy() {
		i.el.Call("focus")
	}
}

func (i imeInput) clear() {
	if i.el.Truthy() {
		i.el.Set("value", "")
	}
}

func (i imeInput) remove() {
	if i.el.Truthy() {
		i.el.Call("remove")
	}
}
