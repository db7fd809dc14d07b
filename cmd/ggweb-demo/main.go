// Command ggweb-demo opens a window, waits for the GPU backend and draws
// a line of text through the sprite atlas.
//
// Natively the first drawn frame is composited from the atlas pages and
// written as a PNG. In the browser frames are drawn until the page is
// closed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/config"
	"github.com/gogpu/ggweb/platform"
	"github.com/gogpu/ggweb/text"
)

var (
	configPath = flag.String("config", "", "TOML configuration file")
	message    = flag.String("text", "Hello from ggweb", "text to draw")
	fontSize   = flag.Float64("size", 32, "font size in logical pixels")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	ggweb.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "ggweb-demo:", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if *configPath == "" {
		return config.Default(), nil
	}
	return config.Load(*configPath)
}

// textView draws one editable line of text.
type textView struct {
	ts     text.TextSystem
	family string
	size   float32

	mu    sync.Mutex
	text  string
	color [4]uint8
}

func (v *textView) Draw(dc *platform.DrawContext) (platform.FrameArtifacts, error) {
	id, err := v.ts.FontID(v.family)
	if err != nil {
		return platform.FrameArtifacts{}, err
	}
	v.mu.Lock()
	s, color := v.text, v.color
	v.mu.Unlock()

	line := v.ts.LayoutLine(s, v.size, id)
	drawn := dc.DrawText(v.ts, line, 16, 16+line.Ascent, color)
	return platform.FrameArtifacts{Elements: drawn}, nil
}

// apply edits the text from committed input and Backspace. It reports
// whether the text changed.
func (v *textView) apply(ev platform.InputEvent) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch ev := ev.(type) {
	case platform.TextInputEvent:
		if ev.Marked || ev.Text == "" {
			return false
		}
		v.text += ev.Text
		return true
	case platform.KeyDownEvent:
		if ev.Keystroke.Key != "backspace" || v.text == "" {
			return false
		}
		_, n := utf8.DecodeLastRuneInString(v.text)
		v.text = v.text[:len(v.text)-n]
		return true
	}
	return false
}

// setAppearance picks a text color readable on the host color scheme.
func (v *textView) setAppearance(a platform.Appearance) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if a == platform.Dark {
		v.color = [4]uint8{0xe8, 0xe8, 0xe8, 0xff}
		return
	}
	v.color = [4]uint8{0x20, 0x20, 0x20, 0xff}
}

func newTextView(ts text.TextSystem) *textView {
	return &textView{
		ts:     ts,
		family: text.DefaultFamily,
		text:   *message,
		size:   float32(*fontSize),
		color:  [4]uint8{0x20, 0x20, 0x20, 0xff},
	}
}
