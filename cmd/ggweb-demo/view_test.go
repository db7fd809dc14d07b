//go:build !js

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/ggweb/platform"
)

func TestTextViewApply(t *testing.T) {
	v := &textView{text: "hé"}

	assert.False(t, v.apply(platform.TextInputEvent{Text: "日", Marked: true}))
	assert.True(t, v.apply(platform.TextInputEvent{Text: "日本"}))
	assert.Equal(t, "hé日本", v.text)

	backspace := platform.KeyDownEvent{Keystroke: platform.Keystroke{Key: "backspace"}}
	assert.True(t, v.apply(backspace))
	assert.True(t, v.apply(backspace))
	assert.True(t, v.apply(backspace))
	assert.Equal(t, "h", v.text)
	assert.True(t, v.apply(backspace))
	assert.False(t, v.apply(backspace))
	assert.Empty(t, v.text)

	assert.False(t, v.apply(platform.KeyDownEvent{Keystroke: platform.Keystroke{Key: "a", KeyChar: "a"}}))
	assert.False(t, v.apply(platform.MouseMoveEvent{}))
}

func TestTextViewAppearance(t *testing.T) {
	v := &textView{}
	v.setAppearance(platform.Dark)
	dark := v.color
	v.setAppearance(platform.Light)
	assert.NotEqual(t, dark, v.color)
	assert.Equal(t, [4]uint8{0x20, 0x20, 0x20, 0xff}, v.color)
}
