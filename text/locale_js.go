//go:build js

package text

import "syscall/js"

func userLocale() string {
	nav := js.Global().Get("navigator")
	if nav.IsUndefined() || nav.IsNull() {
		return ""
	}
	lang := nav.Get("language")
	if lang.Type() != js.TypeString {
		return ""
	}
	return lang.String()
}
