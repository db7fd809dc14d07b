//go:build !js

package platform

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gogpu/ggweb"
)

// hostAppearance reports Light: native hosts here have no color scheme
// query.
func hostAppearance() Appearance { return Light }

func setHostCursor(style CursorStyle) {
	ggweb.Logger().Debug("platform: cursor", "style", style.String())
}

// openCommand returns the command that opens url in the user's browser.
func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func openHostURL(url string) error {
	name, args := openCommand(runtime.GOOS, url)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("platform: open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// attachHost has nothing to bind natively; embedders feed w.Input().
func attachHost(*Window, string) func() { return func() {} }
