package platform

import "fmt"

// Appearance is the color scheme the host prefers.
type Appearance int

const (
	Light Appearance = iota
	Dark
)

// AppearanceFromDark maps a prefers-color-scheme: dark match.
func AppearanceFromDark(dark bool) Appearance {
	if dark {
		return Dark
	}
	return Light
}

func (a Appearance) String() string {
	switch a {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return fmt.Sprintf("Appearance(%d)", int(a))
	}
}
