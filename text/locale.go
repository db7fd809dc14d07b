package text

import (
	"strings"

	"golang.org/x/text/language"
)

// FallbackLocale is used when the user's locale is unknown.
var FallbackLocale = language.AmericanEnglish

// DetectLocale returns the user's locale: navigator.language in the
// browser, LC_ALL, LC_MESSAGES or LANG elsewhere.
func DetectLocale() language.Tag {
	return ParseLocale(userLocale())
}

// ParseLocale parses a BCP 47 tag or a POSIX locale such as
// "de_DE.UTF-8", returning FallbackLocale for "", "C" and "POSIX".
func ParseLocale(s string) language.Tag {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	switch s {
	case "", "C", "POSIX":
		return FallbackLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return FallbackLocale
	}
	return tag
}
