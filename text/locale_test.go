package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"de-DE", language.MustParse("de-DE")},
		{"de_DE.UTF-8", language.MustParse("de-DE")},
		{"fr_CA@euro", language.MustParse("fr-CA")},
		{"ja", language.Japanese},
		{"", FallbackLocale},
		{"C", FallbackLocale},
		{"POSIX", FallbackLocale},
		{"??", FallbackLocale},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocale(tt.in))
		})
	}
}

func TestDetectLocaleFromEnv(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "pt_BR.UTF-8")
	assert.Equal(t, language.MustParse("pt-BR"), DetectLocale())

	t.Setenv("LC_ALL", "sv_SE")
	assert.Equal(t, language.MustParse("sv-SE"), DetectLocale())
}
