package i18n

import (
	"testing"

	"constellation/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := map[string]domain.Language{
		"en":    domain.LangEnglish,
		"es":    domain.LangSpanish,
		"es-MX": domain.LangSpanish,
		"en-GB": domain.LangEnglish,
		"fr":    domain.LangEnglish,
		"":      domain.LangEnglish,
	}
	for in, want := range tests {
		assert.Equal(t, want, Parse(in), "Parse(%q)", in)
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "You traced Orion!", T(domain.LangEnglish, KeyCompleted, "Orion"))
	assert.Equal(t, "¡Trazaste Orión!", T(domain.LangSpanish, KeyCompleted, "Orión"))
	assert.Equal(t, "3 de 6 líneas", T(domain.LangSpanish, KeyProgress, 3, 6))
	assert.Equal(t, "Reset", T(domain.LangEnglish, KeyReset))
}

func TestToggle(t *testing.T) {
	assert.Equal(t, domain.LangSpanish, Toggle(domain.LangEnglish))
	assert.Equal(t, domain.LangEnglish, Toggle(domain.LangSpanish))
}
