// Package i18n holds the UI strings of the puzzle in both display languages.
package i18n

import (
	"constellation/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	KeyTitle        = "title"
	KeyInstructions = "instructions"
	KeyCompleted    = "completed"
	KeyTryAnother   = "try_another"
	KeyReset        = "reset"
	KeyShowHint     = "show_hint"
	KeyHideHint     = "hide_hint"
	KeyProgress     = "progress"
	KeyLanguage     = "language"
	KeyQuit         = "quit"
)

var supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

func init() {
	set := func(tag language.Tag, key, msg string) {
		if err := message.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.English, KeyTitle, "Constellation Connect")
	set(language.English, KeyInstructions, "Click two stars to connect them. Trace the whole constellation.")
	set(language.English, KeyCompleted, "You traced %s!")
	set(language.English, KeyTryAnother, "Try another")
	set(language.English, KeyReset, "Reset")
	set(language.English, KeyShowHint, "Show hint")
	set(language.English, KeyHideHint, "Hide hint")
	set(language.English, KeyProgress, "%d of %d lines")
	set(language.English, KeyLanguage, "Español")
	set(language.English, KeyQuit, "Quit")

	set(language.Spanish, KeyTitle, "Conecta la Constelación")
	set(language.Spanish, KeyInstructions, "Haz clic en dos estrellas para unirlas. Traza toda la constelación.")
	set(language.Spanish, KeyCompleted, "¡Trazaste %s!")
	set(language.Spanish, KeyTryAnother, "Probar otra")
	set(language.Spanish, KeyReset, "Reiniciar")
	set(language.Spanish, KeyShowHint, "Mostrar pista")
	set(language.Spanish, KeyHideHint, "Ocultar pista")
	set(language.Spanish, KeyProgress, "%d de %d líneas")
	set(language.Spanish, KeyLanguage, "English")
	set(language.Spanish, KeyQuit, "Salir")
}

// Parse maps a language tag such as "es-MX" or "en_US" to a supported display
// language, defaulting to English.
func Parse(s string) domain.Language {
	tag, _, _ := matcher.Match(language.Make(s))
	base, _ := tag.Base()
	if base.String() == string(domain.LangSpanish) {
		return domain.LangSpanish
	}
	return domain.LangEnglish
}

// Toggle returns the other display language.
func Toggle(l domain.Language) domain.Language {
	if l == domain.LangSpanish {
		return domain.LangEnglish
	}
	return domain.LangSpanish
}

// T formats the message key in lang.
func T(lang domain.Language, key string, args ...interface{}) string {
	return printer(lang).Sprintf(key, args...)
}

func printer(lang domain.Language) *message.Printer {
	if lang == domain.LangSpanish {
		return message.NewPrinter(language.Spanish)
	}
	return message.NewPrinter(language.English)
}
