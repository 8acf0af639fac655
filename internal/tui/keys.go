package tui

import (
	"constellation/internal/domain"
	"constellation/internal/i18n"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Hint     key.Binding
	Reset    key.Binding
	Next     key.Binding
	Language key.Binding
	Another  key.Binding
	Quit     key.Binding
}

func newKeyMap(lang domain.Language) keyMap {
	hint := i18n.T(lang, i18n.KeyShowHint) + "/" + i18n.T(lang, i18n.KeyHideHint)
	return keyMap{
		Hint: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", hint),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", i18n.T(lang, i18n.KeyReset)),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "n"),
			key.WithHelp("tab/n", i18n.T(lang, i18n.KeyTryAnother)),
		),
		Language: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", i18n.T(lang, i18n.KeyLanguage)),
		),
		Another: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.T(lang, i18n.KeyTryAnother)),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", i18n.T(lang, i18n.KeyQuit)),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hint, k.Reset, k.Next, k.Language, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Another}}
}
