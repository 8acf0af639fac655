package tui

import "github.com/charmbracelet/lipgloss"

// Night sky palette
var (
	SkyColor      = lipgloss.Color("#050816")
	DustColor     = lipgloss.Color("#5c6b8a")
	GlowColor     = lipgloss.Color("#7896ff")
	StarColor     = lipgloss.Color("#ffffff")
	SelectedColor = lipgloss.Color("#ffd666")
	EdgeColor     = lipgloss.Color("#8cc8ff")
	HintColor     = lipgloss.Color("#ff78c8")
	PendingColor  = lipgloss.Color("#e0e0e0")
	PanelColor    = lipgloss.Color("#1a2536")
	AccentColor   = lipgloss.Color("#8BC34A")
)

// Theme holds the styles of the terminal client.
type Theme struct {
	Title   lipgloss.Style
	Subtle  lipgloss.Style
	Status  lipgloss.Style
	Canvas  lipgloss.Style
	Cells   map[CellKind]lipgloss.Style
	Success lipgloss.Style
}

// DefaultTheme returns the night sky theme.
func DefaultTheme() Theme {
	cell := func(fg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(fg).Background(SkyColor)
	}
	return Theme{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(SelectedColor),
		Subtle: lipgloss.NewStyle().Foreground(DustColor),
		Status: lipgloss.NewStyle().Foreground(EdgeColor),
		Canvas: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(GlowColor),
		Cells: map[CellKind]lipgloss.Style{
			CellEmpty:    cell(SkyColor),
			CellDust:     cell(DustColor),
			CellGlow:     cell(GlowColor),
			CellStar:     cell(StarColor).Bold(true),
			CellSelected: cell(SelectedColor).Bold(true),
			CellEdge:     cell(EdgeColor),
			CellHint:     cell(HintColor),
			CellPending:  cell(PendingColor),
			CellPanel:    lipgloss.NewStyle().Foreground(StarColor).Background(PanelColor),
			CellButton:   lipgloss.NewStyle().Foreground(SkyColor).Background(AccentColor).Bold(true),
		},
		Success: lipgloss.NewStyle().Bold(true).Foreground(AccentColor),
	}
}
