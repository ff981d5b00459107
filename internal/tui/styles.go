package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("205")
	colorMuted  = lipgloss.Color("240")
	colorOK     = lipgloss.Color("42")
	colorWarn   = lipgloss.Color("214")
	colorDanger = lipgloss.Color("196")
)

var (
	activeTabStyle   = lipgloss.NewStyle().Foreground(colorAccent).Background(lipgloss.Color("236")).Padding(0, 1).Bold(true)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	// reference date shown after the tabs
	dateStyle  = lipgloss.NewStyle().Foreground(colorAccent).PaddingLeft(2)
	emptyStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	dangerStyle  = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(colorOK)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarn).Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
