package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	authorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	likeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)
