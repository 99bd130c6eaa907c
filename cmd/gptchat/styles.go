package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the TUI.
var (
	// User message styles.
	userPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	userBlockStyle  = lipgloss.NewStyle().PaddingLeft(1)

	// Assistant reply styles.
	answerPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	answerBlockStyle  = lipgloss.NewStyle().PaddingLeft(1)

	// Spinner / animation styles.
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// Notice line styles.
	blockingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // red
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow

	// Sidebar styles.
	sidebarBorder     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	sidebarTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

	// General utility styles.
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray/dim
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
