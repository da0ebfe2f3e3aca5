package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Palette
	primaryColor = lipgloss.Color("39")  // Blue
	accentColor  = lipgloss.Color("205") // Pink
	mutedColor   = lipgloss.Color("241") // Gray
	successColor = lipgloss.Color("76")  // Green
	warningColor = lipgloss.Color("214") // Orange
	errorColor   = lipgloss.Color("196") // Red
	borderColor  = lipgloss.Color("63")  // Soft purple

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(primaryColor).Foreground(lipgloss.Color("0"))

	// Frame around every screen
	appBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	dividerStyle = lipgloss.NewStyle().Foreground(borderColor)

	// Catalog tabs
	activeTabStyle   = selectedStyle.Padding(0, 1)
	inactiveTabStyle = subtitleStyle.Padding(0, 1)

	// Tour detail
	sectionStyle     = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	discrepancyStyle = lipgloss.NewStyle().Foreground(warningColor)
	owedStyle        = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	topUpStyle       = lipgloss.NewStyle().Bold(true).Foreground(errorColor)

	statusStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
)
