package tui

import tea "github.com/charmbracelet/bubbletea"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

func switchScreen(screen Screen) tea.Cmd {
	return func() tea.Msg { return SwitchScreenMsg{Screen: screen} }
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries an error that concerns the whole app, such as an
// unreadable catalog
type ErrorMsg struct {
	Err error
}
