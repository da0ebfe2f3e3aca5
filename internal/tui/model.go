package tui

import (
	"fmt"
	"strings"

	"github.com/andy/tourbook/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenTours Screen = iota
	ScreenCatalog
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenTours:
		return "Tours"
	case ScreenCatalog:
		return "Catalog"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	tours   tea.Model
	catalog tea.Model

	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenTours,
		tours:         NewToursModel(a),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.tours.Init()
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenTours:
		if m.tours == nil {
			m.tours = NewToursModel(m.app)
			return m.tours.Init()
		}
	case ScreenCatalog:
		if m.catalog == nil {
			m.catalog = NewCatalogModel(m.app)
			return m.catalog.Init()
		}
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreen() tea.Model {
	if m.currentScreen == ScreenCatalog {
		return m.catalog
	}
	return m.tours
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		capturing := false
		if ic, ok := m.activeScreen().(InputCapturer); ok {
			capturing = ic.IsCapturingInput()
		}
		if !capturing {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Tours):
				return m, switchScreen(ScreenTours)
			case key.Matches(msg, DefaultKeyMap.Catalog):
				return m, switchScreen(ScreenCatalog)
			}
		}

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		m.err = nil
		return m, m.initScreen(msg.Screen)

	case ErrorMsg:
		// shown in the frame; the active screen still sees it to stop loading
		m.err = msg.Err
	}

	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenTours:
		if m.tours != nil {
			m.tours, cmd = m.tours.Update(msg)
		}
	case ScreenCatalog:
		if m.catalog != nil {
			m.catalog, cmd = m.catalog.Update(msg)
		}
	}
	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("tourbook - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[T]ours  [C]atalog  [Q]uit")

	content := "Loading..."
	if screen := m.activeScreen(); screen != nil {
		content = screen.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := m.width - 6 // border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := dividerStyle.Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}
