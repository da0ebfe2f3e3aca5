package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/tourbook/internal/app"
	"github.com/andy/tourbook/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type catalogTab int

const (
	tabServices catalogTab = iota
	tabGuides
	tabRates
	tabPartners
	tabCount
)

func (t catalogTab) String() string {
	switch t {
	case tabServices:
		return "Services"
	case tabGuides:
		return "Guides"
	case tabRates:
		return "Per Diem Rates"
	case tabPartners:
		return "Partners"
	default:
		return "Unknown"
	}
}

type catalogMode int

const (
	catalogModeList catalogMode = iota
	catalogModeNew
	catalogModePrice
)

// CatalogModel browses and edits master data
type CatalogModel struct {
	app       *app.App
	md        *domain.MasterData
	tab       catalogTab
	cursor    int
	loading   bool
	err       error
	statusMsg string

	mode       catalogMode
	labels     []string
	fields     []textinput.Model
	fieldFocus int
}

type catalogDataMsg struct {
	md *domain.MasterData
}

type catalogSavedMsg struct {
	status string
	err    error
}

// NewCatalogModel creates a new catalog screen model
func NewCatalogModel(a *app.App) tea.Model {
	return &CatalogModel{
		app:     a,
		loading: true,
	}
}

// IsCapturingInput returns true when a form is active
func (m *CatalogModel) IsCapturingInput() bool {
	return m.mode != catalogModeList
}

func (m *CatalogModel) Init() tea.Cmd {
	return m.load()
}

func (m *CatalogModel) load() tea.Cmd {
	return func() tea.Msg {
		md, err := m.app.MasterDataRepo.Load(context.Background())
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load catalog: %w", err)}
		}
		return catalogDataMsg{md: md}
	}
}

func (m *CatalogModel) rowCount() int {
	if m.md == nil {
		return 0
	}
	switch m.tab {
	case tabServices:
		return len(m.md.Services)
	case tabGuides:
		return len(m.md.Guides)
	case tabRates:
		return len(m.md.PerDiemRates)
	case tabPartners:
		return len(m.md.Partners)
	}
	return 0
}

func (m *CatalogModel) openForm(mode catalogMode, labels []string, values ...string) tea.Cmd {
	m.mode = mode
	m.labels = labels
	m.fields = make([]textinput.Model, len(labels))
	for i := range m.fields {
		m.fields[i] = textinput.New()
		m.fields[i].CharLimit = 100
		m.fields[i].Width = 40
		if i < len(values) {
			m.fields[i].SetValue(values[i])
		}
	}
	m.fieldFocus = 0
	m.err = nil
	return m.fields[0].Focus()
}

func (m *CatalogModel) newForm() tea.Cmd {
	switch m.tab {
	case tabServices:
		return m.openForm(catalogModeNew, []string{"Name:", "Price:", "Category:", "Unit:"})
	case tabGuides:
		return m.openForm(catalogModeNew, []string{"Name:", "Phone:", "Languages:"})
	case tabRates:
		return m.openForm(catalogModeNew, []string{"Location:", "Rate:", "Currency:"}, "", "", "VND")
	case tabPartners:
		return m.openForm(catalogModeNew, []string{"Name:", "Category:", "Contact:"})
	}
	return nil
}

func (m *CatalogModel) priceForm() tea.Cmd {
	switch m.tab {
	case tabServices:
		s := m.md.Services[m.cursor]
		return m.openForm(catalogModePrice, []string{"Price for " + s.Name + ":"}, strconv.FormatFloat(s.Price, 'f', -1, 64))
	case tabRates:
		r := m.md.PerDiemRates[m.cursor]
		return m.openForm(catalogModePrice, []string{"Rate for " + r.Location + ":"}, strconv.FormatFloat(r.Rate, 'f', -1, 64))
	}
	return nil
}

func (m *CatalogModel) save() tea.Cmd {
	values := make([]string, len(m.fields))
	for i := range m.fields {
		values[i] = strings.TrimSpace(m.fields[i].Value())
	}
	tab, mode, cursor, md := m.tab, m.mode, m.cursor, m.md
	repo := m.app.MasterDataRepo

	return func() tea.Msg {
		ctx := context.Background()

		if mode == catalogModePrice {
			amount, err := parseAmount(values[0])
			if err != nil || amount < 0 {
				return catalogSavedMsg{err: fmt.Errorf("invalid amount: %s", values[0])}
			}
			if tab == tabServices {
				err = repo.UpdateServicePrice(ctx, md.Services[cursor].ID, amount)
				return catalogSavedMsg{status: "Price updated", err: err}
			}
			err = repo.UpdatePerDiemRate(ctx, md.PerDiemRates[cursor].ID, amount)
			return catalogSavedMsg{status: "Rate updated; recompute tours to apply", err: err}
		}

		switch tab {
		case tabServices:
			price, err := parseAmount(values[1])
			if err != nil {
				return catalogSavedMsg{err: fmt.Errorf("invalid price: %s", values[1])}
			}
			s := &domain.Service{Name: values[0], Price: price, Category: values[2], Unit: values[3]}
			return catalogSavedMsg{status: "Added service " + s.Name, err: repo.CreateService(ctx, s)}
		case tabGuides:
			g := &domain.Guide{Name: values[0], Phone: values[1], Languages: values[2]}
			return catalogSavedMsg{status: "Added guide " + g.Name, err: repo.CreateGuide(ctx, g)}
		case tabRates:
			rate, err := parseAmount(values[1])
			if err != nil {
				return catalogSavedMsg{err: fmt.Errorf("invalid rate: %s", values[1])}
			}
			r := &domain.PerDiemRate{Location: values[0], Rate: rate, Currency: values[2]}
			return catalogSavedMsg{status: "Added rate for " + r.Location, err: repo.CreatePerDiemRate(ctx, r)}
		case tabPartners:
			p := &domain.Partner{Name: values[0], Category: values[1], Contact: values[2]}
			return catalogSavedMsg{status: "Added partner " + p.Name, err: repo.CreatePartner(ctx, p)}
		}
		return catalogSavedMsg{}
	}
}

func (m *CatalogModel) deleteService() tea.Cmd {
	s := m.md.Services[m.cursor]
	return func() tea.Msg {
		err := m.app.MasterDataRepo.DeleteService(context.Background(), s.ID)
		return catalogSavedMsg{status: "Deleted service " + s.Name, err: err}
	}
}

func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.load()

	case ErrorMsg:
		m.loading = false
		return m, nil

	case catalogDataMsg:
		m.loading = false
		m.md = msg.md
		if m.cursor >= m.rowCount() {
			m.cursor = max(0, m.rowCount()-1)
		}
		return m, nil

	case catalogSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = catalogModeList
		m.statusMsg = msg.status
		m.loading = true
		return m, m.load()
	}

	if m.mode != catalogModeList {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}
	m.statusMsg = ""
	m.err = nil

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Left):
		m.tab = (m.tab - 1 + tabCount) % tabCount
		m.cursor = 0
	case key.Matches(keyMsg, DefaultKeyMap.Right):
		m.tab = (m.tab + 1) % tabCount
		m.cursor = 0
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, DefaultKeyMap.New):
		return m, m.newForm()
	case keyMsg.String() == "p":
		if m.rowCount() > 0 {
			return m, m.priceForm()
		}
	case key.Matches(keyMsg, DefaultKeyMap.Delete):
		if m.tab == tabServices && m.rowCount() > 0 {
			return m, m.deleteService()
		}
	}
	return m, nil
}

func (m *CatalogModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		count := len(m.fields)
		switch keyMsg.String() {
		case "esc":
			m.mode = catalogModeList
			m.err = nil
			return m, nil
		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % count
			return m, m.fields[m.fieldFocus].Focus()
		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + count) % count
			return m, m.fields[m.fieldFocus].Focus()
		case "enter":
			if m.fieldFocus == count-1 {
				return m, m.save()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()
		case "ctrl+s":
			return m, m.save()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *CatalogModel) View() string {
	if m.loading {
		return "Loading catalog..."
	}

	var s string
	tabs := make([]string, 0, tabCount)
	for t := catalogTab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.String()))
		}
	}
	s += strings.Join(tabs, " ") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if m.mode != catalogModeList {
		for i, label := range m.labels {
			indicator := "  "
			labelStyle := subtitleStyle
			if i == m.fieldFocus {
				indicator = "> "
				labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
			}
			s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
		}
		s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")
		return s
	}

	rows := m.rows()
	if len(rows) == 0 {
		s += subtitleStyle.Render("  Nothing here yet. Press 'n' to add.") + "\n"
	}
	for i, row := range rows {
		if i == m.cursor {
			s += lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render("> "+row) + "\n"
		} else {
			s += "  " + row + "\n"
		}
	}

	help := "  ←/→: switch list  j/k: navigate  n: new"
	switch m.tab {
	case tabServices:
		help += "  p: price  d: delete"
	case tabRates:
		help += "  p: change rate"
	}
	s += "\n" + helpStyle.Render(help)
	return s
}

func (m *CatalogModel) rows() []string {
	if m.md == nil {
		return nil
	}
	var rows []string
	switch m.tab {
	case tabServices:
		for _, svc := range m.md.Services {
			rows = append(rows, fmt.Sprintf("%-32s %-14s %12s %-8s",
				truncateStr(svc.Name, 32), truncateStr(svc.Category, 14), formatMoney(svc.Price), svc.Unit))
		}
	case tabGuides:
		for _, g := range m.md.Guides {
			rows = append(rows, fmt.Sprintf("%-28s %-15s %s", truncateStr(g.Name, 28), g.Phone, g.Languages))
		}
	case tabRates:
		for _, r := range m.md.PerDiemRates {
			rows = append(rows, fmt.Sprintf("%-28s %12s %s/day", truncateStr(r.Location, 28), formatMoney(r.Rate), r.Currency))
		}
	case tabPartners:
		for _, p := range m.md.Partners {
			rows = append(rows, fmt.Sprintf("%-28s %-14s %s", truncateStr(p.Name, 28), p.Category, p.Contact))
		}
	}
	return rows
}
