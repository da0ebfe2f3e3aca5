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

type tourMode int

const (
	tourModeList tourMode = iota
	tourModeDetail
	tourModeEdit
	tourModePrice
	tourModeConfirmDelete
)

// edit form field indices
const (
	tfCode = iota
	tfCustomer
	tfCompany
	tfNationality
	tfPax
	tfStart
	tfEnd
	tfGuide
	tfDriver
	tfAdvance
	tfCollections
	tfTip
	tfCount
)

var tourFieldLabels = []string{
	"Code:", "Customer:", "Company:", "Nationality:", "Pax:", "Start date:",
	"End date:", "Guide:", "Driver:", "Advance:", "Collections for company:", "Company tip:",
}

// ToursModel lists tours and shows a settlement detail view with edit forms
type ToursModel struct {
	app       *app.App
	tours     []*domain.Tour
	md        *domain.MasterData
	cursor    int
	loading   bool
	err       error
	statusMsg string

	mode          tourMode
	selected      *domain.Tour
	serviceCursor int

	// Form state
	fields     []textinput.Model
	fieldFocus int
	priceInput textinput.Model
	problems   domain.ValidationErrors
}

type toursDataMsg struct {
	tours []*domain.Tour
	md    *domain.MasterData
}

type tourSavedMsg struct {
	tour     *domain.Tour
	problems domain.ValidationErrors
	status   string
	err      error
}

type tourDeletedMsg struct {
	code string
	err  error
}

// NewToursModel creates a new tours screen model
func NewToursModel(a *app.App) tea.Model {
	return &ToursModel{
		app:     a,
		loading: true,
	}
}

// IsCapturingInput returns true when a form is active
func (m *ToursModel) IsCapturingInput() bool {
	return m.mode == tourModeEdit || m.mode == tourModePrice
}

func (m *ToursModel) Init() tea.Cmd {
	return m.loadTours()
}

func (m *ToursModel) loadTours() tea.Cmd {
	return func() tea.Msg {
		md, err := m.app.MasterDataRepo.Load(context.Background())
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load catalog: %w", err)}
		}
		return toursDataMsg{tours: m.app.TourService.List(), md: md}
	}
}

func (m *ToursModel) guideName(id string) string {
	if id == "" {
		return "-"
	}
	return m.md.GuideName(id)
}

// resolveGuide matches a typed guide name (accents and case ignored) or id
func (m *ToursModel) resolveGuide(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if g := m.md.GuideByID(ref); g != nil {
		return g.ID, nil
	}
	want := domain.NormalizeText(ref)
	for _, g := range m.md.Guides {
		if domain.NormalizeText(g.Name) == want {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("unknown guide %q", ref)
}

func (m *ToursModel) initForm(t *domain.Tour) {
	m.fields = make([]textinput.Model, tfCount)
	for i := range m.fields {
		m.fields[i] = textinput.New()
		m.fields[i].CharLimit = 100
		m.fields[i].Width = 40
	}
	m.fields[tfStart].Placeholder = "YYYY-MM-DD"
	m.fields[tfEnd].Placeholder = "YYYY-MM-DD"
	m.fields[tfGuide].Placeholder = "Guide name"

	g := t.General
	m.fields[tfCode].SetValue(g.Code)
	m.fields[tfCustomer].SetValue(g.CustomerName)
	m.fields[tfCompany].SetValue(g.CompanyName)
	m.fields[tfNationality].SetValue(g.Nationality)
	m.fields[tfPax].SetValue(strconv.Itoa(g.Pax))
	m.fields[tfStart].SetValue(g.StartDate)
	m.fields[tfEnd].SetValue(g.EndDate)
	if g.GuideID != "" {
		m.fields[tfGuide].SetValue(m.md.GuideName(g.GuideID))
	}
	m.fields[tfDriver].SetValue(g.DriverName)
	m.fields[tfAdvance].SetValue(strconv.FormatFloat(t.Financials.Advance, 'f', -1, 64))
	m.fields[tfCollections].SetValue(strconv.FormatFloat(t.Financials.CollectionsForCompany, 'f', -1, 64))
	m.fields[tfTip].SetValue(strconv.FormatFloat(t.Financials.CompanyTip, 'f', -1, 64))

	m.problems = nil
	m.err = nil
	m.fieldFocus = tfCode
}

func (m *ToursModel) saveForm() tea.Cmd {
	values := make([]string, tfCount)
	for i := range m.fields {
		values[i] = strings.TrimSpace(m.fields[i].Value())
	}
	id := m.selected.ID

	return func() tea.Msg {
		pax, err := strconv.Atoi(values[tfPax])
		if err != nil && values[tfPax] != "" {
			return tourSavedMsg{err: fmt.Errorf("invalid pax: %s", values[tfPax])}
		}
		guideID, err := m.resolveGuide(values[tfGuide])
		if err != nil {
			return tourSavedMsg{err: err}
		}
		amounts := make(map[int]float64, 3)
		for _, f := range []int{tfAdvance, tfCollections, tfTip} {
			v, err := parseAmount(values[f])
			if err != nil {
				return tourSavedMsg{err: fmt.Errorf("invalid amount: %s", values[f])}
			}
			amounts[f] = v
		}

		tour, problems, err := m.app.TourService.SaveManualEdit(context.Background(), id, func(t *domain.Tour) {
			t.General.Code = values[tfCode]
			t.General.CustomerName = values[tfCustomer]
			t.General.CompanyName = values[tfCompany]
			t.General.Nationality = values[tfNationality]
			t.General.Pax = pax
			t.General.StartDate = values[tfStart]
			t.General.EndDate = values[tfEnd]
			t.General.GuideID = guideID
			t.General.DriverName = values[tfDriver]
			t.Financials.Advance = amounts[tfAdvance]
			t.Financials.CollectionsForCompany = amounts[tfCollections]
			t.Financials.CompanyTip = amounts[tfTip]
		})
		return tourSavedMsg{tour: tour, problems: problems, status: "Saved", err: err}
	}
}

func (m *ToursModel) savePrice() tea.Cmd {
	id := m.selected.ID
	idx := m.serviceCursor
	raw := m.priceInput.Value()

	return func() tea.Msg {
		price, err := parseAmount(raw)
		if err != nil {
			return tourSavedMsg{err: fmt.Errorf("invalid price: %s", raw)}
		}
		tour, problems, err := m.app.TourService.SaveManualEdit(context.Background(), id, func(t *domain.Tour) {
			if idx < len(t.Services) {
				t.Services[idx].SetUnitPrice(price)
			}
		})
		return tourSavedMsg{tour: tour, problems: problems, status: "Price updated", err: err}
	}
}

func (m *ToursModel) recompute() tea.Cmd {
	id := m.selected.ID
	return func() tea.Msg {
		tour, err := m.app.TourService.Recompute(context.Background(), id)
		return tourSavedMsg{tour: tour, status: "Recomputed", err: err}
	}
}

func (m *ToursModel) deleteSelected() tea.Cmd {
	t := m.selected
	return func() tea.Msg {
		err := m.app.TourService.Delete(context.Background(), t.ID)
		return tourDeletedMsg{code: t.General.Code, err: err}
	}
}

func (m *ToursModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadTours()

	case ErrorMsg:
		m.loading = false
		return m, nil

	case toursDataMsg:
		m.loading = false
		m.tours = msg.tours
		m.md = msg.md
		if m.cursor >= len(m.tours) {
			m.cursor = max(0, len(m.tours)-1)
		}
		return m, nil

	case tourSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if len(msg.problems) > 0 {
			m.problems = msg.problems
			return m, nil
		}
		m.selected = msg.tour
		m.mode = tourModeDetail
		m.problems = nil
		m.statusMsg = msg.status
		return m, m.loadTours()

	case tourDeletedMsg:
		m.mode = tourModeList
		m.selected = nil
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.code)
		return m, m.loadTours()
	}

	switch m.mode {
	case tourModeEdit:
		return m.updateForm(msg)
	case tourModePrice:
		return m.updatePrice(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}
	m.statusMsg = ""
	m.err = nil

	switch m.mode {
	case tourModeConfirmDelete:
		if keyMsg.String() == "y" {
			return m, m.deleteSelected()
		}
		m.mode = tourModeDetail
		return m, nil

	case tourModeDetail:
		switch {
		case key.Matches(keyMsg, DefaultKeyMap.Back):
			m.mode = tourModeList
		case key.Matches(keyMsg, DefaultKeyMap.Up):
			if m.serviceCursor > 0 {
				m.serviceCursor--
			}
		case key.Matches(keyMsg, DefaultKeyMap.Down):
			if m.serviceCursor < len(m.selected.Services)-1 {
				m.serviceCursor++
			}
		case key.Matches(keyMsg, DefaultKeyMap.Edit):
			m.initForm(m.selected)
			m.mode = tourModeEdit
			return m, m.fields[tfCode].Focus()
		case keyMsg.String() == "p":
			if len(m.selected.Services) == 0 {
				return m, nil
			}
			m.priceInput = textinput.New()
			m.priceInput.Width = 20
			m.priceInput.SetValue(strconv.FormatFloat(m.selected.Services[m.serviceCursor].UnitPrice, 'f', -1, 64))
			m.mode = tourModePrice
			return m, m.priceInput.Focus()
		case key.Matches(keyMsg, DefaultKeyMap.Recompute):
			return m, m.recompute()
		case key.Matches(keyMsg, DefaultKeyMap.Delete):
			m.mode = tourModeConfirmDelete
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.cursor < len(m.tours)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, DefaultKeyMap.Select):
		if m.cursor < len(m.tours) {
			m.selected = m.tours[m.cursor]
			m.serviceCursor = 0
			m.mode = tourModeDetail
		}
	}
	return m, nil
}

func (m *ToursModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.mode = tourModeDetail
			m.err = nil
			m.problems = nil
			return m, nil
		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % tfCount
			return m, m.fields[m.fieldFocus].Focus()
		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + tfCount) % tfCount
			return m, m.fields[m.fieldFocus].Focus()
		case "enter":
			if m.fieldFocus == tfCount-1 {
				return m, m.saveForm()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()
		case "ctrl+s":
			return m, m.saveForm()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *ToursModel) updatePrice(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.mode = tourModeDetail
			m.err = nil
			return m, nil
		case "enter":
			return m, m.savePrice()
		}
	}

	var cmd tea.Cmd
	m.priceInput, cmd = m.priceInput.Update(msg)
	return m, cmd
}

func (m *ToursModel) View() string {
	if m.loading {
		return "Loading tours..."
	}

	switch m.mode {
	case tourModeEdit:
		return m.viewForm()
	case tourModeDetail, tourModePrice, tourModeConfirmDelete:
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *ToursModel) viewList() string {
	var s string
	s += titleStyle.Render("Tours") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.tours) == 0 {
		s += subtitleStyle.Render("  No tours yet. Import one with 'tourbook tours import <image>'.") + "\n"
		return s
	}

	s += subtitleStyle.Render(fmt.Sprintf("  %-14s %-22s %-11s %-16s %14s %14s",
		"Code", "Customer", "Start", "Guide", "Total", "Difference")) + "\n"

	for i, t := range m.tours {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			indicator = "> "
			style = style.Bold(true).Foreground(primaryColor)
		}
		line := fmt.Sprintf("%s%-14s %-22s %-11s %-16s %14s %14s",
			indicator,
			truncateStr(t.General.Code, 14),
			truncateStr(t.General.CustomerName, 22),
			t.General.StartDate,
			truncateStr(m.guideName(t.General.GuideID), 16),
			formatMoney(t.Financials.TotalCost),
			formatMoney(t.Financials.DifferenceToAdvance),
		)
		s += style.Render(line) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: open")
	return s
}

func (m *ToursModel) viewDetail() string {
	t := m.selected
	g := t.General
	var s string

	s += titleStyle.Render(fmt.Sprintf("Tour %s", g.Code)) + "  " +
		subtitleStyle.Render(fmt.Sprintf("%s · %d pax · %s → %s", g.CustomerName, g.Pax, g.StartDate, g.EndDate)) + "\n"
	s += subtitleStyle.Render(fmt.Sprintf("Guide: %s  Driver: %s  Nationality: %s",
		m.guideName(g.GuideID), g.DriverName, g.Nationality)) + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}
	for _, p := range m.problems {
		s += errorStyle.Render("  ! "+p) + "\n"
	}

	s += sectionStyle.Render("Itinerary") + "\n"
	for _, item := range t.Itinerary {
		s += fmt.Sprintf("  Day %-3d %-11s %s\n", item.Day, item.Date, item.Location)
	}

	s += "\n" + sectionStyle.Render("Services") + "\n"
	s += subtitleStyle.Render(fmt.Sprintf("  %-30s %6s %12s %12s %12s", "Description", "Qty", "Unit", "Document", "Discrepancy")) + "\n"
	for i, svc := range t.Services {
		indicator := "  "
		if i == m.serviceCursor {
			indicator = "> "
		}
		line := fmt.Sprintf("%s%-30s %6g %12s %12s ",
			indicator, truncateStr(svc.Description, 30), svc.Quantity,
			formatMoney(svc.UnitPrice), formatMoney(svc.SourcePrice))
		diff := fmt.Sprintf("%12s", formatMoney(svc.Discrepancy))
		if svc.Discrepancy != 0 {
			diff = discrepancyStyle.Render(diff)
		}
		if i == m.serviceCursor {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		s += line + diff + "\n"
	}
	if m.mode == tourModePrice {
		s += "\n  New unit price: " + m.priceInput.View() + "\n"
	}

	s += "\n" + sectionStyle.Render("Per diem") + "\n"
	for _, p := range t.PerDiem {
		s += fmt.Sprintf("  %-24s %3d × %10s = %12s\n", truncateStr(p.Location, 24), p.Days, formatMoney(p.Rate), formatMoney(p.Total))
	}

	if len(t.OtherExpenses) > 0 {
		s += "\n" + sectionStyle.Render("Other expenses") + "\n"
		for _, e := range t.OtherExpenses {
			s += fmt.Sprintf("  %-40s %12s\n", truncateStr(e.Description, 40), formatMoney(e.Amount))
		}
	}

	f := t.Financials
	s += "\n" + sectionStyle.Render("Financials") + "\n"
	s += fmt.Sprintf("  Total cost   %14s   Advance      %14s\n", formatMoney(f.TotalCost), formatMoney(f.Advance))
	s += fmt.Sprintf("  Collections  %14s   Company tip  %14s\n", formatMoney(f.CollectionsForCompany), formatMoney(f.CompanyTip))
	diff := fmt.Sprintf("  Difference   %14s", formatMoney(f.DifferenceToAdvance))
	switch {
	case f.DifferenceToAdvance > 0:
		s += owedStyle.Render(diff+"  owed to company") + "\n"
	case f.DifferenceToAdvance < 0:
		s += topUpStyle.Render(diff+"  company tops up") + "\n"
	default:
		s += diff + "\n"
	}

	switch m.mode {
	case tourModeConfirmDelete:
		s += "\n" + errorStyle.Render(fmt.Sprintf("  Delete tour %s? (y/N)", g.Code))
	case tourModePrice:
		s += "\n" + helpStyle.Render("  enter: save  esc: cancel")
	default:
		s += "\n" + helpStyle.Render("  j/k: select service  p: set price  e: edit  r: recompute  d: delete  esc: back")
	}
	return s
}

func (m *ToursModel) viewForm() string {
	var s string
	s += titleStyle.Render(fmt.Sprintf("Edit Tour %s", m.selected.General.Code)) + "\n\n"

	for i, label := range tourFieldLabels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%-26s %s\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += "\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}
	if len(m.problems) > 0 {
		s += "\n" + errorStyle.Render("  Not saved:") + "\n"
		for _, p := range m.problems {
			s += errorStyle.Render("    - "+p) + "\n"
		}
	}

	s += "\n" + helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}
