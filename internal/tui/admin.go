package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/devrimk/punchcard/internal/domain"
	"github.com/devrimk/punchcard/internal/query"
	"github.com/devrimk/punchcard/internal/store"
)

// adminModel is the review screen: filterable entry cards, a weekly hours
// chart and — when no filter narrows the view — the top-performers overview.
type adminModel struct {
	store  *store.Store
	roster domain.Roster

	width  int
	height int

	criteria   query.Criteria
	entries    []domain.TimeEntry
	top        []query.UserTotal
	week       query.Week
	weekOffset int // weeks back from the current week (0 = current)

	chart barchart.Model

	formActive bool
	form       *huh.Form

	formIntern *string
	formDate   *string
	formSearch *string
}

func newAdminModel(s *store.Store, roster domain.Roster) adminModel {
	intern, date, search := "", "", ""
	return adminModel{
		store:      s,
		roster:     roster,
		chart:      barchart.New(60, 12),
		formIntern: &intern,
		formDate:   &date,
		formSearch: &search,
	}
}

func (m *adminModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type adminDataMsg struct {
	entries []domain.TimeEntry
	top     []query.UserTotal
	week    query.Week
}

func (m adminModel) refresh() tea.Cmd {
	return func() tea.Msg {
		all := m.store.Entries()
		filtered := query.SortEntries(query.Filter(all, m.criteria, m.roster))

		// The ranking is a default overview, not a filtered report.
		var top []query.UserTotal
		if !m.criteria.Active() {
			top = query.TopPerformers(all)
		}

		week := query.GroupWeek(filtered, m.weekAnchor())
		return adminDataMsg{entries: filtered, top: top, week: week}
	}
}

// weekAnchor returns the Monday of the week under review.
func (m adminModel) weekAnchor() time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	weekday := today.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	monday := today.AddDate(0, 0, -int(weekday-time.Monday))
	return monday.AddDate(0, 0, -7*m.weekOffset)
}

func (m adminModel) update(msg tea.Msg) (adminModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case adminDataMsg:
		m.entries = msg.entries
		m.top = msg.top
		m.week = msg.week
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Filter):
			return m.showFilterForm()
		case key.Matches(msg, keys.Left):
			m.weekOffset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.weekOffset > 0 {
				m.weekOffset--
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m adminModel) showFilterForm() (adminModel, tea.Cmd) {
	*m.formIntern = m.criteria.InternID
	*m.formDate = m.criteria.Date
	*m.formSearch = m.criteria.NameSearch

	options := []huh.Option[string]{huh.NewOption("All interns", "")}
	for _, u := range m.roster.Interns() {
		options = append(options, huh.NewOption(u.Name, u.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Intern").
				Options(options...).
				Value(m.formIntern),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD, empty for all dates").
				Value(m.formDate).
				Validate(validateOptionalDateField),
			huh.NewInput().
				Title("Name search").
				Placeholder("partial name").
				Value(m.formSearch),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func validateOptionalDateField(v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, v); err != nil {
		return fmt.Errorf("use YYYY-MM-DD or leave empty")
	}
	return nil
}

func (m adminModel) updateForm(msg tea.Msg) (adminModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.criteria = query.Criteria{
			InternID:   *m.formIntern,
			Date:       *m.formDate,
			NameSearch: strings.TrimSpace(*m.formSearch),
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m *adminModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 34 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, day := range m.week.Days {
		d, _ := time.Parse(domain.DateLayout, day.Date)
		label := d.Format("Mon 02")

		hours := float64(day.Minutes) / 60.0
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if day.Minutes == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: day.Date, Value: hours, Style: style}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m adminModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("Filter Entries")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4

	header := m.renderHeader()
	chartPanel := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Hours per day"),
		m.chart.View(),
	)

	sections := []string{header, "", chartPanel}
	if len(m.top) > 0 {
		sections = append(sections, "", m.renderTopPerformers())
	}
	sections = append(sections, "", m.renderEntryCards(w))
	sections = append(sections, "", mutedStyle.Render("  f: filter  ←/→: week  o: export"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m adminModel) renderHeader() string {
	weekStart := m.week.Start
	weekEnd := weekStart.AddDate(0, 0, 6)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		weekStart.Format("Jan 02"), weekEnd.Format("Jan 02, 2006")))

	var filters []string
	if m.criteria.InternID != "" {
		filters = append(filters, "intern: "+m.roster.NameOf(m.criteria.InternID))
	}
	if m.criteria.Date != "" {
		filters = append(filters, "date: "+m.criteria.Date)
	}
	if m.criteria.NameSearch != "" {
		filters = append(filters, "name: "+m.criteria.NameSearch)
	}

	filterLabel := mutedStyle.Render("no filter")
	if len(filters) > 0 {
		filterLabel = accentStyle.Render(strings.Join(filters, "  "))
	}

	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Intern Time Review"), "  ", dateLabel, "  ", filterLabel,
	)
}

func (m adminModel) renderTopPerformers() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Top Performers"))
	for i, t := range m.top {
		rows = append(rows, fmt.Sprintf("  %d. %-20s %-10s (%d entries)",
			i+1, m.roster.NameOf(t.UserID), formatMinutes(t.Minutes), t.Entries))
	}
	return strings.Join(rows, "\n")
}

func (m adminModel) renderEntryCards(w int) string {
	if len(m.entries) == 0 {
		return mutedStyle.Render("  No entries match")
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Entries"))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	shown := m.entries
	if len(shown) > 12 {
		shown = shown[:12]
	}

	for _, e := range shown {
		badge := mutedStyle.Render("[timer]")
		if e.ManualEntry {
			badge = warningStyle.Render("[manual]")
		}
		timeRange := ""
		if e.IsRange() {
			timeRange = mutedStyle.Render(fmt.Sprintf("  %s–%s",
				e.StartTime.Format(domain.ClockLayout), e.EndTime.Format(domain.ClockLayout)))
		}

		rows = append(rows, fmt.Sprintf("  %s %s  %s %s%s",
			highlightStyle.Render(fmt.Sprintf("%-18s", m.roster.NameOf(e.UserID))),
			e.Date, formatMinutes(e.Duration), badge, timeRange))
		if e.Notes != "" {
			rows = append(rows, mutedStyle.Render("      "+e.Notes))
		}
	}

	if len(m.entries) > len(shown) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … and %d more", len(m.entries)-len(shown))))
	}

	return strings.Join(rows, "\n")
}
