package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/devrimk/punchcard/internal/domain"
	"github.com/devrimk/punchcard/internal/query"
	"github.com/devrimk/punchcard/internal/store"
)

// entriesModel lists the signed-in user's own entries and lets them correct
// a record after the fact.
type entriesModel struct {
	store *store.Store
	user  domain.User

	width  int
	height int

	entries []domain.TimeEntry
	cursor  int

	formActive bool
	form       *huh.Form
	editingID  string

	formDate  *string
	formMode  *string
	formHours *string
	formStart *string
	formEnd   *string
	formNotes *string
}

func newEntriesModel(s *store.Store) entriesModel {
	date, mode, hours, start, end, notes := "", modeHours, "", "09:00", "17:00", ""
	return entriesModel{
		store:     s,
		formDate:  &date,
		formMode:  &mode,
		formHours: &hours,
		formStart: &start,
		formEnd:   &end,
		formNotes: &notes,
	}
}

func (m *entriesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *entriesModel) setUser(u domain.User) {
	m.user = u
}

type entriesDataMsg struct {
	entries []domain.TimeEntry
}

func (m entriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return entriesDataMsg{entries: query.SortEntries(m.store.EntriesByUser(m.user.ID))}
	}
}

func (m entriesModel) update(msg tea.Msg) (entriesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case entriesDataMsg:
		m.entries = msg.entries
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if len(m.entries) > 0 {
				return m.showEditForm(m.entries[m.cursor])
			}
		}
	}
	return m, nil
}

func (m entriesModel) showEditForm(e domain.TimeEntry) (entriesModel, tea.Cmd) {
	m.editingID = e.ID
	*m.formDate = e.Date
	*m.formNotes = e.Notes

	if e.IsRange() {
		*m.formMode = modeRange
		*m.formStart = e.StartTime.Format(domain.ClockLayout)
		*m.formEnd = e.EndTime.Format(domain.ClockLayout)
		*m.formHours = ""
	} else {
		*m.formMode = modeHours
		*m.formHours = strconv.FormatFloat(float64(e.Duration)/60, 'f', -1, 64)
		*m.formStart = "09:00"
		*m.formEnd = "17:00"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date").Value(m.formDate).Validate(validateDateField),
			huh.NewSelect[string]().
				Title("How to enter time").
				Options(
					huh.NewOption("Total hours", modeHours),
					huh.NewOption("Start and end time", modeRange),
				).
				Value(m.formMode),
			huh.NewInput().Title("Hours (if total hours)").Value(m.formHours),
			huh.NewInput().Title("Start time (if range)").Value(m.formStart),
			huh.NewInput().Title("End time (if range)").Value(m.formEnd),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m entriesModel) updateForm(msg tea.Msg) (entriesModel, tea.Cmd) {
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
		return m.submitEdit()
	}

	return m, cmd
}

func validateDateField(v string) error {
	if _, err := time.Parse(domain.DateLayout, v); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

// submitEdit builds a typed patch. Edits are not re-checked against the
// backfill window: corrections to old records are allowed. The date must
// still be well-formed or the entry would vanish from date filters.
func (m entriesModel) submitEdit() (entriesModel, tea.Cmd) {
	if err := validateDateField(*m.formDate); err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Invalid date %q", *m.formDate), isError: true}
		}
	}

	patch := domain.EntryPatch{
		Date:  m.formDate,
		Notes: m.formNotes,
	}

	if *m.formMode == modeRange {
		dur, err := domain.DurationFromRange(*m.formStart, *m.formEnd)
		if err != nil {
			return m, func() tea.Msg { return errStatus(err) }
		}
		if dur < 0 {
			return m, func() tea.Msg {
				return statusMsg{text: "End time is before start time", isError: true}
			}
		}
		start, end, err := composeRange(*m.formDate, *m.formStart, *m.formEnd)
		if err != nil {
			return m, func() tea.Msg { return errStatus(err) }
		}
		patch.Duration = &dur
		patch.Range = &domain.TimeRange{Start: start, End: end}
	} else {
		hours, err := strconv.ParseFloat(strings.TrimSpace(*m.formHours), 64)
		if err != nil || hours < 0 {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Invalid hours value %q", *m.formHours), isError: true}
			}
		}
		dur := domain.DurationFromHours(hours)
		patch.Duration = &dur
		patch.ClearRange = true
	}

	updated, err := m.store.EditEntry(m.editingID, patch)
	if err != nil {
		return m, func() tea.Msg { return errStatus(err) }
	}
	return m, tea.Batch(
		m.refresh(),
		func() tea.Msg { return entryEditedMsg{entry: updated} },
	)
}

func (m entriesModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("Edit Time Entry")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	title := titleStyle.Render("My Entries")

	if len(m.entries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No entries yet — start the timer or add one manually."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-10s %-8s %s", "Date", "Duration", "Source", "Notes")))
	for i, e := range m.entries {
		source := "timer"
		if e.ManualEntry {
			source = "manual"
		}
		timeRange := ""
		if e.IsRange() {
			timeRange = fmt.Sprintf(" (%s–%s)", e.StartTime.Format(domain.ClockLayout), e.EndTime.Format(domain.ClockLayout))
		}

		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := fmt.Sprintf("%s%-12s %-10s %-8s %s%s",
			cursor, e.Date, formatMinutes(e.Duration), source, e.Notes, timeRange)
		rows = append(rows, style.Render(row))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  e/enter: edit  ↑/↓: move"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
