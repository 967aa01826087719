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
	"github.com/devrimk/punchcard/internal/timer"
)

const (
	modeHours = "hours"
	modeRange = "range"
)

// trackerModel is the intern's main screen: the stopwatch plus the manual
// backfill form.
type trackerModel struct {
	store *store.Store
	ctrl  *timer.Controller
	user  domain.User

	width  int
	height int

	recent []domain.TimeEntry

	formActive bool
	form       *huh.Form
	formType   string // "manual", "notes"

	// Form field pointers (survive value copies)
	formDate  *string
	formMode  *string
	formHours *string
	formStart *string
	formEnd   *string
	formNotes *string
}

func newTrackerModel(s *store.Store, ctrl *timer.Controller) trackerModel {
	date, mode, hours, start, end, notes := "", modeHours, "", "09:00", "17:00", ""
	return trackerModel{
		store:     s,
		ctrl:      ctrl,
		formDate:  &date,
		formMode:  &mode,
		formHours: &hours,
		formStart: &start,
		formEnd:   &end,
		formNotes: &notes,
	}
}

func (m *trackerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *trackerModel) setUser(u domain.User) {
	m.user = u
}

type trackerDataMsg struct {
	recent []domain.TimeEntry
}

func (m trackerModel) loadData() tea.Cmd {
	return func() tea.Msg {
		entries := query.SortEntries(m.store.EntriesByUser(m.user.ID))
		if len(entries) > 5 {
			entries = entries[:5]
		}
		return trackerDataMsg{recent: entries}
	}
}

func (m trackerModel) update(msg tea.Msg) (trackerModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		// The stopwatch keeps counting while a form is in front.
		if _, ok := msg.(tickMsg); ok {
			m.ctrl.Tick()
			return m, nil
		}
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case trackerDataMsg:
		m.recent = msg.recent
		return m, nil

	case tickMsg:
		m.ctrl.Tick()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if m.ctrl.Running() {
				return m, nil
			}
			entry, err := m.ctrl.Start(m.user.ID)
			if err != nil {
				return m, func() tea.Msg { return errStatus(err) }
			}
			return m, func() tea.Msg { return timerStartedMsg{entry: entry} }

		case key.Matches(msg, keys.Stop):
			if !m.ctrl.Running() {
				return m, nil
			}
			// Notes are collected before the entry is finalized.
			return m.showNotesForm()

		case key.Matches(msg, keys.Pause):
			m.ctrl.Toggle()
			return m, nil

		case key.Matches(msg, keys.New):
			return m.showManualForm()
		}
	}
	return m, nil
}

func (m trackerModel) showNotesForm() (trackerModel, tea.Cmd) {
	*m.formNotes = ""
	m.formType = "notes"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What did you work on?").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m trackerModel) showManualForm() (trackerModel, tea.Cmd) {
	*m.formDate = time.Now().Format(domain.DateLayout)
	*m.formMode = modeHours
	*m.formHours = ""
	*m.formStart = "09:00"
	*m.formEnd = "17:00"
	*m.formNotes = ""
	m.formType = "manual"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD, up to 7 days back").
				Value(m.formDate).
				Validate(validateManualDateField),
			huh.NewSelect[string]().
				Title("How to enter time").
				Options(
					huh.NewOption("Total hours", modeHours),
					huh.NewOption("Start and end time", modeRange),
				).
				Value(m.formMode),
			huh.NewInput().
				Title("Hours (if total hours)").
				Placeholder("2.5").
				Value(m.formHours),
			huh.NewInput().
				Title("Start time (if range)").
				Value(m.formStart),
			huh.NewInput().
				Title("End time (if range)").
				Value(m.formEnd),
			huh.NewInput().
				Title("Notes").
				Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func validateManualDateField(v string) error {
	d, err := time.Parse(domain.DateLayout, v)
	if err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return domain.ValidateManualDate(d, time.Now())
}

func (m trackerModel) updateForm(msg tea.Msg) (trackerModel, tea.Cmd) {
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
		switch m.formType {
		case "notes":
			entry, err := m.ctrl.Stop(*m.formNotes)
			if err != nil {
				return m, func() tea.Msg { return errStatus(err) }
			}
			return m, tea.Batch(
				m.loadData(),
				func() tea.Msg { return timerStoppedMsg{entry: entry} },
			)
		case "manual":
			return m.submitManualEntry()
		}
	}

	return m, cmd
}

// submitManualEntry runs the duration calculator and date policy before the
// store ever sees the entry; the store itself stays a dumb ledger.
func (m trackerModel) submitManualEntry() (trackerModel, tea.Cmd) {
	date, err := time.Parse(domain.DateLayout, *m.formDate)
	if err != nil {
		return m, func() tea.Msg { return errStatus(fmt.Errorf("invalid date %q", *m.formDate)) }
	}
	if err := domain.ValidateManualDate(date, time.Now()); err != nil {
		return m, func() tea.Msg { return errStatus(err) }
	}

	entry := domain.TimeEntry{
		UserID: m.user.ID,
		Date:   *m.formDate,
		Notes:  *m.formNotes,
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
		entry.Duration = dur
		entry.StartTime = &start
		entry.EndTime = &end
	} else {
		hours, err := strconv.ParseFloat(strings.TrimSpace(*m.formHours), 64)
		if err != nil || hours < 0 {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Invalid hours value %q", *m.formHours), isError: true}
			}
		}
		entry.Duration = domain.DurationFromHours(hours)
	}

	added, err := m.store.AddManualEntry(entry)
	if err != nil {
		return m, func() tea.Msg { return errStatus(err) }
	}
	return m, tea.Batch(
		m.loadData(),
		func() tea.Msg { return entryAddedMsg{entry: added} },
	)
}

// composeRange attaches the entry's calendar date to its HH:MM clock values.
func composeRange(date, start, end string) (time.Time, time.Time, error) {
	const layout = domain.DateLayout + " " + domain.ClockLayout
	s, err := time.ParseInLocation(layout, date+" "+start, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := time.ParseInLocation(layout, date+" "+end, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

func (m trackerModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("Manual Time Entry")
		if m.formType == "notes" {
			title = titleStyle.Render("Stop Timer")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	contentWidth := m.width - 4
	timerPanel := m.renderTimerPanel(contentWidth)
	recentPanel := m.renderRecentPanel(contentWidth)
	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, recentPanel)
}

func (m trackerModel) renderTimerPanel(w int) string {
	if m.ctrl.Running() {
		timeStr := formatElapsed(m.ctrl.Elapsed())

		var timeDisplay, indicator string
		if m.ctrl.Paused() {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			indicator = warningStyle.Render("⏸  PAUSED")
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  RUNNING")
		}

		userLine := highlightStyle.Render(m.user.Name)

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			userLine,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay := timerStyle.Width(w - 6).Render("00:00:00")
	indicator := mutedStyle.Render("■  STOPPED")
	hint := mutedStyle.Render("s: start timer  n: manual entry")

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		hint,
	)
	return panelStyle.Width(w).Render(content)
}

func (m trackerModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Entries")
	if len(m.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No entries yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, e := range m.recent {
		source := "⏱"
		if e.ManualEntry {
			source = "✎"
		}
		row := fmt.Sprintf("  %s %s  %-8s", source, e.Date, formatMinutes(e.Duration))
		if e.Notes != "" {
			row += "  " + mutedStyle.Render(e.Notes)
		}
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
