package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devrimk/punchcard/internal/domain"
	"github.com/devrimk/punchcard/internal/export"
	"github.com/devrimk/punchcard/internal/store"
	"github.com/devrimk/punchcard/internal/timer"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	roster domain.Roster
	ctrl   *timer.Controller
	user   domain.User

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	login   loginModel
	tracker trackerModel
	entries entriesModel
	admin   adminModel

	help   help.Model
	status string
}

func NewApp(s *store.Store) (App, error) {
	roster, err := s.Roster()
	if err != nil {
		return App{}, fmt.Errorf("load roster: %w", err)
	}

	ctrl := timer.New(s)

	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		roster:     roster,
		ctrl:       ctrl,
		activeView: viewLogin,
		login:      newLoginModel(roster),
		tracker:    newTrackerModel(s, ctrl),
		entries:    newEntriesModel(s),
		admin:      newAdminModel(s, roster),
		help:       h,
	}, nil
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.login.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.tracker.setSize(a.width, contentHeight)
		a.entries.setSize(a.width, contentHeight)
		a.admin.setSize(a.width, contentHeight)
		return a, nil

	case loggedInMsg:
		a.user = msg.user
		a.tracker.setUser(msg.user)
		a.entries.setUser(msg.user)
		if msg.user.Role == domain.RoleAdmin {
			a.activeView = viewAdmin
			return a, a.admin.refresh()
		}
		a.activeView = viewTracker
		a.status = "Signed in as " + msg.user.Name
		return a, a.tracker.loadData()

	case tea.KeyMsg:
		if a.activeView == viewLogin {
			return a.updateActiveView(msg)
		}

		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			if a.user.Role == domain.RoleIntern {
				a.activeView = viewTracker
				return a, a.tracker.loadData()
			}
		case key.Matches(msg, keys.Tab2):
			if a.user.Role == domain.RoleIntern {
				a.activeView = viewEntries
				return a, a.entries.refresh()
			}
		case key.Matches(msg, keys.Tab):
			if a.user.Role == domain.RoleIntern {
				if a.activeView == viewTracker {
					a.activeView = viewEntries
					return a, a.entries.refresh()
				}
				a.activeView = viewTracker
				return a, a.tracker.loadData()
			}
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Ticks always reach the tracker so the stopwatch keeps counting
		// even while another view is in front.
		var cmd tea.Cmd
		a.tracker, cmd = a.tracker.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case timerStartedMsg:
		a.status = "Timer started"
		return a, nil

	case timerStoppedMsg:
		a.status = fmt.Sprintf("Timer stopped — %s recorded", formatMinutes(msg.entry.Duration))
		return a, nil

	case entryAddedMsg:
		a.status = fmt.Sprintf("Added %s on %s", formatMinutes(msg.entry.Duration), msg.entry.Date)
		return a, nil

	case entryEditedMsg:
		a.status = "Entry updated"
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewLogin:
		a.login, cmd = a.login.update(msg)
	case viewTracker:
		a.tracker, cmd = a.tracker.update(msg)
	case viewEntries:
		a.entries, cmd = a.entries.update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTracker:
		return a.tracker.formActive
	case viewEntries:
		return a.entries.formActive
	case viewAdmin:
		return a.admin.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.activeView == viewLogin {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.login.view())
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTracker:
		content = a.tracker.view()
	case viewEntries:
		content = a.entries.view()
	case viewAdmin:
		content = a.admin.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) tabNames() []struct {
	name string
	view viewState
} {
	if a.user.Role == domain.RoleAdmin {
		return []struct {
			name string
			view viewState
		}{{"Review", viewAdmin}}
	}
	return []struct {
		name string
		view viewState
	}{{"Tracker", viewTracker}, {"My Entries", viewEntries}}
}

func (a App) renderHeader() string {
	var tabs []string
	for _, t := range a.tabNames() {
		if t.view == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(t.name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("punchcard")
	userTag := mutedStyle.Render(" " + a.user.Name)

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(userTag) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, userTag, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Stopwatch indicator stays visible from every view.
	timerInfo := ""
	if a.ctrl.Running() {
		elapsed := formatElapsed(a.ctrl.Elapsed())
		if a.ctrl.Paused() {
			timerInfo = warningStyle.Render(" ⏸ " + elapsed)
		} else {
			timerInfo = successStyle.Render(" ● " + elapsed)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the caller's visible scope: admins get every entry,
// interns only their own.
func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		var entries []domain.TimeEntry
		if a.user.Role == domain.RoleAdmin {
			entries = a.store.Entries()
		} else {
			entries = a.store.EntriesByUser(a.user.ID)
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format(domain.DateLayout)

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("punchcard-export-%s.csv", dateStr))
			if err := export.ToCSV(entries, a.roster, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("punchcard-export-%s.json", dateStr))
			if err := export.ToJSON(entries, a.roster, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
