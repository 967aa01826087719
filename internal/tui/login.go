package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/devrimk/punchcard/internal/domain"
)

// loginModel is the session collaborator stand-in: pick who you are from the
// roster. No credentials — the engine only needs an {id, role} pair.
type loginModel struct {
	roster domain.Roster
	width  int
	height int

	form     *huh.Form
	selected *string
}

func newLoginModel(roster domain.Roster) loginModel {
	selected := ""
	m := loginModel{
		roster:   roster,
		selected: &selected,
	}
	m.form = m.buildForm()
	return m
}

func (m loginModel) buildForm() *huh.Form {
	options := make([]huh.Option[string], len(m.roster))
	for i, u := range m.roster {
		options[i] = huh.NewOption(fmt.Sprintf("%s (%s)", u.Name, u.Role), u.ID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Who is tracking time?").
				Options(options...).
				Value(m.selected),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m *loginModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if user, ok := m.roster.Find(*m.selected); ok {
			return m, func() tea.Msg { return loggedInMsg{user: user} }
		}
		// Completed with nothing chosen; rebuild and try again.
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	return m, cmd
}

func (m loginModel) view() string {
	title := titleStyle.Render("punchcard")
	subtitle := mutedStyle.Render("intern time tracking")
	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", m.form.View())

	w := m.width - 4
	if w < 30 {
		w = 30
	}
	return panelStyle.Width(w).Render(content)
}
