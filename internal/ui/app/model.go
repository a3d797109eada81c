package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deskwatch/internal/modules/tracker/dto"
	"deskwatch/internal/ui/theme"
	reportview "deskwatch/internal/ui/views/report"
	sessionsview "deskwatch/internal/ui/views/sessions"
	statusview "deskwatch/internal/ui/views/status"
)

// trackerPort is the slice of the tracker surface this dashboard needs; the
// CLI handler satisfies it.
type trackerPort interface {
	Elapsed(ctx context.Context) (dto.ElapsedOutput, error)
	Sync(ctx context.Context, owner string) ([]dto.SessionOutput, error)
	Toggle(ctx context.Context, owner, action string) ([]dto.SessionOutput, error)
	Delete(ctx context.Context, owner string, id int64) error
	Report(ctx context.Context, owner string, today time.Time) (float64, dto.DailyReportOutput, error)
}

type tabID int

const (
	tabStatus tabID = iota
	tabSessions
	tabReport
	tabCount
)

var tabLabels = [tabCount]string{"Status", "Sessions", "Report"}

type keyMap struct {
	Tab    key.Binding
	Toggle key.Binding
	Delete key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	Toggle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Toggle, k.Delete, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Toggle}, {k.Delete, k.Reload}, {k.Help, k.Quit}}
}

type Model struct {
	owner    string
	tab      tabID
	status   statusview.Model
	sessions sessionsview.Model
	report   reportview.Model
	help     help.Model
	width    int
	height   int
}

func NewModel(owner string, port trackerPort) Model {
	return Model{
		owner:    owner,
		status:   statusview.New(port, owner),
		sessions: sessionsview.New(port, owner),
		report:   reportview.New(port, owner),
		help:     help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.status.Init(), m.sessions.Init(), m.report.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.status, cmd = m.status.Update(msg)
		cmds = append(cmds, cmd)
		m.sessions, cmd = m.sessions.Update(msg)
		cmds = append(cmds, cmd)
		m.report, cmd = m.report.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Tab):
			m.tab = (m.tab + 1) % tabCount
			return m, m.reloadTab()
		case key.Matches(msg, keys.Toggle):
			return m, tea.Sequence(m.status.ToggleCmd(), m.sessions.Reload(), m.report.Reload())
		case key.Matches(msg, keys.Delete):
			if m.tab == tabSessions {
				return m, m.sessions.DeleteSelectedCmd()
			}
		case key.Matches(msg, keys.Reload):
			return m, m.reloadTab()
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	// Async messages fan out to whichever view owns them.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch msg.(type) {
	case statusview.TickMsg, statusview.ElapsedMsg, statusview.ToggledMsg:
		m.status, cmd = m.status.Update(msg)
		cmds = append(cmds, cmd)
	case sessionsview.LoadedMsg, sessionsview.DeletedMsg:
		m.sessions, cmd = m.sessions.Update(msg)
		cmds = append(cmds, cmd)
	case reportview.LoadedMsg:
		m.report, cmd = m.report.Update(msg)
		cmds = append(cmds, cmd)
	default:
		if m.tab == tabSessions {
			m.sessions, cmd = m.sessions.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) reloadTab() tea.Cmd {
	switch m.tab {
	case tabSessions:
		return m.sessions.Reload()
	case tabReport:
		return m.report.Reload()
	}
	return nil
}

func (m Model) View() string {
	tabs := make([]string, 0, tabCount)
	for i, label := range tabLabels {
		style := theme.Muted
		if tabID(i) == m.tab {
			style = theme.Title
		}
		tabs = append(tabs, style.Render(label))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs[0], "  ", tabs[1], "  ", tabs[2]) +
		"  " + theme.Muted.Render("("+m.owner+")")

	var body string
	switch m.tab {
	case tabStatus:
		body = m.status.View()
	case tabSessions:
		body = m.sessions.View()
	case tabReport:
		body = m.report.View()
	}

	return theme.App.Render(header + "\n\n" + theme.Pane.Render(body) + "\n" + m.help.View(keys))
}
