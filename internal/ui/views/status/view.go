package status

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"deskwatch/internal/modules/tracker/dto"
	"deskwatch/internal/ui/theme"
)

type StatusPort interface {
	Elapsed(ctx context.Context) (dto.ElapsedOutput, error)
	Toggle(ctx context.Context, owner, action string) ([]dto.SessionOutput, error)
}

type TickMsg time.Time

type ElapsedMsg struct {
	Out dto.ElapsedOutput
	Err error
}

type ToggledMsg struct {
	Err error
}

type Model struct {
	port    StatusPort
	owner   string
	elapsed dto.ElapsedOutput
	err     error
	width   int
}

func New(port StatusPort, owner string) Model {
	return Model{port: port, owner: owner}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Elapsed(context.Background())
		return ElapsedMsg{Out: out, Err: err}
	}
}

// ToggleCmd flips the session by hand: start when idle, stop when working.
func (m Model) ToggleCmd() tea.Cmd {
	action := dto.ActionStart
	if m.elapsed.Status == dto.StatusWorking {
		action = dto.ActionStop
	}
	return func() tea.Msg {
		_, err := m.port.Toggle(context.Background(), m.owner, action)
		return ToggledMsg{Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		return m, tea.Batch(m.fetch(), tick())
	case ElapsedMsg:
		m.elapsed = msg.Out
		m.err = msg.Err
	case ToggledMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		return m, m.fetch()
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Danger.Render(fmt.Sprintf("error: %v", m.err))
	}
	if m.elapsed.Status != dto.StatusWorking {
		return theme.Idle.Render("not working") + "\n\n" +
			theme.Muted.Render("press s to start a session by hand")
	}
	d := time.Duration(m.elapsed.ElapsedSeconds) * time.Second
	clock := fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	return theme.Working.Render("working") + "  " + theme.Title.Render(clock) + "\n\n" +
		theme.Muted.Render("press s to stop the session")
}
