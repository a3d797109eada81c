package sessions

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"deskwatch/internal/modules/tracker/dto"
	"deskwatch/internal/ui/theme"
)

type SessionsPort interface {
	Sync(ctx context.Context, owner string) ([]dto.SessionOutput, error)
	Delete(ctx context.Context, owner string, id int64) error
}

type LoadedMsg struct {
	Sessions []dto.SessionOutput
	Err      error
}

type DeletedMsg struct {
	ID  int64
	Err error
}

type sessionItem struct {
	session dto.SessionOutput
}

func (i sessionItem) Title() string {
	if i.session.Open {
		return fmt.Sprintf("#%d  %s  (open)", i.session.ID, i.session.Start.Format("Mon 2006-01-02 15:04"))
	}
	return fmt.Sprintf("#%d  %s", i.session.ID, i.session.Start.Format("Mon 2006-01-02 15:04"))
}

func (i sessionItem) Description() string {
	if i.session.Open {
		return "in progress"
	}
	return fmt.Sprintf("until %s  %.2fh", i.session.End.Format("15:04"), i.session.Hours)
}

func (i sessionItem) FilterValue() string {
	return i.session.Start.Format("2006-01-02")
}

type Model struct {
	port  SessionsPort
	owner string
	list  list.Model
	err   error
}

func New(port SessionsPort, owner string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Subtext).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)
	return Model{port: port, owner: owner, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload syncs (claiming any unassigned rows) and repopulates the list.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.Sync(context.Background(), m.owner)
		return LoadedMsg{Sessions: sessions, Err: err}
	}
}

// DeleteSelectedCmd removes the highlighted session.
func (m Model) DeleteSelectedCmd() tea.Cmd {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return nil
	}
	id := item.session.ID
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: m.port.Delete(context.Background(), m.owner, id)}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			items := make([]list.Item, 0, len(msg.Sessions))
			for _, s := range msg.Sessions {
				items = append(items, sessionItem{session: s})
			}
			m.list.SetItems(items)
		}
		return m, nil
	case DeletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		return m, m.Reload()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Danger.Render(fmt.Sprintf("error: %v", m.err))
	}
	return m.list.View()
}
