package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"deskwatch/internal/modules/tracker/dto"
	"deskwatch/internal/ui/theme"
)

const barWidth = 30

type ReportPort interface {
	Report(ctx context.Context, owner string, today time.Time) (float64, dto.DailyReportOutput, error)
}

type LoadedMsg struct {
	Total float64
	Daily dto.DailyReportOutput
	Err   error
}

type Model struct {
	port  ReportPort
	owner string
	total float64
	daily dto.DailyReportOutput
	err   error
}

func New(port ReportPort, owner string) Model {
	return Model{port: port, owner: owner}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		total, daily, err := m.port.Report(context.Background(), m.owner, time.Now())
		return LoadedMsg{Total: total, Daily: daily, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if loaded, ok := msg.(LoadedMsg); ok {
		m.total = loaded.Total
		m.daily = loaded.Daily
		m.err = loaded.Err
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Danger.Render(fmt.Sprintf("error: %v", m.err))
	}
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("last 7 days, %.2fh total", m.total)))
	b.WriteString("\n\n")

	peak := 0.0
	for _, h := range m.daily.Hours {
		if h > peak {
			peak = h
		}
	}
	for _, day := range m.daily.Details {
		width := 0
		if peak > 0 {
			width = int(day.Hours / peak * barWidth)
		}
		bar := theme.Bar.Render(strings.Repeat("█", width))
		b.WriteString(fmt.Sprintf("%s  %s %s\n",
			theme.Muted.Render(day.Date), bar, fmt.Sprintf("%.2fh", day.Hours)))
	}
	return b.String()
}
