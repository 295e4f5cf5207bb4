package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"firestige.xyz/netproc/internal/report"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case TickMsg:
		m.snap = m.provider()

		rows := make([]table.Row, len(m.snap.Rows))
		for i, r := range m.snap.Rows {
			rows[i] = table.Row(report.Cells(r))
		}
		m.table.SetRows(rows)

		return m, m.tick()
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}
