package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)
)

func (m Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("netproc - %s (%s)", orDash(m.snap.Interface), orDash(m.snap.Local)))

	st := m.snap.Stats
	status := fmt.Sprintf("Frames: %d  Dropped: %d  Anomalies: %d  No match: %d  Events: %d  Problems: %d",
		st.Frames, st.Dropped, st.Anomalies, st.NoMatch, st.Events, m.snap.Problems)
	statusBox := infoStyle.Render(status)

	ports := infoStyle.Render("Ports\n" + m.table.View())

	body := lipgloss.JoinVertical(lipgloss.Left, title, statusBox, ports)

	switch {
	case m.snap.Err != nil:
		body += "\n" + errorStyle.Render("Capture failed: "+m.snap.Err.Error())
	case m.snap.Done:
		body += "\nCapture complete."
	}
	return body + "\nPress q to quit."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
