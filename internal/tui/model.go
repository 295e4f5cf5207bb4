// Package tui renders the live per-port traffic view.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"firestige.xyz/netproc/internal/engine"
	"firestige.xyz/netproc/internal/report"
)

// Snapshot is what the view shows on each tick.
type Snapshot struct {
	Rows      []report.Row
	Stats     engine.Stats
	Problems  uint64
	Local     string
	Interface string
	Done      bool  // capture loop returned
	Err       error // capture loop error, if any
}

// Provider is polled once per tick. It must be safe to call while the
// capture loop is running.
type Provider func() Snapshot

// TickMsg triggers a refresh.
type TickMsg time.Time

type Model struct {
	provider Provider
	interval time.Duration
	table    table.Model
	snap     Snapshot
}

// NewModel creates a Model refreshing from provider every interval.
func NewModel(provider Provider, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}

	columns := make([]table.Column, len(report.Header))
	widths := []int{8, 8, 20, 12, 12, 9, 9}
	for i, title := range report.Header {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{
		provider: provider,
		interval: interval,
		table:    t,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Snapshot returns the data currently shown.
func (m Model) Snapshot() Snapshot {
	return m.snap
}
