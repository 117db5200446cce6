package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/store"
)

const (
	refreshInterval = 2 * time.Second
	deliveryLimit   = 50
)

type refreshMsg struct {
	deliveries  []store.Delivery
	discussions int
	counts      map[string]int
	err         error
}

type tickMsg time.Time

// Model is the main BubbleTea model for the watch TUI. It polls the local
// state database; no running server is required.
type Model struct {
	discussions *store.DiscussionStore
	deliveries  *store.DeliveryLog

	width  int
	height int

	rows        []store.Delivery
	total       int
	counts      map[string]int
	lastRefresh time.Time
	lastError   string

	deliveryTable table.Model
	theme         Theme
}

// New creates a new watch TUI model over the given stores.
func New(discussions *store.DiscussionStore, deliveries *store.DeliveryLog) *Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Time", Width: 8},
			{Title: "Event", Width: 12},
			{Title: "RFD", Width: 8},
			{Title: "Outcome", Width: 8},
			{Title: "Detail", Width: 48},
		}),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return &Model{
		discussions:   discussions,
		deliveries:    deliveries,
		deliveryTable: t,
		theme:         NewDefaultTheme(),
		counts:        make(map[string]int),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refresh(),
		tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) }),
		tea.EnterAltScreen,
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.deliveryTable.SetWidth(m.width - 6)

	case tickMsg:
		return m, tea.Batch(
			m.refresh(),
			tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) }),
		)

	case refreshMsg:
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.rows = msg.deliveries
		m.total = msg.discussions
		m.counts = msg.counts
		m.lastRefresh = time.Now()
		m.lastError = ""
		m.updateTable()
		return m, nil
	}

	m.deliveryTable, cmd = m.deliveryTable.Update(msg)
	return m, cmd
}

// refresh polls both stores in one command.
func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		deliveries, err := m.deliveries.Recent(ctx, deliveryLimit)
		if err != nil {
			return refreshMsg{err: err}
		}
		total, err := m.discussions.Count(ctx)
		if err != nil {
			return refreshMsg{err: err}
		}
		counts, err := m.deliveries.CountByOutcome(ctx)
		if err != nil {
			return refreshMsg{err: err}
		}
		return refreshMsg{deliveries: deliveries, discussions: total, counts: counts}
	}
}

func (m *Model) updateTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, d := range m.rows {
		rows = append(rows, table.Row{
			d.ReceivedAt.Local().Format("15:04:05"),
			d.Event,
			d.RFDID,
			m.renderOutcome(d.Outcome),
			truncate(d.Detail, 48),
		})
	}
	m.deliveryTable.SetRows(rows)
}

func (m *Model) renderOutcome(outcome string) string {
	switch outcome {
	case store.OutcomeCreated:
		return m.theme.OutcomeCreated.Render(outcome)
	case store.OutcomeUpdated:
		return m.theme.OutcomeUpdated.Render(outcome)
	case store.OutcomeFailed:
		return m.theme.OutcomeFailed.Render(outcome)
	default:
		return m.theme.OutcomeNoop.Render(outcome)
	}
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing watch..."
	}

	header := m.renderHeader()
	deliveriesView := m.theme.Border.Width(m.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Title.Render("Deliveries"),
			m.deliveryTable.View(),
		),
	)

	var errBar string
	if m.lastError != "" {
		errBar = m.theme.OutcomeFailed.Render(fmt.Sprintf(" ⚠ %s", m.lastError))
	}

	help := m.theme.Dim.Render(" [q] Quit • [r] Refresh • [↑/↓] Scroll")

	parts := []string{header, deliveriesView}
	if errBar != "" {
		parts = append(parts, errBar)
	}
	parts = append(parts, help)

	return lipgloss.NewStyle().Margin(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m *Model) renderHeader() string {
	refreshed := "never"
	if !m.lastRefresh.IsZero() {
		refreshed = fmt.Sprintf("%s ago", time.Since(m.lastRefresh).Round(time.Second))
	}

	stats := fmt.Sprintf(" Discussions: %d  Created: %d  Updated: %d  Noop: %d  Failed: %d",
		m.total,
		m.counts[store.OutcomeCreated],
		m.counts[store.OutcomeUpdated],
		m.counts[store.OutcomeNoop],
		m.counts[store.OutcomeFailed],
	)
	titleLine := fmt.Sprintf(" RFD DISCUSSION WATCH  %s", m.theme.Dim.Render("refreshed "+refreshed))

	return m.theme.Border.Width(m.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left, titleLine, stats),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
