// Package tui is a post-capture packet browser built on bubbletea.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"firestige.xyz/netvis/internal/analysis"
	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/decoder"
	"firestige.xyz/netvis/internal/summary"
)

// filters cycles through "all" followed by every layer in summary order.
var filters = append([]core.Layer{""}, core.SummaryOrder...)

// Model browses a finished capture.
type Model struct {
	device    string
	packets   []core.Packet
	visible   []int // indexes into packets after filtering
	summaries []core.Summary
	report    analysis.Report
	filter    int
	table     table.Model
	width     int
}

// NewModel prepares the browser for packets. The capture must be non-empty.
func NewModel(device string, packets []core.Packet) (Model, error) {
	report, err := analysis.BuildReport(packets)
	if err != nil {
		return Model{}, err
	}

	columns := []table.Column{
		{Title: "#", Width: 6},
		{Title: "Sec", Width: 5},
		{Title: "Bytes", Width: 7},
		{Title: "Layer", Width: 9},
		{Title: "Summary", Width: 70},
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

	m := Model{
		device:    device,
		packets:   packets,
		summaries: make([]core.Summary, len(packets)),
		report:    report,
		table:     t,
	}
	for i, p := range packets {
		m.summaries[i] = summary.Classify(p)
	}
	m.applyFilter()
	return m, nil
}

// Run shows the browser until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Filter returns the active layer filter, empty for all packets.
func (m Model) Filter() core.Layer {
	return filters[m.filter]
}

// applyFilter rebuilds the visible rows for the current filter.
func (m *Model) applyFilter() {
	layer := filters[m.filter]

	m.visible = nil
	if layer == "" {
		for i := range m.packets {
			m.visible = append(m.visible, i)
		}
	} else {
		d := decoder.MustFor(layer)
		for i, p := range m.packets {
			if d.Detect(p.Data()) {
				m.visible = append(m.visible, i)
			}
		}
	}

	start := m.report.StartSecond
	rows := make([]table.Row, len(m.visible))
	for r, i := range m.visible {
		p := m.packets[i]
		rows[r] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", p.CapturedAt()-start),
			fmt.Sprintf("%d", p.TotalSize()),
			m.summaries[i].Layer.String(),
			m.summaries[i].Text,
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// selected returns the packet index under the cursor.
func (m Model) selected() (int, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return 0, false
	}
	return m.visible[c], true
}
