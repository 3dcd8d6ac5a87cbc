package tui

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"firestige.xyz/netvis/internal/analysis"
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

	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// maxBars bounds the per-second chart.
const maxBars = 8

// detailBytes is how much of the selected frame is hex dumped.
const detailBytes = 64

func (m Model) View() string {
	filter := "all"
	if l := m.Filter(); l != "" {
		filter = l.String()
	}
	title := titleStyle.Render(fmt.Sprintf("netvis - %s - %d packets - filter: %s", m.device, len(m.packets), filter))

	r := m.report
	stats := fmt.Sprintf("Total: %s in %d packets\nDuration: %ds\nTCP resets: %d\nTCP urgent: %d\nConnections: %d",
		formatBytes(r.TotalBytes), r.Packets, r.DurationSeconds, r.TCPResets, r.TCPUrgent, len(r.Connections))
	statsBox := infoStyle.Render(stats)

	layersBox := infoStyle.Render("Layers:\n" + layerLines(r.Layers))
	rateBox := infoStyle.Render("Bytes/s:\n" + rateChart(r.BytesPerSecond, 20))

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, statsBox, layersBox, rateBox)
	tableBox := infoStyle.Render(m.table.View())

	body := lipgloss.JoinVertical(lipgloss.Left, title, row1, tableBox, m.detail())
	return body + "\n" + helpStyle.Render("↑/↓ select • f/F cycle filter • q quit")
}

// detail dumps the start of the selected frame.
func (m Model) detail() string {
	i, ok := m.selected()
	if !ok {
		return infoStyle.Render("No packets match the filter")
	}
	p := m.packets[i]
	data := p.Data()
	if len(data) > detailBytes {
		data = data[:detailBytes]
	}
	head := fmt.Sprintf("Packet %d: %d bytes | %s", i+1, p.TotalSize(), m.summaries[i].Text)
	return infoStyle.Render(head + "\n" + strings.TrimRight(hex.Dump(data), "\n"))
}

func layerLines(layers map[string]int) string {
	names := make([]string, 0, len(layers))
	for n := range layers {
		names = append(names, n)
	}
	sort.Slice(names, func(a, b int) bool {
		if layers[names[a]] != layers[names[b]] {
			return layers[names[a]] > layers[names[b]]
		}
		return names[a] < names[b]
	})

	lines := make([]string, 0, len(names))
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("%-9s %d", n, layers[n]))
	}
	return strings.Join(lines, "\n")
}

// rateChart draws the last maxBars seconds as horizontal bars.
func rateChart(points []analysis.SeriesPoint, width int) string {
	if len(points) > maxBars {
		points = points[len(points)-maxBars:]
	}
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Value)
	}

	lines := make([]string, 0, len(points))
	for _, p := range points {
		n := 0
		if peak > 0 {
			n = max(p.Value*width/peak, 1)
		}
		lines = append(lines, fmt.Sprintf("%4d %s %s", p.Second, barStyle.Render(strings.Repeat("█", n)), formatBytes(p.Value)))
	}
	return strings.Join(lines, "\n")
}

func formatBytes(b int) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MiB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KiB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
