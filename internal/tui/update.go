package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "f":
			m.filter = (m.filter + 1) % len(filters)
			m.applyFilter()
			return m, nil
		case "F":
			m.filter = (m.filter + len(filters) - 1) % len(filters)
			m.applyFilter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if h := msg.Height - 16; h > 5 {
			m.table.SetHeight(h)
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}
