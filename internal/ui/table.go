package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn is a fixed-width column of a static table.
type TableColumn struct {
	Title string
	Width int
}

// tableStyles underlines the header in the muted palette colour. The
// selection style is plain since static tables are never focused.
func tableStyles() table.Styles {
	return table.Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			BorderBottom(true),
		Cell:     lipgloss.NewStyle().Foreground(ColorPrimary).Padding(0, 1),
		Selected: lipgloss.NewStyle(),
	}
}

// RenderTable renders rows under columns for plain command output. It
// returns "" when there are no rows.
func RenderTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	cols := make([]table.Column, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, table.Column{Title: c.Title, Width: c.Width})
	}
	body := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		body = append(body, table.Row(r))
	}

	// One line per row plus the header.
	m := table.New(
		table.WithColumns(cols),
		table.WithRows(body),
		table.WithHeight(len(body)+1),
		table.WithStyles(tableStyles()),
	)
	return m.View()
}
