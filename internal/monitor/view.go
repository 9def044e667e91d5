package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/telemetry"
)

// statColumns are the summary values shown per row, in column order.
var statColumns = []string{telemetry.ValueLast, telemetry.ValueMin, telemetry.ValueMax, telemetry.ValueAvg}

var rangeTabs = []int{dashboard.RangeDay, dashboard.RangeWeek, dashboard.RangeMonth, dashboard.RangeYear}

const (
	typeColumnWidth = 5
	statColumnWidth = 7
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(m.body.View())
	} else {
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title, range tabs, averaging interval and the
// time of the newest reading.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("growdash")

	tabs := make([]string, 0, len(rangeTabs))
	for _, days := range rangeTabs {
		label := dashboard.RangeLabel(days)
		if days == m.state.Range {
			tabs = append(tabs, RangeActiveStyle.Render(label))
		} else {
			tabs = append(tabs, RangeInactiveStyle.Render(label))
		}
	}

	avg := LabelStyle.Render(fmt.Sprintf("avg %s", formatInterval(m.state.Interval)))

	reading := m.state.LastDate
	if m.state.LastTime != "" {
		reading += " " + m.state.LastTime
	}
	last := LabelStyle.Render("last reading ") + LastReadingStyle.Render(reading)

	parts := []string{title, " ", strings.Join(tabs, ""), "  ", avg, "  ", last}
	if m.state.Loading {
		parts = append(parts, "  ", m.spinner.View(), LabelStyle.Render(" loading"))
	}

	return HeaderStyle.Render(strings.Join(parts, ""))
}

// renderBody renders the bucket tables, the chart and the last error.
func (m Model) renderBody() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	tables := make([]string, 0, len(dashboard.Buckets))
	offset := 0
	for i, bucket := range dashboard.Buckets {
		rows := m.state.BucketRows(i)
		tables = append(tables, m.renderBucket(bucket, rows, offset))
		offset += len(rows)
	}

	var buckets string
	if lipgloss.Width(lipgloss.JoinHorizontal(lipgloss.Top, tables...)) <= width {
		buckets = lipgloss.JoinHorizontal(lipgloss.Top, tables...)
	} else {
		buckets = lipgloss.JoinVertical(lipgloss.Left, tables...)
	}

	// Border plus padding on both sides
	chartWidth := width - 4
	chartBox := ChartStyle.Render(m.renderChart(chartWidth))

	sections := []string{buckets, chartBox}
	if m.state.Err != nil {
		sections = append(sections, ErrorStyle.Render("✗ "+errors.Summary(m.state.Err)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderChart(width int) string {
	if m.chart == nil {
		return ""
	}
	return m.chart.View(width)
}

// renderBucket renders one bucket as a table. offset is the index of the
// bucket's first row among all selectable rows.
func (m Model) renderBucket(bucket dashboard.Bucket, rows []telemetry.SummaryRow, offset int) string {
	lines := []string{BucketTitleStyle.Render(bucket.Title)}

	header := fmt.Sprintf("    %-*s", typeColumnWidth, "")
	for _, name := range statColumns {
		header += fmt.Sprintf(" %*s", statColumnWidth, statLabel(name))
	}
	lines = append(lines, ColumnHeaderStyle.Render(header))

	if len(rows) == 0 {
		lines = append(lines, LabelStyle.Render("  "+dashboard.NoDataPlaceholder))
	}

	for i, row := range rows {
		lines = append(lines, m.renderRow(row, offset+i == m.selected))
	}

	return BucketStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(row telemetry.SummaryRow, selected bool) string {
	cursor := " "
	if selected {
		cursor = MarkerSelected
	}

	plotted := m.state.IsDisplayed(string(row.Sensor), string(row.ValueType))
	marker := MarkerIdle
	if plotted {
		marker = MarkerPlotted
	}

	cells := fmt.Sprintf("%-*s", typeColumnWidth, row.ValueType)
	for _, name := range statColumns {
		v, _ := row.Value(name)
		cells += fmt.Sprintf(" %*s", statColumnWidth, telemetry.FormatValue(v))
	}
	if row.Unit != "" {
		cells += " " + row.Unit
	}

	if selected {
		return cursor + " " + markerStyle(plotted).Render(marker) + " " + SelectedRowStyle.Render(cells)
	}
	return cursor + " " + markerStyle(plotted).Render(marker) + " " + ValueStyle.Render(cells)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r reload",
		"d/w/m/y range",
		"↑↓ select",
		"enter plot",
	}
	if m.state.AnyDisplayed() {
		hints = append(hints, "c clear")
	}
	hints = append(hints, "? help")

	return FooterStyle.Render(strings.Join(hints, " | "))
}

func markerStyle(plotted bool) lipgloss.Style {
	if plotted {
		return PlottedMarkerStyle
	}
	return LabelStyle
}

func statLabel(name string) string {
	switch name {
	case telemetry.ValueLast:
		return "last"
	case telemetry.ValueMin:
		return "min"
	case telemetry.ValueMax:
		return "max"
	case telemetry.ValueAvg:
		return "avg"
	}
	return strings.ToLower(name)
}

// formatInterval renders an averaging interval in seconds as 1m, 5m, 15m or 8h.
func formatInterval(seconds int) string {
	switch {
	case seconds <= 0:
		return "-"
	case seconds%3600 == 0:
		return fmt.Sprintf("%dh", seconds/3600)
	case seconds%60 == 0:
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%ds", seconds)
}
