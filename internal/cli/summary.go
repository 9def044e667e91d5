package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/growmonitor/growdash/internal/telemetry"
	"github.com/growmonitor/growdash/internal/ui"
)

// summaryColumns are the columns of a bucket table.
var summaryColumns = []ui.TableColumn{
	{Title: "Type", Width: 6},
	{Title: "Last", Width: 8},
	{Title: "Min", Width: 8},
	{Title: "Max", Width: 8},
	{Title: "Avg", Width: 8},
	{Title: "Unit", Width: 5},
}

// SummaryOutput is the --json payload of the summary command.
type SummaryOutput struct {
	RangeDays       int                    `json:"range_days"`
	IntervalSeconds int                    `json:"interval_seconds"`
	LastDate        string                 `json:"last_date"`
	LastTime        string                 `json:"last_time"`
	Box             []telemetry.SummaryRow `json:"box"`
	Room            []telemetry.SummaryRow `json:"room"`
	Relay           []telemetry.SummaryRow `json:"relay"`
}

// summaryCommand refreshes once and prints the three buckets.
func summaryCommand(ctx context.Context, w io.Writer, rangeFlag int) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	days, err := a.rangeDays(rangeFlag)
	if err != nil {
		return err
	}

	vm := a.newViewModel(nil, days)
	err = withSpinner("Loading "+dashboard.RangeLabel(days)+" summary", func(setLabel func(string)) error {
		if err := vm.Refresh(ctx, days); err != nil {
			return err
		}
		if len(vm.State().Rows) == 0 {
			setLabel("No " + dashboard.RangeLabel(days) + " summary")
			return ui.ErrSkip
		}
		return nil
	})
	if err != nil {
		return err
	}

	state := vm.State()
	if MachineMode() {
		return WriteJSONSuccess(w, newSummaryOutput(state))
	}

	if len(state.Rows) == 0 {
		ui.PrintWarning(fmt.Sprintf("No readings in the last %s from %s", dashboard.RangeLabel(days), a.describeSource()))
	}

	fmt.Fprint(w, ui.RenderHeader(ui.HeaderInfo{
		Version: formatVersion(GetVersion()),
		Tagline: "Summary, last " + dashboard.RangeLabel(days),
		Source:  a.describeSource(),
	}))
	_, err = fmt.Fprint(w, renderSummary(state))
	return err
}

func newSummaryOutput(s dashboard.State) SummaryOutput {
	return SummaryOutput{
		RangeDays:       s.Range,
		IntervalSeconds: s.Interval,
		LastDate:        s.LastDate,
		LastTime:        s.LastTime,
		Box:             nonNilRows(s.Box),
		Room:            nonNilRows(s.Room),
		Relay:           nonNilRows(s.Relay),
	}
}

// renderSummary renders one table per bucket followed by the last reading.
func renderSummary(s dashboard.State) string {
	titleStyle := lipgloss.NewStyle().Foreground(ui.ColorNeonPink).Bold(true)

	var b strings.Builder
	for i, bucket := range dashboard.Buckets {
		b.WriteString(titleStyle.Render(bucket.Title))
		b.WriteString("\n")

		rows := s.BucketRows(i)
		if len(rows) == 0 {
			b.WriteString(ui.MutedStyle().Render("  " + dashboard.NoDataPlaceholder))
			b.WriteString("\n\n")
			continue
		}

		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells = append(cells, summaryCells(row))
		}
		b.WriteString(ui.RenderTable(summaryColumns, cells))
		b.WriteString("\n\n")
	}

	reading := s.LastDate
	if s.LastTime != "" {
		reading += " " + s.LastTime
	}
	fmt.Fprintf(&b, "%s %s  %s\n",
		ui.MutedStyle().Render("Last reading"),
		reading,
		ui.MutedStyle().Render(fmt.Sprintf("(%s, averaged over %ds)", dashboard.RangeLabel(s.Range), s.Interval)),
	)
	return b.String()
}

func summaryCells(row telemetry.SummaryRow) []string {
	cells := []string{string(row.ValueType)}
	for _, name := range []string{telemetry.ValueLast, telemetry.ValueMin, telemetry.ValueMax, telemetry.ValueAvg} {
		v, _ := row.Value(name)
		cells = append(cells, telemetry.FormatValue(v))
	}
	return append(cells, row.Unit)
}

func nonNilRows(rows []telemetry.SummaryRow) []telemetry.SummaryRow {
	if rows == nil {
		return []telemetry.SummaryRow{}
	}
	return rows
}
