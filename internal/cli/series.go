package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/growmonitor/growdash/internal/chart"
	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/telemetry"
)

// defaultChartWidth is used when stdout is not a terminal.
const defaultChartWidth = 80

// SeriesOutput is the --json payload of the series command.
type SeriesOutput struct {
	Sensor          telemetry.Sensor    `json:"sensor"`
	ValueType       telemetry.ValueType `json:"value_type"`
	Name            string              `json:"name"`
	Unit            string              `json:"unit,omitempty"`
	RangeDays       int                 `json:"range_days"`
	IntervalSeconds int                 `json:"interval_seconds"`
	Points          []telemetry.Point   `json:"points"`
}

// seriesCommand refreshes, plots one series and prints the chart.
func seriesCommand(ctx context.Context, w io.Writer, sensor, valueType string, rangeFlag, width int) error {
	key, ok := dashboard.NewSeriesKey(sensor, valueType)
	if !ok {
		return errors.New(errors.ErrInput,
			"Sensor and value type must not be empty",
			"Example: growdash series BME280_BOX TEMP")
	}
	if width < 0 {
		return errors.New(errors.ErrInput,
			fmt.Sprintf("Invalid width: %d", width),
			"Use a positive number of columns, or leave --width unset")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	days, err := a.rangeDays(rangeFlag)
	if err != nil {
		return err
	}

	c := chart.NewTerminal(chart.WithLocation(a.loc))
	vm := a.newViewModel(c, days)

	err = withSpinner("Loading summary", func(setLabel func(string)) error {
		if err := vm.Refresh(ctx, days); err != nil {
			return err
		}
		setLabel("Loading " + key.Label())
		return vm.AddToChart(ctx, sensor, valueType)
	})
	if err != nil {
		return err
	}

	plotted, ok := vm.Series(sensor, valueType)
	if !ok {
		return errors.New(errors.ErrExec,
			fmt.Sprintf("%s was not plotted", key.Label()),
			"Try again; another operation may have been in flight")
	}

	if MachineMode() {
		points := plotted.Points
		if points == nil {
			points = []telemetry.Point{}
		}
		return WriteJSONSuccess(w, SeriesOutput{
			Sensor:          key.Sensor,
			ValueType:       key.ValueType,
			Name:            key.String(),
			Unit:            telemetry.UnitFor(key.ValueType),
			RangeDays:       days,
			IntervalSeconds: plotted.AveragingInterval,
			Points:          points,
		})
	}

	if width == 0 {
		width = terminalWidth(defaultChartWidth)
	}
	_, err = fmt.Fprintln(w, c.View(width))
	return err
}
