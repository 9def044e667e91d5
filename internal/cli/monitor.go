package cli

import (
	"context"

	"github.com/growmonitor/growdash/internal/chart"
	"github.com/growmonitor/growdash/internal/monitor"
)

// monitorCommand starts the full-screen dashboard.
func monitorCommand(ctx context.Context, rangeFlag int) error {
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

	a.log.Debug("starting dashboard: %d days from %s", days, a.describeSource())
	return monitor.Run(ctx, vm, c)
}
