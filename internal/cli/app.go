package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/growmonitor/growdash/internal/config"
	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/logger"
	"github.com/growmonitor/growdash/internal/telemetry"
	"github.com/growmonitor/growdash/internal/ui"
	"golang.org/x/term"
)

// openSource builds the telemetry source. Tests swap it for a fake.
var openSource = telemetry.Open

// app bundles what every data command needs: the validated config and an
// open telemetry source.
type app struct {
	cfg    *config.Config
	loc    *time.Location
	log    logger.Logger
	source telemetry.Source
	close  func()
}

// loadApp loads and validates the config and opens the configured source.
// Call close when done.
func loadApp() (*app, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Unknown time zone %q", cfg.Dashboard.Timezone),
			"Use an IANA name like Europe/Berlin, or Local")
	}

	log := logger.Default()
	src, closeFn, err := openSource(cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		loc:    loc,
		log:    log,
		source: src,
		close:  closeFn,
	}, nil
}

// describeSource names where readings come from, for headers and logs.
func (a *app) describeSource() string {
	if a.cfg.Source == config.SourceInflux {
		return fmt.Sprintf("InfluxDB %s, bucket %s", a.cfg.Influx.URL, a.cfg.Influx.Bucket)
	}
	return a.cfg.Backend.URL
}

// rangeDays resolves the --range flag. Zero means the configured range.
func (a *app) rangeDays(flag int) (int, error) {
	if flag < 0 {
		return 0, errors.New(errors.ErrInput,
			fmt.Sprintf("Invalid range: %d days", flag),
			"Use a positive number of days, e.g. --range 7")
	}
	if flag > config.MaxRange {
		return 0, errors.New(errors.ErrInput,
			fmt.Sprintf("Invalid range: %d days", flag),
			fmt.Sprintf("Ranges are limited to %d days", config.MaxRange))
	}
	if flag == 0 {
		return a.cfg.Dashboard.Range, nil
	}
	return flag, nil
}

// newViewModel creates a view model over the app's source drawing onto c.
func (a *app) newViewModel(c dashboard.Chart, days int) *dashboard.ViewModel {
	return dashboard.NewViewModel(a.source, c,
		dashboard.WithLogger(a.log),
		dashboard.WithLocation(a.loc),
		dashboard.WithRange(days),
	)
}

// spinnerOutput returns where load spinners draw, or nil when they should
// stay hidden: in machine mode and when stderr is not a terminal.
var spinnerOutput = func() io.Writer {
	if MachineMode() || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return os.Stderr
}

// withSpinner runs fn behind a spinner. fn relabels the spinner between
// phases through setLabel and returns ui.ErrSkip to finish it as skipped,
// which withSpinner reports as success.
func withSpinner(label string, fn func(setLabel func(string)) error) error {
	w := spinnerOutput()
	if w == nil {
		err := fn(func(string) {})
		if stderrors.Is(err, ui.ErrSkip) {
			return nil
		}
		return err
	}
	return ui.NewSpinnerTo(w, label).Run(fn)
}

// terminalWidth returns the width of stdout, or fallback when it is not a
// terminal.
func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
