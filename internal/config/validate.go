package config

import (
	"fmt"
	"net/url"

	"github.com/growmonitor/growdash/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but growdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade growdash or lower the version field.")
	}

	switch cfg.Source {
	case SourceHTTP:
		if err := validateBackend(cfg.Backend); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'backend' section in your .growdash.yaml.")
		}
	case SourceInflux:
		if err := validateInflux(cfg.Influx); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'influx' section in your .growdash.yaml.")
		}
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown telemetry source '%s'", cfg.Source),
			"Set source to 'http' or 'influx'.")
	}

	if err := validateDashboard(cfg.Dashboard); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'dashboard' section in your .growdash.yaml.")
	}

	return nil
}

func validateBackend(b BackendConfig) error {
	if err := validateURL("backend.url", b.URL); err != nil {
		return err
	}
	if b.SummaryPath == "" || b.SeriesPath == "" {
		return fmt.Errorf("backend.summary_path and backend.series_path must not be empty")
	}
	if b.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", b.Timeout)
	}
	return nil
}

func validateInflux(i InfluxConfig) error {
	if err := validateURL("influx.url", i.URL); err != nil {
		return err
	}
	if i.Org == "" || i.Bucket == "" || i.Measurement == "" {
		return fmt.Errorf("influx.org, influx.bucket and influx.measurement are required")
	}
	return nil
}

func validateDashboard(d DashboardConfig) error {
	if d.Range < 1 {
		return fmt.Errorf("dashboard.range must be at least 1 day, got %d", d.Range)
	}
	if d.Range > MaxRange {
		return fmt.Errorf("dashboard.range must be at most %d days, got %d", MaxRange, d.Range)
	}
	if _, err := d.Location(); err != nil {
		return fmt.Errorf("dashboard.timezone %q is not a known time zone", d.Timezone)
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %v", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", field, raw)
	}
	return nil
}
