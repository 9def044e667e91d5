package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Telemetry sources.
const (
	SourceHTTP   = "http"
	SourceInflux = "influx"
)

// Config represents the complete .growdash.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Source    string          `yaml:"source" mapstructure:"source"`
	Backend   BackendConfig   `yaml:"backend" mapstructure:"backend"`
	Influx    InfluxConfig    `yaml:"influx" mapstructure:"influx"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
}

// BackendConfig locates the HTTP backend serving the summary and series queries.
type BackendConfig struct {
	// URL is the base URL the query paths are resolved against.
	URL string `yaml:"url" mapstructure:"url"`

	// SummaryPath serves per-sensor stats for a look-back window.
	SummaryPath string `yaml:"summary_path" mapstructure:"summary_path"`

	// SeriesPath serves averaged plot values for one sensor/value type.
	SeriesPath string `yaml:"series_path" mapstructure:"series_path"`

	// Token is sent as a bearer token when set.
	Token string `yaml:"token,omitempty" mapstructure:"token"`

	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// InfluxConfig points the dashboard directly at an InfluxDB 2 bucket.
type InfluxConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	Token       string `yaml:"token,omitempty" mapstructure:"token"`
	Org         string `yaml:"org" mapstructure:"org"`
	Bucket      string `yaml:"bucket" mapstructure:"bucket"`
	Measurement string `yaml:"measurement" mapstructure:"measurement"`
}

// MaxRange is the longest look-back window accepted, in days.
const MaxRange = 36500

// DashboardConfig controls the initial view.
type DashboardConfig struct {
	// Range is the look-back window in days selected at startup.
	Range int `yaml:"range" mapstructure:"range"`

	// Timezone names the IANA zone used for the last-reading display.
	// "Local" uses the system zone.
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Source:  SourceHTTP,
		Backend: BackendConfig{
			URL:         "http://localhost:5000/",
			SummaryPath: "getStats",
			SeriesPath:  "getPlotValues",
		},
		Influx: InfluxConfig{
			URL:         "http://localhost:8086",
			Bucket:      "sensordata",
			Measurement: "sensordata",
		},
		Dashboard: DashboardConfig{
			Range:    1,
			Timezone: "Local",
		},
	}
}

// Location resolves the configured time zone.
func (d DashboardConfig) Location() (*time.Location, error) {
	if d.Timezone == "" || d.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(d.Timezone)
}
