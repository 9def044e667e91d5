package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/growmonitor/growdash/internal/config"
	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Config file to write, default ./.growdash.yaml
	Source         string // http or influx
	BackendURL     string // HTTP backend base URL
	InfluxURL      string
	InfluxOrg      string
	InfluxBucket   string
	Range          int  // Default range in days, 0 keeps the default
	Overwrite      bool // Overwrite existing config without asking
	NonInteractive bool // Skip prompts, use flags and defaults
}

// Init creates a new .growdash.yaml configuration file.
func Init(opts InitOptions, w io.Writer) error {
	configPath := opts.Path
	if configPath == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
	}

	proceed, err := checkExistingConfig(configPath, opts)
	if err != nil || !proceed {
		return err
	}

	cfg := config.DefaultConfig()
	applyInitOptions(cfg, opts)

	if !opts.NonInteractive {
		if err := runInitForm(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.Save(configPath, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't write config file %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(w, "%s Created %s\n\n", ui.SuccessStyle().Render(ui.SymbolSuccess), configPath)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  %s   - Print the current readings\n", ui.InfoStyle().Render("growdash summary"))
	fmt.Fprintf(w, "  %s           - Open the dashboard\n", ui.InfoStyle().Render("growdash"))
	return nil
}

// checkExistingConfig reports whether init may write configPath. It asks
// before overwriting unless opts says otherwise.
func checkExistingConfig(configPath string, opts InitOptions) (bool, error) {
	if _, err := os.Stat(configPath); err != nil || opts.Overwrite {
		return true, nil
	}

	if opts.NonInteractive {
		return false, errors.New(errors.ErrConfig,
			fmt.Sprintf("There's already a config file at %s", configPath),
			"Use --force to overwrite it")
	}

	var overwrite bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
				Value(&overwrite),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Run with --force to overwrite without asking")
	}

	if !overwrite {
		fmt.Println("Cancelled.")
		return false, nil
	}
	return true, nil
}

// applyInitOptions copies the values given on the command line into cfg.
func applyInitOptions(cfg *config.Config, opts InitOptions) {
	if opts.Source != "" {
		cfg.Source = strings.ToLower(opts.Source)
	}
	if opts.BackendURL != "" {
		cfg.Backend.URL = opts.BackendURL
	}
	if opts.InfluxURL != "" {
		cfg.Influx.URL = opts.InfluxURL
	}
	if opts.InfluxOrg != "" {
		cfg.Influx.Org = opts.InfluxOrg
	}
	if opts.InfluxBucket != "" {
		cfg.Influx.Bucket = opts.InfluxBucket
	}
	if opts.Range > 0 {
		cfg.Dashboard.Range = opts.Range
	}
}

// runInitForm asks for the source and its connection settings, prefilled
// from cfg.
func runInitForm(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Telemetry source").
				Description("Where the sensor readings come from").
				Options(
					huh.NewOption("HTTP backend (getStats / getPlotValues)", config.SourceHTTP),
					huh.NewOption("InfluxDB 2 bucket", config.SourceInflux),
				).
				Value(&cfg.Source),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL the summary and series paths are resolved against").
				Placeholder("http://growbox.local:5000/").
				Value(&cfg.Backend.URL).
				Validate(validateHTTPURL),
		).WithHideFunc(func() bool {
			return cfg.Source != config.SourceHTTP
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("InfluxDB URL").
				Placeholder("http://localhost:8086").
				Value(&cfg.Influx.URL).
				Validate(validateHTTPURL),
			huh.NewInput().
				Title("Organization").
				Value(&cfg.Influx.Org).
				Validate(required("organization")),
			huh.NewInput().
				Title("Bucket").
				Value(&cfg.Influx.Bucket).
				Validate(required("bucket")),
			huh.NewInput().
				Title("API token").
				Description("Read token for the bucket (optional, GROWDASH_INFLUX_TOKEN works too)").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Influx.Token),
		).WithHideFunc(func() bool {
			return cfg.Source != config.SourceInflux
		}),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default range").
				Options(
					huh.NewOption("24 hours", dashboard.RangeDay),
					huh.NewOption("7 days", dashboard.RangeWeek),
					huh.NewOption("30 days", dashboard.RangeMonth),
					huh.NewOption("1 year", dashboard.RangeYear),
				).
				Value(&cfg.Dashboard.Range),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility, or pass --backend-url to skip the prompts")
	}
	return nil
}

func validateHTTPURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http:// or https:// URL")
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
