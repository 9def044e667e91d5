package cli

import (
	"os"

	"github.com/growmonitor/growdash/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Command-specific flags
var (
	seriesWidthFlag    int
	initSourceFlag     string
	initBackendURL     string
	initInfluxURL      string
	initInfluxOrg      string
	initInfluxBucket   string
	initForce          bool
	initNonInteractive bool
)

// monitorCmd starts the TUI dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive dashboard with summary tables and chart",
	Long: `Start the full-screen dashboard. It shows the box, room and relay
readings of the selected range and plots the series you pick.

Keyboard shortcuts:
  q / Ctrl+C     Quit
  r              Reload the current range
  d / w / m / y  Show 24 hours / 7 / 30 / 365 days
  up/k, down/j   Select a value
  Enter / Space  Plot or remove the selected value
  c              Clear the chart
  ?              Show help

Examples:
  growdash monitor
  growdash monitor --range 7`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), rangeFlag)
	},
}

// summaryCmd prints the summary tables once
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print last, min, max and average per sensor",
	Long: `Load the summary for the selected range and print it as one table
per group (Box, Raum, Relais), followed by the time of the newest reading.

Examples:
  growdash summary
  growdash summary --range 30
  growdash summary --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return summaryCommand(cmd.Context(), cmd.OutOrStdout(), rangeFlag)
	},
}

// seriesCmd plots one series
var seriesCmd = &cobra.Command{
	Use:   "series SENSOR VALUETYPE",
	Short: "Plot one sensor value over the selected range",
	Long: `Load one series at the averaging interval of the selected range and
draw it as a chart, or print its points with --json.

Examples:
  growdash series BME280_BOX TEMP
  growdash series bme280_raum hum --range 7
  growdash series RELAYMONITOR CH1 --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return seriesCommand(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], rangeFlag, seriesWidthFlag)
	},
}

// initCmd creates a new .growdash.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .growdash.yaml configuration",
	Long: `Create a .growdash.yaml file in the current directory.

Asks for the telemetry source and its connection settings. Prompts are
skipped when stdin is not a terminal or when --backend-url or
--non-interactive is given.

Examples:
  growdash init
  growdash init --backend-url http://growbox.local:5000/
  growdash init --source influx --influx-org home --non-interactive
  growdash init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Source:         initSourceFlag,
			BackendURL:     initBackendURL,
			InfluxURL:      initInfluxURL,
			InfluxOrg:      initInfluxOrg,
			InfluxBucket:   initInfluxBucket,
			Range:          rangeFlag,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive || initBackendURL != "" || !term.IsTerminal(int(os.Stdin.Fd())),
		}, cmd.OutOrStdout())
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for growdash.

Examples:
  # Bash
  growdash completion bash > /etc/bash_completion.d/growdash

  # Zsh
  growdash completion zsh > "${fpath[1]}/_growdash"

  # Fish
  growdash completion fish > ~/.config/fish/completions/growdash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrInput,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// --json on the data commands
	summaryCmd.Flags().BoolVar(&machineMode, "json", false, "print JSON instead of tables")
	seriesCmd.Flags().BoolVar(&machineMode, "json", false, "print the points as JSON instead of a chart")

	seriesCmd.Flags().IntVar(&seriesWidthFlag, "width", 0, "chart width in columns (default terminal width)")

	// init command flags
	initCmd.Flags().StringVar(&initSourceFlag, "source", "", "telemetry source: http or influx")
	initCmd.Flags().StringVar(&initBackendURL, "backend-url", "", "HTTP backend base URL (skips prompts)")
	initCmd.Flags().StringVar(&initInfluxURL, "influx-url", "", "InfluxDB URL")
	initCmd.Flags().StringVar(&initInfluxOrg, "influx-org", "", "InfluxDB organization")
	initCmd.Flags().StringVar(&initInfluxBucket, "influx-bucket", "", "InfluxDB bucket")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "never prompt")

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
