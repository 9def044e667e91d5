// Package cli implements the growdash command-line interface.
//
// Every command is a cobra.Command registered on the root command in an
// init function. Commands load the config, open the telemetry source and
// drive a dashboard.ViewModel; the rendering is theirs.
//
// # Command Structure
//
//	growdash                    - Interactive dashboard (same as monitor)
//	growdash monitor            - Interactive dashboard
//	growdash summary            - Print the summary tables once
//	growdash series SENSOR TYPE - Plot one series
//	growdash init               - Create .growdash.yaml
//	growdash version            - Print build information
//	growdash completion SHELL   - Generate shell completion
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color, --range) are defined on the
// root command and available to all subcommands. --range is in days; zero
// keeps the range from the config file.
//
// # Machine Output
//
// summary and series accept --json. Output, including errors, is then
// wrapped in a JSONEnvelope on stdout and no spinner is drawn.
package cli
