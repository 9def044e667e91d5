package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/logger"
	"github.com/growmonitor/growdash/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile   string
	verbose   bool
	noColor   bool
	rangeFlag int
)

// rootCmd runs the dashboard when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "growdash",
	Short: "Terminal dashboard for grow box sensor telemetry",
	Long: `growdash shows temperature, humidity, dew point and relay channel
readings of a grow box and its room, as tables and charts in the terminal.

Without a subcommand it starts the interactive dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetVerbose(true)
		}
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), rangeFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .growdash.yaml, then ~/.config/growdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().IntVarP(&rangeFlag, "range", "r", 0, "look-back window in days (default from config)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}

	if MachineMode() {
		_ = WriteJSONFromError(os.Stdout, err)
		os.Exit(1)
	}

	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			err = errors.New(errors.ErrInput,
				fmt.Sprintf("Unknown command '%s'", name),
				"Run 'growdash --help' to see the available commands")
		}
	}

	fmt.Fprint(os.Stderr, formatError(err))
	os.Exit(1)
}

// formatError renders err for the terminal. Structured errors format
// themselves; anything else gets the fail symbol.
func formatError(err error) string {
	msg := err.Error()
	if _, ok := errors.AsError(err); !ok {
		msg = ui.ErrorStyle().Render(ui.SymbolFail) + " " + msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return msg
}

// isUnknownCommandError reports whether err is cobra's unknown command or flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown command") || strings.Contains(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "growdash"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
