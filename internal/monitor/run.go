package monitor

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/logger"
)

// DebugLogFile receives log output while the dashboard owns the terminal.
const DebugLogFile = "growdash-debug.log"

// Run shows the dashboard full screen until the user quits or ctx ends.
func Run(ctx context.Context, vm *dashboard.ViewModel, c ChartView) error {
	// Log lines would tear the alternate screen: send them to a file when
	// debugging, drop them otherwise.
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(DebugLogFile, "growdash")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Couldn't open the debug log",
				"Check that the working directory is writable, or unset "+logger.DebugEnv)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	defer log.SetOutput(os.Stderr)

	model := NewModel(ctx, vm, c)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return errors.WrapWithCode(err, errors.ErrExec, "Dashboard stopped unexpectedly", "")
	}
	return nil
}
