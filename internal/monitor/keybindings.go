package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/growmonitor/growdash/internal/dashboard"
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyRangeDay    = "d"
	KeyRangeWeek   = "w"
	KeyRangeMonth  = "m"
	KeyRangeYear   = "y"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeySelectFirst = "home"
	KeySelectLast  = "end"
	KeyToggle      = "enter"
	KeyToggleSpace = " "
	KeyClear       = "c"
	KeyScrollUp    = "pgup"
	KeyScrollDown  = "pgdown"
	KeyCollapse    = "esc"
	KeyToggleHelp  = "?"
)

// rangeKeys maps the range keys to days.
var rangeKeys = map[string]int{
	KeyRangeDay:   dashboard.RangeDay,
	KeyRangeWeek:  dashboard.RangeWeek,
	KeyRangeMonth: dashboard.RangeMonth,
	KeyRangeYear:  dashboard.RangeYear,
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if key == KeyQuit || key == KeyQuitAlt {
		m.quitting = true
		return true, tea.Quit
	}

	// The help overlay swallows everything else; Esc closes it
	if m.showHelp {
		if key == KeyCollapse {
			m.showHelp = false
		}
		return true, nil
	}

	if days, ok := rangeKeys[key]; ok {
		return true, m.refreshCmd(days)
	}

	switch key {
	case KeyRefresh:
		return true, m.refreshCmd(m.state.Range)

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
			m.syncBody()
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.rows)-1 {
			m.selected++
			m.syncBody()
		}
		return true, nil

	case KeySelectFirst:
		m.selected = 0
		m.syncBody()
		return true, nil

	case KeySelectLast:
		if len(m.rows) > 0 {
			m.selected = len(m.rows) - 1
			m.syncBody()
		}
		return true, nil

	case KeyToggle, KeyToggleSpace:
		row, ok := m.SelectedRow()
		if !ok {
			return true, nil
		}
		return true, m.toggleCmd(row)

	case KeyClear:
		// Only offered while something is plotted
		if !m.state.AnyDisplayed() {
			return true, nil
		}
		return true, m.clearCmd()

	case KeyScrollUp, KeyScrollDown:
		if m.ready {
			var cmd tea.Cmd
			m.body, cmd = m.body.Update(msg)
			return true, cmd
		}
		return true, nil
	}

	return false, nil
}
