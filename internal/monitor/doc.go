// Package monitor implements the full-screen growdash dashboard.
//
// The dashboard shows the sensor summary of the selected range as three
// tables (box, room and relay channels), the chart of every plotted series
// and the time of the newest reading.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: the last dashboard.State snapshot, the cursor and the layout
//   - Update: keystrokes, window resizes, snapshots and finished operations
//   - View: renders the snapshot and the chart to a string
//
// All data handling lives in dashboard.ViewModel. The model never touches
// the telemetry source itself.
//
// # Message Flow
//
// Operations (refresh, toggle, clear) run as tea.Cmd on their own goroutine:
//
//  1. A key press returns refreshCmd, toggleCmd or clearCmd
//  2. The view model publishes snapshots to its subscribers; the model's
//     feed keeps only the newest and hands it to Update as a stateMsg
//  3. When the operation returns, opDoneMsg reads the final snapshot
//  4. View() re-renders
//
// Key presses that arrive while an operation is in flight are forwarded as
// usual; the view model drops them.
//
// # Keys
//
//	q / ctrl+c     quit
//	r              reload the current range
//	d / w / m / y  select 24 hours, 7, 30 or 365 days
//	up/k, down/j   move the cursor
//	enter / space  plot or remove the selected value
//	c              clear the chart (only while something is plotted)
//	?              help overlay
package monitor
