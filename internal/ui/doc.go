// Package ui provides terminal UI components for growdash's CLI output.
//
// # Components Overview
//
//	Spinner       - Animated status indicator while a command waits on the backend
//	SpinnerFrames - The same animation for Bubble Tea programs (NewTeaSpinner)
//	Table         - Bubbles table rendering for summaries (RenderTable)
//	Header        - Branded header printed above command output
//
// # Color Scheme
//
//	ColorSuccess   - Successful operations
//	ColorError     - Failures and errors
//	ColorWarning   - Warnings
//	ColorInfo      - Informational messages
//	ColorMuted     - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Spinner Usage
//
//	err := ui.NewSpinner("Loading summary").Run(func(setLabel func(string)) error {
//		if err := vm.Refresh(ctx, days); err != nil {
//			return err
//		}
//		setLabel("Loading BME280_BOX TEMP")
//		return vm.AddToChart(ctx, sensor, valueType)
//	})
//
// Returning ErrSkip finishes the line as skipped. The spinner writes to
// stderr, so stdout stays clean for piping.
package ui
