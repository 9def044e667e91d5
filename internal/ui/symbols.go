package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Step completed successfully
	SymbolFail     = "✗" // Step failed
	SymbolPending  = "○" // Not started, or not plotted
	SymbolComplete = "●" // Done, or plotted
	SymbolSkipped  = "⊘" // Skipped
)
