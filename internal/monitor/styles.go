package monitor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/growmonitor/growdash/internal/ui"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	// Bucket tables
	BucketStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	BucketTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorBorder).
				Bold(true)

	// Marker shown next to rows whose series is on the chart
	PlottedMarkerStyle = lipgloss.NewStyle().
				Foreground(ColorHealthy)

	ChartStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	LastReadingStyle = lipgloss.NewStyle().
				Foreground(ColorAccentDim)

	RangeActiveStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorAccent).
				Bold(true).
				Padding(0, 1)

	RangeInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)
)

// Row markers
const (
	MarkerPlotted  = ui.SymbolComplete
	MarkerIdle     = ui.SymbolPending
	MarkerSelected = "▸"
)
