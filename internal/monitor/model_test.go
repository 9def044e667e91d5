package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/growmonitor/growdash/internal/chart"
	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/telemetry"
	telemetrytest "github.com/growmonitor/growdash/internal/telemetry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tue 2023-11-14 22:13:20 UTC
const sampleTimestamp = 1700000000

func summaryRow(sensor telemetry.Sensor, vt telemetry.ValueType, last float64) telemetry.SummaryRow {
	return telemetry.SummaryRow{
		Sensor:        sensor,
		ValueType:     vt,
		LastTimestamp: sampleTimestamp,
		Unit:          telemetry.UnitFor(vt),
		Values:        map[string]*float64{telemetry.ValueLast: telemetry.Float(last)},
	}
}

func sampleRows() []telemetry.SummaryRow {
	return []telemetry.SummaryRow{
		summaryRow(telemetry.SensorBox, telemetry.ValueTemp, 24.5),
		summaryRow(telemetry.SensorBox, telemetry.ValueHumidity, 61),
		summaryRow(telemetry.SensorRoom, telemetry.ValueTemp, 21.34),
		summaryRow(telemetry.SensorRelayMonitor, telemetry.ValueCH1, 1),
	}
}

func newTestModel(t *testing.T) (Model, *telemetrytest.FakeSource, *chart.Terminal) {
	t.Helper()
	src := telemetrytest.NewFakeSource().SetRows(sampleRows()...)
	src.SetSeries(telemetry.SensorBox, telemetry.ValueHumidity,
		telemetry.Point{Timestamp: sampleTimestamp * 1000, Value: telemetry.Float(60)},
		telemetry.Point{Timestamp: sampleTimestamp*1000 + 60_000, Value: telemetry.Float(61)},
	)
	c := chart.NewTerminal(chart.WithLocation(time.UTC))
	vm := dashboard.NewViewModel(src, c, dashboard.WithLocation(time.UTC))

	m := NewModel(context.Background(), vm, c)
	t.Cleanup(m.Close)
	return m, src, c
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// runOp executes an operation command synchronously and feeds its result back.
func runOp(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd, "expected an operation")
	msg := cmd()
	require.IsType(t, opDoneMsg{}, msg)
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// loaded returns a model after the initial refresh.
func loaded(t *testing.T) (Model, *telemetrytest.FakeSource, *chart.Terminal) {
	t.Helper()
	m, src, c := newTestModel(t)
	m = runOp(t, m, m.refreshCmd(m.State().Range))
	require.Len(t, m.rows, 4)
	return m, src, c
}

func TestNewModel(t *testing.T) {
	m, src, _ := newTestModel(t)

	assert.Equal(t, dashboard.RangeDay, m.State().Range)
	assert.Equal(t, dashboard.NoDataPlaceholder, m.State().LastDate)
	assert.Empty(t, m.rows)
	assert.NotNil(t, m.Init())
	assert.Zero(t, src.SummaryCallCount(), "nothing is fetched before Init runs")

	_, ok := m.SelectedRow()
	assert.False(t, ok)
}

func TestModel_RefreshLoadsSummary(t *testing.T) {
	m, src, _ := newTestModel(t)

	m, cmd := press(m, keyRunes(KeyRefresh))
	m = runOp(t, m, cmd)

	s := m.State()
	assert.False(t, s.Loading)
	assert.Equal(t, "Di., 14.11.", s.LastDate)
	assert.Equal(t, "22:13", s.LastTime)
	assert.Len(t, s.Box, 2)
	assert.Len(t, s.Room, 1)
	assert.Len(t, s.Relay, 1)

	call, ok := src.LastSummaryCall()
	require.True(t, ok)
	assert.Equal(t, 24, call.HoursBack)

	row, ok := m.SelectedRow()
	require.True(t, ok)
	assert.Equal(t, telemetry.SensorBox, row.Sensor)
	assert.Equal(t, telemetry.ValueTemp, row.ValueType)
}

func TestModel_RangeKeys(t *testing.T) {
	tests := []struct {
		key      string
		days     int
		interval int
	}{
		{KeyRangeDay, 1, 60},
		{KeyRangeWeek, 7, 300},
		{KeyRangeMonth, 30, 900},
		{KeyRangeYear, 365, 28800},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, src, _ := newTestModel(t)

			m, cmd := press(m, keyRunes(tt.key))
			m = runOp(t, m, cmd)

			assert.Equal(t, tt.days, m.State().Range)
			assert.Equal(t, tt.interval, m.State().Interval)
			call, ok := src.LastSummaryCall()
			require.True(t, ok)
			assert.Equal(t, tt.days*24, call.HoursBack)
		})
	}
}

func TestModel_RefreshKeepsRange(t *testing.T) {
	m, src, _ := newTestModel(t)

	m, cmd := press(m, keyRunes(KeyRangeWeek))
	m = runOp(t, m, cmd)
	m, cmd = press(m, keyRunes(KeyRefresh))
	m = runOp(t, m, cmd)

	assert.Equal(t, dashboard.RangeWeek, m.State().Range)
	assert.Equal(t, 2, src.SummaryCallCount())
}

func TestModel_ToggleSelectedRow(t *testing.T) {
	m, src, c := loaded(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	row, ok := m.SelectedRow()
	require.True(t, ok)
	require.Equal(t, telemetry.ValueHumidity, row.ValueType)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runOp(t, m, cmd)

	assert.True(t, m.State().IsDisplayed("BME280_BOX", "HUM"))
	assert.Equal(t, []string{"bme280_box_hum"}, c.Names())
	call, ok := src.LastSeriesCall()
	require.True(t, ok)
	assert.Equal(t, telemetry.SensorBox, call.Sensor)
	assert.Equal(t, 60, call.AvgSeconds)

	// Space toggles it off again without another fetch
	m, cmd = press(m, tea.KeyMsg{Type: tea.KeySpace})
	m = runOp(t, m, cmd)

	assert.False(t, m.State().AnyDisplayed())
	assert.Empty(t, c.Names())
	assert.Equal(t, 1, src.SeriesCallCount())
}

func TestModel_ToggleWithoutRows(t *testing.T) {
	m, src, _ := newTestModel(t)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Zero(t, src.SeriesCallCount())
	assert.False(t, m.State().AnyDisplayed())
}

func TestModel_ClearChart(t *testing.T) {
	m, _, c := loaded(t)

	// Nothing plotted: the key does nothing
	m, cmd := press(m, keyRunes(KeyClear))
	assert.Nil(t, cmd)

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runOp(t, m, cmd)
	require.True(t, m.State().AnyDisplayed())

	m, cmd = press(m, keyRunes(KeyClear))
	m = runOp(t, m, cmd)

	assert.False(t, m.State().AnyDisplayed())
	assert.Empty(t, c.Names())
}

func TestModel_RangeChangeClearsChart(t *testing.T) {
	m, _, c := loaded(t)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runOp(t, m, cmd)
	require.Len(t, c.Names(), 1)

	m, cmd = press(m, keyRunes(KeyRangeMonth))
	m = runOp(t, m, cmd)

	assert.False(t, m.State().AnyDisplayed())
	assert.Empty(t, c.Names())
}

func TestModel_Selection(t *testing.T) {
	m, _, _ := loaded(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.selected, "stays on the first row")

	m, _ = press(m, keyRunes(KeySelectNextJ))
	m, _ = press(m, keyRunes(KeySelectNextJ))
	assert.Equal(t, 2, m.selected)

	m, _ = press(m, keyRunes(KeySelectPrevK))
	assert.Equal(t, 1, m.selected)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 3, m.selected)
	row, _ := m.SelectedRow()
	assert.Equal(t, telemetry.SensorRelayMonitor, row.Sensor)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, m.selected, "stays on the last row")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.selected)
}

func TestModel_SelectionClampedWhenRowsShrink(t *testing.T) {
	m, src, _ := loaded(t)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnd})

	src.SetRows(summaryRow(telemetry.SensorBox, telemetry.ValueTemp, 20))
	m, cmd := press(m, keyRunes(KeyRefresh))
	m = runOp(t, m, cmd)

	assert.Equal(t, 0, m.selected)
	_, ok := m.SelectedRow()
	assert.True(t, ok)
}

func TestModel_RefreshFailureKeepsRows(t *testing.T) {
	m, src, _ := loaded(t)

	src.SetSummaryFail(errors.Network(fmt.Errorf("connection refused"), "Couldn't load the summary"))
	m, cmd := press(m, keyRunes(KeyRefresh))
	m = runOp(t, m, cmd)

	s := m.State()
	require.Error(t, s.Err)
	assert.True(t, errors.IsNetwork(s.Err))
	assert.Len(t, m.rows, 4, "previous summary stays")
	assert.Equal(t, "Di., 14.11.", s.LastDate)
}

func TestModel_HelpOverlay(t *testing.T) {
	m, src, _ := newTestModel(t)

	m, _ = press(m, keyRunes(KeyToggleHelp))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	// Other keys are swallowed while the overlay is open
	m, cmd := press(m, keyRunes(KeyRefresh))
	assert.Nil(t, cmd)
	assert.Zero(t, src.SummaryCallCount())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)

	m, _ = press(m, keyRunes(KeyToggleHelp))
	m, _ = press(m, keyRunes(KeyToggleHelp))
	assert.False(t, m.showHelp)
}

func TestModel_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{keyRunes(KeyQuit), {Type: tea.KeyCtrlC}} {
		t.Run(msg.String(), func(t *testing.T) {
			m, _, _ := newTestModel(t)
			// Quit works from the help overlay too
			m.showHelp = true

			m, cmd := press(m, msg)
			assert.True(t, m.quitting)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_UnhandledKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	handled, cmd := m.HandleKeyMsg(keyRunes("x"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}

func TestModel_WindowSize(t *testing.T) {
	m, _, _ := loaded(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	require.True(t, m.ready)
	assert.Equal(t, 120, m.body.Width)
	assert.Equal(t, 40-headerHeight-footerHeight, m.body.Height)

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 2})
	m = updated.(Model)
	assert.Equal(t, 60, m.body.Width)
	assert.Equal(t, 1, m.body.Height)
}

func TestModel_StateMsg(t *testing.T) {
	m, _, _ := newTestModel(t)

	s := dashboard.State{Range: 7, Interval: 300, Loading: true, LastDate: dashboard.NoDataPlaceholder}
	updated, cmd := m.Update(stateMsg(s))
	m = updated.(Model)

	assert.True(t, m.State().Loading)
	assert.Equal(t, 7, m.State().Range)
	assert.NotNil(t, cmd, "keeps listening for snapshots")
}

func TestModel_SubscribedToViewModel(t *testing.T) {
	m, _, _ := newTestModel(t)

	// Run the operation without routing opDoneMsg back
	require.IsType(t, opDoneMsg{}, m.refreshCmd(dashboard.RangeWeek)())

	msg := m.feed.next()()
	require.IsType(t, stateMsg{}, msg)
	s := dashboard.State(msg.(stateMsg))
	assert.Equal(t, dashboard.RangeWeek, s.Range)
	assert.False(t, s.Loading, "the newest snapshot is the completed one")
	assert.Len(t, s.Rows, 4)
}

func TestModel_CloseStopsFeed(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Close()

	require.IsType(t, opDoneMsg{}, m.refreshCmd(dashboard.RangeDay)())
	assert.Nil(t, m.feed.next()())
}
