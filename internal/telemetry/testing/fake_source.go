// Package testing provides test doubles for the telemetry package.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/growmonitor/growdash/internal/telemetry"
)

// SummaryCall records a call to FetchSummary.
type SummaryCall struct {
	HoursBack int
}

// SeriesCall records a call to FetchSeries.
type SeriesCall struct {
	Sensor     telemetry.Sensor
	ValueType  telemetry.ValueType
	HoursBack  int
	AvgSeconds int
}

// FakeSource is an in-memory telemetry.Source with call tracking.
type FakeSource struct {
	mu sync.Mutex

	// Configuration
	Rows           []telemetry.SummaryRow
	Series         map[string][]telemetry.Point // keyed by seriesKey
	SummaryErr     error
	SeriesErr      error
	SimulatedDelay time.Duration

	// Call tracking
	SummaryCalls []SummaryCall
	SeriesCalls  []SeriesCall

	hold    chan struct{}
	entered chan struct{}
}

// NewFakeSource creates a fake source with no data that succeeds by default.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		Series:  make(map[string][]telemetry.Point),
		entered: make(chan struct{}, 64),
	}
}

func seriesKey(sensor telemetry.Sensor, valueType telemetry.ValueType) string {
	return string(sensor) + "/" + string(valueType)
}

// FetchSummary returns the configured rows.
func (f *FakeSource) FetchSummary(ctx context.Context, hoursBack int) ([]telemetry.SummaryRow, error) {
	f.mu.Lock()
	f.SummaryCalls = append(f.SummaryCalls, SummaryCall{HoursBack: hoursBack})
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SummaryErr != nil {
		return nil, f.SummaryErr
	}
	rows := make([]telemetry.SummaryRow, len(f.Rows))
	copy(rows, f.Rows)
	return rows, nil
}

// FetchSeries returns the points configured for the pair, or an empty series.
func (f *FakeSource) FetchSeries(ctx context.Context, sensor telemetry.Sensor, valueType telemetry.ValueType, hoursBack, avgSeconds int) ([]telemetry.Point, error) {
	f.mu.Lock()
	f.SeriesCalls = append(f.SeriesCalls, SeriesCall{
		Sensor:     sensor,
		ValueType:  valueType,
		HoursBack:  hoursBack,
		AvgSeconds: avgSeconds,
	})
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SeriesErr != nil {
		return nil, f.SeriesErr
	}
	points := f.Series[seriesKey(sensor, valueType)]
	out := make([]telemetry.Point, len(points))
	copy(out, points)
	return out, nil
}

// wait signals entry, applies the configured delay, then blocks while held.
func (f *FakeSource) wait(ctx context.Context) error {
	select {
	case f.entered <- struct{}{}:
	default:
	}

	f.mu.Lock()
	delay := f.SimulatedDelay
	hold := f.hold
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if hold == nil {
		return nil
	}
	select {
	case <-hold:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetRows configures the summary response.
func (f *FakeSource) SetRows(rows ...telemetry.SummaryRow) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rows = rows
	return f
}

// SetSeries configures the series response for one pair.
func (f *FakeSource) SetSeries(sensor telemetry.Sensor, valueType telemetry.ValueType, points ...telemetry.Point) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Series[seriesKey(sensor, valueType)] = points
	return f
}

// SetSummaryFail makes FetchSummary return err.
func (f *FakeSource) SetSummaryFail(err error) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SummaryErr = err
	return f
}

// SetSeriesFail makes FetchSeries return err.
func (f *FakeSource) SetSeriesFail(err error) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SeriesErr = err
	return f
}

// SetDelay configures a delay before every fetch returns.
func (f *FakeSource) SetDelay(d time.Duration) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SimulatedDelay = d
	return f
}

// Hold makes every subsequent fetch block until Release is called or its
// context is cancelled.
func (f *FakeSource) Hold() *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = make(chan struct{})
	return f
}

// Release unblocks every fetch waiting on Hold.
func (f *FakeSource) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold != nil {
		close(f.hold)
		f.hold = nil
	}
}

// Entered receives one value each time a fetch starts.
func (f *FakeSource) Entered() <-chan struct{} {
	return f.entered
}

// SummaryCallCount returns the number of FetchSummary calls.
func (f *FakeSource) SummaryCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.SummaryCalls)
}

// SeriesCallCount returns the number of FetchSeries calls.
func (f *FakeSource) SeriesCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.SeriesCalls)
}

// LastSeriesCall returns the most recent FetchSeries call.
func (f *FakeSource) LastSeriesCall() (SeriesCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.SeriesCalls) == 0 {
		return SeriesCall{}, false
	}
	return f.SeriesCalls[len(f.SeriesCalls)-1], true
}

// LastSummaryCall returns the most recent FetchSummary call.
func (f *FakeSource) LastSummaryCall() (SummaryCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.SummaryCalls) == 0 {
		return SummaryCall{}, false
	}
	return f.SummaryCalls[len(f.SummaryCalls)-1], true
}

// Reset clears call tracking and failure configuration.
func (f *FakeSource) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SummaryCalls = nil
	f.SeriesCalls = nil
	f.SummaryErr = nil
	f.SeriesErr = nil
	f.SimulatedDelay = 0
}
