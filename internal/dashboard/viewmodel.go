package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/growmonitor/growdash/internal/chart"
	"github.com/growmonitor/growdash/internal/logger"
	"github.com/growmonitor/growdash/internal/telemetry"
)

// ViewModel orchestrates range selection, summary refreshes and the plotted
// series. At most one gated operation runs at a time; calls arriving while one
// is in flight are dropped.
type ViewModel struct {
	source   telemetry.Source
	chart    Chart
	registry *Registry
	gate     busyGate
	log      logger.Logger
	loc      *time.Location

	mu       sync.RWMutex
	days     int
	rows     []telemetry.SummaryRow
	lastDate string
	lastTime string
	err      error

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(vm *ViewModel) {
		vm.log = l
	}
}

// WithLocation sets the time zone for the last-reading display.
func WithLocation(loc *time.Location) Option {
	return func(vm *ViewModel) {
		vm.loc = loc
	}
}

// WithRange sets the range reported before the first refresh.
func WithRange(days int) Option {
	return func(vm *ViewModel) {
		if days >= 1 {
			vm.days = days
		}
	}
}

// NewViewModel creates a view model reading from source and drawing onto c.
// A nil chart is replaced by one that draws nothing.
func NewViewModel(source telemetry.Source, c Chart, opts ...Option) *ViewModel {
	if c == nil {
		c = nopChart{}
	}
	vm := &ViewModel{
		source:   source,
		chart:    c,
		log:      logger.Noop(),
		loc:      time.Local,
		days:     RangeDay,
		lastDate: NoDataPlaceholder,
		subs:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.registry = NewRegistry(c)
	vm.registry.OnChange(vm.notify)
	return vm
}

// Refresh selects a new range: it drops every plotted series, records the
// range and reloads the summary. days below 1 select one day. While another
// operation is in flight the call does nothing and returns nil. On failure
// the previous summary stays and the error is returned and recorded.
func (vm *ViewModel) Refresh(ctx context.Context, days int) error {
	if days < 1 {
		days = 1
	}
	if !vm.gate.TryAcquire() {
		vm.log.Debug("refresh(%d) dropped: busy", days)
		return nil
	}
	defer vm.release()

	vm.registry.Clear()
	vm.chart.Redraw()

	vm.mu.Lock()
	vm.days = days
	vm.err = nil
	vm.mu.Unlock()
	vm.notify()

	vm.log.Debug("refresh: %d days", days)
	rows, err := vm.source.FetchSummary(ctx, HoursBack(days))
	if err != nil {
		vm.fail("refresh", err)
		return err
	}

	date, clock := FormatLastReading(rows, vm.loc)

	vm.mu.Lock()
	vm.rows = rows
	vm.lastDate = date
	vm.lastTime = clock
	vm.mu.Unlock()

	vm.log.Debug("refresh: %d rows, last reading %s %s", len(rows), date, clock)
	return nil
}

// AddToChart toggles the series for sensor/valueType. Adding fetches the
// series at the current range's interval; removing never fetches. Empty
// arguments or a busy view model make the call a no-op.
func (vm *ViewModel) AddToChart(ctx context.Context, sensor, valueType string) error {
	key, ok := NewSeriesKey(sensor, valueType)
	if !ok {
		vm.log.Debug("toggle %q/%q ignored: missing sensor or value type", sensor, valueType)
		return nil
	}
	if !vm.gate.TryAcquire() {
		vm.log.Debug("toggle %s dropped: busy", key)
		return nil
	}
	defer vm.release()

	vm.mu.Lock()
	days := vm.days
	vm.err = nil
	vm.mu.Unlock()
	vm.notify()

	interval := IntervalFor(days)

	if vm.registry.Has(key) {
		vm.registry.Toggle(key, nil, interval)
		vm.log.Debug("toggle %s: removed", key)
	} else {
		points, err := vm.source.FetchSeries(ctx, key.Sensor, key.ValueType, HoursBack(days), interval)
		if err != nil {
			vm.fail("toggle "+key.String(), err)
			return err
		}
		vm.registry.Toggle(key, points, interval)
		vm.log.Debug("toggle %s: added %d points at %ds", key, len(points), interval)
	}

	vm.chart.Redraw()
	return nil
}

// ClearChart removes every plotted series. It reports false when the call
// was dropped because another operation is in flight.
func (vm *ViewModel) ClearChart() bool {
	if !vm.gate.TryAcquire() {
		vm.log.Debug("clear dropped: busy")
		return false
	}
	defer vm.release()

	vm.registry.Clear()
	vm.chart.Redraw()
	return true
}

// IsDisplayed reports whether the series is plotted, or with both arguments
// empty whether anything is.
func (vm *ViewModel) IsDisplayed(sensor, valueType string) bool {
	return vm.registry.IsDisplayed(sensor, valueType)
}

// Series returns the plotted series for sensor/valueType.
func (vm *ViewModel) Series(sensor, valueType string) (PlottedSeries, bool) {
	key, ok := NewSeriesKey(sensor, valueType)
	if !ok {
		return PlottedSeries{}, false
	}
	return vm.registry.Get(key)
}

// Loading reports whether an operation is in flight.
func (vm *ViewModel) Loading() bool {
	return vm.gate.Busy()
}

// State returns a snapshot of the observable state.
func (vm *ViewModel) State() State {
	vm.mu.RLock()
	s := State{
		Range:    vm.days,
		Interval: IntervalFor(vm.days),
		LastDate: vm.lastDate,
		LastTime: vm.lastTime,
		Rows:     vm.rows,
		Err:      vm.err,
	}
	vm.mu.RUnlock()

	s.Box = Buckets[0].Filter(s.Rows)
	s.Room = Buckets[1].Filter(s.Rows)
	s.Relay = Buckets[2].Filter(s.Rows)
	s.Displayed = vm.registry.Keys()
	s.Loading = vm.gate.Busy()
	return s
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs synchronously on the goroutine that made the change and must not
// call back into gated operations. The returned function unsubscribes.
func (vm *ViewModel) Subscribe(fn func(State)) (unsubscribe func()) {
	vm.subMu.Lock()
	id := vm.nextSub
	vm.nextSub++
	vm.subs[id] = fn
	vm.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			vm.subMu.Lock()
			delete(vm.subs, id)
			vm.subMu.Unlock()
		})
	}
}

func (vm *ViewModel) notify() {
	vm.subMu.Lock()
	if len(vm.subs) == 0 {
		vm.subMu.Unlock()
		return
	}
	ids := make([]int, 0, len(vm.subs))
	for id := range vm.subs {
		ids = append(ids, id)
	}
	fns := make([]func(State), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, vm.subs[id])
	}
	vm.subMu.Unlock()

	s := vm.State()
	for _, fn := range fns {
		fn(s)
	}
}

func (vm *ViewModel) release() {
	vm.gate.Release()
	vm.notify()
}

func (vm *ViewModel) fail(op string, err error) {
	vm.mu.Lock()
	vm.err = err
	vm.mu.Unlock()
	vm.log.Debug("%s failed: %v", op, err)
}

// nopChart draws nothing. Used when the caller only needs the summary.
type nopChart struct{}

func (nopChart) AddSeries(chart.SeriesConfig) chart.Handle { return nopHandle{} }
func (nopChart) Redraw()                                   {}

type nopHandle struct{}

func (nopHandle) Remove() {}
