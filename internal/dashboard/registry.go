package dashboard

import (
	"sort"
	"sync"

	"github.com/growmonitor/growdash/internal/chart"
	"github.com/growmonitor/growdash/internal/telemetry"
)

// Chart is the charting collaborator. AddSeries must not redraw; callers
// batch mutations and call Redraw once.
type Chart interface {
	AddSeries(cfg chart.SeriesConfig) chart.Handle
	Redraw()
}

// PlottedSeries is one line currently on the chart. Never mutated in place.
type PlottedSeries struct {
	Key               SeriesKey
	Points            []telemetry.Point
	AveragingInterval int // seconds
}

type registryEntry struct {
	series PlottedSeries
	handle chart.Handle
}

// Registry owns the mapping of SeriesKey to PlottedSeries and the chart
// handle backing each entry. A handle lives exactly as long as its entry.
type Registry struct {
	mu       sync.RWMutex
	chart    Chart
	entries  map[SeriesKey]registryEntry
	onChange func()
}

// NewRegistry creates an empty registry drawing onto c.
func NewRegistry(c Chart) *Registry {
	return &Registry{
		chart:   c,
		entries: make(map[SeriesKey]registryEntry),
	}
}

// OnChange registers fn to be called after every mutation, outside the lock.
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Toggle adds the series when absent and removes it when present. It reports
// whether the series was added. points are ignored on removal.
func (r *Registry) Toggle(key SeriesKey, points []telemetry.Point, interval int) (added bool) {
	r.mu.Lock()
	if e, ok := r.entries[key]; ok {
		delete(r.entries, key)
		if e.handle != nil {
			e.handle.Remove()
		}
	} else {
		series := PlottedSeries{Key: key, Points: points, AveragingInterval: interval}
		handle := r.chart.AddSeries(chart.SeriesConfig{
			Name:   key.String(),
			Label:  key.Label(),
			Axis:   key.Axis(),
			Unit:   telemetry.UnitFor(key.ValueType),
			Points: points,
		})
		r.entries[key] = registryEntry{series: series, handle: handle}
		added = true
	}
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn()
	}
	return added
}

// Clear removes every entry and its chart handle.
func (r *Registry) Clear() {
	r.mu.Lock()
	for key, e := range r.entries {
		if e.handle != nil {
			e.handle.Remove()
		}
		delete(r.entries, key)
	}
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Has reports whether key is plotted.
func (r *Registry) Has(key SeriesKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// IsDisplayed answers the UI predicate. With both arguments empty it reports
// whether anything is plotted; with exactly one empty it reports false.
func (r *Registry) IsDisplayed(sensor, valueType string) bool {
	if sensor == "" && valueType == "" {
		return r.Len() > 0
	}
	key, ok := NewSeriesKey(sensor, valueType)
	if !ok {
		return false
	}
	return r.Has(key)
}

// Get returns the plotted series for key.
func (r *Registry) Get(key SeriesKey) (PlottedSeries, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	return e.series, ok
}

// Keys returns the plotted keys ordered by series name.
func (r *Registry) Keys() []SeriesKey {
	r.mu.RLock()
	keys := make([]SeriesKey, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Len returns the number of plotted series.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
