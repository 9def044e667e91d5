// Package chart draws sensor time series as braille line graphs in the
// terminal. It implements the chart collaborator the dashboard drives:
// series are added and removed freely, and nothing becomes visible until
// Redraw takes a new frame.
package chart

import (
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/growmonitor/growdash/internal/telemetry"
)

// Axis names the y axis a series is plotted against.
type Axis string

// Known axes. Humidity gets its own; every other value type shares temp.
const (
	AxisTemp Axis = "temp"
	AxisHum  Axis = "hum"
)

// SeriesConfig describes one line.
type SeriesConfig struct {
	Name   string // stable identifier, e.g. "bme280_box_temp"
	Label  string
	Axis   Axis
	Unit   string
	Points []telemetry.Point
}

// Handle removes a series it was returned for.
type Handle interface {
	Remove()
}

// seriesPalette cycles through line colors in the order series are added.
var seriesPalette = []lipgloss.Color{
	"#00FFFF", // cyan
	"#FF2E97", // pink
	"#39FF14", // green
	"#FFAA00", // amber
	"#BF40FF", // purple
	"#4D9DFF", // blue
}

type series struct {
	id    int
	cfg   SeriesConfig
	color lipgloss.Color
}

// Terminal is an in-memory chart rendered to a string by View.
// It is safe for concurrent use.
type Terminal struct {
	mu      sync.Mutex
	live    []*series
	frame   []*series
	nextID  int
	redraws int
	height  int
	loc     *time.Location
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithHeight sets the rows per axis panel.
func WithHeight(rows int) Option {
	return func(t *Terminal) {
		if rows > 0 {
			t.height = rows
		}
	}
}

// WithLocation sets the zone for time labels.
func WithLocation(loc *time.Location) Option {
	return func(t *Terminal) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// NewTerminal creates an empty chart.
func NewTerminal(opts ...Option) *Terminal {
	t := &Terminal{
		height: 6,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddSeries adds a line. It is not shown until the next Redraw.
func (t *Terminal) AddSeries(cfg SeriesConfig) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := &series{
		id:    t.nextID,
		cfg:   cfg,
		color: seriesPalette[t.nextID%len(seriesPalette)],
	}
	t.nextID++
	t.live = append(t.live, s)
	return &handle{chart: t, id: s.id}
}

// Redraw makes the current set of series visible.
func (t *Terminal) Redraw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = append([]*series(nil), t.live...)
	t.redraws++
}

// Redraws returns how often Redraw was called.
func (t *Terminal) Redraws() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.redraws
}

// Names returns the names of the series in the current frame, in the order
// they were added.
func (t *Terminal) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.frame))
	for _, s := range t.frame {
		names = append(names, s.cfg.Name)
	}
	return names
}

// Len returns the number of series added and not removed, drawn or not.
func (t *Terminal) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

func (t *Terminal) remove(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.live {
		if s.id == id {
			t.live = append(t.live[:i], t.live[i+1:]...)
			return
		}
	}
}

type handle struct {
	chart *Terminal
	id    int
	once  sync.Once
}

// Remove drops the series. Calling it again does nothing.
func (h *handle) Remove() {
	h.once.Do(func() {
		h.chart.remove(h.id)
	})
}
