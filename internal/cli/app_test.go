package cli

import (
	"bytes"
	"io"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/growmonitor/growdash/internal/config"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/logger"
	"github.com/growmonitor/growdash/internal/telemetry"
	telemetrytest "github.com/growmonitor/growdash/internal/telemetry/testing"
	"github.com/growmonitor/growdash/internal/ui"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Tue 2023-11-14 22:13:20 UTC
const sampleTimestamp = 1700000000

func summaryRow(sensor telemetry.Sensor, vt telemetry.ValueType, last, lo, hi, avg float64) telemetry.SummaryRow {
	return telemetry.SummaryRow{
		Sensor:        sensor,
		ValueType:     vt,
		LastTimestamp: sampleTimestamp,
		Unit:          telemetry.UnitFor(vt),
		Values: map[string]*float64{
			telemetry.ValueLast: telemetry.Float(last),
			telemetry.ValueMin:  telemetry.Float(lo),
			telemetry.ValueMax:  telemetry.Float(hi),
			telemetry.ValueAvg:  telemetry.Float(avg),
		},
	}
}

// useTestApp points the commands at a config file in a temp dir and at src.
// It returns the config file path.
func useTestApp(t *testing.T, src telemetry.Source, mutate func(*config.Config)) string {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Dashboard.Timezone = "UTC"
	if mutate != nil {
		mutate(cfg)
	}
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, config.Save(path, cfg))

	origOpen, origCfgFile, origMachine := openSource, cfgFile, machineMode
	t.Cleanup(func() {
		openSource, cfgFile, machineMode = origOpen, origCfgFile, origMachine
	})

	cfgFile = path
	machineMode = false
	openSource = func(*config.Config, logger.Logger) (telemetry.Source, func(), error) {
		return src, func() {}, nil
	}
	return path
}

func TestLoadApp(t *testing.T) {
	src := telemetrytest.NewFakeSource()
	useTestApp(t, src, func(cfg *config.Config) {
		cfg.Dashboard.Range = 7
	})

	a, err := loadApp()
	require.NoError(t, err)
	defer a.close()

	assert.Same(t, src, a.source)
	assert.Equal(t, "UTC", a.loc.String())
	assert.Equal(t, 7, a.cfg.Dashboard.Range)
}

func TestLoadApp_InvalidConfig(t *testing.T) {
	useTestApp(t, telemetrytest.NewFakeSource(), func(cfg *config.Config) {
		cfg.Source = "carrier-pigeon"
	})

	_, err := loadApp()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadApp_MissingConfigFile(t *testing.T) {
	useTestApp(t, telemetrytest.NewFakeSource(), nil)
	cfgFile = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := loadApp()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadApp_SourceError(t *testing.T) {
	useTestApp(t, telemetrytest.NewFakeSource(), nil)
	openSource = func(*config.Config, logger.Logger) (telemetry.Source, func(), error) {
		return nil, func() {}, errors.New(errors.ErrConfig, "no source", "")
	}

	_, err := loadApp()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source")
}

func TestApp_RangeDays(t *testing.T) {
	a := &app{cfg: config.DefaultConfig()}
	a.cfg.Dashboard.Range = 30

	tests := []struct {
		name    string
		flag    int
		want    int
		wantErr bool
	}{
		{"unset uses config", 0, 30, false},
		{"flag wins", 7, 7, false},
		{"odd range passes through", 3, 3, false},
		{"negative rejected", -1, 0, true},
		{"limit accepted", config.MaxRange, config.MaxRange, false},
		{"beyond limit rejected", config.MaxRange + 1, 0, true},
		{"overflowing range rejected", math.MaxInt, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.rangeDays(tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApp_NewViewModel(t *testing.T) {
	useTestApp(t, telemetrytest.NewFakeSource(), nil)

	a, err := loadApp()
	require.NoError(t, err)
	defer a.close()

	vm := a.newViewModel(nil, 7)
	state := vm.State()
	assert.Equal(t, 7, state.Range)
	assert.False(t, state.Loading)
}

// lockedBuffer collects spinner frames drawn from another goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// useSpinnerOutput makes spinners visible and returns what they draw.
func useSpinnerOutput(t *testing.T) *lockedBuffer {
	t.Helper()
	out := &lockedBuffer{}
	orig := spinnerOutput
	t.Cleanup(func() { spinnerOutput = orig })
	spinnerOutput = func() io.Writer { return out }
	return out
}

func TestWithSpinner_Hidden(t *testing.T) {
	tests := []struct {
		name    string
		fnErr   error
		wantErr bool
	}{
		{"success", nil, false},
		{"failure", errors.New(errors.ErrNetwork, "down", ""), true},
		{"skip reports success", ui.ErrSkip, false},
	}

	orig := spinnerOutput
	t.Cleanup(func() { spinnerOutput = orig })
	spinnerOutput = func() io.Writer { return nil }

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withSpinner("working", func(setLabel func(string)) error {
				calls++
				setLabel("still working")
				return tt.fnErr
			})
			assert.Equal(t, 1, calls)
			if tt.wantErr {
				assert.Same(t, tt.fnErr, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWithSpinner_Visible(t *testing.T) {
	out := useSpinnerOutput(t)

	require.NoError(t, withSpinner("Loading 24h summary", func(func(string)) error { return ui.ErrSkip }))
	assert.Contains(t, out.String(), ui.SymbolSkipped+" Loading 24h summary")

	want := errors.New(errors.ErrNetwork, "down", "")
	err := withSpinner("Loading 7d summary", func(func(string)) error { return want })
	assert.Same(t, want, err)
	assert.Contains(t, out.String(), ui.SymbolFail+" Loading 7d summary")
}

func TestApp_DescribeSource(t *testing.T) {
	cfg := config.DefaultConfig()
	a := &app{cfg: cfg}
	assert.Equal(t, cfg.Backend.URL, a.describeSource())

	cfg.Source = config.SourceInflux
	cfg.Influx.Bucket = "growbox"
	assert.Equal(t, "InfluxDB http://localhost:8086, bucket growbox", a.describeSource())
}
