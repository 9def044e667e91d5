package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/growmonitor/growdash/internal/config"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordList replays canned Flux records.
type recordList struct {
	records []*query.FluxRecord
	pos     int
	err     error
}

func (l *recordList) Next() bool {
	if l.pos >= len(l.records) {
		return false
	}
	l.pos++
	return true
}

func (l *recordList) Record() *query.FluxRecord { return l.records[l.pos-1] }
func (l *recordList) Err() error                { return l.err }

func record(result, sensor, field string, at time.Time, value interface{}) *query.FluxRecord {
	values := map[string]interface{}{
		"result": result,
		"_field": field,
		"_value": value,
		"sensor": sensor,
	}
	if !at.IsZero() {
		values["_time"] = at
	}
	return query.NewFluxRecord(0, values)
}

func TestSummaryFlux(t *testing.T) {
	flux := SummaryFlux("sensordata", "sensordata", 168)

	assert.Contains(t, flux, `from(bucket: "sensordata")`)
	assert.Contains(t, flux, "range(start: -168h)")
	assert.Contains(t, flux, `r._measurement == "sensordata"`)
	assert.Contains(t, flux, `group(columns: ["sensor", "_field"])`)
	for _, name := range []string{"last", "min", "max", "mean"} {
		assert.Contains(t, flux, `yield(name: "`+name+`")`)
	}
}

func TestSeriesFlux(t *testing.T) {
	flux := SeriesFlux("grow", "bme", SensorBox, ValueTemp, 24, 60)

	assert.Contains(t, flux, `from(bucket: "grow")`)
	assert.Contains(t, flux, "range(start: -24h)")
	assert.Contains(t, flux, `r.sensor == "BME280_BOX" and r._field == "TEMP"`)
	assert.Contains(t, flux, "aggregateWindow(every: 60s, fn: mean, createEmpty: false)")
}

func TestFluxString_Escapes(t *testing.T) {
	assert.Equal(t, `"plain"`, fluxString("plain"))
	assert.Equal(t, `"a\"b"`, fluxString(`a"b`))
	assert.Equal(t, `"c:\\temp"`, fluxString(`c:\temp`))
	assert.Equal(t, `"\${x}"`, fluxString("${x}"))
}

func TestCollectSummary(t *testing.T) {
	last := time.Unix(1700000000, 0).UTC()
	result := &recordList{records: []*query.FluxRecord{
		record("last", "BME280_BOX", "TEMP", last, 23.5),
		record("last", "RELAYMONITOR", "CH2", last.Add(time.Minute), int64(1)),
		record("min", "BME280_BOX", "TEMP", time.Time{}, 18.0),
		record("max", "BME280_BOX", "TEMP", time.Time{}, 27.25),
		record("mean", "BME280_BOX", "TEMP", time.Time{}, nil),
		record("mean", "", "TEMP", time.Time{}, 1.0),
	}}

	rows, err := collectSummary(result)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	box := rows[0]
	assert.Equal(t, SensorBox, box.Sensor)
	assert.Equal(t, int64(1700000000), box.LastTimestamp)
	assert.Equal(t, "°C", box.Unit)
	assert.Equal(t, 23.5, *box.Values[ValueLast])
	assert.Equal(t, 18.0, *box.Values[ValueMin])
	assert.Equal(t, 27.25, *box.Values[ValueMax])
	assert.Contains(t, box.Values, ValueAvg)
	assert.Nil(t, box.Values[ValueAvg])

	relay := rows[1]
	assert.Equal(t, SensorRelayMonitor, relay.Sensor)
	assert.Equal(t, ValueCH2, relay.ValueType)
	assert.Equal(t, 1.0, *relay.Values[ValueLast])
}

func TestCollectSummary_NonNumeric(t *testing.T) {
	result := &recordList{records: []*query.FluxRecord{
		record("last", "BME280_BOX", "TEMP", time.Now(), "warm"),
	}}
	_, err := collectSummary(result)
	assert.True(t, errors.IsParse(err))
}

func TestCollectSeries(t *testing.T) {
	at := time.UnixMilli(1700000000000).UTC()
	result := &recordList{records: []*query.FluxRecord{
		record("_result", "", "", at, 20.0),
		record("_result", "", "", at.Add(5*time.Minute), nil),
		record("_result", "", "", at.Add(10*time.Minute), true),
	}}

	points, err := collectSeries(result)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, int64(1700000000000), points[0].Timestamp)
	assert.Equal(t, int64(1700000300000), points[1].Timestamp)
	assert.Nil(t, points[1].Value)
	assert.Equal(t, 1.0, *points[2].Value)
}

func TestCollectSeries_Empty(t *testing.T) {
	points, err := collectSeries(&recordList{})
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestCollectSeries_ResultError(t *testing.T) {
	_, err := collectSeries(&recordList{err: assert.AnError})
	assert.True(t, errors.IsParse(err))
}

func TestInfluxSource_InvalidInput(t *testing.T) {
	src := NewInfluxSource(config.DefaultConfig().Influx, nil)
	defer src.Close()

	_, err := src.FetchSummary(context.Background(), -1)
	assert.True(t, errors.IsCode(err, errors.ErrInput))

	_, err = src.FetchSeries(context.Background(), SensorBox, "", 24, 60)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
}

func TestOpen(t *testing.T) {
	cfg := config.DefaultConfig()

	src, closeFn, err := Open(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &Client{}, src)
	closeFn()

	cfg.Source = config.SourceInflux
	src, closeFn, err = Open(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &InfluxSource{}, src)
	closeFn()

	cfg.Source = "mqtt"
	_, closeFn, err = Open(cfg, nil)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.NotNil(t, closeFn)
}
