package dashboard

import (
	"strings"

	"github.com/growmonitor/growdash/internal/chart"
	"github.com/growmonitor/growdash/internal/telemetry"
)

// SeriesKey identifies one plottable line. Both parts are upper case.
type SeriesKey struct {
	Sensor    telemetry.Sensor
	ValueType telemetry.ValueType
}

// NewSeriesKey normalizes sensor and value type. ok is false when either is
// empty after trimming.
func NewSeriesKey(sensor, valueType string) (key SeriesKey, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(sensor))
	v := strings.ToUpper(strings.TrimSpace(valueType))
	if s == "" || v == "" {
		return SeriesKey{}, false
	}
	return SeriesKey{Sensor: telemetry.Sensor(s), ValueType: telemetry.ValueType(v)}, true
}

// String returns the chart series name, e.g. "bme280_box_temp".
func (k SeriesKey) String() string {
	return strings.ToLower(string(k.Sensor)) + "_" + strings.ToLower(string(k.ValueType))
}

// Axis returns the chart axis the series is plotted against.
func (k SeriesKey) Axis() chart.Axis {
	if k.ValueType == telemetry.ValueHumidity {
		return chart.AxisHum
	}
	return chart.AxisTemp
}

// Label is the human readable series name shown in legends.
func (k SeriesKey) Label() string {
	return string(k.Sensor) + " " + string(k.ValueType)
}
