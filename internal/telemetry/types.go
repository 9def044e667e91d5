package telemetry

import (
	"context"
	"encoding/json"
	"strconv"
)

// Sensor identifies a physical measurement source.
type Sensor string

// Known sensors. Unknown sensors returned by a backend are carried through.
const (
	SensorBox          Sensor = "BME280_BOX"
	SensorRoom         Sensor = "BME280_RAUM"
	SensorRelayMonitor Sensor = "RELAYMONITOR"
)

// ValueType identifies the measured quantity of a sensor.
type ValueType string

// Known value types.
const (
	ValueTemp     ValueType = "TEMP"
	ValueHumidity ValueType = "HUM"
	ValueDewPoint ValueType = "DEWP"
	ValuePressure ValueType = "PRES"
	ValueCH1      ValueType = "CH1"
	ValueCH2      ValueType = "CH2"
	ValueCH3      ValueType = "CH3"
	ValueCH4      ValueType = "CH4"
)

// units maps value types to their display unit.
var units = map[ValueType]string{
	ValueDewPoint: "°C",
	ValueTemp:     "°C",
	ValueHumidity: "%",
	ValuePressure: "hPa",
}

// UnitFor returns the display unit of a value type, or "" if it has none.
func UnitFor(vt ValueType) string {
	return units[vt]
}

// Wire field names of a summary row.
const (
	FieldSensor        = "SENSOR"
	FieldValueType     = "VALUETYPE"
	FieldLastTimestamp = "LAST_TIMESTAMP"
	FieldUnit          = "UNIT"
)

// Value names produced by sources that compute stats themselves.
const (
	ValueLast = "LAST_VALUE"
	ValueMin  = "MIN_VALUE"
	ValueMax  = "MAX_VALUE"
	ValueAvg  = "AVG_VALUE"
)

// SummaryRow is one (sensor, value type) entry of the summary query.
// Rows are immutable once fetched.
type SummaryRow struct {
	Sensor        Sensor
	ValueType     ValueType
	LastTimestamp int64 // unix seconds
	Unit          string

	// Values holds every other numeric field of the row. A nil entry was
	// null on the wire.
	Values map[string]*float64
}

// Value returns a named numeric field.
func (r SummaryRow) Value(name string) (*float64, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// MarshalJSON writes the row in the wire shape, with UNIT added.
func (r SummaryRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Values)+4)
	for name, v := range r.Values {
		out[name] = v
	}
	out[FieldSensor] = r.Sensor
	out[FieldValueType] = r.ValueType
	out[FieldLastTimestamp] = r.LastTimestamp
	if r.Unit != "" {
		out[FieldUnit] = r.Unit
	}
	return json.Marshal(out)
}

// Point is one plotted sample. Timestamp is unix milliseconds as delivered
// by the source; a nil Value is a gap.
type Point struct {
	Timestamp int64
	Value     *float64
}

// MarshalJSON writes the point as a [timestamp, value] pair.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.Timestamp, p.Value})
}

// Source is implemented by every telemetry backend.
type Source interface {
	FetchSummary(ctx context.Context, hoursBack int) ([]SummaryRow, error)
	FetchSeries(ctx context.Context, sensor Sensor, valueType ValueType, hoursBack, avgSeconds int) ([]Point, error)
}

// FormatValue renders a nullable reading with one decimal, "N/A" when
// missing. The summary table and the monitor panel both use it.
func FormatValue(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

// Float returns a pointer to v. Handy for building rows and points.
func Float(v float64) *float64 {
	return &v
}
