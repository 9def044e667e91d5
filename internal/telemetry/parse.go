package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/growmonitor/growdash/internal/errors"
)

// ParseSummary decodes a summary response: a JSON array of objects, each
// carrying at least SENSOR, VALUETYPE and LAST_TIMESTAMP. Units are attached
// from the static unit table.
func ParseSummary(body []byte) ([]SummaryRow, error) {
	if !isJSONArray(body) {
		return nil, errors.Parse(fmt.Errorf("body does not start with '['"), "Summary response is not a JSON array")
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Parse(err, "Summary response is not a JSON array of objects")
	}

	rows := make([]SummaryRow, 0, len(raw))
	for i, obj := range raw {
		row, err := parseSummaryRow(obj)
		if err != nil {
			return nil, errors.Parse(err, fmt.Sprintf("Summary row %d is malformed", i))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseSummaryRow(obj map[string]json.RawMessage) (SummaryRow, error) {
	if obj == nil {
		return SummaryRow{}, fmt.Errorf("row is not an object")
	}

	var row SummaryRow
	var sensor, valueType string
	if err := requireField(obj, FieldSensor, &sensor); err != nil {
		return row, err
	}
	if err := requireField(obj, FieldValueType, &valueType); err != nil {
		return row, err
	}
	var ts float64
	if err := requireField(obj, FieldLastTimestamp, &ts); err != nil {
		return row, err
	}

	row.Sensor = Sensor(sensor)
	row.ValueType = ValueType(valueType)
	lastTs, err := toTimestamp(FieldLastTimestamp, ts)
	if err != nil {
		return row, err
	}
	row.LastTimestamp = lastTs
	row.Unit = UnitFor(row.ValueType)
	row.Values = make(map[string]*float64)

	for name, rawVal := range obj {
		switch name {
		case FieldSensor, FieldValueType, FieldLastTimestamp, FieldUnit:
			continue
		}
		var v *float64
		// Non-numeric extras are opaque to the dashboard
		if err := json.Unmarshal(rawVal, &v); err != nil {
			continue
		}
		row.Values[name] = v
	}

	return row, nil
}

func requireField(obj map[string]json.RawMessage, name string, dst interface{}) error {
	raw, ok := obj[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("missing field %s", name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %s has the wrong type: %w", name, err)
	}
	return nil
}

// ParseSeries decodes a series response: a JSON array of [timestamp, value]
// pairs. A null value is kept as a gap; a null timestamp is an error.
func ParseSeries(body []byte) ([]Point, error) {
	if !isJSONArray(body) {
		return nil, errors.Parse(fmt.Errorf("body does not start with '['"), "Series response is not a JSON array")
	}

	var raw [][]*float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Parse(err, "Series response is not an array of [timestamp, value] pairs")
	}

	points := make([]Point, 0, len(raw))
	for i, pair := range raw {
		if len(pair) != 2 || pair[0] == nil {
			return nil, errors.Parse(fmt.Errorf("expected [timestamp, value], got %d elements", len(pair)),
				fmt.Sprintf("Series point %d is malformed", i))
		}
		ts, err := toTimestamp("timestamp", *pair[0])
		if err != nil {
			return nil, errors.Parse(err, fmt.Sprintf("Series point %d is malformed", i))
		}
		points = append(points, Point{Timestamp: ts, Value: pair[1]})
	}
	return points, nil
}

// toTimestamp rounds a decoded JSON number to int64, rejecting values the
// conversion would wrap.
func toTimestamp(field string, v float64) (int64, error) {
	r := math.Round(v)
	if r < math.MinInt64 || r >= math.MaxInt64 {
		return 0, fmt.Errorf("field %s is out of range: %g", field, v)
	}
	return int64(r), nil
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// sortRows orders rows by sensor, then value type.
func sortRows(rows []SummaryRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sensor != rows[j].Sensor {
			return rows[i].Sensor < rows[j].Sensor
		}
		return rows[i].ValueType < rows[j].ValueType
	})
}
