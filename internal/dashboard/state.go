package dashboard

import (
	"fmt"
	"time"

	"github.com/growmonitor/growdash/internal/telemetry"
)

// NoDataPlaceholder is shown as the last-reading date when nothing was returned.
const NoDataPlaceholder = "Keine Werte"

// State is a snapshot of everything the dashboard renders.
type State struct {
	Range    int // days
	Interval int // averaging seconds for the current range
	Loading  bool

	LastDate string
	LastTime string

	// Rows is the full summary of the last successful refresh; Box, Room
	// and Relay are its display buckets.
	Rows  []telemetry.SummaryRow
	Box   []telemetry.SummaryRow
	Room  []telemetry.SummaryRow
	Relay []telemetry.SummaryRow

	Displayed []SeriesKey

	// Err is the failure of the most recent operation, nil after a success.
	Err error
}

// IsDisplayed mirrors Registry.IsDisplayed for the snapshot.
func (s State) IsDisplayed(sensor, valueType string) bool {
	if sensor == "" && valueType == "" {
		return s.AnyDisplayed()
	}
	key, ok := NewSeriesKey(sensor, valueType)
	if !ok {
		return false
	}
	for _, k := range s.Displayed {
		if k == key {
			return true
		}
	}
	return false
}

// AnyDisplayed reports whether at least one series is plotted.
func (s State) AnyDisplayed() bool {
	return len(s.Displayed) > 0
}

// Bucket names a display group of the summary.
type Bucket struct {
	Title  string
	Sensor telemetry.Sensor
	Types  []telemetry.ValueType
}

// Buckets are the three groups the summary is partitioned into.
var Buckets = []Bucket{
	{
		Title:  "Box",
		Sensor: telemetry.SensorBox,
		Types:  []telemetry.ValueType{telemetry.ValueTemp, telemetry.ValueHumidity, telemetry.ValueDewPoint},
	},
	{
		Title:  "Raum",
		Sensor: telemetry.SensorRoom,
		Types:  []telemetry.ValueType{telemetry.ValueTemp, telemetry.ValueHumidity, telemetry.ValueDewPoint},
	},
	{
		Title:  "Relais",
		Sensor: telemetry.SensorRelayMonitor,
		Types:  []telemetry.ValueType{telemetry.ValueCH1, telemetry.ValueCH2, telemetry.ValueCH3, telemetry.ValueCH4},
	},
}

// Filter returns the rows belonging to the bucket, in their original order.
func (b Bucket) Filter(rows []telemetry.SummaryRow) []telemetry.SummaryRow {
	out := make([]telemetry.SummaryRow, 0, len(b.Types))
	for _, row := range rows {
		if row.Sensor != b.Sensor {
			continue
		}
		for _, vt := range b.Types {
			if row.ValueType == vt {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// BucketRows returns the rows of bucket i of Buckets.
func (s State) BucketRows(i int) []telemetry.SummaryRow {
	switch i {
	case 0:
		return s.Box
	case 1:
		return s.Room
	case 2:
		return s.Relay
	}
	return nil
}

var germanWeekdays = [...]string{"So.", "Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa."}

// FormatLastReading renders the newest LastTimestamp of rows as a German
// short date ("Di., 14.11.") and an H:MM time in loc. Empty rows yield the
// placeholder and an empty time.
func FormatLastReading(rows []telemetry.SummaryRow, loc *time.Location) (date, clock string) {
	if len(rows) == 0 {
		return NoDataPlaceholder, ""
	}
	if loc == nil {
		loc = time.Local
	}

	latest := rows[0].LastTimestamp
	for _, row := range rows[1:] {
		if row.LastTimestamp > latest {
			latest = row.LastTimestamp
		}
	}

	t := time.Unix(latest, 0).In(loc)
	date = fmt.Sprintf("%s, %d.%d.", germanWeekdays[t.Weekday()], t.Day(), int(t.Month()))
	clock = fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
	return date, clock
}
