package telemetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/growmonitor/growdash/internal/config"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/logger"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
)

// Tag and result names used by the Flux queries.
const (
	influxSensorTag = "sensor"
	resultLast      = "last"
	resultMin       = "min"
	resultMax       = "max"
	resultMean      = "mean"
)

// queryRunner is the subset of api.QueryAPI used here.
type queryRunner interface {
	Query(ctx context.Context, flux string) (*api.QueryTableResult, error)
}

// InfluxSource reads telemetry straight from an InfluxDB 2 bucket, computing
// the summary stats and series averages in Flux. Points are expected to be
// written with a "sensor" tag and one field per value type.
type InfluxSource struct {
	client      influxdb2.Client
	query       queryRunner
	bucket      string
	measurement string
	log         logger.Logger
}

// NewInfluxSource connects to the InfluxDB server in cfg. Call Close when done.
func NewInfluxSource(cfg config.InfluxConfig, log logger.Logger) *InfluxSource {
	if log == nil {
		log = logger.Noop()
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSource{
		client:      client,
		query:       client.QueryAPI(cfg.Org),
		bucket:      cfg.Bucket,
		measurement: cfg.Measurement,
		log:         log,
	}
}

// Close releases the underlying HTTP resources.
func (s *InfluxSource) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// FetchSummary returns last/min/max/mean per sensor and field over the window.
func (s *InfluxSource) FetchSummary(ctx context.Context, hoursBack int) ([]SummaryRow, error) {
	if hoursBack <= 0 {
		return nil, errors.New(errors.ErrInput,
			fmt.Sprintf("Invalid look-back window: %d hours", hoursBack),
			"Pick a range of at least one day")
	}

	flux := SummaryFlux(s.bucket, s.measurement, hoursBack)
	s.log.Debug("flux summary query:\n%s", flux)

	result, err := s.query.Query(ctx, flux)
	if err != nil {
		return nil, errors.Network(err, "InfluxDB summary query failed")
	}
	defer result.Close()

	return collectSummary(result)
}

// FetchSeries returns the field averaged over avgSeconds windows.
func (s *InfluxSource) FetchSeries(ctx context.Context, sensor Sensor, valueType ValueType, hoursBack, avgSeconds int) ([]Point, error) {
	if sensor == "" || valueType == "" {
		return nil, errors.New(errors.ErrInput, "Sensor and value type are required",
			"Name a sensor and a value type, e.g. BME280_BOX TEMP")
	}
	if hoursBack <= 0 || avgSeconds <= 0 {
		return nil, errors.New(errors.ErrInput,
			fmt.Sprintf("Invalid series window: %d hours averaged over %ds", hoursBack, avgSeconds),
			"Pick a range of at least one day")
	}

	flux := SeriesFlux(s.bucket, s.measurement, sensor, valueType, hoursBack, avgSeconds)
	s.log.Debug("flux series query:\n%s", flux)

	result, err := s.query.Query(ctx, flux)
	if err != nil {
		return nil, errors.Network(err, fmt.Sprintf("InfluxDB series query for %s/%s failed", sensor, valueType))
	}
	defer result.Close()

	return collectSeries(result)
}

// SummaryFlux builds the summary query: one yield per statistic.
func SummaryFlux(bucket, measurement string, hoursBack int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "data = from(bucket: %s)\n", fluxString(bucket))
	fmt.Fprintf(&b, "  |> range(start: -%dh)\n", hoursBack)
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r._measurement == %s)\n", fluxString(measurement))
	fmt.Fprintf(&b, "  |> group(columns: [%q, \"_field\"])\n", influxSensorTag)
	fmt.Fprintf(&b, "data |> last() |> yield(name: %q)\n", resultLast)
	fmt.Fprintf(&b, "data |> min() |> yield(name: %q)\n", resultMin)
	fmt.Fprintf(&b, "data |> max() |> yield(name: %q)\n", resultMax)
	fmt.Fprintf(&b, "data |> mean() |> yield(name: %q)\n", resultMean)
	return b.String()
}

// SeriesFlux builds the windowed-average query for one sensor field.
func SeriesFlux(bucket, measurement string, sensor Sensor, valueType ValueType, hoursBack, avgSeconds int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "from(bucket: %s)\n", fluxString(bucket))
	fmt.Fprintf(&b, "  |> range(start: -%dh)\n", hoursBack)
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r._measurement == %s and r.%s == %s and r._field == %s)\n",
		fluxString(measurement), influxSensorTag, fluxString(string(sensor)), fluxString(string(valueType)))
	fmt.Fprintf(&b, "  |> aggregateWindow(every: %ds, fn: mean, createEmpty: false)\n", avgSeconds)
	b.WriteString("  |> keep(columns: [\"_time\", \"_value\"])\n")
	return b.String()
}

// fluxString quotes s as a Flux string literal.
func fluxString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "${", `\${`)
	return `"` + r.Replace(s) + `"`
}

// recordReader is the iteration surface of api.QueryTableResult.
type recordReader interface {
	Next() bool
	Record() *query.FluxRecord
	Err() error
}

func collectSummary(result recordReader) ([]SummaryRow, error) {
	type key struct {
		sensor    Sensor
		valueType ValueType
	}
	byKey := make(map[key]*SummaryRow)
	var order []key

	for result.Next() {
		rec := result.Record()
		sensor, _ := rec.ValueByKey(influxSensorTag).(string)
		field := rec.Field()
		if sensor == "" || field == "" {
			continue
		}

		k := key{Sensor(sensor), ValueType(field)}
		row, ok := byKey[k]
		if !ok {
			row = &SummaryRow{
				Sensor:    k.sensor,
				ValueType: k.valueType,
				Unit:      UnitFor(k.valueType),
				Values:    make(map[string]*float64),
			}
			byKey[k] = row
			order = append(order, k)
		}

		v, err := numericValue(rec.Value())
		if err != nil {
			return nil, errors.Parse(err, fmt.Sprintf("InfluxDB returned a non-numeric %s/%s", sensor, field))
		}

		switch rec.Result() {
		case resultLast:
			row.Values[ValueLast] = v
			if t := rec.Time(); !t.IsZero() {
				row.LastTimestamp = t.Unix()
			}
		case resultMin:
			row.Values[ValueMin] = v
		case resultMax:
			row.Values[ValueMax] = v
		case resultMean:
			row.Values[ValueAvg] = v
		}
	}
	if err := result.Err(); err != nil {
		return nil, errors.Parse(err, "Failed to decode InfluxDB summary result")
	}

	rows := make([]SummaryRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, *byKey[k])
	}
	sortRows(rows)
	return rows, nil
}

func collectSeries(result recordReader) ([]Point, error) {
	var points []Point
	for result.Next() {
		rec := result.Record()
		v, err := numericValue(rec.Value())
		if err != nil {
			return nil, errors.Parse(err, "InfluxDB returned a non-numeric series value")
		}
		points = append(points, Point{Timestamp: rec.Time().UnixMilli(), Value: v})
	}
	if err := result.Err(); err != nil {
		return nil, errors.Parse(err, "Failed to decode InfluxDB series result")
	}
	if points == nil {
		points = []Point{}
	}
	return points, nil
}

// numericValue converts a Flux column value to a nullable float.
func numericValue(v interface{}) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return Float(n), nil
	case int64:
		return Float(float64(n)), nil
	case uint64:
		return Float(float64(n)), nil
	case bool:
		if n {
			return Float(1), nil
		}
		return Float(0), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
