package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/growmonitor/growdash/internal/config"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/logger"
)

// Client reads telemetry from the HTTP backend. It is safe for concurrent use.
type Client struct {
	http        *resty.Client
	summaryPath string
	seriesPath  string
	log         logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// WithHTTPClient replaces the underlying resty client. Tests use this to
// point at an httptest server with custom transport settings.
func WithHTTPClient(r *resty.Client) ClientOption {
	return func(c *Client) {
		c.http = r
	}
}

// NewClient creates a Client for the backend described by cfg.
func NewClient(cfg config.BackendConfig, opts ...ClientOption) *Client {
	c := &Client{
		http:        resty.New(),
		summaryPath: cfg.SummaryPath,
		seriesPath:  cfg.SeriesPath,
		log:         logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{c.log})
	if cfg.Timeout > 0 {
		c.http.SetTimeout(cfg.Timeout)
	}
	if cfg.Token != "" {
		c.http.SetAuthToken(cfg.Token)
	}
	return c
}

// FetchSummary requests per-sensor stats for the last hoursBack hours.
func (c *Client) FetchSummary(ctx context.Context, hoursBack int) ([]SummaryRow, error) {
	if hoursBack <= 0 {
		return nil, errors.New(errors.ErrInput,
			fmt.Sprintf("Invalid look-back window: %d hours", hoursBack),
			"Pick a range of at least one day")
	}

	c.log.Debug("GET %s hours=%d", c.summaryPath, hoursBack)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("hours", strconv.Itoa(hoursBack)).
		Get(c.summaryPath)
	if err != nil {
		return nil, errors.Network(err, "Summary request failed")
	}
	if err := checkStatus(resp); err != nil {
		return nil, errors.Network(err, "Summary request failed")
	}

	rows, err := ParseSummary(resp.Body())
	if err != nil {
		return nil, err
	}
	c.log.Debug("summary: %d rows in %s", len(rows), resp.Time())
	return rows, nil
}

// FetchSeries requests averaged plot values for one sensor/value type.
func (c *Client) FetchSeries(ctx context.Context, sensor Sensor, valueType ValueType, hoursBack, avgSeconds int) ([]Point, error) {
	if sensor == "" || valueType == "" {
		return nil, errors.New(errors.ErrInput, "Sensor and value type are required",
			"Name a sensor and a value type, e.g. BME280_BOX TEMP")
	}
	if hoursBack <= 0 || avgSeconds <= 0 {
		return nil, errors.New(errors.ErrInput,
			fmt.Sprintf("Invalid series window: %d hours averaged over %ds", hoursBack, avgSeconds),
			"Pick a range of at least one day")
	}

	c.log.Debug("GET %s sensor=%s valuetype=%s hours=%d avg_over=%d",
		c.seriesPath, sensor, valueType, hoursBack, avgSeconds)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sensor":    string(sensor),
			"valuetype": string(valueType),
			"hours":     strconv.Itoa(hoursBack),
			"avg_over":  strconv.Itoa(avgSeconds),
		}).
		Get(c.seriesPath)
	if err != nil {
		return nil, errors.Network(err, fmt.Sprintf("Series request for %s/%s failed", sensor, valueType))
	}
	if err := checkStatus(resp); err != nil {
		return nil, errors.Network(err, fmt.Sprintf("Series request for %s/%s failed", sensor, valueType))
	}

	points, err := ParseSeries(resp.Body())
	if err != nil {
		return nil, err
	}
	c.log.Debug("series %s/%s: %d points in %s", sensor, valueType, len(points), resp.Time())
	return points, nil
}

func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code < 200 || code > 299 {
		return fmt.Errorf("%s %s returned %s", resp.Request.Method, resp.Request.URL, resp.Status())
	}
	return nil
}

// restyLogger routes resty's internal warnings through our logger.
type restyLogger struct {
	log logger.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Debug("resty: "+format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Debug("resty: "+format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug("resty: "+format, v...) }
