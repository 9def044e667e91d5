package telemetry

import (
	"fmt"

	"github.com/growmonitor/growdash/internal/config"
	"github.com/growmonitor/growdash/internal/errors"
	"github.com/growmonitor/growdash/internal/logger"
)

// Open builds the Source selected by cfg.Source. The returned close function
// is never nil.
func Open(cfg *config.Config, log logger.Logger) (Source, func(), error) {
	if log == nil {
		log = logger.Noop()
	}

	switch cfg.Source {
	case config.SourceHTTP, "":
		log.Debug("using HTTP backend at %s", cfg.Backend.URL)
		return NewClient(cfg.Backend, WithLogger(log)), func() {}, nil
	case config.SourceInflux:
		log.Debug("using InfluxDB at %s (org %s, bucket %s)", cfg.Influx.URL, cfg.Influx.Org, cfg.Influx.Bucket)
		src := NewInfluxSource(cfg.Influx, log)
		return src, src.Close, nil
	default:
		return nil, func() {}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown telemetry source %q", cfg.Source),
			"Set source to \"http\" or \"influx\"")
	}
}
