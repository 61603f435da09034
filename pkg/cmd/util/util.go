package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"time"

	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/config"
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/processing/race"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger according to the log flags and makes it
// the default logger.
func SetupLogger(w io.Writer) (*log.Logger, error) {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" {
		filter, err := log.WithFilter(config.LogFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid log filter %q: %w", config.LogFilter, err)
		}
		opts = append(opts, filter)
	}
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(w, ParseLogLevel(config.LogLevel, log.InfoLevel), opts...)
	default:
		logger = log.DevLogger(w, ParseLogLevel(config.LogLevel, log.DebugLevel), opts...)
	}
	log.ResetDefault(logger)
	return logger, nil
}

// SetupTelemetry starts the metric export if enabled.
// The returned func must be called on shutdown.
func SetupTelemetry(ctx context.Context) func() {
	if !config.EnableTelemetry {
		return func() {}
	}
	log.Info("Enabling telemetry", log.String("endpoint", config.TelemetryEndpoint))
	telemetry, err := config.SetupTelemetry(ctx)
	if err != nil {
		log.Warn("Could not setup telemetry", log.ErrorField(err))
		return func() {}
	}
	err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
	if err != nil {
		log.Warn("Could not start runtime metrics", log.ErrorField(err))
	}
	return telemetry.Shutdown
}

func StartProfiling() {
	if config.ProfilingPort <= 0 {
		return
	}
	log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
	go func() {
		//nolint:gosec // by design
		err := http.ListenAndServe(
			fmt.Sprintf("localhost:%d", config.ProfilingPort),
			nil)
		if err != nil {
			log.Error("Profiling server stopped", log.ErrorField(err))
		}
	}()
}

// ReducerOptions converts the command config into reducer options
func ReducerOptions(cfg *config.Config, logger *log.Logger) ([]race.ReducerOption, error) {
	ret := []race.ReducerOption{race.WithLogger(logger.Named("race"))}
	switch cfg.LapMode {
	case "", "distance":
		ret = append(ret, race.WithLapMode(race.LapModeDistance))
	case "sample":
		ret = append(ret, race.WithLapMode(race.LapModeSample))
	default:
		return nil, fmt.Errorf("invalid lap mode %q (distance, sample)", cfg.LapMode)
	}
	return ret, nil
}

// DatasetSummary returns log fields describing ds
func DatasetSummary(ds *model.RaceDataset) []log.Field {
	minT, maxT, _ := ds.TimeSpan()
	return []log.Field{
		log.Int("drivers", len(ds.Drivers)),
		log.Float64("trackLength", ds.Track.Length),
		log.Float64("minT", minT),
		log.Float64("maxT", maxT),
		log.Int("grid", len(ds.Grid)),
	}
}
