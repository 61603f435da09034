package race

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racereplay/log"
)

// LapMode selects where the lap number of a snapshot comes from.
// Both modes are never mixed within one Reducer.
type LapMode int

const (
	// LapModeDistance derives the lap from the cumulative distance
	LapModeDistance LapMode = iota
	// LapModeSample uses the lap field of the position samples
	LapModeSample
)

const (
	DefaultGridWindow    = 1.0   // seconds after session start
	DefaultGridSpacing   = 8.0   // distance between grid slots
	DefaultTieEpsilon    = 0.5   // distance
	DefaultGapNoise      = 0.01  // seconds
	DefaultSectorEpsilon = 0.001 // seconds
)

type ReducerOption func(r *Reducer)

func WithGridWindow(sec float64) ReducerOption {
	return func(r *Reducer) {
		r.gridWindow = sec
	}
}

func WithGridSpacing(dist float64) ReducerOption {
	return func(r *Reducer) {
		r.gridSpacing = dist
	}
}

func WithTieEpsilon(dist float64) ReducerOption {
	return func(r *Reducer) {
		r.tieEpsilon = dist
	}
}

// WithGapNoise sets the threshold below which gaps are reported as zero
func WithGapNoise(sec float64) ReducerOption {
	return func(r *Reducer) {
		r.gapNoise = sec
	}
}

func WithSectorEpsilon(sec float64) ReducerOption {
	return func(r *Reducer) {
		r.sectorEpsilon = sec
	}
}

func WithLapMode(mode LapMode) ReducerOption {
	return func(r *Reducer) {
		r.lapMode = mode
	}
}

func WithLogger(l *log.Logger) ReducerOption {
	return func(r *Reducer) {
		r.log = l
	}
}

func WithMeter(m metric.Meter) ReducerOption {
	return func(r *Reducer) {
		r.meter = m
	}
}
