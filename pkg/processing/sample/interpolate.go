// Package sample provides interpolation over time ordered sample sequences
// and the inverse lookup of time by distance.
//
// All functions expect the samples to be sorted ascending by time.
// This is not validated here (see loader.Check).
package sample

import (
	"sort"

	"github.com/mpapenbr/racereplay/pkg/model"
)

// Span describes the position of a query time within a sample sequence.
// I0 == I1 if the query time was clamped to one of the boundaries.
type Span struct {
	I0, I1 int
	Ratio  float64 // in [0,1), weight of I1
}

// Bracket locates the pair (p0,p1) with p0.t <= t < p1.t using binary search.
// Query times outside the sequence are clamped to the first/last sample.
// ok is false for an empty sequence.
func Bracket(n int, timeAt func(i int) float64, t float64) (span Span, ok bool) {
	if n == 0 {
		return Span{}, false
	}
	if t <= timeAt(0) {
		return Span{}, true
	}
	if t >= timeAt(n-1) {
		return Span{I0: n - 1, I1: n - 1}, true
	}
	// first index with time > t, guaranteed to be within [1,n-1]
	idx := sort.Search(n, func(i int) bool { return timeAt(i) > t })
	span = Span{I0: idx - 1, I1: idx}
	t0 := timeAt(span.I0)
	dt := timeAt(span.I1) - t0
	if dt <= 0 {
		return span, true
	}
	span.Ratio = (t - t0) / dt
	return span, true
}

func Lerp(a, b, ratio float64) float64 {
	return a + (b-a)*ratio
}

// Nearest picks the value of the nearer endpoint. Used for discrete channels.
func Nearest[T any](a, b T, ratio float64) T {
	if ratio < 0.5 {
		return a
	}
	return b
}

// Position returns the interpolated distance and the lap at time t.
// The lap is a step function and is taken from the earlier sample.
func Position(samples []model.PositionSample, t float64) (s float64, lap int, ok bool) {
	span, ok := Bracket(len(samples), func(i int) float64 { return samples[i].T }, t)
	if !ok {
		return 0, 0, false
	}
	p0 := samples[span.I0]
	if span.I0 == span.I1 || span.Ratio == 0 {
		return p0.S, p0.Lap, true
	}
	return Lerp(p0.S, samples[span.I1].S, span.Ratio), p0.Lap, true
}

// LinearPosition does the same as Position but scans the samples linearly.
// It serves as reference for Position.
func LinearPosition(samples []model.PositionSample, t float64) (s float64, lap int, ok bool) {
	n := len(samples)
	if n == 0 {
		return 0, 0, false
	}
	if t <= samples[0].T {
		return samples[0].S, samples[0].Lap, true
	}
	if t >= samples[n-1].T {
		return samples[n-1].S, samples[n-1].Lap, true
	}
	for i := 0; i < n-1; i++ {
		p0, p1 := samples[i], samples[i+1]
		if p0.T <= t && t < p1.T {
			dt := p1.T - p0.T
			if dt <= 0 {
				return p0.S, p0.Lap, true
			}
			return p0.S + (p1.S-p0.S)*(t-p0.T)/dt, p0.Lap, true
		}
	}
	return samples[n-1].S, samples[n-1].Lap, true
}

// Telemetry interpolates the auxiliary channels at time t.
// Speed, RPM and Throttle are blended, Gear, Brake and DRS are not.
func Telemetry(samples []model.TelemetrySample, t float64) (model.TelemetryState, bool) {
	span, ok := Bracket(len(samples), func(i int) float64 { return samples[i].T }, t)
	if !ok {
		return model.TelemetryState{}, false
	}
	a, b := samples[span.I0], samples[span.I1]
	return model.TelemetryState{
		Speed:    Lerp(a.Speed, b.Speed, span.Ratio),
		RPM:      Lerp(a.RPM, b.RPM, span.Ratio),
		Throttle: Lerp(a.Throttle, b.Throttle, span.Ratio),
		Gear:     Nearest(a.Gear, b.Gear, span.Ratio),
		Brake:    Nearest(a.Brake, b.Brake, span.Ratio),
		DRS:      Nearest(a.DRS, b.DRS, span.Ratio),
	}, true
}
