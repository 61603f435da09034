package sample

import (
	"sort"

	"github.com/mpapenbr/racereplay/pkg/model"
)

// TimeAtDistance returns the time at which the competitor reached target.
// Distance is non-decreasing within a competitor's samples, so the samples are
// sorted by distance as well and we may use binary search on it.
// Targets outside the covered distance are clamped to the first/last sample.
func TimeAtDistance(samples []model.PositionSample, target float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if target <= samples[0].S {
		return samples[0].T
	}
	if target >= samples[n-1].S {
		return samples[n-1].T
	}
	i := sort.Search(n, func(i int) bool { return samples[i].S >= target })
	p0, p1 := samples[i-1], samples[i]
	ds := p1.S - p0.S
	if ds == 0 {
		return p0.T
	}
	return p0.T + (target-p0.S)/ds*(p1.T-p0.T)
}
