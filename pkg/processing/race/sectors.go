package race

import (
	"math"

	"github.com/mpapenbr/racereplay/pkg/model"
)

// sectorStates returns the revealed sectors of the given lap.
// A sector is revealed once the lap start plus the durations of this and all
// preceding sectors has passed. A missing duration stops the reveal.
//
//nolint:whitespace // editor/linter issue
func (r *Reducer) sectorStates(
	p *prepared,
	info *competitorInfo,
	lap int,
	qt float64,
) (ret [model.NumSectors]*model.SectorState) {
	idx, ok := info.lapIdx[lap]
	if !ok {
		return ret
	}
	rec := &info.c.Laps[idx]
	done := rec.StartTime
	for k, d := range rec.Durations() {
		if d == nil {
			break
		}
		done += *d
		if qt < done {
			break
		}
		ret[k] = &model.SectorState{
			Duration: *d,
			Color:    r.classify(k, *d, info.personalBests, p.globalBests),
		}
	}
	return ret
}

// classify compares a sector duration with the overall and personal bests.
// The epsilon only absorbs floating point noise of the source timings.
//
//nolint:whitespace // editor/linter issue
func (r *Reducer) classify(
	idx int,
	d float64,
	personal, global *model.SectorTimes,
) model.SectorColor {
	if best := global.At(idx); best != nil && math.Abs(d-*best) <= r.sectorEpsilon {
		return model.SectorPurple
	}
	if best := personal.At(idx); best != nil && math.Abs(d-*best) <= r.sectorEpsilon {
		return model.SectorGreen
	}
	return model.SectorYellow
}
