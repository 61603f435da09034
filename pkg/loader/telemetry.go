package loader

import (
	"cmp"
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/mpapenbr/racereplay/pkg/model"
)

// positionsFromTelemetry builds the position samples from the distance
// channel of the telemetry. The lap of a sample is the last lap started at
// or before the sample time.
func positionsFromTelemetry(c *model.Competitor) []model.PositionSample {
	laps := slices.SortedStableFunc(slices.Values(c.Laps),
		func(a, b model.SectorRecord) int {
			return cmp.Compare(a.StartTime, b.StartTime)
		})
	return lo.Map(c.Telemetry, func(item model.TelemetrySample, _ int) model.PositionSample {
		return model.PositionSample{T: item.T, S: item.S, Lap: lapAt(laps, item.T)}
	})
}

// lapAt expects laps sorted by start time
func lapAt(laps []model.SectorRecord, t float64) int {
	if len(laps) == 0 {
		return 1
	}
	idx := sort.Search(len(laps), func(i int) bool { return laps[i].StartTime > t })
	if idx == 0 {
		return max(1, laps[0].Lap)
	}
	return max(1, laps[idx-1].Lap)
}
