package loader

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/racereplay/pkg/model"
)

type ViolationKind string

const (
	KindNoSamples          ViolationKind = "noSamples"
	KindUnsortedTime       ViolationKind = "unsortedTime"
	KindDecreasingDistance ViolationKind = "decreasingDistance"
	KindUnsortedTelemetry  ViolationKind = "unsortedTelemetry"
	KindPitExitBeforeEnter ViolationKind = "pitExitBeforeEnter"
	KindUnknownGridEntry   ViolationKind = "unknownGridEntry"
	KindDuplicateGridEntry ViolationKind = "duplicateGridEntry"
)

// Violation describes input the reducer does not handle in a defined way.
// Index refers to the offending element, -1 if not applicable.
type Violation struct {
	DriverID string
	Index    int
	Kind     ViolationKind
	Message  string
}

func (v Violation) String() string {
	if v.DriverID == "" {
		return fmt.Sprintf("%s: %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("%s[%d] %s: %s", v.DriverID, v.Index, v.Kind, v.Message)
}

// Check validates the preconditions of the dataset.
// Drivers are checked in id order.
func Check(ds *model.RaceDataset) []Violation {
	ret := []Violation{}
	if ds == nil {
		return ret
	}
	ids := lo.Keys(ds.Drivers)
	slices.Sort(ids)
	for _, id := range ids {
		c := ds.Drivers[id]
		if c == nil || len(c.Positions) == 0 {
			ret = append(ret, Violation{
				DriverID: id, Index: -1, Kind: KindNoSamples,
				Message: "no position samples",
			})
			continue
		}
		ret = append(ret, checkPositions(id, c.Positions)...)
		ret = append(ret, checkTelemetry(id, c.Telemetry)...)
		for i, ps := range c.PitStops {
			if ps.Exit < ps.Enter {
				ret = append(ret, Violation{
					DriverID: id, Index: i, Kind: KindPitExitBeforeEnter,
					Message: fmt.Sprintf("exit %.3f before enter %.3f", ps.Exit, ps.Enter),
				})
			}
		}
	}
	unknown := lo.Filter(ds.Grid, func(id string, _ int) bool {
		_, ok := ds.Drivers[id]
		return !ok
	})
	for _, id := range unknown {
		ret = append(ret, Violation{
			Index: slices.Index(ds.Grid, id), Kind: KindUnknownGridEntry,
			Message: fmt.Sprintf("grid entry %q is not a driver", id),
		})
	}
	for _, id := range lo.FindDuplicates(ds.Grid) {
		ret = append(ret, Violation{
			Index: slices.Index(ds.Grid, id), Kind: KindDuplicateGridEntry,
			Message: fmt.Sprintf("grid entry %q is listed more than once", id),
		})
	}
	return ret
}

func checkPositions(id string, samples []model.PositionSample) []Violation {
	ret := []Violation{}
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if cur.T < prev.T {
			ret = append(ret, Violation{
				DriverID: id, Index: i, Kind: KindUnsortedTime,
				Message: fmt.Sprintf("time %.3f before %.3f", cur.T, prev.T),
			})
		}
		if cur.S < prev.S {
			ret = append(ret, Violation{
				DriverID: id, Index: i, Kind: KindDecreasingDistance,
				Message: fmt.Sprintf("distance %.3f less than %.3f", cur.S, prev.S),
			})
		}
	}
	return ret
}

func checkTelemetry(id string, samples []model.TelemetrySample) []Violation {
	ret := []Violation{}
	for i := 1; i < len(samples); i++ {
		if samples[i].T < samples[i-1].T {
			ret = append(ret, Violation{
				DriverID: id, Index: i, Kind: KindUnsortedTelemetry,
				Message: fmt.Sprintf("time %.3f before %.3f", samples[i].T, samples[i-1].T),
			})
		}
	}
	return ret
}
