package loader

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/testsupport/racedata"
)

func TestCheck(t *testing.T) {
	ds, err := LoadFile("testdata/unsorted.json", nop)
	assert.NilError(t, err)

	got := Check(ds)
	want := []Violation{
		{DriverID: "A", Index: 2, Kind: KindUnsortedTime, Message: "time 5.000 before 10.000"},
		{DriverID: "A", Index: 2, Kind: KindDecreasingDistance, Message: "distance 400.000 less than 500.000"},
		{DriverID: "A", Index: 0, Kind: KindPitExitBeforeEnter, Message: "exit 11.000 before enter 12.000"},
		{DriverID: "B", Index: -1, Kind: KindNoSamples, Message: "no position samples"},
		{Index: 1, Kind: KindUnknownGridEntry, Message: `grid entry "X" is not a driver`},
		{Index: 0, Kind: KindDuplicateGridEntry, Message: `grid entry "A" is listed more than once`},
	}
	assert.DeepEqual(t, want, got)
}

func TestCheckValid(t *testing.T) {
	assert.Check(t, is.Len(Check(racedata.ScenarioDataset()), 0))
	assert.Check(t, is.Len(Check(racedata.TwentyCars()), 0))
	assert.Check(t, is.Len(Check(nil), 0))
}

func TestCheckTelemetry(t *testing.T) {
	ds := racedata.ScenarioDataset()
	ds.Drivers["A"].Telemetry = []model.TelemetrySample{{T: 1}, {T: 3}, {T: 2}}
	got := Check(ds)
	assert.Check(t, is.Len(got, 1))
	assert.Equal(t, KindUnsortedTelemetry, got[0].Kind)
	assert.Equal(t, 2, got[0].Index)
}

func TestViolationString(t *testing.T) {
	v := Violation{DriverID: "A", Index: 2, Kind: KindUnsortedTime, Message: "x"}
	assert.Equal(t, "A[2] unsortedTime: x", v.String())
	v = Violation{Index: 0, Kind: KindUnknownGridEntry, Message: "y"}
	assert.Equal(t, "unknownGridEntry: y", v.String())
}
