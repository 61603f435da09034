// Package racedata provides datasets for tests and benchmarks.
package racedata

import (
	"fmt"
	"math"

	"github.com/mpapenbr/racereplay/pkg/model"
)

// F returns a pointer to v. Used for optional sector durations.
func F(v float64) *float64 {
	return &v
}

// ScenarioDataset contains two competitors on a 1000 units track.
// B starts 50 units behind A, both travel 500 units in 10 secs.
func ScenarioDataset() *model.RaceDataset {
	return &model.RaceDataset{
		Track: model.Track{Length: 1000},
		Drivers: map[string]*model.Competitor{
			"A": {
				ID: "A", Code: "AAA", Team: "Team A",
				Positions: []model.PositionSample{
					{T: 0, S: 0, Lap: 1}, {T: 10, S: 500, Lap: 1}, {T: 20, S: 1000, Lap: 1},
				},
			},
			"B": {
				ID: "B", Code: "BBB", Team: "Team B",
				Positions: []model.PositionSample{
					{T: 0, S: -50, Lap: 1}, {T: 10, S: 450, Lap: 1}, {T: 20, S: 950, Lap: 1},
				},
			},
		},
	}
}

// OvertakeDataset: A leads at t=10, B leads at t=20
func OvertakeDataset() *model.RaceDataset {
	return &model.RaceDataset{
		Track: model.Track{Length: 1000},
		Drivers: map[string]*model.Competitor{
			"A": {
				ID: "A", Code: "AAA",
				Positions: []model.PositionSample{
					{T: 0, S: 0, Lap: 1}, {T: 10, S: 200, Lap: 1}, {T: 20, S: 300, Lap: 1},
				},
			},
			"B": {
				ID: "B", Code: "BBB",
				Positions: []model.PositionSample{
					{T: 0, S: 0, Lap: 1}, {T: 10, S: 150, Lap: 1}, {T: 20, S: 350, Lap: 1},
				},
			},
		},
	}
}

type CarSpec struct {
	Speed    float64 // distance per second
	Start    float64 // distance of the first sample
	Compound model.Compound
	PitStops []model.PitStop
}

type GenerateParams struct {
	TrackLength float64
	Duration    float64 // seconds
	SampleRate  float64 // samples per second
	TrackPoints int     // number of centerline points, 0 means no geometry
	Telemetry   bool
	Grid        bool
	Cars        []CarSpec
}

// Generate creates a dataset with cars moving at constant speed on a circular
// track. Cars are named C01, C02, ... in the order of params.Cars.
//
//nolint:funlen // by design
func Generate(params GenerateParams) *model.RaceDataset {
	ds := &model.RaceDataset{
		Track:   model.Track{Length: params.TrackLength},
		Drivers: make(map[string]*model.Competitor, len(params.Cars)),
	}
	if params.TrackPoints > 0 {
		r := params.TrackLength / (2 * math.Pi)
		for i := 0; i <= params.TrackPoints; i++ {
			a := 2 * math.Pi * float64(i) / float64(params.TrackPoints)
			ds.Track.Points = append(ds.Track.Points,
				model.Point{X: r * math.Cos(a), Y: r * math.Sin(a)})
		}
	}
	dt := 1 / params.SampleRate
	n := int(params.Duration*params.SampleRate) + 1
	for ci, car := range params.Cars {
		id := fmt.Sprintf("C%02d", ci+1)
		c := &model.Competitor{
			ID:       id,
			Code:     id,
			Team:     fmt.Sprintf("Team %d", ci/2+1),
			Compound: car.Compound,
			PitStops: car.PitStops,
		}
		c.Positions = make([]model.PositionSample, n)
		for i := range n {
			t := float64(i) * dt
			s := car.Start + car.Speed*t
			c.Positions[i] = model.PositionSample{
				T: t, S: s, Lap: max(1, int(math.Floor(s/params.TrackLength))+1),
			}
			if params.Telemetry {
				c.Telemetry = append(c.Telemetry, model.TelemetrySample{
					T: t, Speed: car.Speed * 3.6, RPM: 10000 + float64(i%50)*20,
					Throttle: 100, Gear: 6 + i%3, DRS: 0,
				})
			}
		}
		sector := params.TrackLength / model.NumSectors / car.Speed
		maxDist := car.Start + car.Speed*params.Duration
		for lap := 1; float64(lap-1)*params.TrackLength <= maxDist; lap++ {
			startT := (float64(lap-1)*params.TrackLength - car.Start) / car.Speed
			if startT < 0 {
				startT = 0
			}
			c.Laps = append(c.Laps, model.SectorRecord{
				Lap: lap, StartTime: startT,
				S1: F(sector), S2: F(sector), S3: F(sector),
			})
		}
		ds.Drivers[id] = c
		if params.Grid {
			ds.Grid = append(ds.Grid, id)
		}
	}
	return ds
}

// TwentyCars is a typical field used for benchmarks
func TwentyCars() *model.RaceDataset {
	cars := make([]CarSpec, 20)
	for i := range cars {
		cars[i] = CarSpec{Speed: 60 - float64(i)*0.3, Start: -float64(i) * 8}
	}
	return Generate(GenerateParams{
		TrackLength: 5000,
		Duration:    3600,
		SampleRate:  4,
		TrackPoints: 720,
		Telemetry:   true,
		Grid:        true,
		Cars:        cars,
	})
}
