package model

// PositionSample is a single position record of a competitor.
// S is the cumulative race distance (not reset per lap).
type PositionSample struct {
	T   float64 `json:"t"   yaml:"t"`
	S   float64 `json:"s"   yaml:"s"`
	Lap int     `json:"lap" yaml:"lap"`
}

type PitStop struct {
	Lap   int     `json:"lap"   yaml:"lap"`
	Enter float64 `json:"enter" yaml:"enter"`
	Exit  float64 `json:"exit"  yaml:"exit"`
}

//nolint:tagliatelle // dataset layout
type SectorRecord struct {
	Lap       int      `json:"lap"       yaml:"lap"`
	StartTime float64  `json:"startTime" yaml:"startTime"`
	S1        *float64 `json:"s1"        yaml:"s1"`
	S2        *float64 `json:"s2"        yaml:"s2"`
	S3        *float64 `json:"s3"        yaml:"s3"`
}

// Durations returns the sector durations of this lap by sector index
func (r *SectorRecord) Durations() [NumSectors]*float64 {
	return [NumSectors]*float64{r.S1, r.S2, r.S3}
}

type SectorTimes struct {
	S1 *float64 `json:"s1" yaml:"s1"`
	S2 *float64 `json:"s2" yaml:"s2"`
	S3 *float64 `json:"s3" yaml:"s3"`
}

// At returns the duration for sector idx (0-based). nil if unknown.
func (s *SectorTimes) At(idx int) *float64 {
	if s == nil {
		return nil
	}
	switch idx {
	case 0:
		return s.S1
	case 1:
		return s.S2
	case 2:
		return s.S3
	}
	return nil
}

// Set stores the duration for sector idx (0-based)
func (s *SectorTimes) Set(idx int, v float64) {
	switch idx {
	case 0:
		s.S1 = &v
	case 1:
		s.S2 = &v
	case 2:
		s.S3 = &v
	}
}

func (s *SectorTimes) IsEmpty() bool {
	return s == nil || (s.S1 == nil && s.S2 == nil && s.S3 == nil)
}

// TelemetrySample holds the auxiliary channels of a competitor.
// Gear, Brake and DRS are discrete and must not be blended.
// Datasets without position samples carry the distance in S and the
// car position in X/Y.
//
//nolint:tagliatelle // dataset layout
type TelemetrySample struct {
	T        float64 `json:"t"        yaml:"t"`
	Speed    float64 `json:"speed"    yaml:"speed"`
	RPM      float64 `json:"rpm"      yaml:"rpm"`
	Throttle float64 `json:"throttle" yaml:"throttle"`
	Gear     int     `json:"gear"     yaml:"gear"`
	Brake    int     `json:"brake"    yaml:"brake"`
	DRS      int     `json:"drs"      yaml:"drs"`
	X        float64 `json:"x"        yaml:"x"`
	Y        float64 `json:"y"        yaml:"y"`
	S        float64 `json:"s"        yaml:"s"`
}

//nolint:tagliatelle // dataset layout
type Competitor struct {
	ID          string            `json:"-"           yaml:"-"`
	Code        string            `json:"driverCode"  yaml:"driverCode"`
	Team        string            `json:"team"        yaml:"team"`
	TeamColor   string            `json:"teamColor"   yaml:"teamColor"`
	Compound    Compound          `json:"compound"    yaml:"compound"`
	Positions   []PositionSample  `json:"positions"   yaml:"positions"`
	PitStops    []PitStop         `json:"pitStops"    yaml:"pitStops"`
	Laps        []SectorRecord    `json:"laps"        yaml:"laps"`
	BestSectors *SectorTimes      `json:"bestSectors" yaml:"bestSectors"`
	Telemetry   []TelemetrySample `json:"telemetry"   yaml:"telemetry"`
}

// RaceDataset is immutable once loaded.
// Drivers is keyed by competitor id.
//
//nolint:tagliatelle // dataset layout
type RaceDataset struct {
	Track       Track                  `json:"track"       yaml:"track"`
	Drivers     map[string]*Competitor `json:"drivers"     yaml:"drivers"`
	BestSectors *SectorTimes           `json:"bestSectors" yaml:"bestSectors"`
	Grid        []string               `json:"grid"        yaml:"grid"`
}

// TimeSpan returns the min/max sample time over all competitors.
// ok is false if there are no samples at all.
func (ds *RaceDataset) TimeSpan() (minT, maxT float64, ok bool) {
	for _, c := range ds.Drivers {
		if c == nil || len(c.Positions) == 0 {
			continue
		}
		first := c.Positions[0].T
		last := c.Positions[len(c.Positions)-1].T
		if !ok {
			minT, maxT, ok = first, last, true
			continue
		}
		minT = min(minT, first)
		maxT = max(maxT, last)
	}
	return minT, maxT, ok
}
