package model

const NumSectors = 3

type SectorColor string

const (
	SectorPurple SectorColor = "purple"
	SectorGreen  SectorColor = "green"
	SectorYellow SectorColor = "yellow"
)

type Compound string

const (
	CompoundSoft         Compound = "SOFT"
	CompoundMedium       Compound = "MEDIUM"
	CompoundHard         Compound = "HARD"
	CompoundIntermediate Compound = "INTERMEDIATE"
	CompoundWet          Compound = "WET"
)

// SynthCompounds is the set used when a compound has to be synthesized
var SynthCompounds = []Compound{CompoundSoft, CompoundMedium, CompoundHard}

// Capabilities describe which optional data a competitor provides.
// They are evaluated once per competitor, not at every use site.
type Capabilities uint8

const (
	HasSectors Capabilities = 1 << iota
	HasTelemetry
	HasCompound
	HasGeometry
	HasPitStops
)

func (c Capabilities) Has(flag Capabilities) bool {
	return c&flag == flag
}

type SectorState struct {
	Duration float64     `json:"duration"`
	Color    SectorColor `json:"color"`
}

type TelemetryState struct {
	Speed    float64 `json:"speed"`
	RPM      float64 `json:"rpm"`
	Throttle float64 `json:"throttle"`
	Gear     int     `json:"gear"`
	Brake    int     `json:"brake"`
	DRS      int     `json:"drs"`
}

// DriverSnapshot is the derived state of one competitor at a query time.
type DriverSnapshot struct {
	ID                  string                   `json:"id"`
	Code                string                   `json:"code"`
	Team                string                   `json:"team"`
	TeamColor           string                   `json:"teamColor"`
	Position            int                      `json:"position"`
	Distance            float64                  `json:"distance"`
	DistanceTraveled    float64                  `json:"distanceTraveled"`
	Lap                 int                      `json:"lap"`
	GapToLeader         float64                  `json:"gapToLeader"`
	IntervalToAhead     float64                  `json:"intervalToAhead"`
	InPit               bool                     `json:"inPit"`
	Sectors             [NumSectors]*SectorState `json:"sectors"`
	RankChange          int                      `json:"rankChange"`
	Compound            Compound                 `json:"compound"`
	CompoundSynthesized bool                     `json:"compoundSynthesized"`
	X                   float64                  `json:"x"`
	Y                   float64                  `json:"y"`
	Telemetry           *TelemetryState          `json:"telemetry,omitempty"`
	Capabilities        Capabilities             `json:"capabilities"`
}

// Snapshot is the leaderboard at a given race time
type Snapshot struct {
	SessionTime float64          `json:"sessionTime"`
	Drivers     []DriverSnapshot `json:"drivers"`
}
