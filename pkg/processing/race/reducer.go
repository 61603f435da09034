package race

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/processing/sample"
	"github.com/mpapenbr/racereplay/pkg/processing/track"
)

// Reducer computes leaderboard snapshots from a race dataset.
// The only state carried between calls is the rank order of the previous
// snapshot which is used for the rank change.
// A Reducer is not safe for concurrent use. Use one per replay session.
type Reducer struct {
	gridWindow    float64
	gridSpacing   float64
	tieEpsilon    float64
	gapNoise      float64
	sectorEpsilon float64
	lapMode       LapMode
	log           *log.Logger
	meter         metric.Meter
	metrics       *reducerMetrics

	prevOrder map[string]int // id -> rank index of previous snapshot
	prep      *prepared
}

// prepared holds data derived once per dataset
type prepared struct {
	ds          *model.RaceDataset
	ids         []string // sorted
	infos       map[string]*competitorInfo
	geo         *track.Geometry
	globalBests *model.SectorTimes
	gridIdx     map[string]int
	minT, maxT  float64
	hasSamples  bool
}

type competitorInfo struct {
	id            string // key within the dataset
	c             *model.Competitor
	caps          model.Capabilities
	personalBests *model.SectorTimes
	lapIdx        map[int]int // lap number -> index in c.Laps
	compound      model.Compound
	synthesized   bool
}

// per query working data
type entry struct {
	info      *competitorInfo
	distance  float64
	traveled  float64
	first     float64 // distance of first sample
	sampleLap int
}

func NewReducer(opts ...ReducerOption) *Reducer {
	ret := &Reducer{
		gridWindow:    DefaultGridWindow,
		gridSpacing:   DefaultGridSpacing,
		tieEpsilon:    DefaultTieEpsilon,
		gapNoise:      DefaultGapNoise,
		sectorEpsilon: DefaultSectorEpsilon,
		lapMode:       LapModeDistance,
		log:           log.Default().Named("race"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.meter == nil {
		ret.meter = otel.GetMeterProvider().Meter("racereplay.reducer")
	}
	ret.metrics = newReducerMetrics(ret.meter, ret.log)
	return ret
}

// Reset clears the carried rank order.
// Callers should invoke this whenever the query time is set non-sequentially.
func (r *Reducer) Reset() {
	r.prevOrder = nil
}

// Compute returns the snapshot of all competitors at time t ordered by rank.
// Competitors without position samples are omitted.
//
//nolint:funlen // by design
func (r *Reducer) Compute(ds *model.RaceDataset, t float64) []model.DriverSnapshot {
	start := time.Now()
	if ds == nil {
		return []model.DriverSnapshot{}
	}
	p := r.prepare(ds)
	if !p.hasSamples {
		return []model.DriverSnapshot{}
	}
	qt := math.Max(p.minT, math.Min(t, p.maxT))

	entries := make([]*entry, 0, len(p.ids))
	for _, id := range p.ids {
		info := p.infos[id]
		s, lap, ok := sample.Position(info.c.Positions, qt)
		if !ok {
			continue
		}
		first := info.c.Positions[0].S
		entries = append(entries, &entry{
			info:      info,
			distance:  s,
			traveled:  s - first,
			first:     first,
			sampleLap: lap,
		})
	}
	if len(entries) == 0 {
		return []model.DriverSnapshot{}
	}
	onGrid := r.applyGrid(p, qt, entries)
	slices.SortStableFunc(entries, r.compare)

	ret := make([]model.DriverSnapshot, len(entries))
	newOrder := make(map[string]int, len(entries))
	for i, e := range entries {
		c := e.info.c
		snap := model.DriverSnapshot{
			ID:                  e.info.id,
			Code:                c.Code,
			Team:                c.Team,
			TeamColor:           c.TeamColor,
			Position:            i + 1,
			Distance:            e.distance,
			DistanceTraveled:    e.traveled,
			Lap:                 r.lap(p, e),
			InPit:               inPit(c.PitStops, qt),
			Compound:            e.info.compound,
			CompoundSynthesized: e.info.synthesized,
			Capabilities:        e.info.caps,
		}
		if i > 0 && !onGrid {
			snap.GapToLeader = r.timeGap(qt, e, entries[0])
			snap.IntervalToAhead = r.timeGap(qt, e, entries[i-1])
		}
		if e.info.caps.Has(model.HasSectors) {
			snap.Sectors = r.sectorStates(p, e.info, snap.Lap, qt)
		}
		if e.info.caps.Has(model.HasGeometry) {
			pt := p.geo.PointAt(p.geo.Wrap(e.distance))
			snap.X, snap.Y = pt.X, pt.Y
		}
		if e.info.caps.Has(model.HasTelemetry) {
			if tel, ok := sample.Telemetry(c.Telemetry, qt); ok {
				snap.Telemetry = &tel
			}
		}
		if prev, ok := r.prevOrder[e.info.id]; ok {
			snap.RankChange = prev - i
		}
		newOrder[e.info.id] = i
		ret[i] = snap
	}
	r.prevOrder = newOrder
	r.metrics.record(start, len(ret))
	return ret
}

// prepare derives the per dataset data. The dataset is immutable, so this
// is done only when a different dataset is passed.
func (r *Reducer) prepare(ds *model.RaceDataset) *prepared {
	if r.prep != nil && r.prep.ds == ds {
		return r.prep
	}
	p := &prepared{
		ds:          ds,
		ids:         make([]string, 0, len(ds.Drivers)),
		infos:       make(map[string]*competitorInfo, len(ds.Drivers)),
		geo:         track.NewGeometry(ds.Track),
		globalBests: ds.GlobalBests(),
		gridIdx:     make(map[string]int, len(ds.Grid)),
	}
	p.minT, p.maxT, p.hasSamples = ds.TimeSpan()
	for id, c := range ds.Drivers {
		if c == nil {
			continue
		}
		p.ids = append(p.ids, id)
		p.infos[id] = r.newCompetitorInfo(id, c, p.geo)
	}
	slices.Sort(p.ids)
	for i, id := range ds.Grid {
		if _, ok := p.gridIdx[id]; !ok {
			p.gridIdx[id] = i
		}
	}
	r.log.Debug("dataset prepared",
		log.Int("drivers", len(p.ids)),
		log.Float64("trackLength", p.geo.Length()),
		log.Float64("minT", p.minT),
		log.Float64("maxT", p.maxT),
		log.Int("grid", len(ds.Grid)))
	r.prep = p
	return p
}

//nolint:lll // readability
func (r *Reducer) newCompetitorInfo(id string, c *model.Competitor, geo *track.Geometry) *competitorInfo {
	info := &competitorInfo{
		id:            id,
		c:             c,
		personalBests: c.PersonalBests(),
		lapIdx:        make(map[int]int, len(c.Laps)),
	}
	if len(c.Laps) > 0 {
		info.caps |= model.HasSectors
		for i := range c.Laps {
			info.lapIdx[c.Laps[i].Lap] = i
		}
	}
	if len(c.Telemetry) > 0 {
		info.caps |= model.HasTelemetry
	}
	if len(c.PitStops) > 0 {
		info.caps |= model.HasPitStops
	}
	if geo.HasPoints() {
		info.caps |= model.HasGeometry
	}
	if c.Compound != "" {
		info.caps |= model.HasCompound
		info.compound = c.Compound
	} else {
		info.compound = SynthesizeCompound(cmp.Or(c.Code, id))
		info.synthesized = true
	}
	return info
}

// applyGrid replaces the distances by synthetic grid slots shortly after
// the session start. Competitors not on the grid are placed behind.
// Returns true if the grid was applied.
func (r *Reducer) applyGrid(p *prepared, qt float64, entries []*entry) bool {
	if len(p.gridIdx) == 0 || qt >= r.gridWindow {
		return false
	}
	others := make([]*entry, 0)
	for _, e := range entries {
		idx, ok := p.gridIdx[e.info.id]
		if !ok {
			others = append(others, e)
			continue
		}
		e.distance = -float64(idx) * r.gridSpacing
		e.traveled = e.distance
	}
	slices.SortStableFunc(others, func(a, b *entry) int {
		if c := cmp.Compare(b.first, a.first); c != 0 {
			return c
		}
		return strings.Compare(a.info.id, b.info.id)
	})
	for k, e := range others {
		e.distance = -float64(len(p.ds.Grid)+k) * r.gridSpacing
		e.traveled = e.distance
	}
	return true
}

// compare orders by traveled distance. Nearly identical distances are ordered
// by the starting offset which reproduces the grid order while all cars are
// still stationary.
func (r *Reducer) compare(a, b *entry) int {
	if math.Abs(a.traveled-b.traveled) >= r.tieEpsilon {
		return cmp.Compare(b.traveled, a.traveled)
	}
	if c := cmp.Compare(b.first, a.first); c != 0 {
		return c
	}
	return strings.Compare(a.info.id, b.info.id)
}

func (r *Reducer) lap(p *prepared, e *entry) int {
	length := p.geo.Length()
	if r.lapMode == LapModeSample || length <= 0 {
		return max(1, e.sampleLap)
	}
	return max(1, int(math.Floor(e.distance/length))+1)
}

// timeGap computes the time between ref reaching the traveled distance of e
// and the query time.
func (r *Reducer) timeGap(qt float64, e, ref *entry) float64 {
	target := e.traveled + ref.first
	refTime := sample.TimeAtDistance(ref.info.c.Positions, target)
	gap := math.Round((qt-refTime)*1000) / 1000
	if gap < r.gapNoise {
		return 0
	}
	return gap
}

func inPit(stops []model.PitStop, qt float64) bool {
	for i := range stops {
		if qt >= stops[i].Enter && qt <= stops[i].Exit {
			return true
		}
	}
	return false
}
