package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/processing/race"
	"github.com/mpapenbr/racereplay/testsupport/racedata"
)

func newTestProcessor(ds *model.RaceDataset) *Processor {
	return NewProcessor(
		WithDataset(ds),
		WithReducerOptions(race.WithLogger(log.NewNop())))
}

func rankChanges(s *model.Snapshot) map[string]int {
	ret := map[string]int{}
	for _, d := range s.Drivers {
		ret[d.ID] = d.RankChange
	}
	return ret
}

func TestProcessor_ProcessTime(t *testing.T) {
	p := newTestProcessor(racedata.OvertakeDataset())
	assert.Nil(t, p.GetData())

	s := p.ProcessTime(10)
	assert.Equal(t, 10.0, s.SessionTime)
	assert.Equal(t, "A", s.Drivers[0].ID)
	assert.Same(t, s, p.GetData())

	s = p.ProcessTime(20)
	assert.Equal(t, "B", s.Drivers[0].ID)
	assert.Equal(t, map[string]int{"A": -1, "B": 1}, rankChanges(s))
}

func TestProcessor_Seek(t *testing.T) {
	p := newTestProcessor(racedata.OvertakeDataset())
	p.ProcessTime(10)
	s := p.Seek(20)
	assert.Equal(t, "B", s.Drivers[0].ID)
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, rankChanges(s))
}

func TestProcessor_ReplaceDataset(t *testing.T) {
	p := newTestProcessor(racedata.OvertakeDataset())
	assert.Nil(t, p.ReplaceDataset(racedata.ScenarioDataset()))

	p.ProcessTime(10)
	s := p.ReplaceDataset(racedata.OvertakeDataset())
	assert.Equal(t, 10.0, s.SessionTime)
	assert.Equal(t, []string{"A", "B"}, []string{s.Drivers[0].ID, s.Drivers[1].ID})
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, rankChanges(s))
}

func TestProcessor_IndependentSessions(t *testing.T) {
	ds := racedata.OvertakeDataset()
	p1 := newTestProcessor(ds)
	p2 := newTestProcessor(ds)
	p1.ProcessTime(10)
	p1.ProcessTime(20)
	// p2 never saw the t=10 order
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, rankChanges(p2.ProcessTime(20)))
}

func TestProcessor_NoDataset(t *testing.T) {
	p := NewProcessor()
	s := p.ProcessTime(5)
	assert.Empty(t, s.Drivers)
}
