package playback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/processing"
	"github.com/mpapenbr/racereplay/pkg/processing/race"
	"github.com/mpapenbr/racereplay/testsupport/racedata"
)

func newTestPlayer(ds *model.RaceDataset, opts ...Option) *Player {
	proc := processing.NewProcessor(
		processing.WithDataset(ds),
		processing.WithReducerOptions(race.WithLogger(log.NewNop())))
	return NewPlayer(proc, append([]Option{WithLogger(log.NewNop())}, opts...)...)
}

func receive(t *testing.T, ch <-chan *model.Snapshot) *model.Snapshot {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed")
		return s
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no frame received")
	}
	return nil
}

func TestPlayerRunsToEnd(t *testing.T) {
	// 1 session second per frame
	p := newTestPlayer(racedata.ScenarioDataset(), WithFPS(200), WithSpeed(200))
	frames := []float64{}
	for s := range p.Run(context.Background()) {
		frames = append(frames, s.SessionTime)
	}
	require.Len(t, frames, 21)
	assert.Equal(t, 0.0, frames[0])
	assert.Equal(t, 20.0, frames[20])
	for i := 1; i < len(frames); i++ {
		assert.InDelta(t, 1.0, frames[i]-frames[i-1], 1e-9)
	}
	assert.Equal(t, 20.0, p.Time())
}

func TestPlayerRange(t *testing.T) {
	p := newTestPlayer(racedata.ScenarioDataset(), WithFPS(200), WithSpeed(400), WithRange(5, 9))
	frames := []float64{}
	for s := range p.Run(context.Background()) {
		frames = append(frames, s.SessionTime)
	}
	assert.Equal(t, []float64{5, 7, 9}, frames)
}

func TestPlayerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := newTestPlayer(racedata.ScenarioDataset(), WithFPS(100), WithSpeed(0.01))
	ch := p.Run(ctx)
	receive(t, ch)
	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPlayerPauseAndSeek(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := newTestPlayer(racedata.OvertakeDataset(), WithFPS(100))
	p.Pause()
	ch := p.Run(ctx)

	s := receive(t, ch)
	assert.Equal(t, 0.0, s.SessionTime)

	p.Seek(10)
	s = receive(t, ch)
	assert.Equal(t, 10.0, s.SessionTime)
	assert.Equal(t, "A", s.Drivers[0].ID)

	// a seek never reports rank changes
	p.Seek(20)
	s = receive(t, ch)
	assert.Equal(t, "B", s.Drivers[0].ID)
	for _, d := range s.Drivers {
		assert.Equal(t, 0, d.RankChange)
	}

	// beyond the end is clamped and finishes the playback
	p.Seek(100)
	s = receive(t, ch)
	assert.Equal(t, 20.0, s.SessionTime)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestPlayerReplaceDataset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := newTestPlayer(racedata.ScenarioDataset(), WithFPS(100))
	p.Pause()
	ch := p.Run(ctx)
	receive(t, ch)

	p.Seek(10)
	receive(t, ch)

	other := racedata.ScenarioDataset()
	other.Drivers["B"].Positions[1].S = 600
	p.ReplaceDataset(other)
	s := receive(t, ch)
	assert.Equal(t, 10.0, s.SessionTime)
	assert.Equal(t, "B", s.Drivers[0].ID)
	assert.InDelta(t, 600, s.Drivers[0].Distance, 1e-9)
}

func TestPlayerReplaceDatasetExtendsRange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := newTestPlayer(racedata.ScenarioDataset(), WithFPS(100))
	p.Pause()
	ch := p.Run(ctx)
	receive(t, ch)

	p.Seek(10)
	receive(t, ch)

	longer := racedata.ScenarioDataset()
	for _, c := range longer.Drivers {
		last := c.Positions[len(c.Positions)-1]
		c.Positions = append(c.Positions, model.PositionSample{T: 40, S: last.S + 1000, Lap: 2})
	}
	p.ReplaceDataset(longer)
	receive(t, ch)

	p.Seek(30)
	s := receive(t, ch)
	assert.Equal(t, 30.0, s.SessionTime)

	p.Seek(100)
	s = receive(t, ch)
	assert.Equal(t, 40.0, s.SessionTime)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestPlayerReplaceDatasetKeepsExplicitRange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := newTestPlayer(racedata.ScenarioDataset(), WithFPS(100), WithRange(0, 15))
	p.Pause()
	ch := p.Run(ctx)
	receive(t, ch)

	longer := racedata.ScenarioDataset()
	for _, c := range longer.Drivers {
		c.Positions = append(c.Positions, model.PositionSample{T: 40, S: 2000, Lap: 2})
	}
	p.ReplaceDataset(longer)
	receive(t, ch)

	p.Seek(30)
	s := receive(t, ch)
	assert.Equal(t, 15.0, s.SessionTime)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestPlayerPlayClosesOut(t *testing.T) {
	p := newTestPlayer(racedata.ScenarioDataset(), WithFPS(100), WithRange(5, 5))
	out := make(chan *model.Snapshot, 10)
	p.Play(context.Background(), out)

	frames := []float64{}
	for s := range out {
		frames = append(frames, s.SessionTime)
	}
	assert.Equal(t, []float64{5}, frames)
}
