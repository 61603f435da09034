package replay

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/playback"
	"github.com/mpapenbr/racereplay/pkg/processing"
	"github.com/mpapenbr/racereplay/pkg/processing/race"
	"github.com/mpapenbr/racereplay/testsupport/racedata"
)

type recordingPublisher struct {
	mu     sync.Mutex
	frames []float64
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, snap *model.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, snap.SessionTime)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newTestTask(pub *recordingPublisher, opts ...playback.Option) *replayTask {
	proc := processing.NewProcessor(
		processing.WithDataset(racedata.ScenarioDataset()),
		processing.WithReducerOptions(race.WithLogger(log.NewNop())))
	player := playback.NewPlayer(proc,
		append([]playback.Option{playback.WithLogger(log.NewNop())}, opts...)...)
	return newReplayTask("test", player, pub, log.NewNop())
}

func TestReplayTaskDeliversFirstFrame(t *testing.T) {
	for range 50 {
		pub := &recordingPublisher{}
		task := newTestTask(pub, playback.WithFPS(100), playback.WithRange(7, 7))
		require.NoError(t, task.run(context.Background()))
		assert.Equal(t, []float64{7}, pub.frames)
	}
}

func TestReplayTaskAllFrames(t *testing.T) {
	pub := &recordingPublisher{}
	task := newTestTask(pub,
		playback.WithFPS(200), playback.WithSpeed(400), playback.WithRange(5, 9))
	require.NoError(t, task.run(context.Background()))
	assert.Equal(t, []float64{5, 7, 9}, pub.frames)
}

func TestReplayTaskPublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broken pipe")}
	task := newTestTask(pub, playback.WithFPS(100), playback.WithSpeed(1))
	err := task.run(context.Background())
	assert.ErrorContains(t, err, "broken pipe")
	assert.Len(t, pub.frames, 1)
}
