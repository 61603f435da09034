package replay

import (
	"context"
	"sync"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/playback"
	"github.com/mpapenbr/racereplay/pkg/publish"
	"github.com/mpapenbr/racereplay/pkg/utils/broadcast"
)

// progressEvery is the number of frames between progress log entries
const progressEvery = 100

type replayTask struct {
	session string
	player  *playback.Player
	pub     publish.Publisher
	log     *log.Logger
	wg      sync.WaitGroup
	errOnce sync.Once
	err     error
}

//nolint:whitespace // editor/linter issue
func newReplayTask(
	session string,
	player *playback.Player,
	pub publish.Publisher,
	logger *log.Logger,
) *replayTask {
	return &replayTask{session: session, player: player, pub: pub, log: logger}
}

// run plays the dataset until the end or ctx is done. The frames are
// distributed to the publisher and the progress logger.
func (r *replayTask) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan *model.Snapshot)
	bs := broadcast.NewBroadcastServer("replay", frames,
		broadcast.WithSession[*model.Snapshot](r.session),
		broadcast.WithLogger[*model.Snapshot](r.log.Named("broadcast")))
	defer bs.Close()

	publishChan := bs.Subscribe()
	progressChan := bs.Subscribe()

	r.wg.Add(2)
	go r.publish(ctx, cancel, publishChan)
	go r.progress(progressChan)
	// listeners are registered before the first frame
	go r.player.Play(ctx, frames)

	r.log.Debug("Waiting for tasks to finish")
	r.wg.Wait()
	return r.err
}

//nolint:whitespace // editor/linter issue
func (r *replayTask) publish(
	ctx context.Context,
	cancel context.CancelFunc,
	ch <-chan *model.Snapshot,
) {
	defer r.wg.Done()
	for snap := range ch {
		if err := r.pub.Publish(ctx, snap); err != nil {
			r.log.Error("Error publishing snapshot", log.ErrorField(err))
			r.errOnce.Do(func() { r.err = err })
			cancel()
			// drain until the broadcast server closes the channel
			for range ch {
			}
			return
		}
	}
}

func (r *replayTask) progress(ch <-chan *model.Snapshot) {
	defer r.wg.Done()
	count := 0
	for snap := range ch {
		count++
		if count%progressEvery == 0 {
			leader := ""
			if len(snap.Drivers) > 0 {
				leader = snap.Drivers[0].Code
			}
			r.log.Info("progress",
				log.Float64("sessionTime", snap.SessionTime),
				log.Int("frames", count),
				log.String("leader", leader))
		}
	}
	r.log.Debug("progress done", log.Int("frames", count))
}
