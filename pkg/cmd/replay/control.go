package replay

import (
	"context"
	"os"
	"os/signal"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/playback"
)

type controlAction int

const (
	actionNone controlAction = iota
	actionTogglePause
	actionRestart
)

// controller maps process signals to playback actions.
// See control_unix.go for the signals in use.
type controller struct {
	player  *playback.Player
	from    float64
	signals map[os.Signal]controlAction
	log     *log.Logger
}

func newController(player *playback.Player, from float64, logger *log.Logger) *controller {
	return &controller{
		player:  player,
		from:    from,
		signals: controlSignals(),
		log:     logger,
	}
}

// start handles the control signals until ctx is done
func (c *controller) start(ctx context.Context) {
	if len(c.signals) == 0 {
		return
	}
	ch := make(chan os.Signal, 1)
	sigs := make([]os.Signal, 0, len(c.signals))
	for sig := range c.signals {
		sigs = append(sigs, sig)
	}
	signal.Notify(ch, sigs...)
	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-ch:
				c.handle(sig)
			}
		}
	}()
}

func (c *controller) handle(sig os.Signal) {
	switch c.signals[sig] {
	case actionTogglePause:
		if c.player.TogglePause() {
			c.log.Info("playback paused", log.Float64("time", c.player.Time()))
		} else {
			c.log.Info("playback resumed", log.Float64("time", c.player.Time()))
		}
	case actionRestart:
		c.log.Info("playback restarted", log.Float64("from", c.from))
		c.player.Seek(c.from)
	case actionNone:
		c.log.Debug("ignoring signal", log.String("signal", sig.String()))
	}
}
