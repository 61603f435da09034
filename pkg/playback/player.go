// Package playback advances the query time of a replay session at a fixed
// frame rate and emits a snapshot per frame.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/processing"
)

const (
	DefaultFPS   = 10
	DefaultSpeed = 1.0
)

type Option func(p *Player)

func WithFPS(fps int) Option {
	return func(p *Player) {
		if fps > 0 {
			p.fps = fps
		}
	}
}

// WithSpeed sets the number of session seconds per wall clock second
func WithSpeed(speed float64) Option {
	return func(p *Player) {
		p.speed = speed
	}
}

// WithRange limits the playback. A zero to means the end of the dataset.
func WithRange(from, to float64) Option {
	return func(p *Player) {
		p.from = from
		p.to = to
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Player) {
		p.log = l
	}
}

// Player drives a processing.Processor. The processor must not be used by
// others while the player is running.
type Player struct {
	proc   *processing.Processor
	fps    int
	from   float64
	to     float64
	toAuto bool // to follows the end of the dataset
	log    *log.Logger
	mu     sync.Mutex
	speed  float64
	// guarded by mu
	now     float64
	paused  bool
	seekTo  *float64
	replace *model.RaceDataset
}

func NewPlayer(proc *processing.Processor, opts ...Option) *Player {
	ret := &Player{
		proc:  proc,
		fps:   DefaultFPS,
		speed: DefaultSpeed,
		log:   log.Default().Named("playback"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.to == 0 {
		ret.toAuto = true
		ret.updateEnd(proc.Dataset)
	}
	ret.now = ret.from
	return ret
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = false
}

// TogglePause switches between paused and running. Returns true if the
// playback is paused afterwards.
func (p *Player) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	return p.paused
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) SetSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = speed
}

// Seek moves the playback to t with the next frame.
func (p *Player) Seek(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekTo = &t
}

// ReplaceDataset switches the dataset with the next frame. The playback
// continues at the current time.
func (p *Player) ReplaceDataset(ds *model.RaceDataset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replace = ds
}

// Time returns the current session time
func (p *Player) Time() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// Run starts the playback in a separate goroutine. The returned channel is
// closed when the end of the range is reached or ctx is done.
func (p *Player) Run(ctx context.Context) <-chan *model.Snapshot {
	ret := make(chan *model.Snapshot)
	go p.Play(ctx, ret)
	return ret
}

// Play sends the frames to out until the end of the range is reached or ctx
// is done. out is closed on return.
func (p *Player) Play(ctx context.Context, out chan<- *model.Snapshot) {
	defer close(out)
	ticker := time.NewTicker(time.Second / time.Duration(p.fps))
	defer ticker.Stop()

	p.log.Info("starting playback",
		log.Float64("from", p.from),
		log.Float64("to", p.to),
		log.Int("fps", p.fps))
	snap := p.proc.Seek(p.from)
	for {
		if snap != nil {
			select {
			case out <- snap:
			case <-ctx.Done():
				p.log.Debug("playback canceled")
				return
			}
			if snap.SessionTime >= p.end() {
				p.log.Info("playback finished", log.Float64("time", snap.SessionTime))
				return
			}
		}
		select {
		case <-ctx.Done():
			p.log.Debug("playback canceled")
			return
		case <-ticker.C:
			snap = p.next()
		}
	}
}

func (p *Player) end() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.to
}

// updateEnd sets the end of the range to the end of ds unless it was given
// explicitly.
func (p *Player) updateEnd(ds *model.RaceDataset) {
	if !p.toAuto || ds == nil {
		return
	}
	if _, maxT, ok := ds.TimeSpan(); ok {
		p.to = maxT
	}
}

// next computes the frame for the current tick. Returns nil while paused.
func (p *Player) next() *model.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.replace != nil:
		p.log.Info("dataset replaced", log.Float64("time", p.now))
		ds := p.replace
		p.replace = nil
		p.updateEnd(ds)
		if p.seekTo == nil {
			return p.proc.ReplaceDataset(ds)
		}
		p.proc.Dataset = ds
		fallthrough
	case p.seekTo != nil:
		p.now = min(max(*p.seekTo, p.from), p.to)
		p.seekTo = nil
		p.log.Debug("seek", log.Float64("time", p.now))
		return p.proc.Seek(p.now)
	case p.paused:
		return nil
	default:
		p.now = min(max(p.now+p.speed/float64(p.fps), p.from), p.to)
		return p.proc.ProcessTime(p.now)
	}
}
