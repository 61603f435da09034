package processing

import (
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/processing/race"
)

// Processor is a replay session. It owns the dataset and the reducer which
// carries the rank order between frames.
type Processor struct {
	Dataset     *model.RaceDataset
	CurrentData *model.Snapshot
	reducer     *race.Reducer
	reducerOpts []race.ReducerOption
}
type ProcessorOption func(proc *Processor)

func WithDataset(ds *model.RaceDataset) ProcessorOption {
	return func(proc *Processor) {
		proc.Dataset = ds
	}
}

func WithReducerOptions(opts ...race.ReducerOption) ProcessorOption {
	return func(proc *Processor) {
		proc.reducerOpts = append(proc.reducerOpts, opts...)
	}
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	ret := &Processor{}
	for _, opt := range opts {
		opt(ret)
	}
	ret.reducer = race.NewReducer(ret.reducerOpts...)
	return ret
}

// ProcessTime computes the next frame of a sequential playback.
func (p *Processor) ProcessTime(t float64) *model.Snapshot {
	p.CurrentData = &model.Snapshot{
		SessionTime: t,
		Drivers:     p.reducer.Compute(p.Dataset, t),
	}
	return p.CurrentData
}

// Seek jumps to t. The rank change of the resulting frame is zero.
func (p *Processor) Seek(t float64) *model.Snapshot {
	p.reducer.Reset()
	return p.ProcessTime(t)
}

// ReplaceDataset switches to another dataset and recomputes the current frame.
// Nothing is computed if there was no frame yet.
func (p *Processor) ReplaceDataset(ds *model.RaceDataset) *model.Snapshot {
	p.Dataset = ds
	if p.CurrentData == nil {
		return nil
	}
	return p.Seek(p.CurrentData.SessionTime)
}

func (p *Processor) GetData() *model.Snapshot {
	return p.CurrentData
}
