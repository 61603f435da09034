// Package publish delivers snapshots to their consumers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/mpapenbr/racereplay/pkg/leaderboard"
	"github.com/mpapenbr/racereplay/pkg/model"
)

type Publisher interface {
	Publish(ctx context.Context, snap *model.Snapshot) error
	Close() error
}

// JSONPublisher writes one JSON document per line
type JSONPublisher struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONPublisher(w io.Writer) *JSONPublisher {
	return &JSONPublisher{enc: json.NewEncoder(w)}
}

func (p *JSONPublisher) Publish(_ context.Context, snap *model.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func (p *JSONPublisher) Close() error {
	return nil
}

// TablePublisher renders each snapshot as leaderboard table
type TablePublisher struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *leaderboard.Renderer
}

func NewTablePublisher(w io.Writer, r *leaderboard.Renderer) *TablePublisher {
	return &TablePublisher{w: w, renderer: r}
}

func (p *TablePublisher) Publish(_ context.Context, snap *model.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderer.Render(p.w, snap)
	return nil
}

func (p *TablePublisher) Close() error {
	return nil
}
