package broadcast

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racereplay/log"
)

//nolint:lll // by design
// see https://betterprogramming.pub/how-to-broadcast-messages-in-go-using-channels-b68f42bdf32e

// DefaultSkipTimeout is the time a listener may block before a message
// is skipped for it.
const DefaultSkipTimeout = 50 * time.Millisecond

type BroadcastServer[T any] interface {
	Subscribe() <-chan T
	CancelSubscription(<-chan T)
	Close()
}

type broadcastServer[T any] struct {
	name           string
	session        string
	source         <-chan T
	listeners      []chan T
	addListener    chan chan T
	removeListener chan (<-chan T)
	ctx            context.Context
	cancel         context.CancelFunc
	skipTimeout    time.Duration
	log            *log.Logger
	numRcv         atomic.Int64
	numSnd         atomic.Int64
	numSkip        atomic.Int64
	numListener    atomic.Int64
}

type Option[T any] func(*broadcastServer[T])

// WithSession adds the session id as attribute to the metrics
func WithSession[T any](session string) Option[T] {
	return func(b *broadcastServer[T]) {
		b.session = session
	}
}

func WithSkipTimeout[T any](d time.Duration) Option[T] {
	return func(b *broadcastServer[T]) {
		b.skipTimeout = d
	}
}

func WithLogger[T any](l *log.Logger) Option[T] {
	return func(b *broadcastServer[T]) {
		b.log = l
	}
}

func (b *broadcastServer[T]) Subscribe() <-chan T {
	ch := make(chan T)
	select {
	case b.addListener <- ch:
	case <-b.ctx.Done():
		close(ch)
	}
	return ch
}

func (b *broadcastServer[T]) CancelSubscription(ch <-chan T) {
	select {
	case b.removeListener <- ch:
	case <-b.ctx.Done():
	}
}

func (b *broadcastServer[T]) Close() {
	b.log.Info("Closing broadcast server",
		log.String("name", b.name),
		log.Int64("rcv", b.numRcv.Load()),
		log.Int64("snd", b.numSnd.Load()),
		log.Int64("skip", b.numSkip.Load()))
	b.cancel()
}

// NewBroadcastServer distributes the messages of source to all subscribers.
// A subscriber not ready within the skip timeout misses the message.
// The server stops when source is closed or Close is called.
//
//nolint:whitespace // false positive
func NewBroadcastServer[T any](
	name string,
	source <-chan T,
	opts ...Option[T],
) BroadcastServer[T] {
	ctx, cancel := context.WithCancel(context.Background())
	b := &broadcastServer[T]{
		name:           name,
		source:         source,
		addListener:    make(chan chan T),
		removeListener: make(chan (<-chan T)),
		ctx:            ctx,
		cancel:         cancel,
		skipTimeout:    DefaultSkipTimeout,
		log:            log.Default().Named("broadcast"),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.setupMetrics()
	go b.serve()
	return b
}

//nolint:lll // readability
func (b *broadcastServer[T]) setupMetrics() {
	b.log.Debug("Setting up metrics",
		log.String("session", b.session),
		log.String("name", b.name))
	meter := otel.GetMeterProvider().Meter(fmt.Sprintf("racereplay.broadcast.%s", b.name))
	register := func(metricName, desc, unit string, valueProvider func() int64) {
		if _, err := meter.Int64ObservableGauge(
			metricName,
			metric.WithDescription(desc),
			metric.WithUnit(unit),

			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(valueProvider(),
					metric.WithAttributes(
						attribute.String("name", b.name),
						attribute.String("session", b.session),
					),
				)
				return nil
			})); err != nil {
			b.log.Error("failed to register metric",
				log.String("metric", metricName),
				log.ErrorField(err))
		}
	}
	type data struct {
		name  string
		desc  string
		unit  string
		value func() int64
	}
	for _, d := range []*data{
		{"racereplay.broadcast.rcv", "Number of received frames", "{count}", b.numRcv.Load},
		{"racereplay.broadcast.snd", "Number of sent frames", "{count}", b.numSnd.Load},
		{"racereplay.broadcast.skip", "Number of skipped frames", "{count}", b.numSkip.Load},
		{"racereplay.broadcast.listener", "Number of listeners", "{count}", b.numListener.Load},
	} {
		register(d.name, d.desc, d.unit, d.value)
	}
}

//nolint:funlen // by design
func (b *broadcastServer[T]) serve() {
	defer func() {
		b.log.Debug("Closing listeners", log.String("name", b.name))
		for _, listener := range b.listeners {
			close(listener)
		}
		b.listeners = nil
		b.numListener.Store(0)
		b.cancel()
	}()
	for {
		select {
		case <-b.ctx.Done():
			b.log.Debug("broadcast server about to be closed", log.String("name", b.name))
			return
		case ch := <-b.addListener:
			b.listeners = append(b.listeners, ch)
			b.numListener.Store(int64(len(b.listeners)))
		case ch := <-b.removeListener:
			idx := slices.IndexFunc(b.listeners, func(l chan T) bool { return l == ch })
			if idx >= 0 {
				close(b.listeners[idx])
				b.listeners = slices.Delete(b.listeners, idx, idx+1)
				b.log.Debug("removed listener",
					log.String("name", b.name), log.Int("len", len(b.listeners)))
			}
			b.numListener.Store(int64(len(b.listeners)))
		case msg, ok := <-b.source:
			if !ok {
				b.log.Debug("source closed", log.String("name", b.name))
				return
			}
			b.numRcv.Add(1)
			for _, listener := range b.listeners {
				timer := time.NewTimer(b.skipTimeout)
				select {
				case listener <- msg:
					b.numSnd.Add(1)
				case <-timer.C:
					b.numSkip.Add(1)
				}
				timer.Stop()
			}
		}
	}
}
