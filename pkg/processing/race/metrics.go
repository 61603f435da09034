package race

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racereplay/log"
)

type reducerMetrics struct {
	duration  metric.Float64Histogram
	snapshots metric.Int64Counter
}

func newReducerMetrics(meter metric.Meter, l *log.Logger) *reducerMetrics {
	ret := &reducerMetrics{}
	var err error
	if ret.duration, err = meter.Float64Histogram(
		"racereplay.reducer.compute.duration",
		metric.WithDescription("Duration of a snapshot computation"),
		metric.WithUnit("ms"),
	); err != nil {
		l.Warn("failed to register metric", log.ErrorField(err))
		return nil
	}
	if ret.snapshots, err = meter.Int64Counter(
		"racereplay.reducer.snapshots",
		metric.WithDescription("Number of computed snapshots"),
		metric.WithUnit("{count}"),
	); err != nil {
		l.Warn("failed to register metric", log.ErrorField(err))
		return nil
	}
	return ret
}

func (m *reducerMetrics) record(start time.Time, drivers int) {
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Int("drivers", drivers))
	m.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000.0, attrs)
	m.snapshots.Add(ctx, 1)
}
