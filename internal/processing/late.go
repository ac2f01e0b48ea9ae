package processing

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

const DefaultLateThreshold = 5 * time.Second

// CountLateEvents counts the events which waited too long between their reception and their processing.
type CountLateEvents struct {
	counter   *prometheus.CounterVec
	clock     clockwork.Clock
	threshold time.Duration
	inner     pipeline.Processing[event.Event]
}

func NewCountLateEvents(p pipeline.Processing[event.Event], registry prometheus.Registerer, clock clockwork.Clock, threshold time.Duration, config pipeline.MetricsConfig) (pipeline.Processing[event.Event], error) {
	if threshold <= 0 {
		threshold = DefaultLateThreshold
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "late_events_total",
		Help:      "Late events counter by event name and channel.",
	}, []string{"name", "channel"})

	err := registry.Register(counter)
	if err != nil {
		return nil, fmt.Errorf("failed to register metric: %w", err)
	}

	ret := CountLateEvents{
		counter:   counter,
		clock:     clock,
		threshold: threshold,
		inner:     p,
	}

	return ret, nil
}

func (p CountLateEvents) Process(ctx context.Context, e event.Event) error {
	err := p.inner.Process(ctx, e)
	if err != nil {
		return err // Count only successfully processed events
	}

	source, ok := pipeline.SourceFromContext(ctx)
	if !ok {
		return nil
	}

	if !p.isLate(source.ReceivedAt) {
		return nil
	}

	p.counter.WithLabelValues(string(e.EventName()), source.Channel).Inc()

	return nil
}

// isLate is false for an unknown reception time.
func (p CountLateEvents) isLate(receivedAt time.Time) bool {
	if receivedAt.IsZero() {
		return false
	}

	return p.clock.Since(receivedAt) > p.threshold
}
