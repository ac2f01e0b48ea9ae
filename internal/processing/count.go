package processing

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// CountEvents counts the processed events by name, and the ones which left the state unchanged.
type CountEvents struct {
	processed *prometheus.CounterVec
	unchanged *prometheus.CounterVec
	state     Versioned
	inner     pipeline.Processing[event.Event]
}

func NewCountEvents(p pipeline.Processing[event.Event], state Versioned, registry prometheus.Registerer, config pipeline.MetricsConfig) (pipeline.Processing[event.Event], error) {
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "processed_events_total",
		Help:      "Processed events counter by event name.",
	}, []string{"name"})

	unchanged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "unchanged_events_total",
		Help:      "Events referencing unknown entities or carrying known values, by event name.",
	}, []string{"name"})

	for _, counter := range []*prometheus.CounterVec{processed, unchanged} {
		err := registry.Register(counter)
		if err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	ret := CountEvents{
		processed: processed,
		unchanged: unchanged,
		state:     state,
		inner:     p,
	}

	return ret, nil
}

func (p CountEvents) Process(ctx context.Context, e event.Event) error {
	name := string(e.EventName())

	defer p.processed.WithLabelValues(name).Inc()

	before := p.state.Version()

	err := p.inner.Process(ctx, e)
	if err != nil {
		return err
	}

	if p.state.Version() == before {
		p.unchanged.WithLabelValues(name).Inc()
	}

	return nil
}
