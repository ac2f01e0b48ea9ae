package pipeline

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

const DefaultQueueSize = 1024

type queued[Payload any] struct {
	source  *Source
	payload Payload
}

// Queue serializes payloads coming from several producers.
// A single consumer processes them in arrival order; a failed payload is sent to the error processing and the queue moves on.
type Queue[Payload any] struct {
	items chan queued[Payload]

	processing      Processing[Payload]
	errorProcessing ErrorProcessing

	depth  prometheus.Gauge
	logger *logr.Logger
}

func NewQueue[Payload any](size int, processing Processing[Payload], errorProcessing ErrorProcessing) *Queue[Payload] {
	if size <= 0 {
		size = DefaultQueueSize
	}

	return &Queue[Payload]{
		items:           make(chan queued[Payload], size),
		processing:      processing,
		errorProcessing: errorProcessing,
	}
}

func (q *Queue[Payload]) WithLogger(logger logr.Logger) *Queue[Payload] {
	q.logger = &logger

	return q
}

// WithDepthGauge exposes the number of payloads waiting to be processed.
func (q *Queue[Payload]) WithDepthGauge(registry prometheus.Registerer, config MetricsConfig) (*Queue[Payload], error) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: config.Namespace,
		Name:      "queue_depth",
		Help:      "Number of payloads waiting to be processed.",
	})

	err := registry.Register(gauge)
	if err != nil {
		return nil, fmt.Errorf("failed to register metric: %w", err)
	}

	q.depth = gauge

	return q, nil
}

// Process enqueues payload. It blocks while the queue is full, until ctx is done.
// The payload source is taken from ctx when present.
func (q *Queue[Payload]) Process(ctx context.Context, payload Payload) error {
	item := queued[Payload]{payload: payload}

	source, ok := SourceFromContext(ctx)
	if ok {
		item.source = &source
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed to enqueue payload: %w", ctx.Err())
	case q.items <- item:
		q.setDepth()

		return nil
	}
}

// Len returns the number of payloads waiting to be processed.
func (q *Queue[Payload]) Len() int {
	return len(q.items)
}

// Start consumes the queue until ctx is done.
func (q *Queue[Payload]) Start(ctx context.Context) error {
	q.logInfo(0, "Start processing queue", "capacity", cap(q.items))

	for {
		select {
		case <-ctx.Done():
			q.logInfo(0, "Context expired", "pending", q.Len())

			return ctx.Err()
		case item := <-q.items:
			q.setDepth()
			q.process(ctx, item)
		}
	}
}

func (q *Queue[Payload]) process(ctx context.Context, item queued[Payload]) {
	if item.source != nil {
		ctx = ContextWithSource(ctx, *item.source)
	}

	err := q.processing.Process(ctx, item.payload)
	if err == nil {
		return
	}

	q.logError(err, "Processing failed")

	processingError := AsProcessingError(err)
	if processingError.Source == nil && item.source != nil {
		processingError = processingError.WithSource(*item.source)
	}

	err = q.errorProcessing.Process(ctx, processingError)
	if err != nil {
		q.logError(err, "Error pipeline failed")

		dumpErrorContext(q.logger, processingError)
	}
}

func (q *Queue[Payload]) setDepth() {
	if q.depth == nil {
		return
	}

	q.depth.Set(float64(len(q.items)))
}

func (q *Queue[Payload]) logInfo(level int, msg string, keysAndValues ...any) {
	if q.logger == nil {
		return
	}

	q.logger.V(level).Info(msg, keysAndValues...)
}

func (q *Queue[Payload]) logError(err error, msg string, keysAndValues ...any) {
	if q.logger == nil {
		return
	}

	q.logger.Error(err, msg, keysAndValues...)
}
