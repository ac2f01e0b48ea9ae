package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

var defaultDurationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}

// Fan-out

type fanOut[Payload any] struct {
	branches []Processing[Payload]
}

// NewParallelProcessing hands the payload to every branch concurrently.
// A failing branch does not interrupt the others; the errors are joined.
func NewParallelProcessing[Payload any](branches ...Processing[Payload]) Processing[Payload] {
	return fanOut[Payload]{
		branches: branches,
	}
}

func (f fanOut[Payload]) Process(ctx context.Context, payload Payload) error {
	var (
		group errgroup.Group
		mu    sync.Mutex
		errs  []error
	)

	for _, branch := range f.branches {
		group.Go(func() error {
			err := branch.Process(ctx, payload)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}

			return nil
		})
	}

	_ = group.Wait()

	return errors.Join(errs...)
}

// Recover

type recoverer[Payload any] struct {
	next Processing[Payload]
}

// NewPanicHandlerProcessing turns a panic of next into a PanicCategory processing error.
// The error keeps the payload source when the context carries one.
func NewPanicHandlerProcessing[Payload any](next Processing[Payload]) Processing[Payload] {
	return recoverer[Payload]{
		next: next,
	}
}

func (r recoverer[Payload]) Process(ctx context.Context, payload Payload) (err error) {
	defer func() {
		reason := recover()
		if reason == nil {
			return
		}

		stack := Input{Source: "panic", Key: "stack", Value: debug.Stack()}
		processingError := NewErrProcessingError(fmt.Errorf("unexpected error: %v", reason), PanicCategory, []Input{stack})

		source, ok := SourceFromContext(ctx)
		if ok {
			processingError = processingError.WithSource(source)
		}

		err = processingError
	}()

	return r.next.Process(ctx, payload)
}

// Retry

type RetryConfig struct {
	MaxAttempt uint
	Delay      time.Duration

	// OnRetry is called after each retryable failure, attempt starting at 1.
	OnRetry func(attempt uint, err error)
}

type retrying[Payload any] struct {
	next    Processing[Payload]
	options []retry.Option
}

// NewRetryProcessing calls next again while it fails with ErrRetryableError, up to MaxAttempt calls.
func NewRetryProcessing[Payload any](next Processing[Payload], config RetryConfig) Processing[Payload] {
	options := []retry.Option{
		retry.Attempts(config.MaxAttempt),
		retry.Delay(config.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrRetryableError)
		}),
	}

	if config.OnRetry != nil {
		options = append(options, retry.OnRetry(func(n uint, err error) {
			config.OnRetry(n+1, err)
		}))
	}

	return retrying[Payload]{
		next:    next,
		options: options,
	}
}

func (r retrying[Payload]) Process(ctx context.Context, payload Payload) error {
	options := append([]retry.Option{retry.Context(ctx)}, r.options...)

	return retry.Do(func() error {
		return r.next.Process(ctx, payload)
	}, options...)
}

// Duration

type MetricsConfig struct {
	Namespace string
	Buckets   []float64
}

type timed[Payload any] struct {
	next      Processing[Payload]
	clock     clockwork.Clock
	histogram *prometheus.HistogramVec
}

// NewDurationMetricsDecoratorProcessing observes the duration of next in milliseconds, labelled by outcome.
func NewDurationMetricsDecoratorProcessing[Payload any](next Processing[Payload], registry prometheus.Registerer, clock clockwork.Clock, config MetricsConfig) (Processing[Payload], error) {
	buckets := config.Buckets
	if len(buckets) == 0 {
		buckets = defaultDurationBuckets
	}

	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Name:      "processing_duration_milliseconds",
		Help:      "Time taken to process a payload.",
		Buckets:   buckets,
	}, []string{"failed"})

	err := registry.Register(histogram)
	if err != nil {
		return nil, fmt.Errorf("failed to register metric: %w", err)
	}

	return timed[Payload]{
		next:      next,
		clock:     clock,
		histogram: histogram,
	}, nil
}

func (t timed[Payload]) Process(ctx context.Context, payload Payload) error {
	start := t.clock.Now()

	err := t.next.Process(ctx, payload)

	elapsed := float64(t.clock.Since(start)) / float64(time.Millisecond)
	t.histogram.WithLabelValues(strconv.FormatBool(err != nil)).Observe(elapsed)

	return err
}

// Error count

const emptyCategory = "empty_category"

type errorCounter struct {
	counter *prometheus.CounterVec
}

// NewErrorCountProcessing counts the processing errors by category.
func NewErrorCountProcessing(registry prometheus.Registerer, config MetricsConfig) (Processing[ErrProcessingError], error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "processing_error_total",
		Help:      "Processing errors by category.",
	}, []string{"category"})

	err := registry.Register(counter)
	if err != nil {
		return nil, fmt.Errorf("failed to register metric: %w", err)
	}

	return errorCounter{counter: counter}, nil
}

func (c errorCounter) Process(_ context.Context, processingError ErrProcessingError) error {
	category := processingError.Category
	if category == "" {
		category = emptyCategory
	}

	c.counter.WithLabelValues(category).Inc()

	return nil
}
