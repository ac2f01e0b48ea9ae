package processing

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"

	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// Tasks runs the asynchronous work of the watchers.
// A task never touches the store: it returns an event which is enqueued behind the ones already waiting.
type Tasks struct {
	clock clockwork.Clock
	sink  pipeline.Processing[event.Event]

	wg sync.WaitGroup

	logger *logr.Logger
}

func NewTasks(clock clockwork.Clock) *Tasks {
	return &Tasks{clock: clock}
}

func (t *Tasks) WithLogger(logger logr.Logger) *Tasks {
	t.logger = &logger

	return t
}

// Bind sets where task results are sent, usually the ingestion queue. It must be called before any task runs.
func (t *Tasks) Bind(sink pipeline.Processing[event.Event]) {
	t.sink = sink
}

// Go runs fn in its own goroutine then enqueues the event it returns, if any.
func (t *Tasks) Go(ctx context.Context, name string, fn func(context.Context) event.Event) {
	t.wg.Add(1)

	go func() {
		defer t.wg.Done()

		result, err := t.run(ctx, fn)
		if err != nil {
			t.logError(err, "Task failed", "task", name)

			return
		}

		if result == nil {
			return
		}

		t.Enqueue(ctx, result)
	}()
}

// Enqueue sends e to the queue, tagged as an internal event.
func (t *Tasks) Enqueue(ctx context.Context, e event.Event) {
	ctx = pipeline.ContextWithSource(ctx, pipeline.Source{
		Channel:    pipeline.ChannelInternal,
		Topic:      string(e.EventName()),
		ReceivedAt: t.clock.Now(),
	})

	err := t.sink.Process(ctx, e)
	if err != nil {
		t.logError(err, "Failed to enqueue task result", "event", e.EventName())
	}
}

// Wait blocks until every started task enqueued its result.
func (t *Tasks) Wait() {
	t.wg.Wait()
}

func (t *Tasks) run(ctx context.Context, fn func(context.Context) event.Event) (ret event.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return fn(ctx), nil
}

func (t *Tasks) logError(err error, msg string, keysAndValues ...any) {
	if t.logger == nil {
		return
	}

	t.logger.Error(err, msg, keysAndValues...)
}
