package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/go-logr/logr"
)

// Runner joins a consumer group and hands every decoded message to its processing.
// It rejoins the group after each rebalance until ctx is done or the group is closed.
type Runner[Payload any] struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler JSONHandler[Payload]

	logger *logr.Logger
}

func NewRunner[Payload any](group sarama.ConsumerGroup, topics []string, processing Processing[Payload], errorProcessing ErrorProcessing) Runner[Payload] {
	return Runner[Payload]{
		group:   group,
		topics:  topics,
		handler: NewJSONHandler(processing, errorProcessing),
	}
}

func (r Runner[Payload]) WithLogger(logger logr.Logger) Runner[Payload] {
	r.logger = &logger
	r.handler = r.handler.WithLogger(logger)

	return r
}

// Start consumes until ctx is done. A closed consumer group ends it without error.
func (r Runner[Payload]) Start(ctx context.Context) error {
	go r.drainErrors(ctx)

	for session := 1; ; session++ {
		r.logInfo(1, "Joining consumer group", "topics", r.topics, "session", session)

		err := r.group.Consume(ctx, r.topics, r.handler)

		switch {
		case errors.Is(err, sarama.ErrClosedConsumerGroup):
			r.logInfo(0, "Consumer group closed")

			return nil
		case err != nil:
			r.logError(err, "Consumer group failed", "session", session)

			return fmt.Errorf("consumer group failed: %w", err)
		case ctx.Err() != nil:
			r.logInfo(0, "Context expired", "sessions", session)

			return ctx.Err()
		}
	}
}

// drainErrors logs the errors reported asynchronously by the group, when Consumer.Return.Errors is set.
func (r Runner[Payload]) drainErrors(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-r.group.Errors():
			if !ok {
				return
			}

			r.logError(err, "Consumer group error")
		}
	}
}

func (r Runner[Payload]) logInfo(level int, msg string, keysAndValues ...any) {
	if r.logger == nil {
		return
	}

	r.logger.V(level).Info(msg, keysAndValues...)
}

func (r Runner[Payload]) logError(err error, msg string, keysAndValues ...any) {
	if r.logger == nil {
		return
	}

	r.logger.Error(err, msg, keysAndValues...)
}
