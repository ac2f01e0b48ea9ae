package pipeline

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/go-logr/logr"
)

// JSONHandler is a sarama consumer group handler decoding each message as a JSON Payload.
// Offsets are marked once the payload is handed over, or once its error has been processed.
type JSONHandler[Payload any] struct {
	logger *logr.Logger

	processing      Processing[Payload]
	errorProcessing ErrorProcessing
}

func NewJSONHandler[Payload any](processing Processing[Payload], errProcessing ErrorProcessing) JSONHandler[Payload] {
	return JSONHandler[Payload]{
		processing:      processing,
		errorProcessing: errProcessing,
	}
}

func (h JSONHandler[Payload]) WithLogger(logger logr.Logger) JSONHandler[Payload] {
	h.logger = &logger

	return h
}

func (h JSONHandler[Payload]) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()

	h.logInfo(0, "Claim started",
		"topic", claim.Topic(),
		"partition", claim.Partition(),
		"initialOffset", claim.InitialOffset(),
	)

	for {
		select {
		case <-ctx.Done():
			// Rebalance or shutdown, uncommitted messages are consumed again by the next owner
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			if h.handle(ctx, msg) {
				session.MarkMessage(msg, "")
			}
		}
	}
}

// handle reports whether msg is done with, either applied or sent to the error processing.
func (h JSONHandler[Payload]) handle(ctx context.Context, msg *sarama.ConsumerMessage) bool {
	if msg == nil {
		return false
	}

	// Tombstones carry no event
	if len(msg.Value) == 0 {
		h.logInfo(2, "Skipping empty message", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)

		return true
	}

	source := SourceFromKafkaMessage(msg)
	msgCtx := ContextWithSource(ctx, source)

	var payload Payload

	err := json.Unmarshal(msg.Value, &payload)
	if err != nil {
		h.processError(msgCtx, source, NewErrProcessingError(err, UnmarshalErrorCategory, nil))

		return true
	}

	err = h.processing.Process(msgCtx, payload)
	if err == nil {
		return true
	}

	if ctx.Err() != nil {
		h.logInfo(1, "Context cancelled while processing, message left uncommitted", "offset", msg.Offset)

		return false
	}

	h.processError(msgCtx, source, err)

	return true
}

func (h JSONHandler[Payload]) processError(ctx context.Context, source Source, pipelineError error) {
	h.logError(pipelineError, "Processing failed")

	processingError := AsProcessingError(pipelineError)
	if processingError.Source == nil {
		processingError = processingError.WithSource(source)
	}

	err := h.errorProcessing.Process(ctx, processingError)
	if err != nil {
		h.logError(err, "Error pipeline failed")

		dumpErrorContext(h.logger, processingError)
	}
}

func (h JSONHandler[Payload]) Setup(session sarama.ConsumerGroupSession) error {
	h.logInfo(0, "Session started", "generation", session.GenerationID(), "claims", session.Claims())

	return nil
}

func (h JSONHandler[Payload]) Cleanup(session sarama.ConsumerGroupSession) error {
	h.logInfo(0, "Session ended", "generation", session.GenerationID())

	return nil
}

func (h JSONHandler[Payload]) logInfo(level int, msg string, keysAndValues ...any) {
	if h.logger == nil {
		return
	}

	h.logger.V(level).Info(msg, keysAndValues...)
}

func (h JSONHandler[Payload]) logError(err error, msg string, keysAndValues ...any) {
	if h.logger == nil {
		return
	}

	h.logger.Error(err, msg, keysAndValues...)
}

func dumpErrorContext(logger *logr.Logger, err ErrProcessingError) {
	if logger == nil {
		return
	}

	keysAndValues := []any{"category", err.Category, "inputs", len(err.AdditionalInputs)}

	if err.Source != nil {
		keysAndValues = append(keysAndValues,
			"channel", err.Source.Channel,
			"topic", err.Source.Topic,
			"offset", err.Source.Offset,
			"raw", string(err.Source.Value),
		)
	}

	logger.Error(err, "Payload lost", keysAndValues...)
}
