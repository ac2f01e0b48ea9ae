package channel

import (
	"context"

	"github.com/IBM/sarama"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// Channel delivers the pushed events until its context is done.
type Channel interface {
	Start(ctx context.Context) error
}

// NewKafka consumes the events from kafka topics, each message holding one {name, payload} envelope.
func NewKafka(consumer sarama.ConsumerGroup, topics []string, processing pipeline.Processing[entity.Event], errorProcessing pipeline.ErrorProcessing) pipeline.Runner[entity.Event] {
	return pipeline.NewRunner[entity.Event](consumer, topics, processing, errorProcessing)
}
