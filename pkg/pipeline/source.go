package pipeline

import (
	"context"
	"time"

	"github.com/IBM/sarama"
)

const (
	ChannelKafka     = "kafka"
	ChannelWebsocket = "websocket"
	ChannelInternal  = "internal"
)

// Source describes where a payload comes from. It is attached to processing errors.
type Source struct {
	Channel    string    `json:"channel"`
	Topic      string    `json:"topic"`
	Partition  int32     `json:"partition,omitempty"`
	Offset     int64     `json:"offset,omitempty"`
	Key        []byte    `json:"key,omitempty"`
	Value      []byte    `json:"value,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

func SourceFromKafkaMessage(msg *sarama.ConsumerMessage) Source {
	return Source{
		Channel:    ChannelKafka,
		Topic:      msg.Topic,
		Partition:  msg.Partition,
		Offset:     msg.Offset,
		Key:        msg.Key,
		Value:      msg.Value,
		ReceivedAt: msg.Timestamp,
	}
}

type sourceKey struct{}

func ContextWithSource(ctx context.Context, source Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func SourceFromContext(ctx context.Context) (Source, bool) {
	ret, ok := ctx.Value(sourceKey{}).(Source)

	return ret, ok
}
