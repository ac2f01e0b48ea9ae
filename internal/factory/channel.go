package factory

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/fleetsync/fleetsync/internal/channel"
	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/config"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/log"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// CreateChannel returns the push channel feeding queue, either the websocket of the server or a kafka topic.
func CreateChannel(conf config.Config, queue pipeline.Processing[event.Event], errorProcessing pipeline.ErrorProcessing, clock clockwork.Clock) (channel.Channel, common.CloseFunc, error) {
	decoder := channel.NewDecoder(queue)

	switch conf.Channel.Source {
	case config.ChannelSourceKafka:
		consumer, err := CreateKafkaConsumer(conf.Kafka)
		if err != nil {
			return nil, nil, err
		}

		runner := channel.NewKafka(consumer, []string{conf.Kafka.Consumer.Topic}, decoder, errorProcessing).WithLogger(log.Component("kafka"))

		return runner, closeConsumer(consumer), nil
	case config.ChannelSourceWebsocket:
		socket, err := channel.NewSocket(conf.Channel, event.Topics(), clock, decoder, errorProcessing)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create socket: %w", err)
		}

		dialer := &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: conf.API.Timeout,
		}

		return socket.WithDialer(dialer).WithLogger(log.Component("socket")), noClose, nil
	default:
		return nil, nil, fmt.Errorf("unexpected channel source %q", conf.Channel.Source)
	}
}

func closeConsumer(consumer interface{ Close() error }) common.CloseFunc {
	return func(context.Context) error {
		err := consumer.Close()
		if err != nil {
			return fmt.Errorf("failed to close kafka consumer: %w", err)
		}

		return nil
	}
}

func noClose(context.Context) error {
	return nil
}
