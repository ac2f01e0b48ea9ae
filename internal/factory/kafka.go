package factory

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/IBM/sarama"
	"github.com/xdg-go/scram"

	"github.com/fleetsync/fleetsync/internal/config"
)

func CreateKafkaConsumer(kafkaConfig config.Kafka) (sarama.ConsumerGroup, error) {
	conf := sarama.NewConfig()

	// mandatory configuration
	conf.Consumer.Offsets.AutoCommit.Enable = true
	conf.Consumer.Return.Errors = true

	// only events published after startup matter, the initial state is fetched from the api
	conf.Consumer.Offsets.Initial = sarama.OffsetNewest

	// clientID
	conf.ClientID = computeClientID(kafkaConfig.Consumer.Group)

	// kafka version
	if kafkaConfig.Broker.Version != "" {
		version, err := sarama.ParseKafkaVersion(kafkaConfig.Broker.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to parse kafka version: %w", err)
		}

		conf.Version = version
	}

	err := setSASL(conf, kafkaConfig.Broker.Creds)
	if err != nil {
		return nil, err
	}

	// Kafka URLs
	urls := strings.Split(kafkaConfig.Broker.URLs, ",")

	// kafka consumer group
	ret, err := sarama.NewConsumerGroup(urls, kafkaConfig.Consumer.Group, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	return ret, nil
}

func setSASL(conf *sarama.Config, creds config.KafkaCreds) error {
	switch creds.Mechanism {
	case config.SASLMechanismNone:
		return nil
	case config.SASLMechanismPlain:
		conf.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	case config.SASLMechanismScramSHA256:
		conf.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		conf.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &scramClient{hashGenerator: scram.SHA256}
		}
	case config.SASLMechanismScramSHA512:
		conf.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
		conf.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &scramClient{hashGenerator: scram.SHA512}
		}
	default:
		return fmt.Errorf("unexpected sasl mechanism %q", creds.Mechanism)
	}

	conf.Net.SASL.Enable = true
	conf.Net.SASL.User = creds.Username
	conf.Net.SASL.Password = creds.Password

	return nil
}

func computeClientID(groupID string) string {
	prefix, err := os.Hostname()
	if err != nil {
		prefix = fmt.Sprintf("clientid-%v", groupID)
	}

	return fmt.Sprintf("%s-%x", prefix, rand.Int31())
}

// scramClient implements sarama.SCRAMClient.
type scramClient struct {
	hashGenerator scram.HashGeneratorFcn

	conversation *scram.ClientConversation
}

func (c *scramClient) Begin(userName, password, authzID string) error {
	client, err := c.hashGenerator.NewClient(userName, password, authzID)
	if err != nil {
		return fmt.Errorf("failed to create scram client: %w", err)
	}

	c.conversation = client.NewConversation()

	return nil
}

func (c *scramClient) Step(challenge string) (string, error) {
	return c.conversation.Step(challenge)
}

func (c *scramClient) Done() bool {
	return c.conversation.Done()
}
