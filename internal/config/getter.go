package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const prefix = "FLEETSYNC"

// Parse reads the configuration file given as parameter, then the environment.
// envFile, when set, is loaded into the environment first; existing variables win.
func Parse(confFile string, envFile string) (*Config, error) {
	if len(envFile) > 0 {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %v: %w", envFile, err)
		}
	}

	v := viper.New()

	setDefault(v)

	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match

	if len(confFile) > 0 {
		v.SetConfigFile(confFile)

		err := v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %v: %w", confFile, err)
		}
	}

	conf := Config{}

	err := v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	err = validate(conf)
	if err != nil {
		return nil, err
	}

	return &conf, nil
}

func validate(c Config) error {
	if c.Runtime.MemLimitRatio <= 0 || c.Runtime.MemLimitRatio > 1 {
		return fmt.Errorf("runtime.memLimitRatio must be in ]0, 1], got %v", c.Runtime.MemLimitRatio)
	}

	if c.API.BaseURL == "" {
		return errors.New("api.baseURL is required")
	}

	switch c.Channel.Source {
	case ChannelSourceWebsocket:
		if c.Channel.URL == "" {
			return errors.New("channel.url is required with a websocket channel")
		}
	case ChannelSourceKafka:
		if c.Kafka.Broker.URLs == "" || c.Kafka.Consumer.Topic == "" {
			return errors.New("kafka.broker.urls and kafka.consumer.topic are required with a kafka channel")
		}
	default:
		return fmt.Errorf("unexpected channel source %q", c.Channel.Source)
	}

	return nil
}

func setDefault(v *viper.Viper) {
	v.SetDefault("gracefulDuration", "10s")
	v.SetDefault("runtime.memLimitRatio", 0.9)
	v.SetDefault("logs.level", 0)
	v.SetDefault("logs.encoder", EncoderTypeConsole)
	v.SetDefault("metrics.port", 7777)
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.rateLimit", 20)
	v.SetDefault("api.burst", 10)
	v.SetDefault("channel.source", ChannelSourceWebsocket)
	v.SetDefault("channel.reconnectDelay", "5s")
	v.SetDefault("channel.heartbeatInterval", "30s")
	v.SetDefault("kafka.consumer.group", "fleetsync")
	v.SetDefault("valkey.liveFeedKey", "fleetsync:live_feed")
	v.SetDefault("valkey.liveFeedSize", 1000)
	v.SetDefault("retry.maxAttempt", 3)
	v.SetDefault("retry.delay", "500ms")
	v.SetDefault("queue.size", 1024)
	v.SetDefault("cache.size", 256)
	v.SetDefault("healthSummary.debounce", "5s")

	// Keys without a default are only read from the environment when declared
	for _, key := range []string{
		"api.baseURL", "api.token", "channel.url", "channel.token",
		"kafka.broker.urls", "kafka.broker.version", "kafka.broker.creds.mechanism",
		"kafka.broker.creds.username", "kafka.broker.creds.password", "kafka.consumer.topic",
		"valkey.url", "valkey.creds.password",
		"deadLetterQueue.bucket", "deadLetterQueue.keyPrefix", "deadLetterQueue.baseEndpoint", "deadLetterQueue.region",
		"deadLetterQueue.creds.accessKeyID", "deadLetterQueue.creds.secretAccessKey",
		"catalog.provider", "catalog.targetType", "catalog.clusterType", "catalog.arch",
	} {
		_ = v.BindEnv(key)
	}
}
