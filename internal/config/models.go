package config

import "time"

type Config struct {
	GracefulDuration time.Duration
	Runtime          Runtime
	Metrics          Metrics
	Logs             Logs
	API              API
	Channel          Channel
	Kafka            Kafka
	Valkey           Valkey
	DeadLetterQueue  S3
	Retry            Retry
	Queue            Queue
	Cache            Cache
	HealthSummary    HealthSummary
	Catalog          Catalog
}

// Runtime tunes the go runtime to the container limits.
type Runtime struct {
	MemLimitRatio float64
}

type Metrics struct {
	Port int
}

type Logs struct {
	Level   int
	Encoder EncoderType
}

type EncoderType string

const (
	EncoderTypeJson    EncoderType = "json"
	EncoderTypeConsole EncoderType = "console"
)

// Secret hides its value when printed.
type Secret string

func (s Secret) String() string {
	if s != "" {
		return "secret set"
	}

	return "no secret"
}

// API is the HTTP API of the monitoring server.
type API struct {
	BaseURL   string
	Token     Secret
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

type ChannelSource string

const (
	ChannelSourceWebsocket ChannelSource = "websocket"
	ChannelSourceKafka     ChannelSource = "kafka"
)

// Channel is the push channel events are received from.
type Channel struct {
	Source            ChannelSource
	URL               string
	Token             Secret
	ReconnectDelay    time.Duration
	HeartbeatInterval time.Duration
}

type S3 struct {
	Bucket       string
	KeyPrefix    string
	BaseEndpoint string
	Region       string
	UsePathStyle bool
	Creds        AWSCreds
}

type AWSCreds struct {
	AccessKeyID     string
	SecretAccessKey string
}

func (c AWSCreds) String() string {
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		return "creds set"
	}

	return "no creds"
}

type Kafka struct {
	Broker   KafkaBroker
	Consumer KafkaConsumer
}

type KafkaBroker struct {
	URLs    string
	Version string
	Creds   KafkaCreds
}

type SASLMechanism string

const (
	SASLMechanismNone        SASLMechanism = ""
	SASLMechanismPlain       SASLMechanism = "PLAIN"
	SASLMechanismScramSHA256 SASLMechanism = "SCRAM-SHA-256"
	SASLMechanismScramSHA512 SASLMechanism = "SCRAM-SHA-512"
)

type KafkaCreds struct {
	Mechanism SASLMechanism
	Username  string
	Password  string
}

func (c KafkaCreds) String() string {
	if c.Mechanism == SASLMechanismNone {
		return "no sasl"
	}

	return string(c.Mechanism) + " creds set"
}

type KafkaConsumer struct {
	Topic string
	Group string
}

// Valkey stores a copy of the live feed. An empty URL disables it.
type Valkey struct {
	URL          string
	Creds        ValkeyCreds
	LiveFeedKey  string
	LiveFeedSize int64
}

type ValkeyCreds struct {
	Password string
}

func (c ValkeyCreds) String() string {
	if c.Password != "" {
		return "password set"
	}

	return "no password"
}

type Retry struct {
	MaxAttempt uint
	Delay      time.Duration
}

type Queue struct {
	Size int
}

// Cache sizes the selectors cache.
type Cache struct {
	Size int
}

type HealthSummary struct {
	Debounce time.Duration
}

// Catalog is the checks catalog scope fetched at startup.
type Catalog struct {
	Provider    string
	TargetType  string
	ClusterType string
	Arch        string
}
