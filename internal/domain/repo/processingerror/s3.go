package processingerror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/common/version"

	"github.com/fleetsync/fleetsync/internal/log"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

const (
	unknownHostname = "<unknown>"
	unknown         = "unknown"
)

// S3Writer is the dead-letter queue of the ingestion pipeline: every failed event lands in its own object,
// under <prefix>/<yyyy>/<mm>/<dd>/<channel>/<topic>/<category>/<uuid>.json
type S3Writer struct {
	client *s3.Client
	clock  clockwork.Clock

	bucket string
	prefix string
	host   string
}

func NewS3Writer(client *s3.Client, clock clockwork.Clock, bucket string, prefix string) S3Writer {
	host, err := os.Hostname()
	if err != nil {
		log.Component("dlq").Error(err, "Hostname not available", "fallback", unknownHostname)

		host = unknownHostname
	}

	return S3Writer{
		client: client,
		clock:  clock,
		bucket: bucket,
		prefix: strings.TrimSuffix(prefix, "/"),
		host:   host,
	}
}

func (w S3Writer) WriteProcessingError(ctx context.Context, pErr pipeline.ErrProcessingError) error {
	now := w.clock.Now().UTC()

	body, err := json.Marshal(w.deadLetter(pErr, now))
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	_, err = w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(w.objectKey(pErr, now, uuid.NewString())),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to write dead letter: %w", err)
	}

	return nil
}

func (w S3Writer) deadLetter(pErr pipeline.ErrProcessingError, now time.Time) DeadLetter {
	ret := DeadLetter{
		Writer: Writer{
			Host:     w.host,
			Version:  version.Version,
			Revision: version.Revision,
		},
		FailedAt: now,
		Reason: Reason{
			Category: pErr.Category,
			Error:    pErr.Error(),
		},
	}

	if pErr.Source != nil {
		ret.Event = eventName(*pErr.Source)
		ret.Origin = &Origin{
			Channel:    pErr.Source.Channel,
			Topic:      pErr.Source.Topic,
			Partition:  pErr.Source.Partition,
			Offset:     pErr.Source.Offset,
			Key:        pErr.Source.Key,
			Raw:        pErr.Source.Value,
			ReceivedAt: pErr.Source.ReceivedAt,
		}
	}

	for _, input := range pErr.AdditionalInputs {
		ret.Inputs = append(ret.Inputs, Input(input))
	}

	return ret
}

// eventName reads the event name out of a raw phoenix frame or kafka envelope. It is empty when the raw value is not decodable.
func eventName(source pipeline.Source) string {
	switch source.Channel {
	case pipeline.ChannelWebsocket:
		var frame []json.RawMessage

		err := json.Unmarshal(source.Value, &frame)
		if err != nil || len(frame) < 4 {
			return ""
		}

		var name string
		_ = json.Unmarshal(frame[3], &name)

		return name
	case pipeline.ChannelKafka:
		var envelope struct {
			Name string `json:"name"`
		}

		_ = json.Unmarshal(source.Value, &envelope)

		return envelope.Name
	default:
		return ""
	}
}

func (w S3Writer) objectKey(pErr pipeline.ErrProcessingError, now time.Time, id string) string {
	channel, topic, category := unknown, unknown, unknown

	if pErr.Source != nil && pErr.Source.Channel != "" {
		channel = pErr.Source.Channel
	}

	if pErr.Source != nil && pErr.Source.Topic != "" {
		topic = strings.ReplaceAll(pErr.Source.Topic, ":", "_")
	}

	if pErr.Category != "" {
		category = pErr.Category
	}

	parts := []string{now.Format("2006/01/02"), channel, topic, category, id + ".json"}
	if w.prefix != "" {
		parts = append([]string{w.prefix}, parts...)
	}

	return strings.Join(parts, "/")
}
