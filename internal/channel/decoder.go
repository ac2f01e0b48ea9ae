package channel

import (
	"context"
	"errors"

	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// Decoder turns the raw envelopes of a push channel into typed events.
type Decoder struct {
	next pipeline.Processing[event.Event]
}

func NewDecoder(next pipeline.Processing[event.Event]) Decoder {
	return Decoder{next: next}
}

func (d Decoder) Process(ctx context.Context, raw entity.Event) error {
	e, err := event.Decode(raw)
	if err != nil {
		category := common.InvalidPayloadCategory
		if errors.Is(err, event.ErrUnknownEvent) {
			category = common.UnknownEventCategory
		}

		return pipeline.NewErrProcessingError(err, category, []pipeline.Input{{Source: "event", Key: "name", Value: []byte(raw.Name)}})
	}

	return d.next.Process(ctx, e)
}
