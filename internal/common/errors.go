package common

import (
	"context"
	"fmt"

	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// Processing error categories of the ingestion pipeline.
const (
	UnknownEventCategory   = "unknown_event"
	InvalidPayloadCategory = "invalid_payload"
)

// CloseFunc releases a resource created by a factory.
type CloseFunc func(context.Context) error

func NewErrProcessingError(err error, category string, inputs []pipeline.Input, reason string, args ...interface{}) pipeline.ErrProcessingError {
	cause := fmt.Sprintf(reason, args...)
	dErr := fmt.Errorf("%s: %w", cause, err)

	return pipeline.NewErrProcessingError(dErr, category, inputs)
}

func NewRetryableErrProcessingError(err error, category string, inputs []pipeline.Input, reason string, args ...interface{}) pipeline.ErrProcessingError {
	return NewErrProcessingError(pipeline.NewErrRetryableError(err), category, inputs, reason, args...)
}
