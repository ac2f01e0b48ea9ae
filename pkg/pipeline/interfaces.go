package pipeline

import "context"

//go:generate mockgen -source=interfaces.go -package=mock -destination=./mock/mock_pipeline.go

// Processing handles one payload. Decorators in this package wrap a Processing to add behavior.
type Processing[Payload any] interface {
	Process(context.Context, Payload) error
}

// ErrorProcessing receives the payloads that failed.
type ErrorProcessing Processing[ErrProcessingError]

// ProcessingFunc adapts a function to Processing.
type ProcessingFunc[Payload any] func(context.Context, Payload) error

func (f ProcessingFunc[Payload]) Process(ctx context.Context, payload Payload) error {
	return f(ctx, payload)
}
