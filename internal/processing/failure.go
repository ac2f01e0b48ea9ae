package processing

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/fleetsync/fleetsync/internal/domain/repo"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// MainError sends the events which failed processing to the dead letter queue.
// Without a writer the failure is only logged.
type MainError struct {
	writer repo.ProcessingErrorWriter
	logger *logr.Logger
}

func NewMainError(writer repo.ProcessingErrorWriter) MainError {
	return MainError{
		writer: writer,
	}
}

func (m MainError) WithLogger(logger logr.Logger) MainError {
	m.logger = &logger

	return m
}

func (m MainError) Process(ctx context.Context, pErr pipeline.ErrProcessingError) error {
	if m.writer == nil {
		m.logInfo(0, "Event dropped", "error", pErr.Error(), "category", pErr.Category)

		return nil
	}

	err := m.writer.WriteProcessingError(ctx, pErr)
	if err != nil {
		return pipeline.NewErrRetryableError(err)
	}

	return nil
}

func (m MainError) logInfo(level int, msg string, keysAndValues ...any) {
	if m.logger == nil {
		return
	}

	m.logger.V(level).Info(msg, keysAndValues...)
}
