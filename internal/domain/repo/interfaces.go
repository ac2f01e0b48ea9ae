package repo

import (
	"context"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

//go:generate mockgen -source=interfaces.go -package=mock -destination=./mock/mock_repo.go

// ProcessingErrorWriter is the dead-letter queue of the events that could not be applied.
type ProcessingErrorWriter interface {
	WriteProcessingError(ctx context.Context, pErr pipeline.ErrProcessingError) error
}

// LiveFeedWriter persists the live feed entries so they survive a restart.
type LiveFeedWriter interface {
	WriteLiveFeedEntry(ctx context.Context, entry entity.LiveFeedEntry) error
}

type LiveFeedReader interface {
	// GetLiveFeed returns the persisted entries, newest first.
	GetLiveFeed(ctx context.Context) ([]entity.LiveFeedEntry, error)
}

type LiveFeed interface {
	LiveFeedWriter
	LiveFeedReader
}
