package processing

import (
	"context"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/repo"
)

// LiveFeedWriter adapts a live feed repo to the processing decorators.
type LiveFeedWriter struct {
	repo repo.LiveFeedWriter
}

func NewLiveFeedWriter(repo repo.LiveFeedWriter) LiveFeedWriter {
	return LiveFeedWriter{repo: repo}
}

func (w LiveFeedWriter) Process(ctx context.Context, entry entity.LiveFeedEntry) error {
	return w.repo.WriteLiveFeedEntry(ctx, entry)
}
