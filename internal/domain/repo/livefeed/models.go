package livefeed

import (
	"time"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

type Entry struct {
	Time    time.Time `json:"time"`
	Source  string    `json:"source"`
	Message string    `json:"message"`
}

func mapToModel(entry entity.LiveFeedEntry) Entry {
	return Entry{
		Time:    entry.Time.UTC(),
		Source:  entry.Source,
		Message: entry.Message,
	}
}

func mapToEntity(model Entry) entity.LiveFeedEntry {
	return entity.LiveFeedEntry{
		Time:    model.Time,
		Source:  model.Source,
		Message: model.Message,
	}
}
