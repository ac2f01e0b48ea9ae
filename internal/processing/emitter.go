package processing

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

const (
	DefaultNotificationBuffer = 64
	DefaultLiveFeedSize       = 1000
)

const (
	IconInfo      = "ℹ️"
	IconSaved     = "💾"
	IconError     = "❌"
	IconRequested = "🐰"
	IconCompleted = "🏁"
	IconAlive     = "❤️"
	IconFailing   = "💔"
)

// Emitter produces the side outputs of the watchers: live feed entries and notifications.
// Both are plain data, rendering them is up to the consumer.
type Emitter struct {
	store *store.Store
	clock clockwork.Clock

	notifications chan entity.Notification
	liveFeed      pipeline.Processing[entity.LiveFeedEntry]
	liveFeedSize  int

	logger *logr.Logger
}

func NewEmitter(s *store.Store, clock clockwork.Clock, buffer int) *Emitter {
	if buffer <= 0 {
		buffer = DefaultNotificationBuffer
	}

	return &Emitter{
		store:         s,
		clock:         clock,
		notifications: make(chan entity.Notification, buffer),
		liveFeedSize:  DefaultLiveFeedSize,
	}
}

// WithLiveFeedSize bounds the live feed kept in memory.
func (e *Emitter) WithLiveFeedSize(size int) *Emitter {
	if size > 0 {
		e.liveFeedSize = size
	}

	return e
}

// WithLiveFeed persists every live feed entry through p.
func (e *Emitter) WithLiveFeed(p pipeline.Processing[entity.LiveFeedEntry]) *Emitter {
	e.liveFeed = p

	return e
}

func (e *Emitter) WithLogger(logger logr.Logger) *Emitter {
	e.logger = &logger

	return e
}

// Notifications streams the notifications. When nobody reads them, the oldest ones are dropped.
func (e *Emitter) Notifications() <-chan entity.Notification {
	return e.notifications
}

func (e *Emitter) Notify(text, icon string) {
	notification := entity.Notification{
		ID:   uuid.NewString(),
		Text: text,
		Icon: icon,
	}

	for {
		select {
		case e.notifications <- notification:
			return
		default:
		}

		select {
		case dropped := <-e.notifications:
			e.logInfo(1, "Notification dropped", "text", dropped.Text)
		default:
		}
	}
}

// Record prepends an entry to the live feed.
func (e *Emitter) Record(ctx context.Context, source, message string) {
	entry := entity.LiveFeedEntry{
		Time:    e.clock.Now().UTC(),
		Source:  source,
		Message: message,
	}

	e.store.Apply(store.PrependLiveFeedEntry(entry, e.liveFeedSize))

	if e.liveFeed == nil {
		return
	}

	err := e.liveFeed.Process(ctx, entry)
	if err != nil {
		e.logError(err, "Failed to persist live feed entry", "source", source)
	}
}

func (e *Emitter) logInfo(level int, msg string, keysAndValues ...any) {
	if e.logger == nil {
		return
	}

	e.logger.V(level).Info(msg, keysAndValues...)
}

func (e *Emitter) logError(err error, msg string, keysAndValues ...any) {
	if e.logger == nil {
		return
	}

	e.logger.Error(err, msg, keysAndValues...)
}
