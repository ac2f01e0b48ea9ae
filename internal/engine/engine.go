package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/fleetsync/fleetsync/internal/channel"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/domain/repo"
	"github.com/fleetsync/fleetsync/internal/processing"
	"github.com/fleetsync/fleetsync/internal/selectors"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// Collections fetched at startup, in this order.
var initialCollections = []string{
	event.CollectionHealthSummary,
	event.CollectionSettings,
	event.CollectionHosts,
	event.CollectionClusters,
	event.CollectionSAPSystems,
	event.CollectionDatabases,
}

var (
	ErrUnknownTarget = errors.New("unknown target")
	ErrNotReady      = errors.New("not ready")
)

// Engine owns the store and every piece writing to it. All writes go through its ingestion queue.
type Engine struct {
	store     *store.Store
	queue     *pipeline.Queue[event.Event]
	tasks     *processing.Tasks
	emitter   *processing.Emitter
	debounce  *processing.Debouncer
	selectors selectors.Selectors
	clock     clockwork.Clock

	liveFeed repo.LiveFeedReader
	catalog  *entity.CatalogQuery
	started  atomic.Bool

	logger *logr.Logger
}

// New binds the tasks to the queue, so their results are applied in arrival order like any pushed event.
func New(s *store.Store, queue *pipeline.Queue[event.Event], tasks *processing.Tasks, emitter *processing.Emitter, debounce *processing.Debouncer, sel selectors.Selectors, clock clockwork.Clock) *Engine {
	tasks.Bind(queue)

	return &Engine{
		store:     s,
		queue:     queue,
		tasks:     tasks,
		emitter:   emitter,
		debounce:  debounce,
		selectors: sel,
		clock:     clock,
	}
}

// WithLiveFeed restores the persisted live feed on connect.
func (e *Engine) WithLiveFeed(reader repo.LiveFeedReader) *Engine {
	e.liveFeed = reader

	return e
}

// WithCatalog requests the catalog matching query on connect.
func (e *Engine) WithCatalog(query entity.CatalogQuery) *Engine {
	e.catalog = &query

	return e
}

func (e *Engine) WithLogger(logger logr.Logger) *Engine {
	e.logger = &logger

	return e
}

// Connect starts the ingestion queue, requests the initial data then consumes ch until ctx is done.
func (e *Engine) Connect(ctx context.Context, ch channel.Channel) error {
	e.restoreLiveFeed(ctx)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return e.queue.Start(gCtx)
	})

	err := e.initialFetch(gCtx)
	if err != nil {
		return err
	}

	e.started.Store(true)
	defer e.started.Store(false)

	g.Go(func() error {
		return ch.Start(gCtx)
	})

	err = g.Wait()

	e.debounce.Stop()
	e.tasks.Wait()

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// Ready fails until every initial collection is loaded, then while one of them is failing.
func (e *Engine) Ready() error {
	if !e.started.Load() {
		return fmt.Errorf("%w: not connected", ErrNotReady)
	}

	state := e.store.State()

	for _, collection := range initialCollections {
		status := state.Status(store.Kind(collection))

		switch {
		case status.Error != "":
			return fmt.Errorf("%w: %s: %s", ErrNotReady, collection, status.Error)
		case !status.Loaded:
			return fmt.Errorf("%w: %s not loaded", ErrNotReady, collection)
		}
	}

	return nil
}

func (e *Engine) Store() *store.Store {
	return e.store
}

func (e *Engine) Selectors() selectors.Selectors {
	return e.selectors
}

func (e *Engine) Notifications() <-chan entity.Notification {
	return e.emitter.Notifications()
}

// Refetch issues again the fetch of a collection, usually after it failed.
func (e *Engine) Refetch(ctx context.Context, collection string) error {
	return e.enqueue(ctx, event.FetchStarted{Collection: collection})
}

// RefreshCatalog fetches the catalog when query changed since the last request, or when forced.
func (e *Engine) RefreshCatalog(ctx context.Context, query entity.CatalogQuery, force bool) error {
	return e.enqueue(ctx, event.CatalogRequested{Query: query, Force: force})
}

func (e *Engine) SelectChecks(ctx context.Context, targetType entity.TargetType, groupID string, checks []string) error {
	if checks == nil {
		checks = []string{}
	}

	return e.enqueue(ctx, event.ChecksSelected{GroupID: groupID, TargetType: targetType, Checks: checks})
}

// RequestExecution runs the selected checks of a cluster on its hosts, or of a host on itself.
func (e *Engine) RequestExecution(ctx context.Context, targetType entity.TargetType, groupID string) error {
	state := e.store.State()

	var hostIDs, checks []string

	switch targetType {
	case entity.TargetTypeCluster:
		cluster, ok := state.Clusters.Get(groupID)
		if !ok {
			return fmt.Errorf("%w: cluster %s", ErrUnknownTarget, groupID)
		}

		for _, host := range selectors.ClusterHosts(state, groupID) {
			hostIDs = append(hostIDs, host.ID)
		}

		checks = cluster.SelectedChecks
	case entity.TargetTypeHost:
		host, ok := state.Hosts.Get(groupID)
		if !ok {
			return fmt.Errorf("%w: host %s", ErrUnknownTarget, groupID)
		}

		hostIDs = []string{host.ID}
		checks = host.SelectedChecks
	default:
		return fmt.Errorf("%w: target type %q", ErrUnknownTarget, targetType)
	}

	return e.enqueue(ctx, event.ExecutionRequested{GroupID: groupID, TargetType: targetType, HostIDs: hostIDs, Checks: checks})
}

func (e *Engine) FetchLastExecution(ctx context.Context, groupID string) error {
	return e.enqueue(ctx, event.LastExecutionRequested{GroupID: groupID})
}

func (e *Engine) initialFetch(ctx context.Context) error {
	for _, collection := range initialCollections {
		err := e.enqueue(ctx, event.FetchStarted{Collection: collection})
		if err != nil {
			return fmt.Errorf("failed to request %s: %w", collection, err)
		}
	}

	if e.catalog == nil {
		return nil
	}

	return e.RefreshCatalog(ctx, *e.catalog, false)
}

func (e *Engine) restoreLiveFeed(ctx context.Context) {
	if e.liveFeed == nil {
		return
	}

	entries, err := e.liveFeed.GetLiveFeed(ctx)
	if err != nil {
		e.logError(err, "Failed to restore the live feed")

		return
	}

	if e.store.Apply(store.RestoreLiveFeed(entries)) {
		e.logInfo(0, "Live feed restored", "entries", len(entries))
	}
}

func (e *Engine) enqueue(ctx context.Context, ev event.Event) error {
	ctx = pipeline.ContextWithSource(ctx, pipeline.Source{
		Channel:    pipeline.ChannelInternal,
		Topic:      string(ev.EventName()),
		ReceivedAt: e.clock.Now(),
	})

	return e.queue.Process(ctx, ev)
}

func (e *Engine) logInfo(level int, msg string, keysAndValues ...any) {
	if e.logger == nil {
		return
	}

	e.logger.V(level).Info(msg, keysAndValues...)
}

func (e *Engine) logError(err error, msg string, keysAndValues ...any) {
	if e.logger == nil {
		return
	}

	e.logger.Error(err, msg, keysAndValues...)
}
