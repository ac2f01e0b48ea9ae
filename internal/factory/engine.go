package factory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fleetsync/fleetsync/internal/channel"
	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/config"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/domain/repo"
	"github.com/fleetsync/fleetsync/internal/domain/repo/livefeed"
	"github.com/fleetsync/fleetsync/internal/domain/repo/processingerror"
	"github.com/fleetsync/fleetsync/internal/engine"
	"github.com/fleetsync/fleetsync/internal/log"
	"github.com/fleetsync/fleetsync/internal/processing"
	"github.com/fleetsync/fleetsync/internal/selectors"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// CreateEngine wires the store, the ingestion queue and its processing, the optional live feed copy
// and dead-letter queue, then the push channel. The returned CloseFunc releases every created client.
func CreateEngine(ctx context.Context, conf config.Config, registry prometheus.Registerer) (*engine.Engine, channel.Channel, common.CloseFunc, error) {
	clock := clockwork.NewRealClock()
	closer := closers{}

	s := store.New().WithLogger(log.Component("store"))

	backend, err := CreateAPIClient(conf.API, conf.Retry)
	if err != nil {
		return nil, nil, nil, err
	}

	// Live feed copy
	var liveFeed repo.LiveFeed

	if conf.Valkey.URL != "" {
		client, closeFn, err := CreateValkeyClient(ctx, conf.Valkey)
		if err != nil {
			return nil, nil, nil, err
		}

		closer = append(closer, closeFn)
		liveFeed = livefeed.NewValkeyRepo(client, conf.Valkey.LiveFeedKey, conf.Valkey.LiveFeedSize)
	}

	emitter := processing.NewEmitter(s, clock, processing.DefaultNotificationBuffer).
		WithLiveFeedSize(int(conf.Valkey.LiveFeedSize)).
		WithLogger(log.Component("emitter"))

	if liveFeed != nil {
		writer, err := DecorateLiveFeedWriter(liveFeed, registry, clock, conf.Retry)
		if err != nil {
			return nil, nil, closer.close, err
		}

		emitter = emitter.WithLiveFeed(writer)
	}

	// Dead-letter queue
	var errorWriter repo.ProcessingErrorWriter

	if conf.DeadLetterQueue.Bucket != "" {
		s3Client, err := CreateS3Client(ctx, conf.DeadLetterQueue)
		if err != nil {
			return nil, nil, closer.close, err
		}

		errorWriter = processingerror.NewS3Writer(s3Client, clock, conf.DeadLetterQueue.Bucket, conf.DeadLetterQueue.KeyPrefix)
	}

	errorProcessing, err := DecorateErrorProcessing(processing.NewMainError(errorWriter).WithLogger(log.Component("error")), registry, clock, conf.Retry)
	if err != nil {
		return nil, nil, closer.close, err
	}

	// Main processing
	tasks := processing.NewTasks(clock).WithLogger(log.Component("tasks"))
	debounce := processing.NewDebouncer(clock, conf.HealthSummary.Debounce)
	main := processing.NewMain(s, backend, emitter, tasks, debounce).WithLogger(log.Component("main"))

	mainProcessing, err := DecorateProcessing(main, s, registry, clock)
	if err != nil {
		return nil, nil, closer.close, err
	}

	queue, err := pipeline.NewQueue[event.Event](conf.Queue.Size, mainProcessing, errorProcessing).
		WithLogger(log.Component("queue")).
		WithDepthGauge(registry, pipeline.MetricsConfig{Namespace: "main"})
	if err != nil {
		return nil, nil, closer.close, fmt.Errorf("failed to create queue: %w", err)
	}

	memo, err := selectors.NewMemo(conf.Cache.Size)
	if err != nil {
		return nil, nil, closer.close, fmt.Errorf("failed to create selectors cache: %w", err)
	}

	ret := engine.New(s, queue, tasks, emitter, debounce, selectors.New(s, memo), clock).WithLogger(log.Component("engine"))

	if liveFeed != nil {
		ret = ret.WithLiveFeed(liveFeed)
	}

	if query, ok := catalogQuery(conf.Catalog); ok {
		ret = ret.WithCatalog(query)
	}

	// Push channel
	ch, closeFn, err := CreateChannel(conf, queue, errorProcessing, clock)
	if err != nil {
		return nil, nil, closer.close, err
	}

	closer = append(closer, closeFn)

	return ret, ch, closer.close, nil
}

// catalogQuery is false when no catalog scope is configured.
func catalogQuery(conf config.Catalog) (entity.CatalogQuery, bool) {
	query := entity.CatalogQuery{
		Provider:    conf.Provider,
		TargetType:  conf.TargetType,
		ClusterType: conf.ClusterType,
		Arch:        conf.Arch,
	}

	return query, query != entity.CatalogQuery{}
}

type closers []common.CloseFunc

// close runs every CloseFunc, last created first.
func (c closers) close(ctx context.Context) error {
	var errs []error

	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i](ctx))
	}

	return errors.Join(errs...)
}
