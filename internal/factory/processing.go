package factory

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fleetsync/fleetsync/internal/config"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/domain/repo"
	"github.com/fleetsync/fleetsync/internal/log"
	"github.com/fleetsync/fleetsync/internal/processing"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

/*
 * DecorateProcessing decorates the processing as follow:
 *
 * panic --> duration --> late events --> event count --> main (store mutations + follow-up tasks)
 */
func DecorateProcessing(mainProcessing pipeline.Processing[event.Event], state processing.Versioned, registry prometheus.Registerer, clock clockwork.Clock) (pipeline.Processing[event.Event], error) {
	metricsConfig := pipeline.MetricsConfig{Namespace: "main"}

	ret, err := processing.NewCountEvents(mainProcessing, state, registry, metricsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create event count processing: %w", err)
	}

	ret, err = processing.NewCountLateEvents(ret, registry, clock, processing.DefaultLateThreshold, metricsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create late event count processing: %w", err)
	}

	ret, err = pipeline.NewDurationMetricsDecoratorProcessing(ret, registry, clock, metricsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration metrics processor: %w", err)
	}

	ret = pipeline.NewPanicHandlerProcessing(ret)

	return ret, nil
}

/*
 * DecorateErrorProcessing decorates the error processing as follow:
 *
 *										---> retry --> main (dlq)
 *	panic --> duration --> parallel ---|
 *										---> error count
 */
func DecorateErrorProcessing(mainProcessing pipeline.ErrorProcessing, registry prometheus.Registerer, clock clockwork.Clock, retryConf config.Retry) (pipeline.ErrorProcessing, error) {
	ret := mainProcessing

	ret = pipeline.NewRetryProcessing(ret, retryConfig(retryConf, "dlq"))

	errorCount, err := pipeline.NewErrorCountProcessing(registry, pipeline.MetricsConfig{Namespace: "error"})
	if err != nil {
		return nil, fmt.Errorf("failed to create error count processing: %w", err)
	}

	ret = pipeline.NewParallelProcessing(ret, errorCount)

	ret, err = pipeline.NewDurationMetricsDecoratorProcessing(ret, registry, clock, pipeline.MetricsConfig{Namespace: "error"})
	if err != nil {
		return nil, fmt.Errorf("failed to create duration metrics processor: %w", err)
	}

	ret = pipeline.NewPanicHandlerProcessing(ret)

	return ret, nil
}

/*
 * DecorateLiveFeedWriter decorates the live feed persistence as follow:
 *
 * panic --> duration --> retry --> writer (valkey)
 */
func DecorateLiveFeedWriter(writer repo.LiveFeedWriter, registry prometheus.Registerer, clock clockwork.Clock, retryConf config.Retry) (pipeline.Processing[entity.LiveFeedEntry], error) {
	var ret pipeline.Processing[entity.LiveFeedEntry] = processing.NewLiveFeedWriter(writer)

	ret = pipeline.NewRetryProcessing(ret, retryConfig(retryConf, "live_feed"))

	ret, err := pipeline.NewDurationMetricsDecoratorProcessing(ret, registry, clock, pipeline.MetricsConfig{Namespace: "live_feed"})
	if err != nil {
		return nil, fmt.Errorf("failed to create duration metrics processor: %w", err)
	}

	ret = pipeline.NewPanicHandlerProcessing(ret)

	return ret, nil
}

func retryConfig(conf config.Retry, name string) pipeline.RetryConfig {
	logger := log.Component("retry").WithValues("processing", name)

	return pipeline.RetryConfig{
		MaxAttempt: conf.MaxAttempt,
		Delay:      conf.Delay,
		OnRetry: func(attempt uint, err error) {
			logger.V(1).Info("Retrying", "attempt", attempt, "error", err.Error())
		},
	}
}
