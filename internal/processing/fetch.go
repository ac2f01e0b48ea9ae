package processing

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

var collectionKinds = map[string]store.Kind{
	event.CollectionHosts:         store.KindHosts,
	event.CollectionClusters:      store.KindClusters,
	event.CollectionSAPSystems:    store.KindSAPSystems,
	event.CollectionDatabases:     store.KindDatabases,
	event.CollectionCatalog:       store.KindCatalog,
	event.CollectionHealthSummary: store.KindHealthSummary,
	event.CollectionSettings:      store.KindSettings,
}

var errUnknownCollection = errors.New("unknown collection")

// fetchStarted flags the collection as loading and fetches it in the background.
func (m *Main) fetchStarted(ctx context.Context, e event.FetchStarted) error {
	kind, ok := collectionKinds[e.Collection]
	if !ok {
		return pipeline.NewErrProcessingError(fmt.Errorf("%w: %s", errUnknownCollection, e.Collection), common.InvalidPayloadCategory, nil)
	}

	if kind == store.KindCatalog {
		if m.catalogQuery == nil {
			return pipeline.NewErrProcessingError(fmt.Errorf("%w: catalog was never requested", errUnknownCollection), common.InvalidPayloadCategory, nil)
		}

		m.catalogRequested(ctx, event.CatalogRequested{Query: *m.catalogQuery, Force: true})

		return nil
	}

	m.apply(e.EventName(), store.SetLoading(kind, true))

	m.tasks.Go(ctx, "fetch_"+e.Collection, func(ctx context.Context) event.Event {
		ret, err := m.fetch(ctx, e.Collection)
		if err != nil {
			m.logError(err, "Fetch failed", "collection", e.Collection)

			return event.FetchFailed{Collection: e.Collection, Error: err.Error()}
		}

		return ret
	})

	return nil
}

func (m *Main) fetch(ctx context.Context, collection string) (event.Event, error) {
	switch collection {
	case event.CollectionHosts:
		hosts, err := m.backend.GetHosts(ctx)

		return event.HostsFetched{Hosts: hosts}, err
	case event.CollectionClusters:
		clusters, err := m.backend.GetClusters(ctx)

		return event.ClustersFetched{Clusters: clusters}, err
	case event.CollectionSAPSystems:
		systems, err := m.backend.GetSAPSystems(ctx)

		return event.SAPSystemsFetched{SAPSystems: systems}, err
	case event.CollectionDatabases:
		databases, err := m.backend.GetDatabases(ctx)

		return event.DatabasesFetched{Databases: databases}, err
	case event.CollectionHealthSummary:
		summary, err := m.backend.GetHealthSummary(ctx)

		return event.HealthSummaryFetched{Summary: summary}, err
	case event.CollectionSettings:
		settings, err := m.backend.GetSettings(ctx)

		return event.SettingsFetched{Settings: settings}, err
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownCollection, collection)
	}
}

// fetchFailed clears the collection data. An error means no trustworthy data.
func (m *Main) fetchFailed(e event.FetchFailed) error {
	kind, ok := collectionKinds[e.Collection]
	if !ok {
		return pipeline.NewErrProcessingError(fmt.Errorf("%w: %s", errUnknownCollection, e.Collection), common.InvalidPayloadCategory, nil)
	}

	m.apply(e.EventName(), store.SetError(kind, e.Error), store.SetLoading(kind, false))

	return nil
}

func (m *Main) fetched(name event.Name, kind store.Kind, mutation store.Mutation) {
	m.apply(name, mutation, store.SetLoading(kind, false))
}

// catalogRequested fetches the catalog only when the query changed, the previous fetch failed or the request is forced.
// Responses are applied in arrival order: the last one wins.
func (m *Main) catalogRequested(ctx context.Context, e event.CatalogRequested) {
	unchanged := m.catalogQuery != nil && *m.catalogQuery == e.Query
	if unchanged && !e.Force && m.store.State().Status(store.KindCatalog).Error == "" {
		m.logInfo(2, "Catalog query unchanged, fetch skipped", "provider", e.Query.Provider)

		return
	}

	query := e.Query
	m.catalogQuery = &query

	m.apply(e.EventName(), store.SetLoading(store.KindCatalog, true))

	m.tasks.Go(ctx, "fetch_catalog", func(ctx context.Context) event.Event {
		checks, err := m.backend.GetCatalog(ctx, query)
		if err != nil {
			m.logError(err, "Catalog fetch failed", "provider", query.Provider)

			return event.FetchFailed{Collection: event.CollectionCatalog, Error: err.Error()}
		}

		return event.CatalogFetched{Query: query, Checks: checks}
	})
}
