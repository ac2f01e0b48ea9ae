package processing

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

// Events refreshing the health summary once they stop flowing.
var healthSummaryTriggers = map[event.Name]bool{
	event.NameHostRegistered:         true,
	event.NameClusterRegistered:      true,
	event.NameDatabaseRegistered:     true,
	event.NameSAPSystemRegistered:    true,
	event.NameHeartbeatFailed:        true,
	event.NameHeartbeatSucceded:      true,
	event.NameDatabaseHealthChanged:  true,
	event.NameSAPSystemHealthChanged: true,
	event.NameClusterHealthChanged:   true,
	event.NameSAPSystemDeregistered:  true,
	event.NameClusterDeregistered:    true,
	event.NameHostHealthChanged:      true,
	event.NameHostDeregistered:       true,
	event.NameHostRestored:           true,
	event.NameDatabaseRestored:       true,
	event.NameClusterRestored:        true,
	event.NameSAPSystemRestored:      true,
}

// Main maps every event to its store mutations and side effects.
// It is driven by a single consumer and is not safe for concurrent use.
type Main struct {
	store    *store.Store
	backend  Backend
	emitter  *Emitter
	tasks    *Tasks
	debounce *Debouncer

	// last catalog query requested, nil until the first request or after a failure
	catalogQuery *entity.CatalogQuery

	logger *logr.Logger
}

func NewMain(s *store.Store, backend Backend, emitter *Emitter, tasks *Tasks, debounce *Debouncer) *Main {
	return &Main{
		store:    s,
		backend:  backend,
		emitter:  emitter,
		tasks:    tasks,
		debounce: debounce,
	}
}

func (m *Main) WithLogger(logger logr.Logger) *Main {
	m.logger = &logger

	return m
}

func (m *Main) Process(ctx context.Context, e event.Event) error {
	m.logInfo(3, "Processing event", "event", e.EventName())

	err := m.dispatch(ctx, e)
	if err != nil {
		return err
	}

	if healthSummaryTriggers[e.EventName()] {
		m.debounce.Trigger(string(e.EventName()), func() {
			m.tasks.Enqueue(context.WithoutCancel(ctx), event.HealthSummaryRequested{})
		})
	}

	return nil
}

//nolint:gocyclo,cyclop
func (m *Main) dispatch(ctx context.Context, e event.Event) error {
	switch ev := e.(type) {
	// Hosts
	case event.HostRegistered:
		m.hostRegistered(ctx, ev)
	case event.HostDetailsUpdated:
		return m.hostDetailsUpdated(ctx, ev)
	case event.HeartbeatSucceded:
		m.heartbeatSucceded(ctx, ev)
	case event.HeartbeatFailed:
		m.heartbeatFailed(ctx, ev)
	case event.HostDeregistered:
		m.hostDeregistered(ctx, ev)
	case event.HostRestored:
		m.hostRestored(ctx, ev)
	case event.HostHealthChanged:
		m.hostHealthChanged(ctx, ev)
	case event.SaptuneStatusUpdated:
		m.saptuneStatusUpdated(ctx, ev)

	// Clusters
	case event.ClusterRegistered:
		m.clusterRegistered(ctx, ev)
	case event.ClusterDetailsUpdated:
		return m.clusterDetailsUpdated(ctx, ev)
	case event.ChecksExecutionStarted:
		m.checksExecutionStarted(ctx, ev)
	case event.ChecksExecutionCompleted:
		m.checksExecutionCompleted(ctx, ev)
	case event.ChecksResultsUpdated:
		m.checksResultsUpdated(ctx, ev)
	case event.ClusterHealthChanged:
		m.clusterHealthChanged(ctx, ev)
	case event.ClusterCibLastWrittenUpdated:
		m.clusterCibLastWrittenUpdated(ev)
	case event.ClusterDeregistered:
		m.clusterDeregistered(ctx, ev)
	case event.ClusterRestored:
		m.clusterRestored(ctx, ev)

	// SAP systems
	case event.SAPSystemRegistered:
		m.sapSystemRegistered(ctx, ev)
	case event.SAPSystemHealthChanged:
		m.sapSystemHealthChanged(ctx, ev)
	case event.SAPSystemDeregistered:
		m.sapSystemDeregistered(ctx, ev)
	case event.SAPSystemRestored:
		m.sapSystemRestored(ctx, ev)
	case event.SAPSystemUpdated:
		m.sapSystemUpdated(ev)
	case event.ApplicationInstanceRegistered:
		m.applicationInstanceRegistered(ev)
	case event.ApplicationInstanceMoved:
		m.applicationInstanceMoved(ctx, ev)
	case event.ApplicationInstanceAbsentAtChanged:
		m.applicationInstanceAbsentAtChanged(ctx, ev)
	case event.ApplicationInstanceDeregistered:
		m.applicationInstanceDeregistered(ctx, ev)
	case event.ApplicationInstanceHealthChanged:
		m.applicationInstanceHealthChanged(ev)

	// Databases
	case event.DatabaseRegistered:
		m.databaseRegistered(ctx, ev)
	case event.DatabaseDeregistered:
		m.databaseDeregistered(ctx, ev)
	case event.DatabaseRestored:
		m.databaseRestored(ctx, ev)
	case event.DatabaseHealthChanged:
		m.databaseHealthChanged(ctx, ev)
	case event.DatabaseInstanceRegistered:
		m.databaseInstanceRegistered(ctx, ev)
	case event.DatabaseInstanceAbsentAtChanged:
		m.databaseInstanceAbsentAtChanged(ctx, ev)
	case event.DatabaseInstanceDeregistered:
		m.databaseInstanceDeregistered(ctx, ev)
	case event.DatabaseInstanceHealthChanged:
		m.databaseInstanceHealthChanged(ev)
	case event.DatabaseInstanceSystemReplicationChanged:
		m.databaseInstanceSystemReplicationChanged(ev)

	// Executions
	case event.ExecutionStarted:
		m.executionStarted(ev)
	case event.ExecutionCompleted:
		m.executionCompleted(ctx, ev)

	// Bulk fetches
	case event.FetchStarted:
		return m.fetchStarted(ctx, ev)
	case event.FetchFailed:
		return m.fetchFailed(ev)
	case event.HostsFetched:
		m.fetched(ev.EventName(), store.KindHosts, store.SetHosts(ev.Hosts))
	case event.ClustersFetched:
		m.fetched(ev.EventName(), store.KindClusters, store.SetClusters(ev.Clusters))
	case event.SAPSystemsFetched:
		m.fetched(ev.EventName(), store.KindSAPSystems, store.SetSAPSystems(ev.SAPSystems))
	case event.DatabasesFetched:
		m.fetched(ev.EventName(), store.KindDatabases, store.SetDatabases(ev.Databases))
	case event.HealthSummaryRequested:
		return m.fetchStarted(ctx, event.FetchStarted{Collection: event.CollectionHealthSummary})
	case event.HealthSummaryFetched:
		m.fetched(ev.EventName(), store.KindHealthSummary, store.SetHealthSummary(ev.Summary))
	case event.SettingsFetched:
		m.fetched(ev.EventName(), store.KindSettings, store.SetSettings(ev.Settings))
	case event.CatalogRequested:
		m.catalogRequested(ctx, ev)
	case event.CatalogFetched:
		m.fetched(ev.EventName(), store.KindCatalog, store.SetCatalog(ev.Query, ev.Checks))

	// Last executions
	case event.LastExecutionRequested:
		m.lastExecutionRequested(ctx, ev)
	case event.LastExecutionFetched:
		m.lastExecutionFetched(ev)
	case event.LastExecutionFailed:
		m.apply(ev.EventName(), store.SetLastExecutionError(ev.GroupID, ev.Error))

	// Checks selection and execution requests
	case event.ChecksSelected:
		m.checksSelected(ctx, ev)
	case event.ChecksSelectionSaved:
		m.checksSelectionSaved(ctx, ev)
	case event.ChecksSelectionFailed:
		m.checksSelectionFailed(ev)
	case event.ExecutionRequested:
		m.executionRequested(ctx, ev)
	case event.ExecutionRequestDone:
		m.executionRequestDone(ctx, ev)
	case event.ExecutionRequestFailed:
		m.executionRequestFailed(ev)

	default:
		return pipeline.NewErrProcessingError(fmt.Errorf("%w: %T", event.ErrUnknownEvent, e), common.UnknownEventCategory, nil)
	}

	return nil
}

// apply runs the mutations and logs when an event referenced an entity not known yet.
func (m *Main) apply(name event.Name, mutations ...store.Mutation) bool {
	changed := m.store.Apply(mutations...)
	if !changed {
		m.logInfo(2, "Event left the state unchanged", "event", name)
	}

	return changed
}

func (m *Main) logInfo(level int, msg string, keysAndValues ...any) {
	if m.logger == nil {
		return
	}

	m.logger.V(level).Info(msg, keysAndValues...)
}

func (m *Main) logError(err error, msg string, keysAndValues ...any) {
	if m.logger == nil {
		return
	}

	m.logger.Error(err, msg, keysAndValues...)
}
