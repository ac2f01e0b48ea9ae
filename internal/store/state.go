package store

import (
	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

// Kind names a collection with its own request lifecycle.
type Kind string

const (
	KindHosts         Kind = "hosts"
	KindClusters      Kind = "clusters"
	KindSAPSystems    Kind = "sap_systems"
	KindDatabases     Kind = "databases"
	KindCatalog       Kind = "catalog"
	KindHealthSummary Kind = "health_summary"
	KindSettings      Kind = "settings"
)

var Kinds = []Kind{KindHosts, KindClusters, KindSAPSystems, KindDatabases, KindCatalog, KindHealthSummary, KindSettings}

// Status is the request lifecycle of a collection. A non empty Error means the data is not trustworthy.
// Loaded is set by the first successful fetch.
type Status struct {
	Loading bool
	Loaded  bool
	Error   string
}

// ExecutionState is the last execution known for a group (a cluster or a host).
type ExecutionState struct {
	Loading bool
	Data    *entity.Execution
	Error   string
}

type Catalog struct {
	Query  entity.CatalogQuery
	Checks []entity.Check
}

type (
	Hosts                = Collection[string, entity.Host]
	Clusters             = Collection[string, entity.Cluster]
	SAPSystems           = Collection[string, entity.SAPSystem]
	Databases            = Collection[string, entity.Database]
	ApplicationInstances = Collection[entity.InstanceKey, entity.ApplicationInstance]
	DatabaseInstances    = Collection[entity.InstanceKey, entity.DatabaseInstance]
	HealthSummary        = Collection[string, entity.SAPSystemHealth]
)

// State is an immutable snapshot of every collection. Mutations produce a new State.
type State struct {
	version uint64

	Hosts                Hosts
	Clusters             Clusters
	SAPSystems           SAPSystems
	Databases            Databases
	ApplicationInstances ApplicationInstances
	DatabaseInstances    DatabaseInstances
	HealthSummary        HealthSummary
	Catalog              Catalog
	Settings             entity.Settings
	LastExecutions       map[string]ExecutionState
	LiveFeed             []entity.LiveFeedEntry

	statuses map[Kind]Status
}

func NewState() State {
	return State{
		Hosts:                NewCollection(func(h entity.Host) string { return h.ID }),
		Clusters:             NewCollection(func(c entity.Cluster) string { return c.ID }),
		SAPSystems:           NewCollection(func(s entity.SAPSystem) string { return s.ID }),
		Databases:            NewCollection(func(d entity.Database) string { return d.ID }),
		ApplicationInstances: NewCollection(instanceKey[entity.ApplicationInstance]),
		DatabaseInstances:    NewCollection(instanceKey[entity.DatabaseInstance]),
		HealthSummary:        NewCollection(func(h entity.SAPSystemHealth) string { return h.ID }),
		LastExecutions:       map[string]ExecutionState{},
		statuses:             map[Kind]Status{},
	}
}

// Version grows each time a mutation changes the state.
func (s State) Version() uint64 {
	return s.version
}

func (s State) Status(kind Kind) Status {
	return s.statuses[kind]
}

func (s State) LastExecution(groupID string) (ExecutionState, bool) {
	ret, ok := s.LastExecutions[groupID]

	return ret, ok
}

func (s State) withStatus(kind Kind, fn func(Status) Status) (State, bool) {
	current := s.statuses[kind]

	updated := fn(current)
	if updated == current {
		return s, false
	}

	statuses := make(map[Kind]Status, len(s.statuses)+1)
	for k, v := range s.statuses {
		statuses[k] = v
	}

	statuses[kind] = updated
	s.statuses = statuses

	return s, true
}

func (s State) withLastExecution(groupID string, execution ExecutionState) State {
	executions := make(map[string]ExecutionState, len(s.LastExecutions)+1)
	for k, v := range s.LastExecutions {
		executions[k] = v
	}

	executions[groupID] = execution
	s.LastExecutions = executions

	return s
}

func (s State) hasData(kind Kind) bool {
	switch kind {
	case KindHosts:
		return s.Hosts.Len() > 0
	case KindClusters:
		return s.Clusters.Len() > 0
	case KindSAPSystems:
		return s.SAPSystems.Len() > 0 || s.ApplicationInstances.Len() > 0
	case KindDatabases:
		return s.Databases.Len() > 0 || s.DatabaseInstances.Len() > 0
	case KindCatalog:
		return len(s.Catalog.Checks) > 0
	case KindHealthSummary:
		return s.HealthSummary.Len() > 0
	case KindSettings:
		return s.Settings != entity.Settings{}
	default:
		return false
	}
}

// clearData empties the data owned by kind.
func (s State) clearData(kind Kind) State {
	switch kind {
	case KindHosts:
		s.Hosts = s.Hosts.Clear()
	case KindClusters:
		s.Clusters = s.Clusters.Clear()
	case KindSAPSystems:
		s.SAPSystems = s.SAPSystems.Clear()
		s.ApplicationInstances = s.ApplicationInstances.Clear()
	case KindDatabases:
		s.Databases = s.Databases.Clear()
		s.DatabaseInstances = s.DatabaseInstances.Clear()
	case KindCatalog:
		s.Catalog = Catalog{Query: s.Catalog.Query}
	case KindHealthSummary:
		s.HealthSummary = s.HealthSummary.Clear()
	case KindSettings:
		s.Settings = entity.Settings{}
	}

	return s
}
