package store

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

// Mutation is a named, pure state transition.
// It never fails: an unknown identity leaves the state unchanged.
type Mutation struct {
	Name string
	Key  string

	apply func(State) (State, bool)
}

// Apply returns the new state and whether anything changed.
func (m Mutation) Apply(state State) (State, bool) {
	if m.apply == nil {
		return state, false
	}

	ret, changed := m.apply(state)
	if !changed {
		return state, false
	}

	ret.version = state.version + 1

	return ret, true
}

func newMutation(name, key string, apply func(State) (State, bool)) Mutation {
	return Mutation{Name: name, Key: key, apply: apply}
}

// Request lifecycle

func SetLoading(kind Kind, loading bool) Mutation {
	return newMutation("set_loading", string(kind), func(s State) (State, bool) {
		return s.withStatus(kind, func(st Status) Status {
			st.Loading = loading

			return st
		})
	})
}

// SetError flags the collection as failed and clears its data.
func SetError(kind Kind, err string) Mutation {
	return newMutation("set_error", string(kind), func(s State) (State, bool) {
		dataChanged := s.hasData(kind)

		ret, statusChanged := s.clearData(kind).withStatus(kind, func(st Status) Status {
			st.Error = err
			st.Loaded = false

			return st
		})

		return ret, dataChanged || statusChanged
	})
}

// markLoaded resets the error of a collection replaced by a successful fetch.
func markLoaded(s State, kind Kind) State {
	ret, _ := s.withStatus(kind, func(st Status) Status {
		st.Error = ""
		st.Loaded = true

		return st
	})

	return ret
}

// Hosts

func SetHosts(hosts []entity.Host) Mutation {
	return newMutation("set_hosts", "", func(s State) (State, bool) {
		s.Hosts = s.Hosts.SetAll(hosts)

		return markLoaded(s, KindHosts), true
	})
}

// AppendHost inserts a host keeping the list sorted by hostname.
func AppendHost(host entity.Host) Mutation {
	return newMutation("append_host", host.ID, func(s State) (State, bool) {
		var changed bool

		s.Hosts, changed = s.Hosts.InsertSorted(host, func(a, b entity.Host) bool {
			return strings.Compare(a.Hostname, b.Hostname) < 0
		})

		return s, changed
	})
}

func PatchHost(id string, fn func(entity.Host) entity.Host) Mutation {
	return newMutation("patch_host", id, func(s State) (State, bool) {
		var changed bool

		s.Hosts, changed = s.Hosts.Patch(id, fn)

		return s, changed
	})
}

func RemoveHost(id string) Mutation {
	return newMutation("remove_host", id, func(s State) (State, bool) {
		var changed bool

		s.Hosts, changed = s.Hosts.Remove(id)

		return s, changed
	})
}

// Clusters

func SetClusters(clusters []entity.Cluster) Mutation {
	return newMutation("set_clusters", "", func(s State) (State, bool) {
		s.Clusters = s.Clusters.SetAll(clusters)

		return markLoaded(s, KindClusters), true
	})
}

func AppendCluster(cluster entity.Cluster) Mutation {
	return newMutation("append_cluster", cluster.ID, func(s State) (State, bool) {
		var changed bool

		s.Clusters, changed = s.Clusters.Upsert(cluster)

		return s, changed
	})
}

func PatchCluster(id string, fn func(entity.Cluster) entity.Cluster) Mutation {
	return newMutation("patch_cluster", id, func(s State) (State, bool) {
		var changed bool

		s.Clusters, changed = s.Clusters.Patch(id, fn)

		return s, changed
	})
}

func RemoveCluster(id string) Mutation {
	return newMutation("remove_cluster", id, func(s State) (State, bool) {
		var changed bool

		s.Clusters, changed = s.Clusters.Remove(id)

		return s, changed
	})
}

// SAP systems

// SetSAPSystems replaces the SAP systems and flattens their application instances.
func SetSAPSystems(systems []entity.SAPSystem) Mutation {
	return newMutation("set_sap_systems", "", func(s State) (State, bool) {
		instances := []entity.ApplicationInstance{}
		stripped := make([]entity.SAPSystem, 0, len(systems))

		for _, system := range systems {
			instances = append(instances, system.ApplicationInstances...)

			system.ApplicationInstances = nil
			system.DatabaseInstances = nil
			stripped = append(stripped, system)
		}

		s.SAPSystems = s.SAPSystems.SetAll(stripped)
		s.ApplicationInstances = s.ApplicationInstances.SetAll(instances)

		return markLoaded(s, KindSAPSystems), true
	})
}

// AppendSAPSystem upserts a SAP system. Embedded application instances are upserted by tuple.
func AppendSAPSystem(system entity.SAPSystem) Mutation {
	return newMutation("append_sap_system", system.ID, func(s State) (State, bool) {
		instances := system.ApplicationInstances

		system.ApplicationInstances = nil
		system.DatabaseInstances = nil

		var systemChanged, instancesChanged bool

		s.SAPSystems, systemChanged = s.SAPSystems.Upsert(system)
		s.ApplicationInstances, instancesChanged = upsertInstances(s.ApplicationInstances, instances)

		return s, systemChanged || instancesChanged
	})
}

func PatchSAPSystem(id string, fn func(entity.SAPSystem) entity.SAPSystem) Mutation {
	return newMutation("patch_sap_system", id, func(s State) (State, bool) {
		var changed bool

		s.SAPSystems, changed = s.SAPSystems.Patch(id, fn)

		return s, changed
	})
}

// RemoveSAPSystem drops the system and its application instances.
func RemoveSAPSystem(id string) Mutation {
	return newMutation("remove_sap_system", id, func(s State) (State, bool) {
		var systemChanged, instancesChanged bool

		s.SAPSystems, systemChanged = s.SAPSystems.Remove(id)
		s.ApplicationInstances, instancesChanged = s.ApplicationInstances.RemoveWhere(func(i entity.ApplicationInstance) bool {
			return i.SAPSystemID == id
		})

		return s, systemChanged || instancesChanged
	})
}

func UpsertApplicationInstances(instances ...entity.ApplicationInstance) Mutation {
	return newMutation("upsert_application_instances", instancesLogKey(instances), func(s State) (State, bool) {
		var changed bool

		s.ApplicationInstances, changed = upsertInstances(s.ApplicationInstances, instances)

		return s, changed
	})
}

func PatchApplicationInstance(key entity.InstanceKey, fn func(entity.ApplicationInstance) entity.ApplicationInstance) Mutation {
	return newMutation("patch_application_instance", formatInstanceKey(key), func(s State) (State, bool) {
		var changed bool

		s.ApplicationInstances, changed = s.ApplicationInstances.Patch(key, fn)

		return s, changed
	})
}

func UpdateApplicationInstanceHealth(payload InstanceHealth) Mutation {
	return PatchApplicationInstance(payload.Key, func(i entity.ApplicationInstance) entity.ApplicationInstance {
		return UpdateInstanceHealth(payload, i)
	})
}

// MoveApplicationInstance relocates an instance to another host, keeping its position.
func MoveApplicationInstance(key entity.InstanceKey, newHostID string) Mutation {
	return newMutation("move_application_instance", formatInstanceKey(key), func(s State) (State, bool) {
		var changed bool

		s.ApplicationInstances, changed = s.ApplicationInstances.Rekey(key, func(i entity.ApplicationInstance) entity.ApplicationInstance {
			i.HostID = newHostID

			return i
		})

		return s, changed
	})
}

func RemoveApplicationInstance(key entity.InstanceKey) Mutation {
	return newMutation("remove_application_instance", formatInstanceKey(key), func(s State) (State, bool) {
		var changed bool

		s.ApplicationInstances, changed = s.ApplicationInstances.Remove(key)

		return s, changed
	})
}

// Databases

// SetDatabases replaces the databases and flattens their database instances.
func SetDatabases(databases []entity.Database) Mutation {
	return newMutation("set_databases", "", func(s State) (State, bool) {
		instances := []entity.DatabaseInstance{}
		stripped := make([]entity.Database, 0, len(databases))

		for _, database := range databases {
			instances = append(instances, database.DatabaseInstances...)

			database.DatabaseInstances = nil
			stripped = append(stripped, database)
		}

		s.Databases = s.Databases.SetAll(stripped)
		s.DatabaseInstances = s.DatabaseInstances.SetAll(instances)

		return markLoaded(s, KindDatabases), true
	})
}

func AppendDatabase(database entity.Database) Mutation {
	return newMutation("append_database", database.ID, func(s State) (State, bool) {
		instances := database.DatabaseInstances

		database.DatabaseInstances = nil

		var databaseChanged, instancesChanged bool

		s.Databases, databaseChanged = s.Databases.Upsert(database)
		s.DatabaseInstances, instancesChanged = upsertInstances(s.DatabaseInstances, instances)

		return s, databaseChanged || instancesChanged
	})
}

func PatchDatabase(id string, fn func(entity.Database) entity.Database) Mutation {
	return newMutation("patch_database", id, func(s State) (State, bool) {
		var changed bool

		s.Databases, changed = s.Databases.Patch(id, fn)

		return s, changed
	})
}

// RemoveDatabase drops the database and its instances.
func RemoveDatabase(id string) Mutation {
	return newMutation("remove_database", id, func(s State) (State, bool) {
		var databaseChanged, instancesChanged bool

		s.Databases, databaseChanged = s.Databases.Remove(id)
		s.DatabaseInstances, instancesChanged = s.DatabaseInstances.RemoveWhere(func(i entity.DatabaseInstance) bool {
			return i.DatabaseID == id
		})

		return s, databaseChanged || instancesChanged
	})
}

func UpsertDatabaseInstances(instances ...entity.DatabaseInstance) Mutation {
	return newMutation("upsert_database_instances", instancesLogKey(instances), func(s State) (State, bool) {
		var changed bool

		s.DatabaseInstances, changed = upsertInstances(s.DatabaseInstances, instances)

		return s, changed
	})
}

func PatchDatabaseInstance(key entity.InstanceKey, fn func(entity.DatabaseInstance) entity.DatabaseInstance) Mutation {
	return newMutation("patch_database_instance", formatInstanceKey(key), func(s State) (State, bool) {
		var changed bool

		s.DatabaseInstances, changed = s.DatabaseInstances.Patch(key, fn)

		return s, changed
	})
}

func UpdateDatabaseInstanceHealth(payload InstanceHealth) Mutation {
	return PatchDatabaseInstance(payload.Key, func(i entity.DatabaseInstance) entity.DatabaseInstance {
		return UpdateInstanceHealth(payload, i)
	})
}

func RemoveDatabaseInstance(key entity.InstanceKey) Mutation {
	return newMutation("remove_database_instance", formatInstanceKey(key), func(s State) (State, bool) {
		var changed bool

		s.DatabaseInstances, changed = s.DatabaseInstances.Remove(key)

		return s, changed
	})
}

// Catalog, health summary and settings

// SetCatalog replaces the catalog. It is never merged with the previous one.
func SetCatalog(query entity.CatalogQuery, checks []entity.Check) Mutation {
	return newMutation("set_catalog", query.Provider, func(s State) (State, bool) {
		s.Catalog = Catalog{Query: query, Checks: checks}

		return markLoaded(s, KindCatalog), true
	})
}

func SetHealthSummary(summary []entity.SAPSystemHealth) Mutation {
	return newMutation("set_health_summary", "", func(s State) (State, bool) {
		s.HealthSummary = s.HealthSummary.SetAll(summary)

		return markLoaded(s, KindHealthSummary), true
	})
}

func SetSettings(settings entity.Settings) Mutation {
	return newMutation("set_settings", "", func(s State) (State, bool) {
		s.Settings = settings

		return markLoaded(s, KindSettings), true
	})
}

// Last executions

func SetLastExecutionLoading(groupID string) Mutation {
	return newMutation("set_last_execution_loading", groupID, func(s State) (State, bool) {
		return setLastExecution(s, groupID, ExecutionState{Loading: true})
	})
}

func SetLastExecutionEmpty(groupID string) Mutation {
	return newMutation("set_last_execution_empty", groupID, func(s State) (State, bool) {
		return setLastExecution(s, groupID, ExecutionState{})
	})
}

func SetLastExecutionError(groupID string, err string) Mutation {
	return newMutation("set_last_execution_error", groupID, func(s State) (State, bool) {
		return setLastExecution(s, groupID, ExecutionState{Error: err})
	})
}

// SetLastExecution stores a fetched execution. A stale copy of the execution already known is ignored.
func SetLastExecution(execution entity.Execution) Mutation {
	return newMutation("set_last_execution", execution.GroupID, func(s State) (State, bool) {
		if regresses(s, execution) {
			return s, false
		}

		return setLastExecution(s, execution.GroupID, ExecutionState{Data: &execution})
	})
}

// SetExecutionRequested records an execution requested for the given agents.
// previousExecutionID is the last execution id known when the request was sent:
// the mutation is ignored once a different execution has been stored since.
func SetExecutionRequested(groupID string, targetType entity.TargetType, agentIDs []string, checks []string, previousExecutionID string) Mutation {
	return newMutation("set_execution_requested", groupID, func(s State) (State, bool) {
		if ExecutionSuperseded(s, groupID, previousExecutionID) {
			return s, false
		}

		execution := entity.Execution{
			GroupID:    groupID,
			Status:     entity.ExecutionStatusRequested,
			TargetType: targetType,
			Targets:    executionTargets(agentIDs, checks),
		}

		return setLastExecution(s, groupID, ExecutionState{Data: &execution})
	})
}

// SetExecutionStarted moves the group last execution to running.
func SetExecutionStarted(groupID, executionID string, targetType entity.TargetType, targets []entity.ExecutionTarget) Mutation {
	return newMutation("set_execution_started", groupID, func(s State) (State, bool) {
		execution := entity.Execution{
			ExecutionID: executionID,
			GroupID:     groupID,
			Status:      entity.ExecutionStatusRunning,
			TargetType:  targetType,
			Targets:     targets,
		}

		if regresses(s, execution) {
			return s, false
		}

		return setLastExecution(s, groupID, ExecutionState{Data: &execution})
	})
}

func setLastExecution(s State, groupID string, execution ExecutionState) (State, bool) {
	current, exists := s.LastExecutions[groupID]
	if exists && reflect.DeepEqual(current, execution) {
		return s, false
	}

	return s.withLastExecution(groupID, execution), true
}

// ExecutionSuperseded reports whether the group last execution is no longer previousExecutionID.
func ExecutionSuperseded(s State, groupID string, previousExecutionID string) bool {
	current, exists := s.LastExecutions[groupID]
	if !exists || current.Data == nil || current.Data.ExecutionID == "" {
		return false
	}

	return current.Data.ExecutionID != previousExecutionID
}

// regresses reports whether execution is an older step of the execution already stored.
func regresses(s State, execution entity.Execution) bool {
	current, exists := s.LastExecutions[execution.GroupID]
	if !exists || current.Data == nil {
		return false
	}

	if execution.ExecutionID == "" || current.Data.ExecutionID != execution.ExecutionID {
		return false
	}

	return execution.Status.Rank() < current.Data.Status.Rank()
}

func executionTargets(agentIDs []string, checks []string) []entity.ExecutionTarget {
	ret := make([]entity.ExecutionTarget, 0, len(agentIDs))

	for _, agentID := range agentIDs {
		ret = append(ret, entity.ExecutionTarget{AgentID: agentID, Checks: checks})
	}

	return ret
}

// Live feed

// PrependLiveFeedEntry adds an entry at the head of the live feed. Entries are never modified.
// The oldest entries beyond limit are dropped, a limit of zero or less keeps them all.
func PrependLiveFeedEntry(entry entity.LiveFeedEntry, limit int) Mutation {
	return newMutation("prepend_live_feed_entry", entry.Source, func(s State) (State, bool) {
		kept := s.LiveFeed
		if limit > 0 && len(kept) >= limit {
			kept = kept[:limit-1]
		}

		feed := make([]entity.LiveFeedEntry, 0, len(kept)+1)
		feed = append(feed, entry)
		feed = append(feed, kept...)

		s.LiveFeed = feed

		return s, true
	})
}

// RestoreLiveFeed loads persisted entries, newest first, when the live feed is still empty.
func RestoreLiveFeed(entries []entity.LiveFeedEntry) Mutation {
	return newMutation("restore_live_feed", "", func(s State) (State, bool) {
		if len(s.LiveFeed) > 0 || len(entries) == 0 {
			return s, false
		}

		s.LiveFeed = append([]entity.LiveFeedEntry{}, entries...)

		return s, true
	})
}

func formatInstanceKey(key entity.InstanceKey) string {
	return fmt.Sprintf("%s/%s/%s", key.SystemID, key.HostID, key.InstanceNumber)
}

func instancesLogKey[T Instance[T]](instances []T) string {
	keys := make([]string, 0, len(instances))

	for _, instance := range instances {
		keys = append(keys, formatInstanceKey(instance.Key()))
	}

	return strings.Join(keys, ",")
}
