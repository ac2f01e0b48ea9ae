package selectors

import (
	"github.com/fleetsync/fleetsync/internal/checks"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/store"
)

type InstanceType string

const (
	InstanceTypeApplication InstanceType = "application"
	InstanceTypeDatabase    InstanceType = "database"
)

// SAPInstance is an application or database instance seen from a host.
type SAPInstance struct {
	Type           InstanceType
	SystemID       string
	HostID         string
	InstanceNumber string
	SID            string
	Health         entity.Health
	AbsentAt       string
}

// HostWithCluster is a host and the cluster it belongs to, if any.
type HostWithCluster struct {
	entity.Host
	Cluster *entity.Cluster
}

type EnrichedApplicationInstance struct {
	entity.ApplicationInstance
	Host *HostWithCluster
}

type EnrichedDatabaseInstance struct {
	entity.DatabaseInstance
	Host *HostWithCluster
}

type SAPSystemDetail struct {
	entity.SAPSystem
	Instances         []EnrichedApplicationInstance
	DatabaseInstances []EnrichedDatabaseInstance
	Hosts             []HostWithCluster
}

type DatabaseDetail struct {
	entity.Database
	Instances []EnrichedDatabaseInstance
	Hosts     []HostWithCluster
}

// ExecutionView is a last execution with agents enriched with their hostname.
type ExecutionView struct {
	Target      interface{}
	TargetHosts []entity.Host
	Catalog     []entity.Check
	Execution   store.ExecutionState
}

// InstancesOnHost returns the application instances then the database instances running on hostID.
func InstancesOnHost(state store.State, hostID string) []SAPInstance {
	ret := []SAPInstance{}

	for _, instance := range state.ApplicationInstances.Filter(func(i entity.ApplicationInstance) bool { return i.HostID == hostID }) {
		ret = append(ret, fromApplicationInstance(instance))
	}

	for _, instance := range state.DatabaseInstances.Filter(func(i entity.DatabaseInstance) bool { return i.HostID == hostID }) {
		ret = append(ret, fromDatabaseInstance(instance))
	}

	return ret
}

func AllSAPInstances(state store.State) []SAPInstance {
	ret := make([]SAPInstance, 0, state.ApplicationInstances.Len()+state.DatabaseInstances.Len())

	for _, instance := range state.ApplicationInstances.All() {
		ret = append(ret, fromApplicationInstance(instance))
	}

	for _, instance := range state.DatabaseInstances.All() {
		ret = append(ret, fromDatabaseInstance(instance))
	}

	return ret
}

func ClusterHosts(state store.State, clusterID string) []entity.Host {
	return state.Hosts.Filter(func(h entity.Host) bool {
		return h.ClusterID == clusterID
	})
}

// ClusterHealthSummary returns the health summary rows of the SAP systems running on clusterID.
func ClusterHealthSummary(state store.State, clusterID string) []entity.SAPSystemHealth {
	return state.HealthSummary.Filter(func(h entity.SAPSystemHealth) bool {
		return h.ClusterID == clusterID
	})
}

// SAPSystemDetails returns the SAP system with its instances enriched with their host and cluster.
// Database instances are the ones of the database the SAP system relies on.
func SAPSystemDetails(state store.State, id string) (SAPSystemDetail, bool) {
	system, found := state.SAPSystems.Get(id)
	if !found {
		return SAPSystemDetail{}, false
	}

	ret := SAPSystemDetail{
		SAPSystem:         system,
		Instances:         []EnrichedApplicationInstance{},
		DatabaseInstances: []EnrichedDatabaseInstance{},
		Hosts:             []HostWithCluster{},
	}

	for _, instance := range state.ApplicationInstances.Filter(func(i entity.ApplicationInstance) bool { return i.SAPSystemID == id }) {
		host := enrichHost(state, instance.HostID)

		ret.Instances = append(ret.Instances, EnrichedApplicationInstance{ApplicationInstance: instance, Host: host})
		ret.Hosts = appendHost(ret.Hosts, host)
	}

	for _, instance := range SAPSystemDatabaseInstances(state, system) {
		ret.DatabaseInstances = append(ret.DatabaseInstances, EnrichedDatabaseInstance{DatabaseInstance: instance, Host: enrichHost(state, instance.HostID)})
	}

	return ret, true
}

// SAPSystemDatabaseInstances returns the instances of the database backing the SAP system.
func SAPSystemDatabaseInstances(state store.State, system entity.SAPSystem) []entity.DatabaseInstance {
	if system.DatabaseID == "" {
		return []entity.DatabaseInstance{}
	}

	return state.DatabaseInstances.Filter(func(i entity.DatabaseInstance) bool {
		return i.DatabaseID == system.DatabaseID
	})
}

func DatabaseDetails(state store.State, id string) (DatabaseDetail, bool) {
	database, found := state.Databases.Get(id)
	if !found {
		return DatabaseDetail{}, false
	}

	ret := DatabaseDetail{
		Database:  database,
		Instances: []EnrichedDatabaseInstance{},
		Hosts:     []HostWithCluster{},
	}

	for _, instance := range state.DatabaseInstances.Filter(func(i entity.DatabaseInstance) bool { return i.DatabaseID == id }) {
		host := enrichHost(state, instance.HostID)

		ret.Instances = append(ret.Instances, EnrichedDatabaseInstance{DatabaseInstance: instance, Host: host})
		ret.Hosts = appendHost(ret.Hosts, host)
	}

	return ret, true
}

// LastExecutionData returns the last execution of groupID with the hostname of each agent filled from the target hosts.
func LastExecutionData(state store.State, groupID string, targetType entity.TargetType) ExecutionView {
	ret := ExecutionView{
		TargetHosts: targetHosts(state, groupID, targetType),
		Catalog:     state.Catalog.Checks,
	}

	switch targetType {
	case entity.TargetTypeCluster:
		if cluster, ok := state.Clusters.Get(groupID); ok {
			ret.Target = cluster
		}
	case entity.TargetTypeHost:
		if host, ok := state.Hosts.Get(groupID); ok {
			ret.Target = host
		}
	}

	execution, found := state.LastExecution(groupID)
	if !found {
		return ret
	}

	ret.Execution = execution

	if execution.Data != nil {
		data := addHostnames(*execution.Data, ret.TargetHosts)
		ret.Execution.Data = &data
	}

	return ret
}

// CheckOutline returns the outline rows of checkID in the last execution of groupID.
func CheckOutline(state store.State, groupID string, targetType entity.TargetType, checkID string) []checks.OutlineRow {
	view := LastExecutionData(state, groupID, targetType)

	result, found := checks.GetCheckResult(view.Execution.Data, checkID)
	if !found {
		return []checks.OutlineRow{}
	}

	expectations := checks.GetCheckExpectations(view.Catalog, checkID)

	return checks.Outline(expectations, result, targetType, groupID, checks.GetTargetName(view.Target, targetType))
}

// HostCheckDetail returns the view of checkID on agentID. It is not found until both the check and the execution are known.
func HostCheckDetail(state store.State, groupID string, targetType entity.TargetType, checkID, agentID string) (checks.HostDetail, bool) {
	view := LastExecutionData(state, groupID, targetType)

	check, found := checks.FindCheck(view.Catalog, checkID)
	if !found || view.Execution.Data == nil {
		return checks.HostDetail{}, false
	}

	return checks.Detail(check, view.Execution.Data, agentID), true
}

// ExpectSameFacts returns the values compared by the expect_same expectations of checkID on the cluster groupID, by hostname.
func ExpectSameFacts(state store.State, groupID, checkID string) []checks.ExpectSameFact {
	view := LastExecutionData(state, groupID, entity.TargetTypeCluster)

	result, found := checks.GetCheckResult(view.Execution.Data, checkID)
	if !found {
		return []checks.ExpectSameFact{}
	}

	return checks.GetExpectSameFacts(checks.GetCheckExpectations(view.Catalog, checkID), result.AgentsCheckResults)
}

// CheckCategories returns the catalog groups of the checks in the last execution of groupID.
func CheckCategories(state store.State, groupID string, targetType entity.TargetType) []string {
	view := LastExecutionData(state, groupID, targetType)

	return checks.GetCatalogCategoryList(view.Catalog, checks.GetCheckResults(view.Execution.Data))
}

func targetHosts(state store.State, groupID string, targetType entity.TargetType) []entity.Host {
	switch targetType {
	case entity.TargetTypeCluster:
		return ClusterHosts(state, groupID)
	case entity.TargetTypeHost:
		host, ok := state.Hosts.Get(groupID)
		if !ok {
			return []entity.Host{}
		}

		return []entity.Host{host}
	default:
		return []entity.Host{}
	}
}

func addHostnames(execution entity.Execution, hosts []entity.Host) entity.Execution {
	hostnames := make(map[string]string, len(hosts))
	for _, host := range hosts {
		hostnames[host.ID] = host.Hostname
	}

	results := make([]entity.CheckResult, 0, len(execution.CheckResults))

	for _, result := range execution.CheckResults {
		agents := make([]entity.AgentCheckResult, 0, len(result.AgentsCheckResults))

		for _, agent := range result.AgentsCheckResults {
			agent.Hostname = hostnames[agent.AgentID]
			agents = append(agents, agent)
		}

		result.AgentsCheckResults = agents
		results = append(results, result)
	}

	execution.CheckResults = results

	return execution
}

func enrichHost(state store.State, hostID string) *HostWithCluster {
	host, found := state.Hosts.Get(hostID)
	if !found {
		return nil
	}

	ret := &HostWithCluster{Host: host}

	if cluster, ok := state.Clusters.Get(host.ClusterID); ok {
		ret.Cluster = &cluster
	}

	return ret
}

func appendHost(hosts []HostWithCluster, host *HostWithCluster) []HostWithCluster {
	if host == nil {
		return hosts
	}

	for _, h := range hosts {
		if h.ID == host.ID {
			return hosts
		}
	}

	return append(hosts, *host)
}

func fromApplicationInstance(instance entity.ApplicationInstance) SAPInstance {
	return SAPInstance{
		Type:           InstanceTypeApplication,
		SystemID:       instance.SAPSystemID,
		HostID:         instance.HostID,
		InstanceNumber: instance.InstanceNumber,
		SID:            instance.SID,
		Health:         instance.Health,
		AbsentAt:       instance.AbsentAt,
	}
}

func fromDatabaseInstance(instance entity.DatabaseInstance) SAPInstance {
	return SAPInstance{
		Type:           InstanceTypeDatabase,
		SystemID:       instance.DatabaseID,
		HostID:         instance.HostID,
		InstanceNumber: instance.InstanceNumber,
		SID:            instance.SID,
		Health:         instance.Health,
		AbsentAt:       instance.AbsentAt,
	}
}
