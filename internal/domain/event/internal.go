package event

import "github.com/fleetsync/fleetsync/internal/domain/entity"

// Collections with a bulk fetch lifecycle.
const (
	CollectionHosts         = "hosts"
	CollectionClusters      = "clusters"
	CollectionSAPSystems    = "sap_systems"
	CollectionDatabases     = "databases"
	CollectionCatalog       = "catalog"
	CollectionHealthSummary = "health_summary"
	CollectionSettings      = "settings"
)

// Bulk fetches

type FetchStarted struct {
	event
	Collection string `json:"collection"`
}

type FetchFailed struct {
	event
	Collection string `json:"collection"`
	Error      string `json:"error"`
}

type HostsFetched struct {
	event
	Hosts []entity.Host `json:"hosts"`
}

type ClustersFetched struct {
	event
	Clusters []entity.Cluster `json:"clusters"`
}

type SAPSystemsFetched struct {
	event
	SAPSystems []entity.SAPSystem `json:"sap_systems"`
}

type DatabasesFetched struct {
	event
	Databases []entity.Database `json:"databases"`
}

type HealthSummaryRequested struct {
	event
}

type HealthSummaryFetched struct {
	event
	Summary []entity.SAPSystemHealth `json:"summary"`
}

type SettingsFetched struct {
	event
	Settings entity.Settings `json:"settings"`
}

// CatalogRequested asks for the catalog matching Query. The fetch is skipped when Query did not change, unless Force is set.
type CatalogRequested struct {
	event
	Query entity.CatalogQuery `json:"query"`
	Force bool                `json:"force"`
}

type CatalogFetched struct {
	event
	Query  entity.CatalogQuery `json:"query"`
	Checks []entity.Check      `json:"checks"`
}

func (FetchStarted) EventName() Name { return NameFetchStarted }
func (FetchFailed) EventName() Name { return NameFetchFailed }
func (HostsFetched) EventName() Name { return NameHostsFetched }
func (ClustersFetched) EventName() Name { return NameClustersFetched }
func (SAPSystemsFetched) EventName() Name { return NameSAPSystemsFetched }
func (DatabasesFetched) EventName() Name { return NameDatabasesFetched }
func (HealthSummaryRequested) EventName() Name { return NameHealthSummaryRequested }
func (HealthSummaryFetched) EventName() Name { return NameHealthSummaryFetched }
func (SettingsFetched) EventName() Name { return NameSettingsFetched }
func (CatalogRequested) EventName() Name { return NameCatalogRequested }
func (CatalogFetched) EventName() Name { return NameCatalogFetched }

// Last executions

type LastExecutionRequested struct {
	event
	GroupID string `json:"group_id"`
}

// LastExecutionFetched carries a nil Execution when the group was never executed.
type LastExecutionFetched struct {
	event
	GroupID   string            `json:"group_id"`
	Execution *entity.Execution `json:"execution"`
}

type LastExecutionFailed struct {
	event
	GroupID string `json:"group_id"`
	Error   string `json:"error"`
}

func (LastExecutionRequested) EventName() Name { return NameLastExecutionRequested }
func (LastExecutionFetched) EventName() Name { return NameLastExecutionFetched }
func (LastExecutionFailed) EventName() Name { return NameLastExecutionFailed }

// Checks selection and execution requests. GroupID is a cluster or a host id depending on TargetType.

type ChecksSelected struct {
	event
	GroupID    string            `json:"group_id"`
	TargetType entity.TargetType `json:"target_type"`
	Checks     []string          `json:"checks"`
}

type ChecksSelectionSaved struct {
	event
	GroupID    string            `json:"group_id"`
	TargetType entity.TargetType `json:"target_type"`
	Checks     []string          `json:"checks"`
}

type ChecksSelectionFailed struct {
	event
	GroupID    string            `json:"group_id"`
	TargetType entity.TargetType `json:"target_type"`
	Error      string            `json:"error"`
}

type ExecutionRequested struct {
	event
	GroupID    string            `json:"group_id"`
	TargetType entity.TargetType `json:"target_type"`
	HostIDs    []string          `json:"host_ids"`
	Checks     []string          `json:"checks"`
}

// ExecutionRequestDone carries the last execution id known when the request was sent.
type ExecutionRequestDone struct {
	event
	GroupID             string            `json:"group_id"`
	TargetType          entity.TargetType `json:"target_type"`
	HostIDs             []string          `json:"host_ids"`
	Checks              []string          `json:"checks"`
	PreviousExecutionID string            `json:"previous_execution_id,omitempty"`
}

type ExecutionRequestFailed struct {
	event
	GroupID    string            `json:"group_id"`
	TargetType entity.TargetType `json:"target_type"`
	Error      string            `json:"error"`
}

func (ChecksSelected) EventName() Name { return NameChecksSelected }
func (ChecksSelectionSaved) EventName() Name { return NameChecksSelectionSaved }
func (ChecksSelectionFailed) EventName() Name { return NameChecksSelectionFailed }
func (ExecutionRequested) EventName() Name { return NameExecutionRequested }
func (ExecutionRequestDone) EventName() Name { return NameExecutionRequestDone }
func (ExecutionRequestFailed) EventName() Name { return NameExecutionRequestFailed }
