package event

import "github.com/fleetsync/fleetsync/internal/domain/entity"

// Event is the closed set of events handled by the ingestion queue.
// Only types declared in this package implement it.
type Event interface {
	EventName() Name
	sealed()
}

type event struct{}

func (event) sealed() {}

// Hosts

type HostRegistered struct {
	event
	entity.Host
}

// HostDetailsUpdated carries the updated fields only.
type HostDetailsUpdated struct {
	event
	Partial
	entity.Host
}

type HeartbeatSucceded struct {
	event
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
}

type HeartbeatFailed struct {
	event
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
}

type HostDeregistered struct {
	event
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
}

type HostRestored struct {
	event
	entity.Host
}

type HostHealthChanged struct {
	event
	ID       string        `json:"id"`
	Hostname string        `json:"hostname"`
	Health   entity.Health `json:"health"`
}

type SaptuneStatusUpdated struct {
	event
	ID       string                 `json:"id"`
	Hostname string                 `json:"hostname"`
	Status   map[string]interface{} `json:"status"`
}

func (HostRegistered) EventName() Name { return NameHostRegistered }
func (HostDetailsUpdated) EventName() Name { return NameHostDetailsUpdated }
func (HeartbeatSucceded) EventName() Name { return NameHeartbeatSucceded }
func (HeartbeatFailed) EventName() Name { return NameHeartbeatFailed }
func (HostDeregistered) EventName() Name { return NameHostDeregistered }
func (HostRestored) EventName() Name { return NameHostRestored }
func (HostHealthChanged) EventName() Name { return NameHostHealthChanged }
func (SaptuneStatusUpdated) EventName() Name { return NameSaptuneStatusUpdated }

// Clusters

type ClusterRegistered struct {
	event
	entity.Cluster
}

// ClusterDetailsUpdated carries the updated fields only.
type ClusterDetailsUpdated struct {
	event
	Partial
	entity.Cluster
}

type ChecksExecutionStarted struct {
	event
	ClusterID string `json:"cluster_id"`
}

type ChecksExecutionCompleted struct {
	event
	ClusterID string `json:"cluster_id"`
}

type ChecksResultsUpdated struct {
	event
	ClusterID     string                      `json:"cluster_id"`
	ChecksResults []entity.ClusterCheckResult `json:"checks_results"`
}

type ClusterHealthChanged struct {
	event
	ClusterID string        `json:"cluster_id"`
	Health    entity.Health `json:"health"`
}

type ClusterCibLastWrittenUpdated struct {
	event
	ClusterID      string `json:"cluster_id"`
	CibLastWritten string `json:"cib_last_written"`
}

type ClusterDeregistered struct {
	event
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ClusterRestored struct {
	event
	entity.Cluster
}

func (ClusterRegistered) EventName() Name { return NameClusterRegistered }
func (ClusterDetailsUpdated) EventName() Name { return NameClusterDetailsUpdated }
func (ChecksExecutionStarted) EventName() Name { return NameChecksExecutionStarted }
func (ChecksExecutionCompleted) EventName() Name { return NameChecksExecutionCompleted }
func (ChecksResultsUpdated) EventName() Name { return NameChecksResultsUpdated }
func (ClusterHealthChanged) EventName() Name { return NameClusterHealthChanged }
func (ClusterCibLastWrittenUpdated) EventName() Name { return NameClusterCibLastWrittenUpdated }
func (ClusterDeregistered) EventName() Name { return NameClusterDeregistered }
func (ClusterRestored) EventName() Name { return NameClusterRestored }

// SAP systems

type SAPSystemRegistered struct {
	event
	entity.SAPSystem
}

type SAPSystemHealthChanged struct {
	event
	ID     string        `json:"id"`
	Health entity.Health `json:"health"`
}

type SAPSystemDeregistered struct {
	event
	ID  string `json:"id"`
	SID string `json:"sid"`
}

type SAPSystemRestored struct {
	event
	entity.SAPSystem
}

type SAPSystemUpdated struct {
	event
	ID          string `json:"id"`
	EnsaVersion string `json:"ensa_version"`
}

type ApplicationInstanceRegistered struct {
	event
	entity.ApplicationInstance
}

type ApplicationInstanceMoved struct {
	event
	SAPSystemID    string `json:"sap_system_id"`
	SID            string `json:"sid"`
	InstanceNumber string `json:"instance_number"`
	OldHostID      string `json:"old_host_id"`
	NewHostID      string `json:"new_host_id"`
}

type ApplicationInstanceAbsentAtChanged struct {
	event
	entity.ApplicationInstance
}

type ApplicationInstanceDeregistered struct {
	event
	entity.ApplicationInstance
}

type ApplicationInstanceHealthChanged struct {
	event
	entity.ApplicationInstance
}

func (SAPSystemRegistered) EventName() Name { return NameSAPSystemRegistered }
func (SAPSystemHealthChanged) EventName() Name { return NameSAPSystemHealthChanged }
func (SAPSystemDeregistered) EventName() Name { return NameSAPSystemDeregistered }
func (SAPSystemRestored) EventName() Name { return NameSAPSystemRestored }
func (SAPSystemUpdated) EventName() Name { return NameSAPSystemUpdated }
func (ApplicationInstanceRegistered) EventName() Name { return NameApplicationInstanceRegistered }
func (ApplicationInstanceMoved) EventName() Name { return NameApplicationInstanceMoved }
func (ApplicationInstanceAbsentAtChanged) EventName() Name { return NameApplicationInstanceAbsentAtChanged }
func (ApplicationInstanceDeregistered) EventName() Name { return NameApplicationInstanceDeregistered }
func (ApplicationInstanceHealthChanged) EventName() Name { return NameApplicationInstanceHealthChanged }

// Databases

type DatabaseRegistered struct {
	event
	entity.Database
}

type DatabaseDeregistered struct {
	event
	ID  string `json:"id"`
	SID string `json:"sid"`
}

type DatabaseRestored struct {
	event
	entity.Database
}

type DatabaseHealthChanged struct {
	event
	ID     string        `json:"id"`
	Health entity.Health `json:"health"`
}

type DatabaseInstanceRegistered struct {
	event
	entity.DatabaseInstance
}

type DatabaseInstanceAbsentAtChanged struct {
	event
	entity.DatabaseInstance
}

type DatabaseInstanceDeregistered struct {
	event
	entity.DatabaseInstance
}

type DatabaseInstanceHealthChanged struct {
	event
	entity.DatabaseInstance
}

type DatabaseInstanceSystemReplicationChanged struct {
	event
	entity.DatabaseInstance
}

func (DatabaseRegistered) EventName() Name { return NameDatabaseRegistered }
func (DatabaseDeregistered) EventName() Name { return NameDatabaseDeregistered }
func (DatabaseRestored) EventName() Name { return NameDatabaseRestored }
func (DatabaseHealthChanged) EventName() Name { return NameDatabaseHealthChanged }
func (DatabaseInstanceRegistered) EventName() Name { return NameDatabaseInstanceRegistered }
func (DatabaseInstanceAbsentAtChanged) EventName() Name { return NameDatabaseInstanceAbsentAtChanged }
func (DatabaseInstanceDeregistered) EventName() Name { return NameDatabaseInstanceDeregistered }
func (DatabaseInstanceHealthChanged) EventName() Name { return NameDatabaseInstanceHealthChanged }

func (DatabaseInstanceSystemReplicationChanged) EventName() Name {
	return NameDatabaseInstanceSystemReplicationChanged
}

// Executions

type ExecutionStarted struct {
	event
	GroupID     string                   `json:"group_id"`
	ExecutionID string                   `json:"execution_id"`
	TargetType  entity.TargetType        `json:"target_type"`
	Targets     []entity.ExecutionTarget `json:"targets"`
}

type ExecutionCompleted struct {
	event
	GroupID     string        `json:"group_id"`
	ExecutionID string        `json:"execution_id"`
	Result      entity.Health `json:"result"`
}

func (ExecutionStarted) EventName() Name { return NameExecutionStarted }
func (ExecutionCompleted) EventName() Name { return NameExecutionCompleted }
