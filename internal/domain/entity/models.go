package entity

import "time"

// Event is the raw envelope received from a push channel before it is decoded into a typed event.
type Event struct {
	Name     string                 `json:"name"`
	Payload  map[string]interface{} `json:"payload"`
	Metadata map[string]interface{} `json:"metadata"`
}

type Health string

const (
	HealthPassing  Health = "passing"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
	HealthUnknown  Health = "unknown"
	HealthPending  Health = "pending"
)

type Tag struct {
	Value        string `json:"value"`
	ResourceID   string `json:"resource_id"`
	ResourceType string `json:"resource_type"`
}

type Host struct {
	ID             string                 `json:"id"`
	Hostname       string                 `json:"hostname"`
	Heartbeat      Health                 `json:"heartbeat"`
	Health         Health                 `json:"health"`
	ClusterID      string                 `json:"cluster_id"`
	Provider       string                 `json:"provider"`
	AgentVersion   string                 `json:"agent_version"`
	IPAddresses    []string               `json:"ip_addresses"`
	SelectedChecks []string               `json:"selected_checks"`
	SaptuneStatus  map[string]interface{} `json:"saptune_status"`
	Tags           []Tag                  `json:"tags"`
	Deregisterable bool                   `json:"deregisterable"`
	Deregistering  bool                   `json:"deregistering"`
}

type ChecksExecution string

const (
	ChecksExecutionRequested  ChecksExecution = "requested"
	ChecksExecutionRunning    ChecksExecution = "running"
	ChecksExecutionNotRunning ChecksExecution = "not_running"
)

type Cluster struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Type            string                 `json:"type"`
	SID             string                 `json:"sid"`
	Provider        string                 `json:"provider"`
	Health          Health                 `json:"health"`
	SelectedChecks  []string               `json:"selected_checks"`
	ChecksResults   []ClusterCheckResult   `json:"checks_results"`
	ChecksExecution ChecksExecution        `json:"checks_execution"`
	CibLastWritten  string                 `json:"cib_last_written"`
	Details         map[string]interface{} `json:"details"`
	Tags            []Tag                  `json:"tags"`
}

// ClusterCheckResult is the raw per-host, per-check result attached to a cluster.
type ClusterCheckResult struct {
	CheckID string `json:"check_id"`
	HostID  string `json:"host_id"`
	Result  Health `json:"result"`
}

// InstanceKey identifies an application or database instance, which has no primary key of its own.
type InstanceKey struct {
	SystemID       string
	HostID         string
	InstanceNumber string
}

type ApplicationInstance struct {
	SAPSystemID      string `json:"sap_system_id"`
	HostID           string `json:"host_id"`
	InstanceNumber   string `json:"instance_number"`
	SID              string `json:"sid"`
	InstanceHostname string `json:"instance_hostname"`
	Features         string `json:"features"`
	StartPriority    string `json:"start_priority"`
	Health           Health `json:"health"`
	AbsentAt         string `json:"absent_at"`
	Deregistering    bool   `json:"deregistering"`
}

func (i ApplicationInstance) Key() InstanceKey {
	return InstanceKey{SystemID: i.SAPSystemID, HostID: i.HostID, InstanceNumber: i.InstanceNumber}
}

func (i ApplicationInstance) WithHealth(health Health) ApplicationInstance {
	i.Health = health

	return i
}

type DatabaseInstance struct {
	DatabaseID              string `json:"database_id"`
	HostID                  string `json:"host_id"`
	InstanceNumber          string `json:"instance_number"`
	SID                     string `json:"sid"`
	InstanceHostname        string `json:"instance_hostname"`
	Features                string `json:"features"`
	Health                  Health `json:"health"`
	SystemReplication       string `json:"system_replication"`
	SystemReplicationStatus string `json:"system_replication_status"`
	AbsentAt                string `json:"absent_at"`
	Deregistering           bool   `json:"deregistering"`
}

func (i DatabaseInstance) Key() InstanceKey {
	return InstanceKey{SystemID: i.DatabaseID, HostID: i.HostID, InstanceNumber: i.InstanceNumber}
}

func (i DatabaseInstance) WithHealth(health Health) DatabaseInstance {
	i.Health = health

	return i
}

type SAPSystem struct {
	ID                   string                `json:"id"`
	SID                  string                `json:"sid"`
	TenantName           string                `json:"tenant"`
	DatabaseID           string                `json:"database_id"`
	DatabaseSID          string                `json:"database_sid"`
	Health               Health                `json:"health"`
	EnsaVersion          string                `json:"ensa_version"`
	ApplicationInstances []ApplicationInstance `json:"application_instances"`
	DatabaseInstances    []DatabaseInstance    `json:"database_instances"`
	Tags                 []Tag                 `json:"tags"`
}

type Database struct {
	ID                string             `json:"id"`
	SID               string             `json:"sid"`
	Health            Health             `json:"health"`
	DatabaseInstances []DatabaseInstance `json:"database_instances"`
	Tags              []Tag              `json:"tags"`
}

// SAPSystemHealth is one row of the global health summary.
type SAPSystemHealth struct {
	ID              string `json:"id"`
	SID             string `json:"sid"`
	SAPSystemHealth Health `json:"sapsystem_health"`
	DatabaseID      string `json:"database_id"`
	DatabaseHealth  Health `json:"database_health"`
	ClusterID       string `json:"cluster_id"`
	ClustersHealth  Health `json:"clusters_health"`
	HostsHealth     Health `json:"hosts_health"`
}

type Settings struct {
	EulaAccepted        bool `json:"eula_accepted"`
	PremiumSubscription bool `json:"premium_subscription"`
}

type LiveFeedEntry struct {
	Time    time.Time `json:"time"`
	Source  string    `json:"source"`
	Message string    `json:"message"`
}

type Notification struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon"`
}
