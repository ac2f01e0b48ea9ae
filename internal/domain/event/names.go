package event

// Name is the wire name of a push event or of an internal event.
type Name string

// Push events, grouped by the topic they are published on.
const (
	NameHostRegistered       Name = "host_registered"
	NameHostDetailsUpdated   Name = "host_details_updated"
	NameHeartbeatSucceded    Name = "heartbeat_succeded"
	NameHeartbeatFailed      Name = "heartbeat_failed"
	NameHostDeregistered     Name = "host_deregistered"
	NameHostRestored         Name = "host_restored"
	NameHostHealthChanged    Name = "host_health_changed"
	NameSaptuneStatusUpdated Name = "saptune_status_updated"

	NameClusterRegistered            Name = "cluster_registered"
	NameClusterDetailsUpdated        Name = "cluster_details_updated"
	NameChecksExecutionStarted       Name = "checks_execution_started"
	NameChecksExecutionCompleted     Name = "checks_execution_completed"
	NameChecksResultsUpdated         Name = "checks_results_updated"
	NameClusterHealthChanged         Name = "cluster_health_changed"
	NameClusterCibLastWrittenUpdated Name = "cluster_cib_last_written_updated"
	NameClusterDeregistered          Name = "cluster_deregistered"
	NameClusterRestored              Name = "cluster_restored"

	NameSAPSystemRegistered                Name = "sap_system_registered"
	NameSAPSystemHealthChanged             Name = "sap_system_health_changed"
	NameSAPSystemDeregistered              Name = "sap_system_deregistered"
	NameSAPSystemRestored                  Name = "sap_system_restored"
	NameSAPSystemUpdated                   Name = "sap_system_updated"
	NameApplicationInstanceRegistered      Name = "application_instance_registered"
	NameApplicationInstanceMoved           Name = "application_instance_moved"
	NameApplicationInstanceAbsentAtChanged Name = "application_instance_absent_at_changed"
	NameApplicationInstanceDeregistered    Name = "application_instance_deregistered"
	NameApplicationInstanceHealthChanged   Name = "application_instance_health_changed"

	NameDatabaseRegistered                       Name = "database_registered"
	NameDatabaseDeregistered                     Name = "database_deregistered"
	NameDatabaseRestored                         Name = "database_restored"
	NameDatabaseHealthChanged                    Name = "database_health_changed"
	NameDatabaseInstanceRegistered               Name = "database_instance_registered"
	NameDatabaseInstanceAbsentAtChanged          Name = "database_instance_absent_at_changed"
	NameDatabaseInstanceDeregistered             Name = "database_instance_deregistered"
	NameDatabaseInstanceHealthChanged            Name = "database_instance_health_changed"
	NameDatabaseInstanceSystemReplicationChanged Name = "database_instance_system_replication_changed"

	NameExecutionStarted   Name = "execution_started"
	NameExecutionCompleted Name = "execution_completed"
)

// Internal events: requests issued by the client and responses of the calls it made.
const (
	NameFetchStarted           Name = "fetch_started"
	NameFetchFailed            Name = "fetch_failed"
	NameHostsFetched           Name = "hosts_fetched"
	NameClustersFetched        Name = "clusters_fetched"
	NameSAPSystemsFetched      Name = "sap_systems_fetched"
	NameDatabasesFetched       Name = "databases_fetched"
	NameHealthSummaryFetched   Name = "health_summary_fetched"
	NameSettingsFetched        Name = "settings_fetched"
	NameCatalogRequested       Name = "catalog_requested"
	NameCatalogFetched         Name = "catalog_fetched"
	NameLastExecutionRequested Name = "last_execution_requested"
	NameLastExecutionFetched   Name = "last_execution_fetched"
	NameLastExecutionFailed    Name = "last_execution_failed"
	NameHealthSummaryRequested Name = "health_summary_requested"
	NameChecksSelected         Name = "checks_selected"
	NameChecksSelectionSaved   Name = "checks_selection_saved"
	NameChecksSelectionFailed  Name = "checks_selection_failed"
	NameExecutionRequested     Name = "execution_requested"
	NameExecutionRequestDone   Name = "execution_request_done"
	NameExecutionRequestFailed Name = "execution_request_failed"
)

// Topics of the push channel.
const (
	TopicHosts      = "monitoring:hosts"
	TopicClusters   = "monitoring:clusters"
	TopicSAPSystems = "monitoring:sap_systems"
	TopicDatabases  = "monitoring:databases"
	TopicExecutions = "monitoring:executions"
)

var topics = map[string][]Name{
	TopicHosts: {
		NameHostRegistered, NameHostDetailsUpdated, NameHeartbeatSucceded, NameHeartbeatFailed,
		NameHostDeregistered, NameHostRestored, NameSaptuneStatusUpdated, NameHostHealthChanged,
	},
	TopicClusters: {
		NameClusterRegistered, NameClusterDetailsUpdated, NameChecksExecutionStarted, NameChecksExecutionCompleted,
		NameChecksResultsUpdated, NameClusterHealthChanged, NameClusterCibLastWrittenUpdated, NameClusterDeregistered, NameClusterRestored,
	},
	TopicSAPSystems: {
		NameSAPSystemRegistered, NameSAPSystemHealthChanged, NameApplicationInstanceRegistered, NameApplicationInstanceMoved,
		NameApplicationInstanceAbsentAtChanged, NameApplicationInstanceDeregistered, NameApplicationInstanceHealthChanged,
		NameSAPSystemDeregistered, NameSAPSystemRestored, NameSAPSystemUpdated,
	},
	TopicDatabases: {
		NameDatabaseRegistered, NameDatabaseDeregistered, NameDatabaseRestored, NameDatabaseHealthChanged,
		NameDatabaseInstanceRegistered, NameDatabaseInstanceAbsentAtChanged, NameDatabaseInstanceDeregistered,
		NameDatabaseInstanceHealthChanged, NameDatabaseInstanceSystemReplicationChanged,
	},
	TopicExecutions: {
		NameExecutionStarted, NameExecutionCompleted,
	},
}

// Topics returns the push channel topics.
func Topics() []string {
	return []string{TopicHosts, TopicClusters, TopicSAPSystems, TopicDatabases, TopicExecutions}
}

// TopicEvents returns the push events published on topic.
func TopicEvents(topic string) []Name {
	return append([]Name{}, topics[topic]...)
}

// PushEvents returns every push event name, topic by topic.
func PushEvents() []Name {
	ret := []Name{}

	for _, topic := range Topics() {
		ret = append(ret, topics[topic]...)
	}

	return ret
}
