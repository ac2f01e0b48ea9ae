package processing

import (
	"context"
	"fmt"

	"github.com/fleetsync/fleetsync/internal/common"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/store"
	"github.com/fleetsync/fleetsync/pkg/pipeline"
)

func (m *Main) clusterRegistered(ctx context.Context, e event.ClusterRegistered) {
	m.apply(e.EventName(), store.AppendCluster(e.Cluster))

	m.emitter.Record(ctx, e.Name, "New cluster registered.")
	m.emitter.Notify(fmt.Sprintf("A new cluster, %s, has been discovered.", e.Name), IconInfo)
}

func (m *Main) clusterDetailsUpdated(ctx context.Context, e event.ClusterDetailsUpdated) error {
	var mergeErr error

	m.apply(e.EventName(), store.PatchCluster(e.ID, func(cluster entity.Cluster) entity.Cluster {
		updated := cluster

		mergeErr = e.MergeInto(&updated)
		if mergeErr != nil {
			return cluster
		}

		return updated
	}))

	if mergeErr != nil {
		return pipeline.NewErrProcessingError(mergeErr, common.InvalidPayloadCategory, nil)
	}

	m.emitter.Record(ctx, m.clusterName(e.ID), "Cluster details updated.")

	return nil
}

func (m *Main) checksExecutionStarted(ctx context.Context, e event.ChecksExecutionStarted) {
	m.apply(e.EventName(), setChecksExecution(e.ClusterID, entity.ChecksExecutionRunning))

	name := m.clusterName(e.ClusterID)

	m.emitter.Record(ctx, name, "Checks execution started.")
	m.emitter.Notify(fmt.Sprintf("Checks execution started, cluster: %s", name), IconRequested)
}

func (m *Main) checksExecutionCompleted(ctx context.Context, e event.ChecksExecutionCompleted) {
	m.apply(e.EventName(), setChecksExecution(e.ClusterID, entity.ChecksExecutionNotRunning))

	name := m.clusterName(e.ClusterID)

	m.emitter.Record(ctx, name, "Checks execution completed.")
	m.emitter.Notify(fmt.Sprintf("Checks execution completed, cluster: %s", name), IconCompleted)

	m.lastExecutionRequested(ctx, event.LastExecutionRequested{GroupID: e.ClusterID})
}

func (m *Main) checksResultsUpdated(ctx context.Context, e event.ChecksResultsUpdated) {
	m.apply(e.EventName(), store.PatchCluster(e.ClusterID, func(cluster entity.Cluster) entity.Cluster {
		cluster.ChecksResults = e.ChecksResults

		return cluster
	}))

	m.emitter.Record(ctx, m.clusterName(e.ClusterID), "Checks results updated.")
}

func (m *Main) clusterHealthChanged(_ context.Context, e event.ClusterHealthChanged) {
	m.apply(e.EventName(), store.PatchCluster(e.ClusterID, func(cluster entity.Cluster) entity.Cluster {
		cluster.Health = e.Health

		return cluster
	}))

	m.emitter.Notify(fmt.Sprintf("The cluster %s health is %s!", m.clusterName(e.ClusterID), e.Health), IconInfo)
}

func (m *Main) clusterCibLastWrittenUpdated(e event.ClusterCibLastWrittenUpdated) {
	m.apply(e.EventName(), store.PatchCluster(e.ClusterID, func(cluster entity.Cluster) entity.Cluster {
		cluster.CibLastWritten = e.CibLastWritten

		return cluster
	}))
}

func (m *Main) clusterDeregistered(_ context.Context, e event.ClusterDeregistered) {
	m.apply(e.EventName(), store.RemoveCluster(e.ID))

	m.emitter.Notify(fmt.Sprintf("The cluster %s has been deregistered.", e.Name), IconInfo)
}

func (m *Main) clusterRestored(_ context.Context, e event.ClusterRestored) {
	m.apply(e.EventName(), store.AppendCluster(e.Cluster))

	m.emitter.Notify(fmt.Sprintf("Cluster %s has been restored.", e.Name), IconInfo)
}

func setChecksExecution(clusterID string, status entity.ChecksExecution) store.Mutation {
	return store.PatchCluster(clusterID, func(cluster entity.Cluster) entity.Cluster {
		cluster.ChecksExecution = status

		return cluster
	})
}

// clusterName falls back to the id when the cluster is not known yet.
func (m *Main) clusterName(id string) string {
	cluster, ok := m.store.State().Clusters.Get(id)
	if !ok || cluster.Name == "" {
		return id
	}

	return cluster.Name
}
