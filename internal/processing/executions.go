package processing

import (
	"context"
	"fmt"

	"github.com/fleetsync/fleetsync/internal/checks"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/store"
)

func (m *Main) lastExecutionRequested(ctx context.Context, e event.LastExecutionRequested) {
	m.apply(event.NameLastExecutionRequested, store.SetLastExecutionLoading(e.GroupID))

	m.tasks.Go(ctx, "fetch_last_execution", func(ctx context.Context) event.Event {
		execution, err := m.backend.GetLastExecution(ctx, e.GroupID)
		if err != nil {
			m.logError(err, "Last execution fetch failed", "groupID", e.GroupID)

			return event.LastExecutionFailed{GroupID: e.GroupID, Error: err.Error()}
		}

		return event.LastExecutionFetched{GroupID: e.GroupID, Execution: execution}
	})
}

func (m *Main) lastExecutionFetched(e event.LastExecutionFetched) {
	if e.Execution == nil {
		m.apply(e.EventName(), store.SetLastExecutionEmpty(e.GroupID))

		return
	}

	m.apply(e.EventName(), store.SetLastExecution(*e.Execution))
}

func (m *Main) executionStarted(e event.ExecutionStarted) {
	m.apply(e.EventName(), store.SetExecutionStarted(e.GroupID, e.ExecutionID, e.TargetType, e.Targets))
}

// executionCompleted refetches the execution: only the server has its check results.
func (m *Main) executionCompleted(ctx context.Context, e event.ExecutionCompleted) {
	m.lastExecutionRequested(ctx, event.LastExecutionRequested{GroupID: e.GroupID})
}

func (m *Main) checksSelected(ctx context.Context, e event.ChecksSelected) {
	m.tasks.Go(ctx, "save_checks_selection", func(ctx context.Context) event.Event {
		err := m.backend.SaveChecksSelection(ctx, e.TargetType, e.GroupID, e.Checks)
		if err != nil {
			m.logError(err, "Checks selection not saved", "groupID", e.GroupID)

			return event.ChecksSelectionFailed{GroupID: e.GroupID, TargetType: e.TargetType, Error: err.Error()}
		}

		return event.ChecksSelectionSaved{GroupID: e.GroupID, TargetType: e.TargetType, Checks: e.Checks}
	})
}

func (m *Main) checksSelectionSaved(ctx context.Context, e event.ChecksSelectionSaved) {
	switch e.TargetType {
	case entity.TargetTypeCluster:
		m.apply(e.EventName(), store.PatchCluster(e.GroupID, func(cluster entity.Cluster) entity.Cluster {
			cluster.SelectedChecks = e.Checks

			return cluster
		}))
	case entity.TargetTypeHost:
		m.apply(e.EventName(), store.PatchHost(e.GroupID, func(host entity.Host) entity.Host {
			host.SelectedChecks = e.Checks

			return host
		}))
	}

	name := m.targetName(e.GroupID, e.TargetType)

	m.emitter.Record(ctx, name, "Checks selection saved")
	m.emitter.Notify(fmt.Sprintf("Checks selection for %s saved", name), IconSaved)
}

func (m *Main) checksSelectionFailed(e event.ChecksSelectionFailed) {
	m.emitter.Notify(fmt.Sprintf("Unable to save selection for %s", m.targetName(e.GroupID, e.TargetType)), IconError)
}

func (m *Main) executionRequested(ctx context.Context, e event.ExecutionRequested) {
	var previousExecutionID string
	if last, ok := m.store.State().LastExecution(e.GroupID); ok && last.Data != nil {
		previousExecutionID = last.Data.ExecutionID
	}

	m.tasks.Go(ctx, "request_execution", func(ctx context.Context) event.Event {
		err := m.backend.RequestExecution(ctx, e.TargetType, e.GroupID)
		if err != nil {
			m.logError(err, "Execution request failed", "groupID", e.GroupID)

			return event.ExecutionRequestFailed{GroupID: e.GroupID, TargetType: e.TargetType, Error: err.Error()}
		}

		return event.ExecutionRequestDone{
			GroupID:             e.GroupID,
			TargetType:          e.TargetType,
			HostIDs:             e.HostIDs,
			Checks:              e.Checks,
			PreviousExecutionID: previousExecutionID,
		}
	})
}

// executionRequestDone leaves alone an execution started or finished while the request was in flight.
func (m *Main) executionRequestDone(_ context.Context, e event.ExecutionRequestDone) {
	superseded := store.ExecutionSuperseded(m.store.State(), e.GroupID, e.PreviousExecutionID)

	mutations := []store.Mutation{store.SetExecutionRequested(e.GroupID, e.TargetType, e.HostIDs, e.Checks, e.PreviousExecutionID)}
	if e.TargetType == entity.TargetTypeCluster && !superseded {
		mutations = append(mutations, store.PatchCluster(e.GroupID, func(cluster entity.Cluster) entity.Cluster {
			if cluster.ChecksExecution != entity.ChecksExecutionRunning {
				cluster.ChecksExecution = entity.ChecksExecutionRequested
			}

			return cluster
		}))
	}

	m.apply(e.EventName(), mutations...)

	m.emitter.Notify(fmt.Sprintf("Checks execution requested, %s: %s", e.TargetType, m.targetName(e.GroupID, e.TargetType)), IconRequested)
}

func (m *Main) executionRequestFailed(e event.ExecutionRequestFailed) {
	m.emitter.Notify(fmt.Sprintf("Unable to start execution for %s: %s", e.TargetType, m.targetName(e.GroupID, e.TargetType)), IconError)
}

// targetName falls back to the id when the target is not known yet.
func (m *Main) targetName(groupID string, targetType entity.TargetType) string {
	state := m.store.State()

	var target interface{}

	switch targetType {
	case entity.TargetTypeCluster:
		if cluster, ok := state.Clusters.Get(groupID); ok {
			target = cluster
		}
	case entity.TargetTypeHost:
		if host, ok := state.Hosts.Get(groupID); ok {
			target = host
		}
	}

	name := checks.GetTargetName(target, targetType)
	if name == "" {
		return groupID
	}

	return name
}
