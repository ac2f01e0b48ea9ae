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

func (m *Main) hostRegistered(ctx context.Context, e event.HostRegistered) {
	m.apply(e.EventName(), store.AppendHost(e.Host))

	m.emitter.Record(ctx, e.Hostname, "New host registered.")
	m.emitter.Notify(fmt.Sprintf("A new host, %s, has been discovered.", e.Hostname), IconInfo)
}

func (m *Main) hostDetailsUpdated(ctx context.Context, e event.HostDetailsUpdated) error {
	var mergeErr error

	m.apply(e.EventName(), store.PatchHost(e.ID, func(host entity.Host) entity.Host {
		updated := host

		mergeErr = e.MergeInto(&updated)
		if mergeErr != nil {
			return host
		}

		return updated
	}))

	if mergeErr != nil {
		return pipeline.NewErrProcessingError(mergeErr, common.InvalidPayloadCategory, nil)
	}

	m.emitter.Record(ctx, m.hostname(e.ID), "Host details updated.")

	return nil
}

func (m *Main) heartbeatSucceded(ctx context.Context, e event.HeartbeatSucceded) {
	m.apply(e.EventName(), store.PatchHost(e.ID, func(host entity.Host) entity.Host {
		host.Heartbeat = entity.HealthPassing

		return host
	}))

	m.emitter.Record(ctx, e.Hostname, "Heartbeat is passing.")
	m.emitter.Notify(fmt.Sprintf("The host %s heartbeat is alive.", e.Hostname), IconAlive)
}

func (m *Main) heartbeatFailed(ctx context.Context, e event.HeartbeatFailed) {
	m.apply(e.EventName(), store.PatchHost(e.ID, func(host entity.Host) entity.Host {
		host.Heartbeat = entity.HealthCritical

		return host
	}))

	m.emitter.Record(ctx, e.Hostname, "Heartbeat is failing.")
	m.emitter.Notify(fmt.Sprintf("The host %s heartbeat is failing.", e.Hostname), IconFailing)
}

func (m *Main) hostDeregistered(_ context.Context, e event.HostDeregistered) {
	m.apply(e.EventName(), store.RemoveHost(e.ID))

	m.emitter.Notify(fmt.Sprintf("The host %s has been deregistered.", e.Hostname), IconInfo)
}

func (m *Main) hostRestored(_ context.Context, e event.HostRestored) {
	m.apply(e.EventName(), store.AppendHost(e.Host))

	m.emitter.Notify(fmt.Sprintf("Host %s has been restored.", e.Hostname), IconInfo)
}

func (m *Main) hostHealthChanged(_ context.Context, e event.HostHealthChanged) {
	m.apply(e.EventName(), store.PatchHost(e.ID, func(host entity.Host) entity.Host {
		host.Health = e.Health

		return host
	}))

	m.emitter.Notify(fmt.Sprintf("Host %s health changed to %s.", e.Hostname, e.Health), IconInfo)
}

func (m *Main) saptuneStatusUpdated(_ context.Context, e event.SaptuneStatusUpdated) {
	m.apply(e.EventName(), store.PatchHost(e.ID, func(host entity.Host) entity.Host {
		host.SaptuneStatus = e.Status

		return host
	}))

	m.emitter.Notify(fmt.Sprintf("Saptune status updated in host %s.", e.Hostname), IconInfo)
}

// hostname falls back to the id when the host is not known yet.
func (m *Main) hostname(id string) string {
	host, ok := m.store.State().Hosts.Get(id)
	if !ok || host.Hostname == "" {
		return id
	}

	return host.Hostname
}
