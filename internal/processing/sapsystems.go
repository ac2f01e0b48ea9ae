package processing

import (
	"context"
	"fmt"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/store"
)

const unknownSID = "unable to determine SID"

func (m *Main) sapSystemRegistered(ctx context.Context, e event.SAPSystemRegistered) {
	m.apply(e.EventName(), store.AppendSAPSystem(e.SAPSystem))

	m.emitter.Record(ctx, e.SID, "New SAP system registered.")
	m.emitter.Notify(fmt.Sprintf("A new SAP System, %s, has been discovered.", e.SID), IconInfo)
}

func (m *Main) sapSystemHealthChanged(_ context.Context, e event.SAPSystemHealthChanged) {
	m.apply(e.EventName(), store.PatchSAPSystem(e.ID, func(system entity.SAPSystem) entity.SAPSystem {
		system.Health = e.Health

		return system
	}))

	sid := unknownSID
	if system, ok := m.store.State().SAPSystems.Get(e.ID); ok && system.SID != "" {
		sid = system.SID
	}

	m.emitter.Notify(fmt.Sprintf("The SAP System %s health is %s!", sid, e.Health), IconInfo)
}

func (m *Main) sapSystemDeregistered(_ context.Context, e event.SAPSystemDeregistered) {
	m.apply(e.EventName(), store.RemoveSAPSystem(e.ID))

	m.emitter.Notify(fmt.Sprintf("The SAP System %s has been deregistered.", e.SID), IconInfo)
}

// sapSystemRestored brings back the system with both its application and database instances.
func (m *Main) sapSystemRestored(_ context.Context, e event.SAPSystemRestored) {
	m.apply(e.EventName(),
		store.AppendSAPSystem(e.SAPSystem),
		store.UpsertDatabaseInstances(e.DatabaseInstances...),
	)

	m.emitter.Notify(fmt.Sprintf("SAP System %s has been restored.", e.SID), IconInfo)
}

func (m *Main) sapSystemUpdated(e event.SAPSystemUpdated) {
	m.apply(e.EventName(), store.PatchSAPSystem(e.ID, func(system entity.SAPSystem) entity.SAPSystem {
		system.EnsaVersion = e.EnsaVersion

		return system
	}))
}

func (m *Main) applicationInstanceRegistered(e event.ApplicationInstanceRegistered) {
	m.apply(e.EventName(), store.UpsertApplicationInstances(e.ApplicationInstance))
}

func (m *Main) applicationInstanceMoved(_ context.Context, e event.ApplicationInstanceMoved) {
	key := entity.InstanceKey{SystemID: e.SAPSystemID, HostID: e.OldHostID, InstanceNumber: e.InstanceNumber}

	m.apply(e.EventName(), store.MoveApplicationInstance(key, e.NewHostID))

	m.emitter.Notify(fmt.Sprintf("The application instance %s in %s has been moved.", e.InstanceNumber, e.SID), IconInfo)
}

func (m *Main) applicationInstanceAbsentAtChanged(_ context.Context, e event.ApplicationInstanceAbsentAtChanged) {
	m.apply(e.EventName(), store.PatchApplicationInstance(e.Key(), func(instance entity.ApplicationInstance) entity.ApplicationInstance {
		instance.AbsentAt = e.AbsentAt

		return instance
	}))

	m.emitter.Notify(fmt.Sprintf("The application instance %s is now %s.", e.SID, presence(e.AbsentAt)), IconInfo)
}

func (m *Main) applicationInstanceDeregistered(_ context.Context, e event.ApplicationInstanceDeregistered) {
	m.apply(e.EventName(), store.RemoveApplicationInstance(e.Key()))

	m.emitter.Notify(fmt.Sprintf("The application instance %s has been deregistered from %s.", e.InstanceNumber, e.SID), IconInfo)
}

func (m *Main) applicationInstanceHealthChanged(e event.ApplicationInstanceHealthChanged) {
	m.apply(e.EventName(), store.UpdateApplicationInstanceHealth(store.InstanceHealth{Key: e.Key(), Health: e.Health}))
}

func presence(absentAt string) string {
	if absentAt != "" {
		return "absent"
	}

	return "present"
}
