package processing

import (
	"context"
	"fmt"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/domain/event"
	"github.com/fleetsync/fleetsync/internal/store"
)

func (m *Main) databaseRegistered(ctx context.Context, e event.DatabaseRegistered) {
	m.apply(e.EventName(), store.AppendDatabase(e.Database))

	m.emitter.Record(ctx, e.SID, "New database registered.")
	m.emitter.Notify(fmt.Sprintf("A new Database, %s, has been discovered.", e.SID), IconInfo)
}

func (m *Main) databaseDeregistered(_ context.Context, e event.DatabaseDeregistered) {
	m.apply(e.EventName(), store.RemoveDatabase(e.ID))

	m.emitter.Notify(fmt.Sprintf("The database %s has been deregistered.", e.SID), IconInfo)
}

func (m *Main) databaseRestored(_ context.Context, e event.DatabaseRestored) {
	m.apply(e.EventName(), store.AppendDatabase(e.Database))

	m.emitter.Notify(fmt.Sprintf("The database %s has been restored.", e.SID), IconInfo)
}

func (m *Main) databaseHealthChanged(_ context.Context, e event.DatabaseHealthChanged) {
	m.apply(e.EventName(), store.PatchDatabase(e.ID, func(database entity.Database) entity.Database {
		database.Health = e.Health

		return database
	}))

	sid := unknownSID
	if database, ok := m.store.State().Databases.Get(e.ID); ok && database.SID != "" {
		sid = database.SID
	}

	m.emitter.Notify(fmt.Sprintf("The Database %s health is %s!", sid, e.Health), IconInfo)
}

// databaseInstanceRegistered also shows up in the SAP systems using the database, through the selectors.
func (m *Main) databaseInstanceRegistered(_ context.Context, e event.DatabaseInstanceRegistered) {
	m.apply(e.EventName(), store.UpsertDatabaseInstances(e.DatabaseInstance))

	m.emitter.Notify(fmt.Sprintf("A new Database instance, %s, has been discovered.", e.SID), IconInfo)
}

func (m *Main) databaseInstanceAbsentAtChanged(_ context.Context, e event.DatabaseInstanceAbsentAtChanged) {
	m.apply(e.EventName(), store.PatchDatabaseInstance(e.Key(), func(instance entity.DatabaseInstance) entity.DatabaseInstance {
		instance.AbsentAt = e.AbsentAt

		return instance
	}))

	m.emitter.Notify(fmt.Sprintf("The database instance %s is now %s.", e.SID, presence(e.AbsentAt)), IconInfo)
}

func (m *Main) databaseInstanceDeregistered(_ context.Context, e event.DatabaseInstanceDeregistered) {
	m.apply(e.EventName(), store.RemoveDatabaseInstance(e.Key()))

	m.emitter.Notify(fmt.Sprintf("The database instance %s has been deregistered from %s.", e.InstanceNumber, e.SID), IconInfo)
}

func (m *Main) databaseInstanceHealthChanged(e event.DatabaseInstanceHealthChanged) {
	m.apply(e.EventName(), store.UpdateDatabaseInstanceHealth(store.InstanceHealth{Key: e.Key(), Health: e.Health}))
}

func (m *Main) databaseInstanceSystemReplicationChanged(e event.DatabaseInstanceSystemReplicationChanged) {
	m.apply(e.EventName(), store.PatchDatabaseInstance(e.Key(), func(instance entity.DatabaseInstance) entity.DatabaseInstance {
		instance.SystemReplication = e.SystemReplication
		instance.SystemReplicationStatus = e.SystemReplicationStatus

		return instance
	}))
}
