package store

import "github.com/fleetsync/fleetsync/internal/domain/entity"

// Instance is an application or database instance, identified by its (system, host, instance number) tuple.
type Instance[T any] interface {
	Key() entity.InstanceKey
	WithHealth(entity.Health) T
}

func InstancesMatch[T Instance[T]](a, b T) bool {
	return a.Key() == b.Key()
}

// UpsertInstances removes from current every instance matched by an incoming one, then appends incoming.
func UpsertInstances[T Instance[T]](current, incoming []T) []T {
	ret := make([]T, 0, len(current)+len(incoming))

	for _, instance := range current {
		if !matchesAny(instance, incoming) {
			ret = append(ret, instance)
		}
	}

	return append(ret, incoming...)
}

// upsertInstances stores incoming in c the way UpsertInstances does.
// Nothing changes when every incoming instance is already stored with the same content.
func upsertInstances[T Instance[T]](c Collection[entity.InstanceKey, T], incoming []T) (Collection[entity.InstanceKey, T], bool) {
	if c.containsAll(incoming) {
		return c, false
	}

	return c.SetAll(UpsertInstances(c.All(), incoming)), true
}

// InstanceHealth is the payload of an instance health change.
type InstanceHealth struct {
	Key    entity.InstanceKey
	Health entity.Health
}

// UpdateInstanceHealth sets the health of instance when its tuple matches, and returns it unchanged otherwise.
func UpdateInstanceHealth[T Instance[T]](payload InstanceHealth, instance T) T {
	if instance.Key() != payload.Key {
		return instance
	}

	return instance.WithHealth(payload.Health)
}

func matchesAny[T Instance[T]](instance T, list []T) bool {
	for _, other := range list {
		if InstancesMatch(instance, other) {
			return true
		}
	}

	return false
}

func instanceKey[T Instance[T]](instance T) entity.InstanceKey {
	return instance.Key()
}
