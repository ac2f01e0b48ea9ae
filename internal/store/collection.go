package store

import "reflect"

// Collection is an ordered, keyed and immutable list of entities.
// Every write returns a new Collection and leaves the receiver untouched.
type Collection[K comparable, T any] struct {
	keyOf func(T) K

	order []K
	items map[K]T
}

func NewCollection[K comparable, T any](keyOf func(T) K) Collection[K, T] {
	return Collection[K, T]{
		keyOf: keyOf,
		items: map[K]T{},
	}
}

func (c Collection[K, T]) Len() int {
	return len(c.order)
}

func (c Collection[K, T]) Get(key K) (T, bool) {
	ret, ok := c.items[key]

	return ret, ok
}

func (c Collection[K, T]) Has(key K) bool {
	_, ok := c.items[key]

	return ok
}

// All returns the entities in collection order.
func (c Collection[K, T]) All() []T {
	ret := make([]T, 0, len(c.order))

	for _, key := range c.order {
		ret = append(ret, c.items[key])
	}

	return ret
}

func (c Collection[K, T]) Filter(keep func(T) bool) []T {
	ret := []T{}

	for _, key := range c.order {
		item := c.items[key]
		if keep(item) {
			ret = append(ret, item)
		}
	}

	return ret
}

// SetAll replaces the whole content. A duplicated key keeps its first position and its last value.
func (c Collection[K, T]) SetAll(list []T) Collection[K, T] {
	ret := Collection[K, T]{
		keyOf: c.keyOf,
		order: make([]K, 0, len(list)),
		items: make(map[K]T, len(list)),
	}

	for _, item := range list {
		key := c.keyOf(item)

		if _, exists := ret.items[key]; !exists {
			ret.order = append(ret.order, key)
		}

		ret.items[key] = item
	}

	return ret
}

// Clear returns an empty collection sharing the key function.
func (c Collection[K, T]) Clear() Collection[K, T] {
	return NewCollection(c.keyOf)
}

// Upsert replaces the entity with the same key in place, or appends it.
// The second value is false when the stored entity is already equal to item.
func (c Collection[K, T]) Upsert(item T) (Collection[K, T], bool) {
	key := c.keyOf(item)

	current, exists := c.items[key]
	if exists && reflect.DeepEqual(current, item) {
		return c, false
	}

	ret := c.clone()
	if !exists {
		ret.order = append(ret.order, key)
	}

	ret.items[key] = item

	return ret, true
}

// InsertSorted inserts a new entity before the first entity that does not sort before it.
// An entity with an existing key is replaced in place.
func (c Collection[K, T]) InsertSorted(item T, less func(a, b T) bool) (Collection[K, T], bool) {
	key := c.keyOf(item)

	if c.Has(key) {
		return c.Upsert(item)
	}

	ret := c.clone()
	ret.items[key] = item

	pos := len(ret.order)
	for i, k := range ret.order {
		if less(item, ret.items[k]) {
			pos = i

			break
		}
	}

	ret.order = append(ret.order, key)
	copy(ret.order[pos+1:], ret.order[pos:])
	ret.order[pos] = key

	return ret, true
}

// Patch applies fn to the entity stored under key. fn must not change the key.
func (c Collection[K, T]) Patch(key K, fn func(T) T) (Collection[K, T], bool) {
	current, exists := c.items[key]
	if !exists {
		return c, false
	}

	updated := fn(current)
	if reflect.DeepEqual(current, updated) {
		return c, false
	}

	ret := c.clone()
	ret.items[key] = updated

	return ret, true
}

// PatchWhere applies fn to every entity matching the predicate.
func (c Collection[K, T]) PatchWhere(match func(T) bool, fn func(T) T) (Collection[K, T], bool) {
	ret := c
	changed := false

	for _, key := range c.order {
		if !match(c.items[key]) {
			continue
		}

		var ok bool

		ret, ok = ret.Patch(key, fn)
		changed = changed || ok
	}

	return ret, changed
}

// Rekey applies fn to the entity stored under key, fn being allowed to change its identity.
// The entity keeps its position. Another entity already owning the new key is dropped.
func (c Collection[K, T]) Rekey(key K, fn func(T) T) (Collection[K, T], bool) {
	current, exists := c.items[key]
	if !exists {
		return c, false
	}

	updated := fn(current)
	newKey := c.keyOf(updated)

	if newKey == key {
		return c.Patch(key, fn)
	}

	ret := Collection[K, T]{
		keyOf: c.keyOf,
		order: make([]K, 0, len(c.order)),
		items: make(map[K]T, len(c.items)),
	}

	for _, k := range c.order {
		switch k {
		case newKey:
			continue
		case key:
			ret.order = append(ret.order, newKey)
			ret.items[newKey] = updated
		default:
			ret.order = append(ret.order, k)
			ret.items[k] = c.items[k]
		}
	}

	return ret, true
}

func (c Collection[K, T]) Remove(key K) (Collection[K, T], bool) {
	return c.RemoveWhere(func(item T) bool {
		return c.keyOf(item) == key
	})
}

func (c Collection[K, T]) RemoveWhere(match func(T) bool) (Collection[K, T], bool) {
	ret := Collection[K, T]{
		keyOf: c.keyOf,
		order: make([]K, 0, len(c.order)),
		items: make(map[K]T, len(c.items)),
	}

	for _, key := range c.order {
		item := c.items[key]
		if match(item) {
			continue
		}

		ret.order = append(ret.order, key)
		ret.items[key] = item
	}

	if len(ret.order) == len(c.order) {
		return c, false
	}

	return ret, true
}

func (c Collection[K, T]) containsAll(incoming []T) bool {
	for _, item := range incoming {
		current, exists := c.items[c.keyOf(item)]
		if !exists || !reflect.DeepEqual(current, item) {
			return false
		}
	}

	return true
}

func (c Collection[K, T]) clone() Collection[K, T] {
	ret := Collection[K, T]{
		keyOf: c.keyOf,
		order: make([]K, len(c.order), len(c.order)+1),
		items: make(map[K]T, len(c.items)+1),
	}

	copy(ret.order, c.order)

	for k, v := range c.items {
		ret.items[k] = v
	}

	return ret
}
