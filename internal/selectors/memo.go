package selectors

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fleetsync/fleetsync/internal/checks"
	"github.com/fleetsync/fleetsync/internal/domain/entity"
	"github.com/fleetsync/fleetsync/internal/store"
)

const DefaultMemoSize = 256

type memoKey struct {
	version uint64
	name    string
	arg     string
}

// Memo caches selector results per state version. A new version never hits an older entry.
type Memo struct {
	cache *lru.Cache[memoKey, any]
}

func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}

	cache, err := lru.New[memoKey, any](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create selector cache: %w", err)
	}

	return &Memo{cache: cache}, nil
}

// Select returns fn(state), computing it at most once per (state version, name, arg).
func Select[T any](m *Memo, state store.State, name, arg string, fn func(store.State) T) T {
	if m == nil {
		return fn(state)
	}

	key := memoKey{version: state.Version(), name: name, arg: arg}

	if cached, ok := m.cache.Get(key); ok {
		if ret, ok := cached.(T); ok {
			return ret
		}
	}

	ret := fn(state)
	m.cache.Add(key, ret)

	return ret
}

func (m *Memo) Len() int {
	return m.cache.Len()
}

// Selectors exposes the memoized selectors over a store.
type Selectors struct {
	store *store.Store
	memo  *Memo
}

func New(s *store.Store, memo *Memo) Selectors {
	return Selectors{store: s, memo: memo}
}

func (s Selectors) InstancesOnHost(hostID string) []SAPInstance {
	return Select(s.memo, s.store.State(), "instancesOnHost", hostID, func(state store.State) []SAPInstance {
		return InstancesOnHost(state, hostID)
	})
}

func (s Selectors) AllSAPInstances() []SAPInstance {
	return Select(s.memo, s.store.State(), "allSAPInstances", "", AllSAPInstances)
}

func (s Selectors) ClusterHosts(clusterID string) []HostWithCluster {
	return Select(s.memo, s.store.State(), "clusterHosts", clusterID, func(state store.State) []HostWithCluster {
		ret := []HostWithCluster{}
		for _, host := range ClusterHosts(state, clusterID) {
			ret = appendHost(ret, enrichHost(state, host.ID))
		}

		return ret
	})
}

func (s Selectors) ClusterHealthSummary(clusterID string) []entity.SAPSystemHealth {
	return Select(s.memo, s.store.State(), "clusterHealthSummary", clusterID, func(state store.State) []entity.SAPSystemHealth {
		return ClusterHealthSummary(state, clusterID)
	})
}

func (s Selectors) SAPSystemDetails(id string) (SAPSystemDetail, bool) {
	ret := Select(s.memo, s.store.State(), "sapSystemDetails", id, func(state store.State) *SAPSystemDetail {
		detail, found := SAPSystemDetails(state, id)
		if !found {
			return nil
		}

		return &detail
	})
	if ret == nil {
		return SAPSystemDetail{}, false
	}

	return *ret, true
}

func (s Selectors) DatabaseDetails(id string) (DatabaseDetail, bool) {
	ret := Select(s.memo, s.store.State(), "databaseDetails", id, func(state store.State) *DatabaseDetail {
		detail, found := DatabaseDetails(state, id)
		if !found {
			return nil
		}

		return &detail
	})
	if ret == nil {
		return DatabaseDetail{}, false
	}

	return *ret, true
}

func (s Selectors) LastExecutionData(groupID string, targetType entity.TargetType) ExecutionView {
	return Select(s.memo, s.store.State(), "lastExecutionData", string(targetType)+"/"+groupID, func(state store.State) ExecutionView {
		return LastExecutionData(state, groupID, targetType)
	})
}

func (s Selectors) CheckOutline(groupID string, targetType entity.TargetType, checkID string) []checks.OutlineRow {
	return Select(s.memo, s.store.State(), "checkOutline", string(targetType)+"/"+groupID+"/"+checkID, func(state store.State) []checks.OutlineRow {
		return CheckOutline(state, groupID, targetType, checkID)
	})
}

func (s Selectors) HostCheckDetail(groupID string, targetType entity.TargetType, checkID, agentID string) (checks.HostDetail, bool) {
	ret := Select(s.memo, s.store.State(), "hostCheckDetail", string(targetType)+"/"+groupID+"/"+checkID+"/"+agentID, func(state store.State) *checks.HostDetail {
		detail, found := HostCheckDetail(state, groupID, targetType, checkID, agentID)
		if !found {
			return nil
		}

		return &detail
	})
	if ret == nil {
		return checks.HostDetail{}, false
	}

	return *ret, true
}

func (s Selectors) ExpectSameFacts(groupID, checkID string) []checks.ExpectSameFact {
	return Select(s.memo, s.store.State(), "expectSameFacts", groupID+"/"+checkID, func(state store.State) []checks.ExpectSameFact {
		return ExpectSameFacts(state, groupID, checkID)
	})
}

func (s Selectors) CheckCategories(groupID string, targetType entity.TargetType) []string {
	return Select(s.memo, s.store.State(), "checkCategories", string(targetType)+"/"+groupID, func(state store.State) []string {
		return CheckCategories(state, groupID, targetType)
	})
}
