package checks

import (
	"sort"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

func FindCheck(catalog []entity.Check, checkID string) (entity.Check, bool) {
	for _, check := range catalog {
		if check.ID == checkID {
			return check, true
		}
	}

	return entity.Check{}, false
}

func GetCheckDescription(catalog []entity.Check, checkID string) string {
	check, _ := FindCheck(catalog, checkID)

	return check.Description
}

func GetCheckRemediation(catalog []entity.Check, checkID string) string {
	check, _ := FindCheck(catalog, checkID)

	return check.Remediation
}

func GetCheckGroup(catalog []entity.Check, checkID string) string {
	check, _ := FindCheck(catalog, checkID)

	return check.Group
}

func GetCheckExpectations(catalog []entity.Check, checkID string) []entity.Expectation {
	check, found := FindCheck(catalog, checkID)
	if !found {
		return []entity.Expectation{}
	}

	return check.Expectations
}

// GetCatalogCategoryList returns the sorted, distinct groups of the checks present in results.
// A check missing from the catalog belongs to the empty group.
func GetCatalogCategoryList(catalog []entity.Check, results []entity.CheckResult) []string {
	if len(catalog) == 0 || len(results) == 0 {
		return []string{}
	}

	seen := map[string]struct{}{}
	ret := []string{}

	for _, result := range results {
		group := GetCheckGroup(catalog, result.CheckID)
		if _, ok := seen[group]; ok {
			continue
		}

		seen[group] = struct{}{}
		ret = append(ret, group)
	}

	sort.Strings(ret)

	return ret
}

func GetCheckResults(execution *entity.Execution) []entity.CheckResult {
	if execution == nil || execution.CheckResults == nil {
		return []entity.CheckResult{}
	}

	return execution.CheckResults
}

func GetCheckResult(execution *entity.Execution, checkID string) (entity.CheckResult, bool) {
	for _, result := range GetCheckResults(execution) {
		if result.CheckID == checkID {
			return result, true
		}
	}

	return entity.CheckResult{}, false
}

func GetAgentCheckResultByAgentID(execution *entity.Execution, checkID, agentID string) (entity.AgentCheckResult, bool) {
	result, _ := GetCheckResult(execution, checkID)

	for _, agent := range result.AgentsCheckResults {
		if agent.AgentID == agentID {
			return agent, true
		}
	}

	return entity.AgentCheckResult{}, false
}

// SortCheckResults returns a copy of results ordered by check id.
func SortCheckResults(results []entity.CheckResult) []entity.CheckResult {
	ret := append([]entity.CheckResult{}, results...)

	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].CheckID < ret[j].CheckID
	})

	return ret
}

// GetTargetName returns the cluster name or the hostname of an execution target.
func GetTargetName(target interface{}, targetType entity.TargetType) string {
	switch targetType {
	case entity.TargetTypeCluster:
		if cluster, ok := target.(entity.Cluster); ok {
			return cluster.Name
		}
	case entity.TargetTypeHost:
		if host, ok := target.(entity.Host); ok {
			return host.Hostname
		}
	}

	return ""
}
