package checks

import (
	"fmt"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

// OutlineRow is one line of a check result outline: a cluster wide expect_same verdict or a host summary.
// Unknown is set on an expect_same row whose result is not computed yet.
type OutlineRow struct {
	TargetType      entity.TargetType
	TargetID        string
	TargetName      string
	ExpectationName string
	Summary         string
	Failing         bool
	Unknown         bool
}

func ExpectationsMetSummary(met, total int) string {
	return fmt.Sprintf("%d/%d Expectations met.", met, total)
}

func ExpectSameSummary(name string, same bool) string {
	if same {
		return fmt.Sprintf("Value `%s` is the same on all targets", name)
	}

	return fmt.Sprintf("Value `%s` is not the same on all targets", name)
}

// Outline computes the rows of a check result: expect_same rows first, then one row per agent.
// expect_same rows only exist for a cluster target. Agent rows are omitted when the check declares no host expectation.
func Outline(expectations []entity.Expectation, result entity.CheckResult, targetType entity.TargetType, targetID, targetName string) []OutlineRow {
	ret := []OutlineRow{}
	if targetType == entity.TargetTypeCluster {
		ret = outlineExpectSame(expectations, result.ExpectationResults, targetID, targetName)
	}

	return append(ret, outlineAgents(expectations, result.AgentsCheckResults)...)
}

func outlineExpectSame(expectations []entity.Expectation, results []entity.ExpectationResult, clusterID, clusterName string) []OutlineRow {
	statements := GetExpectSameStatementsResults(expectations, results)
	ret := make([]OutlineRow, 0, len(statements))

	for _, statement := range statements {
		same := isTruthy(statement.Result)
		unknown := statement.Result == nil

		ret = append(ret, OutlineRow{
			TargetType:      entity.TargetTypeCluster,
			TargetID:        clusterID,
			TargetName:      clusterName,
			ExpectationName: statement.Name,
			Summary:         ExpectSameSummary(statement.Name, same),
			Failing:         !same && !unknown,
			Unknown:         unknown,
		})
	}

	return ret
}

func outlineAgents(expectations []entity.Expectation, agents []entity.AgentCheckResult) []OutlineRow {
	total := len(GetExpectStatements(expectations))
	if total == 0 {
		return []OutlineRow{}
	}

	ret := make([]OutlineRow, 0, len(agents))

	for _, agent := range agents {
		errored := IsAgentCheckError(agent)
		met := GetHostExpectationStatementsMet(agent.ExpectationEvaluations)

		summary := ExpectationsMetSummary(met, total)
		if errored {
			summary = agent.Message
		}

		ret = append(ret, OutlineRow{
			TargetType: entity.TargetTypeHost,
			TargetID:   agent.AgentID,
			TargetName: agent.Hostname,
			Summary:    summary,
			Failing:    errored || met < total,
		})
	}

	return ret
}

func isTruthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}
