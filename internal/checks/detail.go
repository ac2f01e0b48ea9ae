package checks

import (
	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

const (
	NoFactsGathered           = "No facts were gathered"
	ExpectedValuesUnavailable = "Expected Values unavailable"
)

// ExpectationRow is the normalized result of a host expectation.
// Message is set when the rule itself could not be evaluated.
type ExpectationRow struct {
	Name    string
	Result  entity.Health
	Message string
}

type FactRow struct {
	Name  string
	Value interface{}
	Error string
}

// HostDetail is the per host view of a check result.
// Each *Message field is only set when the corresponding list is unavailable.
type HostDetail struct {
	Expectations        []ExpectationRow
	ExpectationsMessage string
	Values              []entity.ExpectedValue
	ValuesMessage       string
	Facts               []FactRow
	FactsMessage        string
}

// Detail computes the host view of checkID for agentID in execution.
func Detail(check entity.Check, execution *entity.Execution, agentID string) HostDetail {
	agent, _ := GetAgentCheckResultByAgentID(execution, check.ID, agentID)

	ret := HostDetail{}

	if IsAgentCheckError(agent) {
		ret.ExpectationsMessage = agent.Message
		ret.ValuesMessage = ExpectedValuesUnavailable
	} else {
		ret.Expectations = expectationRows(check, agent.ExpectationEvaluations)
		ret.Values = agent.Values
	}

	ret.Facts = factRows(agent.Facts)
	if len(ret.Facts) == 0 {
		ret.FactsMessage = NoFactsGathered
	}

	return ret
}

func expectationRows(check entity.Check, evaluations []entity.ExpectationEvaluation) []ExpectationRow {
	results := GetHostExpectationStatementsResults(check.Expectations, evaluations)
	ret := make([]ExpectationRow, 0, len(results))

	for _, result := range results {
		ret = append(ret, ExpectationRow{
			Name:    result.Name,
			Result:  NormalizeExpectationResult(result.ReturnValue, check.Severity),
			Message: result.Message,
		})
	}

	return ret
}

func factRows(facts []entity.Fact) []FactRow {
	ret := make([]FactRow, 0, len(facts))

	for _, fact := range facts {
		row := FactRow{Name: fact.Name, Value: fact.Value}
		if fact.Type != "" {
			row.Value = nil
			row.Error = fact.Message
		}

		ret = append(ret, row)
	}

	return ret
}
