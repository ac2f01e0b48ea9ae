package checks

import (
	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

const defaultSeverity = entity.HealthCritical

// IsHostExpectation reports whether the expectation is evaluated per agent.
func IsHostExpectation(expectationType entity.ExpectationType) bool {
	return expectationType == entity.ExpectationTypeExpect || expectationType == entity.ExpectationTypeExpectEnum
}

func IsExpectSame(expectationType entity.ExpectationType) bool {
	return expectationType == entity.ExpectationTypeExpectSame
}

// IsAgentCheckError reports whether the agent failed to gather facts or timed out.
func IsAgentCheckError(result entity.AgentCheckResult) bool {
	return result.Type != ""
}

// NormalizeExpectationResult maps a raw return value to a severity.
// true is passing, false is the check severity (critical when unset), a severity string is kept as is.
// Any other value, including nil, is unknown: a number, a list or an object has no severity and the raw
// value is not carried in the returned health. Callers needing it read the evaluation ReturnValue.
func NormalizeExpectationResult(result interface{}, severity entity.Health) entity.Health {
	switch value := result.(type) {
	case bool:
		if value {
			return entity.HealthPassing
		}

		if severity == "" {
			return defaultSeverity
		}

		return severity
	case entity.Health:
		return value
	case string:
		return entity.Health(value)
	default:
		return entity.HealthUnknown
	}
}

// IsMet reports whether a host expectation return value counts as met.
func IsMet(returnValue interface{}) bool {
	switch value := returnValue.(type) {
	case bool:
		return value
	case entity.Health:
		return value == entity.HealthPassing
	case string:
		return value == string(entity.HealthPassing)
	default:
		return false
	}
}

// GetExpectStatements keeps the host expectations (expect and expect_enum).
func GetExpectStatements(expectations []entity.Expectation) []entity.Expectation {
	ret := []entity.Expectation{}

	for _, expectation := range expectations {
		if IsHostExpectation(expectation.Type) {
			ret = append(ret, expectation)
		}
	}

	return ret
}

func GetExpectSameStatements(expectations []entity.Expectation) []entity.Expectation {
	ret := []entity.Expectation{}

	for _, expectation := range expectations {
		if IsExpectSame(expectation.Type) {
			ret = append(ret, expectation)
		}
	}

	return ret
}

// GetHostExpectationStatementsResults returns, for each host expectation of the catalog, the agent evaluation
// with the same name. A missing evaluation is returned with its name and a nil return value.
func GetHostExpectationStatementsResults(expectations []entity.Expectation, evaluations []entity.ExpectationEvaluation) []entity.ExpectationEvaluation {
	statements := GetExpectStatements(expectations)
	ret := make([]entity.ExpectationEvaluation, 0, len(statements))

	for _, statement := range statements {
		evaluation, found := findEvaluation(evaluations, statement.Name)
		if !found {
			evaluation = entity.ExpectationEvaluation{Name: statement.Name, Type: statement.Type}
		}

		ret = append(ret, evaluation)
	}

	return ret
}

// GetExpectSameStatementResult returns the cluster wide result of name, with a nil result when not computed.
func GetExpectSameStatementResult(results []entity.ExpectationResult, name string) entity.ExpectationResult {
	for _, result := range results {
		if result.Name == name {
			return result
		}
	}

	return entity.ExpectationResult{Name: name, Result: nil}
}

func GetExpectSameStatementsResults(expectations []entity.Expectation, results []entity.ExpectationResult) []entity.ExpectationResult {
	statements := GetExpectSameStatements(expectations)
	ret := make([]entity.ExpectationResult, 0, len(statements))

	for _, statement := range statements {
		ret = append(ret, GetExpectSameStatementResult(results, statement.Name))
	}

	return ret
}

// GetHostExpectationStatementsMet counts the host evaluations returning true or passing.
func GetHostExpectationStatementsMet(evaluations []entity.ExpectationEvaluation) int {
	ret := 0

	for _, evaluation := range evaluations {
		if IsHostExpectation(evaluation.Type) && IsMet(evaluation.ReturnValue) {
			ret++
		}
	}

	return ret
}

// ExpectSameFact is the side by side table of an expect_same expectation: hostname to gathered value.
type ExpectSameFact struct {
	Name   string
	Values map[string]interface{}
}

// GetExpectSameFacts builds, for each expect_same expectation, the value reported by each host.
// An errored agent contributes its error message instead of a value.
func GetExpectSameFacts(expectations []entity.Expectation, agents []entity.AgentCheckResult) []ExpectSameFact {
	statements := GetExpectSameStatements(expectations)
	ret := make([]ExpectSameFact, 0, len(statements))

	for _, statement := range statements {
		values := make(map[string]interface{}, len(agents))

		for _, agent := range agents {
			values[agent.Hostname] = expectSameValue(agent, statement.Name)
		}

		ret = append(ret, ExpectSameFact{Name: statement.Name, Values: values})
	}

	return ret
}

func expectSameValue(agent entity.AgentCheckResult, name string) interface{} {
	if IsAgentCheckError(agent) {
		return agent.Message
	}

	evaluation, found := findEvaluation(agent.ExpectationEvaluations, name)
	if !found {
		return agent.Message
	}

	if evaluation.ReturnValue == nil && evaluation.Message != "" {
		return evaluation.Message
	}

	return evaluation.ReturnValue
}

func findEvaluation(evaluations []entity.ExpectationEvaluation, name string) (entity.ExpectationEvaluation, bool) {
	for _, evaluation := range evaluations {
		if evaluation.Name == name {
			return evaluation, true
		}
	}

	return entity.ExpectationEvaluation{}, false
}
