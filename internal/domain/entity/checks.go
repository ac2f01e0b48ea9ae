package entity

type ExpectationType string

const (
	ExpectationTypeExpect     ExpectationType = "expect"
	ExpectationTypeExpectSame ExpectationType = "expect_same"
	ExpectationTypeExpectEnum ExpectationType = "expect_enum"
)

type TargetType string

const (
	TargetTypeHost    TargetType = "host"
	TargetTypeCluster TargetType = "cluster"
)

type Expectation struct {
	Name string          `json:"name"`
	Type ExpectationType `json:"type"`
}

// Check is one entry of the checks catalog.
type Check struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Remediation  string        `json:"remediation"`
	Group        string        `json:"group"`
	Severity     Health        `json:"severity"`
	Premium      bool          `json:"premium"`
	Expectations []Expectation `json:"expectations"`
}

// CatalogQuery scopes a catalog fetch. Empty fields are not sent.
type CatalogQuery struct {
	Provider    string `json:"provider"`
	TargetType  string `json:"target_type"`
	ClusterType string `json:"cluster_type"`
	Arch        string `json:"arch"`
}

// ExpectationEvaluation is the outcome of one expectation on one agent.
// ReturnValue is a bool for expect, a severity string for expect_enum and any fact value for expect_same.
// A malformed rule leaves ReturnValue nil and fills Message.
type ExpectationEvaluation struct {
	Name        string          `json:"name"`
	Type        ExpectationType `json:"type"`
	ReturnValue interface{}     `json:"return_value"`
	Message     string          `json:"message"`
}

// Fact is a value gathered on an agent. A non empty Type marks a gathering error.
type Fact struct {
	Name    string      `json:"name"`
	CheckID string      `json:"check_id"`
	Value   interface{} `json:"value"`
	Type    string      `json:"type"`
	Message string      `json:"message"`
}

type ExpectedValue struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// AgentCheckResult carries the evaluations of one agent. A non empty Type marks an agent error
// (fact_gathering_error or timeout) and Message holds its description.
type AgentCheckResult struct {
	AgentID                string                  `json:"agent_id"`
	Hostname               string                  `json:"hostname"`
	ExpectationEvaluations []ExpectationEvaluation `json:"expectation_evaluations"`
	Facts                  []Fact                  `json:"facts"`
	Values                 []ExpectedValue         `json:"values"`
	Type                   string                  `json:"type"`
	Message                string                  `json:"message"`
}

// ExpectationResult is a cluster wide verdict. Result is nil when not computed yet.
type ExpectationResult struct {
	Name   string          `json:"name"`
	Type   ExpectationType `json:"type"`
	Result interface{}     `json:"result"`
}

type CheckResult struct {
	CheckID            string              `json:"check_id"`
	AgentsCheckResults []AgentCheckResult  `json:"agents_check_results"`
	ExpectationResults []ExpectationResult `json:"expectation_results"`
	Result             Health              `json:"result"`
}

type ExecutionStatus string

const (
	ExecutionStatusRequested ExecutionStatus = "requested"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Rank orders statuses along requested, running, then completed or failed.
func (s ExecutionStatus) Rank() int {
	switch s {
	case ExecutionStatusRequested:
		return 1
	case ExecutionStatusRunning:
		return 2
	case ExecutionStatusCompleted, ExecutionStatusFailed:
		return 3
	default:
		return 0
	}
}

type ExecutionTarget struct {
	AgentID string   `json:"agent_id"`
	Checks  []string `json:"checks"`
}

type Execution struct {
	ExecutionID   string            `json:"execution_id"`
	GroupID       string            `json:"group_id"`
	Status        ExecutionStatus   `json:"status"`
	TargetType    TargetType        `json:"target_type"`
	Targets       []ExecutionTarget `json:"targets"`
	CheckResults  []CheckResult     `json:"check_results"`
	PassingCount  int               `json:"passing_count"`
	WarningCount  int               `json:"warning_count"`
	CriticalCount int               `json:"critical_count"`
	Result        Health            `json:"result"`
	StartedAt     string            `json:"started_at"`
	CompletedAt   string            `json:"completed_at"`
}
