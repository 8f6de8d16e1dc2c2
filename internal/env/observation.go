package env

import "github.com/metalagman/flowdebug/internal/cases"

// Run statuses reported in observations.
const (
	RunFailed    = "Failed"
	RunSucceeded = "Succeeded"
)

// Observation is the snapshot handed to the agent after reset and each step.
type Observation struct {
	CaseID       string       `json:"case_id"`
	RunStatus    string       `json:"run_status"`
	FailedStep   *string      `json:"failed_step"`
	Error        any          `json:"error"`
	Steps        []cases.Step `json:"steps"`
	AttemptsLeft int          `json:"attempts_left"`
}

// FindStep returns the observed step with the given name.
func (o Observation) FindStep(name string) (cases.Step, bool) {
	for _, s := range o.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return cases.Step{}, false
}

// Outcome classifies a step result.
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeOutOfAttempts Outcome = "out_of_attempts"
	OutcomeStillFailed   Outcome = "still_failed"
	OutcomeInvalidAction Outcome = "invalid_action"
)

// Info carries diagnostic details of a step result.
type Info struct {
	Result  Outcome `json:"result"`
	Message string  `json:"message,omitempty"`
	CaseID  string  `json:"case_id"`
}

// StepResult is returned by Engine.Step.
type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      float64     `json:"reward"`
	Done        bool        `json:"done"`
	Info        Info        `json:"info"`
}

// Rewards assigned per outcome.
const (
	RewardSuccess       = 1.0
	RewardFailedAttempt = -0.1
	RewardOutOfAttempts = -0.2
)
