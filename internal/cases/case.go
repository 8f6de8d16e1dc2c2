// Package cases provides the failure case model and the read-only case store.
package cases

const (
	// StatusFailed marks a step that failed during the recorded run.
	StatusFailed = "Failed"
	// StatusSucceeded marks a step that succeeded.
	StatusSucceeded = "Succeeded"
)

// Case is a recorded flow failure together with its known-correct fix.
type Case struct {
	ID         string  `json:"case_id"     mapstructure:"case_id"`
	Steps      []Step  `json:"steps"       mapstructure:"steps"`
	Error      any     `json:"error"       mapstructure:"error"`
	FailedStep string  `json:"failed_step" mapstructure:"failed_step"`
	GoldFix    GoldFix `json:"gold_fix"    mapstructure:"gold_fix"`
}

// Step is a single step of a flow definition.
type Step struct {
	Name   string         `json:"name"             mapstructure:"name"`
	Inputs map[string]any `json:"inputs,omitempty" mapstructure:"inputs"`
	Status string         `json:"status,omitempty" mapstructure:"status"`
}

// GoldFix is the unique patch that repairs a case.
type GoldFix struct {
	Step  string `json:"step"  mapstructure:"step"`
	Field string `json:"field" mapstructure:"field"`
	Value string `json:"value" mapstructure:"value"`
}

// Clone returns a deep copy of the case.
func (c Case) Clone() Case {
	out := c
	out.Steps = CloneSteps(c.Steps)
	out.Error = CloneValue(c.Error)
	return out
}

// CloneSteps returns a deep copy of a step sequence.
func CloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	out := s
	if s.Inputs != nil {
		out.Inputs = cloneMap(s.Inputs)
	}
	return out
}

// Expression returns the step's inputs.expression value when it is a string.
func (s Step) Expression() (string, bool) {
	if s.Inputs == nil {
		return "", false
	}
	expr, ok := s.Inputs["expression"].(string)
	return expr, ok
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies the container types produced by JSON and YAML decoding.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case []byte:
		return append([]byte(nil), t...)
	default:
		return v
	}
}
