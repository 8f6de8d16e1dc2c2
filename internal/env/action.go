package env

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ActionKind tags the variant of an Action.
type ActionKind string

const (
	// ActionPatchStep replaces a field of a step.
	ActionPatchStep ActionKind = "patch_step"
)

// FieldExpression is the only patchable field path.
const FieldExpression = "inputs.expression"

// ErrInvalidAction is wrapped by every action validation failure.
var ErrInvalidAction = errors.New("invalid action")

// Action is the intent submitted by an agent.
type Action struct {
	Kind  ActionKind `json:"action"`
	Step  string     `json:"step"`
	Field string     `json:"field"`
	Value string     `json:"value"`
}

// PatchExpression builds the single supported action.
func PatchExpression(step, value string) Action {
	return Action{Kind: ActionPatchStep, Step: step, Field: FieldExpression, Value: value}
}

// Validate checks the action tag and its required fields.
func (a Action) Validate() error {
	if a.Kind != ActionPatchStep {
		return fmt.Errorf("%w: unsupported action type %q", ErrInvalidAction, a.Kind)
	}
	var missing []string
	if a.Step == "" {
		missing = append(missing, "step")
	}
	if a.Field == "" {
		missing = append(missing, "field")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required field %s", ErrInvalidAction, strings.Join(missing, ", "))
	}
	return nil
}

type wireAction struct {
	Kind  *string `json:"action"`
	Step  *string `json:"step"`
	Field *string `json:"field"`
	Value *string `json:"value"`
}

// ParseAction decodes an action from its JSON wire form.
// Unknown kinds and absent keys are reported as ErrInvalidAction.
func ParseAction(data []byte) (Action, error) {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	var missing []string
	for _, f := range []struct {
		name string
		val  *string
	}{
		{"action", w.Kind},
		{"step", w.Step},
		{"field", w.Field},
		{"value", w.Value},
	} {
		if f.val == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Action{}, fmt.Errorf("%w: missing required field %s", ErrInvalidAction, strings.Join(missing, ", "))
	}
	a := Action{Kind: ActionKind(*w.Kind), Step: *w.Step, Field: *w.Field, Value: *w.Value}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}
