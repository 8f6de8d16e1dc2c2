// Package agent provides repair policies that drive the episode engine.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/metalagman/flowdebug/internal/env"
)

// ErrNoTarget is returned when a policy cannot find a step to repair.
var ErrNoTarget = errors.New("no repairable step in observation")

// Policy chooses the next action from an observation.
type Policy interface {
	Act(ctx context.Context, obs env.Observation) (env.Action, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, obs env.Observation) (env.Action, error)

// Act calls f.
func (f PolicyFunc) Act(ctx context.Context, obs env.Observation) (env.Action, error) {
	return f(ctx, obs)
}

// NewPolicy returns the policy registered under name.
func NewPolicy(name string) (Policy, error) {
	switch name {
	case "", RuleBasedName:
		return NewRuleBased(), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}
