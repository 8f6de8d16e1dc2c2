package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/metalagman/flowdebug/internal/env"
)

// RuleBasedName is the registry name of the rule-based policy.
const RuleBasedName = "rule_based"

// DefaultTargetStep is repaired when the observation names no failed step.
const DefaultTargetStep = "Condition_Check"

var (
	bareXLSXArg  = regexp.MustCompile(`,\s*xlsx\s*\)`)
	strayXLSXArg = regexp.MustCompile(`\)\s*'xlsx'\s*\)`)
)

// RuleBased repairs common typos in condition expressions with fixed rewrite rules.
type RuleBased struct{}

// NewRuleBased creates the rule-based policy.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Act patches the failed step with the repaired expression.
func (p *RuleBased) Act(_ context.Context, obs env.Observation) (env.Action, error) {
	target := DefaultTargetStep
	if obs.FailedStep != nil && *obs.FailedStep != "" {
		target = *obs.FailedStep
	}
	step, ok := obs.FindStep(target)
	if !ok {
		return env.Action{}, fmt.Errorf("%w: step %q not found", ErrNoTarget, target)
	}
	expr, ok := step.Expression()
	if !ok {
		return env.Action{}, fmt.Errorf("%w: step %q has no expression", ErrNoTarget, target)
	}
	return env.PatchExpression(target, RepairExpression(expr)), nil
}

// RepairExpression applies the rewrite rules to a single expression.
func RepairExpression(expr string) string {
	fixed := strings.ReplaceAll(expr, "@equal(", "@equals(")
	fixed = bareXLSXArg.ReplaceAllString(fixed, ",'xlsx')")
	fixed = strayXLSXArg.ReplaceAllString(fixed, "),'xlsx')")

	opens := strings.Count(fixed, "(")
	if closes := strings.Count(fixed, ")"); opens > closes {
		fixed += strings.Repeat(")", opens-closes)
	}
	for strings.HasSuffix(fixed, "))") && strings.Count(fixed, ")") > strings.Count(fixed, "(") {
		fixed = fixed[:len(fixed)-1]
	}
	return fixed
}
