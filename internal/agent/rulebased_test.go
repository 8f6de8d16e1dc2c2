package agent

import (
	"context"
	"testing"

	"github.com/metalagman/flowdebug/internal/cases"
	"github.com/metalagman/flowdebug/internal/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "@equal(A,B,xlsx)", want: "@equals(A,B,'xlsx')"},
		{in: "@equals(A,B, xlsx )", want: "@equals(A,B,'xlsx')"},
		{in: "@equals(A,B,'xlsx'", want: "@equals(A,B,'xlsx')"},
		{in: "@equals(A,B,'xlsx')))", want: "@equals(A,B,'xlsx')"},
		{in: "@equals(A,B,'xlsx')", want: "@equals(A,B,'xlsx')"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RepairExpression(tt.in), tt.in)
	}
}

func TestRuleBased_ActTargetsFailedStep(t *testing.T) {
	t.Parallel()

	failed := "Filter_Rows"
	obs := env.Observation{
		FailedStep: &failed,
		Steps: []cases.Step{
			{Name: "Condition_Check", Inputs: map[string]any{"expression": "@equal(X,Y,xlsx)"}},
			{Name: "Filter_Rows", Inputs: map[string]any{"expression": "@equal(A,B,xlsx)"}},
		},
	}

	action, err := NewRuleBased().Act(context.Background(), obs)
	require.NoError(t, err)
	assert.Equal(t, env.PatchExpression("Filter_Rows", "@equals(A,B,'xlsx')"), action)
}

func TestRuleBased_ActDefaultsToConditionCheck(t *testing.T) {
	t.Parallel()

	obs := env.Observation{
		Steps: []cases.Step{{Name: DefaultTargetStep, Inputs: map[string]any{"expression": "@equal(A,B,xlsx)"}}},
	}
	action, err := NewRuleBased().Act(context.Background(), obs)
	require.NoError(t, err)
	assert.Equal(t, DefaultTargetStep, action.Step)
	assert.Equal(t, env.FieldExpression, action.Field)
}

func TestRuleBased_ActWithoutTarget(t *testing.T) {
	t.Parallel()

	_, err := NewRuleBased().Act(context.Background(), env.Observation{})
	assert.ErrorIs(t, err, ErrNoTarget)

	obs := env.Observation{Steps: []cases.Step{{Name: DefaultTargetStep}}}
	_, err = NewRuleBased().Act(context.Background(), obs)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestNewPolicy(t *testing.T) {
	t.Parallel()

	p, err := NewPolicy(RuleBasedName)
	require.NoError(t, err)
	assert.IsType(t, &RuleBased{}, p)

	_, err = NewPolicy("llm")
	assert.EqualError(t, err, `unknown policy "llm"`)
}
