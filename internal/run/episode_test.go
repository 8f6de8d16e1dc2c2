package run

import (
	"context"
	"errors"
	"testing"

	"github.com/metalagman/flowdebug/internal/agent"
	"github.com/metalagman/flowdebug/internal/cases"
	"github.com/metalagman/flowdebug/internal/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoStore() *cases.Store {
	return cases.NewStore([]cases.Case{{
		ID: "demo",
		Steps: []cases.Step{{
			Name:   "Condition_Check",
			Inputs: map[string]any{"expression": "@equal(A,B,xlsx)"},
			Status: cases.StatusFailed,
		}},
		Error:      "InvalidTemplate",
		FailedStep: "Condition_Check",
		GoldFix:    cases.GoldFix{Step: "Condition_Check", Field: env.FieldExpression, Value: "@equals(A,B,'xlsx')"},
	}})
}

func newTestEngine(t *testing.T) *env.Engine {
	t.Helper()
	e, err := env.New(demoStore(), env.WithMaxAttempts(3), env.WithSeed(42))
	require.NoError(t, err)
	return e
}

func TestRunner_RuleBasedSolvesDemo(t *testing.T) {
	t.Parallel()

	r := NewRunner(newTestEngine(t), agent.NewRuleBased())
	res, err := r.Episode(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "demo", res.CaseID)
	assert.Equal(t, env.OutcomeSuccess, res.Outcome)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, 1.0, res.TotalReward)
	assert.True(t, res.Solved())
}

func TestRunner_ExhaustsWithWrongPolicy(t *testing.T) {
	t.Parallel()

	wrong := agent.PolicyFunc(func(context.Context, env.Observation) (env.Action, error) {
		return env.PatchExpression("Condition_Check", "@true"), nil
	})
	r := NewRunner(newTestEngine(t), wrong)
	res, err := r.Episode(context.Background())
	require.NoError(t, err)

	assert.Equal(t, env.OutcomeOutOfAttempts, res.Outcome)
	assert.Equal(t, 3, res.Steps)
	assert.InDelta(t, -0.4, res.TotalReward, 1e-9)
}

func TestRunner_PolicyError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := agent.PolicyFunc(func(context.Context, env.Observation) (env.Action, error) {
		return env.Action{}, boom
	})
	_, err := NewRunner(newTestEngine(t), failing).Episode(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRunner_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(newTestEngine(t), agent.NewRuleBased()).Episode(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_RunSummary(t *testing.T) {
	t.Parallel()

	sum, err := NewRunner(newTestEngine(t), agent.NewRuleBased()).Run(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, sum.Results, 4)
	assert.Equal(t, 4, sum.Solved())
	assert.Equal(t, 1.0, sum.MeanReward())
	assert.Equal(t, 0.0, Summary{}.MeanReward())
}
