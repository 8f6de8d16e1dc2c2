// Package run drives repair policies through episodes of the flow debugging environment.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/metalagman/flowdebug/internal/agent"
	"github.com/metalagman/flowdebug/internal/env"
	"github.com/rs/zerolog/log"
)

// Environment is the agent-facing protocol of the episode engine.
type Environment interface {
	Reset() env.Observation
	Step(a env.Action) (env.StepResult, error)
}

// Runner plays episodes with a policy.
type Runner struct {
	env    Environment
	policy agent.Policy
}

// Result summarizes a finished episode.
type Result struct {
	CaseID      string
	Outcome     env.Outcome
	Steps       int
	TotalReward float64
	Duration    time.Duration
}

// Solved reports whether the episode ended with the gold fix applied.
func (r Result) Solved() bool {
	return r.Outcome == env.OutcomeSuccess
}

// Summary aggregates results across episodes.
type Summary struct {
	Results []Result
}

// Solved counts solved episodes.
func (s Summary) Solved() int {
	n := 0
	for _, r := range s.Results {
		if r.Solved() {
			n++
		}
	}
	return n
}

// MeanReward returns the mean total reward per episode.
func (s Summary) MeanReward() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	var total float64
	for _, r := range s.Results {
		total += r.TotalReward
	}
	return total / float64(len(s.Results))
}

// NewRunner creates a runner.
func NewRunner(e Environment, p agent.Policy) *Runner {
	return &Runner{env: e, policy: p}
}

// Episode plays a single episode to completion.
func (r *Runner) Episode(ctx context.Context) (res Result, err error) {
	startedAt := time.Now()
	defer func() {
		res.Duration = time.Since(startedAt)
		event := log.Info().
			Str("case_id", res.CaseID).
			Str("result", string(res.Outcome)).
			Int("steps", res.Steps).
			Float64("total_reward", res.TotalReward).
			Dur("duration", res.Duration)
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("episode finished")
	}()

	obs := r.env.Reset()
	res.CaseID = obs.CaseID
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		action, err := r.policy.Act(ctx, obs)
		if err != nil {
			return res, fmt.Errorf("policy act: %w", err)
		}
		step, err := r.env.Step(action)
		if err != nil {
			return res, fmt.Errorf("env step: %w", err)
		}
		res.Steps++
		res.TotalReward += step.Reward
		res.Outcome = step.Info.Result
		if step.Done {
			return res, nil
		}
		obs = step.Observation
	}
}

// Run plays n episodes and stops at the first error.
func (r *Runner) Run(ctx context.Context, n int) (Summary, error) {
	var sum Summary
	for i := 0; i < n; i++ {
		res, err := r.Episode(ctx)
		if err != nil {
			return sum, fmt.Errorf("episode %d: %w", i+1, err)
		}
		sum.Results = append(sum.Results, res)
	}
	return sum, nil
}
