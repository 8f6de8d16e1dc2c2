// Package env implements the flow debugging episode engine.
package env

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/metalagman/flowdebug/internal/cases"
	"github.com/rs/zerolog/log"
)

// DefaultMaxAttempts is the attempt budget used when none is configured.
const DefaultMaxAttempts = 3

var (
	// ErrNotReset is returned by Step when no episode is active.
	ErrNotReset = errors.New("call Reset before Step")
	// ErrNoCases is returned by New for an empty case store.
	ErrNoCases = errors.New("case store is empty")
)

// Engine runs one episode at a time over a case store.
// It is not safe for concurrent use.
type Engine struct {
	store        *cases.Store
	maxAttempts  int
	rng          *rand.Rand
	current      cases.Case
	attemptsLeft int
	active       bool
}

type options struct {
	maxAttempts int
	seed        *uint64
}

// Option configures an Engine.
type Option func(*options)

// WithMaxAttempts sets the attempts granted per episode.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = n
	}
}

// WithSeed makes case draws reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		s := uint64(seed)
		o.seed = &s
	}
}

// New creates an engine over a non-empty store.
func New(store *cases.Store, opts ...Option) (*Engine, error) {
	o := options{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	if store.Len() == 0 {
		return nil, ErrNoCases
	}
	if o.maxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be > 0, got %d", o.maxAttempts)
	}
	var src rand.Source
	if o.seed != nil {
		src = rand.NewPCG(*o.seed, 0)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Engine{
		store:       store,
		maxAttempts: o.maxAttempts,
		rng:         rand.New(src),
	}, nil
}

// MaxAttempts returns the per-episode attempt budget.
func (e *Engine) MaxAttempts() int {
	return e.maxAttempts
}

// Active reports whether an episode is in progress.
func (e *Engine) Active() bool {
	return e.active
}

// Reset draws a case and starts a new episode.
func (e *Engine) Reset() Observation {
	idx := e.rng.IntN(e.store.Len())
	e.current = e.store.At(idx)
	e.attemptsLeft = e.maxAttempts
	e.active = true
	log.Debug().
		Str("case_id", e.current.ID).
		Int("attempts", e.attemptsLeft).
		Msg("episode reset")
	return e.observe()
}

// Step applies an action to the active episode.
func (e *Engine) Step(a Action) (StepResult, error) {
	if !e.active {
		return StepResult{}, ErrNotReset
	}

	e.attemptsLeft--

	res := e.step(a)
	if res.Done {
		e.active = false
	}
	log.Debug().
		Str("case_id", e.current.ID).
		Str("result", string(res.Info.Result)).
		Float64("reward", res.Reward).
		Int("attempts_left", e.attemptsLeft).
		Bool("done", res.Done).
		Msg("episode step")
	return res, nil
}

func (e *Engine) step(a Action) StepResult {
	if err := a.Validate(); err != nil {
		return e.invalid(err.Error())
	}
	if !e.applyPatch(a.Step, a.Field, a.Value) {
		return e.invalid("patch failed (step/field not found)")
	}

	gold := e.current.GoldFix
	if a.Step == gold.Step && a.Field == gold.Field && a.Value == gold.Value {
		e.markSucceeded()
		obs := e.observe()
		obs.RunStatus = RunSucceeded
		obs.Error = nil
		obs.FailedStep = nil
		return StepResult{
			Observation: obs,
			Reward:      RewardSuccess,
			Done:        true,
			Info:        Info{Result: OutcomeSuccess, CaseID: e.current.ID},
		}
	}

	if e.attemptsLeft <= 0 {
		return StepResult{
			Observation: e.observe(),
			Reward:      RewardOutOfAttempts,
			Done:        true,
			Info:        Info{Result: OutcomeOutOfAttempts, CaseID: e.current.ID},
		}
	}
	return StepResult{
		Observation: e.observe(),
		Reward:      RewardFailedAttempt,
		Info:        Info{Result: OutcomeStillFailed, CaseID: e.current.ID},
	}
}

func (e *Engine) invalid(msg string) StepResult {
	return StepResult{
		Observation: e.observe(),
		Reward:      RewardFailedAttempt,
		Done:        e.attemptsLeft <= 0,
		Info:        Info{Result: OutcomeInvalidAction, Message: msg, CaseID: e.current.ID},
	}
}

// applyPatch only knows the inputs.expression field.
func (e *Engine) applyPatch(stepName, field, value string) bool {
	if field != FieldExpression {
		return false
	}
	for i := range e.current.Steps {
		s := &e.current.Steps[i]
		if s.Name != stepName {
			continue
		}
		if s.Inputs == nil {
			s.Inputs = make(map[string]any)
		}
		s.Inputs["expression"] = value
		return true
	}
	return false
}

func (e *Engine) markSucceeded() {
	for i := range e.current.Steps {
		e.current.Steps[i].Status = cases.StatusSucceeded
	}
}

func (e *Engine) observe() Observation {
	failed := e.current.FailedStep
	return Observation{
		CaseID:       e.current.ID,
		RunStatus:    RunFailed,
		FailedStep:   &failed,
		Error:        cases.CloneValue(e.current.Error),
		Steps:        cases.CloneSteps(e.current.Steps),
		AttemptsLeft: e.attemptsLeft,
	}
}
