// Package saga provides all-or-nothing semantics across a sequence of
// independently side-effecting steps that cannot share one atomic
// transaction. On the first step failure every previously completed step is
// compensated in strict reverse order, stack-style, and the original
// failure is surfaced.
package saga

import (
	"context"
	"sync"

	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
	"github.com/anthanhphan/gosdk/logger"
)

// Step exposes a forward action and its compensating (undo) action.
//
// Because compensation may run after partial completion and a surrounding
// system may retry the whole saga, both actions must be safe to re-invoke
// without duplicating externally visible effects. The executor performs no
// deduplication of its own.
type Step interface {
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Func adapts a pair of closures into a Step.
type Func struct {
	ExecuteFn    func(ctx context.Context) error
	CompensateFn func(ctx context.Context) error
}

func (f Func) Execute(ctx context.Context) error {
	if f.ExecuteFn == nil {
		return nil
	}
	return f.ExecuteFn(ctx)
}

func (f Func) Compensate(ctx context.Context) error {
	if f.CompensateFn == nil {
		return nil
	}
	return f.CompensateFn(ctx)
}

// State is the lifecycle of a saga instance.
type State int

const (
	NotStarted State = iota
	Running
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// StepState tracks one step through execution and rollback.
type StepState int

const (
	Pending StepState = iota
	Executed
	Compensated
)

// Saga runs an ordered list of steps sequentially. An instance is
// single-use: once Run completes, success or failure, the sequence is
// consumed.
type Saga struct {
	mu         sync.Mutex
	steps      []Step
	stepStates []StepState
	state      State
	compErrs   []error
}

// New creates an empty saga.
func New() *Saga {
	return &Saga{state: NotStarted}
}

// Then appends a step. Ordering is part of the correctness contract:
// compensation undoes the most recent effect first.
func (s *Saga) Then(step Step) *Saga {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
	s.stepStates = append(s.stepStates, Pending)
	return s
}

// State returns the saga lifecycle state.
func (s *Saga) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StepStates returns a copy of the per-step states.
func (s *Saga) StepStates() []StepState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StepState, len(s.stepStates))
	copy(out, s.stepStates)
	return out
}

// CompensationErrors returns errors observed during rollback. Rollback is
// best-effort: these never replace the original execute failure, but a
// non-empty slice means state restoration was not verified.
func (s *Saga) CompensationErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.compErrs))
	copy(out, s.compErrs)
	return out
}

// Run executes the steps strictly in sequence. On the first execute failure
// it compensates every already-executed step in exact reverse order and
// returns the original failure. Compensation failures are observed but do
// not halt the rollback walk. Run goes to completion; there is no external
// cancellation beyond what individual steps honor through ctx.
func (s *Saga) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state != NotStarted {
		state := s.state
		s.mu.Unlock()
		return disterrors.InvalidStatef("saga already ran (state %s)", state)
	}
	s.state = Running
	steps := s.steps
	s.mu.Unlock()

	for i, step := range steps {
		err := step.Execute(ctx)
		if err == nil {
			s.setStepState(i, Executed)
			continue
		}

		// Roll back the executed prefix, most recent first.
		for j := i - 1; j >= 0; j-- {
			if cerr := steps[j].Compensate(ctx); cerr != nil {
				logger.Warnw("Saga compensation failed",
					"step", j, "error", cerr.Error())
				s.mu.Lock()
				s.compErrs = append(s.compErrs, cerr)
				s.mu.Unlock()
			} else {
				s.setStepState(j, Compensated)
			}
		}

		s.setState(RolledBack)
		return err
	}

	s.setState(Committed)
	return nil
}

func (s *Saga) setStepState(i int, st StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepStates[i] = st
}

func (s *Saga) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}
