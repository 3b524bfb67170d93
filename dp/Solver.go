// Package dp implements dynamic programming over the exact model of an
// environment: policy evaluation, policy improvement, policy iteration,
// and value iteration.
//
// Sweeps update state values in place, so values computed earlier in a
// sweep are used by later states of the same sweep. Convergence is
// checked only after every full sweep. When the policy Store reduces
// states by symmetry, each sweep updates one representative state per
// key of the Store.
package dp

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/utils/floatutils"
)

// ErrNotConverged is returned when the sweep limit is reached before
// the values converge
var ErrNotConverged = errors.New("values did not converge")

// Config configures a Solver
type Config struct {
	// Discount is the discount factor γ, in [0, 1)
	Discount float64

	// Threshold is the convergence threshold θ: sweeps stop once no
	// state value changes by more than θ during a sweep
	Threshold float64

	// MaxSweeps bounds the number of sweeps of a single evaluation.
	// Zero means no bound.
	MaxSweeps int
}

// Validate checks that the Config is valid
func (c Config) Validate() error {
	if c.Discount < 0 || c.Discount >= 1 {
		return fmt.Errorf("discount must be in [0, 1), got %v", c.Discount)
	}
	if !(c.Threshold > 0) {
		return fmt.Errorf("threshold must be positive, got %v", c.Threshold)
	}
	if c.MaxSweeps < 0 {
		return fmt.Errorf("max sweeps cannot be negative, got %v", c.MaxSweeps)
	}
	return nil
}

// Solver runs dynamic programming over a Model and the State space of
// its agents. The policy Store being solved is passed to each method.
type Solver struct {
	model     environment.Model
	space     *grid.Space
	config    Config
	tolerance float64

	outcomes []environment.Outcome

	sweeps      int
	totalSweeps int
	iterations  int
}

// New returns a new Solver
func New(m environment.Model, space *grid.Space, c Config) (*Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &Solver{
		model:     m,
		space:     space,
		config:    c,
		tolerance: c.Threshold / (1 - c.Discount),
	}, nil
}

// Sweeps returns the number of sweeps of the last evaluation
func (s *Solver) Sweeps() int {
	return s.sweeps
}

// TotalSweeps returns the number of sweeps performed by the last call
// to IteratePolicy or IterateValues, or by every call to Evaluate since
// then
func (s *Solver) TotalSweeps() int {
	return s.totalSweeps
}

// Iterations returns the number of evaluation and improvement rounds
// of the last policy iteration
func (s *Solver) Iterations() int {
	return s.iterations
}

// Tolerance returns the largest difference between two action values
// that Improve treats as a tie. It bounds the error that remains in the
// state values once sweeps have converged.
func (s *Solver) Tolerance() float64 {
	return s.tolerance
}

// Evaluate computes the value of the policy in p. Every state value is
// reset to zero, terminal states included, before sweeping.
func (s *Solver) Evaluate(p *policy.Store) error {
	return s.sweep(p, "evaluate", s.Backup)
}

// IterateValues computes the optimal state values and stores the
// greedy policy they imply in p
func (s *Solver) IterateValues(p *policy.Store) error {
	s.totalSweeps = 0
	err := s.sweep(p, "iterateValues", func(p *policy.Store,
		state grid.State) float64 {
		q := s.ActionValues(p, state)
		return floats.Max(q[:])
	})
	if err != nil {
		return err
	}

	s.Improve(p)
	log.Info().Msgf("value iteration converged after %d sweeps", s.sweeps)
	return nil
}

// IteratePolicy alternates policy evaluation and policy improvement
// until the policy in p is stable
func (s *Solver) IteratePolicy(p *policy.Store) error {
	s.totalSweeps = 0
	s.iterations = 0

	for {
		if err := s.Evaluate(p); err != nil {
			return fmt.Errorf("iteratePolicy: iteration %d: %w",
				s.iterations+1, err)
		}
		s.iterations++

		if s.Improve(p) {
			break
		}
	}

	log.Info().Msgf("policy iteration stable after %d iterations and %d "+
		"sweeps", s.iterations, s.totalSweeps)
	return nil
}

// Improve makes the policy in p greedy with respect to its state
// values. For every non-terminal state in p, the action values are
// recomputed and stored, and the action probabilities are made uniform
// over the actions within Tolerance of the best action value. Improve
// returns whether the policy is stable, which is when no action
// probability changed.
func (s *Solver) Improve(p *policy.Store) bool {
	stable := true
	changed := 0

	p.Range(func(state grid.State, e *policy.Entry) bool {
		if state.Terminal() {
			return true
		}

		q := s.ActionValues(p, state)
		for _, a := range grid.Actions {
			e.SetActionValue(a, q[a])
		}

		_, best := floatutils.ArgMax(q[:], s.tolerance)
		actions := make([]grid.Action, len(best))
		for i, b := range best {
			actions[i] = grid.Actions[b]
		}
		greedy := policy.Greedy(actions)

		if !e.HasProbabilities() || e.Probabilities() != greedy {
			stable = false
			changed++
		}
		e.SetProbabilities(greedy)
		return true
	})

	log.Debug().Msgf("improve: %d of %d states changed", changed, p.Len())
	return stable
}

// Backup returns the expected value of state under the policy in p:
// the sum over actions a of π(state, a) times the value of a
func (s *Solver) Backup(p *policy.Store, state grid.State) float64 {
	e := p.Entry(state)
	var v float64
	for _, a := range grid.Actions {
		if prob := e.Probability(a); prob > 0 {
			v += prob * s.actionValue(p, state, a)
		}
	}
	return v
}

// ActionValues returns the value of every action in state: the
// expected reward plus the discounted value of the next state under
// the model
func (s *Solver) ActionValues(p *policy.Store,
	state grid.State) [grid.NumActions]float64 {
	var q [grid.NumActions]float64
	for _, a := range grid.Actions {
		q[a] = s.actionValue(p, state, a)
	}
	return q
}

func (s *Solver) actionValue(p *policy.Store, state grid.State,
	a grid.Action) float64 {
	s.outcomes = s.model.Transitions(state, a, s.outcomes[:0])

	var q float64
	for _, o := range s.outcomes {
		q += o.Probability * (o.Reward + s.config.Discount*p.Value(o.Next))
	}
	return q
}

// sweep resets every state value to zero, then applies backup to every
// non-terminal state in place until the values converge
func (s *Solver) sweep(p *policy.Store, name string,
	backup func(*policy.Store, grid.State) float64) error {
	for _, state := range s.space.States(true) {
		p.SetValue(state, 0)
	}
	states := s.representatives(p)

	s.sweeps = 0
	for {
		var delta float64
		for _, state := range states {
			e := p.Entry(state)
			v := backup(p, state)
			delta = math.Max(delta, math.Abs(v-e.Value))
			e.Value = v
		}
		s.sweeps++
		s.totalSweeps++
		log.Debug().Msgf("%s: sweep %d over %d states, delta %g", name,
			s.sweeps, len(states), delta)

		if delta <= s.config.Threshold {
			return nil
		}
		if s.config.MaxSweeps > 0 && s.sweeps >= s.config.MaxSweeps {
			return fmt.Errorf("%s: %w after %d sweeps (delta %g > %g)", name,
				ErrNotConverged, s.sweeps, delta, s.config.Threshold)
		}
	}
}

// representatives returns one non-terminal state per key of p
func (s *Solver) representatives(p *policy.Store) []grid.State {
	seen := make(map[grid.Key]bool)
	var states []grid.State
	for _, state := range s.space.States(false) {
		k := p.Key(state)
		if !seen[k] {
			seen[k] = true
			states = append(states, state)
		}
	}
	return states
}
