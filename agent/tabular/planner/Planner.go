// Package planner implements an agent that plans its policy with
// dynamic programming on the exact model of its environment before
// acting, and does not learn while acting.
package planner

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/dp"
	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Planner acts with a policy planned by policy or value iteration
type Planner struct {
	store   *policy.Store
	sampler *policy.Sampler
	solver  *dp.Solver
}

// New plans a policy for env and returns an agent acting with it
func New(env environment.Environment, c Config, seed uint64) (*Planner,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	m := env.Model()
	space, err := grid.NewSpace(m.Grid(), m.Roster()...)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	solver, err := dp.New(m, space, dp.Config{
		Discount:  env.Discount(),
		Threshold: c.Threshold,
		MaxSweeps: c.MaxSweeps,
	})
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	store := policy.NewStore(agent.Keyer(env, c.Reduced), 0)
	store.SetDefaultProbabilities(policy.Uniform())

	switch c.Method {
	case PolicyIteration:
		err = solver.IteratePolicy(store)
	case ValueIteration:
		err = solver.IterateValues(store)
	}
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	log.Info().Msgf("planner: planned %d states with %v in %d sweeps",
		store.Len(), c.Method, solver.TotalSweeps())

	return &Planner{
		store:   store,
		sampler: policy.NewSampler(store, seed),
		solver:  solver,
	}, nil
}

// SelectAction samples an action from the planned policy
func (p *Planner) SelectAction(t timestep.TimeStep) (grid.Action, error) {
	a, err := p.sampler.SelectAction(t.State)
	if err != nil {
		return a, fmt.Errorf("selectAction: %w", err)
	}
	return a, nil
}

// Step does nothing, the policy is fixed
func (p *Planner) Step() error { return nil }

// Observe does nothing, the policy is fixed
func (p *Planner) Observe(grid.Action, timestep.TimeStep) error { return nil }

// ObserveFirst does nothing, the policy is fixed
func (p *Planner) ObserveFirst(timestep.TimeStep) error { return nil }

// EndEpisode does nothing, the policy is fixed
func (p *Planner) EndEpisode() error { return nil }

// Store returns the planned policy
func (p *Planner) Store() *policy.Store {
	return p.store
}

// Solver returns the solver the policy was planned with
func (p *Planner) Solver() *dp.Solver {
	return p.solver
}
