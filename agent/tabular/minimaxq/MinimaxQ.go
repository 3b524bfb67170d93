// Package minimaxq implements a Minimax-Q agent for the two player
// pursuit game, where a single predator and a single prey play a
// zero-sum game against each other.
package minimaxq

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/agent/tabular"
	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/minimax"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
)

// opponent reports the last action of an agent of an environment
type opponent struct {
	env environment.ActionRecorder
	id  grid.AgentID
}

// LastAction implements the minimax.Opponent interface
func (o opponent) LastAction() grid.Action {
	return o.env.LastAction(o.id)
}

// MinimaxQ implements the Minimax-Q algorithm
type MinimaxQ struct {
	tabular.Recorder
	solver  *minimax.Solver
	store   *policy.Store
	sampler *policy.Sampler
	epsilon float64
	rng     *rand.Rand
}

// New creates a new MinimaxQ agent acting in env. The environment must
// record the actions of its agents and have exactly one opponent.
func New(env environment.Environment, c Config, seed uint64) (*MinimaxQ,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	recorder, ok := env.(environment.ActionRecorder)
	if !ok {
		return nil, fmt.Errorf("new: environment does not record actions")
	}

	roster := env.Model().Roster()
	if len(roster) != 2 {
		return nil, fmt.Errorf("new: need exactly two agents, got %d",
			len(roster))
	}
	other := roster[0]
	if other == env.Agent() {
		other = roster[1]
	}
	if other.Role == env.Agent().Role {
		return nil, fmt.Errorf("new: %v and %v are not opponents",
			env.Agent(), other)
	}

	solver, err := minimax.New(opponent{recorder, other}, minimax.Config{
		LearningRate: c.LearningRate,
		Decay:        c.Decay,
		Discount:     env.Discount(),
		DefaultValue: c.InitialValue,
	})
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	store := policy.NewStore(agent.Keyer(env, c.Reduced), c.InitialValue)
	store.SetDefaultProbabilities(policy.Uniform())

	return &MinimaxQ{
		solver:  solver,
		store:   store,
		sampler: policy.NewSampler(store, seed),
		epsilon: c.Epsilon,
		rng:     rand.New(rand.NewSource(seed + 1)),
	}, nil
}

// SelectAction takes a random action with probability ε and otherwise
// samples the mixed strategy of the state of t
func (m *MinimaxQ) SelectAction(t timestep.TimeStep) (grid.Action, error) {
	if m.rng.Float64() < m.epsilon {
		return grid.Actions[m.rng.Intn(grid.NumActions)], nil
	}

	a, err := m.sampler.SelectAction(t.State)
	if err != nil {
		return a, fmt.Errorf("selectAction: %w", err)
	}
	return a, nil
}

// Step learns from the last transition against the opponent's last
// action
func (m *MinimaxQ) Step() error {
	t, ok := m.Transition()
	if !ok {
		return fmt.Errorf("step: no transition observed")
	}

	if err := m.solver.Learn(t.State, t.Next, t.Action, t.Reward,
		m.store); err != nil {
		return fmt.Errorf("step: %w", err)
	}
	return nil
}

// Store returns the mixed strategies learned
func (m *MinimaxQ) Store() *policy.Store {
	return m.store
}

// Solver returns the solver of the game
func (m *MinimaxQ) Solver() *minimax.Solver {
	return m.solver
}
