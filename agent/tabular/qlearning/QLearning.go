// Package qlearning implements the Q-Learning algorithm over tabular
// action values.
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/agent/tabular"
	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/expreplay"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
)

// QLearning implements the Q-Learning algorithm
type QLearning struct {
	*QLearner
	behaviour policy.Selector
	seed      uint64
}

// New creates a new QLearning agent acting in env
func New(env environment.Environment, c Config, seed uint64) (*QLearning,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	store := policy.NewStore(agent.Keyer(env, c.Reduced), c.InitialValue)
	behaviour, err := tabular.Behaviour(store, c.Epsilon, c.Temperature, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	var replay *expreplay.ExperienceReplayer
	if c.Replay.Enabled() {
		if replay, err = c.Replay.Create(seed + 1); err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
	}

	learner := NewQLearner(store, c.LearningRate, replay)
	return &QLearning{learner, behaviour, seed}, nil
}

// SelectAction selects an action in the state of t with the behaviour
// policy
func (q *QLearning) SelectAction(t timestep.TimeStep) (grid.Action, error) {
	a, err := q.behaviour.SelectAction(t.State)
	if err != nil {
		return a, fmt.Errorf("selectAction: %w", err)
	}
	return a, nil
}
