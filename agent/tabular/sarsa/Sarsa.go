// Package sarsa implements the on-policy Sarsa algorithm over tabular
// action values.
//
// The action that Sarsa bootstraps from in the next state is the
// action it then takes in that state, so the behaviour policy is
// queried once per step.
package sarsa

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/agent/tabular"
	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Sarsa implements the Sarsa algorithm
type Sarsa struct {
	tabular.Recorder
	store        *policy.Store
	behaviour    policy.Selector
	learningRate float64

	// action chosen in state next while bootstrapping, to be taken
	// when next is reached
	next         grid.State
	nextAction   grid.Action
	nextSelected bool
}

// New creates a new Sarsa agent acting in env
func New(env environment.Environment, c Config, seed uint64) (*Sarsa, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	store := policy.NewStore(agent.Keyer(env, c.Reduced), c.InitialValue)
	behaviour, err := tabular.Behaviour(store, c.Epsilon, c.Temperature, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &Sarsa{
		store:        store,
		behaviour:    behaviour,
		learningRate: c.LearningRate,
	}, nil
}

// SelectAction selects an action in the state of t
func (s *Sarsa) SelectAction(t timestep.TimeStep) (grid.Action, error) {
	if s.nextSelected && s.next == t.State {
		s.nextSelected = false
		return s.nextAction, nil
	}

	a, err := s.behaviour.SelectAction(t.State)
	if err != nil {
		return a, fmt.Errorf("selectAction: %w", err)
	}
	return a, nil
}

// Step updates the action value of the last transition towards the
// reward plus the discounted value of the action to be taken next
func (s *Sarsa) Step() error {
	t, ok := s.Transition()
	if !ok {
		return fmt.Errorf("step: no transition observed")
	}

	target := t.Reward
	if t.Bootstrap {
		a, err := s.behaviour.SelectAction(t.Next)
		if err != nil {
			return fmt.Errorf("step: %w", err)
		}
		s.next, s.nextAction, s.nextSelected = t.Next, a, true
		target += t.Discount * s.store.ActionValue(t.Next, a)
	}

	e := s.store.Entry(t.State)
	value := e.ActionValue(t.Action)
	e.SetActionValue(t.Action, value+s.learningRate*(target-value))

	values := e.ActionValues()
	e.Value = floats.Max(values[:])
	return nil
}

// EndEpisode forgets the action selected for the next state
func (s *Sarsa) EndEpisode() error {
	if s.nextSelected {
		log.Debug().Msgf("sarsa: dropping action %v selected in %v",
			s.nextAction, s.next)
	}
	s.nextSelected = false
	return s.Recorder.EndEpisode()
}

// Store returns the action values learned
func (s *Sarsa) Store() *policy.Store {
	return s.store
}
