// Package tabular implements the pieces shared by the tabular
// learning agents: behaviour policies and the recording of the
// transitions they learn from.
package tabular

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Behaviour returns a selector that acts ε-greedily with respect to
// the action values of p. If temperature is positive, exploratory
// actions are instead sampled from a softmax over the action values.
func Behaviour(p *policy.Store, ε, temperature float64,
	seed uint64) (policy.Selector, error) {
	if temperature > 0 {
		return policy.NewSoftmax(p, ε, temperature, seed)
	}
	return policy.NewEGreedy(p, ε, seed)
}

// SoftProbabilities returns the ε-soft action probabilities that are
// greedy with respect to values: every action has probability at least
// ε/|A| and the remaining mass is split between the maximal actions.
func SoftProbabilities(values [grid.NumActions]float64,
	ε float64) [grid.NumActions]float64 {
	probs := policy.Greedy(policy.GreedyActions(values))
	for a := range probs {
		probs[a] = (1-ε)*probs[a] + ε/grid.NumActions
	}
	return probs
}

// Transition is a single step of experience
type Transition struct {
	State    grid.State
	Action   grid.Action
	Reward   float64
	Discount float64
	Next     grid.State

	// Bootstrap is false when Next ended its episode in a terminal
	// state, whose value is zero
	Bootstrap bool
}

// Recorder records the most recent transition of an agent
type Recorder struct {
	current    timestep.TimeStep
	transition Transition
	started    bool
	ready      bool
}

// ObserveFirst records the first timestep in an episode
func (r *Recorder) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep %d is not the first of "+
			"an episode", t.Number)
	}
	r.current = t
	r.started = true
	r.ready = false
	return nil
}

// Observe records that action lead to the timestep next
func (r *Recorder) Observe(action grid.Action, next timestep.TimeStep) error {
	if !r.started {
		return fmt.Errorf("observe: no episode started")
	}
	r.transition = Transition{
		State:     r.current.State,
		Action:    action,
		Reward:    next.Reward,
		Discount:  next.Discount,
		Next:      next.State,
		Bootstrap: agent.Bootstrap(next),
	}
	r.current = next
	r.ready = true
	return nil
}

// Transition returns the most recently observed transition. The
// transition is returned once; false is returned if no new transition
// was observed since.
func (r *Recorder) Transition() (Transition, bool) {
	if !r.ready {
		return Transition{}, false
	}
	r.ready = false
	return r.transition, true
}

// Current returns the most recently observed timestep
func (r *Recorder) Current() timestep.TimeStep {
	return r.current
}

// EndEpisode forgets the current episode
func (r *Recorder) EndEpisode() error {
	r.started = false
	r.ready = false
	return nil
}
