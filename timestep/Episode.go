package timestep

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/grid"
)

// Episode is an append-only log of the states visited, the actions
// taken, and the rewards received during one episode. The i-th
// transition goes from State(i) by Action(i) to State(i+1) and yields
// Reward(i).
type Episode struct {
	states  []grid.State
	actions []grid.Action
	rewards []float64
}

// NewEpisode returns a new Episode starting in state first
func NewEpisode(first grid.State) *Episode {
	return &Episode{states: []grid.State{first}}
}

// Append records that taking action a led to state next with reward r
func (e *Episode) Append(a grid.Action, r float64, next grid.State) {
	e.actions = append(e.actions, a)
	e.rewards = append(e.rewards, r)
	e.states = append(e.states, next)
}

// Len returns the number of transitions in the episode
func (e *Episode) Len() int {
	return len(e.actions)
}

// State returns the state at step i, for i in [0, Len()]
func (e *Episode) State(i int) grid.State {
	return e.states[i]
}

// Action returns the action taken at step i
func (e *Episode) Action(i int) grid.Action {
	return e.actions[i]
}

// Reward returns the reward received for the action at step i
func (e *Episode) Reward(i int) float64 {
	return e.rewards[i]
}

// Returns computes the discounted return following every step
func (e *Episode) Returns(discount float64) []float64 {
	returns := make([]float64, e.Len())
	var g float64
	for t := e.Len() - 1; t >= 0; t-- {
		g = e.rewards[t] + discount*g
		returns[t] = g
	}
	return returns
}

func (e *Episode) String() string {
	return fmt.Sprintf("Episode | Steps: %d  |  Start: %v", e.Len(),
		e.states[0])
}
