// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() grid.State
}

// Outcome is one possible result of an agent taking an action: the
// next state, the probability of reaching it, and the reward received
// on the way. Actions holds the action every agent of the model's
// roster took to produce the outcome, indexed by roster position.
type Outcome struct {
	Next        grid.State
	Probability float64
	Reward      float64
	Actions     [grid.MaxAgents]grid.Action
}

// Model is the exact transition and reward model of an environment,
// seen from the viewpoint of a single decision-making agent.
type Model interface {
	// Agent returns the agent whose decisions the model describes
	Agent() grid.AgentID

	// Roster returns every agent of the environment in turn order
	Roster() []grid.AgentID

	// Grid returns the grid the agents move on
	Grid() grid.Grid

	// Transitions appends to buf every outcome of the agent taking
	// action a in state s and returns the extended slice. The
	// probabilities of the outcomes sum to 1.
	Transitions(s grid.State, a grid.Action, buf []Outcome) []Outcome
}

// Environment implements a simulated environment
type Environment interface {
	Reset() timestep.TimeStep
	Step(action grid.Action) (timestep.TimeStep, bool, error)
	LastTimeStep() timestep.TimeStep

	// Agent returns the agent that actions passed to Step belong to
	Agent() grid.AgentID
	Discount() float64
	Model() Model
}

// ActionRecorder is implemented by environments that remember the last
// action taken by each of their agents
type ActionRecorder interface {
	LastAction(id grid.AgentID) grid.Action
}
