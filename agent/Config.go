package agent

import (
	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment, seed uint64) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}

// Keyer returns the keyer of the tables a tabular agent on env keeps.
// Reduced tables share entries between states that are translations of
// each other on the torus.
func Keyer(env environment.Environment, reduced bool) grid.Keyer {
	if reduced {
		return grid.NewCanonicalKeyer(env.Model().Grid(), env.Agent())
	}
	return grid.ExactKeyer{}
}

// Bootstrap returns whether the value of the state of t should be
// bootstrapped from. Only states where an episode reached its terminal
// state are worth nothing; a timed out episode still continues in
// principle.
func Bootstrap(t timestep.TimeStep) bool {
	return !t.Last() || t.TimedOut()
}
