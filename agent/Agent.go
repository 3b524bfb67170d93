// Package agent defines the interfaces of learning agents and the
// registry of their configurations
package agent

import (
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns values, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how the values
// and action probabilities of a policy.Store are updated.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action grid.Action, next timestep.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode() error
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. For a given agent, the
// Policy and Learner should share the same policy.Store so that any
// changes the learner makes are reflected in the actions the Policy
// chooses
type Policy interface {
	SelectAction(t timestep.TimeStep) (grid.Action, error)
}

// Storer is an Agent whose values and action probabilities are kept in
// a policy.Store
type Storer interface {
	Agent
	Store() *policy.Store
}
