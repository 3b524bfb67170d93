package pursuit

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
)

// Mover is the movement model of an agent that does not make its own
// decisions in a Model. Distribution returns the probability of agent
// id taking each action in state s.
type Mover interface {
	Distribution(g grid.Grid, s grid.State, id grid.AgentID) [grid.NumActions]float64
}

// PreyMover waits with probability 1-MoveProbability and otherwise
// moves uniformly to one of its free neighbouring cells. A prey with no
// free neighbour always waits.
type PreyMover struct {
	MoveProbability float64
}

// NewPreyMover returns a new PreyMover
func NewPreyMover(moveProbability float64) (PreyMover, error) {
	if moveProbability < 0 || moveProbability > 1 {
		return PreyMover{}, fmt.Errorf("newPreyMover: move probability "+
			"must be in [0, 1], got %v", moveProbability)
	}
	return PreyMover{moveProbability}, nil
}

// Distribution implements the Mover interface
func (p PreyMover) Distribution(g grid.Grid, s grid.State,
	id grid.AgentID) [grid.NumActions]float64 {
	var dist [grid.NumActions]float64
	from, ok := s.Location(id)
	if !ok {
		panic(fmt.Sprintf("distribution: agent %v not in state %v", id, s))
	}

	free := 0
	for _, a := range grid.Actions[1:] {
		if !s.Occupied(g.Move(from, a)) {
			dist[a] = 1
			free++
		}
	}

	if free == 0 {
		dist[grid.Wait] = 1
		return dist
	}

	dist[grid.Wait] = 1 - p.MoveProbability
	for _, a := range grid.Actions[1:] {
		dist[a] *= p.MoveProbability / float64(free)
	}
	return dist
}

// RandomMover takes every action with equal probability
type RandomMover struct{}

// Distribution implements the Mover interface
func (RandomMover) Distribution(grid.Grid, grid.State,
	grid.AgentID) [grid.NumActions]float64 {
	return policy.Uniform()
}

// PolicyMover moves according to the action probabilities of another
// agent's policy. States for which the policy defines no action
// probabilities are treated as uniform. The policy is only read.
type PolicyMover struct {
	Store *policy.Store
}

// Distribution implements the Mover interface
func (p PolicyMover) Distribution(_ grid.Grid, s grid.State,
	_ grid.AgentID) [grid.NumActions]float64 {
	if e, ok := p.Store.Lookup(s); ok && e.HasProbabilities() {
		return e.Probabilities()
	}
	return policy.Uniform()
}
