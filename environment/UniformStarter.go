package environment

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/pursuit/grid"
)

// SingleStart starts every episode in the same state
type SingleStart struct {
	state grid.State
}

// NewSingleStart returns a Starter that always starts in state s
func NewSingleStart(s grid.State) (SingleStart, error) {
	if s.Terminal() {
		return SingleStart{}, fmt.Errorf("newSingleStart: start state %v "+
			"is terminal", s)
	}
	return SingleStart{s}, nil
}

// Start returns the starting state
func (s SingleStart) Start() grid.State {
	return s.state
}

// UniformStarter samples starting states uniformly from the
// non-terminal states of a state space
type UniformStarter struct {
	states []grid.State
	seed   uint64
	rand   distuv.Categorical
}

// NewUniformStarter returns a Starter sampling uniformly over the
// non-terminal states of space
func NewUniformStarter(space *grid.Space, seed uint64) (*UniformStarter,
	error) {
	states := space.States(false)
	if len(states) == 0 {
		return nil, fmt.Errorf("newUniformStarter: no non-terminal states")
	}

	// Create the weights for the uniform categorical distribution
	weights := make([]float64, len(states))
	for i := range weights {
		weights[i] = 1.0 / float64(len(weights))
	}
	source := rand.NewSource(seed)

	return &UniformStarter{
		states: states,
		seed:   seed,
		rand:   distuv.NewCategorical(weights, source),
	}, nil
}

// Start returns a starting state
func (u *UniformStarter) Start() grid.State {
	return u.states[int(u.rand.Rand())]
}

// RandomStarter places every agent of a roster on its own cell, chosen
// uniformly at random
type RandomStarter struct {
	grid   grid.Grid
	roster []grid.AgentID
	rng    *rand.Rand
}

// NewRandomStarter returns a Starter placing the agents of roster on
// distinct random cells of g
func NewRandomStarter(g grid.Grid, roster []grid.AgentID,
	seed uint64) (*RandomStarter, error) {
	if len(roster) > g.Cells() {
		return nil, fmt.Errorf("newRandomStarter: %d agents do not fit on "+
			"%v", len(roster), g)
	}

	prey := 0
	for _, id := range roster {
		if id.Role == grid.Prey {
			prey++
		}
	}
	if prey == 0 {
		return nil, fmt.Errorf("newRandomStarter: roster has no prey")
	}

	r := make([]grid.AgentID, len(roster))
	copy(r, roster)
	return &RandomStarter{g, r, rand.New(rand.NewSource(seed))}, nil
}

// Start returns a starting state
func (r *RandomStarter) Start() grid.State {
	cells := r.rng.Perm(r.grid.Cells())
	occupants := make([]grid.Occupant, len(r.roster))
	for i, id := range r.roster {
		occupants[i] = grid.Occupant{ID: id, At: r.grid.At(cells[i])}
	}
	return grid.MustState(occupants...)
}
