package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/utils/floatutils"
)

// EGreedy selects actions ε-greedily with respect to the action values
// that a Store holds for a state
type EGreedy struct {
	store   *Store
	epsilon float64
	rng     *rand.Rand
}

// NewEGreedy returns a new EGreedy selector over p. With probability
// 1-ε a maximal action is chosen, otherwise a non-maximal one.
func NewEGreedy(p *Store, ε float64, seed uint64) (*EGreedy, error) {
	if ε < 0 || ε > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon must be in [0, 1], "+
			"got %v", ε)
	}
	return &EGreedy{p, ε, rand.New(rand.NewSource(seed))}, nil
}

// NewGreedy returns a selector that always chooses a maximal action
func NewGreedy(p *Store, seed uint64) *EGreedy {
	g, _ := NewEGreedy(p, 0, seed)
	return g
}

// Epsilon returns the exploration probability
func (g *EGreedy) Epsilon() float64 {
	return g.epsilon
}

// SelectAction selects an action in state s
func (g *EGreedy) SelectAction(s grid.State) (grid.Action, error) {
	return EGreedyAction(g.store.Entry(s).ActionValues(), g.epsilon, g.rng), nil
}

// EGreedyAction chooses uniformly among the maximal actions with
// probability 1-ε and uniformly among the non-maximal actions
// otherwise. If every action is maximal, a maximal action is always
// chosen.
func EGreedyAction(values [grid.NumActions]float64, ε float64,
	rng *rand.Rand) grid.Action {
	_, best := floatutils.MaxSlice(values[:])

	if len(best) < grid.NumActions && rng.Float64() < ε {
		rest := make([]grid.Action, 0, grid.NumActions-len(best))
		j := 0
		for _, a := range grid.Actions {
			if j < len(best) && best[j] == int(a) {
				j++
				continue
			}
			rest = append(rest, a)
		}
		return rest[rng.Intn(len(rest))]
	}
	return grid.Actions[best[rng.Intn(len(best))]]
}

// GreedyActions returns every action attaining the maximum value
func GreedyActions(values [grid.NumActions]float64) []grid.Action {
	_, best := floatutils.MaxSlice(values[:])
	actions := make([]grid.Action, len(best))
	for i, b := range best {
		actions[i] = grid.Actions[b]
	}
	return actions
}
