package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/pursuit/grid"
)

// massTolerance absorbs rounding when probabilities that should sum to
// 1 sum to slightly less
const massTolerance = 1e-9

// Selector selects an action in a state
type Selector interface {
	SelectAction(s grid.State) (grid.Action, error)
}

// Sampler selects actions by sampling the action probabilities that a
// Store holds for a state
type Sampler struct {
	store *Store
	rng   *rand.Rand
}

// NewSampler returns a new Sampler over the policy p
func NewSampler(p *Store, seed uint64) *Sampler {
	return &Sampler{p, rand.New(rand.NewSource(seed))}
}

// SelectAction samples an action in state s
func (s *Sampler) SelectAction(state grid.State) (grid.Action, error) {
	return Sample(s.store.Entry(state), s.rng.Float64())
}

// Sample walks the action probabilities of e in action order and
// returns the first action whose cumulative probability reaches u,
// which should be drawn uniformly from [0, 1). The probabilities must
// sum to at least 1.
func Sample(e *Entry, u float64) (grid.Action, error) {
	if !e.HasProbabilities() {
		return grid.Wait, fmt.Errorf("sample: %w", ErrNoActions)
	}
	if mass := e.Mass(); mass < 1-massTolerance {
		return grid.Wait, fmt.Errorf("sample: %w: total mass %v",
			ErrProbabilityMass, mass)
	}

	var cumulative float64
	last := grid.Wait
	for _, a := range grid.Actions {
		p := e.Probability(a)
		if p <= 0 {
			continue
		}
		cumulative += p
		last = a
		if cumulative >= u {
			return a, nil
		}
	}

	// Only reachable through rounding in the cumulative sum
	return last, nil
}
