package expreplay

import (
	"golang.org/x/exp/rand"
)

// SelectorType names a way of selecting data from a buffer
type SelectorType string

const (
	Uniform SelectorType = "uniform"
	Recent  SelectorType = "recent"
)

// Selector implements functionality for choosing how data should be
// sampled from an experience replay buffer
type Selector interface {
	// choose selects the indices at which data should be sampled from
	// the experience replay buffer
	choose(e *ExperienceReplayer) []int

	// BatchSize returns the number of elements that will be selected
	BatchSize() int
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly, with replacement
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data uniformly
// randomly from an experience replay buffer
func NewUniformSelector(samples int, seed uint64) Selector {
	return &uniformSelector{samples: samples, rng: rand.New(rand.NewSource(seed))}
}

// BatchSize implements the Selector interface
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

func (u *uniformSelector) choose(e *ExperienceReplayer) []int {
	selected := make([]int, u.samples)
	for i := range selected {
		selected[i] = u.rng.Intn(e.Capacity())
	}
	return selected
}

// recentSelector is a Selector which selects the most recently added
// data of an experience replay buffer
type recentSelector struct {
	samples int
}

// NewRecentSelector returns a new Selector which selects the most
// recently added data, newest first
func NewRecentSelector(samples int) Selector {
	return &recentSelector{samples: samples}
}

// BatchSize implements the Selector interface
func (r *recentSelector) BatchSize() int {
	return r.samples
}

func (r *recentSelector) choose(e *ExperienceReplayer) []int {
	return e.newest(r.samples)
}
