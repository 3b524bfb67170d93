// Package policy implements tabular policies over grid states and the
// primitives that select actions from them.
//
// A Store maps states to Entries through a grid.Keyer, so that a
// policy may be stored over exact states or over states reduced by
// symmetry. Entries are created lazily the first time a state is
// accessed and live as long as the Store does.
//
// A Store is owned by a single agent and is not safe for concurrent
// writers.
package policy

import (
	"errors"

	"github.com/samuelfneumann/pursuit/grid"
)

var (
	// ErrNoActions is returned when selecting an action in a state
	// whose entry defines no action probabilities
	ErrNoActions = errors.New("no actions defined")

	// ErrProbabilityMass is returned when the action probabilities of
	// a state do not sum to 1
	ErrProbabilityMass = errors.New("probability mass does not sum to 1")

	// ErrTemperature is returned when a softmax temperature is too low
	// for the action values it is applied to
	ErrTemperature = errors.New("temperature too low")
)

// Store is a tabular policy
type Store struct {
	keyer        grid.Keyer
	defaultValue float64

	// initial probabilities copied into new entries, if set
	initial *[grid.NumActions]float64

	entries map[grid.Key]*Entry
	states  []grid.State // one representative per key, insertion order
}

// NewStore returns a new, empty Store. Action values that were never
// set default to defaultValue.
func NewStore(keyer grid.Keyer, defaultValue float64) *Store {
	return &Store{
		keyer:        keyer,
		defaultValue: defaultValue,
		entries:      make(map[grid.Key]*Entry),
	}
}

// SetDefaultProbabilities sets the action probabilities given to every
// entry created from now on
func (p *Store) SetDefaultProbabilities(probs [grid.NumActions]float64) {
	p.initial = &probs
}

// Keyer returns the Keyer of the Store
func (p *Store) Keyer() grid.Keyer {
	return p.keyer
}

// Key returns the key that s is stored under
func (p *Store) Key(s grid.State) grid.Key {
	return p.keyer.Key(s)
}

// DefaultValue returns the value of actions that were never set
func (p *Store) DefaultValue() float64 {
	return p.defaultValue
}

// Entry returns the entry of s, creating it if needed
func (p *Store) Entry(s grid.State) *Entry {
	k := p.keyer.Key(s)
	if e, ok := p.entries[k]; ok {
		return e
	}

	e := newEntry(p.defaultValue)
	if p.initial != nil {
		e.SetProbabilities(*p.initial)
	}
	p.entries[k] = e
	p.states = append(p.states, s)
	return e
}

// Lookup returns the entry of s without creating it
func (p *Store) Lookup(s grid.State) (*Entry, bool) {
	e, ok := p.entries[p.keyer.Key(s)]
	return e, ok
}

// Contains returns whether s has an entry
func (p *Store) Contains(s grid.State) bool {
	_, ok := p.Lookup(s)
	return ok
}

// Value returns the state value of s, which is 0 for states without
// an entry
func (p *Store) Value(s grid.State) float64 {
	if e, ok := p.Lookup(s); ok {
		return e.Value
	}
	return 0
}

// SetValue sets the state value of s
func (p *Store) SetValue(s grid.State, v float64) {
	p.Entry(s).Value = v
}

// Probability returns the probability of taking a in s
func (p *Store) Probability(s grid.State, a grid.Action) float64 {
	return p.Entry(s).Probability(a)
}

// SetProbability sets the probability of taking a in s
func (p *Store) SetProbability(s grid.State, a grid.Action, prob float64) {
	p.Entry(s).SetProbability(a, prob)
}

// ActionValue returns the value of taking a in s
func (p *Store) ActionValue(s grid.State, a grid.Action) float64 {
	if e, ok := p.Lookup(s); ok {
		return e.ActionValue(a)
	}
	return p.defaultValue
}

// SetActionValue sets the value of taking a in s
func (p *Store) SetActionValue(s grid.State, a grid.Action, v float64) {
	p.Entry(s).SetActionValue(a, v)
}

// SetUniform gives every state in states a uniform policy
func (p *Store) SetUniform(states []grid.State) {
	uniform := Uniform()
	for _, s := range states {
		p.Entry(s).SetProbabilities(uniform)
	}
}

// Len returns the number of entries
func (p *Store) Len() int {
	return len(p.entries)
}

// States returns one representative state per entry in the order the
// entries were created
func (p *Store) States() []grid.State {
	states := make([]grid.State, len(p.states))
	copy(states, p.states)
	return states
}

// Range calls f on every entry in creation order until f returns false
func (p *Store) Range(f func(s grid.State, e *Entry) bool) {
	for _, s := range p.states {
		if !f(s, p.entries[p.keyer.Key(s)]) {
			return
		}
	}
}

// Uniform returns the uniform distribution over actions
func Uniform() [grid.NumActions]float64 {
	var probs [grid.NumActions]float64
	for i := range probs {
		probs[i] = 1.0 / grid.NumActions
	}
	return probs
}

// Greedy returns the distribution that is uniform over the actions in
// best and zero elsewhere
func Greedy(best []grid.Action) [grid.NumActions]float64 {
	var probs [grid.NumActions]float64
	for _, a := range best {
		probs[a] = 1.0 / float64(len(best))
	}
	return probs
}
