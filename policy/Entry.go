package policy

import (
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/pursuit/grid"
)

// Entry holds everything a policy knows about a single state: the
// state value, the action probabilities, and the action values.
//
// Actions whose probability was never set have probability 0. Actions
// whose value was never set have the default action value of the
// Store that created the Entry.
type Entry struct {
	Value float64

	probabilities [grid.NumActions]float64
	defined       uint8 // bit a set iff the probability of a is set

	values       [grid.NumActions]float64
	valued       uint8 // bit a set iff the value of a is set
	defaultValue float64
}

func newEntry(defaultValue float64) *Entry {
	return &Entry{defaultValue: defaultValue}
}

// Probability returns the probability of taking action a
func (e *Entry) Probability(a grid.Action) float64 {
	return e.probabilities[a]
}

// Defined returns whether the probability of action a has been set
func (e *Entry) Defined(a grid.Action) bool {
	return e.defined&(1<<a) != 0
}

// HasProbabilities returns whether any action has a probability set
func (e *Entry) HasProbabilities() bool {
	return e.defined != 0
}

// SetProbability sets the probability of taking action a
func (e *Entry) SetProbability(a grid.Action, p float64) {
	e.probabilities[a] = p
	e.defined |= 1 << a
}

// SetProbabilities sets the probability of every action
func (e *Entry) SetProbabilities(p [grid.NumActions]float64) {
	e.probabilities = p
	e.defined = 1<<grid.NumActions - 1
}

// ClearProbabilities marks every action probability as unset
func (e *Entry) ClearProbabilities() {
	e.probabilities = [grid.NumActions]float64{}
	e.defined = 0
}

// Probabilities returns the probability of every action
func (e *Entry) Probabilities() [grid.NumActions]float64 {
	return e.probabilities
}

// Mass returns the total probability of the defined actions
func (e *Entry) Mass() float64 {
	return floats.Sum(e.probabilities[:])
}

// ActionValue returns the value of action a
func (e *Entry) ActionValue(a grid.Action) float64 {
	if e.valued&(1<<a) == 0 {
		return e.defaultValue
	}
	return e.values[a]
}

// SetActionValue sets the value of action a
func (e *Entry) SetActionValue(a grid.Action, v float64) {
	e.values[a] = v
	e.valued |= 1 << a
}

// ActionValues returns the value of every action
func (e *Entry) ActionValues() [grid.NumActions]float64 {
	var values [grid.NumActions]float64
	for _, a := range grid.Actions {
		values[a] = e.ActionValue(a)
	}
	return values
}
