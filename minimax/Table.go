package minimax

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/pursuit/grid"
)

type payoffKey struct {
	state    grid.Key
	opponent grid.Action
	own      grid.Action
}

// Table is the payoff table Q(s, o, a) of a zero-sum game: the value
// to the learning agent of taking action a in state s while its
// opponent takes action o. Entries that were never written read as the
// default value and are inserted on first read.
//
// A Table is not safe for concurrent writers.
type Table struct {
	entries      map[payoffKey]float64
	defaultValue float64
}

// NewTable returns a new, empty Table
func NewTable(defaultValue float64) *Table {
	return &Table{
		entries:      make(map[payoffKey]float64),
		defaultValue: defaultValue,
	}
}

// Get returns Q(k, opponent, own), inserting the default value if the
// entry does not exist yet
func (t *Table) Get(k grid.Key, opponent, own grid.Action) float64 {
	key := payoffKey{k, opponent, own}
	v, ok := t.entries[key]
	if !ok {
		v = t.defaultValue
		t.entries[key] = v
	}
	return v
}

// Set sets Q(k, opponent, own)
func (t *Table) Set(k grid.Key, opponent, own grid.Action, v float64) {
	t.entries[payoffKey{k, opponent, own}] = v
}

// Len returns the number of entries in the Table
func (t *Table) Len() int {
	return len(t.entries)
}

// Matrix returns the payoff matrix of state k, with one row per
// opponent action and one column per own action
func (t *Table) Matrix(k grid.Key) *mat.Dense {
	m := mat.NewDense(grid.NumActions, grid.NumActions, nil)
	for _, o := range grid.Actions {
		for _, a := range grid.Actions {
			m.Set(int(o), int(a), t.Get(k, o, a))
		}
	}
	return m
}
