package qlearning

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/pursuit/agent/tabular"
	"github.com/samuelfneumann/pursuit/expreplay"
	"github.com/samuelfneumann/pursuit/policy"
)

// QLearner implements the update of the Q-Learning algorithm
type QLearner struct {
	tabular.Recorder
	store        *policy.Store
	learningRate float64
	updates      int

	replay   *expreplay.ExperienceReplayer
	replayed int
}

// NewQLearner creates a new QLearner updating the action values of
// store. If replay is not nil, every observed transition is added to it
// and a batch of replayed transitions is learned from after each step.
func NewQLearner(store *policy.Store, learningRate float64,
	replay *expreplay.ExperienceReplayer) *QLearner {
	return &QLearner{store: store, learningRate: learningRate, replay: replay}
}

// Step updates the action value of the last transition towards the
// reward plus the discounted maximal action value of the next state.
// The value of the state is kept at its maximal action value.
func (q *QLearner) Step() error {
	t, ok := q.Transition()
	if !ok {
		return fmt.Errorf("step: no transition observed")
	}
	q.update(t)
	q.updates++

	if q.replay == nil {
		return nil
	}
	q.replay.Add(t)
	batch, err := q.replay.Sample()
	if expreplay.IsInsufficientSamples(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("step: %w", err)
	}
	for _, replayed := range batch {
		q.update(replayed)
	}
	q.replayed += len(batch)
	return nil
}

func (q *QLearner) update(t tabular.Transition) {
	target := t.Reward
	if t.Bootstrap {
		next := q.store.Entry(t.Next).ActionValues()
		target += t.Discount * floats.Max(next[:])
	}

	e := q.store.Entry(t.State)
	value := e.ActionValue(t.Action)
	e.SetActionValue(t.Action, value+q.learningRate*(target-value))

	values := e.ActionValues()
	e.Value = floats.Max(values[:])
}

// Store returns the action values learned
func (q *QLearner) Store() *policy.Store {
	return q.store
}

// Updates returns the number of updates performed with observed
// transitions
func (q *QLearner) Updates() int {
	return q.updates
}

// Replayed returns the number of updates performed with replayed
// transitions
func (q *QLearner) Replayed() int {
	return q.replayed
}
