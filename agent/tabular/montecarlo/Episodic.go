// Package montecarlo implements Monte Carlo control over tabular
// action values. Both learners update only once an episode has ended,
// from the returns observed during the episode. Returns of episodes
// that were cut off are truncated at the cutoff.
package montecarlo

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/timestep"
)

// visit is a state-action pair, with the state reduced to its key
type visit struct {
	state  grid.Key
	action grid.Action
}

// episodic records the episode a Monte Carlo learner learns from
type episodic struct {
	episode  *timestep.Episode
	discount float64
	ended    bool
	learned  bool
}

// ObserveFirst starts recording a new episode
func (e *episodic) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep %d is not the first of "+
			"an episode", t.Number)
	}
	e.episode = timestep.NewEpisode(t.State)
	e.discount = t.Discount
	e.ended = false
	e.learned = false
	return nil
}

// Observe records that action lead to the timestep next
func (e *episodic) Observe(action grid.Action, next timestep.TimeStep) error {
	if e.episode == nil {
		return fmt.Errorf("observe: no episode started")
	}
	if e.ended {
		return fmt.Errorf("observe: episode has ended")
	}
	e.episode.Append(action, next.Reward, next.State)
	e.ended = next.Last()
	return nil
}

// pending returns whether a finished episode has not been learned from
func (e *episodic) pending() bool {
	return e.ended && !e.learned
}

// EndEpisode forgets the current episode
func (e *episodic) EndEpisode() error {
	e.episode = nil
	e.ended = false
	return nil
}
