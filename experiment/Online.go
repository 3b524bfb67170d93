package experiment

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/samuelfneumann/pursuit/agent"
	env "github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/experiment/trackers"
	ts "github.com/samuelfneumann/pursuit/timestep"
	"github.com/samuelfneumann/pursuit/utils/progressbar"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	id       uuid.UUID
	episodes int
	finished int
	timeouts int
	trackers []trackers.Tracker
	progress *progressbar.ManualProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The episodes parameter determines
// how many episodes the experiment is run for, and t determines which
// data is tracked.
func NewOnline(e env.Environment, a agent.Agent, episodes int,
	t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		id:          uuid.New(),
		episodes:    episodes,
		trackers:    t,
	}
}

// ID returns the identifier of the run
func (o *Online) ID() uuid.UUID {
	return o.id
}

// ShowProgress displays a progress bar of the finished episodes on w
func (o *Online) ShowProgress(w io.Writer) {
	o.progress = progressbar.NewManualProgressBar(w, 50, o.episodes)
}

// Register registers a trackers.Tracker with an Experiment so that
// data generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Episodes returns the number of finished episodes
func (o *Online) Episodes() int {
	return o.finished
}

// Timeouts returns the number of finished episodes that were cut off
func (o *Online) Timeouts() int {
	return o.timeouts
}

// RunEpisode runs a single episode of the experiment and returns
// whether the experiment has run all its episodes
func (o *Online) RunEpisode() (bool, error) {
	if o.finished >= o.episodes {
		return true, nil
	}

	step := o.Environment.Reset()
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}
	o.track(step)

	for !step.Last() {
		action, err := o.Agent.SelectAction(step)
		if err != nil {
			return false, fmt.Errorf("runEpisode: step %d: %w", step.Number, err)
		}

		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: step %d: %w", step.Number, err)
		}
		o.track(step)

		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: step %d: %w", step.Number, err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: step %d: %w", step.Number, err)
		}
	}

	if err := o.Agent.EndEpisode(); err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}
	o.finished++

	if step.TimedOut() {
		o.timeouts++
		log.Warn().Str("run", o.id.String()).Msgf("episode %d cut off "+
			"after %d steps", o.finished, step.Number)
	}
	log.Debug().Str("run", o.id.String()).Msgf("episode %d: %d steps, %v",
		o.finished, step.Number, step.EndType())

	if o.progress != nil {
		o.progress.Increment()
		o.progress.Display()
	}
	return o.finished >= o.episodes, nil
}

// Run runs the entire experiment for all episodes
func (o *Online) Run() error {
	log.Info().Str("run", o.id.String()).Msgf("running %d episodes on %v",
		o.episodes, o.Environment)

	for ended := o.finished >= o.episodes; !ended; {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	if o.progress != nil {
		o.progress.Close()
	}
	log.Info().Str("run", o.id.String()).Msgf("finished %d episodes, %d "+
		"cut off", o.finished, o.timeouts)
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v: %v", t.Name(), err)
		}
	}
	return nil
}

// Trackers returns the Trackers of the experiment
func (o *Online) Trackers() []trackers.Tracker {
	return o.trackers
}

// track tracks the current timestep by caching its data in each
// Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
