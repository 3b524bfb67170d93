// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/environment/pursuit"
	"github.com/samuelfneumann/pursuit/experiment/trackers"
)

// Experiment outlines structs that can run experiments. Experiments
// track environment TimeSteps with Trackers, which cache the data in
// RAM to be later saved to disk by Save. Run runs all episodes of the
// experiment and RunEpisode runs a single one.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether all episodes have run
	Save() error

	// Adds a new trackers.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t trackers.Tracker)

	// Trackers returns every Tracker registered with the experiment
	Trackers() []trackers.Tracker

	ID() uuid.UUID
}

// Type is a type of experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type      Type
	Episodes  int
	EnvConf   pursuit.Config
	AgentConf agent.TypedConfig
}

// CreateExp creates the experiment described by the Config
func (c Config) CreateExp(seed uint64, t ...trackers.Tracker) (Experiment,
	error) {
	if c.Episodes <= 0 {
		return nil, fmt.Errorf("createExp: episodes must be positive")
	}

	env, _, err := c.EnvConf.CreateEnv(seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %v",
			err)
	}
	if c.AgentConf.Config == nil {
		return nil, fmt.Errorf("createExp: no agent configured")
	}
	a, err := c.AgentConf.CreateAgent(env, seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create agent: %w", err)
	}

	switch c.Type {
	case OnlineExp:
		return NewOnline(env, a, c.Episodes, t...), nil
	}
	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
