package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/expreplay"
)

func init() {
	// Register Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.QLearning, Config{})
}

// Config represents a configuration for the QLearning agent
type Config struct {
	Epsilon      float64 `json:"epsilon"` // epsilon for behaviour policy
	LearningRate float64 `json:"learning_rate"`

	// Temperature of the softmax over action values that exploratory
	// actions are sampled from. Exploratory actions are chosen
	// uniformly from the non-greedy actions if not positive.
	Temperature float64 `json:"temperature"`

	// InitialValue of every action value
	InitialValue float64 `json:"initial_value"`

	// Reduced shares action values between translated states
	Reduced bool `json:"reduced"`

	// Replay configures an experience replay buffer of past
	// transitions, which are learned from after every step
	Replay expreplay.Config `json:"replay"`
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*QLearning)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1]")
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1]")
	}
	if c.Temperature < 0 {
		return fmt.Errorf("temperature cannot be lower than 0")
	}
	if err := c.Replay.Validate(); err != nil {
		return fmt.Errorf("replay: %v", err)
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.QLearning
}
