package minimaxq

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/environment"
)

func init() {
	agent.Register(agent.MinimaxQ, Config{})
}

// Config represents a configuration for the MinimaxQ agent
type Config struct {
	Epsilon      float64 `json:"epsilon"`       // probability of a random action
	LearningRate float64 `json:"learning_rate"` // initial learning rate
	Decay        float64 `json:"decay"`
	InitialValue float64 `json:"initial_value"` // initial payoff
	Reduced      bool    `json:"reduced"`
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*MinimaxQ)
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
	if c.Decay <= 0 || c.Decay > 1 {
		return fmt.Errorf("decay must be in (0, 1]")
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.MinimaxQ
}
