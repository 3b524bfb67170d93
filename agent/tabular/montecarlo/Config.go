package montecarlo

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/environment"
)

func init() {
	agent.Register(agent.OnPolicyMonteCarlo, OnPolicyConfig{})
	agent.Register(agent.OffPolicyMonteCarlo, OffPolicyConfig{})
}

// OnPolicyConfig represents a configuration for the OnPolicy agent
type OnPolicyConfig struct {
	Epsilon      float64 `json:"epsilon"` // minimum probability mass spread over all actions
	InitialValue float64 `json:"initial_value"`
	Reduced      bool    `json:"reduced"`
}

// CreateAgent creates the agent from the Config
func (c OnPolicyConfig) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return NewOnPolicy(env, c, seed)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c OnPolicyConfig) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*OnPolicy)
	return ok
}

// Validate ensures that the Config is valid
func (c OnPolicyConfig) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1]")
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c OnPolicyConfig) Type() agent.Type {
	return agent.OnPolicyMonteCarlo
}

// OffPolicyConfig represents a configuration for the OffPolicy agent
type OffPolicyConfig struct {
	InitialValue float64 `json:"initial_value"`
	Reduced      bool    `json:"reduced"`
}

// CreateAgent creates the agent from the Config
func (c OffPolicyConfig) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return NewOffPolicy(env, c, seed)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c OffPolicyConfig) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*OffPolicy)
	return ok
}

// Validate ensures that the Config is valid
func (c OffPolicyConfig) Validate() error {
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c OffPolicyConfig) Type() agent.Type {
	return agent.OffPolicyMonteCarlo
}
