package planner

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/environment"
)

func init() {
	agent.Register(agent.Planner, Config{})
}

// Method is a dynamic programming method a Planner plans with
type Method string

const (
	PolicyIteration Method = "policy_iteration"
	ValueIteration  Method = "value_iteration"
)

// Config represents a configuration for the Planner agent
type Config struct {
	Method    Method  `json:"method"`
	Threshold float64 `json:"threshold"`
	MaxSweeps int     `json:"max_sweeps"` // unbounded if 0
	Reduced   bool    `json:"reduced"`
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*Planner)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	switch c.Method {
	case PolicyIteration, ValueIteration:
	default:
		return fmt.Errorf("unknown method %q", c.Method)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive")
	}
	if c.MaxSweeps < 0 {
		return fmt.Errorf("max sweeps cannot be lower than 0")
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.Planner
}
