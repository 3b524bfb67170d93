// Package config loads the configuration of the pursuit command line
// tool from a file and the environment
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/environment/pursuit"
	"github.com/samuelfneumann/pursuit/experiment"
)

// EnvPrefix prefixes the environment variables that override settings,
// e.g. PURSUIT_EXPERIMENT_EPISODES
const EnvPrefix = "PURSUIT"

// Config holds all configuration
type Config struct {
	Environment pursuit.Config   `mapstructure:"environment"`
	Planning    PlanningConfig   `mapstructure:"planning"`
	Agent       AgentConfig      `mapstructure:"agent"`
	Experiment  ExperimentConfig `mapstructure:"experiment"`

	LogLevel string `mapstructure:"log_level"`
}

// PlanningConfig configures dynamic programming on the game
type PlanningConfig struct {
	Discount  float64 `mapstructure:"discount"`
	Threshold float64 `mapstructure:"threshold"`
	MaxSweeps int     `mapstructure:"max_sweeps"` // unbounded if 0
	Reduced   bool    `mapstructure:"reduced"`
}

// AgentConfig selects a learning agent. Settings are keyed by the JSON
// names of the fields of the agent's Config. Default settings a file
// leaves unset are kept, and settings the agent does not have are
// ignored.
type AgentConfig struct {
	Type     string                 `mapstructure:"type"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

// ExperimentConfig configures an online experiment
type ExperimentConfig struct {
	Episodes int    `mapstructure:"episodes"`
	Seed     uint64 `mapstructure:"seed"`
	Progress bool   `mapstructure:"progress"`

	// Report is the HTML learning curve file, none is written if empty
	Report string `mapstructure:"report"`

	// DataDir holds the tracked data, none is saved if empty
	DataDir string `mapstructure:"data_dir"`
}

// Default returns a config with the classic single predator, single
// prey settings
func Default() *Config {
	return &Config{
		Environment: pursuit.DefaultConfig(),
		Planning: PlanningConfig{
			Discount:  0.8,
			Threshold: 1e-5,
		},
		Agent: AgentConfig{
			Type: string(agent.QLearning),
			Settings: map[string]interface{}{
				"epsilon":       0.1,
				"learning_rate": 0.1,
				"temperature":   5.0,
				"initial_value": 15.0,
			},
		},
		Experiment: ExperimentConfig{
			Episodes: 1000,
			Seed:     1,
			Progress: true,
		},
		LogLevel: "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Environment.Validate(); err != nil {
		return fmt.Errorf("environment: %v", err)
	}
	if c.Planning.Discount < 0 || c.Planning.Discount >= 1 {
		return fmt.Errorf("planning.discount must be in [0, 1)")
	}
	if c.Planning.Threshold <= 0 {
		return fmt.Errorf("planning.threshold must be positive")
	}
	if c.Planning.MaxSweeps < 0 {
		return fmt.Errorf("planning.max_sweeps cannot be negative")
	}
	if c.Agent.Type == "" {
		return fmt.Errorf("agent.type is required")
	}
	if c.Experiment.Episodes <= 0 {
		return fmt.Errorf("experiment.episodes must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %v", err)
	}
	return nil
}

// AgentConfig returns the Config of the selected agent. The agent's
// package must have registered its type.
func (c *Config) AgentConfig() (agent.Config, error) {
	conf, err := agent.FromMap(agent.Type(c.Agent.Type), c.Agent.Settings)
	if err != nil {
		return nil, fmt.Errorf("agentConfig: %w", err)
	}
	return conf, nil
}

// ExperimentConfig returns the online experiment described by the
// Config
func (c *Config) ExperimentConfig() (experiment.Config, error) {
	conf, err := c.AgentConfig()
	if err != nil {
		return experiment.Config{}, fmt.Errorf("experimentConfig: %w", err)
	}
	return experiment.Config{
		Type:      experiment.OnlineExp,
		Episodes:  c.Experiment.Episodes,
		EnvConf:   c.Environment,
		AgentConf: agent.NewTypedConfig(conf),
	}, nil
}

// Load reads the configuration file at path, which may be empty, over
// the defaults. Environment variables prefixed with EnvPrefix override
// both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load: %v", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}
	return cfg, nil
}

// setDefaults registers every setting with v so that each can be
// overridden from the environment
func setDefaults(v *viper.Viper, c *Config) {
	env := c.Environment
	v.SetDefault("environment.width", env.Width)
	v.SetDefault("environment.height", env.Height)
	v.SetDefault("environment.predators", env.Predators)
	v.SetDefault("environment.prey", env.Prey)
	v.SetDefault("environment.role", env.Role)
	v.SetDefault("environment.random_start", env.RandomStart)
	v.SetDefault("environment.prey_move_probability", env.PreyMoveProbability)
	v.SetDefault("environment.kill_reward", env.KillReward)
	v.SetDefault("environment.max_steps", env.MaxSteps)
	v.SetDefault("environment.discount", env.Discount)

	v.SetDefault("planning.discount", c.Planning.Discount)
	v.SetDefault("planning.threshold", c.Planning.Threshold)
	v.SetDefault("planning.max_sweeps", c.Planning.MaxSweeps)
	v.SetDefault("planning.reduced", c.Planning.Reduced)

	v.SetDefault("agent.type", c.Agent.Type)
	v.SetDefault("agent.settings", c.Agent.Settings)

	v.SetDefault("experiment.episodes", c.Experiment.Episodes)
	v.SetDefault("experiment.seed", c.Experiment.Seed)
	v.SetDefault("experiment.progress", c.Experiment.Progress)
	v.SetDefault("experiment.report", c.Experiment.Report)
	v.SetDefault("experiment.data_dir", c.Experiment.DataDir)

	v.SetDefault("log_level", c.LogLevel)
}
