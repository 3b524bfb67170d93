package pursuit

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Config describes a pursuit game: its grid, where its agents start,
// which of them makes decisions, and how the others move. Config is
// serializable so that games can be configured from files.
type Config struct {
	Width  int `mapstructure:"width" json:"width"`
	Height int `mapstructure:"height" json:"height"`

	// Starting locations of the predators and prey. The i-th predator
	// and i-th prey have slot i.
	Predators []grid.Location `mapstructure:"predators" json:"predators"`
	Prey      []grid.Location `mapstructure:"prey" json:"prey"`

	// Role of the decision-making agent, which is the agent of that
	// role in slot 0
	Role string `mapstructure:"role" json:"role"`

	// RandomStart places the agents on random distinct cells at the
	// start of every episode instead of at their starting locations
	RandomStart bool `mapstructure:"random_start" json:"random_start"`

	PreyMoveProbability float64 `mapstructure:"prey_move_probability" json:"prey_move_probability"`
	KillReward          float64 `mapstructure:"kill_reward" json:"kill_reward"`

	// MaxSteps cuts episodes off after that many steps if positive
	MaxSteps int     `mapstructure:"max_steps" json:"max_steps"`
	Discount float64 `mapstructure:"discount" json:"discount"`
}

// DefaultConfig returns the single predator, single prey game on an
// 11x11 grid
func DefaultConfig() Config {
	return Config{
		Width:               11,
		Height:              11,
		Predators:           []grid.Location{{X: 0, Y: 0}},
		Prey:                []grid.Location{{X: 5, Y: 5}},
		Role:                grid.Predator.String(),
		PreyMoveProbability: 0.2,
		KillReward:          10,
		Discount:            0.7,
	}
}

// Validate checks that the Config describes a playable game
func (c Config) Validate() error {
	if _, err := grid.NewGrid(c.Width, c.Height); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if len(c.Prey) == 0 {
		return fmt.Errorf("validate: at least one prey is required")
	}
	if n := len(c.Predators) + len(c.Prey); n > grid.MaxAgents {
		return fmt.Errorf("validate: %d agents exceeds maximum of %d", n,
			grid.MaxAgents)
	}
	if _, err := c.role(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if _, err := c.start(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.PreyMoveProbability < 0 || c.PreyMoveProbability > 1 {
		return fmt.Errorf("validate: prey move probability must be in "+
			"[0, 1], got %v", c.PreyMoveProbability)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	return nil
}

// Grid returns the grid of the game
func (c Config) Grid() (grid.Grid, error) {
	return grid.NewGrid(c.Width, c.Height)
}

// Agent returns the decision-making agent
func (c Config) Agent() grid.AgentID {
	r, _ := c.role()
	return grid.AgentID{Role: r}
}

// Roster returns every agent of the game, predators first
func (c Config) Roster() []grid.AgentID {
	roster := make([]grid.AgentID, 0, len(c.Predators)+len(c.Prey))
	for i := range c.Predators {
		roster = append(roster, grid.AgentID{Role: grid.Predator, Slot: uint8(i)})
	}
	for i := range c.Prey {
		roster = append(roster, grid.AgentID{Role: grid.Prey, Slot: uint8(i)})
	}
	return roster
}

// Start returns the configured starting state
func (c Config) Start() (grid.State, error) {
	return c.start()
}

// CreateModel returns the transition model of the game. Prey other
// than the decision-making agent move with a PreyMover, and predators
// other than it move at random.
func (c Config) CreateModel() (*Model, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createModel: %v", err)
	}
	g, _ := c.Grid()

	prey, err := NewPreyMover(c.PreyMoveProbability)
	if err != nil {
		return nil, fmt.Errorf("createModel: %v", err)
	}

	agent := c.Agent()
	roster := c.Roster()
	movers := make(map[grid.AgentID]Mover, len(roster))
	for _, id := range roster {
		switch {
		case id == agent:
		case id.Role == grid.Prey:
			movers[id] = prey
		default:
			movers[id] = RandomMover{}
		}
	}
	return NewModel(g, agent, roster, movers, c.KillReward)
}

// CreateEnv returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) CreateEnv(seed uint64) (*Pursuit, timestep.TimeStep, error) {
	m, err := c.CreateModel()
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("createEnv: %v", err)
	}

	var starter environment.Starter
	if c.RandomStart {
		starter, err = environment.NewRandomStarter(m.Grid(), m.Roster(), seed)
	} else {
		s, _ := c.start()
		starter, err = environment.NewSingleStart(s)
	}
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("createEnv: %v", err)
	}

	return New(m, starter, c.MaxSteps, c.Discount, seed)
}

func (c Config) role() (grid.Role, error) {
	switch c.Role {
	case grid.Predator.String():
		if len(c.Predators) == 0 {
			return 0, fmt.Errorf("no predator to make decisions")
		}
		return grid.Predator, nil
	case grid.Prey.String():
		return grid.Prey, nil
	}
	return 0, fmt.Errorf("unknown role %q", c.Role)
}

func (c Config) start() (grid.State, error) {
	g, err := c.Grid()
	if err != nil {
		return grid.State{}, err
	}

	roster := c.Roster()
	locations := append(append([]grid.Location{}, c.Predators...), c.Prey...)
	occupants := make([]grid.Occupant, len(roster))
	for i, id := range roster {
		if !g.Contains(locations[i]) {
			return grid.State{}, fmt.Errorf("%v starts outside %v at %v", id,
				g, locations[i])
		}
		occupants[i] = grid.Occupant{ID: id, At: locations[i]}
	}
	return grid.NewState(occupants...)
}
