// Package minimax implements Minimax-Q learning for the two player
// zero-sum pursuit game.
//
// For every update the payoff table entry of the state, the opponent's
// last action, and the action taken is moved towards the reward plus
// the discounted value of the resulting state. The maximin mixed
// strategy of the state's payoff matrix is then found with a linear
// program and becomes the policy of the state.
package minimax

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
)

// summaryInterval is the number of updates between debug summaries
const summaryInterval = 10000

// Opponent reports the action the opponent took most recently
type Opponent interface {
	LastAction() grid.Action
}

// Config configures a Solver
type Config struct {
	LearningRate float64 // initial learning rate α
	Decay        float64 // α is multiplied by Decay after every update
	Discount     float64
	DefaultValue float64 // initial payoff of unvisited entries
}

// Validate checks that the Config is valid
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1], got %v",
			c.LearningRate)
	}
	if c.Decay <= 0 || c.Decay > 1 {
		return fmt.Errorf("decay must be in (0, 1], got %v", c.Decay)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1], got %v", c.Discount)
	}
	return nil
}

// Solver learns the payoff table of a zero-sum game and keeps the
// policy of the learning agent at the maximin strategy of that table
type Solver struct {
	opponent Opponent
	config   Config
	alpha    float64
	table    *Table
	updates  int
}

// New returns a new Solver
func New(opponent Opponent, c Config) (*Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	return &Solver{
		opponent: opponent,
		config:   c,
		alpha:    c.LearningRate,
		table:    NewTable(c.DefaultValue),
	}, nil
}

// Learn updates the payoff table with the transition from state to
// next by action a with reward r, then solves for the strategy of
// state. The strategy is stored as the policy of state in p and the
// game value as the value of next. If the strategy cannot be solved an
// error is returned and neither p nor the payoff table change.
func (s *Solver) Learn(state, next grid.State, a grid.Action, r float64,
	p *policy.Store) error {
	o := s.opponent.LastAction()
	k := p.Key(state)

	q := s.table.Get(k, o, a)
	target := r + s.config.Discount*p.Value(next)
	s.table.Set(k, o, a, (1-s.alpha)*q+s.alpha*target)

	strategy, v, err := s.Solve(state, p)
	if err != nil {
		s.table.Set(k, o, a, q)
		return fmt.Errorf("learn: update %d: %w", s.updates+1, err)
	}

	p.Entry(state).SetProbabilities(strategy)
	p.SetValue(next, v)

	s.alpha *= s.config.Decay
	s.updates++
	if s.updates%summaryInterval == 0 {
		log.Debug().Msgf("minimax: %d updates, learning rate %g, %d payoffs",
			s.updates, s.alpha, s.table.Len())
	}
	return nil
}

// Solve returns the maximin strategy and game value of the payoff
// matrix of state, without learning
func (s *Solver) Solve(state grid.State,
	p *policy.Store) ([grid.NumActions]float64, float64, error) {
	var strategy [grid.NumActions]float64

	probs, v, err := SolveGame(s.table.Matrix(p.Key(state)))
	if err != nil {
		return strategy, 0, fmt.Errorf("solve: %v: %w", state, err)
	}
	copy(strategy[:], probs)
	return strategy, v, nil
}

// Table returns the payoff table
func (s *Solver) Table() *Table {
	return s.table
}

// LearningRate returns the current learning rate
func (s *Solver) LearningRate() float64 {
	return s.alpha
}

// Updates returns the number of successful updates
func (s *Solver) Updates() int {
	return s.updates
}
