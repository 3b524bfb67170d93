package montecarlo

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
	"github.com/samuelfneumann/pursuit/utils/floatutils"
)

// OffPolicy implements off-policy Monte Carlo control with weighted
// importance sampling. Episodes are generated by a uniform random
// behaviour policy while a deterministic greedy target policy is
// learned.
type OffPolicy struct {
	episodic
	target    *policy.Store
	behaviour *policy.Store
	sampler   *policy.Sampler

	// cumulative importance sampling weights
	weights map[visit]float64
}

// NewOffPolicy creates a new OffPolicy agent acting in env
func NewOffPolicy(env environment.Environment, c OffPolicyConfig,
	seed uint64) (*OffPolicy, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newOffPolicy: %v", err)
	}

	keyer := agent.Keyer(env, c.Reduced)
	behaviour := policy.NewStore(keyer, 0)
	behaviour.SetDefaultProbabilities(policy.Uniform())

	return &OffPolicy{
		target:    policy.NewStore(keyer, c.InitialValue),
		behaviour: behaviour,
		sampler:   policy.NewSampler(behaviour, seed),
		weights:   make(map[visit]float64),
	}, nil
}

// SelectAction samples an action from the behaviour policy in the
// state of t
func (m *OffPolicy) SelectAction(t timestep.TimeStep) (grid.Action, error) {
	a, err := m.sampler.SelectAction(t.State)
	if err != nil {
		return a, fmt.Errorf("selectAction: %w", err)
	}
	return a, nil
}

// Step learns from the episode once it has ended. The episode is
// walked backwards until the behaviour policy takes an action that the
// target policy would not have taken.
func (m *OffPolicy) Step() error {
	if !m.pending() {
		return nil
	}
	m.learned = true

	var g float64
	w := 1.0
	steps := 0
	for i := m.episode.Len() - 1; i >= 0; i-- {
		s, a := m.episode.State(i), m.episode.Action(i)
		g = m.discount*g + m.episode.Reward(i)

		v := visit{m.target.Key(s), a}
		m.weights[v] += w

		e := m.target.Entry(s)
		q := e.ActionValue(a)
		e.SetActionValue(a, q+w/m.weights[v]*(g-q))

		values := e.ActionValues()
		max, best := floatutils.MaxSlice(values[:])
		greedy := grid.Actions[best[0]]
		e.SetProbabilities(policy.Greedy([]grid.Action{greedy}))
		e.Value = max
		steps++

		if a != greedy {
			break
		}
		w /= m.behaviour.Probability(s, a)
	}

	log.Debug().Msgf("montecarlo: learned from the last %d steps of %v",
		steps, m.episode)
	return nil
}

// Store returns the target policy and the action values learned
func (m *OffPolicy) Store() *policy.Store {
	return m.target
}
