package montecarlo

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/agent/tabular"
	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
)

// OnPolicy implements first-visit on-policy Monte Carlo control with
// ε-soft policies. Action values are the averages of the returns that
// followed the first visit of each state-action pair in every episode,
// and the policy of every visited state is made ε-soft greedy with
// respect to them.
type OnPolicy struct {
	episodic
	store   *policy.Store
	sampler *policy.Sampler
	epsilon float64
	visits  map[visit]int
}

// NewOnPolicy creates a new OnPolicy agent acting in env. The policy
// starts out uniform.
func NewOnPolicy(env environment.Environment, c OnPolicyConfig,
	seed uint64) (*OnPolicy, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newOnPolicy: %v", err)
	}

	store := policy.NewStore(agent.Keyer(env, c.Reduced), c.InitialValue)
	store.SetDefaultProbabilities(policy.Uniform())

	return &OnPolicy{
		store:   store,
		sampler: policy.NewSampler(store, seed),
		epsilon: c.Epsilon,
		visits:  make(map[visit]int),
	}, nil
}

// SelectAction samples an action from the policy in the state of t
func (m *OnPolicy) SelectAction(t timestep.TimeStep) (grid.Action, error) {
	a, err := m.sampler.SelectAction(t.State)
	if err != nil {
		return a, fmt.Errorf("selectAction: %w", err)
	}
	return a, nil
}

// Step learns from the episode once it has ended
func (m *OnPolicy) Step() error {
	if !m.pending() {
		return nil
	}
	m.learned = true

	returns := m.episode.Returns(m.discount)
	seen := make(map[visit]bool, m.episode.Len())
	for i := 0; i < m.episode.Len(); i++ {
		s := m.episode.State(i)
		v := visit{m.store.Key(s), m.episode.Action(i)}
		if seen[v] {
			continue
		}
		seen[v] = true

		m.visits[v]++
		e := m.store.Entry(s)
		q := e.ActionValue(v.action)
		e.SetActionValue(v.action, q+(returns[i]-q)/float64(m.visits[v]))
	}

	for i := 0; i < m.episode.Len(); i++ {
		e := m.store.Entry(m.episode.State(i))
		values := e.ActionValues()
		probs := tabular.SoftProbabilities(values, m.epsilon)
		e.SetProbabilities(probs)
		e.Value = floats.Dot(values[:], probs[:])
	}

	log.Debug().Msgf("montecarlo: learned from %v", m.episode)
	return nil
}

// Store returns the policy and action values learned
func (m *OnPolicy) Store() *policy.Store {
	return m.store
}
