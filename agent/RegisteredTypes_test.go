package agent_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/agent/tabular/minimaxq"
	"github.com/samuelfneumann/pursuit/agent/tabular/montecarlo"
	"github.com/samuelfneumann/pursuit/agent/tabular/planner"
	"github.com/samuelfneumann/pursuit/agent/tabular/qlearning"
	"github.com/samuelfneumann/pursuit/agent/tabular/sarsa"
)

func TestRegistered(t *testing.T) {
	for _, ty := range []agent.Type{agent.QLearning, agent.Sarsa,
		agent.OnPolicyMonteCarlo, agent.OffPolicyMonteCarlo, agent.MinimaxQ,
		agent.Planner} {
		require.True(t, agent.Registered(ty), "%v", ty)
	}
	require.False(t, agent.Registered("DoubleQLearning"))
}

func TestFromMap(t *testing.T) {
	t.Run("settings use the json names", func(t *testing.T) {
		c, err := agent.FromMap(agent.QLearning, map[string]interface{}{
			"epsilon":       0.1,
			"learning_rate": 0.5,
			"initial_value": 15,
			"reduced":       true,
		})
		require.NoError(t, err)
		require.Equal(t, qlearning.Config{Epsilon: 0.1, LearningRate: 0.5,
			InitialValue: 15, Reduced: true}, c)
	})

	t.Run("planner method", func(t *testing.T) {
		c, err := agent.FromMap(agent.Planner, map[string]interface{}{
			"method":    "value_iteration",
			"threshold": 1e-5,
		})
		require.NoError(t, err)
		require.Equal(t, planner.ValueIteration, c.(planner.Config).Method)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := agent.FromMap("DoubleQLearning", nil)
		require.Error(t, err)
	})

	t.Run("invalid settings", func(t *testing.T) {
		_, err := agent.FromMap(agent.Sarsa, map[string]interface{}{
			"epsilon":       2.0,
			"learning_rate": 0.1,
		})
		require.Error(t, err)
	})

	t.Run("mistyped settings", func(t *testing.T) {
		_, err := agent.FromMap(agent.MinimaxQ, map[string]interface{}{
			"learning_rate": "fast",
		})
		require.Error(t, err)
	})
}

func TestTypedConfig(t *testing.T) {
	for _, c := range []agent.Config{
		sarsa.Config{Epsilon: 0.1, LearningRate: 0.1, Temperature: 5},
		montecarlo.OnPolicyConfig{Epsilon: 0.1, InitialValue: 15},
		montecarlo.OffPolicyConfig{Reduced: true},
		minimaxq.Config{Epsilon: 0.1, LearningRate: 1, Decay: 0.999999},
	} {
		t.Run(string(c.Type()), func(t *testing.T) {
			data, err := json.Marshal(agent.NewTypedConfig(c))
			require.NoError(t, err)

			var typed agent.TypedConfig
			require.NoError(t, json.Unmarshal(data, &typed))
			require.Equal(t, c.Type(), typed.Type)
			require.Equal(t, c, typed.Config)
		})
	}

	t.Run("unregistered", func(t *testing.T) {
		var typed agent.TypedConfig
		err := json.Unmarshal([]byte(`{"Type": "Dyna", "Config": {}}`), &typed)
		require.Error(t, err)
	})
}
