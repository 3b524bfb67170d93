package tabular

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
	"github.com/samuelfneumann/pursuit/timestep"
)

var (
	predator = grid.AgentID{Role: grid.Predator}
	prey     = grid.AgentID{Role: grid.Prey}
)

func pair(px, py, qx, qy int) grid.State {
	return grid.MustState(
		grid.Occupant{ID: predator, At: grid.Location{X: px, Y: py}},
		grid.Occupant{ID: prey, At: grid.Location{X: qx, Y: qy}},
	)
}

func TestSoftProbabilities(t *testing.T) {
	t.Run("single best action", func(t *testing.T) {
		probs := SoftProbabilities([grid.NumActions]float64{0, 1, 0, 0, 0}, 0.5)
		require.InDelta(t, 0.6, probs[grid.Up], 1e-12)
		require.InDelta(t, 0.1, probs[grid.Wait], 1e-12)
		require.InDelta(t, 1.0, floats.Sum(probs[:]), 1e-12)
	})

	t.Run("ties share the greedy mass", func(t *testing.T) {
		probs := SoftProbabilities([grid.NumActions]float64{2, 2, 0, 0, 0}, 0)
		require.Equal(t, 0.5, probs[grid.Wait])
		require.Equal(t, 0.5, probs[grid.Up])
		require.Equal(t, 0.0, probs[grid.Right])
	})
}

func TestBehaviour(t *testing.T) {
	p := policy.NewStore(grid.ExactKeyer{}, 0)

	b, err := Behaviour(p, 0.1, 0, 1)
	require.NoError(t, err)
	require.IsType(t, &policy.EGreedy{}, b)

	b, err = Behaviour(p, 0.1, 5, 1)
	require.NoError(t, err)
	require.IsType(t, &policy.Softmax{}, b)

	_, err = Behaviour(p, 2, 0, 1)
	require.Error(t, err)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	s0, s1 := pair(0, 0, 2, 2), pair(1, 0, 2, 2)

	require.Error(t, r.Observe(grid.Right, timestep.New(timestep.Mid, 0, 0.7, s1, 1)))
	require.Error(t, r.ObserveFirst(timestep.New(timestep.Mid, 0, 0.7, s0, 3)))

	require.NoError(t, r.ObserveFirst(timestep.New(timestep.First, 0, 0.7, s0, 0)))
	_, ok := r.Transition()
	require.False(t, ok)

	t.Run("mid episode transitions bootstrap", func(t *testing.T) {
		require.NoError(t, r.Observe(grid.Right, timestep.New(timestep.Mid, 1, 0.7, s1, 1)))
		tr, ok := r.Transition()
		require.True(t, ok)
		require.Equal(t, Transition{
			State: s0, Action: grid.Right, Reward: 1, Discount: 0.7, Next: s1,
			Bootstrap: true,
		}, tr)

		_, ok = r.Transition()
		require.False(t, ok)
		require.Equal(t, s1, r.Current().State)
	})

	t.Run("cut off episodes bootstrap", func(t *testing.T) {
		next := timestep.New(timestep.Mid, 0, 0.7, s0, 2)
		next.SetEnd(timestep.Timeout)
		require.NoError(t, r.Observe(grid.Left, next))
		tr, _ := r.Transition()
		require.True(t, tr.Bootstrap)
	})

	t.Run("terminal states do not bootstrap", func(t *testing.T) {
		terminal := grid.MustState(grid.Occupant{ID: predator, At: grid.Location{X: 2, Y: 2}})
		next := timestep.New(timestep.Mid, 10, 0.7, terminal, 3)
		next.SetEnd(timestep.TerminalStateReached)
		require.NoError(t, r.Observe(grid.Down, next))
		tr, _ := r.Transition()
		require.False(t, tr.Bootstrap)
	})

	require.NoError(t, r.EndEpisode())
	require.Error(t, r.Observe(grid.Wait, timestep.New(timestep.Mid, 0, 0.7, s1, 1)))
}
