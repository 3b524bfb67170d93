package pursuit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
)

var (
	predator = grid.AgentID{Role: grid.Predator}
	prey     = grid.AgentID{Role: grid.Prey}
	g        = grid.Grid{Width: 11, Height: 11}
)

func at(x, y int) grid.Location {
	return grid.Location{X: x, Y: y}
}

func pair(pred, pr grid.Location) grid.State {
	return grid.MustState(
		grid.Occupant{ID: predator, At: pred},
		grid.Occupant{ID: prey, At: pr},
	)
}

func predatorModel(t *testing.T) *Model {
	m, err := NewModel(g, predator, []grid.AgentID{predator, prey},
		map[grid.AgentID]Mover{prey: PreyMover{0.2}}, 10)
	require.NoError(t, err)
	return m
}

func total(outcomes []environment.Outcome) float64 {
	var sum float64
	for _, o := range outcomes {
		sum += o.Probability
	}
	return sum
}

func TestPreyMover(t *testing.T) {
	t.Run("free prey", func(t *testing.T) {
		dist := PreyMover{0.2}.Distribution(g, pair(at(0, 0), at(5, 5)), prey)
		require.InDelta(t, 0.8, dist[grid.Wait], 1e-12)
		for _, a := range grid.Actions[1:] {
			require.InDelta(t, 0.05, dist[a], 1e-12)
		}
	})

	t.Run("prey never steps onto a predator", func(t *testing.T) {
		dist := PreyMover{0.2}.Distribution(g, pair(at(5, 4), at(5, 5)), prey)
		require.Equal(t, 0.0, dist[grid.Up])
		require.InDelta(t, 0.8, dist[grid.Wait], 1e-12)
		require.InDelta(t, 0.2/3, dist[grid.Left], 1e-12)
	})

	t.Run("surrounded prey waits", func(t *testing.T) {
		ids := []grid.AgentID{{Role: grid.Predator, Slot: 0}, {Role: grid.Predator, Slot: 1},
			{Role: grid.Predator, Slot: 2}, {Role: grid.Predator, Slot: 3}}
		s := grid.MustState(
			grid.Occupant{ID: ids[0], At: at(5, 4)},
			grid.Occupant{ID: ids[1], At: at(5, 6)},
			grid.Occupant{ID: ids[2], At: at(4, 5)},
			grid.Occupant{ID: ids[3], At: at(6, 5)},
			grid.Occupant{ID: prey, At: at(5, 5)},
		)
		dist := PreyMover{0.2}.Distribution(g, s, prey)
		require.Equal(t, 1.0, dist[grid.Wait])
	})
}

func TestTransitions(t *testing.T) {
	m := predatorModel(t)

	t.Run("capture is a single terminal outcome", func(t *testing.T) {
		out := m.Transitions(pair(at(5, 4), at(5, 5)), grid.Down, nil)
		require.Len(t, out, 1)
		require.True(t, out[0].Next.Terminal())
		require.Equal(t, 1.0, out[0].Probability)
		require.Equal(t, 10.0, out[0].Reward)
	})

	t.Run("prey branches after the predator moves", func(t *testing.T) {
		out := m.Transitions(pair(at(0, 0), at(5, 5)), grid.Right, nil)
		require.Len(t, out, grid.NumActions)
		require.InDelta(t, 1.0, total(out), 1e-12)
		for _, o := range out {
			loc, ok := o.Next.Location(predator)
			require.True(t, ok)
			require.Equal(t, at(1, 0), loc)
			require.Equal(t, 0.0, o.Reward)
			require.Equal(t, grid.Right, o.Actions[0])
		}
	})

	t.Run("prey distribution uses the intermediate state", func(t *testing.T) {
		// The predator moves next to the prey, blocking one of its moves
		out := m.Transitions(pair(at(5, 3), at(5, 5)), grid.Down, nil)
		require.Len(t, out, 4)
		require.InDelta(t, 1.0, total(out), 1e-12)
	})

	t.Run("terminal states are absorbing", func(t *testing.T) {
		s := pair(at(5, 4), at(5, 5)).Remove(prey)
		out := m.Transitions(s, grid.Up, nil)
		require.Len(t, out, 1)
		require.Equal(t, s, out[0].Next)
		require.Equal(t, 0.0, out[0].Reward)
	})

	t.Run("prey decision agent is punished on capture", func(t *testing.T) {
		pm, err := NewModel(g, prey, []grid.AgentID{predator, prey},
			map[grid.AgentID]Mover{predator: RandomMover{}}, 10)
		require.NoError(t, err)

		out := pm.Transitions(pair(at(5, 4), at(5, 5)), grid.Wait, nil)
		require.Len(t, out, grid.NumActions)
		require.InDelta(t, 1.0, total(out), 1e-12)

		var captured int
		for _, o := range out {
			if o.Next.Terminal() {
				captured++
				require.Equal(t, -10.0, o.Reward)
				require.InDelta(t, 0.2, o.Probability, 1e-12)
			}
		}
		require.Equal(t, 1, captured)

		// Stepping onto the predator is a capture too
		out = pm.Transitions(pair(at(5, 4), at(5, 5)), grid.Up, nil)
		require.Len(t, out, 1)
		require.True(t, out[0].Next.Terminal())
		require.Equal(t, -10.0, out[0].Reward)
	})

	t.Run("same role agents bump", func(t *testing.T) {
		other := grid.AgentID{Role: grid.Predator, Slot: 1}
		two, err := NewModel(g, predator, []grid.AgentID{predator, other, prey},
			map[grid.AgentID]Mover{other: RandomMover{}, prey: PreyMover{0.2}}, 10)
		require.NoError(t, err)

		s := grid.MustState(
			grid.Occupant{ID: predator, At: at(0, 0)},
			grid.Occupant{ID: other, At: at(1, 0)},
			grid.Occupant{ID: prey, At: at(5, 5)},
		)
		out := two.Transitions(s, grid.Right, nil)
		require.InDelta(t, 1.0, total(out), 1e-12)
		for _, o := range out {
			loc, _ := o.Next.Location(predator)
			require.Equal(t, at(0, 0), loc)
		}
	})

	t.Run("policy mover follows the store", func(t *testing.T) {
		store := policy.NewStore(grid.ExactKeyer{}, 0)
		s := pair(at(0, 0), at(5, 5))
		store.SetProbability(s.Move(predator, at(1, 0)), grid.Left, 1)

		pm, err := NewModel(g, predator, []grid.AgentID{predator, prey},
			map[grid.AgentID]Mover{prey: PolicyMover{store}}, 10)
		require.NoError(t, err)

		out := pm.Transitions(s, grid.Right, nil)
		require.Len(t, out, 1)
		loc, _ := out[0].Next.Location(prey)
		require.Equal(t, at(4, 5), loc)
	})

	t.Run("rejects agents without movers", func(t *testing.T) {
		_, err := NewModel(g, predator, []grid.AgentID{predator, prey}, nil, 10)
		require.Error(t, err)
	})
}

func TestPursuit(t *testing.T) {
	m := predatorModel(t)
	start, err := environment.NewSingleStart(pair(at(0, 0), at(1, 0)))
	require.NoError(t, err)

	env, first, err := New(m, start, 3, 0.9, 42)
	require.NoError(t, err)
	require.True(t, first.First())

	step, last, err := env.Step(grid.Right)
	require.NoError(t, err)
	require.True(t, last)
	require.True(t, step.State.Terminal())
	require.Equal(t, 10.0, step.Reward)
	require.Equal(t, grid.Right, env.LastAction(predator))

	_, _, err = env.Step(grid.Wait)
	require.Error(t, err)

	t.Run("step limit times out", func(t *testing.T) {
		far, err := environment.NewSingleStart(pair(at(0, 0), at(5, 5)))
		require.NoError(t, err)
		env, _, err := New(m, far, 2, 0.9, 1)
		require.NoError(t, err)

		step, last, err := env.Step(grid.Wait)
		require.NoError(t, err)
		require.False(t, last)
		step, last, err = env.Step(grid.Wait)
		require.NoError(t, err)
		require.True(t, last)
		require.True(t, step.TimedOut())
		require.False(t, step.State.Terminal())
	})
}
