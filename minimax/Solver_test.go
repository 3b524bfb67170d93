package minimax

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

type lastAction grid.Action

func (l *lastAction) LastAction() grid.Action {
	return grid.Action(*l)
}

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

func TestSolveGame(t *testing.T) {
	t.Run("matching pennies", func(t *testing.T) {
		payoff := mat.NewDense(2, 2, []float64{
			1, -1,
			-1, 1,
		})
		strategy, v, err := SolveGame(payoff)
		require.NoError(t, err)
		require.InDelta(t, 0.5, strategy[0], 1e-6)
		require.InDelta(t, 0.5, strategy[1], 1e-6)
		require.InDelta(t, 0.0, v, 1e-6)
	})

	t.Run("matching the opponent", func(t *testing.T) {
		var identity mat.Dense
		identity.CloneFrom(mat.NewDiagDense(grid.NumActions, []float64{1, 1, 1, 1, 1}))
		strategy, v, err := SolveGame(&identity)
		require.NoError(t, err)
		for _, p := range strategy {
			require.InDelta(t, 0.2, p, 1e-6)
		}
		require.InDelta(t, 0.2, v, 1e-6)
	})

	t.Run("dominant action", func(t *testing.T) {
		payoff := mat.NewDense(grid.NumActions, grid.NumActions, nil)
		for o := 0; o < grid.NumActions; o++ {
			payoff.Set(o, int(grid.Right), 1)
		}
		strategy, v, err := SolveGame(payoff)
		require.NoError(t, err)
		require.InDelta(t, 1.0, strategy[grid.Right], 1e-6)
		require.InDelta(t, 1.0, v, 1e-6)
	})

	t.Run("non-finite payoffs", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			payoff := mat.NewDense(2, 2, []float64{
				1, v,
				-1, 1,
			})
			_, _, err := SolveGame(payoff)
			require.True(t, errors.Is(err, ErrInvalidStrategy), "%v: %v", v, err)
		}
	})

	t.Run("negative payoffs", func(t *testing.T) {
		payoff := mat.NewDense(2, 2, []float64{
			-3, -1,
			-2, -4,
		})
		strategy, v, err := SolveGame(payoff)
		require.NoError(t, err)
		require.InDelta(t, 1.0, floats.Sum(strategy), StrategyTolerance)
		require.InDelta(t, 0.75, strategy[0], 1e-6)
		require.InDelta(t, -2.5, v, 1e-6)
	})
}

func TestLearn(t *testing.T) {
	opponent := lastAction(grid.Wait)
	c := Config{LearningRate: 1, Decay: 0.5, Discount: 0.7, DefaultValue: 15}
	s, err := New(&opponent, c)
	require.NoError(t, err)

	p := policy.NewStore(grid.ExactKeyer{}, 15)
	state := pair(0, 0, 5, 5)
	next := pair(1, 0, 5, 5)

	t.Run("update follows the payoff table", func(t *testing.T) {
		require.NoError(t, s.Learn(state, next, grid.Right, 0, p))

		k := p.Key(state)
		require.InDelta(t, 0.0, s.Table().Get(k, grid.Wait, grid.Right), 1e-12)
		require.Equal(t, 15.0, s.Table().Get(k, grid.Up, grid.Right))
		require.Equal(t, 0.5, s.LearningRate())
		require.Equal(t, 1, s.Updates())

		e, ok := p.Lookup(state)
		require.True(t, ok)
		require.InDelta(t, 1.0, e.Mass(), StrategyTolerance)
		require.Equal(t, 0.0, e.Probability(grid.Right))

		// The value of the game is stored for the resulting state
		require.InDelta(t, 15.0, p.Value(next), 1e-6)
	})

	t.Run("re-solving is deterministic", func(t *testing.T) {
		_, v1, err := s.Solve(state, p)
		require.NoError(t, err)
		_, v2, err := s.Solve(state, p)
		require.NoError(t, err)
		require.InDelta(t, v1, v2, 1e-9)
	})

	t.Run("strategies always sum to one", func(t *testing.T) {
		for i, a := range []grid.Action{grid.Up, grid.Down, grid.Left, grid.Wait} {
			opponent = lastAction(grid.Actions[i])
			require.NoError(t, s.Learn(state, next, a, float64(i), p))
			e, _ := p.Lookup(state)
			require.InDelta(t, 1.0, e.Mass(), StrategyTolerance)
		}
	})

	t.Run("rejects invalid configurations", func(t *testing.T) {
		_, err := New(&opponent, Config{LearningRate: 0, Decay: 1})
		require.Error(t, err)
		_, err = New(&opponent, Config{LearningRate: 0.5, Decay: 0})
		require.Error(t, err)
	})
}

func TestLearnNonFiniteReward(t *testing.T) {
	opponent := lastAction(grid.Wait)
	c := Config{LearningRate: 1, Decay: 0.5, Discount: 0.7, DefaultValue: 15}
	s, err := New(&opponent, c)
	require.NoError(t, err)

	p := policy.NewStore(grid.ExactKeyer{}, 15)
	state := pair(0, 0, 5, 5)
	next := pair(1, 0, 5, 5)
	require.NoError(t, s.Learn(state, next, grid.Right, 0, p))

	k := p.Key(state)
	e, _ := p.Lookup(state)
	strategy := e.Probabilities()
	q := s.Table().Get(k, grid.Wait, grid.Right)
	entries := s.Table().Len()
	value := p.Value(next)

	for _, r := range []float64{math.NaN(), math.Inf(1)} {
		err := s.Learn(state, next, grid.Right, r, p)
		require.True(t, errors.Is(err, ErrInvalidStrategy), "%v: %v", r, err)

		require.Equal(t, strategy, e.Probabilities())
		require.Equal(t, value, p.Value(next))
		require.Equal(t, q, s.Table().Get(k, grid.Wait, grid.Right))
		require.Equal(t, entries, s.Table().Len())
		require.Equal(t, 0.5, s.LearningRate())
		require.Equal(t, 1, s.Updates())
	}

	t.Run("state can still be learned", func(t *testing.T) {
		require.NoError(t, s.Learn(state, next, grid.Right, 1, p))
		require.Equal(t, 2, s.Updates())
	})
}
