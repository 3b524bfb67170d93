package dp

import (
	"math"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/pursuit/environment/pursuit"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
)

var (
	predator = grid.AgentID{Role: grid.Predator}
	prey     = grid.AgentID{Role: grid.Prey}
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func pair(px, py, qx, qy int) grid.State {
	return grid.MustState(
		grid.Occupant{ID: predator, At: grid.Location{X: px, Y: py}},
		grid.Occupant{ID: prey, At: grid.Location{X: qx, Y: qy}},
	)
}

type fixture struct {
	grid   grid.Grid
	space  *grid.Space
	solver *Solver
}

func newFixture(t testing.TB, size int, c Config) fixture {
	g, err := grid.NewGrid(size, size)
	require.NoError(t, err)

	roster := []grid.AgentID{predator, prey}
	m, err := pursuit.NewModel(g, predator, roster,
		map[grid.AgentID]pursuit.Mover{prey: pursuit.PreyMover{MoveProbability: 0.2}},
		10)
	require.NoError(t, err)

	space, err := grid.NewSpace(g, roster...)
	require.NoError(t, err)

	solver, err := New(m, space, c)
	require.NoError(t, err)
	return fixture{g, space, solver}
}

func uniformStore(keyer grid.Keyer) *policy.Store {
	p := policy.NewStore(keyer, 0)
	p.SetDefaultProbabilities(policy.Uniform())
	return p
}

var scenario = Config{Discount: 0.8, Threshold: 1e-5, MaxSweeps: 1000}

func TestEvaluate(t *testing.T) {
	f := newFixture(t, 11, scenario)
	p := uniformStore(grid.NewCanonicalKeyer(f.grid, predator))
	require.NoError(t, f.solver.Evaluate(p))

	t.Run("converges in bounded sweeps", func(t *testing.T) {
		require.Greater(t, f.solver.Sweeps(), 1)
		require.Less(t, f.solver.Sweeps(), scenario.MaxSweeps)
	})

	t.Run("adjacent state is worth more than a distant one", func(t *testing.T) {
		adjacent := p.Value(pair(5, 4, 5, 5))
		far := p.Value(pair(0, 0, 5, 5))
		require.Greater(t, adjacent, far)
		require.Greater(t, far, 0.0)
	})

	t.Run("bellman residual within threshold", func(t *testing.T) {
		for _, s := range f.space.States(false) {
			residual := math.Abs(f.solver.Backup(p, s) - p.Value(s))
			require.LessOrEqual(t, residual, scenario.Threshold, "state %v", s)
		}
	})

	t.Run("terminal states are worth nothing", func(t *testing.T) {
		for _, s := range f.space.States(true) {
			if s.Terminal() {
				require.Equal(t, 0.0, p.Value(s))
			}
		}
	})
}

func TestReducedMatchesExact(t *testing.T) {
	c := Config{Discount: 0.8, Threshold: 1e-6}
	f := newFixture(t, 5, c)

	exact := uniformStore(grid.ExactKeyer{})
	require.NoError(t, f.solver.Evaluate(exact))

	reduced := uniformStore(grid.NewCanonicalKeyer(f.grid, predator))
	require.NoError(t, f.solver.Evaluate(reduced))

	require.Equal(t, f.space.Len(true), exact.Len())
	require.Equal(t, f.grid.Cells(), reduced.Len())
	for _, s := range f.space.States(false) {
		require.InDelta(t, exact.Value(s), reduced.Value(s), 1e-4, "state %v", s)
	}
}

func TestIteratePolicy(t *testing.T) {
	f := newFixture(t, 5, Config{Discount: 0.8, Threshold: 1e-6})
	p := uniformStore(grid.ExactKeyer{})
	require.NoError(t, f.solver.IteratePolicy(p))

	require.Greater(t, f.solver.Iterations(), 1)
	require.GreaterOrEqual(t, f.solver.TotalSweeps(), f.solver.Iterations())

	// The final policy is greedy with respect to its own values
	for _, s := range f.space.States(false) {
		q := f.solver.ActionValues(p, s)
		max := math.Inf(-1)
		for _, v := range q {
			max = math.Max(max, v)
		}

		e, ok := p.Lookup(s)
		require.True(t, ok)
		require.InDelta(t, 1.0, e.Mass(), 1e-9)
		for _, a := range grid.Actions {
			if e.Probability(a) > 0 {
				require.GreaterOrEqual(t, q[a], max-f.solver.Tolerance(),
					"state %v action %v", s, a)
			}
		}
	}

	t.Run("adjacent predator moves onto the prey", func(t *testing.T) {
		e, _ := p.Lookup(pair(2, 1, 2, 2))
		require.Equal(t, 1.0, e.Probability(grid.Down))
	})

	t.Run("improving a stable policy changes nothing", func(t *testing.T) {
		require.True(t, f.solver.Improve(p))
	})
}

func TestIterateValues(t *testing.T) {
	c := Config{Discount: 0.8, Threshold: 1e-6}
	f := newFixture(t, 5, c)

	optimal := uniformStore(grid.ExactKeyer{})
	require.NoError(t, f.solver.IterateValues(optimal))
	require.Equal(t, f.solver.Sweeps(), f.solver.TotalSweeps())

	uniform := uniformStore(grid.ExactKeyer{})
	require.NoError(t, f.solver.Evaluate(uniform))

	iterated := uniformStore(grid.ExactKeyer{})
	require.NoError(t, f.solver.IteratePolicy(iterated))

	for _, s := range f.space.States(false) {
		require.GreaterOrEqual(t, optimal.Value(s), uniform.Value(s)-1e-3,
			"state %v", s)
		require.InDelta(t, optimal.Value(s), iterated.Value(s), 1e-3,
			"state %v", s)
	}

	t.Run("greedy policy is materialized", func(t *testing.T) {
		e, ok := optimal.Lookup(pair(0, 0, 1, 0))
		require.True(t, ok)
		require.Equal(t, 1.0, e.Probability(grid.Right))
	})
}

func TestConfig(t *testing.T) {
	t.Run("sweep limit", func(t *testing.T) {
		f := newFixture(t, 5, Config{Discount: 0.8, Threshold: 1e-9, MaxSweeps: 2})
		err := f.solver.Evaluate(uniformStore(grid.ExactKeyer{}))
		require.ErrorIs(t, err, ErrNotConverged)
		require.Equal(t, 2, f.solver.Sweeps())
	})

	t.Run("invalid configurations", func(t *testing.T) {
		for _, c := range []Config{
			{Discount: 0.8, Threshold: 0},
			{Discount: 0.8, Threshold: -1},
			{Discount: 1, Threshold: 1e-5},
			{Discount: 0.8, Threshold: 1e-5, MaxSweeps: -1},
		} {
			_, err := New(nil, nil, c)
			require.Error(t, err, "%+v", c)
		}
	})
}

func BenchmarkEvaluateReduced(b *testing.B) {
	f := newFixture(b, 11, scenario)
	for i := 0; i < b.N; i++ {
		p := uniformStore(grid.NewCanonicalKeyer(f.grid, predator))
		if err := f.solver.Evaluate(p); err != nil {
			b.Fatal(err)
		}
	}
}
