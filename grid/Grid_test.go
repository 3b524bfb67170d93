package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	predator = AgentID{Predator, 0}
	prey     = AgentID{Prey, 0}
)

func TestMove(t *testing.T) {
	g, err := NewGrid(11, 11)
	require.NoError(t, err)

	t.Run("wait is the identity", func(t *testing.T) {
		for i := 0; i < g.Cells(); i++ {
			l := g.At(i)
			require.Equal(t, l, g.Move(l, Wait))
		}
	})

	t.Run("right wraps at the east edge", func(t *testing.T) {
		require.Equal(t, Location{0, 5}, g.Move(Location{10, 5}, Right))
	})

	t.Run("every edge wraps", func(t *testing.T) {
		require.Equal(t, Location{10, 5}, g.Move(Location{0, 5}, Left))
		require.Equal(t, Location{3, 10}, g.Move(Location{3, 0}, Up))
		require.Equal(t, Location{3, 0}, g.Move(Location{3, 10}, Down))
	})

	t.Run("opposite actions cancel", func(t *testing.T) {
		l := Location{0, 0}
		require.Equal(t, l, g.Move(g.Move(l, Left), Right))
		require.Equal(t, l, g.Move(g.Move(l, Up), Down))
	})
}

func TestNewGrid(t *testing.T) {
	_, err := NewGrid(0, 5)
	require.Error(t, err)

	_, err = NewGrid(MaxSide+1, 5)
	require.Error(t, err)
}

func TestNewState(t *testing.T) {
	t.Run("sorts occupants by id", func(t *testing.T) {
		s, err := NewState(
			Occupant{prey, Location{5, 5}},
			Occupant{predator, Location{0, 0}},
		)
		require.NoError(t, err)
		require.Equal(t, predator, s.At(0).ID)
		require.Equal(t, prey, s.At(1).ID)
	})

	t.Run("rejects shared cells", func(t *testing.T) {
		_, err := NewState(
			Occupant{predator, Location{1, 1}},
			Occupant{prey, Location{1, 1}},
		)
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("rejects duplicate agents", func(t *testing.T) {
		_, err := NewState(
			Occupant{predator, Location{1, 1}},
			Occupant{predator, Location{2, 1}},
		)
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("remove keeps states comparable", func(t *testing.T) {
		s := MustState(
			Occupant{predator, Location{0, 0}},
			Occupant{prey, Location{5, 5}},
		)
		removed := s.Remove(prey)
		require.True(t, removed.Terminal())
		require.Equal(t, MustState(Occupant{predator, Location{0, 0}}), removed)
		require.False(t, s.Terminal())
	})
}

func TestCanonicalKeyer(t *testing.T) {
	g, err := NewGrid(7, 5)
	require.NoError(t, err)
	keyer := NewCanonicalKeyer(g, predator)

	second := AgentID{Predator, 1}
	base := []Occupant{
		{predator, Location{1, 2}},
		{second, Location{6, 4}},
		{prey, Location{3, 0}},
	}

	translate := func(by Location) State {
		moved := make([]Occupant, len(base))
		for i, o := range base {
			moved[i] = Occupant{o.ID, g.Translate(o.At, by)}
		}
		return MustState(moved...)
	}

	t.Run("invariant under every translation", func(t *testing.T) {
		want := keyer.Key(translate(Location{}))
		for dx := 0; dx < g.Width; dx++ {
			for dy := 0; dy < g.Height; dy++ {
				require.Equal(t, want, keyer.Key(translate(Location{dx, dy})))
			}
		}
	})

	t.Run("other predators are interchangeable", func(t *testing.T) {
		swapped := MustState(
			Occupant{predator, Location{1, 2}},
			Occupant{AgentID{Predator, 3}, Location{6, 4}},
			Occupant{prey, Location{3, 0}},
		)
		require.Equal(t, keyer.Key(translate(Location{})), keyer.Key(swapped))
	})

	t.Run("viewpoint is distinguished", func(t *testing.T) {
		swapped := MustState(
			Occupant{predator, Location{6, 4}},
			Occupant{second, Location{1, 2}},
			Occupant{prey, Location{3, 0}},
		)
		require.NotEqual(t, keyer.Key(translate(Location{})), keyer.Key(swapped))
		require.NotEqual(t, ExactKeyer{}.Key(translate(Location{})),
			ExactKeyer{}.Key(swapped))
	})

	t.Run("equivalence relation", func(t *testing.T) {
		space, err := NewSpace(g, predator, prey)
		require.NoError(t, err)
		states := space.States(true)

		// Keys are values, so equality is reflexive and symmetric. Check
		// transitivity through the classes: every member of a class
		// must be a translation of the class representative.
		classes := make(map[Key]State)
		for _, s := range states {
			k := keyer.Key(s)
			require.Equal(t, k, keyer.Key(s))
			rep, ok := classes[k]
			if !ok {
				classes[k] = s
				continue
			}
			require.True(t, translationOf(g, rep, s), "%v !~ %v", rep, s)
		}
		// One class per prey offset, plus the captured configuration
		require.Len(t, classes, g.Cells())
	})
}

// translationOf returns whether b is a with every agent shifted by one
// common vector
func translationOf(g Grid, a, b State) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	by := g.Offset(a.At(0).At, b.At(0).At)
	for i := 0; i < a.Len(); i++ {
		if a.At(i).ID.Role != b.At(i).ID.Role ||
			g.Translate(a.At(i).At, by) != b.At(i).At {
			return false
		}
	}
	return true
}

func TestSpace(t *testing.T) {
	g, err := NewGrid(11, 11)
	require.NoError(t, err)

	t.Run("one predator and one prey", func(t *testing.T) {
		space, err := NewSpace(g, predator, prey)
		require.NoError(t, err)
		require.Equal(t, 121*120, space.Len(false))
		require.Equal(t, 121*121, space.Len(true))

		for _, s := range space.States(false) {
			require.False(t, s.Terminal())
		}
	})

	t.Run("same role agents never share a cell", func(t *testing.T) {
		small, err := NewGrid(3, 3)
		require.NoError(t, err)
		space, err := NewSpace(small, predator, AgentID{Predator, 1}, prey)
		require.NoError(t, err)

		// 9*8 predator placements; the prey is on one of the 7 free
		// cells or captured by one of the two predators
		require.Equal(t, 9*8*7, space.Len(false))
		require.Equal(t, 9*8*7+9*8, space.Len(true))
	})

	t.Run("deterministic order", func(t *testing.T) {
		a, _ := NewSpace(g, predator, prey)
		b, _ := NewSpace(g, predator, prey)
		require.Equal(t, a.States(true), b.States(true))
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := NewSpace(g, predator, predator)
		require.Error(t, err)
	})
}
