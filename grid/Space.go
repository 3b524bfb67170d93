package grid

import "fmt"

// Space enumerates every joint state that a fixed roster of agents can
// occupy on a grid. A prey that shares a cell with a predator has been
// captured and is removed from the state; configurations placing two
// agents of the same role on one cell are not valid states.
type Space struct {
	grid   Grid
	roster []AgentID

	nonTerminal []State
	inclusive   []State
}

// NewSpace returns the state space of roster on grid g
func NewSpace(g Grid, roster ...AgentID) (*Space, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("newSpace: empty roster")
	}
	if len(roster) > MaxAgents {
		return nil, fmt.Errorf("newSpace: %d agents exceeds maximum of %d",
			len(roster), MaxAgents)
	}

	seen := make(map[AgentID]bool, len(roster))
	for _, id := range roster {
		if seen[id] {
			return nil, fmt.Errorf("newSpace: duplicate agent %v", id)
		}
		seen[id] = true
	}

	r := make([]AgentID, len(roster))
	copy(r, roster)
	return &Space{grid: g, roster: r}, nil
}

// Grid returns the grid of the space
func (sp *Space) Grid() Grid {
	return sp.grid
}

// Roster returns the agents of the space in construction order
func (sp *Space) Roster() []AgentID {
	r := make([]AgentID, len(sp.roster))
	copy(r, sp.roster)
	return r
}

// States returns every state in the space, optionally including
// terminal states. The order is deterministic and the result is
// computed once; callers must not modify the returned slice.
func (sp *Space) States(includeTerminal bool) []State {
	if sp.inclusive == nil {
		sp.enumerate()
	}
	if includeTerminal {
		return sp.inclusive
	}
	return sp.nonTerminal
}

// Len returns the number of states in the space
func (sp *Space) Len(includeTerminal bool) int {
	return len(sp.States(includeTerminal))
}

func (sp *Space) enumerate() {
	cells := sp.grid.Cells()
	index := make([]int, len(sp.roster))
	seen := make(map[State]bool)
	sp.inclusive = []State{}
	sp.nonTerminal = []State{}

	for {
		if s, ok := sp.configuration(index); ok && !seen[s] {
			seen[s] = true
			sp.inclusive = append(sp.inclusive, s)
			if !s.Terminal() {
				sp.nonTerminal = append(sp.nonTerminal, s)
			}
		}

		// Advance the odometer over cell indices
		i := len(index) - 1
		for ; i >= 0; i-- {
			index[i]++
			if index[i] < cells {
				break
			}
			index[i] = 0
		}
		if i < 0 {
			return
		}
	}
}

// configuration resolves one placement of the roster into a State
func (sp *Space) configuration(index []int) (State, bool) {
	var occupants [MaxAgents]Occupant
	n := 0

	for i, id := range sp.roster {
		at := sp.grid.At(index[i])
		captured := false
		for j, other := range sp.roster {
			if j == i || index[j] != index[i] {
				continue
			}
			if other.Role == id.Role {
				return State{}, false
			}
			if id.Role == Prey {
				captured = true
			}
		}
		if !captured {
			occupants[n] = Occupant{id, at}
			n++
		}
	}

	s, err := NewState(occupants[:n]...)
	if err != nil {
		panic(fmt.Sprintf("configuration: %v", err))
	}
	return s, true
}
