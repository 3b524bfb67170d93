package grid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// MaxAgents is the largest number of agents a State can hold
	MaxAgents = 8

	// MaxSlot is the largest slot an AgentID may use
	MaxSlot = 31
)

// ErrInvalidState is returned when a joint configuration of agents
// breaks the rules of the grid
var ErrInvalidState = errors.New("invalid state")

// Role separates predators from prey
type Role uint8

const (
	Predator Role = iota + 1
	Prey
)

func (r Role) String() string {
	switch r {
	case Predator:
		return "predator"
	case Prey:
		return "prey"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// AgentID identifies an agent by its role and its slot within that
// role, so that agents never depend on object identity.
type AgentID struct {
	Role Role
	Slot uint8
}

func (id AgentID) String() string {
	return fmt.Sprintf("%v-%d", id.Role, id.Slot)
}

func (id AgentID) less(other AgentID) bool {
	if id.Role != other.Role {
		return id.Role < other.Role
	}
	return id.Slot < other.Slot
}

// Occupant is an agent placed at a location
type Occupant struct {
	ID AgentID
	At Location
}

// State is the joint location of every live agent. A State is a
// comparable value and may be used directly as a map key. Occupants
// are kept sorted by AgentID.
type State struct {
	n         uint8
	occupants [MaxAgents]Occupant
}

// NewState returns a State holding the given occupants. No two
// occupants may share an ID or a location.
func NewState(occupants ...Occupant) (State, error) {
	if len(occupants) > MaxAgents {
		return State{}, fmt.Errorf("newState: %w: %d agents exceeds "+
			"maximum of %d", ErrInvalidState, len(occupants), MaxAgents)
	}

	var s State
	s.n = uint8(copy(s.occupants[:], occupants))
	live := s.occupants[:s.n]
	sort.Slice(live, func(i, j int) bool {
		return live[i].ID.less(live[j].ID)
	})

	for i := range live {
		if live[i].ID.Role != Predator && live[i].ID.Role != Prey {
			return State{}, fmt.Errorf("newState: %w: unknown role %v",
				ErrInvalidState, live[i].ID.Role)
		}
		if live[i].ID.Slot > MaxSlot {
			return State{}, fmt.Errorf("newState: %w: slot %d exceeds %d",
				ErrInvalidState, live[i].ID.Slot, MaxSlot)
		}
		for j := i + 1; j < len(live); j++ {
			if live[i].ID == live[j].ID {
				return State{}, fmt.Errorf("newState: %w: duplicate agent %v",
					ErrInvalidState, live[i].ID)
			}
			if live[i].At == live[j].At {
				return State{}, fmt.Errorf("newState: %w: %v and %v share %v",
					ErrInvalidState, live[i].ID, live[j].ID, live[i].At)
			}
		}
	}
	return s, nil
}

// MustState is like NewState but panics on an invalid configuration
func MustState(occupants ...Occupant) State {
	s, err := NewState(occupants...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of live agents
func (s State) Len() int {
	return int(s.n)
}

// At returns the i-th occupant in AgentID order
func (s State) At(i int) Occupant {
	if i < 0 || i >= int(s.n) {
		panic(fmt.Sprintf("at: index %d out of range [0, %d)", i, s.n))
	}
	return s.occupants[i]
}

// Occupants returns a copy of the live occupants
func (s State) Occupants() []Occupant {
	out := make([]Occupant, s.n)
	copy(out, s.occupants[:s.n])
	return out
}

// Location returns the location of agent id, if it is alive
func (s State) Location(id AgentID) (Location, bool) {
	if i := s.index(id); i >= 0 {
		return s.occupants[i].At, true
	}
	return Location{}, false
}

// Has returns whether agent id is alive in the state
func (s State) Has(id AgentID) bool {
	return s.index(id) >= 0
}

// OccupantAt returns the agent at location l, if any
func (s State) OccupantAt(l Location) (Occupant, bool) {
	for _, o := range s.occupants[:s.n] {
		if o.At == l {
			return o, true
		}
	}
	return Occupant{}, false
}

// Occupied returns whether any agent is at l
func (s State) Occupied(l Location) bool {
	_, ok := s.OccupantAt(l)
	return ok
}

// Count returns the number of live agents with role r
func (s State) Count(r Role) int {
	count := 0
	for _, o := range s.occupants[:s.n] {
		if o.ID.Role == r {
			count++
		}
	}
	return count
}

// Terminal returns whether every prey has been captured
func (s State) Terminal() bool {
	return s.Count(Prey) == 0
}

// Move returns a copy of s with agent id placed at l. Move does not
// check for collisions; callers resolve captures first.
func (s State) Move(id AgentID, l Location) State {
	i := s.index(id)
	if i < 0 {
		panic(fmt.Sprintf("move: agent %v not in state %v", id, s))
	}
	s.occupants[i].At = l
	return s
}

// Remove returns a copy of s without agent id
func (s State) Remove(id AgentID) State {
	i := s.index(id)
	if i < 0 {
		panic(fmt.Sprintf("remove: agent %v not in state %v", id, s))
	}
	copy(s.occupants[i:s.n], s.occupants[i+1:s.n])
	s.n--
	s.occupants[s.n] = Occupant{}
	return s
}

func (s State) index(id AgentID) int {
	for i, o := range s.occupants[:s.n] {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s State) String() string {
	var b strings.Builder
	b.WriteString("State{")
	for i, o := range s.occupants[:s.n] {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v@%v", o.ID, o.At)
	}
	b.WriteString("}")
	return b.String()
}
