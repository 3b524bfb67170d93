package grid

import "sort"

// Key is a comparable digest of a State produced by a Keyer. Two
// states are treated as the same state whenever their keys are equal.
type Key struct {
	n     uint8
	cells [MaxAgents]uint32
}

// Keyer maps states to keys
type Keyer interface {
	Key(State) Key
}

// Bit layout of a packed cell, most significant bits first:
// self (1) | role (2) | slot (5) | x (12) | y (12)
const (
	selfShift = 31
	roleShift = 29
	slotShift = 24
	xShift    = 12
	coordMask = MaxSide - 1
)

func pack(self bool, id AgentID, withSlot bool, l Location) uint32 {
	cell := uint32(id.Role)<<roleShift |
		uint32(l.X&coordMask)<<xShift |
		uint32(l.Y&coordMask)
	if withSlot {
		cell |= uint32(id.Slot) << slotShift
	}
	if self {
		cell |= 1 << selfShift
	}
	return cell
}

// ExactKeyer keys a state by the (role, slot, location) of each agent,
// so physically distinct agents in the same configuration produce
// distinct keys.
type ExactKeyer struct{}

// Key implements the Keyer interface
func (ExactKeyer) Key(s State) Key {
	k := Key{n: s.n}
	for i, o := range s.occupants[:s.n] {
		k.cells[i] = pack(false, o.ID, true, o.At)
	}
	return k
}

// CanonicalKeyer keys a state up to toroidal translation and up to a
// permutation of the agents other than Viewpoint. Every occupant is
// tried as the origin of the translated configuration, and the
// lexicographically smallest packing is kept, so any translation of a
// state on the torus produces the same key.
//
// Keys from different viewpoints must never be compared with each
// other.
type CanonicalKeyer struct {
	Grid      Grid
	Viewpoint AgentID
}

// NewCanonicalKeyer returns a new CanonicalKeyer for the agent
// viewpoint on grid g
func NewCanonicalKeyer(g Grid, viewpoint AgentID) CanonicalKeyer {
	return CanonicalKeyer{g, viewpoint}
}

// Key implements the Keyer interface
func (c CanonicalKeyer) Key(s State) Key {
	best := Key{n: s.n}
	var candidate [MaxAgents]uint32
	for a := 0; a < int(s.n); a++ {
		anchor := s.occupants[a].At
		for i, o := range s.occupants[:s.n] {
			at := c.Grid.Offset(anchor, o.At)
			candidate[i] = pack(o.ID == c.Viewpoint, o.ID, false, at)
		}
		cells := candidate[:s.n]
		sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })

		if a == 0 || lessCells(cells, best.cells[:s.n]) {
			copy(best.cells[:], cells)
		}
	}
	return best
}

func lessCells(a, b []uint32) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
