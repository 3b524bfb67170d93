// Package pursuit implements the predator/prey pursuit game on a
// toroidal grid: its exact transition model and a simulator that
// samples from it.
//
// On every step the decision-making agent moves first. The remaining
// agents then move one after another in roster order, each drawing
// its action from its Mover in the state left by the agents before
// it. A predator moving onto a prey captures it, as does a prey moving
// onto a predator. An agent moving onto an agent of its own role
// bumps into it and stays where it is.
package pursuit

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
)

// Model is the exact transition model of the pursuit game
type Model struct {
	grid       grid.Grid
	agent      grid.AgentID
	agentIndex int
	roster     []grid.AgentID
	movers     []Mover // indexed by roster position, nil for the agent
	killReward float64
}

// NewModel returns the model of agent acting on grid g alongside the
// rest of roster. Every agent other than agent needs a Mover. The
// agent receives killReward for every prey captured during a step if
// it is a predator, and loses it if it is a prey.
func NewModel(g grid.Grid, agent grid.AgentID, roster []grid.AgentID,
	movers map[grid.AgentID]Mover, killReward float64) (*Model, error) {
	if len(roster) > grid.MaxAgents {
		return nil, fmt.Errorf("newModel: %d agents exceeds maximum of %d",
			len(roster), grid.MaxAgents)
	}

	m := &Model{
		grid:       g,
		agent:      agent,
		agentIndex: -1,
		roster:     make([]grid.AgentID, len(roster)),
		movers:     make([]Mover, len(roster)),
		killReward: killReward,
	}
	copy(m.roster, roster)

	seen := make(map[grid.AgentID]bool, len(roster))
	for i, id := range roster {
		if seen[id] {
			return nil, fmt.Errorf("newModel: duplicate agent %v", id)
		}
		seen[id] = true

		if id == agent {
			m.agentIndex = i
			continue
		}
		mover, ok := movers[id]
		if !ok || mover == nil {
			return nil, fmt.Errorf("newModel: no mover for agent %v", id)
		}
		m.movers[i] = mover
	}

	if m.agentIndex < 0 {
		return nil, fmt.Errorf("newModel: agent %v not in roster %v", agent,
			roster)
	}
	return m, nil
}

// Agent implements the environment.Model interface
func (m *Model) Agent() grid.AgentID {
	return m.agent
}

// Roster implements the environment.Model interface
func (m *Model) Roster() []grid.AgentID {
	r := make([]grid.AgentID, len(m.roster))
	copy(r, m.roster)
	return r
}

// Grid implements the environment.Model interface
func (m *Model) Grid() grid.Grid {
	return m.grid
}

// KillReward returns the reward for a single capture
func (m *Model) KillReward() float64 {
	return m.killReward
}

// Transitions implements the environment.Model interface. Once a step
// produces a terminal state, no further agents move. Terminal states
// are absorbing.
func (m *Model) Transitions(s grid.State, a grid.Action,
	buf []environment.Outcome) []environment.Outcome {
	if !a.Valid() {
		panic(fmt.Sprintf("transitions: invalid action %v", a))
	}

	var actions [grid.MaxAgents]grid.Action
	actions[m.agentIndex] = a

	if s.Terminal() {
		return append(buf, environment.Outcome{
			Next:        s,
			Probability: 1,
			Actions:     actions,
		})
	}
	if !s.Has(m.agent) {
		panic(fmt.Sprintf("transitions: agent %v not in state %v", m.agent, s))
	}

	next, captures := m.move(s, m.agent, a)
	return m.branch(buf, next, 0, 1, captures, actions)
}

// branch enumerates the moves of every agent from roster position turn
// onwards
func (m *Model) branch(buf []environment.Outcome, s grid.State, turn int,
	prob float64, captures int,
	actions [grid.MaxAgents]grid.Action) []environment.Outcome {
	for ; turn < len(m.roster) && !s.Terminal(); turn++ {
		id := m.roster[turn]
		if turn == m.agentIndex || !s.Has(id) {
			continue
		}

		dist := m.movers[turn].Distribution(m.grid, s, id)
		for _, a := range grid.Actions {
			if dist[a] <= 0 {
				continue
			}
			next, c := m.move(s, id, a)
			actions[turn] = a
			buf = m.branch(buf, next, turn+1, prob*dist[a], captures+c,
				actions)
		}
		return buf
	}

	return append(buf, environment.Outcome{
		Next:        s,
		Probability: prob,
		Reward:      m.reward(captures),
		Actions:     actions,
	})
}

// move moves agent id by action a, resolving collisions, and returns
// the resulting state along with the number of captures
func (m *Model) move(s grid.State, id grid.AgentID, a grid.Action) (grid.State,
	int) {
	from, _ := s.Location(id)
	to := m.grid.Move(from, a)
	if to == from {
		return s, 0
	}

	other, occupied := s.OccupantAt(to)
	switch {
	case !occupied:
		return s.Move(id, to), 0
	case other.ID.Role == id.Role:
		return s, 0
	case id.Role == grid.Predator:
		return s.Remove(other.ID).Move(id, to), 1
	default:
		return s.Remove(id), 1
	}
}

func (m *Model) reward(captures int) float64 {
	r := float64(captures) * m.killReward
	if m.agent.Role == grid.Prey {
		return -r
	}
	return r
}
