package grid

import "fmt"

// Action is a move an agent can make on the grid
type Action uint8

const (
	Wait Action = iota
	Up
	Down
	Left
	Right
)

// NumActions is the number of actions available to every agent
const NumActions = 5

// Actions lists every action in the fixed order used whenever actions
// are iterated over
var Actions = [NumActions]Action{Wait, Up, Down, Left, Right}

var deltas = [NumActions][2]int{
	Wait:  {0, 0},
	Up:    {0, -1},
	Down:  {0, 1},
	Left:  {-1, 0},
	Right: {1, 0},
}

// Delta returns the coordinate change of the action
func (a Action) Delta() (dx, dy int) {
	if !a.Valid() {
		panic(fmt.Sprintf("delta: invalid action %d", a))
	}
	d := deltas[a]
	return d[0], d[1]
}

// Valid returns whether a is one of the defined actions
func (a Action) Valid() bool {
	return a < NumActions
}

func (a Action) String() string {
	switch a {
	case Wait:
		return "Wait"
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}
