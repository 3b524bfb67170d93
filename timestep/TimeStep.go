// Package timestep implements timesteps of the agent-environment
// interaction
package timestep

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/grid"
)

// StepType denotes the type of step that a TimeStep can be, either
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes why an episode ended
type EndType int

const (
	// Running episodes have not ended
	Running EndType = iota

	// TerminalStateReached episodes ended in a terminal state
	TerminalStateReached

	// Timeout episodes were cut off before reaching a terminal state
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Running"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	stepType StepType
	endType  EndType
	Reward   float64
	Discount float64
	State    grid.State
	Number   int
}

// New returns a new TimeStep
func New(t StepType, r, d float64, s grid.State, n int) TimeStep {
	return TimeStep{stepType: t, Reward: r, Discount: d, State: s, Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.stepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.stepType == Last
}

// SetEnd makes the TimeStep the last of its episode, ending for the
// given reason
func (t *TimeStep) SetEnd(e EndType) {
	t.stepType = Last
	t.endType = e
}

// EndType returns why the episode ended on this TimeStep
func (t *TimeStep) EndType() EndType {
	return t.endType
}

// TimedOut returns whether the episode was cut off on this TimeStep
// rather than reaching a terminal state. The value of the state of a
// timed out step should still be bootstrapped.
func (t *TimeStep) TimedOut() bool {
	return t.endType == Timeout
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  State: %v"

	return fmt.Sprintf(str, t.stepType, t.Reward, t.Discount, t.Number, t.State)
}
