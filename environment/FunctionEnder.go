package environment

import (
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Ender determines whether an episode should end on a timestep
type Ender interface {
	End(t *timestep.TimeStep) bool
}

// FunctionEnder ends an episode whenever a function of the state
// returns true.
type FunctionEnder struct {
	end     func(grid.State) bool
	endType timestep.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(grid.State) bool, endType timestep.EndType) Ender {
	return &FunctionEnder{f, endType}
}

// NewCaptureEnder returns an Ender that ends episodes once every prey
// has been captured
func NewCaptureEnder() Ender {
	return NewFunctionEnder(grid.State.Terminal, timestep.TerminalStateReached)
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End() will modify the timestep so that it is the
// last step and its EndType is the appropriate ending type.
func (f *FunctionEnder) End(t *timestep.TimeStep) bool {
	if f.end(t.State) {
		t.SetEnd(f.endType)
		return true
	}
	return false
}
