package pursuit

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/pursuit/environment"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/timestep"
)

// Pursuit simulates the pursuit game by sampling the outcomes of its
// Model. Episodes end once every prey is captured or, if maxSteps is
// positive, after maxSteps steps.
type Pursuit struct {
	environment.Starter
	model    *Model
	enders   []environment.Ender
	discount float64
	source   rand.Source

	currentStep timestep.TimeStep
	lastActions [grid.MaxAgents]grid.Action
	outcomes    []environment.Outcome
}

// New creates a new Pursuit environment and returns it along with the
// first step of the first episode
func New(m *Model, s environment.Starter, maxSteps int, discount float64,
	seed uint64) (*Pursuit, timestep.TimeStep, error) {
	if discount < 0 || discount > 1 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: discount must be "+
			"in [0, 1], got %v", discount)
	}

	p := &Pursuit{
		Starter:  s,
		model:    m,
		discount: discount,
		source:   rand.NewSource(seed),
		enders: []environment.Ender{
			environment.NewCaptureEnder(),
			environment.NewStepLimit(maxSteps),
		},
	}
	return p, p.Reset(), nil
}

// Reset starts a new episode
func (p *Pursuit) Reset() timestep.TimeStep {
	start := p.Start()
	for _, id := range p.model.roster {
		if !start.Has(id) {
			panic(fmt.Sprintf("reset: start state %v is missing agent %v",
				start, id))
		}
	}

	p.lastActions = [grid.MaxAgents]grid.Action{}
	p.currentStep = timestep.New(timestep.First, 0, p.discount, start, 0)
	return p.currentStep
}

// Step takes action a for the model's agent and moves every other
// agent, returning the next step and whether the episode has ended
func (p *Pursuit) Step(a grid.Action) (timestep.TimeStep, bool, error) {
	if p.currentStep.Last() {
		return p.currentStep, true, fmt.Errorf("step: episode has ended")
	}
	if !a.Valid() {
		return p.currentStep, false, fmt.Errorf("step: invalid action %v", a)
	}

	p.outcomes = p.model.Transitions(p.currentStep.State, a, p.outcomes[:0])
	weights := make([]float64, len(p.outcomes))
	for i, o := range p.outcomes {
		weights[i] = o.Probability
	}
	outcome := p.outcomes[int(distuv.NewCategorical(weights, p.source).Rand())]

	p.lastActions = outcome.Actions
	step := timestep.New(timestep.Mid, outcome.Reward, p.discount,
		outcome.Next, p.currentStep.Number+1)
	for _, ender := range p.enders {
		if ender.End(&step) {
			break
		}
	}

	p.currentStep = step
	return step, step.Last(), nil
}

// LastAction returns the action agent id took on the last step
func (p *Pursuit) LastAction(id grid.AgentID) grid.Action {
	for i, other := range p.model.roster {
		if other == id {
			return p.lastActions[i]
		}
	}
	panic(fmt.Sprintf("lastAction: agent %v not in roster", id))
}

// LastTimeStep returns the most recent step of the environment
func (p *Pursuit) LastTimeStep() timestep.TimeStep {
	return p.currentStep
}

// Agent returns the agent that actions passed to Step belong to
func (p *Pursuit) Agent() grid.AgentID {
	return p.model.agent
}

// Discount returns the discount factor of the environment
func (p *Pursuit) Discount() float64 {
	return p.discount
}

// Model returns the exact model the environment samples from
func (p *Pursuit) Model() environment.Model {
	return p.model
}

// Grid returns the grid the agents move on
func (p *Pursuit) Grid() grid.Grid {
	return p.model.grid
}

func (p *Pursuit) String() string {
	return fmt.Sprintf("Pursuit | %v  |  Agent: %v  |  %v", p.model.grid,
		p.model.agent, p.currentStep.State)
}
