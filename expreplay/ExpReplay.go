// Package expreplay implements experience replay buffers of tabular
// transitions. Once a buffer is full, every added transition replaces
// the oldest one.
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/pursuit/agent/tabular"
)

// Config implements a specific configuration of an ExperienceReplayer.
// Replay is disabled when MaxCapacity is 0.
type Config struct {
	SampleMethod SelectorType `json:"sample_method"`
	SampleSize   int          `json:"sample_size"`
	MinCapacity  int          `json:"min_capacity"`
	MaxCapacity  int          `json:"max_capacity"`
}

// Enabled returns whether the Config describes a buffer at all
func (c Config) Enabled() bool {
	return c.MaxCapacity > 0
}

// Validate checks that the Config is valid
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if _, err := c.selector(0); err != nil {
		return err
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("sample size must be positive")
	}
	if c.MinCapacity < 0 || c.MinCapacity > c.MaxCapacity {
		return fmt.Errorf("minimum capacity must be in [0, %d]",
			c.MaxCapacity)
	}
	return nil
}

// Create creates and returns the ExperienceReplayer with the specified
// Config.
func (c Config) Create(seed uint64) (*ExperienceReplayer, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	sampler, err := c.selector(seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return New(sampler, c.MinCapacity, c.MaxCapacity)
}

func (c Config) selector(seed uint64) (Selector, error) {
	switch c.SampleMethod {
	case Uniform:
		return NewUniformSelector(c.SampleSize, seed), nil
	case Recent:
		return NewRecentSelector(c.SampleSize), nil
	}
	return nil, fmt.Errorf("unknown sample method %q", c.SampleMethod)
}

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer struct {
	transitions []tabular.Transition
	next        int // index the next transition is written to
	sampler     Selector
	minCapacity int
}

// New creates and returns a new ExperienceReplayer. The sampler
// determines how data is sampled from the buffer. Sampling is only
// allowed once minCapacity transitions are in the buffer, and at most
// maxCapacity transitions are kept.
func New(sampler Selector, minCapacity, maxCapacity int) (*ExperienceReplayer,
	error) {
	if maxCapacity <= 0 {
		return nil, fmt.Errorf("new: maximum capacity must be positive")
	}
	if minCapacity < 0 || minCapacity > maxCapacity {
		return nil, fmt.Errorf("new: minimum capacity %d not in [0, %d]",
			minCapacity, maxCapacity)
	}

	return &ExperienceReplayer{
		transitions: make([]tabular.Transition, 0, maxCapacity),
		sampler:     sampler,
		minCapacity: minCapacity,
	}, nil
}

// Add adds a transition to the buffer, replacing the oldest transition
// if the buffer is full
func (e *ExperienceReplayer) Add(t tabular.Transition) {
	if len(e.transitions) < cap(e.transitions) {
		e.transitions = append(e.transitions, t)
	} else {
		e.transitions[e.next] = t
	}
	e.next = (e.next + 1) % cap(e.transitions)
}

// Sample samples a batch of transitions from the buffer
func (e *ExperienceReplayer) Sample() ([]tabular.Transition, error) {
	if e.Capacity() == 0 {
		return nil, &ExpReplayError{Op: "sample", Err: errEmptyCache}
	}
	if e.Capacity() < e.MinCapacity() {
		return nil, &ExpReplayError{Op: "sample", Err: errInsufficientSamples}
	}

	indices := e.sampler.choose(e)
	batch := make([]tabular.Transition, len(indices))
	for i, index := range indices {
		batch[i] = e.transitions[index]
	}
	return batch, nil
}

// Capacity returns the current number of samples in the buffer
func (e *ExperienceReplayer) Capacity() int {
	return len(e.transitions)
}

// MaxCapacity returns the maximum allowable samples in the buffer
func (e *ExperienceReplayer) MaxCapacity() int {
	return cap(e.transitions)
}

// MinCapacity returns the number of samples required to be in the
// buffer before the buffer can be sampled
func (e *ExperienceReplayer) MinCapacity() int {
	return e.minCapacity
}

// BatchSize returns the largest number of samples returned by Sample
func (e *ExperienceReplayer) BatchSize() int {
	return e.sampler.BatchSize()
}

// newest returns the indices of at most n transitions, most recently
// added first
func (e *ExperienceReplayer) newest(n int) []int {
	if n > e.Capacity() {
		n = e.Capacity()
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = (e.next - 1 - i + e.MaxCapacity()) % e.MaxCapacity()
	}
	return indices
}

func (e *ExperienceReplayer) String() string {
	return fmt.Sprintf("ExperienceReplayer | capacity: %d/%d  |  batch: %d",
		e.Capacity(), e.MaxCapacity(), e.BatchSize())
}
