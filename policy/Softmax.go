package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/pursuit/grid"
)

// Softmax acts greedily with probability 1-ε and otherwise samples
// actions in proportion to exp(Q(s, a) / T)
type Softmax struct {
	store       *Store
	epsilon     float64
	temperature float64
	source      rand.Source
	rng         *rand.Rand
}

// NewSoftmax returns a new Softmax selector over p
func NewSoftmax(p *Store, ε, temperature float64, seed uint64) (*Softmax,
	error) {
	if ε < 0 || ε > 1 {
		return nil, fmt.Errorf("newSoftmax: epsilon must be in [0, 1], "+
			"got %v", ε)
	}
	if temperature <= 0 {
		return nil, fmt.Errorf("newSoftmax: %w: %v", ErrTemperature,
			temperature)
	}

	source := rand.NewSource(seed)
	return &Softmax{
		store:       p,
		epsilon:     ε,
		temperature: temperature,
		source:      source,
		rng:         rand.New(source),
	}, nil
}

// SelectAction selects an action in state s
func (sm *Softmax) SelectAction(s grid.State) (grid.Action, error) {
	values := sm.store.Entry(s).ActionValues()
	if sm.rng.Float64() >= sm.epsilon {
		return EGreedyAction(values, 0, sm.rng), nil
	}

	weights, err := Boltzmann(values, sm.temperature)
	if err != nil {
		return grid.Wait, fmt.Errorf("selectAction: %w", err)
	}

	dist := distuv.NewCategorical(weights[:], sm.source)
	return grid.Actions[int(dist.Rand())], nil
}

// Boltzmann returns exp(values / T) for every action. An error is
// returned if the weights overflow or vanish at temperature T.
func Boltzmann(values [grid.NumActions]float64,
	temperature float64) ([grid.NumActions]float64, error) {
	var weights [grid.NumActions]float64
	if temperature <= 0 {
		return weights, fmt.Errorf("boltzmann: %w: %v", ErrTemperature,
			temperature)
	}

	for i, v := range values {
		weights[i] = math.Exp(v / temperature)
	}

	total := floats.Sum(weights[:])
	if math.IsInf(total, 0) || math.IsNaN(total) || total == 0 {
		return weights, fmt.Errorf("boltzmann: %w: exp(Q/%v) sums to %v",
			ErrTemperature, temperature, total)
	}
	return weights, nil
}
