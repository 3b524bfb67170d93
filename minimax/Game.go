package minimax

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/samuelfneumann/pursuit/utils/floatutils"
)

// ErrInvalidStrategy is returned when the solved mixed strategy is not
// a probability distribution
var ErrInvalidStrategy = errors.New("invalid mixed strategy")

const (
	// StrategyTolerance is how far the probabilities of a solved
	// strategy may sum from 1
	StrategyTolerance = 1e-4

	simplexTolerance = 1e-10
)

// SolveGame computes the maximin mixed strategy of a zero-sum matrix
// game. Row o, column a of payoff is the value to the player of taking
// action a against opponent action o. SolveGame returns the strategy π
// maximizing v subject to v <= Σ_a payoff[o][a]·π(a) for every o, along
// with the game value v.
func SolveGame(payoff mat.Matrix) ([]float64, float64, error) {
	m, n := payoff.Dims()
	for o := 0; o < m; o++ {
		for a := 0; a < n; a++ {
			if v := payoff.At(o, a); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, 0, fmt.Errorf("solveGame: %w: payoff[%d][%d] is %v",
					ErrInvalidStrategy, o, a, v)
			}
		}
	}

	// Standard form over x = [π, v⁺, v⁻, slack]:
	//
	//	minimize   v⁻ - v⁺
	//	subject to v⁺ - v⁻ - Σ_a payoff[o][a]·π(a) + slack(o) = 0  for all o
	//	           Σ_a π(a) = 1
	//	           x >= 0
	vars := n + 2 + m
	c := make([]float64, vars)
	c[n] = -1
	c[n+1] = 1

	A := mat.NewDense(m+1, vars, nil)
	b := make([]float64, m+1)
	for o := 0; o < m; o++ {
		for a := 0; a < n; a++ {
			A.Set(o, a, -payoff.At(o, a))
		}
		A.Set(o, n, 1)
		A.Set(o, n+1, -1)
		A.Set(o, n+2+o, 1)
	}
	for a := 0; a < n; a++ {
		A.Set(m, a, 1)
	}
	b[m] = 1

	optF, x, err := lp.Simplex(c, A, b, simplexTolerance, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("solveGame: %w: %v", ErrInvalidStrategy, err)
	}
	if math.IsNaN(optF) || math.IsInf(optF, 0) {
		return nil, 0, fmt.Errorf("solveGame: %w: game value is %v",
			ErrInvalidStrategy, -optF)
	}

	strategy := make([]float64, n)
	for a := range strategy {
		strategy[a] = floatutils.Clip(x[a], 0, 1)
	}
	sum := floats.Sum(strategy)
	if math.Abs(sum-1) > StrategyTolerance {
		return nil, 0, fmt.Errorf("solveGame: %w: probabilities sum to %v",
			ErrInvalidStrategy, sum)
	}
	floats.Scale(1/sum, strategy)

	return strategy, -optF, nil
}
