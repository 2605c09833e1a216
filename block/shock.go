package block

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/env"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/stat/distuv"
)

// Shock is the distribution of a shock variable.
type Shock interface {
	// Draw returns n independent realizations.
	Draw(n int, rng *rand.Rand) (blas32.Vector, error)
}

type rander interface {
	Rand() float64
}

func drawFrom(d rander, n int) blas32.Vector {
	vec := vector.NewZeros(n)
	for i := range vec.Data {
		vec.Data[i] = float32(d.Rand())
	}
	return vec
}

type Normal struct {
	Mu    float64
	Sigma float64
}

func (s Normal) Draw(n int, rng *rand.Rand) (blas32.Vector, error) {
	if s.Sigma < 0 {
		return blas32.Vector{}, fmt.Errorf("normal shock: sigma >= 0 should hold: sigma = %v", s.Sigma)
	}
	return drawFrom(distuv.Normal{Mu: s.Mu, Sigma: s.Sigma, Src: rng}, n), nil
}

type LogNormal struct {
	Mu    float64
	Sigma float64
}

func (s LogNormal) Draw(n int, rng *rand.Rand) (blas32.Vector, error) {
	if s.Sigma < 0 {
		return blas32.Vector{}, fmt.Errorf("lognormal shock: sigma >= 0 should hold: sigma = %v", s.Sigma)
	}
	return drawFrom(distuv.LogNormal{Mu: s.Mu, Sigma: s.Sigma, Src: rng}, n), nil
}

type Bernoulli struct {
	P float64
}

func (s Bernoulli) Draw(n int, rng *rand.Rand) (blas32.Vector, error) {
	if s.P < 0 || s.P > 1 {
		return blas32.Vector{}, fmt.Errorf("bernoulli shock: 0 <= p <= 1 should hold: p = %v", s.P)
	}
	return drawFrom(distuv.Bernoulli{P: s.P, Src: rng}, n), nil
}

type Uniform struct {
	Min float64
	Max float64
}

func (s Uniform) Draw(n int, rng *rand.Rand) (blas32.Vector, error) {
	if s.Min >= s.Max {
		return blas32.Vector{}, fmt.Errorf("uniform shock: min < max should hold: min = %v, max = %v", s.Min, s.Max)
	}
	return drawFrom(distuv.Uniform{Min: s.Min, Max: s.Max, Src: rng}, n), nil
}

// Constant は退化分布。
type Constant struct {
	Value float32
}

func (s Constant) Draw(n int, _ *rand.Rand) (blas32.Vector, error) {
	vec := vector.NewZeros(n)
	for i := range vec.Data {
		vec.Data[i] = s.Value
	}
	return vec, nil
}

// Discretized stands for structured draws from an exact discretization of
// Base. How the grid should be placed into a simulated panel is open, so
// drawing fails.
type Discretized struct {
	Base   Shock
	Points int
}

func (s Discretized) Draw(int, *rand.Rand) (blas32.Vector, error) {
	return blas32.Vector{}, fmt.Errorf("discretized shock with %d points: structured draws: %w", s.Points, errors.ErrUnsupported)
}

// DrawShocks draws n realizations of every shock. Symbols are visited in
// sorted order so a seeded rng fixes the result.
func DrawShocks(shocks map[string]Shock, n int, rng *rand.Rand) (env.Values, error) {
	if n < 1 {
		return nil, fmt.Errorf("draw shocks: n >= 1 should hold: n = %d", n)
	}
	draws := make(env.Values, len(shocks))
	for _, sym := range (&Block{Shocks: shocks}).ShockSyms() {
		vec, err := shocks[sym].Draw(n, rng)
		if err != nil {
			return nil, fmt.Errorf("draw shock %q: %w", sym, err)
		}
		draws[sym] = vec
	}
	return draws, nil
}
