// Package consumer provides reference consumer-savings blocks.
package consumer

import (
	"github.com/chewxy/math32"
	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"gonum.org/v1/gonum/blas/blas32"
)

const Agent = "consumer"

// NewSavingsBlock returns a' = a - c + θ with reward u = c. With θ = 0 and
// a linear reward the discounted sum can be checked by hand.
func NewSavingsBlock() *block.Block {
	return &block.Block{
		Name:   "savings",
		Shocks: map[string]block.Shock{"theta": block.Constant{Value: 0.0}},
		Steps: []block.Step{
			block.Control{Sym: "c", InfoSet: []string{"a"}, Agent: Agent},
			block.Dynamic{Sym: "u", Inputs: []string{"c"}, Rule: func(v env.Values) blas32.Vector {
				return vector.Clone(v["c"])
			}},
			block.Dynamic{Sym: "a", Inputs: []string{"a", "c", "theta"}, Rule: func(v env.Values) blas32.Vector {
				return vector.Add(vector.Sub(v["a"], v["c"]), v["theta"])
			}},
		},
		Reward: map[string]string{"u": Agent},
	}
}

type Config struct {
	// CRRA is the coefficient of relative risk aversion. 0 means 2.
	CRRA float32
	// IncomeMu and IncomeSigma parametrize log income.
	IncomeMu    float64
	IncomeSigma float64
}

func (c Config) withDefaults() Config {
	if c.CRRA == 0 {
		c.CRRA = 2.0
	}
	if c.IncomeSigma == 0 {
		c.IncomeSigma = 0.1
	}
	return c
}

// Params returns the default parameter environment: the gross return R.
func Params() env.Values {
	return env.FromScalars(map[string]float32{"R": 1.03})
}

// CRRA returns c^(1-ρ)/(1-ρ), or log c when ρ = 1.
func CRRA(rho float32) func(float32) float32 {
	if rho == 1.0 {
		return math32.Log
	}
	return func(c float32) float32 {
		return math32.Pow(c, 1-rho) / (1 - rho)
	}
}

// NewConsumptionBlock returns the consumption-savings problem
//
//	m = a·R + y,  c = s·m,  a' = m - c,  u = CRRA(c)
//
// where the agent chooses the share s ∈ (0, 1) of cash on hand and y is
// lognormal income. R is read from the parameters.
func NewConsumptionBlock(cfg Config) *block.Block {
	cfg = cfg.withDefaults()
	utility := CRRA(cfg.CRRA)
	return &block.Block{
		Name: "consumption",
		Shocks: map[string]block.Shock{
			"y": block.LogNormal{Mu: cfg.IncomeMu, Sigma: cfg.IncomeSigma},
		},
		Steps: []block.Step{
			block.Dynamic{Sym: "m", Inputs: []string{"a", "R", "y"}, Rule: func(v env.Values) blas32.Vector {
				return vector.Add(vector.Mul(v["a"], v["R"]), v["y"])
			}},
			block.Control{Sym: "s", InfoSet: []string{"m"}, Agent: Agent},
			block.Dynamic{Sym: "c", Inputs: []string{"s", "m"}, Rule: func(v env.Values) blas32.Vector {
				return vector.Mul(v["s"], v["m"])
			}},
			block.Dynamic{Sym: "u", Inputs: []string{"c"}, Rule: func(v env.Values) blas32.Vector {
				return vector.Map(v["c"], utility)
			}},
			block.Dynamic{Sym: "a", Inputs: []string{"m", "c"}, Rule: func(v env.Values) blas32.Vector {
				return vector.Sub(v["m"], v["c"])
			}},
		},
		Reward: map[string]string{"u": Agent},
	}
}
