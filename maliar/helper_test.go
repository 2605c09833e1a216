package maliar_test

import (
	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"github.com/sw965/skagent/maliar"
	"gonum.org/v1/gonum/blas/blas32"
)

// newSavings は a' = a - c + θ、報酬 u = c のブロック。
func newSavings() *block.Block {
	return &block.Block{
		Name:   "savings",
		Shocks: map[string]block.Shock{"theta": block.Constant{Value: 0.0}},
		Steps: []block.Step{
			block.Control{Sym: "c", InfoSet: []string{"a"}, Agent: "consumer"},
			block.Dynamic{Sym: "u", Inputs: []string{"c"}, Rule: func(v env.Values) blas32.Vector {
				return v["c"]
			}},
			block.Dynamic{Sym: "a", Inputs: []string{"a", "c", "theta"}, Rule: func(v env.Values) blas32.Vector {
				return vector.Add(vector.Sub(v["a"], v["c"]), v["theta"])
			}},
		},
		Reward: map[string]string{"u": "consumer"},
	}
}

func fraction(f float32) maliar.ClosedForm {
	return maliar.ClosedForm{"c": func(v env.Values) blas32.Vector {
		return vector.Scale(f, v["a"])
	}}
}

func constant(c float32) maliar.ClosedForm {
	return maliar.ClosedForm{"c": func(v env.Values) blas32.Vector {
		return vector.Broadcast(vector.NewScalar(c), v["a"].N)
	}}
}

func zeroShocks(bigT int) maliar.ShockSchedule {
	seq := make([]blas32.Vector, bigT)
	for t := range seq {
		seq[t] = vector.NewScalar(0.0)
	}
	return maliar.ShockSchedule{"theta": seq}
}
