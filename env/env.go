// Package env holds named value environments: symbol → value maps used
// uniformly for states, shocks, controls and parameters.
//
// A value is a blas32.Vector. Length 1 means a scalar (or one agent),
// length n means one entry per agent of a panel.
package env

import (
	"fmt"
	"maps"
	"slices"

	"github.com/sw965/skagent/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
)

type Values map[string]blas32.Vector

// Merge combines layers into a new environment. On conflict the later
// layer wins.
func Merge(layers ...Values) Values {
	merged := Values{}
	for _, layer := range layers {
		maps.Copy(merged, layer)
	}
	return merged
}

// MergeEnv merges in the fixed precedence order
// parameters < states < shocks < controls.
func MergeEnv(parameters, states, shocks, controls Values) Values {
	return Merge(parameters, states, shocks, controls)
}

func FromScalars(xs map[string]float32) Values {
	v := make(Values, len(xs))
	for sym, x := range xs {
		v[sym] = vector.NewScalar(x)
	}
	return v
}

// Select returns the values of syms. A missing symbol is an error.
func (v Values) Select(syms []string) (Values, error) {
	selected := make(Values, len(syms))
	for _, sym := range syms {
		val, ok := v[sym]
		if !ok {
			return nil, fmt.Errorf("env: symbol %q not found (have %v)", sym, v.Syms())
		}
		selected[sym] = val
	}
	return selected, nil
}

func (v Values) Clone() Values {
	c := make(Values, len(v))
	for sym, val := range v {
		c[sym] = vector.Clone(val)
	}
	return c
}

// Syms returns the symbols in sorted order.
func (v Values) Syms() []string {
	return slices.Sorted(maps.Keys(v))
}

// Len is the common broadcast length of all values, 1 for an empty
// environment.
func (v Values) Len() int {
	vs := make([]blas32.Vector, 0, len(v))
	for _, sym := range v.Syms() {
		vs = append(vs, v[sym])
	}
	return vector.BroadcastLen(vs...)
}

func (v Values) Has(sym string) bool {
	_, ok := v[sym]
	return ok
}
