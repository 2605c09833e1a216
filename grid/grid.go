// Package grid holds batches of named input columns ("givens") and the
// samplers that fill them.
package grid

import (
	"fmt"
	"slices"

	"github.com/sw965/skagent/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
)

// Grid is an ordered set of named columns with one row per sample.
type Grid struct {
	Syms   []string
	Values []blas32.Vector
}

// New checks that syms and values line up and that every column has the
// same number of rows. Length-1 columns are broadcast.
func New(syms []string, values []blas32.Vector) (Grid, error) {
	if len(syms) != len(values) {
		return Grid{}, fmt.Errorf("grid: len(syms) == len(values) should hold: %d != %d", len(syms), len(values))
	}
	for i, sym := range syms {
		if slices.Contains(syms[:i], sym) {
			return Grid{}, fmt.Errorf("grid: duplicate symbol %q", sym)
		}
	}
	n := 1
	for i, v := range values {
		switch {
		case v.N == 1 || v.N == n:
		case n == 1:
			n = v.N
		default:
			return Grid{}, fmt.Errorf("grid: column %q has %d rows, want %d", syms[i], v.N, n)
		}
	}
	cols := make([]blas32.Vector, len(values))
	for i, v := range values {
		cols[i] = vector.Broadcast(v, n)
	}
	return Grid{Syms: slices.Clone(syms), Values: cols}, nil
}

// Len is the number of rows.
func (g Grid) Len() int {
	if len(g.Values) == 0 {
		return 0
	}
	return g.Values[0].N
}

func (g Grid) Width() int {
	return len(g.Syms)
}

func (g Grid) Get(sym string) (blas32.Vector, bool) {
	idx := slices.Index(g.Syms, sym)
	if idx < 0 {
		return blas32.Vector{}, false
	}
	return g.Values[idx], true
}
