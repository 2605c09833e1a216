package vector

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/chewxy/math32"
	"github.com/sw965/skagent/mathx/randx"
	"gonum.org/v1/gonum/blas/blas32"
)

func NewZeros(n int) blas32.Vector {
	return blas32.Vector{
		N:    n,
		Inc:  1,
		Data: make([]float32, n),
	}
}

func NewZerosLike(vec blas32.Vector) blas32.Vector {
	return NewZeros(vec.N)
}

func NewOnes(n int) blas32.Vector {
	vec := NewZeros(n)
	for i := range vec.Data {
		vec.Data[i] = 1.0
	}
	return vec
}

// NewScalar は長さ1のベクトルを返す。スカラーとしてブロードキャストされる。
func NewScalar(x float32) blas32.Vector {
	return blas32.Vector{N: 1, Inc: 1, Data: []float32{x}}
}

func NewFromSlice(xs []float32) blas32.Vector {
	return blas32.Vector{N: len(xs), Inc: 1, Data: slices.Clone(xs)}
}

func NewRademacher(n int, rng *rand.Rand) blas32.Vector {
	vec := NewZeros(n)
	for i := range vec.Data {
		vec.Data[i] = randx.Rademacher(rng)
	}
	return vec
}

func NewRademacherLike(vec blas32.Vector, rng *rand.Rand) blas32.Vector {
	return NewRademacher(vec.N, rng)
}

func Clone(vec blas32.Vector) blas32.Vector {
	return blas32.Vector{
		N:    vec.N,
		Inc:  vec.Inc,
		Data: slices.Clone(vec.Data),
	}
}

// BroadcastLen returns the common length of vs. Length-1 vectors broadcast
// against any length; other mismatches panic.
func BroadcastLen(vs ...blas32.Vector) int {
	n := 1
	for _, v := range vs {
		switch {
		case v.N == 1 || v.N == n:
		case n == 1:
			n = v.N
		default:
			panic(fmt.Sprintf("vector: length mismatch %d vs %d", n, v.N))
		}
	}
	return n
}

func Broadcast(vec blas32.Vector, n int) blas32.Vector {
	if vec.N == n {
		return vec
	}
	if vec.N != 1 {
		panic(fmt.Sprintf("vector: cannot broadcast length %d to %d", vec.N, n))
	}
	y := NewZeros(n)
	for i := range y.Data {
		y.Data[i] = vec.Data[0]
	}
	return y
}

func at(vec blas32.Vector, i int) float32 {
	if vec.N == 1 {
		return vec.Data[0]
	}
	return vec.Data[i]
}

func zip(x, y blas32.Vector, f func(a, b float32) float32) blas32.Vector {
	n := BroadcastLen(x, y)
	z := NewZeros(n)
	for i := range z.Data {
		z.Data[i] = f(at(x, i), at(y, i))
	}
	return z
}

func Add(x, y blas32.Vector) blas32.Vector {
	return zip(x, y, func(a, b float32) float32 { return a + b })
}

func Sub(x, y blas32.Vector) blas32.Vector {
	return zip(x, y, func(a, b float32) float32 { return a - b })
}

func Mul(x, y blas32.Vector) blas32.Vector {
	return zip(x, y, func(a, b float32) float32 { return a * b })
}

func Div(x, y blas32.Vector) blas32.Vector {
	return zip(x, y, func(a, b float32) float32 { return a / b })
}

func Map(x blas32.Vector, f func(float32) float32) blas32.Vector {
	y := NewZerosLike(x)
	for i, e := range x.Data[:x.N] {
		y.Data[i] = f(e)
	}
	return y
}

func Scale(alpha float32, x blas32.Vector) blas32.Vector {
	y := Clone(x)
	blas32.Scal(alpha, y)
	return y
}

func AddScalar(x blas32.Vector, s float32) blas32.Vector {
	return Map(x, func(e float32) float32 { return e + s })
}

func Pow(x blas32.Vector, p float32) blas32.Vector {
	return Map(x, func(e float32) float32 { return math32.Pow(e, p) })
}

func Log(x blas32.Vector) blas32.Vector {
	return Map(x, math32.Log)
}

func Exp(x blas32.Vector) blas32.Vector {
	return Map(x, math32.Exp)
}

func Sum(x blas32.Vector) float32 {
	var s float32
	for _, e := range x.Data[:x.N] {
		s += e
	}
	return s
}

func Mean(x blas32.Vector) float32 {
	if x.N == 0 {
		return 0.0
	}
	return Sum(x) / float32(x.N)
}

// HasNonFinite reports whether x contains NaN or ±Inf.
func HasNonFinite(x blas32.Vector) bool {
	for _, e := range x.Data[:x.N] {
		if math32.IsNaN(e) || math32.IsInf(e, 0) {
			return true
		}
	}
	return false
}
