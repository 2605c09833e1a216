package tensor2d

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/mathx/randx"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

func NewZeros(rows, cols int) blas32.General {
	return blas32.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   make([]float32, rows*cols),
	}
}

func NewZerosLike(gen blas32.General) blas32.General {
	return NewZeros(gen.Rows, gen.Cols)
}

func NewHe(rows, cols int, rng *rand.Rand) blas32.General {
	gen := NewZeros(rows, cols)
	fanIn := float64(rows)
	std := math.Sqrt(2.0 / fanIn)
	for i := range gen.Data {
		gen.Data[i] = float32(rng.NormFloat64() * std)
	}
	return gen
}

func NewRademacher(rows, cols int, rng *rand.Rand) blas32.General {
	gen := NewZeros(rows, cols)
	for i := range gen.Data {
		gen.Data[i] = randx.Rademacher(rng)
	}
	return gen
}

func NewRademacherLike(gen blas32.General, rng *rand.Rand) blas32.General {
	return NewRademacher(gen.Rows, gen.Cols, rng)
}

func N(gen blas32.General) int {
	return gen.Rows * gen.Cols
}

func Clone(gen blas32.General) blas32.General {
	return blas32.General{
		Rows:   gen.Rows,
		Cols:   gen.Cols,
		Stride: gen.Stride,
		Data:   slices.Clone(gen.Data),
	}
}

func At(gen blas32.General, row, col int) int {
	return row*gen.Stride + col
}

func ToVector(gen blas32.General) blas32.Vector {
	return blas32.Vector{
		N:    N(gen),
		Inc:  1,
		Data: gen.Data,
	}
}

func Scal(alpha float32, gen blas32.General) {
	vec := ToVector(gen)
	blas32.Scal(alpha, vec)
}

func Axpy(alpha float32, x, y blas32.General) {
	xv := ToVector(x)
	yv := ToVector(y)
	blas32.Axpy(alpha, xv, yv)
}

func Map(gen blas32.General, f func(float32) float32) blas32.General {
	y := NewZerosLike(gen)
	for i, e := range gen.Data {
		y.Data[i] = f(e)
	}
	return y
}

func Dot(tA, tB blas.Transpose, a, b blas32.General) blas32.General {
	rows, cols := a.Rows, b.Cols
	if tA == blas.Trans {
		rows = a.Cols
	}
	if tB == blas.Trans {
		cols = b.Rows
	}
	y := NewZeros(rows, cols)
	blas32.Gemm(tA, tB, 1.0, a, b, 0.0, y)
	return y
}

// FromColumns は列ベクトルを並べて rows × len(cols) の行列を作る。
// 長さ1の列は rows 行にブロードキャストされる。
func FromColumns(cols []blas32.Vector, rows int) blas32.General {
	gen := NewZeros(rows, len(cols))
	for j, col := range cols {
		col = vector.Broadcast(col, rows)
		for i := 0; i < rows; i++ {
			gen.Data[At(gen, i, j)] = col.Data[i]
		}
	}
	return gen
}

func Column(gen blas32.General, col int) blas32.Vector {
	if col < 0 || col >= gen.Cols {
		panic(fmt.Sprintf("tensor2d: column %d out of range [0, %d)", col, gen.Cols))
	}
	vec := vector.NewZeros(gen.Rows)
	for i := range vec.Data {
		vec.Data[i] = gen.Data[At(gen, i, col)]
	}
	return vec
}
