package tensor2d_test

import (
	"slices"
	"testing"

	tensor2d "github.com/sw965/skagent/blas32/tensor/2d"
	"github.com/sw965/skagent/blas32/vector"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

func TestFromColumns(t *testing.T) {
	cols := []blas32.Vector{
		vector.NewFromSlice([]float32{1, 2, 3}),
		vector.NewScalar(9),
	}
	gen := tensor2d.FromColumns(cols, 3)
	if gen.Rows != 3 || gen.Cols != 2 {
		t.Fatalf("shape = %dx%d", gen.Rows, gen.Cols)
	}
	want := []float32{1, 9, 2, 9, 3, 9}
	if !slices.Equal(gen.Data, want) {
		t.Errorf("data = %v, want %v", gen.Data, want)
	}
	if got := tensor2d.Column(gen, 0); !slices.Equal(got.Data, []float32{1, 2, 3}) {
		t.Errorf("Column(0) = %v", got.Data)
	}
}

func TestDot(t *testing.T) {
	a := blas32.General{Rows: 2, Cols: 2, Stride: 2, Data: []float32{1, 2, 3, 4}}
	b := blas32.General{Rows: 2, Cols: 1, Stride: 1, Data: []float32{1, 1}}

	y := tensor2d.Dot(blas.NoTrans, blas.NoTrans, a, b)
	if !slices.Equal(y.Data, []float32{3, 7}) {
		t.Errorf("a·b = %v", y.Data)
	}

	yt := tensor2d.Dot(blas.Trans, blas.NoTrans, a, b)
	if !slices.Equal(yt.Data, []float32{4, 6}) {
		t.Errorf("aᵀ·b = %v", yt.Data)
	}
}

func TestAxpyScal(t *testing.T) {
	x := blas32.General{Rows: 1, Cols: 3, Stride: 3, Data: []float32{1, 2, 3}}
	y := tensor2d.NewZerosLike(x)
	tensor2d.Axpy(2, x, y)
	tensor2d.Scal(0.5, y)
	if !slices.Equal(y.Data, x.Data) {
		t.Errorf("y = %v, want %v", y.Data, x.Data)
	}
	c := tensor2d.Clone(x)
	c.Data[0] = 100
	if x.Data[0] != 1 {
		t.Errorf("Clone shares data")
	}
}
