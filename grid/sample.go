package grid

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/sw965/omw/slicesx"
	"github.com/sw965/skagent/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Sampling selects how state points are placed inside their bounds.
type Sampling int

const (
	// GridSampling は各次元を等間隔に分割した直積。points^d 行になる。
	GridSampling Sampling = iota + 1
	UniformSampling
	LatinHypercubeSampling
	HaltonSampling
)

func (s Sampling) String() string {
	switch s {
	case GridSampling:
		return "grid"
	case UniformSampling:
		return "uniform"
	case LatinHypercubeSampling:
		return "latin-hypercube"
	case HaltonSampling:
		return "halton"
	}
	return fmt.Sprintf("Sampling(%d)", int(s))
}

// ParseSampling is the inverse of Sampling.String.
func ParseSampling(name string) (Sampling, error) {
	for _, s := range []Sampling{GridSampling, UniformSampling, LatinHypercubeSampling, HaltonSampling} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("grid: sampling %q: %w", name, errors.ErrUnsupported)
}

// Sample places points inside bounds and returns one column per symbol in
// sorted order. For GridSampling points is the count per dimension, for
// the other strategies it is the total number of rows.
func Sample(bounds map[string]r1.Interval, points int, s Sampling, rng *rand.Rand) (Grid, error) {
	switch s {
	case GridSampling, UniformSampling, LatinHypercubeSampling, HaltonSampling:
	default:
		return Grid{}, fmt.Errorf("grid: %v sampling: %w", s, errors.ErrUnsupported)
	}
	if len(bounds) == 0 {
		return Grid{}, errors.New("grid: no bounds given")
	}
	if points < 1 {
		return Grid{}, fmt.Errorf("grid: points >= 1 should hold: points = %d", points)
	}

	syms := slices.Sorted(maps.Keys(bounds))
	ivs := make([]r1.Interval, len(syms))
	for i, sym := range syms {
		iv := bounds[sym]
		if iv.Max < iv.Min {
			return Grid{}, fmt.Errorf("grid: %q: min <= max should hold: min = %v, max = %v", sym, iv.Min, iv.Max)
		}
		ivs[i] = iv
	}

	var cols []blas32.Vector
	switch s {
	case GridSampling:
		cols = cartesian(ivs, points)
	case UniformSampling:
		cols = uniform(ivs, points, rng)
	case LatinHypercubeSampling:
		batch := mat.NewDense(points, len(ivs), nil)
		samplemv.LatinHypercube{Q: distmv.NewUniform(ivs, rng), Src: rng}.Sample(batch)
		cols = columns(batch)
	case HaltonSampling:
		batch := mat.NewDense(points, len(ivs), nil)
		samplemv.Halton{Kind: samplemv.Owen, Q: distmv.NewUniform(ivs, rng), Src: rng}.Sample(batch)
		cols = columns(batch)
	}
	return New(syms, cols)
}

func linspace(iv r1.Interval, n int) []float32 {
	xs := make([]float32, n)
	if n == 1 {
		xs[0] = float32(iv.Min)
		return xs
	}
	step := (iv.Max - iv.Min) / float64(n-1)
	for i := range xs {
		xs[i] = float32(iv.Min + float64(i)*step)
	}
	return xs
}

func cartesian(ivs []r1.Interval, points int) []blas32.Vector {
	axes := make([][]float32, len(ivs))
	for i, iv := range ivs {
		axes[i] = linspace(iv, points)
	}
	data := make([][]float32, len(ivs))
	for p := range slicesx.CartesianProducts(axes...) {
		for i, e := range p {
			data[i] = append(data[i], e)
		}
	}
	cols := make([]blas32.Vector, len(ivs))
	for i := range cols {
		cols[i] = vector.NewFromSlice(data[i])
	}
	return cols
}

func uniform(ivs []r1.Interval, points int, rng *rand.Rand) []blas32.Vector {
	cols := make([]blas32.Vector, len(ivs))
	for i, iv := range ivs {
		col := vector.NewZeros(points)
		if iv.Min == iv.Max {
			for j := range col.Data {
				col.Data[j] = float32(iv.Min)
			}
		} else {
			d := distuv.Uniform{Min: iv.Min, Max: iv.Max, Src: rng}
			for j := range col.Data {
				col.Data[j] = float32(d.Rand())
			}
		}
		cols[i] = col
	}
	return cols
}

func columns(batch *mat.Dense) []blas32.Vector {
	r, c := batch.Dims()
	cols := make([]blas32.Vector, c)
	for j := range cols {
		col := vector.NewZeros(r)
		for i := range col.Data {
			col.Data[i] = float32(batch.At(i, j))
		}
		cols[j] = col
	}
	return cols
}
