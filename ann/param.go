package ann

import (
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	tensor2d "github.com/sw965/skagent/blas32/tensor/2d"
	"github.com/sw965/skagent/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
)

type GradBuffer struct {
	Weight blas32.General
	Bias   blas32.Vector
}

func (g *GradBuffer) NewZerosLike() GradBuffer {
	return GradBuffer{
		Weight: tensor2d.NewZerosLike(g.Weight),
		Bias:   vector.NewZerosLike(g.Bias),
	}
}

func (g GradBuffer) Clone() GradBuffer {
	return GradBuffer{
		Weight: tensor2d.Clone(g.Weight),
		Bias:   vector.Clone(g.Bias),
	}
}

func (g *GradBuffer) Axpy(alpha float32, x *GradBuffer) {
	if x.Weight.Rows != 0 {
		tensor2d.Axpy(alpha, x.Weight, g.Weight)
	}

	if x.Bias.N != 0 {
		blas32.Axpy(alpha, x.Bias, g.Bias)
	}
}

func (g *GradBuffer) Scal(alpha float32) {
	if g.Weight.Rows != 0 {
		tensor2d.Scal(alpha, g.Weight)
	}

	if g.Bias.N != 0 {
		blas32.Scal(alpha, g.Bias)
	}
}

type GradBuffers []GradBuffer

func (gs GradBuffers) NewZerosLike() GradBuffers {
	zeros := make(GradBuffers, len(gs))
	for i := range gs {
		zeros[i] = gs[i].NewZerosLike()
	}
	return zeros
}

func (gs GradBuffers) Clone() GradBuffers {
	clone := make(GradBuffers, len(gs))
	for i, g := range gs {
		clone[i] = g.Clone()
	}
	return clone
}

func (gs GradBuffers) Axpy(alpha float32, xs GradBuffers) {
	for i := range gs {
		gs[i].Axpy(alpha, &xs[i])
	}
}

func (gs GradBuffers) Scal(alpha float32) {
	for i := range gs {
		gs[i].Scal(alpha)
	}
}

// Parameter holds the weights of one layer. Activation layers carry an
// empty Parameter.
type Parameter struct {
	Weight blas32.General
	Bias   blas32.Vector
}

func (p *Parameter) NewGradRademacherLike(rng *rand.Rand) GradBuffer {
	return GradBuffer{
		Weight: tensor2d.NewRademacherLike(p.Weight, rng),
		Bias:   vector.NewRademacherLike(p.Bias, rng),
	}
}

func (p *Parameter) NewGradZerosLike() GradBuffer {
	return GradBuffer{
		Weight: tensor2d.NewZerosLike(p.Weight),
		Bias:   vector.NewZerosLike(p.Bias),
	}
}

func (p *Parameter) Clone() Parameter {
	return Parameter{
		Weight: tensor2d.Clone(p.Weight),
		Bias:   vector.Clone(p.Bias),
	}
}

func (p *Parameter) AxpyGrad(alpha float32, grad *GradBuffer) {
	if p.Weight.Rows != 0 {
		tensor2d.Axpy(alpha, grad.Weight, p.Weight)
	}

	if p.Bias.N != 0 {
		blas32.Axpy(alpha, grad.Bias, p.Bias)
	}
}

type Parameters []Parameter

func (ps Parameters) NewGradsRademacherLike(rng *rand.Rand) GradBuffers {
	grads := make(GradBuffers, len(ps))
	for i := range ps {
		grads[i] = ps[i].NewGradRademacherLike(rng)
	}
	return grads
}

func (ps Parameters) NewGradsZerosLike() GradBuffers {
	grads := make(GradBuffers, len(ps))
	for i := range ps {
		grads[i] = ps[i].NewGradZerosLike()
	}
	return grads
}

func (ps Parameters) Clone() Parameters {
	clone := make(Parameters, len(ps))
	for i := range ps {
		clone[i] = ps[i].Clone()
	}
	return clone
}

func (ps Parameters) AxpyGrads(alpha float32, grads GradBuffers) {
	for i := range ps {
		ps[i].AxpyGrad(alpha, &grads[i])
	}
}

// N is the total number of scalar parameters.
func (ps Parameters) N() int {
	n := 0
	for _, p := range ps {
		n += len(p.Weight.Data) + len(p.Bias.Data)
	}
	return n
}

// Flatten は全パラメーターを Weight, Bias の順に float64 で並べる。
func (ps Parameters) Flatten() []float64 {
	flat := make([]float64, 0, ps.N())
	for _, p := range ps {
		for _, e := range p.Weight.Data {
			flat = append(flat, float64(e))
		}
		for _, e := range p.Bias.Data {
			flat = append(flat, float64(e))
		}
	}
	return flat
}

// SetFlat is the inverse of Flatten.
func (ps Parameters) SetFlat(flat []float64) error {
	if len(flat) != ps.N() {
		return fmt.Errorf("ann: len(flat) == %d should hold: len(flat) = %d", ps.N(), len(flat))
	}
	k := 0
	for i := range ps {
		for j := range ps[i].Weight.Data {
			ps[i].Weight.Data[j] = float32(flat[k])
			k++
		}
		for j := range ps[i].Bias.Data {
			ps[i].Bias.Data[j] = float32(flat[k])
			k++
		}
	}
	return nil
}

// GradsFromFlat shapes a flat gradient like ps.
func (ps Parameters) GradsFromFlat(flat []float64) (GradBuffers, error) {
	grads := ps.NewGradsZerosLike()
	view := make(Parameters, len(grads))
	for i := range grads {
		view[i] = Parameter{Weight: grads[i].Weight, Bias: grads[i].Bias}
	}
	if err := view.SetFlat(flat); err != nil {
		return nil, err
	}
	return grads, nil
}

// Nrm2Diff returns ||ps - other||₂.
func (ps Parameters) Nrm2Diff(other Parameters) (float32, error) {
	if len(ps) != len(other) {
		return 0.0, fmt.Errorf("ann: parameter layer count mismatch: %d != %d", len(ps), len(other))
	}
	var sq float32
	for i := range ps {
		pairs := [][2][]float32{
			{ps[i].Weight.Data, other[i].Weight.Data},
			{ps[i].Bias.Data, other[i].Bias.Data},
		}
		for _, pair := range pairs {
			if len(pair[0]) != len(pair[1]) {
				return 0.0, fmt.Errorf("ann: parameter shape mismatch in layer %d", i)
			}
			for j := range pair[0] {
				d := pair[0][j] - pair[1][j]
				sq += d * d
			}
		}
	}
	return math32.Sqrt(sq), nil
}

func (gs GradBuffers) Flatten() []float64 {
	view := make(Parameters, len(gs))
	for i, g := range gs {
		view[i] = Parameter{Weight: g.Weight, Bias: g.Bias}
	}
	return view.Flatten()
}
