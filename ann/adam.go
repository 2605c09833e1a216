package ann

import (
	"fmt"

	"github.com/chewxy/math32"
)

type Adam struct {
	LearningRate float32
	Beta1        float32
	Beta2        float32
	Epsilon      float32

	iter int
	m    GradBuffers
	v    GradBuffers
}

// NewAdam は params と同じ形状のモーメントを 0 で確保する。
func NewAdam(params Parameters, lr float32) *Adam {
	return &Adam{
		LearningRate: lr,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-7,
		m:            params.NewGradsZerosLike(),
		v:            params.NewGradsZerosLike(),
	}
}

func (a *Adam) Iter() int {
	return a.iter
}

// Step moves params one step against grads in place.
func (a *Adam) Step(params Parameters, grads GradBuffers) error {
	if len(params) != len(grads) {
		return fmt.Errorf("adam: len(params) == len(grads) should hold: %d != %d", len(params), len(grads))
	}
	if len(a.m) != len(params) {
		a.m = params.NewGradsZerosLike()
		a.v = params.NewGradsZerosLike()
	}

	a.iter++
	t := float32(a.iter)
	lrt := a.LearningRate * math32.Sqrt(1-math32.Pow(a.Beta2, t)) / (1 - math32.Pow(a.Beta1, t))

	update := func(p, g, m, v []float32) {
		for j, gj := range g {
			m[j] += (1 - a.Beta1) * (gj - m[j])
			v[j] += (1 - a.Beta2) * (gj*gj - v[j])
			p[j] -= lrt * m[j] / (math32.Sqrt(v[j]) + a.Epsilon)
		}
	}

	for i := range grads {
		update(params[i].Weight.Data, grads[i].Weight.Data, a.m[i].Weight.Data, a.v[i].Weight.Data)
		update(params[i].Bias.Data, grads[i].Bias.Data, a.m[i].Bias.Data, a.v[i].Bias.Data)
	}
	return nil
}
