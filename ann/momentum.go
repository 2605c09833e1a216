package ann

import "fmt"

// Optimizer applies one update to params in place. Implementations keep
// their own state across calls.
type Optimizer interface {
	Step(params Parameters, grads GradBuffers) error
}

// Momentum is SGD with heavy-ball momentum:
// v ← μ·v - lr·g, θ ← θ + v.
type Momentum struct {
	LearningRate float32
	Momentum     float32

	velocity GradBuffers
}

func NewMomentum(params Parameters, lr, momentum float32) *Momentum {
	return &Momentum{
		LearningRate: lr,
		Momentum:     momentum,
		velocity:     params.NewGradsZerosLike(),
	}
}

func (opt *Momentum) Step(params Parameters, grads GradBuffers) error {
	if len(params) != len(grads) {
		return fmt.Errorf("momentum: len(params) == len(grads) should hold: %d != %d", len(params), len(grads))
	}
	if len(opt.velocity) != len(params) {
		opt.velocity = params.NewGradsZerosLike()
	}
	opt.velocity.Scal(opt.Momentum)
	opt.velocity.Axpy(-opt.LearningRate, grads)
	params.AxpyGrads(1.0, opt.velocity)
	return nil
}
