package ann

import (
	"errors"
	"fmt"

	tensor2d "github.com/sw965/skagent/blas32/tensor/2d"
	"github.com/sw965/skagent/mathx"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Forward evaluates one layer on a batch, one row per sample.
type Forward func(blas32.General, *Parameter) (blas32.General, error)
type Forwards []Forward

func (fs Forwards) Propagate(x blas32.General, params Parameters) (blas32.General, error) {
	if len(fs) != len(params) {
		return blas32.General{}, fmt.Errorf("ann: len(forwards) == len(params) should hold: %d != %d", len(fs), len(params))
	}

	var err error
	for i, f := range fs {
		x, err = f(x, &params[i])
		if err != nil {
			return blas32.General{}, fmt.Errorf("ann: layer %d: %w", i, err)
		}
	}
	return x, nil
}

// AffineForward は y = x·W + b。W は (入力次元 × 出力次元)。
func AffineForward(x blas32.General, param *Parameter) (blas32.General, error) {
	if x.Cols != param.Weight.Rows {
		return blas32.General{}, fmt.Errorf("affine: input has %d columns, weight expects %d", x.Cols, param.Weight.Rows)
	}
	y := tensor2d.Dot(blas.NoTrans, blas.NoTrans, x, param.Weight)
	for r := 0; r < y.Rows; r++ {
		row := y.Data[r*y.Stride : r*y.Stride+y.Cols]
		for c := range row {
			row[c] += param.Bias.Data[c]
		}
	}
	return y, nil
}

// Activation is an element-wise nonlinearity.
type Activation int

const (
	Identity Activation = iota
	SiLU
	LeakyReLU
	Sigmoid
	Softplus
)

const leakyReLUAlpha float32 = 0.1

func (a Activation) String() string {
	switch a {
	case Identity:
		return "identity"
	case SiLU:
		return "silu"
	case LeakyReLU:
		return "leaky-relu"
	case Sigmoid:
		return "sigmoid"
	case Softplus:
		return "softplus"
	}
	return fmt.Sprintf("Activation(%d)", int(a))
}

func ParseActivation(name string) (Activation, error) {
	for _, a := range []Activation{Identity, SiLU, LeakyReLU, Sigmoid, Softplus} {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("ann: activation %q: %w", name, errors.ErrUnsupported)
}

func (a Activation) Func() (func(float32) float32, error) {
	switch a {
	case Identity:
		return func(x float32) float32 { return x }, nil
	case SiLU:
		// swish
		return func(x float32) float32 { return x * mathx.Sigmoid(x) }, nil
	case LeakyReLU:
		return func(x float32) float32 {
			if x > 0 {
				return x
			}
			return leakyReLUAlpha * x
		}, nil
	case Sigmoid:
		return mathx.Sigmoid, nil
	case Softplus:
		return mathx.Softplus, nil
	}
	return nil, fmt.Errorf("ann: %v: %w", a, errors.ErrUnsupported)
}

func NewActivationForward(a Activation) (Forward, error) {
	f, err := a.Func()
	if err != nil {
		return nil, err
	}
	return func(x blas32.General, _ *Parameter) (blas32.General, error) {
		return tensor2d.Map(x, f), nil
	}, nil
}
