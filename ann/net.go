package ann

import (
	"fmt"
	"math/rand/v2"

	tensor2d "github.com/sw965/skagent/blas32/tensor/2d"
	"github.com/sw965/skagent/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
)

type Net struct {
	Parameters Parameters
	Forwards   Forwards
	NIn        int
	NOut       int
}

func (n *Net) AppendAffine(xn, yn int, rng *rand.Rand) {
	param := Parameter{
		Weight: tensor2d.NewHe(xn, yn, rng),
		Bias:   vector.NewZeros(yn),
	}
	n.Parameters = append(n.Parameters, param)
	n.Forwards = append(n.Forwards, AffineForward)
}

func (n *Net) AppendActivation(a Activation) error {
	forward, err := NewActivationForward(a)
	if err != nil {
		return err
	}
	n.Parameters = append(n.Parameters, Parameter{})
	n.Forwards = append(n.Forwards, forward)
	return nil
}

// NewNet builds nIn → width → width → nOut with SiLU hidden layers and
// the given output activation.
func NewNet(nIn, nOut, width int, output Activation, rng *rand.Rand) (*Net, error) {
	if nIn < 1 || nOut < 1 || width < 1 {
		return nil, fmt.Errorf("ann: nIn, nOut, width >= 1 should hold: nIn = %d, nOut = %d, width = %d", nIn, nOut, width)
	}
	n := &Net{NIn: nIn, NOut: nOut}
	n.AppendAffine(nIn, width, rng)
	if err := n.AppendActivation(SiLU); err != nil {
		return nil, err
	}
	n.AppendAffine(width, width, rng)
	if err := n.AppendActivation(SiLU); err != nil {
		return nil, err
	}
	n.AppendAffine(width, nOut, rng)
	if output != Identity {
		if err := n.AppendActivation(output); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n Net) Clone() Net {
	return Net{
		Parameters: n.Parameters.Clone(),
		Forwards:   n.Forwards,
		NIn:        n.NIn,
		NOut:       n.NOut,
	}
}

// WithParameters returns a view of n evaluated with ps. ps is not copied.
func (n *Net) WithParameters(ps Parameters) *Net {
	return &Net{Parameters: ps, Forwards: n.Forwards, NIn: n.NIn, NOut: n.NOut}
}

func (n *Net) Predict(x blas32.General) (blas32.General, error) {
	if x.Cols != n.NIn {
		return blas32.General{}, fmt.Errorf("ann: input has %d columns, net expects %d", x.Cols, n.NIn)
	}
	return n.Forwards.Propagate(x, n.Parameters)
}
