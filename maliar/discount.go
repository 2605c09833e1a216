package maliar

import (
	"errors"
	"fmt"

	"github.com/sw965/skagent/env"
	"gonum.org/v1/gonum/blas/blas32"
)

// Discount is either ConstantDiscount or StateDiscount.
type Discount interface {
	discount()
}

type ConstantDiscount float32

func (ConstantDiscount) discount() {}

// StateDiscount computes the discount factor from the current states.
// It is accepted as a value but not supported by the estimator.
type StateDiscount func(states env.Values) blas32.Vector

func (StateDiscount) discount() {}

func discountFactor(d Discount) (float32, error) {
	switch d := d.(type) {
	case ConstantDiscount:
		return float32(d), nil
	case StateDiscount:
		return 0.0, fmt.Errorf("maliar: state-dependent discount factor: %w", errors.ErrUnsupported)
	case nil:
		return 0.0, errors.New("maliar: discount factor is nil")
	}
	return 0.0, fmt.Errorf("maliar: discount %T: %w", d, errors.ErrUnsupported)
}
