package ann

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sw965/omw/parallel"
	"github.com/sw965/skagent/mathx"
	"github.com/sw965/skagent/mathx/randx"
	"gonum.org/v1/gonum/diff/fd"
)

// LossFunc evaluates the empirical risk at the given parameters.
type LossFunc func(Parameters) (float32, error)

// GradEstimator approximates ∇loss at params. origin is loss(params),
// already known to the caller.
type GradEstimator interface {
	Estimate(params Parameters, loss LossFunc, origin float32, rng *rand.Rand) (GradBuffers, error)
}

// SPSA is the simultaneous perturbation estimator: each perturbation moves
// all parameters by ±C along a Rademacher direction and needs two loss
// evaluations regardless of the parameter count.
type SPSA struct {
	C             float32
	Perturbations int
	Workers       int
}

func (s SPSA) withDefaults() SPSA {
	if s.C == 0 {
		s.C = 0.01
	}
	if s.Perturbations == 0 {
		s.Perturbations = 4
	}
	if s.Workers == 0 {
		s.Workers = 1
	}
	return s
}

func (s SPSA) Estimate(params Parameters, loss LossFunc, _ float32, rng *rand.Rand) (GradBuffers, error) {
	s = s.withDefaults()
	c := s.C
	k := s.Perturbations
	if k < 1 || s.Workers < 1 {
		return nil, fmt.Errorf("spsa: Perturbations >= 1 && Workers >= 1 should hold: Perturbations = %d, Workers = %d", k, s.Workers)
	}

	// 乱数は呼び出し側で順番に分岐させるので、ワーカー数に依らず結果は同じ
	rngs := randx.Split(rng, k)
	gradsByPerturbation := make([]GradBuffers, k)

	err := parallel.For(k, s.Workers, func(_, idx int) error {
		deltas := params.NewGradsRademacherLike(rngs[idx])

		plus := params.Clone()
		plus.AxpyGrads(c, deltas)
		minus := params.Clone()
		minus.AxpyGrads(-c, deltas)

		plusLoss, err := loss(plus)
		if err != nil {
			return err
		}
		minusLoss, err := loss(minus)
		if err != nil {
			return err
		}

		grads := params.NewGradsZerosLike()
		for i, delta := range deltas {
			for j, d := range delta.Weight.Data {
				grads[i].Weight.Data[j] = mathx.CentralDifference(plusLoss, minusLoss, c*d)
			}
			for j, d := range delta.Bias.Data {
				grads[i].Bias.Data[j] = mathx.CentralDifference(plusLoss, minusLoss, c*d)
			}
		}
		gradsByPerturbation[idx] = grads
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := gradsByPerturbation[0]
	for _, grads := range gradsByPerturbation[1:] {
		total.Axpy(1.0, grads)
	}
	total.Scal(1.0 / float32(k))
	return total, nil
}

// FiniteDifference estimates every partial derivative with gonum's central
// difference formula. It needs 2·N loss evaluations per step.
type FiniteDifference struct {
	Step float64
}

func (f FiniteDifference) Estimate(params Parameters, loss LossFunc, origin float32, _ *rand.Rand) (GradBuffers, error) {
	step := f.Step
	if step == 0 {
		step = 1e-3
	}

	work := params.Clone()
	var lossErr error
	fn := func(x []float64) float64 {
		if lossErr != nil {
			return math.NaN()
		}
		if err := work.SetFlat(x); err != nil {
			lossErr = err
			return math.NaN()
		}
		l, err := loss(work)
		if err != nil {
			lossErr = err
			return math.NaN()
		}
		return float64(l)
	}

	g := fd.Gradient(nil, fn, params.Flatten(), &fd.Settings{
		Formula:     fd.Central,
		Step:        step,
		OriginKnown: true,
		OriginValue: float64(origin),
	})
	if lossErr != nil {
		return nil, lossErr
	}
	return params.GradsFromFlat(g)
}
