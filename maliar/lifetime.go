package maliar

import (
	"fmt"

	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"github.com/sw965/skagent/mathx"
	"gonum.org/v1/gonum/blas/blas32"
)

// ShockSchedule holds the realized shocks of an unroll: for each shock
// symbol one value per period.
type ShockSchedule map[string][]blas32.Vector

// Period returns the shocks of period t. A nil schedule yields no shocks.
func (s ShockSchedule) Period(t int) (env.Values, error) {
	shocks := make(env.Values, len(s))
	for sym, seq := range s {
		if t >= len(seq) {
			return nil, fmt.Errorf("%w: shock %q has %d periods, need period %d", ErrShapeMismatch, sym, len(seq), t)
		}
		shocks[sym] = seq[t]
	}
	return shocks, nil
}

// EstimateDiscountedLifetimeReward unrolls policy for bigT periods from
// states0 and returns Σ β^t r_t per agent, where r is the first reward
// symbol owned by agent.
func EstimateDiscountedLifetimeReward(
	b *block.Block,
	discount Discount,
	policy Policy,
	states0 env.Values,
	bigT int,
	shocksByT ShockSchedule,
	params env.Values,
	agent string,
) (blas32.Vector, error) {
	beta, err := discountFactor(discount)
	if err != nil {
		return blas32.Vector{}, err
	}
	if bigT < 0 {
		return blas32.Vector{}, fmt.Errorf("%w: horizon bigT >= 0 should hold: bigT = %d", ErrShapeMismatch, bigT)
	}
	rsyms := b.RewardSyms(agent)
	if len(rsyms) == 0 {
		return blas32.Vector{}, fmt.Errorf("%w: block %s, agent %q", ErrNoReward, b.Name, agent)
	}
	rsym := rsyms[0]

	df := policy.DecisionFunc(b)
	tf := NewTransitionFunc(b, states0.Syms())
	rf := NewRewardFunc(b, agent)

	total := vector.NewZeros(states0.Len())
	states := states0
	for t, bt := range mathx.DiscountPowers(beta, bigT) {
		shocks, err := shocksByT.Period(t)
		if err != nil {
			return blas32.Vector{}, err
		}
		controls, err := df(states, shocks, params)
		if err != nil {
			return blas32.Vector{}, fmt.Errorf("maliar: t = %d: decision: %w", t, err)
		}
		rewards, err := rf(states, shocks, controls, params)
		if err != nil {
			return blas32.Vector{}, fmt.Errorf("maliar: t = %d: reward: %w", t, err)
		}

		r := rewards[rsym]
		if vector.HasNonFinite(r) {
			return blas32.Vector{}, fmt.Errorf("%w: %q at t = %d: %v", ErrDivergence, rsym, t, r.Data)
		}
		if r.N != 1 && total.N != 1 && r.N != total.N {
			return blas32.Vector{}, fmt.Errorf("%w: reward %q has %d entries for %d agents", ErrShapeMismatch, rsym, r.N, total.N)
		}
		total = vector.Add(total, vector.Scale(bt, r))

		states, err = tf(states, shocks, controls, params)
		if err != nil {
			return blas32.Vector{}, fmt.Errorf("maliar: t = %d: transition: %w", t, err)
		}
	}
	return total, nil
}
