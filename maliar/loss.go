package maliar

import (
	"fmt"
	"slices"

	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"github.com/sw965/skagent/grid"
	"gonum.org/v1/gonum/blas/blas32"
)

// Givens is a batch of loss inputs: the initial states followed by every
// period's shocks, one column each.
type Givens = grid.Grid

func shockName(sym string, t int) string {
	return fmt.Sprintf("%s_%d", sym, t)
}

// GivenSyms is the column layout of a Givens batch: stateSyms in the
// given order, then for each period t the block's shocks, sorted, as
// sym_t.
func GivenSyms(stateSyms []string, b *block.Block, bigT int) []string {
	shockSyms := b.ShockSyms()
	syms := slices.Clone(stateSyms)
	for t := 0; t < bigT; t++ {
		for _, sym := range shockSyms {
			syms = append(syms, shockName(sym, t))
		}
	}
	return syms
}

func FlattenGivens(stateSyms []string, states env.Values, shocksByT ShockSchedule, shockSyms []string, bigT int) (Givens, error) {
	syms := make([]string, 0, len(stateSyms)+len(shockSyms)*bigT)
	values := make([]blas32.Vector, 0, cap(syms))
	for _, sym := range stateSyms {
		v, ok := states[sym]
		if !ok {
			return Givens{}, fmt.Errorf("%w: state %q missing", ErrShapeMismatch, sym)
		}
		syms = append(syms, sym)
		values = append(values, v)
	}
	for t := 0; t < bigT; t++ {
		for _, sym := range shockSyms {
			seq := shocksByT[sym]
			if t >= len(seq) {
				return Givens{}, fmt.Errorf("%w: shock %q has %d periods, need %d", ErrShapeMismatch, sym, len(seq), bigT)
			}
			syms = append(syms, shockName(sym, t))
			values = append(values, seq[t])
		}
	}
	g, err := grid.New(syms, values)
	if err != nil {
		return Givens{}, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	return g, nil
}

// Loss is the negated discounted lifetime reward over a fixed horizon,
// evaluated on Givens batches.
type Loss struct {
	StateSyms []string
	Block     *block.Block
	Discount  Discount
	BigT      int
	Params    env.Values
	// Agent selects whose reward is summed. Empty means the first reward
	// of the block.
	Agent string

	shockSyms []string
	syms      []string
}

func NewLifetimeRewardLoss(stateSyms []string, b *block.Block, discount Discount, bigT int, params env.Values) *Loss {
	return &Loss{
		StateSyms: slices.Clone(stateSyms),
		Block:     b,
		Discount:  discount,
		BigT:      bigT,
		Params:    params,
		shockSyms: b.ShockSyms(),
		syms:      GivenSyms(stateSyms, b, bigT),
	}
}

// ShockCopies is the number of shock periods a Givens batch must carry.
func (l *Loss) ShockCopies() int {
	return l.BigT
}

// Syms is the expected column layout.
func (l *Loss) Syms() []string {
	return slices.Clone(l.syms)
}

func (l *Loss) Flatten(states env.Values, shocksByT ShockSchedule) (Givens, error) {
	return FlattenGivens(l.StateSyms, states, shocksByT, l.shockSyms, l.BigT)
}

// Unflatten is the inverse of Flatten.
func (l *Loss) Unflatten(givens Givens) (env.Values, ShockSchedule, error) {
	if !slices.Equal(givens.Syms, l.syms) {
		return nil, nil, fmt.Errorf("%w: givens columns %v, want %v", ErrShapeMismatch, givens.Syms, l.syms)
	}
	if len(givens.Values) != len(l.syms) {
		return nil, nil, fmt.Errorf("%w: givens has %d values for %d columns", ErrShapeMismatch, len(givens.Values), len(l.syms))
	}
	n := 1
	for _, v := range givens.Values {
		n = max(n, v.N)
	}
	for i, v := range givens.Values {
		if v.N != n && v.N != 1 {
			return nil, nil, fmt.Errorf("%w: column %q has length %d, want %d or 1", ErrShapeMismatch, givens.Syms[i], v.N, n)
		}
	}
	k := 0
	states := make(env.Values, len(l.StateSyms))
	for _, sym := range l.StateSyms {
		states[sym] = givens.Values[k]
		k++
	}
	schedule := make(ShockSchedule, len(l.shockSyms))
	for t := 0; t < l.BigT; t++ {
		for _, sym := range l.shockSyms {
			schedule[sym] = append(schedule[sym], givens.Values[k])
			k++
		}
	}
	return states, schedule, nil
}

// Eval returns one loss per row of givens.
func (l *Loss) Eval(df block.DecisionFunc, givens Givens) (blas32.Vector, error) {
	states, schedule, err := l.Unflatten(givens)
	if err != nil {
		return blas32.Vector{}, err
	}
	total, err := EstimateDiscountedLifetimeReward(l.Block, l.Discount, DecisionFunc(df), states, l.BigT, schedule, l.Params, l.Agent)
	if err != nil {
		return blas32.Vector{}, err
	}
	return vector.Scale(-1.0, total), nil
}
