package maliar

import (
	"fmt"
	"math/rand/v2"

	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
)

// SimulateForward advances the panel bigT periods under df with freshly
// drawn shocks and returns the final states.
func SimulateForward(states env.Values, b *block.Block, df block.DecisionFunc, params env.Values, bigT int, stateSyms []string, rng *rand.Rand) (env.Values, error) {
	if bigT < 0 {
		return nil, fmt.Errorf("%w: bigT >= 0 should hold: bigT = %d", ErrShapeMismatch, bigT)
	}
	tf := NewTransitionFunc(b, stateSyms)
	n := states.Len()
	for t := 0; t < bigT; t++ {
		shocks, err := block.DrawShocks(b.Shocks, n, rng)
		if err != nil {
			return nil, fmt.Errorf("maliar: simulate t = %d: %w", t, err)
		}
		controls, err := df(states, shocks, params)
		if err != nil {
			return nil, fmt.Errorf("maliar: simulate t = %d: decision: %w", t, err)
		}
		states, err = tf(states, shocks, controls, params)
		if err != nil {
			return nil, fmt.Errorf("maliar: simulate t = %d: transition: %w", t, err)
		}
	}
	return states, nil
}
