// Package maliar trains decision rules for a block with the lifetime
// reward method of Maliar, Maliar and Winant: the rules are unrolled
// forward over a finite horizon and the negated discounted reward sum is
// minimized over a panel of agents.
package maliar

import (
	"fmt"

	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
)

// TransitionFunc maps a period's states, shocks, controls and parameters
// to next-period states.
type TransitionFunc func(states, shocks, controls, params env.Values) (env.Values, error)

// RewardFunc maps a period's states, shocks, controls and parameters to
// reward values.
type RewardFunc func(states, shocks, controls, params env.Values) (env.Values, error)

// runFixed merges the environments and runs the block with the given
// controls held fixed. No decision rules are applied.
func runFixed(b *block.Block, states, shocks, controls, params env.Values) (env.Values, error) {
	vals := env.MergeEnv(params, states, shocks, controls)
	return b.Transition(vals, nil, controls.Syms())
}

// NewTransitionFunc returns exactly the stateSyms of the post-transition
// environment.
func NewTransitionFunc(b *block.Block, stateSyms []string) TransitionFunc {
	return func(states, shocks, controls, params env.Values) (env.Values, error) {
		post, err := runFixed(b, states, shocks, controls, params)
		if err != nil {
			return nil, err
		}
		next, err := post.Select(stateSyms)
		if err != nil {
			return nil, fmt.Errorf("maliar: next states: %w: %w", block.ErrMissingSymbol, err)
		}
		return next, nil
	}
}

// NewRewardFunc extracts the rewards owned by agent, or every reward when
// agent is empty.
func NewRewardFunc(b *block.Block, agent string) RewardFunc {
	syms := b.RewardSyms(agent)
	return func(states, shocks, controls, params env.Values) (env.Values, error) {
		post, err := runFixed(b, states, shocks, controls, params)
		if err != nil {
			return nil, err
		}
		rewards, err := post.Select(syms)
		if err != nil {
			return nil, fmt.Errorf("maliar: rewards: %w: %w", block.ErrMissingSymbol, err)
		}
		return rewards, nil
	}
}
