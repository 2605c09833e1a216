package maliar

import (
	"github.com/sw965/skagent/ann"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
)

// Policy is anything that yields a decision function for a block.
type Policy interface {
	DecisionFunc(b *block.Block) block.DecisionFunc
}

// ClosedForm is a policy given as explicit decision rules.
type ClosedForm block.DecisionRules

func (cf ClosedForm) DecisionFunc(b *block.Block) block.DecisionFunc {
	rules := block.DecisionRules(cf)
	syms := rules.Syms()
	return func(states, shocks, params env.Values) (env.Values, error) {
		post, err := b.Transition(env.Merge(params, states, shocks), rules, nil)
		if err != nil {
			return nil, err
		}
		return post.Select(syms)
	}
}

// Learned is a policy backed by a trained network.
type Learned struct {
	Net *ann.BlockPolicyNet
}

func (l Learned) DecisionFunc(*block.Block) block.DecisionFunc {
	if l.Net == nil {
		return func(env.Values, env.Values, env.Values) (env.Values, error) {
			return nil, ErrNoNetwork
		}
	}
	return l.Net.DecisionFunction()
}

// DecisionFunc lets a raw decision function stand in for a Policy.
type DecisionFunc block.DecisionFunc

func (df DecisionFunc) DecisionFunc(*block.Block) block.DecisionFunc {
	return block.DecisionFunc(df)
}
