package ann

import (
	"errors"
	"fmt"
	"math/rand/v2"

	tensor2d "github.com/sw965/skagent/blas32/tensor/2d"
	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"gonum.org/v1/gonum/blas/blas32"
)

type Config struct {
	// Width of both hidden layers. 0 means 32.
	Width int
	// Output is applied to the network output, e.g. Sigmoid for a share
	// control bounded in (0, 1).
	Output  Activation
	Backend Backend
}

func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = 32
	}
	return c
}

// BlockPolicyNet approximates the decision rule of a block's control. The
// inputs are the control's information set, in declaration order.
type BlockPolicyNet struct {
	*Net
	Block   *block.Block
	Control block.Control
	config  Config
}

func NewBlockPolicyNet(b *block.Block, cfg Config, rng *rand.Rand) (*BlockPolicyNet, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Backend.Use(); err != nil {
		return nil, err
	}

	csyms := b.Controls()
	if len(csyms) != 1 {
		return nil, fmt.Errorf("ann: block %s has %d controls, policy nets support exactly one: %w", b.Name, len(csyms), errors.ErrUnsupported)
	}
	control, _ := b.ControlSpec(csyms[0])
	if len(control.InfoSet) == 0 {
		return nil, fmt.Errorf("ann: control %q has an empty information set", control.Sym)
	}

	net, err := NewNet(len(control.InfoSet), 1, cfg.Width, cfg.Output, rng)
	if err != nil {
		return nil, err
	}
	return &BlockPolicyNet{Net: net, Block: b, Control: control, config: cfg}, nil
}

// WithParameters returns a policy evaluated with ps instead of the
// network's own parameters.
func (p *BlockPolicyNet) WithParameters(ps Parameters) *BlockPolicyNet {
	return &BlockPolicyNet{Net: p.Net.WithParameters(ps), Block: p.Block, Control: p.Control, config: p.config}
}

// Decide runs the block with a placeholder rule for the control so that
// auxiliary variables in the information set get resolved, then feeds the
// information set as observed at the control's step to the network.
func (p *BlockPolicyNet) Decide(states, shocks, params env.Values) (env.Values, error) {
	vals := env.Merge(params, states, shocks)

	var observed env.Values
	placeholder := block.DecisionRules{
		p.Control.Sym: func(obs env.Values) blas32.Vector {
			observed = obs
			return vector.NewScalar(1.0)
		},
	}
	if _, err := p.Block.Transition(vals, placeholder, nil); err != nil {
		return nil, err
	}
	if observed == nil {
		return nil, fmt.Errorf("ann: control %q was not reached by the block transition", p.Control.Sym)
	}

	cols := make([]blas32.Vector, len(p.Control.InfoSet))
	for i, sym := range p.Control.InfoSet {
		cols[i] = observed[sym]
	}
	x := tensor2d.FromColumns(cols, vector.BroadcastLen(cols...))
	y, err := p.Predict(x)
	if err != nil {
		return nil, err
	}
	return env.Values{p.Control.Sym: tensor2d.Column(y, 0)}, nil
}

func (p *BlockPolicyNet) DecisionFunction() block.DecisionFunc {
	return p.Decide
}
