package maliar

import (
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/sw965/skagent/ann"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"github.com/sw965/skagent/mathx/randx"
)

type Config struct {
	// ShockCopies must equal the loss horizon. 0 means the loss horizon.
	ShockCopies   int
	MaxIterations int
	// Epochs is the number of optimizer steps per iteration. It is used
	// when Train.Epochs is 0.
	Epochs int
	// Width is used when Net.Width is 0.
	Width int
	// Seed fixes every random draw of the run. nil seeds from entropy.
	Seed *uint64
	// Tolerance on ||θ_k - θ_{k-1}||₂. 0 disables the check.
	Tolerance float32
	Net       ann.Config
	Train     ann.TrainConfig
	Logger    *log.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxIterations == 0 {
		c.MaxIterations = 100
	}
	if c.Epochs == 0 {
		c.Epochs = 250
	}
	if c.Width == 0 {
		c.Width = 16
	}
	if c.Train.Epochs == 0 {
		c.Train.Epochs = c.Epochs
	}
	if c.Net.Width == 0 {
		c.Net.Width = c.Width
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c
}

type Result struct {
	// RunID tags the log lines of one run.
	RunID      string
	Net        *ann.BlockPolicyNet
	States     env.Values
	Iterations int
	Converged  bool
	// Losses holds the empirical risk of each iteration.
	Losses []float32
	// Deltas holds the parameter change of each iteration.
	Deltas []float32
}

// TrainingLoop alternates between fitting the policy network on givens
// built from the current panel and moving the panel one period forward
// under the fitted policy.
func TrainingLoop(b *block.Block, loss *Loss, states0, params env.Values, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if cfg.ShockCopies == 0 {
		cfg.ShockCopies = loss.ShockCopies()
	}
	if cfg.ShockCopies != loss.ShockCopies() {
		return nil, fmt.Errorf("%w: ShockCopies = %d, loss horizon = %d", ErrShapeMismatch, cfg.ShockCopies, loss.ShockCopies())
	}
	if cfg.MaxIterations < 1 {
		return nil, fmt.Errorf("maliar: MaxIterations >= 1 should hold: MaxIterations = %d", cfg.MaxIterations)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	rng := randx.New(cfg.Seed)
	net, err := ann.NewBlockPolicyNet(b, cfg.Net, rng)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.New().String(), Net: net}
	panel := states0.Clone()
	logger.Printf("[train] run %s: block %s, %d agents, %d parameters, horizon %d", res.RunID, b.Name, panel.Len(), net.Parameters.N(), loss.BigT)

	for k := 0; k < cfg.MaxIterations; k++ {
		givens, err := GenerateGivensFromStates(loss.StateSyms, panel, b, cfg.ShockCopies, rng)
		if err != nil {
			return nil, fmt.Errorf("maliar: iteration %d: givens: %w", k, err)
		}

		prev := net.Parameters.Clone()
		l, err := ann.TrainBlockPolicyNet(net, givens, loss.Eval, cfg.Train, rng, logger)
		if err != nil {
			return nil, fmt.Errorf("maliar: iteration %d: optimize: %w", k, err)
		}

		panel, err = SimulateForward(panel, b, net.DecisionFunction(), params, 1, loss.StateSyms, rng)
		if err != nil {
			return nil, fmt.Errorf("maliar: iteration %d: advance: %w", k, err)
		}

		delta, err := net.Parameters.Nrm2Diff(prev)
		if err != nil {
			return nil, fmt.Errorf("maliar: iteration %d: %w", k, err)
		}
		res.Losses = append(res.Losses, l)
		res.Deltas = append(res.Deltas, delta)
		res.Iterations = k + 1
		logger.Printf("[train] run %s: iteration %d: loss = %v, delta = %v", res.RunID, k, l, delta)

		if cfg.Tolerance > 0 && delta < cfg.Tolerance {
			res.Converged = true
			break
		}
	}
	res.States = panel
	return res, nil
}
