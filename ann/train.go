package ann

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/grid"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/floats"
)

type TrainConfig struct {
	// 0 means 250.
	Epochs int
	// 0 means 0.01.
	LearningRate float32
	// nil means SPSA with its defaults.
	Gradient GradEstimator
	// nil means a fresh Adam per call with LearningRate. A given optimizer
	// keeps its state across calls.
	Optimizer Optimizer
	// 0 means 100. Negative disables logging.
	LogEvery int
}

func (c TrainConfig) withDefaults() TrainConfig {
	if c.Epochs == 0 {
		c.Epochs = 250
	}
	if c.LearningRate == 0 {
		c.LearningRate = 0.01
	}
	if c.Gradient == nil {
		c.Gradient = SPSA{}
	}
	if c.LogEvery == 0 {
		c.LogEvery = 100
	}
	return c
}

// NetLoss maps a decision function and a batch of givens to one loss per
// sample.
type NetLoss func(df block.DecisionFunc, givens grid.Grid) (blas32.Vector, error)

// AggregateNetLoss is the empirical risk: the mean of per-sample losses.
func AggregateNetLoss(givens grid.Grid, df block.DecisionFunc, loss NetLoss) (float32, error) {
	losses, err := loss(df, givens)
	if err != nil {
		return 0.0, err
	}
	if losses.N != givens.Len() && losses.N != 1 {
		return 0.0, fmt.Errorf("ann: loss returned %d values for %d samples", losses.N, givens.Len())
	}
	return vector.Mean(losses), nil
}

// TrainBlockPolicyNet updates net's parameters in place and returns the
// empirical risk measured before the last update.
func TrainBlockPolicyNet(net *BlockPolicyNet, givens grid.Grid, loss NetLoss, cfg TrainConfig, rng *rand.Rand, logger *log.Logger) (float32, error) {
	cfg = cfg.withDefaults()
	if cfg.Epochs < 0 {
		return 0.0, fmt.Errorf("ann: Epochs >= 0 should hold: Epochs = %d", cfg.Epochs)
	}

	risk := func(ps Parameters) (float32, error) {
		return AggregateNetLoss(givens, net.WithParameters(ps).DecisionFunction(), loss)
	}

	opt := cfg.Optimizer
	if opt == nil {
		opt = NewAdam(net.Parameters, cfg.LearningRate)
	}
	var last float32
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		l, err := risk(net.Parameters)
		if err != nil {
			return 0.0, fmt.Errorf("ann: epoch %d: %w", epoch, err)
		}
		grads, err := cfg.Gradient.Estimate(net.Parameters, risk, l, rng)
		if err != nil {
			return 0.0, fmt.Errorf("ann: epoch %d: %w", epoch, err)
		}
		if err := opt.Step(net.Parameters, grads); err != nil {
			return 0.0, err
		}
		last = l

		if logger != nil && cfg.LogEvery > 0 && epoch%cfg.LogEvery == 0 {
			logger.Printf("[ann] epoch %d: loss = %v, |grad| = %.4g", epoch, l, floats.Norm(grads.Flatten(), 2))
		}
	}
	return last, nil
}
