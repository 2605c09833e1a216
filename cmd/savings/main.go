// Command savings trains a consumption-savings policy with the lifetime
// reward method and prints a summary of the final panel.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/klauspost/cpuid/v2"
	"github.com/sw965/omw/encoding/jsonx"
	"github.com/sw965/skagent/ann"
	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/env"
	"github.com/sw965/skagent/grid"
	"github.com/sw965/skagent/maliar"
	"github.com/sw965/skagent/mathx/randx"
	"github.com/sw965/skagent/models/consumer"
	"gonum.org/v1/gonum/spatial/r1"
)

type summary struct {
	RunID      string    `json:"run_id"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
	Losses     []float32 `json:"losses"`
	MeanAssets float32   `json:"mean_assets"`
	MinAssets  float32   `json:"min_assets"`
	MaxAssets  float32   `json:"max_assets"`
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)
	logger.Printf("cpu: %s, %d logical cores, avx2=%v, avx512f=%v",
		cpuid.CPU.BrandName, cpuid.CPU.LogicalCores, cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.AVX512F))

	s, err := run(cfg, logger)
	if err != nil {
		log.Fatalf("savings: %v", err)
	}

	fmt.Printf("run %s: %d iterations (converged=%v)\n", s.RunID, s.Iterations, s.Converged)
	if len(s.Losses) > 0 {
		fmt.Printf("  final loss: %v\n", s.Losses[len(s.Losses)-1])
	}
	fmt.Printf("  assets: mean %.4f | min %.4f | max %.4f\n", s.MeanAssets, s.MinAssets, s.MaxAssets)

	if cfg.Output != "" {
		if err := jsonx.Save(s, cfg.Output); err != nil {
			log.Fatalf("failed to save summary: %v", err)
		}
	}
}

func run(cfg runConfig, logger *log.Logger) (summary, error) {
	backend, err := ann.ParseBackend(cfg.Backend)
	if err != nil {
		return summary{}, err
	}
	sampling, err := grid.ParseSampling(cfg.Sampling)
	if err != nil {
		return summary{}, err
	}
	var gradient ann.GradEstimator
	switch cfg.Gradient {
	case "spsa":
		gradient = ann.SPSA{Workers: cfg.Workers}
	case "fd":
		gradient = ann.FiniteDifference{}
	default:
		return summary{}, fmt.Errorf("unknown gradient estimator %q", cfg.Gradient)
	}

	var opt ann.Optimizer
	switch cfg.Optimizer {
	case "adam":
	case "momentum":
		// 速度は最初の Step で確保され、反復をまたいで引き継がれる
		opt = ann.NewMomentum(nil, 0.01, 0.9)
	default:
		return summary{}, fmt.Errorf("unknown optimizer %q", cfg.Optimizer)
	}

	b := consumer.NewConsumptionBlock(consumer.Config{CRRA: cfg.CRRA})
	params := env.Merge(consumer.Params(), env.FromScalars(map[string]float32{"R": cfg.Return}))
	stateSyms := []string{"a"}

	// 初期パネルの乱数は学習とは別系列にする
	var panelSeed *uint64
	if cfg.Seed != nil {
		s := *cfg.Seed + 1
		panelSeed = &s
	}
	points, err := grid.Sample(map[string]r1.Interval{"a": {Min: 0, Max: cfg.AssetMax}}, cfg.Agents, sampling, randx.New(panelSeed))
	if err != nil {
		return summary{}, err
	}
	a, _ := points.Get("a")
	states0 := env.Values{"a": a}

	loss := maliar.NewLifetimeRewardLoss(stateSyms, b, maliar.ConstantDiscount(cfg.Beta), cfg.Horizon, params)
	loss.Agent = consumer.Agent

	res, err := maliar.TrainingLoop(b, loss, states0, params, maliar.Config{
		MaxIterations: cfg.Iterations,
		Epochs:        cfg.Epochs,
		Width:         cfg.Width,
		Seed:          cfg.Seed,
		Tolerance:     cfg.Tolerance,
		Net:           ann.Config{Output: ann.Sigmoid, Backend: backend},
		Train:         ann.TrainConfig{Gradient: gradient, Optimizer: opt},
		Logger:        logger,
	})
	if err != nil {
		return summary{}, err
	}

	final := res.States["a"]
	s := summary{
		RunID:      res.RunID,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Losses:     res.Losses,
		MeanAssets: vector.Mean(final),
		MinAssets:  final.Data[0],
		MaxAssets:  final.Data[0],
	}
	for _, x := range final.Data {
		s.MinAssets = min(s.MinAssets, x)
		s.MaxAssets = max(s.MaxAssets, x)
	}
	return s, nil
}
