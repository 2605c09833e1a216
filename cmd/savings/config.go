package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/klauspost/cpuid/v2"
	"github.com/sw965/omw/encoding/jsonx"
)

type runConfig struct {
	Seed       *uint64 `json:"seed,omitempty"`
	Agents     int     `json:"agents"`
	Iterations int     `json:"iterations"`
	Epochs     int     `json:"epochs"`
	Horizon    int     `json:"horizon"`
	Beta       float32 `json:"beta"`
	CRRA       float32 `json:"crra"`
	Return     float32 `json:"return"`
	Width      int     `json:"width"`
	AssetMax   float64 `json:"asset_max"`
	Sampling   string  `json:"sampling"`
	Gradient   string  `json:"gradient"`
	Optimizer  string  `json:"optimizer"`
	Workers    int     `json:"workers"`
	Backend    string  `json:"backend"`
	Tolerance  float32 `json:"tolerance"`
	Output     string  `json:"output,omitempty"`
}

func defaultConfig() runConfig {
	workers := cpuid.CPU.LogicalCores
	if workers < 1 {
		workers = 1
	}
	return runConfig{
		Agents:     64,
		Iterations: 20,
		Epochs:     250,
		Horizon:    20,
		Beta:       0.95,
		CRRA:       2.0,
		Return:     1.03,
		Width:      16,
		AssetMax:   10.0,
		Sampling:   "latin-hypercube",
		Gradient:   "spsa",
		Optimizer:  "adam",
		Workers:    workers,
		Backend:    "native",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := envOr(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// loadConfig layers defaults, the JSON file, SKAGENT_* variables and
// flags, later layers winning.
func loadConfig(args []string) (runConfig, error) {
	fs := flag.NewFlagSet("savings", flag.ContinueOnError)
	path := fs.String("config", envOr("SKAGENT_CONFIG", ""), "JSON config file")
	seed := fs.Int64("seed", -1, "random seed, negative for entropy")
	iterations := fs.Int("iterations", 0, "training iterations")
	epochs := fs.Int("epochs", 0, "optimizer steps per iteration")
	agents := fs.Int("agents", 0, "panel size")
	out := fs.String("out", "", "write the run summary as JSON")
	if err := fs.Parse(args); err != nil {
		return runConfig{}, err
	}

	cfg := defaultConfig()
	if *path != "" {
		loaded, err := jsonx.Load[runConfig](*path)
		if err != nil {
			return runConfig{}, fmt.Errorf("config %s: %w", *path, err)
		}
		cfg = merge(cfg, loaded)
	}

	var err error
	if cfg.Agents, err = envInt("SKAGENT_AGENTS", cfg.Agents); err != nil {
		return runConfig{}, err
	}
	if cfg.Iterations, err = envInt("SKAGENT_ITERATIONS", cfg.Iterations); err != nil {
		return runConfig{}, err
	}
	if cfg.Epochs, err = envInt("SKAGENT_EPOCHS", cfg.Epochs); err != nil {
		return runConfig{}, err
	}
	cfg.Backend = envOr("SKAGENT_BACKEND", cfg.Backend)
	if v := envOr("SKAGENT_SEED", ""); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return runConfig{}, fmt.Errorf("SKAGENT_SEED: %w", err)
		}
		cfg.Seed = &s
	}

	if *seed >= 0 {
		s := uint64(*seed)
		cfg.Seed = &s
	}
	if *iterations > 0 {
		cfg.Iterations = *iterations
	}
	if *epochs > 0 {
		cfg.Epochs = *epochs
	}
	if *agents > 0 {
		cfg.Agents = *agents
	}
	if *out != "" {
		cfg.Output = *out
	}
	return cfg, nil
}

// merge overlays the non-zero fields of file on base.
func merge(base, file runConfig) runConfig {
	if file.Seed != nil {
		base.Seed = file.Seed
	}
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	setFloat32 := func(dst *float32, v float32) {
		if v != 0 {
			*dst = v
		}
	}
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt(&base.Agents, file.Agents)
	setInt(&base.Iterations, file.Iterations)
	setInt(&base.Epochs, file.Epochs)
	setInt(&base.Horizon, file.Horizon)
	setInt(&base.Width, file.Width)
	setInt(&base.Workers, file.Workers)
	setFloat32(&base.Beta, file.Beta)
	setFloat32(&base.CRRA, file.CRRA)
	setFloat32(&base.Return, file.Return)
	setFloat32(&base.Tolerance, file.Tolerance)
	if file.AssetMax != 0 {
		base.AssetMax = file.AssetMax
	}
	setString(&base.Sampling, file.Sampling)
	setString(&base.Gradient, file.Gradient)
	setString(&base.Optimizer, file.Optimizer)
	setString(&base.Backend, file.Backend)
	setString(&base.Output, file.Output)
	return base
}
