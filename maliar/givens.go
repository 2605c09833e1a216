package maliar

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"github.com/sw965/skagent/grid"
	"gonum.org/v1/gonum/spatial/r1"
)

// StateConfig describes where initial states are sampled.
type StateConfig struct {
	Bounds map[string]r1.Interval
	// Points per dimension for GridSampling, total rows otherwise.
	Points   int
	Sampling grid.Sampling
}

// drawSchedule draws shockCopies i.i.d. periods of every shock for n
// agents.
func drawSchedule(b *block.Block, n, shockCopies int, rng *rand.Rand) (ShockSchedule, error) {
	schedule := make(ShockSchedule, len(b.Shocks))
	for t := 0; t < shockCopies; t++ {
		draws, err := block.DrawShocks(b.Shocks, n, rng)
		if err != nil {
			return nil, err
		}
		for _, sym := range b.ShockSyms() {
			schedule[sym] = append(schedule[sym], draws[sym])
		}
	}
	return schedule, nil
}

// GenerateGivensFromStates uses the rows of states as initial points and
// draws fresh shocks for each of them.
func GenerateGivensFromStates(stateSyms []string, states env.Values, b *block.Block, shockCopies int, rng *rand.Rand) (Givens, error) {
	if shockCopies < 0 {
		return Givens{}, fmt.Errorf("%w: shockCopies >= 0 should hold: shockCopies = %d", ErrShapeMismatch, shockCopies)
	}
	selected, err := states.Select(stateSyms)
	if err != nil {
		return Givens{}, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	schedule, err := drawSchedule(b, selected.Len(), shockCopies, rng)
	if err != nil {
		return Givens{}, err
	}
	return FlattenGivens(stateSyms, selected, schedule, b.ShockSyms(), shockCopies)
}

// GenerateGivensFromStateConfig samples initial states inside cfg.Bounds.
// State columns come in sorted symbol order.
func GenerateGivensFromStateConfig(cfg StateConfig, b *block.Block, shockCopies int, rng *rand.Rand) (Givens, error) {
	g, err := grid.Sample(cfg.Bounds, cfg.Points, cfg.Sampling, rng)
	if err != nil {
		return Givens{}, err
	}
	states := make(env.Values, g.Width())
	for i, sym := range g.Syms {
		states[sym] = g.Values[i]
	}
	return GenerateGivensFromStates(slices.Sorted(maps.Keys(cfg.Bounds)), states, b, shockCopies, rng)
}
