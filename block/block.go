// Package block describes a discrete-time model: state, shock and control
// variables, the equations that carry values through one period, and which
// agent owns each reward.
package block

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/sw965/skagent/env"
	"gonum.org/v1/gonum/blas/blas32"
)

var (
	ErrMissingSymbol       = errors.New("block: missing symbol")
	ErrMissingDecisionRule = errors.New("block: control has no decision rule")
)

// DecisionRule maps the information set of a control to its value.
type DecisionRule func(env.Values) blas32.Vector

type DecisionRules map[string]DecisionRule

// DecisionFunc maps period states, shocks and parameters to control values.
type DecisionFunc func(states, shocks, params env.Values) (env.Values, error)

// Syms returns the controls covered by the rules, sorted.
func (drs DecisionRules) Syms() []string {
	return slices.Sorted(maps.Keys(drs))
}

// Step is one entry of a block's dynamics, evaluated in declaration order.
type Step interface {
	Symbol() string
}

// Dynamic is an equation Sym = Rule(values). When Inputs is non-nil the
// rule only observes those symbols.
type Dynamic struct {
	Sym    string
	Inputs []string
	Rule   func(env.Values) blas32.Vector
}

func (d Dynamic) Symbol() string { return d.Sym }

// Control is a variable chosen by an agent. InfoSet lists what the
// decision rule may observe.
type Control struct {
	Sym     string
	InfoSet []string
	Agent   string
}

func (c Control) Symbol() string { return c.Sym }

type Block struct {
	Name   string
	Shocks map[string]Shock
	Steps  []Step
	// Reward maps a reward symbol to the agent that owns it.
	Reward map[string]string
}

// Validate checks that step symbols are unique, shock symbols are not
// redefined by a step, and every reward is computed by some step.
func (b *Block) Validate() error {
	seen := map[string]bool{}
	for _, s := range b.Steps {
		sym := s.Symbol()
		if sym == "" {
			return fmt.Errorf("block %s: step with empty symbol", b.Name)
		}
		if seen[sym] {
			return fmt.Errorf("block %s: duplicate symbol %q", b.Name, sym)
		}
		if _, ok := b.Shocks[sym]; ok {
			return fmt.Errorf("block %s: %q is both a shock and a step", b.Name, sym)
		}
		if d, ok := s.(Dynamic); ok && d.Rule == nil {
			return fmt.Errorf("block %s: dynamic %q has no rule", b.Name, sym)
		}
		seen[sym] = true
	}
	for _, sym := range slices.Sorted(maps.Keys(b.Reward)) {
		if !seen[sym] {
			return fmt.Errorf("block %s: reward %q is not computed by any step", b.Name, sym)
		}
	}
	return nil
}

// Controls returns control symbols in declaration order.
func (b *Block) Controls() []string {
	syms := []string{}
	for _, s := range b.Steps {
		if c, ok := s.(Control); ok {
			syms = append(syms, c.Sym)
		}
	}
	return syms
}

func (b *Block) ControlSpec(sym string) (Control, bool) {
	for _, s := range b.Steps {
		if c, ok := s.(Control); ok && c.Sym == sym {
			return c, true
		}
	}
	return Control{}, false
}

func (b *Block) ShockSyms() []string {
	return slices.Sorted(maps.Keys(b.Shocks))
}

// RewardSyms returns the reward symbols owned by agent, sorted. An empty
// agent selects every reward.
func (b *Block) RewardSyms(agent string) []string {
	syms := []string{}
	for _, sym := range slices.Sorted(maps.Keys(b.Reward)) {
		if agent == "" || b.Reward[sym] == agent {
			syms = append(syms, sym)
		}
	}
	return syms
}

func observe(post env.Values, syms []string) (env.Values, error) {
	if syms == nil {
		return post, nil
	}
	obs, err := post.Select(syms)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingSymbol, err)
	}
	return obs, nil
}

// Transition runs the steps once over a copy of vals. A symbol listed in
// fix that is already present keeps its value. A control takes the value
// of its decision rule, falling back to a value already present in vals.
func (b *Block) Transition(vals env.Values, rules DecisionRules, fix []string) (env.Values, error) {
	post := maps.Clone(vals)
	if post == nil {
		post = env.Values{}
	}

	for _, s := range b.Steps {
		sym := s.Symbol()
		if slices.Contains(fix, sym) && post.Has(sym) {
			continue
		}

		switch s := s.(type) {
		case Dynamic:
			obs, err := observe(post, s.Inputs)
			if err != nil {
				return nil, fmt.Errorf("block %s: dynamic %q: %w", b.Name, sym, err)
			}
			post[sym] = s.Rule(obs)
		case Control:
			rule, ok := rules[sym]
			if !ok {
				if post.Has(sym) {
					continue
				}
				return nil, fmt.Errorf("block %s: %w: %q", b.Name, ErrMissingDecisionRule, sym)
			}
			obs, err := observe(post, s.InfoSet)
			if err != nil {
				return nil, fmt.Errorf("block %s: control %q: %w", b.Name, sym, err)
			}
			post[sym] = rule(obs)
		default:
			return nil, fmt.Errorf("block %s: unknown step type %T for %q", b.Name, s, sym)
		}
	}
	return post, nil
}
