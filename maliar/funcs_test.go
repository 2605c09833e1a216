package maliar_test

import (
	"errors"
	"testing"

	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"github.com/sw965/skagent/maliar"
	"gonum.org/v1/gonum/blas/blas32"
)

func TestNewTransitionFunc(t *testing.T) {
	noop := &block.Block{
		Name: "noop",
		Steps: []block.Step{
			block.Control{Sym: "c", InfoSet: []string{"a"}},
			block.Dynamic{Sym: "a", Inputs: []string{"a"}, Rule: func(v env.Values) blas32.Vector {
				return v["a"]
			}},
		},
	}

	tests := []struct {
		name    string
		b       *block.Block
		states  env.Values
		shocks  env.Values
		want    float32
		wantErr error
	}{
		{
			name:   "正常_恒等遷移は状態を変えない",
			b:      noop,
			states: env.FromScalars(map[string]float32{"a": 4.0}),
			want:   4.0,
		},
		{
			name:   "正常_貯蓄",
			b:      newSavings(),
			states: env.FromScalars(map[string]float32{"a": 4.0}),
			shocks: env.FromScalars(map[string]float32{"theta": 1.0}),
			want:   4.0,
		},
		{
			name:    "異常_ショック欠落",
			b:       newSavings(),
			states:  env.FromScalars(map[string]float32{"a": 4.0}),
			wantErr: block.ErrMissingSymbol,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tf := maliar.NewTransitionFunc(tc.b, []string{"a"})
			controls := env.FromScalars(map[string]float32{"c": 1.0})
			got, err := tf(tc.states, tc.shocks, controls, nil)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 {
				t.Errorf("next states should hold only a: %v", got.Syms())
			}
			if got["a"].Data[0] != tc.want {
				t.Errorf("a' = %v, want %v", got["a"].Data[0], tc.want)
			}
		})
	}
}

func TestTransitionFuncNoOpOverHorizon(t *testing.T) {
	noop := &block.Block{
		Name: "noop",
		Steps: []block.Step{
			block.Control{Sym: "c", InfoSet: []string{"a"}},
			block.Dynamic{Sym: "a", Inputs: []string{"a"}, Rule: func(v env.Values) blas32.Vector {
				return v["a"]
			}},
		},
	}
	tf := maliar.NewTransitionFunc(noop, []string{"a"})
	controls := env.FromScalars(map[string]float32{"c": 1.0})

	for _, bigT := range []int{0, 1, 5} {
		states := env.Values{"a": vector.NewFromSlice([]float32{4.0, -2.0})}
		for range bigT {
			next, err := tf(states, nil, controls, nil)
			if err != nil {
				t.Fatalf("T = %d: unexpected error: %v", bigT, err)
			}
			states = next
		}
		if got := states["a"].Data; got[0] != 4.0 || got[1] != -2.0 {
			t.Errorf("T = %d: a = %v, want [4 -2]", bigT, got)
		}
	}
}

func TestNewRewardFunc(t *testing.T) {
	b := newSavings()
	states := env.FromScalars(map[string]float32{"a": 4.0})
	shocks := env.FromScalars(map[string]float32{"theta": 0.0})
	controls := env.FromScalars(map[string]float32{"c": 1.5})

	got, err := maliar.NewRewardFunc(b, "consumer")(states, shocks, controls, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got["u"].Data[0] != 1.5 {
		t.Errorf("rewards = %v, want u = 1.5", got)
	}

	none, err := maliar.NewRewardFunc(b, "firm")(states, shocks, controls, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("firm owns no reward: %v", none)
	}
}

func TestPolicies(t *testing.T) {
	b := newSavings()
	states := env.Values{"a": vector.NewFromSlice([]float32{2, 6})}
	shocks := env.FromScalars(map[string]float32{"theta": 0.0})

	raw := maliar.DecisionFunc(func(states, _, _ env.Values) (env.Values, error) {
		return env.Values{"c": vector.Scale(0.25, states["a"])}, nil
	})

	tests := []struct {
		name    string
		policy  maliar.Policy
		want    []float32
		wantErr bool
	}{
		{name: "正常_閉形式", policy: fraction(0.5), want: []float32{1, 3}},
		{name: "正常_関数", policy: raw, want: []float32{0.5, 1.5}},
		{name: "異常_ネットなし", policy: maliar.Learned{}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.policy.DecisionFunc(b)(states, shocks, nil)
			if tc.wantErr {
				if !errors.Is(err, maliar.ErrNoNetwork) {
					t.Fatalf("err = %v, want ErrNoNetwork", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i, w := range tc.want {
				if got["c"].Data[i] != w {
					t.Errorf("c[%d] = %v, want %v", i, got["c"].Data[i], w)
				}
			}
		})
	}
}
