package ann_test

import (
	"errors"
	"testing"

	"github.com/sw965/skagent/ann"
	"github.com/sw965/skagent/blas32/vector"
	"github.com/sw965/skagent/block"
	"github.com/sw965/skagent/env"
	"github.com/sw965/skagent/mathx/randx"
	"gonum.org/v1/gonum/blas/blas32"
)

func newSavings() *block.Block {
	return &block.Block{
		Name: "savings",
		Steps: []block.Step{
			block.Control{Sym: "c", InfoSet: []string{"a"}, Agent: "consumer"},
			block.Dynamic{Sym: "u", Inputs: []string{"c"}, Rule: func(v env.Values) blas32.Vector {
				return v["c"]
			}},
			block.Dynamic{Sym: "a", Rule: func(v env.Values) blas32.Vector {
				return vector.Sub(v["a"], v["c"])
			}},
		},
		Reward: map[string]string{"u": "consumer"},
	}
}

// halfNet は c = 0.5·a を返す 1 層のネット。
func halfNet(b *block.Block) *ann.BlockPolicyNet {
	control, _ := b.ControlSpec("c")
	net := &ann.Net{NIn: 1, NOut: 1}
	net.Parameters = ann.Parameters{{
		Weight: blas32.General{Rows: 1, Cols: 1, Stride: 1, Data: []float32{0.5}},
		Bias:   vector.NewScalar(0.0),
	}}
	net.Forwards = ann.Forwards{ann.AffineForward}
	return &ann.BlockPolicyNet{Net: net, Block: b, Control: control}
}

func TestBlockPolicyNetDecide(t *testing.T) {
	p := halfNet(newSavings())
	states := env.Values{"a": vector.NewFromSlice([]float32{10, 4, 2})}

	decisions, err := p.DecisionFunction()(states, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := decisions["c"]
	// 遷移後の a ではなく、制御時点の a を観測する
	want := []float32{5, 2, 1}
	for i, w := range want {
		if c.Data[i] != w {
			t.Errorf("c[%d] = %v, want %v", i, c.Data[i], w)
		}
	}
	if len(decisions) != 1 {
		t.Errorf("decisions should hold only the control: %v", decisions.Syms())
	}
}

func TestBlockPolicyNetWithParameters(t *testing.T) {
	p := halfNet(newSavings())
	ps := p.Parameters.Clone()
	ps[0].Weight.Data[0] = 0.25

	states := env.Values{"a": vector.NewScalar(8.0)}
	got, err := p.WithParameters(ps).Decide(states, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["c"].Data[0] != 2.0 {
		t.Errorf("c = %v, want 2", got["c"].Data[0])
	}
	orig, err := p.Decide(states, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orig["c"].Data[0] != 4.0 {
		t.Errorf("original net changed: c = %v, want 4", orig["c"].Data[0])
	}
}

func TestNewBlockPolicyNet(t *testing.T) {
	twoControls := newSavings()
	twoControls.Steps = append(twoControls.Steps, block.Control{Sym: "s", InfoSet: []string{"a"}})

	noInfo := newSavings()
	noInfo.Steps[0] = block.Control{Sym: "c"}

	tests := []struct {
		name    string
		b       *block.Block
		wantErr bool
		wantIs  error
	}{
		{name: "正常", b: newSavings()},
		{name: "異常_制御が2つ", b: twoControls, wantErr: true, wantIs: errors.ErrUnsupported},
		{name: "異常_情報集合が空", b: noInfo, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ann.NewBlockPolicyNet(tc.b, ann.Config{Width: 4, Output: ann.Sigmoid}, randx.NewMt19937(1))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tc.wantIs != nil && !errors.Is(err, tc.wantIs) {
					t.Errorf("err = %v, want %v", err, tc.wantIs)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := p.Decide(env.Values{"a": vector.NewFromSlice([]float32{1, 2})}, nil, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, c := range got["c"].Data {
				if c <= 0.0 || c >= 1.0 {
					t.Errorf("sigmoid output %v should lie in (0, 1)", c)
				}
			}
		})
	}
}
