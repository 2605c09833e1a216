package ann_test

import (
	"errors"
	"testing"

	omwmath "github.com/sw965/omw/mathx"
	"github.com/sw965/skagent/ann"
	tensor2d "github.com/sw965/skagent/blas32/tensor/2d"
	"github.com/sw965/skagent/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
)

func TestAffineForward(t *testing.T) {
	// x: 2×2, W: 2×1
	x := blas32.General{Rows: 2, Cols: 2, Stride: 2, Data: []float32{1, 2, 3, 4}}
	param := &ann.Parameter{
		Weight: blas32.General{Rows: 2, Cols: 1, Stride: 1, Data: []float32{0.5, -1}},
		Bias:   vector.NewScalar(1.0),
	}
	y, err := ann.AffineForward(x, param)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float32{1*0.5 - 2 + 1, 3*0.5 - 4 + 1}
	for i, w := range want {
		if y.Data[i] != w {
			t.Errorf("y[%d] = %v, want %v", i, y.Data[i], w)
		}
	}

	bad := tensor2d.NewZeros(2, 3)
	if _, err := ann.AffineForward(bad, param); err == nil {
		t.Error("expected column mismatch error")
	}
}

func TestActivationFunc(t *testing.T) {
	tests := []struct {
		name string
		a    ann.Activation
		x    float32
		want float32
	}{
		{name: "正常_Identity", a: ann.Identity, x: -2.0, want: -2.0},
		{name: "正常_SiLU_0", a: ann.SiLU, x: 0.0, want: 0.0},
		{name: "正常_LeakyReLU_正", a: ann.LeakyReLU, x: 3.0, want: 3.0},
		{name: "正常_LeakyReLU_負", a: ann.LeakyReLU, x: -2.0, want: -0.2},
		{name: "正常_Sigmoid_0", a: ann.Sigmoid, x: 0.0, want: 0.5},
		{name: "正常_Softplus_大", a: ann.Softplus, x: 30.0, want: 30.0},
		{name: "正常_Softplus_0", a: ann.Softplus, x: 0.0, want: 0.6931472},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := tc.a.Func()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f(tc.x); !omwmath.ApproxEqual(got, tc.want, 1e-5) {
				t.Errorf("%v(%v) = %v, want %v", tc.a, tc.x, got, tc.want)
			}
		})
	}
}

func TestParseActivation(t *testing.T) {
	for _, a := range []ann.Activation{ann.Identity, ann.SiLU, ann.LeakyReLU, ann.Sigmoid, ann.Softplus} {
		got, err := ann.ParseActivation(a.String())
		if err != nil || got != a {
			t.Errorf("ParseActivation(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ann.ParseActivation("tanh"); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}
