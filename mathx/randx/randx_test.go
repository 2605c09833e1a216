package randx_test

import (
	"testing"

	"github.com/sw965/skagent/mathx/randx"
)

func TestNewIsReproducible(t *testing.T) {
	seed := uint64(12)
	r1, r2 := randx.New(&seed), randx.New(&seed)
	for i := 0; i < 10; i++ {
		if a, b := r1.Uint64(), r2.Uint64(); a != b {
			t.Fatalf("draw %d: %d != %d", i, a, b)
		}
	}
}

func TestSplit(t *testing.T) {
	a := randx.Split(randx.NewMt19937(1), 3)
	b := randx.Split(randx.NewMt19937(1), 3)
	if len(a) != 3 {
		t.Fatalf("len = %d, want 3", len(a))
	}
	first := make([]uint64, len(a))
	for i := range a {
		first[i] = a[i].Uint64()
		if got := b[i].Uint64(); got != first[i] {
			t.Errorf("child %d differs between equally seeded parents", i)
		}
	}
	if first[0] == first[1] && first[1] == first[2] {
		t.Error("children should produce different streams")
	}
}

func TestRademacher(t *testing.T) {
	rng := randx.NewMt19937(3)
	seen := map[float32]bool{}
	for i := 0; i < 200; i++ {
		x := randx.Rademacher(rng)
		if x != 1.0 && x != -1.0 {
			t.Fatalf("Rademacher = %v", x)
		}
		seen[x] = true
	}
	if len(seen) != 2 {
		t.Error("both signs should appear")
	}
}
