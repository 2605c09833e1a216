package randx

import (
	"math/rand/v2"

	"github.com/seehuhn/mt19937"
	"github.com/sw965/omw/mathx/randx"
)

func Rademacher(rng *rand.Rand) float32 {
	if randx.Bool(rng) {
		return 1.0
	}
	return -1.0
}

// NewMt19937 returns a generator whose stream is fixed by seed.
func NewMt19937(seed uint64) *rand.Rand {
	src := mt19937.New()
	src.Seed(int64(seed))
	return rand.New(src)
}

// New returns a seeded MT19937 generator when seed is non-nil and an
// entropy-seeded PCG otherwise.
func New(seed *uint64) *rand.Rand {
	if seed == nil {
		return randx.NewPCG()
	}
	return NewMt19937(*seed)
}

// Split derives n independent generators from rng. The result depends only
// on the state of rng, so a seeded parent yields reproducible children.
func Split(rng *rand.Rand, n int) []*rand.Rand {
	rngs := make([]*rand.Rand, n)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
	}
	return rngs
}
