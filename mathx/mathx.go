package mathx

import (
	"github.com/chewxy/math32"
)

func CentralDifference(plusY, minusY, h float32) float32 {
	return (plusY - minusY) / (2.0 * h)
}

// DiscountPowers returns [1, beta, beta^2, ..., beta^(n-1)].
func DiscountPowers(beta float32, n int) []float32 {
	ps := make([]float32, n)
	for t := range ps {
		ps[t] = math32.Pow(beta, float32(t))
	}
	return ps
}

func Sigmoid(x float32) float32 {
	return 1.0 / (1.0 + math32.Exp(-x))
}

// Softplus は log(1 + e^x)。大きい x でのオーバーフローを避ける。
func Softplus(x float32) float32 {
	if x > 20.0 {
		return x
	}
	return math32.Log1p(math32.Exp(x))
}
