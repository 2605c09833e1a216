//go:build netlib

package ann

import (
	"gonum.org/v1/netlib/blas/netlib"
)

func init() {
	netlibImplementation = netlib.Implementation{}
}
