package ann

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/gonum"
)

// Backend selects the BLAS implementation used for network arithmetic.
type Backend int

const (
	// NativeBackend is gonum's pure Go BLAS.
	NativeBackend Backend = iota
	// NetlibBackend is cgo netlib BLAS; available with the netlib build tag.
	NetlibBackend
)

// netlibImplementation is set by backend_netlib.go.
var netlibImplementation blas.Float32

func (b Backend) String() string {
	switch b {
	case NativeBackend:
		return "native"
	case NetlibBackend:
		return "netlib"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

func ParseBackend(name string) (Backend, error) {
	for _, b := range []Backend{NativeBackend, NetlibBackend} {
		if b.String() == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("ann: backend %q: %w", name, errors.ErrUnsupported)
}

// Use installs b as the blas32 implementation.
func (b Backend) Use() error {
	switch b {
	case NativeBackend:
		blas32.Use(gonum.Implementation{})
		return nil
	case NetlibBackend:
		if netlibImplementation == nil {
			return fmt.Errorf("ann: netlib backend requires the netlib build tag: %w", errors.ErrUnsupported)
		}
		blas32.Use(netlibImplementation)
		return nil
	}
	return fmt.Errorf("ann: %v: %w", b, errors.ErrUnsupported)
}
