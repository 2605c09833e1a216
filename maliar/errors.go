package maliar

import "errors"

var (
	// ErrDivergence is returned when a period reward has a NaN or ±Inf
	// entry. The unroll stops at the first such period.
	ErrDivergence = errors.New("maliar: reward diverged")
	// ErrShapeMismatch covers horizon, givens layout and panel length
	// mismatches.
	ErrShapeMismatch = errors.New("maliar: shape mismatch")
	ErrNoReward      = errors.New("maliar: agent owns no reward")
	ErrNoNetwork     = errors.New("maliar: learned policy has no network")
)
