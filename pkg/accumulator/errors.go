package accumulator

import "errors"

// Sentinel errors returned by this package, wrapped with additional
// context via fmt.Errorf's %w at each call site.
var (
	// ErrInvalidInput is returned when a key encodes to a zero scalar or
	// parameters are otherwise malformed.
	ErrInvalidInput = errors.New("accumulator: invalid input")
	// ErrParamBudgetExceeded is returned when a set's size would require
	// more powers of the trapdoor than the public parameters carry.
	ErrParamBudgetExceeded = errors.New("accumulator: set size exceeds parameter budget")
	// ErrPairingCheckFailed is returned by verifiers when a pairing
	// equation does not hold.
	ErrPairingCheckFailed = errors.New("accumulator: pairing check failed")
	// ErrNotDisjoint is returned when a disjointness proof is requested
	// for two sets that share a key (their characteristic polynomials
	// are not coprime).
	ErrNotDisjoint = errors.New("accumulator: sets are not disjoint")
	// ErrNotExactDivisor is returned when an intersection/union proof's
	// polynomial division does not come out exact, meaning the claimed
	// intersection or union set was wrong.
	ErrNotExactDivisor = errors.New("accumulator: claimed set does not exactly divide the operand set")
)
