package bigmod

import "errors"

// Domain errors are signaled identically no matter which backend ran the
// operation; callers can rely on errors.Is across software and native.
var (
	// ErrNonPositiveModulus is returned when an operation requires a
	// modulus greater than zero and did not get one.
	ErrNonPositiveModulus = errors.New("bigmod: modulus not positive")

	// ErrNotCoprime is returned when a modular inverse is required but
	// the value and modulus share a factor.
	ErrNotCoprime = errors.New("bigmod: value and modulus not coprime")
)
