// Package bigmod provides big-integer modular exponentiation and modular
// inverse, accelerated by a platform-specific native library when one can
// be loaded and transparently falling back to math/big otherwise. The two
// backends are behaviorally identical at domain boundaries; only the
// speed differs.
package bigmod

import (
	"math/big"
	"sync/atomic"
)

// Int is an immutable arbitrary-precision integer with a memoized
// canonical encoding. Share freely across goroutines.
type Int struct {
	v   *big.Int
	enc atomic.Pointer[[]byte]
}

// New wraps a copy of v.
func New(v *big.Int) *Int {
	return &Int{v: new(big.Int).Set(v)}
}

// NewInt64 wraps a small constant; handy in tests and benchmarks.
func NewInt64(v int64) *Int {
	return &Int{v: big.NewInt(v)}
}

// FromBytes decodes a canonical big-endian two's-complement value.
func FromBytes(b []byte) *Int {
	return &Int{v: fromTwosComplement(b)}
}

// FromString parses a decimal value.
func FromString(s string) (*Int, bool) {
	return FromStringRadix(s, 10)
}

// FromStringRadix parses a value in the given base (2..62, or 0 for
// prefix detection as in big.Int).
func FromStringRadix(s string, base int) (*Int, bool) {
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, false
	}
	return &Int{v: v}, true
}

// FromSignMagnitude builds a value from a sign (-1, 0, +1) and a
// big-endian magnitude.
func FromSignMagnitude(sign int, magnitude []byte) *Int {
	v := new(big.Int).SetBytes(magnitude)
	if sign < 0 {
		v.Neg(v)
	}
	if sign == 0 {
		v.SetInt64(0)
	}
	return &Int{v: v}
}

// BigInt returns a copy of the wrapped value.
func (x *Int) BigInt() *big.Int {
	return new(big.Int).Set(x.v)
}

func (x *Int) Sign() int {
	return x.v.Sign()
}

func (x *Int) Cmp(y *Int) int {
	return x.v.Cmp(y.v)
}

func (x *Int) String() string {
	return x.v.String()
}

// Bytes returns the canonical big-endian two's-complement encoding. It is
// computed at most once per value; later calls return the same cached
// slice, which callers must treat as read-only. A racing first call can
// recompute it redundantly, but both writers produce the same bytes, so
// no lock is needed.
func (x *Int) Bytes() []byte {
	if p := x.enc.Load(); p != nil {
		return *p
	}
	b := twosComplement(x.v)
	x.enc.CompareAndSwap(nil, &b)
	return *x.enc.Load()
}

// ModPow returns x^e mod m. m must be positive; negative e requires x and
// m to be coprime.
func (x *Int) ModPow(e, m *Int) (*Int, error) {
	return ensure().modPow(x, e, m)
}

// ModPowCT is ModPow through the backend's constant-time path when the
// loaded library provides one; otherwise it behaves exactly like ModPow.
func (x *Int) ModPowCT(e, m *Int) (*Int, error) {
	return ensure().modPowCT(x, e, m)
}

// ModInverse returns y with x*y ≡ 1 (mod m). Fails unless m > 0 and
// gcd(x, m) == 1.
func (x *Int) ModInverse(m *Int) (*Int, error) {
	return ensure().modInverse(x, m)
}
