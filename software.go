package bigmod

import "math/big"

// The software backend is math/big. It enforces the same domain rules as
// the native kernel so that callers cannot tell the backends apart by
// anything but speed.

func softModPow(x, e, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrNonPositiveModulus
	}
	if e.Sign() < 0 {
		inv := new(big.Int).ModInverse(x, m)
		if inv == nil {
			return nil, ErrNotCoprime
		}
		return inv.Exp(inv, new(big.Int).Neg(e), m), nil
	}
	return new(big.Int).Exp(x, e, m), nil
}

func softModInverse(x, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrNonPositiveModulus
	}
	inv := new(big.Int).ModInverse(x, m)
	if inv == nil {
		return nil, ErrNotCoprime
	}
	return inv, nil
}
