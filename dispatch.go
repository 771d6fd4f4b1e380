package bigmod

import (
	"errors"

	"github.com/san-kum/bigmod/internal/loader"
)

// native is the byte-buffer boundary to the loaded library. It is
// satisfied by *loader.Library and by fakes in tests.
type native interface {
	ModPow(base, exp, modulus []byte) ([]byte, error)
	ModPowCT(base, exp, modulus []byte) ([]byte, error)
	ModInverse(value, modulus []byte) ([]byte, error)
}

type route int

const (
	routeSoftware route = iota
	routeNative
)

// pickModPow decides the backend from capabilities and operand signs
// alone. Version 3 builds convert negative operands safely; the legacy
// build does not, so anything a legacy kernel could mishandle is steered
// to software, which raises the same errors the version 3 kernel would.
func pickModPow(caps loader.Capabilities, baseSign, expSign, modSign int) route {
	if caps.NegativeOperands {
		return routeNative
	}
	if caps.Loaded && baseSign >= 0 && expSign >= 0 && modSign > 0 {
		return routeNative
	}
	return routeSoftware
}

func (s *state) modPow(x, e, m *Int) (*Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrNonPositiveModulus
	}
	if pickModPow(s.caps, x.Sign(), e.Sign(), m.Sign()) == routeNative {
		out, err := s.native.ModPow(x.Bytes(), e.Bytes(), m.Bytes())
		switch {
		case err == nil:
			return FromBytes(out), nil
		case errors.Is(err, loader.ErrDomain):
			// negative exponent with a non-invertible base
			return nil, ErrNotCoprime
		}
		// backend misbehaved; the answer still has to be right
	}
	v, err := softModPow(x.v, e.v, m.v)
	if err != nil {
		return nil, err
	}
	return &Int{v: v}, nil
}

func (s *state) modPowCT(x, e, m *Int) (*Int, error) {
	if !s.caps.ConstantTime {
		return s.modPow(x, e, m)
	}
	if m.Sign() <= 0 {
		return nil, ErrNonPositiveModulus
	}
	out, err := s.native.ModPowCT(x.Bytes(), e.Bytes(), m.Bytes())
	switch {
	case err == nil:
		return FromBytes(out), nil
	case errors.Is(err, loader.ErrDomain):
		return nil, ErrNotCoprime
	}
	return s.modPow(x, e, m)
}

func (s *state) modInverse(x, m *Int) (*Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrNonPositiveModulus
	}
	if s.caps.ModInverse {
		out, err := s.native.ModInverse(x.Bytes(), m.Bytes())
		switch {
		case err == nil:
			return FromBytes(out), nil
		case errors.Is(err, loader.ErrDomain):
			return nil, ErrNotCoprime
		}
	}
	v, err := softModInverse(x.v, m.v)
	if err != nil {
		return nil, err
	}
	return &Int{v: v}, nil
}
