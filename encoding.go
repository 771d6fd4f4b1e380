package bigmod

import "math/big"

// Canonical wire form: minimal big-endian two's complement. This is what
// the native kernel consumes and produces, so the software side has to
// speak it bit for bit. 255 encodes as [0x00 0xFF]: the leading zero
// keeps the sign bit clear.

func twosComplement(v *big.Int) []byte {
	sign := v.Sign()
	if sign == 0 {
		return []byte{0}
	}
	if sign > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			padded := make([]byte, len(b)+1)
			copy(padded[1:], b)
			return padded
		}
		return b
	}

	// negative: minimal n with v >= -2^(8n-1), then encode v + 2^(8n)
	mag := new(big.Int).Neg(v)
	n := new(big.Int).Sub(mag, big.NewInt(1)).BitLen()/8 + 1
	shifted := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	shifted.Add(shifted, v)
	out := make([]byte, n)
	shifted.FillBytes(out)
	return out
}

func fromTwosComplement(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		span := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, span)
	}
	return v
}
