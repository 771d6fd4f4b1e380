// Package bench compares the dispatching facade against a pure math/big
// reference, both for correctness and for speed. It is the library's
// self-test: every sample recomputes the same operation on both sides and
// any disagreement is a mismatch, never a rounding question.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/san-kum/bigmod"
)

type Mode int

const (
	ModeModPow Mode = iota
	ModeModPowCT
	ModeModInverse
)

func (m Mode) String() string {
	switch m {
	case ModeModPowCT:
		return "modpow_ct"
	case ModeModInverse:
		return "modinverse"
	}
	return "modpow"
}

// ParseMode maps a CLI argument to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "modpow", "":
		return ModeModPow, nil
	case "modpow_ct", "modpowct":
		return ModeModPowCT, nil
	case "modinverse", "modinv":
		return ModeModInverse, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

type Options struct {
	Mode Mode
	Runs int
	Bits int
	Seed int64

	// OnSample, when set, receives each sample as it completes; used by
	// the live view.
	OnSample func(Sample)
}

type Sample struct {
	Run       int
	Facade    time.Duration
	Reference time.Duration
}

type Result struct {
	Mode        Mode
	Runs        int
	Bits        int
	Seed        int64
	Accelerated bool
	FacadeTotal time.Duration
	RefTotal    time.Duration
	Mismatches  int
	Samples     []Sample
}

// Speedup is reference time over facade time; above 1.0 the facade wins.
func (r *Result) Speedup() float64 {
	if r.FacadeTotal <= 0 {
		return 0
	}
	return float64(r.RefTotal) / float64(r.FacadeTotal)
}

// Run executes opts.Runs rounds of the chosen operation over random
// operands of opts.Bits bits. Deterministic for a fixed seed.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Runs <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", opts.Runs)
	}
	if opts.Bits < 16 {
		return nil, fmt.Errorf("bits must be at least 16, got %d", opts.Bits)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	modulus := randomOddModulus(rng, opts.Bits)
	fm := bigmod.New(modulus)

	res := &Result{
		Mode:        opts.Mode,
		Runs:        opts.Runs,
		Bits:        opts.Bits,
		Seed:        opts.Seed,
		Accelerated: bigmod.IsAccelerated(),
		Samples:     make([]Sample, 0, opts.Runs),
	}

	for i := 0; i < opts.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		operand := randomBelow(rng, modulus)
		exponent := randomBits(rng, opts.Bits)

		var (
			got     *bigmod.Int
			gotErr  error
			want    *big.Int
			wantErr error
		)

		start := time.Now()
		switch opts.Mode {
		case ModeModPowCT:
			got, gotErr = bigmod.New(operand).ModPowCT(bigmod.New(exponent), fm)
		case ModeModInverse:
			got, gotErr = bigmod.New(operand).ModInverse(fm)
		default:
			got, gotErr = bigmod.New(operand).ModPow(bigmod.New(exponent), fm)
		}
		facade := time.Since(start)

		start = time.Now()
		switch opts.Mode {
		case ModeModInverse:
			if inv := new(big.Int).ModInverse(operand, modulus); inv == nil {
				wantErr = bigmod.ErrNotCoprime
			} else {
				want = inv
			}
		default:
			want = new(big.Int).Exp(operand, exponent, modulus)
		}
		ref := time.Since(start)

		if !agree(got, gotErr, want, wantErr) {
			res.Mismatches++
		}

		s := Sample{Run: i, Facade: facade, Reference: ref}
		res.Samples = append(res.Samples, s)
		res.FacadeTotal += facade
		res.RefTotal += ref
		if opts.OnSample != nil {
			opts.OnSample(s)
		}
	}
	return res, nil
}

func agree(got *bigmod.Int, gotErr error, want *big.Int, wantErr error) bool {
	if gotErr != nil || wantErr != nil {
		return errors.Is(gotErr, wantErr) || (gotErr != nil && wantErr != nil)
	}
	return got != nil && got.BigInt().Cmp(want) == 0
}

func randomOddModulus(rng *rand.Rand, bits int) *big.Int {
	m := randomBits(rng, bits)
	m.SetBit(m, bits-1, 1)
	m.SetBit(m, 0, 1)
	return m
}

func randomBits(rng *rand.Rand, bits int) *big.Int {
	buf := make([]byte, (bits+7)/8)
	rng.Read(buf)
	v := new(big.Int).SetBytes(buf)
	// trim to the requested width
	return v.Rsh(v, uint(len(buf)*8-bits))
}

func randomBelow(rng *rand.Rand, m *big.Int) *big.Int {
	v := randomBits(rng, m.BitLen())
	return v.Mod(v, m)
}
