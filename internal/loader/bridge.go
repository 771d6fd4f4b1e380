package loader

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// The foreign boundary is deliberately narrow: byte buffers in, one byte
// buffer out, a signed length as the return value. Negative return means
// the operation was mathematically invalid for its inputs.
const (
	symVersion    = "bigmod_version"
	symGMPMajor   = "bigmod_gmp_major"
	symGMPMinor   = "bigmod_gmp_minor"
	symGMPPatch   = "bigmod_gmp_patch"
	symModPow     = "bigmod_modpow"
	symModPowCT   = "bigmod_modpow_ct"
	symModInverse = "bigmod_modinverse"
)

// ErrDomain is returned when the native kernel rejects its operands
// (non-positive modulus, non-invertible pair).
var ErrDomain = errors.New("native backend: arithmetic domain error")

type triFunc func(uintptr, uint64, uintptr, uint64, uintptr, uint64, uintptr, uint64) int64
type biFunc func(uintptr, uint64, uintptr, uint64, uintptr, uint64) int64

// funcs holds the bound entry points. Version and modinverse symbols are
// nil on pre-versioning (legacy) builds.
type funcs struct {
	version    func() int32
	gmpMajor   func() int32
	gmpMinor   func() int32
	gmpPatch   func() int32
	modPow     triFunc
	modPowCT   triFunc
	modInverse biFunc
}

// bindLibrary binds symbols and probes capabilities. A build without the
// modpow entry point is not our library at all.
func bindLibrary(handle uintptr) (*Library, error) {
	var f funcs
	addr, err := dlSym(handle, symModPow)
	if err != nil {
		return nil, fmt.Errorf("missing symbol %s: %w", symModPow, err)
	}
	purego.RegisterFunc(&f.modPow, addr)

	if addr, err := dlSym(handle, symVersion); err == nil {
		purego.RegisterFunc(&f.version, addr)
	}
	if addr, err := dlSym(handle, symGMPMajor); err == nil {
		purego.RegisterFunc(&f.gmpMajor, addr)
	}
	if addr, err := dlSym(handle, symGMPMinor); err == nil {
		purego.RegisterFunc(&f.gmpMinor, addr)
	}
	if addr, err := dlSym(handle, symGMPPatch); err == nil {
		purego.RegisterFunc(&f.gmpPatch, addr)
	}
	if addr, err := dlSym(handle, symModPowCT); err == nil {
		purego.RegisterFunc(&f.modPowCT, addr)
	}
	if addr, err := dlSym(handle, symModInverse); err == nil {
		purego.RegisterFunc(&f.modInverse, addr)
	}

	return &Library{handle: handle, fns: f, caps: probe(f)}, nil
}

// ModPow computes base^exp mod modulus over canonical two's-complement
// big-endian buffers.
func (l *Library) ModPow(base, exp, modulus []byte) ([]byte, error) {
	return l.callTri(l.fns.modPow, symModPow, base, exp, modulus)
}

// ModPowCT is the constant-time variant; version 3 builds only.
func (l *Library) ModPowCT(base, exp, modulus []byte) ([]byte, error) {
	if l.fns.modPowCT == nil {
		return nil, fmt.Errorf("%s not provided by backend version %d", symModPowCT, l.caps.Version)
	}
	return l.callTri(l.fns.modPowCT, symModPowCT, base, exp, modulus)
}

// ModInverse computes the modular inverse; version 3 builds only.
func (l *Library) ModInverse(value, modulus []byte) ([]byte, error) {
	if l.fns.modInverse == nil {
		return nil, fmt.Errorf("%s not provided by backend version %d", symModInverse, l.caps.Version)
	}
	out := make([]byte, len(modulus)+1)
	rc := l.fns.modInverse(bufPtr(value), uint64(len(value)), bufPtr(modulus), uint64(len(modulus)), bufPtr(out), uint64(len(out)))
	runtime.KeepAlive(value)
	runtime.KeepAlive(modulus)
	return clampResult(out, rc, symModInverse)
}

func (l *Library) callTri(fn triFunc, sym string, base, exp, modulus []byte) ([]byte, error) {
	// result fits in len(modulus) bytes plus a possible sign byte
	out := make([]byte, len(modulus)+1)
	rc := fn(bufPtr(base), uint64(len(base)), bufPtr(exp), uint64(len(exp)), bufPtr(modulus), uint64(len(modulus)), bufPtr(out), uint64(len(out)))
	runtime.KeepAlive(base)
	runtime.KeepAlive(exp)
	runtime.KeepAlive(modulus)
	return clampResult(out, rc, sym)
}

func clampResult(out []byte, rc int64, sym string) ([]byte, error) {
	if rc < 0 {
		return nil, ErrDomain
	}
	if rc > int64(len(out)) {
		return nil, fmt.Errorf("%s wrote %d bytes into a %d byte buffer", sym, rc, len(out))
	}
	return out[:rc], nil
}

func bufPtr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
