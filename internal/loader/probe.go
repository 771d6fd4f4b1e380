package loader

import "fmt"

// legacyVersion is assumed for any build that predates the version query.
const legacyVersion = 2

// GMPUnknown is the dependency-library version sentinel.
const GMPUnknown = "unknown"

// Capabilities describes what a loaded backend can do. Derived once from
// the bound symbols and never changed.
type Capabilities struct {
	Loaded  bool
	Version int

	// all three arrived together in version 3
	ConstantTime     bool
	ModInverse       bool
	NegativeOperands bool

	// dotted version of the underlying bignum library, GMPUnknown when
	// the build cannot report it
	GMPVersion string
}

// probe derives capabilities from bound symbols. Every query failure is
// absorbed: an unreadable version means a legacy build, an unreadable
// GMP version stays at the sentinel. Nothing propagates.
func probe(f funcs) Capabilities {
	caps := Capabilities{Loaded: true, Version: legacyVersion, GMPVersion: GMPUnknown}

	if f.version != nil {
		if v := safeInt(f.version); v > legacyVersion {
			caps.Version = v
		}
	}
	if caps.Version >= 3 {
		caps.ConstantTime = true
		caps.ModInverse = true
		caps.NegativeOperands = true
		caps.GMPVersion = gmpVersion(f)
	}
	return caps
}

func gmpVersion(f funcs) string {
	if f.gmpMajor == nil || f.gmpMinor == nil || f.gmpPatch == nil {
		return GMPUnknown
	}
	maj, min, pat := safeInt(f.gmpMajor), safeInt(f.gmpMinor), safeInt(f.gmpPatch)
	if maj <= 0 {
		return GMPUnknown
	}
	return fmt.Sprintf("%d.%d.%d", maj, min, pat)
}

// safeInt shields the probe from a misbehaving foreign call; failures
// read as 0 and the caller treats that as "not supported".
func safeInt(fn func() int32) (v int) {
	defer func() {
		if recover() != nil {
			v = 0
		}
	}()
	return int(fn())
}
