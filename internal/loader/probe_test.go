package loader

import "testing"

func constInt(v int32) func() int32 {
	return func() int32 { return v }
}

func panicInt() int32 {
	panic("foreign call blew up")
}

func TestProbeLegacyBuild(t *testing.T) {
	caps := probe(funcs{})
	if !caps.Loaded {
		t.Error("probed library should report Loaded")
	}
	if caps.Version != 2 {
		t.Errorf("Version = %d, want 2 for a build with no version symbol", caps.Version)
	}
	if caps.ConstantTime || caps.ModInverse || caps.NegativeOperands {
		t.Errorf("legacy build claims version 3 capabilities: %+v", caps)
	}
	if caps.GMPVersion != GMPUnknown {
		t.Errorf("GMPVersion = %q, want %q", caps.GMPVersion, GMPUnknown)
	}
}

func TestProbeVersion3(t *testing.T) {
	caps := probe(funcs{
		version:  constInt(3),
		gmpMajor: constInt(6),
		gmpMinor: constInt(2),
		gmpPatch: constInt(1),
	})
	if caps.Version != 3 {
		t.Errorf("Version = %d, want 3", caps.Version)
	}
	if !caps.ConstantTime || !caps.ModInverse || !caps.NegativeOperands {
		t.Errorf("version 3 capabilities missing: %+v", caps)
	}
	if caps.GMPVersion != "6.2.1" {
		t.Errorf("GMPVersion = %q, want 6.2.1", caps.GMPVersion)
	}
}

func TestProbeVersionQueryFailures(t *testing.T) {
	// a version symbol that crashes reads as a legacy build
	caps := probe(funcs{version: panicInt})
	if caps.Version != 2 {
		t.Errorf("panicking version query: Version = %d, want 2", caps.Version)
	}

	// a version of 0 is nonsense; legacy again
	caps = probe(funcs{version: constInt(0)})
	if caps.Version != 2 {
		t.Errorf("zero version: Version = %d, want 2", caps.Version)
	}
}

func TestProbeGMPQueryFailures(t *testing.T) {
	// crashing gmp query stays at the sentinel but keeps version 3
	caps := probe(funcs{
		version:  constInt(3),
		gmpMajor: panicInt,
		gmpMinor: constInt(2),
		gmpPatch: constInt(1),
	})
	if caps.Version != 3 || !caps.ModInverse {
		t.Errorf("gmp failure must not demote the build: %+v", caps)
	}
	if caps.GMPVersion != GMPUnknown {
		t.Errorf("GMPVersion = %q, want %q", caps.GMPVersion, GMPUnknown)
	}

	// partially bound gmp symbols read the same way
	caps = probe(funcs{version: constInt(3), gmpMajor: constInt(6)})
	if caps.GMPVersion != GMPUnknown {
		t.Errorf("partial gmp symbols: GMPVersion = %q, want %q", caps.GMPVersion, GMPUnknown)
	}
}

func TestProbeFutureVersion(t *testing.T) {
	caps := probe(funcs{
		version:  constInt(5),
		gmpMajor: constInt(6),
		gmpMinor: constInt(3),
		gmpPatch: constInt(0),
	})
	if caps.Version != 5 {
		t.Errorf("Version = %d, want 5", caps.Version)
	}
	if !caps.ConstantTime || caps.GMPVersion != "6.3.0" {
		t.Errorf("future version loses capabilities: %+v", caps)
	}
}
