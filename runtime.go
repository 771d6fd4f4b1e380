package bigmod

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/san-kum/bigmod/internal/config"
	"github.com/san-kum/bigmod/internal/loader"
	"github.com/san-kum/bigmod/internal/platform"
	"github.com/san-kum/bigmod/internal/resolve"
)

// state is the one-time resolution result every Int consults. It is
// published exactly once through initOnce and read-only afterwards.
type state struct {
	profile    platform.Profile
	tier       platform.Tier
	candidates []string
	native     native
	caps       loader.Capabilities
	result     loader.LoadResult
	status     string
}

var (
	initOnce sync.Once
	global   *state
)

// Initialize resolves the native backend with the given configuration.
// Call it once before any arithmetic; if it is never called, the first
// operation initializes with defaults. Later calls are no-ops: resolution
// happens exactly once per process.
func Initialize(cfg *config.Config, log *slog.Logger) {
	initOnce.Do(func() {
		global = initialize(cfg, log)
	})
}

func ensure() *state {
	initOnce.Do(func() {
		global = initialize(config.DefaultConfig(), nil)
	})
	return global
}

func initialize(cfg *config.Config, log *slog.Logger) *state {
	if log == nil {
		log = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	profile := platform.Detect()
	tier := platform.Classify(profile)

	armRev := 0
	if profile.Arch == platform.ArchARM {
		armRev = platform.ARMRevision(platform.CPUInfo())
	}

	rules := resolve.DefaultRules()
	if cfg.RuleFile != "" {
		loaded, err := resolve.LoadRules(cfg.RuleFile)
		if err != nil {
			log.Warn("equivalence rule table unreadable, using built-in", "path", cfg.RuleFile, "err", err)
		} else {
			rules = loaded
		}
	}

	candidates := resolve.Candidates(profile, tier, armRev, rules)

	lib, result := loader.Resolve(loader.Options{
		Enabled:    cfg.Enable,
		SystemName: profile.LibPrefix + resolve.LibName + profile.LibSuffix,
		Forced:     cfg.ForcedImpl(),
		Candidates: candidates,
		Resources:  loader.Dir(cfg.ResourceDir),
		TempDir:    cfg.TempDir,
		CacheDir:   cfg.CacheDir,
		Log:        log,
	})

	s := &state{
		profile:    profile,
		tier:       tier,
		candidates: candidates,
		result:     result,
	}
	if lib != nil {
		s.native = lib
		s.caps = lib.Capabilities()
		s.status = fmt.Sprintf("native library loaded from %s (version %d, GMP %s)",
			result.Source, s.caps.Version, s.caps.GMPVersion)
		if result.Candidate != "" {
			s.status = fmt.Sprintf("native library %s loaded from %s (version %d, GMP %s)",
				result.Candidate, result.Source, s.caps.Version, s.caps.GMPVersion)
		}
		log.Info(s.status)
	} else {
		s.status = "native library " + resolve.LibName + " not loaded - using pure software: " + result.Reason
		log.Warn(s.status)
	}
	return s
}

// IsAccelerated reports whether the native backend is in use.
func IsAccelerated() bool {
	return ensure().caps.Loaded
}

// BackendVersion returns the native library version, or 0 when no native
// library is loaded.
func BackendVersion() int {
	s := ensure()
	if !s.caps.Loaded {
		return 0
	}
	return s.caps.Version
}

// BackendLibVersion returns the underlying bignum library version, or
// "unknown" when unavailable.
func BackendLibVersion() string {
	s := ensure()
	if !s.caps.Loaded {
		return loader.GMPUnknown
	}
	return s.caps.GMPVersion
}

// LoadedCandidateName returns the bundled resource that was loaded, or
// "" for a system-path load or software-only mode.
func LoadedCandidateName() string {
	return ensure().result.Candidate
}

// LoadStatus returns the last human-readable resolution status.
func LoadStatus() string {
	return ensure().status
}

// CPUTier returns the detected microarchitecture tier name.
func CPUTier() string {
	return ensure().tier.String()
}

// CPUModel returns the host CPU model string.
func CPUModel() string {
	return platform.CPUModel()
}

// CandidateNames returns the resolution order computed at startup.
func CandidateNames() []string {
	s := ensure()
	out := make([]string, len(s.candidates))
	copy(out, s.candidates)
	return out
}
