package platform

import (
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// Classify maps the host CPU to the best optimization tier we ship a
// build for. Anything that goes wrong during identification yields
// TierUnknown; the candidate generator then falls back to the generic
// variants.
func Classify(p Profile) (tier Tier) {
	defer func() {
		if recover() != nil {
			tier = TierUnknown
		}
	}()

	switch p.Arch {
	case ArchARM:
		return TierARM
	case ArchPPC:
		// the osx "none" build is a fat binary covering ppc
		if p.OS == OSMac {
			return TierUnknown
		}
		return TierPPC
	case ArchX86:
		return classifyX86()
	}
	return TierUnknown
}

// CPUModel returns the marketing name of the host CPU, or "unrecognized".
func CPUModel() string {
	if name := strings.TrimSpace(cpuid.CPU.BrandName); name != "" {
		return name
	}
	return "unrecognized"
}

func classifyX86() Tier {
	c := &cpuid.CPU
	switch c.VendorID {
	case cpuid.VIA:
		switch {
		case c.Supports(cpuid.SSSE3):
			return TierNano
		case c.Supports(cpuid.SSE2):
			return TierVIAC32
		default:
			return TierVIAC3
		}
	case cpuid.AMD:
		switch {
		case c.Supports(cpuid.SSE2):
			return TierAthlon64
		case c.Family == 6:
			return TierAthlon
		case c.Family == 5 && c.Model >= 10:
			return TierGeode
		case c.Family == 5 && c.Model == 9:
			return TierK63
		case c.Family == 5 && c.Model == 8:
			return TierK62
		case c.Family == 5:
			return TierK6
		}
	case cpuid.Intel:
		switch {
		// newer Atoms carry SSE4.2, so the brand check comes first
		case strings.Contains(c.BrandName, "Atom"):
			return TierAtom
		case c.Supports(cpuid.SSE42):
			return TierCoreI
		case c.Supports(cpuid.SSSE3):
			return TierCore2
		case c.Family == 15:
			return TierPentium4
		case c.Family == 6 && c.Supports(cpuid.SSE2):
			return TierPentiumM
		case c.Supports(cpuid.SSE):
			return TierPentium3
		case c.Family == 6 && c.Supports(cpuid.MMX):
			return TierPentium2
		case c.Supports(cpuid.MMX):
			return TierPentiumMMX
		default:
			return TierPentium
		}
	}
	return TierUnknown
}
