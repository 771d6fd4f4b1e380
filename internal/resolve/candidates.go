// Package resolve generates the ordered list of acceleration-library
// candidates for a platform/CPU combination. Generation is a pure
// function: the same inputs always produce the same list, and nothing
// here touches the filesystem.
package resolve

import (
	"fmt"
	"strconv"

	"github.com/san-kum/bigmod/internal/platform"
)

// LibName is the logical name of the acceleration library, used both for
// system-path loading and as the stem of every bundled resource name.
const LibName = "bigmod"

// armFloor is the oldest ARM architecture revision a build exists for.
const armFloor = 3

// Candidates returns resource names to try, most specific first. The
// loader stops at the first one that loads, so order is load priority.
// armRev is the detected ARM architecture revision (0 if unknown) and is
// only consulted on ARM.
func Candidates(p platform.Profile, tier platform.Tier, armRev int, rules RuleSet) []string {
	// android never extracts bundled builds; system path only
	if p.OS == platform.OSAndroid {
		return nil
	}

	var list candidateList
	primary := rules.apply(tier, p.OS)

	if primary.Known() {
		if p.Is64Bit {
			// 64-bit variants go first; athlon64_64 is the universal
			// 64-bit build and is always present
			if primary != platform.TierAthlon64 {
				list.add(p, suffixed(primary, "_64"))
			}
			list.add(p, suffixed(platform.TierAthlon64, "_64"))
		}

		if p.Arch == platform.ArchARM {
			// armv7, armv6, ... down to the oldest shipped revision
			for v := armRev; v >= armFloor; v-- {
				list.add(p, string(primary)+"v"+strconv.Itoa(v))
			}
		}

		list.add(p, string(primary))

		for _, fb := range rules.fallbacks(primary) {
			list.add(p, string(fb))
		}

		if p.Is64Bit {
			// a 64-bit process can still run the 32-bit builds
			if primary != platform.TierAthlon64 {
				list.add(p, string(platform.TierAthlon64))
			}
			list.add(p, string(platform.TierAthlon))
		}
	} else if p.Is64Bit {
		list.add(p, suffixed(platform.TierAthlon64, "_64"))
		list.add(p, string(platform.TierAthlon64))
	}

	if p.Is64Bit {
		list.add(p, suffixed(platform.TierNone, "_64"))
	}
	// no "none" build exists for arm or ppc, and the osx one is a fat
	// binary already covered above
	if p.Arch != platform.ArchARM && p.Arch != platform.ArchPPC && p.OS != platform.OSMac {
		list.add(p, string(platform.TierNone))
	}

	return list.names
}

// ResourceName composes a full candidate file name for one middle part,
// e.g. ("linux" profile, "athlon64_64") -> libbigmod-linux-athlon64_64.so.
func ResourceName(p platform.Profile, middle string) string {
	return fmt.Sprintf("%s%s-%s-%s%s", p.LibPrefix, LibName, p.OS, middle, p.LibSuffix)
}

func suffixed(t platform.Tier, s string) string {
	return string(t) + s
}

type candidateList struct {
	names []string
	seen  map[string]bool
}

func (c *candidateList) add(p platform.Profile, middle string) {
	name := ResourceName(p, middle)
	if c.seen[name] {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	c.seen[name] = true
	c.names = append(c.names, name)
}
