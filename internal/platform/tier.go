package platform

// Tier names the CPU optimization target a prebuilt library was compiled
// for. The set mirrors the binaries actually shipped in the resource
// bundle; adding a name here without a matching binary is harmless, the
// loader just skips it.
type Tier string

const (
	TierUnknown Tier = ""

	TierK6         Tier = "k6"
	TierK62        Tier = "k62"
	TierK63        Tier = "k63"
	TierAthlon     Tier = "athlon"
	TierAthlon64   Tier = "athlon64"
	TierGeode      Tier = "geode"
	TierPentium    Tier = "pentium"
	TierPentiumMMX Tier = "pentiummmx"
	TierPentium2   Tier = "pentium2"
	TierPentium3   Tier = "pentium3"
	TierPentium4   Tier = "pentium4"
	TierPentiumM   Tier = "pentiumm"
	TierAtom       Tier = "atom"
	TierCore2      Tier = "core2"
	TierCoreI      Tier = "corei"
	TierNano       Tier = "nano"
	TierVIAC3      Tier = "viac3"
	TierVIAC32     Tier = "viac32"

	TierARM Tier = "arm"
	TierPPC Tier = "ppc"

	// TierNone is the unoptimized build, the last resort on platforms
	// that ship one.
	TierNone Tier = "none"
)

// Known reports whether t names a real optimization target.
func (t Tier) Known() bool {
	return t != TierUnknown
}

func (t Tier) String() string {
	if t == TierUnknown {
		return "unrecognized"
	}
	return string(t)
}
