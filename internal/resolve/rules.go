package resolve

import (
	"fmt"
	"os"

	"github.com/san-kum/bigmod/internal/platform"
	"gopkg.in/yaml.v3"
)

// SubstituteRule replaces the primary tier before list generation. These
// exist because some prebuilt binaries are byte-identical across tiers on
// some platforms, and the bundle only ships one of the pair.
type SubstituteRule struct {
	Tier     platform.Tier   `yaml:"tier"`
	With     platform.Tier   `yaml:"with"`
	OnlyOS   []platform.OSFamily `yaml:"only_os,omitempty"`
	ExceptOS []platform.OSFamily `yaml:"except_os,omitempty"`
}

// AppendRule adds an extra fallback right after the exact-tier entry.
type AppendRule struct {
	Tier     platform.Tier `yaml:"tier"`
	Fallback platform.Tier `yaml:"fallback"`
}

// RuleSet is the binary-equivalence table. It is packaging knowledge, not
// architecture knowledge, so it is data: a different bundle can ship a
// different table via Load.
type RuleSet struct {
	Substitute []SubstituteRule `yaml:"substitute"`
	Append     []AppendRule     `yaml:"append"`
}

// DefaultRules returns the table matching the stock resource bundle.
func DefaultRules() RuleSet {
	return RuleSet{
		Substitute: []SubstituteRule{
			// k62 and k63 builds are identical everywhere but windows
			{Tier: platform.TierK63, With: platform.TierK62, ExceptOS: []platform.OSFamily{platform.OSWindows}},
			// pentium2 and pentium3 builds are identical on solaris
			{Tier: platform.TierPentium2, With: platform.TierPentium3, OnlyOS: []platform.OSFamily{platform.OSSolaris}},
			// viac32 and pentium3 builds are identical
			{Tier: platform.TierVIAC32, With: platform.TierPentium3},
		},
		Append: []AppendRule{
			{Tier: platform.TierCoreI, Fallback: platform.TierCore2},
			{Tier: platform.TierAtom, Fallback: platform.TierPentium3},
			{Tier: platform.TierPentiumM, Fallback: platform.TierPentium3},
			{Tier: platform.TierGeode, Fallback: platform.TierPentium3},
		},
	}
}

// LoadRules reads a rule table from a yaml file.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, err
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("rule table %s: %w", path, err)
	}
	return rs, nil
}

func (r SubstituteRule) matches(tier platform.Tier, os platform.OSFamily) bool {
	if r.Tier != tier {
		return false
	}
	for _, x := range r.ExceptOS {
		if x == os {
			return false
		}
	}
	if len(r.OnlyOS) == 0 {
		return true
	}
	for _, o := range r.OnlyOS {
		if o == os {
			return true
		}
	}
	return false
}

// apply resolves the effective primary tier for list generation.
func (rs RuleSet) apply(tier platform.Tier, os platform.OSFamily) platform.Tier {
	for _, r := range rs.Substitute {
		if r.matches(tier, os) {
			return r.With
		}
	}
	return tier
}

// fallbacks returns the extra tiers appended after the exact match.
func (rs RuleSet) fallbacks(tier platform.Tier) []platform.Tier {
	var out []platform.Tier
	for _, r := range rs.Append {
		if r.Tier == tier {
			out = append(out, r.Fallback)
		}
	}
	return out
}
