package resolve

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/san-kum/bigmod/internal/platform"
)

func TestCandidatesLinuxAmd64CoreI(t *testing.T) {
	p := platform.ForTarget("linux", "amd64")
	got := Candidates(p, platform.TierCoreI, 0, DefaultRules())
	want := []string{
		"libbigmod-linux-corei_64.so",
		"libbigmod-linux-athlon64_64.so",
		"libbigmod-linux-corei.so",
		"libbigmod-linux-core2.so",
		"libbigmod-linux-athlon64.so",
		"libbigmod-linux-athlon.so",
		"libbigmod-linux-none_64.so",
		"libbigmod-linux-none.so",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestCandidatesAthlon64NoDuplicates(t *testing.T) {
	p := platform.ForTarget("linux", "amd64")
	got := Candidates(p, platform.TierAthlon64, 0, DefaultRules())
	want := []string{
		"libbigmod-linux-athlon64_64.so",
		"libbigmod-linux-athlon64.so",
		"libbigmod-linux-athlon.so",
		"libbigmod-linux-none_64.so",
		"libbigmod-linux-none.so",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestCandidatesWindowsNaming(t *testing.T) {
	p := platform.ForTarget("windows", "amd64")
	got := Candidates(p, platform.TierCoreI, 0, DefaultRules())
	if len(got) == 0 {
		t.Fatal("no candidates")
	}
	if got[0] != "bigmod-windows-corei_64.dll" {
		t.Errorf("first candidate %q, want bigmod-windows-corei_64.dll", got[0])
	}
	for _, name := range got {
		if filepath.Ext(name) != ".dll" {
			t.Errorf("windows candidate %q is not a .dll", name)
		}
	}
}

func TestCandidatesARMRevisions(t *testing.T) {
	p := platform.ForTarget("linux", "arm")
	got := Candidates(p, platform.TierARM, 7, DefaultRules())
	want := []string{
		"libbigmod-linux-armv7.so",
		"libbigmod-linux-armv6.so",
		"libbigmod-linux-armv5.so",
		"libbigmod-linux-armv4.so",
		"libbigmod-linux-armv3.so",
		"libbigmod-linux-arm.so",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestCandidatesAndroidEmpty(t *testing.T) {
	p := platform.ForTarget("android", "arm64")
	if got := Candidates(p, platform.TierARM, 7, DefaultRules()); got != nil {
		t.Errorf("android should have no bundled candidates, got %v", got)
	}
}

func TestSubstituteRules(t *testing.T) {
	rules := DefaultRules()

	// k63 and k62 builds are the same file except on windows
	linux := platform.ForTarget("linux", "386")
	got := Candidates(linux, platform.TierK63, 0, rules)
	if got[0] != "libbigmod-linux-k62.so" {
		t.Errorf("linux k63: first candidate %q, want k62 build", got[0])
	}

	win := platform.ForTarget("windows", "386")
	got = Candidates(win, platform.TierK63, 0, rules)
	if got[0] != "bigmod-windows-k63.dll" {
		t.Errorf("windows k63: first candidate %q, want k63 build", got[0])
	}

	// viac32 maps to pentium3 everywhere
	got = Candidates(linux, platform.TierVIAC32, 0, rules)
	if got[0] != "libbigmod-linux-pentium3.so" {
		t.Errorf("viac32: first candidate %q, want pentium3 build", got[0])
	}

	// pentium2 maps to pentium3 on solaris only
	sol := platform.ForTarget("solaris", "386")
	got = Candidates(sol, platform.TierPentium2, 0, rules)
	if got[0] != "libbigmod-solaris-pentium3.so" {
		t.Errorf("solaris pentium2: first candidate %q, want pentium3 build", got[0])
	}
	got = Candidates(linux, platform.TierPentium2, 0, rules)
	if got[0] != "libbigmod-linux-pentium2.so" {
		t.Errorf("linux pentium2: first candidate %q, want pentium2 build", got[0])
	}
}

func TestCandidatesMacPPCOmitsGeneric(t *testing.T) {
	p := platform.ForTarget("darwin", "ppc")
	got := Candidates(p, platform.TierPPC, 0, DefaultRules())
	want := []string{"libbigmod-osx-ppc.dylib"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCandidatesUnknownTier(t *testing.T) {
	p := platform.ForTarget("linux", "amd64")
	got := Candidates(p, platform.TierUnknown, 0, DefaultRules())
	want := []string{
		"libbigmod-linux-athlon64_64.so",
		"libbigmod-linux-athlon64.so",
		"libbigmod-linux-none_64.so",
		"libbigmod-linux-none.so",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := `substitute:
  - tier: corei
    with: core2
    only_os: [linux]
append:
  - tier: core2
    fallback: pentium3
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	p := platform.ForTarget("linux", "amd64")
	got := Candidates(p, platform.TierCoreI, 0, rules)
	want := []string{
		"libbigmod-linux-core2_64.so",
		"libbigmod-linux-athlon64_64.so",
		"libbigmod-linux-core2.so",
		"libbigmod-linux-pentium3.so",
		"libbigmod-linux-athlon64.so",
		"libbigmod-linux-athlon.so",
		"libbigmod-linux-none_64.so",
		"libbigmod-linux-none.so",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}

	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadRules on a missing file should fail")
	}
}

func TestResourceName(t *testing.T) {
	p := platform.ForTarget("linux", "amd64")
	if got := ResourceName(p, "athlon64_64"); got != "libbigmod-linux-athlon64_64.so" {
		t.Errorf("ResourceName = %q", got)
	}
}
