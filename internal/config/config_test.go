package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Enable {
		t.Error("acceleration should default to enabled")
	}
	if cfg.ResourceDir != "lib" {
		t.Errorf("ResourceDir = %q, want lib", cfg.ResourceDir)
	}
	if cfg.DataDir != ".bigmod" {
		t.Errorf("DataDir = %q, want .bigmod", cfg.DataDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bigmod.yaml")

	cfg := DefaultConfig()
	cfg.Enable = false
	cfg.Impl = "libbigmod-linux-none.so"
	cfg.ResourceDir = "/opt/bigmod/lib"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Enable || got.Impl != cfg.Impl || got.ResourceDir != cfg.ResourceDir {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("impl: libbigmod-linux-core2.so\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Impl != "libbigmod-linux-core2.so" {
		t.Errorf("Impl = %q", cfg.Impl)
	}
	if cfg.ResourceDir != "lib" {
		t.Errorf("omitted ResourceDir lost its default: %q", cfg.ResourceDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load on a missing file should fail")
	}
}

func TestForcedImpl(t *testing.T) {
	dir := t.TempDir()

	// nothing forced
	cfg := &Config{}
	if got := cfg.ForcedImpl(); got != "" {
		t.Errorf("ForcedImpl = %q, want empty", got)
	}

	// plain impl setting
	cfg.Impl = "libbigmod-linux-none.so"
	if got := cfg.ForcedImpl(); got != "libbigmod-linux-none.so" {
		t.Errorf("ForcedImpl = %q", got)
	}

	// impl_file wins over impl, skipping comments and blank lines
	pin := filepath.Join(dir, "impl.txt")
	content := "# pinned by the installer\n\n  libbigmod-linux-core2.so  \n"
	if err := os.WriteFile(pin, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.ImplFile = pin
	if got := cfg.ForcedImpl(); got != "libbigmod-linux-core2.so" {
		t.Errorf("ForcedImpl = %q, want the pinned name", got)
	}

	// an empty or unreadable pin file falls back to impl
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("# only a comment\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.ImplFile = empty
	if got := cfg.ForcedImpl(); got != "libbigmod-linux-none.so" {
		t.Errorf("comment-only pin file: ForcedImpl = %q", got)
	}
	cfg.ImplFile = filepath.Join(dir, "missing.txt")
	if got := cfg.ForcedImpl(); got != "libbigmod-linux-none.so" {
		t.Errorf("missing pin file: ForcedImpl = %q", got)
	}
}
