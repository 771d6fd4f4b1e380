package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config controls acceleration-library resolution. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// Enable gates the whole native path. When false resolution is not
	// even attempted and every operation runs in software.
	Enable bool `yaml:"enable"`

	// Impl forces one bundled candidate by file name, tried before the
	// generated list. Empty means no override.
	Impl string `yaml:"impl,omitempty"`

	// ImplFile points at a file whose first non-empty line overrides
	// Impl. Lets an installer pin an implementation without rewriting
	// this config.
	ImplFile string `yaml:"impl_file,omitempty"`

	// RuleFile overrides the built-in binary-equivalence table.
	RuleFile string `yaml:"rule_file,omitempty"`

	// ResourceDir is where bundled library builds live.
	ResourceDir string `yaml:"resource_dir"`

	// CacheDir receives a best-effort copy of the extracted library so
	// later runs skip extraction. May be read-only; that is fine.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// TempDir is scratch space for extraction. Empty means the OS default.
	TempDir string `yaml:"temp_dir,omitempty"`

	// DataDir stores benchmark runs.
	DataDir string `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	cache := ""
	if dir, err := os.UserCacheDir(); err == nil {
		cache = filepath.Join(dir, "bigmod")
	}
	return &Config{
		Enable:      true,
		ResourceDir: "lib",
		CacheDir:    cache,
		DataDir:     ".bigmod",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ForcedImpl resolves the implementation override: ImplFile wins over
// Impl when it names a readable file with content. Returns "" when
// nothing is forced.
func (c *Config) ForcedImpl() string {
	if c.ImplFile != "" {
		if name := firstLine(c.ImplFile); name != "" {
			return name
		}
	}
	return c.Impl
}

func firstLine(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}
