package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "RTFD_"

// sections are the nested config blocks addressable from the environment.
var sections = []string{"server", "overlay", "build"}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (RTFD_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// RTFD_BASE_DIR -> base_dir, RTFD_SERVER_PORT -> server.port
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if strings.HasPrefix(key, sec+"_") {
			return sec + "." + strings.TrimPrefix(key, sec+"_")
		}
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base_dir is required")
	}
	if c.DefaultBranch == "" {
		return fmt.Errorf("default_branch is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Overlay.Mount {
	case MountAppend, MountPrepend:
	default:
		return fmt.Errorf("invalid overlay.mount %q: must be append or prepend", c.Overlay.Mount)
	}
	if c.Overlay.Timeout < 0 {
		return fmt.Errorf("overlay.timeout must be non-negative")
	}
	if c.Overlay.CacheTTL < 0 {
		return fmt.Errorf("overlay.cache_ttl must be non-negative")
	}
	for _, raw := range []string{c.Overlay.API, c.Overlay.Static, c.Server.PublicURL} {
		if raw == "" {
			continue
		}
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("invalid url %q: %w", raw, err)
		}
	}
	return nil
}

// DatabasePath returns the sqlite path, defaulting to <base_dir>/rtfd.db.
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(c.BaseDir, "rtfd.db")
}

// DocsDir returns the directory holding built documentation.
func (c *Config) DocsDir() string {
	return filepath.Join(c.BaseDir, "docs")
}

// APIBase returns the rtfd_api value handed to pages. The overlay API
// setting wins over the server's public URL.
func (c *Config) APIBase() string {
	if c.Overlay.API != "" {
		return strings.TrimSuffix(c.Overlay.API, "/")
	}
	return strings.TrimSuffix(c.Server.PublicURL, "/")
}
