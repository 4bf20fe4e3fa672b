package config

import "time"

// MountMode selects where the overlay fragment is inserted into <body>.
type MountMode string

const (
	MountAppend  MountMode = "append"
	MountPrepend MountMode = "prepend"
)

// Config is the top-level rtfd configuration, corresponding to .rtfd.yml.
type Config struct {
	BaseDir       string        `yaml:"base_dir" koanf:"base_dir"`
	DefaultBranch string        `yaml:"default_branch" koanf:"default_branch"`
	Database      string        `yaml:"database" koanf:"database"`
	LogLevel      string        `yaml:"log_level" koanf:"log_level"`
	Server        ServerConfig  `yaml:"server" koanf:"server"`
	Overlay       OverlayConfig `yaml:"overlay" koanf:"overlay"`
	Build         BuildConfig   `yaml:"build" koanf:"build"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string `yaml:"host" koanf:"host"`
	Port            int    `yaml:"port" koanf:"port"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	// PublicURL is the externally reachable base of this server, used as
	// rtfd_api in generated pages. Empty means relative to the docs host.
	PublicURL string `yaml:"public_url" koanf:"public_url"`
}

// OverlayConfig holds the widget settings.
type OverlayConfig struct {
	API        string        `yaml:"api" koanf:"api"`
	Static     string        `yaml:"static" koanf:"static"`
	APINoFill  bool          `yaml:"api_no_fill" koanf:"api_no_fill"`
	Mount      MountMode     `yaml:"mount" koanf:"mount"`
	LegacyAPI  bool          `yaml:"legacy_api" koanf:"legacy_api"`
	Timeout    time.Duration `yaml:"timeout" koanf:"timeout"`
	CacheTTL   time.Duration `yaml:"cache_ttl" koanf:"cache_ttl"`
	PopoverCSS string        `yaml:"popover_css" koanf:"popover_css"`
	PopoverJS  string        `yaml:"popover_js" koanf:"popover_js"`
}

// BuildConfig holds the docs build settings.
type BuildConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}
