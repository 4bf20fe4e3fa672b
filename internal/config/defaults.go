package config

import "time"

// DefaultExcludes are glob patterns excluded from docs builds by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"_build/**",
	"_static/**",
	"**/.*",
}

// DefaultStatic is where the popover stylesheet and script are loaded from
// when no static base is configured.
const DefaultStatic = "https://cdn.jsdelivr.net/gh/staaky/tipped/dist/"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:       "rtfd-data",
		DefaultBranch: "master",
		LogLevel:      "info",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			AllowAllOrigins: true,
		},
		Overlay: OverlayConfig{
			Static:     DefaultStatic,
			Mount:      MountAppend,
			Timeout:    10 * time.Second,
			CacheTTL:   time.Minute,
			PopoverCSS: "css/tipped.css",
			PopoverJS:  "js/tipped.min.js",
		},
		Build: BuildConfig{
			Include: []string{"**/*.md"},
			Exclude: DefaultExcludes,
		},
	}
}
