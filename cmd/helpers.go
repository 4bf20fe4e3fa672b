package cmd

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/rtfdocs/rtfd/internal/config"
	"github.com/rtfdocs/rtfd/internal/db"
	"github.com/rtfdocs/rtfd/internal/logging"
	"github.com/rtfdocs/rtfd/internal/overlay"
	"github.com/rtfdocs/rtfd/internal/project"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `rtfd init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setupLogger initializes the global logger; --verbose forces debug.
func setupLogger(cfg *config.Config) logr.Logger {
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}
	return *logging.Setup(level, Version)
}

// openStore opens the project database under the configured base dir.
func openStore(cfg *config.Config) (*db.DB, *project.Store, error) {
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating base dir: %w", err)
	}
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, project.NewStore(database), nil
}

// loaderConfig is the overlay configuration written into built pages and
// used by `rtfd inject`.
func loaderConfig(cfg *config.Config) overlay.Config {
	c := overlay.Config{}
	if api := cfg.APIBase(); api != "" {
		c[overlay.KeyAPI] = api
	}
	if cfg.Overlay.Static != "" {
		c[overlay.KeyStatic] = cfg.Overlay.Static
	}
	if cfg.Overlay.APINoFill {
		c[overlay.KeyAPINoFill] = "yes"
	}
	return c
}

// popoverOptions maps the overlay config to popover asset settings.
func popoverOptions(cfg *config.Config) overlay.PopoverOptions {
	return overlay.PopoverOptions{
		Static: cfg.Overlay.Static,
		CSS:    cfg.Overlay.PopoverCSS,
		JS:     cfg.Overlay.PopoverJS,
	}
}
