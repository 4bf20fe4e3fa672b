package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "master", cfg.DefaultBranch)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, MountAppend, cfg.Overlay.Mount)
	assert.Equal(t, 10*time.Second, cfg.Overlay.Timeout)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.rtfd.yml")

	original := DefaultConfig()
	original.BaseDir = "/srv/rtfd"
	original.DefaultBranch = "main"
	original.Server.Port = 8080
	original.Overlay.Mount = MountPrepend
	original.Overlay.API = "https://docs.example.com"
	original.Build.Include = []string{"**/*.md", "**/*.markdown"}
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.BaseDir, loaded.BaseDir)
	assert.Equal(t, original.DefaultBranch, loaded.DefaultBranch)
	assert.Equal(t, original.Server.Port, loaded.Server.Port)
	assert.Equal(t, original.Overlay.Mount, loaded.Overlay.Mount)
	assert.Equal(t, original.Overlay.API, loaded.Overlay.API)
	assert.Equal(t, original.Build.Include, loaded.Build.Include)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.NoError(t, err, "a missing file falls back to defaults")
	assert.Equal(t, "master", cfg.DefaultBranch)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("RTFD_DEFAULT_BRANCH", "trunk")
	t.Setenv("RTFD_SERVER_PORT", "9090")
	t.Setenv("RTFD_OVERLAY_STATIC", "https://static.example.com/")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "trunk", loaded.DefaultBranch)
	assert.Equal(t, 9090, loaded.Server.Port)
	assert.Equal(t, "https://static.example.com/", loaded.Overlay.Static)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"RTFD_BASE_DIR":            "base_dir",
		"RTFD_SERVER_PORT":         "server.port",
		"RTFD_SERVER_PUBLIC_URL":   "server.public_url",
		"RTFD_OVERLAY_API_NO_FILL": "overlay.api_no_fill",
		"RTFD_LOG_LEVEL":           "log_level",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestValidateValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base dir", func(c *Config) { c.BaseDir = "" }},
		{"empty default branch", func(c *Config) { c.DefaultBranch = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad mount", func(c *Config) { c.Overlay.Mount = "sideways" }},
		{"negative timeout", func(c *Config) { c.Overlay.Timeout = -time.Second }},
		{"negative cache ttl", func(c *Config) { c.Overlay.CacheTTL = -time.Second }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		assert.Error(t, cfg.Validate(), tt.name)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDir = "/data"
	assert.Equal(t, filepath.Join("/data", "rtfd.db"), cfg.DatabasePath())
	cfg.Database = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath())
}

func TestAPIBase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.PublicURL = "https://rtfd.example.com/"
	assert.Equal(t, "https://rtfd.example.com", cfg.APIBase())
	cfg.Overlay.API = "https://api.example.com"
	assert.Equal(t, "https://api.example.com", cfg.APIBase(), "overlay api wins")
}

func TestSplitAndTrim(t *testing.T) {
	tests := map[string][]string{
		"a,b,c":       {"a", "b", "c"},
		" a , b , c ": {"a", "b", "c"},
		"**/*.md":     {"**/*.md"},
		"":            nil,
		"  ,  , ":     nil,
	}
	for in, want := range tests {
		assert.Equal(t, want, splitAndTrim(in), in)
	}
}
