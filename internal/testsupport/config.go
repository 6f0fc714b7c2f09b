package testsupport

import (
	"path/filepath"
	"testing"

	"reposave/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.GameSavesDir = filepath.Join(base, "saves")
	cfg.Paths.BackupDir = filepath.Join(base, "backups")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.AvatarCacheDir = filepath.Join(base, "avatars")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithSteamRoot overrides the Steam root on the test config.
func WithSteamRoot(root string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Steam.Root = root
	}
}
