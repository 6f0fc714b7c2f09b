package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.GameSavesDir, err = expandPath(strings.TrimSpace(c.Paths.GameSavesDir)); err != nil {
		return fmt.Errorf("paths.game_saves_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackupDir) == "" {
		c.Paths.BackupDir = defaultBackupDir
	}
	if c.Paths.BackupDir, err = expandPath(c.Paths.BackupDir); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AvatarCacheDir) == "" {
		c.Paths.AvatarCacheDir = defaultAvatarCacheDir
	}
	if c.Paths.AvatarCacheDir, err = expandPath(c.Paths.AvatarCacheDir); err != nil {
		return fmt.Errorf("paths.avatar_cache_dir: %w", err)
	}
	if c.Steam.Root, err = expandPath(strings.TrimSpace(c.Steam.Root)); err != nil {
		return fmt.Errorf("steam.root: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
