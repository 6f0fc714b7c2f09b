package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reposave/internal/backup"
	"reposave/internal/config"
	"reposave/internal/editor"
	"reposave/internal/logging"
	"reposave/internal/steampath"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	serviceOnce sync.Once
	svc         *editor.Service
	serviceErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) service() (*editor.Service, error) {
	c.serviceOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.serviceErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			LogDir: cfg.Paths.LogDir,
		})
		if err != nil {
			c.serviceErr = fmt.Errorf("initialize logging: %w", err)
			return
		}
		repo, err := backup.New(cfg.Paths.BackupDir, editor.Summarize, logger)
		if err != nil {
			c.serviceErr = err
			return
		}
		c.svc = editor.NewService(repo, logger)
	})
	return c.svc, c.serviceErr
}

// withRepoLock runs fn while holding the repository's advisory write lock.
// Commands that only read skip it; every mutating command goes through here
// so concurrent shells serialize instead of interleaving file operations.
func (c *commandContext) withRepoLock(fn func(*editor.Service) error) error {
	svc, err := c.service()
	if err != nil {
		return err
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(filepath.Join(cfg.Paths.BackupDir, ".reposave.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire repository lock: %w", err)
	}
	if !ok {
		return errors.New("another reposave instance is using the backup repository")
	}
	defer lock.Unlock()
	return fn(svc)
}

// gameSaveDir resolves the directory the game writes its saves to, probing
// the local Steam installation when the config leaves it blank.
func (c *commandContext) gameSaveDir() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if dir := strings.TrimSpace(cfg.Paths.GameSavesDir); dir != "" {
		return dir, nil
	}
	root, err := steampath.Resolve(cfg.Steam.Root)
	if err != nil {
		return "", fmt.Errorf("locate game save directory (set paths.game_saves_dir to override): %w", err)
	}
	return steampath.SaveDir(root)
}

// personaNames returns SteamID to persona name mappings from the local Steam
// installation, or an empty map when Steam is not present.
func (c *commandContext) personaNames() map[string]string {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil
	}
	root, err := steampath.Resolve(cfg.Steam.Root)
	if err != nil {
		return nil
	}
	names, err := steampath.PersonaNames(root)
	if err != nil {
		return nil
	}
	return names
}

// latestContainer finds the most recently modified save container under dir.
// The game keeps each save in its own subdirectory, so the walk recurses.
func latestContainer(dir string) (string, error) {
	var newest string
	var newestMod int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".es3") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = path
			newestMod = mod
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan save directory %q: %w", dir, err)
	}
	if newest == "" {
		return "", fmt.Errorf("no save containers found under %q", dir)
	}
	return newest, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
