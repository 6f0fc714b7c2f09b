package config

const (
	defaultBackupDir      = "~/.local/share/reposave/backups"
	defaultLogDir         = "~/.local/share/reposave/logs"
	defaultAvatarCacheDir = "~/.cache/reposave/avatars"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults. GameSavesDir
// stays empty so Steam discovery can fill it in at startup.
func Default() Config {
	return Config{
		Paths: Paths{
			BackupDir:      defaultBackupDir,
			LogDir:         defaultLogDir,
			AvatarCacheDir: defaultAvatarCacheDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
