package config

const (
	defaultConfigPath             = "~/.config/chrononame/config.toml"
	defaultStateDirFallback       = "~/.local/state/chrononame"
	defaultExifToolBinary         = "exiftool"
	defaultExifToolTimeoutSeconds = 30
	defaultHistoryEnabled         = true
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		ExifTool: ExifTool{
			Binary:         defaultExifToolBinary,
			TimeoutSeconds: defaultExifToolTimeoutSeconds,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
