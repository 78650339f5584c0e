package constants

import "time"

const (
	AppName            = "askeza"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/askeza"
	DefaultConfigPath  = "~/.config/askeza/askeza.db"
	DefaultConfigFile  = "~/.config/askeza/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Storage keys for whole-collection snapshots
	KeyActiveAskezas    = "active_askezas"
	KeyCompletedAskezas = "completed_askezas"
	KeyLastCheck        = "last_check_timestamp"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "askeza-"
	BackupFileSuffix = ".db"

	// Watcher defaults
	DefaultTickInterval   = time.Minute
	DefaultDebounceWindow = 5 * time.Second
	MidnightSpec          = "0 0 0 * * *"
)
