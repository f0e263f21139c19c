package constants

import "time"

const (
	AppName            = "lifelog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/lifelog"
	DefaultDBPath      = "~/.config/lifelog/lifelog.db"
	DefaultConfigFile  = "~/.config/lifelog/config.yaml"
	DefaultServerAddr  = "127.0.0.1:8787"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// KeyringDSN selects the PostgreSQL connection string stored in the OS keyring
	KeyringDSN = "keyring"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "lifelog-"
	BackupFileSuffix = ".db"

	// Aggregation windows
	WeeklyWindow       = 7
	DefaultListLimit   = 10
	DefaultRecentDiary = 10

	// Job application status applied when none is given
	DefaultJobStatus = "Applied"

	// Request handling
	ServerReadTimeout  = 15 * time.Second
	ServerWriteTimeout = 15 * time.Second
	RequestIDHeader    = "X-Request-ID"
)
