package constants

const (
	AppName           = "habitual"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/habitual/habits_db.json"

	// DefaultKeyringUser is the keyring account holding the PostgreSQL connection string
	DefaultKeyringUser = "database-connection"

	// KeyringConfigValue selects the PostgreSQL provider with the connection string from the OS keyring
	KeyringConfigValue = "keyring"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups    = 14
	BackupDirName = "backups"

	// LogFileName is the rotating log file written under <config dir>/logs
	LogFileName = "habitual.log"

	// MinStreakLength is the shortest run of consecutive days reported as a streak
	MinStreakLength = 2
)
