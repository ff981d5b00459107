package constants

// FrequencyType is the tag of a habit's repetition rule
type FrequencyType string

// Priority is the display priority of a habit
type Priority string

const (
	AppName            = "habitledger"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitledger/habitledger.db"
	Version            = "v0.1.0"

	// ConnectionEnvVar overrides the configured PostgreSQL connection string
	ConnectionEnvVar = "HABITLEDGER_DB_CONNECTION"
	// KeyringConfigValue selects the connection string stored in the OS keyring
	KeyringConfigValue = "keyring"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day format of check-in entries (HH:MM)
	TimeFormat = "15:04"

	// DateTimeFormat is the format of entry and record timestamps (YYYY-MM-DD HH:MM)
	DateTimeFormat = DateFormat + " " + TimeFormat

	// Frequency constants
	FrequencyDaily   FrequencyType = "daily"
	FrequencyWeekly  FrequencyType = "weekly"
	FrequencyMonthly FrequencyType = "monthly"
	FrequencyYearly  FrequencyType = "yearly"
	FrequencyCustom  FrequencyType = "custom"

	// Priority constants
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"

	// Group filter sentinels
	GroupAll  = "all"
	GroupNone = "none"

	DefaultTarget  = 1
	DefaultLogDays = 14
)

// DefaultMarker is a status marker offered to new habits
type DefaultMarker struct {
	Emoji   string
	Meaning string
}

// DefaultMarkers are given to a habit created without any markers
var DefaultMarkers = []DefaultMarker{
	{Emoji: "✅", Meaning: "done"},
	{Emoji: "❌", Meaning: "missed"},
	{Emoji: "⭕️", Meaning: "partial"},
}
