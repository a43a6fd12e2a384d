package config

// Default paths
const (
	// DefaultDatabasePath is where the catalog database is created on first run
	DefaultDatabasePath = "./data/library.sqlite"

	// DefaultEnvFile is loaded into the environment before configuration is read, if present
	DefaultEnvFile = ".env"
)
