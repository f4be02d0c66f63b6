package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main document database
	DefaultDatabasePath = "./klypstore.db"

	// DefaultCredentialsPath is the default path for the encrypted credential database
	DefaultCredentialsPath = "./klyp-credentials.db"

	// DefaultDatabaseName is the registry name the shared store is opened under
	DefaultDatabaseName = "klyp"
)
