package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Backend specifies which persisted-store family to use (database, file).
	Backend string `mapstructure:"backend" default:"database"`
}

const (
	// BackendDatabase persists reconciled tables in a relational database.
	BackendDatabase = "database"
	// BackendFile persists reconciled tables as GeoJSON objects in storage.
	BackendFile = "file"
)

// IsValidBackend checks if the configured store backend is valid.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendDatabase, BackendFile:
		return true
	default:
		return false
	}
}
