package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// Empty disables authentication (local use).
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps the request body size in megabytes. Reconciliation
	// requests can carry full row generations, so the default is generous.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}
