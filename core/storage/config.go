package storage

// Provider values accepted by Config.Provider.
const (
	ProviderLocal = "local"
	ProviderMinio = "minio"
)

// Config holds configuration for the document store.
type Config struct {
	// Provider selects the backend: "local" (filesystem) or "minio".
	Provider string `mapstructure:"provider" default:"local"`
	// LocalRoot is the directory relative paths resolve against for the
	// local provider. Empty means the process working directory.
	LocalRoot string `mapstructure:"local_root" default:""`
	// Endpoint is the URL of the storage service (minio provider).
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket holding the documents.
	Bucket string `mapstructure:"bucket" default:"documents"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
