package types

import (
	"errors"
	"time"
)

// Config holds backend selection and parameters for opening a KVStore and
// initializing the catalog.
type Config struct {
	Backend       string        `json:"backend" yaml:"backend"`
	DataDir       string        `json:"data_dir" yaml:"data_dir"`
	ResetInterval time.Duration `json:"reset_interval" yaml:"reset_interval"`
	S3            S3Config      `json:"s3" yaml:"s3"`
}

// S3Config selects the bucket used by the s3 backend.
type S3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	PathStyle bool   `json:"path_style" yaml:"path_style"`

	// Static credentials; when empty the default AWS credential chain is used.
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// Supported backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendS3     = "s3"
)

// DefaultResetInterval is how long a persisted snapshot survives before the
// catalog discards it and reseeds.
const DefaultResetInterval = time.Hour

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrBucketEmpty    = errors.New("s3 bucket must not be empty")
	ErrResetInterval  = errors.New("reset interval must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
	BackendMemory: true,
	BackendS3:     true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendS3 && c.S3.Bucket == "" {
		return ErrBucketEmpty
	}
	if c.ResetInterval < 0 {
		return ErrResetInterval
	}
	return nil
}
