package types

import "errors"

// KVStore is a string key-value store. The catalog persists its snapshot and
// auxiliary lists through it; backends never interpret the values.
type KVStore interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key is absent.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key succeeds.
	Remove(key string) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Storage errors.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrStoreClosed = errors.New("store is closed")
	ErrInvalidKey  = errors.New("invalid storage key")
	ErrAttached    = errors.New("store is already attached")
)

// Persistence keys shared by the catalog, the resource manager and the
// session gate.
const (
	KeySnapshot         = "teachingTorchData"
	KeySchemaVersion    = "teachingTorchDataVersion"
	KeyForceRefresh     = "teachingTorchForceRefresh"
	KeyLastClearTime    = "teachingTorchLastClearTime"
	KeyUploadedFiles    = "teachingTorch_uploadedFiles"
	KeyRecentUploads    = "teachingTorch_recentUploads"
	KeyAdminLoggedIn    = "adminLoggedIn"
	KeySelectedLanguage = "selectedLanguage"
)
