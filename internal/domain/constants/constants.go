// Package constants holds identifiers shared across layers.
package constants

// Persisted client state keys.
const (
	StorageKeyAuthToken      = "authToken"
	StorageKeyPendingTableID = "pendingTableId"
	StorageKeyDevOTP         = "dev_otp"
)

// Pub/Sub providers.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Persisted state drivers.
const (
	StorageDriverBlob   = "blob"
	StorageDriverSQLite = "sqlite"
)

// TempLinePrefix marks cart lines that exist only locally until the backend confirms them.
const TempLinePrefix = "temp-"
