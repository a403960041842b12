package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./libscan.db"

	// DefaultMaxUploadBytes caps uploaded catalog/roster documents (25 MiB)
	DefaultMaxUploadBytes = int64(25 << 20)

	// DefaultSpoolDir is where async import uploads are staged
	DefaultSpoolDir = "./spool"
)
