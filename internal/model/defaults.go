package model

// Shared defaults used by the CLI and the HTTP API.
const (
	DefaultTopN        = 5
	DefaultFormat      = "text"
	DefaultLineBuffer  = 1000
	DefaultMaxLineSize = 1024 * 1024 // 1MB
)
