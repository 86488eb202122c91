package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrNotConfigured = fmt.Errorf("backend not configured")

	// Persistence errors
	ErrPersistenceRead  = fmt.Errorf("failed to read persisted state")
	ErrPersistenceWrite = fmt.Errorf("failed to write persisted state")

	// Usage errors
	ErrContextMissing = fmt.Errorf("cart accessed outside of its provider")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidLicense  = fmt.Errorf("invalid license type")
)
