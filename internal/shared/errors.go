package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Metadata source errors
	ErrAPIRequest      = fmt.Errorf("API request failed")
	ErrInvalidResponse = fmt.Errorf("invalid response")
	ErrInitFailed      = fmt.Errorf("player initialization failed")

	// Library and search errors
	ErrNotFound      = fmt.Errorf("not found")
	ErrUnknownEngine = fmt.Errorf("unknown search engine")
	ErrIndexClosed   = fmt.Errorf("search index closed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFormat   = fmt.Errorf("invalid output format")
)
