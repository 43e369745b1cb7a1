package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed    = fmt.Errorf("authentication failed")
	ErrRefreshFailed = fmt.Errorf("token refresh failed")
	ErrAccessDenied  = fmt.Errorf("access denied")

	// API and service errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrVideoNotFound  = fmt.Errorf("video not found")
	ErrQuotaExceeded  = fmt.Errorf("quota exceeded")
	ErrRecordUpdate   = fmt.Errorf("record update failed")
	ErrRecordNotFound = fmt.Errorf("record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrUnresolvableURL = fmt.Errorf("unresolvable video url")
	ErrTagTooLong      = fmt.Errorf("tag too long")
	ErrTagSetTooLong   = fmt.Errorf("tag set too long")
	ErrEmptyTagSet     = fmt.Errorf("empty tag set")
)
