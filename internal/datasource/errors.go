package datasource

import (
	"errors"
)

// DataSourceError represents errors from loading race input files
type DataSourceError struct {
	Source  string // File or directory involved
	Code    string // Error code (e.g., "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeInvalidData = "invalid_data"
	ErrCodeIO          = "io_error"
	ErrCodeNoSelection = "no_selection"
	ErrCodeUnknown     = "unknown"
)

var (
	ErrNotFound      = errors.New("data not found")
	ErrInvalidData   = errors.New("invalid data format")
	ErrNoFiles       = errors.New("no matching files")
	ErrInvalidChoice = errors.New("invalid choice")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
