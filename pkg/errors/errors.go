package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeLayout represents a page whose structure no longer matches the selectors
	ErrorTypeLayout ErrorType = "layout"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeStore represents seen-set store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypePublisher represents webhook and feed sink errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WorkerError represents a run-level error from one of the pipeline stages
type WorkerError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *WorkerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *WorkerError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *WorkerError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeRateLimit:
		return false
	case ErrorTypeLayout:
		return false
	default:
		return false
	}
}

// New creates a new WorkerError
func New(errType ErrorType, source, message string, err error) *WorkerError {
	return &WorkerError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *WorkerError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *WorkerError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewLayout creates a new layout error
func NewLayout(source, message string) *WorkerError {
	return New(ErrorTypeLayout, source, message, nil)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *WorkerError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewCache creates a new cache error
func NewCache(source, message string, err error) *WorkerError {
	return New(ErrorTypeCache, source, message, err)
}

// NewStore creates a new store error
func NewStore(source, message string, err error) *WorkerError {
	return New(ErrorTypeStore, source, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *WorkerError {
	return New(ErrorTypePublisher, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WorkerError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsLayout reports whether err is a layout error. The worker treats this
// condition differently from ordinary failures: zero extractable deal cards
// means the page structure drifted, not that there are no new deals.
func IsLayout(err error) bool {
	var werr *WorkerError
	if errors.As(err, &werr) {
		return werr.Type == ErrorTypeLayout
	}
	return false
}
