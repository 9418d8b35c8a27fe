package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType classifies crawl failures so the worker can count and report
// them without inspecting messages
type ErrorType string

const (
	// ErrorTypeNetwork represents an HTTP fetch failure for one page or listing
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeStructure represents an expected HTML element being absent
	ErrorTypeStructure ErrorType = "structure"
	// ErrorTypeIncomplete represents a listing missing one or more core fields
	ErrorTypeIncomplete ErrorType = "incomplete_record"
	// ErrorTypeStorage represents a store append or close failure
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// CrawlError represents a crawl-specific error. No error type aborts the
// crawl; callers log it and continue with the next page or listing.
type CrawlError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *CrawlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlError) Unwrap() error {
	return e.Err
}

// New creates a new CrawlError
func New(errType ErrorType, component, message string, err error) *CrawlError {
	return &CrawlError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *CrawlError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewStructure creates a new structural mismatch error
func NewStructure(component, message string) *CrawlError {
	return New(ErrorTypeStructure, component, message, nil)
}

// NewIncomplete creates a new incomplete record error
func NewIncomplete(component, message string) *CrawlError {
	return New(ErrorTypeIncomplete, component, message, nil)
}

// NewStorage creates a new storage error
func NewStorage(component, message string, err error) *CrawlError {
	return New(ErrorTypeStorage, component, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf returns the error type of err, or an empty string when err is not
// a CrawlError
func TypeOf(err error) ErrorType {
	var ce *CrawlError
	if stderrors.As(err, &ce) {
		return ce.Type
	}
	return ""
}

// IsIncomplete reports whether err marks a listing rejected for missing
// core fields
func IsIncomplete(err error) bool {
	return TypeOf(err) == ErrorTypeIncomplete
}

// IsStructure reports whether err marks an HTML structure mismatch
func IsStructure(err error) bool {
	return TypeOf(err) == ErrorTypeStructure
}

// IsNetwork reports whether err marks a fetch failure
func IsNetwork(err error) bool {
	return TypeOf(err) == ErrorTypeNetwork
}
