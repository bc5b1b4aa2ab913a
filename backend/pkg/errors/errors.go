package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeDiscord represents Discord-related errors
	ErrorTypeDiscord ErrorType = "discord"
	// ErrorTypeNLU represents conversation/NLU service errors
	ErrorTypeNLU ErrorType = "nlu"
	// ErrorTypeCatalog represents recipe catalog errors
	ErrorTypeCatalog ErrorType = "catalog"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeNotify represents notification webhook errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error's type. The method is promoted to every error
// struct embedding BaseError, so IsErrorType sees the category through
// wrappers.
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphSchemaFailed is returned when schema initialization fails.
// This is fatal: the process must not serve traffic without the schema.
type ErrGraphSchemaFailed struct {
	*BaseError
}

func NewGraphSchemaFailed(err error) *ErrGraphSchemaFailed {
	return &ErrGraphSchemaFailed{
		BaseError: NewBaseError(ErrorTypeGraph, "schema initialization failed", err),
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// NLU Errors

// ErrNLURequestFailed is returned when the conversation service call fails
type ErrNLURequestFailed struct {
	*BaseError
	WorkspaceID string
}

func NewNLURequestFailed(workspaceID string, err error) *ErrNLURequestFailed {
	return &ErrNLURequestFailed{
		BaseError:   NewBaseError(ErrorTypeNLU, "conversation request failed", err),
		WorkspaceID: workspaceID,
	}
}

// Catalog Errors

// ErrCatalogStatus is returned when the recipe catalog responds with a
// non-2xx status. The status code is carried, not the body.
type ErrCatalogStatus struct {
	*BaseError
	StatusCode int
}

func NewCatalogStatus(statusCode int) *ErrCatalogStatus {
	return &ErrCatalogStatus{
		BaseError:  NewBaseError(ErrorTypeCatalog, fmt.Sprintf("catalog returned status %d", statusCode), nil),
		StatusCode: statusCode,
	}
}

// ErrCatalogRequestFailed is returned when the catalog request itself fails
type ErrCatalogRequestFailed struct {
	*BaseError
	Path string
}

func NewCatalogRequestFailed(path string, err error) *ErrCatalogRequestFailed {
	return &ErrCatalogRequestFailed{
		BaseError: NewBaseError(ErrorTypeCatalog, fmt.Sprintf("catalog request failed: %s", path), err),
		Path:      path,
	}
}

// Discord Errors

// ErrDiscordMessageSendFailed is returned when sending a Discord message fails
type ErrDiscordMessageSendFailed struct {
	*BaseError
	ChannelID string
}

func NewDiscordMessageSendFailed(channelID string, err error) *ErrDiscordMessageSendFailed {
	return &ErrDiscordMessageSendFailed{
		BaseError: NewBaseError(ErrorTypeDiscord, "failed to send message", err),
		ChannelID: channelID,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var typed interface{ Category() ErrorType }
	if errors.As(err, &typed) {
		return typed.Category() == errType
	}
	return false
}

// IsRetryable checks if an error is retryable. Graph lookups and catalog
// GETs are idempotent; the edge counter increment is not, so callers must
// never retry a failed turn blindly.
func IsRetryable(err error) bool {
	if IsErrorType(err, ErrorTypeGraph) {
		return true
	}
	var statusErr *ErrCatalogStatus
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	if IsErrorType(err, ErrorTypeCatalog) {
		return true
	}
	return false
}
