package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// FileUnreadable indicates a source file could not be read
	FileUnreadable ErrorCode = "FILE_UNREADABLE"
	// TokenizeFailed indicates the lexer rejected a file
	TokenizeFailed ErrorCode = "TOKENIZE_FAILED"
	// ConfigInvalid indicates a bad run configuration
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ProfileInvalid indicates a bad rule profile
	ProfileInvalid ErrorCode = "PROFILE_INVALID"
	// RuleFailed indicates a rule panicked or returned an error
	RuleFailed ErrorCode = "RULE_FAILED"
	// CacheUnavailable indicates the result cache could not be used
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a file by hand
	EditFile FixActionType = "edit-file"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Path        string        `json:"path,omitempty"`
	Description string        `json:"description,omitempty"`
}

// PlumError carries a stable code next to the message and cause.
type PlumError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a PlumError with the default fixes of its code.
func New(code ErrorCode, message string, cause error) *PlumError {
	return &PlumError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...interface{}) *PlumError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *PlumError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PlumError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *PlumError) WithDetails(details interface{}) *PlumError {
	e.Details = details
	return e
}

// Is matches another PlumError by code.
func (e *PlumError) Is(target error) bool {
	var t *PlumError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// CodeOf returns the code of the first PlumError in the chain, or
// InternalError.
func CodeOf(err error) ErrorCode {
	var pe *PlumError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return InternalError
}

// Sentinel returns a bare PlumError usable with errors.Is to test a code.
func Sentinel(code ErrorCode) error {
	return &PlumError{Code: code}
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "plum config init --force",
			Description: "Write a fresh default configuration",
		},
	},
	ProfileInvalid: {
		{
			Type:        EditFile,
			Path:        ".plum/profile.toml",
			Description: "Fix the rule profile syntax or remove the file",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "plum cache clear",
			Description: "Drop the result cache",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
