// Error Codes Reference
//
// This file maps build errors to user-facing messages with codes, so a run
// that fails in CI can be diagnosed from its last log line.
//
// Error codes are grouped by category:
//
// # Reference Data Errors (REF001-REF099)
//
//	REF001 - Unresolved reference: A row names an entity that does not exist
//	         Action: Check the identifiers in the referenced table
//	         Sentinel: ErrReference
//
//	REF002 - Malformed row: A row is too short or misses its identifier
//	         Action: Check the column count of the offending file
//	         Sentinel: ErrMalformedRow
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - Invalid number: A mandatory numeric column is not a number
//	           Action: Fix the value at the reported file and line
//	           Sentinel: ErrParse, Patterns: "invalid number"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Missing default: A run-level default such as the reference currency is missing
//	         Action: Mark one currency as the reference currency
//	         Sentinel: ErrConfiguration
//
//	CFG002 - Invalid setting: An environment setting is invalid
//	         Action: Check the environment variables listed in the error
//	         Patterns: "config validation failed"
//
// # Consistency Errors (CONS001-CONS099)
//
//	CONS001 - Index mismatch: The matrix indexes disagree with the entity graph
//	          Action: Report this as a bug with the full log
//	          Sentinel: ErrConsistency
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Not found: A file or directory does not exist
//	          Patterns: "no such file or directory"
//
//	FILE002 - Permission denied: A file cannot be read or written
//	          Patterns: "permission denied"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to database
//	DB002 - Timeout: Operation timed out
//	DB003 - Duplicate key: The run was already exported
//
// # Blob Store Errors (BLOB001-BLOB099)
//
//	BLOB001 - Upload failed: An artifact could not be published
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the log for the technical error.
//
// Sentinels are matched with errors.Is first; otherwise error patterns are
// matched case-insensitively with strings.Contains and the first match wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

// sentinelMessages is checked before the text patterns.
// ErrParse comes before ErrReference: a parse error may wrap a reference.
var sentinelMessages = []sentinelMessage{
	{
		target: ErrConsistency,
		msg: UserMessage{
			Message: "Matrix indexes disagree with the entity graph",
			Action:  "Report this as a bug with the full log",
			Code:    "CONS001",
		},
	},
	{
		target: ErrParse,
		msg: UserMessage{
			Message: "A mandatory numeric column is not a number",
			Action:  "Fix the value at the reported file and line",
			Code:    "PARSE001",
		},
	},
	{
		target: ErrReference,
		msg: UserMessage{
			Message: "A row names an entity that does not exist",
			Action:  "Check the identifiers in the referenced table",
			Code:    "REF001",
		},
	},
	{
		target: ErrMalformedRow,
		msg: UserMessage{
			Message: "A row is too short or misses its identifier",
			Action:  "Check the column count of the offending file",
			Code:    "REF002",
		},
	},
	{
		target: ErrConfiguration,
		msg: UserMessage{
			Message: "A run-level default is missing",
			Action:  "Mark one currency as the reference currency",
			Code:    "CFG001",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// More specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "A mandatory numeric column is not a number",
			Action:  "Fix the value at the reported file and line",
			Code:    "PARSE001",
		},
	},
	{
		pattern: "config validation failed",
		msg: UserMessage{
			Message: "An environment setting is invalid",
			Action:  "Check the environment variables listed in the error",
			Code:    "CFG002",
		},
	},
	{
		pattern: "no such file or directory",
		msg: UserMessage{
			Message: "A file or directory does not exist",
			Action:  "Check REFDATA_DIR and BUILD_DIR",
			Code:    "FILE001",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "A file cannot be read or written",
			Action:  "Check the permissions of the data and build directories",
			Code:    "FILE002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and that the server is running",
			Code:    "DB001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "This run was already exported",
			Action:  "Export with a new run ID",
			Code:    "DB003",
		},
	},
	{
		pattern: "blob put",
		msg: UserMessage{
			Message: "An artifact could not be published",
			Action:  "Check the BLOB_* settings and bucket permissions",
			Code:    "BLOB001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	err := fmt.Errorf("flow %q: %w", id, ErrConsistency)
//	msg := MapError(err)
//	// msg.Code == "CONS001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
