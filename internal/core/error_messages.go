// Package core provides the ingestion, classification and charting logic of
// the analyzer.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users can quote the code when reporting a problem.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Upload a smaller file or remove unused rows
//	          Patterns: "file too large"
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Action: Check quoting and delimiters
//	          Patterns: "invalid csv"
//
//	FILE003 - Encoding: File contains invalid characters
//	          Action: Save file as UTF-8
//	          Patterns: "encoding error"
//
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The file has no header row
//	          Sentinel: ErrEmptyFile
//
//	FILE006 - Unsupported format: Only CSV, XLS and XLSX are accepted
//	          Sentinel: ErrUnsupportedFormat
//
//	FILE007 - Invalid workbook: The spreadsheet could not be opened
//	          Patterns: "open workbook", "read sheet"
//
// # Visualization Errors (VIZ001-VIZ099)
//
//	VIZ001 - Chart failed: carries the builder's reason
//	         Action: Try different axis selections or check data types
//	         Sentinel: ErrVisualization
//
//	VIZ002 - No figure: Could not generate visualization with current parameters
//	         Sentinel: ErrNoVisualization
//
//	VIZ003 - Bad request: The chart settings could not be read
//	         Patterns: "invalid chart configuration"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found or expired
//	         Sentinel: ErrSessionNotFound
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - Busy: Too many files are being processed
//	         Sentinel: ErrTooManyUploads
//
//	UPL004 - Cancelled: "context canceled"
//	UPL005 - Timed out: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests: "rate limit"
//
// Anything else maps to ERR000; check the logs for the technical error.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is an error rewritten for display.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type errorSentinel struct {
	target error
	msg    UserMessage
}

// Sentinels are checked with errors.Is before any text pattern.
var errorSentinels = []errorSentinel{
	{
		target: ErrUnsupportedFormat,
		msg: UserMessage{
			Message: "Unsupported file format",
			Action:  "Upload a .csv, .xls or .xlsx file",
			Code:    "FILE006",
		},
	},
	{
		target: ErrEmptyFile,
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row and data rows",
			Code:    "FILE005",
		},
	},
	{
		target: ErrNoVisualization,
		msg: UserMessage{
			Message: "Could not generate visualization with current parameters",
			Action:  VizHint,
			Code:    "VIZ002",
		},
	},
	{
		target: ErrSessionNotFound,
		msg: UserMessage{
			Message: "Your data session was not found or has expired",
			Action:  "Upload the file again",
			Code:    "SES001",
		},
	},
	{
		target: ErrTooManyUploads,
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller file or remove unused rows",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Check that quoted values are closed and the delimiter is consistent",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV or Excel file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The spreadsheet could not be opened",
			Action:  "Re-save the workbook in Excel or export it as CSV",
			Code:    "FILE007",
		},
	},
	{
		pattern: "read sheet",
		msg: UserMessage{
			Message: "The spreadsheet could not be opened",
			Action:  "Re-save the workbook in Excel or export it as CSV",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Request Errors
	// =========================================================================
	{
		pattern: "invalid chart configuration",
		msg: UserMessage{
			Message: "The chart settings could not be read",
			Action:  "Reload the page and choose the chart options again",
			Code:    "VIZ003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Visualization errors keep the builder's reason in the message; known
// sentinels are matched next, then case-insensitive text patterns. Anything
// else gets the ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve *VizError
	if errors.As(err, &ve) {
		return UserMessage{
			Message: "Error generating visualization: " + ve.Err.Error(),
			Action:  ve.Hint(),
			Code:    "VIZ001",
		}
	}

	for _, s := range errorSentinels {
		if errors.Is(err, s.target) {
			return s.msg
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

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
