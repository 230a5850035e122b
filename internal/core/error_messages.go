package core

// error_messages.go maps technical errors to user-friendly messages
// with support codes. When users report a problem they can quote the
// code, and support staff can match it against the server logs.
//
// Codes are grouped by category:
//
//	FILE001 - File too large
//	FILE002 - Not a readable spreadsheet
//	FILE003 - Missing upload
//	FILE004 - Empty spreadsheet
//	FILE005 - No data rows
//	VAL001  - Missing required column
//	VAL002  - Empty required cell
//	VAL003  - Forbidden character in a competency name
//	VAL004  - Competency without a match in the companion file
//	API001  - Assessment API unreachable
//	API002  - Assessment API request timed out
//	ERR000  - Fallback for unexpected errors

import (
	"fmt"
	"strings"
)

// UserMessage is a user-facing description of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// Patterns are checked in order; first (case-insensitive) substring
// match wins.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "not a valid spreadsheet",
		msg: UserMessage{
			Message: "File could not be read as a spreadsheet",
			Action:  "Upload an .xlsx or .csv file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Attach both the competency matrix and the Q&A file",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no header row",
		msg: UserMessage{
			Message: "The spreadsheet is empty",
			Action:  "Put the column names in the first row of the first sheet",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The spreadsheet has no data rows",
			Action:  "Add at least one data row below the header",
			Code:    "FILE005",
		},
	},
	{
		pattern: "required column",
		msg: UserMessage{
			Message: "A required column is missing",
			Action:  "Check that the column names match the expected set exactly",
			Code:    "VAL001",
		},
	},
	{
		pattern: "cell in column",
		msg: UserMessage{
			Message: "A required cell is empty",
			Action:  "Fill in every required column and re-upload",
			Code:    "VAL002",
		},
	},
	{
		pattern: "must not contain",
		msg: UserMessage{
			Message: "A competency name contains a forbidden character",
			Action:  "Remove commas and parentheses from competency names",
			Code:    "VAL003",
		},
	},
	{
		pattern: "no match in the competency matrix",
		msg: UserMessage{
			Message: "The Q&A file references a competency the matrix does not define",
			Action:  "Align competency names between the two files",
			Code:    "VAL004",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The assessment API is unreachable",
			Action:  "Check the API URL and try again in a few moments",
			Code:    "API001",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "The assessment API request timed out",
			Action:  "Try again later or raise the request timeout",
			Code:    "API002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000). Support
// staff should check the logs for the original technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the generic ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a display string in the form
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
