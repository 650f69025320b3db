// Package core provides the data-management engine behind the order list.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: Please fill in all required fields
//	         Action: Enter customer name, email, project and address
//	         Patterns: "required field"
//
//	VAL002 - Invalid status: Status is not in the allowed list
//	         Action: Choose pending, in-progress, complete, approved or rejected
//	         Patterns: "invalid status"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: The list session does not exist or has expired
//	         Action: Reload the page to start a new session
//	         Patterns: "session not found"
//
//	SES002 - Session closed: The list session was closed
//	         Action: Reload the page to start a new session
//	         Patterns: "session closed"
//
//	SES003 - Loading: Orders are still loading
//	         Action: Wait for the list to finish loading and try again
//	         Patterns: "still loading"
//
// # Query Errors (QRY001-QRY099)
//
//	QRY001 - Invalid page: Page number is not valid
//	         Action: Choose a page between 1 and the last page
//	         Patterns: "invalid page"
//
//	QRY002 - Invalid request: The request could not be read
//	         Action: Check the request body and try again
//	         Patterns: "invalid request"
//
//	QRY003 - Not on page: The selected order is not on the current page
//	         Action: Refresh the list and select the order again
//	         Patterns: "not on current page"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Hints attached with cockroachdb/errors (errors.WithHint) replace the
// default Action of the matched message.
package core

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
// Errors wrapping sentinel match it regardless of their text.
type errorPattern struct {
	pattern  string
	sentinel error
	msg      UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern:  "required field",
		msg: UserMessage{
			Message: MissingFieldsMessage,
			Action:  "Enter customer name, email, project and address",
			Code:    "VAL001",
		},
	},
	{
		pattern:  "invalid status",
		msg: UserMessage{
			Message: "Status is not in the allowed list",
			Action:  "Choose pending, in-progress, complete, approved or rejected",
			Code:    "VAL002",
		},
	},
	{
		pattern:  "session not found",
		sentinel: ErrSessionNotFound,
		msg: UserMessage{
			Message: "The list session does not exist or has expired",
			Action:  "Reload the page to start a new session",
			Code:    "SES001",
		},
	},
	{
		pattern:  "session closed",
		sentinel: ErrSessionClosed,
		msg: UserMessage{
			Message: "The list session was closed",
			Action:  "Reload the page to start a new session",
			Code:    "SES002",
		},
	},
	{
		pattern:  "still loading",
		sentinel: ErrListLoading,
		msg: UserMessage{
			Message: "Orders are still loading",
			Action:  "Wait for the list to finish loading and try again",
			Code:    "SES003",
		},
	},
	{
		pattern:  "not on current page",
		sentinel: ErrRecordNotOnPage,
		msg: UserMessage{
			Message: "That order is not on the current page",
			Action:  "Refresh the list and select the order again",
			Code:    "QRY003",
		},
	},
	{
		pattern:  "invalid page",
		sentinel: ErrInvalidPage,
		msg: UserMessage{
			Message: "Page number is not valid",
			Action:  "Choose a page between 1 and the last page",
			Code:    "QRY001",
		},
	},
	{
		pattern:  "invalid request",
		sentinel: ErrInvalidRequest,
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request body and try again",
			Code:    "QRY002",
		},
	},
	{
		pattern:  "rate limit",
		sentinel: ErrRateLimited,
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Validation errors and wrapped sentinels are matched by identity first, so
// text quoted into an error cannot change its code. Other errors are searched
// for known patterns (case-insensitive). If nothing matches, a generic
// fallback message with code ERR000 is returned.
//
// Example:
//
//	_, err := list.Submit(core.RecordForm{})
//	msg := MapError(err)
//	// msg.Code == "VAL001"
//	// msg.Message == "Please fill in all required fields"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	msg, ok := matchKnown(err)
	if !ok {
		msg = matchPattern(err)
	}

	if hints := errors.GetAllHints(err); len(hints) > 0 {
		msg.Action = strings.Join(hints, " ")
	}
	return msg
}

func matchKnown(err error) (UserMessage, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.MissingRequired() {
			return matchPattern(errors.New(msgRequired)), true
		}
		return matchPattern(errors.New(msgInvalidStatus)), true
	}
	for _, ep := range errorPatterns {
		if ep.sentinel != nil && errors.Is(err, ep.sentinel) {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

func matchPattern(err error) UserMessage {
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}
