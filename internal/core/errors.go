package core

import "github.com/cockroachdb/errors"

var (
	// ErrSessionNotFound indicates the session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed indicates the list was torn down.
	ErrSessionClosed = errors.New("session closed")
	// ErrListLoading indicates the seed data has not been applied yet.
	ErrListLoading = errors.New("list is still loading")
	// ErrRecordNotOnPage indicates a selection toggle for an id that is not visible.
	ErrRecordNotOnPage = errors.New("record not on current page")
	// ErrInvalidPage indicates a page number that is not an integer.
	ErrInvalidPage = errors.New("invalid page")
	// ErrInvalidRequest indicates a request body or parameter that cannot be read.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRateLimited indicates the client exceeded its request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
)
