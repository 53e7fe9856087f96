package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned once the fetcher's rate-limit retry budget
	// is exhausted.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrMalformedResponse is returned when an upstream API answers with a
	// body that cannot be parsed as the expected JSON shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrDuplicateKey is returned when a storage write hits a unique-key
	// conflict that survived deduplication.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrMissingCredentials is returned when a store lacks the credential
	// fields its platform requires. No network call is made in this case.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrSyncInProgress is returned when a sync is requested for a store
	// that already has one in flight.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrForbidden is returned when the current user does not own the
	// targeted resource and is not an admin.
	ErrForbidden = errors.New("forbidden")
)

// FetchError carries the HTTP status and body of a non-2xx upstream response
// that persisted past the fetcher's single retry.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: status %d: %s", e.StatusCode, e.Body)
}
