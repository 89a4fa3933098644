package services

import "errors"

// Error kinds returned by the permission services. Call sites wrap these
// with fmt.Errorf("%w: ...") and handlers match them with errors.Is, so the
// transport layer can map each kind to a stable status code without parsing
// message text.
var (
	// ErrForbidden: the actor lacks view rights for the requested read
	ErrForbidden = errors.New("forbidden")

	// ErrNotAuthorized: the actor lacks administer rights for a mutation
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotFound: a referenced festival, user or permission does not resolve
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: the permission is in an incompatible lifecycle state
	ErrInvalidState = errors.New("invalid state")

	// ErrDataAccess: a store or directory call failed; wraps the cause
	ErrDataAccess = errors.New("data access failure")
)
