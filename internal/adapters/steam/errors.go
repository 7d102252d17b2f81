package steam

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrMissingStructure marks a well-formed response lacking the expected
	// nested fields for an attribute.
	ErrMissingStructure = errors.New("expected response structure missing")

	// ErrTitleNotOwned marks an owned-games list without the watched title.
	ErrTitleNotOwned = errors.New("watched title not owned")

	// ErrBadStatus marks a non-2xx response.
	ErrBadStatus = errors.New("unexpected response status")

	// ErrIncompleteProfile marks a retrieval attempt that left fields absent.
	ErrIncompleteProfile = errors.New("profile incomplete")
)
