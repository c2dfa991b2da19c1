// Package generator orchestrates search and front-page content generation:
// it decides when stored articles suffice, when to call the generation
// gateway, and how to persist what comes back.
package generator

import "errors"

// Sentinel errors for generator operations.
var (
	// ErrQueryTooShort indicates the search query is under the minimum length.
	ErrQueryTooShort = errors.New("search query must be at least 2 characters")

	// ErrNotConfigured indicates no generation credential is configured.
	// Storage-only reads still work; generation-dependent operations do not.
	ErrNotConfigured = errors.New("generation API key not configured")
)
