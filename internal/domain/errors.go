package domain

import "errors"

var (
	ErrCredentialMissing = errors.New("bearer credential not configured")
	ErrResolutionFailed  = errors.New("account resolution failed")
	ErrListingFailed     = errors.New("post listing failed")
	// ErrEmptyResult is returned when the listing succeeded with zero posts.
	// Empty live data is never served.
	ErrEmptyResult = errors.New("no posts returned")
	ErrUnexpected  = errors.New("unexpected retrieval failure")
)
