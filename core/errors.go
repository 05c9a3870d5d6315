package core

import (
	"errors"
	"fmt"
	"strings"
)

// Payload errors
var (
	ErrUserNotFound  = errors.New("user not found in response")  // neither envelope shape held a record
	ErrMissingFID    = errors.New("profile payload missing fid") // record without a usable id
	ErrCacheNotFound = errors.New("profile not found in cache")
)

// Config errors (engine construction)
var (
	ErrSignInRequired   = errors.New("sign-in source is required")
	ErrNoProfileSources = errors.New("at least one profile source is required")
)

// SourceError records one failed enrichment attempt against one data source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ResolutionError is returned when every enrichment source failed for a fid.
// It carries the per-source failure reasons in attempt order.
type ResolutionError struct {
	FID      int64
	Attempts []*SourceError
}

func (e *ResolutionError) Error() string {
	reasons := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		reasons[i] = a.Error()
	}
	return fmt.Sprintf("profile resolution failed for fid %d: %s", e.FID, strings.Join(reasons, "; "))
}

func (e *ResolutionError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a
	}
	return errs
}
