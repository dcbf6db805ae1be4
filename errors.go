package anndex

import "github.com/anndex/anndex/index"

// These aliases let callers catch index package errors without importing
// index directly, mirroring the teacher's own errors.go re-export surface.
type (
	ErrDimensionMismatch   = index.ErrDimensionMismatch
	ErrUnsupportedOperation = index.ErrUnsupportedOperation
)

var (
	// ErrEmptyDataset is returned by Fit when given zero rows.
	ErrEmptyDataset = index.ErrEmptyDataset
	// ErrNotFitted is returned by KNNQuery/RadiusQuery before Fit has run.
	ErrNotFitted = index.ErrNotFitted
)
