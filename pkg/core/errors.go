package core

import "errors"

// Common errors.
var (
	// ErrValidation reports a blank title or content on create/update.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound reports an update against an id that is not in the collection.
	ErrNotFound = errors.New("dream not found")
	// ErrStorage wraps failures of the underlying storage adapter.
	ErrStorage = errors.New("storage failure")
	// ErrCorrupt is returned by reads in strict mode when the stored blob cannot be decoded.
	ErrCorrupt = errors.New("stored collection is corrupt")
	// ErrReadOnly is returned by every mutation when the store is opened read-only.
	ErrReadOnly = errors.New("store is in read-only mode")
	// ErrNotSupported is returned when the storage adapter lacks an optional capability.
	ErrNotSupported = errors.New("operation not supported by storage adapter")
)
