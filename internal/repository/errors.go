// Package repository defines the sentinel errors shared across
// repositories. Handlers translate these into HTTP statuses: conflicts
// (duplicate, cycle, in-use) become 409, dangling references 400,
// not-found 404 and forbidden 403.
package repository

import "errors"

// ErrDuplicateHash is returned when a cigar with the same content hash
// already exists. The hash is the stick's immutable natural identifier,
// so re-ingesting it is always a conflict.
var ErrDuplicateHash = errors.New("cigar hash already exists")

// ErrDanglingRef is returned when a write names a product, size,
// location, brand, type or parent that does not exist.
var ErrDanglingRef = errors.New("referenced row does not exist")

// ErrCycleDetected is returned when a container parent assignment would
// make the container one of its own ancestors.
var ErrCycleDetected = errors.New("container parent chain would cycle")

// ErrInUse is returned when a delete is blocked because dependent rows
// still reference the target (e.g. a brand with products, a location
// holding cigars).
var ErrInUse = errors.New("row still referenced by dependents")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// Per-entity not-found sentinels.
var (
	ErrBrandNotFound         = errors.New("brand not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrSizeNotFound          = errors.New("size not found")
	ErrLocationNotFound      = errors.New("location not found")
	ErrContainerTypeNotFound = errors.New("container type not found")
	ErrContainerNotFound     = errors.New("container not found")
	ErrCigarNotFound         = errors.New("cigar not found")
	ErrSessionNotFound       = errors.New("session not found")
)
