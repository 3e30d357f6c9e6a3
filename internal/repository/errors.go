// Package repository defines error values that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios
// and translate them into HTTP statuses: ErrNotFound becomes a 404,
// the duplicate-key errors become 409 responses, and everything else
// is reported as a generic 500.
package repository

import "errors"

// ErrNotFound is returned when a lookup by identifier (or by an
// alternate key such as a car number) resolves to no row.  Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an account insert collides with the
// unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrAccountNameExists is returned when an account insert collides
// with the unique account_name index.
var ErrAccountNameExists = errors.New("account name already exists")
