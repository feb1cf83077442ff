// Package repository holds the GORM-backed data access layer. Services
// consume these types through narrow interfaces so they can be tested
// against in-memory fakes.
package repository

import "errors"

// ErrNotFound is returned instead of the driver's not-found error so
// callers never depend on GORM.
var ErrNotFound = errors.New("record not found")
