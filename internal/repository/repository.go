// Package repository holds the PostgreSQL adapters behind the sync
// reconciler's backend interfaces, plus the notification log the worker
// writes to.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist. Callers decide
// whether that is a validation failure or a fresh-account case.
var ErrNotFound = errors.New("repository: not found")
