// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the ledger engine to distinguish between different
// failure scenarios without string matching. All lookups are scoped
// by event key, so "not found" also covers rows that exist under a
// different event: a cross-event id must be indistinguishable from a
// missing one.
package repository

import "errors"

// ErrWalletNotFound is returned when no wallet matches the requested
// id or code under the caller's event key. Handlers should translate
// this into an HTTP 404 response.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrRegistrationNotFound is returned when a check-in transition or
// gate read targets a registration that does not exist under the
// caller's event key. Handlers should translate this into 404.
var ErrRegistrationNotFound = errors.New("registration not found")

// ErrDuplicateAction is returned when inserting a ledger row violates
// the unique (event_key, action_id) index. The ledger engine treats
// this as a concurrent idempotent replay of the same logical action,
// not as a failure.
var ErrDuplicateAction = errors.New("duplicate action id")
