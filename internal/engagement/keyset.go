// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

import (
	"context"
	"errors"
)

// Sentinel errors returned across the engagement subsystem. Callers
// classify with errors.Is; the HTTP boundary maps them to status codes.
var (
	// ErrStoreUnavailable indicates the key-set store could not complete
	// the operation. The wrapped cause carries backend detail.
	ErrStoreUnavailable = errors.New("engagement store unavailable")

	// ErrInvalidCredential indicates a bearer credential was presented
	// but failed verification (malformed, expired, bad signature).
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrForbidden indicates a verified (or anonymous) caller is not
	// permitted to access the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the referenced entity does not exist in the
	// relational system of record.
	ErrNotFound = errors.New("not found")
)

// KeySetStore is the storage contract for engagement state: named sets
// of opaque member strings.
//
// Each individual operation is atomic with respect to concurrent
// callers on the same key. No atomicity is promised across keys or
// across sequences of operations; the Tracker is written to tolerate
// interruption between steps.
//
// Implementations must not interpret keys or members beyond treating
// them as byte strings.
type KeySetStore interface {
	// Add inserts member into the set at key, creating the set if
	// absent. Adding an existing member is a no-op.
	Add(ctx context.Context, key, member string) error

	// Remove deletes member from the set at key. Removing an absent
	// member or from an absent set is a no-op.
	Remove(ctx context.Context, key, member string) error

	// Contains reports whether member is in the set at key. An absent
	// set contains nothing.
	Contains(ctx context.Context, key, member string) (bool, error)

	// Cardinality returns the number of members in the set at key.
	// An absent set has cardinality zero.
	Cardinality(ctx context.Context, key string) (int64, error)

	// Members returns all members of the set at key. An absent set
	// yields an empty slice. Order is unspecified.
	Members(ctx context.Context, key string) ([]string, error)

	// Delete removes the entire set at key. Deleting an absent set is
	// a no-op.
	Delete(ctx context.Context, key string) error
}
