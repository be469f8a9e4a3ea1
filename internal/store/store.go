// Package store provides the reservation store collaborators: a
// record-oriented resource holding {reservation_id, user_id, table_id,
// date, slot_type, created_at} rows plus a flat user directory.
//
// Every backend carries a monotonically increasing version token. Mutations
// pass the caller's last-seen version and fail with ErrVersionConflict when
// another writer got there first; the booking cache invalidates itself on
// that signal instead of silently overwriting.
package store

import (
	"context"
	"errors"

	"hotdesk/internal/models"
)

// Version is the optimistic-concurrency token returned by every read and
// accepted by every write.
type Version int64

var (
	// ErrVersionConflict signals a stale version token on a mutation.
	ErrVersionConflict = errors.New("store version conflict")
	// ErrNotFound signals a delete target that does not exist.
	ErrNotFound = errors.New("reservation not found in store")
)

// Store is the reservation record set.
type Store interface {
	// LoadAll returns the full current record set and its version.
	LoadAll(ctx context.Context) ([]models.Reservation, Version, error)
	// Upsert adds the record, or replaces it when the id already exists.
	Upsert(ctx context.Context, rec models.Reservation, expected Version) (Version, error)
	// Delete removes the record by id; ErrNotFound when absent.
	Delete(ctx context.Context, reservationID string, expected Version) (Version, error)
	// Reset drops every reservation. Used by tests and the ops reset route.
	Reset(ctx context.Context) (Version, error)
}

// UserDirectory is the parallel {user_id, email} record set used by the
// login flow.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	LoadUsers(ctx context.Context) ([]models.User, error)
	UpsertUser(ctx context.Context, user models.User) error
}
