// Package models defines the client-side entities of the Keijiban app:
// boards mirrored from the server, word-images cut from photos, phrases
// composed from word-images and entries read back from boards.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Board is a bulletin board as cached in the local store.
type Board struct {
	// ID is assigned by the remote service and never reassigned locally.
	ID uuid.UUID

	Name string

	// Index defines display order.
	Index int

	// SyncedAt is the last time a sync confirmed the board on the server.
	SyncedAt *time.Time

	// IsDeleted is a tombstone. Deleted boards stay in the store so that
	// word-images and phrases referencing them keep resolving.
	IsDeleted bool
}

// Update copies the server-owned fields of fetched into b and revives it.
// The ID is left untouched. It reports whether any persisted field other
// than SyncedAt changed.
func (b *Board) Update(fetched Board, now time.Time) bool {
	changed := b.Name != fetched.Name || b.Index != fetched.Index || b.IsDeleted

	b.Name = fetched.Name
	b.Index = fetched.Index
	b.IsDeleted = false
	synced := now
	b.SyncedAt = &synced

	return changed
}

// MarkDeleted sets the tombstone. It reports false when already deleted.
func (b *Board) MarkDeleted() bool {
	if b.IsDeleted {
		return false
	}
	b.IsDeleted = true
	return true
}
