package repository

import (
	"context"
	"errors"

	"voice-journal/internal/journal/domain"
)

var ErrEntryNotFound = errors.New("entry not found")

// EntryRepository stores journal entries
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	// FindByIDs returns the user's entries with the given IDs, in the order
	// the IDs were given. Unknown IDs and other users' entries are skipped.
	FindByIDs(ctx context.Context, userID string, ids []string) ([]*domain.Entry, error)
	// Recent returns the user's newest entries, optionally within one category
	Recent(ctx context.Context, userID, category string, limit int) ([]*domain.Entry, error)
	// Delete removes one of the user's entries
	Delete(ctx context.Context, userID, id string) error
}
