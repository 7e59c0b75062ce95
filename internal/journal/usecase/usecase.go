package usecase

import (
	"context"
	"errors"

	"voice-journal/internal/journal/domain"
)

var (
	ErrEmptyEntry      = errors.New("entry text is required")
	ErrUnknownCategory = errors.New("unknown category")
)

// VectorSearchService indexes entries for semantic search
type VectorSearchService interface {
	UpsertEntry(ctx context.Context, entryID, userID, text string, categories []string) error
	SemanticSearch(ctx context.Context, userID, query string, limit int) ([]string, []float64, error)
	DeleteEntry(ctx context.Context, entryID string) error
}

// Classifier assigns categories to entry text, typically with an LLM
type Classifier interface {
	Classify(ctx context.Context, text string, categories []string) ([]string, error)
}

// JournalUsecase defines the journal operations
type JournalUsecase interface {
	// AddEntry categorizes and stores an entry
	AddEntry(ctx context.Context, userID, text string) (*domain.Entry, error)

	// Search returns the user's entries most relevant to query, optionally
	// within one category
	Search(ctx context.Context, userID, query, category string, limit int) ([]*domain.Entry, error)

	// Recent returns the user's newest entries
	Recent(ctx context.Context, userID, category string, limit int) ([]*domain.Entry, error)

	DeleteEntry(ctx context.Context, userID, entryID string) error

	// Stats counts the user's recent entries per category
	Stats(ctx context.Context, userID string) (domain.Stats, error)

	// SetClassifier enables model-based categorization; keyword matching
	// remains the fallback
	SetClassifier(classifier Classifier)
}
