package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"voice-journal/internal/journal/domain"
	"voice-journal/internal/journal/repository"
	"voice-journal/pkg/fuzzy"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 5
	MaxLimit     = 50
	// Without a vector index, search ranks this many recent entries
	fallbackWindow = 200
	statsWindow    = 100
)

type journalUsecase struct {
	entryRepo           repository.EntryRepository
	vectorSearchService VectorSearchService
	classifier          Classifier
	clock               func() time.Time
}

// NewJournalUsecase creates a journal usecase. vectorSearch may be nil, in
// which case search falls back to typo-tolerant keyword ranking.
func NewJournalUsecase(entryRepo repository.EntryRepository, vectorSearch VectorSearchService) JournalUsecase {
	return &journalUsecase{
		entryRepo:           entryRepo,
		vectorSearchService: vectorSearch,
		clock:               time.Now,
	}
}

func (u *journalUsecase) AddEntry(ctx context.Context, userID, text string) (*domain.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyEntry
	}

	entry := &domain.Entry{
		ID:         uuid.New().String(),
		UserID:     userID,
		Text:       text,
		Categories: u.categorize(ctx, text),
		CreatedAt:  u.clock(),
	}
	if err := u.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	// The entry is saved; an indexing failure only hides it from semantic search
	if u.vectorSearchService != nil {
		if err := u.vectorSearchService.UpsertEntry(ctx, entry.ID, userID, text, entry.Categories); err != nil {
			log.Printf("[Journal] Failed to index entry %s: %v", entry.ID, err)
		}
	}

	log.Printf("[Journal] Saved entry %s for user %s in %v", entry.ID, userID, entry.Categories)
	return entry, nil
}

func (u *journalUsecase) SetClassifier(classifier Classifier) {
	u.classifier = classifier
}

func (u *journalUsecase) categorize(ctx context.Context, text string) []string {
	if u.classifier != nil {
		names := make([]string, 0, len(domain.Categories))
		for name := range domain.Categories {
			names = append(names, name)
		}
		sort.Strings(names)

		categories, err := u.classifier.Classify(ctx, text, names)
		if err != nil {
			log.Printf("[Journal] Classification failed, using keywords: %v", err)
		} else if len(categories) > 0 {
			sort.Strings(categories)
			return categories
		}
	}
	return domain.Categorize(text)
}

func (u *journalUsecase) Search(ctx context.Context, userID, query, category string, limit int) ([]*domain.Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Entry{}, nil
	}
	if category != "" && !domain.IsCategory(category) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	limit = clampLimit(limit)

	if u.vectorSearchService != nil {
		entries, err := u.semanticSearch(ctx, userID, query, category, limit)
		if err == nil {
			return entries, nil
		}
		log.Printf("[Journal] Semantic search failed, using keyword search: %v", err)
	}
	return u.keywordSearch(ctx, userID, query, category, limit)
}

func (u *journalUsecase) semanticSearch(ctx context.Context, userID, query, category string, limit int) ([]*domain.Entry, error) {
	// Fetch more to account for category filtering
	fetch := limit
	if category != "" {
		fetch = limit * 3
	}

	ids, _, err := u.vectorSearchService.SemanticSearch(ctx, userID, query, fetch)
	if err != nil {
		return nil, err
	}

	entries, err := u.entryRepo.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Entry, 0, limit)
	for _, e := range entries {
		if category != "" && !e.HasCategory(category) {
			continue
		}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (u *journalUsecase) keywordSearch(ctx context.Context, userID, query, category string, limit int) ([]*domain.Entry, error) {
	candidates, err := u.entryRepo.Recent(ctx, userID, category, fallbackWindow)
	if err != nil {
		return nil, err
	}

	type scored struct {
		entry *domain.Entry
		score float64
	}
	var matches []scored
	for _, e := range candidates {
		if s := fuzzy.RelevanceScore(query, e.Text); s > 0 {
			matches = append(matches, scored{entry: e, score: s})
		}
	}
	// Stable keeps newer entries first among equal scores
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]*domain.Entry, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) >= limit {
			break
		}
		out = append(out, m.entry)
	}
	return out, nil
}

func (u *journalUsecase) Recent(ctx context.Context, userID, category string, limit int) ([]*domain.Entry, error) {
	if category != "" && !domain.IsCategory(category) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return u.entryRepo.Recent(ctx, userID, category, clampLimit(limit))
}

func (u *journalUsecase) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := u.entryRepo.Delete(ctx, userID, entryID); err != nil {
		return err
	}
	if u.vectorSearchService != nil {
		if err := u.vectorSearchService.DeleteEntry(ctx, entryID); err != nil {
			log.Printf("[Journal] Failed to remove entry %s from index: %v", entryID, err)
		}
	}
	return nil
}

func (u *journalUsecase) Stats(ctx context.Context, userID string) (domain.Stats, error) {
	entries, err := u.entryRepo.Recent(ctx, userID, "", statsWindow)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to load entries: %w", err)
	}
	return domain.Summarize(entries), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
