package repository

import (
	"context"
	"encoding/json"

	"voice-journal/internal/journal/domain"

	"gorm.io/gorm"
)

type gormEntryRepository struct {
	db *gorm.DB
}

func NewGormEntryRepository(db *gorm.DB) (EntryRepository, error) {
	if err := db.AutoMigrate(&domain.Entry{}); err != nil {
		return nil, err
	}
	return &gormEntryRepository{db: db}, nil
}

func (r *gormEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormEntryRepository) FindByIDs(ctx context.Context, userID string, ids []string) ([]*domain.Entry, error) {
	if len(ids) == 0 {
		return []*domain.Entry{}, nil
	}

	var entries []*domain.Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	ordered := make([]*domain.Entry, 0, len(entries))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			ordered = append(ordered, e)
		}
	}
	return ordered, nil
}

func (r *gormEntryRepository) Recent(ctx context.Context, userID, category string, limit int) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if category != "" {
		filter, err := json.Marshal([]string{category})
		if err != nil {
			return nil, err
		}
		query = query.Where("categories @> ?", string(filter))
	}
	if err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gormEntryRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Entry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
