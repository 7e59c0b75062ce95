package repository

import (
	"context"
	"sync"
	"time"

	authdomain "voice-journal/internal/auth/domain"

	"github.com/google/uuid"
)

type memoryFCMTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]authdomain.FCMToken // keyed by token
}

// NewMemoryFCMTokenRepository keeps device tokens in process memory. Used
// when no database is configured.
func NewMemoryFCMTokenRepository() FCMTokenRepository {
	return &memoryFCMTokenRepository{tokens: make(map[string]authdomain.FCMToken)}
}

func (r *memoryFCMTokenRepository) SaveToken(_ context.Context, userID, token, deviceInfo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	existing, ok := r.tokens[token]
	if !ok {
		existing = authdomain.FCMToken{ID: uuid.New().String(), Token: token, CreatedAt: now}
	}
	existing.UserID = userID
	existing.DeviceInfo = deviceInfo
	existing.UpdatedAt = now
	r.tokens[token] = existing
	return nil
}

func (r *memoryFCMTokenRepository) GetTokensByUserID(_ context.Context, userID string) ([]authdomain.FCMToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []authdomain.FCMToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryFCMTokenRepository) DeleteToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}
