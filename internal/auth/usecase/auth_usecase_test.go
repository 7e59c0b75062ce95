package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "voice-journal/internal/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

type fakeTokenRepo struct {
	saved   map[string]string
	deleted []string
}

func (r *fakeTokenRepo) SaveToken(_ context.Context, userID, token, _ string) error {
	r.saved[token] = userID
	return nil
}

func (r *fakeTokenRepo) GetTokensByUserID(context.Context, string) ([]authdomain.FCMToken, error) {
	return nil, nil
}

func (r *fakeTokenRepo) DeleteToken(_ context.Context, token string) error {
	r.deleted = append(r.deleted, token)
	return nil
}

func TestIssueAndValidateToken(t *testing.T) {
	uc := NewAuthUsecase(&fakeTokenRepo{}, "test-secret", time.Hour)

	token, err := uc.IssueToken("42")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	userID, err := uc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if userID != "42" {
		t.Errorf("expected user 42, got %q", userID)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	uc := NewAuthUsecase(&fakeTokenRepo{}, "test-secret", time.Hour)
	other := NewAuthUsecase(&fakeTokenRepo{}, "other-secret", time.Hour)
	expired := NewAuthUsecase(&fakeTokenRepo{}, "test-secret", -time.Minute)

	foreign, _ := other.IssueToken("42")
	stale, _ := expired.IssueToken("42")
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"missing user", noUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestRegisterDevice(t *testing.T) {
	repo := &fakeTokenRepo{saved: map[string]string{}}
	uc := NewAuthUsecase(repo, "s", time.Hour)
	ctx := context.Background()

	if err := uc.RegisterDevice(ctx, "42", "tok-1", "pixel"); err != nil {
		t.Fatalf("RegisterDevice failed: %v", err)
	}
	if repo.saved["tok-1"] != "42" {
		t.Errorf("expected token saved for user 42, got %v", repo.saved)
	}
	if err := uc.RegisterDevice(ctx, "42", " ", ""); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("expected ErrEmptyToken, got %v", err)
	}
	if err := uc.UnregisterDevice(ctx, "tok-1"); err != nil || len(repo.deleted) != 1 {
		t.Errorf("expected token deleted, err=%v deleted=%v", err, repo.deleted)
	}
}
