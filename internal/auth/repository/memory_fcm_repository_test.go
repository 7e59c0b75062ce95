package repository

import (
	"context"
	"testing"
)

func TestMemoryFCMTokenRepository(t *testing.T) {
	repo := NewMemoryFCMTokenRepository()
	ctx := context.Background()

	repo.SaveToken(ctx, "42", "tok-a", "phone")
	repo.SaveToken(ctx, "42", "tok-b", "laptop")
	// Re-registering moves the token to the new user
	repo.SaveToken(ctx, "7", "tok-b", "laptop")

	mine, err := repo.GetTokensByUserID(ctx, "42")
	if err != nil {
		t.Fatalf("GetTokensByUserID failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Token != "tok-a" {
		t.Errorf("expected only tok-a for user 42, got %+v", mine)
	}

	repo.DeleteToken(ctx, "tok-a")
	if mine, _ := repo.GetTokensByUserID(ctx, "42"); len(mine) != 0 {
		t.Errorf("expected no tokens after delete, got %+v", mine)
	}
}
