package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"voice-journal/internal/auth/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptyToken   = errors.New("device token is required")
)

// AuthUsecase issues and validates API tokens and manages the push devices
// a user registered
type AuthUsecase interface {
	IssueToken(userID string) (string, error)
	ValidateToken(tokenString string) (string, error)
	RegisterDevice(ctx context.Context, userID, token, deviceInfo string) error
	UnregisterDevice(ctx context.Context, token string) error
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	fcmRepo     repository.FCMTokenRepository
	secret      []byte
	tokenExpiry time.Duration
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(fcmRepo repository.FCMTokenRepository, secret string, tokenExpiry time.Duration) AuthUsecase {
	return &authUsecase{
		fcmRepo:     fcmRepo,
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
	}
}

func (u *authUsecase) IssueToken(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id is required")
	}
	claims := jwt.MapClaims{
		"user_id":  userID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.tokenExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.secret)
}

func (u *authUsecase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return u.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (u *authUsecase) RegisterDevice(ctx context.Context, userID, token, deviceInfo string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	return u.fcmRepo.SaveToken(ctx, userID, token, deviceInfo)
}

func (u *authUsecase) UnregisterDevice(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	return u.fcmRepo.DeleteToken(ctx, token)
}
