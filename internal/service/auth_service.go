package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgeform/edgeform/internal/auth"
	"github.com/edgeform/edgeform/internal/kv"
	"github.com/edgeform/edgeform/internal/repository"
)

// AuthService exchanges the shared admin password for a session token.
// Both the password hash and the signing secret are read from the store
// on every call so out-of-band rotation takes effect immediately.
type AuthService struct {
	store kv.Store
}

func NewAuthService(store kv.Store) *AuthService {
	return &AuthService{store: store}
}

// Login verifies the admin password and issues a session token.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password required", ErrValidation)
	}

	storedHash, err := s.store.Get(ctx, repository.KeyAdminPasswordHash)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", fmt.Errorf("%w: password not configured", ErrNotConfigured)
		}
		return "", fmt.Errorf("read password hash: %w", err)
	}

	if !auth.CheckPassword(password, string(storedHash)) {
		return "", ErrInvalidPassword
	}

	secret, err := s.JWTSecret(ctx)
	if err != nil {
		return "", err
	}
	token, err := auth.IssueToken(secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// JWTSecret reads the signing secret from the store. Used both at login
// and by the bearer middleware on every protected request.
func (s *AuthService) JWTSecret(ctx context.Context) (string, error) {
	secret, err := s.store.Get(ctx, repository.KeyJWTSecret)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", fmt.Errorf("%w: jwt secret not configured", ErrNotConfigured)
		}
		return "", fmt.Errorf("read jwt secret: %w", err)
	}
	return string(secret), nil
}
