package service

import (
	"context"
	"fmt"
	"time"

	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/apperror"
)

// AuthServiceImpl implements ports.AuthService. Callers exchange the shared
// API secret for a JWT scoped to a ledger address. Proving control of the
// address itself is left to the deployment environment.
type AuthServiceImpl struct {
	secretHash string
	hashSvc    ports.HashService
	tokenSvc   ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl. secretHash is the Argon2id
// hash of the shared API secret, taken from configuration.
func NewAuthService(secretHash string, hashSvc ports.HashService, tokenSvc ports.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		secretHash: secretHash,
		hashSvc:    hashSvc,
		tokenSvc:   tokenSvc,
	}
}

// IssueToken validates the shared secret and returns a JWT for the address.
func (s *AuthServiceImpl) IssueToken(ctx context.Context, address string, secret string) (string, time.Time, error) {
	addr, err := domain.ParseAddress(address)
	if err != nil {
		return "", time.Time{}, apperror.ErrInvalidAddress(err)
	}

	valid, err := s.hashSvc.Verify(secret, s.secretHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify secret: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(addr)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
