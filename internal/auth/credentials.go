package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/pkg/logging"
)

// MinPasswordLen is the minimum accepted plaintext length
const MinPasswordLen = 6

// PasswordStore persists one credential hash per user. It deliberately
// offers no enumeration: only per-user reads and writes exist.
type PasswordStore interface {
	GetPasswordHash(ctx context.Context, userID string) (string, error)
	SetPasswordHash(ctx context.Context, userID, hash string) error
}

// Service is the credential layer entry point
type Service struct {
	store  PasswordStore
	params Params
	logger *zap.Logger
}

// NewService creates a credential service over the given store
func NewService(store PasswordStore, params Params) *Service {
	return &Service{
		store:  store,
		params: params,
		logger: logging.WithComponent("credentials"),
	}
}

// Hash validates and hashes a plaintext password without storing it.
// Registration uses this so the user and credential rows can be written in
// one transaction.
func (s *Service) Hash(plaintext string) (string, error) {
	if len(plaintext) < MinPasswordLen {
		return "", apperr.InvalidArgument("password must be at least %d characters long", MinPasswordLen)
	}
	return HashPassword(plaintext, s.params)
}

// SetPassword derives a salted hash for plaintext and stores it,
// overwriting any existing credential for the user.
func (s *Service) SetPassword(ctx context.Context, userID, plaintext string) error {
	if len(plaintext) < MinPasswordLen {
		return apperr.InvalidArgument("password must be at least %d characters long", MinPasswordLen)
	}

	hash, err := HashPassword(plaintext, s.params)
	if err != nil {
		return err
	}
	return s.store.SetPasswordHash(ctx, userID, hash)
}

// VerifyPassword checks plaintext against the stored credential. It fails
// closed: an unknown user or a mismatch both return false with no error.
// Only store transport failures are surfaced.
func (s *Service) VerifyPassword(ctx context.Context, userID, plaintext string) (bool, error) {
	hash, err := s.store.GetPasswordHash(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	ok := VerifyPassword(plaintext, hash)
	if !ok {
		s.logger.Debug("password verification failed", zap.String("user_id", userID))
	}
	return ok, nil
}
