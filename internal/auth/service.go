package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

// errInvalidCredentials is shared by the no-such-user and wrong-password
// paths so the two are indistinguishable to the caller.
var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)

// Service orchestrates registration, login, refresh, logout, and identity
// lookup. It is the only component that touches the stored hash fields.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account. No tokens are issued here; registration and
// login are distinct steps. Email is checked before username.
func (s *Service) Register(ctx context.Context, email, username, password string) (SafeUser, error) {
	if err := s.checkTaken(ctx, "email", func() (*User, error) { return s.repo.FindByEmail(ctx, email) }); err != nil {
		return SafeUser{}, err
	}
	if err := s.checkTaken(ctx, "username", func() (*User, error) { return s.repo.FindByUsername(ctx, username) }); err != nil {
		return SafeUser{}, err
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return SafeUser{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return SafeUser{}, err
	}
	return user.Safe(), nil
}

func (s *Service) checkTaken(ctx context.Context, field string, find func() (*User, error)) error {
	_, err := find()
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s already in use", httpx.ErrConflict, field)
	case errors.Is(err, httpx.ErrNotFound):
		return nil
	default:
		return err
	}
}

// Login verifies credentials against the identifier (email or username) and
// mints a fresh token pair. The new refresh hash overwrites any previous
// one, so at most one refresh token per account is ever valid.
func (s *Service) Login(ctx context.Context, identifier, password string) (TokenPair, error) {
	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return TokenPair{}, errInvalidCredentials
		}
		return TokenPair{}, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return TokenPair{}, errInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refreshHash, err := HashRefreshToken(pair.RefreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: hash refresh token: %w", err)
	}
	if err := s.repo.SetRefreshTokenHash(ctx, user.ID, refreshHash); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Refresh rotates the session tokens. The caller's identity comes from an
// already verified token; the presented refresh token is additionally
// checked against the stored hash, so a superseded token is rejected even
// while its signature is still valid. The rotation write is conditional on
// the hash it compared against, and losing that race is treated the same
// as presenting a stale token.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID, refreshToken string) (TokenPair, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: no active session", httpx.ErrForbidden)
		}
		return TokenPair{}, err
	}
	if user.RefreshTokenHash == nil {
		return TokenPair{}, fmt.Errorf("%w: no active session", httpx.ErrForbidden)
	}
	if !CheckRefreshToken(*user.RefreshTokenHash, refreshToken) {
		return TokenPair{}, fmt.Errorf("%w: invalid refresh token", httpx.ErrForbidden)
	}

	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return TokenPair{}, err
	}
	newHash, err := HashRefreshToken(pair.RefreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: hash refresh token: %w", err)
	}
	if err := s.repo.RotateRefreshTokenHash(ctx, userID, *user.RefreshTokenHash, newHash); err != nil {
		if errors.Is(err, ErrStaleRefreshHash) {
			return TokenPair{}, fmt.Errorf("%w: invalid refresh token", httpx.ErrForbidden)
		}
		return TokenPair{}, err
	}
	return pair, nil
}

// Logout revokes the current session by clearing the stored refresh hash.
// Idempotent: a second call is a no-op.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.repo.ClearRefreshTokenHash(ctx, userID)
}

// GetMe returns the safe projection of the authenticated account.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (SafeUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return SafeUser{}, fmt.Errorf("%w: user not found", httpx.ErrForbidden)
		}
		return SafeUser{}, err
	}
	return user.Safe(), nil
}
