package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/pkg/jwt"
)

// TokenService owns the access/refresh token lifecycle. The only refresh
// token accepted for a user is the one stored on the user record.
type TokenService struct {
	users  domain.UserRepository
	tokens jwt.TokenManager
}

func NewTokenService(users domain.UserRepository, tokens jwt.TokenManager) *TokenService {
	return &TokenService{users: users, tokens: tokens}
}

// IssuePair mints a new token pair for the user and stores the refresh token,
// replacing any previous session.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (*domain.TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	pair, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return pair, nil
}

// VerifyAccess validates an access token and returns its claims.
func (s *TokenService) VerifyAccess(token string) (*jwt.Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrMissingToken):
			return nil, domain.NewError(domain.ErrUnauthorized, "unauthorized request")
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.NewError(domain.ErrUnauthorized, "access token expired")
		default:
			return nil, domain.NewError(domain.ErrUnauthorized, "invalid access token")
		}
	}
	return claims, nil
}

// Rotate exchanges the stored refresh token for a fresh pair. A token that
// was already rotated, revoked or superseded by a newer login is rejected.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.NewError(domain.ErrUnauthorized, "unauthorized request")
	}
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewError(domain.ErrUnauthorized, "refresh token expired")
		}
		return nil, domain.NewError(domain.ErrUnauthorized, "invalid refresh token")
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrUnauthorized, "invalid refresh token")
		}
		return nil, err
	}
	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, domain.NewError(domain.ErrUnauthorized, "refresh token is expired or used")
	}
	pair, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	swapped, err := s.users.SwapRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	if !swapped {
		// a concurrent rotation or login replaced the token first
		return nil, domain.NewError(domain.ErrUnauthorized, "refresh token is expired or used")
	}
	return pair, nil
}

// Revoke clears the user's stored refresh token. Revoking an already
// cleared session succeeds.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *TokenService) mint(user *domain.User) (*domain.TokenPair, error) {
	sub := jwt.Subject{UserID: user.ID, Email: user.Email, Fullname: user.Fullname}
	access, err := s.tokens.GenerateAccessToken(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
