package service

import (
	"context"
	"errors"

	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/pkg/logger"
)

// SessionGuard resolves an access token into the calling user.
type SessionGuard struct {
	tokens *TokenService
	users  domain.UserRepository
	log    *logger.Logger
}

func NewSessionGuard(tokens *TokenService, users domain.UserRepository, log *logger.Logger) *SessionGuard {
	return &SessionGuard{tokens: tokens, users: users, log: log}
}

// Authenticate verifies the token and loads its user. Every failure is
// reported as ErrUnauthorized; the returned user carries no credentials.
func (g *SessionGuard) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := g.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			g.log.WithField("error", err.Error()).Error("failed to load user for session")
		}
		return nil, domain.NewError(domain.ErrUnauthorized, "invalid access token")
	}
	return user.Public(), nil
}
