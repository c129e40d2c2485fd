package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/internal/util"
	"inkwell.io/blog/pkg/logger"
)

const avatarFolder = "avatars"

// authService implements domain.AuthService.
type authService struct {
	users  domain.UserRepository
	tokens *TokenService
	images domain.ImageStore
	log    *logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, images domain.ImageStore, log *logger.Logger) domain.AuthService {
	return &authService{users: users, tokens: tokens, images: images, log: log}
}

// Register creates a new user account with an uploaded avatar.
func (s *authService) Register(ctx context.Context, req domain.RegisterRequest, avatar *domain.Upload) (*domain.User, error) {
	email := util.NormalizeEmail(req.Email)
	fullname := util.PlainText(req.Fullname)
	if email == "" || fullname == "" || req.Password == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "all fields are required")
	}
	if avatar == nil {
		return nil, domain.NewError(domain.ErrInvalidArgument, "avatar file is required")
	}
	if err := ValidateImage(avatar); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.NewError(domain.ErrConflict, "user with email already exists")
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	avatarURL, err := s.images.Upload(ctx, avatarFolder, avatar)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Fullname:     fullname,
		Avatar:       avatarURL,
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.discardImage(ctx, avatarURL)
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	s.log.WithField("user_id", user.ID).Info("user registered")
	return user.Public(), nil
}

// Login checks credentials and starts a new session.
func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email := util.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "email and password are required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrUnauthorized, "invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := util.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, util.ErrPasswordMismatch) {
			s.log.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("stored password hash is unusable")
		}
		return nil, domain.NewError(domain.ErrUnauthorized, "invalid email or password")
	}
	pair, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{User: user.Public(), TokenPair: *pair}, nil
}

// Logout ends the user's session.
func (s *authService) Logout(ctx context.Context, userID string) error {
	return s.tokens.Revoke(ctx, userID)
}

// RefreshToken rotates the given refresh token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.tokens.Rotate(ctx, refreshToken)
}

// ChangePassword replaces the password after verifying the current one.
func (s *authService) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return domain.NewError(domain.ErrInvalidArgument, "current and new password are required")
	}
	if req.CurrentPassword == req.NewPassword {
		return domain.NewError(domain.ErrInvalidArgument, "new password must differ from the current one")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := util.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return domain.NewError(domain.ErrUnauthorized, "invalid current password")
	}
	hashed, err := util.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GetUserByID returns the public projection of a user.
func (s *authService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if err := domain.ValidateID("user id", id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *authService) discardImage(ctx context.Context, url string) {
	if err := s.images.Delete(ctx, url); err != nil {
		s.log.WithFields(logrus.Fields{"url": url, "error": err.Error()}).Warn("failed to delete orphaned image")
	}
}
