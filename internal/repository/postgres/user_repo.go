package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"inkwell.io/blog/internal/domain"
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository with the given GORM DB instance.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return domain.NewError(domain.ErrConflict, "user with email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by normalized email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

// UpdatePassword stores a new password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewError(domain.ErrNotFound, "user not found")
	}
	return nil
}

// SetRefreshToken overwrites the stored refresh token.
func (r *userRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("refresh_token", token)
	if result.Error != nil {
		return fmt.Errorf("failed to set refresh token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewError(domain.ErrNotFound, "user not found")
	}
	return nil
}

// SwapRefreshToken is a compare-and-swap on the stored refresh token.
func (r *userRepository) SwapRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	if current == "" {
		return false, nil
	}
	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if result.Error != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) first(ctx context.Context, query string, arg string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if nf := notFound(err, "user"); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
