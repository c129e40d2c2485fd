package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"inkwell.io/blog/internal/domain"
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for a broken reference.
const foreignKeyViolation = "23503"

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) domain.LikeRepository {
	return &likeRepository{db: db}
}

// Delete removes the (post, user) like, reporting whether a row was removed.
func (r *likeRepository) Delete(ctx context.Context, postID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("post_id = ? AND liked_by = ?", postID, userID).Delete(&domain.Like{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Create inserts a like; the unique index rejects a second like of the pair.
func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	like.CreatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Create(like).Error
	if err == nil {
		return nil
	}
	if isDuplicate(err) {
		return domain.NewError(domain.ErrConflict, "post already liked")
	}
	var pgErr *pgconn.PgError
	if errors.Is(err, gorm.ErrForeignKeyViolated) || (errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation) {
		return domain.NewError(domain.ErrNotFound, "post not found")
	}
	return fmt.Errorf("failed to create like: %w", err)
}
