package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"inkwell.io/blog/internal/domain"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository with the given GORM DB instance.
func NewPostRepository(db *gorm.DB) domain.PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post, failing with NotFound when the author is gone.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("id = ?", post.AuthorID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check author: %w", err)
		}
		if count == 0 {
			return domain.NewError(domain.ErrNotFound, "author not found")
		}
		now := time.Now().UTC()
		post.CreatedAt = now
		post.UpdatedAt = now
		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		return nil
	})
	return err
}

// GetByID retrieves a post by its ID from the database.
func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if nf := notFound(err, "post"); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// Update writes the mutable fields of an existing post.
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"title":        post.Title,
		"description":  post.Description,
		"image":        post.Image,
		"is_published": post.IsPublished,
		"updated_at":   post.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewError(domain.ErrNotFound, "post not found")
	}
	return nil
}

// Delete removes a post and its likes in one transaction.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&domain.Post{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewError(domain.ErrNotFound, "post not found")
		}
		return nil
	})
}
