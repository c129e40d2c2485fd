package domain

import (
	"context"
	"time"
)

type Post struct {
	ID          string    `json:"_id" gorm:"type:uuid;primaryKey" bson:"_id"`
	Title       string    `json:"title" gorm:"not null" bson:"title"`
	Description string    `json:"description" gorm:"type:text;not null" bson:"description"`
	Image       string    `json:"image" gorm:"not null" bson:"image"`
	AuthorID    string    `json:"author" gorm:"type:uuid;index;not null" bson:"author"`
	IsPublished bool      `json:"isPublished" gorm:"not null" bson:"isPublished"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type CreatePostRequest struct {
	Title       string `form:"title" json:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" json:"description" binding:"required,min=1"`
	IsPublished *bool  `form:"isPublished" json:"isPublished"`
}

type UpdatePostRequest struct {
	Title       *string `form:"title" json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `form:"description" json:"description" binding:"omitempty,min=1"`
	IsPublished *bool   `form:"isPublished" json:"isPublished"`
}

type PostRepository interface {
	// Create inserts the post after checking its author exists, atomically.
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	Update(ctx context.Context, post *Post) error
	// Delete removes the post together with its likes.
	Delete(ctx context.Context, id string) error
}

type PostService interface {
	CreatePost(ctx context.Context, authorID string, req CreatePostRequest, image *Upload) (*Post, error)
	UpdatePost(ctx context.Context, postID, authorID string, req UpdatePostRequest, image *Upload) (*Post, error)
	DeletePost(ctx context.Context, postID, authorID string) error
}
