package domain

import (
	"context"
	"time"
)

// Like records that a user liked a post. (PostID, LikedBy) is unique.
type Like struct {
	ID        string    `json:"_id" gorm:"type:uuid;primaryKey" bson:"_id"`
	PostID    string    `json:"post" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user" bson:"post"`
	LikedBy   string    `json:"likedBy" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user;index" bson:"likedBy"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`

	// Post only declares the likes.post_id foreign key; it is never loaded.
	Post *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" bson:"-"`
}

type LikeRepository interface {
	// Delete removes the (post, user) like and reports whether one existed.
	Delete(ctx context.Context, postID, userID string) (bool, error)
	// Create inserts a like; ErrConflict when the pair already exists.
	Create(ctx context.Context, like *Like) error
}

type LikeService interface {
	Toggle(ctx context.Context, postID, userID string) (bool, error)
}
