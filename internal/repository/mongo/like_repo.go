package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"inkwell.io/blog/internal/domain"
)

type likeRepository struct {
	likes *mongo.Collection
}

func NewLikeRepository(db *mongo.Database) domain.LikeRepository {
	return &likeRepository{likes: db.Collection(likesCollection)}
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.likes.DeleteOne(ctx, bson.M{"post": postID, "likedBy": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	like.CreatedAt = time.Now().UTC()
	if _, err := r.likes.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewError(domain.ErrConflict, "post already liked")
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}
