package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"inkwell.io/blog/internal/domain"
)

type postRepository struct {
	users *mongo.Collection
	posts *mongo.Collection
	likes *mongo.Collection
}

func NewPostRepository(db *mongo.Database) domain.PostRepository {
	return &postRepository{
		users: db.Collection(usersCollection),
		posts: db.Collection(postsCollection),
		likes: db.Collection(likesCollection),
	}
}

// Create checks the author and inserts the post. Accounts are never
// removed through the API, so the check and the insert need no transaction.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": post.AuthorID})
	if err != nil {
		return fmt.Errorf("failed to check author: %w", err)
	}
	if n == 0 {
		return domain.NewError(domain.ErrNotFound, "author not found")
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if nf := notFound(err, "post"); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$set": bson.M{
		"title":       post.Title,
		"description": post.Description,
		"image":       post.Image,
		"isPublished": post.IsPublished,
		"updatedAt":   post.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewError(domain.ErrNotFound, "post not found")
	}
	return nil
}

// Delete removes the post first so no new like can target it, then its likes.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewError(domain.ErrNotFound, "post not found")
	}
	if _, err := r.likes.DeleteMany(ctx, bson.M{"post": id}); err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}
	return nil
}
