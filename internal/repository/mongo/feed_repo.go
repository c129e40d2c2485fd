package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"inkwell.io/blog/internal/domain"
)

type feedRepository struct {
	users *mongo.Collection
	posts *mongo.Collection
	likes *mongo.Collection
}

func NewFeedRepository(db *mongo.Database) domain.FeedRepository {
	return &feedRepository{
		users: db.Collection(usersCollection),
		posts: db.Collection(postsCollection),
		likes: db.Collection(likesCollection),
	}
}

type postPageResult struct {
	Total []struct {
		N int64 `bson:"n"`
	} `bson:"total"`
	Posts []domain.PostView `bson:"posts"`
}

func (r *feedRepository) PostDetail(ctx context.Context, postID string) (*domain.PostDetail, error) {
	var details []domain.PostDetail
	if err := aggregate(ctx, r.posts, postDetailPipeline(postID), &details); err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if len(details) == 0 {
		return nil, domain.NewError(domain.ErrNotFound, "post not found")
	}
	return &details[0], nil
}

func (r *feedRepository) ListPosts(ctx context.Context, q domain.PostQuery) ([]domain.PostView, int64, error) {
	var results []postPageResult
	if err := aggregate(ctx, r.posts, listPostsPipeline(q), &results); err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	if len(results) == 0 {
		return []domain.PostView{}, 0, nil
	}
	var total int64
	if len(results[0].Total) > 0 {
		total = results[0].Total[0].N
	}
	return results[0].Posts, total, nil
}

func (r *feedRepository) AuthorProfile(ctx context.Context, fullname string, limit int) (*domain.AuthorProfile, error) {
	var profiles []domain.AuthorProfile
	if err := aggregate(ctx, r.users, authorProfilePipeline(fullname, limit), &profiles); err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	if len(profiles) == 0 {
		return nil, domain.NewError(domain.ErrNotFound, "user not found")
	}
	profile := &profiles[0]
	if profile.RecentPosts == nil {
		profile.RecentPosts = []domain.PostView{}
	}
	return profile, nil
}

func (r *feedRepository) LikedPosts(ctx context.Context, userID string) ([]domain.LikedPost, error) {
	var liked []domain.LikedPost
	if err := aggregate(ctx, r.likes, likedPostsPipeline(userID), &liked); err != nil {
		return nil, fmt.Errorf("failed to get liked posts: %w", err)
	}
	return liked, nil
}

func aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out any) error {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
