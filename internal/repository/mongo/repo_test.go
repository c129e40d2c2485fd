package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"inkwell.io/blog/internal/domain"
)

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
}

func matched(n int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("duplicate email is a conflict", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(duplicateKey())

		err := repo.Create(ctx, &domain.User{ID: "u1", Email: "ada@example.com"})
		assert.ErrorIs(mt, err, domain.ErrConflict)
	})

	mt.Run("get by email decodes credentials", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "email", Value: "ada@example.com"},
			{Key: "fullname", Value: "Ada"},
			{Key: "password", Value: "hash"},
			{Key: "refreshToken", Value: "rt"},
		}))

		user, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, "u1", user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)
		assert.Equal(mt, "rt", user.RefreshToken)
	})

	mt.Run("missing user is not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "u1")
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("swap reports whether the token matched", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(matched(1), matched(0))

		swapped, err := repo.SwapRefreshToken(ctx, "u1", "old", "new")
		require.NoError(mt, err)
		assert.True(mt, swapped)

		swapped, err = repo.SwapRefreshToken(ctx, "u1", "old", "newer")
		require.NoError(mt, err)
		assert.False(mt, swapped)
	})

	mt.Run("password update on missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(matched(0))

		err := repo.UpdatePassword(ctx, "u1", "hash")
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestPostRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create without author", func(mt *mtest.T) {
		repo := NewPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		err := repo.Create(ctx, &domain.Post{ID: "p1", AuthorID: "u1"})
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("create stamps both times", func(mt *mtest.T) {
		repo := NewPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
			mtest.CreateSuccessResponse(),
		)

		post := &domain.Post{ID: "p1", AuthorID: "u1", Title: "t"}
		require.NoError(mt, repo.Create(ctx, post))
		assert.False(mt, post.CreatedAt.IsZero())
		assert.Equal(mt, post.CreatedAt, post.UpdatedAt)
	})

	mt.Run("delete missing post", func(mt *mtest.T) {
		repo := NewPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		err := repo.Delete(ctx, "p1")
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("delete removes likes too", func(mt *mtest.T) {
		repo := NewPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(4)}),
		)

		require.NoError(mt, repo.Delete(ctx, "p1"))
	})
}

func TestLikeRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("second like of a pair conflicts", func(mt *mtest.T) {
		repo := NewLikeRepository(mt.DB)
		mt.AddMockResponses(duplicateKey())

		err := repo.Create(ctx, &domain.Like{ID: "l1", PostID: "p1", LikedBy: "u1"})
		assert.ErrorIs(mt, err, domain.ErrConflict)
	})

	mt.Run("delete reports removal", func(mt *mtest.T) {
		repo := NewLikeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		removed, err := repo.Delete(ctx, "p1", "u1")
		require.NoError(mt, err)
		assert.True(mt, removed)
	})
}

func TestFeedRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("list posts reads the facet", func(mt *mtest.T) {
		repo := NewFeedRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch, bson.D{
			{Key: "total", Value: bson.A{bson.D{{Key: "n", Value: int32(3)}}}},
			{Key: "posts", Value: bson.A{
				bson.D{
					{Key: "_id", Value: "p1"},
					{Key: "title", Value: "A"},
					{Key: "createdAt", Value: now},
					{Key: "author", Value: bson.D{{Key: "_id", Value: "u1"}, {Key: "fullname", Value: "Ada"}}},
				},
				bson.D{{Key: "_id", Value: "p2"}, {Key: "title", Value: "B"}},
			}},
		}))

		posts, total, err := repo.ListPosts(ctx, domain.PostQuery{Page: 1, Limit: 2})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), total)
		require.Len(mt, posts, 2)
		require.NotNil(mt, posts[0].Author)
		assert.Equal(mt, "Ada", posts[0].Author.Fullname)
		assert.True(mt, now.Equal(posts[0].CreatedAt))
		assert.Nil(mt, posts[1].Author)
	})

	mt.Run("empty listing", func(mt *mtest.T) {
		repo := NewFeedRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch, bson.D{
			{Key: "total", Value: bson.A{}},
			{Key: "posts", Value: bson.A{}},
		}))

		posts, total, err := repo.ListPosts(ctx, domain.PostQuery{Page: 1, Limit: 10})
		require.NoError(mt, err)
		assert.Zero(mt, total)
		assert.Empty(mt, posts)
	})

	mt.Run("post detail carries the like count", func(mt *mtest.T) {
		repo := NewFeedRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "title", Value: "A"},
			{Key: "likesCount", Value: int32(2)},
		}))

		detail, err := repo.PostDetail(ctx, "p1")
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), detail.LikesCount)
		assert.Equal(mt, "p1", detail.ID)
	})

	mt.Run("unknown author", func(mt *mtest.T) {
		repo := NewFeedRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.AuthorProfile(ctx, "Nobody", domain.RecentPostsLimit)
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("liked posts keep the like time", func(mt *mtest.T) {
		repo := NewFeedRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.likes", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "title", Value: "A"},
			{Key: "likedAt", Value: now},
		}))

		liked, err := repo.LikedPosts(ctx, "u1")
		require.NoError(mt, err)
		require.Len(mt, liked, 1)
		assert.True(mt, now.Equal(liked[0].LikedAt))
	})
}
