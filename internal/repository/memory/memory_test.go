package memory

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"inkwell.io/blog/internal/domain"
)

// steppingClock advances one second per call.
func steppingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newUser(t *testing.T, db *DB, email, name string) *domain.User {
	t.Helper()
	u := &domain.User{ID: uuid.NewString(), Email: email, Fullname: name, Avatar: "https://img/" + name}
	require.NoError(t, db.Create(context.Background(), u))
	return u
}

func newPost(t *testing.T, db *DB, author string, published bool) *domain.Post {
	t.Helper()
	p := &domain.Post{ID: uuid.NewString(), Title: "t", Description: "d", Image: "i", AuthorID: author, IsPublished: published}
	require.NoError(t, db.Posts().Create(context.Background(), p))
	return p
}

func TestUsers_EmailUnique(t *testing.T) {
	db := New()
	newUser(t, db, "ada@example.com", "Ada")

	err := db.Create(context.Background(), &domain.User{ID: uuid.NewString(), Email: "ada@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUsers_SwapRefreshToken(t *testing.T) {
	ctx := context.Background()
	db := New()
	u := newUser(t, db, "ada@example.com", "Ada")
	require.NoError(t, db.SetRefreshToken(ctx, u.ID, "r1"))

	ok, err := db.SwapRefreshToken(ctx, u.ID, "r1", "r2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.SwapRefreshToken(ctx, u.ID, "r1", "r3")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := db.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "r2", stored.RefreshToken)
}

func TestPosts_CreateRequiresAuthor(t *testing.T) {
	db := New()
	err := db.Posts().Create(context.Background(), &domain.Post{ID: uuid.NewString(), AuthorID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPosts_DeleteCascadesLikes(t *testing.T) {
	ctx := context.Background()
	db := New()
	u := newUser(t, db, "ada@example.com", "Ada")
	p := newPost(t, db, u.ID, true)
	require.NoError(t, db.Likes().Create(ctx, &domain.Like{ID: uuid.NewString(), PostID: p.ID, LikedBy: u.ID}))

	require.NoError(t, db.Posts().Delete(ctx, p.ID))
	assert.Equal(t, 0, db.Likes().LikeCount(p.ID))

	liked, err := db.Feed().LikedPosts(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestLikes_PairUnique(t *testing.T) {
	ctx := context.Background()
	db := New()
	u := newUser(t, db, "ada@example.com", "Ada")
	p := newPost(t, db, u.ID, true)

	require.NoError(t, db.Likes().Create(ctx, &domain.Like{ID: uuid.NewString(), PostID: p.ID, LikedBy: u.ID}))
	err := db.Likes().Create(ctx, &domain.Like{ID: uuid.NewString(), PostID: p.ID, LikedBy: u.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFeed_ListPostsSortsAndPages(t *testing.T) {
	ctx := context.Background()
	db := New()
	db.SetClock(steppingClock())
	u := newUser(t, db, "ada@example.com", "Ada")
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, newPost(t, db, u.ID, true).ID)
	}
	newPost(t, db, u.ID, false)

	page, total, err := db.Feed().ListPosts(ctx, domain.PostQuery{Page: 1, Limit: 2, SortBy: domain.SortByCreatedAt})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)
	require.NotNil(t, page[0].Author)
	assert.Equal(t, "Ada", page[0].Author.Fullname)

	page, _, err = db.Feed().ListPosts(ctx, domain.PostQuery{Page: 3, Limit: 2, SortBy: domain.SortByCreatedAt, Ascending: true})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[4], page[0].ID)

	page, _, err = db.Feed().ListPosts(ctx, domain.PostQuery{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestFeed_ListPostsPastLastPage(t *testing.T) {
	db := New()
	u := newUser(t, db, "ada@example.com", "Ada")
	newPost(t, db, u.ID, true)

	page, total, err := db.Feed().ListPosts(context.Background(), domain.PostQuery{Page: math.MaxInt/10 + 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestFeed_AuthorProfileOldestNameWins(t *testing.T) {
	ctx := context.Background()
	db := New()
	db.SetClock(steppingClock())
	first := newUser(t, db, "ada@example.com", "Ada")
	second := newUser(t, db, "ada2@example.com", "Ada")
	newPost(t, db, second.ID, true)
	mine := newPost(t, db, first.ID, true)

	profile, err := db.Feed().AuthorProfile(ctx, "Ada", 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, profile.ID)
	require.Len(t, profile.RecentPosts, 1)
	assert.Equal(t, mine.ID, profile.RecentPosts[0].ID)
}

func TestFeed_AuthorProfileWhileAccountChurns(t *testing.T) {
	ctx := context.Background()
	db := New()
	u := newUser(t, db, "ada@example.com", "Ada")
	for i := 0; i < 3; i++ {
		newPost(t, db, u.ID, true)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			db.RemoveUser(u.ID)
			_ = db.Create(ctx, &domain.User{ID: u.ID, Email: u.Email, Fullname: u.Fullname})
		}
	}()

	for i := 0; i < 200; i++ {
		profile, err := db.Feed().AuthorProfile(ctx, "Ada", 10)
		if err != nil {
			require.ErrorIs(t, err, domain.ErrNotFound)
			continue
		}
		for _, p := range profile.RecentPosts {
			require.NotNil(t, p.Author, "post %s lost its author mid-read", p.ID)
			assert.Equal(t, profile.ID, p.Author.ID)
		}
	}
	wg.Wait()
}

func TestFeed_AuthorProfileLimit(t *testing.T) {
	ctx := context.Background()
	db := New()
	db.SetClock(steppingClock())
	u := newUser(t, db, "ada@example.com", "Ada")
	for i := 0; i < 12; i++ {
		newPost(t, db, u.ID, true)
	}
	hidden := newPost(t, db, u.ID, false)

	profile, err := db.Feed().AuthorProfile(ctx, "Ada", 10)
	require.NoError(t, err)
	require.Len(t, profile.RecentPosts, 10)
	for i, p := range profile.RecentPosts {
		assert.NotEqual(t, hidden.ID, p.ID, fmt.Sprintf("post %d", i))
		if i > 0 {
			assert.True(t, profile.RecentPosts[i-1].CreatedAt.After(p.CreatedAt))
		}
	}

	_, err = db.Feed().AuthorProfile(ctx, "Nobody", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeed_MissingAuthorYieldsNilSummary(t *testing.T) {
	ctx := context.Background()
	db := New()
	u := newUser(t, db, "ada@example.com", "Ada")
	p := newPost(t, db, u.ID, true)
	db.RemoveUser(u.ID)

	detail, err := db.Feed().PostDetail(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Author)
	assert.Equal(t, int64(0), detail.LikesCount)
}
