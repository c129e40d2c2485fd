// Package memory implements an in-memory store for development and testing.
// It enforces the same uniqueness rules as the database backends.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inkwell.io/blog/internal/domain"
)

// DB implements every repository interface over maps guarded by one mutex.
type DB struct {
	mu    sync.Mutex
	users map[string]*domain.User
	posts map[string]*domain.Post
	likes map[likeKey]*domain.Like
	now   func() time.Time
}

type likeKey struct {
	postID string
	userID string
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		users: make(map[string]*domain.User),
		posts: make(map[string]*domain.Post),
		likes: make(map[likeKey]*domain.Like),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.PostRepository = (*PostRepo)(nil)
var _ domain.LikeRepository = (*LikeRepo)(nil)
var _ domain.FeedRepository = (*FeedRepo)(nil)

// Posts returns the PostRepository view of the store.
func (db *DB) Posts() *PostRepo { return &PostRepo{db: db} }

// Likes returns the LikeRepository view of the store.
func (db *DB) Likes() *LikeRepo { return &LikeRepo{db: db} }

// Feed returns the FeedRepository view of the store.
func (db *DB) Feed() *FeedRepo { return &FeedRepo{db: db} }

// SetClock replaces the time source used for record timestamps.
func (db *DB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// RemoveUser drops a user record without touching their posts or likes.
// No service operation deletes users; this exists to model accounts removed
// out of band.
func (db *DB) RemoveUser(id string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.users, id)
}

// --- UserRepository ---

func (db *DB) Create(ctx context.Context, user *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == user.Email {
			return domain.NewError(domain.ErrConflict, "user with email already exists")
		}
	}
	now := db.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	db.users[user.ID] = &cp
	return nil
}

func (db *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return db.findUser(func(u *domain.User) bool { return u.Email == email })
}

func (db *DB) findUser(match func(*domain.User) bool) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.findUserLocked(match)
}

// findUserLocked must be called with db.mu held.
func (db *DB) findUserLocked(match func(*domain.User) bool) (*domain.User, error) {
	var found *domain.User
	for _, u := range db.users {
		// oldest account wins when display names collide
		if match(u) && (found == nil || u.CreatedAt.Before(found.CreatedAt)) {
			found = u
		}
	}
	if found == nil {
		return nil, domain.NewError(domain.ErrNotFound, "user not found")
	}
	cp := *found
	return &cp, nil
}

func (db *DB) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return db.updateUser(id, func(u *domain.User) { u.PasswordHash = passwordHash })
}

func (db *DB) SetRefreshToken(ctx context.Context, id, token string) error {
	return db.updateUser(id, func(u *domain.User) { u.RefreshToken = token })
}

func (db *DB) SwapRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok || current == "" || u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = next
	u.UpdatedAt = db.now()
	return true, nil
}

func (db *DB) updateUser(id string, apply func(*domain.User)) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return domain.NewError(domain.ErrNotFound, "user not found")
	}
	apply(u)
	u.UpdatedAt = db.now()
	return nil
}

// --- PostRepository ---

type PostRepo struct {
	db *DB
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[post.AuthorID]; !ok {
		return domain.NewError(domain.ErrNotFound, "author not found")
	}
	now := r.db.now()
	post.CreatedAt = now
	post.UpdatedAt = now
	cp := *post
	r.db.posts[post.ID] = &cp
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[id]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "post not found")
	}
	cp := *p
	return &cp, nil
}

func (r *PostRepo) Update(ctx context.Context, post *domain.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[post.ID]
	if !ok {
		return domain.NewError(domain.ErrNotFound, "post not found")
	}
	p.Title = post.Title
	p.Description = post.Description
	p.Image = post.Image
	p.IsPublished = post.IsPublished
	p.UpdatedAt = r.db.now()
	post.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.posts[id]; !ok {
		return domain.NewError(domain.ErrNotFound, "post not found")
	}
	delete(r.db.posts, id)
	for k := range r.db.likes {
		if k.postID == id {
			delete(r.db.likes, k)
		}
	}
	return nil
}

// --- LikeRepository ---

type LikeRepo struct {
	db *DB
}

func (r *LikeRepo) Delete(ctx context.Context, postID, userID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	k := likeKey{postID: postID, userID: userID}
	if _, ok := r.db.likes[k]; !ok {
		return false, nil
	}
	delete(r.db.likes, k)
	return true, nil
}

func (r *LikeRepo) Create(ctx context.Context, like *domain.Like) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.posts[like.PostID]; !ok {
		return domain.NewError(domain.ErrNotFound, "post not found")
	}
	k := likeKey{postID: like.PostID, userID: like.LikedBy}
	if _, ok := r.db.likes[k]; ok {
		return domain.NewError(domain.ErrConflict, "post already liked")
	}
	like.CreatedAt = r.db.now()
	cp := *like
	r.db.likes[k] = &cp
	return nil
}

// LikeCount returns the number of likes on a post.
func (r *LikeRepo) LikeCount(postID string) int {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for k := range r.db.likes {
		if k.postID == postID {
			n++
		}
	}
	return n
}

// --- FeedRepository ---

type FeedRepo struct {
	db *DB
}

func (r *FeedRepo) PostDetail(ctx context.Context, postID string) (*domain.PostDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[postID]
	if !ok {
		return nil, domain.NewError(domain.ErrNotFound, "post not found")
	}
	var count int64
	for k := range r.db.likes {
		if k.postID == postID {
			count++
		}
	}
	return &domain.PostDetail{PostView: r.view(p), LikesCount: count}, nil
}

func (r *FeedRepo) ListPosts(ctx context.Context, q domain.PostQuery) ([]domain.PostView, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var published []*domain.Post
	for _, p := range r.db.posts {
		if p.IsPublished {
			published = append(published, p)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		a, b := published[i], published[j]
		var less bool
		switch q.SortBy {
		case domain.SortByTitle:
			if a.Title == b.Title {
				return a.ID < b.ID
			}
			less = a.Title < b.Title
		case domain.SortByUpdatedAt:
			if a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.ID < b.ID
			}
			less = a.UpdatedAt.Before(b.UpdatedAt)
		default:
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if q.Ascending {
			return less
		}
		return !less
	})

	total := int64(len(published))
	views := []domain.PostView{}
	start := q.Offset()
	if start >= len(published) {
		return views, total, nil
	}
	end := min(start+q.Limit, len(published))
	for _, p := range published[start:end] {
		views = append(views, r.view(p))
	}
	return views, total, nil
}

func (r *FeedRepo) AuthorProfile(ctx context.Context, fullname string, limit int) (*domain.AuthorProfile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	author, err := r.db.findUserLocked(func(u *domain.User) bool { return u.Fullname == fullname })
	if err != nil {
		return nil, err
	}

	var own []*domain.Post
	for _, p := range r.db.posts {
		if p.AuthorID == author.ID && p.IsPublished {
			own = append(own, p)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].CreatedAt.After(own[j].CreatedAt) })
	if len(own) > limit {
		own = own[:limit]
	}
	profile := &domain.AuthorProfile{
		ID:          author.ID,
		Fullname:    author.Fullname,
		Avatar:      author.Avatar,
		CreatedAt:   author.CreatedAt,
		RecentPosts: []domain.PostView{},
	}
	for _, p := range own {
		profile.RecentPosts = append(profile.RecentPosts, r.view(p))
	}
	return profile, nil
}

func (r *FeedRepo) LikedPosts(ctx context.Context, userID string) ([]domain.LikedPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.LikedPost{}
	for k, l := range r.db.likes {
		if k.userID != userID {
			continue
		}
		p, ok := r.db.posts[k.postID]
		if !ok {
			continue
		}
		out = append(out, domain.LikedPost{PostView: r.view(p), LikedAt: l.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LikedAt.Equal(out[j].LikedAt) {
			return strings.Compare(out[i].ID, out[j].ID) > 0
		}
		return out[i].LikedAt.After(out[j].LikedAt)
	})
	return out, nil
}

// view must be called with the lock held.
func (r *FeedRepo) view(p *domain.Post) domain.PostView {
	v := domain.PostView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if u, ok := r.db.users[p.AuthorID]; ok {
		v.Author = &domain.AuthorSummary{ID: u.ID, Fullname: u.Fullname, Avatar: u.Avatar}
	}
	return v
}
