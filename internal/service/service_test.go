package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/internal/repository/memory"
	"inkwell.io/blog/pkg/jwt"
	"inkwell.io/blog/pkg/logger"
)

// mockImageStore records uploads and deletes.
type mockImageStore struct {
	mu        sync.Mutex
	UploadFn  func(ctx context.Context, folder string, file *domain.Upload) (string, error)
	DeleteFn  func(ctx context.Context, url string) error
	uploaded  []string
	deleted   []string
	uploadSeq int
}

func (m *mockImageStore) Upload(ctx context.Context, folder string, file *domain.Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadFn != nil {
		return m.UploadFn(ctx, folder, file)
	}
	m.uploadSeq++
	url := "https://cdn.example.com/" + folder + "/" + strings.Repeat("x", m.uploadSeq) + "-" + file.Filename
	m.uploaded = append(m.uploaded, url)
	return url, nil
}

func (m *mockImageStore) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, url)
	}
	return nil
}

func (m *mockImageStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// testEnv wires every service over one in-memory store.
type testEnv struct {
	db     *memory.DB
	images *mockImageStore
	tokens *TokenService
	guard  *SessionGuard
	auth   domain.AuthService
	posts  domain.PostService
	likes  domain.LikeService
	feed   domain.FeedService
	tm     jwt.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := memory.New()
	tm, err := jwt.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	log := logger.Discard()
	images := &mockImageStore{}
	tokens := NewTokenService(db, tm)
	return &testEnv{
		db:     db,
		images: images,
		tokens: tokens,
		guard:  NewSessionGuard(tokens, db, log),
		auth:   NewAuthService(db, tokens, images, log),
		posts:  NewPostService(db.Posts(), images, log),
		likes:  NewLikeService(db.Likes(), db.Posts()),
		feed:   NewFeedService(db.Feed()),
		tm:     tm,
	}
}

func pngUpload(name string) *domain.Upload {
	return &domain.Upload{Filename: name, ContentType: "image/png", Size: 4, Body: strings.NewReader("\x89PNG")}
}

func (e *testEnv) register(t *testing.T, email, fullname, password string) *domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), domain.RegisterRequest{Email: email, Fullname: fullname, Password: password}, pngUpload("me.png"))
	require.NoError(t, err)
	return u
}

func (e *testEnv) publish(t *testing.T, authorID, title string, published bool) *domain.Post {
	t.Helper()
	p, err := e.posts.CreatePost(context.Background(), authorID, domain.CreatePostRequest{
		Title: title, Description: "body of " + title, IsPublished: &published,
	}, pngUpload("cover.png"))
	require.NoError(t, err)
	return p
}
