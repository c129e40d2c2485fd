package domain

import (
	"context"
	"math"
	"time"
)

// AuthorSummary is the public face of a user embedded in post views.
type AuthorSummary struct {
	ID       string `json:"_id" bson:"_id"`
	Fullname string `json:"fullname" bson:"fullname"`
	Avatar   string `json:"avatar" bson:"avatar"`
}

// PostView is a post joined with its author. Author is nil when the
// author record no longer exists.
type PostView struct {
	ID          string         `json:"_id" bson:"_id"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description" bson:"description"`
	Image       string         `json:"image" bson:"image"`
	IsPublished bool           `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
	Author      *AuthorSummary `json:"author" bson:"author,omitempty"`
}

type PostDetail struct {
	PostView   `bson:",inline"`
	LikesCount int64 `json:"likesCount" bson:"likesCount"`
}

type LikedPost struct {
	PostView `bson:",inline"`
	LikedAt  time.Time `json:"likedAt" bson:"likedAt"`
}

type AuthorProfile struct {
	ID          string     `json:"_id" bson:"_id"`
	Fullname    string     `json:"fullname" bson:"fullname"`
	Avatar      string     `json:"avatar" bson:"avatar"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	RecentPosts []PostView `json:"recentPosts" bson:"recentPosts"`
}

// Sortable post fields, keyed by their public name.
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByTitle     = "title"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	// RecentPostsLimit caps the posts embedded in an author profile.
	RecentPostsLimit = 10
)

// PostQuery selects a page of published posts.
type PostQuery struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sortBy"`
	Order     string `form:"order"`
	Ascending bool   `form:"-"`
}

// Offset is the number of posts skipped before the page. It saturates at
// math.MaxInt instead of overflowing, which any store treats as past the end.
func (q PostQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

type PostPage struct {
	Posts      []PostView `json:"posts"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
	TotalPosts int64      `json:"totalPosts"`
}

// FeedRepository answers the read-model queries. Each method is a single
// consistent read and tolerates missing join targets.
type FeedRepository interface {
	PostDetail(ctx context.Context, postID string) (*PostDetail, error)
	// ListPosts returns the requested page and the total number of
	// published posts. q is already normalized.
	ListPosts(ctx context.Context, q PostQuery) ([]PostView, int64, error)
	AuthorProfile(ctx context.Context, fullname string, limit int) (*AuthorProfile, error)
	LikedPosts(ctx context.Context, userID string) ([]LikedPost, error)
}

type FeedService interface {
	GetPost(ctx context.Context, postID string) (*PostDetail, error)
	ListPosts(ctx context.Context, q PostQuery) (*PostPage, error)
	GetAuthorProfile(ctx context.Context, fullname string) (*AuthorProfile, error)
	GetLikedPosts(ctx context.Context, userID string) ([]LikedPost, error)
}
