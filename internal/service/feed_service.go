package service

import (
	"context"
	"strings"

	"inkwell.io/blog/internal/domain"
)

type feedService struct {
	feed domain.FeedRepository
}

func NewFeedService(feed domain.FeedRepository) domain.FeedService {
	return &feedService{feed: feed}
}

// GetPost returns a post with its like count and author summary.
func (s *feedService) GetPost(ctx context.Context, postID string) (*domain.PostDetail, error) {
	if err := domain.ValidateID("post id", postID); err != nil {
		return nil, err
	}
	return s.feed.PostDetail(ctx, postID)
}

// ListPosts returns one page of published posts.
func (s *feedService) ListPosts(ctx context.Context, q domain.PostQuery) (*domain.PostPage, error) {
	q, err := NormalizePostQuery(q)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.feed.ListPosts(ctx, q)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.PostView{}
	}
	return &domain.PostPage{
		Posts:      posts,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPosts: total,
		TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

// GetAuthorProfile returns an author's public profile and recent posts.
func (s *feedService) GetAuthorProfile(ctx context.Context, fullname string) (*domain.AuthorProfile, error) {
	fullname = strings.TrimSpace(fullname)
	if fullname == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "fullname is required")
	}
	return s.feed.AuthorProfile(ctx, fullname, domain.RecentPostsLimit)
}

// GetLikedPosts returns the posts a user liked, most recent like first.
func (s *feedService) GetLikedPosts(ctx context.Context, userID string) ([]domain.LikedPost, error) {
	if err := domain.ValidateID("user id", userID); err != nil {
		return nil, err
	}
	posts, err := s.feed.LikedPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.LikedPost{}
	}
	return posts, nil
}

// NormalizePostQuery applies defaults and rejects out-of-range values.
func NormalizePostQuery(q domain.PostQuery) (domain.PostQuery, error) {
	if q.Page == 0 {
		q.Page = domain.DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = domain.DefaultPageSize
	}
	if q.Page < 1 {
		return q, domain.NewError(domain.ErrInvalidArgument, "page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > domain.MaxPageSize {
		return q, domain.NewError(domain.ErrInvalidArgument, "limit must be between 1 and %d", domain.MaxPageSize)
	}
	switch q.SortBy {
	case "":
		q.SortBy = domain.SortByCreatedAt
	case domain.SortByCreatedAt, domain.SortByUpdatedAt, domain.SortByTitle:
	default:
		return q, domain.NewError(domain.ErrInvalidArgument, "cannot sort by %q", q.SortBy)
	}
	switch strings.ToLower(q.Order) {
	case "", "desc":
		q.Order, q.Ascending = "desc", false
	case "asc":
		q.Order, q.Ascending = "asc", true
	default:
		return q, domain.NewError(domain.ErrInvalidArgument, "order must be asc or desc")
	}
	return q, nil
}
