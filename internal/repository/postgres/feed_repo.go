package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
	"inkwell.io/blog/internal/domain"
)

const postColumns = "posts.id, posts.title, posts.description, posts.image, posts.is_published, " +
	"posts.created_at, posts.updated_at, " +
	"users.id AS author_id, users.fullname AS author_fullname, users.avatar AS author_avatar"

var sortColumns = map[string]string{
	domain.SortByCreatedAt: "posts.created_at",
	domain.SortByUpdatedAt: "posts.updated_at",
	domain.SortByTitle:     "posts.title",
}

// snapshot runs several reads against one consistent view of the data.
var snapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// postRow is a post LEFT JOINed with its author.
type postRow struct {
	ID             string
	Title          string
	Description    string
	Image          string
	IsPublished    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorID       *string
	AuthorFullname *string
	AuthorAvatar   *string
	LikesCount     int64
	LikedAt        time.Time
}

func (r postRow) view() domain.PostView {
	v := domain.PostView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		IsPublished: r.IsPublished,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.AuthorID != nil {
		v.Author = &domain.AuthorSummary{ID: *r.AuthorID}
		if r.AuthorFullname != nil {
			v.Author.Fullname = *r.AuthorFullname
		}
		if r.AuthorAvatar != nil {
			v.Author.Avatar = *r.AuthorAvatar
		}
	}
	return v
}

func views(rows []postRow) []domain.PostView {
	out := make([]domain.PostView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.view())
	}
	return out
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) domain.FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) posts(tx *gorm.DB) *gorm.DB {
	return tx.Table("posts").Joins("LEFT JOIN users ON users.id = posts.author_id")
}

func (r *feedRepository) PostDetail(ctx context.Context, postID string) (*domain.PostDetail, error) {
	var rows []postRow
	err := r.posts(r.db.WithContext(ctx)).
		Select(postColumns+", (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count").
		Where("posts.id = ?", postID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.NewError(domain.ErrNotFound, "post not found")
	}
	return &domain.PostDetail{PostView: rows[0].view(), LikesCount: rows[0].LikesCount}, nil
}

func (r *feedRepository) ListPosts(ctx context.Context, q domain.PostQuery) ([]domain.PostView, int64, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[domain.SortByCreatedAt]
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}

	var (
		total int64
		rows  []postRow
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Post{}).Where("is_published = ?", true).Count(&total).Error; err != nil {
			return err
		}
		return r.posts(tx).
			Select(postColumns).
			Where("posts.is_published = ?", true).
			Order(fmt.Sprintf("%s %s, posts.id ASC", column, direction)).
			Limit(q.Limit).
			Offset(q.Offset()).
			Scan(&rows).Error
	}, snapshot)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return views(rows), total, nil
}

func (r *feedRepository) AuthorProfile(ctx context.Context, fullname string, limit int) (*domain.AuthorProfile, error) {
	var profile *domain.AuthorProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author domain.User
		if err := tx.Where("fullname = ?", fullname).Order("created_at ASC").First(&author).Error; err != nil {
			if nf := notFound(err, "user"); nf != nil {
				return nf
			}
			return fmt.Errorf("failed to get author: %w", err)
		}
		var rows []postRow
		err := r.posts(tx).
			Select(postColumns).
			Where("posts.author_id = ? AND posts.is_published = ?", author.ID, true).
			Order("posts.created_at DESC").
			Limit(limit).
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to get author posts: %w", err)
		}
		profile = &domain.AuthorProfile{
			ID:          author.ID,
			Fullname:    author.Fullname,
			Avatar:      author.Avatar,
			CreatedAt:   author.CreatedAt,
			RecentPosts: views(rows),
		}
		return nil
	}, snapshot)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *feedRepository) LikedPosts(ctx context.Context, userID string) ([]domain.LikedPost, error) {
	var rows []postRow
	err := r.db.WithContext(ctx).Table("likes").
		Select(postColumns+", likes.created_at AS liked_at").
		Joins("JOIN posts ON posts.id = likes.post_id").
		Joins("LEFT JOIN users ON users.id = posts.author_id").
		Where("likes.liked_by = ?", userID).
		Order("likes.created_at DESC, posts.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get liked posts: %w", err)
	}
	out := make([]domain.LikedPost, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LikedPost{PostView: row.view(), LikedAt: row.LikedAt})
	}
	return out, nil
}
