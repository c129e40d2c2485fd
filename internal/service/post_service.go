package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/internal/util"
	"inkwell.io/blog/pkg/logger"
)

const postImageFolder = "posts"

type postService struct {
	posts  domain.PostRepository
	images domain.ImageStore
	log    *logger.Logger
}

// NewPostService creates a new PostService.
func NewPostService(posts domain.PostRepository, images domain.ImageStore, log *logger.Logger) domain.PostService {
	return &postService{posts: posts, images: images, log: log}
}

// CreatePost publishes a new post with a cover image.
func (s *postService) CreatePost(ctx context.Context, authorID string, req domain.CreatePostRequest, image *domain.Upload) (*domain.Post, error) {
	if err := domain.ValidateID("author id", authorID); err != nil {
		return nil, err
	}
	title := util.PlainText(req.Title)
	description := util.RichText(req.Description)
	if title == "" || description == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "title and description are required")
	}
	if image == nil {
		return nil, domain.NewError(domain.ErrInvalidArgument, "image file is required")
	}
	if err := ValidateImage(image); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Upload(ctx, postImageFolder, image)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	post := &domain.Post{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Image:       imageURL,
		AuthorID:    authorID,
		IsPublished: true,
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.discardImage(ctx, imageURL)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// UpdatePost updates an existing post if the author matches.
func (s *postService) UpdatePost(ctx context.Context, postID, authorID string, req domain.UpdatePostRequest, image *domain.Upload) (*domain.Post, error) {
	if err := domain.ValidateID("post id", postID); err != nil {
		return nil, err
	}
	if req.Title == nil && req.Description == nil && req.IsPublished == nil && image == nil {
		return nil, domain.NewError(domain.ErrInvalidArgument, "nothing to update")
	}
	if image != nil {
		if err := ValidateImage(image); err != nil {
			return nil, err
		}
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		return nil, domain.NewError(domain.ErrForbidden, "only the author can update this post")
	}
	if req.Title != nil {
		post.Title = util.PlainText(*req.Title)
		if post.Title == "" {
			return nil, domain.NewError(domain.ErrInvalidArgument, "title must not be empty")
		}
	}
	if req.Description != nil {
		post.Description = util.RichText(*req.Description)
		if post.Description == "" {
			return nil, domain.NewError(domain.ErrInvalidArgument, "description must not be empty")
		}
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	oldImage := post.Image
	if image != nil {
		url, err := s.images.Upload(ctx, postImageFolder, image)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		post.Image = url
	}
	if err := s.posts.Update(ctx, post); err != nil {
		if image != nil {
			s.discardImage(ctx, post.Image)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if image != nil && oldImage != "" {
		s.discardImage(ctx, oldImage)
	}
	return post, nil
}

// DeletePost deletes a post and its likes if the author matches.
func (s *postService) DeletePost(ctx context.Context, postID, authorID string) error {
	if err := domain.ValidateID("post id", postID); err != nil {
		return err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return domain.NewError(domain.ErrForbidden, "only the author can delete this post")
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if post.Image != "" {
		s.discardImage(ctx, post.Image)
	}
	return nil
}

func (s *postService) discardImage(ctx context.Context, url string) {
	if err := s.images.Delete(ctx, url); err != nil {
		s.log.WithFields(logrus.Fields{"url": url, "error": err.Error()}).Warn("failed to delete image")
	}
}
