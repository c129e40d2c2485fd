package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"inkwell.io/blog/internal/domain"
)

// maxToggleAttempts bounds the delete/insert rounds lost to concurrent toggles.
const maxToggleAttempts = 5

type likeService struct {
	likes domain.LikeRepository
	posts domain.PostRepository
}

func NewLikeService(likes domain.LikeRepository, posts domain.PostRepository) domain.LikeService {
	return &likeService{likes: likes, posts: posts}
}

// Toggle flips the caller's like on a post and reports the new state.
// Each call performs exactly one successful delete or insert, so the final
// state after N concurrent calls depends only on the parity of N.
func (s *likeService) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	if err := domain.ValidateID("post id", postID); err != nil {
		return false, err
	}
	if err := domain.ValidateID("user id", userID); err != nil {
		return false, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return false, err
	}

	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		removed, err := s.likes.Delete(ctx, postID, userID)
		if err != nil {
			return false, fmt.Errorf("failed to remove like: %w", err)
		}
		if removed {
			return false, nil
		}
		err = s.likes.Create(ctx, &domain.Like{ID: uuid.NewString(), PostID: postID, LikedBy: userID})
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			if errors.Is(err, domain.ErrNotFound) {
				return false, err
			}
			return false, fmt.Errorf("failed to add like: %w", err)
		}
		// another toggle inserted between our delete and insert; go again
	}
	return false, domain.NewError(domain.ErrConflict, "like is being modified concurrently, retry")
}
