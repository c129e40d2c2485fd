package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/internal/model"
	"inkwell.io/blog/pkg/logger"
	"inkwell.io/blog/pkg/util"
)

type LikeHandler struct {
	Service domain.LikeService
	Feed    domain.FeedService
	log     *logger.Logger
}

func NewLikeHandler(service domain.LikeService, feed domain.FeedService, log *logger.Logger) *LikeHandler {
	return &LikeHandler{Service: service, Feed: feed, log: log}
}

// Toggle handles POST /likes/toggle/:postId.
func (h *LikeHandler) Toggle(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "unauthorized request")
		return
	}
	liked, err := h.Service.Toggle(c.Request.Context(), c.Param("postId"), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	msg := "Like removed successfully"
	if liked {
		msg = "Like added successfully"
	}
	respond(c, http.StatusOK, model.ToggleLikeResponse{Liked: liked}, msg)
}

// LikedPosts handles GET /likes and GET /users/liked-history.
func (h *LikeHandler) LikedPosts(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "unauthorized request")
		return
	}
	posts, err := h.Feed.GetLikedPosts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, posts, "Liked posts fetched successfully")
}
