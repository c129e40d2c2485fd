package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/pkg/logger"
	"inkwell.io/blog/pkg/util"
)

// PostHandler handles HTTP requests for blog posts.
type PostHandler struct {
	Service domain.PostService
	Feed    domain.FeedService
	log     *logger.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service domain.PostService, feed domain.FeedService, log *logger.Logger) *PostHandler {
	return &PostHandler{Service: service, Feed: feed, log: log}
}

// GetPosts handles GET /posts?page=&limit=&sortBy=&order=.
func (h *PostHandler) GetPosts(c *gin.Context) {
	var q domain.PostQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	page, err := h.Feed.ListPosts(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, page, "Posts fetched successfully")
}

// GetPost handles GET /posts/getPost/:postId.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.Feed.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, post, "Post fetched successfully")
}

// PublishPost handles POST /posts/publishPost (multipart with an image file).
func (h *PostHandler) PublishPost(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "unauthorized request")
		return
	}
	var req domain.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	image, release, err := formImage(c, "image")
	defer release()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	post, err := h.Service.CreatePost(c.Request.Context(), userID, req, image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, post, "Post published successfully")
}

// UpdatePost handles PATCH /posts/updatePost/:postId. Every field and the
// image are optional.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "unauthorized request")
		return
	}
	var req domain.UpdatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	image, release, err := formImage(c, "image")
	defer release()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	post, err := h.Service.UpdatePost(c.Request.Context(), c.Param("postId"), userID, req, image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, post, "Post updated successfully")
}

// DeletePost handles DELETE /posts/deletePost/:postId.
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "unauthorized request")
		return
	}
	if err := h.Service.DeletePost(c.Request.Context(), c.Param("postId"), userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Post deleted successfully")
}
