package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/internal/model"
	"inkwell.io/blog/pkg/logger"
	"inkwell.io/blog/pkg/middleware"
	"inkwell.io/blog/pkg/util"
)

// CookieConfig controls the session cookies issued on login and refresh.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// UserHandler handles account and session HTTP requests.
type UserHandler struct {
	Service domain.AuthService
	Feed    domain.FeedService
	cookies CookieConfig
	log     *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service domain.AuthService, feed domain.FeedService, cookies CookieConfig, log *logger.Logger) *UserHandler {
	return &UserHandler{Service: service, Feed: feed, cookies: cookies, log: log}
}

// Register handles POST /users/register (multipart with an avatar file).
func (h *UserHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	avatar, release, err := formImage(c, "avatar")
	defer release()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.Service.Register(c.Request.Context(), req, avatar)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login handles POST /users/login and sets the session cookies.
func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	resp, err := h.Service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setSessionCookies(c, resp.TokenPair)
	respond(c, http.StatusOK, resp, "User logged in successfully")
}

// Logout handles POST /users/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "unauthorized request")
		return
	}
	if err := h.Service.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.clearSessionCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out")
}

// CurrentUser handles GET /users/current-user.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, ok := util.GetUser[*domain.User](c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "unauthorized request")
		return
	}
	respond(c, http.StatusOK, user, "Current user fetched successfully")
}

// ChangePassword handles PATCH /users/change-password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := util.GetUserID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "unauthorized request")
		return
	}
	var req domain.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	if err := h.Service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

// AuthorProfile handles GET /users/author-profile/:fullname.
func (h *UserHandler) AuthorProfile(c *gin.Context) {
	profile, err := h.Feed.GetAuthorProfile(c.Request.Context(), c.Param("fullname"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, profile, "Author profile fetched successfully")
}

// RefreshToken handles POST /users/refresh-token. The token comes from the
// refreshToken cookie or, failing that, the request body.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req model.RefreshTokenRequest
		// an empty or unparsable body leaves the token empty
		_ = c.ShouldBind(&req)
		token = req.RefreshToken
	}
	pair, err := h.Service.RefreshToken(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setSessionCookies(c, *pair)
	respond(c, http.StatusOK, pair, "Access token refreshed")
}

func (h *UserHandler) setSessionCookies(c *gin.Context, pair domain.TokenPair) {
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(h.cookies.AccessTTL.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken, int(h.cookies.RefreshTTL.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *UserHandler) clearSessionCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
}
