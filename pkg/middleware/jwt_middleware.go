package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// AccessTokenCookie is the cookie carrying the access token.
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie is the cookie carrying the refresh token.
	RefreshTokenCookie = "refreshToken"
)

// AccessTokenFromRequest returns the access token presented by the caller.
// The accessToken cookie wins over the Authorization header when both are
// set; an empty string means no token was presented.
func AccessTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	return BearerToken(c.GetHeader("Authorization"))
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
