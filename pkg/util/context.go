package util

import (
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "user_id"
	userKey   = "user"
)

// SetUserID stores the authenticated user id on the request context.
func SetUserID(c *gin.Context, id string) {
	c.Set(userIDKey, id)
}

// GetUserID extracts the authenticated user id set by the auth middleware.
func GetUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// SetUser stores an arbitrary user projection on the request context.
func SetUser(c *gin.Context, user any) {
	c.Set(userKey, user)
}

// GetUser returns the user projection stored by SetUser.
func GetUser[T any](c *gin.Context) (T, bool) {
	var zero T
	v, ok := c.Get(userKey)
	if !ok {
		return zero, false
	}
	u, ok := v.(T)
	return u, ok
}
