package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/internal/model"
	pkgmiddleware "inkwell.io/blog/pkg/middleware"
	"inkwell.io/blog/pkg/util"
)

// Authenticator resolves an access token into the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// AuthMiddleware rejects requests without a valid session and stores the
// caller on the context for downstream handlers.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := pkgmiddleware.AccessTokenFromRequest(c)
		if token == "" {
			abortUnauthorized(c, "unauthorized request")
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		util.SetUserID(c, user.ID)
		util.SetUser(c, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
		Success:    false,
	})
}
