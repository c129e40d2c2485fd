package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/internal/model"
	"inkwell.io/blog/pkg/logger"
)

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, model.Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func respondFailure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}

// respondError maps a service error onto its HTTP status. Unclassified
// errors are logged and reported without detail.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"error":  err.Error(),
		}).Error("request failed")
		respondFailure(c, status, "something went wrong")
		return
	}
	respondFailure(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
