package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"inkwell.io/blog/internal/domain"
)

// formImage opens an optional multipart file. A nil Upload means the field
// was absent; release must always be called.
func formImage(c *gin.Context, field string) (*domain.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, domain.NewError(domain.ErrInvalidArgument, "invalid %s upload", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, domain.NewError(domain.ErrInvalidArgument, "cannot read %s upload", field)
	}
	upload := &domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
	return upload, func() { _ = f.Close() }, nil
}

func bindError(err error) error {
	return domain.NewError(domain.ErrInvalidArgument, "invalid request: %s", err.Error())
}
