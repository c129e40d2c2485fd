package service

import (
	"path/filepath"
	"strings"

	"inkwell.io/blog/internal/domain"
)

// MaxImageSize bounds uploaded avatars and post images.
const MaxImageSize = 10 << 20

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ValidateImage rejects uploads that are empty, too large or not an image.
func ValidateImage(file *domain.Upload) error {
	if file == nil || file.Body == nil || file.Size == 0 {
		return domain.NewError(domain.ErrInvalidArgument, "image file is required")
	}
	if file.Size > MaxImageSize {
		return domain.NewError(domain.ErrInvalidArgument, "image must be at most 10MB")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	expected, ok := imageExtensions[ext]
	if !ok {
		return domain.NewError(domain.ErrInvalidArgument, "unsupported image type %q", ext)
	}
	ct := strings.ToLower(file.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		file.ContentType = expected
		return nil
	}
	if !strings.HasPrefix(ct, "image/") {
		return domain.NewError(domain.ErrInvalidArgument, "unsupported content type %q", file.ContentType)
	}
	return nil
}
