package adapter

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"inkwell.io/blog/internal/domain"
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

// CloudinaryStore keeps images as Cloudinary image assets.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore configures the client from a cloudinary:// URL.
// Every asset is placed below root.
func NewCloudinaryStore(cloudinaryURL, root string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: root}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, folder string, file *domain.Upload) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, file.Body, uploader.UploadParams{
		Folder:       path.Join(s.folder, folder),
		PublicID:     uuid.NewString(),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no url for %s", res.PublicID)
	}
	return res.SecureURL, nil
}

// Delete destroys the asset behind url. An unknown asset is not an error.
func (s *CloudinaryStore) Delete(ctx context.Context, rawURL string) error {
	publicID, err := publicIDFromURL(rawURL)
	if err != nil {
		return err
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: "image"})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary rejected delete: %s", res.Error.Message)
	}
	return nil
}

// publicIDFromURL turns
// https://res.cloudinary.com/<cloud>/image/upload/v123/<folder>/<id>.png
// into <folder>/<id>.
func publicIDFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", domain.NewError(domain.ErrInvalidArgument, "invalid image url")
	}
	_, rest, ok := strings.Cut(u.Path, "/upload/")
	if !ok || rest == "" {
		return "", domain.NewError(domain.ErrInvalidArgument, "image %q is not a cloudinary upload", rawURL)
	}
	segments := strings.Split(rest, "/")
	if len(segments) > 1 && versionSegment.MatchString(segments[0]) {
		segments = segments[1:]
	}
	id := strings.Join(segments, "/")
	return strings.TrimSuffix(id, path.Ext(id)), nil
}
