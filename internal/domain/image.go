package domain

import "context"

// ImageStore persists uploaded images and serves them by URL.
type ImageStore interface {
	// Upload stores the file under folder and returns its public URL.
	Upload(ctx context.Context, folder string, file *Upload) (string, error)
	// Delete removes a previously uploaded image by its URL.
	Delete(ctx context.Context, url string) error
}
