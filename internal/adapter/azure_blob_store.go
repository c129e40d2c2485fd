package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/google/uuid"
	"inkwell.io/blog/internal/domain"
	"inkwell.io/blog/pkg/logger"
)

const uploadBlockSize = int64(1024) * 256 // 256KB

// AzureBlobStore keeps images in a public-read blob container.
type AzureBlobStore struct {
	client    *azblob.Client
	container string
}

// NewAzureBlobStore connects to the storage account and creates the
// container when it does not exist yet.
func NewAzureBlobStore(ctx context.Context, connectionString, container string, log *logger.Logger) (*AzureBlobStore, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	_, err = client.CreateContainer(ctx, container, &azblob.CreateContainerOptions{
		Access: to.Ptr(azblob.PublicAccessTypeBlob),
	})
	if err != nil {
		var respErr *azcore.ResponseError
		if !errors.As(err, &respErr) || respErr.ErrorCode != string(bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("failed to create container %q: %w", container, err)
		}
		log.WithField("container", container).Info("Container already exists, skipping creation")
	}
	return &AzureBlobStore{client: client, container: container}, nil
}

func (s *AzureBlobStore) Upload(ctx context.Context, folder string, file *domain.Upload) (string, error) {
	name := blobName(folder, file.Filename)
	_, err := s.client.UploadStream(ctx, s.container, name, file.Body, &azblob.UploadStreamOptions{
		BlockSize:   uploadBlockSize,
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(file.ContentType)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}
	return s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(name).URL(), nil
}

// Delete removes the blob behind url. Deleting a missing blob succeeds.
func (s *AzureBlobStore) Delete(ctx context.Context, rawURL string) error {
	name, err := blobNameFromURL(s.container, rawURL)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// blobName is folder/<uuid><ext>, keeping the lower-cased client extension.
func blobName(folder, filename string) string {
	return path.Join(folder, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

func blobNameFromURL(container, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", domain.NewError(domain.ErrInvalidArgument, "invalid image url")
	}
	prefix := "/" + container + "/"
	if !strings.HasPrefix(u.Path, prefix) || len(u.Path) == len(prefix) {
		return "", domain.NewError(domain.ErrInvalidArgument, "image %q is not in container %s", rawURL, container)
	}
	return strings.TrimPrefix(u.Path, prefix), nil
}
