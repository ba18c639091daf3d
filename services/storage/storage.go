package storage

import (
	"context"
	"fmt"
	"path"

	"homestay/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryImageStore uploads into folders under a common root.
type CloudinaryImageStore struct {
	cld  *cloudinary.Cloudinary
	root string
}

// NewCloudinaryImageStore creates a store rooted at folder.
func NewCloudinaryImageStore(cld *cloudinary.Cloudinary, folder string) *CloudinaryImageStore {
	return &CloudinaryImageStore{cld: cld, root: folder}
}

// Upload sends the local file to Cloudinary and returns its secure URL and public id.
func (s *CloudinaryImageStore) Upload(ctx context.Context, img models.Image, folder string) (*models.StoredImage, error) {
	uploadParams := uploader.UploadParams{
		Folder: path.Join(s.root, folder),
	}
	result, err := s.cld.Upload.Upload(ctx, img.Path, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("CloudinaryImageStore: failed to upload %s: %w", img.Filename, err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("CloudinaryImageStore: upload of %s rejected: %s", img.Filename, result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("CloudinaryImageStore: no public ID returned")
	}
	return &models.StoredImage{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete removes an image given its public ID.
func (s *CloudinaryImageStore) Delete(ctx context.Context, publicID string) error {
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("CloudinaryImageStore: failed to delete %s: %w", publicID, err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("CloudinaryImageStore: delete of %s rejected: %s", publicID, result.Error.Message)
	}
	return nil
}
