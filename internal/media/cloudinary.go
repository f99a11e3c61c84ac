package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores user-supplied images and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (url string, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

type cloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL.
func NewCloudinaryUploader(cloudinaryURL string) (Uploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &cloudinaryUploader{cld: cld}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder string) (string, string, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", "", fmt.Errorf("upload image: %w", err)
	}
	return result.SecureURL, result.PublicID, nil
}

func (u *cloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// ErrUploadsDisabled is returned when no media store is configured.
var ErrUploadsDisabled = errors.New("media uploads are not configured")

type disabledUploader struct{}

// NewDisabledUploader returns an uploader that rejects every call. Used when
// no cloudinary:// URL is configured so the rest of the API still runs.
func NewDisabledUploader() Uploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(ctx context.Context, file io.Reader, folder string) (string, string, error) {
	return "", "", ErrUploadsDisabled
}

func (disabledUploader) Delete(ctx context.Context, publicID string) error {
	return ErrUploadsDisabled
}
