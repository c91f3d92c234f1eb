package cloudinary

import (
	"bytes"
	"context"
	"errors"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/interfaces"
)

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud}
}

func (u *CloudinaryUploader) UploadBytes(
	ctx context.Context,
	folder string,
	publicID string,
	resourceType string,
	b []byte,
) (interfaces.UploadedFile, error) {
	res, err := u.cld.Upload.Upload(
		ctx,
		bytes.NewReader(b),
		uploader.UploadParams{
			Folder:       folder,
			PublicID:     publicID,
			ResourceType: resourceType,
			Overwrite:    api.Bool(true),
		},
	)
	if err != nil {
		return interfaces.UploadedFile{}, err
	}
	if res.Error.Message != "" {
		return interfaces.UploadedFile{}, errors.New(res.Error.Message)
	}

	return interfaces.UploadedFile{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (u *CloudinaryUploader) Destroy(ctx context.Context, publicID, resourceType string) error {
	if publicID == "" {
		return nil
	}
	res, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}
