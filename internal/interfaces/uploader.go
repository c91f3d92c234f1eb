package interfaces

import "context"

type UploadedFile struct {
	URL      string
	PublicID string
}

type Uploader interface {
	UploadBytes(ctx context.Context, folder, publicID, resourceType string, b []byte) (UploadedFile, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}
