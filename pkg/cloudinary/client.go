package cloudinary

import (
	"github.com/cloudinary/cloudinary-go/v2"
)

// New reads credentials from the given CLOUDINARY_URL, or from the environment when empty.
func New(cloudinaryURL string) (*cloudinary.Cloudinary, error) {
	if cloudinaryURL != "" {
		return cloudinary.NewFromURL(cloudinaryURL)
	}
	return cloudinary.New()
}
