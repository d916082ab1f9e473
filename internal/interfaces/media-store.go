package interfaces

import "context"

// MediaStore is the external asset service contract. Upload consumes a
// local temporary file and removes it after the attempt, success or not.
// An empty URL with a nil error means the upload soft-failed.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Destroy(ctx context.Context, publicID string) error

	// PublicIDFromURL derives the deletable identifier from a URL
	// previously returned by Upload.
	PublicIDFromURL(url string) string
}
