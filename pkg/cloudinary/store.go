package cloudinary

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type MediaStore struct {
	cld    *cld.Cloudinary
	folder string
}

func NewMediaStore(cloud *cld.Cloudinary, folder string) *MediaStore {
	return &MediaStore{cld: cloud, folder: folder}
}

// Upload pushes a locally staged file and returns its durable URL. The
// local file is removed after the attempt, success or failure. A failed
// upload yields an empty URL, not an error: the caller decides how to
// surface the absence.
func (s *MediaStore) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", nil
	}
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			log.Printf("remove temp file %s error: %v", localPath, err)
		}
	}()

	f, err := os.Open(localPath)
	if err != nil {
		log.Printf("open temp file %s error: %v", localPath, err)
		return "", nil
	}
	defer f.Close()

	publicID := strings.TrimSuffix(filepath.Base(localPath), filepath.Ext(localPath)) + "-" + uuid.NewString()

	res, err := s.cld.Upload.Upload(ctx, f, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		log.Printf("cloudinary upload error: %v", err)
		return "", nil
	}

	return res.SecureURL, nil
}

func (s *MediaStore) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	return err
}

// PublicIDFromURL derives the deletable identifier from a delivery URL:
// the last path segment with its extension stripped. Cloudinary scopes
// public ids with the upload folder, so the store's folder prefix is
// re-applied.
func (s *MediaStore) PublicIDFromURL(rawURL string) string {
	segment := ExtractPublicID(rawURL)
	if segment == "" {
		return ""
	}
	if s.folder != "" {
		return s.folder + "/" + segment
	}
	return segment
}

// ExtractPublicID returns the last path segment of a URL without its
// extension or query string.
func ExtractPublicID(rawURL string) string {
	segment := strings.TrimSpace(rawURL)
	if segment == "" {
		return ""
	}

	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	if i := strings.Index(segment, "?"); i >= 0 {
		segment = segment[:i]
	}
	return strings.TrimSuffix(segment, filepath.Ext(segment))
}
