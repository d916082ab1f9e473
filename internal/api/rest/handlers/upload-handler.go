package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/novatube/user-service/internal/helper/utils"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

const maxUploadSize = 5 * 1024 * 1024 // 5MB

// stageUpload saves a multipart image field to the temp dir and returns
// the local path. An absent field yields an empty path with no error; the
// service decides whether the field was required.
func (h *UserHandler) stageUpload(ctx *fiber.Ctx, field string) (string, error) {
	file, err := ctx.FormFile(field)
	if err != nil || file == nil {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return "", utils.BadRequest("Only jpg/jpeg/png/webp images are allowed")
	}
	if file.Size > maxUploadSize {
		return "", utils.BadRequest("File too large (max 5MB)")
	}

	dst := filepath.Join(h.cfg.TempDir, uuid.NewString()+ext)
	if err := ctx.SaveFile(file, dst); err != nil {
		return "", utils.Internal("could not store uploaded file")
	}

	return dst, nil
}

func removeIfExists(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
