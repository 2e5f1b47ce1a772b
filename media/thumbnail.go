package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const thumbnailJpegQuality = 80

// GenerateThumbnail creates a preview thumbnail with a UUID filename
// and returns the full path where it was saved. Used to give the
// dashboard a small rendition of a matched image.
func GenerateThumbnail(originalImagePath, thumbnailDir string, maxWidth, maxHeight int) (string, error) {
	if err := os.MkdirAll(thumbnailDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory %s: %w", thumbnailDir, err)
	}

	img, err := imaging.Open(originalImagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", originalImagePath, err)
	}

	thumb := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	thumbFilename := uuid.NewString() + ".jpg"
	thumbnailSavePath := filepath.Join(thumbnailDir, thumbFilename)

	if err := imaging.Save(thumb, thumbnailSavePath, imaging.JPEGQuality(thumbnailJpegQuality)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail to %s: %w", thumbnailSavePath, err)
	}
	return thumbnailSavePath, nil
}
