package media

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

var supportedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// Metadata holds the best-effort facts we can extract from an image
// file. Every field is optional; chat transports strip most EXIF data.
type Metadata struct {
	Size     *int64  `json:"size,omitempty"`
	Width    *int    `json:"width,omitempty"`
	Height   *int    `json:"height,omitempty"`
	MimeType *string `json:"mime_type,omitempty"`
	TakenAt  *int64  `json:"taken_at,omitempty"`
}

// Probe extracts metadata from a local image file. It never fails: an
// unreadable or remote ref simply yields an empty Metadata.
func Probe(imageRef string) Metadata {
	var meta Metadata

	if imageRef == "" || strings.Contains(imageRef, "://") {
		return meta
	}

	info, err := os.Stat(imageRef)
	if err != nil {
		return meta
	}
	size := info.Size()
	meta.Size = &size

	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(imageRef))); mt != "" {
		meta.MimeType = &mt
	}

	f, err := os.Open(imageRef)
	if err != nil {
		log.Printf("media: failed to open %s for metadata probe: %v", imageRef, err)
		return meta
	}
	defer f.Close()

	if cfg, format, err := image.DecodeConfig(f); err == nil {
		meta.Width = &cfg.Width
		meta.Height = &cfg.Height
		if meta.MimeType == nil {
			mt := "image/" + format
			meta.MimeType = &mt
		}
	}

	// rewind for the EXIF pass
	if _, err := f.Seek(0, 0); err != nil {
		return meta
	}
	if exifData, err := exif.Decode(f); err == nil {
		if taken, err := exifData.DateTime(); err == nil {
			ts := taken.Unix()
			meta.TakenAt = &ts
		}
	}

	return meta
}
