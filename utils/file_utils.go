// utils/file_utils.go
package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum upload size (10MB)
	maxFileSize = 10 * 1024 * 1024
	// Thumbnail width in pixels; height keeps the aspect ratio
	thumbnailWidth = 320
)

// Allowed image extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ValidateImageUpload checks the extension and size of an upload before any
// bytes are decoded.
func ValidateImageUpload(filename string, size int64) error {
	if size > maxFileSize {
		return fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif")
	}

	return nil
}

// InitializeStorage creates the directories used for file storage.
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "photos"),
		filepath.Join(uploadBaseDir, "thumbnails"),
		filepath.Join(uploadBaseDir, "profiles"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// SaveImage decodes an uploaded image, re-encodes it as JPEG under
// uploads/<subDir> and writes a thumbnail next to it. Re-encoding through a
// decoded pixel buffer drops EXIF and every other metadata block from the
// original file. Returns the URLs for the image and its thumbnail.
func SaveImage(data []byte, subDir string) (string, string, error) {
	if len(data) > maxFileSize {
		return "", "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	// AutoOrientation applies the EXIF rotation before the metadata is lost.
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %v", err)
	}

	if err := InitializeStorage(); err != nil {
		return "", "", err
	}

	filename := uuid.New().String() + ".jpg"

	fullPath := filepath.Join(uploadBaseDir, subDir, filename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %v", err)
	}
	if err := imaging.Save(img, fullPath, imaging.JPEGQuality(85)); err != nil {
		return "", "", fmt.Errorf("failed to save image: %v", err)
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(uploadBaseDir, "thumbnails", filename)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(85)); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	imageURL := fmt.Sprintf("%s/%s/%s", baseURL, subDir, filename)
	thumbURL := fmt.Sprintf("%s/thumbnails/%s", baseURL, filename)
	return imageURL, thumbURL, nil
}

// RemoveStoredFile deletes a previously saved upload given its URL. Missing
// files are not an error; the record is what matters.
func RemoveStoredFile(fileURL string) {
	if !strings.HasPrefix(fileURL, baseURL+"/") {
		return
	}
	rel := strings.TrimPrefix(fileURL, baseURL+"/")
	os.Remove(filepath.Join(uploadBaseDir, filepath.FromSlash(rel)))
}
