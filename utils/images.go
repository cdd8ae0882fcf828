package utils

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var uploadDir = "./static/listingpic"

// SaveListingImage stores an uploaded image under a fresh name and writes a
// 300px thumbnail next to it. Returns the public URL path of the image.
func SaveListingImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	id := uuid.New().String()
	filename := fmt.Sprintf("%s%s", id, ext)

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", err
	}
	dstPath := filepath.Join(uploadDir, filename)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}

	// Thumbnail generation is best-effort; the full image is already saved.
	if err := createThumb(dstPath, id, ext); err != nil {
		log.Printf("Thumbnail generation failed for %s: %v", filename, err)
	}

	return "/static/listingpic/" + filename, nil
}

func createThumb(srcPath, id, ext string) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return err
	}
	thumb := imaging.Fit(img, 300, 300, imaging.Lanczos)
	thumbPath := filepath.Join(uploadDir, fmt.Sprintf("%s_thumb%s", id, ext))
	return imaging.Save(thumb, thumbPath)
}

// RemoveListingImages deletes stored images (and their thumbnails) for a
// listing. Failures are logged, never surfaced.
func RemoveListingImages(urls []string) {
	for _, u := range urls {
		name := filepath.Base(u)
		if name == "" || name == "." {
			continue
		}
		path := filepath.Join(uploadDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove image %s: %v", path, err)
		}
		ext := filepath.Ext(name)
		thumb := filepath.Join(uploadDir, fmt.Sprintf("%s_thumb%s", name[:len(name)-len(ext)], ext))
		if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove thumbnail %s: %v", thumb, err)
		}
	}
}
