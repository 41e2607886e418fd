package camera

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"field-visit-service/internal/ports"
)

// FilePhotoSource reads a capture from disk. It stands in for the
// front camera in headless runs.
type FilePhotoSource struct {
	Path string
}

func NewFilePhotoSource(path string) *FilePhotoSource {
	return &FilePhotoSource{Path: path}
}

func (s *FilePhotoSource) Capture(ctx context.Context) (ports.Photo, error) {
	if err := ctx.Err(); err != nil {
		return ports.Photo{}, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return ports.Photo{}, fmt.Errorf("capture photo: read %q: %w", s.Path, err)
	}

	mime := "image/jpeg"
	if strings.EqualFold(filepath.Ext(s.Path), ".png") {
		mime = "image/png"
	}

	return ports.Photo{
		Name: filepath.Base(s.Path),
		MIME: mime,
		Data: data,
	}, nil
}
