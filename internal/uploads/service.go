package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/avelarsoto/gallery-backend/pkg/errors"
)

// Namespace is the logical subpath of the public file area that holds
// gallery images. Stored paths are always relative to the public root,
// e.g. "gallery/3f2a....png".
const Namespace = "gallery"

const sniffLen = 512

// allowedImageTypes maps accepted file extensions to the sniffed content
// types they must match.
var allowedImageTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
}

// Service persists uploaded image files into the public file area.
type Service interface {
	// Store validates every file in the batch and then writes each one,
	// returning the assigned relative paths in submission order. A single
	// invalid file rejects the whole batch before any byte is written.
	// Files already written are not cleaned up when a later write fails.
	Store(ctx context.Context, field string, files []*multipart.FileHeader) ([]string, error)
}

type service struct {
	root     string
	maxBytes int64
}

// NewService constructs an upload service rooted at the public file area.
func NewService(root string, maxBytes int64) (Service, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("uploads root required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{root: root, maxBytes: maxBytes}, nil
}

func (s *service) Store(ctx context.Context, field string, files []*multipart.FileHeader) ([]string, error) {
	if field == "" {
		field = "images"
	}

	for i, header := range files {
		if err := s.validate(header); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{fmt.Sprintf("%s.%d", field, i): err.Error()})
		}
	}

	dir := filepath.Join(s.root, Namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prepare upload directory")
	}

	paths := make([]string, 0, len(files))
	for _, header := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
		if err := s.write(header, filepath.Join(dir, name)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist image")
		}
		paths = append(paths, Namespace+"/"+name)
	}
	return paths, nil
}

func (s *service) validate(header *multipart.FileHeader) error {
	if header == nil {
		return fmt.Errorf("is not a valid file")
	}
	if header.Size > s.maxBytes {
		return fmt.Errorf("must be at most %d bytes", s.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	accepted, ok := allowedImageTypes[ext]
	if !ok {
		return fmt.Errorf("must be a jpg, jpeg, or png image")
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("could not be read")
	}
	defer file.Close()

	buf := make([]byte, sniffLen)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("could not be read")
	}

	detected := http.DetectContentType(buf[:n])
	for _, want := range accepted {
		if detected == want {
			return nil
		}
	}
	return fmt.Errorf("must be a jpg, jpeg, or png image")
}

func (s *service) write(header *multipart.FileHeader, dest string) error {
	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}
