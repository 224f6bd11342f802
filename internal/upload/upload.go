// Package upload stores user-submitted files on local disk and hands
// back the public path they are served from.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxImageSize = 2 << 20 // 2 MiB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var ErrUnsupportedType = errors.New("unsupported image format, allowed: jpg, jpeg, png, webp")
var ErrTooLarge = fmt.Errorf("file too large, maximum size is %d bytes", maxImageSize)

// Store writes files under a base directory and serves them at /uploads.
type Store struct {
	dir string
}

// NewStore ensures the base directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir is the on-disk base directory, used to mount the file server.
func (s *Store) Dir() string { return s.dir }

// SaveImage validates and stores an uploaded image under a random name.
// It returns the public path, e.g. "/uploads/3f1c....png".
func (s *Store) SaveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", ErrUnsupportedType
	}
	if header.Size > maxImageSize {
		return "", ErrTooLarge
	}

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxImageSize+1)); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return "/uploads/" + name, nil
}
