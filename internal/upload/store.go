// Package upload stores profile images on local disk. Each step of the
// pipeline — validate, write, swap — returns an explicit result so the
// caller can stop at the first failure.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrBadPath         = errors.New("path escapes upload root")
)

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store writes files under a single root directory. Stored paths are
// relative to the root so the records stay valid if the root moves.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// SaveProfileImage validates the extension and writes the image to
// <root>/<userID>/profile_picture/<uuid>_<name>. The random prefix keeps
// repeated uploads of the same filename from colliding. Returns the
// relative path in slash form.
func (s *Store) SaveProfileImage(userID, originalName string, src io.Reader) (string, error) {
	name := strings.ReplaceAll(originalName, " ", "")
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExts[ext] {
		return "", ErrUnsupportedType
	}

	dir := filepath.Join(s.root, userID, "profile_picture")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	fileName := uuid.NewString() + "_" + name
	dst, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(userID, "profile_picture", fileName)), nil
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *Store) Remove(relPath string) error {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return ErrBadPath
	}

	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
