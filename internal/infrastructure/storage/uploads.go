// Package storage persists uploaded profile photos on local disk and hands
// back the public path stored on the user document.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	photoSubdir  = "profile_photos"
	publicPrefix = "/static/uploads"
	defaultExt   = ".jpg"
)

// UploadStore saves files under a base directory that is served statically.
type UploadStore struct {
	baseDir string
}

func NewUploadStore(baseDir string) *UploadStore {
	return &UploadStore{baseDir: baseDir}
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SaveProfilePhoto stores the photo as <prefix><ext>, overwriting any
// previous photo for the same prefix, and returns the public path.
func (s *UploadStore) SaveProfilePhoto(prefix, originalName string, r io.Reader) (string, error) {
	safePrefix := sanitize(prefix)
	if safePrefix == "" {
		safePrefix = "user"
	}

	ext := defaultExt
	if raw := strings.ToLower(filepath.Ext(originalName)); raw != "" {
		if cleaned := sanitize(raw[1:]); cleaned != "" {
			ext = "." + cleaned
		}
	}

	dir := filepath.Join(s.baseDir, photoSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := safePrefix + ext
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", publicPrefix, photoSubdir, name), nil
}

func sanitize(s string) string {
	return unsafeNameChars.ReplaceAllString(s, "")
}
