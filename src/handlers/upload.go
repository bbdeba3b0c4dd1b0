package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	maxUploadSize  = 10 << 20 // 10 MB
	photoURLPrefix = "/uploads/expenses/"
)

// PhotoStore keeps expense receipts on local disk under Dir, served at /uploads/expenses/.
type PhotoStore struct {
	Dir string
	now func() time.Time
}

func NewPhotoStore(dir string) *PhotoStore {
	return &PhotoStore{Dir: dir, now: time.Now}
}

// Save writes the upload as <unixmillis>-<name> and returns its public URL.
func (s *PhotoStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), filepath.Base(fh.Filename))
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return photoURLPrefix + name, nil
}

// Remove deletes the file behind a URL returned by Save. Missing files are ignored.
func (s *PhotoStore) Remove(url string) {
	if !strings.HasPrefix(url, photoURLPrefix) {
		return
	}
	path := filepath.Join(s.Dir, filepath.Base(strings.TrimPrefix(url, photoURLPrefix)))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("ERROR: Failed to remove photo %s: %v", path, err)
	}
}
