// Package upload stores user-submitted images. The storage backend is a
// collaborator behind the Store interface; the default implementation
// writes to local disk and the files are served statically.
package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/iliyamo/virtual-closet/internal/utils"
)

// Result identifies a stored image.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Store saves raw image bytes and returns where they ended up.
type Store interface {
	Save(ctx context.Context, data []byte, filename string) (Result, error)
}

// DiskStore writes images under Dir with random hex names and exposes
// them under BaseURL.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save writes the bytes to a new file. The public id is the generated
// name without extension, mirroring what a hosted image service returns.
func (s *DiskStore) Save(_ context.Context, data []byte, filename string) (Result, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Result{}, err
	}
	id, err := utils.RandomID(16)
	if err != nil {
		return Result{}, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	name := id + ext
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return Result{}, err
	}
	return Result{URL: s.BaseURL + "/" + name, PublicID: id}, nil
}
