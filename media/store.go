package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Store is the media host contract: persist an original or derived file
// under a relative path, delete it, and resolve its public URL.
type Store interface {
	// Save stores data at the given storage-relative path
	Save(relativePath string, contentType string, data io.Reader) error
	// Delete removes an asset; deleting a missing asset is not an error
	Delete(relativePath string) error
	// PublicURL returns the URL clients use to fetch the asset
	PublicURL(relativePath string) string
}

// LocalStorage implements Store on the local filesystem, served back to
// clients under /media/ by the HTTP layer.
type LocalStorage struct {
	basePath string // absolute path to MEDIA_STORAGE_PATH
	baseURL  string // public base URL, no trailing slash
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}
	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{
		basePath: absBasePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the absolute storage root, for static file serving.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

func (ls *LocalStorage) resolve(relativePath string) (string, error) {
	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(relativePath))
	if !strings.HasPrefix(filepath.Clean(fullPath), ls.basePath) {
		return "", fmt.Errorf("path '%s' resolves outside storage root", relativePath)
	}
	return fullPath, nil
}

// Save writes data to basePath/relativePath, creating parent directories.
func (ls *LocalStorage) Save(relativePath string, contentType string, data io.Reader) error {
	fullPath, err := ls.resolve(relativePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", relativePath, err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", fullPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, data); err != nil {
		return fmt.Errorf("failed to write '%s': %w", fullPath, err)
	}
	return nil
}

// Delete removes the file at basePath/relativePath.
func (ls *LocalStorage) Delete(relativePath string) error {
	fullPath, err := ls.resolve(relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete '%s': %w", fullPath, err)
	}
	return nil
}

// PublicURL maps a storage-relative path to its /media/ URL.
func (ls *LocalStorage) PublicURL(relativePath string) string {
	return ls.baseURL + "/media/" + strings.TrimLeft(filepath.ToSlash(relativePath), "/")
}
