// Package binary archives copies of executables observed in decoded exec
// events, keyed by content hash.
package binary

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// Cache provides efficient lookup for binary presence with LRU eviction
type Cache struct {
	cache   *lru.Cache
	binsDir string
}

// NewCache creates a size-constrained binary cache with LRU eviction
func NewCache(size int, binsDir string) (*Cache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(binsDir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		cache:   cache,
		binsDir: binsDir,
	}, nil
}

// CalculateMD5 hashes a file's content.
func CalculateMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HasBinary checks if a binary hash exists in the cache
func (c *Cache) HasBinary(hash string) bool {
	_, found := c.cache.Get(hash)
	return found
}

// GetBinaryPath returns the path where a binary with given hash would be stored
func (c *Cache) GetBinaryPath(hash string) string {
	prefix := hash[:2]
	return filepath.Join(c.binsDir, prefix, hash+".bin")
}

// StoreBinary copies a binary to the storage location based on its hash
func (c *Cache) StoreBinary(sourcePath, hash string) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	prefix := hash[:2]
	dirPath := filepath.Join(c.binsDir, prefix)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return err
	}

	destPath := filepath.Join(dirPath, hash+".bin")
	destFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if err := destFile.Chmod(0444); err != nil {
		log.Printf("Warning: Failed to set permissions on binary: %v", err)
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	c.cache.Add(hash, struct{}{})
	return nil
}

// StoreFromExec hashes and archives the executable named by a decoded exec
// event. Pseudo-filesystem paths are skipped; they are not stable files.
// Returns the hash, or "" when the path was skipped or unreadable.
func (c *Cache) StoreFromExec(exePath string) string {
	if exePath == "" ||
		strings.HasPrefix(exePath, "/proc/") ||
		strings.HasPrefix(exePath, "/dev/") ||
		strings.HasPrefix(exePath, "/sys/") {
		return ""
	}
	hash, err := CalculateMD5(exePath)
	if err != nil {
		return ""
	}
	if !c.HasBinary(hash) {
		if err := c.StoreBinary(exePath, hash); err != nil {
			log.Printf("Error storing binary %s: %v", exePath, err)
			return hash
		}
	}
	return hash
}
